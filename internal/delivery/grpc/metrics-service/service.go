package metricsservice

import (
	"context"

	"github.com/ylevin1989/hyperlift-creator-cabinet-sub000/internal/entity"
	"google.golang.org/grpc"
)

const (
	serviceName = "metrics.MetricsService"

	extractMethod       = "/" + serviceName + "/Extract"
	followerCountMethod = "/" + serviceName + "/ExtractFollowerCount"
	computeBonusMethod  = "/" + serviceName + "/ComputeBonus"
)

type ExtractRequest struct {
	URL string `msgpack:"url"`
}

type ExtractResponse struct {
	Result entity.ExtractResult `msgpack:"result"`
}

type FollowerCountRequest struct {
	URL string `msgpack:"url"`
}

type FollowerCountResponse struct {
	Count int64 `msgpack:"count"`
}

type ComputeBonusResponse struct {
	Bonus float64 `msgpack:"bonus"`
}

// MetricsServiceServer - серверная часть metrics.MetricsService
type MetricsServiceServer interface {
	Extract(ctx context.Context, req *ExtractRequest) (*ExtractResponse, error)
	ExtractFollowerCount(ctx context.Context, req *FollowerCountRequest) (*FollowerCountResponse, error)
	ComputeBonus(ctx context.Context, req *entity.BonusRequest) (*ComputeBonusResponse, error)
}

func RegisterMetricsServiceServer(s grpc.ServiceRegistrar, srv MetricsServiceServer) {
	s.RegisterService(&metricsServiceDesc, srv)
}

var metricsServiceDesc = grpc.ServiceDesc{
	ServiceName: serviceName,
	HandlerType: (*MetricsServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "Extract",
			Handler: unaryHandler(extractMethod, func(srv MetricsServiceServer, ctx context.Context, req *ExtractRequest) (any, error) {
				return srv.Extract(ctx, req)
			}),
		},
		{
			MethodName: "ExtractFollowerCount",
			Handler: unaryHandler(followerCountMethod, func(srv MetricsServiceServer, ctx context.Context, req *FollowerCountRequest) (any, error) {
				return srv.ExtractFollowerCount(ctx, req)
			}),
		},
		{
			MethodName: "ComputeBonus",
			Handler: unaryHandler(computeBonusMethod, func(srv MetricsServiceServer, ctx context.Context, req *entity.BonusRequest) (any, error) {
				return srv.ComputeBonus(ctx, req)
			}),
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "metrics-service",
}

// unaryHandler декодирует запрос типа Req и пропускает вызов через интерсепторы сервера
func unaryHandler[Req any](
	fullMethod string,
	call func(srv MetricsServiceServer, ctx context.Context, req *Req) (any, error),
) func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		server := srv.(MetricsServiceServer)
		if interceptor == nil {
			return call(server, ctx, in)
		}
		info := &grpc.UnaryServerInfo{
			Server:     srv,
			FullMethod: fullMethod,
		}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(server, ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}
