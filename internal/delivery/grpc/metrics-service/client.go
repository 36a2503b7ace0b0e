package metricsservice

import (
	"context"
	"time"

	"github.com/labstack/gommon/log"
	"github.com/ylevin1989/hyperlift-creator-cabinet-sub000/internal/entity"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

// extractTimeout покрывает всю цепочку стратегий, включая headless браузер и yt-dlp
const extractTimeout = 2 * time.Minute

// MetricsServiceClient реализует интерфейс usecase.MetricsExtractor через gRPC
type MetricsServiceClient struct {
	conn *grpc.ClientConn
}

// NewMetricsServiceClient создает новый gRPC клиент для metrics service
func NewMetricsServiceClient(address string, opts ...grpc.DialOption) (*MetricsServiceClient, error) {
	opts = append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithDefaultCallOptions(grpc.CallContentSubtype(CodecName)),
	}, opts...)
	conn, err := grpc.NewClient(address, opts...)
	if err != nil {
		return nil, err
	}
	return &MetricsServiceClient{conn: conn}, nil
}

// Close закрывает соединение с gRPC сервером
func (c *MetricsServiceClient) Close() error {
	return c.conn.Close()
}

// Extract при сбое транспорта возвращает Unavailable, как и локальный экстрактор
func (c *MetricsServiceClient) Extract(ctx context.Context, videoURL string) entity.ExtractResult {
	ctx, cancel := context.WithTimeout(ctx, extractTimeout)
	defer cancel()

	var resp ExtractResponse
	if err := c.conn.Invoke(ctx, extractMethod, &ExtractRequest{URL: videoURL}, &resp); err != nil {
		log.Errorf("metrics-service: Extract %s: %v", videoURL, err)
		return entity.ExtractResult{
			Status:   entity.ExtractUnavailable,
			Platform: entity.DetectPlatform(videoURL),
		}
	}
	return resp.Result
}

func (c *MetricsServiceClient) ExtractFollowerCount(ctx context.Context, profileURL string) int64 {
	ctx, cancel := context.WithTimeout(ctx, extractTimeout)
	defer cancel()

	var resp FollowerCountResponse
	if err := c.conn.Invoke(ctx, followerCountMethod, &FollowerCountRequest{URL: profileURL}, &resp); err != nil {
		log.Errorf("metrics-service: ExtractFollowerCount %s: %v", profileURL, err)
		return 0
	}
	return resp.Count
}

func (c *MetricsServiceClient) ComputeBonus(ctx context.Context, req *entity.BonusRequest) (float64, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var resp ComputeBonusResponse
	if err := c.conn.Invoke(ctx, computeBonusMethod, req, &resp); err != nil {
		return 0, err
	}
	return resp.Bonus, nil
}
