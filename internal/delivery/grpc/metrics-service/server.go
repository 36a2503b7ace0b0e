package metricsservice

import (
	"context"
	"strings"

	"github.com/labstack/gommon/log"
	"github.com/ylevin1989/hyperlift-creator-cabinet-sub000/internal/entity"
	"github.com/ylevin1989/hyperlift-creator-cabinet-sub000/internal/usecase"
	"github.com/ylevin1989/hyperlift-creator-cabinet-sub000/internal/usecase/service/kpi"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// MetricsServiceImpl реализует gRPC сервер сбора метрик и расчёта бонуса
type MetricsServiceImpl struct {
	extractor  usecase.MetricsExtractor
	nullTarget entity.NullTargetPolicy
}

// NewMetricsServiceServer создает новый экземпляр MetricsServiceImpl
func NewMetricsServiceServer(extractor usecase.MetricsExtractor, nullTarget entity.NullTargetPolicy) *MetricsServiceImpl {
	return &MetricsServiceImpl{
		extractor:  extractor,
		nullTarget: nullTarget,
	}
}

// Extract никогда не возвращает ошибку по сбою площадки: неудача передаётся статусом результата
func (s *MetricsServiceImpl) Extract(ctx context.Context, req *ExtractRequest) (*ExtractResponse, error) {
	if strings.TrimSpace(req.URL) == "" {
		return nil, status.Error(codes.InvalidArgument, "url is required")
	}
	return &ExtractResponse{Result: s.extractor.Extract(ctx, req.URL)}, nil
}

func (s *MetricsServiceImpl) ExtractFollowerCount(ctx context.Context, req *FollowerCountRequest) (*FollowerCountResponse, error) {
	if strings.TrimSpace(req.URL) == "" {
		return nil, status.Error(codes.InvalidArgument, "url is required")
	}
	return &FollowerCountResponse{Count: s.extractor.ExtractFollowerCount(ctx, req.URL)}, nil
}

// ComputeBonus считает бонус по одному правилу; политика правила без цели берётся из запроса или из настроек сервиса
func (s *MetricsServiceImpl) ComputeBonus(_ context.Context, req *entity.BonusRequest) (*ComputeBonusResponse, error) {
	nullTarget := req.NullTarget
	if nullTarget == "" {
		nullTarget = s.nullTarget
	}
	if !nullTarget.IsValid() {
		return nil, status.Errorf(codes.InvalidArgument, "unknown null target policy %q", nullTarget)
	}
	if !req.RateUnit.IsValid() {
		return nil, status.Errorf(codes.InvalidArgument, "rate unit must be 1 or 1000, got %d", req.RateUnit)
	}
	bonus := kpi.ComputeBonus(req.Value, req.Rate, req.Target, req.RateUnit, nullTarget)
	log.Debugf("ComputeBonus value=%d unit=%d -> %.2f", req.Value, req.RateUnit, bonus)
	return &ComputeBonusResponse{Bonus: bonus}, nil
}
