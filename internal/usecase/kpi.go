package usecase

import (
	"context"
	"errors"

	"github.com/ylevin1989/hyperlift-creator-cabinet-sub000/internal/entity"
)

type Kpi interface {
	// SetRules заменяет правила назначения целиком
	SetRules(ctx context.Context, request *entity.SetKpiRulesRequest) (*entity.AssignmentKpi, error)
	// GetRules возвращает правила назначения
	GetRules(ctx context.Context, request *entity.GetKpiRulesRequest) (*entity.AssignmentKpi, error)
	// RecalculateAsset пересчитывает бонус ролика с нуля и возвращает его
	RecalculateAsset(ctx context.Context, assetID int) (float64, error)
	// RecalculateAssignment пересчитывает бонусы всех роликов назначения
	RecalculateAssignment(ctx context.Context, projectID, creatorID int) error
	// HandleEvent реагирует на изменение метрик или правил
	HandleEvent(ctx context.Context, event *entity.AssetEvent) error
}

var (
	ErrInvalidKpiRule = errors.New("invalid kpi rule")
	ErrForbidden      = errors.New("forbidden")
)
