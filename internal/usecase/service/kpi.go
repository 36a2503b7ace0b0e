package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/gommon/log"
	"github.com/ylevin1989/hyperlift-creator-cabinet-sub000/internal/entity"
	"github.com/ylevin1989/hyperlift-creator-cabinet-sub000/internal/repo"
	"github.com/ylevin1989/hyperlift-creator-cabinet-sub000/internal/usecase"
	"github.com/ylevin1989/hyperlift-creator-cabinet-sub000/internal/usecase/service/kpi"
	"github.com/ylevin1989/hyperlift-creator-cabinet-sub000/pkg/retry"
)

type Kpi struct {
	kpiRepo    repo.Kpi
	assetRepo  repo.Asset
	events     repo.AssetEventPublisher
	nullTarget entity.NullTargetPolicy
}

func NewKpi(
	kpiRepo repo.Kpi,
	assetRepo repo.Asset,
	events repo.AssetEventPublisher,
	nullTarget entity.NullTargetPolicy,
) usecase.Kpi {
	if !nullTarget.IsValid() {
		nullTarget = entity.NullTargetNoBonus
	}
	return &Kpi{
		kpiRepo:    kpiRepo,
		assetRepo:  assetRepo,
		events:     events,
		nullTarget: nullTarget,
	}
}

var kpiMetrics = map[entity.KpiMetric]struct{}{
	entity.KpiViews:    {},
	entity.KpiLikes:    {},
	entity.KpiComments: {},
	entity.KpiReach:    {},
	entity.KpiShares:   {},
	entity.KpiSaves:    {},
}

func validateRule(rule entity.KpiRuleInput) error {
	if _, ok := kpiMetrics[rule.Metric]; !ok {
		return fmt.Errorf("unknown metric %q", rule.Metric)
	}
	if rule.Rate != nil && (*rule.Rate < 0 || math.IsNaN(*rule.Rate) || math.IsInf(*rule.Rate, 0)) {
		return errors.New("rate must be a non-negative number")
	}
	if rule.Target != nil && *rule.Target < 0 {
		return errors.New("target must be non-negative")
	}
	if !rule.RateUnit.IsValid() {
		return fmt.Errorf("rate unit must be 1 or 1000, got %d", rule.RateUnit)
	}
	return nil
}

func (k *Kpi) SetRules(ctx context.Context, request *entity.SetKpiRulesRequest) (*entity.AssignmentKpi, error) {
	now := time.Now()
	rules := make([]*entity.KpiRule, 0, len(request.Rules))
	for i, input := range request.Rules {
		if err := validateRule(input); err != nil {
			return nil, fmt.Errorf("%w: rule %d: %v", usecase.ErrInvalidKpiRule, i, err)
		}
		rules = append(rules, &entity.KpiRule{
			ProjectID: request.ProjectID,
			CreatorID: request.CreatorID,
			Position:  i,
			Metric:    input.Metric,
			Rate:      input.Rate,
			Target:    input.Target,
			RateUnit:  input.RateUnit,
			UpdatedAt: now,
		})
	}

	if err := k.kpiRepo.ReplaceRules(ctx, request.ProjectID, request.CreatorID, rules); err != nil {
		return nil, fmt.Errorf("failed to replace kpi rules: %w", err)
	}
	k.publish(ctx, &entity.AssetEvent{
		EventID:    uuid.NewString(),
		Type:       entity.KpiChanged,
		ProjectID:  request.ProjectID,
		CreatorID:  request.CreatorID,
		OccurredAt: now,
	})
	return k.GetRules(ctx, &entity.GetKpiRulesRequest{ProjectID: request.ProjectID, CreatorID: request.CreatorID})
}

func (k *Kpi) GetRules(ctx context.Context, request *entity.GetKpiRulesRequest) (*entity.AssignmentKpi, error) {
	rules, err := k.kpiRepo.GetRules(ctx, request.ProjectID, request.CreatorID)
	if err != nil {
		return nil, fmt.Errorf("failed to get kpi rules: %w", err)
	}
	if rules == nil {
		rules = []*entity.KpiRule{}
	}
	return &entity.AssignmentKpi{
		ProjectID: request.ProjectID,
		CreatorID: request.CreatorID,
		Rules:     rules,
	}, nil
}

func (k *Kpi) RecalculateAsset(ctx context.Context, assetID int) (float64, error) {
	asset, err := k.assetRepo.GetAsset(ctx, assetID)
	if errors.Is(err, repo.ErrAssetNotFound) {
		return 0, usecase.ErrAssetNotFound
	}
	if err != nil {
		return 0, err
	}
	rules, err := k.kpiRepo.GetRules(ctx, asset.ProjectID, asset.CreatorID)
	if err != nil {
		return 0, fmt.Errorf("failed to get kpi rules: %w", err)
	}
	return k.recalculate(ctx, asset, rules)
}

func (k *Kpi) RecalculateAssignment(ctx context.Context, projectID, creatorID int) error {
	rules, err := k.kpiRepo.GetRules(ctx, projectID, creatorID)
	if err != nil {
		return fmt.Errorf("failed to get kpi rules: %w", err)
	}
	assets, err := k.assetRepo.GetAssignmentAssets(ctx, projectID, creatorID)
	if err != nil {
		return fmt.Errorf("failed to get assignment assets: %w", err)
	}
	for _, asset := range assets {
		if _, err := k.recalculate(ctx, asset, rules); err != nil {
			return err
		}
	}
	return nil
}

// recalculate считает бонус с нуля и пишет его, только если он изменился
func (k *Kpi) recalculate(ctx context.Context, asset *entity.VideoAsset, rules []*entity.KpiRule) (float64, error) {
	bonus := kpi.RoundCents(kpi.TotalBonus(asset.Metrics(), rules, k.nullTarget))
	if bonus == asset.KpiBonus {
		return bonus, nil
	}
	err := retry.Retry(ctx, func() error {
		return k.assetRepo.UpdateBonus(ctx, asset.ID, bonus)
	})
	if err != nil {
		return 0, fmt.Errorf("failed to update bonus of asset %d: %w", asset.ID, err)
	}
	log.Infof("Бонус ролика %d пересчитан: %.2f -> %.2f", asset.ID, asset.KpiBonus, bonus)
	asset.KpiBonus = bonus
	return bonus, nil
}

func (k *Kpi) HandleEvent(ctx context.Context, event *entity.AssetEvent) error {
	switch event.Type {
	case entity.MetricsUpdated:
		_, err := k.RecalculateAsset(ctx, event.AssetID)
		if errors.Is(err, usecase.ErrAssetNotFound) {
			log.Warnf("Событие %s: ролик %d не найден", event.EventID, event.AssetID)
			return nil
		}
		return err
	case entity.KpiChanged:
		return k.RecalculateAssignment(ctx, event.ProjectID, event.CreatorID)
	default:
		log.Warnf("Неизвестный тип события %q (%s)", event.Type, event.EventID)
		return nil
	}
}

func (k *Kpi) publish(ctx context.Context, event *entity.AssetEvent) {
	if k.events == nil {
		return
	}
	err := retry.Retry(ctx, func() error {
		return k.events.PublishAssetEvent(ctx, event)
	})
	if err != nil {
		log.Errorf("Не удалось опубликовать событие %s: %v", event.Type, err)
	}
}
