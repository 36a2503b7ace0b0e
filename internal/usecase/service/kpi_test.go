package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ylevin1989/hyperlift-creator-cabinet-sub000/internal/entity"
	"github.com/ylevin1989/hyperlift-creator-cabinet-sub000/internal/usecase"
)

func TestSetRulesValidation(t *testing.T) {
	tests := []struct {
		name string
		rule entity.KpiRuleInput
	}{
		{"bad unit", entity.KpiRuleInput{Metric: entity.KpiViews, Rate: ptr(1.0), RateUnit: 100}},
		{"zero unit", entity.KpiRuleInput{Metric: entity.KpiViews, Rate: ptr(1.0)}},
		{"negative rate", entity.KpiRuleInput{Metric: entity.KpiViews, Rate: ptr(-1.0), RateUnit: entity.PerUnit}},
		{"negative target", entity.KpiRuleInput{Metric: entity.KpiLikes, Target: ptr(int64(-5)), RateUnit: entity.PerUnit}},
		{"unknown metric", entity.KpiRuleInput{Metric: "followers", RateUnit: entity.PerUnit}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kpiRepo := newMemoryKpi()
			svc := NewKpi(kpiRepo, newMemoryAssets(), nil, entity.NullTargetNoBonus)
			_, err := svc.SetRules(context.Background(), &entity.SetKpiRulesRequest{
				ProjectID: 1, CreatorID: 2, Rules: []entity.KpiRuleInput{tt.rule},
			})
			assert.ErrorIs(t, err, usecase.ErrInvalidKpiRule)
			assert.Zero(t, kpiRepo.replaces)
		})
	}
}

func TestSetRulesRecalculatesThroughInlinePublisher(t *testing.T) {
	assets := newMemoryAssets(
		&entity.VideoAsset{ID: 1, ProjectID: 1, CreatorID: 2, Views: 7_100_000},
		&entity.VideoAsset{ID: 2, ProjectID: 1, CreatorID: 2, Views: 500_000},
		&entity.VideoAsset{ID: 3, ProjectID: 9, CreatorID: 2, Views: 7_100_000},
	)
	publisher := NewInlinePublisher()
	svc := NewKpi(newMemoryKpi(), assets, publisher, entity.NullTargetNoBonus)
	publisher.Bind(svc)

	result, err := svc.SetRules(context.Background(), &entity.SetKpiRulesRequest{
		ProjectID: 1, CreatorID: 2,
		Rules: []entity.KpiRuleInput{
			{Metric: entity.KpiViews, Rate: ptr(100.0), Target: ptr(int64(1_000_000)), RateUnit: entity.PerThousand},
		},
	})
	require.NoError(t, err)
	require.Len(t, result.Rules, 1)
	assert.Equal(t, 0, result.Rules[0].Position)

	assert.Equal(t, 610_000.0, assets.get(1).KpiBonus)
	assert.Zero(t, assets.get(2).KpiBonus)
	assert.Zero(t, assets.get(3).KpiBonus, "other assignments are untouched")
}

func TestRecalculateIsIdempotent(t *testing.T) {
	assets := newMemoryAssets(&entity.VideoAsset{ID: 1, ProjectID: 1, CreatorID: 2, Views: 12_500, Likes: 800})
	kpiRepo := newMemoryKpi()
	kpiRepo.rules[[2]int{1, 2}] = []*entity.KpiRule{
		{Metric: entity.KpiViews, Rate: ptr(10.0), Target: ptr(int64(10_000)), RateUnit: entity.PerThousand},
		{Metric: entity.KpiLikes, Rate: ptr(0.5), Target: ptr(int64(500)), RateUnit: entity.PerUnit},
	}
	svc := NewKpi(kpiRepo, assets, nil, entity.NullTargetNoBonus)

	first, err := svc.RecalculateAsset(context.Background(), 1)
	require.NoError(t, err)
	second, err := svc.RecalculateAsset(context.Background(), 1)
	require.NoError(t, err)

	assert.Equal(t, 170.0, first)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, assets.bonusWrites, "unchanged bonus is not written again")
}

func TestRecalculateSubCentBonusIsWrittenOnce(t *testing.T) {
	assets := newMemoryAssets(&entity.VideoAsset{ID: 1, ProjectID: 1, CreatorID: 2, Views: 1234})
	kpiRepo := newMemoryKpi()
	kpiRepo.rules[[2]int{1, 2}] = []*entity.KpiRule{
		{Metric: entity.KpiViews, Rate: ptr(0.001), Target: ptr(int64(0)), RateUnit: entity.PerUnit},
	}
	svc := NewKpi(kpiRepo, assets, nil, entity.NullTargetNoBonus)

	for range 3 {
		bonus, err := svc.RecalculateAsset(context.Background(), 1)
		require.NoError(t, err)
		assert.Equal(t, 1.23, bonus)
	}
	assert.Equal(t, 1, assets.bonusWrites)
	assert.Equal(t, 1.23, assets.get(1).KpiBonus)
}

func TestNullTargetPolicyIsConfigurable(t *testing.T) {
	rules := []*entity.KpiRule{{Metric: entity.KpiViews, Rate: ptr(0.1), RateUnit: entity.PerUnit}}
	for policy, want := range map[entity.NullTargetPolicy]float64{
		entity.NullTargetNoBonus:   0,
		entity.NullTargetZeroFloor: 50,
		"":                         0,
	} {
		t.Run(string(policy), func(t *testing.T) {
			assets := newMemoryAssets(&entity.VideoAsset{ID: 1, ProjectID: 1, CreatorID: 1, Views: 500})
			kpiRepo := newMemoryKpi()
			kpiRepo.rules[[2]int{1, 1}] = rules
			bonus, err := NewKpi(kpiRepo, assets, nil, policy).RecalculateAsset(context.Background(), 1)
			require.NoError(t, err)
			assert.InDelta(t, want, bonus, 1e-9)
		})
	}
}

func TestHandleEvent(t *testing.T) {
	assets := newMemoryAssets(&entity.VideoAsset{ID: 1, ProjectID: 1, CreatorID: 1, Likes: 600})
	kpiRepo := newMemoryKpi()
	kpiRepo.rules[[2]int{1, 1}] = []*entity.KpiRule{
		{Metric: entity.KpiLikes, Rate: ptr(1.0), Target: ptr(int64(500)), RateUnit: entity.PerUnit},
	}
	svc := NewKpi(kpiRepo, assets, nil, entity.NullTargetNoBonus)
	ctx := context.Background()

	require.NoError(t, svc.HandleEvent(ctx, &entity.AssetEvent{Type: entity.MetricsUpdated, AssetID: 1}))
	assert.Equal(t, 100.0, assets.get(1).KpiBonus)

	kpiRepo.rules[[2]int{1, 1}][0].Target = ptr(int64(550))
	require.NoError(t, svc.HandleEvent(ctx, &entity.AssetEvent{Type: entity.KpiChanged, ProjectID: 1, CreatorID: 1}))
	assert.Equal(t, 50.0, assets.get(1).KpiBonus)

	assert.NoError(t, svc.HandleEvent(ctx, &entity.AssetEvent{Type: entity.MetricsUpdated, AssetID: 404}))
	assert.NoError(t, svc.HandleEvent(ctx, &entity.AssetEvent{Type: "unknown"}))
}

func TestGetRulesEmptyAssignment(t *testing.T) {
	svc := NewKpi(newMemoryKpi(), newMemoryAssets(), nil, entity.NullTargetNoBonus)
	result, err := svc.GetRules(context.Background(), &entity.GetKpiRulesRequest{ProjectID: 1, CreatorID: 1})
	require.NoError(t, err)
	assert.NotNil(t, result.Rules)
	assert.Empty(t, result.Rules)
}
