package kpi

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ylevin1989/hyperlift-creator-cabinet-sub000/internal/entity"
)

func f(v float64) *float64 { return &v }
func i(v int64) *int64     { return &v }

func TestComputeBonusPerThousand(t *testing.T) {
	got := ComputeBonus(7_100_000, f(100), i(1_000_000), entity.PerThousand, entity.NullTargetNoBonus)
	assert.Equal(t, 610_000.0, got)
}

func TestComputeBonusPerUnit(t *testing.T) {
	got := ComputeBonus(7_100_000, f(100), i(1_000_000), entity.PerUnit, entity.NullTargetNoBonus)
	assert.Equal(t, 610_000_000.0, got)
}

func TestComputeBonusNullTarget(t *testing.T) {
	t.Run("no bonus policy", func(t *testing.T) {
		assert.Equal(t, 0.0, ComputeBonus(500, f(0.1), nil, entity.PerUnit, entity.NullTargetNoBonus))
	})
	t.Run("zero floor policy", func(t *testing.T) {
		assert.InDelta(t, 50.0, ComputeBonus(500, f(0.1), nil, entity.PerUnit, entity.NullTargetZeroFloor), 1e-9)
	})
}

func TestComputeBonusZeroCases(t *testing.T) {
	tests := []struct {
		name   string
		value  int64
		rate   *float64
		target *int64
		unit   entity.RateUnit
	}{
		{"nil rate", 5000, nil, i(10), entity.PerUnit},
		{"zero rate", 5000, f(0), i(10), entity.PerUnit},
		{"negative rate", 5000, f(-3), i(10), entity.PerUnit},
		{"negative target", 5000, f(1), i(-10), entity.PerUnit},
		{"value equals target", 1000, f(1), i(1000), entity.PerUnit},
		{"value below target", 999, f(1), i(1000), entity.PerUnit},
		{"negative value", -50, f(1), i(0), entity.PerUnit},
		{"partial thousand", 1999, f(5), i(1000), entity.PerThousand},
		{"unknown unit", 5000, f(1), i(0), entity.RateUnit(10)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, 0.0, ComputeBonus(tt.value, tt.rate, tt.target, tt.unit, entity.NullTargetZeroFloor))
		})
	}
}

func TestComputeBonusTruncatesThousands(t *testing.T) {
	// 2999 сверх цели - это две полные тысячи
	assert.Equal(t, 20.0, ComputeBonus(3999, f(10), i(1000), entity.PerThousand, entity.NullTargetNoBonus))
}

func TestComputeBonusMonotonic(t *testing.T) {
	for _, unit := range []entity.RateUnit{entity.PerUnit, entity.PerThousand} {
		prev := -1.0
		for value := int64(0); value <= 20_000; value += 137 {
			got := ComputeBonus(value, f(2.5), i(3_000), unit, entity.NullTargetNoBonus)
			assert.GreaterOrEqual(t, got, prev, "unit %d value %d", unit, value)
			if value <= 3_000 {
				assert.Zero(t, got)
			}
			prev = got
		}
	}
}

func TestComputeBonusIsPure(t *testing.T) {
	first := ComputeBonus(123_456, f(7), i(1_000), entity.PerThousand, entity.NullTargetNoBonus)
	for n := 0; n < 5; n++ {
		assert.Equal(t, first, ComputeBonus(123_456, f(7), i(1_000), entity.PerThousand, entity.NullTargetNoBonus))
	}
}

func TestTotalBonusSumsRules(t *testing.T) {
	m := entity.Metrics{Views: 12_500, Likes: 800, Comments: 40}
	rules := []*entity.KpiRule{
		{Metric: entity.KpiViews, Rate: f(10), Target: i(10_000), RateUnit: entity.PerThousand},
		{Metric: entity.KpiLikes, Rate: f(0.5), Target: i(500), RateUnit: entity.PerUnit},
		{Metric: entity.KpiComments, Rate: nil, Target: i(0), RateUnit: entity.PerUnit},
		{Metric: entity.KpiShares, Rate: f(100), Target: i(0), RateUnit: entity.PerUnit},
		nil,
	}
	// views: floor(2500/1000)*10 = 20; likes: 300*0.5 = 150
	assert.Equal(t, 170.0, TotalBonus(m, rules, entity.NullTargetNoBonus))
	assert.Zero(t, TotalBonus(m, nil, entity.NullTargetNoBonus))
}

func TestMetricValue(t *testing.T) {
	m := entity.Metrics{Views: 1, Likes: 2, Comments: 3}
	assert.Equal(t, int64(1), MetricValue(m, entity.KpiViews))
	assert.Equal(t, int64(2), MetricValue(m, entity.KpiLikes))
	assert.Equal(t, int64(3), MetricValue(m, entity.KpiComments))
	assert.Zero(t, MetricValue(m, entity.KpiReach))
	assert.Zero(t, MetricValue(m, entity.KpiSaves))
}

func TestRoundCents(t *testing.T) {
	assert.Equal(t, 1.23, RoundCents(1234*0.001))
	assert.Equal(t, 1.24, RoundCents(1.235001))
	assert.Equal(t, 610_000.0, RoundCents(610_000))
	assert.Zero(t, RoundCents(0.004))
}
