// Package kpi считает бонус креатора за превышение целевых значений метрик.
//
// Делитель ставки (за единицу или за 1000 единиц) хранится в самом правиле,
// а трактовка правила без цели задаётся политикой развёртывания.
package kpi

import (
	"math"

	"github.com/ylevin1989/hyperlift-creator-cabinet-sub000/internal/entity"
)

// ComputeBonus возвращает бонус за часть значения метрики, превышающую цель.
// Некорректные входы (отрицательные ставка или цель, неизвестный делитель) дают ноль.
func ComputeBonus(value int64, rate *float64, target *int64, unit entity.RateUnit, nullTarget entity.NullTargetPolicy) float64 {
	if rate == nil || *rate == 0 || *rate < 0 || math.IsNaN(*rate) || math.IsInf(*rate, 0) {
		return 0
	}
	if !unit.IsValid() {
		return 0
	}
	if value < 0 {
		value = 0
	}

	var floor int64
	switch {
	case target == nil && nullTarget == entity.NullTargetZeroFloor:
		floor = 0
	case target == nil:
		return 0
	case *target < 0:
		return 0
	default:
		floor = *target
	}

	if value <= floor {
		return 0
	}
	excess := value - floor

	var bonus float64
	if unit == entity.PerThousand {
		// целочисленное деление: неполная тысяча не оплачивается
		bonus = float64(excess/int64(entity.PerThousand)) * *rate
	} else {
		bonus = float64(excess) * *rate
	}
	if bonus < 0 {
		return 0
	}
	return bonus
}

// MetricValue возвращает текущее значение метрики ассета.
// Для reach, shares и saves источника нет, поэтому ноль.
func MetricValue(m entity.Metrics, metric entity.KpiMetric) int64 {
	switch metric {
	case entity.KpiViews:
		return m.Views
	case entity.KpiLikes:
		return m.Likes
	case entity.KpiComments:
		return m.Comments
	default:
		return 0
	}
}

// TotalBonus суммирует независимо посчитанные бонусы по всем правилам назначения
func TotalBonus(m entity.Metrics, rules []*entity.KpiRule, nullTarget entity.NullTargetPolicy) float64 {
	var total float64
	for _, rule := range rules {
		if rule == nil {
			continue
		}
		total += ComputeBonus(MetricValue(m, rule.Metric), rule.Rate, rule.Target, rule.RateUnit, nullTarget)
	}
	return total
}

// RoundCents приводит сумму к точности хранения бонуса (копейки)
func RoundCents(amount float64) float64 {
	return math.Round(amount*100) / 100
}
