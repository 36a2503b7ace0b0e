package entity

import "time"

type KpiMetric string

const (
	KpiViews    KpiMetric = "views"
	KpiLikes    KpiMetric = "likes"
	KpiComments KpiMetric = "comments"
	KpiReach    KpiMetric = "reach"
	KpiShares   KpiMetric = "shares"
	KpiSaves    KpiMetric = "saves"
)

// RateUnit - делитель ставки: за сколько единиц метрики начисляется rate
type RateUnit int

const (
	PerUnit     RateUnit = 1
	PerThousand RateUnit = 1000
)

func (u RateUnit) IsValid() bool {
	return u == PerUnit || u == PerThousand
}

// NullTargetPolicy определяет трактовку правила без цели
type NullTargetPolicy string

const (
	// NullTargetNoBonus - правило без цели не приносит бонуса
	NullTargetNoBonus NullTargetPolicy = "no_bonus"
	// NullTargetZeroFloor - цель считается равной нулю, бонус идёт со всего значения метрики
	NullTargetZeroFloor NullTargetPolicy = "zero_floor"
)

func (p NullTargetPolicy) IsValid() bool {
	return p == NullTargetNoBonus || p == NullTargetZeroFloor
}

// KpiRule - одно правило монетизации в назначении креатора на проект
type KpiRule struct {
	ID        int       `json:"id" db:"id"`
	ProjectID int       `json:"project_id" db:"project_id"`
	CreatorID int       `json:"creator_id" db:"creator_id"`
	Position  int       `json:"position" db:"position"`
	Metric    KpiMetric `json:"metric" db:"metric"`
	Rate      *float64  `json:"rate" db:"rate"`
	Target    *int64    `json:"target" db:"target"`
	RateUnit  RateUnit  `json:"rate_unit" db:"rate_unit"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

type KpiRuleInput struct {
	Metric   KpiMetric `json:"metric" validate:"required,oneof=views likes comments reach shares saves"`
	Rate     *float64  `json:"rate" validate:"omitempty,gte=0"`
	Target   *int64    `json:"target" validate:"omitempty,gte=0"`
	RateUnit RateUnit  `json:"rate_unit" validate:"required,oneof=1 1000"`
}

type SetKpiRulesRequest struct {
	UserID    int            `json:"-"`
	ProjectID int            `json:"project_id" validate:"required,gt=0"`
	CreatorID int            `json:"creator_id" validate:"required,gt=0"`
	Rules     []KpiRuleInput `json:"rules" validate:"dive"`
}

type GetKpiRulesRequest struct {
	ProjectID int `query:"project_id" validate:"required,gt=0"`
	CreatorID int `query:"creator_id" validate:"required,gt=0"`
}

type RecalculateRequest struct {
	ProjectID int `json:"project_id" validate:"required,gt=0"`
	CreatorID int `json:"creator_id" validate:"required,gt=0"`
}

type AssignmentKpi struct {
	ProjectID int        `json:"project_id"`
	CreatorID int        `json:"creator_id"`
	Rules     []*KpiRule `json:"rules"`
}

type BonusRequest struct {
	Value      int64            `json:"value" msgpack:"value"`
	Rate       *float64         `json:"rate" msgpack:"rate"`
	Target     *int64           `json:"target" msgpack:"target"`
	RateUnit   RateUnit         `json:"rate_unit" msgpack:"rate_unit"`
	NullTarget NullTargetPolicy `json:"null_target" msgpack:"null_target"`
}
