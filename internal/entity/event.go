package entity

import "time"

type AssetEventType string

const (
	MetricsUpdated AssetEventType = "metrics_updated"
	KpiChanged     AssetEventType = "kpi_changed"
)

// AssetEvent сигнализирует, что изменился один из входов расчёта бонуса.
// Для KpiChanged AssetID равен нулю: пересчитываются все ассеты назначения.
type AssetEvent struct {
	EventID    string         `json:"event_id" msgpack:"event_id"`
	Type       AssetEventType `json:"type" msgpack:"type"`
	AssetID    int            `json:"asset_id,omitempty" msgpack:"asset_id"`
	ProjectID  int            `json:"project_id" msgpack:"project_id"`
	CreatorID  int            `json:"creator_id" msgpack:"creator_id"`
	OccurredAt time.Time      `json:"occurred_at" msgpack:"occurred_at"`
}
