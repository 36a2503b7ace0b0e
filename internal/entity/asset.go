package entity

import "time"

type AssetStatus string

const (
	AssetPending  AssetStatus = "pending"
	AssetApproved AssetStatus = "approved"
	AssetRejected AssetStatus = "rejected"
)

type VideoAsset struct {
	ID              int         `json:"id" db:"id"`
	ProjectID       int         `json:"project_id" db:"project_id"`
	CreatorID       int         `json:"creator_id" db:"creator_id"`
	VideoURL        string      `json:"video_url" db:"video_url"`
	Platform        Platform    `json:"platform" db:"platform"`
	Title           string      `json:"title" db:"title"`
	Views           int64       `json:"views" db:"views"`
	Likes           int64       `json:"likes" db:"likes"`
	Comments        int64       `json:"comments" db:"comments"`
	ThumbnailURL    *string     `json:"thumbnail_url,omitempty" db:"thumbnail_url"`
	KpiBonus        float64     `json:"kpi_bonus" db:"kpi_bonus"`
	LastStatsUpdate *time.Time  `json:"last_stats_update,omitempty" db:"last_stats_update"`
	Status          AssetStatus `json:"status" db:"status"`
	CreatedAt       time.Time   `json:"created_at" db:"created_at"`
}

// Metrics возвращает сохранённые метрики ассета в виде кортежа экстрактора
func (a *VideoAsset) Metrics() Metrics {
	m := Metrics{
		Title:    a.Title,
		Views:    a.Views,
		Likes:    a.Likes,
		Comments: a.Comments,
	}
	if a.ThumbnailURL != nil {
		m.ThumbnailURL = *a.ThumbnailURL
	}
	return m
}

type SubmitAssetRequest struct {
	ProjectID int    `json:"project_id" validate:"required,gt=0"`
	CreatorID int    `json:"creator_id" validate:"required,gt=0"`
	VideoURL  string `json:"video_url" validate:"required,url,max=2048"`
}

type ManualMetricsRequest struct {
	AssetID  int    `json:"-" param:"id"`
	Title    string `json:"title" validate:"max=500"`
	Views    int64  `json:"views" validate:"gte=0"`
	Likes    int64  `json:"likes" validate:"gte=0"`
	Comments int64  `json:"comments" validate:"gte=0"`
}

type SyncStaleRequest struct {
	// StaleAfter - минимальный возраст последнего обновления, например "6h"
	StaleAfter string `json:"stale_after"`
	Limit      int    `json:"limit" validate:"gte=0,lte=1000"`
}

// SyncSummary - итог пакетной синхронизации
type SyncSummary struct {
	Total       int `json:"total"`
	Updated     int `json:"updated"`
	Unavailable int `json:"unavailable"`
	Failed      int `json:"failed"`
}
