package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/ylevin1989/hyperlift-creator-cabinet-sub000/internal/entity"
)

type Asset interface {
	// Submit определяет платформу по ссылке и сохраняет ролик
	Submit(ctx context.Context, request *entity.SubmitAssetRequest) (*entity.VideoAsset, error)
	// Get возвращает ролик по ID
	Get(ctx context.Context, id int) (*entity.VideoAsset, error)
	// Sync собирает метрики ролика и сохраняет их, не затирая известные значения нулями
	Sync(ctx context.Context, id int) (*entity.VideoAsset, error)
	// SetManualMetrics записывает метрики, введённые администратором после неудачной синхронизации
	SetManualMetrics(ctx context.Context, request *entity.ManualMetricsRequest) (*entity.VideoAsset, error)
	// SyncStale синхронизирует ролики, не обновлявшиеся дольше olderThan, самые старые первыми
	SyncStale(ctx context.Context, olderThan time.Duration, limit int) (*entity.SyncSummary, error)
}

var (
	ErrAssetNotFound      = errors.New("asset not found")
	ErrInvalidURL         = errors.New("invalid url")
	ErrMetricsUnavailable = errors.New("metrics unavailable, manual entry required")
)
