package usecase

import (
	"context"

	"github.com/ylevin1989/hyperlift-creator-cabinet-sub000/internal/entity"
)

// MetricsExtractor получает метрики ролика и подписчиков профиля с площадок.
// Ошибок не возвращает: неудача выражается статусом ExtractUnavailable и нулём подписчиков.
type MetricsExtractor interface {
	// Extract возвращает метрики ролика по ссылке
	Extract(ctx context.Context, videoURL string) entity.ExtractResult
	// ExtractFollowerCount возвращает число подписчиков профиля или 0
	ExtractFollowerCount(ctx context.Context, profileURL string) int64
}

// Notifier сообщает администраторам о роликах, метрики которых придётся ввести вручную
type Notifier interface {
	NotifyMetricsUnavailable(ctx context.Context, asset *entity.VideoAsset) error
}
