package repo

import (
	"context"
	"errors"
	"time"

	"github.com/ylevin1989/hyperlift-creator-cabinet-sub000/internal/entity"
)

type Asset interface {
	// AddAsset сохраняет новый ролик и возвращает его ID
	AddAsset(ctx context.Context, asset *entity.VideoAsset) (int, error)
	// GetAsset возвращает ролик по ID
	GetAsset(ctx context.Context, id int) (*entity.VideoAsset, error)
	// UpdateMetrics записывает заголовок, счётчики, превью и время обновления
	UpdateMetrics(ctx context.Context, asset *entity.VideoAsset) error
	// TouchStatsUpdate обновляет только время последней попытки сбора метрик
	TouchStatsUpdate(ctx context.Context, id int, at time.Time) error
	// UpdateBonus записывает пересчитанный бонус
	UpdateBonus(ctx context.Context, id int, bonus float64) error
	// GetStaleAssets возвращает ролики, метрики которых не обновлялись с момента olderThan, самые старые первыми
	GetStaleAssets(ctx context.Context, olderThan time.Time, limit int) ([]*entity.VideoAsset, error)
	// GetAssignmentAssets возвращает все ролики креатора в проекте
	GetAssignmentAssets(ctx context.Context, projectID, creatorID int) ([]*entity.VideoAsset, error)
}

var (
	ErrAssetNotFound = errors.New("asset not found")
)
