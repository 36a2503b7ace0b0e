package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/ylevin1989/hyperlift-creator-cabinet-sub000/internal/entity"
)

type Followers interface {
	// AddProfile сохраняет профиль креатора
	AddProfile(ctx context.Context, request *entity.AddProfileRequest) (*entity.CreatorProfile, error)
	// RefreshProfile обновляет число подписчиков профиля
	RefreshProfile(ctx context.Context, id int) (*entity.CreatorProfile, error)
	// RefreshStale обновляет профили, не обновлявшиеся дольше olderThan
	RefreshStale(ctx context.Context, olderThan time.Duration, limit int) (*entity.SyncSummary, error)
}

var (
	ErrProfileNotFound   = errors.New("profile not found")
	ErrProfileExists     = errors.New("profile already exists")
	ErrFollowersNotFound = errors.New("follower count unavailable")
)
