package repo

import (
	"context"
	"errors"
	"time"

	"github.com/ylevin1989/hyperlift-creator-cabinet-sub000/internal/entity"
)

type Profile interface {
	// AddProfile сохраняет профиль креатора и возвращает его ID
	AddProfile(ctx context.Context, profile *entity.CreatorProfile) (int, error)
	// GetProfile возвращает профиль по ID
	GetProfile(ctx context.Context, id int) (*entity.CreatorProfile, error)
	// UpdateFollowers записывает число подписчиков и время обновления
	UpdateFollowers(ctx context.Context, id int, followers int64, at time.Time) error
	// TouchProfile обновляет только время последней попытки
	TouchProfile(ctx context.Context, id int, at time.Time) error
	// GetStaleProfiles возвращает профили, не обновлявшиеся с момента olderThan
	GetStaleProfiles(ctx context.Context, olderThan time.Time, limit int) ([]*entity.CreatorProfile, error)
}

var (
	ErrProfileNotFound = errors.New("profile not found")
	ErrProfileExists   = errors.New("profile already exists")
)
