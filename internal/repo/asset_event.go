package repo

import (
	"context"

	"github.com/ylevin1989/hyperlift-creator-cabinet-sub000/internal/entity"
)

type AssetEventPublisher interface {
	PublishAssetEvent(ctx context.Context, event *entity.AssetEvent) error
}

type AssetEventRepository interface {
	AssetEventPublisher
	// SubscribeAssetEvents читает события группой потребителей groupID до отмены ctx
	SubscribeAssetEvents(ctx context.Context, groupID string) (<-chan *entity.AssetEvent, error)
	Close() error
}
