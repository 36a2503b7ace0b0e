package service

import (
	"context"
	"sync"

	"github.com/ylevin1989/hyperlift-creator-cabinet-sub000/internal/entity"
	"github.com/ylevin1989/hyperlift-creator-cabinet-sub000/internal/repo"
)

// EventHandler обрабатывает событие ролика. Реализуется usecase.Kpi.
type EventHandler interface {
	HandleEvent(ctx context.Context, event *entity.AssetEvent) error
}

// InlinePublisher доставляет события в том же процессе, когда Kafka не настроена.
// Обработчик подключается после создания, сервисы публикуют и обрабатывают события по кругу.
type InlinePublisher struct {
	mu      sync.RWMutex
	handler EventHandler
}

func NewInlinePublisher() *InlinePublisher {
	return &InlinePublisher{}
}

func (p *InlinePublisher) Bind(handler EventHandler) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.handler = handler
}

func (p *InlinePublisher) PublishAssetEvent(ctx context.Context, event *entity.AssetEvent) error {
	p.mu.RLock()
	handler := p.handler
	p.mu.RUnlock()
	if handler == nil {
		return nil
	}
	return handler.HandleEvent(ctx, event)
}

var _ repo.AssetEventPublisher = (*InlinePublisher)(nil)
