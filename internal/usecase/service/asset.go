package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/gommon/log"
	"github.com/ylevin1989/hyperlift-creator-cabinet-sub000/internal/entity"
	"github.com/ylevin1989/hyperlift-creator-cabinet-sub000/internal/repo"
	"github.com/ylevin1989/hyperlift-creator-cabinet-sub000/internal/usecase"
	"github.com/ylevin1989/hyperlift-creator-cabinet-sub000/pkg/retry"
	"golang.org/x/sync/errgroup"
)

const defaultSyncConcurrency = 4

type Asset struct {
	assetRepo   repo.Asset
	extractor   usecase.MetricsExtractor
	events      repo.AssetEventPublisher
	notifier    usecase.Notifier
	thumbnails  *ThumbnailMirror
	concurrency int
}

// NewAsset создаёт сервис роликов. notifier и thumbnails могут быть nil:
// тогда уведомления и зеркалирование превью отключены.
func NewAsset(
	assetRepo repo.Asset,
	extractor usecase.MetricsExtractor,
	events repo.AssetEventPublisher,
	notifier usecase.Notifier,
	thumbnails *ThumbnailMirror,
	concurrency int,
) usecase.Asset {
	if concurrency < 1 {
		concurrency = defaultSyncConcurrency
	}
	return &Asset{
		assetRepo:   assetRepo,
		extractor:   extractor,
		events:      events,
		notifier:    notifier,
		thumbnails:  thumbnails,
		concurrency: concurrency,
	}
}

func (a *Asset) Submit(ctx context.Context, request *entity.SubmitAssetRequest) (*entity.VideoAsset, error) {
	videoURL := strings.TrimSpace(request.VideoURL)
	if _, err := url.ParseRequestURI(videoURL); err != nil || videoURL == "" {
		return nil, usecase.ErrInvalidURL
	}
	asset := &entity.VideoAsset{
		ProjectID: request.ProjectID,
		CreatorID: request.CreatorID,
		VideoURL:  videoURL,
		Platform:  entity.DetectPlatform(videoURL),
		Status:    entity.AssetPending,
		CreatedAt: time.Now(),
	}
	id, err := a.assetRepo.AddAsset(ctx, asset)
	if err != nil {
		return nil, fmt.Errorf("failed to add asset: %w", err)
	}
	asset.ID = id
	return asset, nil
}

func (a *Asset) Get(ctx context.Context, id int) (*entity.VideoAsset, error) {
	asset, err := a.assetRepo.GetAsset(ctx, id)
	if errors.Is(err, repo.ErrAssetNotFound) {
		return nil, usecase.ErrAssetNotFound
	}
	if err != nil {
		return nil, err
	}
	return asset, nil
}

func (a *Asset) Sync(ctx context.Context, id int) (*entity.VideoAsset, error) {
	asset, err := a.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return a.sync(ctx, asset)
}

func (a *Asset) sync(ctx context.Context, asset *entity.VideoAsset) (*entity.VideoAsset, error) {
	result := a.extractor.Extract(ctx, asset.VideoURL)
	now := time.Now()

	if !result.OK() {
		// известные метрики не трогаем, фиксируем только попытку
		if err := a.assetRepo.TouchStatsUpdate(ctx, asset.ID, now); err != nil {
			return nil, fmt.Errorf("failed to touch stats update: %w", err)
		}
		asset.LastStatsUpdate = &now
		if a.notifier != nil {
			if err := a.notifier.NotifyMetricsUnavailable(ctx, asset); err != nil {
				log.Warnf("Не удалось уведомить администраторов о ролике %d: %v", asset.ID, err)
			}
		}
		return asset, usecase.ErrMetricsUnavailable
	}

	merged := MergeMetrics(asset.Metrics(), result.Metrics)
	storedThumbnail := ptrValue(asset.ThumbnailURL)
	switch {
	case merged.ThumbnailURL == "" || a.thumbnails == nil || merged.ThumbnailURL == storedThumbnail:
	case a.thumbnails.Mirrored(storedThumbnail):
		merged.ThumbnailURL = storedThumbnail
	default:
		mirrored, err := a.thumbnails.Mirror(ctx, asset.ID, merged.ThumbnailURL)
		if err != nil {
			log.Warnf("Не удалось сохранить превью ролика %d: %v", asset.ID, err)
		} else {
			merged.ThumbnailURL = mirrored
		}
	}
	applyMetrics(asset, merged)
	asset.LastStatsUpdate = &now

	if err := a.assetRepo.UpdateMetrics(ctx, asset); err != nil {
		return nil, fmt.Errorf("failed to update metrics: %w", err)
	}
	a.publish(ctx, entity.MetricsUpdated, asset)
	return asset, nil
}

func (a *Asset) SetManualMetrics(ctx context.Context, request *entity.ManualMetricsRequest) (*entity.VideoAsset, error) {
	asset, err := a.Get(ctx, request.AssetID)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	// ручной ввод администратора - источник истины, кроме пустого заголовка
	if title := strings.TrimSpace(request.Title); title != "" {
		asset.Title = title
	}
	asset.Views = request.Views
	asset.Likes = request.Likes
	asset.Comments = request.Comments
	asset.LastStatsUpdate = &now

	if err := a.assetRepo.UpdateMetrics(ctx, asset); err != nil {
		return nil, fmt.Errorf("failed to update metrics: %w", err)
	}
	a.publish(ctx, entity.MetricsUpdated, asset)
	return asset, nil
}

func (a *Asset) SyncStale(ctx context.Context, olderThan time.Duration, limit int) (*entity.SyncSummary, error) {
	assets, err := a.assetRepo.GetStaleAssets(ctx, time.Now().Add(-olderThan), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get stale assets: %w", err)
	}

	summary := &entity.SyncSummary{Total: len(assets)}
	var mu sync.Mutex
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(a.concurrency)
	for _, asset := range assets {
		g.Go(func() error {
			_, err := a.sync(gCtx, asset)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				summary.Updated++
			case errors.Is(err, usecase.ErrMetricsUnavailable):
				summary.Unavailable++
			default:
				summary.Failed++
				log.Errorf("Ошибка синхронизации ролика %d: %v", asset.ID, err)
			}
			// ошибка одного ролика не останавливает пакет
			return nil
		})
	}
	_ = g.Wait()

	log.Infof("Синхронизация метрик: всего %d, обновлено %d, недоступно %d, ошибок %d",
		summary.Total, summary.Updated, summary.Unavailable, summary.Failed)
	return summary, ctx.Err()
}

func (a *Asset) publish(ctx context.Context, eventType entity.AssetEventType, asset *entity.VideoAsset) {
	if a.events == nil {
		return
	}
	event := &entity.AssetEvent{
		EventID:    uuid.NewString(),
		Type:       eventType,
		AssetID:    asset.ID,
		ProjectID:  asset.ProjectID,
		CreatorID:  asset.CreatorID,
		OccurredAt: time.Now(),
	}
	err := retry.Retry(ctx, func() error {
		return a.events.PublishAssetEvent(ctx, event)
	})
	if err != nil {
		log.Errorf("Не удалось опубликовать событие %s для ролика %d: %v", eventType, asset.ID, err)
	}
}

// MergeMetrics накладывает свежие метрики на сохранённые: ноль не затирает
// ненулевой счётчик, пустые заголовок и превью не затирают известные.
func MergeMetrics(stored, fresh entity.Metrics) entity.Metrics {
	merged := stored
	if fresh.Title != "" {
		merged.Title = fresh.Title
	}
	if fresh.ThumbnailURL != "" {
		merged.ThumbnailURL = fresh.ThumbnailURL
	}
	if fresh.Views > 0 {
		merged.Views = fresh.Views
	}
	if fresh.Likes > 0 {
		merged.Likes = fresh.Likes
	}
	if fresh.Comments > 0 {
		merged.Comments = fresh.Comments
	}
	return merged
}

func applyMetrics(asset *entity.VideoAsset, m entity.Metrics) {
	asset.Title = m.Title
	asset.Views = m.Views
	asset.Likes = m.Likes
	asset.Comments = m.Comments
	if m.ThumbnailURL != "" {
		asset.ThumbnailURL = &m.ThumbnailURL
	}
}

func ptrValue(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
