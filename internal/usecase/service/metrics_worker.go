package service

import (
	"context"
	"time"

	"github.com/labstack/gommon/log"
	"github.com/ylevin1989/hyperlift-creator-cabinet-sub000/internal/usecase"
)

// MetricsWorker по таймеру обновляет устаревшие метрики роликов и подписчиков профилей
type MetricsWorker struct {
	assets               usecase.Asset
	followers            usecase.Followers
	workerID             string
	workerUpdateInterval time.Duration
	staleAfter           time.Duration
	batchSize            int
}

func NewMetricsWorker(
	assets usecase.Asset,
	followers usecase.Followers,
	workerID string,
	workerUpdateInterval time.Duration,
	staleAfter time.Duration,
	batchSize int,
) *MetricsWorker {
	return &MetricsWorker{
		assets:               assets,
		followers:            followers,
		workerID:             workerID,
		workerUpdateInterval: workerUpdateInterval,
		staleAfter:           staleAfter,
		batchSize:            batchSize,
	}
}

func (w *MetricsWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.workerUpdateInterval)
	defer ticker.Stop()

	log.Infof("Запущен воркер обновления метрик: %s", w.workerID)

	for {
		select {
		case <-ctx.Done():
			log.Infof("Остановка воркера обновления метрик: %s", w.workerID)
			return
		case <-ticker.C:
			w.tick(ctx)
		}
	}
}

func (w *MetricsWorker) tick(ctx context.Context) {
	if _, err := w.assets.SyncStale(ctx, w.staleAfter, w.batchSize); err != nil {
		log.Errorf("Ошибка обновления метрик роликов: %v", err)
	}
	if w.followers == nil {
		return
	}
	if _, err := w.followers.RefreshStale(ctx, w.staleAfter, w.batchSize); err != nil {
		log.Errorf("Ошибка обновления подписчиков: %v", err)
	}
}
