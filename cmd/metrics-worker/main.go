package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/labstack/gommon/log"
	"github.com/ylevin1989/hyperlift-creator-cabinet-sub000/internal/bootstrap"
	"github.com/ylevin1989/hyperlift-creator-cabinet-sub000/internal/config"
	"github.com/ylevin1989/hyperlift-creator-cabinet-sub000/internal/repo/cockroach"
	"github.com/ylevin1989/hyperlift-creator-cabinet-sub000/internal/usecase/service"
)

var cfg *config.Config

func init() {
	var err error
	cfg, err = config.Load()
	if err != nil {
		log.Fatalf("Ошибка конфигурации: %v", err)
	}
	// Выполнить миграции при старте
	if err := bootstrap.Migrate(context.Background(), cfg); err != nil {
		log.Fatalf("Ошибка миграций: %v", err)
	}
}

func main() {
	// Настройка контекста для graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, os.Kill)
	defer stop()

	workerID := cfg.Sync.WorkerID
	if workerID == "" {
		hostname, err := os.Hostname()
		if err != nil {
			workerID = fmt.Sprintf("metrics-worker-%d", time.Now().Unix())
		} else {
			workerID = fmt.Sprintf("metrics-worker-%s-%d", hostname, time.Now().Unix())
		}
	}
	log.Infof("Запуск воркера обновления метрик с ID: %s, интервал: %s, устаревание: %s",
		workerID, cfg.Sync.WorkerInterval, cfg.Sync.StaleAfter)

	// Подключение к базе данных
	dbConn, err := bootstrap.Database(ctx, cfg)
	if err != nil {
		log.Fatalf("Ошибка при подключении к базе данных: %v", err)
	}
	defer func() {
		if err := dbConn.Close(); err != nil {
			log.Errorf("Ошибка при закрытии соединения с базой данных: %v", err)
		}
	}()

	fetchClient := bootstrap.FetchClient(cfg)
	metricsExtractor, closeExtractor, err := bootstrap.Extractor(ctx, cfg, fetchClient)
	if err != nil {
		log.Fatalf("Ошибка при создании экстрактора метрик: %v", err)
	}
	defer closeExtractor()
	thumbnails, err := bootstrap.Thumbnails(ctx, cfg, fetchClient)
	if err != nil {
		log.Fatalf("Ошибка при подключении к MinIO: %v", err)
	}
	events, inline, closeEvents, err := bootstrap.Events(ctx, cfg)
	if err != nil {
		log.Fatalf("Ошибка при подключении к Kafka: %v", err)
	}
	defer closeEvents()

	// Инициализация репозиториев
	assetRepo := cockroach.NewAsset(dbConn)
	profileRepo := cockroach.NewProfile(dbConn)

	assetUseCase := service.NewAsset(assetRepo, metricsExtractor, events, bootstrap.Notifier(cfg), thumbnails, cfg.Sync.Concurrency)
	followersUseCase := service.NewFollowers(profileRepo, metricsExtractor)
	if inline != nil {
		inline.Bind(service.NewKpi(cockroach.NewKpi(dbConn), assetRepo, nil, cfg.NullTargetPolicy))
	}

	// Создание и запуск воркера
	worker := service.NewMetricsWorker(
		assetUseCase,
		followersUseCase,
		workerID,
		cfg.Sync.WorkerInterval,
		cfg.Sync.StaleAfter,
		cfg.Sync.BatchSize,
	)

	log.Info("Воркер метрик запущен")
	worker.Start(ctx)
	log.Info("Воркер метрик остановлен")
}
