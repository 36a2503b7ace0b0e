package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/labstack/gommon/log"
	"github.com/ylevin1989/hyperlift-creator-cabinet-sub000/internal/bootstrap"
	"github.com/ylevin1989/hyperlift-creator-cabinet-sub000/internal/config"
	"github.com/ylevin1989/hyperlift-creator-cabinet-sub000/internal/repo/cockroach"
	"github.com/ylevin1989/hyperlift-creator-cabinet-sub000/internal/repo/kafka"
	"github.com/ylevin1989/hyperlift-creator-cabinet-sub000/internal/usecase/service"
	"github.com/ylevin1989/hyperlift-creator-cabinet-sub000/pkg/retry"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Ошибка конфигурации: %v", err)
	}
	if len(cfg.KafkaBrokers) == 0 {
		log.Fatal("KAFKA_BROKERS переменная окружения обязательна: без Kafka бонусы пересчитывает gateway")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, os.Kill)
	defer stop()

	dbConn, err := bootstrap.Database(ctx, cfg)
	if err != nil {
		log.Fatalf("Ошибка при подключении к базе данных: %v", err)
	}
	defer func() {
		if err := dbConn.Close(); err != nil {
			log.Errorf("Ошибка при закрытии соединения с базой данных: %v", err)
		}
	}()

	eventRepo, err := kafka.NewAssetEventKafkaRepository(ctx, cfg.KafkaBrokers)
	if err != nil {
		log.Fatalf("Ошибка при подключении к Kafka: %v", err)
	}
	defer func() { _ = eventRepo.Close() }()

	// воркер только читает события, поэтому публикатор ему не нужен
	kpiUseCase := service.NewKpi(cockroach.NewKpi(dbConn), cockroach.NewAsset(dbConn), nil, cfg.NullTargetPolicy)

	events, err := eventRepo.SubscribeAssetEvents(ctx, cfg.KafkaGroupID)
	if err != nil {
		log.Fatalf("Ошибка подписки на события: %v", err)
	}
	log.Infof("Воркер бонусов слушает %s, группа %s", kafka.AssetEventsTopic, cfg.KafkaGroupID)

	for event := range events {
		err := retry.Retry(ctx, func() error {
			return kpiUseCase.HandleEvent(ctx, event)
		})
		if err != nil {
			log.Errorf("Событие %s (%s) не обработано: %v", event.EventID, event.Type, err)
		}
	}
	log.Info("Воркер бонусов остановлен")
}
