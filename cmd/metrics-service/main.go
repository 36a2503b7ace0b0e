package main

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"

	"github.com/labstack/gommon/log"
	"github.com/ylevin1989/hyperlift-creator-cabinet-sub000/internal/bootstrap"
	"github.com/ylevin1989/hyperlift-creator-cabinet-sub000/internal/config"
	metricsservice "github.com/ylevin1989/hyperlift-creator-cabinet-sub000/internal/delivery/grpc/metrics-service"
	"google.golang.org/grpc"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Ошибка конфигурации: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, os.Kill)
	defer stop()

	// сервис сам собирает метрики, METRICS_SERVICE_ADDR здесь не учитывается
	metricsExtractor, err := bootstrap.LocalExtractor(ctx, cfg, bootstrap.FetchClient(cfg))
	if err != nil {
		log.Fatalf("Ошибка при создании экстрактора метрик: %v", err)
	}

	grpcServer := grpc.NewServer() // Создание и регистрация gRPC сервиса
	metricsservice.RegisterMetricsServiceServer(grpcServer, metricsservice.NewMetricsServiceServer(metricsExtractor, cfg.NullTargetPolicy))

	lis, err := net.Listen("tcp", fmt.Sprintf(":%d", cfg.GRPCPort))
	if err != nil {
		log.Fatalf("Невозможно прослушать порт: %v", err)
	}
	log.Infof("Metrics service запущен на порту %d", cfg.GRPCPort)

	go func() {
		if err := grpcServer.Serve(lis); err != nil {
			log.Fatalf("Ошибка при запуске gRPC сервера: %v", err)
		}
	}()

	<-ctx.Done()
	log.Info("Остановка gRPC сервера.")
	// Graceful shutdown
	grpcServer.GracefulStop()
}
