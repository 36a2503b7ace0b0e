package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	"github.com/ylevin1989/hyperlift-creator-cabinet-sub000/internal/bootstrap"
	"github.com/ylevin1989/hyperlift-creator-cabinet-sub000/internal/config"
	delivery "github.com/ylevin1989/hyperlift-creator-cabinet-sub000/internal/delivery/http"
	"github.com/ylevin1989/hyperlift-creator-cabinet-sub000/internal/delivery/http/utils"
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
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, os.Kill)
	defer stop()

	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET переменная окружения обязательна")
	}

	// cockroach
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

	// запускаем сервисы репозиториев (подключение к базе данных)
	assetRepo := cockroach.NewAsset(dbConn)
	kpiRepo := cockroach.NewKpi(dbConn)
	profileRepo := cockroach.NewProfile(dbConn)

	// запускаем сервисы usecase (бизнес-логика)
	assetUseCase := service.NewAsset(assetRepo, metricsExtractor, events, bootstrap.Notifier(cfg), thumbnails, cfg.Sync.Concurrency)
	kpiUseCase := service.NewKpi(kpiRepo, assetRepo, events, cfg.NullTargetPolicy)
	followersUseCase := service.NewFollowers(profileRepo, metricsExtractor)
	if inline != nil {
		inline.Bind(kpiUseCase)
	}

	// запускаем сервисы delivery (обработка запросов)
	authManager := utils.NewAuthManager([]byte(cfg.JWTSecret), time.Hour*24*30)
	assetDelivery := delivery.NewAsset(assetUseCase, authManager)
	kpiDelivery := delivery.NewKpi(kpiUseCase, authManager)
	profileDelivery := delivery.NewProfile(followersUseCase, authManager)
	platformDelivery := delivery.NewPlatform()

	// REST API
	echoServer := echo.New()
	echoServer.Validator = utils.NewValidator()
	echoServer.Server.ReadHeaderTimeout = 10 * time.Second
	// синхронизация ждёт всю цепочку стратегий
	echoServer.Server.WriteTimeout = 3 * time.Minute

	// Не более 1 МБ
	echoServer.Use(middleware.BodyLimit("1M"))
	// gzip на прием
	echoServer.Use(middleware.Decompress())
	// gzip на отдачу
	echoServer.Use(middleware.GzipWithConfig(middleware.GzipConfig{
		Level: 5,
	}))
	// request id
	echoServer.Use(middleware.RequestID())
	echoServer.Use(middleware.Recover())

	// CORS
	echoServer.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"http://localhost:3000"},
		AllowMethods: []string{
			http.MethodGet,
			http.MethodPut,
			http.MethodPost,
			http.MethodDelete,
			http.MethodOptions,
		},
		AllowHeaders: []string{
			echo.HeaderOrigin,
			echo.HeaderAccept,
			echo.HeaderContentType,
			echo.HeaderAuthorization,
			echo.HeaderCookie,
		},
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	// Endpoints
	api := echoServer.Group("/api")
	// assets
	assetDelivery.Configure(api.Group("/assets"))
	// kpi
	kpiDelivery.Configure(api.Group("/kpi"))
	// profiles
	profileDelivery.Configure(api.Group("/profiles"))
	// platform
	platformDelivery.Configure(api.Group("/platform"))

	go func(server *echo.Echo) {
		if err := server.Start(cfg.HTTPAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			server.Logger.Fatalf("Сервер завершил свою работу по причине: %v\n", err)
		}
	}(echoServer)
	log.Infof("Gateway слушает %s", cfg.HTTPAddr)

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := echoServer.Shutdown(shutdownCtx); err != nil {
		echoServer.Logger.Fatalf("Во время выключения сервера возникла ошибка: %s\n", err)
	}
}
