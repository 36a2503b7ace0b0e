// Package bootstrap собирает зависимости бинарников из config.Config
package bootstrap

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/labstack/gommon/log"
	"github.com/ylevin1989/hyperlift-creator-cabinet-sub000/internal/config"
	metricsservice "github.com/ylevin1989/hyperlift-creator-cabinet-sub000/internal/delivery/grpc/metrics-service"
	"github.com/ylevin1989/hyperlift-creator-cabinet-sub000/internal/delivery/platform"
	"github.com/ylevin1989/hyperlift-creator-cabinet-sub000/internal/repo"
	"github.com/ylevin1989/hyperlift-creator-cabinet-sub000/internal/repo/kafka"
	"github.com/ylevin1989/hyperlift-creator-cabinet-sub000/internal/repo/objectstore"
	"github.com/ylevin1989/hyperlift-creator-cabinet-sub000/internal/usecase"
	"github.com/ylevin1989/hyperlift-creator-cabinet-sub000/internal/usecase/service"
	"github.com/ylevin1989/hyperlift-creator-cabinet-sub000/internal/usecase/service/extractor"
	"github.com/ylevin1989/hyperlift-creator-cabinet-sub000/pkg/browser"
	"github.com/ylevin1989/hyperlift-creator-cabinet-sub000/pkg/connector"
	"github.com/ylevin1989/hyperlift-creator-cabinet-sub000/pkg/fetch"
	"github.com/ylevin1989/hyperlift-creator-cabinet-sub000/pkg/goosehelper"
)

// Database подключается к CockroachDB
func Database(ctx context.Context, cfg *config.Config) (*sqlx.DB, error) {
	if cfg.Database.DSN == "" {
		return nil, fmt.Errorf("DB_CONNECT_DSN is required")
	}
	return connector.GetCockroachConnector(ctx, cfg.Database.DSN)
}

// Migrate применяет миграции отдельным соединением и закрывает его
func Migrate(ctx context.Context, cfg *config.Config) error {
	db, err := Database(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Errorf("Ошибка при закрытии соединения с базой данных: %v", err)
		}
	}()
	// Получаем *sql.DB из *sqlx.DB
	return goosehelper.MigrateUp(db.DB, cfg.Database.MigrationsDir)
}

// FetchClient - общий HTTP клиент стратегий и скачивания превью
func FetchClient(cfg *config.Config) *fetch.Client {
	return fetch.New(fetch.WithRateLimit(cfg.Extractor.FetchRPS, 2))
}

// LocalExtractor собирает цепочки стратегий в текущем процессе
func LocalExtractor(ctx context.Context, cfg *config.Config, client *fetch.Client) (*extractor.Extractor, error) {
	ec := extractor.Config{
		YouTubeAPIKey: cfg.Extractor.YouTubeAPIKey,
		Scraper: extractor.ScraperConfig{
			Key:              cfg.Extractor.ScraperAPIKey,
			TikTokVideoURL:   cfg.Extractor.ScraperTikTokURL,
			InstagramPostURL: cfg.Extractor.ScraperInstagramPostURL,
			InstagramUserURL: cfg.Extractor.ScraperInstagramUserURL,
		},
		VKServiceToken:   cfg.Extractor.VKServiceToken,
		TelegramBotToken: cfg.Extractor.TelegramBotToken,
		YtDlp:            cfg.Extractor.YtDlpEnabled,
	}
	if cfg.Extractor.BrowserEnabled {
		ec.Renderer = browser.NewChrome(browser.Config{ExecPath: cfg.Extractor.BrowserExecPath})
	}
	return extractor.New(ctx, client, ec)
}

// Extractor возвращает удалённый экстрактор, если задан METRICS_SERVICE_ADDR, иначе локальный.
// closer нужно вызвать при завершении.
func Extractor(ctx context.Context, cfg *config.Config, client *fetch.Client) (usecase.MetricsExtractor, func(), error) {
	if cfg.Extractor.ServiceAddr != "" {
		remote, err := metricsservice.NewMetricsServiceClient(cfg.Extractor.ServiceAddr)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to metrics service: %w", err)
		}
		log.Infof("Сбор метрик через metrics-service %s", cfg.Extractor.ServiceAddr)
		return remote, func() { _ = remote.Close() }, nil
	}
	local, err := LocalExtractor(ctx, cfg, client)
	if err != nil {
		return nil, nil, err
	}
	return local, func() {}, nil
}

// Events возвращает Kafka, если заданы брокеры, иначе публикацию в том же процессе.
// inline не nil только во втором случае: к нему нужно привязать usecase.Kpi.
func Events(ctx context.Context, cfg *config.Config) (events repo.AssetEventPublisher, inline *service.InlinePublisher, closer func(), err error) {
	if len(cfg.KafkaBrokers) == 0 {
		log.Info("KAFKA_BROKERS не задан, бонусы пересчитываются в том же процессе")
		inline = service.NewInlinePublisher()
		return inline, inline, func() {}, nil
	}
	kafkaRepo, err := kafka.NewAssetEventKafkaRepository(ctx, cfg.KafkaBrokers)
	if err != nil {
		return nil, nil, nil, err
	}
	return kafkaRepo, nil, func() { _ = kafkaRepo.Close() }, nil
}

// Notifier возвращает уведомления в Telegram, nil если бот или чат не настроены
func Notifier(cfg *config.Config) usecase.Notifier {
	if cfg.Extractor.TelegramBotToken == "" || cfg.TelegramAdminChatID == 0 {
		return nil
	}
	notifier, err := platform.NewTelegramNotifier(cfg.Extractor.TelegramBotToken, cfg.TelegramAdminChatID, "")
	if err != nil {
		log.Warnf("Уведомления администраторов отключены: %v", err)
		return nil
	}
	return notifier
}

// Thumbnails возвращает зеркалирование превью в MinIO, nil если хранилище не настроено
func Thumbnails(ctx context.Context, cfg *config.Config, client *fetch.Client) (*service.ThumbnailMirror, error) {
	minioClient, err := connector.GetMinioConnector(cfg.Minio.Endpoint, cfg.Minio.AccessKey, cfg.Minio.SecretKey, cfg.Minio.UseSSL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to minio: %w", err)
	}
	if minioClient == nil {
		log.Info("MINIO_ENDPOINT не задан, превью хранятся ссылками площадок")
		return nil, nil
	}
	publicURL := cfg.Minio.PublicURL
	if publicURL == "" {
		scheme := "http"
		if cfg.Minio.UseSSL {
			scheme = "https"
		}
		publicURL = scheme + "://" + cfg.Minio.Endpoint
	}
	store, err := objectstore.NewThumbnails(ctx, minioClient, publicURL)
	if err != nil {
		return nil, err
	}
	return service.NewThumbnailMirror(client, store), nil
}
