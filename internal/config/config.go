package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/labstack/gommon/log"
	"github.com/ylevin1989/hyperlift-creator-cabinet-sub000/internal/entity"
)

type Database struct {
	DSN           string `env:"DB_CONNECT_DSN"`
	MigrationsDir string `env:"MIGRATIONS_DIR" envDefault:"./cockroachdb/migrations"`
}

type Minio struct {
	Endpoint  string `env:"MINIO_ENDPOINT"`
	AccessKey string `env:"MINIO_ACCESS_KEY" envDefault:"minioadmin"`
	SecretKey string `env:"MINIO_SECRET_KEY" envDefault:"minioadmin"`
	UseSSL    bool   `env:"MINIO_USE_SSL" envDefault:"false"`
	// PublicURL - адрес, под которым бакет превью доступен фронтенду
	PublicURL string `env:"MINIO_PUBLIC_URL"`
}

type Extractor struct {
	YouTubeAPIKey           string  `env:"YOUTUBE_API_KEY"`
	ScraperAPIKey           string  `env:"SCRAPER_API_KEY"`
	ScraperTikTokURL        string  `env:"SCRAPER_TIKTOK_URL"`
	ScraperInstagramPostURL string  `env:"SCRAPER_INSTAGRAM_POST_URL"`
	ScraperInstagramUserURL string  `env:"SCRAPER_INSTAGRAM_USER_URL"`
	VKServiceToken          string  `env:"VK_SERVICE_TOKEN"`
	TelegramBotToken        string  `env:"TELEGRAM_BOT_TOKEN"`
	BrowserEnabled          bool    `env:"BROWSER_ENABLED" envDefault:"false"`
	BrowserExecPath         string  `env:"BROWSER_EXEC_PATH"`
	YtDlpEnabled            bool    `env:"YTDLP_ENABLED" envDefault:"false"`
	FetchRPS                float64 `env:"FETCH_RPS" envDefault:"0"`
	// ServiceAddr - адрес metrics-service; если задан, сбор метрик выполняется удалённо
	ServiceAddr string `env:"METRICS_SERVICE_ADDR"`
}

type Sync struct {
	Concurrency    int           `env:"SYNC_CONCURRENCY" envDefault:"4"`
	BatchSize      int           `env:"SYNC_BATCH_SIZE" envDefault:"50"`
	StaleAfter     time.Duration `env:"SYNC_STALE_AFTER" envDefault:"6h"`
	WorkerInterval time.Duration `env:"STATS_WORKER_INTERVAL" envDefault:"1m"`
	WorkerID       string        `env:"STATS_WORKER_ID"`
}

type Config struct {
	LogLevel            string                  `env:"LOG_LEVEL" envDefault:"info"`
	HTTPAddr            string                  `env:"HTTP_ADDR" envDefault:"0.0.0.0:80"`
	GRPCPort            int                     `env:"GRPC_PORT" envDefault:"50051"`
	JWTSecret           string                  `env:"JWT_SECRET"`
	TelegramAdminChatID int64                   `env:"TELEGRAM_ADMIN_CHAT_ID"`
	NullTargetPolicy    entity.NullTargetPolicy `env:"KPI_NULL_TARGET_POLICY" envDefault:"no_bonus"`
	KafkaBrokers        []string                `env:"KAFKA_BROKERS" envSeparator:","`
	KafkaGroupID        string                  `env:"KAFKA_GROUP_ID" envDefault:"bonus-worker"`

	Database  Database
	Minio     Minio
	Extractor Extractor
	Sync      Sync
}

// Load читает .env (если он есть) и переменные окружения
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Info(".env файл не обнаружен")
	}
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	setLogLevel(cfg.LogLevel)
	return &cfg, nil
}

func (c *Config) validate() error {
	if !c.NullTargetPolicy.IsValid() {
		return fmt.Errorf("KPI_NULL_TARGET_POLICY must be no_bonus or zero_floor, got %q", c.NullTargetPolicy)
	}
	if c.Sync.Concurrency < 1 {
		return fmt.Errorf("SYNC_CONCURRENCY must be positive, got %d", c.Sync.Concurrency)
	}
	if c.Sync.WorkerInterval <= 0 {
		return fmt.Errorf("STATS_WORKER_INTERVAL must be positive, got %s", c.Sync.WorkerInterval)
	}
	brokers := c.KafkaBrokers[:0]
	for _, b := range c.KafkaBrokers {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	c.KafkaBrokers = brokers
	return nil
}

func setLogLevel(level string) {
	switch strings.ToLower(level) {
	case "debug":
		log.SetLevel(log.DEBUG)
	case "warn":
		log.SetLevel(log.WARN)
	case "error":
		log.SetLevel(log.ERROR)
	default:
		log.SetLevel(log.INFO)
	}
}
