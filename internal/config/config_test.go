package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ylevin1989/hyperlift-creator-cabinet-sub000/internal/entity"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DB_CONNECT_DSN", "postgres://root@localhost:26257/defaultdb?sslmode=disable")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, entity.NullTargetNoBonus, cfg.NullTargetPolicy)
	assert.Equal(t, 4, cfg.Sync.Concurrency)
	assert.Equal(t, 6*time.Hour, cfg.Sync.StaleAfter)
	assert.Equal(t, time.Minute, cfg.Sync.WorkerInterval)
	assert.Equal(t, "./cockroachdb/migrations", cfg.Database.MigrationsDir)
	assert.Empty(t, cfg.KafkaBrokers)
	assert.False(t, cfg.Extractor.BrowserEnabled)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("KPI_NULL_TARGET_POLICY", "zero_floor")
	t.Setenv("KAFKA_BROKERS", "kafka-1:9092, kafka-2:9092,")
	t.Setenv("SYNC_STALE_AFTER", "30m")
	t.Setenv("YTDLP_ENABLED", "true")
	t.Setenv("TELEGRAM_ADMIN_CHAT_ID", "-100123")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, entity.NullTargetZeroFloor, cfg.NullTargetPolicy)
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, 30*time.Minute, cfg.Sync.StaleAfter)
	assert.True(t, cfg.Extractor.YtDlpEnabled)
	assert.Equal(t, int64(-100123), cfg.TelegramAdminChatID)
}

func TestLoadRejectsUnknownPolicy(t *testing.T) {
	t.Setenv("KPI_NULL_TARGET_POLICY", "half")
	_, err := Load()
	assert.Error(t, err)
}
