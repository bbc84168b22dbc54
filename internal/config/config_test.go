package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, ":8080", cfg.ServerAddr)
	assert.Equal(t, "mysql", cfg.StoreDriver)
	assert.True(t, cfg.FeedIncludeSelf)
	assert.True(t, cfg.FollowAllowSelf)
	assert.Equal(t, 30*time.Minute, cfg.JWTAccessTTL)
	assert.Equal(t, []string{"localhost:9092"}, cfg.KafkaBrokers)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("STORE_DRIVER", "MEMORY")
	t.Setenv("FEED_INCLUDE_SELF", "false")
	t.Setenv("FOLLOW_ALLOW_SELF", "false")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092,,")
	t.Setenv("OUTBOX_INTERVAL", "250ms")
	t.Setenv("JWT_REFRESH_TTL", "not-a-duration")
	t.Setenv("MINIO_PUBLIC_URL", "https://cdn.example.com/")

	cfg := Load()

	assert.Equal(t, "memory", cfg.StoreDriver)
	assert.False(t, cfg.FeedIncludeSelf)
	assert.False(t, cfg.FollowAllowSelf)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, 250*time.Millisecond, cfg.OutboxInterval)
	assert.Equal(t, 24*time.Hour, cfg.JWTRefreshTTL)
	assert.Equal(t, "https://cdn.example.com", cfg.MinIOPublicURL)
}
