package config

import (
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	// 服务
	Mode        string
	ServerAddr  string
	StoreDriver string

	// MySQL
	MySQLDSN             string
	MySQLMaxOpen         int
	MySQLMaxIdle         int
	MySQLConnMaxLifetime time.Duration
	DBMigrate            bool

	// Redis
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// Kafka / outbox
	KafkaBrokers   []string
	KafkaTopic     string
	OutboxBatch    int
	OutboxInterval time.Duration
	OutboxMaxRetry int

	// JWT
	JWTAccessSecret  string
	JWTRefreshSecret string
	JWTAccessTTL     time.Duration
	JWTRefreshTTL    time.Duration

	// GitHub OAuth
	GitHubClientID     string
	GitHubClientSecret string
	GitHubRedirectURL  string

	// MinIO
	MinIOEndpoint  string
	MinIOAccessKey string
	MinIOSecretKey string
	MinIOBucket    string
	MinIOUseSSL    bool
	MinIOPublicURL string
	MediaMaxBytes  int64

	// 业务开关
	FeedIncludeSelf bool
	FollowAllowSelf bool

	// 日志
	LogLevel       string
	LogDevelopment bool
}

// Load 读取 .env、环境变量和可选的 config.yaml
func Load() *Config {
	_ = godotenv.Load()

	v := viper.New()
	v.SetDefault("GIN_MODE", "release")
	v.SetDefault("SERVER_ADDR", ":8080")
	v.SetDefault("STORE_DRIVER", "mysql")

	v.SetDefault("MYSQL_DSN", "root:root@tcp(127.0.0.1:3306)/octo_social?charset=utf8mb4&parseTime=True&loc=UTC&multiStatements=true")
	v.SetDefault("MYSQL_MAX_OPEN", 50)
	v.SetDefault("MYSQL_MAX_IDLE", 10)
	v.SetDefault("MYSQL_CONN_MAX_LIFETIME", "30m")
	v.SetDefault("DB_MIGRATE", true)

	v.SetDefault("REDIS_ADDR", "127.0.0.1:6379")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("KAFKA_BROKERS", "localhost:9092")
	v.SetDefault("KAFKA_TOPIC", "social-events")
	v.SetDefault("OUTBOX_BATCH", 200)
	v.SetDefault("OUTBOX_INTERVAL", "1s")
	v.SetDefault("OUTBOX_MAX_RETRY", 5)

	v.SetDefault("JWT_ACCESS_SECRET", "dev-access-secret")
	v.SetDefault("JWT_REFRESH_SECRET", "dev-refresh-secret")
	v.SetDefault("JWT_ACCESS_TTL", "30m")
	v.SetDefault("JWT_REFRESH_TTL", "24h")

	v.SetDefault("GITHUB_REDIRECT_URL", "http://localhost:8080/api/auth/github/callback")

	v.SetDefault("MINIO_ENDPOINT", "localhost:9000")
	v.SetDefault("MINIO_BUCKET", "media")
	v.SetDefault("MINIO_USE_SSL", false)
	v.SetDefault("MINIO_PUBLIC_URL", "http://localhost:9000")
	v.SetDefault("MEDIA_MAX_BYTES", 10<<20)

	v.SetDefault("FEED_INCLUDE_SELF", true)
	v.SetDefault("FOLLOW_ALLOW_SELF", true)

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_DEVELOPMENT", false)

	v.AutomaticEnv()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	_ = v.ReadInConfig() // 没有配置文件时忽略

	return &Config{
		Mode:                 v.GetString("GIN_MODE"),
		ServerAddr:           v.GetString("SERVER_ADDR"),
		StoreDriver:          strings.ToLower(v.GetString("STORE_DRIVER")),
		MySQLDSN:             v.GetString("MYSQL_DSN"),
		MySQLMaxOpen:         v.GetInt("MYSQL_MAX_OPEN"),
		MySQLMaxIdle:         v.GetInt("MYSQL_MAX_IDLE"),
		MySQLConnMaxLifetime: parseDuration(v.GetString("MYSQL_CONN_MAX_LIFETIME"), 30*time.Minute),
		DBMigrate:            v.GetBool("DB_MIGRATE"),
		RedisAddr:            v.GetString("REDIS_ADDR"),
		RedisPassword:        v.GetString("REDIS_PASSWORD"),
		RedisDB:              v.GetInt("REDIS_DB"),
		KafkaBrokers:         splitList(v.GetString("KAFKA_BROKERS")),
		KafkaTopic:           v.GetString("KAFKA_TOPIC"),
		OutboxBatch:          v.GetInt("OUTBOX_BATCH"),
		OutboxInterval:       parseDuration(v.GetString("OUTBOX_INTERVAL"), time.Second),
		OutboxMaxRetry:       v.GetInt("OUTBOX_MAX_RETRY"),
		JWTAccessSecret:      v.GetString("JWT_ACCESS_SECRET"),
		JWTRefreshSecret:     v.GetString("JWT_REFRESH_SECRET"),
		JWTAccessTTL:         parseDuration(v.GetString("JWT_ACCESS_TTL"), 30*time.Minute),
		JWTRefreshTTL:        parseDuration(v.GetString("JWT_REFRESH_TTL"), 24*time.Hour),
		GitHubClientID:       v.GetString("GITHUB_CLIENT_ID"),
		GitHubClientSecret:   v.GetString("GITHUB_CLIENT_SECRET"),
		GitHubRedirectURL:    v.GetString("GITHUB_REDIRECT_URL"),
		MinIOEndpoint:        v.GetString("MINIO_ENDPOINT"),
		MinIOAccessKey:       v.GetString("MINIO_ACCESS_KEY"),
		MinIOSecretKey:       v.GetString("MINIO_SECRET_KEY"),
		MinIOBucket:          v.GetString("MINIO_BUCKET"),
		MinIOUseSSL:          v.GetBool("MINIO_USE_SSL"),
		MinIOPublicURL:       strings.TrimSuffix(v.GetString("MINIO_PUBLIC_URL"), "/"),
		MediaMaxBytes:        v.GetInt64("MEDIA_MAX_BYTES"),
		FeedIncludeSelf:      v.GetBool("FEED_INCLUDE_SELF"),
		FollowAllowSelf:      v.GetBool("FOLLOW_ALLOW_SELF"),
		LogLevel:             v.GetString("LOG_LEVEL"),
		LogDevelopment:       v.GetBool("LOG_DEVELOPMENT"),
	}
}

func parseDuration(s string, def time.Duration) time.Duration {
	if d, err := time.ParseDuration(s); err == nil {
		return d
	}
	return def
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
