// Package config builds process configuration from environment variables so
// main stays lean.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Server captures HTTP server level configuration.
type Server struct {
	Addr        string
	PostgresDSN string
	Redis       RedisConfig
	Kafka       KafkaConfig
	Judge       JudgeConfig
	Run         RunConfig
}

// RedisConfig configures the optional judge-verdict cache.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	VerdictTTL   time.Duration
}

// KafkaConfig configures the audit outbox sink.
type KafkaConfig struct {
	Brokers []string
	Topic   string
}

// JudgeConfig bounds calls to the discrepancy judge collaborator.
type JudgeConfig struct {
	BaseURL    string
	Timeout    time.Duration
	MaxRetries int
	Backoff    time.Duration
}

// RunConfig tunes verification runs. The ownership threshold is not
// configured here; it belongs to the requirement set.
type RunConfig struct {
	Workers        int
	PersistTimeout time.Duration
}

// FromEnv builds a Server config from environment variables.
func FromEnv() Server {
	return Server{
		Addr:        envOr("VERITAS_ADDR", ":8080"),
		PostgresDSN: os.Getenv("VERITAS_POSTGRES_DSN"),
		Redis: RedisConfig{
			URL:          os.Getenv("VERITAS_REDIS_URL"),
			PoolSize:     envInt("VERITAS_REDIS_POOL_SIZE", 10),
			MinIdleConns: envInt("VERITAS_REDIS_MIN_IDLE", 2),
			DialTimeout:  envDuration("VERITAS_REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  envDuration("VERITAS_REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: envDuration("VERITAS_REDIS_WRITE_TIMEOUT", 3*time.Second),
			VerdictTTL:   envDuration("VERITAS_JUDGE_CACHE_TTL", 24*time.Hour),
		},
		Kafka: KafkaConfig{
			Brokers: splitNonEmpty(os.Getenv("VERITAS_KAFKA_BROKERS")),
			Topic:   envOr("VERITAS_AUDIT_TOPIC", "veritas.audit"),
		},
		Judge: JudgeConfig{
			BaseURL:    os.Getenv("VERITAS_JUDGE_URL"),
			Timeout:    envDuration("VERITAS_JUDGE_TIMEOUT", 30*time.Second),
			MaxRetries: envInt("VERITAS_JUDGE_RETRIES", 2),
			Backoff:    envDuration("VERITAS_JUDGE_BACKOFF", 500*time.Millisecond),
		},
		Run: RunConfig{
			Workers:        envInt("VERITAS_RUN_WORKERS", 4),
			PersistTimeout: envDuration("VERITAS_PERSIST_TIMEOUT", 10*time.Second),
		},
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func splitNonEmpty(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
