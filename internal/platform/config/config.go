package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Server captures process-level configuration, read once at startup so main
// stays lean.
type Server struct {
	Addr           string
	JWTSigningKey  string
	AdminAuthority string
	PostgresURL    string
	Redis          RedisConfig
	Kafka          KafkaConfig
	AuditBuffer    int
}

// RedisConfig configures the optional token-revocation backend.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// KafkaConfig configures the optional audit sink.
type KafkaConfig struct {
	Brokers []string
	Topic   string
}

// FromEnv builds a Server config from environment variables.
func FromEnv() Server {
	cfg := Server{
		Addr:           envOr("RECRUSEARCH_ADDR", ":8080"),
		JWTSigningKey:  envOr("RECRUSEARCH_JWT_SIGNING_KEY", "dev-secret-key-change-in-production"),
		AdminAuthority: envOr("RECRUSEARCH_ADMIN_AUTHORITY", "admin-dev-authority"),
		PostgresURL:    os.Getenv("RECRUSEARCH_POSTGRES_URL"),
		Redis: RedisConfig{
			URL:          os.Getenv("RECRUSEARCH_REDIS_URL"),
			PoolSize:     envIntOr("RECRUSEARCH_REDIS_POOL_SIZE", 10),
			MinIdleConns: envIntOr("RECRUSEARCH_REDIS_MIN_IDLE", 2),
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
		},
		Kafka: KafkaConfig{
			Topic: envOr("RECRUSEARCH_AUDIT_TOPIC", "recrusearch.audit"),
		},
		AuditBuffer: envIntOr("RECRUSEARCH_AUDIT_BUFFER", 256),
	}
	if brokers := os.Getenv("RECRUSEARCH_KAFKA_BROKERS"); brokers != "" {
		cfg.Kafka.Brokers = strings.Split(brokers, ",")
	}
	return cfg
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
