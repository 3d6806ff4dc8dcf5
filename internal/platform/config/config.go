package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Server captures process-level configuration. Everything comes from the
// environment so main stays lean and deployments stay twelve-factor.
type Server struct {
	Addr          string
	AdminToken    string
	JWTSigningKey string
	JWTIssuer     string

	// RequireDepartment toggles the stricter affiliation policy: when set,
	// the affiliation step refuses profiles without a department.
	RequireDepartment bool

	// SessionTTL bounds how long an abandoned wizard session is kept.
	SessionTTL time.Duration

	Redis    RedisConfig
	Postgres PostgresConfig
	Kafka    KafkaConfig
}

// RedisConfig configures the optional Redis-backed view counter. An empty URL
// means Redis is not configured and the in-memory counter is used.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// PostgresConfig configures the optional Postgres profile store. An empty DSN
// means profiles live in memory.
type PostgresConfig struct {
	DSN string
}

// KafkaConfig configures the optional audit event sink. No brokers means
// audit events stay in the in-memory trail only.
type KafkaConfig struct {
	Brokers []string
	Topic   string
}

// FromEnv builds a Server config from environment variables.
func FromEnv() Server {
	addr := os.Getenv("QUIRE_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	adminToken := os.Getenv("QUIRE_ADMIN_TOKEN")
	if adminToken == "" {
		// Development default - must be overridden in production.
		adminToken = "dev-admin-token"
	}

	jwtKey := os.Getenv("QUIRE_JWT_SIGNING_KEY")
	if jwtKey == "" {
		jwtKey = "dev-secret-key-change-in-production"
	}

	issuer := os.Getenv("QUIRE_JWT_ISSUER")
	if issuer == "" {
		issuer = "quire"
	}

	sessionTTL := 30 * time.Minute
	if raw := os.Getenv("QUIRE_SESSION_TTL"); raw != "" {
		if d, err := time.ParseDuration(raw); err == nil {
			sessionTTL = d
		}
	}

	var brokers []string
	if raw := os.Getenv("QUIRE_KAFKA_BROKERS"); raw != "" {
		brokers = strings.Split(raw, ",")
	}
	topic := os.Getenv("QUIRE_KAFKA_AUDIT_TOPIC")
	if topic == "" {
		topic = "quire.audit"
	}

	return Server{
		Addr:              addr,
		AdminToken:        adminToken,
		JWTSigningKey:     jwtKey,
		JWTIssuer:         issuer,
		RequireDepartment: os.Getenv("QUIRE_REQUIRE_DEPARTMENT") == "true",
		SessionTTL:        sessionTTL,
		Redis: RedisConfig{
			URL:          os.Getenv("QUIRE_REDIS_URL"),
			PoolSize:     envInt("QUIRE_REDIS_POOL_SIZE", 10),
			MinIdleConns: envInt("QUIRE_REDIS_MIN_IDLE", 2),
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
		},
		Postgres: PostgresConfig{DSN: os.Getenv("QUIRE_POSTGRES_DSN")},
		Kafka:    KafkaConfig{Brokers: brokers, Topic: topic},
	}
}

func envInt(key string, fallback int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return n
}
