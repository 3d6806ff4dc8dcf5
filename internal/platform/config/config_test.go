package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFromEnvDefaults(t *testing.T) {
	cfg := FromEnv()

	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, "dev-admin-token", cfg.AdminToken)
	assert.Equal(t, "quire", cfg.JWTIssuer)
	assert.False(t, cfg.RequireDepartment)
	assert.Equal(t, 30*time.Minute, cfg.SessionTTL)
	assert.Empty(t, cfg.Redis.URL)
	assert.Equal(t, 10, cfg.Redis.PoolSize)
	assert.Empty(t, cfg.Postgres.DSN)
	assert.Nil(t, cfg.Kafka.Brokers)
	assert.Equal(t, "quire.audit", cfg.Kafka.Topic)
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("QUIRE_ADDR", ":9090")
	t.Setenv("QUIRE_ADMIN_TOKEN", "super-secret")
	t.Setenv("QUIRE_JWT_ISSUER", "quire-staging")
	t.Setenv("QUIRE_REQUIRE_DEPARTMENT", "true")
	t.Setenv("QUIRE_SESSION_TTL", "2h")
	t.Setenv("QUIRE_REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("QUIRE_REDIS_POOL_SIZE", "32")
	t.Setenv("QUIRE_POSTGRES_DSN", "postgres://quire@localhost/quire")
	t.Setenv("QUIRE_KAFKA_BROKERS", "kafka-1:9092,kafka-2:9092")

	cfg := FromEnv()

	assert.Equal(t, ":9090", cfg.Addr)
	assert.Equal(t, "super-secret", cfg.AdminToken)
	assert.Equal(t, "quire-staging", cfg.JWTIssuer)
	assert.True(t, cfg.RequireDepartment)
	assert.Equal(t, 2*time.Hour, cfg.SessionTTL)
	assert.Equal(t, "redis://localhost:6379/0", cfg.Redis.URL)
	assert.Equal(t, 32, cfg.Redis.PoolSize)
	assert.Equal(t, "postgres://quire@localhost/quire", cfg.Postgres.DSN)
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.Kafka.Brokers)
}

func TestFromEnvIgnoresMalformedValues(t *testing.T) {
	t.Setenv("QUIRE_SESSION_TTL", "soon")
	t.Setenv("QUIRE_REDIS_POOL_SIZE", "many")

	cfg := FromEnv()

	assert.Equal(t, 30*time.Minute, cfg.SessionTTL)
	assert.Equal(t, 10, cfg.Redis.PoolSize)
}
