package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"PORT", "STORE_URI", "MONGO_URI", "MONGO_DB", "REDIS_ADDR", "ORDER_CACHE_TTL",
		"KAFKA_BROKERS", "KAFKA_TOPIC", "GRPC_HEALTH_ADDR", "PAYMENT_SUCCESS_RATE", "LOG_LEVEL",
	} {
		t.Setenv(k, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg := Load()

	assert.Equal(t, "5000", cfg.Port)
	assert.Equal(t, ":5000", cfg.Addr())
	assert.Empty(t, cfg.StoreURI)
	assert.Equal(t, "orders", cfg.MongoDatabase)
	assert.Equal(t, 10*time.Minute, cfg.OrderCacheTTL)
	assert.Empty(t, cfg.KafkaBrokers)
	assert.Equal(t, "order-events", cfg.KafkaTopic)
	assert.Equal(t, 0.8, cfg.PaymentSuccessRate)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoad_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "8080")
	t.Setenv("STORE_URI", "postgres://u:p@localhost:5432/orders")
	t.Setenv("ORDER_CACHE_TTL", "30s")
	t.Setenv("KAFKA_BROKERS", " k1:9092, ,k2:9092 ")
	t.Setenv("PAYMENT_SUCCESS_RATE", "0.25")

	cfg := Load()

	assert.Equal(t, ":8080", cfg.Addr())
	assert.Equal(t, "postgres://u:p@localhost:5432/orders", cfg.StoreURI)
	assert.Equal(t, 30*time.Second, cfg.OrderCacheTTL)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, 0.25, cfg.PaymentSuccessRate)
}

func TestLoad_MongoURIAlias(t *testing.T) {
	clearEnv(t)
	t.Setenv("MONGO_URI", "mongodb://localhost:27017")

	assert.Equal(t, "mongodb://localhost:27017", Load().StoreURI)

	t.Setenv("STORE_URI", "memory://")
	assert.Equal(t, "memory://", Load().StoreURI)
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	clearEnv(t)
	t.Setenv("ORDER_CACHE_TTL", "soon")
	t.Setenv("PAYMENT_SUCCESS_RATE", "most")

	cfg := Load()

	assert.Equal(t, 10*time.Minute, cfg.OrderCacheTTL)
	assert.Equal(t, 0.8, cfg.PaymentSuccessRate)
}

func TestGetRate_Clamps(t *testing.T) {
	t.Setenv("RATE", "1.5")
	assert.Equal(t, 1.0, getRate("RATE", 0.8))
	t.Setenv("RATE", "-2")
	assert.Equal(t, 0.0, getRate("RATE", 0.8))
}
