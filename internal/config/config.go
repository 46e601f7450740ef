package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

type Config struct {
	Port               string
	StoreURI           string
	MongoDatabase      string
	RedisAddr          string
	OrderCacheTTL      time.Duration
	KafkaBrokers       []string
	KafkaTopic         string
	GRPCHealthAddr     string
	PaymentSuccessRate float64
	LogLevel           string
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getDuration(k string, def time.Duration) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		log.WithField("key", k).Warnf("[config] invalid duration %q, using %s", v, def)
		return def
	}
	return d
}

func getRate(k string, def float64) float64 {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		log.WithField("key", k).Warnf("[config] invalid number %q, using %v", v, def)
		return def
	}
	switch {
	case f < 0:
		return 0
	case f > 1:
		return 1
	}
	return f
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func Load() Config {
	_ = godotenv.Load() // load .env if it exists
	cfg := Config{
		Port:               getenv("PORT", "5000"),
		StoreURI:           getenv("STORE_URI", os.Getenv("MONGO_URI")),
		MongoDatabase:      getenv("MONGO_DB", "orders"),
		RedisAddr:          os.Getenv("REDIS_ADDR"),
		OrderCacheTTL:      getDuration("ORDER_CACHE_TTL", 10*time.Minute),
		KafkaBrokers:       splitList(os.Getenv("KAFKA_BROKERS")),
		KafkaTopic:         getenv("KAFKA_TOPIC", "order-events"),
		GRPCHealthAddr:     os.Getenv("GRPC_HEALTH_ADDR"),
		PaymentSuccessRate: getRate("PAYMENT_SUCCESS_RATE", 0.8),
		LogLevel:           getenv("LOG_LEVEL", "info"),
	}
	log.WithFields(log.Fields{
		"port":                 cfg.Port,
		"store_configured":     cfg.StoreURI != "",
		"redis_addr":           cfg.RedisAddr,
		"kafka_brokers":        cfg.KafkaBrokers,
		"grpc_health_addr":     cfg.GRPCHealthAddr,
		"payment_success_rate": cfg.PaymentSuccessRate,
	}).Info("[config] loaded")
	return cfg
}

// Addr is the HTTP listen address.
func (c Config) Addr() string { return ":" + c.Port }
