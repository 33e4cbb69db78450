// Package config loads process configuration from the environment,
// following the same caarlos0/env + godotenv pair used throughout this
// repository's services.
package config

import (
	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/exchange-clob/matching-engine/pkg/redis"
)

// MustLoad loads cfg from the environment, panicking on failure.
func MustLoad[T any](cfg T) {
	_ = godotenv.Load()
	env.Must(cfg, env.Parse(cfg))
}

// Load loads cfg from the environment, returning any parse error.
func Load[T any](cfg T) error {
	_ = godotenv.Load()
	return env.Parse(cfg)
}

// Config holds the matching engine's process-level configuration.
type Config struct {
	Pair                 string `env:"PAIR,required"`
	GRPCPort             string `env:"GRPC_PORT" envDefault:":7070"`
	HTTPHealthPort       string `env:"HTTP_HEALTH_PORT" envDefault:":8080"`
	SnapshotInterval     int    `env:"SNAPSHOT_INTERVAL_ORDERS" envDefault:"1000"`
	LogLevel             string `env:"LOG_LEVEL" envDefault:"info"`
	OrderReaderConfig    `envPrefix:"ORDER_READER_"`
	MatchPublisherConfig `envPrefix:"MATCH_PUBLISHER_"`
	Redis                redis.Config `envPrefix:"REDIS_"`
}

// OrderReaderConfig configures the Kafka consumer for the order topic.
type OrderReaderConfig struct {
	Topic   string   `env:"TOPIC,required"`
	GroupID string   `env:"GROUP_ID" envDefault:"matching-engine"`
	Brokers []string `env:"BROKER,required"`
}

// MatchPublisherConfig configures the Kafka producer for the match-event topic.
type MatchPublisherConfig struct {
	Topic   string   `env:"TOPIC,required"`
	Brokers []string `env:"BROKER,required"`
}
