package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config is centralized process configuration.
// Priority: ENV > env-default tags. Keep infra values here and pass typed
// config into builders.
type Config struct {
	ServiceName string `env:"SERVICE_NAME" env-default:"dewey"`
	HTTPPort    string `env:"HTTP_PORT" env-default:"8080"`

	PostgresDSN   string `env:"POSTGRES_DSN"`
	MongoURI      string `env:"MONGO_URI" env-default:"mongodb://localhost:27017"`
	MongoDatabase string `env:"MONGO_DATABASE" env-default:"dewey_disc_system"`
	RedisAddr     string `env:"REDIS_ADDR" env-default:"localhost:6379"`
	RedisPassword string `env:"REDIS_PASSWORD"`

	KafkaBrokers       []string      `env:"KAFKA_BROKERS" env-separator:"," env-default:"localhost:9092"`
	BagUpdatesTopic    string        `env:"KAFKA_TOPIC_BAG_UPDATES" env-default:"bag.updates"`
	BagConsumerGroup   string        `env:"KAFKA_CONSUMER_GROUP" env-default:"bag-worker-group"`
	PublishTimeout     time.Duration `env:"PUBLISH_TIMEOUT" env-default:"5s"`
	EventDedupTTL      time.Duration `env:"EVENT_DEDUP_TTL" env-default:"168h"`
	ConsumerMaxRetries int           `env:"CONSUMER_MAX_RETRIES" env-default:"5"`
}

func Load() (Config, error) {
	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: read env: %w", err)
	}
	return cfg, nil
}
