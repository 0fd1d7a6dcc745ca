package config

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	// SessionRenewInterval is how often live sessions exchange their token.
	SessionRenewInterval time.Duration `env:"SESSION_RENEW_INTERVAL, default=13m"`

	Auth  AuthConfig
	Store StoreConfig
	Mongo MongoConfig
	Redis RedisConfig
}

// AuthConfig points at the collaborator auth service.
type AuthConfig struct {
	BaseURL string        `env:"AUTH_BASE_URL, default=http://localhost:9001"`
	Timeout time.Duration `env:"AUTH_TIMEOUT,  default=10s"`
}

// StoreConfig points at the collaborator petition store.
type StoreConfig struct {
	BaseURL string        `env:"STORE_BASE_URL, default=http://localhost:9002"`
	Timeout time.Duration `env:"STORE_TIMEOUT,  default=10s"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=pqrsd_portal"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load(log zerolog.Logger) *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}
	return &cfg
}
