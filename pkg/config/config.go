package config

import (
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	Debug       bool   `env:"DEBUG" envDefault:"false"`

	Server struct {
		Port        int    `env:"PORT" envDefault:"8000"`
		Origin      string `env:"ORIGIN" envDefault:"http://localhost:3000"`
		MetricsPort int    `env:"METRICS_PORT" envDefault:"9090"`
	}

	Database struct {
		// Driver picks the adapter: "postgres" or "sqlite".
		Driver         string `env:"DATABASE_DRIVER" envDefault:"postgres"`
		URL            string `env:"DATABASE_URL" envDefault:""`
		Path           string `env:"DATABASE_PATH" envDefault:"database.db"`
		MigrationsPath string `env:"MIGRATIONS_PATH" envDefault:""`
	}

	Cache struct {
		Enabled  bool          `env:"CACHE_ENABLED" envDefault:"true"`
		RedisURL string        `env:"REDIS_URL" envDefault:"redis://localhost:6379/0"`
		TTL      time.Duration `env:"CACHE_TTL" envDefault:"5m"`
	}

	Loader struct {
		Wait     time.Duration `env:"LOADER_WAIT" envDefault:"2ms"`
		MaxBatch int           `env:"LOADER_MAX_BATCH" envDefault:"100"`
	}

	RateLimit struct {
		Enabled  bool          `env:"RATE_LIMIT_ENABLED" envDefault:"true"`
		Requests int           `env:"RATE_LIMIT_REQUESTS" envDefault:"100"`
		Window   time.Duration `env:"RATE_LIMIT_WINDOW" envDefault:"1m"`
	}

	Auth struct {
		JWTSecret string        `env:"JWT_SECRET" envDefault:""`
		TokenTTL  time.Duration `env:"JWT_TOKEN_TTL" envDefault:"24h"`
	}

	Telemetry struct {
		Enabled      bool   `env:"OTEL_ENABLED" envDefault:"false"`
		OTLPEndpoint string `env:"OTEL_EXPORTER_OTLP_ENDPOINT" envDefault:"localhost:4317"`
		ServiceName  string `env:"OTEL_SERVICE_NAME" envDefault:"usergraph"`
	}
}

// Load reads .env when present, then the process environment. A missing
// .env is fine; production sets variables directly.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}

	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
