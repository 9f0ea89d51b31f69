package config

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type AppConfig struct {
	// OpenWeatherAPIKey has no default; it must come from the environment.
	OpenWeatherAPIKey  string `envconfig:"OPENWEATHER_API_KEY"`
	OpenWeatherBaseURL string `envconfig:"OPENWEATHER_BASE_URL" default:"https://api.openweathermap.org/data/2.5/weather" validate:"required,url"`

	// City catalog and how many of its leading entries are ranked.
	CatalogPath    string `envconfig:"CITY_CATALOG_PATH" default:"cities.json" validate:"required"`
	CitySubsetSize int    `envconfig:"CITY_SUBSET_SIZE" default:"15" validate:"gte=1"`

	// Cache lifetimes.
	ObservationTTL time.Duration `envconfig:"OBSERVATION_TTL" default:"5m" validate:"gt=0"`
	ResultTTL      time.Duration `envconfig:"RESULT_TTL" default:"5m" validate:"gt=0"`

	// Upstream call behaviour.
	UpstreamTimeout    time.Duration `envconfig:"UPSTREAM_TIMEOUT" default:"10s" validate:"gt=0"`
	UpstreamMaxRetries int           `envconfig:"UPSTREAM_MAX_RETRIES" default:"0" validate:"gte=0,lte=5"`
	FetchParallelism   int           `envconfig:"FETCH_PARALLELISM" default:"5" validate:"gte=1"`

	// Background jobs. WarmInterval of zero disables warm-up.
	WarmInterval  time.Duration `envconfig:"WARM_INTERVAL" default:"0s" validate:"gte=0"`
	SweepInterval time.Duration `envconfig:"SWEEP_INTERVAL" default:"10m" validate:"gt=0"`

	// RequestTimeout bounds how long /api/weather waits for a ranking.
	RequestTimeout time.Duration `envconfig:"REQUEST_TIMEOUT" default:"15s" validate:"gt=0"`

	Port     string `envconfig:"PORT" default:"8080" validate:"required"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info" validate:"oneof=debug info warn warning error"`
}

var validate = validator.New()

// Load reads configuration from the environment (and a .env file, if
// present) and validates it.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file loaded", "error", err)
	}

	cfg := &AppConfig{}
	if err := envconfig.Process("", cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}
