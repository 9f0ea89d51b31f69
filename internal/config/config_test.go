package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("OPENWEATHER_API_KEY", "from-env")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.OpenWeatherAPIKey)
	assert.Equal(t, "https://api.openweathermap.org/data/2.5/weather", cfg.OpenWeatherBaseURL)
	assert.Equal(t, "cities.json", cfg.CatalogPath)
	assert.Equal(t, 15, cfg.CitySubsetSize)
	assert.Equal(t, 5*time.Minute, cfg.ObservationTTL)
	assert.Equal(t, 5*time.Minute, cfg.ResultTTL)
	assert.Equal(t, 10*time.Second, cfg.UpstreamTimeout)
	assert.Equal(t, 0, cfg.UpstreamMaxRetries)
	assert.Equal(t, 5, cfg.FetchParallelism)
	assert.Equal(t, time.Duration(0), cfg.WarmInterval)
	assert.Equal(t, 10*time.Minute, cfg.SweepInterval)
	assert.Equal(t, 15*time.Second, cfg.RequestTimeout)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoad_NoCompiledInCredential(t *testing.T) {
	t.Setenv("OPENWEATHER_API_KEY", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Empty(t, cfg.OpenWeatherAPIKey)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("CITY_SUBSET_SIZE", "8")
	t.Setenv("RESULT_TTL", "90s")
	t.Setenv("WARM_INTERVAL", "4m")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 8, cfg.CitySubsetSize)
	assert.Equal(t, 90*time.Second, cfg.ResultTTL)
	assert.Equal(t, 4*time.Minute, cfg.WarmInterval)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name, key, value string
	}{
		{name: "unparseable duration", key: "OBSERVATION_TTL", value: "soon"},
		{name: "zero subset", key: "CITY_SUBSET_SIZE", value: "0"},
		{name: "too many retries", key: "UPSTREAM_MAX_RETRIES", value: "9"},
		{name: "unknown log level", key: "LOG_LEVEL", value: "loud"},
		{name: "bad base url", key: "OPENWEATHER_BASE_URL", value: "not a url"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := Load()
			assert.Error(t, err)
		})
	}
}
