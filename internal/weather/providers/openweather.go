package providers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/sony/gobreaker"

	"github.com/i474232898/comfort-ranking/internal/common"
	"github.com/i474232898/comfort-ranking/internal/weather"
)

// DefaultOpenWeatherURL is the current-conditions endpoint of OpenWeatherMap.
const DefaultOpenWeatherURL = "https://api.openweathermap.org/data/2.5/weather"

// msToKmh converts wind speed from m/s to km/h.
const msToKmh = 3.6

var errMissingField = errors.New("missing field")

// OpenWeatherProvider implements the weather.Provider interface for OpenWeatherMap.
type OpenWeatherProvider struct {
	name    string
	apiKey  string
	baseURL string
	httpCfg HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
}

// OpenWeatherOption customises an OpenWeatherProvider.
type OpenWeatherOption func(*OpenWeatherProvider)

// WithBaseURL points the provider at a different endpoint.
func WithBaseURL(u string) OpenWeatherOption {
	return func(p *OpenWeatherProvider) {
		if u != "" {
			p.baseURL = u
		}
	}
}

// WithRetries enables up to n retries of transient failures.
func WithRetries(n int) OpenWeatherOption {
	return func(p *OpenWeatherProvider) {
		p.httpCfg.Backoff.MaxRetries = n
	}
}

func NewOpenWeatherProvider(client *http.Client, apiKey string, opts ...OpenWeatherOption) *OpenWeatherProvider {
	p := &OpenWeatherProvider{
		name:    "openweathermap",
		apiKey:  apiKey,
		baseURL: DefaultOpenWeatherURL,
		httpCfg: HTTPClientConfig{
			Client: client,
			Backoff: BackoffConfig{
				MaxRetries:      0,
				InitialInterval: 500 * time.Millisecond,
				MaxInterval:     5 * time.Second,
			},
		},
		circuit: newCircuitBreaker("openweather"),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *OpenWeatherProvider) Name() string {
	return p.name
}

// openWeatherPayload is the subset of the current-conditions response we read.
type openWeatherPayload struct {
	Weather []struct {
		Description string `json:"description"`
		Icon        string `json:"icon"`
	} `json:"weather"`
	Main *struct {
		Temp     *float64 `json:"temp"`
		Humidity *float64 `json:"humidity"`
	} `json:"main"`
	Wind *struct {
		Speed *float64 `json:"speed"`
	} `json:"wind"`
}

// Fetch retrieves the current observation for an OpenWeatherMap city id in
// metric units.
func (p *OpenWeatherProvider) Fetch(ctx context.Context, cityID int) (weather.Observation, error) {
	if p.apiKey == "" {
		return weather.Observation{}, weather.ErrMissingCredential
	}

	buildRequest := func(ctx context.Context) (*http.Request, error) {
		values := url.Values{}
		values.Set("id", strconv.Itoa(cityID))
		values.Set("appid", p.apiKey)
		values.Set("units", "metric")

		u := fmt.Sprintf("%s?%s", p.baseURL, values.Encode())
		return http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	}

	resp, err := doRequestWithResilience(ctx, cityID, p.httpCfg, p.circuit, buildRequest)
	if err != nil {
		return weather.Observation{}, err
	}
	defer resp.Body.Close()

	var payload openWeatherPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		if ctx.Err() != nil {
			return weather.Observation{}, networkError(cityID, err)
		}
		return weather.Observation{}, parseError(cityID, err)
	}

	return payload.observation(cityID)
}

func (pl openWeatherPayload) observation(cityID int) (weather.Observation, error) {
	switch {
	case len(pl.Weather) == 0:
		return weather.Observation{}, parseError(cityID, fmt.Errorf("%w: weather", errMissingField))
	case pl.Main == nil || pl.Main.Temp == nil || pl.Main.Humidity == nil:
		return weather.Observation{}, parseError(cityID, fmt.Errorf("%w: main", errMissingField))
	case pl.Wind == nil || pl.Wind.Speed == nil:
		return weather.Observation{}, parseError(cityID, fmt.Errorf("%w: wind", errMissingField))
	}

	return weather.Observation{
		TemperatureC: *pl.Main.Temp,
		HumidityPct:  common.ClampInt(int(math.Round(*pl.Main.Humidity)), 0, 100),
		WindSpeedKmh: *pl.Wind.Speed * msToKmh,
		Description:  pl.Weather[0].Description,
		IconID:       pl.Weather[0].Icon,
	}, nil
}

func parseError(cityID int, err error) error {
	return &weather.UpstreamError{CityID: cityID, Kind: weather.ErrUpstreamParse, Err: err}
}
