package providers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"math/rand"
	"net/http"
	"time"

	"github.com/sony/gobreaker"

	"github.com/i474232898/comfort-ranking/internal/weather"
)

// BackoffConfig controls retry behaviour. MaxRetries of zero means a single
// attempt.
type BackoffConfig struct {
	MaxRetries      int
	InitialInterval time.Duration
	MaxInterval     time.Duration
}

// HTTPClientConfig bundles HTTP client and resilience settings.
type HTTPClientConfig struct {
	Client  *http.Client
	Backoff BackoffConfig
}

var (
	errCircuitOpen   = errors.New("circuit breaker open")
	errNoHTTPClient  = errors.New("http client not configured")
	errInvalidConfig = errors.New("invalid backoff configuration")
)

// statusError carries a non-2xx response status through the circuit breaker.
type statusError struct {
	code int
}

func (e *statusError) Error() string {
	return fmt.Sprintf("unexpected status code %d", e.code)
}

func (e *statusError) retryable() bool {
	return e.code == http.StatusTooManyRequests || e.code >= 500
}

// tripAfter is the number of consecutive upstream failures that opens the
// circuit.
const tripAfter = 5

// newCircuitBreaker returns a breaker shared by every city. Only failures that
// say something about the upstream itself count against it: a permanent
// per-city answer such as 404 or 401 is recorded as a success.
func newCircuitBreaker(name string) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 5,
		Interval:    1 * time.Minute,
		Timeout:     2 * time.Minute,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= tripAfter
		},
		IsSuccessful: func(err error) bool {
			var se *statusError
			return err == nil || (errors.As(err, &se) && !se.retryable())
		},
	})
}

// doRequestWithResilience executes the request through the circuit breaker,
// retrying network failures, 429 and 5xx responses with jittered exponential
// backoff. Failures come back as *weather.UpstreamError of network or status
// kind.
func doRequestWithResilience(
	ctx context.Context,
	cityID int,
	cfg HTTPClientConfig,
	cb *gobreaker.CircuitBreaker,
	buildRequest func(ctx context.Context) (*http.Request, error),
) (*http.Response, error) {
	if cfg.Client == nil {
		return nil, errNoHTTPClient
	}
	if cfg.Backoff.MaxRetries < 0 || (cfg.Backoff.MaxRetries > 0 && cfg.Backoff.InitialInterval <= 0) {
		return nil, errInvalidConfig
	}

	var attempt int
	for {
		if err := ctx.Err(); err != nil {
			return nil, networkError(cityID, err)
		}

		req, err := buildRequest(ctx)
		if err != nil {
			return nil, err
		}

		result, err := cb.Execute(func() (interface{}, error) {
			resp, execErr := cfg.Client.Do(req)
			if execErr != nil {
				return nil, execErr
			}
			if resp.StatusCode < 200 || resp.StatusCode >= 300 {
				drainAndClose(resp.Body)
				return nil, &statusError{code: resp.StatusCode}
			}
			return resp, nil
		})
		if err == nil {
			resp, ok := result.(*http.Response)
			if !ok {
				return nil, fmt.Errorf("unexpected result type from circuit breaker")
			}
			return resp, nil
		}

		// If circuit is open, propagate immediately.
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, networkError(cityID, fmt.Errorf("%w: %v", errCircuitOpen, err))
		}

		var se *statusError
		isStatus := errors.As(err, &se)
		if (isStatus && !se.retryable()) || attempt >= cfg.Backoff.MaxRetries {
			if isStatus {
				return nil, &weather.UpstreamError{CityID: cityID, Kind: weather.ErrUpstreamStatus, StatusCode: se.code}
			}
			return nil, networkError(cityID, err)
		}

		timer := time.NewTimer(backoffDelay(cfg.Backoff, attempt))
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, networkError(cityID, ctx.Err())
		case <-timer.C:
		}

		attempt++
	}
}

// backoffDelay returns a full-jitter delay in [0, min(max, initial*2^attempt)].
func backoffDelay(cfg BackoffConfig, attempt int) time.Duration {
	ceiling := cfg.InitialInterval * time.Duration(math.Pow(2, float64(attempt)))
	if cfg.MaxInterval > 0 && ceiling > cfg.MaxInterval {
		ceiling = cfg.MaxInterval
	}
	if ceiling <= 0 {
		return 0
	}
	return time.Duration(rand.Int63n(int64(ceiling) + 1))
}

func networkError(cityID int, err error) error {
	return &weather.UpstreamError{CityID: cityID, Kind: weather.ErrUpstreamNetwork, Err: err}
}

func drainAndClose(body io.ReadCloser) {
	_, _ = io.Copy(io.Discard, io.LimitReader(body, 64<<10))
	_ = body.Close()
}
