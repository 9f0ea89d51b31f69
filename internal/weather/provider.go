package weather

import (
	"context"
	"errors"
	"fmt"
)

// Upstream failure classes. Every one of them is non-fatal to a ranking run:
// the affected city is left out of that run's result.
var (
	ErrUpstreamNetwork = errors.New("upstream network error")
	ErrUpstreamParse   = errors.New("upstream parse error")
	ErrUpstreamStatus  = errors.New("upstream status error")

	// ErrMissingCredential is returned when no provider API key is configured.
	ErrMissingCredential = errors.New("upstream credential is not configured")
)

// UpstreamError describes a failed fetch for one city.
type UpstreamError struct {
	CityID     int
	Kind       error // one of ErrUpstreamNetwork, ErrUpstreamParse, ErrUpstreamStatus
	StatusCode int   // set for ErrUpstreamStatus
	Err        error
}

func (e *UpstreamError) Error() string {
	switch {
	case e.StatusCode != 0 && e.Err != nil:
		return fmt.Sprintf("city %d: %v (status %d): %v", e.CityID, e.Kind, e.StatusCode, e.Err)
	case e.StatusCode != 0:
		return fmt.Sprintf("city %d: %v (status %d)", e.CityID, e.Kind, e.StatusCode)
	case e.Err != nil:
		return fmt.Sprintf("city %d: %v: %v", e.CityID, e.Kind, e.Err)
	default:
		return fmt.Sprintf("city %d: %v", e.CityID, e.Kind)
	}
}

// Unwrap exposes both the failure class and the underlying cause to errors.Is/As.
func (e *UpstreamError) Unwrap() []error {
	errs := make([]error, 0, 2)
	if e.Kind != nil {
		errs = append(errs, e.Kind)
	}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

// Provider abstracts the upstream observation source (e.g. OpenWeatherMap).
// Fetch performs exactly one logical request per call; it does not cache.
type Provider interface {
	Name() string
	Fetch(ctx context.Context, cityID int) (Observation, error)
}
