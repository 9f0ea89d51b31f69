package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"

	"github.com/i474232898/comfort-ranking/internal/weather"
)

var validate = validator.New()

var (
	errEmpty       = errors.New("catalog has no cities")
	errDuplicateID = errors.New("duplicate city id")
)

// LoadError reports a catalog that could not be read or is invalid. The
// service cannot run without a catalog, so callers treat it as fatal.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load city catalog %q: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// Load reads an ordered JSON array of {id, name, country} records.
func Load(path string) ([]weather.CityDescriptor, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}

	cities, err := Parse(data)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	return cities, nil
}

// Parse decodes and validates catalog JSON, preserving record order.
func Parse(data []byte) ([]weather.CityDescriptor, error) {
	var cities []weather.CityDescriptor
	if err := json.Unmarshal(data, &cities); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	if len(cities) == 0 {
		return nil, errEmpty
	}

	seen := make(map[int]struct{}, len(cities))
	for i, c := range cities {
		if err := validate.Struct(c); err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		if _, dup := seen[c.ID]; dup {
			return nil, fmt.Errorf("record %d: %w %d", i, errDuplicateID, c.ID)
		}
		seen[c.ID] = struct{}{}
	}
	return cities, nil
}

// Subset returns the first n cities, or all of them when there are fewer.
func Subset(cities []weather.CityDescriptor, n int) []weather.CityDescriptor {
	if n < 0 || n >= len(cities) {
		return cities
	}
	return cities[:n]
}
