package weather

import "strconv"

// CityDescriptor is one entry of the city catalog. It is loaded once at
// startup and never mutated afterwards.
type CityDescriptor struct {
	ID      int    `json:"id" validate:"gt=0"`
	Name    string `json:"name" validate:"required"`
	Country string `json:"country" validate:"omitempty,len=2"`
}

// Key returns the canonical cache key for this city.
func (c CityDescriptor) Key() string {
	return strconv.Itoa(c.ID)
}

// Observation is one city's current reading as reported by the upstream provider.
type Observation struct {
	TemperatureC float64
	HumidityPct  int
	WindSpeedKmh float64
	Description  string
	IconID       string
}

// ScoredCity is the per-city view served in the ranking.
type ScoredCity struct {
	Name         string  `json:"name"`
	Description  string  `json:"description"`
	Icon         string  `json:"icon"`
	TempC        float64 `json:"tempC"` // rounded to one decimal
	ComfortScore int     `json:"comfortScore"`
}

// RankedEntry pairs a scored city with its 1-based rank.
type RankedEntry struct {
	Item ScoredCity `json:"item"`
	Rank int        `json:"rank"`
}
