package weather

import (
	"context"
	"log/slog"

	"github.com/i474232898/comfort-ranking/internal/cache"
)

// rankingKey is the single slot holding the current aggregate ranking.
const rankingKey = "current"

// Service owns the two cache tiers and the shared metrics for the lifetime
// of the process. Handlers hold it by reference.
type Service struct {
	cities       []CityDescriptor
	pipeline     *Pipeline
	observations *cache.TTLCache[Observation]
	results      *cache.TTLCache[[]RankedEntry]
	metrics      *cache.Metrics
	log          *slog.Logger
}

// NewService creates a Service ranking the given cities.
func NewService(
	cities []CityDescriptor,
	pipeline *Pipeline,
	observations *cache.TTLCache[Observation],
	results *cache.TTLCache[[]RankedEntry],
	metrics *cache.Metrics,
	log *slog.Logger,
) *Service {
	return &Service{
		cities:       cities,
		pipeline:     pipeline,
		observations: observations,
		results:      results,
		metrics:      metrics,
		log:          log,
	}
}

// Ranking returns the current ranked list, recomputing it when the cached
// one has expired. The returned slice is shared with other callers and must
// not be modified.
func (s *Service) Ranking(ctx context.Context) ([]RankedEntry, error) {
	return s.results.GetOrLoad(ctx, rankingKey, func(ctx context.Context) ([]RankedEntry, error) {
		return s.pipeline.BuildRanking(ctx, s.cities)
	})
}

// CacheStatus returns cumulative hit/miss counts across both tiers.
func (s *Service) CacheStatus() cache.Snapshot {
	return s.metrics.Snapshot()
}

// Sweep removes expired entries from both tiers.
func (s *Service) Sweep() int {
	removed := s.observations.Sweep() + s.results.Sweep()
	if removed > 0 {
		s.log.Debug("expired cache entries removed", "count", removed)
	}
	return removed
}
