package weather

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/i474232898/comfort-ranking/internal/cache"
	"github.com/i474232898/comfort-ranking/internal/common"
)

// Pipeline fetches, scores and ranks a set of cities. It reads observations
// through the per-city cache but never caches its own output.
type Pipeline struct {
	provider     Provider
	observations *cache.TTLCache[Observation]
	parallelism  int
	fetchTimeout time.Duration
	log          *slog.Logger
}

// NewPipeline creates a Pipeline. parallelism bounds concurrent upstream
// fetches; fetchTimeout bounds each one.
func NewPipeline(provider Provider, observations *cache.TTLCache[Observation], parallelism int, fetchTimeout time.Duration, log *slog.Logger) *Pipeline {
	if parallelism <= 0 {
		parallelism = 1
	}
	return &Pipeline{
		provider:     provider,
		observations: observations,
		parallelism:  parallelism,
		fetchTimeout: fetchTimeout,
		log:          log,
	}
}

// BuildRanking scores every city it can fetch and ranks the results. Cities
// whose observation cannot be obtained are left out; that never fails the run.
// The result may therefore be shorter than cities. The only error returned is
// ctx's, when the caller gives up before the run completes.
func (p *Pipeline) BuildRanking(ctx context.Context, cities []CityDescriptor) ([]RankedEntry, error) {
	runID := uuid.NewString()
	started := time.Now()

	// Indexed by catalog position so completion order cannot affect ties.
	scored := make([]*ScoredCity, len(cities))

	g := new(errgroup.Group)
	g.SetLimit(p.parallelism)
	for i, city := range cities {
		i, city := i, city
		g.Go(func() error {
			obs, err := p.observation(ctx, city)
			if err != nil {
				// Partial success is expected; the city just sits this run out.
				p.log.Warn("city dropped from ranking",
					"run_id", runID, "provider", p.provider.Name(), "city_id", city.ID, "city", city.Name, "error", err)
				return nil
			}
			sc := scoreCity(city, obs)
			scored[i] = &sc
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	collected := make([]ScoredCity, 0, len(cities))
	for _, sc := range scored {
		if sc != nil {
			collected = append(collected, *sc)
		}
	}

	ranked := Rank(collected)
	p.log.Info("ranking built",
		"run_id", runID, "requested", len(cities), "scored", len(ranked), "took", time.Since(started))
	return ranked, nil
}

func (p *Pipeline) observation(ctx context.Context, city CityDescriptor) (Observation, error) {
	return p.observations.GetOrLoad(ctx, city.Key(), func(ctx context.Context) (Observation, error) {
		if p.fetchTimeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, p.fetchTimeout)
			defer cancel()
		}
		return p.provider.Fetch(ctx, city.ID)
	})
}

func scoreCity(city CityDescriptor, obs Observation) ScoredCity {
	return ScoredCity{
		Name:         city.Name,
		Description:  obs.Description,
		Icon:         obs.IconID,
		TempC:        common.RoundTo(obs.TemperatureC, 1),
		ComfortScore: ComfortScore(obs.TemperatureC, obs.HumidityPct, obs.WindSpeedKmh),
	}
}
