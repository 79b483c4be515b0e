package signal

import (
	"fmt"

	"github.com/yourusername/convergence/internal/config"
	"github.com/yourusername/convergence/internal/models"
)

// Pipeline is the ordered provider set and scoring profile for one
// (sport, market).
type Pipeline struct {
	Sport     models.Sport
	Market    models.Market
	Providers []Provider
	Profile   *config.ScoringProfile
}

// Evaluate runs every provider against the context. Provider output order
// carries no meaning; the scorer is order-invariant.
func (p *Pipeline) Evaluate(ctx Context) []models.SignalResult {
	ctx.Sport = p.Sport
	ctx.Market = p.Market
	ctx.Profile = p.Profile

	results := make([]models.SignalResult, 0, len(p.Providers))
	for _, provider := range p.Providers {
		results = append(results, provider.Compute(ctx))
	}
	return results
}

// Registry maps (sport, market) to its pipeline
type Registry struct {
	pipelines map[string]*Pipeline
}

func pipelineKey(sport models.Sport, market models.Market) string {
	return string(sport) + ":" + string(market)
}

// NewRegistry assembles the default pipelines for every profile in the
// registry. Market divergence needs moneylines and only runs on spreads.
func NewRegistry(profiles config.Profiles) *Registry {
	registry := &Registry{pipelines: make(map[string]*Pipeline)}

	for _, profile := range profiles {
		providers := []Provider{
			&ModelEdgeProvider{},
			&SeasonFormProvider{},
			&RecentFormProvider{},
			&HeadToHeadProvider{},
			&SituationalProvider{},
			&AngleProvider{},
		}
		if profile.Market == models.MarketSpread {
			providers = append(providers, &MarketDivergenceProvider{})
		}
		registry.Register(&Pipeline{
			Sport:     profile.Sport,
			Market:    profile.Market,
			Providers: providers,
			Profile:   profile,
		})
	}

	return registry
}

// Register installs or replaces a pipeline
func (r *Registry) Register(pipeline *Pipeline) {
	r.pipelines[pipelineKey(pipeline.Sport, pipeline.Market)] = pipeline
}

// Get returns the pipeline for a (sport, market)
func (r *Registry) Get(sport models.Sport, market models.Market) (*Pipeline, error) {
	pipeline, ok := r.pipelines[pipelineKey(sport, market)]
	if !ok {
		return nil, fmt.Errorf("no signal pipeline registered for %s %s", sport, market)
	}
	return pipeline, nil
}
