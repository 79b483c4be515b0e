package convergence

import (
	"github.com/yourusername/convergence/internal/config"
	"github.com/yourusername/convergence/internal/models"
)

// NBA totals tier thresholds. This market bypasses the score mapping: tiers
// come from a directly validated function of the model-edge magnitude and the
// level of the total line. Low-total games carry less variance, so the same
// edge earns a higher tier there.
const (
	totalsOverrideTier5Magnitude = 6.0
	totalsOverrideTier4Magnitude = 4.0
	totalsOverrideTier3Magnitude = 2.5
	totalsOverrideLowLine        = 215.0
)

// Tier maps a convergence result to a discrete confidence tier. Tier 0 means
// rejected; the pick is counted but not published.
func Tier(result models.ConvergenceResult, signals []models.SignalResult, line float64, profile *config.ScoringProfile) int {
	if result.Winner == models.DirectionNeutral {
		return models.Tier0
	}

	if profile.UseTotalsTierOverride && profile.Market == models.MarketTotal {
		return totalsOverrideTier(signals, line)
	}

	switch {
	case result.Score >= profile.Tier5Min:
		return models.Tier5
	case result.Score >= profile.Tier4Min:
		return models.Tier4
	default:
		return models.Tier0
	}
}

func totalsOverrideTier(signals []models.SignalResult, line float64) int {
	magnitude := 0.0
	for _, s := range signals {
		if s.Category == models.CategoryModelEdge && s.IsActive() {
			magnitude = s.Magnitude
			break
		}
	}
	if magnitude == 0 {
		return models.Tier0
	}

	// A sub-215 total shifts each threshold down one magnitude point.
	adjusted := magnitude
	if line < totalsOverrideLowLine {
		adjusted++
	}

	switch {
	case adjusted >= totalsOverrideTier5Magnitude:
		return models.Tier5
	case adjusted >= totalsOverrideTier4Magnitude:
		return models.Tier4
	case adjusted >= totalsOverrideTier3Magnitude:
		return models.Tier3
	default:
		return models.Tier0
	}
}
