package signal

import (
	"fmt"

	"github.com/yourusername/convergence/internal/config"
	"github.com/yourusername/convergence/internal/models"
	"github.com/yourusername/convergence/internal/stats"
)

// AngleProvider aggregates externally discovered historical angles by
// strength-weighted dominance. Each angle votes for its side with a
// multiplier by strength; noise angles carry no vote.
type AngleProvider struct{}

// Category implements Provider
func (p *AngleProvider) Category() models.SignalCategory {
	return models.CategoryAngles
}

// Compute implements Provider
func (p *AngleProvider) Compute(ctx Context) models.SignalResult {
	if len(ctx.Angles) == 0 {
		return neutral(p.Category(), "no qualifying angles")
	}

	profile := ctx.Profile
	votes := map[models.Direction]int{}
	total := 0
	dominant := ""
	highlySignificant := false

	for _, angle := range ctx.Angles {
		if angle.Side == models.DirectionNeutral {
			continue
		}
		multiplier := p.multiplier(angle.Strength, profile)
		if multiplier == 0 {
			continue
		}
		votes[angle.Side] += multiplier
		total += multiplier
		if dominant == "" {
			dominant = angle.Label
		}
		if stats.Significance(angle.Wins, angle.Wins+angle.Losses, 0.5).HighlySignificant {
			highlySignificant = true
		}
	}
	if total == 0 {
		return neutral(p.Category(), "angles all noise")
	}

	winner := models.DirectionNeutral
	best := 0
	for side, vote := range votes {
		if vote > best {
			winner = side
			best = vote
		}
	}
	opposing := total - best
	if best == opposing {
		return neutral(p.Category(), "angles split evenly")
	}

	magnitude := clampMagnitude(float64(best - opposing))
	confidence := clampConfidence(float64(total) / 10.0)
	if highlySignificant {
		confidence = clampConfidence(confidence + profile.AngleConfidenceBoost)
	}

	return models.SignalResult{
		Category:   p.Category(),
		Direction:  winner,
		Magnitude:  magnitude,
		Confidence: confidence,
		Label:      fmt.Sprintf("%d weighted angle votes led by %q", best, dominant),
		Strength:   strengthFromMagnitude(magnitude),
	}
}

func (p *AngleProvider) multiplier(strength models.Strength, profile *config.ScoringProfile) int {
	switch strength {
	case models.StrengthStrong:
		return profile.AngleMultiplierStrong
	case models.StrengthModerate:
		return profile.AngleMultiplierModerate
	case models.StrengthWeak:
		return profile.AngleMultiplierWeak
	default:
		return 0
	}
}
