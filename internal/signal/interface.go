// Package signal turns heterogeneous evidence about a matchup into uniform
// directional signals. Each evidence category is one Provider; pipelines are
// assembled per (sport, market) in the Registry, so adding a signal is
// registration, not scorer surgery.
package signal

import (
	"time"

	"github.com/yourusername/convergence/internal/config"
	"github.com/yourusername/convergence/internal/models"
	"github.com/yourusername/convergence/internal/tracker"
)

// Context provides a provider with temporal-safe, read-only inputs. Stats and
// Rating reflect only data available strictly before the decision point.
type Context struct {
	Sport   models.Sport
	Market  models.Market
	Matchup models.Matchup
	Stats   tracker.StatsSource
	// Rating is the point-in-time snapshot valid as of Date; nil degrades
	// rating-based providers to neutral.
	Rating  *models.RatingSnapshot
	Angles  []models.Angle
	Date    time.Time
	Profile *config.ScoringProfile
}

// Provider computes one evidence category's signal for a matchup. Providers
// must degrade to neutral/noise on missing input, never to a directional
// default.
type Provider interface {
	Category() models.SignalCategory
	Compute(ctx Context) models.SignalResult
}

// Magnitude thresholds shared by providers that derive strength from signal
// size rather than a significance test.
const (
	strongMagnitudeMin   = 6.0
	moderateMagnitudeMin = 3.0
)

// neutral builds the no-lean result every provider falls back to
func neutral(category models.SignalCategory, label string) models.SignalResult {
	return models.SignalResult{
		Category:  category,
		Direction: models.DirectionNeutral,
		Magnitude: 0,
		Label:     label,
		Strength:  models.StrengthNoise,
	}
}

func clampMagnitude(m float64) float64 {
	if m < 0 {
		return 0
	}
	if m > 10 {
		return 10
	}
	return m
}

func clampConfidence(c float64) float64 {
	if c < 0 {
		return 0
	}
	if c > 1 {
		return 1
	}
	return c
}

func strengthFromMagnitude(m float64) models.Strength {
	switch {
	case m >= strongMagnitudeMin:
		return models.StrengthStrong
	case m >= moderateMagnitudeMin:
		return models.StrengthModerate
	case m > 0:
		return models.StrengthWeak
	default:
		return models.StrengthNoise
	}
}
