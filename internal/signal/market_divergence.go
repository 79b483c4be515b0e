package signal

import (
	"fmt"
	"math"

	"github.com/yourusername/convergence/internal/models"
	"github.com/yourusername/convergence/internal/ratings"
)

// MarketDivergenceProvider compares the rating-implied home win probability
// against the vig-stripped moneyline-implied probability. Only registered for
// spread pipelines; totals carry no moneyline.
type MarketDivergenceProvider struct{}

// Category implements Provider
func (p *MarketDivergenceProvider) Category() models.SignalCategory {
	return models.CategoryMarketDivergence
}

// Compute implements Provider
func (p *MarketDivergenceProvider) Compute(ctx Context) models.SignalResult {
	if ctx.Matchup.HomeMoneyline == nil || ctx.Matchup.AwayMoneyline == nil {
		return neutral(p.Category(), "moneyline unavailable")
	}
	home, homeOK := ratings.TeamRating(ctx.Rating, ctx.Matchup.HomeTeam)
	away, awayOK := ratings.TeamRating(ctx.Rating, ctx.Matchup.AwayTeam)
	if !homeOK || !awayOK {
		return neutral(p.Category(), "model rating unavailable")
	}

	profile := ctx.Profile
	predictedMargin := (home.Power - away.Power) + profile.HomeAdvantage
	modelProb := normalCDF(predictedMargin / profile.MarginSigma)

	homeImplied := moneylineProbability(*ctx.Matchup.HomeMoneyline)
	awayImplied := moneylineProbability(*ctx.Matchup.AwayMoneyline)
	if homeImplied+awayImplied <= 0 {
		return neutral(p.Category(), "moneyline malformed")
	}
	// Strip the vig by normalizing the two-way overround.
	marketProb := homeImplied / (homeImplied + awayImplied)

	gap := modelProb - marketProb
	if math.Abs(gap) < profile.DivergenceThreshold {
		return neutral(p.Category(), "model agrees with the market")
	}

	direction := models.DirectionHome
	if gap < 0 {
		direction = models.DirectionAway
	}

	magnitude := clampMagnitude(math.Abs(gap) * profile.DivergenceScale)
	return models.SignalResult{
		Category:   p.Category(),
		Direction:  direction,
		Magnitude:  magnitude,
		Confidence: 0.75,
		Label:      fmt.Sprintf("model %.0f%% vs market %.0f%% win probability", modelProb*100, marketProb*100),
		Strength:   strengthFromMagnitude(magnitude),
	}
}

// moneylineProbability converts an American price to implied probability
func moneylineProbability(line int) float64 {
	if line == 0 {
		return 0
	}
	if line < 0 {
		l := float64(-line)
		return l / (l + 100)
	}
	return 100 / (float64(line) + 100)
}

func normalCDF(z float64) float64 {
	return 0.5 * math.Erfc(-z/math.Sqrt2)
}
