package signal

import (
	"fmt"
	"math"

	"github.com/yourusername/convergence/internal/models"
	"github.com/yourusername/convergence/internal/ratings"
)

// ModelEdgeProvider compares the rating-predicted margin or total against the
// market line. A dead zone around the line keeps marginal model disagreements
// from flip-flopping between sides.
type ModelEdgeProvider struct{}

// Category implements Provider
func (p *ModelEdgeProvider) Category() models.SignalCategory {
	return models.CategoryModelEdge
}

// Compute implements Provider
func (p *ModelEdgeProvider) Compute(ctx Context) models.SignalResult {
	home, homeOK := ratings.TeamRating(ctx.Rating, ctx.Matchup.HomeTeam)
	away, awayOK := ratings.TeamRating(ctx.Rating, ctx.Matchup.AwayTeam)
	if !homeOK || !awayOK {
		return neutral(p.Category(), "model rating unavailable")
	}

	profile := ctx.Profile
	if ctx.Market == models.MarketTotal {
		return p.totalEdge(ctx, home, away)
	}

	// Predicted home margin; the seasonal recalibration constant corrects
	// the provider's early-season drift.
	predicted := (home.Power - away.Power) + profile.HomeAdvantage + profile.SeasonalRecalibration
	// The home line is quoted negative when home is favored, so the market's
	// expected margin is its negation.
	edge := predicted + ctx.Matchup.Spread

	if math.Abs(edge) <= profile.DeadZonePoints {
		return neutral(p.Category(), "model within dead zone of the line")
	}

	direction := models.DirectionHome
	if edge < 0 {
		direction = models.DirectionAway
	}

	magnitude := clampMagnitude(math.Abs(edge) / profile.PointsPerMagnitude)
	return models.SignalResult{
		Category:   p.Category(),
		Direction:  direction,
		Magnitude:  magnitude,
		Confidence: profile.ModelEdgeConfidence,
		Label:      fmt.Sprintf("model edge %.1f points vs line", edge),
		Strength:   strengthFromMagnitude(magnitude),
	}
}

func (p *ModelEdgeProvider) totalEdge(ctx Context, home, away models.TeamRating) models.SignalResult {
	if home.Pace <= 0 || away.Pace <= 0 {
		return neutral(p.Category(), "pace data unavailable")
	}

	profile := ctx.Profile
	possessions := (home.Pace + away.Pace) / 2
	// Each side's expected score blends its offense with the opponent's
	// defense, per 100 possessions.
	homePoints := possessions * (home.OffEff + away.DefEff) / 200
	awayPoints := possessions * (away.OffEff + home.DefEff) / 200
	predicted := homePoints + awayPoints + profile.SeasonalRecalibration

	edge := predicted - ctx.Matchup.Total
	if math.Abs(edge) <= profile.DeadZonePoints {
		return neutral(p.Category(), "model within dead zone of the total")
	}

	direction := models.DirectionOver
	if edge < 0 {
		direction = models.DirectionUnder
	}

	magnitude := clampMagnitude(math.Abs(edge) / profile.PointsPerMagnitude)
	return models.SignalResult{
		Category:   p.Category(),
		Direction:  direction,
		Magnitude:  magnitude,
		Confidence: profile.ModelEdgeConfidence,
		Label:      fmt.Sprintf("model total %.1f vs line %.1f", predicted, ctx.Matchup.Total),
		Strength:   strengthFromMagnitude(magnitude),
	}
}
