package signal

import (
	"fmt"

	"github.com/yourusername/convergence/internal/models"
	"github.com/yourusername/convergence/internal/stats"
)

// SeasonFormProvider leans on the Wilson-lower-bound edge of each side's
// season-long ATS or O/U record. The conservative bound keeps small early
// samples from producing loud signals.
type SeasonFormProvider struct{}

// Category implements Provider
func (p *SeasonFormProvider) Category() models.SignalCategory {
	return models.CategorySeasonForm
}

// Compute implements Provider
func (p *SeasonFormProvider) Compute(ctx Context) models.SignalResult {
	home := ctx.Stats.Stats(ctx.Matchup.HomeTeam)
	away := ctx.Stats.Stats(ctx.Matchup.AwayTeam)
	profile := ctx.Profile

	if home.GamesPlayed < profile.SeasonFormMinGames || away.GamesPlayed < profile.SeasonFormMinGames {
		return neutral(p.Category(), "insufficient season sample")
	}

	if ctx.Market == models.MarketTotal {
		return p.totalForm(ctx, home, away)
	}

	homeEdge := stats.WilsonEdge(home.ATSWins, home.ATSWins+home.ATSLosses)
	awayEdge := stats.WilsonEdge(away.ATSWins, away.ATSWins+away.ATSLosses)
	diff := homeEdge - awayEdge

	direction := models.DirectionHome
	if diff < 0 {
		direction = models.DirectionAway
		diff = -diff
	}
	// Sports configured as mean-reverting fade the season trend instead of
	// following it.
	if profile.FlipSeasonForm {
		direction = direction.Opposite()
	}

	magnitude := clampMagnitude(diff * profile.SeasonFormScale)
	if magnitude == 0 {
		return neutral(p.Category(), "season form even")
	}

	minDecided := home.ATSWins + home.ATSLosses
	if awayDecided := away.ATSWins + away.ATSLosses; awayDecided < minDecided {
		minDecided = awayDecided
	}
	confidence := clampConfidence(float64(minDecided) / float64(profile.SeasonFormConfidenceCap))

	sig := stats.Significance(home.ATSWins, home.ATSWins+home.ATSLosses, 0.5)
	return models.SignalResult{
		Category:   p.Category(),
		Direction:  direction,
		Magnitude:  magnitude,
		Confidence: confidence,
		Label: fmt.Sprintf("season ATS %d-%d vs %d-%d",
			home.ATSWins, home.ATSLosses, away.ATSWins, away.ATSLosses),
		Strength: sig.Strength,
	}
}

func (p *SeasonFormProvider) totalForm(ctx Context, home, away models.TeamStats) models.SignalResult {
	profile := ctx.Profile
	overs := home.Overs + away.Overs
	decided := overs + home.Unders + away.Unders
	if decided == 0 {
		return neutral(p.Category(), "no decided totals")
	}

	edge := stats.WilsonEdge(overs, decided)
	direction := models.DirectionOver
	if edge < 0 {
		direction = models.DirectionUnder
		edge = -edge
	}
	if profile.FlipSeasonForm {
		direction = direction.Opposite()
	}

	magnitude := clampMagnitude(edge * profile.SeasonFormScale)
	if magnitude == 0 {
		return neutral(p.Category(), "season totals even")
	}

	sig := stats.Significance(overs, decided, 0.5)
	return models.SignalResult{
		Category:   p.Category(),
		Direction:  direction,
		Magnitude:  magnitude,
		Confidence: clampConfidence(float64(decided) / float64(2*profile.SeasonFormConfidenceCap)),
		Label:      fmt.Sprintf("combined %d overs in %d decided totals", overs, decided),
		Strength:   sig.Strength,
	}
}
