package signal

import (
	"fmt"

	"github.com/yourusername/convergence/internal/models"
	"github.com/yourusername/convergence/internal/stats"
)

// HeadToHeadProvider scores the specific pairing's prior meetings. Fewer than
// the minimum meetings forces neutral regardless of how lopsided the raw
// record looks.
type HeadToHeadProvider struct{}

// Category implements Provider
func (p *HeadToHeadProvider) Category() models.SignalCategory {
	return models.CategoryHeadToHead
}

// Compute implements Provider
func (p *HeadToHeadProvider) Compute(ctx Context) models.SignalResult {
	record := ctx.Stats.HeadToHead(ctx.Matchup.HomeTeam, ctx.Matchup.AwayTeam)
	profile := ctx.Profile
	if record.Meetings < profile.HeadToHeadMinGames {
		return neutral(p.Category(), fmt.Sprintf("only %d prior meetings", record.Meetings))
	}

	var successes, trials int
	var posDir, negDir models.Direction
	if ctx.Market == models.MarketTotal {
		successes = record.Overs
		trials = record.Overs + record.Unders
		posDir, negDir = models.DirectionOver, models.DirectionUnder
	} else {
		successes = record.FirstTeamATSWins
		trials = record.FirstTeamATSWins + record.FirstTeamATSLosses
		posDir, negDir = models.DirectionHome, models.DirectionAway
	}
	if trials == 0 {
		return neutral(p.Category(), "all prior meetings pushed")
	}

	edge := stats.WilsonEdge(successes, trials)
	direction := posDir
	if edge < 0 {
		direction = negDir
		edge = -edge
	}

	magnitude := clampMagnitude(edge * profile.HeadToHeadScale)
	if magnitude == 0 {
		return neutral(p.Category(), "head-to-head record even")
	}

	sig := stats.Significance(successes, trials, 0.5)
	return models.SignalResult{
		Category:   p.Category(),
		Direction:  direction,
		Magnitude:  magnitude,
		Confidence: clampConfidence(float64(trials) / 10.0),
		Label:      fmt.Sprintf("head-to-head %d of %d", successes, trials),
		Strength:   sig.Strength,
	}
}
