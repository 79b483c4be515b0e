package signal

import (
	"fmt"

	"github.com/yourusername/convergence/internal/models"
)

// RecentFormProvider measures last-5 momentum: the cover (or over) count
// differential between the two sides, with a streak bonus for 4/5 and 5/5
// runs. Confidence scales with the smaller of the two sample sizes.
type RecentFormProvider struct{}

// Category implements Provider
func (p *RecentFormProvider) Category() models.SignalCategory {
	return models.CategoryRecentForm
}

// Compute implements Provider
func (p *RecentFormProvider) Compute(ctx Context) models.SignalResult {
	home := ctx.Stats.Stats(ctx.Matchup.HomeTeam)
	away := ctx.Stats.Stats(ctx.Matchup.AwayTeam)
	if home.Last5Games == 0 || away.Last5Games == 0 {
		return neutral(p.Category(), "no recent games")
	}

	var homeCount, awayCount int
	var overDir, underDir models.Direction
	if ctx.Market == models.MarketTotal {
		homeCount = home.Last5Overs + away.Last5Overs
		awayCount = home.Last5Unders + away.Last5Unders
		overDir, underDir = models.DirectionOver, models.DirectionUnder
	} else {
		homeCount = home.Last5ATSWins
		awayCount = away.Last5ATSWins
		overDir, underDir = models.DirectionHome, models.DirectionAway
	}

	diff := homeCount - awayCount
	if diff == 0 {
		return neutral(p.Category(), "recent form even")
	}

	profile := ctx.Profile
	direction := overDir
	leaderCount := homeCount
	if diff < 0 {
		direction = underDir
		leaderCount = awayCount
		diff = -diff
	}

	magnitude := float64(diff) * profile.RecentFormPerGame
	// Streak bonus only applies to a per-team last-5 run, so it is gated on
	// the spread path where leaderCount is a single team's covers.
	if ctx.Market == models.MarketSpread {
		switch {
		case leaderCount >= 5:
			magnitude += profile.StreakBonus5
		case leaderCount >= 4:
			magnitude += profile.StreakBonus4
		}
	}
	magnitude = clampMagnitude(magnitude)

	minSample := home.Last5Games
	if away.Last5Games < minSample {
		minSample = away.Last5Games
	}
	confidence := clampConfidence(float64(minSample) / 5.0)

	strength := models.StrengthWeak
	switch {
	case magnitude >= profile.RecentFormStrongMin:
		strength = models.StrengthStrong
	case magnitude >= moderateMagnitudeMin:
		strength = models.StrengthModerate
	}

	return models.SignalResult{
		Category:   p.Category(),
		Direction:  direction,
		Magnitude:  magnitude,
		Confidence: confidence,
		Label:      fmt.Sprintf("last-5 momentum %+d", homeCount-awayCount),
		Strength:   strength,
	}
}
