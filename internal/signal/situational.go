package signal

import (
	"fmt"
	"time"

	"github.com/yourusername/convergence/internal/models"
)

// SituationalProvider applies small decision tables: rest and back-to-back
// spots on spreads, wind on outdoor totals. Any missing input degrades to
// neutral; a schedule gap is never guessed.
type SituationalProvider struct{}

// Category implements Provider
func (p *SituationalProvider) Category() models.SignalCategory {
	return models.CategorySituational
}

// Compute implements Provider
func (p *SituationalProvider) Compute(ctx Context) models.SignalResult {
	if ctx.Market == models.MarketTotal {
		return p.weather(ctx)
	}
	return p.rest(ctx)
}

func (p *SituationalProvider) rest(ctx Context) models.SignalResult {
	homeLast, homeOK := ctx.Stats.LastPlayed(ctx.Matchup.HomeTeam)
	awayLast, awayOK := ctx.Stats.LastPlayed(ctx.Matchup.AwayTeam)
	if !homeOK || !awayOK {
		return neutral(p.Category(), "schedule history unavailable")
	}

	profile := ctx.Profile
	homeRest := restDays(homeLast, ctx.Matchup.Date)
	awayRest := restDays(awayLast, ctx.Matchup.Date)

	homeB2B := homeRest <= 1
	awayB2B := awayRest <= 1
	switch {
	case homeB2B && !awayB2B:
		return models.SignalResult{
			Category:   p.Category(),
			Direction:  models.DirectionAway,
			Magnitude:  profile.BackToBackMagnitude,
			Confidence: 0.7,
			Label:      "home side on a back-to-back",
			Strength:   models.StrengthModerate,
		}
	case awayB2B && !homeB2B:
		return models.SignalResult{
			Category:   p.Category(),
			Direction:  models.DirectionHome,
			Magnitude:  profile.BackToBackMagnitude,
			Confidence: 0.7,
			Label:      "away side on a back-to-back",
			Strength:   models.StrengthModerate,
		}
	}

	restGap := homeRest - awayRest
	if restGap >= profile.RestAdvantageMin || -restGap >= profile.RestAdvantageMin {
		direction := models.DirectionHome
		if restGap < 0 {
			direction = models.DirectionAway
			restGap = -restGap
		}
		return models.SignalResult{
			Category:   p.Category(),
			Direction:  direction,
			Magnitude:  profile.RestMagnitude,
			Confidence: 0.6,
			Label:      fmt.Sprintf("%d-day rest advantage", restGap),
			Strength:   models.StrengthWeak,
		}
	}

	return neutral(p.Category(), "no situational edge")
}

func (p *SituationalProvider) weather(ctx Context) models.SignalResult {
	wind := ctx.Matchup.WindMPH
	if wind == nil {
		return neutral(p.Category(), "weather data unavailable")
	}

	profile := ctx.Profile
	if *wind >= profile.WindThresholdMPH {
		return models.SignalResult{
			Category:   p.Category(),
			Direction:  models.DirectionUnder,
			Magnitude:  profile.WindMagnitude,
			Confidence: 0.7,
			Label:      fmt.Sprintf("%.0f mph wind suppresses scoring", *wind),
			Strength:   models.StrengthModerate,
		}
	}
	return neutral(p.Category(), "weather benign")
}

func restDays(lastPlayed, gameDate time.Time) int {
	return int(gameDate.Sub(lastPlayed).Hours() / 24)
}
