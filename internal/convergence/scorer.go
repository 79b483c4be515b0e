// Package convergence aggregates signal vectors into one composite score and
// winning side. The scorer is sport-agnostic: everything tunable arrives via
// the scoring profile.
package convergence

import (
	"math"
	"sort"

	"github.com/yourusername/convergence/internal/config"
	"github.com/yourusername/convergence/internal/models"
)

// directionOrder makes winner selection deterministic on exact ties
var directionOrder = []models.Direction{
	models.DirectionHome,
	models.DirectionAway,
	models.DirectionOver,
	models.DirectionUnder,
}

// Score aggregates a signal vector into a ConvergenceResult. Input order is
// irrelevant. Signals with magnitude 0 or neutral direction contribute zero
// weight regardless of confidence; fewer active signals than the profile's
// MinActive yields the neutral default (score 50, no winning side).
func Score(signals []models.SignalResult, profile *config.ScoringProfile) models.ConvergenceResult {
	active := make([]models.SignalResult, 0, len(signals))
	for _, s := range signals {
		if s.IsActive() {
			active = append(active, s)
		}
	}

	if len(active) < profile.MinActive || len(active) == 0 {
		return models.ConvergenceResult{
			Score:  profile.NeutralScore,
			Winner: models.DirectionNeutral,
		}
	}

	// Fixed denominator over every signal in the vector, fired or not, so a
	// day with few active signals cannot inflate its own score.
	totalPossible := 0.0
	for _, s := range signals {
		totalPossible += profile.Weights[s.Category] * 10
	}
	if totalPossible == 0 {
		return models.ConvergenceResult{
			Score:  profile.NeutralScore,
			Winner: models.DirectionNeutral,
		}
	}

	sums := map[models.Direction]float64{}
	for _, s := range active {
		sums[s.Direction] += effectiveWeight(s, profile)
	}

	winner := models.DirectionNeutral
	best := 0.0
	for _, direction := range directionOrder {
		if sum := sums[direction]; sum > best {
			winner = direction
			best = sum
		}
	}
	if winner == models.DirectionNeutral {
		return models.ConvergenceResult{
			Score:  profile.NeutralScore,
			Winner: models.DirectionNeutral,
		}
	}

	opposing := sums[winner.Opposite()]
	rawStrength := (best - opposing) / totalPossible
	score := float64(profile.NeutralScore) + rawStrength*profile.ScoreScale

	agreeing, dissenting := splitByWinner(active, winner)
	if !profile.SkipAgreementBonus {
		score += agreementBonus(len(agreeing), len(active), profile)
	}
	score -= contradictionPenalty(dissenting, profile)
	if !profile.SkipAgreementBonus {
		score += multiAgreementBonus(agreeing, profile)
	}

	return models.ConvergenceResult{
		Score:     clampScore(score),
		Winner:    winner,
		Reasoning: buildReasoning(active, winner, profile),
	}
}

func effectiveWeight(s models.SignalResult, profile *config.ScoringProfile) float64 {
	return profile.Weights[s.Category] * s.Magnitude * s.Confidence
}

func splitByWinner(active []models.SignalResult, winner models.Direction) (agreeing, dissenting []models.SignalResult) {
	for _, s := range active {
		switch s.Direction {
		case winner:
			agreeing = append(agreeing, s)
		case winner.Opposite():
			dissenting = append(dissenting, s)
		}
	}
	return agreeing, dissenting
}

func agreementBonus(agreeCount, activeCount int, profile *config.ScoringProfile) float64 {
	if activeCount < profile.AgreementMinActive {
		return 0
	}
	share := float64(agreeCount) / float64(activeCount)
	switch {
	case share >= profile.AgreementHighShare:
		return float64(profile.AgreementBonusHigh)
	case share >= profile.AgreementLowShare:
		return float64(profile.AgreementBonusLow)
	default:
		return 0
	}
}

func contradictionPenalty(dissenting []models.SignalResult, profile *config.ScoringProfile) float64 {
	meaningful := 0
	for _, s := range dissenting {
		if s.Strength == models.StrengthStrong || s.Strength == models.StrengthModerate {
			meaningful++
		}
	}
	switch {
	case meaningful >= 2:
		return float64(profile.ContradictionPenaltyMajor)
	case meaningful == 1:
		return float64(profile.ContradictionPenaltyMinor)
	default:
		return 0
	}
}

func multiAgreementBonus(agreeing []models.SignalResult, profile *config.ScoringProfile) float64 {
	meaningful := 0
	for _, s := range agreeing {
		if s.Strength == models.StrengthStrong || s.Strength == models.StrengthModerate {
			meaningful++
		}
	}
	switch {
	case meaningful >= 3:
		return float64(profile.MultiAgreementBonusHigh)
	case meaningful >= 2:
		return float64(profile.MultiAgreementBonusLow)
	default:
		return 0
	}
}

// buildReasoning ranks the non-noise active signals: winner side first, then
// by effective pull descending. Opposing entries are flagged rather than
// hidden.
func buildReasoning(active []models.SignalResult, winner models.Direction, profile *config.ScoringProfile) []models.Reason {
	kept := make([]models.SignalResult, 0, len(active))
	for _, s := range active {
		if s.Strength != models.StrengthNoise {
			kept = append(kept, s)
		}
	}

	sort.SliceStable(kept, func(i, j int) bool {
		iWins := kept[i].Direction == winner
		jWins := kept[j].Direction == winner
		if iWins != jWins {
			return iWins
		}
		return kept[i].Magnitude*kept[i].Confidence > kept[j].Magnitude*kept[j].Confidence
	})

	reasons := make([]models.Reason, 0, len(kept))
	for _, s := range kept {
		reasons = append(reasons, models.Reason{
			Label:    s.Label,
			Weight:   int(math.Round(effectiveWeight(s, profile) * 10)),
			Strength: s.Strength,
			Opposing: s.Direction != winner,
		})
	}
	return reasons
}

func clampScore(score float64) int {
	rounded := int(math.Round(score))
	if rounded < 0 {
		return 0
	}
	if rounded > 100 {
		return 100
	}
	return rounded
}
