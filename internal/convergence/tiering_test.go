package convergence

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/yourusername/convergence/internal/models"
)

func TestTierFromScore(t *testing.T) {
	profile := testProfile()

	tests := []struct {
		name     string
		score    int
		winner   models.Direction
		expected int
	}{
		{"premium threshold", 85, models.DirectionHome, models.Tier5},
		{"just under premium", 84, models.DirectionHome, models.Tier4},
		{"standard threshold", 70, models.DirectionAway, models.Tier4},
		{"just under standard", 69, models.DirectionAway, models.Tier0},
		{"ceiling", 100, models.DirectionHome, models.Tier5},
		{"neutral always rejected", 90, models.DirectionNeutral, models.Tier0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := models.ConvergenceResult{Score: tt.score, Winner: tt.winner}
			assert.Equal(t, tt.expected, Tier(result, nil, -4.5, profile))
		})
	}
}

func TestTierTotalsOverride(t *testing.T) {
	profile := testProfile()
	profile.Market = models.MarketTotal
	profile.UseTotalsTierOverride = true

	modelEdge := func(magnitude float64) []models.SignalResult {
		return []models.SignalResult{{
			Category:   models.CategoryModelEdge,
			Direction:  models.DirectionOver,
			Magnitude:  magnitude,
			Confidence: 0.85,
			Strength:   models.StrengthStrong,
		}}
	}
	// A mid-range score that the normal mapping would reject; the override
	// must ignore it entirely.
	result := models.ConvergenceResult{Score: 60, Winner: models.DirectionOver}

	assert.Equal(t, models.Tier5, Tier(result, modelEdge(6.5), 225, profile))
	assert.Equal(t, models.Tier4, Tier(result, modelEdge(4.2), 225, profile))
	assert.Equal(t, models.Tier3, Tier(result, modelEdge(2.8), 225, profile))
	assert.Equal(t, models.Tier0, Tier(result, modelEdge(1.0), 225, profile))

	// Low-total games shift each threshold down one point of magnitude.
	assert.Equal(t, models.Tier5, Tier(result, modelEdge(5.2), 210, profile))
	assert.Equal(t, models.Tier4, Tier(result, modelEdge(3.1), 210, profile))

	// No active model edge means nothing to tier on.
	assert.Equal(t, models.Tier0, Tier(result, nil, 225, profile))
}

func TestTierOverrideOnlyAppliesToTotals(t *testing.T) {
	profile := testProfile()
	profile.UseTotalsTierOverride = true
	// Profile market stays SPREAD: the score mapping must still apply.
	result := models.ConvergenceResult{Score: 90, Winner: models.DirectionHome}
	assert.Equal(t, models.Tier5, Tier(result, nil, -4.5, profile))
}
