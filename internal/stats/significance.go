package stats

import (
	"math"

	"github.com/yourusername/convergence/internal/models"
)

// Significance thresholds. The p<0.001 level does not map to its own strength
// label; it marks a result as highly significant on top of strong.
const (
	pHighlySignificant = 0.001
	pStrong            = 0.01
	pModerate          = 0.05
	pWeak              = 0.1
)

// SignificanceResult classifies an observed rate against a baseline
type SignificanceResult struct {
	PValue            float64
	Strength          models.Strength
	HighlySignificant bool
}

// Significance runs a two-tailed binomial test of an observed success count
// against a baseline rate, using the normal approximation. Zero trials is
// classified as noise with p-value 1, never a divide-by-zero.
func Significance(successes, trials int, baseline float64) SignificanceResult {
	if trials <= 0 || baseline <= 0 || baseline >= 1 {
		return SignificanceResult{PValue: 1, Strength: models.StrengthNoise}
	}

	n := float64(trials)
	observed := float64(successes) / n
	se := math.Sqrt(baseline * (1 - baseline) / n)
	z := math.Abs(observed-baseline) / se
	p := 2 * (1 - normalCDF(z))

	result := SignificanceResult{PValue: p}
	switch {
	case p < pStrong:
		result.Strength = models.StrengthStrong
	case p < pModerate:
		result.Strength = models.StrengthModerate
	case p < pWeak:
		result.Strength = models.StrengthWeak
	default:
		result.Strength = models.StrengthNoise
	}
	result.HighlySignificant = p < pHighlySignificant
	return result
}

// normalCDF is the standard normal cumulative distribution function
func normalCDF(z float64) float64 {
	return 0.5 * math.Erfc(-z/math.Sqrt2)
}
