// Package stats provides the statistical primitives behind every form signal:
// the Wilson score interval and a binomial significance classifier.
package stats

import "math"

// zScore95 is the two-sided 95% normal quantile used by the Wilson interval.
const zScore95 = 1.96

// Wilson returns the Wilson score interval for a binomial proportion.
// Reliable at the small sample sizes typical of early-season team records,
// where the normal approximation interval collapses. Trials of zero yields
// (0, 0).
func Wilson(successes, trials int) (lower, upper float64) {
	if trials <= 0 {
		return 0, 0
	}

	n := float64(trials)
	p := float64(successes) / n
	z := zScore95
	z2 := z * z

	denom := 1 + z2/n
	center := p + z2/(2*n)
	spread := z * math.Sqrt(p*(1-p)/n+z2/(4*n*n))

	lower = (center - spread) / denom
	upper = (center + spread) / denom
	return lower, upper
}

// WilsonEdge returns the conservative edge of a record over a 50% baseline:
// the Wilson lower bound minus 0.5. Small samples pull the edge toward zero
// regardless of how lopsided the raw rate looks.
func WilsonEdge(successes, trials int) float64 {
	lower, _ := Wilson(successes, trials)
	return lower - 0.5
}
