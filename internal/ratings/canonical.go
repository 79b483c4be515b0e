// Package ratings holds the point-in-time snapshot store, the TTL-cached
// rating provider, and team identity canonicalization.
package ratings

import (
	"strings"

	"github.com/yourusername/convergence/internal/models"
)

// aliases maps common feed spellings to canonical names. The canonical form
// is whatever the rating provider publishes.
var aliases = map[string]string{
	"la clippers":              "los angeles clippers",
	"la lakers":                "los angeles lakers",
	"ny knicks":                "new york knicks",
	"ny giants":                "new york giants",
	"ny jets":                  "new york jets",
	"gs warriors":              "golden state warriors",
	"sa spurs":                 "san antonio spurs",
	"okc thunder":              "oklahoma city thunder",
	"no pelicans":              "new orleans pelicans",
	"washington football team": "washington commanders",
}

// Canonical normalizes a team name for rating lookups: lowercase, trimmed,
// punctuation folded, alias-mapped. An unknown name passes through unchanged
// (after folding) so a miss yields empty stats downstream, never a failure.
func Canonical(name string) string {
	folded := strings.ToLower(strings.TrimSpace(name))
	folded = strings.ReplaceAll(folded, ".", "")
	folded = strings.ReplaceAll(folded, "-", " ")
	folded = strings.Join(strings.Fields(folded), " ")

	if canonical, ok := aliases[folded]; ok {
		return canonical
	}
	return folded
}

// TeamRating resolves a team in a snapshot through canonicalization. Tries
// the raw name first, then the canonical form against canonicalized keys.
func TeamRating(snapshot *models.RatingSnapshot, name string) (models.TeamRating, bool) {
	if snapshot == nil {
		return models.TeamRating{}, false
	}
	if rating, ok := snapshot.Get(name); ok {
		return rating, true
	}

	wanted := Canonical(name)
	if rating, ok := snapshot.Get(wanted); ok {
		return rating, true
	}
	for key, rating := range snapshot.Ratings {
		if Canonical(key) == wanted {
			return rating, true
		}
	}
	return models.TeamRating{}, false
}
