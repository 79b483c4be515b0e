// Package tracker accumulates per-team ATS and O/U outcomes as settled games
// are replayed in date order. Callers only ever see stats for games already
// added, which is the system's look-ahead-bias guard: the backtest adds a
// date's games only after scoring that date.
package tracker

import (
	"time"

	"github.com/yourusername/convergence/internal/models"
)

// StatsSource is the read-only view signal providers consume
type StatsSource interface {
	Stats(team string) models.TeamStats
	HeadToHead(first, second string) models.HeadToHeadRecord
	GamesFor(team string) int
	LastPlayed(team string) (time.Time, bool)
}

// Tracker holds ordered per-team histories. Not safe for concurrent mutation;
// the orchestrators mutate it only between scoring phases.
type Tracker struct {
	histories map[string][]*models.Game
}

// New creates an empty tracker
func New() *Tracker {
	return &Tracker{histories: make(map[string][]*models.Game)}
}

// AddGame appends a settled game to both participants' histories. The caller
// guarantees games arrive in chronological order; the tracker does not sort.
func (t *Tracker) AddGame(g *models.Game) {
	if g == nil || !g.Settled {
		return
	}
	t.histories[g.HomeTeam] = append(t.histories[g.HomeTeam], g)
	t.histories[g.AwayTeam] = append(t.histories[g.AwayTeam], g)
}

// GamesFor returns how many games have been added for a team
func (t *Tracker) GamesFor(team string) int {
	return len(t.histories[team])
}

// LastPlayed returns the date of the most recently added game for a team
func (t *Tracker) LastPlayed(team string) (time.Time, bool) {
	games := t.histories[team]
	if len(games) == 0 {
		return time.Time{}, false
	}
	return games[len(games)-1].Date, true
}

// Stats aggregates a team's settled outcomes over every game added so far.
// Unknown teams get empty stats, never an error.
func (t *Tracker) Stats(team string) models.TeamStats {
	games := t.histories[team]
	stats := models.TeamStats{Team: team, GamesPlayed: len(games)}

	last5Start := len(games) - 5
	if last5Start < 0 {
		last5Start = 0
	}

	for i, g := range games {
		covered, pushed := teamCovered(g, team)
		switch {
		case pushed:
			stats.ATSPushes++
		case covered:
			stats.ATSWins++
		default:
			stats.ATSLosses++
		}

		switch g.OU {
		case models.OUOver:
			stats.Overs++
		case models.OUUnder:
			stats.Unders++
		default:
			stats.TotalPushes++
		}

		if i >= last5Start {
			stats.Last5Games++
			switch {
			case pushed:
			case covered:
				stats.Last5ATSWins++
			default:
				stats.Last5ATSLosses++
			}
			switch g.OU {
			case models.OUOver:
				stats.Last5Overs++
			case models.OUUnder:
				stats.Last5Unders++
			}
		}
	}

	return stats
}

// HeadToHead aggregates prior meetings between two teams, from the first
// team's perspective.
func (t *Tracker) HeadToHead(first, second string) models.HeadToHeadRecord {
	record := models.HeadToHeadRecord{}
	for _, g := range t.histories[first] {
		if g.HomeTeam != second && g.AwayTeam != second {
			continue
		}
		record.Meetings++
		covered, pushed := teamCovered(g, first)
		switch {
		case pushed:
		case covered:
			record.FirstTeamATSWins++
		default:
			record.FirstTeamATSLosses++
		}
		switch g.OU {
		case models.OUOver:
			record.Overs++
		case models.OUUnder:
			record.Unders++
		}
	}
	return record
}

// Snapshot returns an immutable deep copy of the tracker. The backtest takes
// one per simulated date so a day's scoring state can be replayed for
// debugging without touching the canonical run.
func (t *Tracker) Snapshot() *Tracker {
	copied := New()
	for team, games := range t.histories {
		history := make([]*models.Game, len(games))
		copy(history, games)
		copied.histories[team] = history
	}
	return copied
}

func teamCovered(g *models.Game, team string) (covered, pushed bool) {
	if g.ATS == models.ATSPush {
		return false, true
	}
	if team == g.HomeTeam {
		return g.ATS == models.ATSHomeCover, false
	}
	return g.ATS == models.ATSAwayCover, false
}
