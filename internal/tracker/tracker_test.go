package tracker

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/convergence/internal/models"
)

func day(offset int) time.Time {
	return time.Date(2024, 11, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, offset)
}

func settledGame(date time.Time, home, away string, homeScore, awayScore int, spread, total float64) *models.Game {
	g := &models.Game{
		ID:        uuid.New(),
		Sport:     models.SportNBA,
		Date:      date,
		HomeTeam:  home,
		AwayTeam:  away,
		HomeScore: homeScore,
		AwayScore: awayScore,
		Spread:    spread,
		Total:     total,
	}
	g.SettleResults()
	return g
}

func TestStatsBeforeAddingDateNeverReflectsLaterGames(t *testing.T) {
	tr := New()
	tr.AddGame(settledGame(day(0), "BOS", "NYK", 110, 100, -5.5, 215))
	tr.AddGame(settledGame(day(1), "BOS", "PHI", 100, 105, -3.5, 210))

	// Snapshot the state a scorer would see before day 2 is replayed.
	before := tr.Stats("BOS")
	require.Equal(t, 2, before.GamesPlayed)

	tr.AddGame(settledGame(day(2), "BOS", "MIA", 120, 90, -7.5, 208))

	after := tr.Stats("BOS")
	assert.Equal(t, 3, after.GamesPlayed)
	// The earlier snapshot is a value copy and stays fixed.
	assert.Equal(t, 2, before.GamesPlayed)
}

func TestStatsOrderIndependentWithinDate(t *testing.T) {
	a := settledGame(day(0), "BOS", "NYK", 110, 100, -5.5, 215)
	b := settledGame(day(0), "LAL", "GSW", 95, 100, 2.5, 220)

	first := New()
	first.AddGame(a)
	first.AddGame(b)

	second := New()
	second.AddGame(b)
	second.AddGame(a)

	for _, team := range []string{"BOS", "NYK", "LAL", "GSW"} {
		assert.Equal(t, first.Stats(team), second.Stats(team), "stats diverge for %s", team)
	}
}

func TestStatsPerTeamPerspective(t *testing.T) {
	tr := New()
	// Home wins by 10 against a -5.5 line: home covers, away loses ATS.
	tr.AddGame(settledGame(day(0), "BOS", "NYK", 110, 100, -5.5, 215))

	bos := tr.Stats("BOS")
	assert.Equal(t, 1, bos.ATSWins)
	assert.Equal(t, 0, bos.ATSLosses)

	nyk := tr.Stats("NYK")
	assert.Equal(t, 0, nyk.ATSWins)
	assert.Equal(t, 1, nyk.ATSLosses)

	// 210 combined under a 215 total: under for both.
	assert.Equal(t, 1, bos.Unders)
	assert.Equal(t, 1, nyk.Unders)
}

func TestStatsPushHandling(t *testing.T) {
	tr := New()
	// Margin exactly equals the spread and total exactly equals the line.
	tr.AddGame(settledGame(day(0), "BOS", "NYK", 110, 105, -5, 215))

	bos := tr.Stats("BOS")
	assert.Equal(t, 1, bos.ATSPushes)
	assert.Equal(t, 0, bos.ATSWins)
	assert.Equal(t, 0, bos.ATSLosses)
	assert.Equal(t, 1, bos.TotalPushes)
}

func TestLast5Window(t *testing.T) {
	tr := New()
	// Seven games: first two are losses ATS, last five are covers.
	tr.AddGame(settledGame(day(0), "BOS", "NYK", 90, 100, -2.5, 215))
	tr.AddGame(settledGame(day(1), "BOS", "PHI", 95, 100, -2.5, 215))
	for i := 2; i < 7; i++ {
		tr.AddGame(settledGame(day(i), "BOS", "MIA", 120, 100, -2.5, 215))
	}

	stats := tr.Stats("BOS")
	assert.Equal(t, 7, stats.GamesPlayed)
	assert.Equal(t, 5, stats.ATSWins)
	assert.Equal(t, 2, stats.ATSLosses)
	assert.Equal(t, 5, stats.Last5Games)
	assert.Equal(t, 5, stats.Last5ATSWins)
	assert.Equal(t, 0, stats.Last5ATSLosses)
}

func TestHeadToHead(t *testing.T) {
	tr := New()
	tr.AddGame(settledGame(day(0), "BOS", "NYK", 110, 100, -5.5, 215))
	tr.AddGame(settledGame(day(1), "NYK", "BOS", 100, 90, 1.5, 205))
	tr.AddGame(settledGame(day(2), "BOS", "MIA", 120, 90, -7.5, 208))

	record := tr.HeadToHead("BOS", "NYK")
	assert.Equal(t, 2, record.Meetings)
	// BOS covered game one, failed game two.
	assert.Equal(t, 1, record.FirstTeamATSWins)
	assert.Equal(t, 1, record.FirstTeamATSLosses)
}

func TestUnknownTeamGetsEmptyStats(t *testing.T) {
	tr := New()
	stats := tr.Stats("NOWHERE")
	assert.Zero(t, stats.GamesPlayed)
	assert.Zero(t, tr.GamesFor("NOWHERE"))
}

func TestSnapshotIsolation(t *testing.T) {
	tr := New()
	tr.AddGame(settledGame(day(0), "BOS", "NYK", 110, 100, -5.5, 215))

	snap := tr.Snapshot()
	tr.AddGame(settledGame(day(1), "BOS", "PHI", 100, 105, -3.5, 210))

	assert.Equal(t, 1, snap.GamesFor("BOS"))
	assert.Equal(t, 2, tr.GamesFor("BOS"))
}

func TestUnsettledGameIgnored(t *testing.T) {
	tr := New()
	g := &models.Game{Sport: models.SportNBA, Date: day(0), HomeTeam: "BOS", AwayTeam: "NYK"}
	tr.AddGame(g)
	assert.Zero(t, tr.GamesFor("BOS"))
}
