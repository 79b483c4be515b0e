package engine

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/convergence/internal/config"
	"github.com/yourusername/convergence/internal/models"
	"github.com/yourusername/convergence/internal/signal"
)

type stubMatchups struct {
	slate []models.Matchup
	err   error
}

func (s *stubMatchups) UpcomingMatchups(ctx context.Context, sport models.Sport, date time.Time) ([]models.Matchup, error) {
	return s.slate, s.err
}

type stubHistory struct {
	games []*models.Game
	err   error
}

func (s *stubHistory) GamesByDateRange(ctx context.Context, sport models.Sport, start, end time.Time) ([]*models.Game, error) {
	return s.games, s.err
}

type stubAngles struct {
	angles []models.Angle
	err    error
}

func (s *stubAngles) AnglesFor(ctx context.Context, matchup models.Matchup, market models.Market) ([]models.Angle, error) {
	return s.angles, s.err
}

type stubRatings struct {
	snapshot *models.RatingSnapshot
}

func (s *stubRatings) Current(ctx context.Context, sport models.Sport) *models.RatingSnapshot {
	return s.snapshot
}

type captureSink struct {
	saved []*models.Pick
	err   error
}

func (s *captureSink) SavePicks(ctx context.Context, picks []*models.Pick) error {
	s.saved = append(s.saved, picks...)
	return s.err
}

// seedGames produces a history where the home side has covered consistently
// and the away side has not, enough sample for every form provider.
func seedGames(home, away string, slateDate time.Time) []*models.Game {
	var games []*models.Game
	for i := 1; i <= 10; i++ {
		date := slateDate.AddDate(0, 0, -2*i)

		g1 := &models.Game{
			Sport: models.SportNBA, Date: date,
			HomeTeam: home, AwayTeam: "Filler A",
			HomeScore: 115, AwayScore: 100, Spread: -6, Total: 210,
		}
		g1.SettleResults()
		games = append(games, g1)

		g2 := &models.Game{
			Sport: models.SportNBA, Date: date,
			HomeTeam: "Filler B", AwayTeam: away,
			HomeScore: 112, AwayScore: 98, Spread: -4, Total: 205,
		}
		g2.SettleResults()
		games = append(games, g2)
	}
	return games
}

func testEngine(t *testing.T, matchups *stubMatchups, history *stubHistory, angles *stubAngles, ratings *stubRatings, sink *captureSink) *Engine {
	t.Helper()
	log := logrus.New()
	log.SetOutput(io.Discard)

	return New(Options{
		Config: config.EngineConfig{
			Sports:                []string{"NBA"},
			BatchSize:             4,
			StaleLineThresholdMin: 60,
		},
		Registry:       signal.NewRegistry(config.DefaultProfiles()),
		Matchups:       matchups,
		History:        history,
		Angles:         angles,
		Ratings:        ratings,
		Sink:           sink,
		Logger:         log,
		ProfileVersion: config.ProfileVersion,
	})
}

func TestRunGeneratesPicks(t *testing.T) {
	slateDate := time.Now().UTC().AddDate(0, 0, 1)
	matchup := models.Matchup{
		Sport: models.SportNBA, Date: slateDate,
		HomeTeam: "Celtics", AwayTeam: "Wizards",
		Spread: -2.5, Total: 224.5,
		LinesUpdatedAt: time.Now().UTC(),
	}

	snapshot := &models.RatingSnapshot{
		Date: time.Now().UTC(),
		Ratings: map[string]models.TeamRating{
			"celtics": {Power: 10, OffEff: 120, DefEff: 110, Pace: 100},
			"wizards": {Power: -6, OffEff: 110, DefEff: 120, Pace: 101},
		},
	}

	sink := &captureSink{}
	e := testEngine(t,
		&stubMatchups{slate: []models.Matchup{matchup}},
		&stubHistory{games: seedGames("Celtics", "Wizards", slateDate)},
		&stubAngles{},
		&stubRatings{snapshot: snapshot},
		sink,
	)

	picks, telemetry, err := e.Run(context.Background(), models.SportNBA, slateDate)
	require.NoError(t, err)

	assert.Equal(t, 1, telemetry.Processed)
	assert.Zero(t, telemetry.Errored)
	assert.Zero(t, telemetry.StaleLines)
	assert.Equal(t, len(picks), telemetry.Generated)
	// Both markets are evaluated; every candidate either publishes or counts
	// as rejected.
	assert.Equal(t, 2, telemetry.Generated+telemetry.Rejected)

	// The rating gap plus the one-sided cover history must clear the spread
	// tier gate.
	require.NotEmpty(t, picks)
	spread := picks[0]
	assert.Equal(t, models.DirectionHome, spread.Side)
	assert.GreaterOrEqual(t, spread.Score, 70)
	assert.Contains(t, []int{models.Tier3, models.Tier4, models.Tier5}, spread.Tier)
	assert.Equal(t, models.PickPending, spread.Result)
	assert.Equal(t, -2.5, spread.Line)
	assert.NotEmpty(t, spread.Reasoning)

	assert.Equal(t, len(picks), len(sink.saved))
}

func TestRunSkipsStaleLines(t *testing.T) {
	slateDate := time.Now().UTC().AddDate(0, 0, 1)
	matchup := models.Matchup{
		Sport: models.SportNBA, Date: slateDate,
		HomeTeam: "Celtics", AwayTeam: "Wizards",
		Spread: -2.5, Total: 224.5,
		LinesUpdatedAt: time.Now().UTC().Add(-3 * time.Hour),
	}

	e := testEngine(t,
		&stubMatchups{slate: []models.Matchup{matchup}},
		&stubHistory{},
		&stubAngles{},
		&stubRatings{},
		&captureSink{},
	)

	picks, telemetry, err := e.Run(context.Background(), models.SportNBA, slateDate)
	require.NoError(t, err)
	assert.Empty(t, picks)
	assert.Equal(t, 1, telemetry.StaleLines)
	assert.Zero(t, telemetry.Processed)
}

func TestRunEmptySlate(t *testing.T) {
	e := testEngine(t, &stubMatchups{}, &stubHistory{}, &stubAngles{}, &stubRatings{}, &captureSink{})

	picks, telemetry, err := e.Run(context.Background(), models.SportNBA, time.Now().UTC())
	require.NoError(t, err)
	assert.Empty(t, picks)
	assert.Zero(t, telemetry.Processed)
}

func TestRunSlateFetchFailureIsFatal(t *testing.T) {
	e := testEngine(t,
		&stubMatchups{err: errors.New("upstream down")},
		&stubHistory{}, &stubAngles{}, &stubRatings{}, &captureSink{},
	)

	_, _, err := e.Run(context.Background(), models.SportNBA, time.Now().UTC())
	assert.Error(t, err)
}

func TestRunToleratesAngleProviderFailure(t *testing.T) {
	slateDate := time.Now().UTC().AddDate(0, 0, 1)
	matchup := models.Matchup{
		Sport: models.SportNBA, Date: slateDate,
		HomeTeam: "Celtics", AwayTeam: "Wizards",
		Spread: -2.5, Total: 224.5,
		LinesUpdatedAt: time.Now().UTC(),
	}

	e := testEngine(t,
		&stubMatchups{slate: []models.Matchup{matchup}},
		&stubHistory{games: seedGames("Celtics", "Wizards", slateDate)},
		&stubAngles{err: errors.New("angle service down")},
		&stubRatings{snapshot: &models.RatingSnapshot{
			Date: time.Now().UTC(),
			Ratings: map[string]models.TeamRating{
				"celtics": {Power: 10, OffEff: 120, DefEff: 110, Pace: 100},
				"wizards": {Power: -6, OffEff: 110, DefEff: 120, Pace: 101},
			},
		}},
		&captureSink{},
	)

	_, telemetry, err := e.Run(context.Background(), models.SportNBA, slateDate)
	require.NoError(t, err)
	assert.Equal(t, 1, telemetry.Processed)
	assert.Zero(t, telemetry.Errored)
}

func TestRunMissingRatingsStillProcesses(t *testing.T) {
	// No rating snapshot degrades the model-edge and divergence signals to
	// neutral; the run itself must not error.
	slateDate := time.Now().UTC().AddDate(0, 0, 1)
	matchup := models.Matchup{
		Sport: models.SportNBA, Date: slateDate,
		HomeTeam: "Celtics", AwayTeam: "Wizards",
		Spread: -2.5, Total: 224.5,
		LinesUpdatedAt: time.Now().UTC(),
	}

	e := testEngine(t,
		&stubMatchups{slate: []models.Matchup{matchup}},
		&stubHistory{games: seedGames("Celtics", "Wizards", slateDate)},
		&stubAngles{},
		&stubRatings{snapshot: nil},
		&captureSink{},
	)

	_, telemetry, err := e.Run(context.Background(), models.SportNBA, slateDate)
	require.NoError(t, err)
	assert.Equal(t, 1, telemetry.Processed)
}

func TestHeadline(t *testing.T) {
	matchup := models.Matchup{HomeTeam: "Celtics", AwayTeam: "Knicks"}

	assert.Equal(t, "Celtics -5.5", Headline(matchup, models.MarketSpread, models.DirectionHome, -5.5))
	assert.Equal(t, "Knicks +5.5", Headline(matchup, models.MarketSpread, models.DirectionAway, -5.5))
	assert.Equal(t, "Knicks @ Celtics Over 221.5", Headline(matchup, models.MarketTotal, models.DirectionOver, 221.5))
	assert.Equal(t, "Knicks @ Celtics Under 221.5", Headline(matchup, models.MarketTotal, models.DirectionUnder, 221.5))
}
