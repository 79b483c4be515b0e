package grader

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/convergence/internal/models"
)

type stubPending struct {
	pending []*models.Pick
	updated []*models.Pick
}

func (s *stubPending) GetPending(ctx context.Context, before time.Time) ([]*models.Pick, error) {
	return s.pending, nil
}

func (s *stubPending) UpdateResult(ctx context.Context, pick *models.Pick) error {
	s.updated = append(s.updated, pick)
	return nil
}

type stubGames struct {
	games map[string]*models.Game
}

func (s *stubGames) GetByTeamsAndDate(ctx context.Context, sport models.Sport, homeTeam, awayTeam string, date time.Time) (*models.Game, error) {
	game, ok := s.games[homeTeam+"/"+awayTeam]
	if !ok {
		return nil, models.ErrNotFound
	}
	return game, nil
}

func TestSplitMatchup(t *testing.T) {
	home, away, err := SplitMatchup("Knicks @ Celtics")
	require.NoError(t, err)
	assert.Equal(t, "Celtics", home)
	assert.Equal(t, "Knicks", away)

	_, _, err = SplitMatchup("not a matchup")
	assert.Error(t, err)
}

func TestSweepGradesCompletedGames(t *testing.T) {
	gameDate := time.Now().UTC().AddDate(0, 0, -1)
	won := &models.Pick{
		ID: uuid.New(), Sport: models.SportNBA, Market: models.MarketSpread,
		Matchup: "Knicks @ Celtics", GameDate: gameDate,
		Side: models.DirectionHome, Line: -5.5, Result: models.PickPending,
	}
	waiting := &models.Pick{
		ID: uuid.New(), Sport: models.SportNBA, Market: models.MarketSpread,
		Matchup: "Heat @ Bucks", GameDate: gameDate,
		Side: models.DirectionAway, Line: -3.5, Result: models.PickPending,
	}

	game := &models.Game{
		Sport: models.SportNBA, Date: gameDate,
		HomeTeam: "Celtics", AwayTeam: "Knicks",
		HomeScore: 112, AwayScore: 100, Spread: -5.5, Total: 214.5,
	}
	game.SettleResults()

	picks := &stubPending{pending: []*models.Pick{won, waiting}}
	games := &stubGames{games: map[string]*models.Game{"Celtics/Knicks": game}}

	sweeper := NewSweeper(picks, games, testGrader().log, nil)
	graded, err := sweeper.Sweep(context.Background())
	require.NoError(t, err)

	// The Bucks game is not ingested yet; that pick stays pending.
	assert.Equal(t, 1, graded)
	assert.Equal(t, models.PickWin, won.Result)
	assert.Equal(t, models.PickPending, waiting.Result)
	require.Len(t, picks.updated, 1)
	assert.Equal(t, won.ID, picks.updated[0].ID)
}

func TestSweepLeavesUnsettledGamePending(t *testing.T) {
	gameDate := time.Now().UTC().AddDate(0, 0, -1)
	pick := &models.Pick{
		ID: uuid.New(), Sport: models.SportNBA, Market: models.MarketSpread,
		Matchup: "Knicks @ Celtics", GameDate: gameDate,
		Side: models.DirectionHome, Line: -5.5, Result: models.PickPending,
	}
	game := &models.Game{
		Sport: models.SportNBA, Date: gameDate,
		HomeTeam: "Celtics", AwayTeam: "Knicks",
	}

	picks := &stubPending{pending: []*models.Pick{pick}}
	games := &stubGames{games: map[string]*models.Game{"Celtics/Knicks": game}}

	sweeper := NewSweeper(picks, games, testGrader().log, nil)
	graded, err := sweeper.Sweep(context.Background())
	require.NoError(t, err)
	assert.Zero(t, graded)
	assert.Empty(t, picks.updated)
}
