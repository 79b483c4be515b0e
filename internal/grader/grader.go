// Package grader settles picks against final game results. Grading is
// deterministic and idempotent: the same pick against the same game always
// yields the same result, and a settled pick is never silently overwritten.
package grader

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yourusername/convergence/internal/models"
)

// Grader applies final scores to pending picks
type Grader struct {
	log *logrus.Logger
}

// New creates a Grader
func New(log *logrus.Logger) *Grader {
	return &Grader{log: log}
}

// Grade settles a pick in place against a completed game. A pick is always
// graded against its own line, the line captured at generation time, not the
// closing line the game settled at. Calling Grade again with the same game is
// a no-op; a conflicting re-grade returns ErrAlreadyGraded.
func (g *Grader) Grade(pick *models.Pick, game *models.Game) error {
	if !game.Settled {
		return fmt.Errorf("grading %s: %w", pick.Matchup, models.ErrUnsettledGame)
	}

	result, err := Settle(pick.Side, pick.Line, game)
	if err != nil {
		return fmt.Errorf("grading %s: %w", pick.Matchup, err)
	}

	if pick.IsGraded() {
		if pick.Result == result {
			return nil
		}
		return fmt.Errorf("pick %s settled %s, recompute says %s: %w",
			pick.ID, pick.Result, result, models.ErrAlreadyGraded)
	}

	now := time.Now().UTC()
	pick.Result = result
	pick.GradedAt = &now

	g.log.WithFields(logrus.Fields{
		"pick_id": pick.ID,
		"matchup": pick.Matchup,
		"side":    pick.Side,
		"line":    pick.Line,
		"result":  result,
	}).Info("Pick graded")
	return nil
}

// Settle computes the outcome of a side at a given line against final scores.
// A push is its own outcome, never a loss.
func Settle(side models.Direction, line float64, game *models.Game) (models.PickResult, error) {
	switch side {
	case models.DirectionHome, models.DirectionAway:
		return settleSpread(side, line, game), nil
	case models.DirectionOver, models.DirectionUnder:
		return settleTotal(side, line, game), nil
	default:
		return models.PickPending, fmt.Errorf("cannot settle side %q", side)
	}
}

func settleSpread(side models.Direction, line float64, game *models.Game) models.PickResult {
	// line is the home line; the away side lays the inverse.
	margin := float64(game.HomeScore - game.AwayScore)
	adjusted := margin + line

	switch {
	case adjusted == 0:
		return models.PickPush
	case adjusted > 0:
		if side == models.DirectionHome {
			return models.PickWin
		}
		return models.PickLoss
	default:
		if side == models.DirectionAway {
			return models.PickWin
		}
		return models.PickLoss
	}
}

func settleTotal(side models.Direction, line float64, game *models.Game) models.PickResult {
	combined := float64(game.HomeScore + game.AwayScore)

	switch {
	case combined == line:
		return models.PickPush
	case combined > line:
		if side == models.DirectionOver {
			return models.PickWin
		}
		return models.PickLoss
	default:
		if side == models.DirectionUnder {
			return models.PickWin
		}
		return models.PickLoss
	}
}
