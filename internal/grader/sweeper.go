package grader

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yourusername/convergence/internal/logger"
	"github.com/yourusername/convergence/internal/metrics"
	"github.com/yourusername/convergence/internal/models"
)

// PendingSource serves ungraded picks and persists grading results
type PendingSource interface {
	GetPending(ctx context.Context, before time.Time) ([]*models.Pick, error)
	UpdateResult(ctx context.Context, pick *models.Pick) error
}

// GameLookup resolves the game a pick grades against
type GameLookup interface {
	GetByTeamsAndDate(ctx context.Context, sport models.Sport, homeTeam, awayTeam string, date time.Time) (*models.Game, error)
}

// Sweeper settles every pending pick whose game has completed. A pick whose
// game is missing or unsettled is left pending for the next sweep.
type Sweeper struct {
	picks   PendingSource
	games   GameLookup
	grader  *Grader
	log     *logrus.Logger
	audit   *logger.AuditLogger
	metrics *metrics.Metrics
}

// NewSweeper creates a grading Sweeper. Metrics may be nil.
func NewSweeper(picks PendingSource, games GameLookup, log *logrus.Logger, m *metrics.Metrics) *Sweeper {
	return &Sweeper{
		picks:   picks,
		games:   games,
		grader:  New(log),
		log:     log,
		audit:   logger.NewAuditLogger(log),
		metrics: m,
	}
}

// Sweep grades all pending picks dated before now and returns the settled
// count.
func (s *Sweeper) Sweep(ctx context.Context) (int, error) {
	pending, err := s.picks.GetPending(ctx, time.Now().UTC())
	if err != nil {
		return 0, fmt.Errorf("fetching pending picks: %w", err)
	}

	graded := 0
	for _, pick := range pending {
		if err := s.sweepOne(ctx, pick); err != nil {
			s.log.WithError(err).WithField("pick_id", pick.ID).Warn("Pick left pending")
			continue
		}
		graded++
	}

	if graded > 0 || len(pending) > 0 {
		s.log.WithFields(logrus.Fields{"pending": len(pending), "graded": graded}).Info("Grading sweep completed")
	}
	return graded, nil
}

func (s *Sweeper) sweepOne(ctx context.Context, pick *models.Pick) error {
	homeTeam, awayTeam, err := SplitMatchup(pick.Matchup)
	if err != nil {
		return err
	}

	game, err := s.games.GetByTeamsAndDate(ctx, pick.Sport, homeTeam, awayTeam, pick.GameDate)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return fmt.Errorf("game not yet ingested for %s", pick.Matchup)
		}
		return err
	}

	if err := s.grader.Grade(pick, game); err != nil {
		return err
	}
	if err := s.picks.UpdateResult(ctx, pick); err != nil {
		return fmt.Errorf("persisting grade for %s: %w", pick.ID, err)
	}

	s.audit.LogPickGraded(pick)
	if s.metrics != nil {
		s.metrics.PicksGraded.WithLabelValues(string(pick.Sport), string(pick.Result)).Inc()
	}
	return nil
}

// SplitMatchup parses the conventional "Away @ Home" label
func SplitMatchup(label string) (homeTeam, awayTeam string, err error) {
	parts := strings.Split(label, " @ ")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("malformed matchup label %q", label)
	}
	return parts[1], parts[0], nil
}
