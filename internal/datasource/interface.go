// Package datasource defines the external provider interfaces the engine
// consumes and a rate-limited HTTP client for the concrete adapters.
package datasource

import (
	"context"
	"time"

	"github.com/yourusername/convergence/internal/models"
)

// GameHistoryProvider serves ordered settled games for tracker building and
// head-to-head lookups.
type GameHistoryProvider interface {
	// GamesByDateRange returns settled games ordered by date ascending.
	GamesByDateRange(ctx context.Context, sport models.Sport, start, end time.Time) ([]*models.Game, error)
}

// RatingProvider serves the current external rating snapshot for a sport
type RatingProvider interface {
	CurrentRatings(ctx context.Context, sport models.Sport) (*models.RatingSnapshot, error)
}

// PITRatingArchive serves dated historical rating snapshots for walk-forward
// replay. Snapshots are returned ordered by date ascending.
type PITRatingArchive interface {
	SnapshotsByRange(ctx context.Context, sport models.Sport, start, end time.Time) ([]*models.RatingSnapshot, error)
}

// AngleProvider serves externally discovered significant historical filters
// that currently apply to a matchup.
type AngleProvider interface {
	AnglesFor(ctx context.Context, matchup models.Matchup, market models.Market) ([]models.Angle, error)
}

// MatchupProvider serves upcoming games with current lines
type MatchupProvider interface {
	UpcomingMatchups(ctx context.Context, sport models.Sport, date time.Time) ([]models.Matchup, error)
}
