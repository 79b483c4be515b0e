// Package repository provides PostgreSQL persistence for picks and game
// history.
package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/yourusername/convergence/internal/models"
)

// PickRepository defines the interface for pick data access
type PickRepository interface {
	Create(ctx context.Context, pick *models.Pick) error
	CreateBatch(ctx context.Context, picks []*models.Pick) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Pick, error)
	GetPending(ctx context.Context, before time.Time) ([]*models.Pick, error)
	GetByDateRange(ctx context.Context, sport models.Sport, start, end time.Time) ([]*models.Pick, error)
	UpdateResult(ctx context.Context, pick *models.Pick) error
}

// GameRepository defines the interface for settled game data access
type GameRepository interface {
	Upsert(ctx context.Context, game *models.Game) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Game, error)
	GetByDateRange(ctx context.Context, sport models.Sport, start, end time.Time) ([]*models.Game, error)
	GetByTeamsAndDate(ctx context.Context, sport models.Sport, homeTeam, awayTeam string, date time.Time) (*models.Game, error)
	GetHeadToHead(ctx context.Context, sport models.Sport, teamA, teamB string, before time.Time) ([]*models.Game, error)
}
