package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/yourusername/convergence/internal/database"
	"github.com/yourusername/convergence/internal/models"
)

// execer abstracts over the pool and an open transaction
type execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// PostgresPickRepository implements PickRepository for PostgreSQL
type PostgresPickRepository struct {
	db *database.DB
}

// NewPostgresPickRepository creates a new pick repository
func NewPostgresPickRepository(db *database.DB) *PostgresPickRepository {
	return &PostgresPickRepository{db: db}
}

const pickColumns = `id, sport, market, matchup, game_date, side, line, score, tier,
	headline, reasoning, result, created_at, graded_at`

const insertPickQuery = `
	INSERT INTO picks (id, sport, market, matchup, game_date, side, line, score, tier,
	                   headline, reasoning, result, created_at, graded_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
`

func insertPick(ctx context.Context, exec execer, pick *models.Pick) error {
	reasoning, err := json.Marshal(pick.Reasoning)
	if err != nil {
		return fmt.Errorf("failed to marshal reasoning: %w", err)
	}

	_, err = exec.Exec(ctx, insertPickQuery,
		pick.ID, pick.Sport, pick.Market, pick.Matchup, pick.GameDate, pick.Side,
		pick.Line, pick.Score, pick.Tier, pick.Headline, reasoning, pick.Result,
		pick.CreatedAt, pick.GradedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create pick: %w", err)
	}
	return nil
}

// Create inserts a new pick
func (r *PostgresPickRepository) Create(ctx context.Context, pick *models.Pick) error {
	return insertPick(ctx, r.db.GetPool(), pick)
}

// CreateBatch inserts picks atomically; a run's output is all-or-nothing
func (r *PostgresPickRepository) CreateBatch(ctx context.Context, picks []*models.Pick) error {
	return r.db.WithTransaction(ctx, func(tx pgx.Tx) error {
		for _, pick := range picks {
			if err := insertPick(ctx, tx, pick); err != nil {
				return err
			}
		}
		return nil
	})
}

// SavePicks implements the engine's PickSink
func (r *PostgresPickRepository) SavePicks(ctx context.Context, picks []*models.Pick) error {
	return r.CreateBatch(ctx, picks)
}

// GetByID retrieves a pick by ID
func (r *PostgresPickRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Pick, error) {
	query := `SELECT ` + pickColumns + ` FROM picks WHERE id = $1`

	pick, err := scanPick(r.db.GetPool().QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get pick: %w", err)
	}
	return pick, nil
}

// GetPending retrieves ungraded picks whose game date has passed
func (r *PostgresPickRepository) GetPending(ctx context.Context, before time.Time) ([]*models.Pick, error) {
	query := `
		SELECT ` + pickColumns + `
		FROM picks
		WHERE result = $1 AND game_date < $2
		ORDER BY game_date ASC
	`

	rows, err := r.db.GetPool().Query(ctx, query, models.PickPending, before)
	if err != nil {
		return nil, fmt.Errorf("failed to query pending picks: %w", err)
	}
	defer rows.Close()

	return scanPicks(rows)
}

// GetByDateRange retrieves a sport's picks by game date
func (r *PostgresPickRepository) GetByDateRange(ctx context.Context, sport models.Sport, start, end time.Time) ([]*models.Pick, error) {
	query := `
		SELECT ` + pickColumns + `
		FROM picks
		WHERE sport = $1 AND game_date >= $2 AND game_date <= $3
		ORDER BY game_date ASC, created_at ASC
	`

	rows, err := r.db.GetPool().Query(ctx, query, sport, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to query picks by date range: %w", err)
	}
	defer rows.Close()

	return scanPicks(rows)
}

// UpdateResult persists a graded pick's result fields
func (r *PostgresPickRepository) UpdateResult(ctx context.Context, pick *models.Pick) error {
	query := `UPDATE picks SET result = $1, graded_at = $2 WHERE id = $3`

	tag, err := r.db.GetPool().Exec(ctx, query, pick.Result, pick.GradedAt, pick.ID)
	if err != nil {
		return fmt.Errorf("failed to update pick result: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

func scanPick(row pgx.Row) (*models.Pick, error) {
	pick := &models.Pick{}
	var reasoning []byte
	err := row.Scan(
		&pick.ID, &pick.Sport, &pick.Market, &pick.Matchup, &pick.GameDate, &pick.Side,
		&pick.Line, &pick.Score, &pick.Tier, &pick.Headline, &reasoning, &pick.Result,
		&pick.CreatedAt, &pick.GradedAt,
	)
	if err != nil {
		return nil, err
	}
	if len(reasoning) > 0 {
		if err := json.Unmarshal(reasoning, &pick.Reasoning); err != nil {
			return nil, fmt.Errorf("failed to unmarshal reasoning: %w", err)
		}
	}
	return pick, nil
}

func scanPicks(rows pgx.Rows) ([]*models.Pick, error) {
	var picks []*models.Pick
	for rows.Next() {
		pick, err := scanPick(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan pick: %w", err)
		}
		picks = append(picks, pick)
	}
	return picks, rows.Err()
}
