package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/yourusername/convergence/internal/database"
	"github.com/yourusername/convergence/internal/models"
)

// PostgresGameRepository implements GameRepository for PostgreSQL
type PostgresGameRepository struct {
	db *database.DB
}

// NewPostgresGameRepository creates a new game repository
func NewPostgresGameRepository(db *database.DB) *PostgresGameRepository {
	return &PostgresGameRepository{db: db}
}

const gameColumns = `id, sport, game_date, home_team, away_team, home_score, away_score,
	spread, total, ats_result, ou_result, settled`

// Upsert inserts or replaces a game keyed by (sport, date, home, away). Feed
// re-pulls deliver the same game twice; the later row wins.
func (r *PostgresGameRepository) Upsert(ctx context.Context, game *models.Game) error {
	query := `
		INSERT INTO games (id, sport, game_date, home_team, away_team, home_score, away_score,
		                   spread, total, ats_result, ou_result, settled)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (sport, game_date, home_team, away_team) DO UPDATE SET
			home_score = EXCLUDED.home_score,
			away_score = EXCLUDED.away_score,
			spread = EXCLUDED.spread,
			total = EXCLUDED.total,
			ats_result = EXCLUDED.ats_result,
			ou_result = EXCLUDED.ou_result,
			settled = EXCLUDED.settled
	`

	_, err := r.db.GetPool().Exec(ctx, query,
		game.ID, game.Sport, game.Date, game.HomeTeam, game.AwayTeam,
		game.HomeScore, game.AwayScore, game.Spread, game.Total,
		game.ATS, game.OU, game.Settled,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert game: %w", err)
	}
	return nil
}

// GetByID retrieves a game by ID
func (r *PostgresGameRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Game, error) {
	query := `SELECT ` + gameColumns + ` FROM games WHERE id = $1`

	game, err := scanGame(r.db.GetPool().QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get game: %w", err)
	}
	return game, nil
}

// GetByDateRange retrieves a sport's games ordered by date ascending. This is
// the walk-forward feed, so the ordering is load-bearing.
func (r *PostgresGameRepository) GetByDateRange(ctx context.Context, sport models.Sport, start, end time.Time) ([]*models.Game, error) {
	query := `
		SELECT ` + gameColumns + `
		FROM games
		WHERE sport = $1 AND game_date >= $2 AND game_date <= $3
		ORDER BY game_date ASC
	`

	rows, err := r.db.GetPool().Query(ctx, query, sport, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to query games by date range: %w", err)
	}
	defer rows.Close()

	var games []*models.Game
	for rows.Next() {
		game, err := scanGame(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan game: %w", err)
		}
		games = append(games, game)
	}
	return games, rows.Err()
}

// GamesByDateRange implements datasource.GameHistoryProvider
func (r *PostgresGameRepository) GamesByDateRange(ctx context.Context, sport models.Sport, start, end time.Time) ([]*models.Game, error) {
	return r.GetByDateRange(ctx, sport, start, end)
}

// GetByTeamsAndDate retrieves the game a pick grades against
func (r *PostgresGameRepository) GetByTeamsAndDate(ctx context.Context, sport models.Sport, homeTeam, awayTeam string, date time.Time) (*models.Game, error) {
	query := `
		SELECT ` + gameColumns + `
		FROM games
		WHERE sport = $1 AND home_team = $2 AND away_team = $3 AND game_date = $4
	`

	game, err := scanGame(r.db.GetPool().QueryRow(ctx, query, sport, homeTeam, awayTeam, date))
	if err == pgx.ErrNoRows {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get game by teams and date: %w", err)
	}
	return game, nil
}

// GetHeadToHead retrieves prior meetings between two teams in either home/away
// orientation, strictly before the cutoff, ordered by date ascending.
func (r *PostgresGameRepository) GetHeadToHead(ctx context.Context, sport models.Sport, teamA, teamB string, before time.Time) ([]*models.Game, error) {
	query := `
		SELECT ` + gameColumns + `
		FROM games
		WHERE sport = $1
		  AND ((home_team = $2 AND away_team = $3) OR (home_team = $3 AND away_team = $2))
		  AND game_date < $4
		ORDER BY game_date ASC
	`

	rows, err := r.db.GetPool().Query(ctx, query, sport, teamA, teamB, before)
	if err != nil {
		return nil, fmt.Errorf("failed to query head-to-head games: %w", err)
	}
	defer rows.Close()

	var games []*models.Game
	for rows.Next() {
		game, err := scanGame(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan game: %w", err)
		}
		games = append(games, game)
	}
	return games, rows.Err()
}

func scanGame(row pgx.Row) (*models.Game, error) {
	game := &models.Game{}
	err := row.Scan(
		&game.ID, &game.Sport, &game.Date, &game.HomeTeam, &game.AwayTeam,
		&game.HomeScore, &game.AwayScore, &game.Spread, &game.Total,
		&game.ATS, &game.OU, &game.Settled,
	)
	if err != nil {
		return nil, err
	}
	return game, nil
}
