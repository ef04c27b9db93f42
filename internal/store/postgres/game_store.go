package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oddslip/oddslip/internal/domain"
)

// GameStore implements domain.GameStore using PostgreSQL.
type GameStore struct {
	pool *pgxpool.Pool
}

// NewGameStore creates a new GameStore backed by the given connection pool.
func NewGameStore(pool *pgxpool.Pool) *GameStore {
	return &GameStore{pool: pool}
}

var _ domain.GameStore = (*GameStore)(nil)

const upsertGameQuery = `
	INSERT INTO games (
		id, sport, league, home_team, away_team,
		start_time, status, updated_at
	) VALUES (
		$1, $2, $3, $4, $5,
		$6, $7, NOW()
	)
	ON CONFLICT (id) DO UPDATE SET
		sport      = EXCLUDED.sport,
		league     = EXCLUDED.league,
		home_team  = EXCLUDED.home_team,
		away_team  = EXCLUDED.away_team,
		start_time = EXCLUDED.start_time,
		status     = EXCLUDED.status,
		updated_at = NOW()`

// Upsert inserts or updates a single game.
func (s *GameStore) Upsert(ctx context.Context, g domain.Game) error {
	_, err := s.pool.Exec(ctx, upsertGameQuery,
		g.ID, g.Sport, g.League, g.HomeTeam, g.AwayTeam,
		g.StartTime, string(g.Status),
	)
	if err != nil {
		return fmt.Errorf("postgres: upsert game %s: %w", g.ID, err)
	}
	return nil
}

// UpsertBatch inserts or updates multiple games in a single batch operation.
func (s *GameStore) UpsertBatch(ctx context.Context, games []domain.Game) error {
	if len(games) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, g := range games {
		batch.Queue(upsertGameQuery,
			g.ID, g.Sport, g.League, g.HomeTeam, g.AwayTeam,
			g.StartTime, string(g.Status),
		)
	}

	br := s.pool.SendBatch(ctx, batch)
	defer br.Close()

	for i := range games {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("postgres: upsert game batch item %d: %w", i, err)
		}
	}
	return nil
}

const gameCols = `id, sport, league, home_team, away_team, start_time, status, updated_at`

func scanGame(row pgx.Row) (domain.Game, error) {
	var g domain.Game
	var status string
	err := row.Scan(
		&g.ID, &g.Sport, &g.League, &g.HomeTeam, &g.AwayTeam,
		&g.StartTime, &status, &g.UpdatedAt,
	)
	if err != nil {
		return domain.Game{}, err
	}
	g.Status = domain.GameStatus(status)
	return g, nil
}

// GetByID retrieves a game by its primary key.
func (s *GameStore) GetByID(ctx context.Context, id string) (domain.Game, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+gameCols+` FROM games WHERE id = $1`, id)
	g, err := scanGame(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return domain.Game{}, domain.ErrNotFound
		}
		return domain.Game{}, fmt.Errorf("postgres: get game %s: %w", id, err)
	}
	return g, nil
}

// ListUpcoming returns scheduled games ordered by start time. An empty sport
// matches every sport.
func (s *GameStore) ListUpcoming(ctx context.Context, sport string, opts domain.ListOpts) ([]domain.Game, error) {
	query := `SELECT ` + gameCols + ` FROM games WHERE status = 'scheduled'`
	args := []any{}
	argIdx := 1

	if sport != "" {
		query += fmt.Sprintf(" AND sport = $%d", argIdx)
		args = append(args, sport)
		argIdx++
	}
	if opts.Since != nil {
		query += fmt.Sprintf(" AND start_time >= $%d", argIdx)
		args = append(args, *opts.Since)
		argIdx++
	}
	if opts.Until != nil {
		query += fmt.Sprintf(" AND start_time <= $%d", argIdx)
		args = append(args, *opts.Until)
		argIdx++
	}

	query += " ORDER BY start_time ASC"

	if opts.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argIdx)
		args = append(args, opts.Limit)
		argIdx++
	}
	if opts.Offset > 0 {
		query += fmt.Sprintf(" OFFSET $%d", argIdx)
		args = append(args, opts.Offset)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("postgres: list upcoming games: %w", err)
	}
	defer rows.Close()

	var games []domain.Game
	for rows.Next() {
		g, err := scanGame(rows)
		if err != nil {
			return nil, fmt.Errorf("postgres: scan upcoming game: %w", err)
		}
		games = append(games, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: list upcoming games rows: %w", err)
	}
	return games, nil
}
