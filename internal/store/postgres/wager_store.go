package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oddslip/oddslip/internal/domain"
)

// WagerStore implements domain.WagerStore using PostgreSQL. Legs are stored
// as a JSONB document since they are only ever read back whole.
type WagerStore struct {
	pool *pgxpool.Pool
}

// NewWagerStore creates a new WagerStore backed by the given connection pool.
func NewWagerStore(pool *pgxpool.Pool) *WagerStore {
	return &WagerStore{pool: pool}
}

var _ domain.WagerStore = (*WagerStore)(nil)

// Create records an accepted wager.
func (s *WagerStore) Create(ctx context.Context, w domain.Wager) error {
	legs, err := json.Marshal(w.Legs)
	if err != nil {
		return fmt.Errorf("postgres: marshal wager legs: %w", err)
	}

	_, err = s.pool.Exec(ctx, `
		INSERT INTO wagers (id, session_id, legs, amount, combined_price, payout, placed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		w.ID, w.SessionID, legs, w.Amount, w.CombinedPrice, w.Payout, w.PlacedAt,
	)
	if err != nil {
		return fmt.Errorf("postgres: create wager %s: %w", w.ID, err)
	}
	return nil
}

const wagerCols = `id, session_id, legs, amount, combined_price, payout, placed_at`

func scanWager(row pgx.Row) (domain.Wager, error) {
	var w domain.Wager
	var legs []byte
	err := row.Scan(&w.ID, &w.SessionID, &legs, &w.Amount, &w.CombinedPrice, &w.Payout, &w.PlacedAt)
	if err != nil {
		return domain.Wager{}, err
	}
	if err := json.Unmarshal(legs, &w.Legs); err != nil {
		return domain.Wager{}, fmt.Errorf("unmarshal wager legs: %w", err)
	}
	return w, nil
}

// GetByID retrieves a wager by its primary key.
func (s *WagerStore) GetByID(ctx context.Context, id string) (domain.Wager, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+wagerCols+` FROM wagers WHERE id = $1`, id)
	w, err := scanWager(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return domain.Wager{}, domain.ErrNotFound
		}
		return domain.Wager{}, fmt.Errorf("postgres: get wager %s: %w", id, err)
	}
	return w, nil
}

// ListBySession returns a session's wagers, newest first.
func (s *WagerStore) ListBySession(ctx context.Context, sessionID string, opts domain.ListOpts) ([]domain.Wager, error) {
	query := `SELECT ` + wagerCols + ` FROM wagers WHERE session_id = $1`
	args := []any{sessionID}
	argIdx := 2

	if opts.Since != nil {
		query += fmt.Sprintf(" AND placed_at >= $%d", argIdx)
		args = append(args, *opts.Since)
		argIdx++
	}
	if opts.Until != nil {
		query += fmt.Sprintf(" AND placed_at <= $%d", argIdx)
		args = append(args, *opts.Until)
		argIdx++
	}

	query += " ORDER BY placed_at DESC"

	if opts.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argIdx)
		args = append(args, opts.Limit)
		argIdx++
	}
	if opts.Offset > 0 {
		query += fmt.Sprintf(" OFFSET $%d", argIdx)
		args = append(args, opts.Offset)
	}

	return s.queryWagers(ctx, query, args...)
}

// ListRecent returns the most recently placed wagers across all sessions.
func (s *WagerStore) ListRecent(ctx context.Context, limit int) ([]domain.Wager, error) {
	if limit <= 0 {
		limit = 50
	}
	return s.queryWagers(ctx,
		`SELECT `+wagerCols+` FROM wagers ORDER BY placed_at DESC LIMIT $1`, limit)
}

func (s *WagerStore) queryWagers(ctx context.Context, query string, args ...any) ([]domain.Wager, error) {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("postgres: list wagers: %w", err)
	}
	defer rows.Close()

	var wagers []domain.Wager
	for rows.Next() {
		w, err := scanWager(rows)
		if err != nil {
			return nil, fmt.Errorf("postgres: scan wager: %w", err)
		}
		wagers = append(wagers, w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: list wagers rows: %w", err)
	}
	return wagers, nil
}
