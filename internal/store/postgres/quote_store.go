package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oddslip/oddslip/internal/domain"
)

// QuoteStore implements domain.QuoteStore using PostgreSQL. Snapshot rows are
// append-only; superseding happens at read time via ordering.
type QuoteStore struct {
	pool *pgxpool.Pool
}

// NewQuoteStore creates a new QuoteStore backed by the given connection pool.
func NewQuoteStore(pool *pgxpool.Pool) *QuoteStore {
	return &QuoteStore{pool: pool}
}

var _ domain.QuoteStore = (*QuoteStore)(nil)

// InsertBatch appends a batch of quote snapshots.
func (s *QuoteStore) InsertBatch(ctx context.Context, quotes []domain.RawQuote) error {
	if len(quotes) == 0 {
		return nil
	}

	const query = `
		INSERT INTO quotes (event_id, market_id, line, price, book_prices, captured_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	batch := &pgx.Batch{}
	for i, q := range quotes {
		var bookPrices []byte
		if len(q.BookPrices) > 0 {
			var err error
			bookPrices, err = json.Marshal(q.BookPrices)
			if err != nil {
				return fmt.Errorf("postgres: marshal book prices for quote %d: %w", i, err)
			}
		}
		batch.Queue(query, q.EventID, q.MarketID, q.Line, q.Price, bookPrices, q.CapturedAt)
	}

	br := s.pool.SendBatch(ctx, batch)
	defer br.Close()

	for i := range quotes {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("postgres: insert quote batch item %d: %w", i, err)
		}
	}
	return nil
}

const quoteCols = `event_id, market_id, line, price, book_prices, captured_at`

func scanQuote(row pgx.Row) (domain.RawQuote, error) {
	var q domain.RawQuote
	var bookPrices []byte
	err := row.Scan(&q.EventID, &q.MarketID, &q.Line, &q.Price, &bookPrices, &q.CapturedAt)
	if err != nil {
		return domain.RawQuote{}, err
	}
	if len(bookPrices) > 0 {
		if err := json.Unmarshal(bookPrices, &q.BookPrices); err != nil {
			return domain.RawQuote{}, fmt.Errorf("unmarshal book prices: %w", err)
		}
	}
	return q, nil
}

// ListByEvent returns snapshots for an event, newest first. The id tiebreak
// keeps ordering stable for rows captured in the same instant.
func (s *QuoteStore) ListByEvent(ctx context.Context, eventID string, since *time.Time) ([]domain.RawQuote, error) {
	query := `SELECT ` + quoteCols + ` FROM quotes WHERE event_id = $1`
	args := []any{eventID}

	if since != nil {
		query += ` AND captured_at >= $2`
		args = append(args, *since)
	}
	query += ` ORDER BY captured_at DESC, id DESC`

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("postgres: list quotes for event %s: %w", eventID, err)
	}
	defer rows.Close()

	var quotes []domain.RawQuote
	for rows.Next() {
		q, err := scanQuote(rows)
		if err != nil {
			return nil, fmt.Errorf("postgres: scan quote: %w", err)
		}
		quotes = append(quotes, q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: list quotes rows: %w", err)
	}
	return quotes, nil
}

// ListCapturedBetween returns every snapshot captured inside [from, to),
// oldest first, for archival.
func (s *QuoteStore) ListCapturedBetween(ctx context.Context, from, to time.Time) ([]domain.RawQuote, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+quoteCols+` FROM quotes
		 WHERE captured_at >= $1 AND captured_at < $2
		 ORDER BY captured_at ASC, id ASC`,
		from, to,
	)
	if err != nil {
		return nil, fmt.Errorf("postgres: list quotes between: %w", err)
	}
	defer rows.Close()

	var quotes []domain.RawQuote
	for rows.Next() {
		q, err := scanQuote(rows)
		if err != nil {
			return nil, fmt.Errorf("postgres: scan archived quote: %w", err)
		}
		quotes = append(quotes, q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: list quotes between rows: %w", err)
	}
	return quotes, nil
}

// PurgeBefore deletes snapshots captured before cutoff and returns the number
// of rows removed.
func (s *QuoteStore) PurgeBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := s.pool.Exec(ctx, `DELETE FROM quotes WHERE captured_at < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("postgres: purge quotes before %s: %w", cutoff.Format(time.RFC3339), err)
	}
	return tag.RowsAffected(), nil
}
