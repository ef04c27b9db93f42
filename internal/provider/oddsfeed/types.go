package oddsfeed

import (
	"time"

	"github.com/oddslip/oddslip/internal/domain"
)

// FeedEvent is the wire shape of one scheduled game from the odds feed.
type FeedEvent struct {
	ID           string    `json:"id"`
	Sport        string    `json:"sport_key"`
	League       string    `json:"sport_title"`
	HomeTeam     string    `json:"home_team"`
	AwayTeam     string    `json:"away_team"`
	CommenceTime time.Time `json:"commence_time"`
	Completed    bool      `json:"completed"`
	Live         bool      `json:"live"`
}

// ToGame converts a feed event into the domain representation.
func (e FeedEvent) ToGame() domain.Game {
	status := domain.GameStatusScheduled
	if e.Live {
		status = domain.GameStatusLive
	}
	if e.Completed {
		status = domain.GameStatusFinal
	}
	return domain.Game{
		ID:        e.ID,
		Sport:     e.Sport,
		League:    e.League,
		HomeTeam:  e.HomeTeam,
		AwayTeam:  e.AwayTeam,
		StartTime: e.CommenceTime,
		Status:    status,
	}
}

// FeedQuoteRow is one market/line price row inside an event odds payload.
type FeedQuoteRow struct {
	MarketID   string         `json:"market_id"`
	Line       string         `json:"line,omitempty"`
	Price      int            `json:"price"`
	BookPrices map[string]int `json:"book_prices,omitempty"`
	LastUpdate time.Time      `json:"last_update"`
}

// FeedEventOdds is the full odds payload for one event.
type FeedEventOdds struct {
	EventID string         `json:"event_id"`
	Rows    []FeedQuoteRow `json:"rows"`
}

// Quotes converts the payload into domain snapshots, stamping capturedAt on
// every row so one fetch forms a single consistent capture generation.
func (o FeedEventOdds) Quotes(capturedAt time.Time) []domain.RawQuote {
	quotes := make([]domain.RawQuote, 0, len(o.Rows))
	for _, row := range o.Rows {
		quotes = append(quotes, domain.RawQuote{
			EventID:    o.EventID,
			MarketID:   row.MarketID,
			Line:       row.Line,
			Price:      row.Price,
			BookPrices: row.BookPrices,
			CapturedAt: capturedAt,
		})
	}
	return quotes
}

// feedErrorResponse is the error envelope returned by the feed API.
type feedErrorResponse struct {
	Code    string `json:"error_code"`
	Message string `json:"message"`
}
