package domain

import (
	"strconv"
	"time"
)

// LineStandard is the bucket used for quotes that carry no line dimension
// (moneylines, and the primary row of some feeds).
const LineStandard = "standard"

// RawQuote is one immutable price snapshot for a market as supplied by the
// quote feed. Later snapshots with the same (EventID, MarketID, Line) key
// supersede earlier ones; rows are never mutated in place.
type RawQuote struct {
	EventID    string         `json:"event_id"`
	MarketID   string         `json:"market_id"` // raw market identifier string
	Line       string         `json:"line,omitempty"`
	Price      int            `json:"price"` // American odds, signed
	BookPrices map[string]int `json:"book_prices,omitempty"`
	CapturedAt time.Time      `json:"captured_at"`
}

// DedupKey is the superseding key for snapshot rows.
func (q RawQuote) DedupKey() string {
	return q.EventID + "|" + q.MarketID + "|" + q.LineBucket()
}

// LineBucket returns the line grouping bucket, mapping an absent line to
// LineStandard.
func (q RawQuote) LineBucket() string {
	if q.Line == "" {
		return LineStandard
	}
	return q.Line
}

// LineValue parses the line as a float. The second return is false for the
// standard bucket or an unparseable value.
func (q RawQuote) LineValue() (float64, bool) {
	if q.Line == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(q.Line, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// LineGroup holds all sides quoted at a single line of one market. After
// reduction it contains at most one quote per side; Books carries each side's
// per-book prices ordered best payout first, so the first entry is the
// best-odds highlight and the rest is the display order.
type LineGroup struct {
	Line      string                  `json:"line"` // LineStandard or a numeric string
	LineValue float64                 `json:"line_value"`
	Sides     map[SideKind]RawQuote   `json:"sides"`
	Books     map[SideKind][]BookPrice `json:"books,omitempty"`
}

// Board is the reduced view of a single market: the representative main line
// plus every line sorted for display. Best is the headline quote (best-odds
// selection for moneylines, the reference side of the main line otherwise).
type Board struct {
	Market   MarketDescriptor `json:"market"`
	MainLine *LineGroup       `json:"main_line,omitempty"`
	Best     *RawQuote        `json:"best,omitempty"`
	AllLines []LineGroup      `json:"all_lines"`
}

// Empty reports whether the board carries no quotes at all. This is a normal
// condition ("no quotes available"), not a fault.
func (b Board) Empty() bool { return len(b.AllLines) == 0 }

// BookPrice is one sportsbook's price for a selection, used for ranked
// best-odds display.
type BookPrice struct {
	Book  string `json:"book"`
	Price int    `json:"price"`
}
