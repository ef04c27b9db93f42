package board

import (
	"testing"
	"time"

	"github.com/oddslip/oddslip/internal/domain"
)

var captureBase = time.Date(2026, 3, 14, 18, 0, 0, 0, time.UTC)

// quote builds a snapshot row; age ranks recency, 0 being newest. Callers
// list rows newest-first to match the reducer's documented precondition.
func quote(marketID, line string, price, age int) domain.RawQuote {
	return domain.RawQuote{
		EventID:    "evt1",
		MarketID:   marketID,
		Line:       line,
		Price:      price,
		CapturedAt: captureBase.Add(-time.Duration(age) * time.Minute),
	}
}

func TestReduceEmpty(t *testing.T) {
	b := Reduce(nil, domain.SideOver)
	if !b.Empty() {
		t.Fatal("expected empty board")
	}
	if b.MainLine != nil {
		t.Fatal("expected nil main line for empty input")
	}
}

func TestReduceDedupKeepsNewest(t *testing.T) {
	quotes := []domain.RawQuote{
		quote("points-all-full-ou-over", "210.5", -115, 0),
		quote("points-all-full-ou-over", "210.5", -105, 5), // superseded
	}

	b := Reduce(quotes, domain.SideOver)
	if len(b.AllLines) != 1 {
		t.Fatalf("lines = %d, want 1", len(b.AllLines))
	}
	got := b.AllLines[0].Sides[domain.SideOver]
	if got.Price != -115 {
		t.Errorf("kept price %d, want the newest -115", got.Price)
	}
}

func TestReduceLineOrdering(t *testing.T) {
	quotes := []domain.RawQuote{
		quote("points-all-full-ou-over", "215.5", 130, 0),
		quote("points-all-full-ou-over", "", -110, 0),
		quote("points-all-full-ou-over", "205.5", -140, 0),
	}

	b := Reduce(quotes, domain.SideOver)
	want := []string{domain.LineStandard, "205.5", "215.5"}
	if len(b.AllLines) != len(want) {
		t.Fatalf("lines = %d, want %d", len(b.AllLines), len(want))
	}
	for i, lg := range b.AllLines {
		if lg.Line != want[i] {
			t.Errorf("line[%d] = %q, want %q", i, lg.Line, want[i])
		}
	}
}

func TestReduceAtMostOneQuotePerSide(t *testing.T) {
	quotes := []domain.RawQuote{
		quote("points-all-full-ou-over", "210.5", -110, 0),
		quote("points-all-full-ou-under", "210.5", -110, 0),
		quote("points-all-full-ou-over", "210.5", -120, 1),
	}

	b := Reduce(quotes, domain.SideOver)
	if len(b.AllLines) != 1 {
		t.Fatalf("lines = %d, want 1", len(b.AllLines))
	}
	if n := len(b.AllLines[0].Sides); n != 2 {
		t.Errorf("sides = %d, want 2", n)
	}
}

func TestReduceMainLineClosestToEven(t *testing.T) {
	quotes := []domain.RawQuote{
		quote("points-all-full-ou-over", "205.5", -160, 0),
		quote("points-all-full-ou-over", "210.5", -105, 0),
		quote("points-all-full-ou-over", "215.5", 145, 0),
	}

	b := Reduce(quotes, domain.SideOver)
	if b.MainLine == nil {
		t.Fatal("expected a main line")
	}
	if b.MainLine.Line != "210.5" {
		t.Errorf("main line = %q, want 210.5 (closest to even)", b.MainLine.Line)
	}
}

func TestReduceMainLineTieBreaksToSmallestLine(t *testing.T) {
	// Both lines sit exactly 10 away from even.
	quotes := []domain.RawQuote{
		quote("points-all-full-ou-over", "212.5", 110, 0),
		quote("points-all-full-ou-over", "208.5", -110, 0),
	}

	b := Reduce(quotes, domain.SideOver)
	if b.MainLine.Line != "208.5" {
		t.Errorf("main line = %q, want 208.5 (ascending tie-break)", b.MainLine.Line)
	}
}

func TestReduceRanksBooksPerSide(t *testing.T) {
	q := quote("points-all-full-ou-over", "210.5", -110, 0)
	q.BookPrices = map[string]int{
		"draftkings": -112,
		"fanduel":    -108,
		"betmgm":     -115,
	}

	b := Reduce([]domain.RawQuote{q}, domain.SideOver)
	ranked := b.AllLines[0].Books[domain.SideOver]
	if len(ranked) != 3 {
		t.Fatalf("ranked books = %d, want 3", len(ranked))
	}
	if ranked[0].Book != "fanduel" || ranked[0].Price != -108 {
		t.Errorf("best odds = %+v, want fanduel -108 first", ranked[0])
	}
	if ranked[2].Book != "betmgm" {
		t.Errorf("worst odds = %+v, want betmgm last", ranked[2])
	}
}

func TestReduceSetsBestQuote(t *testing.T) {
	total := Reduce([]domain.RawQuote{
		quote("points-all-full-ou-over", "210.5", -105, 0),
		quote("points-all-full-ou-under", "210.5", -115, 0),
	}, domain.SideOver)
	if total.Best == nil || total.Best.Price != -105 {
		t.Fatalf("best = %+v, want the reference over side at -105", total.Best)
	}

	ml := Reduce([]domain.RawQuote{
		quote("winner-all-full-ml-home", "", -150, 0),
		quote("winner-all-full-ml-away", "", 130, 0),
	}, domain.SideHome)
	if ml.Best == nil || ml.Best.Price != 130 {
		t.Fatalf("best = %+v, want the +130 best-odds moneyline quote", ml.Best)
	}
}

func TestReduceMoneylineUsesBestOddsComparator(t *testing.T) {
	quotes := []domain.RawQuote{
		quote("winner-all-full-ml-home", "", -150, 0),
		quote("winner-all-full-ml-away", "", 130, 0),
	}

	b := Reduce(quotes, domain.SideHome)
	rep, ok := Representative(b, domain.SideHome)
	if !ok {
		t.Fatal("expected a representative quote")
	}
	if rep.Price != 130 {
		t.Errorf("representative price = %d, want +130 (highest payout)", rep.Price)
	}
}

func TestBuildBoardsSynthesizesHalfLineFromYesNo(t *testing.T) {
	quotes := []domain.RawQuote{
		quote("anytime_td-derrick_henry22NFL-full-yn-yes", "0.5", -150, 0),
		quote("anytime_td-derrick_henry22NFL-full-yn-no", "0.5", 120, 0),
	}

	boards := BuildBoards(quotes)
	if len(boards) != 1 {
		t.Fatalf("boards = %d, want 1", len(boards))
	}
	b := boards[0]
	if b.Market.Family != domain.FamilyTotal {
		t.Errorf("family = %q, want total after synthesis", b.Market.Family)
	}
	if len(b.AllLines) != 1 || b.AllLines[0].Line != "0.5" {
		t.Fatalf("expected a single 0.5 line, got %+v", b.AllLines)
	}
	over, ok := b.AllLines[0].Sides[domain.SideOver]
	if !ok || over.Price != -150 {
		t.Errorf("over 0.5 = %+v, want synthesized price -150", over)
	}
	under, ok := b.AllLines[0].Sides[domain.SideUnder]
	if !ok || under.Price != 120 {
		t.Errorf("under 0.5 = %+v, want synthesized price 120", under)
	}
}

func TestBuildBoardsSkipsSynthesisWhenNativeHalfLineExists(t *testing.T) {
	quotes := []domain.RawQuote{
		quote("anytime_td-derrick_henry22NFL-full-ou-over", "0.5", -145, 0),
		quote("anytime_td-derrick_henry22NFL-full-ou-under", "0.5", 115, 0),
		quote("anytime_td-derrick_henry22NFL-full-yn-yes", "0.5", -150, 0),
	}

	boards := BuildBoards(quotes)
	if len(boards) != 2 {
		t.Fatalf("boards = %d, want 2 (native total kept separate from yes/no)", len(boards))
	}

	total := boards[0]
	over := total.AllLines[0].Sides[domain.SideOver]
	if over.Price != -145 {
		t.Errorf("native over price = %d, want -145 (no duplicate sides)", over.Price)
	}
}

func TestBuildBoardsFoldsYesNoIntoExistingTotal(t *testing.T) {
	// The total market has lines but none at 0.5, so the yes/no rows are
	// rewritten into it.
	quotes := []domain.RawQuote{
		quote("rushing_yards-derrick_henry22NFL-full-ou-over", "85.5", -110, 0),
		quote("rushing_yards-derrick_henry22NFL-full-yn-yes", "", -300, 0),
	}

	boards := BuildBoards(quotes)
	if len(boards) != 1 {
		t.Fatalf("boards = %d, want 1", len(boards))
	}
	if boards[0].Market.Family != domain.FamilyTotal {
		t.Errorf("family = %q, want total on the merged board", boards[0].Market.Family)
	}
	lines := boards[0].AllLines
	if len(lines) != 2 {
		t.Fatalf("lines = %d, want 2 (0.5 joined 85.5)", len(lines))
	}
	if lines[0].Line != "0.5" {
		t.Errorf("first line = %q, want 0.5", lines[0].Line)
	}
	if q, ok := lines[0].Sides[domain.SideOver]; !ok || q.Price != -300 {
		t.Errorf("synthesized over 0.5 = %+v, want price -300", q)
	}
}

func TestReducerInvariants(t *testing.T) {
	// Mixed batch with duplicates across lines and sides.
	quotes := []domain.RawQuote{
		quote("points-all-full-ou-over", "210.5", -110, 0),
		quote("points-all-full-ou-under", "210.5", -110, 0),
		quote("points-all-full-ou-over", "210.5", -125, 3),
		quote("points-all-full-ou-over", "205.5", -150, 0),
		quote("points-all-full-ou-under", "205.5", 130, 0),
		quote("points-all-full-ou-under", "205.5", 125, 7),
	}

	b := Reduce(quotes, domain.SideOver)

	seenLines := make(map[string]bool)
	for _, lg := range b.AllLines {
		if seenLines[lg.Line] {
			t.Errorf("duplicate line %q in AllLines", lg.Line)
		}
		seenLines[lg.Line] = true
		// Sides is keyed by SideKind, so one entry per side is structural;
		// check the kept quote is the newest for its key instead.
		for side, q := range lg.Sides {
			if q.CapturedAt != captureBase {
				t.Errorf("line %q side %q kept a superseded snapshot", lg.Line, side)
			}
		}
	}
}
