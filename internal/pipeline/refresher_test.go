package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"testing"
	"time"

	"github.com/oddslip/oddslip/internal/domain"
)

type fakeSource struct {
	events map[string][]domain.Game
	quotes map[string][]domain.RawQuote
	errFor map[string]error
}

func (f *fakeSource) ListEvents(ctx context.Context, sport string) ([]domain.Game, error) {
	return f.events[sport], nil
}

func (f *fakeSource) GetEventQuotes(ctx context.Context, eventID string) ([]domain.RawQuote, error) {
	if err := f.errFor[eventID]; err != nil {
		return nil, err
	}
	return f.quotes[eventID], nil
}

type fakeGameStore struct {
	upserted []domain.Game
}

func (f *fakeGameStore) Upsert(ctx context.Context, g domain.Game) error { return nil }

func (f *fakeGameStore) UpsertBatch(ctx context.Context, games []domain.Game) error {
	f.upserted = append(f.upserted, games...)
	return nil
}

func (f *fakeGameStore) GetByID(ctx context.Context, id string) (domain.Game, error) {
	return domain.Game{}, domain.ErrNotFound
}

func (f *fakeGameStore) ListUpcoming(ctx context.Context, sport string, opts domain.ListOpts) ([]domain.Game, error) {
	return nil, nil
}

type fakeQuoteStore struct {
	inserted []domain.RawQuote
}

func (f *fakeQuoteStore) InsertBatch(ctx context.Context, quotes []domain.RawQuote) error {
	f.inserted = append(f.inserted, quotes...)
	return nil
}

func (f *fakeQuoteStore) ListByEvent(ctx context.Context, eventID string, since *time.Time) ([]domain.RawQuote, error) {
	return nil, nil
}

func (f *fakeQuoteStore) ListCapturedBetween(ctx context.Context, from, to time.Time) ([]domain.RawQuote, error) {
	return nil, nil
}

func (f *fakeQuoteStore) PurgeBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	return 0, nil
}

type fakeRebuilder struct {
	rebuilt []string
}

func (f *fakeRebuilder) RebuildEventBoards(ctx context.Context, eventID string) ([]domain.Board, error) {
	f.rebuilt = append(f.rebuilt, eventID)
	return []domain.Board{{}}, nil
}

type fakeBus struct {
	published map[string][][]byte
}

func (f *fakeBus) Publish(ctx context.Context, channel string, payload []byte) error {
	if f.published == nil {
		f.published = make(map[string][][]byte)
	}
	f.published[channel] = append(f.published[channel], payload)
	return nil
}

func (f *fakeBus) Subscribe(ctx context.Context, pattern string) (<-chan domain.BusMessage, error) {
	ch := make(chan domain.BusMessage)
	close(ch)
	return ch, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(bytes.NewBuffer(nil), nil))
}

func scheduledGame(id string) domain.Game {
	return domain.Game{
		ID:        id,
		Sport:     "basketball_nba",
		StartTime: time.Now().Add(2 * time.Hour),
		Status:    domain.GameStatusScheduled,
	}
}

func testQuote(eventID string) domain.RawQuote {
	return domain.RawQuote{
		EventID:    eventID,
		MarketID:   "pts-game-full-ou-over",
		Line:       "210.5",
		Price:      -110,
		CapturedAt: time.Now().UTC(),
	}
}

func TestRunStoresGamesQuotesAndPublishes(t *testing.T) {
	source := &fakeSource{
		events: map[string][]domain.Game{
			"basketball_nba": {scheduledGame("evt1")},
		},
		quotes: map[string][]domain.RawQuote{
			"evt1": {testQuote("evt1")},
		},
	}
	games := &fakeGameStore{}
	quotes := &fakeQuoteStore{}
	rebuilder := &fakeRebuilder{}
	bus := &fakeBus{}

	r := NewRefresher(source, games, quotes, rebuilder, bus, []string{"basketball_nba"}, testLogger())
	if err := r.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if len(games.upserted) != 1 {
		t.Errorf("games upserted = %d, want 1", len(games.upserted))
	}
	if len(quotes.inserted) != 1 {
		t.Errorf("quotes inserted = %d, want 1", len(quotes.inserted))
	}
	if len(rebuilder.rebuilt) != 1 || rebuilder.rebuilt[0] != "evt1" {
		t.Errorf("rebuilt = %v, want [evt1]", rebuilder.rebuilt)
	}
	if got := len(bus.published["boards:evt1"]); got != 1 {
		t.Errorf("published to boards:evt1 = %d, want 1", got)
	}
}

func TestRunSkipsFinishedGames(t *testing.T) {
	finished := scheduledGame("evt2")
	finished.Status = domain.GameStatusFinal

	source := &fakeSource{
		events: map[string][]domain.Game{
			"basketball_nba": {scheduledGame("evt1"), finished},
		},
		quotes: map[string][]domain.RawQuote{
			"evt1": {testQuote("evt1")},
			"evt2": {testQuote("evt2")},
		},
	}
	rebuilder := &fakeRebuilder{}

	r := NewRefresher(source, &fakeGameStore{}, &fakeQuoteStore{}, rebuilder, &fakeBus{}, []string{"basketball_nba"}, testLogger())
	if err := r.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if len(rebuilder.rebuilt) != 1 || rebuilder.rebuilt[0] != "evt1" {
		t.Errorf("rebuilt = %v, want [evt1] only", rebuilder.rebuilt)
	}
}

func TestRunContinuesAfterEventFailure(t *testing.T) {
	source := &fakeSource{
		events: map[string][]domain.Game{
			"basketball_nba": {scheduledGame("evt1"), scheduledGame("evt2")},
		},
		quotes: map[string][]domain.RawQuote{
			"evt2": {testQuote("evt2")},
		},
		errFor: map[string]error{
			"evt1": fmt.Errorf("feed timeout"),
		},
	}
	rebuilder := &fakeRebuilder{}

	r := NewRefresher(source, &fakeGameStore{}, &fakeQuoteStore{}, rebuilder, &fakeBus{}, []string{"basketball_nba"}, testLogger())
	if err := r.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if len(rebuilder.rebuilt) != 1 || rebuilder.rebuilt[0] != "evt2" {
		t.Errorf("rebuilt = %v, want [evt2]", rebuilder.rebuilt)
	}
}

func TestRunSkipsEventsWithNoQuotes(t *testing.T) {
	source := &fakeSource{
		events: map[string][]domain.Game{
			"basketball_nba": {scheduledGame("evt1")},
		},
	}
	quotes := &fakeQuoteStore{}
	bus := &fakeBus{}

	r := NewRefresher(source, &fakeGameStore{}, quotes, &fakeRebuilder{}, bus, []string{"basketball_nba"}, testLogger())
	if err := r.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if len(quotes.inserted) != 0 {
		t.Errorf("quotes inserted = %d, want 0", len(quotes.inserted))
	}
	if len(bus.published) != 0 {
		t.Errorf("published = %v, want none", bus.published)
	}
}
