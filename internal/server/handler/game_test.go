package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/oddslip/oddslip/internal/domain"
)

type fakeBoardService struct {
	games  map[string]domain.Game
	boards map[string][]domain.Board
	err    error
}

func (f *fakeBoardService) GetGame(ctx context.Context, id string) (domain.Game, error) {
	if f.err != nil {
		return domain.Game{}, f.err
	}
	g, ok := f.games[id]
	if !ok {
		return domain.Game{}, fmt.Errorf("fake: %w", domain.ErrNotFound)
	}
	return g, nil
}

func (f *fakeBoardService) ListGames(ctx context.Context, sport string, opts domain.ListOpts) ([]domain.Game, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []domain.Game
	for _, g := range f.games {
		if sport == "" || g.Sport == sport {
			out = append(out, g)
		}
	}
	return out, nil
}

func (f *fakeBoardService) GetEventBoards(ctx context.Context, eventID string) ([]domain.Board, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.boards[eventID], nil
}

func newTestGameHandler(svc *fakeBoardService) *GameHandler {
	logger := slog.New(slog.NewTextHandler(bytes.NewBuffer(nil), nil))
	return NewGameHandler(svc, logger)
}

func testGame(id, sport string) domain.Game {
	return domain.Game{
		ID:        id,
		Sport:     sport,
		HomeTeam:  "BOS",
		AwayTeam:  "NYK",
		StartTime: time.Now().Add(3 * time.Hour).UTC(),
		Status:    domain.GameStatusScheduled,
	}
}

func TestListGamesFiltersBySport(t *testing.T) {
	h := newTestGameHandler(&fakeBoardService{
		games: map[string]domain.Game{
			"evt1": testGame("evt1", "basketball_nba"),
			"evt2": testGame("evt2", "americanfootball_nfl"),
		},
	})

	rec := httptest.NewRecorder()
	h.ListGames(rec, httptest.NewRequest(http.MethodGet, "/api/games?sport=basketball_nba", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var resp listGamesResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Games) != 1 {
		t.Fatalf("games = %d, want 1", len(resp.Games))
	}
	if resp.Games[0].ID != "evt1" {
		t.Errorf("game id = %s, want evt1", resp.Games[0].ID)
	}
}

func TestGetGameUnknownIDReturns404(t *testing.T) {
	h := newTestGameHandler(&fakeBoardService{games: map[string]domain.Game{}})

	req := httptest.NewRequest(http.MethodGet, "/api/games/nope", nil)
	req.SetPathValue("id", "nope")
	rec := httptest.NewRecorder()
	h.GetGame(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestGetBoardReturnsGameAndBoards(t *testing.T) {
	h := newTestGameHandler(&fakeBoardService{
		games: map[string]domain.Game{"evt1": testGame("evt1", "basketball_nba")},
		boards: map[string][]domain.Board{
			"evt1": {{Market: domain.MarketDescriptor{StatType: "pts", Subject: domain.SubjectGame, Family: domain.FamilyTotal}}},
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/api/games/evt1/board", nil)
	req.SetPathValue("id", "evt1")
	rec := httptest.NewRecorder()
	h.GetBoard(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var resp boardResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Game.ID != "evt1" {
		t.Errorf("game id = %s, want evt1", resp.Game.ID)
	}
	if len(resp.Boards) != 1 {
		t.Errorf("boards = %d, want 1", len(resp.Boards))
	}
}

func TestGetBoardNoQuotesYieldsEmptyList(t *testing.T) {
	h := newTestGameHandler(&fakeBoardService{
		games: map[string]domain.Game{"evt1": testGame("evt1", "basketball_nba")},
	})

	req := httptest.NewRequest(http.MethodGet, "/api/games/evt1/board", nil)
	req.SetPathValue("id", "evt1")
	rec := httptest.NewRecorder()
	h.GetBoard(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var resp boardResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Boards == nil || len(resp.Boards) != 0 {
		t.Errorf("boards = %#v, want empty non-nil slice", resp.Boards)
	}
}
