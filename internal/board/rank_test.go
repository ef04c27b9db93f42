package board

import (
	"testing"

	"github.com/oddslip/oddslip/internal/domain"
)

func TestBetterPrice(t *testing.T) {
	tests := []struct {
		a, b int
		want bool
	}{
		{150, 120, true},   // higher positive wins
		{120, 150, false},
		{-105, -120, true}, // closer to zero wins
		{-120, -105, false},
		{110, -105, true},  // positive outranks negative
		{-105, 110, false},
	}
	for _, tt := range tests {
		if got := BetterPrice(tt.a, tt.b); got != tt.want {
			t.Errorf("BetterPrice(%d, %d) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestRankBooks(t *testing.T) {
	ranked := RankBooks(map[string]int{
		"draftkings": -110,
		"fanduel":    105,
		"caesars":    -105,
		"betmgm":     110,
	})

	want := []domain.BookPrice{
		{Book: "betmgm", Price: 110},
		{Book: "fanduel", Price: 105},
		{Book: "caesars", Price: -105},
		{Book: "draftkings", Price: -110},
	}
	if len(ranked) != len(want) {
		t.Fatalf("ranked %d books, want %d", len(ranked), len(want))
	}
	for i := range want {
		if ranked[i] != want[i] {
			t.Errorf("ranked[%d] = %+v, want %+v", i, ranked[i], want[i])
		}
	}
}

func TestRankBooksDeterministicOnTies(t *testing.T) {
	a := RankBooks(map[string]int{"x": -110, "y": -110, "z": -110})
	b := RankBooks(map[string]int{"z": -110, "y": -110, "x": -110})
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("tie ordering not deterministic: %+v vs %+v", a, b)
		}
	}
}
