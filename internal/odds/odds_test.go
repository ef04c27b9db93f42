package odds

import (
	"math"
	"testing"

	"github.com/shopspring/decimal"
)

func TestToDecimal(t *testing.T) {
	tests := []struct {
		price int
		want  float64
	}{
		{150, 2.5},
		{-150, 1.0 + 100.0/150.0},
		{100, 2.0},
		{-100, 2.0},
		{0, 2.0}, // zero normalizes to +100
	}
	for _, tt := range tests {
		if got := ToDecimal(tt.price); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("ToDecimal(%d) = %v, want %v", tt.price, got, tt.want)
		}
	}
}

func TestFromDecimal(t *testing.T) {
	tests := []struct {
		v    float64
		want int
	}{
		{2.5, 150},
		{2.0, 100},
		{1.9090909, -110},
		{math.NaN(), 100},
		{math.Inf(1), 100},
		{1.0, 100}, // degenerate, normalizes
		{0.5, 100},
	}
	for _, tt := range tests {
		if got := FromDecimal(tt.v); got != tt.want {
			t.Errorf("FromDecimal(%v) = %d, want %d", tt.v, got, tt.want)
		}
	}
}

func TestRoundTripWithinOne(t *testing.T) {
	prices := []int{-10000, -550, -200, -110, -101, 100, 101, 110, 150, 264, 900, 10000}
	for _, p := range prices {
		got := FromDecimal(ToDecimal(p))
		if diff := got - p; diff < -1 || diff > 1 {
			t.Errorf("round trip %d -> %d, want within ±1", p, got)
		}
	}
}

func TestCombineLegs(t *testing.T) {
	if _, ok := CombineLegs([]int{-110}); ok {
		t.Error("single leg must have no combined price")
	}
	if _, ok := CombineLegs(nil); ok {
		t.Error("zero legs must have no combined price")
	}

	got, ok := CombineLegs([]int{-110, -110})
	if !ok {
		t.Fatal("expected a combined price for two legs")
	}
	if got < 262 || got > 266 {
		t.Errorf("combined -110/-110 = %d, want ~264", got)
	}

	// A three-leg parlay of even-money legs pays 8x, i.e. +700.
	got, ok = CombineLegs([]int{100, 100, 100})
	if !ok || got != 700 {
		t.Errorf("combined +100 x3 = %d, want 700", got)
	}
}

func TestPayout(t *testing.T) {
	payout, profit := Payout(decimal.NewFromInt(10), []int{-110})
	if payout.InexactFloat64() != 19.09 {
		t.Errorf("payout = %s, want 19.09", payout)
	}
	if profit.InexactFloat64() != 9.09 {
		t.Errorf("profit = %s, want 9.09", profit)
	}
}

func TestPayoutMultiLeg(t *testing.T) {
	payout, profit := Payout(decimal.NewFromInt(10), []int{-110, -110})
	// 10 * (210/110)^2 = 36.4463...
	if payout.InexactFloat64() != 36.45 {
		t.Errorf("payout = %s, want 36.45", payout)
	}
	if !profit.Equal(payout.Sub(decimal.NewFromInt(10))) {
		t.Errorf("profit = %s, want payout - wager", profit)
	}
}

func TestPayoutDegenerateInputs(t *testing.T) {
	if payout, profit := Payout(decimal.Zero, []int{-110}); !payout.IsZero() || !profit.IsZero() {
		t.Errorf("zero wager: payout=%s profit=%s, want zeros", payout, profit)
	}
	if payout, profit := Payout(decimal.NewFromInt(10), nil); !payout.IsZero() || !profit.IsZero() {
		t.Errorf("zero legs: payout=%s profit=%s, want zeros", payout, profit)
	}
}
