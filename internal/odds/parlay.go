package odds

import "github.com/shopspring/decimal"

// CombineLegs multiplies the decimal odds of every leg and converts the
// product back to a single American price. The bool is false for fewer than
// two legs: a combined price is only meaningful for a parlay.
//
// Intermediate math stays in full floating precision; rounding happens once,
// at the final conversion, so error does not compound across legs.
func CombineLegs(prices []int) (int, bool) {
	if len(prices) < 2 {
		return 0, false
	}

	product := 1.0
	for _, p := range prices {
		product *= ToDecimal(p)
	}
	return FromDecimal(product), true
}

// Payout computes the total return and profit for a wager across the given
// legs. A single leg pays wager times its decimal odds; multiple legs pay
// wager times the product of all decimal odds. Zero legs or a zero wager pay
// nothing. Money values are rounded to cents.
func Payout(wager decimal.Decimal, prices []int) (payout, profit decimal.Decimal) {
	if len(prices) == 0 || wager.Sign() <= 0 {
		return decimal.Zero, decimal.Zero
	}

	product := 1.0
	for _, p := range prices {
		product *= ToDecimal(p)
	}

	payout = wager.Mul(decimal.NewFromFloat(product)).Round(2)
	profit = payout.Sub(wager).Round(2)
	return payout, profit
}
