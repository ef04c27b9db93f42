// Package odds converts between American prices and the decimal
// (probability-scale) notation, and combines parlay legs. All functions are
// pure and total over their domain: a price of exactly zero and non-finite
// intermediate values normalize to +100 by convention rather than erroring.
package odds

import "math"

// even is the normalization target for degenerate prices.
const even = 100

// Normalize maps the undefined price 0 to +100. All other prices pass
// through unchanged.
func Normalize(price int) int {
	if price == 0 {
		return even
	}
	return price
}

// ToDecimal converts an American price to decimal odds.
// +150 -> 2.50, -150 -> 1.667. A zero price normalizes to +100 first.
func ToDecimal(price int) float64 {
	price = Normalize(price)
	if price > 0 {
		return float64(price)/100 + 1
	}
	return 100/math.Abs(float64(price)) + 1
}

// FromDecimal converts decimal odds back to an American price, rounding to
// the nearest integer. Non-finite or out-of-range input normalizes to +100.
func FromDecimal(v float64) int {
	if math.IsNaN(v) || math.IsInf(v, 0) || v <= 1 {
		return even
	}
	if v >= 2 {
		return int(math.Round((v - 1) * 100))
	}
	return int(math.Round(-100 / (v - 1)))
}
