package odds

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// validPrice draws an American price from the realistic two-sided range,
// excluding the (-100, 100) band that the notation does not use.
func validPrice() gopter.Gen {
	return gen.OneGenOf(
		gen.IntRange(100, 10000),
		gen.IntRange(-10000, -100),
	)
}

func TestRoundTripProperty(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("FromDecimal(ToDecimal(p)) recovers p within ±1", prop.ForAll(
		func(p int) bool {
			got := FromDecimal(ToDecimal(p))
			diff := got - p
			// -100 and +100 denote the same decimal odds, so either
			// representation is a faithful round trip.
			if p == -100 && got == 100 {
				return true
			}
			return diff >= -1 && diff <= 1
		},
		validPrice(),
	))

	properties.TestingRun(t)
}

func TestCombineLegsProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 150
	properties := gopter.NewProperties(parameters)

	properties.Property("combined decimal odds never shorter than any leg", prop.ForAll(
		func(p1, p2 int) bool {
			combined, ok := CombineLegs([]int{p1, p2})
			if !ok {
				return false
			}
			cd := ToDecimal(combined)
			// Parlay odds are a product of values > 1, so the combined
			// decimal price must exceed each individual leg (within the
			// final rounding step's tolerance).
			const tol = 0.01
			return cd >= ToDecimal(p1)-tol && cd >= ToDecimal(p2)-tol
		},
		validPrice(), validPrice(),
	))

	properties.Property("leg order does not change the combined price", prop.ForAll(
		func(p1, p2, p3 int) bool {
			a, _ := CombineLegs([]int{p1, p2, p3})
			b, _ := CombineLegs([]int{p3, p1, p2})
			diff := a - b
			return diff >= -1 && diff <= 1
		},
		validPrice(), validPrice(), validPrice(),
	))

	properties.TestingRun(t)
}
