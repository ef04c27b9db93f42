package board

import (
	"sort"

	"github.com/oddslip/oddslip/internal/domain"
)

// BetterPrice reports whether American price a pays out better than b:
// between two positive prices the higher wins, between two negative prices
// the one closer to zero wins, and a positive price always outranks a
// negative one.
func BetterPrice(a, b int) bool {
	switch {
	case a >= 0 && b >= 0:
		return a > b
	case a < 0 && b < 0:
		return a > b // closer to zero
	default:
		return a >= 0
	}
}

// RankBooks orders per-book prices from best payout to worst using
// BetterPrice. The sort is stable; equal prices fall back to book name so
// the output is deterministic. The first entry is the "best odds" highlight.
func RankBooks(prices map[string]int) []domain.BookPrice {
	ranked := make([]domain.BookPrice, 0, len(prices))
	for book, price := range prices {
		ranked = append(ranked, domain.BookPrice{Book: book, Price: price})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Price != ranked[j].Price {
			return BetterPrice(ranked[i].Price, ranked[j].Price)
		}
		return ranked[i].Book < ranked[j].Book
	})
	return ranked
}

// Representative picks the quote to display for a board. Moneyline markets
// use best-odds selection (raw price descending, highest payout first);
// spread and total markets use the reference side of the main line.
func Representative(b domain.Board, referenceSide domain.SideKind) (domain.RawQuote, bool) {
	if b.MainLine == nil {
		return domain.RawQuote{}, false
	}

	if b.Market.Family.Base() == domain.FamilyMoneyline {
		candidates := make([]domain.RawQuote, 0, len(b.MainLine.Sides))
		for _, q := range b.MainLine.Sides {
			candidates = append(candidates, q)
		}
		if len(candidates) == 0 {
			return domain.RawQuote{}, false
		}
		sort.SliceStable(candidates, func(i, j int) bool {
			if candidates[i].Price != candidates[j].Price {
				return candidates[i].Price > candidates[j].Price
			}
			return candidates[i].MarketID < candidates[j].MarketID
		})
		return candidates[0], true
	}

	q, ok := b.MainLine.Sides[referenceSide]
	return q, ok
}
