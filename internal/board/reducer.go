// Package board reduces raw quote snapshots into display-ready market boards:
// deduplicated line groups, the representative main line, and ranked
// sportsbook prices.
package board

import (
	"math"
	"sort"

	"github.com/oddslip/oddslip/internal/domain"
	"github.com/oddslip/oddslip/internal/market"
)

// synthLine is the line written onto over/under rows synthesized from yes/no
// anytime-occurrence markets.
const synthLine = "0.5"

// Reduce collapses one market's snapshot rows into a Board.
//
// Precondition: quotes must be ordered newest-first (captured_at descending).
// Dedup keeps the first row seen per (identifier, line) key and does not
// re-sort internally; domain.QuoteStore.ListByEvent returns rows in the
// required order.
//
// An empty input yields an empty Board with a nil MainLine. That is the
// normal "no quotes available" condition, not an error.
func Reduce(quotes []domain.RawQuote, referenceSide domain.SideKind) domain.Board {
	if len(quotes) == 0 {
		return domain.Board{}
	}

	desc := market.Classify(quotes[0].MarketID)
	desc.Side = domain.SideUnknown

	groups := groupLines(quotes)

	b := domain.Board{
		Market:   desc,
		AllLines: groups,
	}
	if len(groups) == 0 {
		return b
	}

	if desc.Family.Base() == domain.FamilyMoneyline {
		b.MainLine = &b.AllLines[0]
	} else {
		b.MainLine = &b.AllLines[selectMainLine(groups, referenceSide)]
	}

	if best, ok := Representative(b, referenceSide); ok {
		b.Best = &best
	}
	return b
}

// groupLines dedups newest-first and buckets rows by line, then by side.
// The result is sorted: the standard bucket first, then ascending line value.
func groupLines(quotes []domain.RawQuote) []domain.LineGroup {
	seen := make(map[string]bool, len(quotes))
	byLine := make(map[string]*domain.LineGroup)
	var order []string

	for _, q := range quotes {
		key := q.DedupKey()
		if seen[key] {
			continue // superseded snapshot
		}
		seen[key] = true

		bucket := q.LineBucket()
		lg, ok := byLine[bucket]
		if !ok {
			val, _ := q.LineValue()
			lg = &domain.LineGroup{
				Line:      bucket,
				LineValue: val,
				Sides:     make(map[domain.SideKind]domain.RawQuote),
			}
			byLine[bucket] = lg
			order = append(order, bucket)
		}

		side := market.Classify(q.MarketID).Side
		if _, taken := lg.Sides[side]; taken {
			continue // at most one quote per (line, side)
		}
		lg.Sides[side] = q
		if len(q.BookPrices) > 0 {
			if lg.Books == nil {
				lg.Books = make(map[domain.SideKind][]domain.BookPrice)
			}
			lg.Books[side] = RankBooks(q.BookPrices)
		}
	}

	sort.SliceStable(order, func(i, j int) bool {
		if order[i] == domain.LineStandard {
			return order[j] != domain.LineStandard
		}
		if order[j] == domain.LineStandard {
			return false
		}
		return byLine[order[i]].LineValue < byLine[order[j]].LineValue
	})

	out := make([]domain.LineGroup, 0, len(order))
	for _, bucket := range order {
		out = append(out, *byLine[bucket])
	}
	return out
}

// selectMainLine returns the index of the group whose price sits closest to
// even odds (|price| nearest 100). The reference side's price is used when
// present; otherwise the minimum over the group's available sides. Ties
// resolve to the first group, which after sorting is the numerically
// smallest line.
func selectMainLine(groups []domain.LineGroup, referenceSide domain.SideKind) int {
	best := 0
	bestDist := math.Inf(1)

	for i, lg := range groups {
		dist := evenDistance(lg, referenceSide)
		if dist < bestDist {
			best, bestDist = i, dist
		}
	}
	return best
}

func evenDistance(lg domain.LineGroup, referenceSide domain.SideKind) float64 {
	if q, ok := lg.Sides[referenceSide]; ok {
		return math.Abs(math.Abs(float64(q.Price)) - 100)
	}

	min := math.Inf(1)
	for _, q := range lg.Sides {
		if d := math.Abs(math.Abs(float64(q.Price)) - 100); d < min {
			min = d
		}
	}
	return min
}

// BuildBoards groups an event's snapshot rows into markets and reduces each,
// synthesizing over/under 0.5 rows from yes/no markets where no native
// 0.5-line rows exist. Board order follows first appearance in the input.
//
// The same newest-first precondition as Reduce applies.
func BuildBoards(quotes []domain.RawQuote) []domain.Board {
	type group struct {
		desc   domain.MarketDescriptor
		quotes []domain.RawQuote
	}

	byKey := make(map[string]*group)
	var order []string

	for _, q := range quotes {
		d := market.Classify(q.MarketID)
		key := d.GroupKey()
		g, ok := byKey[key]
		if !ok {
			g = &group{desc: d}
			byKey[key] = g
			order = append(order, key)
		}
		g.quotes = append(g.quotes, q)
	}

	// First fold yes/no markets into their over/under counterpart unless a
	// native 0.5 line already exists for the same subject. Folding must
	// finish before any group is reduced, so a total market picks up
	// synthesized rows regardless of input order.
	folded := make(map[string]bool)
	for i, key := range order {
		g := byKey[key]
		if g.desc.Family != domain.FamilyYesNo {
			continue
		}

		ouKey := totalKey(g.desc)
		ou, hasOU := byKey[ouKey]
		if hasOU && hasHalfLine(ou.quotes) {
			// Native 0.5 rows exist; keep the yes/no market as-is to avoid
			// duplicate sides.
			continue
		}

		synth := synthesize(g.quotes)
		if hasOU {
			ou.quotes = append(ou.quotes, synth...)
			folded[key] = true
			continue
		}

		// No total market for this subject yet: the synthesized rows become
		// one, keeping the yes/no market's position in the output.
		desc := g.desc
		desc.Family = domain.FamilyTotal
		byKey[ouKey] = &group{desc: desc, quotes: synth}
		order[i] = ouKey
	}

	boards := make([]domain.Board, 0, len(order))
	for _, key := range order {
		if folded[key] {
			continue
		}
		g := byKey[key]
		boards = append(boards, reduceGroup(g.desc, g.quotes))
	}
	return boards
}

func reduceGroup(desc domain.MarketDescriptor, quotes []domain.RawQuote) domain.Board {
	ref := domain.SideOver
	switch desc.Family.Base() {
	case domain.FamilySpread, domain.FamilyMoneyline:
		ref = domain.SideHome
	}
	b := Reduce(quotes, ref)
	// Synthesized rows still carry the yes/no family in their identifiers, so
	// the grouping descriptor is authoritative, not the one Reduce recomputed
	// from the first row.
	desc.Side = domain.SideUnknown
	b.Market = desc
	return b
}

// totalKey is the group key of the over/under market sharing a yes/no
// market's stat, subject, and scope.
func totalKey(d domain.MarketDescriptor) string {
	d.Family = domain.FamilyTotal
	return d.GroupKey()
}

func hasHalfLine(quotes []domain.RawQuote) bool {
	for _, q := range quotes {
		if q.LineBucket() == synthLine {
			return true
		}
	}
	return false
}

// synthesize rewrites yes/no rows into over/under rows at the 0.5 line:
// yes becomes over, no becomes under, other sides are dropped.
func synthesize(quotes []domain.RawQuote) []domain.RawQuote {
	out := make([]domain.RawQuote, 0, len(quotes))
	for _, q := range quotes {
		side := market.Classify(q.MarketID).Side
		var target domain.SideKind
		switch side {
		case domain.SideYes:
			target = domain.SideOver
		case domain.SideNo:
			target = domain.SideUnder
		default:
			continue
		}

		q.MarketID = market.Rewritten(q.MarketID, target)
		q.Line = synthLine
		out = append(out, q)
	}
	return out
}
