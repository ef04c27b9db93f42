package domain

import "fmt"

// SubjectKind says what a market is about: an individual player, one of the
// two teams, or the game as a whole.
type SubjectKind string

const (
	SubjectPlayer SubjectKind = "player"
	SubjectTeam   SubjectKind = "team"
	SubjectGame   SubjectKind = "game"
)

// SideKind identifies one side of a market.
type SideKind string

const (
	SideOver    SideKind = "over"
	SideUnder   SideKind = "under"
	SideHome    SideKind = "home"
	SideAway    SideKind = "away"
	SideDraw    SideKind = "draw"
	SideYes     SideKind = "yes"
	SideNo      SideKind = "no"
	SideUnknown SideKind = "unknown"
)

// Opposite returns the other half of a binary side pair, or SideUnknown when
// the side has no natural counterpart (draw, unknown).
func (s SideKind) Opposite() SideKind {
	switch s {
	case SideOver:
		return SideUnder
	case SideUnder:
		return SideOver
	case SideHome:
		return SideAway
	case SideAway:
		return SideHome
	case SideYes:
		return SideNo
	case SideNo:
		return SideYes
	default:
		return SideUnknown
	}
}

// MarketFamily distinguishes the pricing shape of a market.
type MarketFamily string

const (
	FamilyMoneyline MarketFamily = "ml"
	FamilySpread    MarketFamily = "sp"
	FamilyTotal     MarketFamily = "ou"
	FamilyYesNo     MarketFamily = "yn"
	FamilyAltSpread MarketFamily = "altsp"
	FamilyAltTotal  MarketFamily = "altou"
	FamilyUnknown   MarketFamily = "unknown"
)

// Base folds the alternate-line variants into their standard family.
func (f MarketFamily) Base() MarketFamily {
	switch f {
	case FamilyAltSpread:
		return FamilySpread
	case FamilyAltTotal:
		return FamilyTotal
	default:
		return f
	}
}

// Scope identifies the portion of the game a market covers. Period 0 means
// the full game.
type Scope struct {
	Period int
}

// FullGame reports whether the scope covers the entire game.
func (s Scope) FullGame() bool { return s.Period == 0 }

func (s Scope) String() string {
	if s.FullGame() {
		return "full"
	}
	return fmt.Sprintf("p%d", s.Period)
}

// MarketDescriptor is the structured form of a raw market identifier. It is
// produced once by the classifier at the data boundary; downstream code never
// re-parses identifier strings.
type MarketDescriptor struct {
	StatType     string
	Subject      SubjectKind
	SubjectID    string // raw subject token for player markets, "" otherwise
	SubjectLabel string // display label, e.g. "Stephen Curry" or "Home"
	Scope        Scope
	Family       MarketFamily
	Side         SideKind
	Alternate    bool
	Label        string // display label for the market, e.g. "Stephen Curry Points"
}

// GroupKey identifies the market a descriptor belongs to, ignoring side and
// line. Quotes sharing a GroupKey are alternate sides/lines of one market.
func (d MarketDescriptor) GroupKey() string {
	return d.StatType + "|" + d.SubjectID + "|" + string(d.Subject) + "|" + d.Scope.String() + "|" + string(d.Family.Base())
}

// SelectionKey identifies one concrete selection within a market. Two legs
// with the same game and SelectionKey are the same pick.
func (d MarketDescriptor) SelectionKey() string {
	return d.GroupKey() + "|" + string(d.Side)
}
