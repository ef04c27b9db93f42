// Package market classifies raw market identifier strings into structured
// descriptors. Classification happens once at the data boundary; everything
// downstream operates on domain.MarketDescriptor and never re-parses the raw
// string.
//
// Identifier wire format (fixed "-" delimiter, five ordered segments):
//
//	{stat}-{subject}-{scope}-{family}-{side}
//
// Examples:
//
//	points-stephen_curry30NBA-full-ou-over
//	winner-all-full-ml-home
//	margin-all-p3-altsp-away
//	anytime_td-derrick_henry22NFL-full-yn-yes
package market

import (
	"strconv"
	"strings"

	"github.com/oddslip/oddslip/internal/domain"
)

const segmentDelim = "-"

// Classify parses a raw market identifier into a MarketDescriptor. It is a
// total function: every input string, however malformed, yields a usable
// descriptor. Unknown or missing segments degrade to SideUnknown,
// SubjectGame, and best-effort labels, because upstream feed data cannot be
// assumed well-formed.
func Classify(identifier string) domain.MarketDescriptor {
	parts := strings.Split(identifier, segmentDelim)

	// Pad short identifiers so every segment read below is in range.
	for len(parts) < 5 {
		parts = append(parts, "")
	}
	// Over-long identifiers keep the trailing four segments and fold the
	// rest back into the stat token.
	if len(parts) > 5 {
		head := strings.Join(parts[:len(parts)-4], segmentDelim)
		parts = append([]string{head}, parts[len(parts)-4:]...)
	}

	stat := parts[0]
	subjectKind, subjectID, subjectLabel := decodeSubject(parts[1])
	scope := parseScope(parts[2])
	family := parseFamily(parts[3])
	side := parseSide(parts[4])

	d := domain.MarketDescriptor{
		StatType:     stat,
		Subject:      subjectKind,
		SubjectID:    subjectID,
		SubjectLabel: subjectLabel,
		Scope:        scope,
		Family:       family,
		Side:         side,
		Alternate:    family == domain.FamilyAltSpread || family == domain.FamilyAltTotal,
	}
	d.Label = marketLabel(d)
	return d
}

// Rewritten returns a copy of identifier with its side segment replaced.
// The reducer uses this to synthesize over/under rows from yes/no markets.
func Rewritten(identifier string, side domain.SideKind) string {
	parts := strings.Split(identifier, segmentDelim)
	if len(parts) < 5 {
		return identifier + segmentDelim + string(side)
	}
	parts[len(parts)-1] = string(side)
	return strings.Join(parts, segmentDelim)
}

func parseScope(token string) domain.Scope {
	if token == "" || token == "full" {
		return domain.Scope{}
	}
	if strings.HasPrefix(token, "p") {
		if n, err := strconv.Atoi(token[1:]); err == nil && n > 0 {
			return domain.Scope{Period: n}
		}
	}
	return domain.Scope{}
}

func parseFamily(token string) domain.MarketFamily {
	switch token {
	case "ml":
		return domain.FamilyMoneyline
	case "sp":
		return domain.FamilySpread
	case "ou":
		return domain.FamilyTotal
	case "yn":
		return domain.FamilyYesNo
	case "altsp":
		return domain.FamilyAltSpread
	case "altou":
		return domain.FamilyAltTotal
	default:
		return domain.FamilyUnknown
	}
}

func parseSide(token string) domain.SideKind {
	switch token {
	case "over":
		return domain.SideOver
	case "under":
		return domain.SideUnder
	case "home":
		return domain.SideHome
	case "away":
		return domain.SideAway
	case "draw":
		return domain.SideDraw
	case "yes":
		return domain.SideYes
	case "no":
		return domain.SideNo
	default:
		return domain.SideUnknown
	}
}

// marketLabel builds the display name for a market. Player props lead with
// the player name; team and game markets lead with the stat.
func marketLabel(d domain.MarketDescriptor) string {
	stat := humanizeStat(d.StatType)

	var label string
	switch d.Subject {
	case domain.SubjectPlayer:
		label = d.SubjectLabel + " " + stat
	case domain.SubjectTeam:
		label = d.SubjectLabel + " " + stat
	default:
		label = stat
	}

	if !d.Scope.FullGame() {
		label += " (" + ordinalPeriod(d.Scope.Period) + ")"
	}
	return label
}

func ordinalPeriod(n int) string {
	switch n {
	case 1:
		return "1st"
	case 2:
		return "2nd"
	case 3:
		return "3rd"
	default:
		return strconv.Itoa(n) + "th"
	}
}
