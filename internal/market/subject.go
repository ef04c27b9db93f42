package market

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/oddslip/oddslip/internal/domain"
)

// playerTokenPattern matches opaque player subject tokens: lowercase words
// joined by underscores, a jersey-style numeral, and an uppercase league code.
// Examples: stephen_curry30NBA, derrick_henry22NFL.
var playerTokenPattern = regexp.MustCompile(`^([a-z][a-z_]*)(\d+)([A-Z]{2,5})$`)

var titleCaser = cases.Title(language.English)

// decodeSubject interprets the subject segment of a market identifier.
// The literals home/away/all denote team and game scope; anything matching
// the player token shape is decoded into a display name. Unrecognized tokens
// degrade to a game-scoped "Unknown" subject rather than failing.
func decodeSubject(token string) (kind domain.SubjectKind, id, label string) {
	switch token {
	case "home":
		return domain.SubjectTeam, token, "Home"
	case "away":
		return domain.SubjectTeam, token, "Away"
	case "all":
		return domain.SubjectGame, token, "Game"
	}

	if m := playerTokenPattern.FindStringSubmatch(token); m != nil {
		return domain.SubjectPlayer, token, playerLabel(m[1])
	}

	return domain.SubjectGame, token, "Unknown"
}

// playerLabel turns "stephen_curry" into "Stephen Curry".
func playerLabel(words string) string {
	parts := strings.Split(words, "_")
	for i, p := range parts {
		parts[i] = titleCaser.String(p)
	}
	return strings.Join(parts, " ")
}

// humanizeStat turns a snake_case stat token into a display label.
// An empty or unknown stat degrades to "Prop".
func humanizeStat(stat string) string {
	if stat == "" {
		return "Prop"
	}
	parts := strings.Split(stat, "_")
	for i, p := range parts {
		parts[i] = titleCaser.String(p)
	}
	return strings.Join(parts, " ")
}
