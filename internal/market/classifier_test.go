package market

import (
	"testing"

	"github.com/oddslip/oddslip/internal/domain"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name        string
		identifier  string
		wantStat    string
		wantSubject domain.SubjectKind
		wantLabel   string
		wantScope   domain.Scope
		wantFamily  domain.MarketFamily
		wantSide    domain.SideKind
		wantAlt     bool
	}{
		{
			name:        "player total over",
			identifier:  "points-stephen_curry30NBA-full-ou-over",
			wantStat:    "points",
			wantSubject: domain.SubjectPlayer,
			wantLabel:   "Stephen Curry",
			wantFamily:  domain.FamilyTotal,
			wantSide:    domain.SideOver,
		},
		{
			name:        "game moneyline home",
			identifier:  "winner-all-full-ml-home",
			wantStat:    "winner",
			wantSubject: domain.SubjectGame,
			wantLabel:   "Game",
			wantFamily:  domain.FamilyMoneyline,
			wantSide:    domain.SideHome,
		},
		{
			name:        "team alternate spread away third period",
			identifier:  "margin-away-p3-altsp-away",
			wantStat:    "margin",
			wantSubject: domain.SubjectTeam,
			wantLabel:   "Away",
			wantScope:   domain.Scope{Period: 3},
			wantFamily:  domain.FamilyAltSpread,
			wantSide:    domain.SideAway,
			wantAlt:     true,
		},
		{
			name:        "anytime yes-no market",
			identifier:  "anytime_td-derrick_henry22NFL-full-yn-yes",
			wantStat:    "anytime_td",
			wantSubject: domain.SubjectPlayer,
			wantLabel:   "Derrick Henry",
			wantFamily:  domain.FamilyYesNo,
			wantSide:    domain.SideYes,
		},
		{
			name:        "draw side",
			identifier:  "winner-all-full-ml-draw",
			wantStat:    "winner",
			wantSubject: domain.SubjectGame,
			wantLabel:   "Game",
			wantFamily:  domain.FamilyMoneyline,
			wantSide:    domain.SideDraw,
		},
		{
			name:        "unknown tokens degrade",
			identifier:  "mystery-blob-sometime-xx-sideways",
			wantStat:    "mystery",
			wantSubject: domain.SubjectGame,
			wantLabel:   "Unknown",
			wantFamily:  domain.FamilyUnknown,
			wantSide:    domain.SideUnknown,
		},
		{
			name:        "empty string",
			identifier:  "",
			wantSubject: domain.SubjectGame,
			wantLabel:   "Unknown",
			wantFamily:  domain.FamilyUnknown,
			wantSide:    domain.SideUnknown,
		},
		{
			name:        "truncated identifier",
			identifier:  "points-home",
			wantStat:    "points",
			wantSubject: domain.SubjectTeam,
			wantLabel:   "Home",
			wantFamily:  domain.FamilyUnknown,
			wantSide:    domain.SideUnknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.identifier)

			if got.StatType != tt.wantStat {
				t.Errorf("StatType = %q, want %q", got.StatType, tt.wantStat)
			}
			if got.Subject != tt.wantSubject {
				t.Errorf("Subject = %q, want %q", got.Subject, tt.wantSubject)
			}
			if got.SubjectLabel != tt.wantLabel {
				t.Errorf("SubjectLabel = %q, want %q", got.SubjectLabel, tt.wantLabel)
			}
			if got.Scope != tt.wantScope {
				t.Errorf("Scope = %+v, want %+v", got.Scope, tt.wantScope)
			}
			if got.Family != tt.wantFamily {
				t.Errorf("Family = %q, want %q", got.Family, tt.wantFamily)
			}
			if got.Side != tt.wantSide {
				t.Errorf("Side = %q, want %q", got.Side, tt.wantSide)
			}
			if got.Alternate != tt.wantAlt {
				t.Errorf("Alternate = %v, want %v", got.Alternate, tt.wantAlt)
			}
		})
	}
}

func TestClassifyNeverPanics(t *testing.T) {
	inputs := []string{
		"", "-", "----", "a-b-c-d-e-f-g-h", "points--full-ou-",
		"!!!-@@@-###-$$$-%%%", "points-stephen_curry30NBA-full-ou-over-extra",
	}
	for _, in := range inputs {
		got := Classify(in)
		if got.Label == "" {
			t.Errorf("Classify(%q) produced empty label", in)
		}
	}
}

func TestClassifyLabels(t *testing.T) {
	tests := []struct {
		identifier string
		want       string
	}{
		{"points-stephen_curry30NBA-full-ou-over", "Stephen Curry Points"},
		{"total_points-all-full-ou-under", "Total Points"},
		{"points-all-p1-ou-over", "Points (1st)"},
		{"-all-full-ml-home", "Prop"},
	}
	for _, tt := range tests {
		if got := Classify(tt.identifier).Label; got != tt.want {
			t.Errorf("Classify(%q).Label = %q, want %q", tt.identifier, got, tt.want)
		}
	}
}

func TestRewritten(t *testing.T) {
	got := Rewritten("anytime_td-derrick_henry22NFL-full-yn-yes", domain.SideOver)
	want := "anytime_td-derrick_henry22NFL-full-yn-over"
	if got != want {
		t.Errorf("Rewritten = %q, want %q", got, want)
	}

	if side := Classify(got).Side; side != domain.SideOver {
		t.Errorf("Classify(rewritten).Side = %q, want over", side)
	}
}
