package ranking

import "strings"

type Tier string

const (
	TierDiamond  Tier = "Diamond"
	TierPlatinum Tier = "Platinum"
	TierGold     Tier = "Gold"
	TierSilver   Tier = "Silver"
	TierEmerging Tier = "Emerging"
)

// Tiers lists every tier from best to worst.
var Tiers = []Tier{TierDiamond, TierPlatinum, TierGold, TierSilver, TierEmerging}

// ParseTier matches s against the tier names, ignoring case.
func ParseTier(s string) (Tier, bool) {
	for _, t := range Tiers {
		if strings.EqualFold(string(t), s) {
			return t, true
		}
	}
	return "", false
}

type InstitutionType string

const (
	TypeSchool     InstitutionType = "School"
	TypeCollege    InstitutionType = "College"
	TypeUniversity InstitutionType = "University"
	TypeCoaching   InstitutionType = "Coaching Institute"
	TypeEdTech     InstitutionType = "EdTech Platform"
)

var InstitutionTypes = []InstitutionType{TypeSchool, TypeCollege, TypeUniversity, TypeCoaching, TypeEdTech}

type Board string

const (
	BoardNone  Board = ""
	BoardIB    Board = "IB"
	BoardIGCSE Board = "IGCSE"
	BoardICSE  Board = "ICSE"
	BoardCBSE  Board = "CBSE"
)

// Record is a raw catalog row. It is never modified after load.
type Record struct {
	Name      string          `json:"name" yaml:"name"`
	City      string          `json:"city" yaml:"city"`
	State     string          `json:"state,omitempty" yaml:"state,omitempty"`
	Country   string          `json:"country" yaml:"country"`
	Type      InstitutionType `json:"type" yaml:"type"`
	LocalRank int             `json:"local_rank" yaml:"rank"`
	// Position is the 1-based row number in catalog order.
	Position int   `json:"position" yaml:"-"`
	Board    Board `json:"board,omitempty" yaml:"-"`
	// ScoreOverride, when non-zero, replaces the derived score.
	ScoreOverride int `json:"-" yaml:"score,omitempty"`
}

// Institution is a Record together with every derived field.
type Institution struct {
	Record
	Score        int      `json:"score"`
	CityTier     Tier     `json:"city_tier"`
	Tier         Tier     `json:"tier"`
	NationalRank int      `json:"national_rank"`
	StateRank    int      `json:"state_rank,omitempty"`
	FocusAreas   []string `json:"focus_areas"`
}
