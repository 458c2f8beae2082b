package ranking

import "strings"

const (
	MinScore = 0
	MaxScore = 500
)

// CityTier buckets a city-local rank. Ranks are reused across cities, so the
// result only seeds a plausible score; it is not a national classification.
func CityTier(localRank int) Tier {
	switch {
	case localRank <= 10:
		return TierDiamond
	case localRank <= 20:
		return TierPlatinum
	case localRank <= 30:
		return TierGold
	case localRank <= 40:
		return TierSilver
	default:
		return TierEmerging
	}
}

// Score maps a city-local rank and its tier onto the 0..500 scale. Each tier is
// an independent descending piecewise-linear segment.
func Score(localRank int, tier Tier) int {
	var s int
	r := localRank
	switch tier {
	case TierDiamond:
		switch {
		case r == 1:
			s = 490
		case r <= 3:
			s = 480 - (r-2)*5
		case r <= 5:
			s = 465 - (r-3)*3
		default:
			s = 455 - (r-5)*2
		}
	case TierPlatinum:
		switch {
		case r <= 12:
			s = 445 - (r-11)*3
		case r <= 15:
			s = 430 - (r-12)*2
		default:
			s = 420 - (r-15)*2
		}
	case TierGold:
		switch {
		case r <= 22:
			s = 400 - (r-21)*2
		case r <= 25:
			s = 390 - (r-22)*2
		default:
			s = 380 - (r-25)*2
		}
	case TierSilver:
		switch {
		case r <= 32:
			s = 360 - (r-31)*2
		case r <= 35:
			s = 350 - (r-32)*2
		default:
			s = 340 - (r-35)*2
		}
	default:
		switch {
		case r <= 42:
			s = 320 - (r-41)*2
		case r <= 45:
			s = 310 - (r-42)*2
		default:
			s = 300 - (r-45)*2
		}
	}
	return clampScore(s)
}

func clampScore(s int) int {
	if s < MinScore {
		return MinScore
	}
	if s > MaxScore {
		return MaxScore
	}
	return s
}

var (
	focusTopInternational = []string{"Holistic Development", "Global Citizenship", "International Curriculum", "Technology Integration", "Community Service"}
	focusTopHeritage      = []string{"Academic Excellence", "Experiential Learning", "Critical Thinking", "Cultural Activities", "Mental Health Support"}
	focusTopPublic        = []string{"Academic Rigor", "Sports Excellence", "Co-curricular Activities", "Leadership Development", "Character Building"}
	focusTopDefault       = []string{"Academic Excellence", "Holistic Development", "Co-curricular Activities", "Sports", "Community Engagement"}

	focusPremiumInternational = []string{"International Curriculum", "Global Perspective", "Technology Integration", "Sports Excellence", "Arts & Culture"}
	focusPremiumPublic        = []string{"Academic Excellence", "Sports", "Co-curricular Activities", "Leadership", "Values Education"}
	focusPremiumDefault       = []string{"Academic Rigor", "Holistic Development", "Sports", "Arts", "Community Service"}

	focusEstablishedInternational = []string{"Modern Curriculum", "Technology", "Sports", "Arts", "Global Awareness"}
	focusEstablishedDefault       = []string{"Academic Excellence", "Sports Education", "Co-curricular Activities", "Character Development", "Community Outreach"}

	focusGrowing  = []string{"Academic Development", "Sports", "Arts & Culture", "Technology", "Life Skills"}
	focusEmerging = []string{"Academic Foundation", "Sports Activities", "Basic Co-curricular", "Character Building", "Community Engagement"}
)

// FocusAreas picks display tags from the rank bucket, name keywords and board.
// Every input resolves to a non-empty list; callers get their own copy.
func FocusAreas(name string, localRank int, board Board) []string {
	return append([]string(nil), focusAreas(strings.ToLower(name), localRank, board)...)
}

func focusAreas(name string, rank int, board Board) []string {
	has := func(words ...string) bool {
		for _, w := range words {
			if strings.Contains(name, w) {
				return true
			}
		}
		return false
	}
	switch {
	case rank <= 10:
		switch {
		case has("international", "ambani", "oakridge", "tisb", "inventure"):
			return focusTopInternational
		case has("cathedral", "connon"):
			return focusTopHeritage
		case has("public school", "dps", "hps"):
			return focusTopPublic
		}
		return focusTopDefault
	case rank <= 20:
		switch {
		case has("international") || board == BoardIB || board == BoardIGCSE:
			return focusPremiumInternational
		case has("public school", "dps"):
			return focusPremiumPublic
		}
		return focusPremiumDefault
	case rank <= 30:
		if has("international") {
			return focusEstablishedInternational
		}
		return focusEstablishedDefault
	case rank <= 40:
		return focusGrowing
	}
	return focusEmerging
}

// BoardType classifies a free-text curriculum description. The scan is
// first-match-wins in the order IB, IGCSE, ICSE/ISC, CBSE, so "CBSE/IB"
// classifies as IB. Substring matching is case-sensitive.
func BoardType(description string) Board {
	switch {
	case strings.Contains(description, "IB"):
		return BoardIB
	case strings.Contains(description, "IGCSE"):
		return BoardIGCSE
	case strings.Contains(description, "ICSE"), strings.Contains(description, "ISC"):
		return BoardICSE
	case strings.Contains(description, "CBSE"):
		return BoardCBSE
	}
	return BoardNone
}

// Derive computes the city-scoped fields of a record. National and state
// ranks are left zero until Aggregate runs.
func Derive(r Record) Institution {
	cityTier := CityTier(r.LocalRank)
	score := r.ScoreOverride
	if score == 0 {
		score = Score(r.LocalRank, cityTier)
	}
	return Institution{
		Record:     r,
		Score:      clampScore(score),
		CityTier:   cityTier,
		Tier:       cityTier,
		FocusAreas: FocusAreas(r.Name, r.LocalRank, r.Board),
	}
}
