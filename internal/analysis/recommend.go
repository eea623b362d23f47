package analysis

import "math"

// Recommendations are suggestions grouped by budget.
type Recommendations struct {
	Immediate []string `json:"immediate"`
	Budget    []string `json:"budget"`
	Luxury    []string `json:"luxury"`
}

// DimensionTiers carries the tiers the synthesizer reacts to.
type DimensionTiers struct {
	Lighting    Tier
	Color       Tier
	Space       Tier
	Arrangement Tier
}

// fix is one suggestion per budget level.
type fix struct {
	immediate, budget, luxury string
}

var (
	lightingFix = fix{
		"Add table lamps for better lighting",
		"Install LED ceiling fixtures",
		"Smart lighting system with dimmer controls",
	}
	colorFix = fix{
		"Add colorful throw pillows or artwork",
		"Paint an accent wall",
		"Professional color consultation and repainting",
	}
	spaceFix = fix{
		"Rearrange existing furniture",
		"Add functional storage furniture",
		"Custom built-in storage solutions",
	}
	arrangementFix = fix{
		"Pull key pieces toward the room's focal point",
		"Anchor the seating group with an area rug",
		"Professional space planning consultation",
	}
	livingRoomFix = fix{
		"Add plants for natural elements",
		"Invest in quality throw blankets",
		"Statement art piece or gallery wall",
	}
)

func (r *Recommendations) add(f fix) {
	r.Immediate = append(r.Immediate, f.immediate)
	r.Budget = append(r.Budget, f.budget)
	r.Luxury = append(r.Luxury, f.luxury)
}

// Recommend combines the analysed dimensions into tiered suggestions. Every
// poor dimension contributes one entry to each list, in the order lighting,
// color, space, arrangement; living rooms get an extra room-specific set.
func Recommend(room RoomType, tiers DimensionTiers) Recommendations {
	recs := Recommendations{
		Immediate: []string{},
		Budget:    []string{},
		Luxury:    []string{},
	}

	for _, d := range []struct {
		tier Tier
		fix  fix
	}{
		{tiers.Lighting, lightingFix},
		{tiers.Color, colorFix},
		{tiers.Space, spaceFix},
		{tiers.Arrangement, arrangementFix},
	} {
		if d.tier == Poor {
			recs.add(d.fix)
		}
	}

	if room.Type == RoomLivingRoom {
		recs.add(livingRoomFix)
	}
	return recs
}

// OverallScore is the aggregate rating of the report.
type OverallScore struct {
	Score        int      `json:"score"`
	Grade        string   `json:"grade"`
	Improvements []string `json:"improvements"`
}

// ScoreOverall averages the lighting, color and space tiers and scales the
// mean to 0–100. Furniture arrangement is not part of the average.
func ScoreOverall(lighting, color, space Tier) OverallScore {
	mean := float64(lighting.Value()+color.Value()+space.Value()) / 3
	score := int(math.Round(mean * 25))

	improvements := []string{}
	if lighting == Poor {
		improvements = append(improvements, "Improve lighting")
	}
	if color == Poor {
		improvements = append(improvements, "Enhance color harmony")
	}
	if space == Poor {
		improvements = append(improvements, "Optimize space layout")
	}

	return OverallScore{
		Score:        score,
		Grade:        Grade(score),
		Improvements: improvements,
	}
}

// Grade maps a 0–100 score onto the letter ladder.
func Grade(score int) string {
	switch {
	case score >= 90:
		return "A"
	case score >= 80:
		return "B"
	case score >= 70:
		return "C"
	case score >= 60:
		return "D"
	default:
		return "F"
	}
}
