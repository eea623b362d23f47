package analysis

import (
	"sort"

	"github.com/ironsheep/room-analyzer-mcp/internal/imaging"
)

const (
	// colorStride samples every 4th pixel in linear order.
	colorStride = 4

	// Samples darker or lighter than this are treated as shadow or glare.
	minSampleBrightness = 30
	maxSampleBrightness = 225

	// paletteSize caps the dominant palette.
	paletteSize = 5
)

// ColorSample is one sampled color and how often it occurred.
type ColorSample struct {
	Hex   string `json:"hex"`
	Count int    `json:"count"`
}

// ColorAnalysis is the color block of the report.
type ColorAnalysis struct {
	Dominant    []string      `json:"dominant"`
	Samples     []ColorSample `json:"samples"`
	Harmony     Tier          `json:"harmony"`
	Suggestions []string      `json:"suggestions"`
}

// AnalyzeColor extracts the dominant palette from px and rates its harmony.
//
// Colors are bucketed by exact value with no quantisation. Ties in frequency
// keep the order in which colors were first sampled.
func AnalyzeColor(px *imaging.Pixels) ColorAnalysis {
	counts := make(map[uint32]int)
	var order []uint32

	for i := 0; i < px.Len(); i += colorStride {
		b := px.Brightness(i)
		if b < minSampleBrightness || b > maxSampleBrightness {
			continue
		}
		r, g, bl := px.RGB(i)
		key := uint32(r)<<16 | uint32(g)<<8 | uint32(bl)
		if counts[key] == 0 {
			order = append(order, key)
		}
		counts[key]++
	}

	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})
	if len(order) > paletteSize {
		order = order[:paletteSize]
	}

	samples := make([]ColorSample, 0, len(order))
	dominant := make([]string, 0, len(order))
	for _, key := range order {
		hex := imaging.Hex(uint8(key>>16), uint8(key>>8), uint8(key))
		samples = append(samples, ColorSample{Hex: hex, Count: counts[key]})
		dominant = append(dominant, hex)
	}

	harmony := HarmonyTier(len(dominant))
	return ColorAnalysis{
		Dominant:    dominant,
		Samples:     samples,
		Harmony:     harmony,
		Suggestions: colorSuggestions(harmony),
	}
}

// HarmonyTier rates a palette by its size alone. The palette is capped at
// five colors, so the "more than six" branch and Excellent never occur.
func HarmonyTier(colors int) Tier {
	switch {
	case colors < 3:
		return Poor
	case colors > 6:
		return Fair
	default:
		return Good
	}
}

func colorSuggestions(harmony Tier) []string {
	if harmony == Poor {
		return []string{
			"Add a unifying accent color",
			"Consider a more cohesive color palette",
		}
	}
	return []string{
		"Great color harmony!",
		"Consider adding metallic accents",
	}
}
