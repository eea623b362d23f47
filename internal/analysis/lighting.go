package analysis

import (
	"math"

	"github.com/ironsheep/room-analyzer-mcp/internal/imaging"
)

// LightingAnalysis is the lighting block of the report.
type LightingAnalysis struct {
	Quality     Tier     `json:"quality"`
	Type        string   `json:"type"`
	Brightness  float64  `json:"brightness"`
	Suggestions []string `json:"suggestions"`
}

type lightingBucket struct {
	below       float64
	quality     Tier
	label       string
	suggestions []string
}

var lightingBuckets = []lightingBucket{
	{80, Poor, "Insufficient lighting", []string{
		"Add more light sources",
		"Consider brighter bulbs",
		"Add table or floor lamps",
		"Use mirrors to reflect light",
	}},
	{120, Fair, "Moderate lighting", []string{
		"Add accent lighting",
		"Consider warmer light temperatures",
		"Add task lighting for specific areas",
	}},
	{180, Good, "Well-lit space", []string{
		"Consider dimmer switches for ambiance",
		"Add decorative lighting elements",
	}},
	{math.Inf(1), Excellent, "Bright, well-lit space", []string{
		"Perfect lighting levels",
		"Consider adding warm accent lights for evening",
	}},
}

// MeanBrightness averages (R+G+B)/3 over every pixel. An empty buffer is 0.
func MeanBrightness(px *imaging.Pixels) float64 {
	n := px.Len()
	if n == 0 {
		return 0
	}
	var total float64
	for i := 0; i < n; i++ {
		total += px.Brightness(i)
	}
	return total / float64(n)
}

// LightingTier buckets a mean brightness. It is monotonic: a brighter input
// never yields a lower tier.
func LightingTier(brightness float64) Tier {
	return lightingBucketFor(brightness).quality
}

func lightingBucketFor(brightness float64) lightingBucket {
	for _, b := range lightingBuckets {
		if brightness < b.below {
			return b
		}
	}
	return lightingBuckets[len(lightingBuckets)-1]
}

// AnalyzeLighting rates the overall brightness of px.
func AnalyzeLighting(px *imaging.Pixels) LightingAnalysis {
	brightness := MeanBrightness(px)
	b := lightingBucketFor(brightness)
	return LightingAnalysis{
		Quality:     b.quality,
		Type:        b.label,
		Brightness:  math.Round(brightness*100) / 100,
		Suggestions: append([]string(nil), b.suggestions...),
	}
}
