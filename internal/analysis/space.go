package analysis

import (
	"math"

	"github.com/ironsheep/room-analyzer-mcp/internal/detection"
)

// SpaceAnalysis is the space block of the report.
type SpaceAnalysis struct {
	Utilization int      `json:"utilization"`
	Flow        Tier     `json:"flow"`
	Suggestions []string `json:"suggestions"`
}

type spaceBucket struct {
	below       int
	flow        Tier
	suggestions []string
}

var spaceBuckets = []spaceBucket{
	{30, Poor, []string{
		"Add more functional furniture",
		"Create defined activity zones",
		"Consider larger furniture pieces",
		"Add storage solutions",
	}},
	{50, Fair, []string{
		"Optimize furniture placement",
		"Add decorative elements",
		"Consider area rugs to define spaces",
	}},
	{75, Good, []string{
		"Great space utilization",
		"Consider minor adjustments for flow",
	}},
	{math.MaxInt, Excellent, []string{
		"Excellent space utilization",
		"Perfect balance of function and flow",
	}},
}

// Utilization returns the share of the image covered by detection boxes as a
// whole percentage in [0, 100]. Overlapping boxes are counted once each, so
// crowded scenes read higher than their true coverage.
func Utilization(objects []detection.DetectedObject, width, height int) int {
	total := float64(width) * float64(height)
	if total <= 0 {
		return 0
	}

	var occupied float64
	for _, o := range objects {
		occupied += o.BBox.Area()
	}

	// Clamp before converting; oversized boxes overflow int.
	pct := occupied / total * 100
	if math.IsNaN(pct) {
		return 0
	}
	return int(math.Round(math.Min(math.Max(pct, 0), 100)))
}

// SpaceTier buckets a utilization percentage.
func SpaceTier(utilization int) Tier {
	return spaceBucketFor(utilization).flow
}

func spaceBucketFor(utilization int) spaceBucket {
	for _, b := range spaceBuckets {
		if utilization < b.below {
			return b
		}
	}
	return spaceBuckets[len(spaceBuckets)-1]
}

// AnalyzeSpace rates how much of the frame the detected objects occupy.
func AnalyzeSpace(objects []detection.DetectedObject, width, height int) SpaceAnalysis {
	u := Utilization(objects, width, height)
	b := spaceBucketFor(u)
	return SpaceAnalysis{
		Utilization: u,
		Flow:        b.flow,
		Suggestions: append([]string(nil), b.suggestions...),
	}
}
