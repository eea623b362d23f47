package analysis

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
	"gonum.org/v1/gonum/stat"

	"github.com/ironsheep/room-analyzer-mcp/internal/detection"
)

// FurnitureAnalysis is the furniture block of the report.
type FurnitureAnalysis struct {
	Detected    []string `json:"detected"`
	Missing     []string `json:"missing"`
	Arrangement Tier     `json:"arrangement"`
	Suggestions []string `json:"suggestions"`
}

// furnitureLabels are the detector classes counted as furnishings.
var furnitureLabels = map[string]bool{
	"chair":        true,
	"couch":        true,
	"bed":          true,
	"dining table": true,
	"tv":           true,
	"refrigerator": true,
	"microwave":    true,
	"oven":         true,
	"sink":         true,
	"toilet":       true,
	"book":         true,
	"vase":         true,
	"laptop":       true,
}

// IsFurniture reports whether a detector label counts as furniture.
func IsFurniture(label string) bool {
	return furnitureLabels[label]
}

// arrangementFallback is used when there is nothing to measure.
const arrangementFallback = Fair

// ArrangementScore returns the mean distance of box centres from the image
// centre, normalised by the half-diagonal. ok is false when there are no
// detections or the image has no area.
func ArrangementScore(objects []detection.DetectedObject, width, height int) (score float64, ok bool) {
	center := orb.Point{float64(width) / 2, float64(height) / 2}
	halfDiagonal := math.Hypot(center[0], center[1])
	if len(objects) == 0 || halfDiagonal == 0 {
		return 0, false
	}

	distances := make([]float64, len(objects))
	for i, o := range objects {
		distances[i] = planar.Distance(o.BBox.Center(), center)
	}
	return stat.Mean(distances, nil) / halfDiagonal, true
}

// EvaluateArrangement buckets the arrangement score. Unlike lighting and
// space, a lower score is better here: objects clustered near the centre rate
// excellent. With nothing to measure the tier is Fair.
func EvaluateArrangement(objects []detection.DetectedObject, width, height int) Tier {
	score, ok := ArrangementScore(objects, width, height)
	switch {
	case !ok:
		return arrangementFallback
	case score < 0.3:
		return Excellent
	case score < 0.5:
		return Good
	case score < 0.7:
		return Fair
	default:
		return Poor
	}
}

// DetectedFurniture lists furniture labels in detection order.
func DetectedFurniture(objects []detection.DetectedObject) []string {
	found := []string{}
	for _, o := range objects {
		if IsFurniture(o.Label) {
			found = append(found, o.Label)
		}
	}
	return found
}

// MissingFurniture names the staple pieces a room of this type lacks.
func MissingFurniture(roomType string, objects []detection.DetectedObject) []string {
	labels := newLabelSet(objects)
	missing := []string{}

	switch roomType {
	case RoomLivingRoom:
		if !labels["couch"] {
			missing = append(missing, "Seating furniture")
		}
		if !labels["tv"] {
			missing = append(missing, "Entertainment center")
		}
	case RoomBedroom:
		if !labels["bed"] {
			missing = append(missing, "Bed")
		}
	}
	return missing
}

// FurnitureSuggestions returns the fixed additions suggested per room type.
func FurnitureSuggestions(roomType string) []string {
	switch roomType {
	case RoomLivingRoom:
		return []string{
			"Consider a coffee table for the seating area",
			"Add side tables for functionality",
		}
	case RoomBedroom:
		return []string{
			"Add bedside tables for symmetry",
			"Consider a dresser for storage",
		}
	}
	return []string{}
}

// AnalyzeFurniture assembles the furniture block.
func AnalyzeFurniture(room RoomType, objects []detection.DetectedObject, width, height int) FurnitureAnalysis {
	return FurnitureAnalysis{
		Detected:    DetectedFurniture(objects),
		Missing:     MissingFurniture(room.Type, objects),
		Arrangement: EvaluateArrangement(objects, width, height),
		Suggestions: FurnitureSuggestions(room.Type),
	}
}
