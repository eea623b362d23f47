package detection

import (
	"encoding/json"
	"fmt"
	"image"
	"math"

	"github.com/paulmach/orb"
)

// BBox is an axis-aligned bounding box in image pixel coordinates.
//
// On the wire it is the four-element array [x, y, width, height] emitted by
// browser-side detectors; an object form {"x","y","width","height"} is also
// accepted when decoding.
type BBox struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

// Area returns Width × Height.
func (b BBox) Area() float64 {
	return b.Width * b.Height
}

// Bound returns the box as a planar orb.Bound.
func (b BBox) Bound() orb.Bound {
	return orb.Bound{
		Min: orb.Point{b.X, b.Y},
		Max: orb.Point{b.X + b.Width, b.Y + b.Height},
	}
}

// Center returns the midpoint of the box.
func (b BBox) Center() orb.Point {
	return b.Bound().Center()
}

// Rect returns the box rounded to integer pixel bounds. Coordinates are
// clamped to the int32 range before conversion.
func (b BBox) Rect() image.Rectangle {
	return image.Rect(
		pixel(b.X),
		pixel(b.Y),
		pixel(b.X+b.Width),
		pixel(b.Y+b.Height),
	)
}

func pixel(v float64) int {
	if math.IsNaN(v) {
		return 0
	}
	return int(math.Round(math.Min(math.Max(v, math.MinInt32), math.MaxInt32)))
}

// MarshalJSON encodes the box as [x, y, width, height].
func (b BBox) MarshalJSON() ([]byte, error) {
	return json.Marshal([4]float64{b.X, b.Y, b.Width, b.Height})
}

// UnmarshalJSON accepts either [x, y, width, height] or an object form.
func (b *BBox) UnmarshalJSON(data []byte) error {
	var arr []float64
	if err := json.Unmarshal(data, &arr); err == nil {
		if len(arr) != 4 {
			return fmt.Errorf("bbox: want 4 values, got %d", len(arr))
		}
		*b = BBox{X: arr[0], Y: arr[1], Width: arr[2], Height: arr[3]}
		return nil
	}

	var obj struct {
		X      float64 `json:"x"`
		Y      float64 `json:"y"`
		Width  float64 `json:"width"`
		Height float64 `json:"height"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("bbox: %w", err)
	}
	*b = BBox{X: obj.X, Y: obj.Y, Width: obj.Width, Height: obj.Height}
	return nil
}

// DetectedObject is one labelled bounding box returned by a detector.
type DetectedObject struct {
	// Label is the detector's class name, e.g. "couch" or "dining table".
	Label string `json:"label"`

	// Score is the detector confidence in [0, 1].
	Score float64 `json:"score"`

	// BBox locates the object in the analysed image.
	BBox BBox `json:"bbox"`
}

// UnmarshalJSON decodes the canonical form and the shapes common detectors
// emit: "class" for the label, "confidence" for the score, and flat
// x/y/width/height fields instead of a bbox.
func (d *DetectedObject) UnmarshalJSON(data []byte) error {
	var aux struct {
		Label      string   `json:"label"`
		Class      string   `json:"class"`
		Score      *float64 `json:"score"`
		Confidence *float64 `json:"confidence"`
		BBox       *BBox    `json:"bbox"`
		X          float64  `json:"x"`
		Y          float64  `json:"y"`
		Width      float64  `json:"width"`
		Height     float64  `json:"height"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	*d = DetectedObject{Label: aux.Label}
	if d.Label == "" {
		d.Label = aux.Class
	}
	switch {
	case aux.Score != nil:
		d.Score = *aux.Score
	case aux.Confidence != nil:
		d.Score = *aux.Confidence
	}
	if aux.BBox != nil {
		d.BBox = *aux.BBox
	} else {
		d.BBox = BBox{X: aux.X, Y: aux.Y, Width: aux.Width, Height: aux.Height}
	}
	return nil
}

// Labels returns the label of every detection, in order.
func Labels(objects []DetectedObject) []string {
	labels := make([]string, len(objects))
	for i, o := range objects {
		labels[i] = o.Label
	}
	return labels
}

// FilterByScore drops detections scoring below minScore.
// The input slice is not modified.
func FilterByScore(objects []DetectedObject, minScore float64) []DetectedObject {
	filtered := make([]DetectedObject, 0, len(objects))
	for _, o := range objects {
		if o.Score >= minScore {
			filtered = append(filtered, o)
		}
	}
	return filtered
}
