package detection

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"os"
	"strings"
)

// ErrDetectorUnavailable is returned when no detector is configured or the
// configured one failed its startup health check.
var ErrDetectorUnavailable = errors.New("object detector unavailable")

// Frame is the input handed to a detector: a decoded image and, when known,
// the path it was loaded from.
type Frame struct {
	Path  string
	Image image.Image
}

// Detector finds objects in a single image.
//
// Implementations may block on I/O and must honour ctx. Any error is terminal
// for the current analysis; callers do not retry.
type Detector interface {
	Detect(ctx context.Context, frame Frame) ([]DetectedObject, error)
}

// StaticDetector returns a fixed list of detections for every frame. It backs
// tool calls that supply detections inline.
type StaticDetector []DetectedObject

// Detect returns a copy of the static detections.
func (s StaticDetector) Detect(ctx context.Context, _ Frame) ([]DetectedObject, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := make([]DetectedObject, len(s))
	copy(out, s)
	return out, nil
}

// DefaultSidecarSuffix is appended to an image path to find its detections file.
const DefaultSidecarSuffix = ".detections.json"

// SidecarDetector reads precomputed detections from a JSON file stored next
// to the image, e.g. "living-room.jpg.detections.json".
//
// The file may hold either a bare array of detections or an object of the
// form {"detections": [...]}.
type SidecarDetector struct {
	// Suffix overrides DefaultSidecarSuffix when non-empty.
	Suffix string

	// MinScore drops detections scoring below it.
	MinScore float64
}

// Detect loads and decodes the sidecar file for frame.Path.
func (s SidecarDetector) Detect(ctx context.Context, frame Frame) ([]DetectedObject, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if frame.Path == "" {
		return nil, fmt.Errorf("sidecar detector: frame has no path")
	}

	suffix := s.Suffix
	if suffix == "" {
		suffix = DefaultSidecarSuffix
	}
	path := frame.Path + suffix

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("sidecar detector: reading %s: %w", path, err)
	}

	objects, err := ParseDetections(data)
	if err != nil {
		return nil, fmt.Errorf("sidecar detector: %s: %w", path, err)
	}
	return FilterByScore(objects, s.MinScore), nil
}

// ParseDetections decodes either a JSON array of detections or an object
// wrapping them under "detections".
func ParseDetections(data []byte) ([]DetectedObject, error) {
	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, "[") {
		var objects []DetectedObject
		if err := json.Unmarshal(data, &objects); err != nil {
			return nil, fmt.Errorf("parsing detections: %w", err)
		}
		return objects, nil
	}

	var wrapped struct {
		Detections []DetectedObject `json:"detections"`
	}
	if err := json.Unmarshal(data, &wrapped); err != nil {
		return nil, fmt.Errorf("parsing detections: %w", err)
	}
	if wrapped.Detections == nil {
		return []DetectedObject{}, nil
	}
	return wrapped.Detections, nil
}
