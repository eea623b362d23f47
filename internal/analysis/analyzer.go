package analysis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ironsheep/room-analyzer-mcp/internal/detection"
	"github.com/ironsheep/room-analyzer-mcp/internal/imaging"
)

// ErrEmptyImage is returned for frames with no pixels.
var ErrEmptyImage = errors.New("image has no pixels")

// Report is the complete result of analysing one room photo.
type Report struct {
	ID              string            `json:"id"`
	AnalyzedAt      time.Time         `json:"analyzed_at"`
	ImagePath       string            `json:"image_path,omitempty"`
	Width           int               `json:"width"`
	Height          int               `json:"height"`
	RoomType        string            `json:"room_type"`
	Confidence      float64           `json:"confidence"`
	Style           string            `json:"style"`
	StyleConfidence float64           `json:"style_confidence"`
	Lighting        LightingAnalysis  `json:"lighting"`
	Furniture       FurnitureAnalysis `json:"furniture"`
	Colors          ColorAnalysis     `json:"colors"`
	Space           SpaceAnalysis     `json:"space"`
	Overall         OverallScore      `json:"overall"`
	Recommendations Recommendations   `json:"recommendations"`

	// Detections are the detector results the report was computed from.
	Detections []detection.DetectedObject `json:"detections"`
}

// Step describes pipeline progress.
type Step struct {
	Description string `json:"description"`
	Percent     int    `json:"percent"`
}

// ProgressFunc observes pipeline progress. It is called synchronously
// before each stage runs.
type ProgressFunc func(Step)

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithProgress registers a progress observer.
func WithProgress(fn ProgressFunc) Option {
	return func(a *Analyzer) {
		a.progress = fn
	}
}

// WithClock overrides the timestamp source (useful for testing).
func WithClock(now func() time.Time) Option {
	return func(a *Analyzer) {
		a.now = now
	}
}

// Analyzer runs the room analysis pipeline against a detector.
type Analyzer struct {
	detector detection.Detector
	progress ProgressFunc
	now      func() time.Time
}

// NewAnalyzer creates an analyzer. A nil detector is allowed; every Analyze
// call then fails with detection.ErrDetectorUnavailable.
func NewAnalyzer(d detection.Detector, opts ...Option) *Analyzer {
	a := &Analyzer{
		detector: d,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// run carries the intermediate state of one Analyze call.
type run struct {
	frame   detection.Frame
	width   int
	height  int
	pixels  *imaging.Pixels
	objects []detection.DetectedObject

	room      RoomType
	style     Style
	colors    ColorAnalysis
	lighting  LightingAnalysis
	space     SpaceAnalysis
	furniture FurnitureAnalysis
	recs      Recommendations
}

type stage struct {
	step Step
	exec func(ctx context.Context, a *Analyzer, r *run) error
}

// stages lists the pipeline in dependency order.
var stages = []stage{
	{Step{"Detecting objects and furniture...", 20}, func(ctx context.Context, a *Analyzer, r *run) error {
		objects, err := a.detector.Detect(ctx, r.frame)
		if err != nil {
			return fmt.Errorf("detecting objects: %w", err)
		}
		if objects == nil {
			objects = []detection.DetectedObject{}
		}
		r.objects = objects
		return nil
	}},
	{Step{"Classifying room type...", 35}, func(_ context.Context, _ *Analyzer, r *run) error {
		r.room = ClassifyRoom(r.objects)
		return nil
	}},
	{Step{"Analyzing design style...", 50}, func(_ context.Context, _ *Analyzer, r *run) error {
		r.style = ClassifyStyle(r.objects)
		return nil
	}},
	{Step{"Analyzing color palette...", 65}, func(_ context.Context, _ *Analyzer, r *run) error {
		r.colors = AnalyzeColor(r.pixels)
		return nil
	}},
	{Step{"Evaluating lighting conditions...", 80}, func(_ context.Context, _ *Analyzer, r *run) error {
		r.lighting = AnalyzeLighting(r.pixels)
		return nil
	}},
	{Step{"Analyzing space utilization...", 90}, func(_ context.Context, _ *Analyzer, r *run) error {
		r.space = AnalyzeSpace(r.objects, r.width, r.height)
		return nil
	}},
	{Step{"Generating AI recommendations...", 100}, func(_ context.Context, _ *Analyzer, r *run) error {
		r.furniture = AnalyzeFurniture(r.room, r.objects, r.width, r.height)
		r.recs = Recommend(r.room, DimensionTiers{
			Lighting:    r.lighting.Quality,
			Color:       r.colors.Harmony,
			Space:       r.space.Flow,
			Arrangement: r.furniture.Arrangement,
		})
		return nil
	}},
}

// Analyze runs every stage against frame and assembles the report.
//
// Any failing stage aborts the whole analysis and no partial report is
// returned. The context is checked between stages; an in-flight detector
// call is bounded only by the detector's own timeout.
func (a *Analyzer) Analyze(ctx context.Context, frame detection.Frame) (*Report, error) {
	if a.detector == nil {
		return nil, detection.ErrDetectorUnavailable
	}
	if frame.Image == nil {
		return nil, fmt.Errorf("analyze: frame has no image")
	}
	bounds := frame.Image.Bounds()
	if bounds.Empty() {
		return nil, ErrEmptyImage
	}

	r := &run{
		frame:  frame,
		width:  bounds.Dx(),
		height: bounds.Dy(),
		pixels: imaging.NewPixels(frame.Image),
	}

	for _, s := range stages {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("analyze: %w", err)
		}
		if a.progress != nil {
			a.progress(s.step)
		}
		if err := s.exec(ctx, a, r); err != nil {
			return nil, fmt.Errorf("analyze: %w", err)
		}
	}

	return &Report{
		ID:              uuid.NewString(),
		AnalyzedAt:      a.now().UTC(),
		ImagePath:       frame.Path,
		Width:           r.width,
		Height:          r.height,
		RoomType:        r.room.Type,
		Confidence:      r.room.Confidence,
		Style:           r.style.Style,
		StyleConfidence: r.style.Confidence,
		Lighting:        r.lighting,
		Furniture:       r.furniture,
		Colors:          r.colors,
		Space:           r.space,
		Overall:         ScoreOverall(r.lighting.Quality, r.colors.Harmony, r.space.Flow),
		Recommendations: r.recs,
		Detections:      r.objects,
	}, nil
}
