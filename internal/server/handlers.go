package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image"

	"github.com/ironsheep/room-analyzer-mcp/internal/analysis"
	"github.com/ironsheep/room-analyzer-mcp/internal/detection"
	"github.com/ironsheep/room-analyzer-mcp/internal/imaging"
	"github.com/ironsheep/room-analyzer-mcp/internal/palette"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "image_load", "room_analyze").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`

	// Meta carries the optional progress token.
	Meta *struct {
		ProgressToken interface{} `json:"progressToken,omitempty"`
	} `json:"_meta,omitempty"`
}

// argsError marks a tool failure caused by malformed or missing arguments.
type argsError struct{ err error }

func (e *argsError) Error() string { return e.err.Error() }
func (e *argsError) Unwrap() error { return e.err }

func badArgs(format string, args ...interface{}) error {
	return &argsError{fmt.Errorf(format, args...)}
}

// decodeArgs unmarshals tool arguments. Absent arguments decode as an empty
// object so tools without required parameters can be called bare.
func decodeArgs(raw json.RawMessage, v interface{}) error {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return &argsError{err}
	}
	return nil
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Argument errors return -32602; every other tool failure returns -32000.
func (s *Server) handleToolsCall(ctx context.Context, req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	var token interface{}
	if params.Meta != nil {
		token = params.Meta.ProgressToken
	}

	s.debugf("tools/call %s", params.Name)
	result, err := s.executeTool(ctx, params.Name, params.Arguments, token)
	if err != nil {
		s.debugf("tools/call %s failed: %v", params.Name, err)
		var ae *argsError
		if errors.As(err, &ae) {
			return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
		}
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
	}

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": mustMarshalJSON(result),
				},
			},
		},
	}
}

// executeTool dispatches tool execution to the appropriate handler function.
func (s *Server) executeTool(ctx context.Context, name string, args json.RawMessage, progressToken interface{}) (interface{}, error) {
	switch name {
	case "image_load":
		return s.handleImageLoad(args)

	// Room analysis
	case "room_detect":
		return s.handleRoomDetect(ctx, args)
	case "room_analyze":
		return s.handleRoomAnalyze(ctx, args, progressToken)
	case "room_report":
		return s.handleRoomReport(args)
	case "room_clear":
		return s.handleRoomClear(args)
	case "room_classify":
		return s.handleRoomClassify(args)
	case "room_annotate":
		return s.handleRoomAnnotate(ctx, args)
	case "room_crop_object":
		return s.handleRoomCropObject(args)

	// Palettes
	case "color_palette_extract":
		return s.handleColorPaletteExtract(args)
	case "color_palette_styles":
		return s.handleColorPaletteStyles(args)

	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &MCPError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// On marshal failure it returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

type pathArgs struct {
	Path string `json:"path"`
}

func (a pathArgs) validate() error {
	if a.Path == "" {
		return badArgs("path is required")
	}
	return nil
}

// frame loads path through the cache.
func (s *Server) frame(path string) (detection.Frame, error) {
	img, err := s.cache.Load(path)
	if err != nil {
		return detection.Frame{}, err
	}
	return detection.Frame{Path: path, Image: img}, nil
}

// detectionsFor resolves the detections to use for a frame: inline ones when
// supplied, otherwise the live report's when it covers the same image,
// otherwise a fresh detector call.
func (s *Server) detectionsFor(ctx context.Context, frame detection.Frame, inline []detection.DetectedObject) ([]detection.DetectedObject, error) {
	if inline != nil {
		return inline, nil
	}
	if report, err := s.session.Current(); err == nil && report.ImagePath == frame.Path {
		return report.Detections, nil
	}
	if s.detector == nil {
		return nil, detection.ErrDetectorUnavailable
	}
	return s.detector.Detect(ctx, frame)
}

// === Image Handlers ===

func (s *Server) handleImageLoad(args json.RawMessage) (interface{}, error) {
	var a pathArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if err := a.validate(); err != nil {
		return nil, err
	}
	return imaging.LoadImageInfo(s.cache, a.Path)
}

// === Room Analysis Handlers ===

type roomDetectArgs struct {
	Path     string  `json:"path"`
	MinScore float64 `json:"min_score"`
}

// RoomDetectResult lists the raw detections for an image.
type RoomDetectResult struct {
	Path       string                     `json:"path"`
	Width      int                        `json:"width"`
	Height     int                        `json:"height"`
	Count      int                        `json:"count"`
	Detections []detection.DetectedObject `json:"detections"`
}

func (s *Server) handleRoomDetect(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a roomDetectArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if err := (pathArgs{a.Path}).validate(); err != nil {
		return nil, err
	}
	if s.detector == nil {
		return nil, detection.ErrDetectorUnavailable
	}

	frame, err := s.frame(a.Path)
	if err != nil {
		return nil, err
	}
	objects, err := s.detector.Detect(ctx, frame)
	if err != nil {
		return nil, err
	}
	objects = detection.FilterByScore(objects, a.MinScore)

	b := frame.Image.Bounds()
	return &RoomDetectResult{
		Path:       a.Path,
		Width:      b.Dx(),
		Height:     b.Dy(),
		Count:      len(objects),
		Detections: objects,
	}, nil
}

type roomAnalyzeArgs struct {
	Path       string                     `json:"path"`
	Detections []detection.DetectedObject `json:"detections"`
}

// progressParams is the payload of a notifications/progress message.
type progressParams struct {
	ProgressToken interface{} `json:"progressToken"`
	Progress      int         `json:"progress"`
	Total         int         `json:"total"`
	Message       string      `json:"message,omitempty"`
}

func (s *Server) handleRoomAnalyze(ctx context.Context, args json.RawMessage, progressToken interface{}) (interface{}, error) {
	var a roomAnalyzeArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if err := (pathArgs{a.Path}).validate(); err != nil {
		return nil, err
	}

	detector := s.detector
	if a.Detections != nil {
		detector = detection.StaticDetector(a.Detections)
	}

	opts := []analysis.Option{
		analysis.WithProgress(func(step analysis.Step) {
			s.debugf("room_analyze %s: %d%% %s", a.Path, step.Percent, step.Description)
			if progressToken != nil {
				s.notify("notifications/progress", progressParams{
					ProgressToken: progressToken,
					Progress:      step.Percent,
					Total:         100,
					Message:       step.Description,
				})
			}
		}),
	}

	// A new analysis supersedes the previous one even if loading fails.
	s.session.Clear()
	frame, err := s.frame(a.Path)
	if err != nil {
		return nil, err
	}
	return s.session.Run(ctx, analysis.NewAnalyzer(detector, opts...), frame)
}

func (s *Server) handleRoomReport(args json.RawMessage) (interface{}, error) {
	var a struct {
		Section string `json:"section"`
	}
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}

	report, err := s.session.Current()
	if err != nil {
		return nil, err
	}
	return reportSection(report, a.Section)
}

// reportSection returns one block of the report, or the whole report for "".
func reportSection(r *analysis.Report, section string) (interface{}, error) {
	switch section {
	case "", "all":
		return r, nil
	case "lighting":
		return r.Lighting, nil
	case "furniture":
		return r.Furniture, nil
	case "colors":
		return r.Colors, nil
	case "space":
		return r.Space, nil
	case "overall":
		return r.Overall, nil
	case "recommendations":
		return r.Recommendations, nil
	case "detections":
		return r.Detections, nil
	}
	return nil, badArgs("unknown report section %q", section)
}

func (s *Server) handleRoomClear(args json.RawMessage) (interface{}, error) {
	var a struct {
		Images bool `json:"images"`
	}
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}

	s.session.Clear()
	if a.Images {
		s.cache.Clear()
	}
	return map[string]interface{}{
		"cleared":        true,
		"images_cleared": a.Images,
	}, nil
}

type roomClassifyArgs struct {
	Labels     []string                   `json:"labels"`
	Detections []detection.DetectedObject `json:"detections"`
}

// RoomClassifyResult is the label-only classification of a room.
type RoomClassifyResult struct {
	RoomType        string   `json:"room_type"`
	Confidence      float64  `json:"confidence"`
	Style           string   `json:"style"`
	StyleConfidence float64  `json:"style_confidence"`
	Furniture       []string `json:"furniture"`
	Missing         []string `json:"missing"`
}

func (s *Server) handleRoomClassify(args json.RawMessage) (interface{}, error) {
	var a roomClassifyArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}

	objects := a.Detections
	for _, l := range a.Labels {
		objects = append(objects, detection.DetectedObject{Label: l, Score: 1})
	}

	room := analysis.ClassifyRoom(objects)
	style := analysis.ClassifyStyle(objects)
	return &RoomClassifyResult{
		RoomType:        room.Type,
		Confidence:      room.Confidence,
		Style:           style.Style,
		StyleConfidence: style.Confidence,
		Furniture:       analysis.DetectedFurniture(objects),
		Missing:         analysis.MissingFurniture(room.Type, objects),
	}, nil
}

type roomAnnotateArgs struct {
	Path       string                     `json:"path"`
	Detections []detection.DetectedObject `json:"detections"`
	MinScore   float64                    `json:"min_score"`
}

func (s *Server) handleRoomAnnotate(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a roomAnnotateArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if a.Path == "" {
		report, err := s.session.Current()
		if err != nil {
			return nil, badArgs("path is required when no analysis is available")
		}
		a.Path = report.ImagePath
	}

	frame, err := s.frame(a.Path)
	if err != nil {
		return nil, err
	}
	objects, err := s.detectionsFor(ctx, frame, a.Detections)
	if err != nil {
		return nil, err
	}
	objects = detection.FilterByScore(objects, a.MinScore)

	annotations := make([]imaging.Annotation, len(objects))
	for i, o := range objects {
		annotations[i] = imaging.Annotation{Label: o.Label, Score: o.Score, Rect: o.BBox.Rect()}
	}
	return imaging.Annotate(frame.Image, annotations)
}

type roomCropObjectArgs struct {
	Path  string          `json:"path"`
	Index *int            `json:"index"`
	BBox  *detection.BBox `json:"bbox"`
	Scale float64         `json:"scale"`
}

// RoomCropResult is a cropped detection.
type RoomCropResult struct {
	*imaging.CropResult
	Label string         `json:"label,omitempty"`
	BBox  detection.BBox `json:"bbox"`
}

// handleRoomCropObject crops either an explicit bbox from path or the
// index-th detection of the live report.
func (s *Server) handleRoomCropObject(args json.RawMessage) (interface{}, error) {
	var a roomCropObjectArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if a.Scale == 0 {
		a.Scale = 1.0
	}

	var (
		path  string
		label string
		box   detection.BBox
	)
	switch {
	case a.BBox != nil:
		if a.Path == "" {
			return nil, badArgs("path is required with bbox")
		}
		path, box = a.Path, *a.BBox
	case a.Index != nil:
		report, err := s.session.Current()
		if err != nil {
			return nil, err
		}
		if *a.Index < 0 || *a.Index >= len(report.Detections) {
			return nil, badArgs("index %d out of range: report has %d detections", *a.Index, len(report.Detections))
		}
		obj := report.Detections[*a.Index]
		path, label, box = report.ImagePath, obj.Label, obj.BBox
	default:
		return nil, badArgs("either index or bbox is required")
	}

	img, err := s.cache.Load(path)
	if err != nil {
		return nil, err
	}
	crop, err := imaging.CropBox(img, box.Rect(), a.Scale)
	if err != nil {
		return nil, err
	}
	return &RoomCropResult{CropResult: crop, Label: label, BBox: box}, nil
}

// === Palette Handlers ===

type colorPaletteExtractArgs struct {
	Path        string `json:"path"`
	Count       int    `json:"count"`
	Suggestions int    `json:"suggestions"`
}

// PaletteExtractResult pairs an extracted palette with matching style palettes.
type PaletteExtractResult struct {
	Colors      []imaging.ColorFrequency `json:"colors"`
	Suggestions []palette.Suggestion     `json:"suggestions"`
}

func (s *Server) handleColorPaletteExtract(args json.RawMessage) (interface{}, error) {
	var a colorPaletteExtractArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if err := (pathArgs{a.Path}).validate(); err != nil {
		return nil, err
	}
	if a.Count == 0 {
		a.Count = s.cfg.Palette.Extract
	}
	if a.Suggestions == 0 {
		a.Suggestions = s.cfg.Palette.Suggestions
	}

	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	return extractPalette(img, a.Count, a.Suggestions)
}

func extractPalette(img image.Image, count, suggestions int) (*PaletteExtractResult, error) {
	colors := palette.Extract(img, count)
	hexes := make([]string, len(colors))
	for i, c := range colors {
		hexes[i] = c.Hex
	}
	ranked, err := palette.Suggest(hexes, suggestions)
	if err != nil {
		return nil, err
	}
	return &PaletteExtractResult{Colors: colors, Suggestions: ranked}, nil
}

func (s *Server) handleColorPaletteStyles(args json.RawMessage) (interface{}, error) {
	var a struct {
		Style string `json:"style"`
	}
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}

	palettes, err := palette.Palettes(a.Style)
	if err != nil {
		return nil, &argsError{err}
	}
	return map[string]interface{}{
		"styles":   palette.Styles(),
		"palettes": palettes,
	}, nil
}
