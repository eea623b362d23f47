package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

// detectionsSchema describes inline detections. Boxes are [x, y, width, height]
// in pixels of the analysed image.
var detectionsSchema = map[string]interface{}{
	"type":        "array",
	"description": "Optional precomputed detections; skips the configured detector",
	"items": map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"label": map[string]interface{}{"type": "string"},
			"score": map[string]interface{}{"type": "number"},
			"bbox": map[string]interface{}{
				"type":        "array",
				"items":       map[string]interface{}{"type": "number"},
				"minItems":    4,
				"maxItems":    4,
				"description": "[x, y, width, height]",
			},
		},
		"required": []string{"label", "bbox"},
	},
}

var pathProperty = map[string]interface{}{
	"type":        "string",
	"description": "Absolute path to a JPEG or PNG room photo",
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		{
			Name:        "image_load",
			Description: "Load a room photo and return its dimensions, format and size. Only JPEG and PNG are accepted.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty,
				},
				"required": []string{"path"},
			},
		},

		// Room Analysis
		{
			Name:        "room_detect",
			Description: "Run the configured object detector on a room photo and return the labelled bounding boxes.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty,
					"min_score": map[string]interface{}{
						"type":        "number",
						"description": "Drop detections scoring below this (0-1). Default 0",
						"default":     0,
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name: "room_analyze",
			Description: "Analyze a room photo: room type, design style, color harmony, lighting, space utilization, " +
				"furniture arrangement, an overall score with letter grade and tiered recommendations. " +
				"Replaces any previous analysis. Sends progress notifications when a progress token is supplied.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path":       pathProperty,
					"detections": detectionsSchema,
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "room_report",
			Description: "Return the current analysis report, or one section of it.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"section": map[string]interface{}{
						"type":        "string",
						"description": "Report section to return. Default all",
						"enum":        []string{"all", "lighting", "furniture", "colors", "space", "overall", "recommendations", "detections"},
						"default":     "all",
					},
				},
			},
		},
		{
			Name:        "room_clear",
			Description: "Discard the current analysis and optionally the image cache.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"images": map[string]interface{}{
						"type":        "boolean",
						"description": "Also drop cached images. Default false",
						"default":     false,
					},
				},
			},
		},
		{
			Name:        "room_classify",
			Description: "Classify room type and design style from detector labels alone, without an image.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"labels": map[string]interface{}{
						"type":        "array",
						"items":       map[string]interface{}{"type": "string"},
						"description": "Detected object labels, e.g. [\"couch\", \"tv\"]",
					},
					"detections": detectionsSchema,
				},
			},
		},
		{
			Name:        "room_annotate",
			Description: "Draw detection boxes and labels on a room photo and return it as base64-encoded PNG. Uses the current analysis when it covers the same image.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path":       pathProperty,
					"detections": detectionsSchema,
					"min_score": map[string]interface{}{
						"type":        "number",
						"description": "Hide detections scoring below this (0-1). Default 0",
						"default":     0,
					},
				},
			},
		},
		{
			Name:        "room_crop_object",
			Description: "Crop one detected object, by index into the current analysis or by explicit bbox, and return it as base64-encoded PNG.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty,
					"index": map[string]interface{}{
						"type":        "integer",
						"description": "Zero-based index into the current analysis detections",
					},
					"bbox": map[string]interface{}{
						"type":        "array",
						"items":       map[string]interface{}{"type": "number"},
						"description": "[x, y, width, height]; requires path",
					},
					"scale": map[string]interface{}{
						"type":        "number",
						"description": "Optional scale factor (e.g., 2.0 to double size). Default 1.0",
						"default":     1.0,
					},
				},
			},
		},

		// Color Palettes
		{
			Name:        "color_palette_extract",
			Description: "Extract the dominant colors of a photo and suggest the closest curated style palettes.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty,
					"count": map[string]interface{}{
						"type":        "integer",
						"description": "Number of colors to extract (default 5)",
						"default":     5,
					},
					"suggestions": map[string]interface{}{
						"type":        "integer",
						"description": "Number of style palettes to suggest (default 6)",
						"default":     6,
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "color_palette_styles",
			Description: "List the curated style palettes (modern, minimalist, scandinavian, industrial).",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"style": map[string]interface{}{
						"type":        "string",
						"description": "Restrict to one style",
						"enum":        []string{"modern", "minimalist", "scandinavian", "industrial"},
					},
				},
			},
		},
	}
}

// handleToolsList returns the list of available tools
func (s *Server) handleToolsList(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"tools": GetToolDefinitions(),
		},
	}
}
