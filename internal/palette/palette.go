package palette

import (
	"fmt"
	"image"
	"sort"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"
	"gonum.org/v1/gonum/stat"

	"github.com/ironsheep/room-analyzer-mcp/internal/imaging"
)

const (
	// DefaultExtractCount is the number of colors Extract returns when asked for none.
	DefaultExtractCount = 5

	// DefaultSuggestCount is the number of style palettes Suggest returns when asked for none.
	DefaultSuggestCount = 6
)

// StylePalette is one curated five-color palette for a design style.
type StylePalette struct {
	Style  string   `json:"style"`
	Colors []string `json:"colors"`
}

// Suggestion is a style palette with its distance to an extracted palette.
// Lower distances are closer matches.
type Suggestion struct {
	StylePalette
	Distance float64 `json:"distance"`
}

var catalog = []StylePalette{
	{"modern", []string{"#2c3e50", "#e74c3c", "#ecf0f1", "#3498db", "#2ecc71"}},
	{"modern", []string{"#34495e", "#9b59b6", "#f1c40f", "#e67e22", "#1abc9c"}},
	{"modern", []string{"#2980b9", "#27ae60", "#f39c12", "#8e44ad", "#c0392b"}},
	{"minimalist", []string{"#ffffff", "#000000", "#cccccc", "#666666", "#999999"}},
	{"minimalist", []string{"#f5f5f5", "#2c3e50", "#bdc3c7", "#7f8c8d", "#95a5a6"}},
	{"minimalist", []string{"#fafafa", "#34495e", "#ecf0f1", "#95a5a6", "#bdc3c7"}},
	{"scandinavian", []string{"#ffffff", "#e6e6e6", "#b2d8d8", "#66b2b2", "#008080"}},
	{"scandinavian", []string{"#f5f5f5", "#006d77", "#83c5be", "#edf6f9", "#ffddd2"}},
	{"scandinavian", []string{"#ffffff", "#006d77", "#e29578", "#edf6f9", "#83c5be"}},
	{"industrial", []string{"#2b2b2b", "#4a4a4a", "#8c8c8c", "#bfbfbf", "#d9d9d9"}},
	{"industrial", []string{"#1a1a1a", "#4d4d4d", "#808080", "#a6a6a6", "#bfbfbf"}},
	{"industrial", []string{"#262626", "#595959", "#8c8c8c", "#a6a6a6", "#d9d9d9"}},
}

// Styles returns the style names in catalog order.
func Styles() []string {
	var names []string
	seen := make(map[string]bool)
	for _, p := range catalog {
		if !seen[p.Style] {
			seen[p.Style] = true
			names = append(names, p.Style)
		}
	}
	return names
}

// Palettes returns a copy of the catalog, optionally restricted to one style
// (case-insensitive). An unknown style is an error.
func Palettes(style string) ([]StylePalette, error) {
	style = strings.ToLower(strings.TrimSpace(style))
	var out []StylePalette
	for _, p := range catalog {
		if style != "" && p.Style != style {
			continue
		}
		out = append(out, StylePalette{Style: p.Style, Colors: append([]string(nil), p.Colors...)})
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("unknown style %q (known: %s)", style, strings.Join(Styles(), ", "))
	}
	return out, nil
}

// Extract returns the n most frequent quantised colors of img.
func Extract(img image.Image, n int) []imaging.ColorFrequency {
	if n <= 0 {
		n = DefaultExtractCount
	}
	return imaging.DominantColors(img, n)
}

// Suggest ranks the catalog against an extracted palette and returns the n
// closest style palettes.
//
// The distance of a style palette is the mean, over the extracted colors, of
// the CIEDE2000 difference to the nearest color in that palette. Equal
// distances keep catalog order. Malformed hex values are an error.
func Suggest(extracted []string, n int) ([]Suggestion, error) {
	if n <= 0 {
		n = DefaultSuggestCount
	}

	source, err := parseAll(extracted)
	if err != nil {
		return nil, err
	}

	suggestions := make([]Suggestion, 0, len(catalog))
	for _, p := range catalog {
		target, err := parseAll(p.Colors)
		if err != nil {
			return nil, err
		}
		suggestions = append(suggestions, Suggestion{
			StylePalette: StylePalette{Style: p.Style, Colors: append([]string(nil), p.Colors...)},
			Distance:     distance(source, target),
		})
	}

	sort.SliceStable(suggestions, func(i, j int) bool {
		return suggestions[i].Distance < suggestions[j].Distance
	})
	if len(suggestions) > n {
		suggestions = suggestions[:n]
	}
	return suggestions, nil
}

func parseAll(hexes []string) ([]colorful.Color, error) {
	colors := make([]colorful.Color, len(hexes))
	for i, h := range hexes {
		c, err := colorful.Hex(strings.ToLower(h))
		if err != nil {
			return nil, fmt.Errorf("invalid hex color %q: %w", h, err)
		}
		colors[i] = c
	}
	return colors, nil
}

func distance(source, target []colorful.Color) float64 {
	if len(source) == 0 {
		return 0
	}
	nearest := make([]float64, len(source))
	for i, s := range source {
		best := -1.0
		for _, t := range target {
			if d := s.DistanceCIEDE2000(t); best < 0 || d < best {
				best = d
			}
		}
		nearest[i] = best
	}
	return stat.Mean(nearest, nil)
}
