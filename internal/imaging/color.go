package imaging

import (
	"fmt"
	"image"
	"math"
	"sort"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// RGBColor represents an RGB color with 8-bit components.
type RGBColor struct {
	R uint8 `json:"r"` // Red component (0-255)
	G uint8 `json:"g"` // Green component (0-255)
	B uint8 `json:"b"` // Blue component (0-255)
}

// HSLColor represents a color in HSL (Hue, Saturation, Lightness) color space.
type HSLColor struct {
	H int `json:"h"` // Hue: 0-360 degrees (0=red, 120=green, 240=blue)
	S int `json:"s"` // Saturation: 0-100 percent (0=gray, 100=vivid)
	L int `json:"l"` // Lightness: 0-100 percent (0=black, 50=normal, 100=white)
}

// Hex formats 8-bit components as a lowercase "#rrggbb" string.
func Hex(r, g, b uint8) string {
	return colorful.Color{
		R: float64(r) / 255,
		G: float64(g) / 255,
		B: float64(b) / 255,
	}.Hex()
}

// ParseHex parses a "#rrggbb" string (either case) into 8-bit components.
func ParseHex(hex string) (RGBColor, error) {
	c, err := colorful.Hex(hex)
	if err != nil {
		return RGBColor{}, fmt.Errorf("invalid hex color %q: %w", hex, err)
	}
	r, g, b := c.RGB255()
	return RGBColor{R: r, G: g, B: b}, nil
}

// ToHSL converts an RGB color to rounded HSL components.
func ToHSL(c RGBColor) HSLColor {
	h, s, l := colorful.Color{
		R: float64(c.R) / 255,
		G: float64(c.G) / 255,
		B: float64(c.B) / 255,
	}.Hsl()
	if math.IsNaN(h) {
		h = 0
	}
	return HSLColor{
		H: int(math.Round(h)) % 360,
		S: int(math.Round(s * 100)),
		L: int(math.Round(l * 100)),
	}
}

// ColorFrequency represents a color and its occurrence frequency in an image.
type ColorFrequency struct {
	Hex        string   `json:"hex"`        // Hex color "#rrggbb" (quantized)
	Percentage float64  `json:"percentage"` // Percentage of pixels with this color (0-100)
	RGB        RGBColor `json:"rgb"`        // RGB components (quantized)
	HSL        HSLColor `json:"hsl"`        // HSL representation
}

// DominantColors extracts the count most common colors from an image.
//
// RGB values are quantized by dividing each component by 16 and rounding
// down, so colors within 16 units of each other (per component) are grouped:
//
//	quantized = (original / 16) * 16
//
// Colors are sorted by frequency in descending order; ties keep the order in
// which the colors were first seen during the top-to-bottom scan.
func DominantColors(img image.Image, count int) []ColorFrequency {
	px := NewPixels(img)

	counts := make(map[RGBColor]int)
	var order []RGBColor
	for i := 0; i < px.Len(); i++ {
		r, g, b := px.RGB(i)
		q := RGBColor{R: r / 16 * 16, G: g / 16 * 16, B: b / 16 * 16}
		if counts[q] == 0 {
			order = append(order, q)
		}
		counts[q]++
	}

	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})
	if len(order) > count {
		order = order[:count]
	}

	total := px.Len()
	colors := make([]ColorFrequency, 0, len(order))
	for _, c := range order {
		colors = append(colors, ColorFrequency{
			Hex:        Hex(c.R, c.G, c.B),
			Percentage: math.Round(float64(counts[c])/float64(total)*1000) / 10,
			RGB:        c,
			HSL:        ToHSL(c),
		})
	}
	return colors
}
