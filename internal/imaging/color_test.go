package imaging

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHex(t *testing.T) {
	tests := []struct {
		name    string
		r, g, b uint8
		want    string
	}{
		{"black", 0, 0, 0, "#000000"},
		{"white", 255, 255, 255, "#ffffff"},
		{"orange", 255, 128, 64, "#ff8040"},
		{"low values keep padding", 1, 2, 3, "#010203"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Hex(tt.r, tt.g, tt.b))
		})
	}
}

func TestParseHex(t *testing.T) {
	c, err := ParseHex("#2C3E50")
	require.NoError(t, err)
	assert.Equal(t, RGBColor{R: 0x2C, G: 0x3E, B: 0x50}, c)

	_, err = ParseHex("not-a-color")
	assert.Error(t, err)
}

func TestToHSL(t *testing.T) {
	tests := []struct {
		name string
		in   RGBColor
		want HSLColor
	}{
		{"red", RGBColor{255, 0, 0}, HSLColor{0, 100, 50}},
		{"green", RGBColor{0, 255, 0}, HSLColor{120, 100, 50}},
		{"blue", RGBColor{0, 0, 255}, HSLColor{240, 100, 50}},
		{"gray", RGBColor{128, 128, 128}, HSLColor{0, 0, 50}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ToHSL(tt.in))
		})
	}
}

func TestDominantColors(t *testing.T) {
	// 3/4 red, 1/4 blue
	img := image.NewRGBA(image.Rect(0, 0, 100, 100))
	for y := 0; y < 100; y++ {
		for x := 0; x < 100; x++ {
			if x < 75 {
				img.Set(x, y, color.RGBA{255, 0, 0, 255})
			} else {
				img.Set(x, y, color.RGBA{0, 0, 255, 255})
			}
		}
	}

	colors := DominantColors(img, 5)
	require.Len(t, colors, 2)
	// 255 quantizes to 240
	assert.Equal(t, "#f00000", colors[0].Hex)
	assert.Equal(t, 75.0, colors[0].Percentage)
	assert.Equal(t, 25.0, colors[1].Percentage)
}

func TestDominantColors_LimitsCount(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 10, 1))
	for x := 0; x < 10; x++ {
		img.Set(x, 0, color.RGBA{uint8(x * 20), 0, 0, 255})
	}

	assert.Len(t, DominantColors(img, 3), 3)
}

func TestDominantColors_QuantizesNeighbours(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 2, 1))
	img.Set(0, 0, color.RGBA{0xF0, 0xF0, 0xF0, 255})
	img.Set(1, 0, color.RGBA{0xFA, 0xFA, 0xFA, 255})

	colors := DominantColors(img, 5)
	require.Len(t, colors, 1)
	assert.Equal(t, "#f0f0f0", colors[0].Hex)
}
