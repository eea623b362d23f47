package imaging

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// rgb8 returns the 8-bit color channels of img at (x, y).
func rgb8(img image.Image, x, y int) [3]uint8 {
	r, g, b, _ := img.At(x, y).RGBA()
	return [3]uint8{uint8(r >> 8), uint8(g >> 8), uint8(b >> 8)}
}

func TestAnnotate(t *testing.T) {
	img := createInMemoryImage(100, 100, color.RGBA{0, 0, 0, 255})

	result, err := Annotate(img, []Annotation{
		{Label: "couch", Score: 0.91, Rect: image.Rect(0, 40, 60, 90)},
		{Label: "tv", Score: 0.77, Rect: image.Rect(60, 0, 80, 20)},
	})
	require.NoError(t, err)
	assert.Equal(t, 100, result.Width)
	assert.Equal(t, 100, result.Height)
	assert.Equal(t, 2, result.Boxes)

	out := decodeResult(t, result.ImageBase64)

	// Bottom edge of the couch box uses the first palette color
	assert.Equal(t, [3]uint8{16, 185, 129}, rgb8(out, 30, 89))
	assert.Equal(t, [3]uint8{0, 0, 0}, rgb8(out, 30, 70), "interior")
}

func TestAnnotate_DoesNotModifySource(t *testing.T) {
	img := createInMemoryImage(20, 20, color.RGBA{0, 0, 0, 255})

	_, err := Annotate(img, []Annotation{{Label: "vase", Score: 0.5, Rect: image.Rect(0, 0, 20, 20)}})
	require.NoError(t, err)

	assert.Equal(t, color.RGBA{0, 0, 0, 255}, img.RGBAAt(0, 0))
}

func TestAnnotate_SkipsBoxesOutsideImage(t *testing.T) {
	img := createInMemoryImage(20, 20, color.RGBA{0, 0, 0, 255})

	result, err := Annotate(img, []Annotation{{Label: "ghost", Score: 0.1, Rect: image.Rect(50, 50, 60, 60)}})
	require.NoError(t, err)
	assert.Equal(t, 0, result.Boxes)

	out := decodeResult(t, result.ImageBase64)
	for y := 0; y < 20; y++ {
		for x := 0; x < 20; x++ {
			require.Equal(t, [3]uint8{0, 0, 0}, rgb8(out, x, y), "pixel (%d,%d) drawn for an off-image box", x, y)
		}
	}
}

func TestAnnotate_CountsOnlyDrawnBoxes(t *testing.T) {
	img := createInMemoryImage(20, 20, color.RGBA{0, 0, 0, 255})

	result, err := Annotate(img, []Annotation{
		{Label: "lamp", Score: 0.8, Rect: image.Rect(2, 2, 10, 10)},
		{Label: "ghost", Score: 0.1, Rect: image.Rect(50, 50, 60, 60)},
		{Label: "rug", Score: 0.6, Rect: image.Rect(15, 15, 40, 40)},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, result.Boxes)
}
