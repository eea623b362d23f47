package imaging

import (
	"image"

	"github.com/disintegration/imaging"
)

// Pixels is a raw, non-premultiplied RGBA buffer in row-major order.
//
// The layout matches what a browser canvas returns from getImageData: four
// bytes per pixel (R, G, B, A), rows packed without padding, origin at the
// top-left corner. Analyzers that scan an image linearly work on this type
// instead of image.Image so the scan order is well defined.
type Pixels struct {
	Width  int
	Height int
	Pix    []uint8
}

// NewPixels flattens img into a Pixels buffer.
//
// The image is normalised to NRGBA with disintegration/imaging so alpha is
// not premultiplied into the color channels. Fully transparent pixels read
// as 0,0,0,0, as they do from a canvas.
func NewPixels(img image.Image) *Pixels {
	src := imaging.Clone(img)
	w, h := src.Rect.Dx(), src.Rect.Dy()

	pix := make([]uint8, 0, w*h*4)
	for y := 0; y < h; y++ {
		start := y * src.Stride
		pix = append(pix, src.Pix[start:start+w*4]...)
	}
	for o := 3; o < len(pix); o += 4 {
		if pix[o] == 0 {
			pix[o-3], pix[o-2], pix[o-1] = 0, 0, 0
		}
	}

	return &Pixels{Width: w, Height: h, Pix: pix}
}

// Len returns the number of pixels in the buffer.
func (p *Pixels) Len() int {
	return len(p.Pix) / 4
}

// RGB returns the color channels of the i-th pixel in linear order.
func (p *Pixels) RGB(i int) (r, g, b uint8) {
	o := i * 4
	return p.Pix[o], p.Pix[o+1], p.Pix[o+2]
}

// Brightness returns the mean of the R, G and B channels of the i-th pixel.
func (p *Pixels) Brightness(i int) float64 {
	r, g, b := p.RGB(i)
	return (float64(r) + float64(g) + float64(b)) / 3
}
