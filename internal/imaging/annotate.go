package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"

	"github.com/anthonynsimon/bild/clone"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Annotation is a labelled box to draw on top of an image.
type Annotation struct {
	Label string
	Score float64
	Rect  image.Rectangle
}

// AnnotateResult contains the annotated image encoded as PNG.
type AnnotateResult struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`
	// Boxes counts the annotations drawn; ones outside the image are skipped.
	Boxes int `json:"boxes"`
}

// boxColors cycles per distinct label so the same label keeps its color.
var boxColors = []color.RGBA{
	{16, 185, 129, 255}, // emerald
	{239, 68, 68, 255},  // red
	{59, 130, 246, 255}, // blue
	{245, 158, 11, 255}, // amber
	{168, 85, 247, 255}, // purple
	{236, 72, 153, 255}, // pink
}

const boxStroke = 2

// Annotate draws each annotation as an outlined box with a "label 0.93"
// caption on a copy of img. The source image is not modified.
func Annotate(img image.Image, annotations []Annotation) (*AnnotateResult, error) {
	canvas := clone.AsRGBA(img)
	bounds := canvas.Bounds()

	labelColors := make(map[string]color.RGBA)
	drawn := 0
	for _, a := range annotations {
		c, ok := labelColors[a.Label]
		if !ok {
			c = boxColors[len(labelColors)%len(boxColors)]
			labelColors[a.Label] = c
		}

		r := a.Rect.Intersect(bounds)
		if r.Empty() {
			continue
		}
		drawOutline(canvas, r, c)
		drawCaption(canvas, r.Min, fmt.Sprintf("%s %.2f", a.Label, a.Score), c)
		drawn++
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, canvas); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}

	return &AnnotateResult{
		Width:       bounds.Dx(),
		Height:      bounds.Dy(),
		ImageBase64: base64.StdEncoding.EncodeToString(buf.Bytes()),
		MimeType:    "image/png",
		Boxes:       drawn,
	}, nil
}

func drawOutline(dst *image.RGBA, r image.Rectangle, c color.RGBA) {
	src := image.NewUniform(c)
	edges := []image.Rectangle{
		image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+boxStroke),
		image.Rect(r.Min.X, r.Max.Y-boxStroke, r.Max.X, r.Max.Y),
		image.Rect(r.Min.X, r.Min.Y, r.Min.X+boxStroke, r.Max.Y),
		image.Rect(r.Max.X-boxStroke, r.Min.Y, r.Max.X, r.Max.Y),
	}
	for _, e := range edges {
		draw.Draw(dst, e.Intersect(r), src, image.Point{}, draw.Src)
	}
}

// drawCaption renders text on a filled tab anchored at the box's top-left corner.
func drawCaption(dst *image.RGBA, at image.Point, text string, bg color.RGBA) {
	face := basicfont.Face7x13
	width := font.MeasureString(face, text).Ceil() + 4
	height := face.Metrics().Height.Ceil() + 2

	tab := image.Rect(at.X, at.Y, at.X+width, at.Y+height).Intersect(dst.Bounds())
	draw.Draw(dst, tab, image.NewUniform(bg), image.Point{}, draw.Src)

	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(color.White),
		Face: face,
		Dot:  fixed.P(at.X+2, at.Y+face.Metrics().Ascent.Ceil()+1),
	}
	d.DrawString(text)
}
