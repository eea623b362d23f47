package analysis

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ironsheep/room-analyzer-mcp/internal/detection"
	"github.com/ironsheep/room-analyzer-mcp/internal/imaging"
)

func solidImage(width, height int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

func boxed(label string, x, y, w, h float64) detection.DetectedObject {
	return detection.DetectedObject{Label: label, Score: 0.9, BBox: detection.BBox{X: x, Y: y, Width: w, Height: h}}
}

func TestTier(t *testing.T) {
	assert.Equal(t, 1, Poor.Value())
	assert.Equal(t, 4, Excellent.Value())
	assert.Equal(t, 0, Poor.Index())
	assert.Equal(t, 3, Excellent.Index())
	assert.Equal(t, "good", Good.String())
	assert.False(t, Tier(0).Valid())

	parsed, err := ParseTier("fair")
	require.NoError(t, err)
	assert.Equal(t, Fair, parsed)

	_, err = ParseTier("great")
	assert.Error(t, err)
}

func TestAnalyzeColor_TwoColorsIsPoor(t *testing.T) {
	// Rows alternate between two mid-brightness colors; with a stride of 4
	// on an 8-wide image each row contributes two samples.
	img := image.NewRGBA(image.Rect(0, 0, 8, 4))
	for y := 0; y < 4; y++ {
		c := color.RGBA{200, 100, 50, 255}
		if y%2 == 1 {
			c = color.RGBA{50, 100, 200, 255}
		}
		for x := 0; x < 8; x++ {
			img.Set(x, y, c)
		}
	}

	got := AnalyzeColor(imaging.NewPixels(img))
	assert.Equal(t, []string{"#c86432", "#3264c8"}, got.Dominant)
	assert.Equal(t, []ColorSample{{"#c86432", 4}, {"#3264c8", 4}}, got.Samples)
	assert.Equal(t, Poor, got.Harmony)
	assert.Equal(t, []string{"Add a unifying accent color", "Consider a more cohesive color palette"}, got.Suggestions)
}

func TestAnalyzeColor_SkipsShadowsAndGlare(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 4, 3))
	fill := func(y int, c color.RGBA) {
		for x := 0; x < 4; x++ {
			img.Set(x, y, c)
		}
	}
	fill(0, color.RGBA{10, 10, 10, 255})    // near black
	fill(1, color.RGBA{240, 240, 240, 255}) // near white
	fill(2, color.RGBA{120, 90, 60, 255})

	got := AnalyzeColor(imaging.NewPixels(img))
	assert.Equal(t, []string{"#785a3c"}, got.Dominant)
}

func TestAnalyzeColor_TopFiveByFrequency(t *testing.T) {
	// One sampled pixel per row (width 4, stride 4); row i repeats color i
	// counts[i] times.
	palette := []color.RGBA{
		{100, 50, 50, 255},
		{50, 100, 50, 255},
		{50, 50, 100, 255},
		{100, 100, 50, 255},
		{100, 50, 100, 255},
		{50, 100, 100, 255},
	}
	counts := []int{1, 6, 2, 5, 3, 4}

	var rows []color.RGBA
	for i, c := range palette {
		for n := 0; n < counts[i]; n++ {
			rows = append(rows, c)
		}
	}
	img := image.NewRGBA(image.Rect(0, 0, 4, len(rows)))
	for y, c := range rows {
		for x := 0; x < 4; x++ {
			img.Set(x, y, c)
		}
	}

	got := AnalyzeColor(imaging.NewPixels(img))
	assert.Equal(t, []string{"#326432", "#646432", "#326464", "#643264", "#323264"}, got.Dominant)
	assert.Equal(t, Good, got.Harmony)
	assert.Equal(t, []string{"Great color harmony!", "Consider adding metallic accents"}, got.Suggestions)
}

func TestAnalyzeColor_Empty(t *testing.T) {
	got := AnalyzeColor(&imaging.Pixels{})
	assert.Empty(t, got.Dominant)
	assert.Equal(t, Poor, got.Harmony)
}

func TestHarmonyTier(t *testing.T) {
	assert.Equal(t, Poor, HarmonyTier(0))
	assert.Equal(t, Poor, HarmonyTier(2))
	assert.Equal(t, Good, HarmonyTier(3))
	assert.Equal(t, Good, HarmonyTier(5))
	assert.Equal(t, Good, HarmonyTier(6))
	assert.Equal(t, Fair, HarmonyTier(7))
}

func TestLightingTier_Boundaries(t *testing.T) {
	tests := []struct {
		brightness float64
		want       Tier
	}{
		{0, Poor},
		{79.99, Poor},
		{80, Fair},
		{119.99, Fair},
		{120, Good},
		{179.99, Good},
		{180, Excellent},
		{255, Excellent},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, LightingTier(tt.brightness), "brightness %.2f", tt.brightness)
	}
}

func TestLightingTier_Monotonic(t *testing.T) {
	prev := LightingTier(0)
	for b := 0.0; b <= 255; b += 0.5 {
		cur := LightingTier(b)
		require.GreaterOrEqual(t, cur.Index(), prev.Index(), "tier dropped at brightness %.1f", b)
		prev = cur
	}
}

func TestAnalyzeLighting(t *testing.T) {
	dark := AnalyzeLighting(imaging.NewPixels(solidImage(10, 10, color.RGBA{30, 40, 50, 255})))
	assert.Equal(t, Poor, dark.Quality)
	assert.Equal(t, "Insufficient lighting", dark.Type)
	assert.Equal(t, 40.0, dark.Brightness)
	assert.Len(t, dark.Suggestions, 4)

	bright := AnalyzeLighting(imaging.NewPixels(solidImage(10, 10, color.RGBA{250, 250, 250, 255})))
	assert.Equal(t, Excellent, bright.Quality)
	assert.Equal(t, "Bright, well-lit space", bright.Type)
}

func TestMeanBrightness_UsesEveryPixel(t *testing.T) {
	img := solidImage(2, 1, color.RGBA{0, 0, 0, 255})
	img.Set(1, 0, color.RGBA{200, 200, 200, 255})

	assert.Equal(t, 100.0, MeanBrightness(imaging.NewPixels(img)))
	assert.Equal(t, 0.0, MeanBrightness(&imaging.Pixels{}))
}

func TestUtilization(t *testing.T) {
	tests := []struct {
		name    string
		objects []detection.DetectedObject
		want    int
	}{
		{"none", nil, 0},
		{"half", []detection.DetectedObject{boxed("couch", 0, 0, 50, 100)}, 50},
		{"rounds", []detection.DetectedObject{boxed("couch", 0, 0, 50, 50), boxed("tv", 60, 0, 20, 20)}, 29},
		{"overlap is summed", []detection.DetectedObject{boxed("a", 0, 0, 50, 50), boxed("b", 0, 0, 50, 50)}, 50},
		{"clamped", []detection.DetectedObject{boxed("bed", -10, -10, 200, 200)}, 100},
		{"negative box floors at zero", []detection.DetectedObject{boxed("odd", 0, 0, -10, 10)}, 0},
		{"huge box clamps to full", []detection.DetectedObject{boxed("couch", 0, 0, 1e12, 1e12)}, 100},
		{"infinite area clamps to full", []detection.DetectedObject{boxed("couch", 0, 0, 1e308, 1e308)}, 100},
		{"undefined area is empty", []detection.DetectedObject{boxed("a", 0, 0, 1e308, 1e308), boxed("b", 0, 0, -1e308, 1e308)}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Utilization(tt.objects, 100, 100))
		})
	}

	assert.Equal(t, 0, Utilization([]detection.DetectedObject{boxed("a", 0, 0, 5, 5)}, 0, 0))
}

func TestSpaceTier(t *testing.T) {
	assert.Equal(t, Poor, SpaceTier(29))
	assert.Equal(t, Fair, SpaceTier(30))
	assert.Equal(t, Fair, SpaceTier(49))
	assert.Equal(t, Good, SpaceTier(50))
	assert.Equal(t, Good, SpaceTier(74))
	assert.Equal(t, Excellent, SpaceTier(75))
	assert.Equal(t, Excellent, SpaceTier(100))
}

func TestAnalyzeSpace(t *testing.T) {
	got := AnalyzeSpace([]detection.DetectedObject{boxed("bed", 0, 0, 100, 60)}, 100, 100)
	assert.Equal(t, 60, got.Utilization)
	assert.Equal(t, Good, got.Flow)
	assert.Equal(t, []string{"Great space utilization", "Consider minor adjustments for flow"}, got.Suggestions)

	huge := AnalyzeSpace([]detection.DetectedObject{boxed("couch", 0, 0, 1e12, 1e12)}, 100, 100)
	assert.Equal(t, 100, huge.Utilization)
	assert.Equal(t, Excellent, huge.Flow)
}

func TestEvaluateArrangement(t *testing.T) {
	tests := []struct {
		name    string
		objects []detection.DetectedObject
		want    Tier
	}{
		{"no detections falls back to fair", nil, Fair},
		{"centred", []detection.DetectedObject{boxed("couch", 40, 40, 20, 20)}, Excellent},
		{"corner", []detection.DetectedObject{boxed("lamp", 0, 0, 0, 0)}, Poor},
		{"mixed", []detection.DetectedObject{boxed("couch", 0, 0, 50, 50), boxed("tv", 60, 0, 20, 20)}, Fair},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, EvaluateArrangement(tt.objects, 100, 100))
		})
	}
}

func TestArrangementScore(t *testing.T) {
	score, ok := ArrangementScore([]detection.DetectedObject{boxed("lamp", 100, 100, 0, 0)}, 100, 100)
	require.True(t, ok)
	assert.InDelta(t, 1.0, score, 1e-9)

	_, ok = ArrangementScore([]detection.DetectedObject{boxed("lamp", 0, 0, 1, 1)}, 0, 0)
	assert.False(t, ok, "zero-size image has no half-diagonal")
	assert.Equal(t, Fair, EvaluateArrangement([]detection.DetectedObject{boxed("lamp", 0, 0, 1, 1)}, 0, 0))
}

func TestFurnitureInventory(t *testing.T) {
	objs := objects("couch", "cup", "vase", "potted plant", "chair")
	assert.Equal(t, []string{"couch", "vase", "chair"}, DetectedFurniture(objs))

	assert.Equal(t, []string{"Entertainment center"}, MissingFurniture(RoomLivingRoom, objs))
	assert.Equal(t, []string{"Seating furniture"}, MissingFurniture(RoomLivingRoom, objects("tv")))
	assert.Equal(t, []string{}, MissingFurniture(RoomBedroom, objects("bed")))
	assert.Equal(t, []string{"Bed"}, MissingFurniture(RoomBedroom, nil))
	assert.Equal(t, []string{}, MissingFurniture(RoomKitchen, nil))

	assert.Len(t, FurnitureSuggestions(RoomLivingRoom), 2)
	assert.Len(t, FurnitureSuggestions(RoomBedroom), 2)
	assert.Empty(t, FurnitureSuggestions(RoomBathroom))
}
