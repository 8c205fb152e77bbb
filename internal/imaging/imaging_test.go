package imaging

import (
	"encoding/base64"
	"image"
	"image/color"
	"image/png"
	"os"
	"testing"

	"github.com/diagramlab/diagram-tools-mcp/internal/geometry"
)

// solidImage creates a solid color test image.
func solidImage(width, height int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

// outlineImage creates a white image with a black rectangle outline.
func outlineImage(width, height, x1, y1, x2, y2 int) *image.RGBA {
	img := solidImage(width, height, color.White)
	for x := x1; x <= x2; x++ {
		img.Set(x, y1, color.Black)
		img.Set(x, y2, color.Black)
	}
	for y := y1; y <= y2; y++ {
		img.Set(x1, y, color.Black)
		img.Set(x2, y, color.Black)
	}
	return img
}

// tempPNG writes img to a temp file and returns its path.
func tempPNG(t *testing.T, img image.Image) string {
	t.Helper()

	f, err := os.CreateTemp(t.TempDir(), "imaging-test-*.png")
	if err != nil {
		t.Fatalf("failed to create temp file: %v", err)
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		t.Fatalf("failed to encode image: %v", err)
	}
	return f.Name()
}

func TestImageCache_LoadAndInfo(t *testing.T) {
	path := tempPNG(t, solidImage(120, 80, color.RGBA{255, 0, 0, 255}))
	cache := NewImageCache()

	info, err := LoadInfo(cache, path)
	if err != nil {
		t.Fatalf("LoadInfo: %v", err)
	}
	if info.Width != 120 || info.Height != 80 {
		t.Errorf("dimensions = %dx%d, want 120x80", info.Width, info.Height)
	}

	// Second load hits the cache even after the file disappears.
	os.Remove(path)
	if _, err := cache.Load(path); err != nil {
		t.Errorf("cached load failed: %v", err)
	}

	cache.Evict(path)
	if _, err := cache.Load(path); err == nil {
		t.Error("load after evict should re-read the missing file and fail")
	}
}

func TestImageCache_LoadMissing(t *testing.T) {
	cache := NewImageCache()
	if _, err := cache.Load("/nonexistent/diagram.png"); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestCropBox(t *testing.T) {
	img := solidImage(100, 100, color.White)

	cropped, err := CropBox(img, geometry.Box{X: 10, Y: 20, Width: 30, Height: 40})
	if err != nil {
		t.Fatalf("CropBox: %v", err)
	}
	if cropped.Bounds().Dx() != 30 || cropped.Bounds().Dy() != 40 {
		t.Errorf("cropped size = %dx%d, want 30x40", cropped.Bounds().Dx(), cropped.Bounds().Dy())
	}
}

func TestCropBox_ClampsToImage(t *testing.T) {
	img := solidImage(50, 50, color.White)

	cropped, err := CropBox(img, geometry.Box{X: 40, Y: 40, Width: 100, Height: 100})
	if err != nil {
		t.Fatalf("CropBox: %v", err)
	}
	if cropped.Bounds().Dx() != 10 || cropped.Bounds().Dy() != 10 {
		t.Errorf("cropped size = %dx%d, want clamped 10x10", cropped.Bounds().Dx(), cropped.Bounds().Dy())
	}
}

func TestCropBox_EmptyRegion(t *testing.T) {
	img := solidImage(50, 50, color.White)
	if _, err := CropBox(img, geometry.Box{X: 200, Y: 200, Width: 10, Height: 10}); err == nil {
		t.Error("expected error for a box entirely outside the image")
	}
}

func TestCropEncoded(t *testing.T) {
	img := solidImage(60, 60, color.RGBA{0, 128, 255, 255})

	res, err := CropEncoded(img, geometry.Box{X: 0, Y: 0, Width: 60, Height: 60}, 0.5)
	if err != nil {
		t.Fatalf("CropEncoded: %v", err)
	}
	if res.Width != 30 || res.Height != 30 {
		t.Errorf("scaled size = %dx%d, want 30x30", res.Width, res.Height)
	}
	if res.MimeType != "image/png" {
		t.Errorf("mime type = %q", res.MimeType)
	}

	raw, err := base64.StdEncoding.DecodeString(res.ImageBase64)
	if err != nil {
		t.Fatalf("result is not valid base64: %v", err)
	}
	if len(raw) == 0 {
		t.Error("empty encoded image")
	}
}

func TestSampleColor(t *testing.T) {
	img := solidImage(10, 10, color.RGBA{255, 0, 0, 255})

	s := SampleColor(img, 5, 5)
	if s.Hex != "#ff0000" {
		t.Errorf("hex = %q, want #ff0000", s.Hex)
	}
	if s.R != 255 || s.G != 0 || s.B != 0 {
		t.Errorf("rgb = %d,%d,%d, want 255,0,0", s.R, s.G, s.B)
	}

	// Out-of-bounds coordinates clamp instead of panicking.
	s = SampleColor(img, -10, 500)
	if s.Hex != "#ff0000" {
		t.Errorf("clamped sample hex = %q, want #ff0000", s.Hex)
	}
}

func TestAverageColor(t *testing.T) {
	img := solidImage(20, 20, color.RGBA{0, 255, 0, 255})

	s := AverageColor(img, geometry.Box{X: 0, Y: 0, Width: 20, Height: 20})
	if s.Hex != "#00ff00" {
		t.Errorf("hex = %q, want #00ff00", s.Hex)
	}
}

func TestEdgeMap(t *testing.T) {
	img := outlineImage(60, 60, 10, 10, 50, 50)
	edges := EdgeMap(img, 0)

	if len(edges) != 60 || len(edges[0]) != 60 {
		t.Fatalf("edge map size = %dx%d, want 60x60", len(edges), len(edges[0]))
	}

	// There must be edge pixels near the outline and none in the far corner.
	found := false
	for y := 8; y <= 12 && !found; y++ {
		for x := 15; x <= 45; x++ {
			if edges[y][x] {
				found = true
				break
			}
		}
	}
	if !found {
		t.Error("no edges detected near the rectangle outline")
	}

	if edges[1][1] {
		t.Error("edge detected in a uniform region")
	}
}

func TestEdgeMap_UniformImage(t *testing.T) {
	edges := EdgeMap(solidImage(30, 30, color.White), 0)
	for y := range edges {
		for x := range edges[y] {
			if edges[y][x] {
				t.Fatalf("edge at (%d,%d) in a uniform image", x, y)
			}
		}
	}
}

func TestEdgeDensity(t *testing.T) {
	edges := [][]bool{
		{true, true, false, false},
		{true, true, false, false},
		{false, false, false, false},
		{false, false, false, false},
	}

	if got := EdgeDensity(edges, 0, 0, 2, 2); got != 1.0 {
		t.Errorf("density of all-edge window = %v, want 1.0", got)
	}
	if got := EdgeDensity(edges, 2, 2, 2, 2); got != 0.0 {
		t.Errorf("density of empty window = %v, want 0.0", got)
	}
	if got := EdgeDensity(edges, 0, 0, 4, 4); got != 0.25 {
		t.Errorf("density of full map = %v, want 0.25", got)
	}

	// Windows outside the map are empty, not a panic.
	if got := EdgeDensity(edges, 10, 10, 5, 5); got != 0.0 {
		t.Errorf("out-of-range window density = %v, want 0.0", got)
	}
}
