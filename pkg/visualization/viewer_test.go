package visualization

import (
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"gonum.org/v1/gonum/num/quat"

	"ebsdgrid/pkg/grain"
	"ebsdgrid/pkg/grid"
)

// createTestGrid builds a 3 x 2 grid with two grains and one void cell
func createTestGrid(t *testing.T) *grid.PixelGrid {
	t.Helper()
	g, err := grid.New(2, 3)
	if err != nil {
		t.Fatalf("Failed to create grid: %v", err)
	}
	cells := [][]int{
		{1, 1, 2},
		{2, 0, 2},
	}
	for y, row := range cells {
		for x, id := range row {
			if err := g.SetCell(x, y, id); err != nil {
				t.Fatalf("SetCell failed: %v", err)
			}
		}
	}
	return g
}

// TestNewViewer verifies that a new viewer is created with the correct parameters
func TestNewViewer(t *testing.T) {
	g := createTestGrid(t)

	viewer := NewViewer(g, 4)
	if viewer.scale != 4 {
		t.Errorf("Expected scale 4, got %d", viewer.scale)
	}
	if viewer.pixels != g {
		t.Error("Expected viewer to hold the given grid")
	}

	// Non-positive scales fall back to one pixel per cell
	if NewViewer(g, 0).scale != 1 {
		t.Error("Expected scale 0 to be treated as 1")
	}
}

// TestGrainColor verifies void is black and grain colours are stable and distinct
func TestGrainColor(t *testing.T) {
	void := GrainColor(0)
	if void.R != 0 || void.G != 0 || void.B != 0 || void.A != 255 {
		t.Errorf("Expected opaque black for void, got %v", void)
	}

	if GrainColor(7) != GrainColor(7) {
		t.Error("Expected grain colour to be deterministic")
	}

	seen := make(map[[3]uint8]int)
	for id := 1; id <= 20; id++ {
		c := GrainColor(id)
		key := [3]uint8{c.R, c.G, c.B}
		if prev, dup := seen[key]; dup {
			t.Errorf("Grains %d and %d share colour %v", prev, id, c)
		}
		seen[key] = id
	}
}

// TestRender verifies image size and cell colours
func TestRender(t *testing.T) {
	viewer := NewViewer(createTestGrid(t), 2)
	img := viewer.Render()

	bounds := img.Bounds()
	if bounds.Dx() != 6 || bounds.Dy() != 4 {
		t.Fatalf("Expected 6x4 image, got %dx%d", bounds.Dx(), bounds.Dy())
	}

	checks := []struct {
		px, py int
		id     int
	}{
		{0, 0, 1},
		{3, 1, 1},
		{5, 0, 2},
		{0, 3, 2},
		{2, 2, 0},
		{3, 3, 0},
	}
	for _, c := range checks {
		want := GrainColor(c.id)
		r, g, b, a := img.At(c.px, c.py).RGBA()
		if uint8(r>>8) != want.R || uint8(g>>8) != want.G || uint8(b>>8) != want.B || uint8(a>>8) != want.A {
			t.Errorf("Pixel (%d, %d): expected colour of grain %d", c.px, c.py, c.id)
		}
	}
}

// TestRenderRegion verifies window validation and cropping
func TestRenderRegion(t *testing.T) {
	viewer := NewViewer(createTestGrid(t), 1)

	img, err := viewer.RenderRegion(1, 1, 2, 1)
	if err != nil {
		t.Fatalf("RenderRegion failed: %v", err)
	}
	if img.Bounds().Dx() != 2 || img.Bounds().Dy() != 1 {
		t.Errorf("Expected 2x1 image, got %v", img.Bounds())
	}

	invalid := [][4]int{
		{-1, 0, 1, 1},
		{0, 0, 0, 1},
		{2, 0, 2, 1},
		{0, 1, 1, 2},
	}
	for _, r := range invalid {
		if _, err := viewer.RenderRegion(r[0], r[1], r[2], r[3]); err == nil {
			t.Errorf("RenderRegion(%v): expected error, got nil", r)
		}
	}
}

// TestRenderPhases verifies grains of the same phase share a colour
func TestRenderPhases(t *testing.T) {
	grains := grain.NewTable()
	_ = grains.Observe(1, 3, quat.Number{Real: 1})
	_ = grains.Observe(2, 3, quat.Number{Real: 1})

	img := NewViewer(createTestGrid(t), 1).RenderPhases(grains)
	if img.At(0, 0) != img.At(2, 0) {
		t.Error("Expected grains 1 and 2 of the same phase to share a colour")
	}
	if img.At(0, 0) == img.At(1, 1) {
		t.Error("Expected void to differ from phase colour")
	}
}

// TestSaveImage verifies that the rendered map is written as a readable PNG
func TestSaveImage(t *testing.T) {
	viewer := NewViewer(createTestGrid(t), 3)
	filename := filepath.Join(t.TempDir(), "maps", "grains.png")

	if err := viewer.SaveImage(viewer.Render(), filename); err != nil {
		t.Fatalf("Failed to save image: %v", err)
	}

	file, err := os.Open(filename)
	if err != nil {
		t.Fatalf("Failed to open saved image: %v", err)
	}
	defer file.Close()

	img, err := png.Decode(file)
	if err != nil {
		t.Fatalf("Failed to decode saved image: %v", err)
	}
	if img.Bounds().Dx() != 9 || img.Bounds().Dy() != 6 {
		t.Errorf("Expected 9x6 image, got %v", img.Bounds())
	}
}
