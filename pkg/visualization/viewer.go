package visualization

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"
	"os"
	"path/filepath"

	"ebsdgrid/internal/models"
	"ebsdgrid/pkg/grain"
	"ebsdgrid/pkg/grid"
)

// Viewer renders a reconstructed grain grid as an image
type Viewer struct {
	// pixels is the grain label grid to render
	pixels *grid.PixelGrid

	// scale is the number of image pixels per grid cell along each axis
	scale int
}

// NewViewer creates a viewer for pixels. Scales below 1 are treated as 1.
func NewViewer(pixels *grid.PixelGrid, scale int) *Viewer {
	if scale < 1 {
		scale = 1
	}
	return &Viewer{
		pixels: pixels,
		scale:  scale,
	}
}

// GrainColor returns the colour used for a grain id. Void is black; other
// ids are spread around the hue circle by the golden ratio so neighbouring
// ids get clearly different colours.
func GrainColor(id int) color.RGBA {
	if id == models.Void {
		return color.RGBA{A: 255}
	}
	hue := math.Mod(float64(id)*0.618033988749895, 1)
	// Alternate lightness so grains with close hues stay distinguishable
	value := 0.95
	if id%2 == 0 {
		value = 0.75
	}
	return hsv(hue, 0.65, value)
}

// Render draws the whole grid coloured by grain id
func (v *Viewer) Render() image.Image {
	img, _ := v.RenderRegion(0, 0, v.pixels.Cols(), v.pixels.Rows())
	return img
}

// RenderRegion draws the sizeX x sizeY window whose top-left cell is
// (startX, startY)
func (v *Viewer) RenderRegion(startX, startY, sizeX, sizeY int) (image.Image, error) {
	return v.render(startX, startY, sizeX, sizeY, GrainColor)
}

// RenderPhases draws the whole grid coloured by the phase of each grain
func (v *Viewer) RenderPhases(grains grain.Table) image.Image {
	colorOf := func(id int) color.RGBA {
		rec, ok := grains.Get(id)
		if !ok {
			return GrainColor(models.Void)
		}
		// Phase ids start at 1 in most exports; shift so phase 0 is not black
		return GrainColor(rec.PhaseID + 1)
	}
	img, _ := v.render(0, 0, v.pixels.Cols(), v.pixels.Rows(), colorOf)
	return img
}

func (v *Viewer) render(startX, startY, sizeX, sizeY int, colorOf func(int) color.RGBA) (image.Image, error) {
	// Validate parameters
	if startX < 0 || startY < 0 {
		return nil, fmt.Errorf("start coordinates must be non-negative")
	}

	if sizeX <= 0 || sizeY <= 0 {
		return nil, fmt.Errorf("size dimensions must be positive")
	}

	if startX+sizeX > v.pixels.Cols() || startY+sizeY > v.pixels.Rows() {
		return nil, fmt.Errorf("region extends beyond grid boundaries")
	}

	img := image.NewRGBA(image.Rect(0, 0, sizeX*v.scale, sizeY*v.scale))
	for y := 0; y < sizeY; y++ {
		for x := 0; x < sizeX; x++ {
			c := colorOf(v.pixels.At(startX+x, startY+y))
			for dy := 0; dy < v.scale; dy++ {
				for dx := 0; dx < v.scale; dx++ {
					img.SetRGBA(x*v.scale+dx, y*v.scale+dy, c)
				}
			}
		}
	}

	return img, nil
}

// SaveImage saves img as a PNG, creating parent directories as needed
func (v *Viewer) SaveImage(img image.Image, filename string) error {
	if err := os.MkdirAll(filepath.Dir(filename), 0755); err != nil {
		return err
	}

	file, err := os.Create(filename)
	if err != nil {
		return err
	}

	if err := png.Encode(file, img); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

// hsv converts hue, saturation and value in [0, 1] to RGB
func hsv(h, s, v float64) color.RGBA {
	i := math.Floor(h * 6)
	f := h*6 - i
	p := v * (1 - s)
	q := v * (1 - f*s)
	t := v * (1 - (1-f)*s)

	var r, g, b float64
	switch int(i) % 6 {
	case 0:
		r, g, b = v, t, p
	case 1:
		r, g, b = q, v, p
	case 2:
		r, g, b = p, v, t
	case 3:
		r, g, b = p, q, v
	case 4:
		r, g, b = t, p, v
	default:
		r, g, b = v, p, q
	}

	return color.RGBA{
		R: uint8(math.Round(r * 255)),
		G: uint8(math.Round(g * 255)),
		B: uint8(math.Round(b * 255)),
		A: 255,
	}
}
