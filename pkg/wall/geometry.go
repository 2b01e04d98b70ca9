package wall

import (
	"math"

	"github.com/matzehuels/ledwall/pkg/catalog"
)

// Grid is the resolved module grid of one wall.
type Grid struct {
	WidthModules    int     `json:"finalWidthModules"`
	HeightModules   int     `json:"finalHeightModules"`
	WidthCm         float64 `json:"finalWidthCm"`
	HeightCm        float64 `json:"finalHeightCm"`
	WidthM          float64 `json:"widthM"`
	HeightM         float64 `json:"heightM"`
	AreaM2          float64 `json:"areaM2"`
	TotalModules    int     `json:"totalModules"`
	ResolutionW     int     `json:"resolutionW"`
	ResolutionH     int     `json:"resolutionH"`
	TotalPixels     int     `json:"totalPixels"`
	Megapixels      float64 `json:"megapixels"`
	PixelsPerModule int     `json:"pixelsPerModule"`
	PixelDensity    int     `json:"pixelDensity"`
	AspectRatio     float64 `json:"aspectRatio"`
}

// ResolveGrid turns the requested width and height into a whole-module grid.
//
// In [ModeByCount] width and height are module counts. In [ModeBySize] they
// are centimeters and are rounded up, so the requested size is a lower bound
// and the physical size is recomputed from the module count. Callers are
// expected to pass values already clamped by [Input.Normalize].
func ResolveGrid(m catalog.Module, mode InputMode, width, height float64) Grid {
	var g Grid
	if mode == ModeBySize {
		g.WidthModules = ceilModules(width, m.WidthCm)
		g.HeightModules = ceilModules(height, m.HeightCm)
	} else {
		g.WidthModules = int(clampCount(width))
		g.HeightModules = int(clampCount(height))
	}
	g.WidthCm = float64(g.WidthModules) * m.WidthCm
	g.HeightCm = float64(g.HeightModules) * m.HeightCm
	g.WidthM = g.WidthCm / 100
	g.HeightM = g.HeightCm / 100
	g.AreaM2 = g.WidthCm * g.HeightCm / 10000

	g.TotalModules = g.WidthModules * g.HeightModules
	g.ResolutionW = g.WidthModules * m.PixelsW
	g.ResolutionH = g.HeightModules * m.PixelsH
	g.TotalPixels = g.ResolutionW * g.ResolutionH
	g.Megapixels = float64(g.TotalPixels) / 1e6
	g.PixelsPerModule = m.PixelsPerModule()
	if g.AreaM2 > 0 {
		g.PixelDensity = int(math.Round(float64(g.TotalPixels) / g.AreaM2))
	}
	if g.ResolutionH > 0 {
		g.AspectRatio = float64(g.ResolutionW) / float64(g.ResolutionH)
	}
	return g
}

// ceilModules rounds size/moduleSize up, tolerating float noise so that an
// exact multiple (384 cm of 64 cm modules) never gains an extra module. The
// result is clamped like a by-count side.
func ceilModules(size, moduleSize float64) int {
	if moduleSize <= 0 {
		return 1
	}
	return int(clampCount(math.Ceil(size/moduleSize - 1e-9)))
}
