// Package pixelmap renders a wall layout as an SVG pixel map.
//
// The map is drawn at the wall's native resolution: one SVG unit per LED
// pixel. Every module is filled with the color of the processor driving it,
// arrows follow each output's cable chain, and each chain's first module
// carries a circled output number. A centered name box, a processor legend
// and a two-line info bar complete the map.
package pixelmap

import (
	"bytes"
	"fmt"
	"html"
	"math"

	"github.com/matzehuels/ledwall/pkg/wall"
)

// Option configures pixel map rendering.
type Option func(*renderer)

type renderer struct {
	projectName string
	scheme      ColorScheme
	arrows      bool
	labels      bool
	infoBar     bool
}

// WithProjectName sets the text of the centered name box.
func WithProjectName(name string) Option { return func(r *renderer) { r.projectName = name } }

// WithColorScheme sets the checkerboard used when one processor drives the
// whole wall. Multi-processor walls always use [ProcessorColors].
func WithColorScheme(s ColorScheme) Option { return func(r *renderer) { r.scheme = s } }

// WithoutArrows omits the cable direction arrows.
func WithoutArrows() Option { return func(r *renderer) { r.arrows = false } }

// WithoutLabels omits the circled output numbers.
func WithoutLabels() Option { return func(r *renderer) { r.labels = false } }

// WithoutInfoBar omits the info bar at the bottom.
func WithoutInfoBar() Option { return func(r *renderer) { r.infoBar = false } }

func newRenderer(opts ...Option) renderer {
	r := renderer{
		scheme:  Schemes[0],
		arrows:  true,
		labels:  true,
		infoBar: true,
	}
	for _, opt := range opts {
		opt(&r)
	}
	return r
}

// RenderSVG draws the pixel map of res.
func RenderSVG(res *wall.Result, opts ...Option) []byte {
	r := newRenderer(opts...)
	w, h := res.ResolutionW, res.ResolutionH
	multi := len(res.Bands) > 1

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %d %d" width="%d" height="%d" font-family="Arial, Helvetica, sans-serif">`+"\n",
		w, h, w, h)
	fmt.Fprintf(&buf, `  <rect width="%d" height="%d" fill="#000000"/>`+"\n", w, h)

	r.renderModules(&buf, res, multi)
	if multi {
		renderDividers(&buf, res)
	}
	if r.arrows {
		renderArrows(&buf, res)
	}
	if r.labels {
		renderLabels(&buf, res)
	}
	if r.projectName != "" {
		renderNameBox(&buf, res, r.projectName)
	}
	if multi {
		renderLegend(&buf, res)
	}
	if r.infoBar {
		renderInfoBar(&buf, res)
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

// =============================================================================
// Layers
// =============================================================================

func (r *renderer) renderModules(buf *bytes.Buffer, res *wall.Result, multi bool) {
	m := res.Module
	stroke := math.Max(2, float64(min(m.PixelsW, m.PixelsH))/50)

	buf.WriteString(`  <g id="modules">` + "\n")
	for _, g := range res.OutputGroups {
		pc := ColorFor(g.ProcessorIndex)
		for _, c := range g.Modules {
			fill := pc.Primary
			if multi {
				if (c.Row+c.Col)%2 == 1 {
					fill = pc.Secondary
				}
			} else {
				fill = r.scheme.Colors[(c.Row+c.Col)%2]
			}
			fmt.Fprintf(buf, `    <rect x="%d" y="%d" width="%d" height="%d" fill="%s" stroke="#000000" stroke-width="%.1f"/>`+"\n",
				c.Col*m.PixelsW, c.Row*m.PixelsH, m.PixelsW, m.PixelsH, fill, stroke)
		}
	}
	buf.WriteString("  </g>\n")
}

func renderDividers(buf *bytes.Buffer, res *wall.Result) {
	m := res.Module
	stroke := math.Max(4, float64(min(m.PixelsW, m.PixelsH))/20)

	buf.WriteString(`  <g id="dividers" stroke="#FFFFFF" stroke-opacity="0.5" stroke-dasharray="10 10"` +
		fmt.Sprintf(` stroke-width="%.1f">`, stroke) + "\n")
	for _, b := range res.Bands[:len(res.Bands)-1] {
		if res.IsHorizontal {
			y := b.EndLine * m.PixelsH
			fmt.Fprintf(buf, `    <line x1="0" y1="%d" x2="%d" y2="%d"/>`+"\n", y, res.ResolutionW, y)
		} else {
			x := b.EndLine * m.PixelsW
			fmt.Fprintf(buf, `    <line x1="%d" y1="0" x2="%d" y2="%d"/>`+"\n", x, x, res.ResolutionH)
		}
	}
	buf.WriteString("  </g>\n")
}

// renderArrows draws a filled triangle at the midpoint between each pair of
// consecutive modules in a chain, pointing along the cable.
func renderArrows(buf *bytes.Buffer, res *wall.Result) {
	m := res.Module
	pw, ph := float64(m.PixelsW), float64(m.PixelsH)
	size := math.Min(pw, ph) / 6

	buf.WriteString(`  <g id="arrows" fill="#000000">` + "\n")
	for _, g := range res.OutputGroups {
		for i := 0; i+1 < len(g.Modules); i++ {
			a, b := g.Modules[i], g.Modules[i+1]
			x1, y1 := float64(a.Col)*pw+pw/2, float64(a.Row)*ph+ph/2
			x2, y2 := float64(b.Col)*pw+pw/2, float64(b.Row)*ph+ph/2
			angle := math.Atan2(y2-y1, x2-x1)
			mx, my := (x1+x2)/2, (y1+y2)/2

			tipX, tipY := mx+size*math.Cos(angle), my+size*math.Sin(angle)
			lx, ly := mx-size*0.5*math.Cos(angle-math.Pi/6), my-size*0.5*math.Sin(angle-math.Pi/6)
			rx, ry := mx-size*0.5*math.Cos(angle+math.Pi/6), my-size*0.5*math.Sin(angle+math.Pi/6)
			fmt.Fprintf(buf, `    <polygon points="%.1f,%.1f %.1f,%.1f %.1f,%.1f"/>`+"\n", tipX, tipY, lx, ly, rx, ry)
		}
	}
	buf.WriteString("  </g>\n")
}

// renderLabels draws the circled output number in the bottom-left corner of
// each chain's first module.
func renderLabels(buf *bytes.Buffer, res *wall.Result) {
	m := res.Module
	radius := float64(min(m.PixelsW, m.PixelsH)) / 4

	buf.WriteString(`  <g id="labels" font-weight="bold" text-anchor="middle" dominant-baseline="central">` + "\n")
	for _, g := range res.OutputGroups {
		if len(g.Modules) == 0 {
			continue
		}
		first := g.Modules[0]
		cx := float64(first.Col*m.PixelsW) + radius + 5
		cy := float64((first.Row+1)*m.PixelsH) - radius - 5
		fmt.Fprintf(buf, `    <circle cx="%.1f" cy="%.1f" r="%.1f" fill="#FFFFFF" stroke="%s" stroke-width="3"/>`+"\n",
			cx, cy, radius, ColorFor(g.ProcessorIndex).Primary)
		fmt.Fprintf(buf, `    <text x="%.1f" y="%.1f" font-size="%.1f" fill="#000000">%d</text>`+"\n",
			cx, cy, radius, g.Label)
	}
	buf.WriteString("  </g>\n")
}

func renderNameBox(buf *bytes.Buffer, res *wall.Result, name string) {
	w, h := float64(res.ResolutionW), float64(res.ResolutionH)
	fontSize := math.Min(float64(res.Module.PixelsW)*0.8, w/15)
	boxW := estimateTextWidth(name, fontSize) + 20
	boxH := fontSize * 1.5
	cx, cy := w/2, h/2

	fmt.Fprintf(buf, `  <g id="name">`+"\n")
	fmt.Fprintf(buf, `    <rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="#FFFFFF" fill-opacity="0.9" stroke="#000000" stroke-width="2"/>`+"\n",
		cx-boxW/2, cy-boxH/2, boxW, boxH)
	fmt.Fprintf(buf, `    <text x="%.1f" y="%.1f" font-size="%.1f" font-weight="bold" text-anchor="middle" dominant-baseline="central" fill="#000000">%s</text>`+"\n",
		cx, cy, fontSize, html.EscapeString(name))
	buf.WriteString("  </g>\n")
}

func renderLegend(buf *bytes.Buffer, res *wall.Result) {
	const (
		top    = 20
		swatch = 20
		height = 25
		step   = 80
	)
	buf.WriteString(`  <g id="legend" font-size="14" font-weight="bold">` + "\n")
	x := 20
	for _, b := range res.Bands {
		pc := ColorFor(b.Index)
		fmt.Fprintf(buf, `    <rect x="%d" y="%d" width="%d" height="%d" fill="%s" stroke="#000000" stroke-width="1"/>`+"\n",
			x, top, swatch, height, pc.Primary)
		fmt.Fprintf(buf, `    <text x="%d" y="%d" dominant-baseline="central" fill="#FFFFFF">Proc %d</text>`+"\n",
			x+swatch+5, top+height/2, b.Index+1)
		x += step
	}
	buf.WriteString("  </g>\n")
}

func renderInfoBar(buf *bytes.Buffer, res *wall.Result) {
	w, h := float64(res.ResolutionW), float64(res.ResolutionH)
	fontSize := math.Max(12, math.Min(24, h/40))
	barH := fontSize * 3

	line1, line2 := InfoLines(res)
	fmt.Fprintf(buf, `  <g id="info" font-size="%.1f" text-anchor="middle" dominant-baseline="central" fill="#000000">`+"\n", fontSize)
	fmt.Fprintf(buf, `    <rect x="0" y="%.1f" width="%.1f" height="%.1f" fill="#FFFFFF" fill-opacity="0.95" stroke="#000000" stroke-width="1"/>`+"\n",
		h-barH, w, barH)
	fmt.Fprintf(buf, `    <text x="%.1f" y="%.1f">%s</text>`+"\n", w/2, h-barH+fontSize, html.EscapeString(line1))
	fmt.Fprintf(buf, `    <text x="%.1f" y="%.1f">%s</text>`+"\n", w/2, h-fontSize, html.EscapeString(line2))
	buf.WriteString("  </g>\n")
}

// InfoLines returns the two summary lines printed in the info bar.
func InfoLines(res *wall.Result) (string, string) {
	line1 := fmt.Sprintf("%d×%d panels (%d total) • %d×%dpx • %d processor(s)",
		res.WidthModules, res.HeightModules, res.TotalModules,
		res.ResolutionW, res.ResolutionH, res.ProcessorsNeeded)
	line2 := fmt.Sprintf("%.2fm × %.2fm • %s • P%.1f",
		res.WidthM, res.HeightM, res.Module.Name, res.PitchMm)
	return line1, line2
}

// estimateTextWidth approximates the advance width of bold Arial text.
func estimateTextWidth(s string, fontSize float64) float64 {
	return float64(len([]rune(s))) * fontSize * 0.6
}
