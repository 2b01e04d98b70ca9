// Package render turns computed wall layouts into files.
//
// # Overview
//
// This package holds the format conversion shared by all renderers. The
// renderers themselves live in subpackages:
//
//   - [pixelmap]: the processor-colored pixel map used to program the
//     processor and to brief the crew
//   - [cabling]: a Graphviz diagram of processor, output and module chains
//
// # Format Conversion
//
// [ToPDF] and [ToPNG] convert any SVG using the external rsvg-convert tool
// (from librsvg):
//
//	svg := pixelmap.RenderSVG(result, pixelmap.WithProjectName("Main Stage"))
//	pdf, err := render.ToPDF(ctx, svg)
//	png, err := render.ToPNG(ctx, svg, 1.0)
//
// A pixel map is drawn at the wall's native resolution, so PNG export at
// scale 1.0 yields an image that maps one-to-one onto the LED pixels.
//
// [pixelmap]: github.com/matzehuels/ledwall/pkg/render/pixelmap
// [cabling]: github.com/matzehuels/ledwall/pkg/render/cabling
package render
