package pipeline

import (
	"context"
	"encoding/json"

	"github.com/matzehuels/ledwall/pkg/errors"
	"github.com/matzehuels/ledwall/pkg/render"
	"github.com/matzehuels/ledwall/pkg/render/cabling"
	"github.com/matzehuels/ledwall/pkg/render/pixelmap"
	"github.com/matzehuels/ledwall/pkg/report"
	"github.com/matzehuels/ledwall/pkg/wall"
)

// Render generates output artifacts in the requested formats.
// The pixel map SVG and the cabling DOT are produced at most once per call
// and shared by the formats derived from them.
func Render(ctx context.Context, res *wall.Result, opts Options) (map[string][]byte, error) {
	scheme, err := pixelmap.Scheme(opts.ColorScheme)
	if err != nil {
		return nil, err
	}

	var svg []byte
	pixelMap := func() []byte {
		if svg == nil {
			svg = pixelmap.RenderSVG(res,
				pixelmap.WithProjectName(opts.ProjectName),
				pixelmap.WithColorScheme(scheme))
		}
		return svg
	}
	dot := ""
	cablingDOT := func() string {
		if dot == "" {
			dot = cabling.ToDOT(res, cabling.Options{Detailed: opts.DetailedCabling})
		}
		return dot
	}

	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		var data []byte
		var err error

		switch format {
		case FormatJSON:
			data, err = json.MarshalIndent(res, "", "  ")
		case FormatSVG:
			data = pixelMap()
		case FormatPNG:
			data, err = render.ToPNG(ctx, pixelMap(), DefaultPNGScale)
		case FormatPDF:
			data, err = render.ToPDF(ctx, pixelMap())
		case FormatDOT:
			data = []byte(cablingDOT())
		case FormatCablingSVG:
			data, err = cabling.RenderSVG(ctx, cablingDOT())
		case FormatCommercial:
			data, err = report.Commercial(opts.ProjectName, res)
		case FormatTechnical:
			data, err = report.Technical(opts.ProjectName, res)
		default:
			return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported format: %s", format)
		}

		if err != nil {
			if errors.GetCode(err) != "" {
				return nil, err
			}
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "render %s", format)
		}
		artifacts[format] = data
	}

	return artifacts, nil
}
