// Package pkg provides the core libraries for ledwall LED video wall planning.
//
// # Overview
//
// ledwall turns a module type, a processor type and a wall size into a
// complete installation plan: final grid and resolution, processor and
// output allocation, serpentine data cabling, power, weight and rigging.
// The pkg directory is organized into four areas:
//
//  1. Domain - [catalog] (hardware), [wall] (the layout engine)
//  2. Output - [render] (pixel map, cabling diagram), [report] (text reports)
//  3. Orchestration - [pipeline] (compute → render with caching)
//  4. Persistence and delivery - [cache], [project], [io], [server]
//
// # Architecture
//
// The typical data flow:
//
//	Catalog + wall inputs
//	         ↓
//	    [wall] package (grid, capacity, bands, serpentine path, physical)
//	         ↓
//	    [render] and [report] packages
//	         ↓
//	    SVG/PNG/PDF/DOT/TXT/JSON output
//
// # Quick Start
//
// Compute a layout directly:
//
//	import (
//	    "github.com/matzehuels/ledwall/pkg/catalog"
//	    "github.com/matzehuels/ledwall/pkg/render/pixelmap"
//	    "github.com/matzehuels/ledwall/pkg/wall"
//	)
//
//	cat := catalog.Defaults()
//	in := wall.Input{
//	    Module:    cat.Modules["arakur-p29"],
//	    Processor: cat.Processors["vx600"],
//	    Catalog:   cat.ProcessorList(),
//	    Width:     12,
//	    Height:    6,
//	}
//	res := wall.Compute(in)
//	svg := pixelmap.RenderSVG(res, pixelmap.WithProjectName("Main Stage"))
//
// Or let the pipeline resolve IDs, cache results and render several formats:
//
//	runner := pipeline.NewRunner(cache.NewNullCache(), nil, logger)
//	out, err := runner.Execute(ctx, pipeline.Options{
//	    Width:   12,
//	    Height:  6,
//	    Formats: []string{"svg", "technical"},
//	})
//
// # Main Packages
//
// [wall] - The layout engine. Pure functions over a [wall.Input]; no I/O.
//
// [catalog] - Module and processor specifications, the built-in defaults
// and TOML/JSON catalog files.
//
// [pipeline] - Option validation, ID resolution, strict mode and the
// two-level cache (layouts, then artifacts).
//
// [cache] - File, Redis and null cache backends with content-addressed keys.
//
// [project] - Named wall configurations in a file or MongoDB store.
//
// [io] - Export and import bundles of catalog entries and projects.
//
// [server] - The HTTP API.
//
// [observability] - Hook interfaces for pipeline, cache and HTTP events.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...                    # All tests
//	go test -tags integration ./pkg/...  # Include Redis and MongoDB tests
//
// [catalog]: https://pkg.go.dev/github.com/matzehuels/ledwall/pkg/catalog
// [wall]: https://pkg.go.dev/github.com/matzehuels/ledwall/pkg/wall
// [wall.Input]: https://pkg.go.dev/github.com/matzehuels/ledwall/pkg/wall#Input
// [render]: https://pkg.go.dev/github.com/matzehuels/ledwall/pkg/render
// [report]: https://pkg.go.dev/github.com/matzehuels/ledwall/pkg/report
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/ledwall/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/ledwall/pkg/cache
// [project]: https://pkg.go.dev/github.com/matzehuels/ledwall/pkg/project
// [io]: https://pkg.go.dev/github.com/matzehuels/ledwall/pkg/io
// [server]: https://pkg.go.dev/github.com/matzehuels/ledwall/pkg/server
// [observability]: https://pkg.go.dev/github.com/matzehuels/ledwall/pkg/observability
package pkg
