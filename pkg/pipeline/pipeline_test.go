package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"math"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/matzehuels/ledwall/pkg/cache"
	"github.com/matzehuels/ledwall/pkg/catalog"
	"github.com/matzehuels/ledwall/pkg/errors"
	"github.com/matzehuels/ledwall/pkg/observability"
	"github.com/matzehuels/ledwall/pkg/wall"
)

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"svg", false},
		{"png", false},
		{"pdf", false},
		{"json", false},
		{"dot", false},
		{"cabling-svg", false},
		{"commercial", false},
		{"technical", false},
		{"invalid", true},
		{"SVG", true}, // case-sensitive
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
		if err != nil && !errors.Is(err, errors.ErrCodeInvalidFormat) {
			t.Errorf("ValidateFormat(%q) code = %s", tt.format, errors.GetCode(err))
		}
	}
}

func TestValidateFormats(t *testing.T) {
	if err := ValidateFormats([]string{"svg", "technical"}); err != nil {
		t.Errorf("Valid formats should pass: %v", err)
	}
	if err := ValidateFormats([]string{"svg", "invalid"}); err == nil {
		t.Error("Invalid format should fail")
	}
	// Empty slice is valid
	if err := ValidateFormats(nil); err != nil {
		t.Errorf("Empty formats should pass: %v", err)
	}
}

func TestOptionsDefaults(t *testing.T) {
	opts := Options{}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("empty options should pass: %v", err)
	}
	if opts.ModuleID != DefaultModule || opts.ProcessorID != DefaultProcessor {
		t.Errorf("catalog defaults = %s/%s", opts.ModuleID, opts.ProcessorID)
	}
	if opts.Mode != "by-count" || opts.Pattern != "horizontal-right" {
		t.Errorf("mode/pattern = %s/%s", opts.Mode, opts.Pattern)
	}
	if opts.Width != DefaultWidthModules || opts.Height != DefaultHeightModules {
		t.Errorf("size = %gx%g", opts.Width, opts.Height)
	}
	if opts.GroupIndexStart != 1 {
		t.Errorf("GroupIndexStart = %d", opts.GroupIndexStart)
	}
	if len(opts.Formats) != 1 || opts.Formats[0] != FormatSVG {
		t.Errorf("Formats = %v", opts.Formats)
	}
	if opts.ColorScheme != "cyan-magenta" {
		t.Errorf("ColorScheme = %q", opts.ColorScheme)
	}
	if opts.Logger == nil {
		t.Error("Logger should default to a discard logger")
	}

	bySize := Options{Mode: "cm"}
	if err := bySize.ValidateForCompute(); err != nil {
		t.Fatal(err)
	}
	if bySize.Mode != "by-size" || bySize.Width != DefaultWidthCm || bySize.Height != DefaultHeightCm {
		t.Errorf("by-size defaults = %s %gx%g", bySize.Mode, bySize.Width, bySize.Height)
	}
}

func TestOptionsInvalid(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		code errors.Code
	}{
		{"pattern", Options{Pattern: "diagonal"}, errors.ErrCodeInvalidPattern},
		{"mode", Options{Mode: "by-weight"}, errors.ErrCodeInvalidInput},
		{"negative width", Options{Width: -1}, errors.ErrCodeInvalidInput},
		{"infinite width", Options{Width: math.Inf(1)}, errors.ErrCodeInvalidInput},
		{"NaN height", Options{Height: math.NaN()}, errors.ErrCodeInvalidInput},
		{"oversized wall", Options{Width: 4e9, Height: 4e9}, errors.ErrCodeInvalidInput},
		{"format", Options{Formats: []string{"gif"}}, errors.ErrCodeInvalidFormat},
		{"scheme", Options{ColorScheme: "plaid"}, errors.ErrCodeInvalidInput},
		{"name", Options{ProjectName: "bad\x00name"}, errors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.ValidateAndSetDefaults()
			if err == nil {
				t.Fatal("expected error")
			}
			if !errors.Is(err, tt.code) {
				t.Errorf("code = %s, want %s", errors.GetCode(err), tt.code)
			}
		})
	}
}

func TestArtifactKeyOpts(t *testing.T) {
	opts := Options{ColorScheme: "blue-green", ProjectName: "Stage", DetailedCabling: true}
	k := opts.ArtifactKeyOpts(FormatDOT)
	if k.Format != FormatDOT || k.ColorScheme != "blue-green" || k.ProjectName != "Stage" || !k.Detailed {
		t.Errorf("ArtifactKeyOpts = %+v", k)
	}
}

func newRunner(t *testing.T) *Runner {
	t.Helper()
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	return NewRunner(c, nil, nil)
}

func TestRunnerComputeCaching(t *testing.T) {
	ctx := context.Background()
	r := newRunner(t)
	opts := Options{Width: 6, Height: 4}

	first, hit, err := r.ComputeWithCacheInfo(ctx, opts)
	if err != nil {
		t.Fatal(err)
	}
	if hit {
		t.Error("first compute should miss")
	}

	second, hit, err := r.ComputeWithCacheInfo(ctx, opts)
	if err != nil {
		t.Fatal(err)
	}
	if !hit {
		t.Error("second compute should hit")
	}
	if second.TotalModules != first.TotalModules || len(second.OutputGroups) != len(first.OutputGroups) ||
		second.UTPBridges != first.UTPBridges || second.Standard.Name != first.Standard.Name {
		t.Errorf("cached result differs: %+v vs %+v", second.Grid, first.Grid)
	}

	opts.Refresh = true
	if _, hit, _ := r.ComputeWithCacheInfo(ctx, opts); hit {
		t.Error("refresh should bypass the cache")
	}
}

func TestRunnerCatalogEditInvalidatesCache(t *testing.T) {
	ctx := context.Background()
	r := newRunner(t)
	opts := Options{Width: 6, Height: 4}
	if _, err := r.Compute(ctx, opts); err != nil {
		t.Fatal(err)
	}

	p := r.Catalog.Processors["vx600"]
	p.Outputs = 2
	cat, err := r.Catalog.UpdateProcessor("vx600", p)
	if err != nil {
		t.Fatal(err)
	}
	r.Catalog = cat

	res, hit, err := r.ComputeWithCacheInfo(ctx, opts)
	if err != nil {
		t.Fatal(err)
	}
	if hit {
		t.Error("edited processor should not reuse the cached layout")
	}
	if res.Processor.Outputs != 2 {
		t.Errorf("Outputs = %d, want 2", res.Processor.Outputs)
	}
}

func TestRunnerUnknownIDs(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	_, err := r.Compute(context.Background(), Options{ModuleID: "nope"})
	if !errors.Is(err, errors.ErrCodeModuleNotFound) {
		t.Errorf("module: got %v", err)
	}
	_, err = r.Compute(context.Background(), Options{ProcessorID: "nope"})
	if !errors.Is(err, errors.ErrCodeProcessorNotFound) {
		t.Errorf("processor: got %v", err)
	}
}

func TestRunnerRejectsOversizedWall(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	ctx := context.Background()

	// 1 km of 64 cm modules is past the per-side limit.
	_, err := r.Compute(ctx, Options{Mode: "by-size", Width: 100_000, Height: 100})
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("by-size: got %v", err)
	}
	_, err = r.Compute(ctx, Options{Width: wall.MaxSideModules + 1, Height: 1})
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("by-count: got %v", err)
	}

	res, err := r.Compute(ctx, Options{Width: wall.MaxSideModules, Height: 1})
	if err != nil {
		t.Fatal(err)
	}
	if res.WidthModules != wall.MaxSideModules {
		t.Errorf("width = %d", res.WidthModules)
	}
}

func TestRunnerStrict(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	opts := Options{ProcessorID: "msd300", Width: 20, Height: 20}

	res, err := r.Compute(context.Background(), opts)
	if err != nil {
		t.Fatalf("lenient mode should not fail: %v", err)
	}
	if !res.HasWarning(wall.WarnWidthExceeded) {
		t.Fatalf("expected width warning, got %v", res.Warnings)
	}

	opts.Strict = true
	_, err = r.Compute(context.Background(), opts)
	if !errors.Is(err, errors.ErrCodeCapacityExceeded) {
		t.Fatalf("strict mode: got %v", err)
	}
	if !strings.Contains(err.Error(), "width-exceeded") {
		t.Errorf("error should name the warning: %v", err)
	}

	// A clean layout passes strict mode.
	if _, err := r.Compute(context.Background(), Options{Width: 6, Height: 4, Strict: true}); err != nil {
		t.Errorf("clean layout failed strict mode: %v", err)
	}
}

func TestRunnerExecute(t *testing.T) {
	ctx := context.Background()
	r := newRunner(t)
	opts := Options{
		Width:       6,
		Height:      4,
		ProjectName: "Main Stage",
		Formats:     []string{FormatJSON, FormatSVG, FormatDOT, FormatCommercial, FormatTechnical},
	}

	result, err := r.Execute(ctx, opts)
	if err != nil {
		t.Fatal(err)
	}
	if result.Stats.TotalModules != 24 || result.Stats.Processors != 1 {
		t.Errorf("Stats = %+v", result.Stats)
	}
	if result.LayoutHash == "" {
		t.Error("LayoutHash should be set")
	}
	for _, f := range opts.Formats {
		if len(result.Artifacts[f]) == 0 {
			t.Errorf("missing artifact %s", f)
		}
	}

	var decoded wall.Result
	if err := json.Unmarshal(result.Artifacts[FormatJSON], &decoded); err != nil {
		t.Fatalf("json artifact: %v", err)
	}
	if decoded.TotalModules != 24 {
		t.Errorf("json TotalModules = %d", decoded.TotalModules)
	}
	if !bytes.HasPrefix(result.Artifacts[FormatSVG], []byte("<svg")) {
		t.Error("svg artifact should start with <svg")
	}
	if !bytes.Contains(result.Artifacts[FormatSVG], []byte("Main Stage")) {
		t.Error("svg should carry the project name")
	}
	if !bytes.HasPrefix(result.Artifacts[FormatDOT], []byte("digraph")) {
		t.Error("dot artifact should be a digraph")
	}
	if !bytes.Contains(result.Artifacts[FormatTechnical], []byte("UTP CABLING")) {
		t.Error("technical report missing cabling section")
	}

	again, err := r.Execute(ctx, opts)
	if err != nil {
		t.Fatal(err)
	}
	if !again.CacheInfo.ComputeHit || !again.CacheInfo.RenderHit {
		t.Errorf("second run CacheInfo = %+v", again.CacheInfo)
	}
}

func TestRenderUnknownFormat(t *testing.T) {
	res := wall.Compute(wall.Input{
		Module:    catalog.Defaults().Modules["arakur-p29"],
		Processor: catalog.Defaults().Processors["vx600"],
		Width:     2, Height: 2,
	})
	_, err := Render(context.Background(), res, Options{Formats: []string{"gif"}})
	if !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("got %v", err)
	}
}

func TestContentTypeAndExtension(t *testing.T) {
	tests := []struct {
		format, contentType, ext string
	}{
		{FormatJSON, "application/json", "json"},
		{FormatSVG, "image/svg+xml", "svg"},
		{FormatCablingSVG, "image/svg+xml", "cabling.svg"},
		{FormatPNG, "image/png", "png"},
		{FormatTechnical, "text/plain; charset=utf-8", "technical.txt"},
	}
	for _, tt := range tests {
		if got := ContentType(tt.format); got != tt.contentType {
			t.Errorf("ContentType(%s) = %q", tt.format, got)
		}
		if got := Extension(tt.format); got != tt.ext {
			t.Errorf("Extension(%s) = %q", tt.format, got)
		}
	}
}

type recordingHooks struct {
	observability.NoopPipelineHooks
	mu     sync.Mutex
	events []string
	errs   []error
}

func (h *recordingHooks) OnComputeStart(_ context.Context, moduleID, processorID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = append(h.events, "compute:"+moduleID+"/"+processorID)
}

func (h *recordingHooks) OnComputeComplete(_ context.Context, _, _ int, _ time.Duration, err error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = append(h.events, "computed")
	h.errs = append(h.errs, err)
}

func (h *recordingHooks) OnRenderStart(_ context.Context, formats []string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = append(h.events, "render:"+strings.Join(formats, ","))
}

func TestRunnerFiresHooks(t *testing.T) {
	h := &recordingHooks{}
	observability.SetPipelineHooks(h)
	t.Cleanup(observability.Reset)

	r := NewRunner(nil, nil, nil)
	if _, err := r.Execute(context.Background(), Options{Formats: []string{FormatDOT}}); err != nil {
		t.Fatal(err)
	}
	want := []string{"compute:arakur-p29/vx600", "computed", "render:dot"}
	if strings.Join(h.events, " ") != strings.Join(want, " ") {
		t.Errorf("events = %v, want %v", h.events, want)
	}

	_, _ = r.Compute(context.Background(), Options{ModuleID: "missing"})
	if last := h.errs[len(h.errs)-1]; last == nil {
		t.Error("failed compute should report its error to hooks")
	}
}
