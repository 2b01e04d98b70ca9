// Package pipeline provides the compute → render pipeline for ledwall.
//
// This package resolves catalog IDs into a layout input, runs the engine in
// [wall.Compute], and renders the result into the requested artifact
// formats. CLI and HTTP API share it so both apply the same defaults,
// validation, caching and strict-mode policy.
//
// # Architecture
//
// The pipeline consists of two stages:
//
//  1. Compute: resolve module and processor, normalize the input and compute
//     the layout (cached as JSON under a key derived from every value the
//     layout depends on)
//  2. Render: produce artifacts (pixel map SVG/PNG/PDF, cabling DOT/SVG,
//     text reports, result JSON), each cached separately
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    ModuleID:    "arakur-p29",
//	    ProcessorID: "vx600",
//	    Width:       6,
//	    Height:      4,
//	    Formats:     []string{"svg", "technical"},
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
package pipeline

import (
	"fmt"
	"io"
	"math"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/ledwall/pkg/cache"
	"github.com/matzehuels/ledwall/pkg/errors"
	"github.com/matzehuels/ledwall/pkg/render/pixelmap"
	"github.com/matzehuels/ledwall/pkg/wall"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	DefaultModule    = "arakur-p29"
	DefaultProcessor = "vx600"

	// DefaultWidthModules and DefaultHeightModules size a by-count wall
	// when no dimensions are given.
	DefaultWidthModules  = 6
	DefaultHeightModules = 4

	// DefaultWidthCm and DefaultHeightCm size a by-size wall when no
	// dimensions are given.
	DefaultWidthCm  = 384.0
	DefaultHeightCm = 256.0

	// DefaultPNGScale is the rasterization scale for PNG output.
	DefaultPNGScale = 2.0
)

// Format constants for output formats.
const (
	FormatJSON       = "json"
	FormatSVG        = "svg"
	FormatPNG        = "png"
	FormatPDF        = "pdf"
	FormatDOT        = "dot"
	FormatCablingSVG = "cabling-svg"
	FormatCommercial = "commercial"
	FormatTechnical  = "technical"
)

// Formats lists every supported output format in display order.
var Formats = []string{
	FormatJSON, FormatSVG, FormatPNG, FormatPDF,
	FormatDOT, FormatCablingSVG, FormatCommercial, FormatTechnical,
}

// ContentType returns the MIME type served for a format.
func ContentType(format string) string {
	switch format {
	case FormatJSON:
		return "application/json"
	case FormatSVG, FormatCablingSVG:
		return "image/svg+xml"
	case FormatPNG:
		return "image/png"
	case FormatPDF:
		return "application/pdf"
	case FormatDOT:
		return "text/vnd.graphviz"
	default:
		return "text/plain; charset=utf-8"
	}
}

// Extension returns the file name suffix used when writing a format to disk.
func Extension(format string) string {
	switch format {
	case FormatCablingSVG:
		return "cabling.svg"
	case FormatCommercial:
		return "commercial.txt"
	case FormatTechnical:
		return "technical.txt"
	default:
		return format
	}
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the layout pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Compute options
	ModuleID        string  `json:"module,omitempty"`
	ProcessorID     string  `json:"processor,omitempty"`
	Mode            string  `json:"mode,omitempty"`
	Width           float64 `json:"width,omitempty"`
	Height          float64 `json:"height,omitempty"`
	Pattern         string  `json:"pattern,omitempty"`
	GroupIndexStart int     `json:"groupIndexStart,omitempty"`
	Strict          bool    `json:"strict,omitempty"`
	Refresh         bool    `json:"refresh,omitempty"`

	// Render options
	Formats         []string `json:"formats,omitempty"`
	ProjectName     string   `json:"projectName,omitempty"`
	ColorScheme     string   `json:"colorScheme,omitempty"`
	DetailedCabling bool     `json:"detailedCabling,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Layout is the computed wall layout.
	Layout *wall.Result

	// LayoutHash is the content hash of the layout, used for artifact keys.
	LayoutHash string

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	TotalModules int
	Processors   int
	ComputeTime  time.Duration
	RenderTime   time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	ComputeHit bool // Whether the layout came from cache
	RenderHit  bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !slices.Contains(Formats, format) {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: %s)",
			format, strings.Join(Formats, ", "))
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateColorScheme checks that a color scheme exists.
func ValidateColorScheme(id string) error {
	_, err := pixelmap.Scheme(id)
	return err
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks all fields and applies defaults for the full pipeline.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForCompute(); err != nil {
		return err
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForCompute applies compute defaults and checks mode, pattern and
// dimensions. Dimensions must be finite, and by-count sides may not exceed
// [wall.MaxSideModules]. Catalog IDs and by-size limits are checked later,
// against the runner's catalog.
func (o *Options) ValidateForCompute() error {
	if o.ModuleID == "" {
		o.ModuleID = DefaultModule
	}
	if o.ProcessorID == "" {
		o.ProcessorID = DefaultProcessor
	}

	mode, err := wall.ParseInputMode(o.Mode)
	if err != nil {
		return err
	}
	o.Mode = string(mode)

	if o.Pattern == "" {
		o.Pattern = string(wall.HorizontalRight)
	}
	pattern, err := wall.ParsePattern(o.Pattern)
	if err != nil {
		return err
	}
	o.Pattern = string(pattern)

	if o.Width < 0 || o.Height < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "dimensions must not be negative (got %gx%g)", o.Width, o.Height)
	}
	if !finite(o.Width) || !finite(o.Height) {
		return errors.New(errors.ErrCodeInvalidInput, "dimensions must be finite (got %gx%g)", o.Width, o.Height)
	}
	if mode == wall.ModeByCount && math.Floor(max(o.Width, o.Height)) > wall.MaxSideModules {
		return errors.New(errors.ErrCodeInvalidInput,
			"wall is larger than %d modules per side (got %gx%g)", wall.MaxSideModules, o.Width, o.Height)
	}
	if o.Width == 0 {
		o.Width = DefaultWidthModules
		if mode == wall.ModeBySize {
			o.Width = DefaultWidthCm
		}
	}
	if o.Height == 0 {
		o.Height = DefaultHeightModules
		if mode == wall.ModeBySize {
			o.Height = DefaultHeightCm
		}
	}
	if o.GroupIndexStart < 1 {
		o.GroupIndexStart = 1
	}

	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return nil
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.ColorScheme == "" {
		o.ColorScheme = pixelmap.DefaultScheme
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	o.SetRenderDefaults()
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if err := ValidateColorScheme(o.ColorScheme); err != nil {
		return err
	}
	if o.ProjectName != "" {
		if err := errors.ValidateName(o.ProjectName); err != nil {
			return err
		}
	}
	return nil
}

// ComputeKeyOpts returns cache key options for layout computation.
// inputsHash covers the resolved catalog entries.
func (o *Options) ComputeKeyOpts(inputsHash string) cache.LayoutKeyOpts {
	return cache.LayoutKeyOpts{
		InputsHash:      inputsHash,
		Mode:            o.Mode,
		Width:           o.Width,
		Height:          o.Height,
		Pattern:         o.Pattern,
		GroupIndexStart: o.GroupIndexStart,
	}
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Format:      format,
		ColorScheme: o.ColorScheme,
		ProjectName: o.ProjectName,
		Detailed:    o.DetailedCabling,
	}
}

// strictError reports the warnings of res as a capacity error.
func strictError(res *wall.Result) error {
	names := make([]string, len(res.Warnings))
	for i, w := range res.Warnings {
		names[i] = string(w)
	}
	return errors.New(errors.ErrCodeCapacityExceeded, "layout exceeds processor capacity: %s", strings.Join(names, ", "))
}

func (s Stats) String() string {
	return fmt.Sprintf("%d modules, %d processor(s), compute %s, render %s",
		s.TotalModules, s.Processors, s.ComputeTime.Round(time.Microsecond), s.RenderTime.Round(time.Microsecond))
}
