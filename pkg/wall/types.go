package wall

import (
	"math"
	"slices"
	"strings"

	"github.com/matzehuels/ledwall/pkg/catalog"
	"github.com/matzehuels/ledwall/pkg/errors"
)

// =============================================================================
// Input Mode
// =============================================================================

// InputMode selects how Width and Height of an [Input] are interpreted.
type InputMode string

const (
	// ModeByCount: Width and Height are module counts.
	ModeByCount InputMode = "by-count"
	// ModeBySize: Width and Height are centimeters, rounded up to whole modules.
	ModeBySize InputMode = "by-size"
)

// ParseInputMode accepts the canonical names plus the short aliases
// "modules", "count" and "size".
func ParseInputMode(s string) (InputMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", string(ModeByCount), "modules", "count":
		return ModeByCount, nil
	case string(ModeBySize), "size", "cm":
		return ModeBySize, nil
	}
	return "", errors.New(errors.ErrCodeInvalidInput, "unknown input mode %q (want by-count or by-size)", s)
}

// =============================================================================
// Wiring Pattern
// =============================================================================

// WiringPattern names the primary cable direction and starting corner.
type WiringPattern string

const (
	HorizontalRight WiringPattern = "horizontal-right"
	HorizontalLeft  WiringPattern = "horizontal-left"
	VerticalDown    WiringPattern = "vertical-down"
	VerticalUp      WiringPattern = "vertical-up"
)

// Patterns lists the supported wiring patterns.
var Patterns = []WiringPattern{HorizontalRight, HorizontalLeft, VerticalDown, VerticalUp}

// ParsePattern validates a wiring pattern name.
func ParsePattern(s string) (WiringPattern, error) {
	p := WiringPattern(strings.ToLower(strings.TrimSpace(s)))
	if p == "" {
		return HorizontalRight, nil
	}
	for _, known := range Patterns {
		if p == known {
			return p, nil
		}
	}
	return "", errors.New(errors.ErrCodeInvalidPattern, "unknown wiring pattern %q", s)
}

// Horizontal reports whether lines are rows.
func (p WiringPattern) Horizontal() bool {
	return strings.HasPrefix(string(p), "horizontal")
}

// Reversed reports whether even lines run backwards.
func (p WiringPattern) Reversed() bool {
	return strings.HasSuffix(string(p), "left") || strings.HasSuffix(string(p), "up")
}

// =============================================================================
// Input
// =============================================================================

// Input is everything one layout computation depends on. Catalog holds the
// processors considered for the recommendation and may include Processor.
type Input struct {
	Module          catalog.Module
	Processor       catalog.Processor
	Catalog         []catalog.Processor
	Mode            InputMode
	Width           float64
	Height          float64
	Pattern         WiringPattern
	GroupIndexStart int
}

// MaxSideModules is the largest number of modules along one side of a wall.
// Normalize clamps longer sides to it and Compute raises
// [WarnDimensionsClamped].
const MaxSideModules = 500

// Normalize returns a copy of in with defaults applied and dimensions
// clamped to [1, MaxSideModules] modules: in by-size mode that is at least
// one module's size and at most MaxSideModules modules' size. The group
// index start is at least 1.
func (in Input) Normalize() Input {
	if in.Mode == "" {
		in.Mode = ModeByCount
	}
	if in.Pattern == "" {
		in.Pattern = HorizontalRight
	}
	if in.GroupIndexStart < 1 {
		in.GroupIndexStart = 1
	}
	switch in.Mode {
	case ModeBySize:
		in.Width = clampCm(in.Width, in.Module.WidthCm)
		in.Height = clampCm(in.Height, in.Module.HeightCm)
	default:
		in.Width = clampCount(in.Width)
		in.Height = clampCount(in.Height)
	}
	return in
}

// Oversized reports whether either requested side exceeds MaxSideModules
// modules. Infinite sizes are oversized.
func (in Input) Oversized() bool {
	return sideModules(in.Width, in.Module.WidthCm, in.Mode) > MaxSideModules ||
		sideModules(in.Height, in.Module.HeightCm, in.Mode) > MaxSideModules
}

// CheckSize rejects requests [Input.Normalize] would have to clamp. Callers
// serving untrusted input use it before computing.
func (in Input) CheckSize() error {
	if math.IsNaN(in.Width) || math.IsNaN(in.Height) {
		return errors.New(errors.ErrCodeInvalidInput, "dimensions must be numbers")
	}
	if in.Oversized() {
		return errors.New(errors.ErrCodeInvalidInput,
			"wall is larger than %d modules per side (got %gx%g %s)", MaxSideModules, in.Width, in.Height, in.Mode)
	}
	return nil
}

func sideModules(size, moduleCm float64, mode InputMode) float64 {
	if math.IsNaN(size) {
		return 0
	}
	if mode == ModeBySize {
		if moduleCm <= 0 {
			return 1
		}
		return math.Ceil(size/moduleCm - 1e-9)
	}
	return math.Floor(size)
}

func clampCount(n float64) float64 {
	return math.Min(MaxSideModules, math.Max(1, math.Floor(nanToZero(n))))
}

func clampCm(cm, moduleCm float64) float64 {
	if cm <= 0 || math.IsNaN(cm) {
		return moduleCm
	}
	if moduleCm > 0 {
		cm = math.Min(cm, MaxSideModules*moduleCm)
	}
	return cm
}

// Validate rejects inputs Normalize cannot repair: unknown modes or patterns
// and malformed catalog entries.
func (in Input) Validate() error {
	switch in.Mode {
	case ModeByCount, ModeBySize:
	default:
		return errors.New(errors.ErrCodeInvalidInput, "unknown input mode %q", in.Mode)
	}
	if _, err := ParsePattern(string(in.Pattern)); err != nil {
		return err
	}
	if err := catalog.ValidateModule(in.Module); err != nil {
		return err
	}
	return catalog.ValidateProcessor(in.Processor)
}

func nanToZero(f float64) float64 {
	if math.IsNaN(f) {
		return 0
	}
	return f
}

// =============================================================================
// Result Types
// =============================================================================

// Cell is one module position. Line is the row (horizontal wiring) or
// column (vertical wiring) the cell belongs to.
type Cell struct {
	Row  int `json:"row"`
	Col  int `json:"col"`
	Line int `json:"line"`
}

// Band is the range of whole lines one processor owns.
type Band struct {
	Index            int `json:"index"`
	StartLine        int `json:"startLine"`
	EndLine          int `json:"endLine"`
	Lines            int `json:"lines"`
	Modules          int `json:"modules"`
	OutputsUsed      int `json:"outputsUsed"`
	StartOutputIndex int `json:"startOutputIndex"`
}

// Contains reports whether line falls inside the band.
func (b Band) Contains(line int) bool {
	return line >= b.StartLine && line < b.EndLine
}

// OutputGroup is the chain of modules fed by one processor output.
// OutputIndex is global and 0-based; LocalIndex counts from 1 within the
// processor; Label is the number printed on the pixel map.
type OutputGroup struct {
	ProcessorIndex int    `json:"processorIndex"`
	OutputIndex    int    `json:"outputIndex"`
	LocalIndex     int    `json:"localIndex"`
	Label          int    `json:"label"`
	Modules        []Cell `json:"modules"`
}

// Warning flags a degenerate or insufficient configuration.
type Warning string

const (
	// WarnModuleExceedsOutput: one module needs more pixels than one output
	// provides; capacity was clamped to one module per output.
	WarnModuleExceedsOutput Warning = "module-exceeds-output"
	// WarnLineExceedsProcessor: one line needs more modules than a whole
	// processor can drive; the allocation was clamped to one processor.
	WarnLineExceedsProcessor Warning = "line-exceeds-processor"
	WarnPixelsInsufficient   Warning = "pixels-insufficient"
	WarnWidthExceeded        Warning = "width-exceeded"
	WarnHeightExceeded       Warning = "height-exceeded"
	// WarnDimensionsClamped: a requested side exceeded MaxSideModules and
	// was clamped to it.
	WarnDimensionsClamped Warning = "dimensions-clamped"
)

// Result is the complete, read-only outcome of a layout computation.
type Result struct {
	Module          catalog.Module    `json:"module"`
	Processor       catalog.Processor `json:"processor"`
	Mode            InputMode         `json:"mode"`
	Pattern         WiringPattern     `json:"pattern"`
	GroupIndexStart int               `json:"groupIndexStart"`

	Grid
	Aspect
	Capacity

	IsHorizontal bool `json:"isHorizontal"`
	LineSize     int  `json:"lineSize"`
	NumLines     int  `json:"numLines"`

	ProcessorsNeeded          int           `json:"processorsNeeded"`
	TotalOutputsAvailable     int           `json:"totalOutputsAvailable"`
	TotalOutputsNeeded        int           `json:"totalOutputsNeeded"`
	ModulesPerOutputBalanced  int           `json:"modulesPerOutputBalanced"`
	Bands                     []Band        `json:"processorBands"`
	Path                      []Cell        `json:"serpentinePath"`
	OutputGroups              []OutputGroup `json:"outputGroups"`
	UTPInputs                 int           `json:"utpInputs"`
	UTPBridges                int           `json:"utpBridges"`
	SingleProcessorSufficient bool          `json:"singleProcessorSufficient"`
	PixelsSufficient          bool          `json:"pixelsSufficient"`
	WidthSufficient           bool          `json:"widthSufficient"`
	HeightSufficient          bool          `json:"heightSufficient"`

	RecommendedProcessor      *catalog.Processor `json:"recommendedProcessor,omitempty"`
	RecommendedProcessorCount int                `json:"recommendedProcessorCount,omitempty"`

	Physical

	Warnings []Warning `json:"warnings,omitempty"`
}

// HasWarning reports whether w was raised.
func (r *Result) HasWarning(w Warning) bool {
	return slices.Contains(r.Warnings, w)
}
