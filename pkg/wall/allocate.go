package wall

// Axis describes the line structure of a grid under a wiring pattern.
type Axis struct {
	Horizontal bool
	// LineSize is the number of modules in one line.
	LineSize int
	// NumLines is the number of lines.
	NumLines int
}

// AxisFor returns the line structure of g under pattern p: rows for
// horizontal wiring, columns for vertical wiring.
func AxisFor(g Grid, p WiringPattern) Axis {
	if p.Horizontal() {
		return Axis{Horizontal: true, LineSize: g.WidthModules, NumLines: g.HeightModules}
	}
	return Axis{Horizontal: false, LineSize: g.HeightModules, NumLines: g.WidthModules}
}

// Allocation is the split of a grid's lines over identical processors.
type Allocation struct {
	Bands                 []Band
	ProcessorsNeeded      int
	TotalOutputsAvailable int
	// LinesPerProcessorMax is the number of whole lines one processor can own.
	LinesPerProcessorMax int
	// LineExceedsProcessor is set when a single line is larger than one
	// processor's total capacity and the allocation was clamped.
	LineExceedsProcessor bool
}

// processorsFor returns how many processors with the given outputs and
// per-output capacity are needed to cover ax in whole lines, and how many
// lines each can own. The count is at least 1.
func processorsFor(ax Axis, modulesPerOutput, outputs int) (needed, linesMax int) {
	modulesPerProcessorMax := outputs * modulesPerOutput
	if ax.LineSize > 0 {
		linesMax = modulesPerProcessorMax / ax.LineSize
	}
	if linesMax == 0 {
		return 1, 0
	}
	needed = ceilDiv(ax.NumLines, linesMax)
	return max(1, needed), linesMax
}

// Allocate assigns contiguous bands of whole lines to processors.
//
// Lines are shared out evenly; the remainder lines go one each to the last
// processors, so with 10 lines over 3 processors the bands hold 3, 3 and 4
// lines. Bands are ordered and partition [0, NumLines).
func Allocate(ax Axis, modulesPerOutput, outputs int) Allocation {
	modulesPerOutput = max(1, modulesPerOutput)
	needed, linesMax := processorsFor(ax, modulesPerOutput, outputs)

	a := Allocation{
		ProcessorsNeeded:      needed,
		TotalOutputsAvailable: needed * outputs,
		LinesPerProcessorMax:  linesMax,
		LineExceedsProcessor:  linesMax == 0,
		Bands:                 make([]Band, 0, needed),
	}

	base := ax.NumLines / needed
	extra := ax.NumLines % needed
	line, outputIndex := 0, 0
	for p := range needed {
		lines := base
		if p >= needed-extra {
			lines++
		}
		modules := lines * ax.LineSize
		outputsUsed := ceilDiv(modules, modulesPerOutput)
		a.Bands = append(a.Bands, Band{
			Index:            p,
			StartLine:        line,
			EndLine:          line + lines,
			Lines:            lines,
			Modules:          modules,
			OutputsUsed:      outputsUsed,
			StartOutputIndex: outputIndex,
		})
		line += lines
		outputIndex += outputsUsed
	}
	return a
}

func ceilDiv(a, b int) int {
	if b <= 0 {
		return 0
	}
	return (a + b - 1) / b
}
