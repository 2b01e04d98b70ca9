package wall

// Compute runs the full layout pipeline for in.
//
// Compute normalizes in first and never fails. Capacity problems are
// reported through the sufficiency flags, the recommendation and
// [Result.Warnings]; the bands, path and output groups are always defined.
func Compute(in Input) *Result {
	clamped := in.Oversized()
	in = in.Normalize()

	g := ResolveGrid(in.Module, in.Mode, in.Width, in.Height)
	ax := AxisFor(g, in.Pattern)
	capacity := ComputeCapacity(in.Processor, g.PixelsPerModule)
	alloc := Allocate(ax, capacity.EffectiveModulesPerOutput, in.Processor.Outputs)
	path := BuildPath(ax, in.Pattern.Reversed())
	groups := GroupOutputs(path, alloc.Bands, capacity.EffectiveModulesPerOutput, in.GroupIndexStart)
	inputs, bridges := CableCounts(groups)

	r := &Result{
		Module:          in.Module,
		Processor:       in.Processor,
		Mode:            in.Mode,
		Pattern:         in.Pattern,
		GroupIndexStart: in.GroupIndexStart,

		Grid:     g,
		Aspect:   AnalyzeAspect(g.ResolutionW, g.ResolutionH),
		Capacity: capacity,

		IsHorizontal: ax.Horizontal,
		LineSize:     ax.LineSize,
		NumLines:     ax.NumLines,

		ProcessorsNeeded:      alloc.ProcessorsNeeded,
		TotalOutputsAvailable: alloc.TotalOutputsAvailable,
		TotalOutputsNeeded:    ceilDiv(g.TotalModules, capacity.EffectiveModulesPerOutput),
		Bands:                 alloc.Bands,
		Path:                  path,
		OutputGroups:          groups,
		UTPInputs:             inputs,
		UTPBridges:            bridges,

		PixelsSufficient: g.TotalPixels <= in.Processor.TotalPixels*alloc.ProcessorsNeeded,
		WidthSufficient:  fitsWidth(in.Processor, g),
		HeightSufficient: fitsHeight(in.Processor, g),

		Physical: ComputePhysical(in.Module, g),
	}
	if r.TotalOutputsNeeded > 0 {
		r.ModulesPerOutputBalanced = ceilDiv(g.TotalModules, r.TotalOutputsNeeded)
	}
	r.SingleProcessorSufficient = alloc.ProcessorsNeeded == 1 &&
		!alloc.LineExceedsProcessor &&
		r.TotalOutputsNeeded <= in.Processor.Outputs &&
		g.TotalPixels <= in.Processor.TotalPixels

	if rec, ok := Recommend(g, ax, in.Catalog, in.Processor.ID); ok {
		p := rec.Processor
		r.RecommendedProcessor = &p
		r.RecommendedProcessorCount = rec.Count
	}

	if clamped {
		r.Warnings = append(r.Warnings, WarnDimensionsClamped)
	}
	if capacity.ModuleExceedsOutput {
		r.Warnings = append(r.Warnings, WarnModuleExceedsOutput)
	}
	if alloc.LineExceedsProcessor {
		r.Warnings = append(r.Warnings, WarnLineExceedsProcessor)
	}
	if !r.PixelsSufficient {
		r.Warnings = append(r.Warnings, WarnPixelsInsufficient)
	}
	if !r.WidthSufficient {
		r.Warnings = append(r.Warnings, WarnWidthExceeded)
	}
	if !r.HeightSufficient {
		r.Warnings = append(r.Warnings, WarnHeightExceeded)
	}
	return r
}

// BandFor returns the band owning line, or false.
func (r *Result) BandFor(line int) (Band, bool) {
	for _, b := range r.Bands {
		if b.Contains(line) {
			return b, true
		}
	}
	return Band{}, false
}
