package wall

// GroupOutputs slices the serpentine path into output chains.
//
// Each band's cells are taken in path order and cut into chunks of
// modulesPerOutput; only the last chunk of a band may be shorter. Output
// indices continue across bands, so no chain ever crosses from one
// processor to the next. Labels start at groupIndexStart.
func GroupOutputs(path []Cell, bands []Band, modulesPerOutput, groupIndexStart int) []OutputGroup {
	modulesPerOutput = max(1, modulesPerOutput)
	var groups []OutputGroup
	for _, b := range bands {
		cells := make([]Cell, 0, b.Modules)
		for _, c := range path {
			if b.Contains(c.Line) {
				cells = append(cells, c)
			}
		}
		local := 0
		for start := 0; start < len(cells); start += modulesPerOutput {
			end := min(start+modulesPerOutput, len(cells))
			out := b.StartOutputIndex + local
			groups = append(groups, OutputGroup{
				ProcessorIndex: b.Index,
				OutputIndex:    out,
				LocalIndex:     local + 1,
				Label:          groupIndexStart + out,
				Modules:        cells[start:end:end],
			})
			local++
		}
	}
	return groups
}

// CableCounts returns the number of processor-to-module (input) cables and
// module-to-module (bridge) cables for a set of output chains.
func CableCounts(groups []OutputGroup) (inputs, bridges int) {
	for _, g := range groups {
		if len(g.Modules) == 0 {
			continue
		}
		inputs++
		bridges += len(g.Modules) - 1
	}
	return inputs, bridges
}
