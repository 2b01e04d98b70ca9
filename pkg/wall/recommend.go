package wall

import (
	"cmp"
	"slices"

	"github.com/matzehuels/ledwall/pkg/catalog"
)

// Recommendation is an alternative processor able to drive the wall.
type Recommendation struct {
	Processor catalog.Processor
	Count     int
}

// Recommend searches candidates for the processor needing the fewest units
// to drive grid g, skipping the processor with ID exclude.
//
// A candidate qualifies when the wall fits its maximum resolution and its
// combined pixel budget. Ties on unit count go to the candidate with fewer
// outputs, then to candidate order. Callers pass [catalog.Catalog.ProcessorList],
// so the final tie-break is by ID. The second return value is false when
// nothing qualifies.
func Recommend(g Grid, ax Axis, candidates []catalog.Processor, exclude string) (Recommendation, bool) {
	sorted := slices.Clone(candidates)
	slices.SortStableFunc(sorted, func(a, b catalog.Processor) int {
		return cmp.Compare(a.Outputs, b.Outputs)
	})

	var best Recommendation
	found := false
	for _, p := range sorted {
		if p.ID == exclude || p.Outputs < 1 {
			continue
		}
		capacity := ComputeCapacity(p, g.PixelsPerModule)
		needed, _ := processorsFor(ax, capacity.EffectiveModulesPerOutput, p.Outputs)
		if !fitsWidth(p, g) || !fitsHeight(p, g) || g.TotalPixels > p.TotalPixels*needed {
			continue
		}
		if !found || needed < best.Count || (needed == best.Count && p.Outputs < best.Processor.Outputs) {
			best = Recommendation{Processor: p, Count: needed}
			found = true
		}
	}
	return best, found
}

func fitsWidth(p catalog.Processor, g Grid) bool {
	return p.MaxWidth == 0 || g.ResolutionW <= p.MaxWidth
}

func fitsHeight(p catalog.Processor, g Grid) bool {
	return p.MaxHeight == 0 || g.ResolutionH <= p.MaxHeight
}
