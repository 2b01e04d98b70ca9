package wall

import (
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/ledwall/pkg/catalog"
)

func defaultInput(t *testing.T, moduleID, processorID string, w, h float64) Input {
	t.Helper()
	cat := catalog.Defaults()
	m, err := cat.Module(moduleID)
	require.NoError(t, err)
	p, err := cat.Processor(processorID)
	require.NoError(t, err)
	return Input{
		Module:    m,
		Processor: p,
		Catalog:   cat.ProcessorList(),
		Mode:      ModeByCount,
		Width:     w,
		Height:    h,
		Pattern:   HorizontalRight,
	}
}

func TestComputeSingleProcessorScenario(t *testing.T) {
	r := Compute(defaultInput(t, "arakur-p29", "vx600", 6, 4))

	assert.Equal(t, 24, r.TotalModules)
	assert.Equal(t, 1248, r.ResolutionW)
	assert.Equal(t, 832, r.ResolutionH)
	assert.Equal(t, 1_038_336, r.TotalPixels)
	assert.Equal(t, 650_000, r.PixelsPerOutput)
	assert.Equal(t, 15, r.EffectiveModulesPerOutput)
	assert.Equal(t, 1, r.ProcessorsNeeded)
	assert.Equal(t, 2, r.TotalOutputsNeeded)
	assert.Equal(t, 12, r.ModulesPerOutputBalanced)
	assert.True(t, r.SingleProcessorSufficient)
	assert.True(t, r.PixelsSufficient)
	assert.True(t, r.WidthSufficient)
	assert.True(t, r.HeightSufficient)
	assert.Empty(t, r.Warnings)

	require.Len(t, r.Bands, 1)
	assert.Equal(t, Band{Index: 0, StartLine: 0, EndLine: 4, Lines: 4, Modules: 24, OutputsUsed: 2}, r.Bands[0])

	require.Len(t, r.OutputGroups, 2)
	assert.Len(t, r.OutputGroups[0].Modules, 15)
	assert.Len(t, r.OutputGroups[1].Modules, 9)
	assert.Equal(t, 1, r.OutputGroups[0].Label)
	assert.Equal(t, 2, r.OutputGroups[1].Label)
	assert.Equal(t, 2, r.OutputGroups[1].LocalIndex)
	assert.Equal(t, 2, r.UTPInputs)
	assert.Equal(t, 22, r.UTPBridges)

	require.NotNil(t, r.RecommendedProcessor)
	assert.Equal(t, "msd300", r.RecommendedProcessor.ID)
	assert.Equal(t, 1, r.RecommendedProcessorCount)
}

func TestComputeMultiProcessorScenario(t *testing.T) {
	r := Compute(defaultInput(t, "arakur-p29", "vx600", 20, 20))

	assert.Equal(t, 400, r.TotalModules)
	assert.Equal(t, 20, r.LineSize)
	assert.Equal(t, 5, r.ProcessorsNeeded)
	assert.Equal(t, 30, r.TotalOutputsAvailable)
	assert.Equal(t, 27, r.TotalOutputsNeeded)
	assert.False(t, r.SingleProcessorSufficient)
	assert.True(t, r.PixelsSufficient)

	require.Len(t, r.Bands, 5)
	for i, b := range r.Bands {
		assert.Equal(t, i*4, b.StartLine)
		assert.Equal(t, 4, b.Lines)
		assert.Equal(t, 80, b.Modules)
		assert.Equal(t, 6, b.OutputsUsed)
		assert.Equal(t, i*6, b.StartOutputIndex)
	}
	assert.Len(t, r.OutputGroups, 30)
	assert.Equal(t, 30, r.UTPInputs)
	assert.Equal(t, 370, r.UTPBridges)
}

func TestComputeAspectAndPhysical(t *testing.T) {
	r := Compute(defaultInput(t, "arakur-p29", "vx600", 6, 4))

	assert.InDelta(t, 1.5, r.AspectRatio, 1e-9)
	assert.Equal(t, "4:3", r.Standard.Name)
	assert.Equal(t, 832, r.ContentH)
	assert.Equal(t, 1109, r.ContentW)
	assert.Equal(t, 139, r.Pillarbox)
	assert.Zero(t, r.Letterbox)

	assert.InDelta(t, 9.8304, r.AreaM2, 1e-9)
	assert.InDelta(t, 432, r.TotalWeightKg, 1e-9)
	assert.InDelta(t, 1769.472, r.TotalPowerW, 1e-9)
	assert.InDelta(t, 1769.472/220, r.TotalAmps220, 1e-9)
	assert.Equal(t, 12, r.HangingPointsTotal)
	assert.InDelta(t, 36, r.WeightPerHangingPoint, 1e-9)
	assert.InDelta(t, 72, r.SafeWorkingLoadKg, 1e-9)
	assert.InDelta(t, 640.0/208, r.PitchMm, 1e-9)
	assert.InDelta(t, r.PitchMm*1.5, r.MinViewingDistanceM, 1e-9)
	assert.InDelta(t, r.PitchMm*3, r.MaxViewingDistanceM, 1e-9)
}

func TestComputeBySize(t *testing.T) {
	in := defaultInput(t, "arakur-p29", "vx600", 384, 256)
	in.Mode = ModeBySize
	r := Compute(in)
	assert.Equal(t, 6, r.WidthModules)
	assert.Equal(t, 4, r.HeightModules)
	assert.InDelta(t, 384, r.WidthCm, 1e-9)
	assert.InDelta(t, 256, r.HeightCm, 1e-9)

	in.Width, in.Height = 385, 1
	r = Compute(in)
	assert.Equal(t, 7, r.WidthModules, "requested size is a lower bound")
	assert.InDelta(t, 448, r.WidthCm, 1e-9)
	assert.Equal(t, 1, r.HeightModules)
}

func TestComputeNormalizesInput(t *testing.T) {
	in := defaultInput(t, "arakur-p29", "vx600", 0, -3)
	in.Pattern = ""
	in.Mode = ""
	in.GroupIndexStart = 0
	r := Compute(in)

	assert.Equal(t, 1, r.TotalModules)
	assert.Equal(t, HorizontalRight, r.Pattern)
	assert.Equal(t, ModeByCount, r.Mode)
	require.Len(t, r.OutputGroups, 1)
	assert.Equal(t, 1, r.OutputGroups[0].Label)
}

func TestComputeClampsHugeDimensions(t *testing.T) {
	tests := []struct {
		name          string
		mode          InputMode
		width, height float64
		wantW, wantH  int
	}{
		{"billions of modules", ModeByCount, 4e9, 4e9, MaxSideModules, MaxSideModules},
		{"one long side", ModeByCount, 1e5, 3, MaxSideModules, 3},
		{"infinite count", ModeByCount, math.Inf(1), math.Inf(-1), MaxSideModules, 1},
		{"infinite size", ModeBySize, math.Inf(1), 128, MaxSideModules, 2},
		{"huge size", ModeBySize, 1e12, 1e12, MaxSideModules, MaxSideModules},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := defaultInput(t, "arakur-p29", "vx600", tt.width, tt.height)
			in.Mode = tt.mode

			var r *Result
			require.NotPanics(t, func() { r = Compute(in) })
			assert.Equal(t, tt.wantW, r.WidthModules)
			assert.Equal(t, tt.wantH, r.HeightModules)
			assert.Len(t, r.Path, tt.wantW*tt.wantH)
			assert.True(t, r.HasWarning(WarnDimensionsClamped))
			assert.Error(t, in.CheckSize())
		})
	}
}

func TestComputeAtSideLimitIsNotClamped(t *testing.T) {
	in := defaultInput(t, "arakur-p29", "vx600", MaxSideModules, 1)
	require.NoError(t, in.CheckSize())
	r := Compute(in)
	assert.Equal(t, MaxSideModules, r.WidthModules)
	assert.False(t, r.HasWarning(WarnDimensionsClamped))

	in.Mode = ModeBySize
	in.Width = MaxSideModules * in.Module.WidthCm
	require.NoError(t, in.CheckSize())
	assert.False(t, Compute(in).HasWarning(WarnDimensionsClamped))
}

func TestCheckSizeRejectsNaN(t *testing.T) {
	in := defaultInput(t, "arakur-p29", "vx600", math.NaN(), 2)
	assert.Error(t, in.CheckSize())
	assert.Equal(t, 1, Compute(in).WidthModules)
}

func TestComputeDegenerateCapacity(t *testing.T) {
	t.Run("module exceeds output", func(t *testing.T) {
		in := defaultInput(t, "arakur-p29", "msd300", 2, 2)
		in.Module.PixelsW, in.Module.PixelsH = 1000, 1000
		r := Compute(in)
		assert.Equal(t, 1, r.EffectiveModulesPerOutput)
		assert.True(t, r.ModuleExceedsOutput)
		assert.True(t, r.HasWarning(WarnModuleExceedsOutput))
		assert.Len(t, r.OutputGroups, r.TotalModules)
	})

	t.Run("line exceeds processor", func(t *testing.T) {
		r := Compute(defaultInput(t, "arakur-p29", "vx600", 100, 2))
		assert.Equal(t, 1, r.ProcessorsNeeded)
		assert.True(t, r.HasWarning(WarnLineExceedsProcessor))
		assert.False(t, r.SingleProcessorSufficient)
		require.Len(t, r.Bands, 1)
		assert.Equal(t, 200, r.Bands[0].Modules)
		assertLayoutInvariants(t, r)
	})

	t.Run("resolution exceeds processor", func(t *testing.T) {
		r := Compute(defaultInput(t, "arakur-p29", "vx300", 20, 2))
		assert.False(t, r.WidthSufficient)
		assert.True(t, r.HeightSufficient)
		assert.True(t, r.HasWarning(WarnWidthExceeded))
	})
}

func TestComputeConfiguredCap(t *testing.T) {
	in := defaultInput(t, "arakur-p29", "vx600", 6, 4)
	in.Processor.MaxModulesPerOutput = 8
	r := Compute(in)
	assert.Equal(t, 15, r.RawModulesPerOutput)
	assert.Equal(t, 8, r.EffectiveModulesPerOutput)
	assert.Equal(t, 3, r.UTPInputs)
}

func TestComputeGroupIndexStart(t *testing.T) {
	in := defaultInput(t, "arakur-p29", "vx600", 20, 20)
	in.GroupIndexStart = 101
	r := Compute(in)
	for _, g := range r.OutputGroups {
		assert.Equal(t, 101+g.OutputIndex, g.Label)
	}
}

func TestReversedPatternKeepsGroupBoundaries(t *testing.T) {
	pairs := [][2]WiringPattern{
		{HorizontalRight, HorizontalLeft},
		{VerticalDown, VerticalUp},
	}
	for _, pair := range pairs {
		t.Run(string(pair[0]), func(t *testing.T) {
			a := defaultInput(t, "arakur-p29", "vx600", 13, 11)
			a.Pattern = pair[0]
			b := a
			b.Pattern = pair[1]
			ra, rb := Compute(a), Compute(b)

			require.Equal(t, len(ra.OutputGroups), len(rb.OutputGroups))
			for i := range ra.OutputGroups {
				ga, gb := ra.OutputGroups[i], rb.OutputGroups[i]
				require.Equal(t, len(ga.Modules), len(gb.Modules), "group %d", i)
				assert.Equal(t, ga.ProcessorIndex, gb.ProcessorIndex)
			}
			for i := range ra.Path {
				ca, cb := ra.Path[i], rb.Path[i]
				assert.Equal(t, ca.Line, cb.Line)
				if ra.IsHorizontal {
					assert.Equal(t, ca.Row, cb.Row)
					assert.Equal(t, ra.LineSize-1-ca.Col, cb.Col)
				} else {
					assert.Equal(t, ca.Col, cb.Col)
					assert.Equal(t, ra.LineSize-1-ca.Row, cb.Row)
				}
			}
		})
	}
}

func TestLayoutInvariants(t *testing.T) {
	cat := catalog.Defaults()
	sizes := [][2]float64{{1, 1}, {6, 4}, {7, 3}, {20, 20}, {33, 9}, {5, 40}, {64, 18}}
	for _, p := range cat.ProcessorList() {
		for _, m := range cat.ModuleList() {
			for _, pattern := range Patterns {
				for _, sz := range sizes {
					name := fmt.Sprintf("%s/%s/%s/%gx%g", m.ID, p.ID, pattern, sz[0], sz[1])
					t.Run(name, func(t *testing.T) {
						r := Compute(Input{
							Module:    m,
							Processor: p,
							Catalog:   cat.ProcessorList(),
							Width:     sz[0],
							Height:    sz[1],
							Pattern:   pattern,
						})
						assertLayoutInvariants(t, r)
					})
				}
			}
		}
	}
}

// assertLayoutInvariants checks the structural guarantees every result must hold.
func assertLayoutInvariants(t *testing.T, r *Result) {
	t.Helper()

	require.Equal(t, r.WidthModules*r.HeightModules, r.TotalModules)
	require.Equal(t, r.WidthModules*r.Module.PixelsW, r.ResolutionW)
	require.Equal(t, r.HeightModules*r.Module.PixelsH, r.ResolutionH)
	require.GreaterOrEqual(t, r.EffectiveModulesPerOutput, 1)
	require.True(t, r.Letterbox == 0 || r.Pillarbox == 0)

	// Path is a permutation of the grid.
	require.Len(t, r.Path, r.TotalModules)
	seen := make(map[[2]int]bool, len(r.Path))
	for _, c := range r.Path {
		require.True(t, c.Row >= 0 && c.Row < r.HeightModules && c.Col >= 0 && c.Col < r.WidthModules)
		key := [2]int{c.Row, c.Col}
		require.False(t, seen[key], "duplicate cell %v", key)
		seen[key] = true
	}

	// Consecutive cells are adjacent, including across line breaks.
	for i := 1; i < len(r.Path); i++ {
		a, b := r.Path[i-1], r.Path[i]
		dist := abs(a.Row-b.Row) + abs(a.Col-b.Col)
		require.Equal(t, 1, dist, "cells %v and %v are not adjacent", a, b)
	}

	// Bands partition the line range.
	require.Len(t, r.Bands, r.ProcessorsNeeded)
	next, modules := 0, 0
	for i, b := range r.Bands {
		require.Equal(t, i, b.Index)
		require.Equal(t, next, b.StartLine)
		require.Equal(t, b.StartLine+b.Lines, b.EndLine)
		next = b.EndLine
		modules += b.Modules
		if !r.HasWarning(WarnLineExceedsProcessor) {
			require.LessOrEqual(t, b.Modules, r.Processor.Outputs*r.EffectiveModulesPerOutput)
		}
	}
	require.Equal(t, r.NumLines, next)
	require.Equal(t, r.TotalModules, modules)

	// Groups concatenate to the path and never cross a band.
	var flat []Cell
	for i, g := range r.OutputGroups {
		require.NotEmpty(t, g.Modules)
		require.LessOrEqual(t, len(g.Modules), r.EffectiveModulesPerOutput)
		band := r.Bands[g.ProcessorIndex]
		for _, c := range g.Modules {
			require.True(t, band.Contains(c.Line), "group %d leaves band %d", i, band.Index)
		}
		last := i == len(r.OutputGroups)-1 || r.OutputGroups[i+1].ProcessorIndex != g.ProcessorIndex
		if !last {
			require.Len(t, g.Modules, r.EffectiveModulesPerOutput)
		}
		require.Equal(t, g.OutputIndex, i)
		flat = append(flat, g.Modules...)
	}
	require.Equal(t, r.Path, flat)

	require.Equal(t, len(r.OutputGroups), r.UTPInputs)
	require.Equal(t, r.TotalModules-r.UTPInputs, r.UTPBridges)
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
