package wall

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/ledwall/pkg/catalog"
	"github.com/matzehuels/ledwall/pkg/errors"
)

func TestAllocateExtraLinesGoToLaterProcessors(t *testing.T) {
	tests := []struct {
		numLines int
		want     []int
	}{
		{numLines: 8, want: []int{4, 4}},
		{numLines: 10, want: []int{3, 3, 4}},
		{numLines: 11, want: []int{3, 4, 4}},
		{numLines: 13, want: []int{3, 3, 3, 4}},
	}
	for _, tt := range tests {
		a := Allocate(Axis{Horizontal: true, LineSize: 20, NumLines: tt.numLines}, 15, 6)
		got := make([]int, len(a.Bands))
		for i, b := range a.Bands {
			got[i] = b.Lines
		}
		assert.Equal(t, tt.want, got, "numLines=%d", tt.numLines)
		assert.Equal(t, 4, a.LinesPerProcessorMax)
	}
}

func TestAllocateLineExceedsProcessor(t *testing.T) {
	a := Allocate(Axis{Horizontal: true, LineSize: 100, NumLines: 3}, 15, 6)
	assert.True(t, a.LineExceedsProcessor)
	assert.Equal(t, 1, a.ProcessorsNeeded)
	require.Len(t, a.Bands, 1)
	assert.Equal(t, 3, a.Bands[0].EndLine)
	assert.Equal(t, 20, a.Bands[0].OutputsUsed)
}

func TestBuildPath(t *testing.T) {
	cells := func(path []Cell) [][2]int {
		out := make([][2]int, len(path))
		for i, c := range path {
			out[i] = [2]int{c.Row, c.Col}
		}
		return out
	}

	horizontal := Axis{Horizontal: true, LineSize: 3, NumLines: 2}
	assert.Equal(t, [][2]int{{0, 0}, {0, 1}, {0, 2}, {1, 2}, {1, 1}, {1, 0}}, cells(BuildPath(horizontal, false)))
	assert.Equal(t, [][2]int{{0, 2}, {0, 1}, {0, 0}, {1, 0}, {1, 1}, {1, 2}}, cells(BuildPath(horizontal, true)))

	vertical := Axis{Horizontal: false, LineSize: 2, NumLines: 3}
	assert.Equal(t, [][2]int{{0, 0}, {1, 0}, {1, 1}, {0, 1}, {0, 2}, {1, 2}}, cells(BuildPath(vertical, false)))
	assert.Equal(t, [][2]int{{1, 0}, {0, 0}, {0, 1}, {1, 1}, {1, 2}, {0, 2}}, cells(BuildPath(vertical, true)))
}

func TestGroupOutputsStaysInsideBands(t *testing.T) {
	ax := Axis{Horizontal: true, LineSize: 5, NumLines: 4}
	bands := []Band{
		{Index: 0, StartLine: 0, EndLine: 2, Lines: 2, Modules: 10, OutputsUsed: 2},
		{Index: 1, StartLine: 2, EndLine: 4, Lines: 2, Modules: 10, OutputsUsed: 2, StartOutputIndex: 2},
	}
	groups := GroupOutputs(BuildPath(ax, false), bands, 7, 1)

	require.Len(t, groups, 4)
	sizes := []int{len(groups[0].Modules), len(groups[1].Modules), len(groups[2].Modules), len(groups[3].Modules)}
	assert.Equal(t, []int{7, 3, 7, 3}, sizes)
	assert.Equal(t, []int{0, 0, 1, 1}, []int{groups[0].ProcessorIndex, groups[1].ProcessorIndex, groups[2].ProcessorIndex, groups[3].ProcessorIndex})
	assert.Equal(t, 1, groups[2].LocalIndex)
	assert.Equal(t, 3, groups[2].Label)

	inputs, bridges := CableCounts(groups)
	assert.Equal(t, 4, inputs)
	assert.Equal(t, 16, bridges)
}

func TestAnalyzeAspect(t *testing.T) {
	tests := []struct {
		name           string
		w, h           int
		want           string
		letter, pillar int
	}{
		{name: "exact 16:9 prefers first entry", w: 1920, h: 1080, want: "16:9"},
		{name: "square", w: 1000, h: 1000, want: "1:1"},
		{name: "tall screen letterboxed", w: 900, h: 1000, want: "1:1", letter: 100},
		{name: "ultrawide", w: 2600, h: 1000, want: "21:9", pillar: 267},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := AnalyzeAspect(tt.w, tt.h)
			assert.Equal(t, tt.want, a.Standard.Name)
			assert.Equal(t, tt.letter, a.Letterbox)
			assert.Equal(t, tt.pillar, a.Pillarbox)
		})
	}
}

func TestComputeCapacity(t *testing.T) {
	p := catalog.Processor{Outputs: 6, TotalPixels: 3_900_000}
	c := ComputeCapacity(p, 208*208)
	assert.Equal(t, 650_000, c.PixelsPerOutput)
	assert.Equal(t, 15, c.RawModulesPerOutput)
	assert.Equal(t, 15, c.EffectiveModulesPerOutput)
	assert.False(t, c.ModuleExceedsOutput)

	p.MaxModulesPerOutput = 20
	assert.Equal(t, 15, ComputeCapacity(p, 208*208).EffectiveModulesPerOutput, "cap above raw capacity has no effect")

	p.MaxModulesPerOutput = 10
	assert.Equal(t, 10, ComputeCapacity(p, 208*208).EffectiveModulesPerOutput)

	c = ComputeCapacity(catalog.Processor{Outputs: 2, TotalPixels: 100}, 208*208)
	assert.Equal(t, 1, c.EffectiveModulesPerOutput)
	assert.True(t, c.ModuleExceedsOutput)
}

func TestRecommend(t *testing.T) {
	m := catalog.Defaults().Modules["arakur-p29"]
	g := ResolveGrid(m, ModeByCount, 20, 20)
	ax := AxisFor(g, HorizontalRight)

	candidates := []catalog.Processor{
		{ID: "big-a", Outputs: 16, TotalPixels: 10_400_000},
		{ID: "big-b", Outputs: 16, TotalPixels: 10_400_000},
		{ID: "small", Outputs: 2, TotalPixels: 1_300_000},
		{ID: "selected", Outputs: 40, TotalPixels: 26_000_000},
	}
	rec, ok := Recommend(g, ax, candidates, "selected")
	require.True(t, ok)
	assert.Equal(t, "big-a", rec.Processor.ID, "ties resolve to catalog order")
	assert.Equal(t, 2, rec.Count)

	_, ok = Recommend(g, ax, []catalog.Processor{{ID: "tiny", Outputs: 1, TotalPixels: 1000, MaxWidth: 100}}, "")
	assert.False(t, ok)

	// Catalog lists are ID-ordered, whatever order entries were added in.
	cat := catalog.New()
	cat.Processors["zeta"] = catalog.Processor{ID: "zeta", Outputs: 16, TotalPixels: 10_400_000}
	cat.Processors["alpha"] = catalog.Processor{ID: "alpha", Outputs: 16, TotalPixels: 10_400_000}
	rec, ok = Recommend(g, ax, cat.ProcessorList(), "")
	require.True(t, ok)
	assert.Equal(t, "alpha", rec.Processor.ID)
}

func TestParse(t *testing.T) {
	mode, err := ParseInputMode("modules")
	require.NoError(t, err)
	assert.Equal(t, ModeByCount, mode)
	mode, err = ParseInputMode("size")
	require.NoError(t, err)
	assert.Equal(t, ModeBySize, mode)
	_, err = ParseInputMode("pixels")
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidInput))

	p, err := ParsePattern("Vertical-Up")
	require.NoError(t, err)
	assert.Equal(t, VerticalUp, p)
	assert.False(t, p.Horizontal())
	assert.True(t, p.Reversed())
	_, err = ParsePattern("diagonal")
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidPattern))
}

func TestInputValidate(t *testing.T) {
	cat := catalog.Defaults()
	in := Input{Module: cat.Modules["arakur-p29"], Processor: cat.Processors["vx600"]}.Normalize()
	require.NoError(t, in.Validate())

	bad := in
	bad.Mode = "pixels"
	assert.True(t, errors.Is(bad.Validate(), errors.ErrCodeInvalidInput))

	bad = in
	bad.Processor.Outputs = 0
	assert.True(t, errors.Is(bad.Validate(), errors.ErrCodeInvalidProcessor))
}
