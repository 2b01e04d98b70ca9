package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/ledwall/pkg/errors"
	"github.com/matzehuels/ledwall/pkg/pipeline"
	"github.com/matzehuels/ledwall/pkg/project"
	"github.com/matzehuels/ledwall/pkg/wall"
)

// =============================================================================
// Layout Flags
// =============================================================================

// layoutFlags are the wall inputs shared by compute, render and project save.
type layoutFlags struct {
	module     string
	processor  string
	mode       string
	width      float64
	height     float64
	pattern    string
	groupStart int
	project    string
	strict     bool
	noCache    bool
	refresh    bool
}

func (f *layoutFlags) register(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.StringVarP(&f.module, "module", "m", "", "module ID (default from config)")
	fl.StringVarP(&f.processor, "processor", "p", "", "processor ID (default from config)")
	fl.StringVar(&f.mode, "mode", "", "input mode: by-count (default), by-size")
	fl.Float64VarP(&f.width, "width", "W", 0, "wall width in modules (by-count) or cm (by-size)")
	fl.Float64VarP(&f.height, "height", "H", 0, "wall height in modules (by-count) or cm (by-size)")
	fl.StringVar(&f.pattern, "pattern", "", "wiring pattern: horizontal-right, horizontal-left, vertical-down, vertical-up")
	fl.IntVar(&f.groupStart, "start", 0, "number printed on the first output group")
}

// registerRun adds the flags that only matter when a layout is computed.
func (f *layoutFlags) registerRun(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.StringVar(&f.project, "project", "", "start from a saved project (ID, ID prefix or name)")
	fl.BoolVar(&f.strict, "strict", false, "fail when the processors cannot drive the wall")
	fl.BoolVar(&f.noCache, "no-cache", false, "disable caching")
	fl.BoolVar(&f.refresh, "refresh", false, "recompute even when a cached layout exists")
}

// defaultOptions returns the layout defaults of the config file.
func (c *CLI) defaultOptions() pipeline.Options {
	d := c.cfg.Defaults
	return pipeline.Options{
		ModuleID:        d.Module,
		ProcessorID:     d.Processor,
		Pattern:         d.Pattern,
		ColorScheme:     d.ColorScheme,
		GroupIndexStart: d.GroupIndexStart,
	}
}

// apply copies the flags the user set explicitly onto opts.
func (f *layoutFlags) apply(cmd *cobra.Command, opts *pipeline.Options) {
	fl := cmd.Flags()
	if fl.Changed("module") {
		opts.ModuleID = f.module
	}
	if fl.Changed("processor") {
		opts.ProcessorID = f.processor
	}
	if fl.Changed("mode") && f.mode != opts.Mode {
		opts.Mode = f.mode
		// Counts and centimetres do not translate; fall back to the mode's default size.
		opts.Width, opts.Height = 0, 0
	}
	if fl.Changed("width") {
		opts.Width = f.width
	}
	if fl.Changed("height") {
		opts.Height = f.height
	}
	if fl.Changed("pattern") {
		opts.Pattern = f.pattern
	}
	if fl.Changed("start") {
		opts.GroupIndexStart = f.groupStart
	}
}

// layoutOptions builds pipeline options from config defaults, an optional
// saved project and the flags the user set explicitly, in that order.
func (c *CLI) layoutOptions(cmd *cobra.Command, f *layoutFlags) (pipeline.Options, error) {
	opts := c.defaultOptions()
	if f.project != "" {
		p, err := c.findProject(cmd.Context(), f.project)
		if err != nil {
			return opts, err
		}
		opts = p.Options()
	}

	f.apply(cmd, &opts)
	opts.Strict = c.cfg.Strict || f.strict
	opts.Refresh = f.refresh
	opts.Logger = c.Logger
	return opts, nil
}

// findProject opens the store just long enough to resolve ref.
func (c *CLI) findProject(ctx context.Context, ref string) (*project.Project, error) {
	store, err := c.newStore(ctx)
	if err != nil {
		return nil, err
	}
	defer store.Close()
	return project.Find(ctx, store, ref)
}

// =============================================================================
// Compute Command
// =============================================================================

// computeCommand creates the compute command.
func (c *CLI) computeCommand() *cobra.Command {
	var (
		flags  layoutFlags
		output string
	)

	cmd := &cobra.Command{
		Use:   "compute",
		Short: "Calculate a wall layout and print its summary",
		Long: `Calculate a wall layout and print its summary.

The wall is described by a module type, a processor type and either a size in
modules (--mode by-count) or in centimetres (--mode by-size). Values not given
on the command line come from --project, then from the config file.

Use -o to write the full result as JSON.`,
		Example: `  ledwall compute -W 12 -H 6
  ledwall compute --mode by-size -W 500 -H 280 -p vx1000
  ledwall compute --project "Main stage" -o layout.json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := c.layoutOptions(cmd, &flags)
			if err != nil {
				return err
			}
			return c.runCompute(cmd.Context(), opts, output, flags.noCache)
		},
	}

	flags.register(cmd)
	flags.registerRun(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "write the result as JSON to this file")

	return cmd
}

func (c *CLI) runCompute(ctx context.Context, opts pipeline.Options, output string, noCache bool) error {
	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	prog := newProgress(loggerFromContext(ctx))
	res, cacheHit, err := runner.ComputeWithCacheInfo(ctx, opts)
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Computed %d modules", res.TotalModules))

	printSummary(res)
	printStats(res.TotalModules, res.ProcessorsNeeded, cacheHit)

	if output == "" {
		return nil
	}
	data, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode result")
	}
	if err := writeFile(output, data); err != nil {
		return err
	}
	printFile(output)
	return nil
}

// =============================================================================
// Summary Output
// =============================================================================

// summaryRows flattens the headline figures of a result into label/value rows.
func summaryRows(res *wall.Result) [][]string {
	rows := [][]string{
		{"Module", res.Module.Name},
		{"Processor", res.Processor.DisplayName()},
		{"Grid", fmt.Sprintf("%d × %d modules", res.WidthModules, res.HeightModules)},
		{"Size", fmt.Sprintf("%.2fm × %.2fm (%.2f m²)", res.WidthM, res.HeightM, res.AreaM2)},
		{"Resolution", fmt.Sprintf("%d × %d px (%.2f MP)", res.ResolutionW, res.ResolutionH, res.Megapixels)},
		{"Aspect", fmt.Sprintf("%.3f:1, closest %s", res.AspectRatio, res.Standard.Name)},
		{"Processors", fmt.Sprintf("%d", res.ProcessorsNeeded)},
		{"Outputs", fmt.Sprintf("%d of %d, up to %d modules each", res.TotalOutputsNeeded, res.TotalOutputsAvailable, res.EffectiveModulesPerOutput)},
		{"Cabling", fmt.Sprintf("%s, %d inputs + %d bridges", res.Pattern, res.UTPInputs, res.UTPBridges)},
		{"Power", fmt.Sprintf("%.0f W (%.1f A @ 220V, %.1f A @ 110V)", res.TotalPowerW, res.TotalAmps220, res.TotalAmps110)},
		{"Weight", fmt.Sprintf("%.1f kg, %.1f kg per hanging point", res.TotalWeightKg, res.WeightPerHangingPoint)},
	}
	if res.RecommendedProcessor != nil && !res.SingleProcessorSufficient {
		rows = append(rows, []string{"Recommended", fmt.Sprintf("%d × %s", res.RecommendedProcessorCount, res.RecommendedProcessor.DisplayName())})
	}
	return rows
}

// printSummary prints the result table followed by any warnings.
func printSummary(res *wall.Result) {
	labelStyle := lipgloss.NewStyle().Foreground(colorGray).PaddingRight(2)
	valueStyle := lipgloss.NewStyle().Foreground(colorWhite)

	t := table.New().
		Border(lipgloss.HiddenBorder()).
		Rows(summaryRows(res)...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if col == 0 {
				return labelStyle
			}
			return valueStyle
		})

	fmt.Println(StyleTitle.Render(fmt.Sprintf("%d × %d %s wall", res.WidthModules, res.HeightModules, res.Module.Name)))
	fmt.Println(strings.TrimRight(t.Render(), "\n"))
	printWarnings(res.Warnings)
}
