package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/ledwall/pkg/catalog"
	"github.com/matzehuels/ledwall/pkg/errors"
	"github.com/matzehuels/ledwall/pkg/pipeline"
	"github.com/matzehuels/ledwall/pkg/render/pixelmap"
)

// defaultBaseName names output files when neither -o nor a project name is given.
const defaultBaseName = "ledwall"

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		flags      layoutFlags
		formatsStr string
		output     string
		name       string
		scheme     string
		detailed   bool
	)

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render pixel maps, cabling diagrams and reports",
		Long: `Render pixel maps, cabling diagrams and reports.

Formats:
  svg, png, pdf     pixel map with processor colors and data flow arrows
  dot, cabling-svg  cabling topology (processor → output → module chain)
  commercial        plain-text summary for quotes
  technical         plain-text processing, cabling and rigging details
  json              the computed layout

PNG and PDF need rsvg-convert on PATH.

With a single format, -o is the output file. With several, -o is a base path
and each format gets its own extension. Results are cached locally.`,
		Example: `  ledwall render -W 12 -H 6 -f svg,technical
  ledwall render --project "Main stage" -f png,pdf,cabling-svg -o out/main`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := c.layoutOptions(cmd, &flags)
			if err != nil {
				return err
			}
			opts.Formats = parseFormats(formatsStr)
			if err := pipeline.ValidateFormats(opts.Formats); err != nil {
				return err
			}
			if cmd.Flags().Changed("scheme") {
				opts.ColorScheme = scheme
			}
			if err := pipeline.ValidateColorScheme(opts.ColorScheme); err != nil {
				return err
			}
			if cmd.Flags().Changed("name") || opts.ProjectName == "" {
				opts.ProjectName = name
			}
			opts.DetailedCabling = detailed
			return c.runRender(cmd.Context(), opts, output, flags.noCache)
		},
	}

	flags.register(cmd)
	flags.registerRun(cmd)
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s), comma-separated: "+strings.Join(pipeline.Formats, ", ")+" (default svg)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVar(&name, "name", "", "project name shown on the pixel map and reports")
	cmd.Flags().StringVar(&scheme, "scheme", "", "color scheme for single-processor walls: "+schemeIDs())
	cmd.Flags().BoolVar(&detailed, "detailed", false, "list every module in the cabling diagram")

	return cmd
}

func (c *CLI) runRender(ctx context.Context, opts pipeline.Options, output string, noCache bool) error {
	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Rendering %s...", strings.Join(opts.Formats, ", ")))
	spinner.Start()

	result, err := runner.Execute(ctx, opts)
	if err != nil {
		spinner.StopWithError("Render failed")
		return err
	}
	spinner.Stop()
	loggerFromContext(ctx).Debug("pipeline finished", "stats", result.Stats.String())

	printSuccess("Rendered %d × %d wall", result.Layout.WidthModules, result.Layout.HeightModules)
	printStats(result.Stats.TotalModules, result.Stats.Processors, result.CacheInfo.ComputeHit && result.CacheInfo.RenderHit)

	paths := artifactPaths(opts.Formats, output, opts.ProjectName)
	for _, format := range opts.Formats {
		path := paths[format]
		if err := writeFile(path, result.Artifacts[format]); err != nil {
			return err
		}
		printFile(path)
	}
	return nil
}

// artifactPaths maps each format to its output file. A single format with an
// explicit output uses it verbatim; otherwise the output (minus extension),
// the slugged project name or "ledwall" is the base and each format appends
// its own extension.
func artifactPaths(formats []string, output, projectName string) map[string]string {
	paths := make(map[string]string, len(formats))
	if len(formats) == 1 && output != "" {
		paths[formats[0]] = output
		return paths
	}

	base := output
	switch {
	case base != "":
		base = strings.TrimSuffix(base, filepath.Ext(base))
	case catalog.Slug(projectName) != "":
		base = catalog.Slug(projectName)
	default:
		base = defaultBaseName
	}
	for _, f := range formats {
		paths[f] = base + "." + pipeline.Extension(f)
	}
	return paths
}

func writeFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.Wrap(errors.ErrCodeStorage, err, "create %s", dir)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "write %s", path)
	}
	return nil
}

func schemeIDs() string {
	ids := make([]string, len(pixelmap.Schemes))
	for i, s := range pixelmap.Schemes {
		ids[i] = s.ID
	}
	return strings.Join(ids, ", ")
}
