package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/matzehuels/ledwall/pkg/catalog"
	"github.com/matzehuels/ledwall/pkg/errors"
	"github.com/matzehuels/ledwall/pkg/io"
	"github.com/matzehuels/ledwall/pkg/project"
)

// catalogCommand creates the catalog management command.
func (c *CLI) catalogCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "List and edit module and processor types",
		Long: `List and edit module and processor types.

The built-in catalog is always available. Custom entries live in a catalog
file (--catalog, or catalog = "..." in the config file, default
catalog.toml next to config.toml) and replace built-in entries with the
same ID.`,
	}

	cmd.AddCommand(c.catalogListCommand())
	cmd.AddCommand(c.catalogAddModuleCommand())
	cmd.AddCommand(c.catalogAddProcessorCommand())
	cmd.AddCommand(c.catalogRemoveCommand())
	cmd.AddCommand(c.catalogExportCommand())
	cmd.AddCommand(c.catalogImportCommand())

	return cmd
}

// =============================================================================
// List
// =============================================================================

func (c *CLI) catalogListCommand() *cobra.Command {
	return &cobra.Command{
		Use:       "list [modules|processors]",
		Short:     "List module and processor types",
		Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"modules", "processors"},
		RunE: func(cmd *cobra.Command, args []string) error {
			user, _, err := c.userCatalog()
			if err != nil {
				return err
			}
			merged := catalog.Defaults().Merge(user)
			show := func(kind string) bool { return len(args) == 0 || args[0] == kind }

			if show("modules") {
				fmt.Println(StyleTitle.Render("Modules"))
				fmt.Println(renderTable(
					[]string{"ID", "NAME", "PIXELS", "SIZE (CM)", "KG", "W/M²", ""},
					moduleRows(merged, user),
				))
			}
			if show("processors") {
				if show("modules") {
					printNewline()
				}
				fmt.Println(StyleTitle.Render("Processors"))
				fmt.Println(renderTable(
					[]string{"ID", "PROCESSOR", "OUTPUTS", "PIXELS", "MAX W×H", ""},
					processorRows(merged, user),
				))
			}
			return nil
		},
	}
}

func moduleRows(merged, user catalog.Catalog) [][]string {
	var rows [][]string
	for _, m := range merged.ModuleList() {
		_, custom := user.Modules[m.ID]
		rows = append(rows, []string{
			m.ID,
			m.Name,
			fmt.Sprintf("%d×%d", m.PixelsW, m.PixelsH),
			fmt.Sprintf("%g×%g", m.WidthCm, m.HeightCm),
			strconv.FormatFloat(m.WeightKg, 'f', -1, 64),
			strconv.FormatFloat(m.PowerWm2, 'f', -1, 64),
			sourceLabel(custom),
		})
	}
	return rows
}

func processorRows(merged, user catalog.Catalog) [][]string {
	var rows [][]string
	for _, p := range merged.ProcessorList() {
		_, custom := user.Processors[p.ID]
		limits := "-"
		if p.MaxWidth > 0 || p.MaxHeight > 0 {
			limits = fmt.Sprintf("%s×%s", limitLabel(p.MaxWidth), limitLabel(p.MaxHeight))
		}
		rows = append(rows, []string{
			p.ID,
			p.DisplayName(),
			strconv.Itoa(p.Outputs),
			strconv.Itoa(p.TotalPixels),
			limits,
			sourceLabel(custom),
		})
	}
	return rows
}

func sourceLabel(custom bool) string {
	if custom {
		return "custom"
	}
	return ""
}

func limitLabel(v int) string {
	if v == 0 {
		return "∞"
	}
	return strconv.Itoa(v)
}

// =============================================================================
// Add
// =============================================================================

func (c *CLI) catalogAddModuleCommand() *cobra.Command {
	var m catalog.Module

	cmd := &cobra.Command{
		Use:   "add-module",
		Short: "Add a custom module type",
		Long: `Add a custom module type.

The ID is derived from the name: lowercase, spaces become dashes and other
punctuation is dropped ("Arakur P2.9" becomes "arakur-p29").`,
		Example: `  ledwall catalog add-module --name "Arakur P3.9" --pixels-w 128 --pixels-h 128 \
    --width 50 --height 50 --weight 7.5 --power 600`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			user, path, err := c.userCatalog()
			if err != nil {
				return err
			}
			merged := catalog.Defaults().Merge(user)
			_, id, err := merged.AddModule(m)
			if err != nil {
				return err
			}
			m.ID = id
			user.Modules[id] = m
			if err := catalog.WriteFile(path, user); err != nil {
				return err
			}
			printSuccess("Added module %s", StyleHighlight.Render(m.ID))
			printDetail("Catalog: %s", path)
			return nil
		},
	}

	fl := cmd.Flags()
	fl.StringVar(&m.Name, "name", "", "display name (required)")
	fl.StringVar(&m.Description, "description", "", "free-form description")
	fl.IntVar(&m.PixelsW, "pixels-w", 0, "horizontal pixels per module")
	fl.IntVar(&m.PixelsH, "pixels-h", 0, "vertical pixels per module")
	fl.Float64Var(&m.WidthCm, "width", 0, "module width in cm")
	fl.Float64Var(&m.HeightCm, "height", 0, "module height in cm")
	fl.Float64Var(&m.WeightKg, "weight", 0, "module weight in kg")
	fl.Float64Var(&m.PowerWm2, "power", 0, "power density in W/m²")
	fl.IntVar(&m.HangingPoints, "hanging-points", 0, "hanging points per module (default 2)")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func (c *CLI) catalogAddProcessorCommand() *cobra.Command {
	var p catalog.Processor

	cmd := &cobra.Command{
		Use:   "add-processor",
		Short: "Add a custom processor type",
		Long: `Add a custom processor type.

The ID is derived from "brand-model". A maximum width or height of 0 means
the processor does not limit that dimension.`,
		Example: `  ledwall catalog add-processor --brand NovaStar --model H2 --outputs 20 --total-pixels 13000000`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			user, path, err := c.userCatalog()
			if err != nil {
				return err
			}
			merged := catalog.Defaults().Merge(user)
			_, id, err := merged.AddProcessor(p)
			if err != nil {
				return err
			}
			p.ID = id
			user.Processors[id] = p
			if err := catalog.WriteFile(path, user); err != nil {
				return err
			}
			printSuccess("Added processor %s", StyleHighlight.Render(p.ID))
			printDetail("Catalog: %s", path)
			return nil
		},
	}

	fl := cmd.Flags()
	fl.StringVar(&p.Brand, "brand", "", "manufacturer (required)")
	fl.StringVar(&p.Model, "model", "", "model name (required)")
	fl.StringVar(&p.Description, "description", "", "free-form description")
	fl.IntVar(&p.Outputs, "outputs", 0, "number of Ethernet outputs")
	fl.IntVar(&p.TotalPixels, "total-pixels", 0, "total pixel capacity")
	fl.IntVar(&p.MaxWidth, "max-width", 0, "maximum horizontal resolution (0 = unlimited)")
	fl.IntVar(&p.MaxHeight, "max-height", 0, "maximum vertical resolution (0 = unlimited)")
	fl.IntVar(&p.MaxModulesPerOutput, "max-modules-per-output", 0, "hard cap of modules per output (0 = from pixels)")
	_ = cmd.MarkFlagRequired("brand")
	_ = cmd.MarkFlagRequired("model")

	return cmd
}

// =============================================================================
// Remove
// =============================================================================

func (c *CLI) catalogRemoveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <id>",
		Short: "Remove a custom module or processor",
		Long: `Remove a custom module or processor.

Only entries from the catalog file can be removed. Removing a custom entry
that replaced a built-in one restores the built-in definition.`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: c.completeCustomEntries,
		RunE: func(cmd *cobra.Command, args []string) error {
			user, path, err := c.userCatalog()
			if err != nil {
				return err
			}
			updated, kind, err := removeCustom(user, args[0])
			if err != nil {
				return err
			}
			if err := catalog.WriteFile(path, updated); err != nil {
				return err
			}
			printSuccess("Removed %s %s", kind, StyleHighlight.Render(args[0]))

			defaults := catalog.Defaults()
			_, isModule := defaults.Modules[args[0]]
			_, isProcessor := defaults.Processors[args[0]]
			if isModule || isProcessor {
				printDetail("The built-in %s is used again", kind)
			}
			return nil
		},
	}
}

// removeCustom deletes id from the user catalog. Built-in entries without a
// custom override cannot be removed.
func removeCustom(user catalog.Catalog, id string) (catalog.Catalog, string, error) {
	out := user.Clone()
	if _, ok := out.Modules[id]; ok {
		delete(out.Modules, id)
		return out, "module", nil
	}
	if _, ok := out.Processors[id]; ok {
		delete(out.Processors, id)
		return out, "processor", nil
	}

	defaults := catalog.Defaults()
	if _, ok := defaults.Modules[id]; ok {
		return user, "", errors.New(errors.ErrCodeUnsupported, "built-in module %s cannot be removed", id)
	}
	if _, ok := defaults.Processors[id]; ok {
		return user, "", errors.New(errors.ErrCodeUnsupported, "built-in processor %s cannot be removed", id)
	}
	return user, "", errors.New(errors.ErrCodeNotFound, "no module or processor with ID %s", id)
}

// =============================================================================
// Import / Export
// =============================================================================

func (c *CLI) catalogExportCommand() *cobra.Command {
	var noProjects bool

	cmd := &cobra.Command{
		Use:   "export <file.json>",
		Short: "Export the catalog and saved projects to a JSON bundle",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := c.loadCatalog()
			if err != nil {
				return err
			}

			var projects []*project.Project
			if !noProjects {
				store, err := c.newStore(cmd.Context())
				if err != nil {
					return err
				}
				defer store.Close()
				if projects, err = store.List(cmd.Context()); err != nil {
					return err
				}
			}

			if err := io.ExportFile(args[0], io.NewBundle(cat, projects)); err != nil {
				return err
			}
			printSuccess("Exported %d modules, %d processors, %d projects",
				len(cat.Modules), len(cat.Processors), len(projects))
			printFile(args[0])
			return nil
		},
	}

	cmd.Flags().BoolVar(&noProjects, "no-projects", false, "export the catalog only")
	return cmd
}

func (c *CLI) catalogImportCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.json>",
		Short: "Import a JSON bundle into the catalog file and project store",
		Long: `Import a JSON bundle into the catalog file and project store.

Modules and processors are merged into the catalog file; entries with an
existing ID are replaced. Projects keep their IDs, so importing the same
bundle twice updates them in place. Single-project exports of the original
web tool are accepted as well.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			b, err := io.ImportFile(args[0])
			if err != nil {
				return err
			}
			user, path, err := c.userCatalog()
			if err != nil {
				return err
			}

			var store project.Store
			if len(b.Projects) > 0 {
				if store, err = c.newStore(ctx); err != nil {
					return err
				}
				defer store.Close()
			}

			updated, err := io.Apply(ctx, b, user, store)
			if err != nil {
				return err
			}
			updated = withoutDefaults(updated)
			if len(b.Modules) > 0 || len(b.Processors) > 0 {
				if err := catalog.WriteFile(path, updated); err != nil {
					return err
				}
			}
			printSuccess("Imported %d modules, %d processors, %d projects",
				len(b.Modules), len(b.Processors), len(b.Projects))
			printDetail("Catalog: %s", path)
			return nil
		},
	}
}

// withoutDefaults drops entries identical to their built-in definition, so a
// re-imported full export does not turn every built-in into a custom entry.
func withoutDefaults(user catalog.Catalog) catalog.Catalog {
	defaults := catalog.Defaults()
	out := user.Clone()
	for id, m := range out.Modules {
		if d, ok := defaults.Modules[id]; ok && d == m {
			delete(out.Modules, id)
		}
	}
	for id, p := range out.Processors {
		if d, ok := defaults.Processors[id]; ok && d == p {
			delete(out.Processors, id)
		}
	}
	return out
}
