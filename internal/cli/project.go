package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/ledwall/pkg/errors"
	"github.com/matzehuels/ledwall/pkg/pipeline"
	"github.com/matzehuels/ledwall/pkg/project"
)

// shortIDLen is the ID prefix shown in listings; any unique prefix resolves.
const shortIDLen = 8

// projectCommand creates the project management command.
func (c *CLI) projectCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "project",
		Aliases: []string{"projects"},
		Short:   "Manage saved wall configurations",
		Long: `Manage saved wall configurations.

Projects are referenced by ID, unique ID prefix or name (case-insensitive).
Use --project with compute or render to start from a saved project.`,
	}

	cmd.AddCommand(c.projectListCommand())
	cmd.AddCommand(c.projectSaveCommand())
	cmd.AddCommand(c.projectShowCommand())
	cmd.AddCommand(c.projectDeleteCommand())
	cmd.AddCommand(c.projectDuplicateCommand())

	return cmd
}

func (c *CLI) projectListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List saved projects",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := c.newStore(cmd.Context())
			if err != nil {
				return err
			}
			defer store.Close()

			projects, err := store.List(cmd.Context())
			if err != nil {
				return err
			}
			if len(projects) == 0 {
				printInfo("No saved projects")
				printNextStep("Save one with", `ledwall project save "My wall" -W 12 -H 6`)
				return nil
			}
			fmt.Println(renderTable(
				[]string{"ID", "NAME", "MODULE", "PROCESSOR", "SIZE", "UPDATED", ""},
				projectRows(projects),
			))
			return nil
		},
	}
}

func projectRows(projects []*project.Project) [][]string {
	rows := make([][]string, 0, len(projects))
	for _, p := range projects {
		rows = append(rows, []string{
			shortID(p.ID),
			p.Name,
			p.Config.Module,
			p.Config.Processor,
			configSize(p.Config),
			p.UpdatedAt.Local().Format("2006-01-02 15:04"),
			"",
		})
	}
	return rows
}

func shortID(id string) string {
	if len(id) > shortIDLen {
		return id[:shortIDLen]
	}
	return id
}

func configSize(cfg project.Config) string {
	if cfg.Mode == "by-size" {
		return fmt.Sprintf("%g × %g cm", cfg.WidthCm, cfg.HeightCm)
	}
	return fmt.Sprintf("%d × %d", cfg.WidthModules, cfg.HeightModules)
}

// projectSaveCommand creates or updates a project from the layout flags.
func (c *CLI) projectSaveCommand() *cobra.Command {
	var (
		flags  layoutFlags
		scheme string
	)

	cmd := &cobra.Command{
		Use:   "save <name>",
		Short: "Save a wall configuration under a name",
		Long: `Save a wall configuration under a name.

If a project with that name exists, only the flags given on the command line
change it. Otherwise a new project starts from the config file defaults.`,
		Example: `  ledwall project save "Main stage" -W 12 -H 6 -p vx1000
  ledwall project save "Main stage" --pattern vertical-down`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, err := c.newStore(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			p, err := findByName(ctx, store, args[0])
			if err != nil {
				return err
			}
			created := p == nil
			if created {
				if p, err = project.New(args[0]); err != nil {
					return err
				}
				p.Config = p.Config.WithOptions(c.defaultOptions())
			}

			// Only explicit flags change an existing project.
			var opts pipeline.Options
			flags.apply(cmd, &opts)
			if cmd.Flags().Changed("scheme") {
				opts.ColorScheme = scheme
			}
			p.Config = p.Config.WithOptions(opts)

			if err := store.Save(ctx, p); err != nil {
				return err
			}
			if created {
				printSuccess("Created project %s", StyleHighlight.Render(p.Name))
			} else {
				printSuccess("Updated project %s", StyleHighlight.Render(p.Name))
			}
			printDetail("ID: %s", p.ID)
			printNextStep("Render it with", fmt.Sprintf("ledwall render --project %s -f svg,technical", shortID(p.ID)))
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&scheme, "scheme", "", "color scheme for single-processor walls: "+schemeIDs())

	return cmd
}

// findByName returns the project named name (case-insensitive), or nil.
func findByName(ctx context.Context, s project.Store, name string) (*project.Project, error) {
	all, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	for _, p := range all {
		if strings.EqualFold(p.Name, strings.TrimSpace(name)) {
			return p, nil
		}
	}
	return nil, nil
}

func (c *CLI) projectShowCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:               "show <project>",
		Short:             "Show a saved project",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: c.completeProjects,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := c.findProject(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if asJSON {
				data, err := json.MarshalIndent(p, "", "  ")
				if err != nil {
					return errors.Wrap(errors.ErrCodeInternal, err, "encode project")
				}
				fmt.Println(string(data))
				return nil
			}

			fmt.Println(StyleTitle.Render(p.Name))
			printKeyValue("ID", p.ID)
			printKeyValue("Module", p.Config.Module)
			printKeyValue("Processor", p.Config.Processor)
			printKeyValue("Mode", p.Config.Mode)
			printKeyValue("Size", configSize(p.Config))
			printKeyValue("Pattern", p.Config.Pattern)
			printKeyValue("Colors", p.Config.ColorScheme)
			printKeyValue("First label", strconv.Itoa(p.Config.GroupIndexStart))
			printKeyValue("Created", p.CreatedAt.Local().Format("Jan 2, 2006 15:04"))
			printKeyValue("Updated", p.UpdatedAt.Local().Format("Jan 2, 2006 15:04"))
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the project as JSON")
	return cmd
}

func (c *CLI) projectDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:               "delete <project>",
		Aliases:           []string{"rm"},
		Short:             "Delete a saved project",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: c.completeProjects,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, err := c.newStore(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			p, err := project.Find(ctx, store, args[0])
			if err != nil {
				return err
			}
			if err := store.Delete(ctx, p.ID); err != nil {
				return err
			}
			printSuccess("Deleted project %s", StyleHighlight.Render(p.Name))
			return nil
		},
	}
}

func (c *CLI) projectDuplicateCommand() *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:               "duplicate <project>",
		Short:             "Copy a saved project",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: c.completeProjects,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, err := c.newStore(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			src, err := project.Find(ctx, store, args[0])
			if err != nil {
				return err
			}
			dup := src.Duplicate()
			if name != "" {
				if err := errors.ValidateName(name); err != nil {
					return err
				}
				dup.Name = name
			}
			if err := store.Save(ctx, dup); err != nil {
				return err
			}
			printSuccess("Created %s", StyleHighlight.Render(dup.Name))
			printDetail("ID: %s", dup.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", `name of the copy (default "<name> (copy)")`)
	return cmd
}
