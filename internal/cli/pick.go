package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/ledwall/pkg/catalog"
	"github.com/matzehuels/ledwall/pkg/pipeline"
	"github.com/matzehuels/ledwall/pkg/wall"
)

// pickCommand creates the interactive module and processor picker.
func (c *CLI) pickCommand() *cobra.Command {
	var flags layoutFlags

	cmd := &cobra.Command{
		Use:   "pick",
		Short: "Choose a module and processor interactively, then compute",
		Long: `Choose a module and processor interactively, then compute.

The processor list shows how many units of each processor the wall needs,
using the size given with -W/-H (or the defaults).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			opts, err := c.layoutOptions(cmd, &flags)
			if err != nil {
				return err
			}
			runner, err := c.newRunner(ctx, flags.noCache)
			if err != nil {
				return fmt.Errorf("initialize runner: %w", err)
			}
			defer runner.Close()

			model := NewPickModel(runner.Catalog.ModuleList(), runner.Catalog.ProcessorList(), fitFunc(runner, opts))
			final, err := tea.NewProgram(model, tea.WithContext(ctx)).Run()
			if err != nil {
				return err
			}
			picked, ok := final.(PickModel)
			if !ok || !picked.Done() {
				printInfo("Nothing selected")
				return nil
			}

			opts.ModuleID = picked.Module.ID
			opts.ProcessorID = picked.Processor.ID
			if err := c.runCompute(ctx, opts, "", flags.noCache); err != nil {
				return err
			}
			sized := opts
			if err := sized.ValidateForCompute(); err != nil {
				return err
			}
			printNewline()
			printNextStep("Save it with", fmt.Sprintf(`ledwall project save "My wall" -m %s -p %s --mode %s -W %g -H %g`,
				sized.ModuleID, sized.ProcessorID, sized.Mode, sized.Width, sized.Height))
			return nil
		},
	}

	flags.register(cmd)
	flags.registerRun(cmd)

	return cmd
}

// fitFunc returns the processor count the engine needs for each pairing,
// or 0 when the pairing cannot be resolved.
func fitFunc(r *pipeline.Runner, opts pipeline.Options) FitFunc {
	return func(m catalog.Module, p catalog.Processor) int {
		o := opts
		o.ModuleID, o.ProcessorID = m.ID, p.ID
		in, err := r.Input(o)
		if err != nil {
			return 0
		}
		return wall.Compute(in).ProcessorsNeeded
	}
}
