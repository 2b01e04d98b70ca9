package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/ledwall/pkg/catalog"
	"github.com/matzehuels/ledwall/pkg/wall"
)

// completionCommand creates the shell completion command.
func (c *CLI) completionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for ledwall.

Bash:
  $ source <(ledwall completion bash)

Zsh:
  $ ledwall completion zsh > "${fpath[1]}/_ledwall"

Fish:
  $ ledwall completion fish > ~/.config/fish/completions/ledwall.fish

PowerShell:
  PS> ledwall completion powershell | Out-String | Invoke-Expression
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		// Completion must work without a readable config file.
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletionV2(out, true)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			default:
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
		},
	}
}

// =============================================================================
// Dynamic Completion
// =============================================================================

type completeFunc = func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective)

// registerCompletions walks the command tree and completes catalog IDs,
// patterns, modes and color schemes wherever those flags exist.
func (c *CLI) registerCompletions(root *cobra.Command) {
	flagFuncs := map[string]completeFunc{
		"module":    c.completeModules,
		"processor": c.completeProcessors,
		"project":   c.completeProjects,
		"pattern":   fixedCompletion(patternNames()...),
		"mode":      fixedCompletion(string(wall.ModeByCount), string(wall.ModeBySize)),
		"scheme":    fixedCompletion(strings.Split(schemeIDs(), ", ")...),
	}

	var walk func(cmd *cobra.Command)
	walk = func(cmd *cobra.Command) {
		for name, fn := range flagFuncs {
			if cmd.Flags().Lookup(name) != nil {
				_ = cmd.RegisterFlagCompletionFunc(name, fn)
			}
		}
		for _, sub := range cmd.Commands() {
			walk(sub)
		}
	}
	walk(root)
}

func fixedCompletion(values ...string) completeFunc {
	return func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return values, cobra.ShellCompDirectiveNoFileComp
	}
}

// completionCatalog loads the catalog for completion. Hooks do not run
// during completion, so the config is read here.
func (c *CLI) completionCatalog() (catalog.Catalog, bool) {
	if err := c.loadConfig(); err != nil {
		return catalog.Catalog{}, false
	}
	cat, err := c.loadCatalog()
	return cat, err == nil
}

func (c *CLI) completeModules(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	cat, ok := c.completionCatalog()
	if !ok {
		return nil, cobra.ShellCompDirectiveError
	}
	var out []string
	for _, m := range cat.ModuleList() {
		out = append(out, m.ID+"\t"+m.Name)
	}
	return out, cobra.ShellCompDirectiveNoFileComp
}

func (c *CLI) completeProcessors(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	cat, ok := c.completionCatalog()
	if !ok {
		return nil, cobra.ShellCompDirectiveError
	}
	var out []string
	for _, p := range cat.ProcessorList() {
		out = append(out, fmt.Sprintf("%s\t%s, %d outputs", p.ID, p.DisplayName(), p.Outputs))
	}
	return out, cobra.ShellCompDirectiveNoFileComp
}

// completeCustomEntries offers the IDs in the user catalog file, the only
// ones catalog remove accepts.
func (c *CLI) completeCustomEntries(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 || c.loadConfig() != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	user, _, err := c.userCatalog()
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	var out []string
	for _, m := range user.ModuleList() {
		out = append(out, m.ID+"\tmodule")
	}
	for _, p := range user.ProcessorList() {
		out = append(out, p.ID+"\tprocessor")
	}
	return out, cobra.ShellCompDirectiveNoFileComp
}

// completeProjects offers project names; any of them resolves with --project.
func (c *CLI) completeProjects(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 || c.loadConfig() != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	store, err := c.newStore(cmd.Context())
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	defer store.Close()

	projects, err := store.List(cmd.Context())
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	out := make([]string, 0, len(projects))
	for _, p := range projects {
		out = append(out, p.Name+"\t"+shortID(p.ID))
	}
	return out, cobra.ShellCompDirectiveNoFileComp
}

func patternNames() []string {
	names := make([]string, len(wall.Patterns))
	for i, p := range wall.Patterns {
		names[i] = string(p)
	}
	return names
}
