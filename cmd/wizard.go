package cmd

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/FabricioChang/Workshop-Continous-Integration/pkg/tui"
)

var wizardCmd = &cobra.Command{
	Use:     "wizard",
	Aliases: []string{"ui"},
	Short:   "Choose and confirm a plan interactively",
	Long:    "Open a full-screen wizard that walks through plan, members and add-on features, then shows the price for confirmation.",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		m := tui.New(proc, plans.Plans(), cfg.CurrencySymbol)
		p := tea.NewProgram(m,
			tea.WithInput(cmd.InOrStdin()),
			tea.WithOutput(cmd.OutOrStdout()),
		)
		final, err := p.Run()
		if err != nil {
			return fmt.Errorf("wizard error: %w", err)
		}
		if fm, ok := final.(tui.Model); ok {
			fmt.Fprintf(cmd.OutOrStdout(), "Result: %d\n", fm.Result())
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(wizardCmd)
}
