package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/FabricioChang/Workshop-Continous-Integration/pkg/catalog"
)

// planRow is one line of the plan menu.
type planRow struct {
	Code      string   `json:"code" yaml:"code"`
	Name      string   `json:"name" yaml:"name"`
	BasePrice int      `json:"base_price" yaml:"base_price" table:"Base/member"`
	Premium   bool     `json:"premium" yaml:"premium"`
	Features  []string `json:"features" yaml:"features"`
}

func toPlanRow(p catalog.Plan) planRow {
	features := make([]string, len(p.Features))
	for i, f := range p.Features {
		features[i] = fmt.Sprintf("%s:%d", f.Code, f.Price)
	}
	return planRow{
		Code:      p.Code,
		Name:      p.Name,
		BasePrice: p.BasePrice,
		Premium:   p.Premium,
		Features:  features,
	}
}

// planHeader is the top section of `plans describe` in table mode.
type planHeader struct {
	Code      string
	Name      string
	BasePrice string `table:"Base price per member"`
	Premium   bool
}

var plansCmd = &cobra.Command{
	Use:     "plans",
	Aliases: []string{"plan"},
	Short:   "Browse membership plans",
	Long:    "List the membership plans on offer and the add-on features of each.",
}

var plansListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all membership plans",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		all := plans.Plans()
		rows := make([]planRow, len(all))
		for i, p := range all {
			rows[i] = toPlanRow(p)
		}
		fmt.Fprint(cmd.OutOrStdout(), formatter.Format(rows))
		return nil
	},
}

var plansDescribeCmd = &cobra.Command{
	Use:   "describe <plan>",
	Short: "Show a plan and its add-on features",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		code := strings.TrimSpace(args[0])
		if err := catalog.ValidateCode(code); err != nil {
			return fmt.Errorf("invalid plan code: %w", err)
		}
		p, ok := plans.Lookup(code)
		if !ok {
			return fmt.Errorf("plan %q not found (see 'gymctl plans list')", code)
		}

		out := cmd.OutOrStdout()
		if cfg.OutputFormat != "table" {
			fmt.Fprint(out, formatter.Format(p))
			return nil
		}

		fmt.Fprint(out, formatter.Format(planHeader{
			Code:      p.Code,
			Name:      p.Name,
			BasePrice: money(p.BasePrice),
			Premium:   p.Premium,
		}))
		fmt.Fprintf(out, "\nAdd-on features (price per member):\n")
		if len(p.Features) == 0 {
			fmt.Fprintln(out, "  No add-on features available.")
			return nil
		}
		fmt.Fprint(out, formatter.Format(p.Features))
		return nil
	},
}

func init() {
	plansCmd.AddCommand(plansListCmd)
	plansCmd.AddCommand(plansDescribeCmd)
	rootCmd.AddCommand(plansCmd)
}
