package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/davecgh/go-spew/spew"
	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/FabricioChang/Workshop-Continous-Integration/pkg/catalog"
	"github.com/FabricioChang/Workshop-Continous-Integration/pkg/pricing"
	"github.com/FabricioChang/Workshop-Continous-Integration/pkg/processor"
)

var (
	quoteMembers     int
	quoteFeatures    []string
	quoteSkipUnknown bool
	quoteDebug       bool
)

var (
	confirmedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	cancelledStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	warnStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
)

// quoteSummary is the itemised cost shown before confirmation.
type quoteSummary struct {
	Plan            string   `json:"plan" yaml:"plan"`
	Members         int      `json:"members" yaml:"members"`
	Features        []string `json:"features" yaml:"features"`
	Base            int      `json:"base" yaml:"base" table:"Base cost"`
	Extras          int      `json:"extras" yaml:"extras" table:"Add-on features"`
	Surcharge       int      `json:"surcharge" yaml:"surcharge" table:"Premium surcharge"`
	GroupDiscount   int      `json:"group_discount" yaml:"group_discount" table:"Group discount"`
	SpecialDiscount int      `json:"special_discount" yaml:"special_discount" table:"Special discount"`
	Total           int      `json:"total" yaml:"total"`
}

var quoteCmd = &cobra.Command{
	Use:   "quote <plan>",
	Short: "Price a plan and confirm it",
	Long: `Price a membership plan for a number of members and a set of add-on
features, show the itemised cost and ask for confirmation.

Examples:
  gymctl quote basic -m 1
  gymctl quote family -m 4 -f CF,GD
  gymctl quote premium -m 2 -f EP --yes`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		code := strings.TrimSpace(args[0])
		if err := catalog.ValidateCode(code); err != nil {
			return fmt.Errorf("invalid plan code: %w", err)
		}
		features, err := parseFeatures(quoteFeatures)
		if err != nil {
			return err
		}
		if quoteSkipUnknown {
			features = dropUnoffered(cmd, code, features)
		}

		req := processor.Request{PlanCode: code, Members: quoteMembers, Features: features}
		plan, b, err := proc.Preview(req)
		if quoteDebug {
			spew.Fdump(cmd.ErrOrStderr(), req, b)
		}
		if err != nil {
			// Nothing to confirm; submit as confirmed so the processor
			// records the rejection under its own kind.
			req.Confirmed = true
			_, err = proc.Quote(req)
			return quoteError(err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprint(out, formatter.Format(quoteSummary{
			Plan:            fmt.Sprintf("%s (%s)", plan.Name, plan.Code),
			Members:         req.Members,
			Features:        req.Features,
			Base:            b.Base,
			Extras:          b.Extras,
			Surcharge:       b.Surcharge,
			GroupDiscount:   b.GroupDiscount,
			SpecialDiscount: b.SpecialDiscount,
			Total:           b.Total,
		}))

		req.Confirmed = yesFlag
		if !yesFlag {
			fmt.Fprint(cmd.ErrOrStderr(), "Confirm this plan? [y/N]: ")
			scanner := bufio.NewScanner(cmd.InOrStdin())
			scanner.Scan()
			answer := strings.ToLower(strings.TrimSpace(scanner.Text()))
			req.Confirmed = answer == "y" || answer == "yes"
		}

		q, err := proc.Quote(req)
		if errors.Is(err, pricing.ErrCancelled) {
			fmt.Fprintln(out, cancelledStyle.Render("Plan cancelled. No charge was made."))
			return nil
		}
		if err != nil {
			return quoteError(err)
		}
		fmt.Fprintln(out, confirmedStyle.Render(fmt.Sprintf("Plan confirmed. Total due: %s (quote %s)", money(q.Total), q.ID)))
		return nil
	},
}

// quoteError wraps a failed quote, reporting the rejection result for
// requests the processor turned down.
func quoteError(err error) error {
	if processor.IsRejected(err) {
		return fmt.Errorf("plan rejected (result %d): %w", processor.Rejected, err)
	}
	return fmt.Errorf("cannot price plan: %w", err)
}

// parseFeatures normalises --features values. A lone "0" or an empty value
// means no features.
func parseFeatures(raw []string) ([]string, error) {
	codes := lo.Map(raw, func(s string, _ int) string {
		return strings.ToUpper(strings.TrimSpace(s))
	})
	codes = lo.Without(lo.Compact(codes), "0")
	for _, c := range codes {
		if err := catalog.ValidateCode(c); err != nil {
			return nil, fmt.Errorf("invalid feature code %q: %w", c, err)
		}
	}
	return codes, nil
}

// dropUnoffered removes features the plan does not offer, warning about each.
// An unknown plan is left for the processor to reject.
func dropUnoffered(cmd *cobra.Command, code string, features []string) []string {
	plan, ok := plans.Lookup(code)
	if !ok {
		return features
	}
	kept, dropped := lo.FilterReject(features, func(f string, _ int) bool {
		_, offered := plan.FeaturePrice(f)
		return offered
	})
	available := strings.Join(plan.FeatureCodes(), ", ")
	if available == "" {
		available = "none"
	}
	for _, f := range dropped {
		fmt.Fprintln(cmd.ErrOrStderr(), warnStyle.Render(
			fmt.Sprintf("Warning: %q is not offered by the %s plan and will be ignored (available: %s).", f, plan.Code, available)))
	}
	return kept
}

func init() {
	quoteCmd.Flags().IntVarP(&quoteMembers, "members", "m", 1, "number of members covered by the plan")
	quoteCmd.Flags().StringSliceVarP(&quoteFeatures, "features", "f", nil, "comma-separated add-on feature codes (e.g. CG,LK)")
	quoteCmd.Flags().BoolVar(&quoteSkipUnknown, "skip-unknown", false, "ignore features the plan does not offer instead of failing")
	quoteCmd.Flags().BoolVar(&quoteDebug, "debug", false, "dump the request and breakdown to stderr")
	rootCmd.AddCommand(quoteCmd)
}
