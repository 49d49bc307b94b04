package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/FabricioChang/Workshop-Continous-Integration/pkg/catalog"
	"github.com/FabricioChang/Workshop-Continous-Integration/pkg/config"
	"github.com/FabricioChang/Workshop-Continous-Integration/pkg/output"
	"github.com/FabricioChang/Workshop-Continous-Integration/pkg/processor"
)

var (
	// Global flags
	cfgFile      string
	outputFormat string
	yesFlag      bool // --yes: skip the confirmation prompt and accept the plan
	verbose      bool

	// Shared state set during PersistentPreRun
	cfg       *config.Config
	formatter output.Formatter
	logger    *slog.Logger
	plans     *catalog.Catalog
	proc      *processor.Processor
)

// rootCmd is the base command for gymctl.
var rootCmd = &cobra.Command{
	Use:   "gymctl",
	Short: "Gym membership plans: browse, price and confirm",
	Long: `gymctl prices gym membership plans.

Pick a plan, the number of members it covers and any add-on features; gymctl
shows the itemised cost (base, add-ons, premium surcharge, group discount,
special discount) and asks you to confirm before reporting the total.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		path := cfgFile
		if path == "" {
			path = config.DefaultPath()
		}
		var err error
		cfg, err = config.Load(path)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		if outputFormat != "" {
			cfg.OutputFormat = outputFormat
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid --output %q: want table, json or yaml", outputFormat)
			}
		}

		level := cfg.Level()
		if verbose {
			level = slog.LevelDebug
		}
		logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

		formatter = output.NewFormatter(cfg.OutputFormat)
		plans = catalog.Default()
		proc = processor.New(plans, processor.WithLogger(logger))
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if proc == nil || proc.Metrics().Requests() == 0 {
			return
		}
		snap := proc.Metrics().Snapshot()
		logger.Debug("session metrics",
			"priced", snap["priced_count"],
			"cancelled", snap["cancelled_count"],
			"unknown_plan", snap["unknown_plan_count"],
			"invalid", snap["invalid_count"],
			"priced_total_sum", snap["priced_total_sum"],
		)
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// RootCmd returns the root cobra.Command for testing purposes.
func RootCmd() *cobra.Command {
	return rootCmd
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.gymctl/config.yaml)")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "", "output format: table, json, yaml (default \"table\")")
	rootCmd.PersistentFlags().BoolVar(&yesFlag, "yes", false, "confirm the plan without prompting")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log debug output to stderr")
}

// money renders an amount with the configured currency symbol.
func money(n int) string {
	return fmt.Sprintf("%s%d", cfg.CurrencySymbol, n)
}
