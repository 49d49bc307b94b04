package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// version is set at build time via -ldflags "-X github.com/FabricioChang/Workshop-Continous-Integration/cmd.gymctlVersion=x.y.z"
var gymctlVersion = "0.1.0"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show gymctl version and catalog size",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Fprintf(cmd.OutOrStdout(), "gymctl version %s\n", gymctlVersion)
		fmt.Fprintf(cmd.OutOrStdout(), "catalog: %d plans\n", plans.Len())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
