package main

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "datamakelaar",
	Short: "Round-trip building data between LUXS Insights and Excel",
	Long: `Datamakelaar pulls object data from the LUXS Insights platform into
editable Excel workbooks, validates the edited workbooks against the
dataset rules, and pushes the changes back in batches.

Typical round trip:
  datamakelaar pull po_daken              # write po_daken.xlsx
  ... edit the workbook in Excel ...
  datamakelaar validate po_daken po_daken.xlsx
  datamakelaar push po_daken po_daken.xlsx

Credentials come from LUXS_CLIENT_ID and LUXS_CLIENT_SECRET, or from
the config file (see 'datamakelaar config').`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(pullCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(pushCmd)
	rootCmd.AddCommand(datasetsCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(reviewCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}
