package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var datasetsVerbose bool

var datasetsCmd = &cobra.Command{
	Use:   "datasets",
	Short: "List the available dataset definitions",
	Long: `List all dataset definitions. Definitions are loaded from the
configured datasets directory; without one the built-in datasets are
used.`,
	RunE: runDatasets,
}

func init() {
	datasetsCmd.Flags().BoolVarP(&datasetsVerbose, "verbose", "v", false, "Show the fields of each dataset")
}

func runDatasets(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	defs, err := loadDatasets(cfg)
	if err != nil {
		return err
	}

	for _, def := range defs {
		printStatus("•", fmt.Sprintf("%s (%s, %d velden)", def.Name, def.ObjectType, len(def.Fields)), color.FgCyan)
		if !datasetsVerbose {
			continue
		}
		for _, field := range def.Fields {
			line := fmt.Sprintf("  %-24s %s", field.Column, field.Type)
			if len(field.Options) > 0 {
				line += fmt.Sprintf("  [%d opties]", len(field.Options))
			}
			fmt.Println(line)
		}
	}
	return nil
}
