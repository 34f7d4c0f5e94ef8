package main

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/woonstad/datamakelaar/internal/dataset"
	"github.com/woonstad/datamakelaar/internal/excel"
	"github.com/woonstad/datamakelaar/internal/luxs"
	"github.com/woonstad/datamakelaar/internal/state"
)

var (
	pullOutput    string
	pullAll       bool
	pullSkipMerge bool
)

var pullCmd = &cobra.Command{
	Use:   "pull <dataset>",
	Short: "Fetch objects and write an editable workbook",
	Long: `Fetch all objects of the dataset's object type from the platform and
write them into an Excel workbook with dropdowns and validation rules.

The workbook lands in the export directory as <dataset>.xlsx unless
--output is given.

Examples:
  datamakelaar pull po_daken
  datamakelaar pull po_daken --output /tmp/daken.xlsx
  datamakelaar pull po_daken --all     # include inactive objects`,
	Args: cobra.ExactArgs(1),
	RunE: runPull,
}

func init() {
	pullCmd.Flags().StringVarP(&pullOutput, "output", "o", "", "Output workbook path")
	pullCmd.Flags().BoolVar(&pullAll, "all", false, "Include inactive objects")
	pullCmd.Flags().BoolVar(&pullSkipMerge, "skip-metadata", false, "Skip merging platform metadata into the dataset definition")
}

func runPull(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	def, err := findDataset(cfg, args[0])
	if err != nil {
		return err
	}
	client, err := newAPIClient(cfg)
	if err != nil {
		return err
	}

	db, err := openStateDB()
	if err != nil {
		return err
	}
	defer db.Close()

	run, err := db.CreateRun(def.Name, state.OpPull)
	if err != nil {
		return err
	}

	output := pullOutput
	if output == "" {
		output = filepath.Join(cfg.Export.Dir, def.Name+".xlsx")
	}

	err = doPull(cmd.Context(), client, def, cfg.Export.OnlyActive && !pullAll, output, run)
	if err != nil {
		run.Status = state.RunFailed
		run.Error = err.Error()
		db.FinishRun(run)
		return err
	}

	run.Status = state.RunCompleted
	if err := db.FinishRun(run); err != nil {
		return err
	}

	printStatus("✓", fmt.Sprintf("%d objecten geëxporteerd naar %s", run.Objects, output), color.FgGreen)
	return nil
}

func doPull(ctx context.Context, client *luxs.Client, def *dataset.Definition, onlyActive bool, output string, run *state.Run) error {
	if !pullSkipMerge {
		md, err := client.Metadata(ctx, def.ObjectType)
		if err != nil {
			return err
		}
		if err := dataset.MergeMetadata(def, md); err != nil {
			return err
		}
	}

	objects, err := client.AllObjects(ctx, luxs.ObjectQuery{
		ObjectType: def.ObjectType,
		Attributes: def.AttributeNames(),
		OnlyActive: onlyActive,
	})
	if err != nil {
		return err
	}
	run.Objects = len(objects)

	if err := excel.WriteFile(output, objects, def); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}
