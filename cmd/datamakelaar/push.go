package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/woonstad/datamakelaar/internal/push"
	"github.com/woonstad/datamakelaar/internal/state"
)

var (
	pushDryRun bool
	pushForce  bool
)

var pushCmd = &cobra.Command{
	Use:   "push <dataset> <workbook>",
	Short: "Send edited workbook values back to the platform",
	Long: `Validate an edited workbook and push its values back as attribute
updates. Updates are sent in batches; failed batches are retried with
increasing delay.

A push refuses to run when validation finds critical problems. Use
--dry-run to see what would be sent without sending anything.

Examples:
  datamakelaar push po_daken exports/po_daken.xlsx
  datamakelaar push po_daken exports/po_daken.xlsx --dry-run`,
	Args: cobra.ExactArgs(2),
	RunE: runPush,
}

func init() {
	pushCmd.Flags().BoolVar(&pushDryRun, "dry-run", false, "Validate and build updates without sending them")
	pushCmd.Flags().BoolVar(&pushForce, "force", false, "Push even when validation reports warnings")
}

func runPush(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	def, err := findDataset(cfg, args[0])
	if err != nil {
		return err
	}

	report, sheet, err := validateWorkbook(args[1], def)
	if err != nil {
		return err
	}
	printReport(report)
	if !report.OK() {
		return fmt.Errorf("push geblokkeerd: %d critical findings", len(report.Criticals()))
	}
	if len(report.Warnings()) > 0 && !pushForce && !pushDryRun {
		return fmt.Errorf("push geblokkeerd: %d warnings (gebruik --force om door te gaan)", len(report.Warnings()))
	}

	updates := push.BuildUpdates(sheet, def)
	if len(updates) == 0 {
		printStatus("!", "niets te pushen", color.FgYellow)
		return nil
	}

	if pushDryRun {
		printStatus("→", fmt.Sprintf("dry run: %d updates in %d batches, niets verstuurd",
			len(updates), batchCount(len(updates), cfg.Push.BatchSize)), color.FgCyan)
		return nil
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

	run, err := db.CreateRun(def.Name, state.OpPush)
	if err != nil {
		return err
	}
	run.Objects = len(updates)

	pusher := push.New(client, push.Config{
		BatchSize:  cfg.Push.BatchSize,
		MaxRetries: cfg.Push.MaxRetries,
		RetryDelay: cfg.Push.RetryDelay,
	})
	result, err := pusher.Push(cmd.Context(), updates)
	if err != nil {
		run.Status = state.RunFailed
		run.Error = err.Error()
		if result != nil {
			run.Updated = result.Updated + result.Created
			run.Failed = len(result.Failed)
		}
		db.FinishRun(run)
		return err
	}

	run.Status = state.RunCompleted
	run.Updated = result.Updated + result.Created
	run.Failed = len(result.Failed)
	if err := db.FinishRun(run); err != nil {
		return err
	}

	for _, f := range result.Failed {
		printStatus("✗", f.Message, color.FgRed)
	}
	printStatus("✓", fmt.Sprintf("%d bijgewerkt, %d aangemaakt, %d mislukt (%d batches)",
		result.Updated, result.Created, len(result.Failed), result.Batches), color.FgGreen)
	return nil
}

func batchCount(total, size int) int {
	if size <= 0 {
		size = push.DefaultConfig().BatchSize
	}
	return (total + size - 1) / size
}
