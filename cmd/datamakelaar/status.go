package main

import (
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/woonstad/datamakelaar/internal/state"
)

var statusLimit int

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show recent pull and push runs",
	Long: `Display the recent run history.

Shows per run:
  - Dataset and operation (pull or push)
  - Outcome and object counts
  - When it ran and how long it took`,
	RunE: runStatusCmd,
}

func init() {
	statusCmd.Flags().IntVarP(&statusLimit, "limit", "n", 20, "Number of runs to show")
}

func runStatusCmd(cmd *cobra.Command, args []string) error {
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("get working directory: %w", err)
	}

	dbPath := state.ProjectDBPath(cwd)
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		dbPath = state.GlobalDBPath()
	}
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		fmt.Println("Nog geen runs. Start met 'datamakelaar pull <dataset>'.")
		return nil
	}

	db, err := state.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		return fmt.Errorf("migrate database: %w", err)
	}

	runs, err := db.ListRuns(statusLimit)
	if err != nil {
		return fmt.Errorf("list runs: %w", err)
	}
	if len(runs) == 0 {
		fmt.Println("Nog geen runs. Start met 'datamakelaar pull <dataset>'.")
		return nil
	}

	for _, run := range runs {
		displayRun(run)
	}
	return nil
}

func displayRun(run state.Run) {
	symbol, attr := "•", color.FgCyan
	switch run.Status {
	case state.RunCompleted:
		symbol, attr = "✓", color.FgGreen
	case state.RunFailed:
		symbol, attr = "✗", color.FgRed
	}

	line := fmt.Sprintf("%s %-5s %-16s %d objecten", run.StartedAt.Format("2006-01-02 15:04"), run.Operation, run.Dataset, run.Objects)
	if run.Operation == state.OpPush {
		line += fmt.Sprintf(", %d bijgewerkt, %d mislukt", run.Updated, run.Failed)
	}
	if run.FinishedAt != nil {
		line += fmt.Sprintf(" (%s)", run.Duration().Round(100*time.Millisecond))
	}
	printStatus(symbol, line, attr)
	if run.Error != "" {
		fmt.Printf("    %s\n", run.Error)
	}
}
