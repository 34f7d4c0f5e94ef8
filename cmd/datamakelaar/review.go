package main

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/woonstad/datamakelaar/internal/config"
	"github.com/woonstad/datamakelaar/internal/dataset"
	"github.com/woonstad/datamakelaar/internal/excel"
	"github.com/woonstad/datamakelaar/internal/luxs"
	"github.com/woonstad/datamakelaar/internal/push"
	"github.com/woonstad/datamakelaar/internal/state"
	"github.com/woonstad/datamakelaar/internal/tui"
	"github.com/woonstad/datamakelaar/internal/validate"
)

var reviewCmd = &cobra.Command{
	Use:   "review [dataset]",
	Short: "Walk through pull, edit, validate, and push interactively",
	Long: `Start an interactive session that walks through a full round trip:
pick a dataset, pull it into a workbook, edit it in Excel, validate the
result, and push the changes back.

With a dataset argument the picker is skipped to that dataset.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runReview,
}

func runReview(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	defs, err := loadDatasets(cfg)
	if err != nil {
		return err
	}
	if len(args) == 1 {
		def, err := dataset.Find(defs, args[0])
		if err != nil {
			return err
		}
		defs = []*dataset.Definition{def}
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

	runner := &reviewRunner{cfg: cfg, client: client, db: db}
	p, _ := tui.NewReviewProgram(cmd.Context(), runner, defs)
	_, err = p.Run()
	return err
}

// reviewRunner backs the review TUI with real API calls, workbooks,
// and run history.
type reviewRunner struct {
	cfg    *config.Config
	client *luxs.Client
	db     *state.DB
}

func (r *reviewRunner) Pull(ctx context.Context, def *dataset.Definition) (string, int, error) {
	run, err := r.db.CreateRun(def.Name, state.OpPull)
	if err != nil {
		return "", 0, err
	}

	output := filepath.Join(r.cfg.Export.Dir, def.Name+".xlsx")
	err = doPull(ctx, r.client, def, r.cfg.Export.OnlyActive, output, run)
	if err != nil {
		run.Status = state.RunFailed
		run.Error = err.Error()
		r.db.FinishRun(run)
		return "", 0, err
	}

	run.Status = state.RunCompleted
	if err := r.db.FinishRun(run); err != nil {
		return "", 0, err
	}
	return output, run.Objects, nil
}

func (r *reviewRunner) Validate(path string, def *dataset.Definition) (*validate.Report, int, error) {
	sheet, err := excel.ReadFile(path)
	if err != nil {
		return nil, 0, fmt.Errorf("read workbook: %w", err)
	}
	return validate.Sheet(sheet, def), len(sheet.Rows), nil
}

func (r *reviewRunner) Push(ctx context.Context, path string, def *dataset.Definition) (*push.Report, error) {
	sheet, err := excel.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read workbook: %w", err)
	}
	updates := push.BuildUpdates(sheet, def)

	run, err := r.db.CreateRun(def.Name, state.OpPush)
	if err != nil {
		return nil, err
	}
	run.Objects = len(updates)

	pusher := push.New(r.client, push.Config{
		BatchSize:  r.cfg.Push.BatchSize,
		MaxRetries: r.cfg.Push.MaxRetries,
		RetryDelay: r.cfg.Push.RetryDelay,
	})
	report, err := pusher.Push(ctx, updates)
	if err != nil {
		run.Status = state.RunFailed
		run.Error = err.Error()
		r.db.FinishRun(run)
		return nil, err
	}

	run.Status = state.RunCompleted
	run.Updated = report.Updated + report.Created
	run.Failed = len(report.Failed)
	if err := r.db.FinishRun(run); err != nil {
		return nil, err
	}
	return report, nil
}
