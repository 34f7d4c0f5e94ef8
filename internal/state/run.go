package state

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// RunStatus represents the status of a run.
type RunStatus string

const (
	RunRunning   RunStatus = "running"
	RunCompleted RunStatus = "completed"
	RunFailed    RunStatus = "failed"
)

// Operation names recorded in run history.
const (
	OpPull = "pull"
	OpPush = "push"
)

// Run records one pull or push against the platform.
type Run struct {
	ID         string     `json:"id"`
	Dataset    string     `json:"dataset"`
	Operation  string     `json:"operation"`
	Status     RunStatus  `json:"status"`
	Objects    int        `json:"objects"`
	Updated    int        `json:"updated"`
	Failed     int        `json:"failed"`
	Error      string     `json:"error,omitempty"`
	StartedAt  time.Time  `json:"started_at"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
}

// Duration returns the run duration, or the elapsed time for a run
// still in progress.
func (r *Run) Duration() time.Duration {
	if r.FinishedAt != nil {
		return r.FinishedAt.Sub(r.StartedAt)
	}
	return time.Since(r.StartedAt)
}

// CreateRun records the start of a run and returns it.
func (db *DB) CreateRun(dataset, operation string) (*Run, error) {
	run := &Run{
		ID:        uuid.NewString(),
		Dataset:   dataset,
		Operation: operation,
		Status:    RunRunning,
		StartedAt: time.Now(),
	}

	_, err := db.Exec(`
		INSERT INTO runs (id, dataset, operation, status, started_at)
		VALUES (?, ?, ?, ?, ?)
	`, run.ID, run.Dataset, run.Operation, string(run.Status), formatTime(run.StartedAt))
	if err != nil {
		return nil, fmt.Errorf("create run: %w", err)
	}
	return run, nil
}

// FinishRun records the outcome of a run.
func (db *DB) FinishRun(run *Run) error {
	now := time.Now()
	run.FinishedAt = &now

	_, err := db.Exec(`
		UPDATE runs SET status = ?, objects = ?, updated = ?, failed = ?, error = ?, finished_at = ?
		WHERE id = ?
	`, string(run.Status), run.Objects, run.Updated, run.Failed, run.Error, formatTime(now), run.ID)
	if err != nil {
		return fmt.Errorf("finish run: %w", err)
	}
	return nil
}

// GetRun retrieves a run by ID. Returns nil if not found.
func (db *DB) GetRun(id string) (*Run, error) {
	row := db.QueryRow(`
		SELECT id, dataset, operation, status, objects, updated, failed, error, started_at, finished_at
		FROM runs WHERE id = ?
	`, id)

	run, err := scanRun(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get run: %w", err)
	}
	return run, nil
}

// ListRuns lists the most recent runs, newest first.
func (db *DB) ListRuns(limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := db.Query(`
		SELECT id, dataset, operation, status, objects, updated, failed, error, started_at, finished_at
		FROM runs ORDER BY started_at DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, *run)
	}
	return runs, rows.Err()
}

func scanRun(scan func(...any) error) (*Run, error) {
	var r Run
	var errMsg sql.NullString
	var startedAt string
	var finishedAt sql.NullString

	err := scan(&r.ID, &r.Dataset, &r.Operation, &r.Status, &r.Objects, &r.Updated, &r.Failed,
		&errMsg, &startedAt, &finishedAt)
	if err != nil {
		return nil, err
	}

	r.Error = errMsg.String
	r.StartedAt, _ = parseTime(startedAt)
	r.FinishedAt = parseNullableTime(finishedAt)
	return &r, nil
}
