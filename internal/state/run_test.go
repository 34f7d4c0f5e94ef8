package state

import (
	"path/filepath"
	"testing"
	"time"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "state.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := db.Migrate(); err != nil {
		t.Fatalf("Migrate failed: %v", err)
	}
	return db
}

func TestMigrateIsIdempotent(t *testing.T) {
	db := openTestDB(t)
	if err := db.Migrate(); err != nil {
		t.Fatalf("second Migrate failed: %v", err)
	}
}

func TestCreateAndFinishRun(t *testing.T) {
	db := openTestDB(t)

	run, err := db.CreateRun("po_daken", OpPush)
	if err != nil {
		t.Fatalf("CreateRun failed: %v", err)
	}
	if run.ID == "" {
		t.Fatal("expected run ID")
	}
	if run.Status != RunRunning {
		t.Errorf("expected running status, got %q", run.Status)
	}

	run.Status = RunCompleted
	run.Objects = 150
	run.Updated = 148
	run.Failed = 2
	if err := db.FinishRun(run); err != nil {
		t.Fatalf("FinishRun failed: %v", err)
	}

	got, err := db.GetRun(run.ID)
	if err != nil {
		t.Fatalf("GetRun failed: %v", err)
	}
	if got == nil {
		t.Fatal("expected run, got nil")
	}
	if got.Status != RunCompleted || got.Objects != 150 || got.Updated != 148 || got.Failed != 2 {
		t.Errorf("unexpected run: %+v", got)
	}
	if got.FinishedAt == nil {
		t.Error("expected finished timestamp")
	}
}

func TestGetRunMissing(t *testing.T) {
	db := openTestDB(t)
	got, err := db.GetRun("nope")
	if err != nil {
		t.Fatalf("GetRun failed: %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil for missing run, got %+v", got)
	}
}

func TestListRunsNewestFirst(t *testing.T) {
	db := openTestDB(t)

	first, err := db.CreateRun("po_daken", OpPull)
	if err != nil {
		t.Fatal(err)
	}
	// Force distinct timestamps at RFC3339 second resolution.
	_, err = db.Exec("UPDATE runs SET started_at = ? WHERE id = ?",
		formatTime(time.Now().Add(-time.Hour)), first.ID)
	if err != nil {
		t.Fatal(err)
	}
	second, err := db.CreateRun("po_daken", OpPush)
	if err != nil {
		t.Fatal(err)
	}

	runs, err := db.ListRuns(10)
	if err != nil {
		t.Fatalf("ListRuns failed: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}
	if runs[0].ID != second.ID {
		t.Errorf("expected newest run first, got %s", runs[0].ID)
	}
}

func TestListRunsLimit(t *testing.T) {
	db := openTestDB(t)
	for i := 0; i < 5; i++ {
		if _, err := db.CreateRun("po_daken", OpPull); err != nil {
			t.Fatal(err)
		}
	}
	runs, err := db.ListRuns(3)
	if err != nil {
		t.Fatalf("ListRuns failed: %v", err)
	}
	if len(runs) != 3 {
		t.Fatalf("expected 3 runs, got %d", len(runs))
	}
}
