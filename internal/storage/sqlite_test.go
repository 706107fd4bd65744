//go:build sqlite

package storage

import (
	"context"
	"path/filepath"
	"testing"

	"queenside/internal/model"
)

func newTestSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store := NewSQLiteStore(filepath.Join(t.TempDir(), "queenside.db"))
	if err := store.Init(context.Background()); err != nil {
		t.Fatalf("init: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})
	return store
}

func TestSQLiteStoreRequiresPath(t *testing.T) {
	store := NewSQLiteStore("")
	if err := store.Init(context.Background()); err == nil {
		t.Fatal("expected error for empty path")
	}
}

func TestSQLiteStoreRunRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := newTestSQLiteStore(t)

	input := model.RunRecord{
		VersionedRecord: versioned(),
		ID:              "run-1",
		BoardSize:       8,
		PopulationSize:  16,
		Generations:     12,
		BestFitness:     2,
		Best:            model.Genome{Size: 8, Chromosome: []int{1, 5, 8, 6, 3, 7, 2, 4}},
		StartedAtUTC:    "2026-08-30T10:00:00Z",
	}
	if err := store.SaveRun(ctx, input); err != nil {
		t.Fatalf("save run: %v", err)
	}

	output, ok, err := store.GetRun(ctx, "run-1")
	if err != nil {
		t.Fatalf("get run: %v", err)
	}
	if !ok {
		t.Fatal("expected persisted run")
	}
	if output.BestFitness != 2 || output.Best.Size != 8 {
		t.Fatalf("unexpected run: %+v", output)
	}

	// Upsert on the same ID.
	input.BestFitness = 0
	input.Solved = true
	if err := store.SaveRun(ctx, input); err != nil {
		t.Fatalf("resave run: %v", err)
	}
	output, _, err = store.GetRun(ctx, "run-1")
	if err != nil {
		t.Fatalf("get run after upsert: %v", err)
	}
	if !output.Solved {
		t.Fatalf("upsert did not replace payload: %+v", output)
	}
}

func TestSQLiteStoreListRuns(t *testing.T) {
	ctx := context.Background()
	store := newTestSQLiteStore(t)

	for _, run := range []model.RunRecord{
		{VersionedRecord: versioned(), ID: "old", StartedAtUTC: "2026-08-29T08:00:00Z"},
		{VersionedRecord: versioned(), ID: "new", StartedAtUTC: "2026-08-30T08:00:00Z"},
	} {
		if err := store.SaveRun(ctx, run); err != nil {
			t.Fatalf("save run %s: %v", run.ID, err)
		}
	}

	runs, err := store.ListRuns(ctx)
	if err != nil {
		t.Fatalf("list runs: %v", err)
	}
	if len(runs) != 2 || runs[0].ID != "new" {
		t.Fatalf("unexpected listing: %+v", runs)
	}
}

func TestSQLiteStoreGenerationStatsRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := newTestSQLiteStore(t)

	input := []model.GenerationStats{
		{Generation: 1, MinFitness: 5, MeanFitness: 7.25, Crossovers: 4, Mutations: 1},
	}
	if err := store.SaveGenerationStats(ctx, "run-1", input); err != nil {
		t.Fatalf("save stats: %v", err)
	}

	output, ok, err := store.GetGenerationStats(ctx, "run-1")
	if err != nil {
		t.Fatalf("get stats: %v", err)
	}
	if !ok {
		t.Fatal("expected persisted stats")
	}
	if len(output) != 1 || output[0].MeanFitness != 7.25 {
		t.Fatalf("unexpected stats: %+v", output)
	}

	_, ok, err = store.GetGenerationStats(ctx, "missing")
	if err != nil {
		t.Fatalf("get missing stats: %v", err)
	}
	if ok {
		t.Fatal("expected missing stats to report absent")
	}
}

func TestSQLiteStoreUninitialized(t *testing.T) {
	store := NewSQLiteStore(filepath.Join(t.TempDir(), "queenside.db"))
	if _, _, err := store.GetRun(context.Background(), "run-1"); err == nil {
		t.Fatal("expected error before Init")
	}
}
