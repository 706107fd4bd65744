package queenside

import (
	"context"
	"strings"
	"testing"
)

func newTestClient(t *testing.T) *Client {
	t.Helper()
	client, err := New(Options{StoreKind: "memory"})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	if err := client.Init(context.Background()); err != nil {
		t.Fatalf("init: %v", err)
	}
	t.Cleanup(func() {
		_ = client.Close()
	})
	return client
}

func TestSolvePersistsRunAndStats(t *testing.T) {
	ctx := context.Background()
	client := newTestClient(t)

	summary, err := client.Solve(ctx, RunRequest{
		RunID:       "test-run",
		BoardSize:   5,
		Population:  20,
		Generations: 40,
		Seed:        3,
	})
	if err != nil {
		t.Fatalf("solve: %v", err)
	}
	if summary.RunID != "test-run" {
		t.Fatalf("run id %q, want test-run", summary.RunID)
	}
	if summary.Generations < 1 || summary.Generations > 40 {
		t.Fatalf("generations %d outside [1, 40]", summary.Generations)
	}
	if len(summary.Stats) != summary.Generations {
		t.Fatalf("%d stats for %d generations", len(summary.Stats), summary.Generations)
	}
	if lines := strings.Split(summary.Board, "\n"); len(lines) != 5 {
		t.Fatalf("board has %d rows, want 5", len(lines))
	}

	run, err := client.Run(ctx, "test-run")
	if err != nil {
		t.Fatalf("get run: %v", err)
	}
	if run.BoardSize != 5 || run.Seed != 3 {
		t.Fatalf("unexpected persisted run: %+v", run)
	}
	if run.Solved != (run.BestFitness == 0) {
		t.Fatalf("solved flag inconsistent with fitness %d", run.BestFitness)
	}

	stats, err := client.Stats(ctx, "test-run")
	if err != nil {
		t.Fatalf("get stats: %v", err)
	}
	if len(stats) != summary.Generations {
		t.Fatalf("persisted %d stats for %d generations", len(stats), summary.Generations)
	}
}

func TestSolveAppliesDefaults(t *testing.T) {
	ctx := context.Background()
	client := newTestClient(t)

	summary, err := client.Solve(ctx, RunRequest{Generations: 1})
	if err != nil {
		t.Fatalf("solve: %v", err)
	}
	if summary.RunID == "" {
		t.Fatal("expected generated run id")
	}

	run, err := client.Run(ctx, summary.RunID)
	if err != nil {
		t.Fatalf("get run: %v", err)
	}
	if run.BoardSize != 8 || run.PopulationSize != 16 {
		t.Fatalf("defaults not applied: %+v", run)
	}
	if run.Seed == 0 {
		t.Fatal("expected seed drawn from the clock")
	}
}

func TestSolveRejectsInvalidRequest(t *testing.T) {
	client := newTestClient(t)
	_, err := client.Solve(context.Background(), RunRequest{
		BoardSize:            4,
		Population:           10,
		Generations:          5,
		CrossoverProbability: Probability(2),
	})
	if err == nil {
		t.Fatal("expected configuration error")
	}
}

func TestSolveHonorsZeroProbabilities(t *testing.T) {
	ctx := context.Background()
	client := newTestClient(t)

	summary, err := client.Solve(ctx, RunRequest{
		RunID:                "frozen",
		BoardSize:            5,
		Population:           12,
		Generations:          5,
		CrossoverProbability: Probability(0),
		MutationProbability:  Probability(0),
		Seed:                 9,
	})
	if err != nil {
		t.Fatalf("solve: %v", err)
	}

	run, err := client.Run(ctx, "frozen")
	if err != nil {
		t.Fatalf("get run: %v", err)
	}
	if run.CrossoverProbability != 0 || run.MutationProbability != 0 {
		t.Fatalf("persisted probabilities %g/%g, want 0/0", run.CrossoverProbability, run.MutationProbability)
	}
	// With both operators disabled, no generation may report activity.
	for _, stats := range summary.Stats {
		if stats.Crossovers != 0 || stats.Mutations != 0 {
			t.Fatalf("gen %d reports %d crossovers and %d mutations at probability 0",
				stats.Generation, stats.Crossovers, stats.Mutations)
		}
	}
}

func TestRunsAndLatest(t *testing.T) {
	ctx := context.Background()
	client := newTestClient(t)

	for _, id := range []string{"first", "second"} {
		if _, err := client.Solve(ctx, RunRequest{RunID: id, BoardSize: 4, Population: 8, Generations: 5, Seed: 2}); err != nil {
			t.Fatalf("solve %s: %v", id, err)
		}
	}

	runs, err := client.Runs(ctx)
	if err != nil {
		t.Fatalf("runs: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("listed %d runs, want 2", len(runs))
	}

	latest, err := client.LatestRunID(ctx)
	if err != nil {
		t.Fatalf("latest run: %v", err)
	}
	if latest != runs[0].ID {
		t.Fatalf("latest %q does not match listing head %q", latest, runs[0].ID)
	}
}

func TestRenderBoardFromStore(t *testing.T) {
	ctx := context.Background()
	client := newTestClient(t)

	if _, err := client.Solve(ctx, RunRequest{RunID: "render", BoardSize: 4, Population: 8, Generations: 10, Seed: 5}); err != nil {
		t.Fatalf("solve: %v", err)
	}
	board, err := client.RenderBoard(ctx, "render")
	if err != nil {
		t.Fatalf("render board: %v", err)
	}
	if strings.Count(board, "Q") != 4 {
		t.Fatalf("expected 4 queens in rendering:\n%s", board)
	}
}

func TestRunNotFound(t *testing.T) {
	client := newTestClient(t)
	if _, err := client.Run(context.Background(), "missing"); err == nil {
		t.Fatal("expected not-found error")
	}
	if _, err := client.Stats(context.Background(), "missing"); err == nil {
		t.Fatal("expected not-found error")
	}
	if _, err := client.LatestRunID(context.Background()); err == nil {
		t.Fatal("expected no-runs error")
	}
}
