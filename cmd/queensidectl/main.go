package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"queenside/internal/storage"
	"queenside/pkg/queenside"
)

func main() {
	if err := run(context.Background(), os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return usageError("missing command")
	}

	switch args[0] {
	case "solve":
		return runSolve(ctx, args[1:])
	case "runs":
		return runRuns(ctx, args[1:])
	case "stats":
		return runStats(ctx, args[1:])
	case "board":
		return runBoard(ctx, args[1:])
	default:
		return usageError(fmt.Sprintf("unknown command: %s", args[0]))
	}
}

func usageError(msg string) error {
	return fmt.Errorf("%s\nusage: queensidectl <solve|runs|stats|board> [flags]", msg)
}

func newClient(storeKind, dbPath string) (*queenside.Client, error) {
	return queenside.New(queenside.Options{StoreKind: storeKind, DBPath: dbPath})
}

func runSolve(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("solve", flag.ContinueOnError)
	flags := registerSolveFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}

	req, storeKind, dbPath, err := solveRequest(fs, flags)
	if err != nil {
		return err
	}

	client, err := newClient(storeKind, dbPath)
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()
	if err := client.Init(ctx); err != nil {
		return err
	}

	summary, err := client.Solve(ctx, req)
	if err != nil {
		return err
	}

	if !*flags.quiet {
		for _, stats := range summary.Stats {
			fmt.Printf("gen=%d min=%d mean=%.2f crossovers=%d mutations=%d\n",
				stats.Generation, stats.MinFitness, stats.MeanFitness, stats.Crossovers, stats.Mutations)
		}
	}
	fmt.Printf("run=%s generations=%d best_fitness=%d\n", summary.RunID, summary.Generations, summary.BestFitness)
	fmt.Println(summary.Board)
	if summary.Solved {
		fmt.Println("solved: conflict-free placement found")
	} else {
		fmt.Println("not solved within the generation budget; best placement shown above")
	}
	return nil
}

func runRuns(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("runs", flag.ContinueOnError)
	storeKind := fs.String("store", storage.DefaultStoreKind(), "store backend: memory|sqlite")
	dbPath := fs.String("db-path", "queenside.db", "sqlite database path")
	if err := fs.Parse(args); err != nil {
		return err
	}

	client, err := newClient(*storeKind, *dbPath)
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()
	if err := client.Init(ctx); err != nil {
		return err
	}

	runs, err := client.Runs(ctx)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no runs recorded")
		return nil
	}
	for _, run := range runs {
		fmt.Printf("%s  board=%d population=%d seed=%d generations=%d best=%d solved=%t  %s\n",
			run.ID, run.BoardSize, run.PopulationSize, run.Seed, run.Generations, run.BestFitness, run.Solved, run.StartedAtUTC)
	}
	return nil
}

func runStats(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("stats", flag.ContinueOnError)
	storeKind := fs.String("store", storage.DefaultStoreKind(), "store backend: memory|sqlite")
	dbPath := fs.String("db-path", "queenside.db", "sqlite database path")
	runID := fs.String("run-id", "", "run to inspect")
	latest := fs.Bool("latest", false, "inspect the most recent run")
	if err := fs.Parse(args); err != nil {
		return err
	}

	client, err := newClient(*storeKind, *dbPath)
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()
	if err := client.Init(ctx); err != nil {
		return err
	}

	id, err := resolveRunID(ctx, client, *runID, *latest)
	if err != nil {
		return err
	}
	stats, err := client.Stats(ctx, id)
	if err != nil {
		return err
	}
	for _, s := range stats {
		fmt.Printf("gen=%d min=%d mean=%.2f crossovers=%d mutations=%d\n",
			s.Generation, s.MinFitness, s.MeanFitness, s.Crossovers, s.Mutations)
	}
	return nil
}

func runBoard(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("board", flag.ContinueOnError)
	storeKind := fs.String("store", storage.DefaultStoreKind(), "store backend: memory|sqlite")
	dbPath := fs.String("db-path", "queenside.db", "sqlite database path")
	runID := fs.String("run-id", "", "run to inspect")
	latest := fs.Bool("latest", false, "inspect the most recent run")
	if err := fs.Parse(args); err != nil {
		return err
	}

	client, err := newClient(*storeKind, *dbPath)
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()
	if err := client.Init(ctx); err != nil {
		return err
	}

	id, err := resolveRunID(ctx, client, *runID, *latest)
	if err != nil {
		return err
	}
	board, err := client.RenderBoard(ctx, id)
	if err != nil {
		return err
	}
	fmt.Println(board)
	return nil
}

func resolveRunID(ctx context.Context, client *queenside.Client, runID string, latest bool) (string, error) {
	if runID != "" {
		return runID, nil
	}
	if latest {
		return client.LatestRunID(ctx)
	}
	return "", fmt.Errorf("either -run-id or -latest is required")
}
