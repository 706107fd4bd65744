// Package queenside is the public entry point to the N-Queens genetic
// solver: it wires the evolutionary core to a run-history store and
// exposes request/summary types for drivers.
package queenside

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"queenside/internal/evo"
	"queenside/internal/model"
	"queenside/internal/storage"
)

const defaultDBPath = "queenside.db"

type Options struct {
	StoreKind string
	DBPath    string
}

type Client struct {
	store storage.Store
}

// RunRequest describes one solver run. Zero fields fall back to the
// documented defaults; a zero Seed draws one from the wall clock. The
// probabilities are pointers because 0 is a legal value: nil means
// "use the default", a pointer to 0 disables the operator.
type RunRequest struct {
	RunID                string
	BoardSize            int
	Population           int
	Generations          int
	Elitism              bool
	EliteCount           int
	CrossoverProbability *float64
	MutationProbability  *float64
	Seed                 int64
}

// Probability wraps a literal for the RunRequest pointer fields.
func Probability(v float64) *float64 { return &v }

type RunSummary struct {
	RunID       string
	BestFitness int
	Solved      bool
	Generations int
	Board       string
	Stats       []model.GenerationStats
}

func New(opts Options) (*Client, error) {
	storeKind := opts.StoreKind
	if storeKind == "" {
		storeKind = storage.DefaultStoreKind()
	}
	dbPath := opts.DBPath
	if dbPath == "" {
		dbPath = defaultDBPath
	}

	store, err := storage.NewStore(storeKind, dbPath)
	if err != nil {
		return nil, err
	}
	return &Client{store: store}, nil
}

func (c *Client) Close() error {
	return storage.CloseIfSupported(c.store)
}

func (c *Client) Init(ctx context.Context) error {
	return c.store.Init(ctx)
}

// Solve runs the generational loop to completion, persists the run
// record plus its per-generation stats, and returns the summary.
func (c *Client) Solve(ctx context.Context, req RunRequest) (RunSummary, error) {
	if req.BoardSize <= 0 {
		req.BoardSize = 8
	}
	if req.Population <= 0 {
		req.Population = 16
	}
	if req.Generations <= 0 {
		req.Generations = 100
	}
	crossover := evo.DefaultCrossoverProbability
	if req.CrossoverProbability != nil {
		crossover = *req.CrossoverProbability
	}
	mutation := evo.DefaultMutationProbability
	if req.MutationProbability != nil {
		mutation = *req.MutationProbability
	}
	if req.Seed == 0 {
		req.Seed = time.Now().UnixNano()
	}
	if req.RunID == "" {
		req.RunID = uuid.New().String()
	}

	recorder := &evo.SliceRecorder{}
	population, err := evo.NewPopulation(evo.Config{
		BoardSize:            req.BoardSize,
		PopulationSize:       req.Population,
		Elitism:              req.Elitism,
		EliteCount:           req.EliteCount,
		CrossoverProbability: crossover,
		MutationProbability:  mutation,
		Seed:                 req.Seed,
		Recorder:             recorder,
	})
	if err != nil {
		return RunSummary{}, err
	}

	started := time.Now().UTC()
	if err := population.Evolve(ctx, req.Generations, nil); err != nil {
		return RunSummary{}, err
	}
	completed := time.Now().UTC()

	best := population.BestSolution()
	run := model.RunRecord{
		VersionedRecord: model.VersionedRecord{
			SchemaVersion: storage.CurrentSchemaVersion,
			CodecVersion:  storage.CurrentCodecVersion,
		},
		ID:                   req.RunID,
		BoardSize:            req.BoardSize,
		PopulationSize:       req.Population,
		Elitism:              req.Elitism,
		EliteCount:           req.EliteCount,
		CrossoverProbability: crossover,
		MutationProbability:  mutation,
		Seed:                 req.Seed,
		Generations:          population.GenerationsRun(),
		BestFitness:          best.Fitness,
		Solved:               best.Fitness == 0,
		Best:                 best.Genome,
		StartedAtUTC:         started.Format(time.RFC3339),
		CompletedAtUTC:       completed.Format(time.RFC3339),
	}
	if err := c.store.SaveRun(ctx, run); err != nil {
		return RunSummary{}, err
	}
	if err := c.store.SaveGenerationStats(ctx, req.RunID, recorder.Records); err != nil {
		return RunSummary{}, err
	}

	return RunSummary{
		RunID:       req.RunID,
		BestFitness: best.Fitness,
		Solved:      best.Fitness == 0,
		Generations: population.GenerationsRun(),
		Board:       evo.Board(best.Genome),
		Stats:       recorder.Records,
	}, nil
}

// Runs lists persisted runs, newest first.
func (c *Client) Runs(ctx context.Context) ([]model.RunRecord, error) {
	return c.store.ListRuns(ctx)
}

// Run fetches one persisted run by ID.
func (c *Client) Run(ctx context.Context, runID string) (model.RunRecord, error) {
	run, ok, err := c.store.GetRun(ctx, runID)
	if err != nil {
		return model.RunRecord{}, err
	}
	if !ok {
		return model.RunRecord{}, fmt.Errorf("run not found: %s", runID)
	}
	return run, nil
}

// Stats fetches the per-generation stats of one persisted run.
func (c *Client) Stats(ctx context.Context, runID string) ([]model.GenerationStats, error) {
	stats, ok, err := c.store.GetGenerationStats(ctx, runID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("run not found: %s", runID)
	}
	return stats, nil
}

// LatestRunID resolves the most recent persisted run.
func (c *Client) LatestRunID(ctx context.Context) (string, error) {
	runs, err := c.store.ListRuns(ctx)
	if err != nil {
		return "", err
	}
	if len(runs) == 0 {
		return "", fmt.Errorf("no runs recorded")
	}
	return runs[0].ID, nil
}

// RenderBoard re-renders the best board of a persisted run.
func (c *Client) RenderBoard(ctx context.Context, runID string) (string, error) {
	run, err := c.Run(ctx, runID)
	if err != nil {
		return "", err
	}
	return evo.Board(run.Best), nil
}
