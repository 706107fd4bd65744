package main

import (
	"flag"

	"queenside/internal/config"
	"queenside/pkg/queenside"
)

// solveFlags holds the solve command's flag targets so that explicitly
// set flags can override values loaded from an INI file.
type solveFlags struct {
	configPath *string
	boardSize  *int
	population *int
	maxGen     *int
	elitism    *bool
	eliteCount *int
	crossover  *float64
	mutation   *float64
	seed       *int64
	runID      *string
	storeKind  *string
	dbPath     *string
	quiet      *bool
}

func registerSolveFlags(fs *flag.FlagSet) solveFlags {
	defaults := config.Default()
	return solveFlags{
		configPath: fs.String("config", "", "INI configuration file"),
		boardSize:  fs.Int("board", defaults.Board.Size, "board dimension N"),
		population: fs.Int("population", defaults.Population.Size, "genomes per generation"),
		maxGen:     fs.Int("generations", defaults.Run.MaxGenerations, "maximum generations"),
		elitism:    fs.Bool("elitism", defaults.Population.Elitism, "carry elite genomes over unchanged"),
		eliteCount: fs.Int("elites", defaults.Population.EliteCount, "elite genomes per generation"),
		crossover:  fs.Float64("crossover", defaults.Population.CrossoverProbability, "crossover probability"),
		mutation:   fs.Float64("mutation", defaults.Population.MutationProbability, "mutation probability"),
		seed:       fs.Int64("seed", defaults.Run.Seed, "random seed (0 draws from the clock)"),
		runID:      fs.String("run-id", "", "identifier for the persisted run"),
		storeKind:  fs.String("store", defaults.Store.Backend, "store backend: memory|sqlite"),
		dbPath:     fs.String("db-path", defaults.Store.DBPath, "sqlite database path"),
		quiet:      fs.Bool("quiet", false, "suppress per-generation stats output"),
	}
}

// solveRequest resolves the effective run parameters: defaults, then the
// INI file named by -config, then any flag the user set explicitly.
func solveRequest(fs *flag.FlagSet, flags solveFlags) (queenside.RunRequest, string, string, error) {
	cfg := config.Default()
	if *flags.configPath != "" {
		loaded, err := config.Load(*flags.configPath)
		if err != nil {
			return queenside.RunRequest{}, "", "", err
		}
		cfg = loaded
	}

	set := map[string]bool{}
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })

	if set["board"] {
		cfg.Board.Size = *flags.boardSize
	}
	if set["population"] {
		cfg.Population.Size = *flags.population
	}
	if set["generations"] {
		cfg.Run.MaxGenerations = *flags.maxGen
	}
	if set["elitism"] {
		cfg.Population.Elitism = *flags.elitism
	}
	if set["elites"] {
		cfg.Population.EliteCount = *flags.eliteCount
	}
	if set["crossover"] {
		cfg.Population.CrossoverProbability = *flags.crossover
	}
	if set["mutation"] {
		cfg.Population.MutationProbability = *flags.mutation
	}
	if set["seed"] {
		cfg.Run.Seed = *flags.seed
	}
	if set["store"] {
		cfg.Store.Backend = *flags.storeKind
	}
	if set["db-path"] {
		cfg.Store.DBPath = *flags.dbPath
	}

	if err := cfg.Validate(); err != nil {
		return queenside.RunRequest{}, "", "", err
	}

	// The resolved config always carries concrete probabilities, so the
	// request pins them even when they are 0.
	req := queenside.RunRequest{
		RunID:                *flags.runID,
		BoardSize:            cfg.Board.Size,
		Population:           cfg.Population.Size,
		Generations:          cfg.Run.MaxGenerations,
		Elitism:              cfg.Population.Elitism,
		EliteCount:           cfg.Population.EliteCount,
		CrossoverProbability: queenside.Probability(cfg.Population.CrossoverProbability),
		MutationProbability:  queenside.Probability(cfg.Population.MutationProbability),
		Seed:                 cfg.Run.Seed,
	}
	return req, cfg.Store.Backend, cfg.Store.DBPath, nil
}
