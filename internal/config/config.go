// Package config loads solver run parameters from an INI file.
package config

import (
	"fmt"

	"gopkg.in/ini.v1"

	"queenside/internal/evo"
)

// Config mirrors the sections of a queenside INI file.
type Config struct {
	Board      BoardConfig
	Population PopulationConfig
	Run        RunConfig
	Store      StoreConfig
}

type BoardConfig struct {
	Size int `ini:"size"`
}

type PopulationConfig struct {
	Size                 int     `ini:"size"`
	Elitism              bool    `ini:"elitism"`
	EliteCount           int     `ini:"elite_count"`
	CrossoverProbability float64 `ini:"crossover_probability"`
	MutationProbability  float64 `ini:"mutation_probability"`
}

type RunConfig struct {
	MaxGenerations int   `ini:"max_generations"`
	Seed           int64 `ini:"seed"`
}

type StoreConfig struct {
	Backend string `ini:"backend"`
	DBPath  string `ini:"db_path"`
}

// Default returns the parameters used when no file or flag names them.
func Default() Config {
	return Config{
		Board: BoardConfig{Size: 8},
		Population: PopulationConfig{
			Size:                 16,
			EliteCount:           evo.DefaultEliteCount,
			CrossoverProbability: evo.DefaultCrossoverProbability,
			MutationProbability:  evo.DefaultMutationProbability,
		},
		Run:   RunConfig{MaxGenerations: 100},
		Store: StoreConfig{Backend: "memory", DBPath: "queenside.db"},
	}
}

// Load reads path on top of the defaults: keys absent from the file keep
// their default values, including explicit zeros set in the file.
func Load(path string) (Config, error) {
	file, err := ini.LoadSources(ini.LoadOptions{
		IgnoreInlineComment:         true,
		UnescapeValueCommentSymbols: true,
	}, path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to load config file %q: %w", path, err)
	}

	cfg := Default()
	if err := file.Section("board").MapTo(&cfg.Board); err != nil {
		return Config{}, fmt.Errorf("failed to map [board] section: %w", err)
	}
	if err := file.Section("population").MapTo(&cfg.Population); err != nil {
		return Config{}, fmt.Errorf("failed to map [population] section: %w", err)
	}
	if err := file.Section("run").MapTo(&cfg.Run); err != nil {
		return Config{}, fmt.Errorf("failed to map [run] section: %w", err)
	}
	if err := file.Section("store").MapTo(&cfg.Store); err != nil {
		return Config{}, fmt.Errorf("failed to map [store] section: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate applies the same fail-fast rules the solver core enforces,
// plus the run-level ones only the driver knows about.
func (c Config) Validate() error {
	if c.Board.Size < 1 {
		return fmt.Errorf("config error: board size must be >= 1, got %d", c.Board.Size)
	}
	if c.Population.Size < 1 {
		return fmt.Errorf("config error: population size must be >= 1, got %d", c.Population.Size)
	}
	if c.Population.Elitism && (c.Population.EliteCount < 0 || c.Population.EliteCount > c.Population.Size) {
		return fmt.Errorf("config error: elite_count must be in [0, population size], got %d", c.Population.EliteCount)
	}
	if c.Population.CrossoverProbability < 0 || c.Population.CrossoverProbability > 1 {
		return fmt.Errorf("config error: crossover_probability must be in [0, 1], got %g", c.Population.CrossoverProbability)
	}
	if c.Population.MutationProbability < 0 || c.Population.MutationProbability > 1 {
		return fmt.Errorf("config error: mutation_probability must be in [0, 1], got %g", c.Population.MutationProbability)
	}
	if c.Run.MaxGenerations < 1 {
		return fmt.Errorf("config error: max_generations must be >= 1, got %d", c.Run.MaxGenerations)
	}
	switch c.Store.Backend {
	case "", "memory", "sqlite":
	default:
		return fmt.Errorf("config error: unsupported store backend %q", c.Store.Backend)
	}
	return nil
}
