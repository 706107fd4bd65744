package evo

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"strconv"
	"strings"

	"queenside/internal/model"
)

// Defaults applied when a Config leaves the corresponding field zero.
const (
	DefaultEliteCount           = 5
	DefaultCrossoverProbability = 0.75
	DefaultMutationProbability  = 0.02
)

// FinishCondition lets the caller stop evolution early; it sees the
// generation that was just produced. nil means never.
type FinishCondition func(generation []ScoredGenome) bool

// Config carries every parameter of one evolutionary run.
type Config struct {
	BoardSize            int
	PopulationSize       int
	Elitism              bool
	EliteCount           int
	CrossoverProbability float64
	MutationProbability  float64
	Seed                 int64
	Recorder             Recorder
}

// Population owns one generation of candidate boards and drives the
// generational loop over it. It is not safe for concurrent use.
type Population struct {
	cfg        Config
	rng        *rand.Rand
	generation []ScoredGenome
	executed   int
	stats      []model.GenerationStats
}

// NewPopulation validates cfg and seeds a generation of distinct random
// genomes.
func NewPopulation(cfg Config) (*Population, error) {
	if cfg.BoardSize < 1 {
		return nil, fmt.Errorf("board size must be >= 1, got %d", cfg.BoardSize)
	}
	if cfg.PopulationSize < 1 {
		return nil, fmt.Errorf("population size must be >= 1, got %d", cfg.PopulationSize)
	}
	if cfg.CrossoverProbability < 0 || cfg.CrossoverProbability > 1 {
		return nil, fmt.Errorf("crossover probability must be in [0, 1], got %g", cfg.CrossoverProbability)
	}
	if cfg.MutationProbability < 0 || cfg.MutationProbability > 1 {
		return nil, fmt.Errorf("mutation probability must be in [0, 1], got %g", cfg.MutationProbability)
	}
	if cfg.Elitism {
		if cfg.EliteCount == 0 {
			cfg.EliteCount = DefaultEliteCount
		}
		if cfg.EliteCount < 0 || cfg.EliteCount > cfg.PopulationSize {
			return nil, fmt.Errorf("elite count must be in [0, population size], got %d", cfg.EliteCount)
		}
	}
	// The initial generation must be duplicate-free, which caps the
	// population at the Size^Size distinct chromosomes.
	if float64(cfg.PopulationSize) > math.Pow(float64(cfg.BoardSize), float64(cfg.BoardSize)) {
		return nil, fmt.Errorf("population size %d exceeds the %d^%d distinct chromosomes", cfg.PopulationSize, cfg.BoardSize, cfg.BoardSize)
	}
	if cfg.Recorder == nil {
		cfg.Recorder = NoopRecorder{}
	}

	p := &Population{
		cfg: cfg,
		rng: rand.New(rand.NewSource(cfg.Seed)),
	}
	p.generation = p.seedGeneration()
	return p, nil
}

// seedGeneration draws PopulationSize distinct chromosomes; duplicate
// draws are discarded and redrawn so the initial generation carries no
// wasted diversity.
func (p *Population) seedGeneration() []ScoredGenome {
	generation := make([]ScoredGenome, 0, p.cfg.PopulationSize)
	seen := make(map[string]struct{}, p.cfg.PopulationSize)
	for len(generation) < p.cfg.PopulationSize {
		genome := NewRandomGenome(p.rng, p.cfg.BoardSize)
		key := chromosomeKey(genome.Chromosome)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		generation = append(generation, ScoredGenome{Genome: genome, Fitness: Fitness(genome)})
	}
	return generation
}

func chromosomeKey(chromosome []int) string {
	var sb strings.Builder
	for i, v := range chromosome {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(strconv.Itoa(v))
	}
	return sb.String()
}

// Evolve runs up to maxGenerations generation steps, stopping early when
// an optimal genome appears, finish returns true, or ctx is done.
func (p *Population) Evolve(ctx context.Context, maxGenerations int, finish FinishCondition) error {
	if maxGenerations < 0 {
		return fmt.Errorf("max generations must be >= 0, got %d", maxGenerations)
	}

	for gen := 0; gen < maxGenerations; gen++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		next, crossovers, mutations, err := p.nextGeneration()
		if err != nil {
			return err
		}
		p.generation = next
		p.executed++

		stats := summarizeGeneration(p.generation, p.executed, crossovers, mutations)
		p.stats = append(p.stats, stats)
		p.cfg.Recorder.RecordGeneration(stats)

		if stats.MinFitness == 0 {
			return nil
		}
		if finish != nil && finish(p.Generation()) {
			return nil
		}
	}
	return nil
}

// nextGeneration produces exactly PopulationSize genomes: elites pass
// through unchanged, the rest are bred pairwise from the remaining pool.
func (p *Population) nextGeneration() ([]ScoredGenome, int, int, error) {
	breeding := newPool(p.generation)
	next := make([]ScoredGenome, 0, p.cfg.PopulationSize)
	crossovers, mutations := 0, 0

	if p.cfg.Elitism {
		for i := 0; i < p.cfg.EliteCount; i++ {
			next = append(next, breeding.removeAt(0))
		}
	}

	for p.cfg.PopulationSize-len(next) >= 2 {
		parent1, parent2, err := selectParents(p.rng, breeding)
		if err != nil {
			return nil, 0, 0, err
		}

		offspring := [2]ScoredGenome{parent1, parent2}
		if p.rng.Float64() < p.cfg.CrossoverProbability {
			child1, child2 := Crossover(p.rng, parent1.Genome, parent2.Genome)
			crossovers++
			if p.rng.Float64() < p.cfg.MutationProbability {
				child1 = Mutate(p.rng, child1)
				mutations++
			}
			if p.rng.Float64() < p.cfg.MutationProbability {
				child2 = Mutate(p.rng, child2)
				mutations++
			}
			offspring[0] = ScoredGenome{Genome: child1, Fitness: Fitness(child1)}
			offspring[1] = ScoredGenome{Genome: child2, Fitness: Fitness(child2)}
		}

		// The loop condition guarantees room for both offspring.
		next = append(next, offspring[0], offspring[1])
	}

	// Odd remainder: one slot and one pooled genome left. The unpaired
	// genome passes through unchanged; equivalently, the second
	// offspring of a final pair is dropped.
	if len(next) < p.cfg.PopulationSize {
		if breeding.len() == 0 {
			return nil, 0, 0, fmt.Errorf("breeding pool exhausted with %d of %d slots filled", len(next), p.cfg.PopulationSize)
		}
		next = append(next, breeding.removeAt(0))
	}
	return next, crossovers, mutations, nil
}

func summarizeGeneration(generation []ScoredGenome, index, crossovers, mutations int) model.GenerationStats {
	minFitness := generation[0].Fitness
	total := 0
	for _, member := range generation {
		if member.Fitness < minFitness {
			minFitness = member.Fitness
		}
		total += member.Fitness
	}
	return model.GenerationStats{
		Generation:  index,
		MinFitness:  minFitness,
		MeanFitness: float64(total) / float64(len(generation)),
		Crossovers:  crossovers,
		Mutations:   mutations,
	}
}

// BestSolution returns the lowest-fitness genome of the current
// generation without changing its membership.
func (p *Population) BestSolution() ScoredGenome {
	best := p.generation[0]
	for _, member := range p.generation[1:] {
		if member.Fitness < best.Fitness {
			best = member
		}
	}
	return best
}

// Generation returns a copy of the current generation.
func (p *Population) Generation() []ScoredGenome {
	return append([]ScoredGenome(nil), p.generation...)
}

// GenerationsRun reports how many generation steps have completed.
func (p *Population) GenerationsRun() int { return p.executed }

// Stats returns the telemetry collected so far, one record per
// completed generation step.
func (p *Population) Stats() []model.GenerationStats {
	return append([]model.GenerationStats(nil), p.stats...)
}
