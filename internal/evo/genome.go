package evo

import (
	"fmt"
	"math/rand"
	"strings"

	"queenside/internal/model"
)

// NewRandomGenome draws a chromosome of uniform rows in [1, size].
func NewRandomGenome(rng *rand.Rand, size int) model.Genome {
	chromosome := make([]int, size)
	for i := range chromosome {
		chromosome[i] = rng.Intn(size) + 1
	}
	return model.Genome{Size: size, Chromosome: chromosome}
}

// Fitness counts attacking queen pairs, each pair once: for every column
// pair i < j the queens attack when they share a row or a diagonal.
// Zero means a conflict-free board; lower is better.
func Fitness(g model.Genome) int {
	assertGenome(g)

	conflicts := 0
	for i := 0; i < g.Size; i++ {
		for j := i + 1; j < g.Size; j++ {
			if attacks(g.Chromosome[i], g.Chromosome[j], j-i) {
				conflicts++
			}
		}
	}
	return conflicts
}

// attacks reports whether queens dist columns apart, on rows a and b,
// threaten each other.
func attacks(a, b, dist int) bool {
	return a == b || b-a == dist || a-b == dist
}

// Crossover exchanges the chromosome suffixes [cut:] of a and b at a cut
// drawn uniformly from [0, size-1]. Both parents are left untouched; the
// offspring are fresh genomes.
func Crossover(rng *rand.Rand, a, b model.Genome) (model.Genome, model.Genome) {
	assertGenome(a)
	assertGenome(b)
	if a.Size != b.Size {
		panic(fmt.Sprintf("evo: crossover size mismatch: %d vs %d", a.Size, b.Size))
	}

	cut := rng.Intn(a.Size)
	child1 := cloneGenome(a)
	child2 := cloneGenome(b)
	copy(child1.Chromosome[cut:], b.Chromosome[cut:])
	copy(child2.Chromosome[cut:], a.Chromosome[cut:])
	return child1, child2
}

// Mutate overwrites one uniformly chosen column with a uniform row in
// [1, size]; the new value may coincide with the old one. The input
// genome is left untouched.
func Mutate(rng *rand.Rand, g model.Genome) model.Genome {
	assertGenome(g)

	mutated := cloneGenome(g)
	mutated.Chromosome[rng.Intn(g.Size)] = rng.Intn(g.Size) + 1
	return mutated
}

// Board renders the genome as an N×N grid with one 'Q' per column at
// that column's row, row 1 on the top line. Display only.
func Board(g model.Genome) string {
	assertGenome(g)

	var sb strings.Builder
	for row := 1; row <= g.Size; row++ {
		if row > 1 {
			sb.WriteByte('\n')
		}
		for col := 0; col < g.Size; col++ {
			if col > 0 {
				sb.WriteByte(' ')
			}
			if g.Chromosome[col] == row {
				sb.WriteByte('Q')
			} else {
				sb.WriteByte('-')
			}
		}
	}
	return sb.String()
}

func cloneGenome(g model.Genome) model.Genome {
	clone := g
	clone.Chromosome = append([]int(nil), g.Chromosome...)
	return clone
}

// assertGenome guards against a chromosome whose length drifted from the
// declared size; operating on such a genome is undefined.
func assertGenome(g model.Genome) {
	if g.Size <= 0 || len(g.Chromosome) != g.Size {
		panic(fmt.Sprintf("evo: corrupt genome: size=%d chromosome=%d", g.Size, len(g.Chromosome)))
	}
}
