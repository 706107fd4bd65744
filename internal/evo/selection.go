package evo

import (
	"fmt"
	"math/rand"
	"sort"

	"queenside/internal/model"
)

// ScoredGenome pairs a genome with its cached fitness.
type ScoredGenome struct {
	Genome  model.Genome
	Fitness int
}

// pool holds the genomes still eligible as parents within one generation
// step. Members stay sorted ascending by fitness, so a smaller index is
// always a better genome.
type pool struct {
	members []ScoredGenome
}

func newPool(members []ScoredGenome) *pool {
	sorted := append([]ScoredGenome(nil), members...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Fitness < sorted[j].Fitness
	})
	return &pool{members: sorted}
}

func (p *pool) len() int { return len(p.members) }

// removeAt takes the member at idx out of the pool, preserving the
// fitness ordering of the rest.
func (p *pool) removeAt(idx int) ScoredGenome {
	member := p.members[idx]
	p.members = append(p.members[:idx], p.members[idx+1:]...)
	return member
}

// selectParents consumes two genomes from the pool: the first by a
// two-candidate tournament, the second by inverse-fitness roulette over
// the remainder. Calling it with fewer than two pooled genomes is a
// logic error in the caller's accounting.
func selectParents(rng *rand.Rand, p *pool) (ScoredGenome, ScoredGenome, error) {
	if p.len() < 2 {
		return ScoredGenome{}, ScoredGenome{}, fmt.Errorf("selection requires at least 2 pooled genomes, have %d", p.len())
	}
	first := p.removeAt(pickTournament(rng, p.len()))
	second := p.removeAt(pickRoulette(rng, p.members))
	return first, second, nil
}

// pickTournament draws two indices uniformly with replacement and keeps
// the smaller; the pool is sorted ascending, so that is the fitter
// candidate.
func pickTournament(rng *rand.Rand, n int) int {
	i, j := rng.Intn(n), rng.Intn(n)
	if j < i {
		return j
	}
	return i
}

// pickRoulette draws proportionally to inverse fitness. A zero-fitness
// genome has no finite inverse weight: it is already optimal, so the
// draw short-circuits to the first such genome instead of dividing by
// zero.
func pickRoulette(rng *rand.Rand, members []ScoredGenome) int {
	total := 0.0
	for i, member := range members {
		if member.Fitness == 0 {
			return i
		}
		total += 1 / float64(member.Fitness)
	}

	draw := rng.Float64()
	cumulative := 0.0
	for i, member := range members {
		cumulative += 1 / float64(member.Fitness) / total
		if draw < cumulative {
			return i
		}
	}
	// Rounding can leave the cumulative sum a hair below 1.
	return len(members) - 1
}
