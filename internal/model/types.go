package model

// VersionedRecord captures schema and codec evolution for persistent data.
type VersionedRecord struct {
	SchemaVersion int `json:"schema_version"`
	CodecVersion  int `json:"codec_version"`
}

// Genome is one candidate board: Chromosome[i] holds the row (1..Size) of
// the queen placed in column i. Duplicate rows are legal; this is an
// integer-per-column encoding, not a permutation.
type Genome struct {
	Size       int   `json:"size"`
	Chromosome []int `json:"chromosome"`
}

// RunRecord summarizes one completed solver run.
type RunRecord struct {
	VersionedRecord
	ID                   string  `json:"id"`
	BoardSize            int     `json:"board_size"`
	PopulationSize       int     `json:"population_size"`
	Elitism              bool    `json:"elitism"`
	EliteCount           int     `json:"elite_count,omitempty"`
	CrossoverProbability float64 `json:"crossover_probability"`
	MutationProbability  float64 `json:"mutation_probability"`
	Seed                 int64   `json:"seed"`
	Generations          int     `json:"generations"`
	BestFitness          int     `json:"best_fitness"`
	Solved               bool    `json:"solved"`
	Best                 Genome  `json:"best"`
	StartedAtUTC         string  `json:"started_at_utc,omitempty"`
	CompletedAtUTC       string  `json:"completed_at_utc,omitempty"`
}

// GenerationStats is the telemetry record emitted after each completed
// generation step.
type GenerationStats struct {
	Generation  int     `json:"generation"`
	MinFitness  int     `json:"min_fitness"`
	MeanFitness float64 `json:"mean_fitness"`
	Crossovers  int     `json:"crossovers"`
	Mutations   int     `json:"mutations"`
}
