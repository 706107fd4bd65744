package evo

import "queenside/internal/model"

// Recorder receives one stats record after each completed generation
// step. It is called synchronously from the evolve loop.
type Recorder interface {
	RecordGeneration(stats model.GenerationStats)
}

// NoopRecorder drops every record.
type NoopRecorder struct{}

func (NoopRecorder) RecordGeneration(model.GenerationStats) {}

// SliceRecorder accumulates records in order.
type SliceRecorder struct {
	Records []model.GenerationStats
}

func (r *SliceRecorder) RecordGeneration(stats model.GenerationStats) {
	r.Records = append(r.Records, stats)
}
