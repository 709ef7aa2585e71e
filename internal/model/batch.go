package model

import "time"

// Batch is one recorded export run.
type Batch struct {
	ID         string    `json:"id"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	OutputDir  string    `json:"output_dir"`
	Format     string    `json:"format"`
	Total      int       `json:"total"`
	Succeeded  int       `json:"succeeded"`
	Failed     int       `json:"failed"`
	Canceled   bool      `json:"canceled"`
}

// BatchFailure is one item of a batch that produced no output.
type BatchFailure struct {
	BatchID    string `json:"batch_id"`
	Position   int    `json:"position"`
	SourcePath string `json:"source_path"`
	Kind       string `json:"kind"`
	Message    string `json:"message"`
}
