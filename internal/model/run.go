// Package model holds the records shared by the training, report and
// run-history packages.
package model

import "time"

// RunStatus represents the current state of an analysis run.
type RunStatus string

const (
	RunStatusRunning  RunStatus = "running"
	RunStatusComplete RunStatus = "complete"
	RunStatusFailed   RunStatus = "failed"
)

// Score is the held-out evaluation of one regressor.
type Score struct {
	Name string  `json:"name" yaml:"name"`
	MAE  float64 `json:"mae" yaml:"mae"`
	MSE  float64 `json:"mse" yaml:"mse"`
	R2   float64 `json:"r2" yaml:"r2"`
}

// Run is one invocation of the pipeline against a dataset.
type Run struct {
	ID        string     `json:"id" yaml:"id"`
	Dataset   string     `json:"dataset" yaml:"dataset"`
	Status    RunStatus  `json:"status" yaml:"status"`
	Result    *RunResult `json:"result,omitempty" yaml:"result,omitempty"`
	Error     string     `json:"error,omitempty" yaml:"error,omitempty"`
	CreatedAt time.Time  `json:"created_at" yaml:"created_at"`
	UpdatedAt time.Time  `json:"updated_at" yaml:"updated_at"`
}

// RunResult holds the outcome of a completed run. Model and encoder state
// are never recorded.
type RunResult struct {
	Rows         int      `json:"rows" yaml:"rows"`
	Duplicates   int      `json:"duplicates" yaml:"duplicates"`
	MissingCells int      `json:"missing_cells" yaml:"missing_cells"`
	TrainRows    int      `json:"train_rows" yaml:"train_rows"`
	TestRows     int      `json:"test_rows" yaml:"test_rows"`
	Features     []string `json:"features,omitempty" yaml:"features,omitempty"`
	Scores       []Score  `json:"scores" yaml:"scores"`
	Winner       string   `json:"winner" yaml:"winner"`
	Charts       []string `json:"charts,omitempty" yaml:"charts,omitempty"`
}

// Duration returns the wall time between creation and the last update.
func (r Run) Duration() time.Duration {
	return r.UpdatedAt.Sub(r.CreatedAt)
}
