package model

import "time"

// RunStatus is the lifecycle state of a pipeline run.
type RunStatus string

// Run statuses.
const (
	RunStatusRunning  RunStatus = "running"
	RunStatusComplete RunStatus = "complete"
	RunStatusFailed   RunStatus = "failed"
)

// Readout is the data-quality summary of a run.
type Readout struct {
	Records     int                `json:"records"`
	Missing     map[string]float64 `json:"missing,omitempty"` // field -> percent missing
	MatchLevels map[string]int     `json:"match_levels,omitempty"`
	ACSSources  map[string]int     `json:"acs_sources,omitempty"`
	Sources     map[string]int     `json:"sources,omitempty"`
}

// Run is one recorded invocation of the pipeline.
type Run struct {
	ID         string     `json:"id"`
	Command    string     `json:"command"`
	Input      string     `json:"input"`
	Status     RunStatus  `json:"status"`
	Readout    *Readout   `json:"readout,omitempty"`
	Error      string     `json:"error,omitempty"`
	StartedAt  time.Time  `json:"started_at"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
}
