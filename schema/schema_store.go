package schema

import "time"

// RunRecord represents a row from the scendiff_runs table. Each row is one
// modify-and-compare step, appended when the step starts and finalized when
// it completes or fails.
type RunRecord struct {
	ID            int64
	RunUID        string // correlation id shared with engine scratch dirs
	Scenario      string
	Transform     string
	Magnitude     float64
	WindowFrom    float64
	WindowTo      float64
	EngineCommand string
	Outcome       RunOutcome
	ErrorMessage  *string
	StartedAt     time.Time
	FinishedAt    *time.Time
	DurationMs    *int32
	MaxAbsDelta   float64
}

// DeltaRecord represents a row from the scendiff_run_deltas table: the
// headline numbers for one projected variable of one run.
type DeltaRecord struct {
	RunID        int64
	Variable     string
	Unit         string
	OverlapStart float64
	OverlapEnd   float64
	FinalDelta   float64
	PeakDelta    float64
	PeakYear     float64
}
