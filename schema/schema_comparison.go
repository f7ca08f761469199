package schema

import "time"

// DeltaSummary condenses a per-variable delta series into headline numbers.
type DeltaSummary struct {
	FinalDelta float64 `json:"final_delta"` // delta at the last overlapping year
	FinalYear  float64 `json:"final_year"`
	PeakDelta  float64 `json:"peak_delta"` // signed delta with the largest magnitude
	PeakYear   float64 `json:"peak_year"`
	MeanDelta  float64 `json:"mean_delta"`
}

// VariableDelta holds the aligned baseline, modified and difference series
// for one projected variable over the overlapping horizon.
type VariableDelta struct {
	Variable OutputVariable `json:"variable"`
	Unit     string         `json:"unit"`
	Years    []float64      `json:"years"`
	Baseline []float64      `json:"baseline"`
	Modified []float64      `json:"modified"`
	Delta    []float64      `json:"delta"` // modified minus baseline, per year
	Summary  DeltaSummary   `json:"summary"`
}

// ThresholdCrossing records when each projection first reaches a warming
// threshold. A year of 0 means the threshold is never reached in the horizon.
type ThresholdCrossing struct {
	Limit        float64 `json:"limit"` // threshold in degC
	BaselineYear float64 `json:"baseline_year"`
	ModifiedYear float64 `json:"modified_year"`
}

// EmissionsSummary condenses the emission-side difference between the base
// and derived pathways for the perturbed species.
type EmissionsSummary struct {
	Species         Species `json:"species"`
	Unit            string  `json:"unit"`
	CumulativeDelta float64 `json:"cumulative_delta"` // integrated over the horizon, in Gt C
	PeakDelta       float64 `json:"peak_delta"`
	PeakYear        float64 `json:"peak_year"`
}

// ComparisonSummary aggregates headline numbers across all variables.
type ComparisonSummary struct {
	OverlapStart        float64             `json:"overlap_start"`
	OverlapEnd          float64             `json:"overlap_end"`
	MaxAbsDelta         float64             `json:"max_abs_delta"`
	MaxAbsDeltaVariable OutputVariable      `json:"max_abs_delta_variable"`
	Crossings           []ThresholdCrossing `json:"crossings,omitempty"`
}

// ComparisonReport is the full modified-vs-baseline comparison for one
// perturbation step.
type ComparisonReport struct {
	Scenario     ScenarioName      `json:"scenario"`
	Perturbation Perturbation      `json:"perturbation"`
	Results      []VariableDelta   `json:"results"`
	Summary      ComparisonSummary `json:"summary"`
	Emissions    *EmissionsSummary `json:"emissions,omitempty"`
	GeneratedAt  time.Time         `json:"generated_at"`
}
