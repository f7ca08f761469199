package schema

// CheckResult holds the results of a warming-limit policy check.
type CheckResult struct {
	Scenario        ScenarioName `json:"scenario"`
	Perturbation    Perturbation `json:"perturbation"`
	Limit           float64      `json:"limit"`   // warming limit in degC
	ByYear          float64      `json:"by_year"` // year by which the limit must hold
	Passed          bool         `json:"passed"`
	PeakWarming     float64      `json:"peak_warming"` // modified projection, up to ByYear
	PeakYear        float64      `json:"peak_year"`
	CrossingYear    float64      `json:"crossing_year"` // 0 when the limit is never reached
	BaselinePeak    float64      `json:"baseline_peak"` // baseline projection, up to ByYear
	BaselineCross   float64      `json:"baseline_cross"`
	WarmingAtByYear float64      `json:"warming_at_by_year"`
}
