package schema

import (
	"sort"
	"time"
)

// EngineRunInfo captures how a projection was produced.
type EngineRunInfo struct {
	Command   string        `json:"command"`    // engine executable that was invoked
	RunUID    string        `json:"run_uid"`    // correlation id shared with scratch dirs and logs
	Elapsed   time.Duration `json:"elapsed"`    // wall time of the engine invocation
	FromCache bool          `json:"from_cache"` // true when served from the projection cache
}

// ProjectionResult is the outcome of one engine run: a set of projected
// variables over a common horizon plus invocation metadata.
type ProjectionResult struct {
	Source      string                          `json:"source"` // label of the pathway that was projected
	StartYear   float64                         `json:"start_year"`
	EndYear     float64                         `json:"end_year"`
	Variables   map[OutputVariable]*TimeSeries  `json:"variables"`
	Engine      EngineRunInfo                   `json:"engine"`
	GeneratedAt time.Time                       `json:"generated_at"`
}

// SortedVariables returns the projected variable names in lexical order,
// giving a deterministic iteration order over the Variables map.
func (r *ProjectionResult) SortedVariables() []OutputVariable {
	keys := make([]OutputVariable, 0, len(r.Variables))
	for v := range r.Variables {
		keys = append(keys, v)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// SameVariableSet reports whether two results cover exactly the same variables.
func (r *ProjectionResult) SameVariableSet(other *ProjectionResult) bool {
	if len(r.Variables) != len(other.Variables) {
		return false
	}
	for v := range r.Variables {
		if _, ok := other.Variables[v]; !ok {
			return false
		}
	}
	return true
}
