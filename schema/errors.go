package schema

import "errors"

// Sentinel errors for the perturbation and projection pipeline. Callers match
// them with errors.Is after unwrapping whatever context was layered on top.
var (
	// ErrUnknownScenario is returned when a scenario name is not in the catalog.
	ErrUnknownScenario = errors.New("unknown scenario")

	// ErrCorruptData is returned when catalog data fails structural validation.
	ErrCorruptData = errors.New("corrupt scenario data")

	// ErrInvalidWindow is returned when a perturbation window is malformed or
	// lies entirely outside the pathway horizon.
	ErrInvalidWindow = errors.New("invalid perturbation window")

	// ErrInvalidMagnitude is returned when a perturbation magnitude is not
	// meaningful for the requested transform.
	ErrInvalidMagnitude = errors.New("invalid perturbation magnitude")

	// ErrPhysicalConstraint is returned when a perturbation would drive fossil
	// CO2 emissions negative. The wrapped message names the first offending year.
	ErrPhysicalConstraint = errors.New("physical constraint violation")

	// ErrEngineInvocation is returned when the projection engine fails to start
	// or exits unsuccessfully.
	ErrEngineInvocation = errors.New("engine invocation failed")

	// ErrEngineTimeout is returned when an engine run exceeds the configured timeout.
	ErrEngineTimeout = errors.New("engine run timed out")

	// ErrIncompatibleResults is returned when two projections do not cover the
	// same variable set.
	ErrIncompatibleResults = errors.New("incompatible projection results")

	// ErrNoOverlap is returned when two projections share no common time range.
	ErrNoOverlap = errors.New("no overlapping projection years")
)
