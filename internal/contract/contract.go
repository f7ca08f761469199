// Package contract defines the shared interfaces and configuration
// types that the core pipeline and the persistence layer agree on.
package contract

import (
	"context"
	"time"

	"github.com/scendiff/scendiff/schema"
)

// EngineRequest describes a single invocation of the projection engine
// binary. The scenario file referenced by ScenarioPath must already be
// serialized on disk, and OutDir must exist and be writable.
type EngineRequest struct {
	Command      string
	ScenarioPath string
	OutDir       string
	StartYear    float64
	EndYear      float64
	Timestep     float64
	Variables    []schema.OutputVariable
}

// EngineClient abstracts the projection engine subprocess so the
// pipeline can be tested without a real climate model installed.
type EngineClient interface {
	// Invoke runs the engine for one scenario file and blocks until the
	// engine exits or ctx is done. On a context deadline it returns an
	// error wrapping schema.ErrEngineTimeout; on a non-zero exit or a
	// missing binary it returns an error wrapping schema.ErrEngineInvocation.
	Invoke(ctx context.Context, req EngineRequest) error
}

// CacheStore persists serialized projection results keyed by a content
// hash of the full run configuration.
type CacheStore interface {
	Get(key string) ([]byte, bool, error)
	Set(key string, data []byte) error
	GetStatus() (schema.CacheStatus, error)
	Close() error
}

// RunStore records completed and failed engine runs for later
// inspection and export.
type RunStore interface {
	// BeginRun inserts a row in the running state and returns its ID.
	BeginRun(rec schema.RunRecord) (int64, error)
	// FinishRun marks a run completed or failed. errMsg is stored only
	// for failed outcomes.
	FinishRun(runID int64, outcome schema.RunOutcome, errMsg string, finishedAt time.Time, maxAbsDelta float64) error
	RecordDeltas(runID int64, deltas []schema.DeltaRecord) error
	GetStatus() (schema.RunStoreStatus, error)
	GetAllRuns() ([]schema.RunRecord, error)
	GetAllDeltas() ([]schema.DeltaRecord, error)
	Close() error
}

// CacheManager hands out the configured stores. Either store may be
// backed by a no-op implementation when its backend is "none".
type CacheManager interface {
	GetProjectionStore() CacheStore
	GetRunStore() RunStore
}
