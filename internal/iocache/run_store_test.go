package iocache

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/scendiff/scendiff/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRunRecord(started time.Time) schema.RunRecord {
	return schema.RunRecord{
		RunUID:        "a1b2c3d4",
		Scenario:      "rcp45",
		Transform:     "additive",
		Magnitude:     2.0,
		WindowFrom:    2040,
		WindowTo:      2060,
		EngineCommand: "magicc",
		Outcome:       schema.RunRunning,
		StartedAt:     started,
	}
}

func TestRunStoreSQLiteRoundTrip(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "runs.db")
	store, err := NewRunStore(schema.SQLiteBackend, dbPath)
	require.NoError(t, err, "Failed to create SQLite run store")
	defer func() { _ = store.Close() }()

	started := time.Now().Add(-2 * time.Second)
	runID, err := store.BeginRun(testRunRecord(started))
	require.NoError(t, err)
	assert.Positive(t, runID, "BeginRun should return a row ID")

	// Record per-variable deltas
	deltas := []schema.DeltaRecord{
		{RunID: runID, Variable: "surface-temperature", Unit: "degC", OverlapStart: 2000, OverlapEnd: 2100, FinalDelta: 0.42, PeakDelta: 0.45, PeakYear: 2095},
		{RunID: runID, Variable: "co2-concentration", Unit: "ppm", OverlapStart: 2000, OverlapEnd: 2100, FinalDelta: 18.3, PeakDelta: 18.3, PeakYear: 2100},
	}
	require.NoError(t, store.RecordDeltas(runID, deltas))

	// Finalize the run
	finished := time.Now()
	require.NoError(t, store.FinishRun(runID, schema.RunCompleted, "", finished, 0.45))

	// Read everything back
	runs, err := store.GetAllRuns()
	require.NoError(t, err)
	require.Len(t, runs, 1)

	run := runs[0]
	assert.Equal(t, runID, run.ID)
	assert.Equal(t, "a1b2c3d4", run.RunUID)
	assert.Equal(t, "rcp45", run.Scenario)
	assert.Equal(t, "additive", run.Transform)
	assert.InDelta(t, 2.0, run.Magnitude, 1e-9)
	assert.Equal(t, schema.RunCompleted, run.Outcome)
	assert.Nil(t, run.ErrorMessage, "Completed run should have no error message")
	require.NotNil(t, run.FinishedAt)
	require.NotNil(t, run.DurationMs)
	assert.GreaterOrEqual(t, *run.DurationMs, int32(0))
	assert.InDelta(t, 0.45, run.MaxAbsDelta, 1e-9)

	gotDeltas, err := store.GetAllDeltas()
	require.NoError(t, err)
	require.Len(t, gotDeltas, 2)
	assert.Equal(t, "co2-concentration", gotDeltas[0].Variable, "Deltas should be ordered by variable")
	assert.Equal(t, "surface-temperature", gotDeltas[1].Variable)
	assert.InDelta(t, 0.45, gotDeltas[1].PeakDelta, 1e-9)

	// Status reflects the recorded history
	status, err := store.GetStatus()
	require.NoError(t, err)
	assert.Equal(t, string(schema.SQLiteBackend), status.Backend)
	assert.True(t, status.Connected)
	assert.Equal(t, 1, status.TotalRuns)
	assert.Equal(t, 2, status.TotalDeltas)
	assert.Equal(t, runID, status.LastRunID)
	assert.False(t, status.LastRunTime.IsZero())
}

func TestRunStoreFailedRun(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "runs.db")
	store, err := NewRunStore(schema.SQLiteBackend, dbPath)
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	runID, err := store.BeginRun(testRunRecord(time.Now()))
	require.NoError(t, err)

	require.NoError(t, store.FinishRun(runID, schema.RunFailed, "engine invocation failed: exit status 1", time.Now(), 0))

	runs, err := store.GetAllRuns()
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, schema.RunFailed, runs[0].Outcome)
	require.NotNil(t, runs[0].ErrorMessage)
	assert.Contains(t, *runs[0].ErrorMessage, "engine invocation failed")
}

func TestRunStoreNoneBackend(t *testing.T) {
	store, err := NewRunStore(schema.NoneBackend, "")
	require.NoError(t, err)

	// All operations are no-ops
	runID, err := store.BeginRun(testRunRecord(time.Now()))
	assert.NoError(t, err)
	assert.Zero(t, runID)

	assert.NoError(t, store.FinishRun(0, schema.RunCompleted, "", time.Now(), 0))
	assert.NoError(t, store.RecordDeltas(0, nil))

	runs, err := store.GetAllRuns()
	assert.NoError(t, err)
	assert.Empty(t, runs)

	status, err := store.GetStatus()
	assert.NoError(t, err)
	assert.False(t, status.Connected)

	assert.NoError(t, store.Close())
}

func TestClearRunsSQLite(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "runs.db")
	store, err := NewRunStore(schema.SQLiteBackend, dbPath)
	require.NoError(t, err)
	_, err = store.BeginRun(testRunRecord(time.Now()))
	require.NoError(t, err)
	require.NoError(t, store.Close())

	err = ClearRuns(schema.SQLiteBackend, dbPath, "")
	assert.NoError(t, err)
	_, err = os.Stat(dbPath)
	assert.True(t, os.IsNotExist(err), "Database file should be removed")

	// None backend is a no-op
	assert.NoError(t, ClearRuns(schema.NoneBackend, "", ""))
}

func TestMigrateRunsSQLite(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "runs.db")

	// Migrate up to latest
	err := MigrateRuns(schema.SQLiteBackend, dbPath, -1)
	require.NoError(t, err, "Migration to latest should succeed")

	// Migrating again is a no-op
	err = MigrateRuns(schema.SQLiteBackend, dbPath, -1)
	assert.NoError(t, err, "Re-running migrations should be a no-op")

	// The migrated schema is usable by the run store
	store, err := NewRunStore(schema.SQLiteBackend, dbPath)
	require.NoError(t, err)
	runID, err := store.BeginRun(testRunRecord(time.Now()))
	assert.NoError(t, err)
	assert.Positive(t, runID)
	require.NoError(t, store.Close())

	// Roll all the way back down
	err = MigrateRuns(schema.SQLiteBackend, dbPath, 0)
	assert.NoError(t, err, "Rollback to version 0 should succeed")

	// NoneBackend is rejected
	err = MigrateRuns(schema.NoneBackend, "", -1)
	assert.Error(t, err)
}
