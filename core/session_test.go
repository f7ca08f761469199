package core

import (
	"context"
	"testing"

	"github.com/scendiff/scendiff/internal/iocache"
	"github.com/scendiff/scendiff/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// noStoreManager returns a manager with both stores disabled.
func noStoreManager() *iocache.MockCacheManager {
	mgr := &iocache.MockCacheManager{}
	mgr.On("GetProjectionStore").Return(nil)
	mgr.On("GetRunStore").Return(nil)
	return mgr
}

func TestSessionModifyAndCompare(t *testing.T) {
	cfg := testConfig()
	s := NewSession(cfg, &stubEngineClient{}, noStoreManager())

	require.Nil(t, s.CurrentReport(), "No report before the first step")

	report, err := s.ModifyAndCompare(context.Background())
	require.NoError(t, err)
	require.NotNil(t, report)

	assert.Equal(t, schema.RCP45, report.Scenario)
	assert.Equal(t, schema.AdditiveTransform, report.Perturbation.Kind)
	assert.Len(t, report.Results, 2)
	require.NotNil(t, report.Emissions)

	// An additive CO2 increase warms the modified projection
	assert.Positive(t, report.Summary.MaxAbsDelta)

	// The step publishes its report
	assert.Same(t, report, s.CurrentReport())
}

func TestSessionModifyAndCompareSequential(t *testing.T) {
	cfg := testConfig()
	cfg.Sequential = true
	s := NewSession(cfg, &stubEngineClient{}, noStoreManager())

	report, err := s.ModifyAndCompare(context.Background())
	require.NoError(t, err)
	assert.Len(t, report.Results, 2)
}

func TestSessionFailureKeepsReport(t *testing.T) {
	cfg := testConfig()
	s := NewSession(cfg, &stubEngineClient{}, noStoreManager())

	first, err := s.ModifyAndCompare(context.Background())
	require.NoError(t, err)

	// A failed step must not replace the published report
	s.client = &stubEngineClient{fail: schema.ErrEngineInvocation}
	_, err = s.ModifyAndCompare(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, schema.ErrEngineInvocation)

	assert.Same(t, first, s.CurrentReport(), "Failed steps leave the last report in place")
}

func TestSessionUnknownScenario(t *testing.T) {
	cfg := testConfig()
	cfg.Scenario = schema.ScenarioName("rcp99")
	s := NewSession(cfg, &stubEngineClient{}, noStoreManager())

	_, err := s.ModifyAndCompare(context.Background())
	assert.ErrorIs(t, err, schema.ErrUnknownScenario)
}

func TestSessionRunTracking(t *testing.T) {
	cfg := testConfig()

	runs := &iocache.MockRunStore{}
	runs.On("BeginRun", mock.MatchedBy(func(rec schema.RunRecord) bool {
		return rec.Scenario == "rcp45" &&
			rec.Transform == "additive" &&
			rec.Outcome == schema.RunRunning &&
			rec.RunUID != ""
	})).Return(int64(7), nil)
	runs.On("FinishRun", int64(7), schema.RunCompleted, "", mock.Anything, mock.Anything).Return(nil)
	runs.On("RecordDeltas", int64(7), mock.Anything).Return(nil)

	mgr := &iocache.MockCacheManager{}
	mgr.On("GetProjectionStore").Return(nil)
	mgr.On("GetRunStore").Return(runs)

	s := NewSession(cfg, &stubEngineClient{}, mgr)
	report, err := s.ModifyAndCompare(context.Background())
	require.NoError(t, err)

	runs.AssertExpectations(t)

	// One delta row per projected variable
	var recorded []schema.DeltaRecord
	for _, call := range runs.Calls {
		if call.Method == "RecordDeltas" {
			recorded = call.Arguments.Get(1).([]schema.DeltaRecord)
		}
	}
	require.Len(t, recorded, len(report.Results))
	for i, vd := range report.Results {
		assert.Equal(t, string(vd.Variable), recorded[i].Variable)
		assert.Equal(t, int64(7), recorded[i].RunID)
	}
}

func TestSessionRunTrackingFailure(t *testing.T) {
	cfg := testConfig()

	runs := &iocache.MockRunStore{}
	runs.On("BeginRun", mock.Anything).Return(int64(9), nil)
	runs.On("FinishRun", int64(9), schema.RunFailed, mock.Anything, mock.Anything, float64(0)).Return(nil)

	mgr := &iocache.MockCacheManager{}
	mgr.On("GetProjectionStore").Return(nil)
	mgr.On("GetRunStore").Return(runs)

	s := NewSession(cfg, &stubEngineClient{fail: schema.ErrEngineInvocation}, mgr)
	_, err := s.ModifyAndCompare(context.Background())
	require.Error(t, err)

	runs.AssertExpectations(t)
	runs.AssertNotCalled(t, "RecordDeltas", mock.Anything, mock.Anything)
}

func TestSessionProjectBaseline(t *testing.T) {
	cfg := testConfig()
	s := NewSession(cfg, &stubEngineClient{}, noStoreManager())

	result, err := s.ProjectBaseline(context.Background())
	require.NoError(t, err)
	assert.Len(t, result.Variables, 2)
	assert.Nil(t, s.CurrentReport(), "Baseline projection does not publish a report")
}

func TestResolveWindow(t *testing.T) {
	base := loadBasePathway(t)
	start, end := base.Horizon()

	// An unset window expands to the full horizon
	p := resolveWindow(schema.Perturbation{Kind: schema.AdditiveTransform, Magnitude: 1}, base)
	assert.Equal(t, start, p.From)
	assert.Equal(t, end, p.To)

	// An explicit window is left alone
	p = resolveWindow(schema.Perturbation{From: 2040, To: 2060}, base)
	assert.Equal(t, 2040.0, p.From)
	assert.Equal(t, 2060.0, p.To)
}
