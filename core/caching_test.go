package core

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/scendiff/scendiff/internal/iocache"
	"github.com/scendiff/scendiff/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestGenerateCacheKey(t *testing.T) {
	cfg := testConfig()
	base := loadBasePathway(t)

	key1 := generateCacheKey(cfg, base)
	key2 := generateCacheKey(cfg, base)
	assert.Equal(t, key1, key2, "Key should be stable for identical inputs")
	assert.Len(t, key1, 64, "Key should be a hex-encoded SHA-256 digest")

	// A perturbed pathway carries a different label, so it gets its own key
	derived, err := ApplyPerturbation(base, resolveWindow(cfg.Perturbation, base))
	require.NoError(t, err)
	assert.NotEqual(t, key1, generateCacheKey(cfg, derived))

	// The engine command is part of the key
	other := testConfig()
	other.EngineCommand = "other-engine"
	assert.NotEqual(t, key1, generateCacheKey(other, base))

	// The variable set is part of the key
	other = testConfig()
	other.Variables = []schema.OutputVariable{schema.SurfaceTemperature}
	assert.NotEqual(t, key1, generateCacheKey(other, base))
}

func TestGenerateCacheKeyExactPerturbation(t *testing.T) {
	cfg := testConfig()
	base := loadBasePathway(t)

	// Fractional window boundaries round to the same display label but
	// perturb different grids, so they must never share a cache key.
	whole := schema.Perturbation{Kind: schema.AdditiveTransform, Magnitude: 2, From: 2040, To: 2060}
	fractional := whole
	fractional.From = 2040.4

	d1, err := ApplyPerturbation(base, whole)
	require.NoError(t, err)
	d2, err := ApplyPerturbation(base, fractional)
	require.NoError(t, err)

	assert.NotEqual(t, generateCacheKey(cfg, d1), generateCacheKey(cfg, d2))

	// Same below display precision for the magnitude.
	tiny := whole
	tiny.Magnitude = 2.0000004
	d3, err := ApplyPerturbation(base, tiny)
	require.NoError(t, err)
	assert.NotEqual(t, generateCacheKey(cfg, d1), generateCacheKey(cfg, d3))

	// The exact identity still keys identically across separate applications.
	d4, err := ApplyPerturbation(base, whole)
	require.NoError(t, err)
	assert.Equal(t, generateCacheKey(cfg, d1), generateCacheKey(cfg, d4))
}

func TestCachedProjectPathwayMiss(t *testing.T) {
	cfg := testConfig()
	base := loadBasePathway(t)
	client := &stubEngineClient{}

	store := &iocache.MockCacheStore{}
	store.On("Get", mock.Anything).Return([]byte(nil), false, nil)
	store.On("Set", mock.Anything, mock.Anything).Return(nil)

	mgr := &iocache.MockCacheManager{}
	mgr.On("GetProjectionStore").Return(store)

	result, err := cachedProjectPathway(context.Background(), cfg, client, mgr, base)
	require.NoError(t, err)
	assert.False(t, result.Engine.FromCache, "A miss should run the engine")
	assert.NotEmpty(t, result.Variables)

	// The computed projection is stored for next time
	store.AssertCalled(t, "Set", mock.Anything, mock.Anything)
}

func TestCachedProjectPathwayHit(t *testing.T) {
	cfg := testConfig()
	base := loadBasePathway(t)

	cached := &schema.ProjectionResult{
		Source:    base.Label(),
		StartYear: 2000,
		EndYear:   2100,
		Variables: map[schema.OutputVariable]*schema.TimeSeries{
			schema.SurfaceTemperature: tempSeries(
				[]float64{2000, 2100},
				[]float64{0.5, 2.5},
			),
		},
		Engine: schema.EngineRunInfo{Command: "stub-engine"},
	}
	data, err := json.Marshal(cached)
	require.NoError(t, err)

	store := &iocache.MockCacheStore{}
	store.On("Get", mock.Anything).Return(data, true, nil)

	mgr := &iocache.MockCacheManager{}
	mgr.On("GetProjectionStore").Return(store)

	// A failing engine proves the hit never reaches the engine
	client := &stubEngineClient{fail: schema.ErrEngineInvocation}

	result, err := cachedProjectPathway(context.Background(), cfg, client, mgr, base)
	require.NoError(t, err)
	assert.True(t, result.Engine.FromCache, "A hit should be marked as cached")
	assert.Zero(t, result.Engine.Elapsed, "Cached results report no engine time")
	assert.Equal(t, base.Label(), result.Source)
	store.AssertNotCalled(t, "Set", mock.Anything, mock.Anything)
}

func TestCachedProjectPathwayCorruptEntry(t *testing.T) {
	cfg := testConfig()
	base := loadBasePathway(t)
	client := &stubEngineClient{}

	// A corrupt entry is treated as a miss
	store := &iocache.MockCacheStore{}
	store.On("Get", mock.Anything).Return([]byte("not json"), true, nil)
	store.On("Set", mock.Anything, mock.Anything).Return(nil)

	mgr := &iocache.MockCacheManager{}
	mgr.On("GetProjectionStore").Return(store)

	result, err := cachedProjectPathway(context.Background(), cfg, client, mgr, base)
	require.NoError(t, err)
	assert.False(t, result.Engine.FromCache, "Corrupt entries fall back to the engine")
}

func TestCachedProjectPathwayNoStore(t *testing.T) {
	cfg := testConfig()
	base := loadBasePathway(t)
	client := &stubEngineClient{}

	// A nil store disables caching entirely
	mgr := &iocache.MockCacheManager{}
	mgr.On("GetProjectionStore").Return(nil)

	result, err := cachedProjectPathway(context.Background(), cfg, client, mgr, base)
	require.NoError(t, err)
	assert.False(t, result.Engine.FromCache)
}
