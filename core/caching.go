package core

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/scendiff/scendiff/internal/contract"
	"github.com/scendiff/scendiff/schema"
)

// currentCacheVersion defines the version of the cache entry schema.
// Bumped when the key derivation changes so stale entries never match.
const currentCacheVersion = 2

// cachedProjectPathway serves a projection from the cache when an identical
// configuration was projected before, falling back to a live engine run.
func cachedProjectPathway(ctx context.Context, cfg *contract.Config, client contract.EngineClient, mgr contract.CacheManager, src pathwaySource) (*schema.ProjectionResult, error) {
	store := mgr.GetProjectionStore()
	if store == nil {
		// Fallback to direct computation
		return projectPathway(ctx, cfg, client, src)
	}

	key := generateCacheKey(cfg, src)

	// Check for cache hit
	if result := checkCacheHit(store, key); result != nil {
		return result, nil
	}

	// Cache miss: compute and store
	return computeAndStore(ctx, cfg, client, src, store, key)
}

// checkCacheHit attempts to retrieve and deserialize a cached projection
func checkCacheHit(store contract.CacheStore, key string) *schema.ProjectionResult {
	data, ok, err := store.Get(key)
	if err != nil || !ok {
		return nil // Cache miss
	}

	var result schema.ProjectionResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil // Cache miss (corrupt entry)
	}

	result.Engine.FromCache = true
	result.Engine.Elapsed = 0
	return &result
}

// computeAndStore runs the engine and stores the result in cache
func computeAndStore(ctx context.Context, cfg *contract.Config, client contract.EngineClient, src pathwaySource, store contract.CacheStore, key string) (*schema.ProjectionResult, error) {
	result, err := projectPathway(ctx, cfg, client, src)
	if err != nil {
		return nil, err
	}

	// Store in cache
	if data, err := json.Marshal(result); err == nil {
		_ = store.Set(key, data)
	}

	return result, nil
}

// generateCacheKey creates a unique key based on everything that determines
// an engine run: pathway identity (scenario plus exact perturbation
// parameters), engine command, timestep and the requested variable set.
// Uses CacheKey rather than the display Label, whose rounded rendering
// would collide perturbations that differ below its precision.
func generateCacheKey(cfg *contract.Config, src pathwaySource) string {
	vars := make([]string, len(cfg.Variables))
	for i, v := range cfg.Variables {
		vars[i] = string(v)
	}

	key := fmt.Sprintf("%d:%s:%s:%g:%s",
		currentCacheVersion,
		src.CacheKey(),
		cfg.EngineCommand,
		engineTimestep,
		strings.Join(vars, ","),
	)
	return fmt.Sprintf("%x", sha256.Sum256([]byte(key)))
}
