// Package iocache is for durable storage of projections and run history.
package iocache

import (
	"sync"

	"github.com/scendiff/scendiff/internal/contract"
)

// CacheStoreManager manages the projection cache and the run history store.
type CacheStoreManager struct {
	sync.RWMutex // Protects the store pointers during initialization
	projection   contract.CacheStore
	runs         contract.RunStore
}

var _ contract.CacheManager = &CacheStoreManager{} // Compile-time check

// GetProjectionStore returns the projection CacheStore.
func (mgr *CacheStoreManager) GetProjectionStore() contract.CacheStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.projection
}

// GetRunStore returns the run history RunStore.
func (mgr *CacheStoreManager) GetRunStore() contract.RunStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.runs
}
