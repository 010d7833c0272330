// Package iocache persists commit logs and extracted datasets across runs.
package iocache

import (
	"sync"

	"github.com/huangsam/proneness/internal/contract"
)

// StoreManager manages the commit cache and dataset store instances.
type StoreManager struct {
	sync.RWMutex // Protects the store pointers during initialization
	commits      contract.CommitCacheStore
	datasets     contract.DataSetStore
}

var _ contract.CacheManager = &StoreManager{} // Compile-time check

// GetCommitStore returns the commit CommitCacheStore.
func (mgr *StoreManager) GetCommitStore() contract.CommitCacheStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.commits
}

// GetDataSetStore returns the DataSetStore.
func (mgr *StoreManager) GetDataSetStore() contract.DataSetStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.datasets
}
