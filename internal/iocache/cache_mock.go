package iocache

import (
	"time"

	"github.com/scendiff/scendiff/internal/contract"
	"github.com/scendiff/scendiff/schema"
	"github.com/stretchr/testify/mock"
)

// MockCacheManager is a mock implementation of CacheManager for testing.
type MockCacheManager struct {
	mock.Mock
}

var _ contract.CacheManager = &MockCacheManager{} // Compile-time check

// GetProjectionStore implements the CacheManager interface.
func (m *MockCacheManager) GetProjectionStore() contract.CacheStore {
	ret := m.Called()
	store, _ := ret.Get(0).(contract.CacheStore)
	return store
}

// GetRunStore implements the CacheManager interface.
func (m *MockCacheManager) GetRunStore() contract.RunStore {
	ret := m.Called()
	store, _ := ret.Get(0).(contract.RunStore)
	return store
}

// MockCacheStore is a mock implementation of CacheStore for testing.
type MockCacheStore struct {
	mock.Mock
}

var _ contract.CacheStore = &MockCacheStore{} // Compile-time check

// Get implements the CacheStore interface.
func (m *MockCacheStore) Get(key string) ([]byte, bool, error) {
	args := m.Called(key)
	data, _ := args.Get(0).([]byte)
	return data, args.Bool(1), args.Error(2)
}

// Set implements the CacheStore interface.
func (m *MockCacheStore) Set(key string, data []byte) error {
	args := m.Called(key, data)
	return args.Error(0)
}

// Close implements the CacheStore interface.
func (m *MockCacheStore) Close() error {
	args := m.Called()
	return args.Error(0)
}

// GetStatus implements the CacheStore interface.
func (m *MockCacheStore) GetStatus() (schema.CacheStatus, error) {
	args := m.Called()
	return args.Get(0).(schema.CacheStatus), args.Error(1)
}

// MockRunStore is a mock implementation of RunStore for testing.
type MockRunStore struct {
	mock.Mock
}

var _ contract.RunStore = &MockRunStore{} // Compile-time check

// BeginRun implements the RunStore interface.
func (m *MockRunStore) BeginRun(rec schema.RunRecord) (int64, error) {
	args := m.Called(rec)
	return args.Get(0).(int64), args.Error(1)
}

// FinishRun implements the RunStore interface.
func (m *MockRunStore) FinishRun(runID int64, outcome schema.RunOutcome, errMsg string, finishedAt time.Time, maxAbsDelta float64) error {
	args := m.Called(runID, outcome, errMsg, finishedAt, maxAbsDelta)
	return args.Error(0)
}

// RecordDeltas implements the RunStore interface.
func (m *MockRunStore) RecordDeltas(runID int64, deltas []schema.DeltaRecord) error {
	args := m.Called(runID, deltas)
	return args.Error(0)
}

// GetStatus implements the RunStore interface.
func (m *MockRunStore) GetStatus() (schema.RunStoreStatus, error) {
	args := m.Called()
	return args.Get(0).(schema.RunStoreStatus), args.Error(1)
}

// GetAllRuns implements the RunStore interface.
func (m *MockRunStore) GetAllRuns() ([]schema.RunRecord, error) {
	args := m.Called()
	runs, _ := args.Get(0).([]schema.RunRecord)
	return runs, args.Error(1)
}

// GetAllDeltas implements the RunStore interface.
func (m *MockRunStore) GetAllDeltas() ([]schema.DeltaRecord, error) {
	args := m.Called()
	deltas, _ := args.Get(0).([]schema.DeltaRecord)
	return deltas, args.Error(1)
}

// Close implements the RunStore interface.
func (m *MockRunStore) Close() error {
	args := m.Called()
	return args.Error(0)
}
