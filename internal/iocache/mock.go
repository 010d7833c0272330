package iocache

import (
	"time"

	"github.com/huangsam/proneness/core/attrs"
	"github.com/huangsam/proneness/internal/contract"
	"github.com/huangsam/proneness/schema"
	"github.com/stretchr/testify/mock"
)

// MockCacheManager is a mock implementation of CacheManager for testing.
type MockCacheManager struct {
	mock.Mock
}

var _ contract.CacheManager = &MockCacheManager{} // Compile-time check

// GetCommitStore implements the CacheManager interface.
func (m *MockCacheManager) GetCommitStore() contract.CommitCacheStore {
	ret := m.Called()
	store, _ := ret.Get(0).(contract.CommitCacheStore)
	return store
}

// GetDataSetStore implements the CacheManager interface.
func (m *MockCacheManager) GetDataSetStore() contract.DataSetStore {
	ret := m.Called()
	store, _ := ret.Get(0).(contract.DataSetStore)
	return store
}

// MockCommitCacheStore is a mock implementation of CommitCacheStore for testing.
type MockCommitCacheStore struct {
	mock.Mock
}

var _ contract.CommitCacheStore = &MockCommitCacheStore{} // Compile-time check

// Get implements the CommitCacheStore interface.
func (m *MockCommitCacheStore) Get(key string) ([]byte, int, int64, error) {
	args := m.Called(key)
	data, _ := args.Get(0).([]byte)
	ts, _ := args.Get(2).(int64)
	return data, args.Int(1), ts, args.Error(3)
}

// Set implements the CommitCacheStore interface.
func (m *MockCommitCacheStore) Set(key string, data []byte, version int, ts int64) error {
	args := m.Called(key, data, version, ts)
	return args.Error(0)
}

// GetStatus implements the CommitCacheStore interface.
func (m *MockCommitCacheStore) GetStatus() (schema.CacheStatus, error) {
	args := m.Called()
	status, _ := args.Get(0).(schema.CacheStatus)
	return status, args.Error(1)
}

// Clear implements the CommitCacheStore interface.
func (m *MockCommitCacheStore) Clear() error {
	return m.Called().Error(0)
}

// Close implements the CommitCacheStore interface.
func (m *MockCommitCacheStore) Close() error {
	return m.Called().Error(0)
}

// MockDataSetStore is a mock implementation of DataSetStore for testing.
type MockDataSetStore struct {
	mock.Mock
}

var _ contract.DataSetStore = &MockDataSetStore{} // Compile-time check

// BeginRun implements the DataSetStore interface.
func (m *MockDataSetStore) BeginRun(startTime time.Time, repoPath string, builder schema.BuilderKind, params map[string]any) (string, error) {
	args := m.Called(startTime, repoPath, builder, params)
	return args.String(0), args.Error(1)
}

// RecordTable implements the DataSetStore interface.
func (m *MockDataSetStore) RecordTable(runID string, table *attrs.Table) error {
	return m.Called(runID, table).Error(0)
}

// EndRun implements the DataSetStore interface.
func (m *MockDataSetStore) EndRun(runID string, endTime time.Time, numRows, numColumns int, classColumn string) error {
	return m.Called(runID, endTime, numRows, numColumns, classColumn).Error(0)
}

// ListRuns implements the DataSetStore interface.
func (m *MockDataSetStore) ListRuns(limit int) ([]schema.RunRecord, error) {
	args := m.Called(limit)
	runs, _ := args.Get(0).([]schema.RunRecord)
	return runs, args.Error(1)
}

// LoadTable implements the DataSetStore interface.
func (m *MockDataSetStore) LoadTable(runID string) (*attrs.Table, error) {
	args := m.Called(runID)
	table, _ := args.Get(0).(*attrs.Table)
	return table, args.Error(1)
}

// GetStatus implements the DataSetStore interface.
func (m *MockDataSetStore) GetStatus() (schema.DataSetStatus, error) {
	args := m.Called()
	status, _ := args.Get(0).(schema.DataSetStatus)
	return status, args.Error(1)
}

// Clear implements the DataSetStore interface.
func (m *MockDataSetStore) Clear() error {
	return m.Called().Error(0)
}

// Close implements the DataSetStore interface.
func (m *MockDataSetStore) Close() error {
	return m.Called().Error(0)
}
