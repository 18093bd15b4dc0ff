package runstore

import (
	"time"

	"github.com/huangsam/aurora/internal/contract"
	"github.com/huangsam/aurora/schema"
	"github.com/stretchr/testify/mock"
)

// MockRunManager is a mock implementation of RunManager for testing.
type MockRunManager struct {
	mock.Mock
}

var _ contract.RunManager = &MockRunManager{} // Compile-time check

// GetRunStore implements the RunManager interface.
func (m *MockRunManager) GetRunStore() contract.RunStore {
	ret := m.Called()
	store, _ := ret.Get(0).(contract.RunStore)
	return store
}

// MockRunStore is a mock implementation of RunStore for testing.
type MockRunStore struct {
	mock.Mock
}

var _ contract.RunStore = &MockRunStore{} // Compile-time check

// BeginRun implements the RunStore interface.
func (m *MockRunStore) BeginRun(runID string, startTime time.Time, target, dataPath string, configParams map[string]any) error {
	args := m.Called(runID, startTime, target, dataPath, configParams)
	return args.Error(0)
}

// EndRun implements the RunStore interface.
func (m *MockRunStore) EndRun(runID string, endTime time.Time, retrieved, skipped int) error {
	args := m.Called(runID, endTime, retrieved, skipped)
	return args.Error(0)
}

// RecordLineResult implements the RunStore interface.
func (m *MockRunStore) RecordLineResult(runID string, rec *schema.ResultRecord) error {
	args := m.Called(runID, rec)
	return args.Error(0)
}

// GetStatus implements the RunStore interface.
func (m *MockRunStore) GetStatus() (schema.RunStoreStatus, error) {
	args := m.Called()
	return args.Get(0).(schema.RunStoreStatus), args.Error(1)
}

// GetAllRuns implements the RunStore interface.
func (m *MockRunStore) GetAllRuns() ([]schema.RetrievalRunRecord, error) {
	args := m.Called()
	runs, _ := args.Get(0).([]schema.RetrievalRunRecord)
	return runs, args.Error(1)
}

// GetAllLineResults implements the RunStore interface.
func (m *MockRunStore) GetAllLineResults() ([]schema.LineResultRecord, error) {
	args := m.Called()
	lines, _ := args.Get(0).([]schema.LineResultRecord)
	return lines, args.Error(1)
}

// GetLineHistory implements the RunStore interface.
func (m *MockRunStore) GetLineHistory(lineID schema.LineID, limit int) ([]schema.LineResultRecord, error) {
	args := m.Called(lineID, limit)
	lines, _ := args.Get(0).([]schema.LineResultRecord)
	return lines, args.Error(1)
}

// Close implements the RunStore interface.
func (m *MockRunStore) Close() error {
	args := m.Called()
	return args.Error(0)
}
