package mocks

import (
	"github.com/stretchr/testify/mock"
)

// MockJobQueue is a mock implementation of jobs.JobQueue
type MockJobQueue struct {
	mock.Mock
}

func (m *MockJobQueue) EnqueueIngest(sourceID string, sourceType string, data []byte) error {
	args := m.Called(sourceID, sourceType, data)
	return args.Error(0)
}
