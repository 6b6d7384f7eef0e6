// internal/mocks/mocks.go
package mocks

import (
	"context"

	"github.com/damon-houk/nkap/internal/domain/entity"
	"github.com/damon-houk/nkap/internal/infrastructure/logger"
	"github.com/stretchr/testify/mock"
)

// MockRateProvider mocks the RateProvider interface
type MockRateProvider struct {
	mock.Mock
}

func (m *MockRateProvider) FetchRates(ctx context.Context) (entity.RateTable, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(entity.RateTable), args.Error(1)
}

// MockSnapshotBackend mocks the SnapshotBackend interface
type MockSnapshotBackend struct {
	mock.Mock
}

func (m *MockSnapshotBackend) Read(ctx context.Context) ([]byte, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockSnapshotBackend) Write(ctx context.Context, data []byte) error {
	args := m.Called(ctx, data)
	return args.Error(0)
}

func (m *MockSnapshotBackend) Close() error {
	args := m.Called()
	return args.Error(0)
}

// MockLogger mocks the logger interface
type MockLogger struct {
	mock.Mock
}

func (m *MockLogger) Debug(msg string, fields map[string]interface{}) {
	m.Called(msg, fields)
}

func (m *MockLogger) Info(msg string, fields map[string]interface{}) {
	m.Called(msg, fields)
}

func (m *MockLogger) Warn(msg string, fields map[string]interface{}) {
	m.Called(msg, fields)
}

func (m *MockLogger) Error(msg string, fields map[string]interface{}) {
	m.Called(msg, fields)
}

func (m *MockLogger) Fatal(msg string, fields map[string]interface{}) {
	m.Called(msg, fields)
}

func (m *MockLogger) WithField(key string, value interface{}) logger.Logger {
	args := m.Called(key, value)
	return args.Get(0).(logger.Logger)
}

func (m *MockLogger) WithFields(fields map[string]interface{}) logger.Logger {
	args := m.Called(fields)
	return args.Get(0).(logger.Logger)
}
