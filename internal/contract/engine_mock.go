package contract

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockEngineClient is a mock implementation of EngineClient for testing.
type MockEngineClient struct {
	mock.Mock
}

var _ EngineClient = &MockEngineClient{} // Compile-time check

// Invoke implements the EngineClient interface.
func (m *MockEngineClient) Invoke(ctx context.Context, req EngineRequest) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}
