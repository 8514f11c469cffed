package txmanager

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockTransactionManager is a mock implementation of services.TransactionManager
type MockTransactionManager struct {
	mock.Mock
}

func (m *MockTransactionManager) WithTransaction(
	ctx context.Context,
	fn func(ctx context.Context) error,
) error {
	args := m.Called(ctx, fn)
	// Execute the function unless the mock is set up to fail the transaction
	if args.Error(0) != nil {
		return args.Error(0)
	}
	return fn(ctx)
}
