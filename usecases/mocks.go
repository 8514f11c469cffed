package usecases

import (
	"context"

	"github.com/stretchr/testify/mock"

	"chainbreak/models"
)

// MockResponder is a mock implementation of Responder
type MockResponder struct {
	mock.Mock
}

func (m *MockResponder) Reply(
	ctx context.Context,
	comment *models.Comment,
	reason models.ReplyReason,
) error {
	args := m.Called(ctx, comment, reason)
	return args.Error(0)
}
