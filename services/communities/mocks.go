package communities

import (
	"context"

	"github.com/samber/mo"
	"github.com/stretchr/testify/mock"

	"chainbreak/models"
)

// MockCommunitiesRepository is a mock implementation of CommunitiesRepository
type MockCommunitiesRepository struct {
	mock.Mock
}

func (m *MockCommunitiesRepository) UpsertCommunity(
	ctx context.Context,
	community *models.Community,
) error {
	args := m.Called(ctx, community)
	return args.Error(0)
}

func (m *MockCommunitiesRepository) GetCommunityByName(
	ctx context.Context,
	name string,
) (mo.Option[*models.Community], error) {
	args := m.Called(ctx, name)
	return args.Get(0).(mo.Option[*models.Community]), args.Error(1)
}

func (m *MockCommunitiesRepository) ListCommunitiesByKind(
	ctx context.Context,
	kind models.CommunityKind,
) ([]*models.Community, error) {
	args := m.Called(ctx, kind)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Community), args.Error(1)
}
