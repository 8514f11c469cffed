package services

import (
	"context"

	"github.com/stretchr/testify/mock"

	"chainbreak/models"
)

// MockCommunitiesService is a mock implementation of CommunitiesService
type MockCommunitiesService struct {
	mock.Mock
}

func (m *MockCommunitiesService) Load(ctx context.Context, defaultTargets []string) error {
	args := m.Called(ctx, defaultTargets)
	return args.Error(0)
}

func (m *MockCommunitiesService) Snapshot() models.CommunitySnapshot {
	args := m.Called()
	return args.Get(0).(models.CommunitySnapshot)
}

func (m *MockCommunitiesService) TargetNames() []string {
	args := m.Called()
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]string)
}

func (m *MockCommunitiesService) AddTarget(ctx context.Context, name string) error {
	args := m.Called(ctx, name)
	return args.Error(0)
}

func (m *MockCommunitiesService) MarkIgnored(ctx context.Context, name string) error {
	args := m.Called(ctx, name)
	return args.Error(0)
}
