package clients

import (
	"context"

	"github.com/stretchr/testify/mock"

	"chainbreak/models"
)

// MockRedditClient is a mock implementation of RedditClient
type MockRedditClient struct {
	mock.Mock
}

func (m *MockRedditClient) Me(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

func (m *MockRedditClient) StreamComments(
	ctx context.Context,
	selector func() []string,
) <-chan models.Comment {
	args := m.Called(ctx, selector)
	return args.Get(0).(<-chan models.Comment)
}

func (m *MockRedditClient) ResolveParent(
	ctx context.Context,
	comment *models.Comment,
) (models.ParentLink, error) {
	args := m.Called(ctx, comment)
	return args.Get(0).(models.ParentLink), args.Error(1)
}

func (m *MockRedditClient) PollMentions(ctx context.Context) ([]models.Mention, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Mention), args.Error(1)
}

func (m *MockRedditClient) MarkRead(ctx context.Context, mention models.Mention) error {
	args := m.Called(ctx, mention)
	return args.Error(0)
}

func (m *MockRedditClient) GetComment(ctx context.Context, commentID string) (*models.Comment, error) {
	args := m.Called(ctx, commentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Comment), args.Error(1)
}

func (m *MockRedditClient) PostReply(ctx context.Context, parentFullID, text string) error {
	args := m.Called(ctx, parentFullID, text)
	return args.Error(0)
}

func (m *MockRedditClient) ListOwnRecentComments(
	ctx context.Context,
	username string,
	limit int,
) ([]models.Comment, error) {
	args := m.Called(ctx, username, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Comment), args.Error(1)
}

func (m *MockRedditClient) DeleteComment(ctx context.Context, fullID string) error {
	args := m.Called(ctx, fullID)
	return args.Error(0)
}

func (m *MockRedditClient) KarmaBySubreddit(ctx context.Context) (map[string]int, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]int), args.Error(1)
}

func (m *MockRedditClient) RandomSubreddit(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}
