package chains

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"chainbreak/clients"
	"chainbreak/models"
	"chainbreak/services"
	"chainbreak/usecases"
)

func newTestComment(id, body, author, parentFullID string) *models.Comment {
	return &models.Comment{
		ID:           id,
		FullID:       "t1_" + id,
		Body:         body,
		Author:       author,
		Subreddit:    "testsub",
		LinkFullID:   "t3_root",
		ParentFullID: parentFullID,
	}
}

func setupChainUseCase(t *testing.T, length int, policy Policy) (*ChainUseCase, *clients.MockRedditClient, *usecases.MockResponder) {
	t.Helper()
	mockClient := new(clients.MockRedditClient)
	mockResponder := new(usecases.MockResponder)
	mockCommunities := new(services.MockCommunitiesService)
	useCase := NewChainUseCase(mockClient, mockResponder, mockCommunities, length, policy)
	return useCase, mockClient, mockResponder
}

func TestClassify(t *testing.T) {
	t.Run("exact-length chain ending at submission root is a chain", func(t *testing.T) {
		// A -> B -> C -> submission, all with identical bodies
		useCase, mockClient, _ := setupChainUseCase(t, 3, PolicyExact)

		commentA := newTestComment("a", "gg", "user1", "t1_b")
		commentB := newTestComment("b", "gg", "user2", "t1_c")
		commentC := newTestComment("c", "gg", "user3", "t3_root")

		mockClient.On("ResolveParent", mock.Anything, commentA).Return(models.CommentParent(commentB), nil)
		mockClient.On("ResolveParent", mock.Anything, commentB).Return(models.CommentParent(commentC), nil)
		mockClient.On("ResolveParent", mock.Anything, commentC).Return(models.SubmissionParent(), nil)

		verdict, err := useCase.Classify(context.Background(), commentA)

		require.NoError(t, err)
		assert.True(t, verdict.IsChain)
		assert.Equal(t, 3, verdict.RunLength)
		mockClient.AssertExpectations(t)
	})

	t.Run("exact-length chain ending at a different body is a chain", func(t *testing.T) {
		useCase, mockClient, _ := setupChainUseCase(t, 3, PolicyExact)

		commentA := newTestComment("a", "gg", "user1", "t1_b")
		commentB := newTestComment("b", "gg", "user2", "t1_c")
		commentC := newTestComment("c", "gg", "user3", "t1_d")
		commentD := newTestComment("d", "something else", "user4", "t3_root")

		mockClient.On("ResolveParent", mock.Anything, commentA).Return(models.CommentParent(commentB), nil)
		mockClient.On("ResolveParent", mock.Anything, commentB).Return(models.CommentParent(commentC), nil)
		mockClient.On("ResolveParent", mock.Anything, commentC).Return(models.CommentParent(commentD), nil)

		verdict, err := useCase.Classify(context.Background(), commentA)

		require.NoError(t, err)
		assert.True(t, verdict.IsChain)
	})

	t.Run("run longer than configured length is not a chain", func(t *testing.T) {
		// The 4th ancestor still matches - only its child may trigger,
		// never this comment.
		useCase, mockClient, _ := setupChainUseCase(t, 3, PolicyExact)

		commentA := newTestComment("a", "gg", "user1", "t1_b")
		commentB := newTestComment("b", "gg", "user2", "t1_c")
		commentC := newTestComment("c", "gg", "user3", "t1_d")
		commentD := newTestComment("d", "gg", "user4", "t3_root")

		mockClient.On("ResolveParent", mock.Anything, commentA).Return(models.CommentParent(commentB), nil)
		mockClient.On("ResolveParent", mock.Anything, commentB).Return(models.CommentParent(commentC), nil)
		mockClient.On("ResolveParent", mock.Anything, commentC).Return(models.CommentParent(commentD), nil)

		verdict, err := useCase.Classify(context.Background(), commentA)

		require.NoError(t, err)
		assert.False(t, verdict.IsChain)
	})

	t.Run("run shorter than configured length is not a chain", func(t *testing.T) {
		useCase, mockClient, _ := setupChainUseCase(t, 3, PolicyExact)

		commentA := newTestComment("a", "gg", "user1", "t1_b")
		commentB := newTestComment("b", "gg", "user2", "t3_root")

		mockClient.On("ResolveParent", mock.Anything, commentA).Return(models.CommentParent(commentB), nil)
		mockClient.On("ResolveParent", mock.Anything, commentB).Return(models.SubmissionParent(), nil)

		verdict, err := useCase.Classify(context.Background(), commentA)

		require.NoError(t, err)
		assert.False(t, verdict.IsChain)
		assert.Equal(t, 2, verdict.RunLength)
	})

	t.Run("body mismatch breaks the run", func(t *testing.T) {
		useCase, mockClient, _ := setupChainUseCase(t, 3, PolicyExact)

		commentA := newTestComment("a", "gg", "user1", "t1_b")
		commentB := newTestComment("b", "GG", "user2", "t1_c")

		mockClient.On("ResolveParent", mock.Anything, commentA).Return(models.CommentParent(commentB), nil)

		verdict, err := useCase.Classify(context.Background(), commentA)

		require.NoError(t, err)
		assert.False(t, verdict.IsChain)
	})

	t.Run("unresolvable parent fails safe to not-a-chain", func(t *testing.T) {
		useCase, mockClient, _ := setupChainUseCase(t, 3, PolicyExact)

		commentA := newTestComment("a", "gg", "user1", "t1_b")

		mockClient.On("ResolveParent", mock.Anything, commentA).Return(models.UnresolvableParent(), nil)

		verdict, err := useCase.Classify(context.Background(), commentA)

		require.NoError(t, err)
		assert.False(t, verdict.IsChain)
	})

	t.Run("unresolvable lookahead fails safe to not-a-chain", func(t *testing.T) {
		useCase, mockClient, _ := setupChainUseCase(t, 2, PolicyExact)

		commentA := newTestComment("a", "gg", "user1", "t1_b")
		commentB := newTestComment("b", "gg", "user2", "t1_c")

		mockClient.On("ResolveParent", mock.Anything, commentA).Return(models.CommentParent(commentB), nil)
		mockClient.On("ResolveParent", mock.Anything, commentB).Return(models.UnresolvableParent(), nil)

		verdict, err := useCase.Classify(context.Background(), commentA)

		require.NoError(t, err)
		assert.False(t, verdict.IsChain)
	})

	t.Run("resolution error fails safe to not-a-chain", func(t *testing.T) {
		useCase, mockClient, _ := setupChainUseCase(t, 3, PolicyExact)

		commentA := newTestComment("a", "gg", "user1", "t1_b")

		mockClient.On("ResolveParent", mock.Anything, commentA).
			Return(models.ParentLink{}, fmt.Errorf("503 service unavailable"))

		verdict, err := useCase.Classify(context.Background(), commentA)

		require.Error(t, err)
		assert.False(t, verdict.IsChain)
	})

	t.Run("at_least policy skips the lookahead", func(t *testing.T) {
		// Same longer-than-L graph that PolicyExact rejects
		useCase, mockClient, _ := setupChainUseCase(t, 3, PolicyAtLeast)

		commentA := newTestComment("a", "gg", "user1", "t1_b")
		commentB := newTestComment("b", "gg", "user2", "t1_c")
		commentC := newTestComment("c", "gg", "user3", "t1_d")

		mockClient.On("ResolveParent", mock.Anything, commentA).Return(models.CommentParent(commentB), nil)
		mockClient.On("ResolveParent", mock.Anything, commentB).Return(models.CommentParent(commentC), nil)

		verdict, err := useCase.Classify(context.Background(), commentA)

		require.NoError(t, err)
		assert.True(t, verdict.IsChain)
		// No fetch beyond the run itself
		mockClient.AssertNumberOfCalls(t, "ResolveParent", 2)
	})

	t.Run("classification is stateless across calls", func(t *testing.T) {
		useCase, mockClient, _ := setupChainUseCase(t, 3, PolicyExact)

		commentA := newTestComment("a", "gg", "user1", "t1_b")
		commentB := newTestComment("b", "gg", "user2", "t1_c")
		commentC := newTestComment("c", "gg", "user3", "t3_root")

		mockClient.On("ResolveParent", mock.Anything, commentA).Return(models.CommentParent(commentB), nil)
		mockClient.On("ResolveParent", mock.Anything, commentB).Return(models.CommentParent(commentC), nil)
		mockClient.On("ResolveParent", mock.Anything, commentC).Return(models.SubmissionParent(), nil)

		first, err := useCase.Classify(context.Background(), commentA)
		require.NoError(t, err)
		second, err := useCase.Classify(context.Background(), commentA)
		require.NoError(t, err)

		assert.Equal(t, first, second)
	})
}

func TestRun(t *testing.T) {
	t.Run("chain verdict triggers exactly one reply", func(t *testing.T) {
		mockClient := new(clients.MockRedditClient)
		mockResponder := new(usecases.MockResponder)
		mockCommunities := new(services.MockCommunitiesService)
		useCase := NewChainUseCase(mockClient, mockResponder, mockCommunities, 2, PolicyExact)

		commentA := newTestComment("a", "gg", "user1", "t1_b")
		commentB := newTestComment("b", "gg", "user2", "t3_root")
		lone := newTestComment("x", "hello", "user3", "t3_root")

		stream := make(chan models.Comment, 2)
		stream <- *commentA
		stream <- *lone
		close(stream)

		mockCommunities.On("TargetNames").Return([]string{"testsub"})
		mockClient.On("StreamComments", mock.Anything, mock.Anything).
			Return((<-chan models.Comment)(stream))
		mockClient.On("ResolveParent", mock.Anything, mock.MatchedBy(func(c *models.Comment) bool {
			return c.ID == "a"
		})).Return(models.CommentParent(commentB), nil)
		mockClient.On("ResolveParent", mock.Anything, mock.MatchedBy(func(c *models.Comment) bool {
			return c.ID == "b"
		})).Return(models.SubmissionParent(), nil)
		mockClient.On("ResolveParent", mock.Anything, mock.MatchedBy(func(c *models.Comment) bool {
			return c.ID == "x"
		})).Return(models.SubmissionParent(), nil)
		mockResponder.On("Reply", mock.Anything, mock.MatchedBy(func(c *models.Comment) bool {
			return c.ID == "a"
		}), models.ReplyReasonChain).Return(nil)

		err := useCase.Run(context.Background())

		require.NoError(t, err)
		mockResponder.AssertNumberOfCalls(t, "Reply", 1)
	})

	t.Run("reply failure does not stop the loop", func(t *testing.T) {
		mockClient := new(clients.MockRedditClient)
		mockResponder := new(usecases.MockResponder)
		mockCommunities := new(services.MockCommunitiesService)
		useCase := NewChainUseCase(mockClient, mockResponder, mockCommunities, 2, PolicyExact)

		commentA := newTestComment("a", "gg", "user1", "t1_b")
		commentB := newTestComment("b", "gg", "user2", "t3_root")

		stream := make(chan models.Comment, 2)
		stream <- *commentA
		stream <- *commentA
		close(stream)

		mockCommunities.On("TargetNames").Return([]string{"testsub"})
		mockClient.On("StreamComments", mock.Anything, mock.Anything).
			Return((<-chan models.Comment)(stream))
		mockClient.On("ResolveParent", mock.Anything, mock.MatchedBy(func(c *models.Comment) bool {
			return c.ID == "a"
		})).Return(models.CommentParent(commentB), nil)
		mockClient.On("ResolveParent", mock.Anything, mock.MatchedBy(func(c *models.Comment) bool {
			return c.ID == "b"
		})).Return(models.SubmissionParent(), nil)
		mockResponder.On("Reply", mock.Anything, mock.Anything, models.ReplyReasonChain).
			Return(fmt.Errorf("rate limited"))

		err := useCase.Run(context.Background())

		require.NoError(t, err)
		mockResponder.AssertNumberOfCalls(t, "Reply", 2)
	})
}

func TestParsePolicy(t *testing.T) {
	t.Run("valid policies", func(t *testing.T) {
		policy, err := ParsePolicy("exact")
		require.NoError(t, err)
		assert.Equal(t, PolicyExact, policy)

		policy, err = ParsePolicy("at_least")
		require.NoError(t, err)
		assert.Equal(t, PolicyAtLeast, policy)
	})

	t.Run("unknown policy rejected", func(t *testing.T) {
		_, err := ParsePolicy("fuzzy")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown chain policy")
	})
}
