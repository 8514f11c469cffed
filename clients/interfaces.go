package clients

import (
	"context"

	"chainbreak/models"
)

// RedditClient defines every operation the bot needs from the Reddit API.
// The real implementation lives in clients/reddit; tests use MockRedditClient.
type RedditClient interface {
	// Me returns the username of the authenticated bot account.
	Me(ctx context.Context) (string, error)

	// StreamComments delivers new comments from the subreddits returned by
	// selector, in arrival order, until ctx is cancelled. The selector is
	// re-evaluated on every poll so target changes are picked up without an
	// explicit reconnect. The channel is closed when the stream shuts down.
	StreamComments(ctx context.Context, selector func() []string) <-chan models.Comment

	// ResolveParent fetches the parent of a comment as a tagged ParentLink.
	ResolveParent(ctx context.Context, comment *models.Comment) (models.ParentLink, error)

	// PollMentions returns the unread username mentions from the inbox.
	PollMentions(ctx context.Context) ([]models.Mention, error)

	// MarkRead marks one inbox entry as read.
	MarkRead(ctx context.Context, mention models.Mention) error

	// GetComment fetches a single comment by its bare ID.
	GetComment(ctx context.Context, commentID string) (*models.Comment, error)

	// PostReply posts a reply under the thing identified by parentFullID.
	PostReply(ctx context.Context, parentFullID, text string) error

	// ListOwnRecentComments returns the bot's most recent comments, newest
	// first, capped at limit.
	ListOwnRecentComments(ctx context.Context, username string, limit int) ([]models.Comment, error)

	// DeleteComment removes one of the bot's own comments.
	DeleteComment(ctx context.Context, fullID string) error

	// KarmaBySubreddit returns the bot's comment karma per subreddit.
	KarmaBySubreddit(ctx context.Context) (map[string]int, error)

	// RandomSubreddit returns the name of a random subreddit.
	RandomSubreddit(ctx context.Context) (string, error)
}
