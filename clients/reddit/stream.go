package reddit

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/url"
	"strings"
	"time"

	"chainbreak/models"
)

const (
	// streamBuffer bounds the hand-off channel. When the consumer falls
	// behind, the poller blocks rather than dropping comments.
	streamBuffer = 128

	// seenWindowSize bounds the duplicate-suppression memory. Each poll
	// returns at most 100 items, so remembering a few polls' worth is enough
	// for at-most-once delivery per connection.
	seenWindowSize = 1000

	streamPollInterval = 2 * time.Second
	streamBackoffBase  = time.Second
	streamBackoffCeil  = time.Minute
)

// StreamComments delivers new comments from the subreddits returned by
// selector until ctx is cancelled. The feed is reconstructed on every poll,
// so an updated target set takes effect on the next pass. Errors are logged
// and retried with exponential backoff; the stream never terminates on its
// own.
func (c *RedditClient) StreamComments(
	ctx context.Context,
	selector func() []string,
) <-chan models.Comment {
	out := make(chan models.Comment, streamBuffer)

	go func() {
		defer close(out)

		seen := newSeenWindow(seenWindowSize)
		backoff := streamBackoffBase

		for {
			subreddits := selector()
			if len(subreddits) == 0 {
				log.Printf("⚠️ Comment stream has no target subreddits, waiting")
				if !sleepCtx(ctx, streamPollInterval) {
					return
				}
				continue
			}

			comments, err := c.fetchNewComments(ctx, subreddits)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				log.Printf("⚠️ Comment stream poll failed, retrying in %v: %v", backoff, err)
				if !sleepCtx(ctx, backoff) {
					return
				}
				backoff = minDuration(backoff*2, streamBackoffCeil)
				continue
			}
			backoff = streamBackoffBase

			// The API returns newest first; deliver oldest first.
			for i := len(comments) - 1; i >= 0; i-- {
				comment := comments[i]
				if seen.mark(comment.FullID) {
					continue
				}
				select {
				case out <- comment:
				case <-ctx.Done():
					return
				}
			}

			if !sleepCtx(ctx, streamPollInterval) {
				return
			}
		}
	}()

	return out
}

func (c *RedditClient) fetchNewComments(
	ctx context.Context,
	subreddits []string,
) ([]models.Comment, error) {
	var envelope thing
	query := url.Values{"limit": {"100"}}
	path := fmt.Sprintf("/r/%s/comments", strings.Join(subreddits, "+"))
	if err := c.getJSON(ctx, path, query, &envelope); err != nil {
		return nil, err
	}

	var listing listingData
	if err := json.Unmarshal(envelope.Data, &listing); err != nil {
		return nil, fmt.Errorf("failed to decode comment stream listing: %w", err)
	}

	var comments []models.Comment
	for _, child := range listing.Children {
		if child.Kind != "t1" {
			continue
		}
		var data commentData
		if err := json.Unmarshal(child.Data, &data); err != nil {
			return nil, fmt.Errorf("failed to decode streamed comment: %w", err)
		}
		comments = append(comments, data.toModel())
	}
	return comments, nil
}

// seenWindow remembers the last capacity IDs in insertion order.
type seenWindow struct {
	capacity int
	order    []string
	ids      map[string]struct{}
}

func newSeenWindow(capacity int) *seenWindow {
	return &seenWindow{
		capacity: capacity,
		ids:      make(map[string]struct{}, capacity),
	}
}

// mark records id and reports whether it was already present.
func (w *seenWindow) mark(id string) bool {
	if _, ok := w.ids[id]; ok {
		return true
	}
	w.ids[id] = struct{}{}
	w.order = append(w.order, id)
	if len(w.order) > w.capacity {
		oldest := w.order[0]
		w.order = w.order[1:]
		delete(w.ids, oldest)
	}
	return false
}

func sleepCtx(ctx context.Context, d time.Duration) bool {
	select {
	case <-ctx.Done():
		return false
	case <-time.After(d):
		return true
	}
}

func minDuration(a, b time.Duration) time.Duration {
	if a < b {
		return a
	}
	return b
}
