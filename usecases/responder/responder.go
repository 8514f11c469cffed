package responder

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"strings"

	"github.com/gammazero/workerpool"

	"chainbreak/clients"
	"chainbreak/models"
)

// Messages holds the reply templates and link targets. Templates carry one
// %s verb which receives the chosen link.
type Messages struct {
	Normal        string
	Spoiler       string
	PrimaryLink   string
	AltLink       string
	AltLinkChance float64
}

// ResponderUseCase posts chain-breaking replies. A single-worker pool
// serializes the actual posts, so replies triggered concurrently by the
// chain detector and the mention watcher never race on the API.
type ResponderUseCase struct {
	client      clients.RedditClient
	botUsername string
	messages    Messages
	spoilerSubs map[string]struct{}
	workerPool  *workerpool.WorkerPool
	roll        func() float64
}

func NewResponderUseCase(
	client clients.RedditClient,
	botUsername string,
	messages Messages,
	spoilerSubreddits []string,
) *ResponderUseCase {
	spoilerSubs := make(map[string]struct{}, len(spoilerSubreddits))
	for _, name := range spoilerSubreddits {
		spoilerSubs[strings.ToLower(name)] = struct{}{}
	}
	return &ResponderUseCase{
		client:      client,
		botUsername: botUsername,
		messages:    messages,
		spoilerSubs: spoilerSubs,
		workerPool:  workerpool.New(1), // Sequential posting
		roll:        rand.Float64,
	}
}

// Reply posts the configured message under comment. It is a logged no-op
// when the comment was authored by the bot itself; replying to our own
// replies would loop forever.
func (u *ResponderUseCase) Reply(
	ctx context.Context,
	comment *models.Comment,
	reason models.ReplyReason,
) error {
	if strings.EqualFold(comment.Author, u.botUsername) {
		log.Printf("🙈 Skipping reply to own comment %s (reason: %s)", comment.FullID, reason)
		return nil
	}

	text := u.selectMessage(comment.Subreddit)

	var postErr error
	u.workerPool.SubmitWait(func() {
		postErr = u.client.PostReply(ctx, comment.FullID, text)
	})
	if postErr != nil {
		return fmt.Errorf("failed to reply to %s (reason: %s): %w", comment.FullID, reason, postErr)
	}

	log.Printf("💬 Replied to comment %s in r/%s (reason: %s)", comment.FullID, comment.Subreddit, reason)
	return nil
}

// Stop drains the posting queue. Called once during shutdown.
func (u *ResponderUseCase) Stop() {
	u.workerPool.StopWait()
}

// selectMessage picks the template by subreddit sensitivity and the link by
// weighted random selection.
func (u *ResponderUseCase) selectMessage(subreddit string) string {
	template := u.messages.Normal
	if _, ok := u.spoilerSubs[strings.ToLower(subreddit)]; ok {
		template = u.messages.Spoiler
	}

	link := u.messages.PrimaryLink
	if u.roll() < u.messages.AltLinkChance {
		link = u.messages.AltLink
	}

	return fmt.Sprintf(template, link)
}
