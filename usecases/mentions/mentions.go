package mentions

import (
	"context"
	"fmt"
	"log"

	"chainbreak/clients"
	"chainbreak/core"
	"chainbreak/models"
	"chainbreak/usecases"
)

// MentionsUseCase handles username mentions: whoever summons the bot gets
// the chain-breaking reply on their comment.
type MentionsUseCase struct {
	client    clients.RedditClient
	responder usecases.Responder
}

func NewMentionsUseCase(client clients.RedditClient, responder usecases.Responder) *MentionsUseCase {
	return &MentionsUseCase{client: client, responder: responder}
}

// ProcessMentions polls the inbox once and handles every unread mention, in
// the order the feed yields them. Each mention is marked read exactly once,
// whether or not the reply went through - a mention that fails persistently
// must not be retried forever.
func (u *MentionsUseCase) ProcessMentions(ctx context.Context) error {
	mentions, err := u.client.PollMentions(ctx)
	if err != nil {
		return fmt.Errorf("failed to poll mentions: %w", err)
	}

	for _, mention := range mentions {
		if !mention.New {
			continue
		}
		log.Printf("📨 Summoned by u/%s in r/%s", mention.Author, mention.Subreddit)

		if err := u.replyToMention(ctx, mention); err != nil {
			if core.IsNotFoundError(err) {
				log.Printf("🙈 Mentioning comment %s no longer exists, skipping", mention.CommentID)
			} else {
				log.Printf("⚠️ Mention reply failed: %v", err)
			}
		}

		if err := u.client.MarkRead(ctx, mention); err != nil {
			log.Printf("⚠️ Failed to mark mention %s read: %v", mention.MessageFullID, err)
		}
	}

	return nil
}

func (u *MentionsUseCase) replyToMention(ctx context.Context, mention models.Mention) error {
	comment, err := u.client.GetComment(ctx, mention.CommentID)
	if err != nil {
		return fmt.Errorf("failed to resolve mentioning comment %s: %w", mention.CommentID, err)
	}
	return u.responder.Reply(ctx, comment, models.ReplyReasonMention)
}
