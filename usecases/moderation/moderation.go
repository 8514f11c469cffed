package moderation

import (
	"context"
	"fmt"
	"log"

	"chainbreak/clients"
	"chainbreak/core"
)

// ModerationUseCase cleans up after the bot: replies the community voted
// below the score floor get deleted.
type ModerationUseCase struct {
	client       clients.RedditClient
	botUsername  string
	scoreFloor   int
	recencyLimit int
}

func NewModerationUseCase(
	client clients.RedditClient,
	botUsername string,
	scoreFloor int,
	recencyLimit int,
) *ModerationUseCase {
	return &ModerationUseCase{
		client:       client,
		botUsername:  botUsername,
		scoreFloor:   scoreFloor,
		recencyLimit: recencyLimit,
	}
}

// Sweep reviews the bot's most recent replies once and deletes any whose
// score fell below the floor. The sweep is idempotent: a window with
// nothing below the floor is a no-op, and items that fail to delete stay in
// the window for the next sweep until they age out.
func (u *ModerationUseCase) Sweep(ctx context.Context) error {
	sweepID := core.NewID("sw")
	log.Printf("🧹 [%s] Starting self-moderation sweep (floor: %d)", sweepID, u.scoreFloor)

	comments, err := u.client.ListOwnRecentComments(ctx, u.botUsername, u.recencyLimit)
	if err != nil {
		return fmt.Errorf("failed to list own recent comments: %w", err)
	}

	deleted := 0
	for _, comment := range comments {
		if comment.Score >= u.scoreFloor {
			continue
		}
		if err := u.client.DeleteComment(ctx, comment.FullID); err != nil {
			log.Printf("⚠️ [%s] Failed to delete comment %s (score %d): %v",
				sweepID, comment.FullID, comment.Score, err)
			continue
		}
		deleted++
		log.Printf("🗑️ [%s] Deleted comment %s in r/%s (score %d)",
			sweepID, comment.FullID, comment.Subreddit, comment.Score)
	}

	log.Printf("🧹 [%s] Sweep complete - reviewed %d, deleted %d", sweepID, len(comments), deleted)
	return nil
}
