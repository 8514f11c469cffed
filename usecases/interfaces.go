package usecases

import (
	"context"

	"chainbreak/models"
)

// Responder posts the chain-breaking reply. Both the chain detector and the
// mention watcher trigger it; implementations must be safe for concurrent use.
type Responder interface {
	Reply(ctx context.Context, comment *models.Comment, reason models.ReplyReason) error
}
