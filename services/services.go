package services

import (
	"context"

	"chainbreak/models"
)

// CommunitiesService owns the mutable target/ignored/banned community sets.
// It is the single writer; every other component reads immutable snapshots.
type CommunitiesService interface {
	// Load populates the sets from the store, falling back to the provided
	// defaults when the store has no targets yet.
	Load(ctx context.Context, defaultTargets []string) error

	// Snapshot returns an immutable copy of all three sets.
	Snapshot() models.CommunitySnapshot

	// TargetNames returns just the current target set. Safe to call from
	// the stream selector on every poll.
	TargetNames() []string

	// AddTarget adds a subreddit to the target set and persists it.
	AddTarget(ctx context.Context, name string) error

	// MarkIgnored moves a subreddit from targets to the ignored set and
	// persists the move.
	MarkIgnored(ctx context.Context, name string) error
}

// TransactionManager handles database transactions across repositories.
type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
