package discovery

import (
	"context"
	"fmt"
	"log"

	"chainbreak/clients"
	"chainbreak/models"
	"chainbreak/services"
)

// maxRandomAttempts bounds the hunt for a usable random subreddit per pass.
const maxRandomAttempts = 10

// DiscoveryUseCase evolves the target set: subreddits where the bot's
// replies earn negative karma are retired, and occasionally a random new
// subreddit is tried out. All set changes from one pass are persisted in a
// single transaction.
type DiscoveryUseCase struct {
	client      clients.RedditClient
	communities services.CommunitiesService
	txManager   services.TransactionManager
}

func NewDiscoveryUseCase(
	client clients.RedditClient,
	communities services.CommunitiesService,
	txManager services.TransactionManager,
) *DiscoveryUseCase {
	return &DiscoveryUseCase{
		client:      client,
		communities: communities,
		txManager:   txManager,
	}
}

// Discover runs one prune-and-expand pass over the target set.
func (u *DiscoveryUseCase) Discover(ctx context.Context) error {
	log.Printf("🧭 Starting community discovery pass")

	karma, err := u.client.KarmaBySubreddit(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch karma breakdown: %w", err)
	}

	snapshot := u.communities.Snapshot()

	return u.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		// Retire targets where the community clearly disagrees with us.
		// A subreddit with no karma entry yet has not voted either way.
		pruned := 0
		for _, name := range snapshot.Targets {
			score, ok := karma[name]
			if !ok || score >= 1 {
				continue
			}
			if err := u.communities.MarkIgnored(txCtx, name); err != nil {
				return fmt.Errorf("failed to retire community %s: %w", name, err)
			}
			pruned++
		}

		candidate, err := u.pickRandomCandidate(txCtx, snapshot)
		if err != nil {
			return err
		}
		if candidate == "" {
			log.Printf("⚠️ No usable random subreddit found after %d attempts", maxRandomAttempts)
			log.Printf("🧭 Discovery pass complete - retired %d, added none", pruned)
			return nil
		}

		if err := u.communities.AddTarget(txCtx, candidate); err != nil {
			return fmt.Errorf("failed to add target community %s: %w", candidate, err)
		}

		log.Printf("🧭 Discovery pass complete - retired %d, added r/%s", pruned, candidate)
		return nil
	})
}

// pickRandomCandidate asks for random subreddits until one comes back that
// the bot is neither banned from, has ignored, nor already targets.
func (u *DiscoveryUseCase) pickRandomCandidate(
	ctx context.Context,
	snapshot models.CommunitySnapshot,
) (string, error) {
	for attempt := 0; attempt < maxRandomAttempts; attempt++ {
		name, err := u.client.RandomSubreddit(ctx)
		if err != nil {
			return "", fmt.Errorf("failed to fetch random subreddit: %w", err)
		}
		log.Printf("🎲 Got random subreddit candidate: r/%s", name)
		if !snapshot.HasBanned(name) && !snapshot.HasIgnored(name) && !snapshot.HasTarget(name) {
			return name, nil
		}
	}
	return "", nil
}
