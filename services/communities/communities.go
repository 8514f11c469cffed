package communities

import (
	"context"
	"fmt"
	"log"
	"sort"
	"sync"

	"github.com/samber/mo"

	"chainbreak/core"
	"chainbreak/models"
)

// CommunitiesRepository defines the persistence operations the service needs.
// Implemented by db.PostgresCommunitiesRepository.
type CommunitiesRepository interface {
	UpsertCommunity(ctx context.Context, community *models.Community) error
	GetCommunityByName(ctx context.Context, name string) (mo.Option[*models.Community], error)
	ListCommunitiesByKind(ctx context.Context, kind models.CommunityKind) ([]*models.Community, error)
}

// CommunitiesService is the single owner of the mutable community sets.
// Readers get copies via Snapshot/TargetNames; all mutation happens here
// under one mutex, and every mutation is persisted before it is visible.
type CommunitiesService struct {
	repo CommunitiesRepository

	mu      sync.RWMutex
	targets map[string]struct{}
	ignored map[string]struct{}
	banned  map[string]struct{}
}

func NewCommunitiesService(repo CommunitiesRepository) *CommunitiesService {
	return &CommunitiesService{
		repo:    repo,
		targets: make(map[string]struct{}),
		ignored: make(map[string]struct{}),
		banned:  make(map[string]struct{}),
	}
}

// Load populates the sets from the store. When the store holds no targets
// yet (first run), the configured defaults are persisted and used.
func (s *CommunitiesService) Load(ctx context.Context, defaultTargets []string) error {
	log.Printf("📋 Starting to load community sets")

	kinds := map[models.CommunityKind]map[string]struct{}{
		models.CommunityKindTarget:  {},
		models.CommunityKindIgnored: {},
		models.CommunityKindBanned:  {},
	}
	for kind, set := range kinds {
		stored, err := s.repo.ListCommunitiesByKind(ctx, kind)
		if err != nil {
			return fmt.Errorf("failed to load %s communities: %w", kind, err)
		}
		for _, community := range stored {
			set[community.Name] = struct{}{}
		}
	}

	if len(kinds[models.CommunityKindTarget]) == 0 {
		log.Printf("⚠️ No stored target communities, seeding %d defaults", len(defaultTargets))
		for _, name := range defaultTargets {
			community := &models.Community{
				ID:   core.NewID("comm"),
				Name: name,
				Kind: models.CommunityKindTarget,
			}
			if err := s.repo.UpsertCommunity(ctx, community); err != nil {
				return fmt.Errorf("failed to seed default target %s: %w", name, err)
			}
			kinds[models.CommunityKindTarget][name] = struct{}{}
		}
	}

	s.mu.Lock()
	s.targets = kinds[models.CommunityKindTarget]
	s.ignored = kinds[models.CommunityKindIgnored]
	s.banned = kinds[models.CommunityKindBanned]
	s.mu.Unlock()

	log.Printf("📋 Completed successfully - loaded %d targets, %d ignored, %d banned",
		len(kinds[models.CommunityKindTarget]),
		len(kinds[models.CommunityKindIgnored]),
		len(kinds[models.CommunityKindBanned]))
	return nil
}

// Snapshot returns an immutable copy of all three sets.
func (s *CommunitiesService) Snapshot() models.CommunitySnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return models.CommunitySnapshot{
		Targets: sortedNames(s.targets),
		Ignored: sortedNames(s.ignored),
		Banned:  sortedNames(s.banned),
	}
}

// TargetNames returns the current target set, sorted.
func (s *CommunitiesService) TargetNames() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return sortedNames(s.targets)
}

// AddTarget adds a subreddit to the target set and persists it.
func (s *CommunitiesService) AddTarget(ctx context.Context, name string) error {
	log.Printf("📋 Starting to add target community: %s", name)
	if name == "" {
		return fmt.Errorf("community name must not be empty")
	}

	community := &models.Community{
		ID:   core.NewID("comm"),
		Name: name,
		Kind: models.CommunityKindTarget,
	}
	if err := s.repo.UpsertCommunity(ctx, community); err != nil {
		return fmt.Errorf("failed to persist target community: %w", err)
	}

	s.mu.Lock()
	s.targets[name] = struct{}{}
	delete(s.ignored, name)
	s.mu.Unlock()

	log.Printf("📋 Completed successfully - added target community: %s", name)
	return nil
}

// MarkIgnored moves a subreddit from the target set to the ignored set.
// Ignored communities are never re-targeted by discovery.
func (s *CommunitiesService) MarkIgnored(ctx context.Context, name string) error {
	log.Printf("📋 Starting to mark community ignored: %s", name)
	if name == "" {
		return fmt.Errorf("community name must not be empty")
	}

	maybeExisting, err := s.repo.GetCommunityByName(ctx, name)
	if err != nil {
		return fmt.Errorf("failed to look up community: %w", err)
	}

	community := &models.Community{
		ID:   core.NewID("comm"),
		Name: name,
		Kind: models.CommunityKindIgnored,
	}
	if existing, ok := maybeExisting.Get(); ok {
		community.ID = existing.ID
	}
	if err := s.repo.UpsertCommunity(ctx, community); err != nil {
		return fmt.Errorf("failed to persist ignored community: %w", err)
	}

	s.mu.Lock()
	delete(s.targets, name)
	s.ignored[name] = struct{}{}
	s.mu.Unlock()

	log.Printf("📋 Completed successfully - marked community ignored: %s", name)
	return nil
}

func sortedNames(set map[string]struct{}) []string {
	names := make([]string, 0, len(set))
	for name := range set {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
