package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/samber/mo"

	"chainbreak/db/tx"
	"chainbreak/models"
)

type PostgresCommunitiesRepository struct {
	db     *sqlx.DB
	schema string
}

func NewPostgresCommunitiesRepository(db *sqlx.DB, schema string) *PostgresCommunitiesRepository {
	return &PostgresCommunitiesRepository{db: db, schema: schema}
}

// UpsertCommunity inserts a community entry or, when the name already
// exists, moves it to the given kind. A subreddit lives in exactly one set.
func (r *PostgresCommunitiesRepository) UpsertCommunity(
	ctx context.Context,
	community *models.Community,
) error {
	query := fmt.Sprintf(`
		INSERT INTO %s.communities (id, name, kind, created_at, updated_at)
		VALUES ($1, $2, $3, NOW(), NOW())
		ON CONFLICT (name) DO UPDATE SET kind = EXCLUDED.kind, updated_at = NOW()
		RETURNING id, name, kind, created_at, updated_at`, r.schema)

	q := tx.GetTransactional(ctx, r.db)
	err := q.QueryRowxContext(ctx, query, community.ID, community.Name, community.Kind).
		StructScan(community)
	if err != nil {
		return fmt.Errorf("failed to upsert community: %w", err)
	}

	return nil
}

// GetCommunityByName looks a community up regardless of kind.
func (r *PostgresCommunitiesRepository) GetCommunityByName(
	ctx context.Context,
	name string,
) (mo.Option[*models.Community], error) {
	query := fmt.Sprintf(`
		SELECT id, name, kind, created_at, updated_at
		FROM %s.communities
		WHERE name = $1`, r.schema)

	community := &models.Community{}
	q := tx.GetTransactional(ctx, r.db)
	err := q.GetContext(ctx, community, query, name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return mo.None[*models.Community](), nil
		}
		return mo.None[*models.Community](), fmt.Errorf("failed to get community: %w", err)
	}

	return mo.Some(community), nil
}

// ListCommunitiesByKind returns all entries of one kind, oldest first.
func (r *PostgresCommunitiesRepository) ListCommunitiesByKind(
	ctx context.Context,
	kind models.CommunityKind,
) ([]*models.Community, error) {
	query := fmt.Sprintf(`
		SELECT id, name, kind, created_at, updated_at
		FROM %s.communities
		WHERE kind = $1
		ORDER BY created_at ASC`, r.schema)

	var communities []*models.Community
	q := tx.GetTransactional(ctx, r.db)
	err := q.SelectContext(ctx, &communities, query, kind)
	if err != nil {
		return nil, fmt.Errorf("failed to list communities by kind: %w", err)
	}

	return communities, nil
}
