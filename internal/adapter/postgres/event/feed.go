package event

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/taskhive/taskhive-backend/internal/domain"
)

// RecentActivity returns events for the feed, newest-first, joined with the
// acting user's and workspace's display names so callers can render entries
// without extra lookups.
func (r *Repo) RecentActivity(ctx context.Context, f domain.ActivityFeedFilter) ([]domain.ActivityFeedItem, error) {
	cols := prefixed("e")
	cols = append(cols, "u.name AS user_name", "w.name AS workspace_name")

	b := psql.Select(cols...).
		From("activity_events e").
		LeftJoin("users u ON u.id = e.user_id").
		LeftJoin("workspaces w ON w.id = e.workspace_id").
		Where("NOT e.is_deleted").
		OrderBy("e.created_at DESC").
		Limit(uint64(f.Limit)).
		Offset(uint64(f.Offset))

	if f.WorkspaceID != nil {
		b = b.Where(sq.Eq{"e.workspace_id": *f.WorkspaceID})
	}
	if f.UserID != nil {
		b = b.Where(sq.Eq{"e.user_id": *f.UserID})
	}
	if len(f.Categories) > 0 {
		cats := make([]string, len(f.Categories))
		for i, c := range f.Categories {
			cats[i] = c.String()
		}
		b = b.Where(sq.Eq{"e.category": cats})
	}

	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("recent activity build: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("recent activity: %w", err)
	}
	defer rows.Close()

	var items []domain.ActivityFeedItem
	for rows.Next() {
		var (
			item     domain.ActivityFeedItem
			userName *string
			wsName   *string
		)
		e, err := scanEventWith(rows, &userName, &wsName)
		if err != nil {
			return nil, fmt.Errorf("recent activity scan: %w", err)
		}
		item.Event = e
		item.UserName = userName
		item.WorkspaceName = wsName
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("recent activity rows: %w", err)
	}
	return items, nil
}

// EntityTimeline returns all events touching one entity, newest-first, whether
// the entity is the event's primary or related entity.
func (r *Repo) EntityTimeline(ctx context.Context, entityType domain.EntityType, entityID uuid.UUID, limit, offset int) ([]domain.TimelineItem, error) {
	query := `
SELECT ` + eventColumns + `,
       (related_entity_type = $1 AND related_entity_id = $2) AS is_related
FROM activity_events
WHERE NOT is_deleted
  AND ((entity_type = $1 AND entity_id = $2)
    OR (related_entity_type = $1 AND related_entity_id = $2))
ORDER BY created_at DESC
LIMIT $3 OFFSET $4`

	rows, err := r.pool.Query(ctx, query, entityType, entityID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("entity timeline: %w", err)
	}
	defer rows.Close()

	var items []domain.TimelineItem
	for rows.Next() {
		var (
			item      domain.TimelineItem
			isRelated *bool
		)
		e, err := scanEventWith(rows, &isRelated)
		if err != nil {
			return nil, fmt.Errorf("entity timeline scan: %w", err)
		}
		item.Event = e
		item.IsRelated = isRelated != nil && *isRelated
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("entity timeline rows: %w", err)
	}
	return items, nil
}
