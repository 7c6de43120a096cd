package activity

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/taskhive/taskhive-backend/internal/domain"
)

// descriptionTemplates maps event types to human-readable feed phrasings.
// %[1]s is the actor, %[2]s the entity type, %[3]s the entity title when
// known. Event types without a template fall back to a generic phrasing.
var descriptionTemplates = map[domain.EventType]string{
	domain.EventTypeCreated:         "%[1]s created %[2]s %[3]s",
	domain.EventTypeUpdated:         "%[1]s updated %[2]s %[3]s",
	domain.EventTypeDeleted:         "%[1]s deleted %[2]s %[3]s",
	domain.EventTypeStatusChanged:   "%[1]s changed the status of %[2]s %[3]s",
	domain.EventTypeCompleted:       "%[1]s completed %[2]s %[3]s",
	domain.EventTypeAssigned:        "%[1]s assigned %[2]s %[3]s",
	domain.EventTypeUnassigned:      "%[1]s unassigned %[2]s %[3]s",
	domain.EventTypeReassigned:      "%[1]s reassigned %[2]s %[3]s",
	domain.EventTypeMoved:           "%[1]s moved %[2]s %[3]s",
	domain.EventTypeArchived:        "%[1]s archived %[2]s %[3]s",
	domain.EventTypeUnarchived:      "%[1]s unarchived %[2]s %[3]s",
	domain.EventTypeMemberAdded:     "%[1]s added a member to %[2]s %[3]s",
	domain.EventTypeMemberRemoved:   "%[1]s removed a member from %[2]s %[3]s",
	domain.EventTypeLogin:           "%[1]s logged in",
	domain.EventTypeLogout:          "%[1]s logged out",
	domain.EventTypeLoginFailed:     "failed login attempt for %[1]s",
	domain.EventTypePasswordChanged: "%[1]s changed their password",
	domain.EventTypeSearchPerformed: "%[1]s searched",
}

// GetRecentActivity returns the newest events visible under the filter,
// each rendered into a human-readable description.
func (s *Service) GetRecentActivity(ctx context.Context, f domain.ActivityFeedFilter) ([]domain.ActivityFeedItem, error) {
	f.Limit = s.clampFeedLimit(f.Limit)
	if f.Offset < 0 {
		f.Offset = 0
	}

	items, err := s.repo.RecentActivity(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("recent activity: %w", err)
	}

	for i := range items {
		items[i].Description = describe(items[i])
	}
	if items == nil {
		items = []domain.ActivityFeedItem{}
	}
	return items, nil
}

// GetEntityActivityTimeline returns the full history of one entity,
// newest-first, including events where it appears as the related entity.
func (s *Service) GetEntityActivityTimeline(ctx context.Context, entityType domain.EntityType, entityID uuid.UUID, limit, offset int) ([]domain.TimelineItem, error) {
	if !entityType.IsValid() {
		return nil, domain.NewValidationError("entity_type", "invalid value")
	}

	limit = s.clampFeedLimit(limit)
	if offset < 0 {
		offset = 0
	}

	items, err := s.repo.EntityTimeline(ctx, entityType, entityID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("entity timeline: %w", err)
	}
	if items == nil {
		items = []domain.TimelineItem{}
	}
	return items, nil
}

// describe renders one feed item into a sentence. Unknown event types get a
// generic phrasing so new event types never break the feed.
func describe(item domain.ActivityFeedItem) string {
	actor := "someone"
	if item.UserName != nil && *item.UserName != "" {
		actor = *item.UserName
	}

	title := entityTitle(item.Event)

	tmpl, ok := descriptionTemplates[item.Event.EventType]
	if !ok {
		return fmt.Sprintf("%s performed %s on %s %s", actor, item.Event.EventType, item.Event.EntityType, title)
	}
	return fmt.Sprintf(tmpl, actor, item.Event.EntityType, title)
}

// entityTitle extracts a display name for the event's entity from its diff
// payload, falling back to a shortened ID.
func entityTitle(e domain.Event) string {
	for _, values := range []map[string]any{e.NewValues, e.OldValues} {
		for _, key := range []string{"title", "name"} {
			if v, ok := values[key].(string); ok && v != "" {
				return fmt.Sprintf("%q", v)
			}
		}
	}
	if e.EntityID != nil {
		return e.EntityID.String()[:8]
	}
	return ""
}
