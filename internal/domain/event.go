package domain

import (
	"time"

	"github.com/google/uuid"
)

// Event is an immutable audit record: one row per logged action.
// Once written, only IsDeleted may ever change.
type Event struct {
	ID          uuid.UUID
	WorkspaceID *uuid.UUID // nil for account-level events (login etc.)
	UserID      *uuid.UUID // nil for system-originated events
	EventType   EventType
	EntityType  EntityType
	EntityID    *uuid.UUID

	// OldValues/NewValues are structured diffs, present only when the event
	// represents a state transition.
	OldValues map[string]any
	NewValues map[string]any

	Category EventCategory
	Severity Severity
	Source   EventSource

	// CorrelationID groups causally related events.
	CorrelationID *uuid.UUID

	// RelatedEntityType/RelatedEntityID link the event to a second entity,
	// e.g. a task event linked to its section.
	RelatedEntityType *EntityType
	RelatedEntityID   *uuid.UUID

	// Context is the event-type-specific payload (see event_context.go).
	Context EventContext

	Tags      []string
	CreatedAt time.Time
	IsDeleted bool
}

// ActivityFeedItem is a read projection of an Event enriched with joined
// names and a human-readable description. Derived, never stored.
type ActivityFeedItem struct {
	Event         Event
	UserName      *string
	WorkspaceName *string
	Description   string
}

// TimelineItem is one entry in a per-entity history, flagged when the entity
// appears as the event's related (rather than primary) entity.
type TimelineItem struct {
	Event     Event
	IsRelated bool
}

// ActivitySummary is a periodic rollup row: event counts for one
// (period, scope, category, entity type) combination. It is a rebuildable
// cache over the event log, which stays authoritative.
type ActivitySummary struct {
	ID          uuid.UUID
	PeriodType  PeriodType
	PeriodStart time.Time
	PeriodEnd   time.Time
	UserID      *uuid.UUID
	WorkspaceID *uuid.UUID
	Category    EventCategory
	EntityType  EntityType
	EventCount  int
}

// EventSample is the slim projection of an event used for in-memory metrics
// grouping; fetching full rows for a 10k-event window would be waste.
type EventSample struct {
	Category   EventCategory
	EntityType EntityType
	CreatedAt  time.Time
}

// ActivityMetrics aggregates raw events over a rolling window.
type ActivityMetrics struct {
	TotalEvents       int
	DailyAverage      float64
	MostActiveDay     *time.Time // date-truncated; nil when no events
	CategoryBreakdown map[EventCategory]int
	EntityBreakdown   map[EntityType]int
}
