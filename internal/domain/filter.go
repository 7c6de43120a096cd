package domain

import (
	"time"

	"github.com/google/uuid"
)

// AuditTrailFilter selects events for audit-trail reads. All fields are
// optional and combine with AND. Soft-deleted events are always excluded.
type AuditTrailFilter struct {
	WorkspaceID *uuid.UUID
	UserID      *uuid.UUID
	EntityType  *EntityType
	EntityID    *uuid.UUID
	Category    *EventCategory
	Severity    *Severity
	From        *time.Time
	To          *time.Time
	Limit       int
	Offset      int
}

// ActivityFeedFilter selects events for the recent-activity feed.
type ActivityFeedFilter struct {
	WorkspaceID *uuid.UUID
	UserID      *uuid.UUID
	Categories  []EventCategory
	Limit       int
	Offset      int
}

// SummaryFilter selects precomputed rollup rows by period window and scope.
type SummaryFilter struct {
	PeriodType  PeriodType
	PeriodStart time.Time
	PeriodEnd   time.Time
	UserID      *uuid.UUID
	WorkspaceID *uuid.UUID
}
