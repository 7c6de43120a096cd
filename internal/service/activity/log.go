package activity

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/taskhive/taskhive-backend/internal/domain"
	"github.com/taskhive/taskhive-backend/pkg/ctxutil"
)

// LogEventInput describes one event to append. Zero-valued fields get
// defaults: EventType updated, Category user_action, Severity info, Source
// from the context (web when absent), UserID from the context.
type LogEventInput struct {
	WorkspaceID *uuid.UUID
	UserID      *uuid.UUID
	EventType   domain.EventType
	EntityType  domain.EntityType
	EntityID    *uuid.UUID

	OldValues map[string]any
	NewValues map[string]any

	Category domain.EventCategory
	Severity domain.Severity
	Source   domain.EventSource

	CorrelationID     *uuid.UUID
	RelatedEntityType *domain.EntityType
	RelatedEntityID   *uuid.UUID

	Context domain.EventContext
	Tags    []string
}

// LogEvent appends one event to the log. It never returns an error: a write
// failure (or invalid input) is logged and reported as a nil ID, so the
// operation that triggered the event proceeds unaffected.
func (s *Service) LogEvent(ctx context.Context, in LogEventInput) *uuid.UUID {
	e, err := s.buildEvent(ctx, in)
	if err != nil {
		s.log.WarnContext(ctx, "dropping invalid event",
			slog.String("event_type", string(in.EventType)),
			slog.String("entity_type", string(in.EntityType)),
			slog.String("error", err.Error()),
		)
		return nil
	}

	created, err := s.repo.Create(ctx, e)
	if err != nil {
		s.log.ErrorContext(ctx, "event write failed",
			slog.String("event_type", e.EventType.String()),
			slog.String("entity_type", e.EntityType.String()),
			slog.String("error", err.Error()),
		)
		return nil
	}

	return &created.ID
}

// LogBatch appends several events sharing one correlation ID. Each event is
// written independently: a failure yields a nil entry at that position and
// does not stop the rest.
func (s *Service) LogBatch(ctx context.Context, inputs []LogEventInput) []*uuid.UUID {
	correlationID := uuid.New()

	ids := make([]*uuid.UUID, len(inputs))
	for i, in := range inputs {
		if in.CorrelationID == nil {
			in.CorrelationID = &correlationID
		}
		ids[i] = s.LogEvent(ctx, in)
	}
	return ids
}

// LogTaskUpdate derives the most specific event type from a task transition
// and logs it with a field-level diff. Returns nil when nothing changed.
func (s *Service) LogTaskUpdate(ctx context.Context, oldTask, newTask domain.Task) *uuid.UUID {
	eventType, changeCtx, changed := DeriveTaskEvent(oldTask, newTask)
	if !changed {
		return nil
	}

	oldValues, newValues := taskDiff(oldTask, newTask)
	sectionType := domain.EntityTypeSection

	return s.LogEvent(ctx, LogEventInput{
		WorkspaceID:       &newTask.WorkspaceID,
		EventType:         eventType,
		EntityType:        domain.EntityTypeTask,
		EntityID:          &newTask.ID,
		OldValues:         oldValues,
		NewValues:         newValues,
		RelatedEntityType: &sectionType,
		RelatedEntityID:   &newTask.SectionID,
		Context:           changeCtx,
	})
}

// LogAuthEvent logs a security-category auth event for the given user. The
// client IP and user agent are taken from the context when present. A failed
// login is logged at warning severity, everything else at info.
func (s *Service) LogAuthEvent(ctx context.Context, eventType domain.EventType, userID uuid.UUID, reason string) *uuid.UUID {
	ip, userAgent := ctxutil.ClientInfoFromCtx(ctx)

	severity := domain.SeverityInfo
	if eventType == domain.EventTypeLoginFailed {
		severity = domain.SeverityWarning
	}

	return s.LogEvent(ctx, LogEventInput{
		UserID:     &userID,
		EventType:  eventType,
		EntityType: domain.EntityTypeUser,
		EntityID:   &userID,
		Category:   domain.CategorySecurity,
		Severity:   severity,
		Context: domain.AuthContext{
			IPAddress: ip,
			UserAgent: userAgent,
			Reason:    reason,
		},
	})
}

// LogSearchEvent logs a search_performed event carrying the search analytics
// payload.
func (s *Service) LogSearchEvent(ctx context.Context, workspaceID *uuid.UUID, sc domain.SearchContext) *uuid.UUID {
	return s.LogEvent(ctx, LogEventInput{
		WorkspaceID: workspaceID,
		EventType:   domain.EventTypeSearchPerformed,
		EntityType:  domain.EntityTypeWorkspace,
		EntityID:    workspaceID,
		Context:     sc,
	})
}

// LogError logs an error_occurred event at error severity.
func (s *Service) LogError(ctx context.Context, workspaceID *uuid.UUID, code, message, stack string) *uuid.UUID {
	return s.LogEvent(ctx, LogEventInput{
		WorkspaceID: workspaceID,
		EventType:   domain.EventTypeErrorOccurred,
		EntityType:  domain.EntityTypeWorkspace,
		EntityID:    workspaceID,
		Category:    domain.CategoryError,
		Severity:    domain.SeverityError,
		Context: domain.ErrorContext{
			Code:    code,
			Message: message,
			Stack:   stack,
		},
	})
}

// buildEvent applies defaults and validates the input.
func (s *Service) buildEvent(ctx context.Context, in LogEventInput) (domain.Event, error) {
	if in.EntityType == "" {
		return domain.Event{}, domain.NewValidationError("entity_type", "required")
	}
	if !in.EntityType.IsValid() {
		return domain.Event{}, domain.NewValidationError("entity_type", "invalid value")
	}

	if in.EventType == "" {
		in.EventType = domain.EventTypeUpdated
	}
	if !in.EventType.IsValid() {
		return domain.Event{}, domain.NewValidationError("event_type", "invalid value")
	}

	if in.Category == "" {
		in.Category = domain.CategoryUserAction
	}
	if in.Severity == "" {
		in.Severity = domain.SeverityInfo
	}
	if in.Source == "" {
		in.Source = sourceFromCtx(ctx)
	}

	if in.UserID == nil {
		if id, ok := ctxutil.UserIDFromCtx(ctx); ok {
			in.UserID = &id
		}
	}

	return domain.Event{
		ID:                uuid.New(),
		WorkspaceID:       in.WorkspaceID,
		UserID:            in.UserID,
		EventType:         in.EventType,
		EntityType:        in.EntityType,
		EntityID:          in.EntityID,
		OldValues:         in.OldValues,
		NewValues:         in.NewValues,
		Category:          in.Category,
		Severity:          in.Severity,
		Source:            in.Source,
		CorrelationID:     in.CorrelationID,
		RelatedEntityType: in.RelatedEntityType,
		RelatedEntityID:   in.RelatedEntityID,
		Context:           in.Context,
		Tags:              in.Tags,
	}, nil
}

// sourceFromCtx resolves the originating surface, defaulting to web.
func sourceFromCtx(ctx context.Context) domain.EventSource {
	src := domain.EventSource(ctxutil.SourceFromCtx(ctx))
	if src.IsValid() {
		return src
	}
	return domain.SourceWeb
}

// DeriveTaskEvent picks the most specific event type describing a task
// transition. Precedence: status change beats assignee change beats section
// move beats a generic update. A status change into done becomes completed.
// changed is false when the two tasks are identical in every derivable field.
func DeriveTaskEvent(oldTask, newTask domain.Task) (domain.EventType, domain.TaskChangeContext, bool) {
	var changeCtx domain.TaskChangeContext

	statusChanged := oldTask.Status != newTask.Status
	assigneeChanged := !uuidPtrEqual(oldTask.AssigneeID, newTask.AssigneeID)
	sectionChanged := oldTask.SectionID != newTask.SectionID

	if statusChanged {
		oldStatus, newStatus := oldTask.Status, newTask.Status
		changeCtx.PreviousStatus = &oldStatus
		changeCtx.NewStatus = &newStatus
	}
	if assigneeChanged {
		changeCtx.PreviousAssignee = oldTask.AssigneeID
		changeCtx.NewAssignee = newTask.AssigneeID
	}
	if sectionChanged {
		oldSection, newSection := oldTask.SectionID, newTask.SectionID
		changeCtx.PreviousSection = &oldSection
		changeCtx.NewSection = &newSection
	}

	switch {
	case statusChanged && newTask.Status.IsTerminal():
		return domain.EventTypeCompleted, changeCtx, true
	case statusChanged:
		return domain.EventTypeStatusChanged, changeCtx, true
	case assigneeChanged && oldTask.AssigneeID == nil:
		return domain.EventTypeAssigned, changeCtx, true
	case assigneeChanged && newTask.AssigneeID == nil:
		return domain.EventTypeUnassigned, changeCtx, true
	case assigneeChanged:
		return domain.EventTypeReassigned, changeCtx, true
	case sectionChanged:
		return domain.EventTypeMoved, changeCtx, true
	}

	if before, after := taskDiff(oldTask, newTask); len(before) > 0 || len(after) > 0 {
		return domain.EventTypeUpdated, changeCtx, true
	}
	return domain.EventTypeUpdated, changeCtx, false
}

// taskDiff returns the changed fields of a task transition as before/after
// maps keyed by field name.
func taskDiff(oldTask, newTask domain.Task) (oldValues, newValues map[string]any) {
	oldValues = make(map[string]any)
	newValues = make(map[string]any)

	set := func(field string, before, after any) {
		oldValues[field] = before
		newValues[field] = after
	}

	if oldTask.Title != newTask.Title {
		set("title", oldTask.Title, newTask.Title)
	}
	if !strPtrEqual(oldTask.Description, newTask.Description) {
		set("description", strPtrValue(oldTask.Description), strPtrValue(newTask.Description))
	}
	if oldTask.Status != newTask.Status {
		set("status", oldTask.Status.String(), newTask.Status.String())
	}
	if oldTask.Priority != newTask.Priority {
		set("priority", oldTask.Priority.String(), newTask.Priority.String())
	}
	if !uuidPtrEqual(oldTask.AssigneeID, newTask.AssigneeID) {
		set("assignee_id", uuidPtrValue(oldTask.AssigneeID), uuidPtrValue(newTask.AssigneeID))
	}
	if oldTask.SectionID != newTask.SectionID {
		set("section_id", oldTask.SectionID.String(), newTask.SectionID.String())
	}
	if !tagsEqual(oldTask.Tags, newTask.Tags) {
		set("tags", oldTask.Tags, newTask.Tags)
	}
	if !datePtrEqual(oldTask.DueDate, newTask.DueDate) {
		set("due_date", datePtrValue(oldTask.DueDate), datePtrValue(newTask.DueDate))
	}

	if len(oldValues) == 0 {
		return nil, nil
	}
	return oldValues, newValues
}

func uuidPtrEqual(a, b *uuid.UUID) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func uuidPtrValue(p *uuid.UUID) any {
	if p == nil {
		return nil
	}
	return p.String()
}

func strPtrEqual(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func strPtrValue(p *string) any {
	if p == nil {
		return nil
	}
	return *p
}

func datePtrEqual(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Format("2006-01-02") == b.Format("2006-01-02")
}

func datePtrValue(p *time.Time) any {
	if p == nil {
		return nil
	}
	return p.Format("2006-01-02")
}

func tagsEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
