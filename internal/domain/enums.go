package domain

// EntityType identifies the kind of domain entity referenced by events and
// search results.
type EntityType string

const (
	EntityTypeWorkspace EntityType = "workspace"
	EntityTypeSection   EntityType = "section"
	EntityTypeTask      EntityType = "task"
	EntityTypeUser      EntityType = "user"
	EntityTypeComment   EntityType = "comment"
)

func (e EntityType) String() string { return string(e) }

func (e EntityType) IsValid() bool {
	switch e {
	case EntityTypeWorkspace, EntityTypeSection, EntityTypeTask, EntityTypeUser, EntityTypeComment:
		return true
	}
	return false
}

// Searchable reports whether the entity type participates in full-text search.
func (e EntityType) Searchable() bool {
	switch e {
	case EntityTypeWorkspace, EntityTypeSection, EntityTypeTask:
		return true
	}
	return false
}

// EventType identifies what happened in a logged event.
type EventType string

const (
	EventTypeCreated         EventType = "created"
	EventTypeUpdated         EventType = "updated"
	EventTypeDeleted         EventType = "deleted"
	EventTypeStatusChanged   EventType = "status_changed"
	EventTypeCompleted       EventType = "completed"
	EventTypeAssigned        EventType = "assigned"
	EventTypeUnassigned      EventType = "unassigned"
	EventTypeReassigned      EventType = "reassigned"
	EventTypeMoved           EventType = "moved"
	EventTypeArchived        EventType = "archived"
	EventTypeUnarchived      EventType = "unarchived"
	EventTypeMemberAdded     EventType = "member_added"
	EventTypeMemberRemoved   EventType = "member_removed"
	EventTypeLogin           EventType = "login"
	EventTypeLogout          EventType = "logout"
	EventTypeLoginFailed     EventType = "login_failed"
	EventTypePasswordChanged EventType = "password_changed"
	EventTypeSearchPerformed EventType = "search_performed"
	EventTypeErrorOccurred   EventType = "error_occurred"
)

func (e EventType) String() string { return string(e) }

func (e EventType) IsValid() bool {
	switch e {
	case EventTypeCreated, EventTypeUpdated, EventTypeDeleted, EventTypeStatusChanged,
		EventTypeCompleted, EventTypeAssigned, EventTypeUnassigned, EventTypeReassigned,
		EventTypeMoved, EventTypeArchived, EventTypeUnarchived, EventTypeMemberAdded,
		EventTypeMemberRemoved, EventTypeLogin, EventTypeLogout, EventTypeLoginFailed,
		EventTypePasswordChanged, EventTypeSearchPerformed, EventTypeErrorOccurred:
		return true
	}
	return false
}

// EventCategory is a lightweight taxonomy over events.
type EventCategory string

const (
	CategoryUserAction  EventCategory = "user_action"
	CategorySystem      EventCategory = "system"
	CategorySecurity    EventCategory = "security"
	CategoryIntegration EventCategory = "integration"
	CategoryAutomation  EventCategory = "automation"
	CategoryError       EventCategory = "error"
)

func (c EventCategory) String() string { return string(c) }

func (c EventCategory) IsValid() bool {
	switch c {
	case CategoryUserAction, CategorySystem, CategorySecurity,
		CategoryIntegration, CategoryAutomation, CategoryError:
		return true
	}
	return false
}

// Severity grades an event's importance.
type Severity string

const (
	SeverityDebug    Severity = "debug"
	SeverityInfo     Severity = "info"
	SeverityWarning  Severity = "warning"
	SeverityError    Severity = "error"
	SeverityCritical Severity = "critical"
)

func (s Severity) String() string { return string(s) }

func (s Severity) IsValid() bool {
	switch s {
	case SeverityDebug, SeverityInfo, SeverityWarning, SeverityError, SeverityCritical:
		return true
	}
	return false
}

// EventSource records which surface originated an event.
type EventSource string

const (
	SourceWeb    EventSource = "web"
	SourceAPI    EventSource = "api"
	SourceMobile EventSource = "mobile"
)

func (s EventSource) String() string { return string(s) }

func (s EventSource) IsValid() bool {
	switch s {
	case SourceWeb, SourceAPI, SourceMobile:
		return true
	}
	return false
}

// TaskStatus is the workflow state of a task. StatusDone is terminal.
type TaskStatus string

const (
	StatusTodo       TaskStatus = "todo"
	StatusInProgress TaskStatus = "in_progress"
	StatusDone       TaskStatus = "done"
)

func (s TaskStatus) String() string { return string(s) }

func (s TaskStatus) IsValid() bool {
	switch s {
	case StatusTodo, StatusInProgress, StatusDone:
		return true
	}
	return false
}

// IsTerminal reports whether the status represents a completed task.
func (s TaskStatus) IsTerminal() bool { return s == StatusDone }

// TaskPriority orders tasks by urgency.
type TaskPriority string

const (
	PriorityLow    TaskPriority = "low"
	PriorityMedium TaskPriority = "medium"
	PriorityHigh   TaskPriority = "high"
	PriorityUrgent TaskPriority = "urgent"
)

func (p TaskPriority) String() string { return string(p) }

func (p TaskPriority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

// PeriodType is the granularity of an activity summary window.
type PeriodType string

const (
	PeriodHour  PeriodType = "hour"
	PeriodDay   PeriodType = "day"
	PeriodWeek  PeriodType = "week"
	PeriodMonth PeriodType = "month"
)

func (p PeriodType) String() string { return string(p) }

func (p PeriodType) IsValid() bool {
	switch p {
	case PeriodHour, PeriodDay, PeriodWeek, PeriodMonth:
		return true
	}
	return false
}

// SuggestionKind identifies where an autocomplete suggestion came from.
type SuggestionKind string

const (
	SuggestionWorkspace SuggestionKind = "workspace"
	SuggestionSection   SuggestionKind = "section"
	SuggestionTask      SuggestionKind = "task"
	SuggestionTag       SuggestionKind = "tag"
)

func (k SuggestionKind) String() string { return string(k) }

func (k SuggestionKind) IsValid() bool {
	switch k {
	case SuggestionWorkspace, SuggestionSection, SuggestionTask, SuggestionTag:
		return true
	}
	return false
}
