package domain

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// EventContext is the event-type-specific payload of an Event. The concrete
// shape is a tagged union keyed by the event's EventType: task transition
// events carry TaskChangeContext, auth events carry AuthContext, and so on.
// Unknown event types round-trip through GenericContext so old rows never
// break a feed read.
type EventContext interface {
	isEventContext()
}

// TaskChangeContext accompanies status_changed, completed, assigned,
// unassigned, reassigned and moved events.
type TaskChangeContext struct {
	PreviousStatus   *TaskStatus `json:"previous_status,omitempty"`
	NewStatus        *TaskStatus `json:"new_status,omitempty"`
	PreviousAssignee *uuid.UUID  `json:"previous_assignee,omitempty"`
	NewAssignee      *uuid.UUID  `json:"new_assignee,omitempty"`
	PreviousSection  *uuid.UUID  `json:"previous_section,omitempty"`
	NewSection       *uuid.UUID  `json:"new_section,omitempty"`
}

func (TaskChangeContext) isEventContext() {}

// AuthContext accompanies login, logout, login_failed and password_changed
// events. Auth events never carry entity old/new values.
type AuthContext struct {
	IPAddress string `json:"ip_address,omitempty"`
	UserAgent string `json:"user_agent,omitempty"`
	Reason    string `json:"reason,omitempty"` // login_failed only
}

func (AuthContext) isEventContext() {}

// SearchContext accompanies search_performed events and feeds search
// analytics.
type SearchContext struct {
	Query       string         `json:"query"`
	SearchType  string         `json:"search_type"`
	Tier        string         `json:"tier,omitempty"` // fallback tier that produced the results
	Filters     map[string]any `json:"filters,omitempty"`
	ResultCount int            `json:"result_count"`
	DurationMS  int64          `json:"duration_ms"`
}

func (SearchContext) isEventContext() {}

// ErrorContext accompanies error_occurred events.
type ErrorContext struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Stack   string `json:"stack,omitempty"`
}

func (ErrorContext) isEventContext() {}

// GenericContext is free-form metadata for event types without a dedicated
// payload shape.
type GenericContext map[string]any

func (GenericContext) isEventContext() {}

// EncodeEventContext serializes a context payload to JSON for storage.
// A nil context encodes as an empty JSON object.
func EncodeEventContext(c EventContext) ([]byte, error) {
	if c == nil {
		return []byte("{}"), nil
	}
	b, err := json.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("encode event context: %w", err)
	}
	return b, nil
}

// DecodeEventContext deserializes a stored context payload into the variant
// matching the event type. Unknown or unlisted event types decode into
// GenericContext rather than failing.
func DecodeEventContext(eventType EventType, raw []byte) (EventContext, error) {
	if len(raw) == 0 {
		return GenericContext{}, nil
	}

	switch eventType {
	case EventTypeStatusChanged, EventTypeCompleted, EventTypeAssigned,
		EventTypeUnassigned, EventTypeReassigned, EventTypeMoved:
		var c TaskChangeContext
		if err := json.Unmarshal(raw, &c); err != nil {
			return nil, fmt.Errorf("decode task change context: %w", err)
		}
		return c, nil

	case EventTypeLogin, EventTypeLogout, EventTypeLoginFailed, EventTypePasswordChanged:
		var c AuthContext
		if err := json.Unmarshal(raw, &c); err != nil {
			return nil, fmt.Errorf("decode auth context: %w", err)
		}
		return c, nil

	case EventTypeSearchPerformed:
		var c SearchContext
		if err := json.Unmarshal(raw, &c); err != nil {
			return nil, fmt.Errorf("decode search context: %w", err)
		}
		return c, nil

	case EventTypeErrorOccurred:
		var c ErrorContext
		if err := json.Unmarshal(raw, &c); err != nil {
			return nil, fmt.Errorf("decode error context: %w", err)
		}
		return c, nil

	default:
		var c GenericContext
		if err := json.Unmarshal(raw, &c); err != nil {
			return nil, fmt.Errorf("decode generic context: %w", err)
		}
		return c, nil
	}
}
