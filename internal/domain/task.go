package domain

import (
	"time"

	"github.com/google/uuid"
)

// Task is the leaf of the workspace → section → task hierarchy.
type Task struct {
	ID          uuid.UUID
	WorkspaceID uuid.UUID
	SectionID   uuid.UUID
	Title       string
	Description *string
	Status      TaskStatus
	Priority    TaskPriority
	AssigneeID  *uuid.UUID
	Tags        []string
	DueDate     *time.Time // date precision; time-of-day is ignored
	IsDeleted   bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// HasTag reports whether the task carries the given tag.
func (t *Task) HasTag(tag string) bool {
	for _, have := range t.Tags {
		if have == tag {
			return true
		}
	}
	return false
}
