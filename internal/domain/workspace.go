package domain

import (
	"time"

	"github.com/google/uuid"
)

// User is the minimal account record referenced by events and memberships.
// Authentication itself lives outside this core.
type User struct {
	ID        uuid.UUID
	Email     string
	Name      string
	CreatedAt time.Time
}

// Workspace is the top of the hierarchy; it owns sections and tasks and is
// the authority for read scoping.
type Workspace struct {
	ID          uuid.UUID
	Name        string
	Description *string
	OwnerID     uuid.UUID
	IsDeleted   bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// MemberRole is a workspace member's role.
type MemberRole string

const (
	RoleOwner  MemberRole = "owner"
	RoleAdmin  MemberRole = "admin"
	RoleMember MemberRole = "member"
)

func (r MemberRole) String() string { return string(r) }

func (r MemberRole) IsValid() bool {
	switch r {
	case RoleOwner, RoleAdmin, RoleMember:
		return true
	}
	return false
}

// WorkspaceMember grants a user read access to a workspace.
type WorkspaceMember struct {
	WorkspaceID uuid.UUID
	UserID      uuid.UUID
	Role        MemberRole
	CreatedAt   time.Time
}

// Section groups tasks within a workspace. Archived sections (and their
// tasks) are hidden from search.
type Section struct {
	ID          uuid.UUID
	WorkspaceID uuid.UUID
	Name        string
	Description *string
	Position    int
	IsArchived  bool
	IsDeleted   bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
