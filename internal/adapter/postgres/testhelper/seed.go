package testhelper

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taskhive/taskhive-backend/internal/domain"
)

// uniqueSuffix returns a short unique string for generating non-conflicting test data.
func uniqueSuffix() string {
	return uuid.New().String()[:8]
}

// SeedUser creates a user row. Returns a filled domain.User.
func SeedUser(t *testing.T, pool *pgxpool.Pool) domain.User {
	t.Helper()
	ctx := context.Background()

	suffix := uniqueSuffix()
	now := time.Now().UTC().Truncate(time.Microsecond)
	user := domain.User{
		ID:        uuid.New(),
		Email:     "testuser-" + suffix + "@example.com",
		Name:      "Test User " + suffix,
		CreatedAt: now,
	}

	_, err := pool.Exec(ctx,
		`INSERT INTO users (id, email, name, created_at) VALUES ($1, $2, $3, $4)`,
		user.ID, user.Email, user.Name, user.CreatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedUser insert user: %v", err)
	}

	return user
}

// SeedWorkspace creates a workspace owned by ownerID plus the owner's
// membership row. Returns a filled domain.Workspace.
func SeedWorkspace(t *testing.T, pool *pgxpool.Pool, ownerID uuid.UUID, name string) domain.Workspace {
	t.Helper()
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Microsecond)
	ws := domain.Workspace{
		ID:        uuid.New(),
		Name:      name,
		OwnerID:   ownerID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	_, err := pool.Exec(ctx,
		`INSERT INTO workspaces (id, name, description, owner_id, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		ws.ID, ws.Name, ws.Description, ws.OwnerID, ws.CreatedAt, ws.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedWorkspace insert workspace: %v", err)
	}

	_, err = pool.Exec(ctx,
		`INSERT INTO workspace_members (workspace_id, user_id, role, created_at)
		 VALUES ($1, $2, 'owner', $3)`,
		ws.ID, ownerID, now,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedWorkspace insert owner membership: %v", err)
	}

	return ws
}

// SeedMember adds userID to the workspace with the given role.
func SeedMember(t *testing.T, pool *pgxpool.Pool, workspaceID, userID uuid.UUID, role domain.MemberRole) {
	t.Helper()

	_, err := pool.Exec(context.Background(),
		`INSERT INTO workspace_members (workspace_id, user_id, role, created_at)
		 VALUES ($1, $2, $3, now())`,
		workspaceID, userID, string(role),
	)
	if err != nil {
		t.Fatalf("testhelper: SeedMember insert membership: %v", err)
	}
}

// SeedSection creates a section in the workspace. Returns a filled domain.Section.
func SeedSection(t *testing.T, pool *pgxpool.Pool, workspaceID uuid.UUID, name string) domain.Section {
	t.Helper()
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Microsecond)
	s := domain.Section{
		ID:          uuid.New(),
		WorkspaceID: workspaceID,
		Name:        name,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	_, err := pool.Exec(ctx,
		`INSERT INTO sections (id, workspace_id, name, description, position, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		s.ID, s.WorkspaceID, s.Name, s.Description, s.Position, s.CreatedAt, s.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedSection insert section: %v", err)
	}

	return s
}

// TaskOption mutates a task before it is inserted.
type TaskOption func(*domain.Task)

// WithDescription sets the task description.
func WithDescription(desc string) TaskOption {
	return func(task *domain.Task) { task.Description = &desc }
}

// WithStatus sets the task status.
func WithStatus(st domain.TaskStatus) TaskOption {
	return func(task *domain.Task) { task.Status = st }
}

// WithPriority sets the task priority.
func WithPriority(p domain.TaskPriority) TaskOption {
	return func(task *domain.Task) { task.Priority = p }
}

// WithAssignee sets the task assignee.
func WithAssignee(userID uuid.UUID) TaskOption {
	return func(task *domain.Task) { task.AssigneeID = &userID }
}

// WithTags sets the task tags.
func WithTags(tags ...string) TaskOption {
	return func(task *domain.Task) { task.Tags = tags }
}

// WithDueDate sets the task due date.
func WithDueDate(d time.Time) TaskOption {
	return func(task *domain.Task) { task.DueDate = &d }
}

// SeedTask creates a task in the section with sensible defaults, customizable
// via options. Returns a filled domain.Task.
func SeedTask(t *testing.T, pool *pgxpool.Pool, workspaceID, sectionID uuid.UUID, title string, opts ...TaskOption) domain.Task {
	t.Helper()
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Microsecond)
	task := domain.Task{
		ID:          uuid.New(),
		WorkspaceID: workspaceID,
		SectionID:   sectionID,
		Title:       title,
		Status:      domain.StatusTodo,
		Priority:    domain.PriorityMedium,
		Tags:        []string{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	for _, opt := range opts {
		opt(&task)
	}

	_, err := pool.Exec(ctx,
		`INSERT INTO tasks (id, workspace_id, section_id, title, description, status, priority,
		                    assignee_id, tags, due_date, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		task.ID, task.WorkspaceID, task.SectionID, task.Title, task.Description,
		string(task.Status), string(task.Priority), task.AssigneeID, task.Tags,
		task.DueDate, task.CreatedAt, task.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedTask insert task: %v", err)
	}

	return task
}

// SeedEvent inserts an event row directly, bypassing the repository. Useful
// for feed and summary tests that need precise created_at values.
func SeedEvent(t *testing.T, pool *pgxpool.Pool, e domain.Event) domain.Event {
	t.Helper()
	ctx := context.Background()

	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC().Truncate(time.Microsecond)
	}
	if e.Tags == nil {
		e.Tags = []string{}
	}

	ctxJSON, err := domain.EncodeEventContext(e.Context)
	if err != nil {
		t.Fatalf("testhelper: SeedEvent encode context: %v", err)
	}

	var relType *string
	if e.RelatedEntityType != nil {
		s := e.RelatedEntityType.String()
		relType = &s
	}

	_, err = pool.Exec(ctx,
		`INSERT INTO activity_events
		     (id, workspace_id, user_id, event_type, entity_type, entity_id,
		      old_values, new_values, category, severity, source, correlation_id,
		      related_entity_type, related_entity_id, context, tags, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`,
		e.ID, e.WorkspaceID, e.UserID, string(e.EventType), string(e.EntityType),
		e.EntityID, e.OldValues, e.NewValues, string(e.Category), string(e.Severity),
		string(e.Source), e.CorrelationID, relType, e.RelatedEntityID,
		ctxJSON, e.Tags, e.CreatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedEvent insert event: %v", err)
	}

	return e
}
