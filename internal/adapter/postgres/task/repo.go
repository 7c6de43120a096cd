// Package task implements the Task repository using PostgreSQL.
package task

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/taskhive/taskhive-backend/internal/adapter/postgres"
	"github.com/taskhive/taskhive-backend/internal/domain"
)

// Repo provides task persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new task repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

const taskColumns = `id, workspace_id, section_id, title, description, status, priority,
	assignee_id, tags, due_date, is_deleted, created_at, updated_at`

// Create inserts a task.
func (r *Repo) Create(ctx context.Context, t domain.Task) (domain.Task, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	row := q.QueryRow(ctx,
		`INSERT INTO tasks (id, workspace_id, section_id, title, description, status, priority,
		                    assignee_id, tags, due_date, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, now(), now())
		 RETURNING `+taskColumns,
		t.ID, t.WorkspaceID, t.SectionID, t.Title, t.Description,
		t.Status, t.Priority, t.AssigneeID, t.Tags, postgres.TimePtrToPgDate(t.DueDate),
	)

	created, err := scanTask(row)
	if err != nil {
		return domain.Task{}, postgres.MapError(err, "task", t.ID)
	}
	return created, nil
}

// GetByID returns a task by ID (soft-deleted rows excluded).
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (domain.Task, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	row := q.QueryRow(ctx,
		`SELECT `+taskColumns+` FROM tasks WHERE id = $1 AND NOT is_deleted`,
		id,
	)

	t, err := scanTask(row)
	if err != nil {
		return domain.Task{}, postgres.MapError(err, "task", id)
	}
	return t, nil
}

// Update replaces the mutable fields of a task. The generated search vector
// is recomputed in the same statement, so readers never observe a stale
// vector.
func (r *Repo) Update(ctx context.Context, t domain.Task) (domain.Task, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	row := q.QueryRow(ctx,
		`UPDATE tasks
		 SET section_id = $2, title = $3, description = $4, status = $5, priority = $6,
		     assignee_id = $7, tags = $8, due_date = $9, updated_at = now()
		 WHERE id = $1 AND NOT is_deleted
		 RETURNING `+taskColumns,
		t.ID, t.SectionID, t.Title, t.Description, t.Status, t.Priority,
		t.AssigneeID, t.Tags, postgres.TimePtrToPgDate(t.DueDate),
	)

	updated, err := scanTask(row)
	if err != nil {
		return domain.Task{}, postgres.MapError(err, "task", t.ID)
	}
	return updated, nil
}

// SoftDelete marks a task deleted.
func (r *Repo) SoftDelete(ctx context.Context, id uuid.UUID) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	tag, err := q.Exec(ctx,
		`UPDATE tasks SET is_deleted = TRUE, updated_at = now() WHERE id = $1`,
		id,
	)
	if err != nil {
		return postgres.MapError(err, "task", id)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("task %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

// ListBySection returns the live tasks of a section ordered by creation time.
func (r *Repo) ListBySection(ctx context.Context, sectionID uuid.UUID) ([]domain.Task, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := q.Query(ctx,
		`SELECT `+taskColumns+`
		 FROM tasks
		 WHERE section_id = $1 AND NOT is_deleted
		 ORDER BY created_at`,
		sectionID,
	)
	if err != nil {
		return nil, postgres.MapError(err, "task", sectionID)
	}
	defer rows.Close()

	return scanTasks(rows)
}

func scanTask(row interface{ Scan(...any) error }) (domain.Task, error) {
	var (
		t   domain.Task
		due = postgres.TimePtrToPgDate(nil)
	)
	err := row.Scan(&t.ID, &t.WorkspaceID, &t.SectionID, &t.Title, &t.Description,
		&t.Status, &t.Priority, &t.AssigneeID, &t.Tags, &due,
		&t.IsDeleted, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return domain.Task{}, err
	}
	t.DueDate = postgres.PgDateToTimePtr(due)
	return t, nil
}

func scanTasks(rows pgx.Rows) ([]domain.Task, error) {
	var tasks []domain.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return tasks, nil
}
