// Package workspace implements the Workspace repository using PostgreSQL.
// It owns the workspaces and workspace_members tables; membership is the
// authority for every scoped read in the system.
package workspace

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/taskhive/taskhive-backend/internal/adapter/postgres"
	"github.com/taskhive/taskhive-backend/internal/domain"
)

// Repo provides workspace persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new workspace repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Create inserts a workspace and an owner membership row.
func (r *Repo) Create(ctx context.Context, ws domain.Workspace) (domain.Workspace, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	row := q.QueryRow(ctx,
		`INSERT INTO workspaces (id, name, description, owner_id, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, now(), now())
		 RETURNING id, name, description, owner_id, is_deleted, created_at, updated_at`,
		ws.ID, ws.Name, ws.Description, ws.OwnerID,
	)

	created, err := scanWorkspace(row)
	if err != nil {
		return domain.Workspace{}, postgres.MapError(err, "workspace", ws.ID)
	}

	_, err = q.Exec(ctx,
		`INSERT INTO workspace_members (workspace_id, user_id, role)
		 VALUES ($1, $2, $3)`,
		ws.ID, ws.OwnerID, domain.RoleOwner,
	)
	if err != nil {
		return domain.Workspace{}, postgres.MapError(err, "workspace_member", ws.ID)
	}

	return created, nil
}

// GetByID returns a workspace by ID (soft-deleted rows excluded).
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (domain.Workspace, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	row := q.QueryRow(ctx,
		`SELECT id, name, description, owner_id, is_deleted, created_at, updated_at
		 FROM workspaces
		 WHERE id = $1 AND NOT is_deleted`,
		id,
	)

	ws, err := scanWorkspace(row)
	if err != nil {
		return domain.Workspace{}, postgres.MapError(err, "workspace", id)
	}
	return ws, nil
}

// Update changes the workspace name/description. The search vector is a
// generated column, so it is recomputed in the same statement.
func (r *Repo) Update(ctx context.Context, id uuid.UUID, name string, description *string) (domain.Workspace, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	row := q.QueryRow(ctx,
		`UPDATE workspaces
		 SET name = $2, description = $3, updated_at = now()
		 WHERE id = $1 AND NOT is_deleted
		 RETURNING id, name, description, owner_id, is_deleted, created_at, updated_at`,
		id, name, description,
	)

	ws, err := scanWorkspace(row)
	if err != nil {
		return domain.Workspace{}, postgres.MapError(err, "workspace", id)
	}
	return ws, nil
}

// SoftDelete marks a workspace deleted, hiding it from search and feeds.
func (r *Repo) SoftDelete(ctx context.Context, id uuid.UUID) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	tag, err := q.Exec(ctx,
		`UPDATE workspaces SET is_deleted = TRUE, updated_at = now() WHERE id = $1`,
		id,
	)
	if err != nil {
		return postgres.MapError(err, "workspace", id)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("workspace %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

// AddMember grants a user access to a workspace.
func (r *Repo) AddMember(ctx context.Context, workspaceID, userID uuid.UUID, role domain.MemberRole) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	_, err := q.Exec(ctx,
		`INSERT INTO workspace_members (workspace_id, user_id, role)
		 VALUES ($1, $2, $3)`,
		workspaceID, userID, role,
	)
	return postgres.MapError(err, "workspace_member", workspaceID)
}

// RemoveMember revokes a user's access to a workspace.
func (r *Repo) RemoveMember(ctx context.Context, workspaceID, userID uuid.UUID) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	tag, err := q.Exec(ctx,
		`DELETE FROM workspace_members WHERE workspace_id = $1 AND user_id = $2`,
		workspaceID, userID,
	)
	if err != nil {
		return postgres.MapError(err, "workspace_member", workspaceID)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("workspace_member %s: %w", workspaceID, domain.ErrNotFound)
	}
	return nil
}

// IsMember reports whether the user belongs to the workspace.
func (r *Repo) IsMember(ctx context.Context, workspaceID, userID uuid.UUID) (bool, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	var exists bool
	err := q.QueryRow(ctx,
		`SELECT EXISTS (
		     SELECT 1 FROM workspace_members
		     WHERE workspace_id = $1 AND user_id = $2
		 )`,
		workspaceID, userID,
	).Scan(&exists)
	if err != nil {
		return false, postgres.MapError(err, "workspace_member", workspaceID)
	}
	return exists, nil
}

func scanWorkspace(row interface{ Scan(...any) error }) (domain.Workspace, error) {
	var ws domain.Workspace
	err := row.Scan(&ws.ID, &ws.Name, &ws.Description, &ws.OwnerID,
		&ws.IsDeleted, &ws.CreatedAt, &ws.UpdatedAt)
	if err != nil {
		return domain.Workspace{}, err
	}
	return ws, nil
}
