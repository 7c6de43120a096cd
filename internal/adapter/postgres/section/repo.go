// Package section implements the Section repository using PostgreSQL.
package section

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/taskhive/taskhive-backend/internal/adapter/postgres"
	"github.com/taskhive/taskhive-backend/internal/domain"
)

// Repo provides section persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new section repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Create inserts a section.
func (r *Repo) Create(ctx context.Context, s domain.Section) (domain.Section, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	row := q.QueryRow(ctx,
		`INSERT INTO sections (id, workspace_id, name, description, position, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, now(), now())
		 RETURNING id, workspace_id, name, description, position, is_archived, is_deleted, created_at, updated_at`,
		s.ID, s.WorkspaceID, s.Name, s.Description, s.Position,
	)

	created, err := scanSection(row)
	if err != nil {
		return domain.Section{}, postgres.MapError(err, "section", s.ID)
	}
	return created, nil
}

// GetByID returns a section by ID (soft-deleted rows excluded).
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (domain.Section, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	row := q.QueryRow(ctx,
		`SELECT id, workspace_id, name, description, position, is_archived, is_deleted, created_at, updated_at
		 FROM sections
		 WHERE id = $1 AND NOT is_deleted`,
		id,
	)

	s, err := scanSection(row)
	if err != nil {
		return domain.Section{}, postgres.MapError(err, "section", id)
	}
	return s, nil
}

// Update changes the section name/description; the generated search vector
// follows in the same statement.
func (r *Repo) Update(ctx context.Context, id uuid.UUID, name string, description *string) (domain.Section, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	row := q.QueryRow(ctx,
		`UPDATE sections
		 SET name = $2, description = $3, updated_at = now()
		 WHERE id = $1 AND NOT is_deleted
		 RETURNING id, workspace_id, name, description, position, is_archived, is_deleted, created_at, updated_at`,
		id, name, description,
	)

	s, err := scanSection(row)
	if err != nil {
		return domain.Section{}, postgres.MapError(err, "section", id)
	}
	return s, nil
}

// SetArchived toggles a section's archived flag. Archived sections and their
// tasks disappear from search results.
func (r *Repo) SetArchived(ctx context.Context, id uuid.UUID, archived bool) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	tag, err := q.Exec(ctx,
		`UPDATE sections SET is_archived = $2, updated_at = now()
		 WHERE id = $1 AND NOT is_deleted`,
		id, archived,
	)
	if err != nil {
		return postgres.MapError(err, "section", id)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("section %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

// SoftDelete marks a section deleted.
func (r *Repo) SoftDelete(ctx context.Context, id uuid.UUID) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	tag, err := q.Exec(ctx,
		`UPDATE sections SET is_deleted = TRUE, updated_at = now() WHERE id = $1`,
		id,
	)
	if err != nil {
		return postgres.MapError(err, "section", id)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("section %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

func scanSection(row interface{ Scan(...any) error }) (domain.Section, error) {
	var s domain.Section
	err := row.Scan(&s.ID, &s.WorkspaceID, &s.Name, &s.Description, &s.Position,
		&s.IsArchived, &s.IsDeleted, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return domain.Section{}, err
	}
	return s, nil
}
