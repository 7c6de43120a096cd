package search

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"

	postgres "github.com/taskhive/taskhive-backend/internal/adapter/postgres"
	"github.com/taskhive/taskhive-backend/internal/domain"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// SearchTasks runs a task-only search. tsquery may be empty, in which case
// only the structured filters apply and all hits score zero. Filters combine
// with AND; tag filtering uses array overlap (&&), so a task matches when its
// tag set intersects the filter set. A reversed due-date range matches
// nothing by construction and is not treated as an error.
func (r *Repo) SearchTasks(ctx context.Context, userID uuid.UUID, tsquery string, workspaceID *uuid.UUID, filter domain.TaskSearchFilter, limit, offset int) ([]domain.TaskSearchResult, error) {
	cols := []string{
		"t.id", "t.workspace_id", "t.section_id", "t.title", "t.description",
		"t.status", "t.priority", "t.assignee_id", "t.tags", "t.due_date",
		"t.is_deleted", "t.created_at", "t.updated_at",
	}

	b := psql.Select(cols...).
		From("tasks t").
		Join("sections s ON s.id = t.section_id AND NOT s.is_deleted AND NOT s.is_archived").
		Join("workspaces w ON w.id = t.workspace_id AND NOT w.is_deleted").
		Join("workspace_members wm ON wm.workspace_id = w.id").
		Where(sq.Eq{"wm.user_id": userID}).
		Where("NOT t.is_deleted")

	if tsquery != "" {
		b = b.
			Column(sq.Expr("ts_rank(t.search_vector, to_tsquery('english', ?))::float8 AS rank", tsquery)).
			Column(sq.Expr("ts_headline('english', coalesce(t.description, t.title), to_tsquery('english', ?), ?) AS snippet",
				tsquery, r.headlineOptions())).
			Where(sq.Expr("t.search_vector @@ to_tsquery('english', ?)", tsquery)).
			OrderBy("rank DESC", "t.created_at DESC")
	} else {
		b = b.
			Column("0::float8 AS rank").
			Column("''::text AS snippet").
			OrderBy("t.created_at DESC")
	}

	if workspaceID != nil {
		b = b.Where(sq.Eq{"t.workspace_id": *workspaceID})
	}
	if filter.SectionID != nil {
		b = b.Where(sq.Eq{"t.section_id": *filter.SectionID})
	}
	if len(filter.Statuses) > 0 {
		b = b.Where(sq.Eq{"t.status": filter.Statuses})
	}
	if len(filter.Priorities) > 0 {
		b = b.Where(sq.Eq{"t.priority": filter.Priorities})
	}
	if len(filter.Assignees) > 0 {
		b = b.Where(sq.Eq{"t.assignee_id": filter.Assignees})
	}
	if len(filter.Tags) > 0 {
		b = b.Where(sq.Expr("t.tags && ?", filter.Tags))
	}
	if filter.DueFrom != nil {
		b = b.Where(sq.GtOrEq{"t.due_date": filter.DueFrom.Format("2006-01-02")})
	}
	if filter.DueTo != nil {
		b = b.Where(sq.LtOrEq{"t.due_date": filter.DueTo.Format("2006-01-02")})
	}

	b = b.Limit(uint64(limit)).Offset(uint64(offset))

	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("search tasks build: %w: %w", domain.ErrSearchFailed, err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("search tasks: %w: %w", domain.ErrSearchFailed, err)
	}
	defer rows.Close()

	var results []domain.TaskSearchResult
	for rows.Next() {
		var (
			res domain.TaskSearchResult
			due pgtype.Date
		)
		err := rows.Scan(&res.Task.ID, &res.Task.WorkspaceID, &res.Task.SectionID,
			&res.Task.Title, &res.Task.Description, &res.Task.Status, &res.Task.Priority,
			&res.Task.AssigneeID, &res.Task.Tags, &due, &res.Task.IsDeleted,
			&res.Task.CreatedAt, &res.Task.UpdatedAt,
			&res.RelevanceScore, &res.ContextSnippet)
		if err != nil {
			return nil, fmt.Errorf("search tasks scan: %w: %w", domain.ErrSearchFailed, err)
		}
		res.Task.DueDate = postgres.PgDateToTimePtr(due)
		results = append(results, res)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("search tasks rows: %w: %w", domain.ErrSearchFailed, err)
	}

	return results, nil
}
