// Package search implements ranked full-text queries over the workspace,
// section and task tables using PostgreSQL tsvector columns.
//
// Every query joins workspace_members on the calling user: scope isolation
// is enforced here, at the data-access boundary, not in the service layer.
package search

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taskhive/taskhive-backend/internal/domain"
)

// Options tunes snippet generation.
type Options struct {
	SnippetMinWords int
	SnippetMaxWords int
}

// Repo executes search queries backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
	opts Options
}

// New creates a new search repository.
func New(pool *pgxpool.Pool, opts Options) *Repo {
	if opts.SnippetMinWords <= 0 {
		opts.SnippetMinWords = 5
	}
	if opts.SnippetMaxWords < opts.SnippetMinWords {
		opts.SnippetMaxWords = opts.SnippetMinWords + 15
	}
	return &Repo{pool: pool, opts: opts}
}

// headlineOptions builds the ts_headline option string. Matched terms are
// wrapped in <mark> tags for the client to render.
func (r *Repo) headlineOptions() string {
	return fmt.Sprintf("StartSel=<mark>, StopSel=</mark>, MinWords=%d, MaxWords=%d",
		r.opts.SnippetMinWords, r.opts.SnippetMaxWords)
}

// SearchAll runs one ranked query across workspaces, sections and tasks.
// tsquery must be a valid to_tsquery expression (the service layer builds it);
// results are scoped to workspaces the user is a member of, exclude
// soft-deleted entities and archived sections, and are ordered by rank DESC,
// entity type, title.
func (r *Repo) SearchAll(ctx context.Context, userID uuid.UUID, tsquery string, workspaceID *uuid.UUID, limit, offset int) ([]domain.SearchResult, error) {
	const q = `
WITH query AS (SELECT to_tsquery('english', $1) AS ts)
SELECT entity_type, entity_id, title, description, workspace_id, workspace_name,
       section_id, section_name, rank, snippet, entity_data
FROM (
    SELECT 'workspace'::text AS entity_type,
           w.id              AS entity_id,
           w.name            AS title,
           w.description,
           w.id              AS workspace_id,
           w.name            AS workspace_name,
           NULL::uuid        AS section_id,
           NULL::text        AS section_name,
           ts_rank(w.search_vector, query.ts)::float8 AS rank,
           ts_headline('english', coalesce(w.description, w.name), query.ts, $4) AS snippet,
           to_jsonb(w) - 'search_vector' AS entity_data
    FROM workspaces w
    CROSS JOIN query
    JOIN workspace_members wm ON wm.workspace_id = w.id AND wm.user_id = $2
    WHERE NOT w.is_deleted
      AND w.search_vector @@ query.ts
      AND ($3::uuid IS NULL OR w.id = $3)

    UNION ALL

    SELECT 'section', s.id, s.name, s.description, w.id, w.name, s.id, s.name,
           ts_rank(s.search_vector, query.ts)::float8,
           ts_headline('english', coalesce(s.description, s.name), query.ts, $4),
           to_jsonb(s) - 'search_vector'
    FROM sections s
    CROSS JOIN query
    JOIN workspaces w ON w.id = s.workspace_id AND NOT w.is_deleted
    JOIN workspace_members wm ON wm.workspace_id = w.id AND wm.user_id = $2
    WHERE NOT s.is_deleted
      AND NOT s.is_archived
      AND s.search_vector @@ query.ts
      AND ($3::uuid IS NULL OR w.id = $3)

    UNION ALL

    SELECT 'task', t.id, t.title, t.description, w.id, w.name, s.id, s.name,
           ts_rank(t.search_vector, query.ts)::float8,
           ts_headline('english', coalesce(t.description, t.title), query.ts, $4),
           to_jsonb(t) - 'search_vector'
    FROM tasks t
    CROSS JOIN query
    JOIN sections s ON s.id = t.section_id AND NOT s.is_deleted AND NOT s.is_archived
    JOIN workspaces w ON w.id = t.workspace_id AND NOT w.is_deleted
    JOIN workspace_members wm ON wm.workspace_id = w.id AND wm.user_id = $2
    WHERE NOT t.is_deleted
      AND t.search_vector @@ query.ts
      AND ($3::uuid IS NULL OR w.id = $3)
) hits
ORDER BY rank DESC, entity_type ASC, title ASC
LIMIT $5 OFFSET $6`

	rows, err := r.pool.Query(ctx, q,
		tsquery, userID, workspaceID, r.headlineOptions(), limit, offset)
	if err != nil {
		return nil, fmt.Errorf("search all: %w: %w", domain.ErrSearchFailed, err)
	}
	defer rows.Close()

	var results []domain.SearchResult
	for rows.Next() {
		var (
			res     domain.SearchResult
			entType string
			payload []byte
		)
		err := rows.Scan(&entType, &res.EntityID, &res.Title, &res.Description,
			&res.WorkspaceID, &res.WorkspaceName, &res.SectionID, &res.SectionName,
			&res.RelevanceScore, &res.ContextSnippet, &payload)
		if err != nil {
			return nil, fmt.Errorf("search all scan: %w: %w", domain.ErrSearchFailed, err)
		}
		res.EntityType = domain.EntityType(entType)

		if len(payload) > 0 {
			data := make(map[string]any)
			if err := json.Unmarshal(payload, &data); err != nil {
				return nil, fmt.Errorf("search all decode entity: %w: %w", domain.ErrSearchFailed, err)
			}
			res.EntityData = data
		}

		results = append(results, res)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("search all rows: %w: %w", domain.ErrSearchFailed, err)
	}

	return results, nil
}

// IndexStats counts total vs indexed rows per entity type, optionally
// restricted to one workspace. Used for index-health monitoring.
func (r *Repo) IndexStats(ctx context.Context, workspaceID *uuid.UUID) (map[domain.EntityType][2]int, error) {
	const q = `
SELECT 'workspace'::text AS entity_type,
       COUNT(*)::int     AS total,
       COUNT(*) FILTER (WHERE search_vector IS NOT NULL)::int AS indexed
FROM workspaces
WHERE NOT is_deleted AND ($1::uuid IS NULL OR id = $1)
UNION ALL
SELECT 'section', COUNT(*)::int, COUNT(*) FILTER (WHERE search_vector IS NOT NULL)::int
FROM sections
WHERE NOT is_deleted AND ($1::uuid IS NULL OR workspace_id = $1)
UNION ALL
SELECT 'task', COUNT(*)::int, COUNT(*) FILTER (WHERE search_vector IS NOT NULL)::int
FROM tasks
WHERE NOT is_deleted AND ($1::uuid IS NULL OR workspace_id = $1)`

	rows, err := r.pool.Query(ctx, q, workspaceID)
	if err != nil {
		return nil, fmt.Errorf("index stats: %w: %w", domain.ErrSearchFailed, err)
	}
	defer rows.Close()

	stats := make(map[domain.EntityType][2]int, 3)
	for rows.Next() {
		var (
			entType        string
			total, indexed int
		)
		if err := rows.Scan(&entType, &total, &indexed); err != nil {
			return nil, fmt.Errorf("index stats scan: %w: %w", domain.ErrSearchFailed, err)
		}
		stats[domain.EntityType(entType)] = [2]int{total, indexed}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("index stats rows: %w: %w", domain.ErrSearchFailed, err)
	}

	return stats, nil
}

