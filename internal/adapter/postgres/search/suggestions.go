package search

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/taskhive/taskhive-backend/internal/domain"
)

// Suggest returns autocomplete candidates: substring matches over workspace
// and section names, task titles and task tags, grouped case-sensitively by
// text, counted, and ordered by count DESC then text ASC. When the same text
// reaches the list from several sources its kind is the lexicographically
// first one, keeping results deterministic.
func (r *Repo) Suggest(ctx context.Context, userID uuid.UUID, partial string, workspaceID *uuid.UUID, limit int) ([]domain.SearchSuggestion, error) {
	const q = `
SELECT suggestion, min(kind) AS kind, COUNT(*)::int AS entity_count
FROM (
    SELECT w.name AS suggestion, 'workspace'::text AS kind
    FROM workspaces w
    JOIN workspace_members wm ON wm.workspace_id = w.id AND wm.user_id = $1
    WHERE NOT w.is_deleted
      AND w.name ILIKE $2
      AND ($3::uuid IS NULL OR w.id = $3)

    UNION ALL

    SELECT s.name, 'section'
    FROM sections s
    JOIN workspaces w ON w.id = s.workspace_id AND NOT w.is_deleted
    JOIN workspace_members wm ON wm.workspace_id = w.id AND wm.user_id = $1
    WHERE NOT s.is_deleted AND NOT s.is_archived
      AND s.name ILIKE $2
      AND ($3::uuid IS NULL OR w.id = $3)

    UNION ALL

    SELECT t.title, 'task'
    FROM tasks t
    JOIN sections s ON s.id = t.section_id AND NOT s.is_deleted AND NOT s.is_archived
    JOIN workspaces w ON w.id = t.workspace_id AND NOT w.is_deleted
    JOIN workspace_members wm ON wm.workspace_id = w.id AND wm.user_id = $1
    WHERE NOT t.is_deleted
      AND t.title ILIKE $2
      AND ($3::uuid IS NULL OR w.id = $3)

    UNION ALL

    SELECT tag, 'tag'
    FROM tasks t
    CROSS JOIN LATERAL unnest(t.tags) AS tag
    JOIN sections s ON s.id = t.section_id AND NOT s.is_deleted AND NOT s.is_archived
    JOIN workspaces w ON w.id = t.workspace_id AND NOT w.is_deleted
    JOIN workspace_members wm ON wm.workspace_id = w.id AND wm.user_id = $1
    WHERE NOT t.is_deleted
      AND tag ILIKE $2
      AND ($3::uuid IS NULL OR w.id = $3)
) candidates
GROUP BY suggestion
ORDER BY entity_count DESC, suggestion ASC
LIMIT $4`

	rows, err := r.pool.Query(ctx, q, userID, likePattern(partial), workspaceID, limit)
	if err != nil {
		return nil, fmt.Errorf("suggest: %w: %w", domain.ErrSearchFailed, err)
	}
	defer rows.Close()

	var suggestions []domain.SearchSuggestion
	for rows.Next() {
		var (
			s    domain.SearchSuggestion
			kind string
		)
		if err := rows.Scan(&s.Text, &kind, &s.EntityCount); err != nil {
			return nil, fmt.Errorf("suggest scan: %w: %w", domain.ErrSearchFailed, err)
		}
		s.Kind = domain.SuggestionKind(kind)
		suggestions = append(suggestions, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("suggest rows: %w: %w", domain.ErrSearchFailed, err)
	}

	return suggestions, nil
}

// likePattern wraps user input in a %...% ILIKE pattern, escaping the LIKE
// metacharacters so arbitrary input cannot widen the match.
func likePattern(s string) string {
	replacer := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + replacer.Replace(s) + "%"
}
