package event

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgtype"

	postgres "github.com/taskhive/taskhive-backend/internal/adapter/postgres"
	"github.com/taskhive/taskhive-backend/internal/domain"
)

// SummariesByFilter returns rollup rows whose period overlaps the filter
// window, optionally narrowed to one user or workspace scope.
func (r *Repo) SummariesByFilter(ctx context.Context, f domain.SummaryFilter) ([]domain.ActivitySummary, error) {
	b := psql.Select("id", "period_type", "period_start", "period_end",
		"user_id", "workspace_id", "category", "entity_type", "event_count").
		From("activity_summaries").
		Where(sq.Eq{"period_type": f.PeriodType.String()}).
		Where(sq.GtOrEq{"period_start": f.PeriodStart}).
		Where(sq.Lt{"period_start": f.PeriodEnd}).
		OrderBy("period_start ASC", "category ASC", "entity_type ASC")

	if f.UserID != nil {
		b = b.Where(sq.Eq{"user_id": *f.UserID})
	}
	if f.WorkspaceID != nil {
		b = b.Where(sq.Eq{"workspace_id": *f.WorkspaceID})
	}

	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("summaries build: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("summaries: %w", err)
	}
	defer rows.Close()

	var out []domain.ActivitySummary
	for rows.Next() {
		var (
			s                   domain.ActivitySummary
			userID, workspaceID pgtype.UUID
		)
		err := rows.Scan(&s.ID, &s.PeriodType, &s.PeriodStart, &s.PeriodEnd,
			&userID, &workspaceID, &s.Category, &s.EntityType, &s.EventCount)
		if err != nil {
			return nil, fmt.Errorf("summaries scan: %w", err)
		}
		s.UserID = postgres.PgToUUIDPtr(userID)
		s.WorkspaceID = postgres.PgToUUIDPtr(workspaceID)
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("summaries rows: %w", err)
	}
	return out, nil
}

// RebuildSummaries recomputes rollup rows for one period type over a time
// window. The existing rows for that window are replaced wholesale inside a
// transaction, so readers never observe a half-built rollup. Summaries are a
// cache; the event log stays authoritative and the rebuild is idempotent.
func (r *Repo) RebuildSummaries(ctx context.Context, periodType domain.PeriodType, from, to time.Time) (int64, error) {
	var inserted int64

	err := r.txm.RunInTx(ctx, func(txCtx context.Context) error {
		q := postgres.QuerierFromCtx(txCtx, r.pool)

		_, err := q.Exec(txCtx,
			`DELETE FROM activity_summaries
			 WHERE period_type = $1 AND period_start >= $2 AND period_start < $3`,
			periodType, from, to,
		)
		if err != nil {
			return fmt.Errorf("clear summaries: %w", err)
		}

		tag, err := q.Exec(txCtx,
			`INSERT INTO activity_summaries
			     (period_type, period_start, period_end, user_id, workspace_id,
			      category, entity_type, event_count)
			 SELECT $1,
			        date_trunc($1, created_at),
			        date_trunc($1, created_at) + ('1 ' || $1)::interval,
			        user_id, workspace_id, category, entity_type, count(*)
			 FROM activity_events
			 WHERE NOT is_deleted
			   AND created_at >= $2 AND created_at < $3
			 GROUP BY date_trunc($1, created_at), user_id, workspace_id,
			          category, entity_type`,
			periodType, from, to,
		)
		if err != nil {
			return fmt.Errorf("insert summaries: %w", err)
		}
		inserted = tag.RowsAffected()
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("rebuild summaries: %w", err)
	}
	return inserted, nil
}
