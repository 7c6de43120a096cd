// Package event implements the activity event log using PostgreSQL.
// The log is append-only: rows are inserted exactly once and never updated,
// except for the is_deleted retention flag.
package event

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/taskhive/taskhive-backend/internal/adapter/postgres"
	"github.com/taskhive/taskhive-backend/internal/domain"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// Repo provides event log persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
	txm  *postgres.TxManager
}

// New creates a new event repository.
func New(pool *pgxpool.Pool, txm *postgres.TxManager) *Repo {
	return &Repo{pool: pool, txm: txm}
}

const eventColumns = `id, workspace_id, user_id, event_type, entity_type, entity_id,
	old_values, new_values, category, severity, source, correlation_id,
	related_entity_type, related_entity_id, context, tags, created_at, is_deleted`

// ---------------------------------------------------------------------------
// Write operations
// ---------------------------------------------------------------------------

// Create appends one event row and returns the persisted record.
func (r *Repo) Create(ctx context.Context, e domain.Event) (domain.Event, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	oldJSON, err := marshalValues(e.OldValues)
	if err != nil {
		return domain.Event{}, fmt.Errorf("event %s marshal old_values: %w", e.ID, err)
	}
	newJSON, err := marshalValues(e.NewValues)
	if err != nil {
		return domain.Event{}, fmt.Errorf("event %s marshal new_values: %w", e.ID, err)
	}
	ctxJSON, err := domain.EncodeEventContext(e.Context)
	if err != nil {
		return domain.Event{}, fmt.Errorf("event %s: %w", e.ID, err)
	}

	var relType *string
	if e.RelatedEntityType != nil {
		s := e.RelatedEntityType.String()
		relType = &s
	}

	tags := e.Tags
	if tags == nil {
		tags = []string{}
	}

	row := q.QueryRow(ctx,
		`INSERT INTO activity_events
		     (id, workspace_id, user_id, event_type, entity_type, entity_id,
		      old_values, new_values, category, severity, source, correlation_id,
		      related_entity_type, related_entity_id, context, tags, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, now())
		 RETURNING `+eventColumns,
		e.ID,
		postgres.UUIDPtrToPg(e.WorkspaceID),
		postgres.UUIDPtrToPg(e.UserID),
		e.EventType, e.EntityType,
		postgres.UUIDPtrToPg(e.EntityID),
		oldJSON, newJSON,
		e.Category, e.Severity, e.Source,
		postgres.UUIDPtrToPg(e.CorrelationID),
		relType,
		postgres.UUIDPtrToPg(e.RelatedEntityID),
		ctxJSON, tags,
	)

	created, err := scanEvent(row)
	if err != nil {
		return domain.Event{}, postgres.MapError(err, "event", e.ID)
	}
	return created, nil
}

// SoftDeleteOlderThan flags events created before the cutoff as deleted.
// The retention policy itself (whether and when to call this) is an
// operational decision; rows are never hard-deleted here.
func (r *Repo) SoftDeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	tag, err := q.Exec(ctx,
		`UPDATE activity_events SET is_deleted = TRUE
		 WHERE created_at < $1 AND NOT is_deleted`,
		cutoff,
	)
	if err != nil {
		return 0, postgres.MapError(err, "event", uuid.Nil)
	}
	return tag.RowsAffected(), nil
}

// ---------------------------------------------------------------------------
// Read operations
// ---------------------------------------------------------------------------

// GetByID returns one event (soft-deleted rows excluded).
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (domain.Event, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	row := q.QueryRow(ctx,
		`SELECT `+eventColumns+` FROM activity_events WHERE id = $1 AND NOT is_deleted`,
		id,
	)

	e, err := scanEvent(row)
	if err != nil {
		return domain.Event{}, postgres.MapError(err, "event", id)
	}
	return e, nil
}

// AuditTrail returns events matching the filter, newest-first. All filter
// fields are optional and combine with AND; soft-deleted events are always
// excluded. The read path cannot mutate anything by construction.
func (r *Repo) AuditTrail(ctx context.Context, f domain.AuditTrailFilter) ([]domain.Event, error) {
	b := psql.Select(prefixed("e")...).
		From("activity_events e").
		Where("NOT e.is_deleted").
		OrderBy("e.created_at DESC").
		Limit(uint64(f.Limit)).
		Offset(uint64(f.Offset))

	if f.WorkspaceID != nil {
		b = b.Where(sq.Eq{"e.workspace_id": *f.WorkspaceID})
	}
	if f.UserID != nil {
		b = b.Where(sq.Eq{"e.user_id": *f.UserID})
	}
	if f.EntityType != nil {
		b = b.Where(sq.Eq{"e.entity_type": f.EntityType.String()})
	}
	if f.EntityID != nil {
		b = b.Where(sq.Eq{"e.entity_id": *f.EntityID})
	}
	if f.Category != nil {
		b = b.Where(sq.Eq{"e.category": f.Category.String()})
	}
	if f.Severity != nil {
		b = b.Where(sq.Eq{"e.severity": f.Severity.String()})
	}
	if f.From != nil {
		b = b.Where(sq.GtOrEq{"e.created_at": *f.From})
	}
	if f.To != nil {
		b = b.Where(sq.LtOrEq{"e.created_at": *f.To})
	}

	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("audit trail build: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("audit trail: %w", err)
	}
	defer rows.Close()

	return scanEvents(rows)
}

// SecurityEvents returns security-category events, newest-first. Optional
// scoping by workspace or acting user.
func (r *Repo) SecurityEvents(ctx context.Context, workspaceID, userID *uuid.UUID, limit, offset int) ([]domain.Event, error) {
	const q = `
SELECT ` + eventColumns + `
FROM activity_events
WHERE NOT is_deleted
  AND category = 'security'
  AND ($1::uuid IS NULL OR workspace_id = $1)
  AND ($2::uuid IS NULL OR user_id = $2)
ORDER BY created_at DESC
LIMIT $3 OFFSET $4`

	rows, err := r.pool.Query(ctx, q, workspaceID, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("security events: %w", err)
	}
	defer rows.Close()

	return scanEvents(rows)
}

// FetchSamples returns slim event projections for a rolling window,
// newest-first, capped at maxEvents. Used by in-memory metrics grouping.
func (r *Repo) FetchSamples(ctx context.Context, workspaceID, userID *uuid.UUID, since time.Time, maxEvents int) ([]domain.EventSample, error) {
	const q = `
SELECT category, entity_type, created_at
FROM activity_events
WHERE NOT is_deleted
  AND created_at >= $1
  AND ($2::uuid IS NULL OR workspace_id = $2)
  AND ($3::uuid IS NULL OR user_id = $3)
ORDER BY created_at DESC
LIMIT $4`

	rows, err := r.pool.Query(ctx, q, since, workspaceID, userID, maxEvents)
	if err != nil {
		return nil, fmt.Errorf("fetch event samples: %w", err)
	}
	defer rows.Close()

	var samples []domain.EventSample
	for rows.Next() {
		var s domain.EventSample
		if err := rows.Scan(&s.Category, &s.EntityType, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("fetch event samples scan: %w", err)
		}
		samples = append(samples, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("fetch event samples rows: %w", err)
	}
	return samples, nil
}

// ---------------------------------------------------------------------------
// Mapping helpers
// ---------------------------------------------------------------------------

func marshalValues(m map[string]any) ([]byte, error) {
	if m == nil {
		return nil, nil
	}
	return json.Marshal(m)
}

func scanEvent(row interface{ Scan(...any) error }) (domain.Event, error) {
	return scanEventWith(row)
}

// scanEventWith scans the shared event column list plus any trailing
// query-specific columns (joined names, computed flags).
func scanEventWith(row interface{ Scan(...any) error }, extra ...any) (domain.Event, error) {
	var (
		e                   domain.Event
		workspaceID, userID pgtype.UUID
		entityID, corrID    pgtype.UUID
		relatedID           pgtype.UUID
		relatedType         *string
		oldJSON, newJSON    []byte
		ctxJSON             []byte
	)

	dest := []any{&e.ID, &workspaceID, &userID, &e.EventType, &e.EntityType,
		&entityID, &oldJSON, &newJSON, &e.Category, &e.Severity, &e.Source,
		&corrID, &relatedType, &relatedID, &ctxJSON, &e.Tags,
		&e.CreatedAt, &e.IsDeleted}
	dest = append(dest, extra...)

	if err := row.Scan(dest...); err != nil {
		return domain.Event{}, err
	}

	e.WorkspaceID = postgres.PgToUUIDPtr(workspaceID)
	e.UserID = postgres.PgToUUIDPtr(userID)
	e.EntityID = postgres.PgToUUIDPtr(entityID)
	e.CorrelationID = postgres.PgToUUIDPtr(corrID)
	e.RelatedEntityID = postgres.PgToUUIDPtr(relatedID)

	if relatedType != nil {
		t := domain.EntityType(*relatedType)
		e.RelatedEntityType = &t
	}

	if len(oldJSON) > 0 {
		if err := json.Unmarshal(oldJSON, &e.OldValues); err != nil {
			return domain.Event{}, fmt.Errorf("event %s unmarshal old_values: %w", e.ID, err)
		}
	}
	if len(newJSON) > 0 {
		if err := json.Unmarshal(newJSON, &e.NewValues); err != nil {
			return domain.Event{}, fmt.Errorf("event %s unmarshal new_values: %w", e.ID, err)
		}
	}

	ec, err := domain.DecodeEventContext(e.EventType, ctxJSON)
	if err != nil {
		return domain.Event{}, fmt.Errorf("event %s: %w", e.ID, err)
	}
	e.Context = ec

	return e, nil
}

func scanEvents(rows pgx.Rows) ([]domain.Event, error) {
	var events []domain.Event
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return events, nil
}

// prefixed qualifies the shared column list with a table alias for joins.
func prefixed(alias string) []string {
	fields := []string{
		"id", "workspace_id", "user_id", "event_type", "entity_type", "entity_id",
		"old_values", "new_values", "category", "severity", "source", "correlation_id",
		"related_entity_type", "related_entity_id", "context", "tags", "created_at", "is_deleted",
	}
	out := make([]string, len(fields))
	for i, f := range fields {
		out[i] = alias + "." + f
	}
	return out
}
