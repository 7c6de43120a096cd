// Package activity implements the append-only event log and everything read
// from it: the activity feed, per-entity timelines, periodic summaries,
// metrics, and security/audit views.
package activity

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/taskhive/taskhive-backend/internal/config"
	"github.com/taskhive/taskhive-backend/internal/domain"
)

type eventRepo interface {
	Create(ctx context.Context, e domain.Event) (domain.Event, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.Event, error)
	RecentActivity(ctx context.Context, f domain.ActivityFeedFilter) ([]domain.ActivityFeedItem, error)
	EntityTimeline(ctx context.Context, entityType domain.EntityType, entityID uuid.UUID, limit, offset int) ([]domain.TimelineItem, error)
	AuditTrail(ctx context.Context, f domain.AuditTrailFilter) ([]domain.Event, error)
	SecurityEvents(ctx context.Context, workspaceID, userID *uuid.UUID, limit, offset int) ([]domain.Event, error)
	FetchSamples(ctx context.Context, workspaceID, userID *uuid.UUID, since time.Time, maxEvents int) ([]domain.EventSample, error)
	SummariesByFilter(ctx context.Context, f domain.SummaryFilter) ([]domain.ActivitySummary, error)
	RebuildSummaries(ctx context.Context, periodType domain.PeriodType, from, to time.Time) (int64, error)
	SoftDeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// Service implements event logging and activity reads. Logging never returns
// an error to the caller: a failed event write is logged and swallowed so the
// triggering operation is unaffected.
type Service struct {
	log  *slog.Logger
	repo eventRepo
	cfg  config.ActivityConfig

	// now is replaceable in tests.
	now func() time.Time
}

// NewService creates a new Activity service.
func NewService(logger *slog.Logger, repo eventRepo, cfg config.ActivityConfig) *Service {
	return &Service{
		log:  logger.With("service", "activity"),
		repo: repo,
		cfg:  cfg,
		now:  time.Now,
	}
}

// GetEvent returns one event by ID.
func (s *Service) GetEvent(ctx context.Context, id uuid.UUID) (domain.Event, error) {
	return s.repo.GetByID(ctx, id)
}

// RebuildSummaries recomputes rollup rows for one period granularity over the
// given window. Safe to re-run; the window is replaced atomically.
func (s *Service) RebuildSummaries(ctx context.Context, periodType domain.PeriodType, from, to time.Time) (int64, error) {
	if !periodType.IsValid() {
		return 0, domain.NewValidationError("period_type", "invalid value")
	}
	if !to.After(from) {
		return 0, domain.NewValidationError("to", "must be after from")
	}

	n, err := s.repo.RebuildSummaries(ctx, periodType, from, to)
	if err != nil {
		return 0, err
	}

	s.log.InfoContext(ctx, "summaries rebuilt",
		slog.String("period_type", periodType.String()),
		slog.Time("from", from),
		slog.Time("to", to),
		slog.Int64("rows", n),
	)
	return n, nil
}

// ExpireOldEvents soft-deletes events older than the retention cutoff.
// Rows stay on disk; they just drop out of every read path.
func (s *Service) ExpireOldEvents(ctx context.Context, retention time.Duration) (int64, error) {
	if retention <= 0 {
		return 0, domain.NewValidationError("retention", "must be positive")
	}

	cutoff := s.now().Add(-retention)
	n, err := s.repo.SoftDeleteOlderThan(ctx, cutoff)
	if err != nil {
		return 0, err
	}

	if n > 0 {
		s.log.InfoContext(ctx, "expired old events",
			slog.Time("cutoff", cutoff),
			slog.Int64("events", n),
		)
	}
	return n, nil
}

func (s *Service) clampFeedLimit(limit int) int {
	if limit <= 0 {
		return s.cfg.FeedDefaultLimit
	}
	if limit > s.cfg.FeedMaxLimit {
		return s.cfg.FeedMaxLimit
	}
	return limit
}
