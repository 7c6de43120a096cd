package activity

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/taskhive/taskhive-backend/internal/domain"
)

// GetUserActivitySummary returns one user's rollup rows for a period window.
func (s *Service) GetUserActivitySummary(ctx context.Context, userID uuid.UUID, periodType domain.PeriodType, from, to time.Time) ([]domain.ActivitySummary, error) {
	if !periodType.IsValid() {
		return nil, domain.NewValidationError("period_type", "invalid value")
	}

	return s.repo.SummariesByFilter(ctx, domain.SummaryFilter{
		PeriodType:  periodType,
		PeriodStart: from,
		PeriodEnd:   to,
		UserID:      &userID,
	})
}

// GetWorkspaceActivityStats returns one workspace's rollup rows for a period
// window.
func (s *Service) GetWorkspaceActivityStats(ctx context.Context, workspaceID uuid.UUID, periodType domain.PeriodType, from, to time.Time) ([]domain.ActivitySummary, error) {
	if !periodType.IsValid() {
		return nil, domain.NewValidationError("period_type", "invalid value")
	}

	return s.repo.SummariesByFilter(ctx, domain.SummaryFilter{
		PeriodType:  periodType,
		PeriodStart: from,
		PeriodEnd:   to,
		WorkspaceID: &workspaceID,
	})
}

// GetActivityMetrics aggregates raw events over a rolling window of the given
// number of days. The window is capped by config, as is the number of events
// fetched, so one call cannot scan an unbounded slice of the log.
func (s *Service) GetActivityMetrics(ctx context.Context, workspaceID, userID *uuid.UUID, days int) (domain.ActivityMetrics, error) {
	if days <= 0 {
		return domain.ActivityMetrics{}, domain.NewValidationError("days", "must be positive")
	}
	if days > s.cfg.MetricsMaxDays {
		days = s.cfg.MetricsMaxDays
	}

	since := s.now().AddDate(0, 0, -days)
	samples, err := s.repo.FetchSamples(ctx, workspaceID, userID, since, s.cfg.MetricsMaxEvents)
	if err != nil {
		return domain.ActivityMetrics{}, fmt.Errorf("activity metrics: %w", err)
	}

	return computeMetrics(samples, days), nil
}

// GetSecurityEvents returns security-category events, newest-first.
func (s *Service) GetSecurityEvents(ctx context.Context, workspaceID, userID *uuid.UUID, limit, offset int) ([]domain.Event, error) {
	limit = s.clampFeedLimit(limit)
	if offset < 0 {
		offset = 0
	}

	events, err := s.repo.SecurityEvents(ctx, workspaceID, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("security events: %w", err)
	}
	if events == nil {
		events = []domain.Event{}
	}
	return events, nil
}

// GetAuditTrail returns events matching the filter, newest-first.
func (s *Service) GetAuditTrail(ctx context.Context, f domain.AuditTrailFilter) ([]domain.Event, error) {
	f.Limit = s.clampFeedLimit(f.Limit)
	if f.Offset < 0 {
		f.Offset = 0
	}

	events, err := s.repo.AuditTrail(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("audit trail: %w", err)
	}
	if events == nil {
		events = []domain.Event{}
	}
	return events, nil
}

// computeMetrics groups samples by category, entity type, and day.
// DailyAverage divides by the requested window, not the observed days, so a
// quiet week genuinely averages low. When two days tie for most active, the
// earlier one wins.
func computeMetrics(samples []domain.EventSample, days int) domain.ActivityMetrics {
	m := domain.ActivityMetrics{
		TotalEvents:       len(samples),
		CategoryBreakdown: make(map[domain.EventCategory]int),
		EntityBreakdown:   make(map[domain.EntityType]int),
	}

	byDay := make(map[time.Time]int)
	for _, sample := range samples {
		m.CategoryBreakdown[sample.Category]++
		m.EntityBreakdown[sample.EntityType]++

		day := sample.CreatedAt.UTC().Truncate(24 * time.Hour)
		byDay[day]++
	}

	m.DailyAverage = float64(len(samples)) / float64(days)

	var best time.Time
	bestCount := 0
	for day, count := range byDay {
		if count > bestCount || (count == bestCount && day.Before(best)) {
			best = day
			bestCount = count
		}
	}
	if bestCount > 0 {
		m.MostActiveDay = &best
	}

	return m
}
