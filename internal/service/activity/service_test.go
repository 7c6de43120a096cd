package activity

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskhive/taskhive-backend/internal/config"
	"github.com/taskhive/taskhive-backend/internal/domain"
	"github.com/taskhive/taskhive-backend/pkg/ctxutil"
)

// ---------------------------------------------------------------------------
// Manual mocks (moq-style with func fields)
// ---------------------------------------------------------------------------

type mockEventRepo struct {
	CreateFunc              func(ctx context.Context, e domain.Event) (domain.Event, error)
	GetByIDFunc             func(ctx context.Context, id uuid.UUID) (domain.Event, error)
	RecentActivityFunc      func(ctx context.Context, f domain.ActivityFeedFilter) ([]domain.ActivityFeedItem, error)
	EntityTimelineFunc      func(ctx context.Context, entityType domain.EntityType, entityID uuid.UUID, limit, offset int) ([]domain.TimelineItem, error)
	AuditTrailFunc          func(ctx context.Context, f domain.AuditTrailFilter) ([]domain.Event, error)
	SecurityEventsFunc      func(ctx context.Context, workspaceID, userID *uuid.UUID, limit, offset int) ([]domain.Event, error)
	FetchSamplesFunc        func(ctx context.Context, workspaceID, userID *uuid.UUID, since time.Time, maxEvents int) ([]domain.EventSample, error)
	SummariesByFilterFunc   func(ctx context.Context, f domain.SummaryFilter) ([]domain.ActivitySummary, error)
	RebuildSummariesFunc    func(ctx context.Context, periodType domain.PeriodType, from, to time.Time) (int64, error)
	SoftDeleteOlderThanFunc func(ctx context.Context, cutoff time.Time) (int64, error)
}

func (m *mockEventRepo) Create(ctx context.Context, e domain.Event) (domain.Event, error) {
	return m.CreateFunc(ctx, e)
}

func (m *mockEventRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Event, error) {
	return m.GetByIDFunc(ctx, id)
}

func (m *mockEventRepo) RecentActivity(ctx context.Context, f domain.ActivityFeedFilter) ([]domain.ActivityFeedItem, error) {
	return m.RecentActivityFunc(ctx, f)
}

func (m *mockEventRepo) EntityTimeline(ctx context.Context, entityType domain.EntityType, entityID uuid.UUID, limit, offset int) ([]domain.TimelineItem, error) {
	return m.EntityTimelineFunc(ctx, entityType, entityID, limit, offset)
}

func (m *mockEventRepo) AuditTrail(ctx context.Context, f domain.AuditTrailFilter) ([]domain.Event, error) {
	return m.AuditTrailFunc(ctx, f)
}

func (m *mockEventRepo) SecurityEvents(ctx context.Context, workspaceID, userID *uuid.UUID, limit, offset int) ([]domain.Event, error) {
	return m.SecurityEventsFunc(ctx, workspaceID, userID, limit, offset)
}

func (m *mockEventRepo) FetchSamples(ctx context.Context, workspaceID, userID *uuid.UUID, since time.Time, maxEvents int) ([]domain.EventSample, error) {
	return m.FetchSamplesFunc(ctx, workspaceID, userID, since, maxEvents)
}

func (m *mockEventRepo) SummariesByFilter(ctx context.Context, f domain.SummaryFilter) ([]domain.ActivitySummary, error) {
	return m.SummariesByFilterFunc(ctx, f)
}

func (m *mockEventRepo) RebuildSummaries(ctx context.Context, periodType domain.PeriodType, from, to time.Time) (int64, error) {
	return m.RebuildSummariesFunc(ctx, periodType, from, to)
}

func (m *mockEventRepo) SoftDeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	return m.SoftDeleteOlderThanFunc(ctx, cutoff)
}

// capturingRepo records created events and echoes them back.
func capturingRepo(created *[]domain.Event) *mockEventRepo {
	return &mockEventRepo{
		CreateFunc: func(_ context.Context, e domain.Event) (domain.Event, error) {
			*created = append(*created, e)
			return e, nil
		},
	}
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func testConfig() config.ActivityConfig {
	return config.ActivityConfig{
		FeedDefaultLimit: 20,
		FeedMaxLimit:     100,
		MetricsMaxEvents: 10000,
		MetricsMaxDays:   365,
	}
}

func newTestService(repo *mockEventRepo) *Service {
	return NewService(slog.Default(), repo, testConfig())
}

func makeTask() domain.Task {
	return domain.Task{
		ID:          uuid.New(),
		WorkspaceID: uuid.New(),
		SectionID:   uuid.New(),
		Title:       "Ship release",
		Status:      domain.StatusTodo,
		Priority:    domain.PriorityMedium,
		Tags:        []string{"release"},
	}
}

// ---------------------------------------------------------------------------
// LogEvent tests
// ---------------------------------------------------------------------------

func TestLogEvent_Defaults(t *testing.T) {
	t.Parallel()

	var created []domain.Event
	svc := newTestService(capturingRepo(&created))

	userID := uuid.New()
	ctx := ctxutil.WithUserID(context.Background(), userID)

	id := svc.LogEvent(ctx, LogEventInput{EntityType: domain.EntityTypeTask})

	require.NotNil(t, id)
	require.Len(t, created, 1)
	e := created[0]
	assert.Equal(t, domain.EventTypeUpdated, e.EventType)
	assert.Equal(t, domain.CategoryUserAction, e.Category)
	assert.Equal(t, domain.SeverityInfo, e.Severity)
	assert.Equal(t, domain.SourceWeb, e.Source)
	require.NotNil(t, e.UserID)
	assert.Equal(t, userID, *e.UserID)
}

func TestLogEvent_SourceFromContext(t *testing.T) {
	t.Parallel()

	var created []domain.Event
	svc := newTestService(capturingRepo(&created))

	ctx := ctxutil.WithSource(context.Background(), "mobile")
	id := svc.LogEvent(ctx, LogEventInput{EntityType: domain.EntityTypeTask})

	require.NotNil(t, id)
	assert.Equal(t, domain.SourceMobile, created[0].Source)
}

func TestLogEvent_MissingEntityType(t *testing.T) {
	t.Parallel()

	repoCalled := false
	repo := &mockEventRepo{
		CreateFunc: func(_ context.Context, e domain.Event) (domain.Event, error) {
			repoCalled = true
			return e, nil
		},
	}
	svc := newTestService(repo)

	id := svc.LogEvent(context.Background(), LogEventInput{})

	assert.Nil(t, id, "invalid input yields a nil ID, not an error")
	assert.False(t, repoCalled)
}

func TestLogEvent_WriteFailureReturnsNil(t *testing.T) {
	t.Parallel()

	repo := &mockEventRepo{
		CreateFunc: func(_ context.Context, _ domain.Event) (domain.Event, error) {
			return domain.Event{}, errors.New("db down")
		},
	}
	svc := newTestService(repo)

	id := svc.LogEvent(context.Background(), LogEventInput{EntityType: domain.EntityTypeTask})

	assert.Nil(t, id, "a failed write must not surface as an error")
}

func TestLogBatch_SharedCorrelation(t *testing.T) {
	t.Parallel()

	var created []domain.Event
	svc := newTestService(capturingRepo(&created))

	ids := svc.LogBatch(context.Background(), []LogEventInput{
		{EntityType: domain.EntityTypeTask},
		{EntityType: domain.EntityTypeSection},
		{}, // invalid, yields a nil slot
	})

	require.Len(t, ids, 3)
	assert.NotNil(t, ids[0])
	assert.NotNil(t, ids[1])
	assert.Nil(t, ids[2])

	require.Len(t, created, 2)
	require.NotNil(t, created[0].CorrelationID)
	require.NotNil(t, created[1].CorrelationID)
	assert.Equal(t, *created[0].CorrelationID, *created[1].CorrelationID)
}

// ---------------------------------------------------------------------------
// DeriveTaskEvent tests
// ---------------------------------------------------------------------------

func TestDeriveTaskEvent_Completed(t *testing.T) {
	t.Parallel()

	oldTask := makeTask()
	newTask := oldTask
	newTask.Status = domain.StatusDone

	eventType, changeCtx, changed := DeriveTaskEvent(oldTask, newTask)

	assert.True(t, changed)
	assert.Equal(t, domain.EventTypeCompleted, eventType)
	require.NotNil(t, changeCtx.PreviousStatus)
	assert.Equal(t, domain.StatusTodo, *changeCtx.PreviousStatus)
	require.NotNil(t, changeCtx.NewStatus)
	assert.Equal(t, domain.StatusDone, *changeCtx.NewStatus)
}

func TestDeriveTaskEvent_StatusBeatsAssignee(t *testing.T) {
	t.Parallel()

	assignee := uuid.New()
	oldTask := makeTask()
	newTask := oldTask
	newTask.Status = domain.StatusInProgress
	newTask.AssigneeID = &assignee

	eventType, changeCtx, changed := DeriveTaskEvent(oldTask, newTask)

	assert.True(t, changed)
	assert.Equal(t, domain.EventTypeStatusChanged, eventType)
	// The context still records the assignee change even though the event
	// type reflects the status change.
	require.NotNil(t, changeCtx.NewAssignee)
	assert.Equal(t, assignee, *changeCtx.NewAssignee)
}

func TestDeriveTaskEvent_AssigneeTransitions(t *testing.T) {
	t.Parallel()

	userA := uuid.New()
	userB := uuid.New()

	tests := []struct {
		name string
		old  *uuid.UUID
		new  *uuid.UUID
		want domain.EventType
	}{
		{"assigned", nil, &userA, domain.EventTypeAssigned},
		{"unassigned", &userA, nil, domain.EventTypeUnassigned},
		{"reassigned", &userA, &userB, domain.EventTypeReassigned},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			oldTask := makeTask()
			oldTask.AssigneeID = tt.old
			newTask := oldTask
			newTask.AssigneeID = tt.new

			eventType, _, changed := DeriveTaskEvent(oldTask, newTask)
			assert.True(t, changed)
			assert.Equal(t, tt.want, eventType)
		})
	}
}

func TestDeriveTaskEvent_Moved(t *testing.T) {
	t.Parallel()

	oldTask := makeTask()
	newTask := oldTask
	newTask.SectionID = uuid.New()

	eventType, changeCtx, changed := DeriveTaskEvent(oldTask, newTask)

	assert.True(t, changed)
	assert.Equal(t, domain.EventTypeMoved, eventType)
	require.NotNil(t, changeCtx.PreviousSection)
	assert.Equal(t, oldTask.SectionID, *changeCtx.PreviousSection)
}

func TestDeriveTaskEvent_PlainUpdate(t *testing.T) {
	t.Parallel()

	oldTask := makeTask()
	newTask := oldTask
	newTask.Title = "Ship release v2"

	eventType, _, changed := DeriveTaskEvent(oldTask, newTask)

	assert.True(t, changed)
	assert.Equal(t, domain.EventTypeUpdated, eventType)
}

func TestDeriveTaskEvent_NoChange(t *testing.T) {
	t.Parallel()

	task := makeTask()

	_, _, changed := DeriveTaskEvent(task, task)
	assert.False(t, changed)
}

func TestLogTaskUpdate_NoChangeLogsNothing(t *testing.T) {
	t.Parallel()

	var created []domain.Event
	svc := newTestService(capturingRepo(&created))

	task := makeTask()
	id := svc.LogTaskUpdate(context.Background(), task, task)

	assert.Nil(t, id)
	assert.Empty(t, created)
}

func TestLogTaskUpdate_CarriesDiffAndSection(t *testing.T) {
	t.Parallel()

	var created []domain.Event
	svc := newTestService(capturingRepo(&created))

	oldTask := makeTask()
	newTask := oldTask
	newTask.Priority = domain.PriorityUrgent

	id := svc.LogTaskUpdate(context.Background(), oldTask, newTask)

	require.NotNil(t, id)
	require.Len(t, created, 1)
	e := created[0]
	assert.Equal(t, domain.EventTypeUpdated, e.EventType)
	assert.Equal(t, "medium", e.OldValues["priority"])
	assert.Equal(t, "urgent", e.NewValues["priority"])
	require.NotNil(t, e.RelatedEntityType)
	assert.Equal(t, domain.EntityTypeSection, *e.RelatedEntityType)
	require.NotNil(t, e.RelatedEntityID)
	assert.Equal(t, newTask.SectionID, *e.RelatedEntityID)
}

// ---------------------------------------------------------------------------
// Auth / search / error wrappers
// ---------------------------------------------------------------------------

func TestLogAuthEvent_SecurityAndClientInfo(t *testing.T) {
	t.Parallel()

	var created []domain.Event
	svc := newTestService(capturingRepo(&created))

	ctx := ctxutil.WithClientInfo(context.Background(), "203.0.113.9", "curl/8.0")
	userID := uuid.New()

	id := svc.LogAuthEvent(ctx, domain.EventTypeLoginFailed, userID, "bad password")

	require.NotNil(t, id)
	e := created[0]
	assert.Equal(t, domain.CategorySecurity, e.Category)
	assert.Equal(t, domain.SeverityWarning, e.Severity)

	authCtx, ok := e.Context.(domain.AuthContext)
	require.True(t, ok)
	assert.Equal(t, "203.0.113.9", authCtx.IPAddress)
	assert.Equal(t, "curl/8.0", authCtx.UserAgent)
	assert.Equal(t, "bad password", authCtx.Reason)
}

func TestLogError_Severity(t *testing.T) {
	t.Parallel()

	var created []domain.Event
	svc := newTestService(capturingRepo(&created))

	id := svc.LogError(context.Background(), nil, "E42", "sync failed", "")

	require.NotNil(t, id)
	e := created[0]
	assert.Equal(t, domain.EventTypeErrorOccurred, e.EventType)
	assert.Equal(t, domain.CategoryError, e.Category)
	assert.Equal(t, domain.SeverityError, e.Severity)
}

// ---------------------------------------------------------------------------
// Feed tests
// ---------------------------------------------------------------------------

func TestGetRecentActivity_Descriptions(t *testing.T) {
	t.Parallel()

	actor := "Alice"
	repo := &mockEventRepo{
		RecentActivityFunc: func(_ context.Context, _ domain.ActivityFeedFilter) ([]domain.ActivityFeedItem, error) {
			return []domain.ActivityFeedItem{
				{
					Event: domain.Event{
						EventType:  domain.EventTypeCompleted,
						EntityType: domain.EntityTypeTask,
						NewValues:  map[string]any{"title": "Ship release"},
					},
					UserName: &actor,
				},
				{
					Event: domain.Event{
						EventType:  domain.EventType("unknown_future_type"),
						EntityType: domain.EntityTypeTask,
					},
					UserName: &actor,
				},
			}, nil
		},
	}
	svc := newTestService(repo)

	items, err := svc.GetRecentActivity(context.Background(), domain.ActivityFeedFilter{})

	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, `Alice completed task "Ship release"`, items[0].Description)
	assert.Contains(t, items[1].Description, "Alice performed unknown_future_type",
		"unknown event types fall back to a generic phrasing")
}

func TestGetRecentActivity_MissingActor(t *testing.T) {
	t.Parallel()

	repo := &mockEventRepo{
		RecentActivityFunc: func(_ context.Context, _ domain.ActivityFeedFilter) ([]domain.ActivityFeedItem, error) {
			return []domain.ActivityFeedItem{
				{Event: domain.Event{
					EventType:  domain.EventTypeCreated,
					EntityType: domain.EntityTypeWorkspace,
					NewValues:  map[string]any{"name": "Apollo"},
				}},
			}, nil
		},
	}
	svc := newTestService(repo)

	items, err := svc.GetRecentActivity(context.Background(), domain.ActivityFeedFilter{})

	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, `someone created workspace "Apollo"`, items[0].Description)
}

func TestGetRecentActivity_ClampsLimit(t *testing.T) {
	t.Parallel()

	var gotLimit int
	repo := &mockEventRepo{
		RecentActivityFunc: func(_ context.Context, f domain.ActivityFeedFilter) ([]domain.ActivityFeedItem, error) {
			gotLimit = f.Limit
			return nil, nil
		},
	}
	svc := newTestService(repo)

	_, err := svc.GetRecentActivity(context.Background(), domain.ActivityFeedFilter{Limit: 5000})
	require.NoError(t, err)
	assert.Equal(t, 100, gotLimit)

	_, err = svc.GetRecentActivity(context.Background(), domain.ActivityFeedFilter{})
	require.NoError(t, err)
	assert.Equal(t, 20, gotLimit)
}

// ---------------------------------------------------------------------------
// Metrics tests
// ---------------------------------------------------------------------------

func TestGetActivityMetrics_Grouping(t *testing.T) {
	t.Parallel()

	day1 := time.Date(2026, 8, 10, 9, 0, 0, 0, time.UTC)
	day2 := time.Date(2026, 8, 11, 9, 0, 0, 0, time.UTC)
	day3 := time.Date(2026, 8, 12, 9, 0, 0, 0, time.UTC)

	var samples []domain.EventSample
	addSamples := func(day time.Time, n int, cat domain.EventCategory) {
		for i := 0; i < n; i++ {
			samples = append(samples, domain.EventSample{
				Category:   cat,
				EntityType: domain.EntityTypeTask,
				CreatedAt:  day.Add(time.Duration(i) * time.Minute),
			})
		}
	}
	addSamples(day1, 50, domain.CategoryUserAction)
	addSamples(day2, 70, domain.CategoryUserAction)
	addSamples(day3, 30, domain.CategorySystem)

	repo := &mockEventRepo{
		FetchSamplesFunc: func(_ context.Context, _, _ *uuid.UUID, _ time.Time, _ int) ([]domain.EventSample, error) {
			return samples, nil
		},
	}
	svc := newTestService(repo)

	metrics, err := svc.GetActivityMetrics(context.Background(), nil, nil, 3)

	require.NoError(t, err)
	assert.Equal(t, 150, metrics.TotalEvents)
	assert.InDelta(t, 50.0, metrics.DailyAverage, 0.001)
	require.NotNil(t, metrics.MostActiveDay)
	assert.Equal(t, day2.Truncate(24*time.Hour), *metrics.MostActiveDay)
	assert.Equal(t, 120, metrics.CategoryBreakdown[domain.CategoryUserAction])
	assert.Equal(t, 30, metrics.CategoryBreakdown[domain.CategorySystem])
	assert.Equal(t, 150, metrics.EntityBreakdown[domain.EntityTypeTask])
}

func TestGetActivityMetrics_TieBreaksEarlier(t *testing.T) {
	t.Parallel()

	day1 := time.Date(2026, 8, 10, 0, 0, 0, 0, time.UTC)
	day2 := time.Date(2026, 8, 11, 0, 0, 0, 0, time.UTC)

	repo := &mockEventRepo{
		FetchSamplesFunc: func(_ context.Context, _, _ *uuid.UUID, _ time.Time, _ int) ([]domain.EventSample, error) {
			return []domain.EventSample{
				{Category: domain.CategoryUserAction, EntityType: domain.EntityTypeTask, CreatedAt: day2},
				{Category: domain.CategoryUserAction, EntityType: domain.EntityTypeTask, CreatedAt: day1},
			}, nil
		},
	}
	svc := newTestService(repo)

	metrics, err := svc.GetActivityMetrics(context.Background(), nil, nil, 7)

	require.NoError(t, err)
	require.NotNil(t, metrics.MostActiveDay)
	assert.Equal(t, day1, *metrics.MostActiveDay)
}

func TestGetActivityMetrics_Empty(t *testing.T) {
	t.Parallel()

	repo := &mockEventRepo{
		FetchSamplesFunc: func(_ context.Context, _, _ *uuid.UUID, _ time.Time, _ int) ([]domain.EventSample, error) {
			return nil, nil
		},
	}
	svc := newTestService(repo)

	metrics, err := svc.GetActivityMetrics(context.Background(), nil, nil, 7)

	require.NoError(t, err)
	assert.Equal(t, 0, metrics.TotalEvents)
	assert.Equal(t, 0.0, metrics.DailyAverage)
	assert.Nil(t, metrics.MostActiveDay)
}

func TestGetActivityMetrics_InvalidDays(t *testing.T) {
	t.Parallel()

	svc := newTestService(&mockEventRepo{})

	_, err := svc.GetActivityMetrics(context.Background(), nil, nil, 0)
	require.ErrorIs(t, err, domain.ErrValidation)
}

func TestGetActivityMetrics_CapsDays(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	var gotSince time.Time
	repo := &mockEventRepo{
		FetchSamplesFunc: func(_ context.Context, _, _ *uuid.UUID, since time.Time, _ int) ([]domain.EventSample, error) {
			gotSince = since
			return nil, nil
		},
	}
	svc := newTestService(repo)
	svc.now = func() time.Time { return now }

	_, err := svc.GetActivityMetrics(context.Background(), nil, nil, 100000)

	require.NoError(t, err)
	assert.Equal(t, now.AddDate(0, 0, -365), gotSince)
}

// ---------------------------------------------------------------------------
// Maintenance tests
// ---------------------------------------------------------------------------

func TestRebuildSummaries_Validation(t *testing.T) {
	t.Parallel()

	svc := newTestService(&mockEventRepo{})
	from := time.Now()

	_, err := svc.RebuildSummaries(context.Background(), domain.PeriodType("decade"), from, from.Add(time.Hour))
	require.ErrorIs(t, err, domain.ErrValidation)

	_, err = svc.RebuildSummaries(context.Background(), domain.PeriodDay, from, from)
	require.ErrorIs(t, err, domain.ErrValidation)
}

func TestExpireOldEvents_Cutoff(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	var gotCutoff time.Time
	repo := &mockEventRepo{
		SoftDeleteOlderThanFunc: func(_ context.Context, cutoff time.Time) (int64, error) {
			gotCutoff = cutoff
			return 12, nil
		},
	}
	svc := newTestService(repo)
	svc.now = func() time.Time { return now }

	n, err := svc.ExpireOldEvents(context.Background(), 90*24*time.Hour)

	require.NoError(t, err)
	assert.Equal(t, int64(12), n)
	assert.Equal(t, now.Add(-90*24*time.Hour), gotCutoff)
}
