// Package search implements full-text search across workspaces, sections,
// and tasks, with autocomplete suggestions and index statistics.
package search

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/taskhive/taskhive-backend/internal/config"
	"github.com/taskhive/taskhive-backend/internal/domain"
	"github.com/taskhive/taskhive-backend/pkg/ctxutil"
)

type searchRepo interface {
	SearchAll(ctx context.Context, userID uuid.UUID, tsquery string, workspaceID *uuid.UUID, limit, offset int) ([]domain.SearchResult, error)
	SearchTasks(ctx context.Context, userID uuid.UUID, tsquery string, workspaceID *uuid.UUID, filter domain.TaskSearchFilter, limit, offset int) ([]domain.TaskSearchResult, error)
	Suggest(ctx context.Context, userID uuid.UUID, partial string, workspaceID *uuid.UUID, limit int) ([]domain.SearchSuggestion, error)
	IndexStats(ctx context.Context, workspaceID *uuid.UUID) (map[domain.EntityType][2]int, error)
}

type eventLogger interface {
	LogSearchEvent(ctx context.Context, workspaceID *uuid.UUID, sc domain.SearchContext) *uuid.UUID
}

// Service implements search operations. Searches never fail because of event
// logging: the search_performed event is written asynchronously and its
// failures are only logged.
type Service struct {
	log    *slog.Logger
	repo   searchRepo
	events eventLogger
	cfg    config.SearchConfig
}

// NewService creates a new Search service.
func NewService(logger *slog.Logger, repo searchRepo, events eventLogger, cfg config.SearchConfig) *Service {
	return &Service{
		log:    logger.With("service", "search"),
		repo:   repo,
		events: events,
		cfg:    cfg,
	}
}

// SearchAll runs a ranked search across all searchable entity types visible
// to the calling user. An empty or unusable query returns an empty result.
// workspaceID, when non-nil, narrows the search to one workspace.
func (s *Service) SearchAll(ctx context.Context, query string, workspaceID *uuid.UUID, limit, offset int) ([]domain.SearchResult, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	limit = s.clampLimit(limit)
	if offset < 0 {
		offset = 0
	}

	tiers := BuildQueries(query)
	if len(tiers) == 0 {
		return []domain.SearchResult{}, nil
	}

	start := time.Now()

	// The winning tier is resolved on the first page: an offset past the end
	// of that tier's matches returns an empty page instead of falling through
	// to a broader tier, so all pages of one query share one result universe.
	var (
		results []domain.SearchResult
		tier    QueryTier
	)
	for _, tq := range tiers {
		probeLimit := limit
		if offset > 0 {
			probeLimit = 1
		}
		probe, err := s.repo.SearchAll(ctx, userID, tq.Query, workspaceID, probeLimit, 0)
		if err != nil {
			return nil, err
		}
		if len(probe) == 0 {
			continue
		}
		tier = tq.Tier
		results = probe
		if offset > 0 {
			results, err = s.repo.SearchAll(ctx, userID, tq.Query, workspaceID, limit, offset)
			if err != nil {
				return nil, err
			}
		}
		break
	}

	s.logSearchAsync(ctx, workspaceID, domain.SearchContext{
		Query:       query,
		SearchType:  "all",
		Tier:        string(tier),
		ResultCount: len(results),
		DurationMS:  time.Since(start).Milliseconds(),
	})

	if results == nil {
		results = []domain.SearchResult{}
	}
	return results, nil
}

// SearchTasks runs a task-only search combining full-text matching with
// structured filters. A query with no usable tokens but a non-empty filter
// degrades to a pure filter listing ordered by recency.
func (s *Service) SearchTasks(ctx context.Context, query string, workspaceID *uuid.UUID, filter domain.TaskSearchFilter, limit, offset int) ([]domain.TaskSearchResult, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	limit = s.clampLimit(limit)
	if offset < 0 {
		offset = 0
	}

	tiers := BuildQueries(query)
	if len(tiers) == 0 && filter.IsZero() {
		return []domain.TaskSearchResult{}, nil
	}

	start := time.Now()

	var (
		results []domain.TaskSearchResult
		tier    QueryTier
	)
	if len(tiers) == 0 {
		var err error
		results, err = s.repo.SearchTasks(ctx, userID, "", workspaceID, filter, limit, offset)
		if err != nil {
			return nil, err
		}
	} else {
		// Same page-one tier resolution as SearchAll.
		for _, tq := range tiers {
			probeLimit := limit
			if offset > 0 {
				probeLimit = 1
			}
			probe, err := s.repo.SearchTasks(ctx, userID, tq.Query, workspaceID, filter, probeLimit, 0)
			if err != nil {
				return nil, err
			}
			if len(probe) == 0 {
				continue
			}
			tier = tq.Tier
			results = probe
			if offset > 0 {
				results, err = s.repo.SearchTasks(ctx, userID, tq.Query, workspaceID, filter, limit, offset)
				if err != nil {
					return nil, err
				}
			}
			break
		}
	}

	s.logSearchAsync(ctx, workspaceID, domain.SearchContext{
		Query:       query,
		SearchType:  "tasks",
		Tier:        string(tier),
		Filters:     filterSummary(filter),
		ResultCount: len(results),
		DurationMS:  time.Since(start).Milliseconds(),
	})

	if results == nil {
		results = []domain.TaskSearchResult{}
	}
	return results, nil
}

// Suggestions returns ranked autocomplete candidates for a partial input.
// Inputs shorter than 2 characters return an empty list. No event is logged.
func (s *Service) Suggestions(ctx context.Context, partial string, workspaceID *uuid.UUID, limit int) ([]domain.SearchSuggestion, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	trimmed := strings.TrimSpace(partial)
	if len([]rune(trimmed)) < 2 {
		return []domain.SearchSuggestion{}, nil
	}

	if limit <= 0 || limit > s.cfg.SuggestionLimit {
		limit = s.cfg.SuggestionLimit
	}

	suggestions, err := s.repo.Suggest(ctx, userID, trimmed, workspaceID, limit)
	if err != nil {
		return nil, err
	}
	if suggestions == nil {
		suggestions = []domain.SearchSuggestion{}
	}
	return suggestions, nil
}

// Stats reports per-entity-type index coverage, optionally scoped to one
// workspace.
func (s *Service) Stats(ctx context.Context, workspaceID *uuid.UUID) (domain.SearchStats, error) {
	if _, ok := ctxutil.UserIDFromCtx(ctx); !ok {
		return domain.SearchStats{}, domain.ErrUnauthorized
	}

	raw, err := s.repo.IndexStats(ctx, workspaceID)
	if err != nil {
		return domain.SearchStats{}, err
	}

	return domain.SearchStats{
		Workspaces: entityStats(raw[domain.EntityTypeWorkspace]),
		Sections:   entityStats(raw[domain.EntityTypeSection]),
		Tasks:      entityStats(raw[domain.EntityTypeTask]),
	}, nil
}

// logSearchAsync fires the search_performed event without blocking or failing
// the search. The write gets its own deadline detached from the request
// context, so a client disconnect cannot lose the event.
func (s *Service) logSearchAsync(ctx context.Context, workspaceID *uuid.UUID, sc domain.SearchContext) {
	if s.events == nil {
		return
	}

	detached := context.WithoutCancel(ctx)
	timeout := s.cfg.EventLogTimeout
	if timeout <= 0 {
		timeout = 2 * time.Second
	}

	go func() {
		logCtx, cancel := context.WithTimeout(detached, timeout)
		defer cancel()
		s.events.LogSearchEvent(logCtx, workspaceID, sc)
	}()
}

func (s *Service) clampLimit(limit int) int {
	if limit <= 0 {
		return s.cfg.DefaultLimit
	}
	if limit > s.cfg.MaxLimit {
		return s.cfg.MaxLimit
	}
	return limit
}

func entityStats(counts [2]int) domain.EntityIndexStats {
	total, indexed := counts[0], counts[1]
	coverage := 100.0
	if total > 0 {
		coverage = float64(indexed) / float64(total) * 100
	}
	return domain.EntityIndexStats{Total: total, Indexed: indexed, Coverage: coverage}
}

// filterSummary flattens the structured filter for the event payload.
// Only set fields appear.
func filterSummary(f domain.TaskSearchFilter) map[string]any {
	if f.IsZero() {
		return nil
	}
	out := make(map[string]any)
	if f.SectionID != nil {
		out["section_id"] = f.SectionID.String()
	}
	if len(f.Statuses) > 0 {
		statuses := make([]string, len(f.Statuses))
		for i, st := range f.Statuses {
			statuses[i] = st.String()
		}
		out["statuses"] = statuses
	}
	if len(f.Priorities) > 0 {
		priorities := make([]string, len(f.Priorities))
		for i, p := range f.Priorities {
			priorities[i] = p.String()
		}
		out["priorities"] = priorities
	}
	if len(f.Assignees) > 0 {
		assignees := make([]string, len(f.Assignees))
		for i, a := range f.Assignees {
			assignees[i] = a.String()
		}
		out["assignees"] = assignees
	}
	if len(f.Tags) > 0 {
		out["tags"] = f.Tags
	}
	if f.DueFrom != nil {
		out["due_from"] = f.DueFrom.Format("2006-01-02")
	}
	if f.DueTo != nil {
		out["due_to"] = f.DueTo.Format("2006-01-02")
	}
	return out
}

