package domain

import (
	"time"

	"github.com/google/uuid"
)

// SearchResult is one ranked hit from a multi-entity search.
type SearchResult struct {
	EntityType    EntityType
	EntityID      uuid.UUID
	Title         string
	Description   *string
	WorkspaceID   uuid.UUID
	WorkspaceName string
	SectionID     *uuid.UUID
	SectionName   *string

	// RelevanceScore is non-negative; higher is more relevant.
	RelevanceScore float64

	// ContextSnippet is a bounded excerpt with matched terms wrapped in
	// <mark> tags.
	ContextSnippet string

	// EntityData is the full denormalized payload of the matched row.
	EntityData map[string]any
}

// TaskSearchResult is a task hit with its full task payload.
type TaskSearchResult struct {
	Task           Task
	RelevanceScore float64
	ContextSnippet string
}

// TaskSearchFilter holds the optional structured filters of a task search.
// All filters combine with logical AND; a nil/empty filter is a no-op.
// Tags use overlap semantics: a task matches when its tag set intersects
// the filter set.
type TaskSearchFilter struct {
	SectionID  *uuid.UUID
	Statuses   []TaskStatus
	Priorities []TaskPriority
	Assignees  []uuid.UUID
	Tags       []string
	// DueFrom/DueTo are inclusive date bounds. A reversed range simply
	// matches nothing; the engine does not validate it.
	DueFrom *time.Time
	DueTo   *time.Time
}

// IsZero reports whether no structured filter is set.
func (f TaskSearchFilter) IsZero() bool {
	return f.SectionID == nil && len(f.Statuses) == 0 && len(f.Priorities) == 0 &&
		len(f.Assignees) == 0 && len(f.Tags) == 0 && f.DueFrom == nil && f.DueTo == nil
}

// SearchSuggestion is one autocomplete candidate.
type SearchSuggestion struct {
	Text string
	Kind SuggestionKind
	// EntityCount is the occurrence weight used for ranking.
	EntityCount int
}

// EntityIndexStats reports index coverage for one entity type.
type EntityIndexStats struct {
	Total   int
	Indexed int
	// Coverage is Indexed/Total*100; 100 when Total is 0.
	Coverage float64
}

// SearchStats aggregates index health across entity types.
type SearchStats struct {
	Workspaces EntityIndexStats
	Sections   EntityIndexStats
	Tasks      EntityIndexStats
}
