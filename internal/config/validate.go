package config

import (
	"fmt"
)

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	if err := c.Search.validate(); err != nil {
		return fmt.Errorf("search: %w", err)
	}
	if err := c.Activity.validate(); err != nil {
		return fmt.Errorf("activity: %w", err)
	}
	return nil
}

func (s *SearchConfig) validate() error {
	if s.DefaultLimit <= 0 {
		return fmt.Errorf("default_limit must be > 0 (got %d)", s.DefaultLimit)
	}
	if s.MaxLimit < s.DefaultLimit {
		return fmt.Errorf("max_limit must be >= default_limit (got %d < %d)", s.MaxLimit, s.DefaultLimit)
	}
	if s.SuggestionLimit <= 0 {
		return fmt.Errorf("suggestion_limit must be > 0 (got %d)", s.SuggestionLimit)
	}
	if s.SnippetMinWords <= 0 {
		return fmt.Errorf("snippet_min_words must be > 0 (got %d)", s.SnippetMinWords)
	}
	if s.SnippetMaxWords < s.SnippetMinWords {
		return fmt.Errorf("snippet_max_words must be >= snippet_min_words (got %d < %d)",
			s.SnippetMaxWords, s.SnippetMinWords)
	}
	if s.EventLogTimeout <= 0 {
		return fmt.Errorf("event_log_timeout must be > 0 (got %v)", s.EventLogTimeout)
	}
	return nil
}

func (a *ActivityConfig) validate() error {
	if a.FeedDefaultLimit <= 0 {
		return fmt.Errorf("feed_default_limit must be > 0 (got %d)", a.FeedDefaultLimit)
	}
	if a.FeedMaxLimit < a.FeedDefaultLimit {
		return fmt.Errorf("feed_max_limit must be >= feed_default_limit (got %d < %d)",
			a.FeedMaxLimit, a.FeedDefaultLimit)
	}
	if a.MetricsMaxEvents <= 0 {
		return fmt.Errorf("metrics_max_events must be > 0 (got %d)", a.MetricsMaxEvents)
	}
	if a.MetricsMaxDays <= 0 {
		return fmt.Errorf("metrics_max_days must be > 0 (got %d)", a.MetricsMaxDays)
	}
	return nil
}
