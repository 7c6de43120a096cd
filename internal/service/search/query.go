package search

import (
	"strings"
	"unicode"
)

// QueryTier identifies one step of the fallback chain used to turn free text
// into a tsquery. Tiers are tried strictest-first; the first tier that yields
// rows wins.
type QueryTier string

const (
	// TierPhrase requires the tokens to appear adjacent and in order.
	TierPhrase QueryTier = "phrase"
	// TierPrefix ANDs all tokens, treating the trailing token as a prefix.
	TierPrefix QueryTier = "prefix"
	// TierAnd is the naive conjunction of all tokens.
	TierAnd QueryTier = "and"
)

// TierQuery is one ready-to-run tsquery string with its tier label.
type TierQuery struct {
	Tier  QueryTier
	Query string
}

// BuildQueries converts raw user input into the ordered tsquery fallback
// chain. Input is sanitized first: anything that is not a letter or digit is
// treated as a separator, so tsquery operators typed by the user (&, |, !, :)
// can never reach to_tsquery. Duplicate query strings are dropped.
//
// An empty slice means the input had no usable tokens; callers treat that as
// an empty search, not an error.
func BuildQueries(raw string) []TierQuery {
	tokens := tokenize(raw)
	if len(tokens) == 0 {
		return nil
	}

	var out []TierQuery
	seen := make(map[string]bool)

	add := func(tier QueryTier, query string) {
		if query == "" || seen[query] {
			return
		}
		seen[query] = true
		out = append(out, TierQuery{Tier: tier, Query: query})
	}

	// A single-token phrase is identical to the plain conjunction, so the
	// phrase tier only exists for multi-token input.
	if len(tokens) > 1 {
		add(TierPhrase, strings.Join(tokens, " <-> "))
	}

	prefix := make([]string, len(tokens))
	copy(prefix, tokens)
	prefix[len(prefix)-1] += ":*"
	add(TierPrefix, strings.Join(prefix, " & "))

	add(TierAnd, strings.Join(tokens, " & "))

	return out
}

// tokenize splits raw input into lowercase alphanumeric tokens.
func tokenize(raw string) []string {
	fields := strings.FieldsFunc(raw, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	for i, f := range fields {
		fields[i] = strings.ToLower(f)
	}
	return fields
}
