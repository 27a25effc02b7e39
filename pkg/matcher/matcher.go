// Package matcher ranks loaded descriptors against free-text user input.
// A descriptor matches when any of its keywords matches the query; the rank
// is the number of keywords that matched, with ties broken by the order the
// descriptors were declared.
package matcher

import (
	"context"
	"sort"
	"strings"

	"github.com/gobwas/glob"

	"github.com/agentpack/agentpack/pkg/logger"
)

// Kind identifies which document type a candidate came from.
type Kind string

// Candidate kinds
const (
	KindAgent   Kind = "agent"
	KindSkill   Kind = "skill"
	KindCommand Kind = "command"
)

// Candidate is a matchable view of a loaded descriptor.
type Candidate struct {
	Name        string
	Kind        Kind
	Description string
	Keywords    []string
}

// Match is a candidate that matched the query, with its computed score and
// the keywords that produced it.
type Match struct {
	Candidate
	Score   int
	Matched []string
}

// Rank returns the candidates matching the query, ordered by descending
// score; candidates with equal scores keep their declaration order. An empty
// query matches nothing. Matching is case-insensitive: plain keywords match
// as substrings of the query, keywords containing glob metacharacters
// ('*', '?', '[') match against individual query words.
func Rank(ctx context.Context, query string, candidates []Candidate) []Match {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return nil
	}

	words := strings.Fields(query)

	var matches []Match
	for _, c := range candidates {
		var matched []string
		for _, kw := range c.Keywords {
			if keywordMatches(ctx, kw, query, words) {
				matched = append(matched, kw)
			}
		}
		if len(matched) > 0 {
			matches = append(matches, Match{
				Candidate: c,
				Score:     len(matched),
				Matched:   matched,
			})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})

	return matches
}

func keywordMatches(ctx context.Context, keyword, query string, words []string) bool {
	keyword = strings.ToLower(strings.TrimSpace(keyword))
	if keyword == "" {
		return false
	}

	if strings.ContainsAny(keyword, "*?[") {
		g, err := glob.Compile(keyword)
		if err != nil {
			logger.G(ctx).WithField("keyword", keyword).WithError(err).Debug("skipping invalid glob keyword")
			return false
		}
		for _, word := range words {
			if g.Match(word) {
				return true
			}
		}
		return false
	}

	return strings.Contains(query, keyword)
}
