package formatter

import (
	"regexp"
	"sort"
	"strings"

	"charm.land/lipgloss/v2"
)

// Matcher matches filter queries against row text. A query is split into
// whitespace-separated tokens (double quotes group words); a candidate matches
// when every token is a case-insensitive substring of it.
type Matcher struct {
	tokens []string
	re     *regexp.Regexp
}

// TokenizeQuery splits a filter query into tokens. Double-quoted groups stay
// together as a single token; quotes themselves are dropped.
func TokenizeQuery(query string) []string {
	var tokens []string
	var current strings.Builder
	inQuote := false
	for _, r := range query {
		switch {
		case r == '"':
			inQuote = !inQuote
		case r == ' ' && !inQuote:
			if current.Len() > 0 {
				tokens = append(tokens, current.String())
				current.Reset()
			}
		default:
			current.WriteRune(r)
		}
	}
	if current.Len() > 0 {
		tokens = append(tokens, current.String())
	}
	return tokens
}

// NewMatcher builds a Matcher from a filter query. Returns nil for queries
// with no tokens, which callers treat as "match everything".
func NewMatcher(query string) *Matcher {
	tokens := TokenizeQuery(query)
	if len(tokens) == 0 {
		return nil
	}
	parts := make([]string, len(tokens))
	lowered := make([]string, len(tokens))
	for i, tok := range tokens {
		parts[i] = regexp.QuoteMeta(tok)
		lowered[i] = strings.ToLower(tok)
	}
	// Alternation over all tokens, longest first so overlapping tokens
	// highlight their full extent.
	sort.SliceStable(parts, func(i, j int) bool { return len(parts[i]) > len(parts[j]) })
	re := regexp.MustCompile("(?i)" + strings.Join(parts, "|"))
	return &Matcher{tokens: lowered, re: re}
}

// Tokens returns the lower-cased query tokens.
func (m *Matcher) Tokens() []string {
	if m == nil {
		return nil
	}
	return m.tokens
}

// Match reports whether every query token is a substring of the candidate.
// Matching is case-insensitive; the candidate is lower-cased here so callers
// can pass raw row text.
func (m *Matcher) Match(candidate string) bool {
	if m == nil {
		return true
	}
	lowered := strings.ToLower(candidate)
	for _, tok := range m.tokens {
		if !strings.Contains(lowered, tok) {
			return false
		}
	}
	return true
}

// Highlight renders line with baseStyle, switching to matchStyle over every
// token occurrence. Styling is applied per segment so the base style resumes
// after each match despite the ANSI reset matchStyle emits. The input must be
// plain text (no ANSI).
func (m *Matcher) Highlight(line string, matchStyle, baseStyle lipgloss.Style) string {
	if m == nil || line == "" {
		return baseStyle.Render(line)
	}
	locs := m.re.FindAllStringIndex(line, -1)
	if len(locs) == 0 {
		return baseStyle.Render(line)
	}
	var b strings.Builder
	prev := 0
	for _, loc := range locs {
		if loc[0] > prev {
			b.WriteString(baseStyle.Render(line[prev:loc[0]]))
		}
		b.WriteString(matchStyle.Render(line[loc[0]:loc[1]]))
		prev = loc[1]
	}
	if prev < len(line) {
		b.WriteString(baseStyle.Render(line[prev:]))
	}
	return b.String()
}
