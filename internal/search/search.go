// Package search turns a free-text query into the keyword filter applied to
// the memo list.
package search

import (
	"strings"
)

// Filter is a parsed keyword query. Every keyword must match the memo title
// or content, case-insensitively.
type Filter struct {
	Keywords []string
}

// ParseQuery splits q on whitespace. A blank query yields the zero Filter.
func ParseQuery(q string) Filter {
	return Filter{Keywords: strings.Fields(q)}
}

// IsZero reports whether the filter matches every memo.
func (f Filter) IsZero() bool {
	return len(f.Keywords) == 0
}

// Where builds an SQL WHERE clause (with leading space) and its bound
// parameters. tableAlias is the SQL alias prefix (e.g. "m"); pass "" for
// unaliased queries. The zero Filter returns an empty clause.
func (f Filter) Where(tableAlias string) (string, []any) {
	if f.IsZero() {
		return "", nil
	}
	prefix := ""
	if tableAlias != "" {
		prefix = tableAlias + "."
	}
	clauses := make([]string, 0, len(f.Keywords))
	params := make([]any, 0, 2*len(f.Keywords))
	for _, kw := range f.Keywords {
		pattern := "%" + escapeLike(strings.ToLower(kw)) + "%"
		clauses = append(clauses,
			"(lower("+prefix+"title) LIKE ? ESCAPE '\\' OR lower(coalesce("+prefix+"content, '')) LIKE ? ESCAPE '\\')")
		params = append(params, pattern, pattern)
	}
	return " WHERE " + strings.Join(clauses, " AND "), params
}

// Matches applies the filter to a title/content pair in memory, with the
// same semantics as the SQL clause.
func (f Filter) Matches(title, content string) bool {
	title = strings.ToLower(title)
	content = strings.ToLower(content)
	for _, kw := range f.Keywords {
		kw = strings.ToLower(kw)
		if !strings.Contains(title, kw) && !strings.Contains(content, kw) {
			return false
		}
	}
	return true
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike escapes LIKE wildcards so keywords match literally.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
