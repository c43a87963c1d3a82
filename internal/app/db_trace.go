package app

import "strings"

// Span attributes have provider-side size limits, so traced SQL is
// collapsed to single-line form and truncated.
const tracedQueryLimit = 512

func formatDBQueryForTrace(query string) string {
	compact := strings.Join(strings.Fields(query), " ")
	if len(compact) <= tracedQueryLimit {
		return compact
	}
	return compact[:tracedQueryLimit] + "..."
}
