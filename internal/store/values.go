package store

import (
	"fmt"
	"strings"
)

// quotedList renders values as a Cypher list literal of single-quoted,
// escaped strings, for "WHERE n.col IN [...]" clauses.
func quotedList(values []string) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = "'" + strings.ReplaceAll(v, "'", "\\'") + "'"
	}
	return strings.Join(parts, ", ")
}

// toInt coerces a KuzuDB scalar result value to int. KuzuDB returns
// already-typed Go values (int64, int32, float64, ...); this just picks
// the right case rather than parsing text.
func toInt(v any) int {
	switch n := v.(type) {
	case int64:
		return int(n)
	case int32:
		return int(n)
	case int:
		return n
	case float64:
		return int(n)
	default:
		return 0
	}
}

func toString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", v)
}

func toBool(v any) bool {
	b, _ := v.(bool)
	return b
}
