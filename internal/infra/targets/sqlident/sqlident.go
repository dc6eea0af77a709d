// Package sqlident quotes identifiers for the SQL sinks. Column names come
// from free-text template headers, so they are always quoted.
package sqlident

import "strings"

// Quote wraps name in double quotes, doubling embedded quotes. Both SQLite and
// PostgreSQL accept this form.
func Quote(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

func QuoteAll(names []string) []string {
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = Quote(n)
	}
	return out
}

// Qualified returns schema.table, or just table when schema is empty.
func Qualified(schema, table string) string {
	if schema == "" {
		return Quote(table)
	}
	return Quote(schema) + "." + Quote(table)
}
