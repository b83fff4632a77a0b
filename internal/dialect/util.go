package dialect

import (
	"strings"
)

// JoinIndented renders items one per line, each prefixed with indent and
// separated by commas, the layout used for column lists in CREATE TABLE.
func JoinIndented(items []string, indent string) string {
	lines := make([]string, len(items))
	for i, item := range items {
		lines[i] = indent + item
	}
	return strings.Join(lines, ",\n")
}

// DefaultNormalizeType is a default implementation for type normalization (uppercase, trimmed).
func DefaultNormalizeType(sqlType string) string {
	return strings.ToUpper(strings.TrimSpace(sqlType))
}

// QualifiedName prefixes table with schema when schema is set.
func QualifiedName(quote func(string) string, schema, table string) string {
	if schema == "" {
		return quote(table)
	}
	return quote(schema) + "." + quote(table)
}
