package dialect

import "strings"

// Factory returns the appropriate Dialect implementation based on driver name.
// It returns nil for drivers that cannot attach a second database file to a
// connection, which every supported operation relies on.
func GetDialect(driver string) Dialect {
	switch strings.ToLower(driver) {
	case "sqlite", "sqlite3":
		return &SQLiteDialect{}
	default:
		return nil
	}
}

// Ensure interface implementation
var _ Dialect = (*SQLiteDialect)(nil)
