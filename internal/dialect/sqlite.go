package dialect

import (
	"fmt"
	"strings"
)

type SQLiteDialect struct{}

// MainSchema is the name SQLite gives the database a connection was opened on.
const MainSchema = "main"

func (d *SQLiteDialect) GetTablesQuery() string {
	return `SELECT name FROM sqlite_master WHERE type = 'table'`
}

func (d *SQLiteDialect) GetTableExistsQuery() string {
	// Identifiers are case-insensitive in SQLite.
	return `SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ? COLLATE NOCASE`
}

func (d *SQLiteDialect) GetColumnsQuery() string {
	// pk is the 1-based position within the primary key, 0 for other columns.
	return `SELECT name, type, pk FROM pragma_table_info(?) ORDER BY cid`
}

func (d *SQLiteDialect) CreateTableQuery(table string, cols []ColumnDef, compoundKey []string) string {
	defs := make([]string, 0, len(cols)+1)
	for _, c := range cols {
		def := d.QuoteIdent(c.Name)
		if c.Type != "" {
			def += " " + c.Type
		}
		if c.PrimaryKey {
			def += " PRIMARY KEY"
		}
		defs = append(defs, def)
	}
	if len(compoundKey) > 0 {
		quoted := make([]string, len(compoundKey))
		for i, k := range compoundKey {
			quoted[i] = d.QuoteIdent(k)
		}
		defs = append(defs, fmt.Sprintf("PRIMARY KEY (%s)", strings.Join(quoted, ", ")))
	}
	return fmt.Sprintf("CREATE TABLE %s (\n%s\n)", d.QuoteIdent(table), JoinIndented(defs, "   "))
}

func (d *SQLiteDialect) DropTableQuery(schema, table string, ifExists bool) string {
	if ifExists {
		return fmt.Sprintf("DROP TABLE IF EXISTS %s", QualifiedName(d.QuoteIdent, schema, table))
	}
	return fmt.Sprintf("DROP TABLE %s", QualifiedName(d.QuoteIdent, schema, table))
}

func (d *SQLiteDialect) AttachQuery(alias string) string {
	// The file path is bound as the single parameter.
	return fmt.Sprintf("ATTACH DATABASE ? AS %s", d.QuoteIdent(alias))
}

func (d *SQLiteDialect) DetachQuery(alias string) string {
	return fmt.Sprintf("DETACH DATABASE %s", d.QuoteIdent(alias))
}

func (d *SQLiteDialect) CopyQuery(fromSchema, toSchema, table string) string {
	return fmt.Sprintf("INSERT INTO %s SELECT * FROM %s",
		QualifiedName(d.QuoteIdent, toSchema, table),
		QualifiedName(d.QuoteIdent, fromSchema, table))
}

// NormalizeType maps a declared column type onto TEXT, INTEGER, FLOAT or BLOB
// using SQLite's affinity rules. An empty declaration is treated as TEXT.
func (d *SQLiteDialect) NormalizeType(sqlType string) string {
	t := DefaultNormalizeType(sqlType)
	switch {
	case t == "":
		return "TEXT"
	case strings.Contains(t, "INT"):
		return "INTEGER"
	case strings.Contains(t, "CHAR"), strings.Contains(t, "CLOB"), strings.Contains(t, "TEXT"):
		return "TEXT"
	case strings.Contains(t, "BLOB"):
		return "BLOB"
	default: // REAL, FLOA, DOUB and NUMERIC affinity
		return "FLOAT"
	}
}

// QuoteIdent uses square brackets unless the name itself contains one.
func (d *SQLiteDialect) QuoteIdent(name string) string {
	if !strings.Contains(name, "]") {
		return "[" + name + "]"
	}
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
