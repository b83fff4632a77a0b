package dialect

// Dialect abstracts database-specific SQL text.
type Dialect interface {
	// Metadata Queries (Schema Introspection)
	GetTablesQuery() string
	GetTableExistsQuery() string
	GetColumnsQuery() string

	// DDL Generation
	CreateTableQuery(table string, cols []ColumnDef, compoundKey []string) string
	DropTableQuery(schema, table string, ifExists bool) string

	// Cross-database linkage
	AttachQuery(alias string) string
	DetachQuery(alias string) string
	CopyQuery(fromSchema, toSchema, table string) string

	// Helpers
	NormalizeType(sqlType string) string
	QuoteIdent(name string) string
}

// ColumnDef is one column of a CREATE TABLE statement.
type ColumnDef struct {
	Name       string
	Type       string
	PrimaryKey bool // inline single-column key
}
