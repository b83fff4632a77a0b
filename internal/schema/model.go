package schema

type Table struct {
	Name       string
	Exists     bool
	Columns    []*Column
	UsesRowID  bool // no declared primary key, rows keyed by the implicit rowid
	PrimaryKey PrimaryKey
}

type Column struct {
	Name         string
	DeclaredType string // as written in the source CREATE TABLE
	DataType     string // normalized by the dialect
	IsPK         bool
	PKOrdinal    int // 1-based position within the primary key, 0 when not part of it
}

// KeyKind is the shape of a table's primary key.
type KeyKind int

const (
	KeyNone KeyKind = iota
	KeySingle
	KeyCompound
)

func (k KeyKind) String() string {
	switch k {
	case KeySingle:
		return "single"
	case KeyCompound:
		return "compound"
	default:
		return "rowid"
	}
}

type PrimaryKey struct {
	Kind    KeyKind
	Columns []string
}

// ColumnNames returns the column names in source order.
func (t *Table) ColumnNames() []string {
	names := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = c.Name
	}
	return names
}
