package engine

import (
	"context"
	"db-move/internal/dialect"
	"db-move/internal/schema"
)

// CreateTable creates an empty copy of t's schema in the destination.
//
// With replace, an existing table of the same name is dropped first, in the
// same transaction. Without it, an existing table is a *TableExistsError.
func CreateTable(ctx context.Context, dst Endpoint, d dialect.Dialect, t *schema.Table, replace bool) error {
	cols, compoundKey := columnDefs(t)
	query := d.CreateTableQuery(t.Name, cols, compoundKey)

	tx, err := dst.DB.BeginTx(ctx, nil)
	if err != nil {
		return &WriteError{Table: t.Name, Path: dst.Path, Err: err}
	}
	defer func() {
		if tx != nil {
			tx.Rollback()
		}
	}()

	if replace {
		if _, err := tx.ExecContext(ctx, d.DropTableQuery("", t.Name, true)); err != nil {
			return &WriteError{Table: t.Name, Path: dst.Path, Err: err}
		}
	} else {
		var n int
		if err := tx.QueryRowContext(ctx, d.GetTableExistsQuery(), t.Name).Scan(&n); err != nil {
			return &WriteError{Table: t.Name, Path: dst.Path, Err: err}
		}
		if n > 0 {
			return &TableExistsError{Table: t.Name, Path: dst.Path}
		}
	}

	if _, err := tx.ExecContext(ctx, query); err != nil {
		return &WriteError{Table: t.Name, Path: dst.Path, Err: err}
	}
	if err := tx.Commit(); err != nil {
		return &WriteError{Table: t.Name, Path: dst.Path, Err: err}
	}
	tx = nil
	return nil
}

// columnDefs renders the key inline for a single-column key and as a
// table-level clause for a compound one. Rowid tables get neither.
func columnDefs(t *schema.Table) ([]dialect.ColumnDef, []string) {
	var single string
	var compound []string
	switch t.PrimaryKey.Kind {
	case schema.KeySingle:
		single = t.PrimaryKey.Columns[0]
	case schema.KeyCompound:
		compound = t.PrimaryKey.Columns
	}

	defs := make([]dialect.ColumnDef, len(t.Columns))
	for i, c := range t.Columns {
		defs[i] = dialect.ColumnDef{
			Name:       c.Name,
			Type:       c.DataType,
			PrimaryKey: single != "" && c.Name == single,
		}
	}
	return defs, compound
}
