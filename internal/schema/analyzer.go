package schema

import (
	"context"
	"database/sql"
	"db-move/internal/dialect"
	"fmt"
	"sort"
)

// ---------------------------------------------------------------------
// 1. Table Listing
// ---------------------------------------------------------------------

// TableNames lists the tables of db in storage order.
func TableNames(ctx context.Context, db *sql.DB, d dialect.Dialect) ([]string, error) {
	rows, err := db.QueryContext(ctx, d.GetTablesQuery())
	if err != nil {
		return nil, fmt.Errorf("failed to query tables: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan table name: %w", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tables: %w", err)
	}
	return names, nil
}

// Exists reports whether a table called name is present right now.
func Exists(ctx context.Context, db *sql.DB, d dialect.Dialect, name string) (bool, error) {
	var n int
	if err := db.QueryRowContext(ctx, d.GetTableExistsQuery(), name).Scan(&n); err != nil {
		return false, fmt.Errorf("failed to check table %s: %w", name, err)
	}
	return n > 0, nil
}

// ---------------------------------------------------------------------
// 2. Table Inspection
// ---------------------------------------------------------------------

// Inspect reads the column and primary key definition of one table.
// A missing table is not an error: the result has Exists set to false.
func Inspect(ctx context.Context, db *sql.DB, d dialect.Dialect, name string) (*Table, error) {
	exists, err := Exists(ctx, db, d, name)
	if err != nil {
		return nil, err
	}
	t := &Table{Name: name, Exists: exists, UsesRowID: true}
	if !exists {
		return t, nil
	}

	rows, err := db.QueryContext(ctx, d.GetColumnsQuery(), name)
	if err != nil {
		return nil, fmt.Errorf("failed to query columns (table: %s): %w", name, err)
	}
	defer rows.Close()

	for rows.Next() {
		var cName string
		var cType sql.NullString
		var pk int
		if err := rows.Scan(&cName, &cType, &pk); err != nil {
			return nil, fmt.Errorf("failed to scan column (table: %s): %w", name, err)
		}
		t.Columns = append(t.Columns, &Column{
			Name:         cName,
			DeclaredType: cType.String,
			DataType:     d.NormalizeType(cType.String),
			IsPK:         pk > 0,
			PKOrdinal:    pk,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating columns (table: %s): %w", name, err)
	}

	t.PrimaryKey = DerivePrimaryKey(t.Columns)
	t.UsesRowID = t.PrimaryKey.Kind == KeyNone
	return t, nil
}

// DerivePrimaryKey builds the primary key from per-column ordinals. Key columns
// are ordered by their position in the declared key, not by column order.
func DerivePrimaryKey(cols []*Column) PrimaryKey {
	var keyCols []*Column
	for _, c := range cols {
		if c.IsPK {
			keyCols = append(keyCols, c)
		}
	}
	sort.SliceStable(keyCols, func(i, j int) bool {
		return keyCols[i].PKOrdinal < keyCols[j].PKOrdinal
	})

	switch len(keyCols) {
	case 0:
		return PrimaryKey{Kind: KeyNone}
	case 1:
		return PrimaryKey{Kind: KeySingle, Columns: []string{keyCols[0].Name}}
	default:
		names := make([]string, len(keyCols))
		for i, c := range keyCols {
			names[i] = c.Name
		}
		return PrimaryKey{Kind: KeyCompound, Columns: names}
	}
}
