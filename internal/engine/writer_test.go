package engine_test

import (
	"context"
	"errors"
	"slices"
	"testing"

	"db-move/internal/engine"
	"db-move/internal/schema"
)

func compoundTable() *schema.Table {
	return &schema.Table{
		Name:   "t1",
		Exists: true,
		Columns: []*schema.Column{
			{Name: "category", DataType: "TEXT", IsPK: true, PKOrdinal: 1},
			{Name: "id", DataType: "INTEGER", IsPK: true, PKOrdinal: 2},
			{Name: "name", DataType: "TEXT"},
		},
		PrimaryKey: schema.PrimaryKey{Kind: schema.KeyCompound, Columns: []string{"category", "id"}},
	}
}

func TestCreateTable(t *testing.T) {
	_, destination := endpoints(t)

	if err := engine.CreateTable(context.Background(), destination, sqliteDialect, compoundTable(), false); err != nil {
		t.Fatalf("CreateTable: %v", err)
	}

	want := "CREATE TABLE [t1] (\n   [category] TEXT,\n   [id] INTEGER,\n   [name] TEXT,\n   PRIMARY KEY ([category], [id])\n)"
	if got := tableSQL(t, destination.DB, "t1"); got != want {
		t.Errorf("schema:\n got: %q\nwant: %q", got, want)
	}
}

func TestCreateTable_ExistingWithoutReplace(t *testing.T) {
	_, destination := endpoints(t)
	mustExec(t, destination.DB, "CREATE TABLE [t1] ([old] TEXT)", "INSERT INTO [t1] VALUES ('keep me')")

	err := engine.CreateTable(context.Background(), destination, sqliteDialect, compoundTable(), false)
	if !errors.Is(err, engine.ErrTableExists) {
		t.Fatalf("expected ErrTableExists, got %v", err)
	}

	if got := tableSQL(t, destination.DB, "t1"); got != "CREATE TABLE [t1] ([old] TEXT)" {
		t.Errorf("existing table was modified: %q", got)
	}
}

func TestCreateTable_Replace(t *testing.T) {
	_, destination := endpoints(t)
	mustExec(t, destination.DB, "CREATE TABLE [t1] ([old] TEXT)", "INSERT INTO [t1] VALUES ('gone')")

	if err := engine.CreateTable(context.Background(), destination, sqliteDialect, compoundTable(), true); err != nil {
		t.Fatalf("CreateTable: %v", err)
	}

	var n int
	if err := destination.DB.QueryRow("SELECT COUNT(*) FROM t1").Scan(&n); err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 0 {
		t.Errorf("replaced table has %d rows, want 0", n)
	}
	if got := tableSet(t, destination.DB); !slices.Equal(got, []string{"t1"}) {
		t.Errorf("destination tables = %v", got)
	}
}

func TestCreateTable_WriteError(t *testing.T) {
	_, destination := endpoints(t)
	mustExec(t, destination.DB, "CREATE VIEW [t1] AS SELECT 1 AS x")

	err := engine.CreateTable(context.Background(), destination, sqliteDialect, compoundTable(), false)

	var werr *engine.WriteError
	if !errors.As(err, &werr) {
		t.Fatalf("expected *WriteError, got %v", err)
	}
	if werr.Table != "t1" || werr.Path != destination.Path {
		t.Errorf("unexpected error fields: %+v", werr)
	}
}
