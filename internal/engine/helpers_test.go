package engine_test

import (
	"context"
	"database/sql"
	"path/filepath"
	"sort"
	"testing"
	"time"

	"db-move/internal/database"
	"db-move/internal/dialect"
	"db-move/internal/engine"
	"db-move/internal/logging"

	"github.com/brianvoe/gofakeit/v6"
)

var sqliteDialect = dialect.GetDialect(database.DriverName)

func openDB(t *testing.T, path string) *sql.DB {
	t.Helper()
	db, err := database.Open(context.Background(), path, database.Options{BusyTimeout: time.Second})
	if err != nil {
		t.Fatalf("open %s: %v", path, err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func mustExec(t *testing.T, db *sql.DB, stmts ...string) {
	t.Helper()
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			t.Fatalf("exec %q: %v", s, err)
		}
	}
}

// endpoints creates empty origin and destination database files.
func endpoints(t *testing.T) (engine.Endpoint, engine.Endpoint) {
	t.Helper()
	dir := t.TempDir()
	originPath := filepath.Join(dir, "origin.db")
	destinationPath := filepath.Join(dir, "destination.db")
	return engine.Endpoint{DB: openDB(t, originPath), Path: originPath},
		engine.Endpoint{DB: openDB(t, destinationPath), Path: destinationPath}
}

// seedStandard builds origin {foo, bar, common} and destination {common}.
// The two common tables hold different values so a replace is observable.
func seedStandard(t *testing.T, origin, destination engine.Endpoint) {
	t.Helper()
	mustExec(t, origin.DB,
		"CREATE TABLE [foo] ([bar] INTEGER)",
		"INSERT INTO [foo] VALUES (1)",
		"CREATE TABLE [bar] ([baz] INTEGER)",
		"INSERT INTO [bar] VALUES (1)",
		"CREATE TABLE [common] ([bar] INTEGER)",
		"INSERT INTO [common] VALUES (1)",
	)
	mustExec(t, destination.DB,
		"CREATE TABLE [common] ([bar] INTEGER)",
		"INSERT INTO [common] VALUES (99)",
	)
}

// seedPeople creates a people table with n generated rows.
func seedPeople(t *testing.T, db *sql.DB, n int) {
	t.Helper()
	mustExec(t, db, "CREATE TABLE [people] ([id] INTEGER PRIMARY KEY, [name] TEXT, [email] TEXT, [score] REAL)")
	f := gofakeit.New(42)
	for i := 1; i <= n; i++ {
		if _, err := db.Exec("INSERT INTO [people] VALUES (?, ?, ?, ?)",
			i, f.Name(), f.Email(), f.Float64Range(0, 100)); err != nil {
			t.Fatalf("insert person %d: %v", i, err)
		}
	}
}

type person struct {
	ID    int
	Name  string
	Email string
	Score float64
}

func readPeople(t *testing.T, db *sql.DB) []person {
	t.Helper()
	rows, err := db.Query("SELECT id, name, email, score FROM [people] ORDER BY id")
	if err != nil {
		t.Fatalf("query people: %v", err)
	}
	defer rows.Close()

	var out []person
	for rows.Next() {
		var p person
		if err := rows.Scan(&p.ID, &p.Name, &p.Email, &p.Score); err != nil {
			t.Fatalf("scan person: %v", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		t.Fatalf("iterate people: %v", err)
	}
	return out
}

func tableSet(t *testing.T, db *sql.DB) []string {
	t.Helper()
	rows, err := db.Query("SELECT name FROM sqlite_master WHERE type = 'table'")
	if err != nil {
		t.Fatalf("list tables: %v", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			t.Fatalf("scan table: %v", err)
		}
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func tableSQL(t *testing.T, db *sql.DB, table string) string {
	t.Helper()
	var s string
	if err := db.QueryRow("SELECT sql FROM sqlite_master WHERE type = 'table' AND name = ?", table).Scan(&s); err != nil {
		t.Fatalf("schema of %s: %v", table, err)
	}
	return s
}

func intColumn(t *testing.T, db *sql.DB, query string) []int {
	t.Helper()
	rows, err := db.Query(query)
	if err != nil {
		t.Fatalf("query %q: %v", query, err)
	}
	defer rows.Close()

	var out []int
	for rows.Next() {
		var v int
		if err := rows.Scan(&v); err != nil {
			t.Fatalf("scan: %v", err)
		}
		out = append(out, v)
	}
	return out
}

func attachedSchemas(t *testing.T, db *sql.DB) []string {
	t.Helper()
	rows, err := db.Query("SELECT name FROM pragma_database_list")
	if err != nil {
		t.Fatalf("database list: %v", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			t.Fatalf("scan database name: %v", err)
		}
		names = append(names, n)
	}
	return names
}

func newMover() *engine.Mover {
	return engine.NewMover(sqliteDialect, logging.Discard())
}
