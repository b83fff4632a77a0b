package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// DriverName is the database/sql driver registered by modernc.org/sqlite.
const DriverName = "sqlite"

// Options tunes a connection opened by Open.
type Options struct {
	// BusyTimeout is how long a statement waits on a locked database file.
	BusyTimeout time.Duration
}

// Open opens the SQLite database file at path.
//
// The pool is pinned to a single connection so per-connection state, such as
// pragmas and attached databases, belongs to the handle as a whole. The
// journal mode is left at its default: a transaction that spans an attached
// file only commits atomically across both files in rollback-journal mode.
func Open(ctx context.Context, path string, opts Options) (*sql.DB, error) {
	db, err := sql.Open(DriverName, path)
	if err != nil {
		return nil, fmt.Errorf("open database %s: %w", path, err)
	}
	db.SetMaxOpenConns(1)

	if opts.BusyTimeout > 0 {
		pragma := fmt.Sprintf("PRAGMA busy_timeout = %d", opts.BusyTimeout.Milliseconds())
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("set busy timeout on %s: %w", path, err)
		}
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database %s: %w", path, err)
	}

	return db, nil
}
