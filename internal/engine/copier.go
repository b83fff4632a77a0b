package engine

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"db-move/internal/dialect"
	"log/slog"
)

// DestinationAlias is the schema name the destination file is attached under
// on the origin connection.
const DestinationAlias = "destination"

// Linkage is a destination file attached to one pinned origin connection.
// Close must be called on every path; it detaches and releases the connection.
type Linkage struct {
	conn   *sql.Conn
	d      dialect.Dialect
	path   string
	logger *slog.Logger
}

// Attach pins a connection from the origin pool and attaches destinationPath
// to it under DestinationAlias.
func Attach(ctx context.Context, origin Endpoint, destinationPath string, d dialect.Dialect, logger *slog.Logger) (*Linkage, error) {
	conn, err := origin.DB.Conn(ctx)
	if err != nil {
		return nil, err
	}
	if _, err := conn.ExecContext(ctx, d.AttachQuery(DestinationAlias), destinationPath); err != nil {
		conn.Close()
		return nil, err
	}
	logger.Debug("attached destination", "path", destinationPath, "alias", DestinationAlias)
	return &Linkage{conn: conn, d: d, path: destinationPath, logger: logger}, nil
}

// Close detaches the destination. If the detach fails the connection is
// discarded rather than returned to the pool, so the attachment cannot
// outlive the call.
func (l *Linkage) Close() error {
	// DETACH runs outside any transaction and must not be skipped on cancel.
	if _, err := l.conn.ExecContext(context.Background(), l.d.DetachQuery(DestinationAlias)); err != nil {
		l.logger.Warn("detach failed, discarding connection", "path", l.path, "error", err)
		// Returning ErrBadConn from Raw closes the Conn and its driver connection.
		l.conn.Raw(func(any) error { return driver.ErrBadConn })
		return err
	}
	l.logger.Debug("detached destination", "path", l.path)
	return l.conn.Close()
}

// CopyTx is the transaction that moves one table's rows.
type CopyTx struct {
	tx    *sql.Tx
	d     dialect.Dialect
	table string
	path  string
}

// Begin opens the per-table transaction on the linked connection.
func (l *Linkage) Begin(ctx context.Context, table string) (*CopyTx, error) {
	tx, err := l.conn.BeginTx(ctx, nil)
	if err != nil {
		return nil, &CopyError{Table: table, Path: l.path, Op: "begin", Err: err}
	}
	return &CopyTx{tx: tx, d: l.d, table: table, path: l.path}, nil
}

// Copy inserts every origin row into the destination table of the same name.
func (c *CopyTx) Copy(ctx context.Context) error {
	query := c.d.CopyQuery(dialect.MainSchema, DestinationAlias, c.table)
	if _, err := c.tx.ExecContext(ctx, query); err != nil {
		return &CopyError{Table: c.table, Path: c.path, Op: "copy", Err: err}
	}
	return nil
}

// DropOrigin drops the origin table inside the same transaction as the copy.
func (c *CopyTx) DropOrigin(ctx context.Context) error {
	if _, err := c.tx.ExecContext(ctx, c.d.DropTableQuery(dialect.MainSchema, c.table, false)); err != nil {
		return &CopyError{Table: c.table, Path: c.path, Op: "drop", Err: err}
	}
	return nil
}

func (c *CopyTx) Commit() error {
	if err := c.tx.Commit(); err != nil {
		return &CopyError{Table: c.table, Path: c.path, Op: "commit", Err: err}
	}
	return nil
}

// Rollback is a no-op after a successful Commit.
func (c *CopyTx) Rollback() {
	c.tx.Rollback()
}

// copyRun is one table's copy sequence on a linked connection: attach,
// begin, copy, optionally drop, then commit and detach. Both CopyTable and
// the Mover's state machine drive a table through it.
type copyRun struct {
	link   *Linkage
	txn    *CopyTx
	table  string
	path   string
	logger *slog.Logger
}

// startCopy attaches the destination and copies table's rows inside an open
// transaction. On failure nothing is left attached or open.
func startCopy(ctx context.Context, origin Endpoint, destinationPath string, d dialect.Dialect, table string, logger *slog.Logger) (*copyRun, error) {
	link, err := Attach(ctx, origin, destinationPath, d, logger)
	if err != nil {
		return nil, &CopyError{Table: table, Path: destinationPath, Op: "attach", Err: err}
	}
	r := &copyRun{link: link, table: table, path: destinationPath, logger: logger}

	if r.txn, err = link.Begin(ctx, table); err != nil {
		r.abort()
		return nil, err
	}
	if err := r.txn.Copy(ctx); err != nil {
		r.abort()
		return nil, err
	}
	return r, nil
}

func (r *copyRun) dropOrigin(ctx context.Context) error {
	return r.txn.DropOrigin(ctx)
}

// finish commits the transaction and detaches the destination.
func (r *copyRun) finish() error {
	if err := r.txn.Commit(); err != nil {
		return err
	}
	r.txn = nil
	link := r.link
	r.link = nil
	if err := link.Close(); err != nil {
		return &CopyError{Table: r.table, Path: r.path, Op: "detach", Err: err}
	}
	return nil
}

// abort rolls back and detaches whatever finish has not already released.
// It is safe to call after finish.
func (r *copyRun) abort() {
	if r.txn != nil {
		r.txn.Rollback()
		r.txn = nil
	}
	if r.link != nil {
		if err := r.link.Close(); err != nil {
			r.logger.Warn("failed to release destination linkage", "table", r.table, "error", err)
		}
		r.link = nil
	}
}

// CopyTable copies table from origin into the destination file and, unless
// keep is set, drops it from origin. Copy and drop share one transaction, so
// a failure in either leaves both databases as they were for this table.
// The destination table must already exist.
func CopyTable(ctx context.Context, origin Endpoint, destinationPath string, d dialect.Dialect, table string, keep bool, logger *slog.Logger) error {
	run, err := startCopy(ctx, origin, destinationPath, d, table, logger)
	if err != nil {
		return err
	}
	defer run.abort()

	if !keep {
		if err := run.dropOrigin(ctx); err != nil {
			return err
		}
	}
	return run.finish()
}
