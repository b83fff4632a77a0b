package engine

import (
	"context"
	"database/sql"
	"db-move/internal/dialect"
	"db-move/internal/schema"
	"fmt"
	"log/slog"
)

// Endpoint is an open database handle and the file it was opened on.
// The caller owns the handle and closes it.
type Endpoint struct {
	DB   *sql.DB
	Path string
}

// Request describes one move-tables invocation.
type Request struct {
	Origin      Endpoint
	Destination Endpoint
	Tables      []string
	Keep        bool // leave tables in origin after copying
	Ignore      bool // skip tables missing from origin
	Replace     bool // overwrite tables that already exist in destination
}

// tableState is a table's position in the per-table move sequence.
type tableState int

const (
	statePending tableState = iota
	stateInspected
	stateCreated
	stateCopied
	stateDropped
	stateKept
	stateDone
)

func (s tableState) String() string {
	switch s {
	case statePending:
		return "pending"
	case stateInspected:
		return "inspected"
	case stateCreated:
		return "created"
	case stateCopied:
		return "copied"
	case stateDropped:
		return "dropped"
	case stateKept:
		return "kept"
	default:
		return "done"
	}
}

// Mover runs table moves between two databases of the same dialect.
type Mover struct {
	d      dialect.Dialect
	logger *slog.Logger

	// OnTable, when set, is called after each requested table is finished.
	// skipped is true for a table passed over under Ignore.
	OnTable func(table string, skipped bool)
}

func NewMover(d dialect.Dialect, logger *slog.Logger) *Mover {
	if logger == nil {
		logger = slog.Default()
	}
	return &Mover{d: d, logger: logger}
}

// Move validates the request and then moves each table in order. The first
// failure stops the run; tables moved before it stay moved.
func (m *Mover) Move(ctx context.Context, req Request) error {
	originTables, err := schema.TableNames(ctx, req.Origin.DB, m.d)
	if err != nil {
		return fmt.Errorf("list tables in %s: %w", req.Origin.Path, err)
	}
	destinationTables, err := schema.TableNames(ctx, req.Destination.DB, m.d)
	if err != nil {
		return fmt.Errorf("list tables in %s: %w", req.Destination.Path, err)
	}

	if err := Validate(originTables, destinationTables, req); err != nil {
		return err
	}

	m.logger.Info("moving tables",
		"origin", req.Origin.Path,
		"destination", req.Destination.Path,
		"tables", len(req.Tables),
		"keep", req.Keep,
		"ignore", req.Ignore,
		"replace", req.Replace,
	)

	for _, name := range req.Tables {
		if err := m.moveTable(ctx, req, name); err != nil {
			return err
		}
	}
	return nil
}

// moveTable walks one table through
// pending -> inspected -> created -> copied -> dropped|kept -> done.
// A table missing under Ignore goes from inspected straight to done.
func (m *Mover) moveTable(ctx context.Context, req Request, name string) error {
	logger := m.logger.With("table", name)

	var (
		table   *schema.Table
		run     *copyRun
		skipped bool
	)
	defer func() {
		if run != nil {
			run.abort()
		}
	}()

	state := statePending
	for state != stateDone {
		logger.Debug("table state", "state", state)

		switch state {
		case statePending:
			t, err := schema.Inspect(ctx, req.Origin.DB, m.d, name)
			if err != nil {
				return fmt.Errorf("inspect table %s in %s: %w", name, req.Origin.Path, err)
			}
			table = t
			state = stateInspected

		case stateInspected:
			// Existence is re-checked here: the origin may have changed since validation.
			if !table.Exists {
				if !req.Ignore {
					return &MissingTableError{Table: name, Path: req.Origin.Path}
				}
				logger.Info("table not in origin, skipping")
				skipped = true
				state = stateDone
				continue
			}
			if err := CreateTable(ctx, req.Destination, m.d, table, req.Replace); err != nil {
				return err
			}
			state = stateCreated

		case stateCreated:
			r, err := startCopy(ctx, req.Origin, req.Destination.Path, m.d, name, logger)
			if err != nil {
				return err
			}
			run = r
			state = stateCopied

		case stateCopied:
			if req.Keep {
				state = stateKept
				continue
			}
			if err := run.dropOrigin(ctx); err != nil {
				return err
			}
			state = stateDropped

		case stateDropped, stateKept:
			if err := run.finish(); err != nil {
				return err
			}
			logger.Info("table moved", "columns", table.ColumnNames(), "key", table.PrimaryKey.Kind, "dropped", state == stateDropped)
			state = stateDone
		}
	}

	if m.OnTable != nil {
		m.OnTable(name, skipped)
	}
	return nil
}
