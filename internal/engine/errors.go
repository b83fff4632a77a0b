package engine

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingTable matches any *MissingTableError.
	ErrMissingTable = errors.New("table is missing")
	// ErrTableExists matches any *TableExistsError.
	ErrTableExists = errors.New("table already exists")
)

// MissingTableError reports a requested table that the origin does not have.
type MissingTableError struct {
	Table string
	Path  string
}

func (e *MissingTableError) Error() string {
	return fmt.Sprintf("Table %s is not present in %s", e.Table, e.Path)
}

func (e *MissingTableError) Is(target error) bool { return target == ErrMissingTable }

// TableExistsError reports a destination table that would be overwritten
// without replace.
type TableExistsError struct {
	Table string
	Path  string
}

func (e *TableExistsError) Error() string {
	return fmt.Sprintf("Table %s already exists in %s", e.Table, e.Path)
}

func (e *TableExistsError) Is(target error) bool { return target == ErrTableExists }

// WriteError is a failure to create a table in the destination.
type WriteError struct {
	Table string
	Path  string
	Err   error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("failed to create table %s in %s: %v", e.Table, e.Path, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

// CopyError is a failure while moving rows across databases. Op names the
// step that failed: attach, begin, copy, drop, commit or detach.
type CopyError struct {
	Table string
	Path  string
	Op    string
	Err   error
}

func (e *CopyError) Error() string {
	return fmt.Sprintf("failed to %s table %s (destination %s): %v", e.Op, e.Table, e.Path, e.Err)
}

func (e *CopyError) Unwrap() error { return e.Err }
