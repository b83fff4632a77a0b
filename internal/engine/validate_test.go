package engine_test

import (
	"errors"
	"testing"

	"db-move/internal/engine"
)

func TestValidate(t *testing.T) {
	origin := []string{"foo", "bar", "common", "été"}
	destination := []string{"common", "moved"}

	tests := []struct {
		name    string
		tables  []string
		ignore  bool
		replace bool
		wantErr error
		table   string
	}{
		{name: "eligible", tables: []string{"foo", "bar"}},
		{name: "missing", tables: []string{"foo", "nope"}, wantErr: engine.ErrMissingTable, table: "nope"},
		{name: "missing ignored", tables: []string{"nope"}, ignore: true},
		{name: "exists", tables: []string{"common"}, wantErr: engine.ErrTableExists, table: "common"},
		{name: "exists replaced", tables: []string{"common"}, replace: true},
		{name: "exists not lifted by ignore", tables: []string{"common"}, ignore: true, wantErr: engine.ErrTableExists, table: "common"},
		{name: "already moved ignored", tables: []string{"moved"}, ignore: true},
		{name: "already moved not ignored", tables: []string{"moved"}, wantErr: engine.ErrMissingTable, table: "moved"},
		{name: "first offender wins", tables: []string{"common", "nope"}, wantErr: engine.ErrTableExists, table: "common"},
		{name: "case insensitive", tables: []string{"FOO"}},
		{name: "ascii folded in non-ascii name", tables: []string{"éTé"}},
		{name: "non-ascii case not folded", tables: []string{"ÉTÉ"}, wantErr: engine.ErrMissingTable, table: "ÉTÉ"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := engine.Validate(origin, destination, engine.Request{
				Origin:      engine.Endpoint{Path: "origin.db"},
				Destination: engine.Endpoint{Path: "destination.db"},
				Tables:      tt.tables,
				Ignore:      tt.ignore,
				Replace:     tt.replace,
			})

			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}

			switch e := err.(type) {
			case *engine.MissingTableError:
				if e.Table != tt.table || e.Path != "origin.db" {
					t.Errorf("unexpected error fields: %+v", e)
				}
			case *engine.TableExistsError:
				if e.Table != tt.table || e.Path != "destination.db" {
					t.Errorf("unexpected error fields: %+v", e)
				}
			default:
				t.Errorf("unexpected error type %T", err)
			}
		})
	}
}
