package cmd

import (
	"fmt"
	"os"
	"strings"

	"db-move/internal/database"
	"db-move/internal/dialect"
	"db-move/internal/schema"

	"github.com/spf13/cobra"
)

func newTablesCmd(a *app) *cobra.Command {
	var showColumns bool

	cmd := &cobra.Command{
		Use:   "tables PATH",
		Short: "List the tables in a database file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runTables(cmd, args[0], showColumns)
		},
	}
	cmd.Flags().BoolVar(&showColumns, "columns", false, "Include columns and primary keys")
	return cmd
}

func (a *app) runTables(cmd *cobra.Command, path string, showColumns bool) error {
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("database %s: %w", path, err)
	}

	ctx := cmd.Context()
	db, err := database.Open(ctx, path, database.Options{BusyTimeout: a.settings.SQLite.BusyTimeout})
	if err != nil {
		return err
	}
	defer db.Close()

	d := dialect.GetDialect(database.DriverName)
	names, err := schema.TableNames(ctx, db, d)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, name := range names {
		if !showColumns {
			fmt.Fprintln(out, name)
			continue
		}

		t, err := schema.Inspect(ctx, db, d, name)
		if err != nil {
			return err
		}
		if t.PrimaryKey.Kind == schema.KeyNone {
			fmt.Fprintf(out, "%s (key: rowid)\n", t.Name)
		} else {
			fmt.Fprintf(out, "%s (key: %s)\n", t.Name, strings.Join(t.PrimaryKey.Columns, ", "))
		}
		for _, c := range t.Columns {
			switch {
			case c.DeclaredType == "":
				fmt.Fprintf(out, "  %s %s (untyped)\n", c.Name, c.DataType)
			case !strings.EqualFold(c.DeclaredType, c.DataType):
				fmt.Fprintf(out, "  %s %s (declared %s)\n", c.Name, c.DataType, c.DeclaredType)
			default:
				fmt.Fprintf(out, "  %s %s\n", c.Name, c.DataType)
			}
		}
	}
	return nil
}
