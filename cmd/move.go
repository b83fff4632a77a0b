package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"db-move/internal/database"
	"db-move/internal/dialect"
	"db-move/internal/engine"

	"github.com/gosuri/uiprogress"
	"github.com/spf13/cobra"
)

func newMoveCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "move-tables ORIGIN DESTINATION [TABLE...]",
		Short: "Move tables from origin database file to destination",
		Long: `Move tables from origin database file to destination.

Copies just the table schema and row data, no foreign key constraints
or triggers or indexes.`,
		Example: "  db-move move-tables origin.db destination.db table1 table2",
		Args:    cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runMove(cmd, args[0], args[1], args[2:])
		},
	}

	cmd.Flags().Bool("keep", false, "Don't drop tables from origin after the move")
	cmd.Flags().Bool("ignore", false, "Ignore tables that are missing or already moved")
	cmd.Flags().Bool("replace", false, "Replace tables in destination if they exist already")
	cmd.Flags().Bool("progress", false, "Show a progress bar while moving")

	a.v.BindPFlag("move.keep", cmd.Flags().Lookup("keep"))
	a.v.BindPFlag("move.ignore", cmd.Flags().Lookup("ignore"))
	a.v.BindPFlag("move.replace", cmd.Flags().Lookup("replace"))
	a.v.BindPFlag("move.progress", cmd.Flags().Lookup("progress"))

	return cmd
}

func (a *app) runMove(cmd *cobra.Command, originPath, destinationPath string, tables []string) error {
	if err := checkPaths(originPath, destinationPath); err != nil {
		return err
	}

	ctx := cmd.Context()
	opts := database.Options{BusyTimeout: a.settings.SQLite.BusyTimeout}

	origin, err := database.Open(ctx, originPath, opts)
	if err != nil {
		return err
	}
	defer origin.Close()

	destination, err := database.Open(ctx, destinationPath, opts)
	if err != nil {
		return err
	}
	defer destination.Close()

	d := dialect.GetDialect(database.DriverName)
	mover := engine.NewMover(d, a.logger)

	moved, skipped := 0, 0
	var bar *uiprogress.Bar
	if a.settings.Move.Progress && len(tables) > 0 {
		p := uiprogress.New()
		p.SetOut(cmd.ErrOrStderr())
		p.Start()
		defer p.Stop()

		bar = p.AddBar(len(tables)).AppendCompleted().PrependElapsed()
		bar.PrependFunc(func(b *uiprogress.Bar) string {
			return "Moving: "
		})
	}
	mover.OnTable = func(table string, skip bool) {
		if skip {
			skipped++
		} else {
			moved++
		}
		if bar != nil {
			bar.Incr()
		}
	}

	err = mover.Move(ctx, engine.Request{
		Origin:      engine.Endpoint{DB: origin, Path: originPath},
		Destination: engine.Endpoint{DB: destination, Path: destinationPath},
		Tables:      tables,
		Keep:        a.settings.Move.Keep,
		Ignore:      a.settings.Move.Ignore,
		Replace:     a.settings.Move.Replace,
	})
	if err != nil {
		return err
	}

	a.logger.Info("move finished", "moved", moved, "skipped", skipped)
	return nil
}

// checkPaths requires an existing origin file and a destination that is not
// a directory and not the origin itself.
func checkPaths(originPath, destinationPath string) error {
	info, err := os.Stat(originPath)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("origin %s does not exist", originPath)
		}
		return fmt.Errorf("origin %s: %w", originPath, err)
	}
	if info.IsDir() {
		return fmt.Errorf("origin %s is a directory", originPath)
	}

	if info, err := os.Stat(destinationPath); err == nil && info.IsDir() {
		return fmt.Errorf("destination %s is a directory", destinationPath)
	}

	absOrigin, err := filepath.Abs(originPath)
	if err != nil {
		return err
	}
	absDestination, err := filepath.Abs(destinationPath)
	if err != nil {
		return err
	}
	if absOrigin == absDestination {
		return fmt.Errorf("origin and destination are the same file: %s", originPath)
	}
	return nil
}
