package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"db-move/internal/logging"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// app carries the state shared by all subcommands of one invocation.
type app struct {
	v        *viper.Viper
	cfgFile  string
	settings *Settings
	logger   *slog.Logger
}

// NewRootCmd builds the command tree with its own viper instance, so each
// invocation starts from clean flag and config state.
func NewRootCmd() *cobra.Command {
	a := &app{v: viper.New()}

	root := &cobra.Command{
		Use:   "db-move",
		Short: "Move tables between SQLite database files",
		Long: `db-move copies table schema and rows from one SQLite database file to
another, optionally dropping them from the origin afterwards.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}

	root.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file (default is ./db-move.yaml)")
	root.PersistentFlags().String("log-level", "warn", "log level: debug, info, warn, error")
	root.PersistentFlags().String("log-format", "text", "log format: text, json")
	root.PersistentFlags().Duration("busy-timeout", defaultBusyTimeout, "how long to wait on a locked database file")

	a.v.BindPFlag("log.level", root.PersistentFlags().Lookup("log-level"))
	a.v.BindPFlag("log.format", root.PersistentFlags().Lookup("log-format"))
	a.v.BindPFlag("sqlite.busy_timeout", root.PersistentFlags().Lookup("busy-timeout"))

	root.AddCommand(newMoveCmd(a))
	root.AddCommand(newTablesCmd(a))
	return root
}

func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// setup reads config and sets up logging before any subcommand runs.
func (a *app) setup(cmd *cobra.Command) error {
	if err := a.readConfig(); err != nil {
		return err
	}

	settings, err := loadSettings(a.v)
	if err != nil {
		return err
	}
	a.settings = settings
	a.logger = logging.Setup(settings.Log.Level, settings.Log.Format, cmd.ErrOrStderr())

	if used := a.v.ConfigFileUsed(); used != "" {
		a.logger.Debug("using config file", "path", used)
	}
	return nil
}

// readConfig reads in config file and ENV variables if set.
func (a *app) readConfig() error {
	setDefaults(a.v)

	if a.cfgFile != "" {
		// Use config file from the flag.
		a.v.SetConfigFile(a.cfgFile)
	} else {
		// 1. Executable Directory (Priority 1)
		if ex, err := os.Executable(); err == nil {
			a.v.AddConfigPath(filepath.Dir(ex))
		}

		// 2. Current Directory (Priority 2)
		a.v.AddConfigPath(".")

		a.v.SetConfigName("db-move")
		a.v.SetConfigType("yaml")
	}

	a.v.SetEnvPrefix("DBMOVE")
	a.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	a.v.AutomaticEnv()

	if err := a.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if a.cfgFile == "" && errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("failed to read config: %w", err)
	}
	return nil
}
