package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/dom/kanban-board/internal/config"
	"github.com/go-extras/cobraflags"
	"github.com/spf13/cobra"
	"gorm.io/gorm/logger"
)

const (
	logLevelFlag = "log-level"
	portFlag     = "port"
)

var rootFlags = map[string]cobraflags.Flag{
	logLevelFlag: &cobraflags.StringFlag{
		Name:  logLevelFlag,
		Value: "info",
		Usage: "Log level (debug, info, warn, error)",
	},
	portFlag: &cobraflags.StringFlag{
		Name:  portFlag,
		Value: "",
		Usage: "HTTP port, overrides PORT",
	},
}

func newRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "server",
		Short:         "Kanban board API server",
		Long:          "Serves the kanban board HTTP API. Run `server migrate` once before the first start.",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          serveCommand,
	}
	cobraflags.RegisterMap(rootCmd, rootFlags)

	rootCmd.AddCommand(newMigrateCommand())
	return rootCmd
}

// setup loads configuration and builds the process logger.
func setup() (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	if port := rootFlags[portFlag].GetString(); port != "" {
		cfg.Port = port
	}

	level, err := parseLevel(rootFlags[logLevelFlag].GetString())
	if err != nil {
		return nil, nil, err
	}
	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler = slog.NewTextHandler(os.Stdout, opts)
	if cfg.IsProduction() {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}
	log := slog.New(handler)
	slog.SetDefault(log)

	return cfg, log, nil
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(s))); err != nil {
		return 0, fmt.Errorf("invalid --%s %q", logLevelFlag, s)
	}
	return level, nil
}

// gormLevel keeps SQL logging quiet unless debugging.
func gormLevel(log *slog.Logger) logger.LogLevel {
	if log.Enabled(context.Background(), slog.LevelDebug) {
		return logger.Info
	}
	return logger.Warn
}
