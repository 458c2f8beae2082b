package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joelkehle/gtap-site/internal/config"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// app is the state shared by every subcommand once the root pre-run has
// loaded configuration.
type app struct {
	configPath string
	verbose    bool

	cfg    *config.Config
	logger *zap.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "gtap-site",
		Short: "GTAP accreditation site and institution rankings",
		Long: `gtap-site serves the GTAP website: the institution ranking directory with
CSV, spreadsheet and PDF exports, certificate verification, the contact form
and the admin session.

The export and top commands work on the compiled-in catalog without a server.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			path := a.configPath
			if path == "" {
				path = config.GetConfigPath()
			}
			cfg, err := config.Load(path)
			if err != nil {
				return err
			}
			a.cfg = cfg
			a.logger, err = newLogger(cfg.LogLevel, a.verbose)
			return err
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}
	root.PersistentFlags().StringVar(&a.configPath, "config", "", "config file (default $GTAP_CONFIG or ./config.yaml)")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "debug logging")

	root.AddCommand(newServeCmd(a), newExportCmd(a), newTopCmd(a))
	return root
}

func newLogger(level string, verbose bool) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, eris.Wrapf(err, "parse log level %q", level)
	}
	cfg.Level = lvl
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	logger, err := cfg.Build()
	if err != nil {
		return nil, eris.Wrap(err, "build logger")
	}
	return logger, nil
}

// resolveWebDir falls back to web/ next to the binary when the configured
// directory does not exist.
func resolveWebDir(dir string) string {
	if _, err := os.Stat(dir); err == nil || filepath.IsAbs(dir) {
		return dir
	}
	exe, err := os.Executable()
	if err != nil {
		return dir
	}
	candidate := filepath.Join(filepath.Dir(exe), "..", "..", dir)
	if _, err := os.Stat(candidate); err == nil {
		return candidate
	}
	return dir
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
