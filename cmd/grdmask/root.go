package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/arloliu/gridmask/config"
	"github.com/arloliu/gridmask/engine"
)

var (
	// Global flags
	cfgFile  string
	logLevel string

	appCfg *config.Config
	logger *slog.Logger
)

// newRunner builds the engine runner for mask; tests replace it with a fake.
var newRunner = func(cfg *config.Config, l *slog.Logger) engine.Runner {
	return cfg.NewRunner(l)
}

var rootCmd = &cobra.Command{
	Use:   "grdmask",
	Short: "Create mask grids from polygons or point coverage",
	Long: `grdmask assigns every node of a regular grid a value depending on whether it lies
outside, on the edge of, or inside the input polygons. With --search-radius the polygons are
replaced by circles around each input point.

The gridding is done by the GMT grdmask module, which must be installed.`,
	Version:           Version,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: loadConfig,
}

// Execute runs the root command and returns the process exit code.
func Execute(ctx context.Context) int {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return 1
	}

	return 0
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level override: debug, info, warn, error")
}

func loadConfig(cmd *cobra.Command, _ []string) error {
	cfg, err := config.LoadConfigWithEnvOverrides(cfgFile)
	if err != nil {
		return err
	}
	if logLevel != "" {
		cfg.Logging.Level = logLevel
		if err := config.Validate(cfg); err != nil {
			return err
		}
	}

	appCfg = cfg
	logger = cfg.NewLogger(cmd.ErrOrStderr())

	return nil
}
