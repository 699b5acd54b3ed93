// Package main provides the semi binary entry point: loading,
// validating, exporting, querying, and serving DELPH-IN semantic
// interfaces.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"strings"

	"github.com/spf13/cobra"

	"github.com/c360studio/semi"
	"github.com/c360studio/semi/config"
	"github.com/c360studio/semi/reader"
)

const (
	Version   = "0.1.0"
	BuildTime = "dev"
	appName   = "semi"
)

func main() {
	// Add panic recovery
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			_, _ = fmt.Fprintf(os.Stderr, "PANIC: %v\nStack trace:\n%s\n", r, string(buf[:n]))
			os.Exit(2)
		}
	}()

	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var (
		configPath string
		logLevel   string
	)

	cmd := &cobra.Command{
		Use:   "semi",
		Short: "DELPH-IN semantic interface tools",
		Long: `Semi loads DELPH-IN semantic interface (SEM-I) files and answers
questions about them.

It provides:
- Validation of SEM-I files, include directives resolved
- Export of a merged SEM-I as JSON or YAML
- Hierarchy queries (ancestors, descendants, subsumption, compatibility)
- An HTTP inspection API with optional live reload`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file path (YAML)")
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error)")

	cmd.AddCommand(checkCmd(&configPath, &logLevel))
	cmd.AddCommand(exportCmd(&configPath, &logLevel))
	cmd.AddCommand(queryCmd(&configPath, &logLevel))
	cmd.AddCommand(serveCmd(&configPath, &logLevel))

	// Version command
	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("%s version %s (build: %s)\n", appName, Version, BuildTime)
		},
	})

	return cmd
}

// setup loads configuration and installs the default logger. The
// --log-level flag overrides the configured level.
func setup(configPath, logLevel string) (*config.Config, *slog.Logger, error) {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}

	level := slog.LevelInfo
	switch strings.ToLower(cfg.Log.Level) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	return cfg, logger, nil
}

// loadConfig loads an explicit config file, or the layered
// user/project configuration when none is given.
func loadConfig(configPath string) (*config.Config, error) {
	if configPath == "" {
		return config.NewLoader(nil).Load()
	}
	cfg, err := config.LoadFromFile(configPath)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadSemI resolves patterns (falling back to the configured paths),
// loads the files, and builds a SemI. The reader result is returned
// alongside so callers can watch the contributing files.
func loadSemI(patterns []string, cfg *config.Config, logger *slog.Logger) (*semi.SemI, *reader.Result, error) {
	if len(patterns) == 0 {
		patterns = cfg.SemI.Paths
	}
	if len(patterns) == 0 {
		return nil, nil, fmt.Errorf("no SEM-I files: give patterns as arguments or set semi.paths in config")
	}

	paths, err := reader.ResolvePaths(patterns)
	if err != nil {
		return nil, nil, err
	}
	if len(paths) == 0 {
		return nil, nil, fmt.Errorf("no SEM-I files matched %v", patterns)
	}

	result, err := reader.NewLoader(logger).LoadAll(paths)
	if err != nil {
		return nil, nil, err
	}

	s, err := semi.Build(result.Document)
	if err != nil {
		return nil, nil, err
	}
	return s, result, nil
}
