package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/SoiletsAce/ContentSync/internal/config"
	"github.com/SoiletsAce/ContentSync/internal/ui"
)

var version = "dev"

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// globalFlags are shared by every subcommand.
type globalFlags struct {
	configFile string
	logFile    string
	verbose    bool
	quiet      bool
}

func run(args []string, stdout, stderr io.Writer) int {
	rootCmd := newRootCmd()
	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	if err := rootCmd.Execute(); err != nil {
		var exitErr *exitError
		if errors.As(err, &exitErr) {
			return exitErr.code
		}
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}
	return 0
}

func newRootCmd() *cobra.Command {
	g := &globalFlags{}
	rootCmd := &cobra.Command{
		Use:   "contentsync",
		Short: "Propagate editable regions from the canonical site tree into its translations",
		Long: `contentsync copies the content of Dreamweaver-style editable regions from
the canonical language tree of a static site (de/ by default) into the
matching documents of every translated tree. Target documents are found
through their hreflang links or, failing that, through directory and file
name tables.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&g.configFile, "config", "", "read configuration from FILE (default: $XDG_CONFIG_HOME/contentsync/config.toml)")
	rootCmd.PersistentFlags().StringVar(&g.logFile, "log", "", "write structured JSON log to FILE")
	rootCmd.PersistentFlags().BoolVarP(&g.verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVarP(&g.quiet, "quiet", "q", false, "suppress all output except errors")

	rootCmd.AddCommand(
		newRunCmd(g, modeAnalyze),
		newRunCmd(g, modeSync),
		newRunCmd(g, modeValidate),
		newResolveCmd(g),
		newDocsCmd(),
	)
	return rootCmd
}

// setupLogging installs the default slog logger and returns a cleanup func
// closing the --log file.
func setupLogging(g *globalFlags, stderr io.Writer) (func(), error) {
	logLevel := slog.LevelInfo
	switch {
	case g.verbose:
		logLevel = slog.LevelDebug
	case g.quiet:
		logLevel = slog.LevelWarn
	}
	textHandler := slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: logLevel})

	var logHandler slog.Handler = textHandler
	cleanup := func() {}
	if g.logFile != "" {
		lf, err := os.Create(g.logFile)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		cleanup = func() { lf.Close() }
		jsonHandler := slog.NewJSONHandler(lf, &slog.HandlerOptions{Level: slog.LevelDebug})
		logHandler = ui.NewMultiHandler(textHandler, jsonHandler)
	}
	slog.SetDefault(slog.New(logHandler))
	return cleanup, nil
}

// loadConfig reads --config when given, otherwise the optional XDG file.
func loadConfig(g *globalFlags) (config.Config, error) {
	if g.configFile != "" {
		cfg, err := config.LoadFile(g.configFile)
		if err != nil {
			return config.Config{}, fmt.Errorf("load config: %w", err)
		}
		return cfg, nil
	}
	cfg, err := config.Load()
	if err != nil {
		slog.Warn("failed to load config", "path", config.Path(), "error", err)
		return config.Config{}, nil
	}
	return cfg, nil
}

type exitError struct {
	code int
}

func (e *exitError) Error() string {
	return fmt.Sprintf("exit code %d", e.code)
}
