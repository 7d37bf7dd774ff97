package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/SoiletsAce/ContentSync/internal/config"
	"github.com/SoiletsAce/ContentSync/internal/content"
	"github.com/SoiletsAce/ContentSync/internal/engine"
	"github.com/SoiletsAce/ContentSync/internal/event"
	"github.com/SoiletsAce/ContentSync/internal/filter"
	"github.com/SoiletsAce/ContentSync/internal/mapping"
	"github.com/SoiletsAce/ContentSync/internal/report"
	"github.com/SoiletsAce/ContentSync/internal/stats"
	"github.com/SoiletsAce/ContentSync/internal/ui"
)

type modeSpec struct {
	mode  engine.Mode
	use   string
	short string
}

var (
	modeAnalyze = modeSpec{
		mode:  engine.ModeAnalyze,
		use:   "analyze <project>",
		short: "Resolve every translation and list missing target documents",
	}
	modeSync = modeSpec{
		mode:  engine.ModeSync,
		use:   "sync <project>",
		short: "Copy editable regions from the canonical tree into every translation",
	}
	modeValidate = modeSpec{
		mode:  engine.ModeValidate,
		use:   "validate <project>",
		short: "List canonical documents without editable regions",
	}
)

// runFlags holds the flags of analyze, sync and validate.
type runFlags struct {
	langs        []string
	workers      int
	filterFile   string
	maxSize      string
	dryRun       bool
	backup       bool
	backupFormat string
	noReport     bool
	bwLimit      string
	noProgress   bool

	chain *filter.Chain
}

// filterFlag is a custom pflag.Value that preserves CLI ordering of
// --exclude and --include rules by appending to a shared filter.Chain.
type filterFlag struct {
	chain   *filter.Chain
	include bool
}

func (*filterFlag) String() string { return "" }
func (*filterFlag) Type() string   { return "pattern" }

func (f *filterFlag) Set(val string) error {
	if f.include {
		return f.chain.AddInclude(val)
	}
	return f.chain.AddExclude(val)
}

var _ pflag.Value = (*filterFlag)(nil)

func newRunCmd(g *globalFlags, spec modeSpec) *cobra.Command {
	f := &runFlags{chain: filter.NewChain()}
	cmd := &cobra.Command{
		Use:   spec.use,
		Short: spec.short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMode(cmd, g, f, spec.mode, args[0])
		},
	}

	fl := cmd.Flags()
	fl.StringSliceVarP(&f.langs, "lang", "l", nil, "target languages, comma separated (default: all known translations)")
	fl.IntVarP(&f.workers, "workers", "n", 0, "number of parallel workers (default: min(NumCPU*2, 32))")
	fl.Var(&filterFlag{chain: f.chain}, "exclude", "skip documents matching PATTERN (repeatable)")
	fl.Var(&filterFlag{chain: f.chain, include: true}, "include", "keep documents matching PATTERN (repeatable)")
	fl.StringVar(&f.filterFile, "filter", "", "read filter rules from FILE")
	fl.StringVar(&f.maxSize, "max-size", "", "skip documents larger than SIZE (e.g. 2M, 500K)")
	fl.BoolVar(&f.noReport, "no-report", false, "do not write sync_report_<timestamp>.txt")
	fl.BoolVar(&f.noProgress, "no-progress", false, "disable progress display")

	if spec.mode == engine.ModeSync {
		fl.BoolVar(&f.dryRun, "dry-run", false, "run the whole pass without writing any file")
		fl.BoolVar(&f.backup, "backup", false, "back up the target trees before writing")
		fl.StringVar(&f.backupFormat, "backup-format", string(engine.BackupDir), "backup format (dir or tar.zst)")
		fl.StringVar(&f.bwLimit, "bwlimit", "", "limit target writes to SIZE per second (e.g. 10M)")
	}
	return cmd
}

// applyConfigDefaults applies config file defaults for flags not explicitly set on the CLI.
func applyConfigDefaults(cmd *cobra.Command, d config.DefaultsConfig, f *runFlags) {
	changed := cmd.Flags().Changed
	if !changed("lang") && len(d.Languages) > 0 {
		f.langs = d.Languages
	}
	if !changed("workers") && d.Workers != nil {
		f.workers = *d.Workers
	}
	if !changed("no-report") && d.Report != nil {
		f.noReport = !*d.Report
	}
	if cmd.Flags().Lookup("backup") == nil {
		return
	}
	if !changed("backup") && d.Backup != nil {
		f.backup = *d.Backup
	}
	if !changed("backup-format") && d.BackupFormat != nil {
		f.backupFormat = *d.BackupFormat
	}
	if !changed("bwlimit") && d.BWLimit != nil {
		f.bwLimit = *d.BWLimit
	}
}

//nolint:gocyclo // CLI entry point wires config, flags, engine, presenter and report
func runMode(cmd *cobra.Command, g *globalFlags, f *runFlags, mode engine.Mode, project string) error {
	stdout, stderr := cmd.OutOrStdout(), cmd.ErrOrStderr()

	closeLog, err := setupLogging(g, stderr)
	if err != nil {
		return err
	}
	defer closeLog()

	cfg, err := loadConfig(g)
	if err != nil {
		return err
	}
	ui.ApplyTheme(cfg.Theme)
	applyConfigDefaults(cmd, cfg.Defaults, f)

	tables := cfg.Tables()
	if len(f.langs) == 0 {
		f.langs = mapping.Languages
	}
	langs, err := mapping.ParseLanguages(f.langs, tables.Canonical)
	if err != nil {
		return fmt.Errorf("invalid --lang: %w", err)
	}
	if len(langs) == 0 && mode != engine.ModeValidate {
		return errors.New("no target languages selected")
	}

	f.chain.DenyFiles(cfg.Exclude.Files...)
	f.chain.DenyDirs(cfg.Exclude.Dirs...)
	if f.filterFile != "" {
		if err := f.chain.LoadFile(f.filterFile); err != nil {
			return fmt.Errorf("load filter file: %w", err)
		}
	}
	if f.maxSize != "" {
		n, err := filter.ParseSize(f.maxSize)
		if err != nil {
			return fmt.Errorf("invalid --max-size: %w", err)
		}
		f.chain.SetMaxSize(n)
	}

	backupFormat, err := engine.ParseBackupFormat(f.backupFormat)
	if err != nil {
		return fmt.Errorf("invalid --backup-format: %w", err)
	}
	var bwLimit int64
	if f.bwLimit != "" {
		bwLimit, err = filter.ParseSize(f.bwLimit)
		if err != nil {
			return fmt.Errorf("invalid --bwlimit: %w", err)
		}
	}

	workers := f.workers
	if workers <= 0 {
		workers = min(runtime.NumCPU()*2, 32)
	}
	if f.dryRun {
		slog.Info("dry run mode")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	defer content.CleanupTmpFiles()

	collector := stats.NewCollector()
	events := make(chan event.Event, 256)

	// When --log is set, tee events through a logging goroutine
	// that writes structured records before forwarding to the presenter.
	presenterEvents := (<-chan event.Event)(events)
	if g.logFile != "" {
		presenterEvents = ui.LogEvents(events)
	}

	presenter := ui.NewPresenter(ui.Config{
		Writer:     stdout,
		ErrWriter:  stderr,
		Stats:      collector,
		Mode:       mode,
		Root:       project,
		DryRun:     f.dryRun,
		IsTTY:      isTerminal(stderr),
		Quiet:      g.quiet,
		Verbose:    g.verbose,
		NoProgress: f.noProgress,
	})

	engineCfg := engine.Config{
		Mode:         mode,
		Root:         project,
		Languages:    langs,
		Tables:       tables,
		Regions:      cfg.Regions.Names,
		Filter:       f.chain,
		Workers:      workers,
		DryRun:       f.dryRun,
		Backup:       f.backup,
		BackupFormat: backupFormat,
		BWLimit:      bwLimit,
		Events:       events,
		Stats:        collector,
	}
	slog.Debug("starting run",
		"mode", mode,
		"project", project,
		"languages", langs,
		"workers", workers,
		"backup", f.backup,
		"bwlimit", ui.FormatRate(float64(bwLimit)),
	)

	var presenterErr error
	var presenterWg sync.WaitGroup
	presenterWg.Add(1)
	go func() {
		defer presenterWg.Done()
		presenterErr = presenter.Run(presenterEvents)
	}()

	result := engine.Run(ctx, engineCfg)
	stop()
	close(events)
	presenterWg.Wait()
	if presenterErr != nil {
		fmt.Fprintf(stderr, "presenter: %v\n", presenterErr)
	}

	if !g.quiet {
		if summary := presenter.Summary(); summary != "" {
			fmt.Fprintln(stderr, summary)
		}
	}

	if !f.noReport && !errors.Is(result.Err, engine.ErrInvalidProject) {
		path, err := report.Save(project, report.FromResult(result, time.Now()))
		if err != nil {
			slog.Warn("could not write report", "error", err)
		} else {
			slog.Info("report saved", "path", path)
		}
	}

	if result.Err != nil {
		slog.Error(mode.String()+" failed", "error", result.Err)
	}
	if result.Canceled {
		slog.Warn("interrupted, remaining documents were not processed")
	}
	if code := exitCode(result); code != 0 {
		return &exitError{code: code}
	}
	return nil
}

// exitCode maps a result to 0 (all fine), 1 (partial failure or
// interrupted) or 2 (nothing succeeded).
func exitCode(res engine.Result) int {
	s := res.Stats
	succeeded := s.Synced + s.Unchanged + s.TargetsFound + s.DocsValid
	switch {
	case res.Err != nil && succeeded == 0:
		return 2
	case res.Err != nil:
		return 1
	case res.Failed() && succeeded == 0:
		return 2
	case res.Failed(), res.Canceled:
		return 1
	default:
		return 0
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && ui.IsTTY(f)
}
