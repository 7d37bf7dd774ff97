package engine

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/SoiletsAce/ContentSync/internal/content"
	"github.com/SoiletsAce/ContentSync/internal/event"
	"github.com/SoiletsAce/ContentSync/internal/filter"
	"github.com/SoiletsAce/ContentSync/internal/hreflang"
	"github.com/SoiletsAce/ContentSync/internal/mapping"
	"github.com/SoiletsAce/ContentSync/internal/stats"
)

// ErrInvalidProject is returned when the project root or its canonical tree
// is missing.
var ErrInvalidProject = errors.New("invalid project")

// Mode selects the pass Run performs.
type Mode int

const (
	// ModeAnalyze resolves every pair and reports which targets exist.
	ModeAnalyze Mode = iota
	// ModeSync transplants regions into every existing target.
	ModeSync
	// ModeValidate lists the regions of every canonical document.
	ModeValidate
)

var modeNames = [...]string{
	ModeAnalyze:  "analyze",
	ModeSync:     "sync",
	ModeValidate: "validate",
}

func (m Mode) String() string {
	if m >= 0 && int(m) < len(modeNames) {
		return modeNames[m]
	}
	return "unknown"
}

// Config describes one run over a project.
type Config struct {
	Mode      Mode
	Root      string   // project root holding one directory per language
	Languages []string // target languages; the canonical language is ignored
	Tables    mapping.Tables
	Regions   []string // nil means region.DefaultNames
	Filter    *filter.Chain
	Workers   int
	DryRun    bool

	Backup       bool
	BackupFormat BackupFormat
	BWLimit      int64 // bytes per second for target writes, 0 = unlimited

	Events chan<- event.Event
	Stats  *stats.Collector
	Now    func() time.Time
}

// Failure is one pair (or document) that could not be processed.
type Failure struct {
	Lang    string
	Path    string // relative to the canonical tree
	Target  string
	Message string
	Err     error
}

// MissingTarget is a pair whose resolved target does not exist.
type MissingTarget struct {
	Lang   string
	Path   string
	Target string
}

// Result is the outcome of a run.
type Result struct {
	Mode      Mode
	Root      string
	Languages []string
	DryRun    bool
	Started   time.Time
	Documents int
	Stats     stats.Snapshot
	Langs     map[string]stats.LangCounts
	Missing   []MissingTarget
	Failures  []Failure
	Invalid   []content.ValidationOutcome
	Backup    *BackupResult
	Canceled  bool
	Err       error // fatal error; nothing was processed after it
}

// Failed reports whether any pair or document failed.
func (r Result) Failed() bool {
	return r.Err != nil || len(r.Failures) > 0 || len(r.Invalid) > 0
}

// ValidateProject checks that root is a directory holding the canonical tree.
func ValidateProject(root, canonical string) error {
	info, err := os.Stat(root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: project folder %s does not exist", ErrInvalidProject, root)
		}
		return fmt.Errorf("%w: %w", ErrInvalidProject, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %s is not a directory", ErrInvalidProject, root)
	}

	tree := filepath.Join(root, canonical)
	info, err = os.Stat(tree)
	if err != nil || !info.IsDir() {
		return fmt.Errorf("%w: canonical folder %q not found in %s", ErrInvalidProject, canonical, root)
	}
	return nil
}

// Run executes one pass, blocking until complete. Individual pair failures
// are collected in the result; only project, scan setup or backup errors
// end the run early.
func Run(ctx context.Context, cfg Config) (res Result) {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Stats == nil {
		cfg.Stats = stats.NewCollector()
	}
	if cfg.Tables.Canonical == "" {
		cfg.Tables = mapping.DefaultTables().Merge(cfg.Tables)
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 4
	}

	r := &runner{cfg: cfg}
	res = Result{
		Mode:      cfg.Mode,
		Root:      cfg.Root,
		Languages: r.languages(),
		DryRun:    cfg.DryRun,
		Started:   cfg.Now(),
	}
	defer func() {
		res.Stats = cfg.Stats.Snapshot()
		res.Langs = cfg.Stats.Langs()
		res.Canceled = ctx.Err() != nil
	}()

	if err := ValidateProject(cfg.Root, cfg.Tables.Canonical); err != nil {
		res.Err = err
		return res
	}

	docs, err := r.scan(ctx)
	if err != nil {
		res.Err = err
		return res
	}
	res.Documents = len(docs)

	if cfg.Mode == ModeSync && cfg.Backup && !cfg.DryRun {
		b, err := Backup(ctx, BackupConfig{
			Root:      cfg.Root,
			Languages: res.Languages,
			Format:    cfg.BackupFormat,
			Workers:   cfg.Workers,
			Time:      res.Started,
			Events:    cfg.Events,
			Stats:     cfg.Stats,
		})
		if err != nil {
			res.Err = fmt.Errorf("backup failed, no files were changed: %w", err)
			return res
		}
		res.Backup = &b
	}

	if cfg.Mode == ModeValidate {
		r.validate(ctx, docs)
	} else {
		r.pairs(ctx, docs, res.Languages)
	}

	res.Missing = r.missing
	res.Failures = r.failures
	res.Invalid = r.invalid
	sortResult(&res)
	return res
}

type runner struct {
	cfg      Config
	resolver *mapping.Resolver
	syncer   *content.Synchronizer
	locks    pathLocks

	mu       sync.Mutex
	missing  []MissingTarget
	failures []Failure
	invalid  []content.ValidationOutcome
}

func (r *runner) languages() []string {
	var out []string
	for _, l := range r.cfg.Languages {
		if l != r.cfg.Tables.Canonical && !slices.Contains(out, l) {
			out = append(out, l)
		}
	}
	return out
}

func (r *runner) scan(ctx context.Context) ([]Document, error) {
	root := filepath.Join(r.cfg.Root, r.cfg.Tables.Canonical)
	emitEvent(ctx, r.cfg.Events, event.Event{Type: event.ScanStarted, Target: root})

	docs, errs := NewScanner(ScannerConfig{
		Root:    root,
		Workers: r.cfg.Workers,
		Filter:  r.cfg.Filter,
	}).Collect(ctx)
	for _, err := range errs {
		slog.Warn("scan", "error", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("scan canceled: %w", err)
	}

	r.cfg.Stats.AddDocsScanned(int64(len(docs)))
	emitEvent(ctx, r.cfg.Events, event.Event{Type: event.ScanComplete, Total: int64(len(docs))})
	slog.Debug("scan complete", "root", root, "documents", len(docs), "errors", len(errs))
	return docs, nil
}

// pairs processes every (language, document) pair with a bounded pool.
// Cancellation stops dispatch; pairs already running complete.
func (r *runner) pairs(ctx context.Context, docs []Document, langs []string) {
	links := newLinkCache()
	r.resolver = mapping.NewResolver(r.cfg.Tables, mapping.WithLinkSource(links.get))

	write := content.WriteFileAtomic
	if r.cfg.DryRun {
		write = content.Discard
	} else if r.cfg.BWLimit > 0 {
		write = throttledWriter(context.WithoutCancel(ctx), NewBWLimiter(r.cfg.BWLimit), write)
	}
	opts := []content.Option{content.WithWriter(write)}
	if len(r.cfg.Regions) > 0 {
		opts = append(opts, content.WithRegions(r.cfg.Regions...))
	}
	r.syncer = content.New(opts...)

	r.cfg.Stats.AddPairsTotal(int64(len(docs) * len(langs)))

	var g errgroup.Group
	g.SetLimit(r.cfg.Workers)
	worker := 0
dispatch:
	for _, lang := range langs {
		for _, doc := range docs {
			if ctx.Err() != nil {
				break dispatch
			}
			id := worker % r.cfg.Workers
			worker++
			g.Go(func() error {
				r.pair(ctx, id, lang, doc)
				return nil
			})
		}
	}
	_ = g.Wait()
}

func (r *runner) pair(ctx context.Context, worker int, lang string, doc Document) {
	ev := event.Event{Lang: lang, Path: doc.Rel, WorkerID: worker}

	res := r.resolver.Resolve(doc.Path, r.cfg.Root, lang)
	if !res.OK() {
		r.cfg.Stats.ResolveFailed(lang)
		r.fail(Failure{Lang: lang, Path: doc.Rel, Message: res.Err.Error(), Err: res.Err})
		ev.Type, ev.Error, ev.Message = event.ResolveFailed, res.Err, res.Err.Error()
		emitEvent(ctx, r.cfg.Events, ev)
		return
	}
	ev.Target, ev.Via = res.Path, res.Source.String()
	if res.Source == mapping.SourceHreflang {
		r.cfg.Stats.AddViaHreflang(1)
	} else {
		r.cfg.Stats.AddViaFallback(1)
	}

	if !isFile(res.Path) {
		r.cfg.Stats.TargetMissing(lang)
		r.mu.Lock()
		r.missing = append(r.missing, MissingTarget{Lang: lang, Path: doc.Rel, Target: res.Path})
		r.mu.Unlock()
		ev.Type = event.TargetMissing
		emitEvent(ctx, r.cfg.Events, ev)
		return
	}

	if r.cfg.Mode == ModeAnalyze {
		r.cfg.Stats.TargetFound(lang)
		ev.Type = event.PairResolved
		emitEvent(ctx, r.cfg.Events, ev)
		return
	}

	unlock := r.locks.lock(res.Path)
	out := r.syncer.Sync(doc.Path, res.Path)
	unlock()

	ev.Regions, ev.Missing, ev.Message = out.Synced(), out.Missing, out.Message
	r.cfg.Stats.AddRegionsSynced(int64(out.Synced()))
	r.cfg.Stats.AddRegionsMissing(int64(len(out.Missing)))
	switch {
	case !out.Success:
		r.cfg.Stats.PairFailed(lang)
		r.fail(Failure{Lang: lang, Path: doc.Rel, Target: res.Path, Message: out.Message, Err: out.Err})
		ev.Type, ev.Error = event.PairFailed, out.Err
	case out.Unchanged:
		r.cfg.Stats.PairUnchanged(lang)
		ev.Type = event.PairUnchanged
	default:
		r.cfg.Stats.PairSynced(lang)
		r.cfg.Stats.AddBytesWritten(out.Written)
		ev.Type, ev.Size = event.PairSynced, out.Written
	}
	emitEvent(ctx, r.cfg.Events, ev)
}

func (r *runner) validate(ctx context.Context, docs []Document) {
	opts := []content.Option{content.WithWriter(content.Discard)}
	if len(r.cfg.Regions) > 0 {
		opts = append(opts, content.WithRegions(r.cfg.Regions...))
	}
	r.syncer = content.New(opts...)

	var g errgroup.Group
	g.SetLimit(r.cfg.Workers)
	for i, doc := range docs {
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			out := r.syncer.Validate(doc.Path)
			out.Path = doc.Rel
			if out.Valid {
				r.cfg.Stats.AddDocsValid(1)
			} else {
				r.cfg.Stats.AddDocsInvalid(1)
				r.mu.Lock()
				r.invalid = append(r.invalid, out)
				r.mu.Unlock()
			}
			emitEvent(ctx, r.cfg.Events, event.Event{
				Type:     event.DocumentValidated,
				Path:     doc.Rel,
				Regions:  len(out.Found),
				Message:  out.Message,
				Error:    out.Err,
				WorkerID: i % r.cfg.Workers,
			})
			return nil
		})
	}
	_ = g.Wait()
}

func (r *runner) fail(f Failure) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failures = append(r.failures, f)
}

func sortResult(res *Result) {
	slices.SortFunc(res.Missing, func(a, b MissingTarget) int {
		return cmp.Or(cmp.Compare(a.Lang, b.Lang), cmp.Compare(a.Path, b.Path))
	})
	slices.SortFunc(res.Failures, func(a, b Failure) int {
		return cmp.Or(cmp.Compare(a.Lang, b.Lang), cmp.Compare(a.Path, b.Path))
	})
	slices.SortFunc(res.Invalid, func(a, b content.ValidationOutcome) int {
		return cmp.Compare(a.Path, b.Path)
	})
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// linkCache reads each canonical document's hreflang links once per run,
// however many languages are resolved against it.
type linkCache struct {
	mu    sync.Mutex
	links map[string]hreflang.LinkMap
}

func newLinkCache() *linkCache {
	return &linkCache{links: make(map[string]hreflang.LinkMap)}
}

func (c *linkCache) get(path string) hreflang.LinkMap {
	c.mu.Lock()
	m, ok := c.links[path]
	c.mu.Unlock()
	if ok {
		return m
	}
	m = hreflang.Extract(path)
	c.mu.Lock()
	c.links[path] = m
	c.mu.Unlock()
	return m
}

// emitEvent stamps and delivers e. It blocks until the consumer takes the
// event or ctx is done.
func emitEvent(ctx context.Context, ch chan<- event.Event, e event.Event) {
	if ch == nil {
		return
	}
	e.Timestamp = time.Now()
	select {
	case ch <- e:
	case <-ctx.Done():
	}
}
