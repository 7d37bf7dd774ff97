package engine

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"
	"sync"

	"github.com/SoiletsAce/ContentSync/internal/filter"
)

// Document is one canonical-language page selected for processing.
type Document struct {
	Path string // absolute path
	Rel  string // slash-separated path relative to the canonical tree
	Size int64
}

// ScannerConfig controls scanner behavior.
type ScannerConfig struct {
	Root    string // canonical tree, e.g. <project>/de
	Workers int
	Filter  *filter.Chain
}

// Scanner traverses the canonical tree in parallel and emits documents.
type Scanner struct {
	cfg  ScannerConfig
	docs chan Document
	errs chan error
}

// NewScanner creates a scanner with the given config. A nil filter means
// the built-in denylists only.
func NewScanner(cfg ScannerConfig) *Scanner {
	if cfg.Workers <= 0 {
		cfg.Workers = min(runtime.NumCPU(), 8)
	}
	if cfg.Filter == nil {
		cfg.Filter = filter.NewChain()
	}
	return &Scanner{
		cfg:  cfg,
		docs: make(chan Document, cfg.Workers*4),
		errs: make(chan error, cfg.Workers*4),
	}
}

// Scan starts the scanner and returns channels for documents and errors.
// The caller must consume from both channels until they close.
func (s *Scanner) Scan(ctx context.Context) (<-chan Document, <-chan error) {
	go func() {
		defer close(s.docs)
		defer close(s.errs)
		s.scanTree(ctx)
	}()
	return s.docs, s.errs
}

// Collect runs Scan to completion and returns the documents sorted by
// relative path. Unreadable entries are returned as errors alongside.
func (s *Scanner) Collect(ctx context.Context) ([]Document, []error) {
	docs, errs := s.Scan(ctx)

	var errList []error
	done := make(chan struct{})
	go func() {
		defer close(done)
		for err := range errs {
			errList = append(errList, err)
		}
	}()

	var out []Document
	for d := range docs {
		out = append(out, d)
	}
	<-done

	slices.SortFunc(out, func(a, b Document) int { return strings.Compare(a.Rel, b.Rel) })
	return out, errList
}

func (s *Scanner) scanTree(ctx context.Context) {
	workQueue := make(chan string, s.cfg.Workers*2)
	var outstanding sync.WaitGroup // directories queued but not yet processed

	var workerWg sync.WaitGroup
	for range s.cfg.Workers {
		workerWg.Add(1)
		go func() {
			defer workerWg.Done()
			for dir := range workQueue {
				s.scanDir(ctx, dir, workQueue, &outstanding)
				outstanding.Done()
			}
		}()
	}

	outstanding.Add(1)
	workQueue <- s.cfg.Root

	outstanding.Wait()
	close(workQueue)
	workerWg.Wait()
}

func (s *Scanner) scanDir(ctx context.Context, dir string, workQueue chan<- string, outstanding *sync.WaitGroup) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		s.sendErr(fmt.Errorf("readdir %s: %w", dir, err))
		return
	}

	for _, entry := range entries {
		if ctx.Err() != nil {
			return
		}
		if err := s.processEntry(ctx, filepath.Join(dir, entry.Name()), entry, workQueue, outstanding); err != nil {
			s.sendErr(err)
		}
	}
}

func (s *Scanner) processEntry(ctx context.Context, path string, entry os.DirEntry, workQueue chan<- string, outstanding *sync.WaitGroup) error {
	rel, err := filepath.Rel(s.cfg.Root, path)
	if err != nil {
		return fmt.Errorf("rel path for %s: %w", path, err)
	}
	rel = filepath.ToSlash(rel)

	switch {
	case entry.IsDir():
		if !s.cfg.Filter.Match(rel, true, 0) {
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		// Workers both drain and fill the queue, so a full queue is scanned
		// inline rather than waited on.
		outstanding.Add(1)
		select {
		case workQueue <- path:
		default:
			s.scanDir(ctx, path, workQueue, outstanding)
			outstanding.Done()
		}
		return nil

	case entry.Type().IsRegular():
		if !IsDocument(entry.Name()) {
			return nil
		}
		info, err := entry.Info()
		if err != nil {
			return fmt.Errorf("stat %s: %w", path, err)
		}
		if !s.cfg.Filter.Match(rel, false, info.Size()) {
			return nil
		}
		select {
		case s.docs <- Document{Path: path, Rel: rel, Size: info.Size()}:
		case <-ctx.Done():
			return ctx.Err()
		}
		return nil

	default:
		// Symlinks and special files are not followed.
		return nil
	}
}

func (s *Scanner) sendErr(err error) {
	select {
	case s.errs <- err:
	default:
	}
}

// IsDocument reports whether name has a page extension (.htm or .html).
func IsDocument(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	return ext == ".htm" || ext == ".html"
}
