// Package content transplants editable regions from a canonical document
// into its translated counterpart.
package content

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/SoiletsAce/ContentSync/internal/region"
)

// WriteFunc persists the final target buffer.
type WriteFunc func(path string, data []byte) error

// Synchronizer copies a fixed, ordered set of regions from a source
// document into a target document. It holds no mutable state; callers must
// serialize concurrent Sync calls that share a target path.
type Synchronizer struct {
	locators []*region.Locator
	write    WriteFunc
}

// Option configures a Synchronizer.
type Option func(*Synchronizer)

// WithRegions replaces the default region list. Order is kept.
func WithRegions(names ...string) Option {
	return func(s *Synchronizer) {
		s.locators = newLocators(names)
	}
}

// WithWriter replaces the atomic file writer, e.g. for dry runs or
// throttled writes.
func WithWriter(w WriteFunc) Option {
	return func(s *Synchronizer) {
		if w != nil {
			s.write = w
		}
	}
}

// New creates a Synchronizer for region.DefaultNames writing through
// WriteFileAtomic.
func New(opts ...Option) *Synchronizer {
	s := &Synchronizer{
		locators: newLocators(region.DefaultNames),
		write:    WriteFileAtomic,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func newLocators(names []string) []*region.Locator {
	out := make([]*region.Locator, len(names))
	for i, n := range names {
		out[i] = region.NewLocator(n)
	}
	return out
}

// Regions returns the region names in processing order.
func (s *Synchronizer) Regions() []string {
	names := make([]string, len(s.locators))
	for i, l := range s.locators {
		names[i] = l.Name()
	}
	return names
}

// Sync copies every region found in src into the matching region of dst and
// rewrites dst when at least one region was transplanted. It never returns an
// error; failures are reported in the outcome.
func (s *Synchronizer) Sync(src, dst string) (out SyncOutcome) {
	out = SyncOutcome{Source: src, Target: dst, Total: len(s.locators)}
	defer func() {
		if r := recover(); r != nil {
			out = failed(out, fmt.Errorf("unexpected error: %v", r))
		}
	}()

	srcText, err := readDocument(src, ErrSourceMissing)
	if err != nil {
		return failed(out, err)
	}
	original, err := readDocument(dst, ErrTargetMissing)
	if err != nil {
		return failed(out, err)
	}

	target := original
	for _, loc := range s.locators {
		body, ok := loc.Extract(srcText)
		if !ok {
			continue
		}
		updated, ok := loc.Replace(target, body)
		if !ok {
			out.Missing = append(out.Missing, loc.Name())
			continue
		}
		target = updated
		out.Processed = append(out.Processed, loc.Name())
	}

	if len(out.Processed) == 0 {
		return failed(out, ErrNoRegions)
	}

	out.Success = true
	out.Size = int64(len(target))
	if target == original {
		out.Unchanged = true
		out.Message = fmt.Sprintf("up to date (%d of %d regions)", len(out.Processed), out.Total)
		return out
	}

	if err := s.write(dst, []byte(target)); err != nil {
		return failed(out, fmt.Errorf("write %s: %w", dst, err))
	}
	out.Written = out.Size
	out.Message = fmt.Sprintf("synchronized %d of %d regions", len(out.Processed), out.Total)

	slog.Debug("regions synchronized",
		"target", dst,
		"processed", out.Processed,
		"missing", out.Missing,
		"bytes", out.Written,
	)
	return out
}

// Validate reports which known regions path contains.
func (s *Synchronizer) Validate(path string) (out ValidationOutcome) {
	out = ValidationOutcome{Path: path}
	defer func() {
		if r := recover(); r != nil {
			out.Valid = false
			out.Err = fmt.Errorf("unexpected error: %v", r)
			out.Message = out.Err.Error()
		}
	}()

	text, err := readDocument(path, fs.ErrNotExist)
	if err != nil {
		out.Err = err
		out.Message = err.Error()
		return out
	}

	for _, loc := range s.locators {
		body, ok := loc.Extract(text)
		if !ok {
			continue
		}
		out.Found = append(out.Found, loc.Name())
		out.ContentLength += utf8.RuneCountInString(body)
	}

	if len(out.Found) == 0 {
		out.Err = ErrNoRegions
		out.Message = "no editable regions found"
		return out
	}

	out.Valid = true
	out.Message = fmt.Sprintf("%d editable regions found: %s", len(out.Found), strings.Join(out.Found, ", "))
	return out
}

// readDocument reads a UTF-8 document. A missing file or a directory is
// reported with the given sentinel.
func readDocument(path string, missing error) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%w: %s", missing, path)
		}
		return "", fmt.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() {
		return "", fmt.Errorf("%w: %s is a directory", missing, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	if !utf8.Valid(data) {
		return "", fmt.Errorf("%w: %s", ErrInvalidEncoding, path)
	}
	return string(data), nil
}

func failed(out SyncOutcome, err error) SyncOutcome {
	out.Success = false
	out.Err = err
	out.Message = err.Error()
	return out
}
