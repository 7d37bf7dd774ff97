package mapping

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/SoiletsAce/ContentSync/internal/hreflang"
)

// ErrNotCanonical is reported when a document lies outside the canonical tree.
var ErrNotCanonical = errors.New("path is not under the canonical tree")

// Source records how a Resolution was obtained.
type Source int

const (
	SourceError Source = iota
	SourceHreflang
	SourceFallback
)

var sourceNames = [...]string{
	SourceError:    "error",
	SourceHreflang: "hreflang",
	SourceFallback: "fallback",
}

func (s Source) String() string {
	if int(s) < len(sourceNames) {
		return sourceNames[s]
	}
	return "unknown"
}

// Resolution is the translated path of one document for one language.
type Resolution struct {
	Path   string
	Source Source
	Err    error // set when Source is SourceError
}

// OK reports whether a target path was produced.
func (r Resolution) OK() bool { return r.Source != SourceError && r.Path != "" }

func (r Resolution) String() string {
	if r.Source == SourceError {
		return fmt.Sprintf("error: %v", r.Err)
	}
	return fmt.Sprintf("%s (%s)", r.Path, r.Source)
}

// LinkSource returns the hreflang declarations of a document.
type LinkSource func(path string) hreflang.LinkMap

// Resolver maps canonical documents to their translated counterparts. It is
// immutable and safe for concurrent use.
type Resolver struct {
	tables Tables
	links  LinkSource
}

// ResolverOption configures a Resolver.
type ResolverOption func(*Resolver)

// WithLinkSource replaces hreflang.Extract, e.g. to disable link lookups.
func WithLinkSource(src LinkSource) ResolverOption {
	return func(r *Resolver) {
		if src != nil {
			r.links = src
		}
	}
}

// NewResolver creates a Resolver over a private copy of tables.
func NewResolver(tables Tables, opts ...ResolverOption) *Resolver {
	r := &Resolver{
		tables: tables.Clone(),
		links:  hreflang.Extract,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Canonical returns the language of the source tree.
func (r *Resolver) Canonical() string { return r.tables.Canonical }

// Resolve returns the path of src's counterpart in lang under root. The
// document's own hreflang link for lang is preferred; otherwise the path is
// derived from the name tables.
func (r *Resolver) Resolve(src, root, lang string) (res Resolution) {
	defer func() {
		if p := recover(); p != nil {
			res = Resolution{Source: SourceError, Err: fmt.Errorf("unexpected error: %v", p)}
		}
	}()

	if u, ok := r.links(src).URL(lang); ok {
		if path, ok := urlToPath(u, root); ok {
			return Resolution{Path: path, Source: SourceHreflang}
		}
		slog.Debug("unusable hreflang link", "source", src, "lang", lang, "url", u)
	}

	path, err := r.fallback(src, root, lang)
	if err != nil {
		return Resolution{Source: SourceError, Err: err}
	}
	return Resolution{Path: path, Source: SourceFallback}
}

func (r *Resolver) fallback(src, root, lang string) (string, error) {
	base := filepath.Join(root, r.tables.Canonical)
	rel, err := filepath.Rel(base, filepath.Clean(src))
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrNotCanonical, src, err)
	}
	if rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %s is not under %s", ErrNotCanonical, src, base)
	}

	parts := strings.Split(rel, string(filepath.Separator))
	mapped := make([]string, 0, len(parts)+2)
	mapped = append(mapped, root, lang)
	for _, dir := range parts[:len(parts)-1] {
		mapped = append(mapped, r.tables.Directory(lang, dir))
	}
	mapped = append(mapped, r.tables.FileName(lang, parts[len(parts)-1]))
	return filepath.Join(mapped...), nil
}

// urlToPath turns an hreflang URL into a file path under root. Absolute
// URLs keep only their path. Links that are empty or point outside root are
// rejected.
func urlToPath(raw, root string) (string, bool) {
	p := raw
	lower := strings.ToLower(raw)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") || strings.HasPrefix(raw, "//") {
		u, err := url.Parse(raw)
		if err != nil {
			return "", false
		}
		p = u.Path
	}

	p = strings.TrimLeft(p, "/")
	if p == "" {
		return "", false
	}

	path := filepath.Join(root, filepath.FromSlash(p))
	rel, err := filepath.Rel(root, path)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", false
	}
	return path, true
}
