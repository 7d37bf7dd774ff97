// Package mapping resolves the translated counterpart of a canonical
// document, from in-document hreflang links or from static name tables.
package mapping

import (
	"maps"
	"slices"
	"strings"
)

// Substitution replaces every occurrence of From with To in a filename.
type Substitution struct {
	From string `toml:"from"`
	To   string `toml:"to"`
}

// Tables holds the static directory and filename translations. A Tables
// value handed to NewResolver is cloned, so later changes by the caller do
// not leak into resolution.
type Tables struct {
	// Canonical is the language of the source tree, e.g. "de".
	Canonical string
	// DefaultLanguage names the directory table used for languages without
	// their own table.
	DefaultLanguage string
	// Directories maps language -> lower-case canonical segment -> segment.
	Directories map[string]map[string]string
	// Files maps language -> canonical filename -> filename.
	Files map[string]map[string]string
	// Tour maps language -> canonical filename -> filename for documents
	// whose relative path contains TourKeyword. Consulted after Files.
	Tour        map[string]map[string]string
	TourKeyword string
	// Generic substitutions apply, in order, to any target language other
	// than Canonical when no table above matched.
	Generic []Substitution
}

// Clone returns a deep copy of t.
func (t Tables) Clone() Tables {
	out := t
	out.Directories = cloneNested(t.Directories)
	out.Files = cloneNested(t.Files)
	out.Tour = cloneNested(t.Tour)
	out.Generic = slices.Clone(t.Generic)
	return out
}

// Merge returns a copy of t with every entry of o laid over it. Scalar
// fields of o win when non-empty; Generic entries of o are appended.
func (t Tables) Merge(o Tables) Tables {
	out := t.Clone()
	if o.Canonical != "" {
		out.Canonical = o.Canonical
	}
	if o.DefaultLanguage != "" {
		out.DefaultLanguage = o.DefaultLanguage
	}
	if o.TourKeyword != "" {
		out.TourKeyword = o.TourKeyword
	}
	out.Directories = mergeNested(out.Directories, o.Directories, strings.ToLower)
	out.Files = mergeNested(out.Files, o.Files, nil)
	out.Tour = mergeNested(out.Tour, o.Tour, nil)
	out.Generic = append(out.Generic, o.Generic...)
	return out
}

// Directory translates one canonical directory segment. The lookup ignores
// case; segments without an entry pass through unchanged.
func (t Tables) Directory(lang, segment string) string {
	table, ok := t.Directories[lang]
	if !ok {
		table = t.Directories[t.DefaultLanguage]
	}
	if mapped, ok := table[strings.ToLower(segment)]; ok {
		return mapped
	}
	return segment
}

// FileName translates a canonical filename. The tour table is consulted only
// when the filename itself contains the tour keyword.
func (t Tables) FileName(lang, name string) string {
	if mapped, ok := t.Files[lang][name]; ok {
		return mapped
	}

	if t.TourKeyword != "" && strings.Contains(name, t.TourKeyword) {
		if mapped, ok := t.Tour[lang][name]; ok {
			return mapped
		}
	}

	if lang == t.Canonical {
		return name
	}
	mapped := name
	for _, s := range t.Generic {
		if s.From == "" {
			continue
		}
		mapped = strings.ReplaceAll(mapped, s.From, s.To)
	}
	return mapped
}

func cloneNested(m map[string]map[string]string) map[string]map[string]string {
	if m == nil {
		return nil
	}
	out := make(map[string]map[string]string, len(m))
	for k, v := range m {
		out[k] = maps.Clone(v)
	}
	return out
}

func mergeNested(dst, src map[string]map[string]string, key func(string) string) map[string]map[string]string {
	if len(src) == 0 {
		return dst
	}
	if dst == nil {
		dst = make(map[string]map[string]string, len(src))
	}
	for lang, entries := range src {
		table := dst[lang]
		if table == nil {
			table = make(map[string]string, len(entries))
			dst[lang] = table
		}
		for k, v := range entries {
			if key != nil {
				k = key(k)
			}
			table[k] = v
		}
	}
	return dst
}
