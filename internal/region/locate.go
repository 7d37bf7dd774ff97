// Package region finds and rewrites Dreamweaver-style editable regions in
// template-derived HTML without parsing the document.
package region

import (
	"fmt"
	"regexp"
)

// Marker spellings. Start markers are tried in this order; the first
// spelling found anywhere in the buffer wins, even when a later spelling
// occurs earlier in the buffer.
const (
	beginSpaced  = `<!-- InstanceBeginEditable name="%s" -->`
	beginCompact = `<!--InstanceBeginEditable name="%s"-->`
	beginMixed   = `<!-- InstanceBeginEditable name="%s"-->`

	EndSpaced  = `<!-- InstanceEndEditable -->`
	EndCompact = `<!--InstanceEndEditable-->`
)

var endVariants = compileVariants(EndSpaced, EndCompact)

// Span locates one region inside a buffer. All offsets are byte offsets with
// Start <= ContentStart <= ContentEnd <= End <= len(buf).
type Span struct {
	Start        int    // first byte of the start marker
	ContentStart int    // first byte after the start marker
	ContentEnd   int    // first byte of the end marker
	End          int    // one past the end marker
	StartMarker  string // start marker exactly as it appears in the buffer
	EndMarker    string // end marker exactly as it appears in the buffer
}

// Len returns the length of the region content in bytes.
func (s Span) Len() int { return s.ContentEnd - s.ContentStart }

// Locator finds a single named region. It is immutable and safe for
// concurrent use.
type Locator struct {
	name  string
	begin []*regexp.Regexp
}

// NewLocator compiles the start marker variants for the named region.
func NewLocator(name string) *Locator {
	return &Locator{
		name: name,
		begin: compileVariants(
			fmt.Sprintf(beginSpaced, name),
			fmt.Sprintf(beginCompact, name),
			fmt.Sprintf(beginMixed, name),
		),
	}
}

// Name returns the region name this locator searches for.
func (l *Locator) Name() string { return l.name }

// Locate returns the span of the region in buf. The second result is false
// when no start marker exists or no end marker follows it.
func (l *Locator) Locate(buf string) (Span, bool) {
	start, ok := firstVariant(l.begin, buf, 0)
	if !ok {
		return Span{}, false
	}
	end, ok := firstVariant(endVariants, buf, start[1])
	if !ok {
		return Span{}, false
	}
	return Span{
		Start:        start[0],
		ContentStart: start[1],
		ContentEnd:   end[0],
		End:          end[1],
		StartMarker:  buf[start[0]:start[1]],
		EndMarker:    buf[end[0]:end[1]],
	}, true
}

// Locate is a convenience wrapper around NewLocator(name).Locate(buf).
func Locate(buf, name string) (Span, bool) {
	return NewLocator(name).Locate(buf)
}

// firstVariant walks variants in priority order and returns the absolute
// [begin, end) of the first one that matches in buf[from:].
func firstVariant(variants []*regexp.Regexp, buf string, from int) ([2]int, bool) {
	if from < 0 || from > len(buf) {
		return [2]int{}, false
	}
	for _, re := range variants {
		if loc := re.FindStringIndex(buf[from:]); loc != nil {
			return [2]int{from + loc[0], from + loc[1]}, true
		}
	}
	return [2]int{}, false
}

// compileVariants turns marker literals into case-insensitive matchers.
func compileVariants(literals ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(literals))
	for i, lit := range literals {
		out[i] = regexp.MustCompile("(?i)" + regexp.QuoteMeta(lit))
	}
	return out
}
