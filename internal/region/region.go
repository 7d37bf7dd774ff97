package region

import "strings"

// DefaultNames is the ordered list of regions synchronized by default.
var DefaultNames = []string{"head", "ScriptHeader", "PageContent", "PageEnde"}

// Extract returns the content between the region's markers.
func (l *Locator) Extract(buf string) (string, bool) {
	span, ok := l.Locate(buf)
	if !ok {
		return "", false
	}
	return buf[span.ContentStart:span.ContentEnd], true
}

// Replace returns a copy of buf with the region content swapped for content.
// Both markers and every byte outside the region are kept as they were.
func (l *Locator) Replace(buf, content string) (string, bool) {
	span, ok := l.Locate(buf)
	if !ok {
		return "", false
	}
	var b strings.Builder
	b.Grow(span.ContentStart + len(content) + len(buf) - span.ContentEnd)
	b.WriteString(buf[:span.ContentStart])
	b.WriteString(content)
	b.WriteString(buf[span.ContentEnd:])
	return b.String(), true
}

// Extract is a convenience wrapper around NewLocator(name).Extract(buf).
func Extract(buf, name string) (string, bool) {
	return NewLocator(name).Extract(buf)
}

// Replace is a convenience wrapper around NewLocator(name).Replace(buf, content).
func Replace(buf, name, content string) (string, bool) {
	return NewLocator(name).Replace(buf, content)
}
