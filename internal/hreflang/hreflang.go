// Package hreflang reads <link rel="alternate" hreflang="xx" href="..."> declarations
// from HTML text without building a DOM.
package hreflang

import (
	"log/slog"
	"os"
	"regexp"
	"strings"
)

// LinkMap maps a lower-case two-letter language code to the declared URL.
type LinkMap map[string]string

// URL returns the URL declared for lang.
func (m LinkMap) URL(lang string) (string, bool) {
	u, ok := m[strings.ToLower(lang)]
	return u, ok && u != ""
}

// Attribute fragments shared by all phrasings.
const (
	quote     = `["']`
	attrRel   = `rel=` + quote + `alternate` + quote
	attrLang  = `hreflang=` + quote + `(?P<lang>[a-z]{2})` + quote
	attrHref  = `href=` + quote + `(?P<href>[^"']+)` + quote
	linkOpen  = `(?i)<link\s+`
	linkClose = `\s*/?>`
)

// patterns cover every ordering of the rel, hreflang and href attributes.
// They are applied in this order; the first declaration seen for a language
// wins.
var patterns = compile(
	[3]string{attrRel, attrLang, attrHref},
	[3]string{attrLang, attrRel, attrHref},
	[3]string{attrLang, attrHref, attrRel},
	[3]string{attrHref, attrRel, attrLang},
	[3]string{attrHref, attrLang, attrRel},
	[3]string{attrRel, attrHref, attrLang},
)

type pattern struct {
	re   *regexp.Regexp
	lang int
	href int
}

func compile(orders ...[3]string) []pattern {
	out := make([]pattern, len(orders))
	for i, attrs := range orders {
		re := regexp.MustCompile(linkOpen + strings.Join(attrs[:], `\s+`) + linkClose)
		out[i] = pattern{
			re:   re,
			lang: re.SubexpIndex("lang"),
			href: re.SubexpIndex("href"),
		}
	}
	return out
}

// Parse scans text for alternate-language declarations.
func Parse(text string) LinkMap {
	links := make(LinkMap)
	for _, p := range patterns {
		for _, m := range p.re.FindAllStringSubmatch(text, -1) {
			code := strings.ToLower(m[p.lang])
			if _, seen := links[code]; seen {
				continue
			}
			links[code] = m[p.href]
		}
	}
	return links
}

// Extract reads the document at path and parses its declarations. A read
// failure is logged and yields an empty map.
func Extract(path string) LinkMap {
	data, err := os.ReadFile(path)
	if err != nil {
		slog.Warn("read hreflang links", "path", path, "error", err)
		return LinkMap{}
	}
	return Parse(string(data))
}
