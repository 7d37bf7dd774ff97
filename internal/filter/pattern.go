package filter

import (
	"regexp"
	"strings"
)

// glob is an rsync-style pattern compiled to a regexp. Site trees are
// usually edited on case-insensitive file systems, so matching ignores case.
type glob struct {
	re       *regexp.Regexp
	source   string
	anchored bool // leading "/" or an inner "/"
	dirOnly  bool // trailing "/"
}

func compileGlob(pattern string) (*glob, error) {
	g := &glob{source: pattern}

	body := pattern
	if strings.HasSuffix(body, "/") {
		g.dirOnly = true
		body = strings.TrimSuffix(body, "/")
	}
	switch {
	case strings.HasPrefix(body, "/"):
		g.anchored = true
		body = strings.TrimPrefix(body, "/")
	case strings.Contains(body, "/"):
		g.anchored = true
	}

	prefix := "(?i)(^|/)"
	if g.anchored {
		prefix = "(?i)^"
	}
	re, err := regexp.Compile(prefix + translateGlob(body) + "$")
	if err != nil {
		return nil, err
	}
	g.re = re
	return g, nil
}

func (g *glob) match(relPath string, isDir bool) bool {
	if g.dirOnly && !isDir {
		return false
	}
	return g.re.MatchString(relPath)
}

func (g *glob) String() string { return g.source }

// translateGlob converts glob syntax to regexp syntax: "**/" spans any
// number of directories, "**" anything, "*" and "?" stay within one segment
// and "[...]"/"[!...]" are character classes.
func translateGlob(pattern string) string {
	var b strings.Builder
	for i := 0; i < len(pattern); {
		switch c := pattern[i]; c {
		case '*':
			switch {
			case strings.HasPrefix(pattern[i:], "**/"):
				b.WriteString("(.*/)?")
				i += 3
			case strings.HasPrefix(pattern[i:], "**"):
				b.WriteString(".*")
				i += 2
			default:
				b.WriteString("[^/]*")
				i++
			}
		case '?':
			b.WriteString("[^/]")
			i++
		case '[':
			class, n := charClass(pattern[i:])
			if n == 0 {
				b.WriteString(`\[`)
				i++
				continue
			}
			b.WriteString(class)
			i += n
		default:
			b.WriteString(regexp.QuoteMeta(string(c)))
			i++
		}
	}
	return b.String()
}

// charClass translates the bracket expression at the start of s and returns
// it with the number of bytes consumed, or n == 0 if it is unterminated.
func charClass(s string) (class string, n int) {
	j := 1
	if j < len(s) && s[j] == '!' {
		j++
	}
	if j < len(s) && s[j] == ']' {
		j++
	}
	end := strings.IndexByte(s[j:], ']')
	if end < 0 {
		return "", 0
	}
	end += j
	body := s[1:end]
	if strings.HasPrefix(body, "!") {
		body = "^" + body[1:]
	}
	return "[" + body + "]", end + 1
}
