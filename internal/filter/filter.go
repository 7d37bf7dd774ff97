// Package filter decides which documents of the canonical tree take part in
// a run: fixed denylists first, then user glob rules.
package filter

import "strings"

// DefaultFiles are file names that never take part in a run.
var DefaultFiles = []string{".htaccess", ".htpasswd", "web.config", "robots.txt", "sitemap.xml"}

// DefaultDirs are directory names whose trees are never entered.
var DefaultDirs = []string{"intern", "internal", "_temp", "_backup", ".git", ".svn"}

// Rule represents a single include or exclude glob.
type Rule struct {
	Pattern *glob
	Include bool
}

// Chain holds the denylists, an ordered list of glob rules and an optional
// document size limit.
type Chain struct {
	files   map[string]struct{}
	dirs    map[string]struct{}
	rules   []Rule
	maxSize int64
}

// NewChain creates a chain seeded with DefaultFiles and DefaultDirs.
func NewChain() *Chain {
	c := &Chain{
		files: make(map[string]struct{}),
		dirs:  make(map[string]struct{}),
	}
	c.DenyFiles(DefaultFiles...)
	c.DenyDirs(DefaultDirs...)
	return c
}

// DenyFiles adds file names to the denylist. Matching ignores case.
func (c *Chain) DenyFiles(names ...string) {
	for _, n := range names {
		if n = strings.TrimSpace(n); n != "" {
			c.files[strings.ToLower(n)] = struct{}{}
		}
	}
}

// DenyDirs adds directory names to the denylist. Matching ignores case.
func (c *Chain) DenyDirs(names ...string) {
	for _, n := range names {
		if n = strings.TrimSpace(strings.Trim(n, `/\`)); n != "" {
			c.dirs[strings.ToLower(n)] = struct{}{}
		}
	}
}

// AddExclude adds an exclude rule for the given glob.
func (c *Chain) AddExclude(pattern string) error {
	return c.add(pattern, false)
}

// AddInclude adds an include rule for the given glob.
func (c *Chain) AddInclude(pattern string) error {
	return c.add(pattern, true)
}

func (c *Chain) add(pattern string, include bool) error {
	g, err := compileGlob(pattern)
	if err != nil {
		return err
	}
	c.rules = append(c.rules, Rule{Pattern: g, Include: include})
	return nil
}

// SetMaxSize skips documents larger than n bytes. Zero disables the limit.
func (c *Chain) SetMaxSize(n int64) {
	c.maxSize = n
}

// IsFileExcluded reports whether name is on the file denylist.
func (c *Chain) IsFileExcluded(name string) bool {
	_, ok := c.files[strings.ToLower(lastSegment(name))]
	return ok
}

// IsDirExcluded reports whether name is on the directory denylist.
func (c *Chain) IsDirExcluded(name string) bool {
	_, ok := c.dirs[strings.ToLower(lastSegment(name))]
	return ok
}

// Match returns true if the entry should be INCLUDED. relPath is slash
// separated and relative to the canonical tree; size is ignored for
// directories.
func (c *Chain) Match(relPath string, isDir bool, size int64) bool {
	if isDir {
		if c.IsDirExcluded(relPath) {
			return false
		}
	} else {
		if c.IsFileExcluded(relPath) {
			return false
		}
		if c.maxSize > 0 && size > c.maxSize {
			return false
		}
	}

	// First matching rule wins.
	for _, rule := range c.rules {
		if rule.Pattern.match(relPath, isDir) {
			return rule.Include
		}
	}
	return true
}

func lastSegment(p string) string {
	p = strings.TrimRight(p, `/\`)
	if i := strings.LastIndexAny(p, `/\`); i >= 0 {
		return p[i+1:]
	}
	return p
}
