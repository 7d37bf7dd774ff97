package filter

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// LoadFile reads rules from a file and appends them to the chain:
//
//	+ pattern   include
//	- pattern   exclude
//	pattern     exclude
//	# comment   ignored, as are blank lines
func (c *Chain) LoadFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open filter file: %w", err)
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	for line := 1; sc.Scan(); line++ {
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}

		include := false
		switch {
		case strings.HasPrefix(text, "+ "):
			include = true
			text = strings.TrimSpace(text[2:])
		case strings.HasPrefix(text, "- "):
			text = strings.TrimSpace(text[2:])
		}

		if err := c.add(text, include); err != nil {
			return fmt.Errorf("filter file %s line %d: %w", path, line, err)
		}
	}
	return sc.Err()
}
