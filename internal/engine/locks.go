package engine

import (
	"sync"

	"github.com/cespare/xxhash/v2"
)

const lockStripes = 64

// pathLocks serializes work on the same target path. Two hreflang links can
// point different canonical documents at one target; their read-modify-write
// cycles must not interleave.
type pathLocks struct {
	stripes [lockStripes]sync.Mutex
}

// lock acquires the stripe for path and returns its unlock function.
func (l *pathLocks) lock(path string) func() {
	m := &l.stripes[xxhash.Sum64String(path)%lockStripes]
	m.Lock()
	return m.Unlock
}
