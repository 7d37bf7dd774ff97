package content

import "errors"

// Sentinel errors carried in outcomes. Outcomes are values; the errors are
// only there so callers can classify a failure with errors.Is.
var (
	ErrSourceMissing   = errors.New("source file not found")
	ErrTargetMissing   = errors.New("target file not found")
	ErrNoRegions       = errors.New("no editable regions synchronized")
	ErrInvalidEncoding = errors.New("file is not valid UTF-8")
)

// SyncOutcome describes what Sync did to one source/target pair.
type SyncOutcome struct {
	Source    string
	Target    string
	Success   bool
	Unchanged bool // target already held the source content; nothing written
	Total     int  // number of known regions
	Processed []string
	Missing   []string // present in source, absent in target
	Size      int64    // bytes of the final target buffer
	Written   int64    // bytes written to disk; 0 when Unchanged
	Message   string
	Err       error
}

// Synced returns the number of regions transplanted into the target.
func (o SyncOutcome) Synced() int { return len(o.Processed) }

// ValidationOutcome describes which known regions a single file contains.
type ValidationOutcome struct {
	Path          string
	Valid         bool
	Found         []string
	ContentLength int // summed rune count of all found regions
	Message       string
	Err           error
}
