package event

import "time"

// Type identifies the kind of event.
type Type int

const (
	ScanStarted Type = iota + 1
	ScanComplete
	PairResolved
	ResolveFailed
	TargetMissing
	PairSynced
	PairUnchanged
	PairFailed
	DocumentValidated
	BackupStarted
	BackupCompleted
	BackupFailed
)

var typeNames = [...]string{
	ScanStarted:       "ScanStarted",
	ScanComplete:      "ScanComplete",
	PairResolved:      "PairResolved",
	ResolveFailed:     "ResolveFailed",
	TargetMissing:     "TargetMissing",
	PairSynced:        "PairSynced",
	PairUnchanged:     "PairUnchanged",
	PairFailed:        "PairFailed",
	DocumentValidated: "DocumentValidated",
	BackupStarted:     "BackupStarted",
	BackupCompleted:   "BackupCompleted",
	BackupFailed:      "BackupFailed",
}

func (t Type) String() string {
	if t > 0 && int(t) < len(typeNames) {
		return typeNames[t]
	}
	return "Unknown"
}

// Failure reports whether events of this type count as errors.
func (t Type) Failure() bool {
	return t == ResolveFailed || t == PairFailed || t == BackupFailed
}

// Event represents a single progress event from the engine.
type Event struct {
	Type      Type
	Timestamp time.Time
	Lang      string   // target language, empty for scan and validate events
	Path      string   // canonical document, relative to the canonical tree
	Target    string   // resolved target path
	Via       string   // resolution provenance: "hreflang" or "fallback"
	Regions   int      // regions processed (sync) or found (validate)
	Missing   []string // regions absent from the target or document
	Total     int64    // documents (ScanComplete) or pairs queued
	Size      int64    // bytes written or backed up
	Message   string
	Error     error
	WorkerID  int
}
