package ui

import "github.com/SoiletsAce/ContentSync/internal/event"

// Event is the engine progress event consumed by presenters.
type Event = event.Event

// Re-export event types for convenience.
const (
	ScanStarted       = event.ScanStarted
	ScanComplete      = event.ScanComplete
	PairResolved      = event.PairResolved
	ResolveFailed     = event.ResolveFailed
	TargetMissing     = event.TargetMissing
	PairSynced        = event.PairSynced
	PairUnchanged     = event.PairUnchanged
	PairFailed        = event.PairFailed
	DocumentValidated = event.DocumentValidated
	BackupStarted     = event.BackupStarted
	BackupCompleted   = event.BackupCompleted
	BackupFailed      = event.BackupFailed
)
