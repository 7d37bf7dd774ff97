package ui

import (
	"fmt"
	"strings"

	"github.com/SoiletsAce/ContentSync/internal/engine"
	"github.com/SoiletsAce/ContentSync/internal/stats"
)

// summarizer builds the final summary line for a mode.
type summarizer struct {
	stats  *stats.Collector
	mode   engine.Mode
	dryRun bool
}

func (s summarizer) String() string {
	if s.stats == nil {
		return ""
	}
	return completionSummary(s.mode, s.dryRun, s.stats.Snapshot())
}

// completionSummary builds a final summary line from a snapshot.
// Format: done ✓  pairs 42  synced 30  unchanged 4  skipped 8  regions 120  written 1.2 MiB  time 3s  errors 0
func completionSummary(mode engine.Mode, dryRun bool, snap stats.Snapshot) string {
	failed := snap.Errors()
	if mode == engine.ModeValidate {
		failed = snap.DocsInvalid
	}
	icon := iconOK
	if failed > 0 {
		icon = iconFailed
	}

	var b strings.Builder
	fmt.Fprintf(&b, "done %s", icon)
	field := func(name, value string) {
		fmt.Fprintf(&b, "  %s %s", name, value)
	}

	switch mode {
	case engine.ModeAnalyze:
		field("pairs", FormatCount(snap.PairsDone))
		field("found", FormatCount(snap.TargetsFound))
		field("missing", FormatCount(snap.Skipped))
		field("hreflang", FormatCount(snap.ViaHreflang))
		field("fallback", FormatCount(snap.ViaFallback))
	case engine.ModeValidate:
		field("documents", FormatCount(snap.DocsScanned))
		field("valid", FormatCount(snap.DocsValid))
		field("invalid", FormatCount(snap.DocsInvalid))
	default:
		field("pairs", FormatCount(snap.PairsDone))
		field("synced", FormatCount(snap.Synced))
		field("unchanged", FormatCount(snap.Unchanged))
		field("skipped", FormatCount(snap.Skipped))
		field("regions", FormatCount(snap.RegionsSynced))
		field("written", FormatBytes(snap.BytesWritten))
	}
	field("time", FormatDuration(snap.Elapsed))
	if mode != engine.ModeValidate {
		field("errors", FormatCount(failed))
	}
	if dryRun {
		b.WriteString("  (dry run)")
	}
	return b.String()
}
