package ui

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/SoiletsAce/ContentSync/internal/engine"
	"github.com/SoiletsAce/ContentSync/internal/stats"
)

func TestCompletionSummary(t *testing.T) {
	snap := stats.Snapshot{
		DocsScanned:   3,
		PairsDone:     1042,
		Synced:        30,
		Unchanged:     4,
		Skipped:       8,
		Failed:        1,
		TargetsFound:  40,
		ViaHreflang:   12,
		ViaFallback:   1030,
		RegionsSynced: 120,
		BytesWritten:  2048,
		DocsValid:     2,
		DocsInvalid:   1,
		Elapsed:       3 * time.Second,
	}

	tests := []struct {
		name   string
		mode   engine.Mode
		dryRun bool
		want   string
	}{
		{
			"sync", engine.ModeSync, false,
			"done " + iconFailed + "  pairs 1,042  synced 30  unchanged 4  skipped 8  regions 120  written 2.0 KiB  time 3s  errors 1",
		},
		{
			"sync dry run", engine.ModeSync, true,
			"done " + iconFailed + "  pairs 1,042  synced 30  unchanged 4  skipped 8  regions 120  written 2.0 KiB  time 3s  errors 1  (dry run)",
		},
		{
			"analyze", engine.ModeAnalyze, false,
			"done " + iconFailed + "  pairs 1,042  found 40  missing 8  hreflang 12  fallback 1,030  time 3s  errors 1",
		},
		{
			"validate", engine.ModeValidate, false,
			"done " + iconFailed + "  documents 3  valid 2  invalid 1  time 3s",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, completionSummary(tt.mode, tt.dryRun, snap))
		})
	}
}

func TestCompletionSummary_Clean(t *testing.T) {
	got := completionSummary(engine.ModeSync, false, stats.Snapshot{Synced: 2, PairsDone: 2})
	assert.Contains(t, got, "done "+iconOK)
	assert.Contains(t, got, "errors 0")
}

func TestSummarizer_NilStats(t *testing.T) {
	assert.Empty(t, summarizer{}.String())
}
