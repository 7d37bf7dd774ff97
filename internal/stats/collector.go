package stats

import (
	"fmt"
	"maps"
	"slices"
	"sync"
	"sync/atomic"
	"time"
)

const ringSize = 60

// LangCounts are the per-language outcome counts shown in the run report.
type LangCounts struct {
	Succeeded int64 // synced, unchanged, or found by an analyze pass
	Failed    int64 // resolution or sync failures
	Skipped   int64 // target document missing
}

// Collector tracks run statistics. Counters are atomic so workers can
// update them without coordination; per-language counts take a mutex.
type Collector struct {
	docsScanned     atomic.Int64
	pairsTotal      atomic.Int64
	pairsDone       atomic.Int64
	synced          atomic.Int64
	unchanged       atomic.Int64
	failed          atomic.Int64
	skipped         atomic.Int64
	targetsFound    atomic.Int64
	resolveFailed   atomic.Int64
	viaHreflang     atomic.Int64
	viaFallback     atomic.Int64
	regionsSynced   atomic.Int64
	regionsMissing  atomic.Int64
	bytesWritten    atomic.Int64
	docsValid       atomic.Int64
	docsInvalid     atomic.Int64
	filesBackedUp   atomic.Int64
	bytesBackedUp   atomic.Int64
	startTime       time.Time

	langMu sync.Mutex
	langs  map[string]*LangCounts

	// Ring buffer, written only by the presenter's Tick.
	mu        sync.Mutex
	pairsRate [ringSize]int64
	ringIdx   int
	ringCount int
	lastPairs int64
}

// NewCollector creates a Collector with startTime set to now.
func NewCollector() *Collector {
	return &Collector{
		startTime: time.Now(),
		langs:     make(map[string]*LangCounts),
	}
}

func (c *Collector) AddDocsScanned(n int64)    { c.docsScanned.Add(n) }
func (c *Collector) AddPairsTotal(n int64)     { c.pairsTotal.Add(n) }
func (c *Collector) AddViaHreflang(n int64)    { c.viaHreflang.Add(n) }
func (c *Collector) AddViaFallback(n int64)    { c.viaFallback.Add(n) }
func (c *Collector) AddRegionsSynced(n int64)  { c.regionsSynced.Add(n) }
func (c *Collector) AddRegionsMissing(n int64) { c.regionsMissing.Add(n) }
func (c *Collector) AddBytesWritten(n int64)   { c.bytesWritten.Add(n) }
func (c *Collector) AddDocsValid(n int64)      { c.docsValid.Add(n) }
func (c *Collector) AddDocsInvalid(n int64)    { c.docsInvalid.Add(n) }

// AddBackup records files and bytes copied into a backup.
func (c *Collector) AddBackup(files, bytes int64) {
	c.filesBackedUp.Add(files)
	c.bytesBackedUp.Add(bytes)
}

// PairSynced records a target that was rewritten.
func (c *Collector) PairSynced(lang string) {
	c.synced.Add(1)
	c.pairDone(lang, func(lc *LangCounts) { lc.Succeeded++ })
}

// PairUnchanged records a target that was already up to date.
func (c *Collector) PairUnchanged(lang string) {
	c.unchanged.Add(1)
	c.pairDone(lang, func(lc *LangCounts) { lc.Succeeded++ })
}

// PairFailed records a failed sync.
func (c *Collector) PairFailed(lang string) {
	c.failed.Add(1)
	c.pairDone(lang, func(lc *LangCounts) { lc.Failed++ })
}

// ResolveFailed records a document whose target path could not be derived.
// It counts as a failure of that language.
func (c *Collector) ResolveFailed(lang string) {
	c.resolveFailed.Add(1)
	c.pairDone(lang, func(lc *LangCounts) { lc.Failed++ })
}

// TargetFound records an existing target during an analyze pass.
func (c *Collector) TargetFound(lang string) {
	c.targetsFound.Add(1)
	c.pairDone(lang, func(lc *LangCounts) { lc.Succeeded++ })
}

// TargetMissing records a pair skipped because the target does not exist.
func (c *Collector) TargetMissing(lang string) {
	c.skipped.Add(1)
	c.pairDone(lang, func(lc *LangCounts) { lc.Skipped++ })
}

func (c *Collector) pairDone(lang string, update func(*LangCounts)) {
	c.pairsDone.Add(1)
	if lang == "" {
		return
	}
	c.langMu.Lock()
	defer c.langMu.Unlock()
	lc, ok := c.langs[lang]
	if !ok {
		lc = &LangCounts{}
		c.langs[lang] = lc
	}
	update(lc)
}

// Langs returns a copy of the per-language counts.
func (c *Collector) Langs() map[string]LangCounts {
	c.langMu.Lock()
	defer c.langMu.Unlock()
	out := make(map[string]LangCounts, len(c.langs))
	for k, v := range c.langs {
		out[k] = *v
	}
	return out
}

// LangOrder returns the languages seen so far, sorted.
func (c *Collector) LangOrder() []string {
	c.langMu.Lock()
	defer c.langMu.Unlock()
	return slices.Sorted(maps.Keys(c.langs))
}

// Snapshot is a point-in-time read of all counters.
type Snapshot struct {
	DocsScanned    int64
	PairsTotal     int64
	PairsDone      int64
	Synced         int64
	Unchanged      int64
	Failed         int64
	Skipped        int64
	TargetsFound   int64
	ResolveFailed  int64
	ViaHreflang    int64
	ViaFallback    int64
	RegionsSynced  int64
	RegionsMissing int64
	BytesWritten   int64
	DocsValid      int64
	DocsInvalid    int64
	FilesBackedUp  int64
	BytesBackedUp  int64
	Elapsed        time.Duration
}

// Errors is the number of pairs that count as failures.
func (s Snapshot) Errors() int64 { return s.Failed + s.ResolveFailed }

// Snapshot returns a point-in-time read of all counters.
func (c *Collector) Snapshot() Snapshot {
	return Snapshot{
		DocsScanned:    c.docsScanned.Load(),
		PairsTotal:     c.pairsTotal.Load(),
		PairsDone:      c.pairsDone.Load(),
		Synced:         c.synced.Load(),
		Unchanged:      c.unchanged.Load(),
		Failed:         c.failed.Load(),
		Skipped:        c.skipped.Load(),
		TargetsFound:   c.targetsFound.Load(),
		ResolveFailed:  c.resolveFailed.Load(),
		ViaHreflang:    c.viaHreflang.Load(),
		ViaFallback:    c.viaFallback.Load(),
		RegionsSynced:  c.regionsSynced.Load(),
		RegionsMissing: c.regionsMissing.Load(),
		BytesWritten:   c.bytesWritten.Load(),
		DocsValid:      c.docsValid.Load(),
		DocsInvalid:    c.docsInvalid.Load(),
		FilesBackedUp:  c.filesBackedUp.Load(),
		BytesBackedUp:  c.bytesBackedUp.Load(),
		Elapsed:        c.Elapsed(),
	}
}

// Tick records the pairs completed since the previous tick. Called once per
// second by the presenter.
func (c *Collector) Tick() {
	current := c.pairsDone.Load()

	c.mu.Lock()
	defer c.mu.Unlock()

	c.pairsRate[c.ringIdx] = current - c.lastPairs
	c.lastPairs = current
	c.ringIdx = (c.ringIdx + 1) % ringSize
	if c.ringCount < ringSize {
		c.ringCount++
	}
}

// RollingPairsPerSec returns the average pairs/sec over the last n samples.
func (c *Collector) RollingPairsPerSec(n int) float64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	count := min(n, c.ringCount)
	if count <= 0 {
		return 0
	}
	var sum int64
	for i := range count {
		sum += c.pairsRate[(c.ringIdx-1-i+ringSize)%ringSize]
	}
	return float64(sum) / float64(count)
}

// SparklineData returns up to n recent per-second pair counts, oldest first.
func (c *Collector) SparklineData(n int) []float64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	count := min(n, c.ringCount)
	if count <= 0 {
		return nil
	}
	out := make([]float64, count)
	for i := range count {
		out[count-1-i] = float64(c.pairsRate[(c.ringIdx-1-i+ringSize)%ringSize])
	}
	return out
}

// ETA estimates the remaining time from the rolling pair rate.
func (c *Collector) ETA() time.Duration {
	rate := c.RollingPairsPerSec(10)
	if rate <= 0 {
		return 0
	}
	remaining := c.pairsTotal.Load() - c.pairsDone.Load()
	if remaining <= 0 {
		return 0
	}
	return time.Duration(float64(remaining)/rate) * time.Second
}

// Elapsed returns time since collector creation.
func (c *Collector) Elapsed() time.Duration {
	return time.Since(c.startTime)
}

func (s Snapshot) String() string {
	return fmt.Sprintf(
		"docs=%d pairs=%d synced=%d unchanged=%d failed=%d skipped=%d hreflang=%d fallback=%d bytes=%d",
		s.DocsScanned, s.PairsDone, s.Synced, s.Unchanged, s.Errors(), s.Skipped,
		s.ViaHreflang, s.ViaFallback, s.BytesWritten,
	)
}

// FormatBytes returns a human-readable byte count.
func FormatBytes(b int64) string {
	const unit = 1024
	if b < unit {
		return fmt.Sprintf("%d B", b)
	}
	div, exp := int64(unit), 0
	for n := b / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(b)/float64(div), "KMGTPE"[exp])
}
