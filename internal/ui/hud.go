package ui

import (
	"fmt"
	"io"
	"time"

	"github.com/SoiletsAce/ContentSync/internal/engine"
	"github.com/SoiletsAce/ContentSync/internal/stats"
)

const (
	sparklineWidth   = 20
	progressBarWidth = 20
	hudLines         = 2
	hudMinInterval   = 50 * time.Millisecond // don't redraw faster than this
)

// hudPresenter prints the feed above a 2-line HUD that redraws in place.
type hudPresenter struct {
	w     io.Writer
	stats *stats.Collector
	feed  feedFormat
	sum   summarizer

	hudDrawn    bool
	lastHUDDraw time.Time
}

func (p *hudPresenter) Run(events <-chan Event) error {
	// Fire first tick quickly to seed the ring buffer, then switch to 1s.
	secTicker := time.NewTicker(250 * time.Millisecond)
	defer secTicker.Stop()
	firstTickDone := false

	// Redraw when no events are flowing, e.g. during a backup.
	redrawTicker := time.NewTicker(100 * time.Millisecond)
	defer redrawTicker.Stop()

	for {
		select {
		case ev, ok := <-events:
			if !ok {
				p.clearHUD()
				return nil
			}
			p.handleEvent(ev)
			p.maybeDrawHUD()

		case <-redrawTicker.C:
			p.drawHUD()

		case <-secTicker.C:
			p.stats.Tick()
			if !firstTickDone {
				firstTickDone = true
				secTicker.Reset(time.Second)
			}
		}
	}
}

func (p *hudPresenter) handleEvent(ev Event) {
	line, ok := p.feed.line(ev)
	if !ok {
		return
	}
	p.clearHUD()
	fmt.Fprintln(p.w, line)
	p.drawHUD()
}

func (p *hudPresenter) maybeDrawHUD() {
	if time.Since(p.lastHUDDraw) < hudMinInterval {
		return
	}
	p.drawHUD()
}

func (p *hudPresenter) drawHUD() {
	p.clearHUD()
	snap := p.stats.Snapshot()

	done, total, unit := snap.PairsDone, snap.PairsTotal, "pairs"
	if p.feed.mode == engine.ModeValidate {
		done, total, unit = snap.DocsValid+snap.DocsInvalid, snap.DocsScanned, "documents"
	}
	pct := percent(done, total)

	// Line 1: pair rate sparkline + rate + counts.
	spark := Sparkline(p.stats.SparklineData(sparklineWidth), sparklineWidth)
	fmt.Fprintf(p.w, "       %s   %s   %s / %s %s\n",
		styleSparkline.Render(spark), FormatPerSec(p.stats.RollingPairsPerSec(10)),
		FormatCount(done), FormatCount(total), unit)

	// Line 2: progress bar + outcome counts + eta.
	fmt.Fprintf(p.w, " %3.0f%%  %s   %s   eta %s\n",
		pct*100, styleBar.Render(ProgressBar(pct, progressBarWidth)),
		p.counts(snap), FormatETA(p.stats.ETA()))

	p.hudDrawn = true
	p.lastHUDDraw = time.Now()
}

func (p *hudPresenter) counts(snap stats.Snapshot) string {
	switch p.feed.mode {
	case engine.ModeAnalyze:
		return fmt.Sprintf("found %s  missing %s  errors %s",
			FormatCount(snap.TargetsFound), FormatCount(snap.Skipped), FormatCount(snap.Errors()))
	case engine.ModeValidate:
		return fmt.Sprintf("valid %s  invalid %s", FormatCount(snap.DocsValid), FormatCount(snap.DocsInvalid))
	default:
		return fmt.Sprintf("synced %s  skipped %s  errors %s",
			FormatCount(snap.Synced), FormatCount(snap.Skipped), FormatCount(snap.Errors()))
	}
}

func (p *hudPresenter) clearHUD() {
	if !p.hudDrawn {
		return
	}
	// Move cursor up and clear to end of screen.
	fmt.Fprintf(p.w, "\033[%dA\033[J", hudLines)
	p.hudDrawn = false
}

func (p *hudPresenter) Summary() string {
	return p.sum.String()
}
