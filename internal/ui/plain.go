package ui

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/SoiletsAce/ContentSync/internal/engine"
	"github.com/SoiletsAce/ContentSync/internal/stats"
)

const progressEvery = 5 // ticks between progress lines

// plainPresenter outputs one line per notable pair to stdout, and periodic
// progress to stderr when not a TTY.
type plainPresenter struct {
	w        io.Writer
	errW     io.Writer
	stats    *stats.Collector
	feed     feedFormat
	progress bool
	sum      summarizer
}

func (p *plainPresenter) Run(events <-chan Event) error {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()
	ticks := 0

	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			p.handleEvent(ev)
		case <-ticker.C:
			p.stats.Tick()
			ticks++
			if p.progress && ticks%progressEvery == 0 {
				p.printProgress()
			}
		}
	}
}

func (p *plainPresenter) handleEvent(ev Event) {
	if ev.Type == ScanComplete && p.progress {
		fmt.Fprintf(p.errW, "scan: %s documents\n", FormatCount(ev.Total))
		return
	}
	if line, ok := p.feed.line(ev); ok {
		fmt.Fprintln(p.w, line)
	}
}

func (p *plainPresenter) printProgress() {
	snap := p.stats.Snapshot()
	if p.feed.mode == engine.ModeValidate {
		fmt.Fprintf(p.errW, "progress: %s documents validated\n",
			FormatCount(snap.DocsValid+snap.DocsInvalid))
		return
	}
	fmt.Fprintf(p.errW, "progress: %.0f%% %s/%s pairs %s eta %s\n",
		percent(snap.PairsDone, snap.PairsTotal)*100,
		FormatCount(snap.PairsDone), FormatCount(snap.PairsTotal),
		FormatPerSec(p.stats.RollingPairsPerSec(10)),
		FormatETA(p.stats.ETA()),
	)
}

func (p *plainPresenter) Summary() string {
	return p.sum.String()
}

// feedFormat renders one feed line per event. Routine outcomes are shown
// only when verbose; failures and warnings always are.
type feedFormat struct {
	mode    engine.Mode
	root    string
	verbose bool
}

func (f feedFormat) line(ev Event) (string, bool) {
	lang := styleLang.Render(strings.ToUpper(ev.Lang))
	switch ev.Type {
	case PairSynced:
		if !f.verbose {
			return "", false
		}
		detail := fmt.Sprintf("%d regions", ev.Regions)
		if len(ev.Missing) > 0 {
			detail += ", missing " + strings.Join(ev.Missing, ", ")
		}
		return f.format(styleOK.Render(iconOK), lang, ev.Path, styleDetail.Render(detail)), true

	case PairUnchanged:
		if !f.verbose {
			return "", false
		}
		return f.format(styleDetail.Render(iconSame), lang, ev.Path, styleDetail.Render("unchanged")), true

	case PairResolved:
		if !f.verbose {
			return "", false
		}
		detail := fmt.Sprintf("%s %s (%s)", iconArrow, StripRoot(f.root, ev.Target), ev.Via)
		return f.format(styleOK.Render(iconOK), lang, ev.Path, styleDetail.Render(detail)), true

	case TargetMissing:
		if f.mode != engine.ModeAnalyze && !f.verbose {
			return "", false
		}
		detail := "missing " + StripRoot(f.root, ev.Target)
		return f.format(styleWarn.Render(iconWarn), lang, ev.Path, styleWarn.Render(detail)), true

	case PairFailed, ResolveFailed:
		return f.format(styleFailed.Render(iconFailed), lang, ev.Path, errorText(ev)), true

	case DocumentValidated:
		if ev.Error != nil || ev.Regions == 0 {
			return f.format(styleFailed.Render(iconFailed), "", ev.Path, errorText(ev)), true
		}
		if !f.verbose {
			return "", false
		}
		detail := fmt.Sprintf("%d regions", ev.Regions)
		return f.format(styleOK.Render(iconOK), "", ev.Path, styleDetail.Render(detail)), true

	case BackupStarted:
		return fmt.Sprintf("%s backing up %d languages to %s", styleDetail.Render(iconBackup), ev.Total, ev.Target), true

	case BackupCompleted:
		return fmt.Sprintf("%s backup complete: %s files, %s", styleOK.Render(iconBackup),
			FormatCount(ev.Total), FormatBytes(ev.Size)), true

	case BackupFailed:
		return fmt.Sprintf("%s backup failed: %s", styleFailed.Render(iconFailed), errorText(ev)), true
	}
	return "", false
}

func (f feedFormat) format(icon, lang, path, detail string) string {
	if lang != "" {
		return fmt.Sprintf("%s %s %s  %s", icon, lang, styledPath(path), detail)
	}
	return fmt.Sprintf("%s %s  %s", icon, styledPath(path), detail)
}

func errorText(ev Event) string {
	switch {
	case ev.Message != "":
		return ev.Message
	case ev.Error != nil:
		return ev.Error.Error()
	default:
		return "error"
	}
}

// styledPath dims the directory part so the file name stands out.
func styledPath(path string) string {
	dir, base := filepath.Split(filepath.FromSlash(path))
	if dir == "" {
		return base
	}
	return styleDir.Render(filepath.ToSlash(dir)) + base
}

// StripRoot removes a root prefix from a path, returning a slash-separated
// relative path. Paths outside root are returned unchanged.
func StripRoot(root, path string) string {
	if root == "" {
		return path
	}
	rel, err := filepath.Rel(root, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return path
	}
	return filepath.ToSlash(rel)
}
