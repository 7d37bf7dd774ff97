// Package report renders the plain-text summary written after each run.
package report

import (
	"bufio"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/SoiletsAce/ContentSync/internal/content"
	"github.com/SoiletsAce/ContentSync/internal/engine"
	"github.com/SoiletsAce/ContentSync/internal/stats"
)

// FilePrefix starts every report file name.
const FilePrefix = "sync_report_"

// LangLine is one language row of the report.
type LangLine struct {
	Lang string
	stats.LangCounts
}

// Report is the content of a run report, detached from the engine result.
type Report struct {
	Date      time.Time
	Project   string
	Mode      string
	DryRun    bool
	Canceled  bool
	Languages []LangLine
	Totals    stats.Snapshot
	Backup    string
	Fatal     string
	Missing   []string // lang: relpath -> target
	Errors    []string // lang/relpath: message
	Invalid   []string // relpath: message
}

// FromResult builds a Report from a finished run. date names the report.
func FromResult(res engine.Result, date time.Time) Report {
	r := Report{
		Date:     date,
		Project:  res.Root,
		Mode:     res.Mode.String(),
		DryRun:   res.DryRun,
		Canceled: res.Canceled,
		Totals:   res.Stats,
	}
	for _, lang := range res.Languages {
		r.Languages = append(r.Languages, LangLine{Lang: lang, LangCounts: res.Langs[lang]})
	}
	if res.Backup != nil {
		r.Backup = res.Backup.Path
	}
	if res.Err != nil {
		r.Fatal = res.Err.Error()
	}
	for _, m := range res.Missing {
		r.Missing = append(r.Missing, fmt.Sprintf("%s: %s -> %s", m.Lang, m.Path, m.Target))
	}
	for _, f := range res.Failures {
		r.Errors = append(r.Errors, fmt.Sprintf("%s/%s: %s", f.Lang, f.Path, failureMessage(f.Message, f.Err)))
	}
	for _, v := range res.Invalid {
		r.Invalid = append(r.Invalid, fmt.Sprintf("%s: %s", v.Path, failureMessage(v.Message, v.Err)))
	}
	return r
}

func failureMessage(msg string, err error) string {
	switch {
	case msg != "":
		return msg
	case err != nil:
		return err.Error()
	default:
		return "unknown error"
	}
}

// FileName returns the report file name for date.
func FileName(date time.Time) string {
	return FilePrefix + date.Format(engine.TimestampLayout) + ".txt"
}

// Write renders r as plain text.
func Write(w io.Writer, r Report) error {
	bw := bufio.NewWriter(w)
	p := func(format string, args ...any) {
		fmt.Fprintf(bw, format+"\n", args...)
	}

	p("=== SYNC REPORT ===")
	p("Date: %s", r.Date.Format("2006-01-02 15:04:05"))
	p("Project: %s", r.Project)
	p("Mode: %s", r.Mode)
	if r.DryRun {
		p("Dry run: no files were changed")
	}
	if r.Canceled {
		p("Canceled: the run was interrupted")
	}
	if r.Backup != "" {
		p("Backup: %s", r.Backup)
	}

	if len(r.Languages) > 0 {
		p("")
		for _, l := range r.Languages {
			line := fmt.Sprintf("%s: %d succeeded, %d failed", strings.ToUpper(l.Lang), l.Succeeded, l.Failed)
			if l.Skipped > 0 {
				line += fmt.Sprintf(", %d skipped", l.Skipped)
			}
			p("%s", line)
		}
	}

	p("")
	p("=== SUMMARY ===")
	writeSummary(p, r)

	if r.Fatal != "" {
		p("")
		p("=== FATAL ===")
		p("%s", r.Fatal)
	}
	section(p, "MISSING TARGETS", r.Missing)
	section(p, "INVALID DOCUMENTS", r.Invalid)
	section(p, "ERROR DETAILS", r.Errors)

	return bw.Flush()
}

func writeSummary(p func(string, ...any), r Report) {
	t := r.Totals
	p("Documents scanned: %d", t.DocsScanned)
	switch r.Mode {
	case engine.ModeValidate.String():
		p("Valid documents: %d", t.DocsValid)
		p("Invalid documents: %d", t.DocsInvalid)
	case engine.ModeAnalyze.String():
		p("Targets found: %d", t.TargetsFound)
		p("Targets missing: %d", t.Skipped)
		p("Resolution errors: %d", t.ResolveFailed)
		p("Resolved via hreflang: %d", t.ViaHreflang)
		p("Resolved via fallback: %d", t.ViaFallback)
	default:
		p("Total succeeded: %d", t.Synced+t.Unchanged)
		p("Total failed: %d", t.Errors())
		p("Skipped (no target): %d", t.Skipped)
		p("Unchanged: %d", t.Unchanged)
		p("Regions synced: %d", t.RegionsSynced)
		p("Regions missing in targets: %d", t.RegionsMissing)
		p("Bytes written: %s", stats.FormatBytes(t.BytesWritten))
		if t.FilesBackedUp > 0 {
			p("Files backed up: %d (%s)", t.FilesBackedUp, stats.FormatBytes(t.BytesBackedUp))
		}
	}
	p("Elapsed: %s", t.Elapsed.Round(time.Millisecond))
}

func section(p func(string, ...any), title string, lines []string) {
	if len(lines) == 0 {
		return
	}
	p("")
	p("=== %s ===", title)
	for _, l := range lines {
		p("%s", l)
	}
}

// Save writes r to dir as sync_report_<timestamp>.txt and returns the path.
func Save(dir string, r Report) (string, error) {
	var b strings.Builder
	if err := Write(&b, r); err != nil {
		return "", err
	}
	path := filepath.Join(dir, FileName(r.Date))
	if err := content.WriteFileAtomic(path, []byte(b.String())); err != nil {
		return "", fmt.Errorf("save report: %w", err)
	}
	return path, nil
}
