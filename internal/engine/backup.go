package engine

import (
	"archive/tar"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/klauspost/compress/zstd"
	"github.com/zeebo/blake3"
	"golang.org/x/sync/errgroup"

	"github.com/SoiletsAce/ContentSync/internal/event"
	"github.com/SoiletsAce/ContentSync/internal/stats"
)

// BackupFormat selects how language trees are snapshotted.
type BackupFormat string

const (
	BackupDir    BackupFormat = "dir"
	BackupTarZst BackupFormat = "tar.zst"
)

// TimestampLayout names backups and reports, e.g. 20240131_142501.
const TimestampLayout = "20060102_150405"

// ParseBackupFormat validates a --backup-format value.
func ParseBackupFormat(s string) (BackupFormat, error) {
	switch f := BackupFormat(s); f {
	case BackupDir, BackupTarZst:
		return f, nil
	case "":
		return BackupDir, nil
	default:
		return "", fmt.Errorf("invalid backup format %q (want %q or %q)", s, BackupDir, BackupTarZst)
	}
}

// BackupConfig describes a snapshot of translated trees.
type BackupConfig struct {
	Root      string
	Languages []string
	Format    BackupFormat
	Workers   int
	Time      time.Time
	Events    chan<- event.Event
	Stats     *stats.Collector
}

// BackupResult describes a finished snapshot.
type BackupResult struct {
	Path      string   // backup directory or archive
	Languages []string // languages that had a tree to back up
	Files     int64
	Bytes     int64
}

// Backup copies <root>/<lang> for every language with an existing tree into
// backup_<timestamp>/ or backup_<timestamp>.tar.zst below root. Every copied
// file is verified against its source by BLAKE3 digest.
func Backup(ctx context.Context, cfg BackupConfig) (BackupResult, error) {
	if cfg.Time.IsZero() {
		cfg.Time = time.Now()
	}
	format, err := ParseBackupFormat(string(cfg.Format))
	if err != nil {
		return BackupResult{}, err
	}

	var langs []string
	for _, lang := range cfg.Languages {
		info, err := os.Stat(filepath.Join(cfg.Root, lang))
		switch {
		case err == nil && info.IsDir():
			langs = append(langs, lang)
		case err == nil || errors.Is(err, fs.ErrNotExist):
			slog.Debug("no tree to back up", "lang", lang)
		default:
			return BackupResult{}, fmt.Errorf("backup %s: %w", lang, err)
		}
	}

	name := "backup_" + cfg.Time.Format(TimestampLayout)
	res := BackupResult{Languages: langs}
	if format == BackupTarZst {
		res.Path = filepath.Join(cfg.Root, name+".tar.zst")
	} else {
		res.Path = filepath.Join(cfg.Root, name)
	}

	emitEvent(ctx, cfg.Events, event.Event{Type: event.BackupStarted, Target: res.Path, Total: int64(len(langs))})

	if format == BackupTarZst {
		err = backupArchive(ctx, cfg.Root, langs, res.Path, &res)
	} else {
		err = backupDirs(ctx, cfg.Root, langs, res.Path, cfg.Workers, &res)
	}
	if err != nil {
		emitEvent(ctx, cfg.Events, event.Event{Type: event.BackupFailed, Target: res.Path, Error: err})
		return res, err
	}

	if cfg.Stats != nil {
		cfg.Stats.AddBackup(res.Files, res.Bytes)
	}
	emitEvent(ctx, cfg.Events, event.Event{
		Type:   event.BackupCompleted,
		Target: res.Path,
		Total:  res.Files,
		Size:   res.Bytes,
	})
	slog.Info("backup created", "path", res.Path, "languages", langs, "files", res.Files, "bytes", res.Bytes)
	return res, nil
}

func backupDirs(ctx context.Context, root string, langs []string, dest string, workers int, res *BackupResult) error {
	if err := os.MkdirAll(dest, 0o755); err != nil {
		return fmt.Errorf("create backup directory: %w", err)
	}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(workers, 1))
	for _, lang := range langs {
		g.Go(func() error {
			src := filepath.Join(root, lang)
			dst := filepath.Join(dest, lang)
			files, size, err := copyTree(gctx, src, dst)
			if err != nil {
				return fmt.Errorf("backup %s: %w", lang, err)
			}
			if err := verifyTree(gctx, src, dst); err != nil {
				return fmt.Errorf("verify backup %s: %w", lang, err)
			}
			mu.Lock()
			res.Files += files
			res.Bytes += size
			mu.Unlock()
			return nil
		})
	}
	return g.Wait()
}

// copyTree copies directories and regular files from src to dst, keeping
// file modes and modification times.
func copyTree(ctx context.Context, src, dst string) (files, size int64, err error) {
	err = filepath.WalkDir(src, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)

		info, err := d.Info()
		if err != nil {
			return err
		}
		switch {
		case d.IsDir():
			return os.MkdirAll(target, info.Mode().Perm()|0o700)
		case d.Type().IsRegular():
			n, err := copyFile(path, target, info)
			if err != nil {
				return err
			}
			files++
			size += n
			return nil
		default:
			slog.Debug("backup skips non-regular file", "path", path)
			return nil
		}
	})
	return files, size, err
}

func copyFile(src, dst string, info fs.FileInfo) (int64, error) {
	in, err := os.Open(src)
	if err != nil {
		return 0, err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, info.Mode().Perm())
	if err != nil {
		return 0, err
	}
	n, err := io.Copy(out, in)
	if err != nil {
		out.Close()
		return n, fmt.Errorf("copy %s: %w", src, err)
	}
	if err := out.Close(); err != nil {
		return n, err
	}
	return n, os.Chtimes(dst, info.ModTime(), info.ModTime())
}

// verifyTree compares the BLAKE3 digest of every regular file under src
// with its copy under dst.
func verifyTree(ctx context.Context, src, dst string) error {
	return filepath.WalkDir(src, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		want, err := HashFile(path)
		if err != nil {
			return err
		}
		got, err := HashFile(filepath.Join(dst, rel))
		if err != nil {
			return err
		}
		if want != got {
			return fmt.Errorf("checksum mismatch for %s", rel)
		}
		return nil
	})
}

// backupArchive streams the language trees into one zstd-compressed tar and
// then reads the archive back to verify every entry.
func backupArchive(ctx context.Context, root string, langs []string, dest string, res *BackupResult) (err error) {
	f, err := os.OpenFile(dest, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("create backup archive: %w", err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = cerr
		}
	}()

	zw, err := zstd.NewWriter(f)
	if err != nil {
		return fmt.Errorf("zstd writer: %w", err)
	}
	tw := tar.NewWriter(zw)

	digests := make(map[string]string)
	for _, lang := range langs {
		if err := archiveTree(ctx, tw, root, lang, digests, res); err != nil {
			zw.Close()
			return fmt.Errorf("backup %s: %w", lang, err)
		}
	}
	if err := tw.Close(); err != nil {
		zw.Close()
		return fmt.Errorf("finish archive: %w", err)
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("finish compression: %w", err)
	}
	if err := f.Sync(); err != nil {
		return fmt.Errorf("sync archive: %w", err)
	}

	return verifyArchive(dest, digests)
}

func archiveTree(ctx context.Context, tw *tar.Writer, root, lang string, digests map[string]string, res *BackupResult) error {
	base := filepath.Join(root, lang)
	return filepath.WalkDir(base, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if !d.IsDir() && !d.Type().IsRegular() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		hdr, err := tar.FileInfoHeader(info, "")
		if err != nil {
			return err
		}
		hdr.Name = filepath.ToSlash(rel)
		if d.IsDir() {
			hdr.Name += "/"
		}
		if err := tw.WriteHeader(hdr); err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		in, err := os.Open(path)
		if err != nil {
			return err
		}
		defer in.Close()
		h := blake3.New()
		n, err := io.Copy(io.MultiWriter(tw, h), in)
		if err != nil {
			return fmt.Errorf("archive %s: %w", path, err)
		}
		digests[hdr.Name] = fmt.Sprintf("%x", h.Sum(nil))
		res.Files++
		res.Bytes += n
		return nil
	})
}

func verifyArchive(path string, digests map[string]string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("verify archive: %w", err)
	}
	defer f.Close()

	zr, err := zstd.NewReader(f)
	if err != nil {
		return fmt.Errorf("verify archive: %w", err)
	}
	defer zr.Close()

	seen := 0
	tr := tar.NewReader(zr)
	for {
		hdr, err := tr.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return fmt.Errorf("verify archive: %w", err)
		}
		if hdr.Typeflag != tar.TypeReg {
			continue
		}
		got, err := hashReader(tr, hdr.Name)
		if err != nil {
			return fmt.Errorf("verify archive: %w", err)
		}
		if want, ok := digests[hdr.Name]; !ok || want != got {
			return fmt.Errorf("verify archive: checksum mismatch for %s", hdr.Name)
		}
		seen++
	}
	if seen != len(digests) {
		return fmt.Errorf("verify archive: %d of %d files present", seen, len(digests))
	}
	return nil
}
