package content

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
)

// WriteFileAtomic replaces path with data through a temp file in the same
// directory and a rename. The existing file mode is kept.
func WriteFileAtomic(path string, data []byte) error {
	perm := fs.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		perm = info.Mode().Perm()
	} else if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("stat %s: %w", path, err)
	}

	dir := filepath.Dir(path)
	tmpPath := filepath.Join(dir, fmt.Sprintf(".%s.%s.csync-tmp", filepath.Base(path), uuid.New().String()[:8]))

	registerTmp(tmpPath)
	defer func() {
		deregisterTmp(tmpPath)
		_ = os.Remove(tmpPath) // no-op if rename succeeded
	}()

	f, err := os.OpenFile(tmpPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, perm)
	if err != nil {
		return fmt.Errorf("create tmp %s: %w", tmpPath, err)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return fmt.Errorf("write tmp %s: %w", tmpPath, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close tmp %s: %w", tmpPath, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("rename %s -> %s: %w", tmpPath, path, err)
	}
	return nil
}

// Discard is a WriteFunc that drops the data. Used for dry runs.
func Discard(string, []byte) error { return nil }

// tmpFiles tracks in-flight temp files so an interrupted run can remove them.
var tmpFiles = struct {
	mu    sync.Mutex
	paths map[string]struct{}
}{}

func registerTmp(path string) {
	tmpFiles.mu.Lock()
	defer tmpFiles.mu.Unlock()
	if tmpFiles.paths == nil {
		tmpFiles.paths = make(map[string]struct{})
	}
	tmpFiles.paths[path] = struct{}{}
}

func deregisterTmp(path string) {
	tmpFiles.mu.Lock()
	defer tmpFiles.mu.Unlock()
	delete(tmpFiles.paths, path)
}

// CleanupTmpFiles removes every temp file still registered.
func CleanupTmpFiles() {
	tmpFiles.mu.Lock()
	paths := make([]string, 0, len(tmpFiles.paths))
	for p := range tmpFiles.paths {
		paths = append(paths, p)
	}
	tmpFiles.paths = nil
	tmpFiles.mu.Unlock()

	for _, p := range paths {
		_ = os.Remove(p)
	}
}
