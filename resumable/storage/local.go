package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path/filepath"
	"time"

	"github.com/bitrise-io/go-resumable/internal"
	"github.com/bmatcuk/doublestar/v4"
)

const dirPerm = 0o755

// Local stores chunks as plain files on the local filesystem.
type Local struct {
	osProxy internal.OsProxy
	now     func() time.Time
}

// NewLocal ...
func NewLocal() *Local {
	return newLocal(internal.RealOS{})
}

func newLocal(osProxy internal.OsProxy) *Local {
	return &Local{
		osProxy: osProxy,
		now:     time.Now,
	}
}

// Exists ...
func (l *Local) Exists(_ context.Context, path string) (bool, error) {
	_, err := l.osProxy.Stat(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, err
}

// Rename moves the staged file with os.Rename, so a chunk is either fully present or absent.
// Concurrent renames onto the same path are last-write-wins.
func (l *Local) Rename(_ context.Context, srcPath, dstPath string) error {
	if err := l.osProxy.MkdirAll(filepath.Dir(dstPath), dirPerm); err != nil {
		return err
	}
	return l.osProxy.Rename(srcPath, dstPath)
}

// Remove ...
func (l *Local) Remove(_ context.Context, path string) error {
	return l.osProxy.Remove(path)
}

// Open ...
func (l *Local) Open(_ context.Context, path string) (io.ReadCloser, error) {
	return l.osProxy.Open(path)
}

// Sweep expires the selected files of params.Dir. Entries vanishing while the
// sweep runs are skipped.
func (l *Local) Sweep(_ context.Context, params SweepParams) ([]string, error) {
	matches, err := doublestar.Glob(l.osProxy.DirFS(params.Dir), params.Pattern)
	if err != nil {
		return nil, fmt.Errorf("glob %s: %w", params.Pattern, err)
	}

	cutoff := l.now().Add(-params.OlderThan)
	var removed []string
	for _, match := range matches {
		if params.Match != nil && !params.Match(filepath.Base(filepath.FromSlash(match))) {
			continue
		}
		path := filepath.Join(params.Dir, filepath.FromSlash(match))

		info, err := l.osProxy.Stat(path)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return removed, err
		}
		if info.IsDir() || info.ModTime().After(cutoff) {
			continue
		}

		if err := l.osProxy.Remove(path); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return removed, err
		}
		removed = append(removed, path)
	}

	return removed, nil
}
