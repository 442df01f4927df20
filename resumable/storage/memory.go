package storage

import (
	"bytes"
	"context"
	"io"
	"io/fs"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"
)

type memoryObject struct {
	data    []byte
	modTime time.Time
}

// Memory keeps chunks in process memory. It is safe for concurrent use and is
// mostly useful for tests and short-lived single-process deployments.
type Memory struct {
	objects map[string]memoryObject
	now     func() time.Time
	mu      sync.RWMutex
}

// NewMemory ...
func NewMemory() *Memory {
	return &Memory{
		objects: map[string]memoryObject{},
		now:     time.Now,
	}
}

// Put stores data at path, the way a transport would stage an uploaded file.
func (m *Memory) Put(path string, data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()

	// Make a copy of the data to avoid issues with buffer reuse
	content := make([]byte, len(data))
	copy(content, data)
	m.objects[path] = memoryObject{data: content, modTime: m.now()}
}

// Bytes returns a copy of the content at path.
func (m *Memory) Bytes(path string) ([]byte, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	obj, ok := m.objects[path]
	if !ok {
		return nil, false
	}
	return append([]byte(nil), obj.data...), true
}

// Paths returns every stored path in lexical order.
func (m *Memory) Paths() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	paths := make([]string, 0, len(m.objects))
	for p := range m.objects {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// Exists ...
func (m *Memory) Exists(_ context.Context, path string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	_, ok := m.objects[path]
	return ok, nil
}

// Rename ...
func (m *Memory) Rename(_ context.Context, srcPath, dstPath string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	obj, ok := m.objects[srcPath]
	if !ok {
		return &fs.PathError{Op: "rename", Path: srcPath, Err: fs.ErrNotExist}
	}
	delete(m.objects, srcPath)
	obj.modTime = m.now()
	m.objects[dstPath] = obj
	return nil
}

// Remove ...
func (m *Memory) Remove(_ context.Context, path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.objects[path]; !ok {
		return &fs.PathError{Op: "remove", Path: path, Err: fs.ErrNotExist}
	}
	delete(m.objects, path)
	return nil
}

// Open ...
func (m *Memory) Open(_ context.Context, path string) (io.ReadCloser, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	obj, ok := m.objects[path]
	if !ok {
		return nil, &fs.PathError{Op: "open", Path: path, Err: fs.ErrNotExist}
	}
	return io.NopCloser(bytes.NewReader(obj.data)), nil
}

// Sweep removes the selected objects directly inside params.Dir that are older than params.OlderThan.
func (m *Memory) Sweep(_ context.Context, params SweepParams) ([]string, error) {
	if !doublestar.ValidatePattern(params.Pattern) {
		return nil, doublestar.ErrBadPattern
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	cutoff := m.now().Add(-params.OlderThan)
	var removed []string
	for p, obj := range m.objects {
		if filepath.Dir(p) != filepath.Clean(params.Dir) {
			continue
		}
		matched, err := params.matches(filepath.Base(p))
		if err != nil {
			return nil, err
		}
		if !matched || obj.modTime.After(cutoff) {
			continue
		}
		delete(m.objects, p)
		removed = append(removed, p)
	}
	sort.Strings(removed)

	return removed, nil
}
