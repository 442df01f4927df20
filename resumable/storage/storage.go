// Package storage provides the byte-addressable backends a resumable chunk store
// persists chunk files into. Backends are addressed by path; the chunk store
// decides the paths and never reaches the underlying medium directly.
package storage

import (
	"context"
	"io"
	"time"

	"github.com/bmatcuk/doublestar/v4"
)

// Storage is the capability the chunk store depends on.
type Storage interface {
	// Exists reports whether path holds a chunk. A missing path is not an error.
	Exists(ctx context.Context, path string) (bool, error)

	// Rename moves a staged file to its canonical path, replacing any previous content.
	Rename(ctx context.Context, srcPath, dstPath string) error

	// Remove deletes path.
	Remove(ctx context.Context, path string) error

	// Open returns a sequential reader over the content at path.
	// The caller is responsible for closing it.
	Open(ctx context.Context, path string) (io.ReadCloser, error)
}

// SweepParams selects the entries a sweep expires.
type SweepParams struct {
	Dir string
	// Pattern is a doublestar glob matched against the entry names of Dir.
	Pattern string
	// Match, when set, narrows the names matching Pattern further.
	Match     func(name string) bool
	OlderThan time.Duration
}

func (p SweepParams) matches(name string) (bool, error) {
	matched, err := doublestar.Match(p.Pattern, name)
	if err != nil || !matched {
		return false, err
	}
	return p.Match == nil || p.Match(name), nil
}

// Sweeper is implemented by backends able to list and expire their own content.
type Sweeper interface {
	// Sweep removes the selected entries which were last modified more than
	// params.OlderThan ago, and returns the removed paths.
	Sweep(ctx context.Context, params SweepParams) ([]string, error)
}
