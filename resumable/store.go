// Package resumable implements the server side of resumable.js style chunked uploads.
//
// A Store validates chunk coordinates, moves staged chunks to deterministic
// filenames, detects when every chunk of an upload arrived, and streams the
// chunks back in order or deletes them. Chunk traversal always walks chunk
// numbers 1, 2, 3, ... and stops at the first missing one.
//
// The Store performs no locking: concurrent submissions of the same chunk race
// on the backend's rename, which is last-write-wins for the provided backends.
package resumable

import (
	"context"
	"errors"
	"os"

	"github.com/bitrise-io/go-resumable/resumable/storage"
	"github.com/bitrise-io/go-utils/v2/log"
	"github.com/docker/go-units"
)

// Options ...
type Options struct {
	// ChunkPrefix is prepended to every chunk filename.
	ChunkPrefix string
	// TempDir is the directory chunk files are kept in. Defaults to os.TempDir().
	TempDir string
}

// Store manages the chunk files of resumable uploads.
type Store struct {
	backend     storage.Storage
	logger      log.Logger
	chunkPrefix string
	tempDir     string
}

// New ...
func New(backend storage.Storage, logger log.Logger, opts Options) *Store {
	tempDir := opts.TempDir
	if tempDir == "" {
		tempDir = os.TempDir()
	}

	return &Store{
		backend:     backend,
		logger:      logger,
		chunkPrefix: opts.ChunkPrefix,
		tempDir:     tempDir,
	}
}

// SetChunkPrefix changes the prefix of chunk filenames created from now on.
func (s *Store) SetChunkPrefix(prefix string) *Store {
	s.chunkPrefix = prefix
	return s
}

// ChunkPrefix ...
func (s *Store) ChunkPrefix() string {
	return s.chunkPrefix
}

// TempDir ...
func (s *Store) TempDir() string {
	return s.tempDir
}

// Backend returns the storage the chunk files are kept in.
func (s *Store) Backend() storage.Storage {
	return s.backend
}

// Probe reports whether the chunk addressed by req is already stored.
// It returns nil, nil when the chunk is missing.
func (s *Store) Probe(ctx context.Context, req ChunkRequest) (*ChunkInfo, error) {
	if err := s.Validate(req); err != nil {
		return nil, err
	}

	chunkFilename := s.ChunkFilename(req.ChunkNumber, req.Identifier)
	exists, err := s.backend.Exists(ctx, chunkFilename)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, nil
	}

	return &ChunkInfo{
		ChunkFilename: chunkFilename,
		Filename:      req.Filename,
		Identifier:    req.Identifier,
	}, nil
}

// Submit stores a staged chunk under its chunk filename and reports whether the
// upload is complete, i.e. chunks 1..NumberOfChunks are all present.
func (s *Store) Submit(ctx context.Context, sub Submission) (SubmitResult, error) {
	if sub.File == nil || sub.File.Bytes <= 0 {
		return SubmitResult{}, ErrMissingFile
	}

	if err := s.ValidateSubmission(sub.ChunkRequest, sub.File.Bytes); !errors.Is(err, ErrSubmissionUnconfirmed) {
		return SubmitResult{}, err
	}

	identifier := CleanIdentifier(sub.Identifier)
	result := SubmitResult{
		Filename:         sub.Filename,
		OriginalFilename: sub.Identifier,
		Identifier:       identifier,
	}

	chunkFilename := s.ChunkFilename(sub.ChunkNumber, identifier)
	if err := s.backend.Rename(ctx, sub.File.Path, chunkFilename); err != nil {
		return SubmitResult{}, err
	}
	s.logger.Debugf("Stored chunk %d of %s (%s)", sub.ChunkNumber, identifier, units.HumanSizeWithPrecision(float64(sub.File.Bytes), 3))

	numberOfChunks := NumberOfChunks(sub.TotalSize, sub.ChunkSize)
	for chunkNumber := 1; chunkNumber <= numberOfChunks; chunkNumber++ {
		exists, err := s.backend.Exists(ctx, s.ChunkFilename(chunkNumber, identifier))
		if err != nil {
			return SubmitResult{}, err
		}
		if !exists {
			return result, nil
		}
	}

	s.logger.Infof("All %d chunks of %s arrived", numberOfChunks, identifier)
	result.Complete = true
	return result, nil
}

// ChunkCount returns the number of contiguous chunks stored for identifier,
// counting from chunk 1.
func (s *Store) ChunkCount(ctx context.Context, identifier string) (int, error) {
	count := 0
	for {
		exists, err := s.backend.Exists(ctx, s.ChunkFilename(count+1, identifier))
		if err != nil {
			return count, err
		}
		if !exists {
			return count, nil
		}
		count++
	}
}
