package resumablehttp

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"

	"github.com/bitrise-io/go-resumable/resumable"
	"github.com/bitrise-io/go-resumable/resumable/storage"
	"github.com/bitrise-io/go-utils/v2/pathutil"
	"github.com/google/uuid"
)

// Stager persists the file part of a chunk submission where the store's backend
// can rename it from.
type Stager interface {
	Stage(ctx context.Context, src io.Reader) (*resumable.UploadedFile, error)
	// Discard removes a staged file the store didn't take. A missing file is not an error.
	Discard(ctx context.Context, path string) error
}

// DiskStager stages uploads as files of a local directory. It serves the Local and S3 backends.
type DiskStager struct {
	dir string
}

// NewDiskStager stages into dir, or into a new temporary directory when dir is empty.
// For the Local backend dir should live on the same filesystem as the chunk directory.
func NewDiskStager(dir string) (*DiskStager, error) {
	if dir == "" {
		tmpDir, err := pathutil.NewPathProvider().CreateTempDir("resumable-staging")
		if err != nil {
			return nil, fmt.Errorf("create staging dir: %w", err)
		}
		dir = tmpDir
	}

	return &DiskStager{dir: dir}, nil
}

// Dir ...
func (s *DiskStager) Dir() string {
	return s.dir
}

// Stage ...
func (s *DiskStager) Stage(_ context.Context, src io.Reader) (*resumable.UploadedFile, error) {
	stagedPath := filepath.Join(s.dir, uuid.NewString())
	file, err := os.Create(stagedPath)
	if err != nil {
		return nil, fmt.Errorf("create staged file: %w", err)
	}

	n, err := io.Copy(file, src)
	if closeErr := file.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(stagedPath)
		return nil, fmt.Errorf("write staged file: %w", err)
	}

	return &resumable.UploadedFile{Bytes: n, Path: stagedPath}, nil
}

// Discard ...
func (s *DiskStager) Discard(_ context.Context, stagedPath string) error {
	if err := os.Remove(stagedPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// MemoryStager stages uploads into a Memory backend, under dir.
type MemoryStager struct {
	memory *storage.Memory
	dir    string
}

// NewMemoryStager ...
func NewMemoryStager(memory *storage.Memory, dir string) *MemoryStager {
	return &MemoryStager{
		memory: memory,
		dir:    dir,
	}
}

// Stage ...
func (s *MemoryStager) Stage(_ context.Context, src io.Reader) (*resumable.UploadedFile, error) {
	data, err := io.ReadAll(src)
	if err != nil {
		return nil, fmt.Errorf("read uploaded file: %w", err)
	}

	stagedPath := path.Join(s.dir, uuid.NewString())
	s.memory.Put(stagedPath, data)

	return &resumable.UploadedFile{Bytes: int64(len(data)), Path: stagedPath}, nil
}

// Discard ...
func (s *MemoryStager) Discard(ctx context.Context, stagedPath string) error {
	if err := s.memory.Remove(ctx, stagedPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}
