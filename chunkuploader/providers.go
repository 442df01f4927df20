package chunkuploader

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/bitrise-io/go-resumable/resumable"
)

// layout splits totalSize the resumable.js way: floor(totalSize/chunkSize) chunks,
// the last one absorbing the remainder.
type layout struct {
	totalSize int64
	chunkSize int64
	numChunks int
}

func newLayout(totalSize, chunkSize int64) layout {
	return layout{
		totalSize: totalSize,
		chunkSize: chunkSize,
		numChunks: resumable.NumberOfChunks(totalSize, chunkSize),
	}
}

func (l layout) size(index int) int64 {
	if index < 0 || index >= l.numChunks {
		return 0
	}
	if index == l.numChunks-1 {
		return l.totalSize - int64(index)*l.chunkSize
	}
	return l.chunkSize
}

// NominalChunkSize returns the chunk size the layout splits by.
func (l layout) NominalChunkSize() int64 {
	return l.chunkSize
}

func (l layout) offset(index int) int64 {
	return int64(index) * l.chunkSize
}

// FileChunkProvider reads chunks from a file on disk.
// Thread-safe for parallel chunk reads.
type FileChunkProvider struct {
	file *os.File
	layout
	mu sync.Mutex
}

// NewFileChunkProvider creates a ChunkProvider that reads path in chunkSize chunks.
func NewFileChunkProvider(path string, chunkSize int64) (*FileChunkProvider, error) {
	if chunkSize <= 0 {
		return nil, fmt.Errorf("chunk size must be positive")
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}

	info, err := file.Stat()
	if err != nil {
		file.Close() //nolint:errcheck
		return nil, fmt.Errorf("stat file: %w", err)
	}
	if info.Size() == 0 {
		file.Close() //nolint:errcheck
		return nil, fmt.Errorf("file is empty: %s", path)
	}

	return &FileChunkProvider{
		file:   file,
		layout: newLayout(info.Size(), chunkSize),
	}, nil
}

// NumChunks returns the total number of chunks.
func (p *FileChunkProvider) NumChunks() int {
	return p.numChunks
}

// ChunkSize returns the size of the chunk at the given index.
func (p *FileChunkProvider) ChunkSize(index int) int64 {
	return p.size(index)
}

// TotalSize ...
func (p *FileChunkProvider) TotalSize() int64 {
	return p.totalSize
}

// GetChunk returns a reader for the chunk at the given index.
// The data is read into memory so the file can be shared by parallel uploads.
func (p *FileChunkProvider) GetChunk(index int) (io.Reader, error) {
	if index < 0 || index >= p.numChunks {
		return nil, fmt.Errorf("chunk index %d out of range [0, %d)", index, p.numChunks)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	offset := p.offset(index)
	if _, err := p.file.Seek(offset, io.SeekStart); err != nil {
		return nil, fmt.Errorf("seek to position %d for chunk %d: %w", offset, index+1, err)
	}

	chunk := make([]byte, p.size(index))
	if _, err := io.ReadFull(p.file, chunk); err != nil {
		return nil, fmt.Errorf("read chunk %d: %w", index+1, err)
	}

	return bytes.NewReader(chunk), nil
}

// Close closes the underlying file.
func (p *FileChunkProvider) Close() error {
	if p.file != nil {
		return p.file.Close()
	}
	return nil
}

// ByteSliceChunkProvider provides chunks of data already in memory.
type ByteSliceChunkProvider struct {
	data []byte
	layout
}

// NewByteSliceChunkProvider creates a ChunkProvider splitting data in chunkSize chunks.
func NewByteSliceChunkProvider(data []byte, chunkSize int64) *ByteSliceChunkProvider {
	return &ByteSliceChunkProvider{
		data:   data,
		layout: newLayout(int64(len(data)), chunkSize),
	}
}

// NumChunks returns the total number of chunks.
func (p *ByteSliceChunkProvider) NumChunks() int {
	if len(p.data) == 0 {
		return 0
	}
	return p.numChunks
}

// ChunkSize returns the size of the chunk at the given index.
func (p *ByteSliceChunkProvider) ChunkSize(index int) int64 {
	return p.size(index)
}

// TotalSize ...
func (p *ByteSliceChunkProvider) TotalSize() int64 {
	return p.totalSize
}

// GetChunk returns a reader for the chunk at the given index.
func (p *ByteSliceChunkProvider) GetChunk(index int) (io.Reader, error) {
	if index < 0 || index >= p.NumChunks() {
		return nil, fmt.Errorf("chunk index %d out of range [0, %d)", index, p.NumChunks())
	}
	start := p.offset(index)
	return bytes.NewReader(p.data[start : start+p.size(index)]), nil
}
