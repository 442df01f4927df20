// Package chunkuploader is the client side of resumable uploads: it splits a file
// into resumable.js style chunks, skips the chunks the server already has and
// posts the rest in parallel.
package chunkuploader

import (
	"io"

	"github.com/bitrise-io/go-resumable/resumable"
)

// ChunkProvider provides chunk data for upload.
// Chunk indexes are 0-based, chunk numbers on the wire are index+1.
type ChunkProvider interface {
	// NumChunks returns the total number of chunks.
	NumChunks() int

	// ChunkSize returns the size of the chunk at the given index.
	ChunkSize(index int) int64

	// NominalChunkSize returns the chunk size the upload was split by, announced
	// to the server as resumableChunkSize. The last chunk may be larger.
	NominalChunkSize() int64

	// TotalSize returns the size of the whole upload.
	TotalSize() int64

	// GetChunk returns a reader for the chunk at the given index.
	GetChunk(index int) (io.Reader, error)
}

// ChunkResult represents the result of uploading a single chunk.
type ChunkResult struct {
	Index int
	// Skipped is set when the server already had the chunk.
	Skipped bool
	Result  resumable.SubmitResult
	Err     error
}

// UploadResult summarizes an upload.
type UploadResult struct {
	Identifier string
	// Complete is set once the server holds every chunk of the upload.
	Complete bool
	Uploaded int
	Skipped  int
}
