package resumable

import (
	"testing"

	"github.com/bitrise-io/go-resumable/resumable/storage"
	"github.com/bitrise-io/go-utils/v2/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMemoryStore(t *testing.T, opts Options) (*Store, *storage.Memory) {
	t.Helper()
	if opts.TempDir == "" {
		opts.TempDir = "/chunks"
	}
	memory := storage.NewMemory()
	return New(memory, log.NewLogger(), opts), memory
}

func validRequest() ChunkRequest {
	return ChunkRequest{ChunkNumber: 1, ChunkSize: 1000, TotalSize: 10500, Identifier: "10500-video.mp4", Filename: "video.mp4"}
}

func TestNumberOfChunks(t *testing.T) {
	tests := []struct {
		totalSize int64
		chunkSize int64
		want      int
	}{
		{totalSize: 10500, chunkSize: 1000, want: 10},
		{totalSize: 10000, chunkSize: 1000, want: 10},
		{totalSize: 1999, chunkSize: 1000, want: 1},
		{totalSize: 1000, chunkSize: 1000, want: 1},
		{totalSize: 10, chunkSize: 1000, want: 1},
		{totalSize: 10, chunkSize: 0, want: 1},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NumberOfChunks(tt.totalSize, tt.chunkSize), "total=%d chunk=%d", tt.totalSize, tt.chunkSize)
	}
}

func TestStore_Validate_Malformed(t *testing.T) {
	tests := []struct {
		name   string
		modify func(r *ChunkRequest)
	}{
		{name: "zero chunk number", modify: func(r *ChunkRequest) { r.ChunkNumber = 0 }},
		{name: "negative chunk number", modify: func(r *ChunkRequest) { r.ChunkNumber = -3 }},
		{name: "zero chunk size", modify: func(r *ChunkRequest) { r.ChunkSize = 0 }},
		{name: "negative chunk size", modify: func(r *ChunkRequest) { r.ChunkSize = -1000 }},
		{name: "zero total size", modify: func(r *ChunkRequest) { r.TotalSize = 0 }},
		{name: "negative total size", modify: func(r *ChunkRequest) { r.TotalSize = -1 }},
		{name: "empty identifier", modify: func(r *ChunkRequest) { r.Identifier = "" }},
		{name: "identifier without allowed characters", modify: func(r *ChunkRequest) { r.Identifier = "../../.." }},
		{name: "empty filename", modify: func(r *ChunkRequest) { r.Filename = "" }},
		{name: "zero fields and out of range chunk", modify: func(r *ChunkRequest) { r.ChunkNumber = 99; r.TotalSize = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _ := newMemoryStore(t, Options{})
			req := validRequest()
			tt.modify(&req)

			assert.ErrorIs(t, s.Validate(req), ErrMalformedRequest)
			assert.ErrorIs(t, s.ValidateSubmission(req, 1000), ErrMalformedRequest)
			assert.True(t, IsValidationError(s.Validate(req)))
		})
	}
}

func TestStore_Validate_ChunkNumber(t *testing.T) {
	sizes := []struct {
		totalSize int64
		chunkSize int64
	}{
		{totalSize: 10500, chunkSize: 1000},
		{totalSize: 1000, chunkSize: 1000},
		{totalSize: 10, chunkSize: 1000},
		{totalSize: 1 << 40, chunkSize: 1 << 20},
	}
	for _, size := range sizes {
		s, _ := newMemoryStore(t, Options{})
		numberOfChunks := NumberOfChunks(size.totalSize, size.chunkSize)
		req := ChunkRequest{ChunkSize: size.chunkSize, TotalSize: size.totalSize, Identifier: "id", Filename: "file"}

		req.ChunkNumber = numberOfChunks
		assert.NoError(t, s.Validate(req))

		req.ChunkNumber = numberOfChunks + 1
		assert.ErrorIs(t, s.Validate(req), ErrInvalidChunkNumber)
	}
}

func TestStore_ValidateSubmission(t *testing.T) {
	tests := []struct {
		name        string
		chunkNumber int
		chunkSize   int64
		totalSize   int64
		actual      int64
		wantErr     error
		wantMessage string
	}{
		{
			name:        "first chunk too short",
			chunkNumber: 1, chunkSize: 1000, totalSize: 10500, actual: 50,
			wantErr:     ErrChunkSizeMismatch,
			wantMessage: "chunk 1 isn't the correct size, expected 1000 bytes, got 50",
		},
		{
			name:        "middle chunk of the right size",
			chunkNumber: 5, chunkSize: 1000, totalSize: 10500, actual: 1000,
			wantErr: ErrSubmissionUnconfirmed,
		},
		{
			name:        "last chunk absorbing the remainder",
			chunkNumber: 10, chunkSize: 1000, totalSize: 10500, actual: 1500,
			wantErr: ErrSubmissionUnconfirmed,
		},
		{
			name:        "last chunk without the remainder",
			chunkNumber: 10, chunkSize: 1000, totalSize: 10500, actual: 1000,
			wantErr:     ErrChunkSizeMismatch,
			wantMessage: "is the last one and isn't the correct size, expected 1500 bytes",
		},
		{
			name:        "single chunk mismatch",
			chunkNumber: 1, chunkSize: 1000, totalSize: 1000, actual: 999,
			wantErr:     ErrChunkSizeMismatch,
			wantMessage: "the file is only a single chunk and the data size does not fit, expected 1000 bytes, got 999",
		},
		{
			name:        "single chunk smaller than the chunk size",
			chunkNumber: 1, chunkSize: 5000, totalSize: 1000, actual: 5000,
			wantErr:     ErrChunkSizeMismatch,
			wantMessage: "single chunk",
		},
		{
			name:        "single chunk of the right size",
			chunkNumber: 1, chunkSize: 5000, totalSize: 1000, actual: 1000,
			wantErr: ErrSubmissionUnconfirmed,
		},
		{
			name:        "chunk number out of range",
			chunkNumber: 11, chunkSize: 1000, totalSize: 10500, actual: 1000,
			wantErr: ErrInvalidChunkNumber,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _ := newMemoryStore(t, Options{})
			req := ChunkRequest{ChunkNumber: tt.chunkNumber, ChunkSize: tt.chunkSize, TotalSize: tt.totalSize, Identifier: "id", Filename: "file"}

			err := s.ValidateSubmission(req, tt.actual)

			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
			if tt.wantMessage != "" {
				assert.Contains(t, err.Error(), tt.wantMessage)
			}
			assert.Equal(t, tt.wantErr != ErrSubmissionUnconfirmed, IsValidationError(err))
		})
	}
}
