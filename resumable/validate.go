package resumable

import "fmt"

// NumberOfChunks returns how many chunks an upload of totalSize is split into.
// The last chunk absorbs the remainder, so it can be up to twice chunkSize.
func NumberOfChunks(totalSize, chunkSize int64) int {
	if chunkSize <= 0 {
		return 1
	}
	n := totalSize / chunkSize
	if n < 1 {
		return 1
	}
	return int(n)
}

// Validate checks the coordinates of a request that carries no chunk data.
func (s *Store) Validate(req ChunkRequest) error {
	if req.ChunkNumber <= 0 || req.ChunkSize <= 0 || req.TotalSize <= 0 ||
		CleanIdentifier(req.Identifier) == "" || req.Filename == "" {
		return ErrMalformedRequest
	}

	if req.ChunkNumber > NumberOfChunks(req.TotalSize, req.ChunkSize) {
		return ErrInvalidChunkNumber
	}

	return nil
}

// ValidateSubmission checks a data-bearing request whose chunk is actualByteCount long.
// It never returns nil: size mismatches wrap ErrChunkSizeMismatch, and a request
// passing every check yields ErrSubmissionUnconfirmed, leaving the confirmation
// to the existence scan done after the chunk is stored.
func (s *Store) ValidateSubmission(req ChunkRequest, actualByteCount int64) error {
	if err := s.Validate(req); err != nil {
		return err
	}

	numberOfChunks := NumberOfChunks(req.TotalSize, req.ChunkSize)
	isLast := req.ChunkNumber == numberOfChunks

	switch {
	case !isLast && actualByteCount != req.ChunkSize:
		return fmt.Errorf("%w: chunk %d isn't the correct size, expected %d bytes, got %d",
			ErrChunkSizeMismatch, req.ChunkNumber, req.ChunkSize, actualByteCount)
	case numberOfChunks > 1 && isLast && actualByteCount != req.TotalSize%req.ChunkSize+req.ChunkSize:
		return fmt.Errorf("%w: chunk %d is the last one and isn't the correct size, expected %d bytes, got %d",
			ErrChunkSizeMismatch, req.ChunkNumber, req.TotalSize%req.ChunkSize+req.ChunkSize, actualByteCount)
	case numberOfChunks == 1 && actualByteCount != req.TotalSize:
		return fmt.Errorf("%w: the file is only a single chunk and the data size does not fit, expected %d bytes, got %d",
			ErrChunkSizeMismatch, req.TotalSize, actualByteCount)
	}

	return ErrSubmissionUnconfirmed
}
