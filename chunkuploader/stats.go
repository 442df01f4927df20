package chunkuploader

import (
	"sync"
	"time"
)

// Stats tracks the chunks posted by an Uploader.
type Stats struct {
	sum            time.Duration
	bytes          int64
	finishedChunks int64
	skippedChunks  int64
	mu             sync.Mutex
}

// NewStats creates a new Stats instance.
func NewStats() *Stats {
	return &Stats{}
}

// Update records a posted chunk of size bytes which took d.
func (s *Stats) Update(d time.Duration, size int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sum += d
	s.bytes += size
	s.finishedChunks++
}

// Skip records a chunk the server already had.
func (s *Stats) Skip() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.skippedChunks++
}

// Average returns the average duration of posted chunks.
func (s *Stats) Average() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.finishedChunks == 0 {
		return 0
	}
	return s.sum / time.Duration(s.finishedChunks)
}

// FinishedCount returns the number of posted chunks.
func (s *Stats) FinishedCount() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.finishedChunks
}

// SkippedCount returns the number of chunks found on the server.
func (s *Stats) SkippedCount() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.skippedChunks
}

// Bytes returns the number of bytes posted.
func (s *Stats) Bytes() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.bytes
}
