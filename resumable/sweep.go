package resumable

import (
	"context"
	"sync"
	"time"

	"github.com/bitrise-io/go-resumable/resumable/storage"
)

// SweepStale removes chunk files of this store which were not touched for longer
// than olderThan, typically left behind by abandoned uploads. Only names of the
// form {prefix}resumable-{identifier}.{chunkNumber} are considered, so other files
// in the directory and chunk files of stores with a different prefix are kept.
// Uploads whose identifier contains "resumable-" are never swept.
func (s *Store) SweepStale(ctx context.Context, olderThan time.Duration) (int, error) {
	sweeper, ok := s.backend.(storage.Sweeper)
	if !ok {
		return 0, ErrSweepUnsupported
	}

	prefix := s.chunkPrefix
	removed, err := sweeper.Sweep(ctx, storage.SweepParams{
		Dir:     s.tempDir,
		Pattern: chunkGlob(prefix),
		Match: func(name string) bool {
			return isChunkName(prefix, name)
		},
		OlderThan: olderThan,
	})
	if len(removed) > 0 {
		s.logger.Infof("Removed %d stale chunk files", len(removed))
	}
	return len(removed), err
}

// StartSweeper runs SweepStale every interval until the returned stop function is called.
// A non-positive olderThan or interval disables sweeping.
func (s *Store) StartSweeper(olderThan, interval time.Duration) func() {
	if olderThan <= 0 || interval <= 0 {
		return func() {}
	}

	ticker := time.NewTicker(interval)
	stop := make(chan struct{})
	var once sync.Once
	go func() {
		for {
			select {
			case <-ticker.C:
				if _, err := s.SweepStale(context.Background(), olderThan); err != nil {
					s.logger.Warnf("Failed to sweep stale chunks: %s", err)
				}
			case <-stop:
				ticker.Stop()
				return
			}
		}
	}()

	return func() {
		once.Do(func() {
			close(stop)
		})
	}
}
