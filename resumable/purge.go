package resumable

import "context"

// Purge deletes the chunks of identifier in ascending order, until the first missing
// chunk number. It stops at the first failure and does not restore the chunks
// already deleted, so a failed purge can leave the tail of an upload behind.
func (s *Store) Purge(ctx context.Context, identifier string) error {
	chunkNumber := 1
	for ; ; chunkNumber++ {
		chunkFilename := s.ChunkFilename(chunkNumber, identifier)
		exists, err := s.backend.Exists(ctx, chunkFilename)
		if err != nil {
			return err
		}
		if !exists {
			break
		}

		if err := s.backend.Remove(ctx, chunkFilename); err != nil {
			return err
		}
	}

	s.logger.Debugf("Purged %d chunks of %s", chunkNumber-1, CleanIdentifier(identifier))
	return nil
}
