package resumable

import (
	"context"
	"io"

	"github.com/docker/go-units"
)

type reassembleOptions struct {
	keepSinkOpen bool
}

// ReassembleOption ...
type ReassembleOption func(*reassembleOptions)

// KeepSinkOpen leaves the sink open after the last chunk, so the caller can keep writing to it.
func KeepSinkOpen() ReassembleOption {
	return func(o *reassembleOptions) {
		o.keepSinkOpen = true
	}
}

// Reassemble streams the chunks of identifier into sink in ascending order, until
// the first missing chunk number. The sink is closed afterwards unless KeepSinkOpen
// is given; it is left untouched when streaming fails.
func (s *Store) Reassemble(ctx context.Context, identifier string, sink io.WriteCloser, opts ...ReassembleOption) error {
	var options reassembleOptions
	for _, opt := range opts {
		opt(&options)
	}

	var written int64
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

		n, err := s.copyChunk(ctx, chunkFilename, sink)
		written += n
		if err != nil {
			return err
		}
	}
	s.logger.Debugf("Reassembled %d chunks of %s (%s)", chunkNumber-1, CleanIdentifier(identifier), units.HumanSizeWithPrecision(float64(written), 3))

	if options.keepSinkOpen {
		return nil
	}
	return sink.Close()
}

func (s *Store) copyChunk(ctx context.Context, chunkFilename string, sink io.Writer) (int64, error) {
	src, err := s.backend.Open(ctx, chunkFilename)
	if err != nil {
		return 0, err
	}
	defer src.Close() //nolint:errcheck

	return io.Copy(sink, src)
}
