package resumable

import "errors"

// Validation failures. Chunk size mismatches wrap ErrChunkSizeMismatch with the
// case that triggered them, so callers can match with errors.Is and still report
// the detailed message.
var (
	ErrMalformedRequest   = errors.New("not a valid resumable request")
	ErrInvalidChunkNumber = errors.New("invalid chunk number")
	ErrChunkSizeMismatch  = errors.New("chunk size mismatch")
	ErrMissingFile        = errors.New("invalid resumable request: no uploaded file")

	// ErrSubmissionUnconfirmed is what ValidateSubmission reports when every size
	// check passed: a data-bearing request is never confirmed by validation alone.
	ErrSubmissionUnconfirmed = errors.New("chunk submission is not confirmed until stored")

	// ErrSweepUnsupported is returned by SweepStale when the backend can't list its content.
	ErrSweepUnsupported = errors.New("storage backend does not support sweeping")
)

// IsValidationError reports whether err rejects the request itself rather than
// signalling a storage failure.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrMalformedRequest) ||
		errors.Is(err, ErrInvalidChunkNumber) ||
		errors.Is(err, ErrChunkSizeMismatch) ||
		errors.Is(err, ErrMissingFile)
}
