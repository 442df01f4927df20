package resumablehttp

import (
	"errors"
	"net/http"

	"github.com/bitrise-io/go-resumable/resumable"
)

// statusCode maps a Store error to the response status.
func statusCode(err error) int {
	switch {
	case resumable.IsValidationError(err):
		return http.StatusBadRequest
	case errors.Is(err, resumable.ErrSweepUnsupported):
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusCode(err)
	if status >= http.StatusInternalServerError {
		h.logger.Errorf("%s %s: %s", r.Method, r.URL.Path, err)
		// storage details stay in the log
		http.Error(w, http.StatusText(status), status)
		return
	}

	h.logger.Debugf("%s %s rejected: %s", r.Method, r.URL.Path, err)
	http.Error(w, err.Error(), status)
}
