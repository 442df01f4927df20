package resumablehttp

import (
	"io"
	"net/http"
	"strconv"

	"github.com/bitrise-io/go-resumable/compression"
	"github.com/go-chi/chi/v5"
	"github.com/klauspost/compress/zstd"
)

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }

// inspectFile reports whether any chunk of the upload is stored.
func (h *Handler) inspectFile(w http.ResponseWriter, r *http.Request) {
	identifier := chi.URLParam(r, "identifier")

	count, err := h.store.ChunkCount(r.Context(), identifier)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if count == 0 {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("X-Resumable-Chunks", strconv.Itoa(count))
	w.WriteHeader(http.StatusOK)
}

func (h *Handler) downloadFile(w http.ResponseWriter, r *http.Request) {
	identifier := chi.URLParam(r, "identifier")

	count, err := h.store.ChunkCount(r.Context(), identifier)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if count == 0 {
		http.NotFound(w, r)
		return
	}

	var sink io.WriteCloser = nopWriteCloser{Writer: w}
	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Add("Vary", "Accept-Encoding")
	if compression.AcceptsZstd(r.Header.Get("Accept-Encoding")) {
		zw, err := compression.NewZstdWriter(sink, zstd.SpeedDefault)
		if err != nil {
			h.writeError(w, r, err)
			return
		}
		sink = zw
		w.Header().Set("Content-Encoding", compression.EncodingZstd)
	}

	// The status is sent with the first chunk, later failures can only be logged.
	if err := h.store.Reassemble(r.Context(), identifier, sink); err != nil {
		h.logger.Errorf("Failed to stream %s: %s", identifier, err)
		if cerr := sink.Close(); cerr != nil {
			h.logger.Debugf("Failed to close the response encoder of %s: %s", identifier, cerr)
		}
		return
	}
	h.logger.Debugf("Served %d chunks of %s", count, identifier)
}
