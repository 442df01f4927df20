// Package resumablehttp exposes a resumable.Store over HTTP, speaking the
// resumable.js protocol: chunk coordinates travel as resumable* query or form
// fields, and the chunk data as the "file" part of a multipart request.
package resumablehttp

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/bitrise-io/go-resumable/resumable"
	"github.com/bitrise-io/go-utils/v2/log"
	"github.com/go-chi/chi/v5"
)

const (
	chunkNumberField = "resumableChunkNumber"
	chunkSizeField   = "resumableChunkSize"
	totalSizeField   = "resumableTotalSize"
	identifierField  = "resumableIdentifier"
	filenameField    = "resumableFilename"
	fileField        = "file"

	maxFieldSize = 4 * 1024
)

// Params ...
type Params struct {
	// Stager stages the file part of submissions. Defaults to a DiskStager on a new temporary directory.
	Stager Stager
}

// Handler serves the chunk endpoints of a Store.
type Handler struct {
	store  *resumable.Store
	stager Stager
	logger log.Logger
	router chi.Router
}

// New ...
func New(store *resumable.Store, logger log.Logger, params Params) (*Handler, error) {
	stager := params.Stager
	if stager == nil {
		diskStager, err := NewDiskStager("")
		if err != nil {
			return nil, err
		}
		stager = diskStager
	}

	h := &Handler{
		store:  store,
		stager: stager,
		logger: logger,
	}
	h.router = h.routes()

	return h, nil
}

func (h *Handler) routes() chi.Router {
	r := chi.NewRouter()

	r.Route("/chunks", func(cr chi.Router) {
		cr.Get("/", h.probeChunk)
		cr.Post("/", h.submitChunk)
	})
	r.Route("/files/{identifier}", func(fr chi.Router) {
		fr.Get("/", h.downloadFile)
		fr.Head("/", h.inspectFile)
		fr.Delete("/", h.purgeFile)
	})
	r.Post("/admin/sweep", h.sweep)

	return r
}

// ServeHTTP ...
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.router.ServeHTTP(w, r)
}

func (h *Handler) purgeFile(w http.ResponseWriter, r *http.Request) {
	identifier := chi.URLParam(r, "identifier")

	if err := h.store.Purge(r.Context(), identifier); err != nil {
		h.writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type sweepResponse struct {
	Removed int `json:"removed"`
}

// sweep expires chunk files older than the older_than query duration (default 24h).
func (h *Handler) sweep(w http.ResponseWriter, r *http.Request) {
	olderThan := 24 * time.Hour
	if v := r.URL.Query().Get("older_than"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d < 0 {
			http.Error(w, "invalid older_than duration", http.StatusBadRequest)
			return
		}
		olderThan = d
	}

	removed, err := h.store.SweepStale(r.Context(), olderThan)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, sweepResponse{Removed: removed})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Warnf("Failed to write response: %s", err)
	}
}
