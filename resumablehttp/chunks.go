package resumablehttp

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/bitrise-io/go-resumable/resumable"
)

// parseChunkRequest reads the resumable* fields. Missing or non-numeric numbers
// are left zero, which the store rejects as a malformed request.
func parseChunkRequest(values url.Values) resumable.ChunkRequest {
	chunkNumber, _ := strconv.Atoi(strings.TrimSpace(values.Get(chunkNumberField)))
	chunkSize, _ := strconv.ParseInt(strings.TrimSpace(values.Get(chunkSizeField)), 10, 64)
	totalSize, _ := strconv.ParseInt(strings.TrimSpace(values.Get(totalSizeField)), 10, 64)

	return resumable.ChunkRequest{
		ChunkNumber: chunkNumber,
		ChunkSize:   chunkSize,
		TotalSize:   totalSize,
		Identifier:  values.Get(identifierField),
		Filename:    values.Get(filenameField),
	}
}

func (h *Handler) probeChunk(w http.ResponseWriter, r *http.Request) {
	req := parseChunkRequest(r.URL.Query())

	info, err := h.store.Probe(r.Context(), req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if info == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	h.writeJSON(w, http.StatusOK, info)
}

func (h *Handler) submitChunk(w http.ResponseWriter, r *http.Request) {
	mr, err := r.MultipartReader()
	if err != nil {
		h.writeError(w, r, fmt.Errorf("%w: %s", resumable.ErrMalformedRequest, err))
		return
	}

	fields, file, err := h.readMultipart(r, mr)
	if err != nil {
		h.discard(r, file)
		h.writeError(w, r, err)
		return
	}

	result, err := h.store.Submit(r.Context(), resumable.Submission{
		ChunkRequest: parseChunkRequest(fields),
		File:         file,
	})
	if err != nil {
		h.discard(r, file)
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, result)
}

// readMultipart collects the form fields and stages the file part. Both may
// arrive in any order. The staged file is returned even together with an error,
// so the caller can discard it.
func (h *Handler) readMultipart(r *http.Request, mr *multipart.Reader) (url.Values, *resumable.UploadedFile, error) {
	fields := url.Values{}
	var file *resumable.UploadedFile

	for {
		part, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			return fields, file, nil
		}
		if err != nil {
			return nil, file, fmt.Errorf("%w: %s", resumable.ErrMalformedRequest, err)
		}

		name := part.FormName()
		switch {
		case name == fileField:
			if file != nil {
				h.discard(r, file)
			}
			file, err = h.stager.Stage(r.Context(), part)
			if err != nil {
				part.Close() //nolint:errcheck
				return nil, nil, err
			}
		case name != "":
			value, err := io.ReadAll(io.LimitReader(part, maxFieldSize+1))
			if err != nil {
				part.Close() //nolint:errcheck
				return nil, file, fmt.Errorf("%w: %s", resumable.ErrMalformedRequest, err)
			}
			if len(value) > maxFieldSize {
				part.Close() //nolint:errcheck
				return nil, file, fmt.Errorf("%w: field %s exceeds %d bytes", resumable.ErrMalformedRequest, name, maxFieldSize)
			}
			fields.Set(name, string(value))
		}

		part.Close() //nolint:errcheck
	}
}

func (h *Handler) discard(r *http.Request, file *resumable.UploadedFile) {
	if file == nil {
		return
	}
	if err := h.stager.Discard(r.Context(), file.Path); err != nil {
		h.logger.Warnf("Failed to remove staged upload %s: %s", file.Path, err)
	}
}
