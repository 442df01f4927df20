package resumablehttp

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strconv"
	"strings"
	"testing"

	"github.com/bitrise-io/go-resumable/compression"
	"github.com/bitrise-io/go-resumable/internal/mocks"
	"github.com/bitrise-io/go-resumable/resumable"
	"github.com/bitrise-io/go-resumable/resumable/storage"
	"github.com/bitrise-io/go-utils/v2/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type chunkCoordinates struct {
	number     int
	chunkSize  int64
	totalSize  int64
	identifier string
	filename   string
}

func (c chunkCoordinates) values() url.Values {
	return url.Values{
		chunkNumberField: {strconv.Itoa(c.number)},
		chunkSizeField:   {strconv.FormatInt(c.chunkSize, 10)},
		totalSizeField:   {strconv.FormatInt(c.totalSize, 10)},
		identifierField:  {c.identifier},
		filenameField:    {c.filename},
	}
}

func newChunkQuery(c chunkCoordinates) *http.Request {
	return httptest.NewRequest(http.MethodGet, "/chunks?"+c.values().Encode(), nil)
}

func newSubmitRequest(t *testing.T, c chunkCoordinates, data []byte) *http.Request {
	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	for key, values := range c.values() {
		require.NoError(t, mw.WriteField(key, values[0]))
	}
	fw, err := mw.CreateFormFile(fileField, c.filename)
	require.NoError(t, err)
	_, err = fw.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/chunks", body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func newLocalHandler(t *testing.T) (*Handler, string) {
	store := resumable.New(storage.NewLocal(), log.NewLogger(), resumable.Options{TempDir: t.TempDir()})
	stagingDir := t.TempDir()
	stager, err := NewDiskStager(stagingDir)
	require.NoError(t, err)

	h, err := New(store, log.NewLogger(), Params{Stager: stager})
	require.NoError(t, err)
	return h, stagingDir
}

func serve(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHandler_UploadLifecycle(t *testing.T) {
	h, stagingDir := newLocalHandler(t)

	content := []byte("0123456789abcdefghijklmnopqrstuvwxy")
	coordinates := func(n int) chunkCoordinates {
		return chunkCoordinates{number: n, chunkSize: 10, totalSize: int64(len(content)), identifier: "35-report.pdf", filename: "report.pdf"}
	}
	chunks := [][]byte{content[:10], content[10:20], content[20:]}

	rec := serve(h, newChunkQuery(coordinates(1)))
	assert.Equal(t, http.StatusNoContent, rec.Code)

	for i, chunk := range chunks {
		rec := serve(h, newSubmitRequest(t, coordinates(i+1), chunk))
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var result resumable.SubmitResult
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
		assert.Equal(t, i == len(chunks)-1, result.Complete)
		assert.Equal(t, "35-reportpdf", result.Identifier)
		assert.Equal(t, "35-report.pdf", result.OriginalFilename)
		assert.Equal(t, "report.pdf", result.Filename)
	}

	entries, err := os.ReadDir(stagingDir)
	require.NoError(t, err)
	assert.Empty(t, entries)

	rec = serve(h, newChunkQuery(coordinates(2)))
	require.Equal(t, http.StatusOK, rec.Code)
	var info resumable.ChunkInfo
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &info))
	assert.Equal(t, "35-report.pdf", info.Identifier)
	assert.Equal(t, "report.pdf", info.Filename)

	rec = serve(h, httptest.NewRequest(http.MethodGet, "/files/35-report.pdf", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, content, rec.Body.Bytes())
	assert.Empty(t, rec.Header().Get("Content-Encoding"))

	req := httptest.NewRequest(http.MethodGet, "/files/35-report.pdf", nil)
	req.Header.Set("Accept-Encoding", "gzip, zstd")
	rec = serve(h, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, compression.EncodingZstd, rec.Header().Get("Content-Encoding"))
	var decompressed bytes.Buffer
	_, err = compression.Decompress(&decompressed, rec.Body)
	require.NoError(t, err)
	assert.Equal(t, content, decompressed.Bytes())

	rec = serve(h, httptest.NewRequest(http.MethodDelete, "/files/35-report.pdf", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = serve(h, httptest.NewRequest(http.MethodGet, "/files/35-report.pdf", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandler_RejectedSubmissions(t *testing.T) {
	tests := []struct {
		name        string
		coordinates chunkCoordinates
		data        []byte
		wantBody    string
	}{
		{
			name:        "wrong chunk size",
			coordinates: chunkCoordinates{number: 1, chunkSize: 1000, totalSize: 10500, identifier: "id", filename: "f"},
			data:        bytes.Repeat([]byte("x"), 50),
			wantBody:    "isn't the correct size",
		},
		{
			name:        "chunk number out of range",
			coordinates: chunkCoordinates{number: 11, chunkSize: 1000, totalSize: 10500, identifier: "id", filename: "f"},
			data:        bytes.Repeat([]byte("x"), 1000),
			wantBody:    resumable.ErrInvalidChunkNumber.Error(),
		},
		{
			name:        "identifier without allowed characters",
			coordinates: chunkCoordinates{number: 1, chunkSize: 10, totalSize: 10, identifier: "../..", filename: "f"},
			data:        bytes.Repeat([]byte("x"), 10),
			wantBody:    resumable.ErrMalformedRequest.Error(),
		},
		{
			name:        "empty file",
			coordinates: chunkCoordinates{number: 1, chunkSize: 10, totalSize: 10, identifier: "id", filename: "f"},
			data:        nil,
			wantBody:    resumable.ErrMissingFile.Error(),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, stagingDir := newLocalHandler(t)

			rec := serve(h, newSubmitRequest(t, tt.coordinates, tt.data))

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.wantBody)

			entries, err := os.ReadDir(stagingDir)
			require.NoError(t, err)
			assert.Empty(t, entries)
		})
	}
}

func TestHandler_SubmitWithoutMultipart(t *testing.T) {
	h, _ := newLocalHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/chunks", bytes.NewReader([]byte("raw")))
	rec := serve(h, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandler_QueryMalformed(t *testing.T) {
	h, _ := newLocalHandler(t)

	rec := serve(h, httptest.NewRequest(http.MethodGet, "/chunks?resumableChunkNumber=abc", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), resumable.ErrMalformedRequest.Error())
}

func TestHandler_StorageFailure(t *testing.T) {
	backend := mocks.NewStorage(t)
	backend.EXPECT().Exists(mock.Anything, mock.Anything).Return(false, errors.New("disk on fire"))

	store := resumable.New(backend, log.NewLogger(), resumable.Options{TempDir: "/chunks"})
	h, err := New(store, log.NewLogger(), Params{Stager: NewMemoryStager(storage.NewMemory(), "/staging")})
	require.NoError(t, err)

	c := chunkCoordinates{number: 1, chunkSize: 10, totalSize: 10, identifier: "id", filename: "f"}
	rec := serve(h, newChunkQuery(c))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, http.StatusText(http.StatusInternalServerError)+"\n", rec.Body.String())
	assert.NotContains(t, rec.Body.String(), "disk on fire")
}

func TestHandler_OverlongField(t *testing.T) {
	h, stagingDir := newLocalHandler(t)

	long := strings.Repeat("a", maxFieldSize)
	c := chunkCoordinates{number: 1, chunkSize: 10, totalSize: 10, identifier: long + "b", filename: "f"}
	rec := serve(h, newSubmitRequest(t, c, bytes.Repeat([]byte("x"), 10)))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), resumable.ErrMalformedRequest.Error())
	entries, err := os.ReadDir(stagingDir)
	require.NoError(t, err)
	assert.Empty(t, entries)

	c.identifier, c.filename = "id", long
	rec = serve(h, newSubmitRequest(t, c, bytes.Repeat([]byte("x"), 10)))
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

func TestHandler_DownloadFailureFinishesCompressedStream(t *testing.T) {
	backend := mocks.NewStorage(t)
	backend.EXPECT().Exists(mock.Anything, "/chunks/resumable-abc.1").Return(true, nil)
	backend.EXPECT().Exists(mock.Anything, "/chunks/resumable-abc.2").Return(true, nil)
	backend.EXPECT().Exists(mock.Anything, "/chunks/resumable-abc.3").Return(false, nil)
	backend.EXPECT().Open(mock.Anything, "/chunks/resumable-abc.1").Return(io.NopCloser(strings.NewReader("first")), nil)
	backend.EXPECT().Open(mock.Anything, "/chunks/resumable-abc.2").Return(nil, errors.New("chunk vanished"))

	store := resumable.New(backend, log.NewLogger(), resumable.Options{TempDir: "/chunks"})
	h, err := New(store, log.NewLogger(), Params{Stager: NewMemoryStager(storage.NewMemory(), "/staging")})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/files/abc", nil)
	req.Header.Set("Accept-Encoding", "zstd")
	rec := serve(h, req)

	assert.Equal(t, compression.EncodingZstd, rec.Header().Get("Content-Encoding"))
	var decompressed bytes.Buffer
	_, err = compression.Decompress(&decompressed, rec.Body)
	require.NoError(t, err)
	assert.Equal(t, "first", decompressed.String())
}

func TestHandler_MemoryBackend(t *testing.T) {
	memory := storage.NewMemory()
	store := resumable.New(memory, log.NewLogger(), resumable.Options{TempDir: "/chunks"})
	h, err := New(store, log.NewLogger(), Params{Stager: NewMemoryStager(memory, "/staging")})
	require.NoError(t, err)

	c := chunkCoordinates{number: 1, chunkSize: 100, totalSize: 5, identifier: "tiny", filename: "tiny.txt"}
	rec := serve(h, newSubmitRequest(t, c, []byte("hello")))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	assert.Equal(t, []string{"/chunks/resumable-tiny.1"}, memory.Paths())

	rec = serve(h, httptest.NewRequest(http.MethodGet, "/files/tiny", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "hello", rec.Body.String())
}

func TestHandler_Sweep(t *testing.T) {
	t.Run("unsupported backend", func(t *testing.T) {
		store := resumable.New(mocks.NewStorage(t), log.NewLogger(), resumable.Options{TempDir: "/chunks"})
		h, err := New(store, log.NewLogger(), Params{Stager: NewMemoryStager(storage.NewMemory(), "/staging")})
		require.NoError(t, err)

		rec := serve(h, httptest.NewRequest(http.MethodPost, "/admin/sweep", nil))
		assert.Equal(t, http.StatusNotImplemented, rec.Code)
	})

	t.Run("invalid duration", func(t *testing.T) {
		h, _ := newLocalHandler(t)

		rec := serve(h, httptest.NewRequest(http.MethodPost, "/admin/sweep?older_than=soon", nil))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("removes expired chunks", func(t *testing.T) {
		memory := storage.NewMemory()
		memory.Put("/chunks/resumable-old.1", []byte("a"))
		memory.Put("/chunks/resumable-old.2", []byte("b"))
		memory.Put("/chunks/unrelated", []byte("c"))
		store := resumable.New(memory, log.NewLogger(), resumable.Options{TempDir: "/chunks"})
		h, err := New(store, log.NewLogger(), Params{Stager: NewMemoryStager(memory, "/staging")})
		require.NoError(t, err)

		rec := serve(h, httptest.NewRequest(http.MethodPost, fmt.Sprintf("/admin/sweep?older_than=%s", "0s"), nil))
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"removed": 2}`, rec.Body.String())
		assert.Equal(t, []string{"/chunks/unrelated"}, memory.Paths())
	})
}

func TestHandler_InspectFile(t *testing.T) {
	memory := storage.NewMemory()
	memory.Put("/chunks/resumable-abc.1", []byte("a"))
	memory.Put("/chunks/resumable-abc.2", []byte("b"))
	memory.Put("/chunks/resumable-abc.4", []byte("d"))
	store := resumable.New(memory, log.NewLogger(), resumable.Options{TempDir: "/chunks"})
	h, err := New(store, log.NewLogger(), Params{Stager: NewMemoryStager(memory, "/staging")})
	require.NoError(t, err)

	rec := serve(h, httptest.NewRequest(http.MethodHead, "/files/abc", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "2", rec.Header().Get("X-Resumable-Chunks"))

	rec = serve(h, httptest.NewRequest(http.MethodHead, "/files/missing", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
