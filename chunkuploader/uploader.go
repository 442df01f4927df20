package chunkuploader

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/bitrise-io/go-resumable/resumable"
	"github.com/bitrise-io/go-utils/v2/log"
	"github.com/docker/go-units"
	"github.com/melbahja/got"
)

// Uploader talks to a resumable upload endpoint. A failed chunk fails the
// whole upload, calling Upload again resumes from the chunks the server kept.
type Uploader struct {
	baseURL    string
	config     Config
	httpClient *http.Client
	logger     log.Logger
	stats      *Stats
}

// New creates a new Uploader for the endpoint served at baseURL.
func New(baseURL string, config Config, logger log.Logger) *Uploader {
	config = config.withDefaults()

	return &Uploader{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		config:     config,
		httpClient: config.HTTPClient,
		logger:     logger,
		stats:      NewStats(),
	}
}

// DefaultIdentifier builds the identifier resumable.js generates by default:
// the size followed by the sanitized file name.
func DefaultIdentifier(size int64, filename string) string {
	return fmt.Sprintf("%d-%s", size, resumable.CleanIdentifier(filename))
}

// UploadFile uploads the file at path. An empty identifier is replaced by DefaultIdentifier.
func (u *Uploader) UploadFile(ctx context.Context, path, identifier string) (*UploadResult, error) {
	provider, err := NewFileChunkProvider(path, u.config.ChunkSize)
	if err != nil {
		return nil, err
	}
	defer provider.Close() //nolint:errcheck

	filename := filepath.Base(path)
	if identifier == "" {
		identifier = DefaultIdentifier(provider.TotalSize(), filename)
	}

	return u.Upload(ctx, provider, identifier, filename)
}

// Upload sends every chunk of provider the server doesn't have yet, in parallel.
func (u *Uploader) Upload(ctx context.Context, provider ChunkProvider, identifier, filename string) (*UploadResult, error) {
	numChunks := provider.NumChunks()
	if numChunks == 0 {
		return nil, fmt.Errorf("nothing to upload")
	}

	u.logger.Infof("Uploading %s (%s) in %d chunks", filename, units.HumanSizeWithPrecision(float64(provider.TotalSize()), 3), numChunks)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	resultChan := make(chan ChunkResult, numChunks)
	semaphore := make(chan struct{}, u.config.Concurrency)

	for i := 0; i < numChunks; i++ {
		go func(index int) {
			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			resultChan <- u.uploadChunk(ctx, provider, identifier, filename, index)
		}(i)
	}

	result := &UploadResult{Identifier: identifier}
	for completedChunks := 0; completedChunks < numChunks; completedChunks++ {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("upload cancelled while waiting for chunks: %w", ctx.Err())
		case chunkResult := <-resultChan:
			if chunkResult.Err != nil {
				return nil, fmt.Errorf("chunk %d: %w", chunkResult.Index+1, chunkResult.Err)
			}
			if chunkResult.Skipped {
				result.Skipped++
				continue
			}
			result.Uploaded++
			if chunkResult.Result.Complete {
				result.Complete = true
			}
		}
	}

	if result.Uploaded == 0 {
		result.Complete = true
	}

	u.logger.Donef("Uploaded %d chunks of %s, %d were already present (avg %s per chunk)",
		result.Uploaded, identifier, result.Skipped, u.stats.Average().Round(time.Millisecond))
	return result, nil
}

// Stats returns the upload statistics.
func (u *Uploader) Stats() *Stats {
	return u.stats
}

// CloseIdleConnections closes idle connections in the HTTP client.
func (u *Uploader) CloseIdleConnections() {
	if transport, ok := u.httpClient.Transport.(*http.Transport); ok {
		transport.CloseIdleConnections()
	}
}

func (u *Uploader) uploadChunk(ctx context.Context, provider ChunkProvider, identifier, filename string, index int) ChunkResult {
	values := url.Values{
		"resumableChunkNumber": {strconv.Itoa(index + 1)},
		"resumableChunkSize":   {strconv.FormatInt(provider.NominalChunkSize(), 10)},
		"resumableTotalSize":   {strconv.FormatInt(provider.TotalSize(), 10)},
		"resumableIdentifier":  {identifier},
		"resumableFilename":    {filename},
	}

	present, err := u.probe(ctx, values)
	if err != nil {
		return ChunkResult{Index: index, Err: err}
	}
	if present {
		u.stats.Skip()
		u.logger.Debugf("Chunk %d/%d already uploaded", index+1, provider.NumChunks())
		return ChunkResult{Index: index, Skipped: true}
	}

	reader, err := provider.GetChunk(index)
	if err != nil {
		return ChunkResult{Index: index, Err: fmt.Errorf("get chunk: %w", err)}
	}

	start := time.Now()
	submitResult, err := u.submit(ctx, values, filename, reader)
	if err != nil {
		return ChunkResult{Index: index, Err: err}
	}

	took := time.Since(start)
	u.stats.Update(took, provider.ChunkSize(index))
	u.logger.Debugf("Chunk %d/%d uploaded in %v [finished=%d]", index+1, provider.NumChunks(), took.Round(time.Millisecond), u.stats.FinishedCount())

	return ChunkResult{Index: index, Result: submitResult}
}

func (u *Uploader) probe(ctx context.Context, values url.Values) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.baseURL+"/chunks?"+values.Encode(), nil)
	if err != nil {
		return false, fmt.Errorf("create request: %w", err)
	}

	resp, err := u.httpClient.Do(req)
	if err != nil {
		return false, fmt.Errorf("probe chunk: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck

	switch resp.StatusCode {
	case http.StatusOK:
		return true, nil
	case http.StatusNoContent:
		return false, nil
	default:
		return false, unexpectedStatus("probe", resp)
	}
}

func (u *Uploader) submit(ctx context.Context, values url.Values, filename string, chunk io.Reader) (resumable.SubmitResult, error) {
	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	for key := range values {
		if err := mw.WriteField(key, values.Get(key)); err != nil {
			return resumable.SubmitResult{}, fmt.Errorf("write field %s: %w", key, err)
		}
	}
	fw, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return resumable.SubmitResult{}, fmt.Errorf("create file part: %w", err)
	}
	if _, err := io.Copy(fw, chunk); err != nil {
		return resumable.SubmitResult{}, fmt.Errorf("write file part: %w", err)
	}
	if err := mw.Close(); err != nil {
		return resumable.SubmitResult{}, fmt.Errorf("close multipart writer: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.baseURL+"/chunks", body)
	if err != nil {
		return resumable.SubmitResult{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := u.httpClient.Do(req)
	if err != nil {
		return resumable.SubmitResult{}, fmt.Errorf("submit chunk: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		return resumable.SubmitResult{}, unexpectedStatus("submit", resp)
	}

	var result resumable.SubmitResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return resumable.SubmitResult{}, fmt.Errorf("decode submit response: %w", err)
	}
	return result, nil
}

// Download fetches the reassembled upload into dest.
func (u *Uploader) Download(ctx context.Context, identifier, dest string) error {
	downloader := got.New()
	downloader.Client = u.httpClient

	if err := downloader.Do(got.NewDownload(ctx, u.fileURL(identifier), dest)); err != nil {
		return fmt.Errorf("download %s: %w", identifier, err)
	}
	return nil
}

// Delete purges the chunks of identifier from the server.
func (u *Uploader) Delete(ctx context.Context, identifier string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, u.fileURL(identifier), nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	resp, err := u.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("delete %s: %w", identifier, err)
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusNoContent {
		return unexpectedStatus("delete", resp)
	}
	return nil
}

func (u *Uploader) fileURL(identifier string) string {
	return u.baseURL + "/files/" + url.PathEscape(identifier)
}

func unexpectedStatus(op string, resp *http.Response) error {
	errorBody := make([]byte, 1024)
	n, _ := io.ReadAtLeast(resp.Body, errorBody, 1)
	return fmt.Errorf("%s failed with status %d: %s", op, resp.StatusCode, strings.TrimSpace(string(errorBody[:n])))
}
