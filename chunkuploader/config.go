package chunkuploader

import (
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/docker/go-units"
)

// DefaultChunkSize matches the resumable.js default.
const DefaultChunkSize = 1 * units.MiB

// Config holds configuration for the chunk uploader.
type Config struct {
	// ChunkSize is the nominal chunk size. The last chunk absorbs the remainder,
	// so it can be up to twice as large.
	// Default: 1 MiB
	ChunkSize int64

	// Concurrency is the maximum number of parallel chunk uploads.
	// Default: min(NumCPU * 2, 8), minimum 2
	Concurrency int

	// HTTPClient is the HTTP client to use for requests.
	// If nil, a default client will be created.
	HTTPClient *http.Client
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		ChunkSize:   DefaultChunkSize,
		Concurrency: DefaultConcurrency(),
	}
}

// DefaultConcurrency calculates the default concurrency based on CPU count.
func DefaultConcurrency() int {
	c := runtime.NumCPU() * 2

	if c > 8 {
		c = 8
	}

	if c < 2 {
		c = 2
	}

	return c
}

// DefaultHTTPClient creates an HTTP client for chunk requests.
func DefaultHTTPClient() *http.Client {
	return &http.Client{
		// No timeout - requests are bound by the caller's context
		Timeout: 0,
		Transport: &http.Transport{
			MaxIdleConns:        20,
			MaxConnsPerHost:     10,
			IdleConnTimeout:     10 * time.Second,
			TLSHandshakeTimeout: 5 * time.Second,
			Proxy:               http.ProxyFromEnvironment,
		},
	}
}

// ParseChunkSize parses a human readable size like "512KiB" or "5MB".
func ParseChunkSize(s string) (int64, error) {
	size, err := units.RAMInBytes(s)
	if err != nil {
		return 0, fmt.Errorf("parse chunk size: %w", err)
	}
	if size <= 0 {
		return 0, fmt.Errorf("chunk size must be positive: %s", s)
	}
	return size, nil
}

func (c Config) withDefaults() Config {
	if c.ChunkSize <= 0 {
		c.ChunkSize = DefaultChunkSize
	}
	if c.Concurrency <= 0 {
		c.Concurrency = DefaultConcurrency()
	}
	if c.HTTPClient == nil {
		c.HTTPClient = DefaultHTTPClient()
	}
	return c
}
