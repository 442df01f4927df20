// Package compression wraps zstd streams for serving reassembled uploads.
package compression

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/klauspost/compress/zstd"
)

// EncodingZstd is the content coding token of zstd.
const EncodingZstd = "zstd"

type zstdWriteCloser struct {
	encoder *zstd.Encoder
	dst     io.WriteCloser
}

// NewZstdWriter returns a writer compressing everything written to it into dst.
// Closing it finishes the zstd frame and then closes dst.
func NewZstdWriter(dst io.WriteCloser, level zstd.EncoderLevel) (io.WriteCloser, error) {
	encoder, err := zstd.NewWriter(dst, zstd.WithEncoderLevel(level))
	if err != nil {
		return nil, fmt.Errorf("create zstd writer: %w", err)
	}

	return &zstdWriteCloser{
		encoder: encoder,
		dst:     dst,
	}, nil
}

func (w *zstdWriteCloser) Write(p []byte) (int, error) {
	return w.encoder.Write(p)
}

func (w *zstdWriteCloser) Close() error {
	encErr := w.encoder.Close()
	dstErr := w.dst.Close()
	if encErr != nil {
		return fmt.Errorf("close zstd writer: %w", encErr)
	}
	return dstErr
}

// Decompress copies the decompressed content of the zstd stream src into dst.
func Decompress(dst io.Writer, src io.Reader) (int64, error) {
	zr, err := zstd.NewReader(src)
	if err != nil {
		return 0, fmt.Errorf("create zstd reader: %w", err)
	}
	defer zr.Close()

	n, err := io.Copy(dst, zr)
	if err != nil {
		return n, fmt.Errorf("decompress: %w", err)
	}
	return n, nil
}

// AcceptsZstd reports whether an Accept-Encoding header value allows a zstd response.
func AcceptsZstd(acceptEncoding string) bool {
	for _, coding := range strings.Split(acceptEncoding, ",") {
		name, params, _ := strings.Cut(strings.TrimSpace(coding), ";")
		if !strings.EqualFold(strings.TrimSpace(name), EncodingZstd) {
			continue
		}

		for _, param := range strings.Split(params, ";") {
			key, value, ok := strings.Cut(strings.TrimSpace(param), "=")
			if ok && strings.TrimSpace(key) == "q" {
				q, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
				return err == nil && q > 0
			}
		}
		return true
	}
	return false
}
