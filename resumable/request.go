package resumable

// ChunkRequest carries the chunk coordinates of a query-style request.
type ChunkRequest struct {
	// ChunkNumber is 1-based.
	ChunkNumber int
	ChunkSize   int64
	TotalSize   int64
	// Identifier is the raw, client supplied upload identifier.
	Identifier string
	Filename   string
}

// UploadedFile describes a file the transport already staged on storage.
type UploadedFile struct {
	Bytes int64
	Path  string
}

// Submission is a payload-style request: chunk coordinates plus the staged chunk data.
type Submission struct {
	ChunkRequest
	File *UploadedFile
}

// ChunkInfo describes a chunk found by Probe.
type ChunkInfo struct {
	ChunkFilename string `json:"chunk_filename"`
	Filename      string `json:"filename"`
	Identifier    string `json:"identifier"`
}

// SubmitResult ...
type SubmitResult struct {
	Complete bool   `json:"complete"`
	Filename string `json:"filename"`
	// OriginalFilename is the identifier exactly as the client sent it.
	OriginalFilename string `json:"original_filename"`
	// Identifier is the sanitized identifier used in chunk filenames.
	Identifier string `json:"identifier"`
}
