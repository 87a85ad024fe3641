package domain

import "time"

// UploadedFile represents one uploaded workbook queued for parsing.
type UploadedFile struct {
	Filename string
	Path     string
	Size     int64
}

// FileError records a per-file parse failure inside a batch.
type FileError struct {
	Filename string `json:"filename"`
	Message  string `json:"message"`
}

// BatchResult is the outcome of parsing a batch of files. A batch is a
// partial success as long as at least one file produced facts.
type BatchResult struct {
	Facts       []Fact      `json:"facts"`
	FilesOK     int         `json:"filesOk"`
	FileErrors  []FileError `json:"fileErrors,omitempty"`
	ProcessedAt time.Time   `json:"processedAt"`
}
