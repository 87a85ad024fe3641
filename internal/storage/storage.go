// Package storage archives raw workbook uploads in an S3-compatible bucket
// after a successful import, so a disputed report can be traced back to the
// exact bytes that produced it.
package storage

import (
	"context"
	"time"
)

// ObjectInfo is the listing metadata for one archived workbook.
type ObjectInfo struct {
	Key          string
	Size         int64
	LastModified time.Time
}

// ObjectStorage covers the archive operations: list past uploads, pull one
// back down for reprocessing, and store a new one.
type ObjectStorage interface {
	ListObjects(ctx context.Context, prefix string) ([]ObjectInfo, error)
	DownloadObject(ctx context.Context, key, destPath string) error
	UploadObject(ctx context.Context, key string, data []byte) error
}
