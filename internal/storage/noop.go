package storage

import "context"

// NoopStorage is wired when archiving is disabled. Uploads vanish, lists
// come back empty.
type NoopStorage struct{}

func NewNoopStorage() *NoopStorage {
	return &NoopStorage{}
}

func (n *NoopStorage) ListObjects(ctx context.Context, prefix string) ([]ObjectInfo, error) {
	return nil, nil
}

func (n *NoopStorage) DownloadObject(ctx context.Context, key, destPath string) error {
	return nil
}

func (n *NoopStorage) UploadObject(ctx context.Context, key string, data []byte) error {
	return nil
}

var _ ObjectStorage = (*NoopStorage)(nil)
