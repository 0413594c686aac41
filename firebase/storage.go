package firebase

import (
	"context"
	"io"
)

// StorageClient is what the catalog handlers need from image storage.
type StorageClient interface {
	UploadImage(ctx context.Context, folder string, file io.Reader, filename, contentType string) (string, error)
	DeleteFile(ctx context.Context, objectPath string) error
}

var _ StorageClient = (*Bucket)(nil)
