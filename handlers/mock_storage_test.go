package handlers

import (
	"context"
	"io"
)

type mockStorage struct {
	UploadImageFn   func(folder, filename, contentType string) (string, error)
	DeleteFileFn    func(objectPath string) error
	DeleteFileCalls []string
	UploadFolders   []string
}

func newMockStorage() *mockStorage {
	return &mockStorage{
		DeleteFileCalls: []string{},
	}
}

func (m *mockStorage) UploadImage(ctx context.Context, folder string, file io.Reader, filename, contentType string) (string, error) {
	m.UploadFolders = append(m.UploadFolders, folder)
	if m.UploadImageFn != nil {
		return m.UploadImageFn(folder, filename, contentType)
	}
	return "https://storage.googleapis.com/test-bucket/" + folder + "/" + filename, nil
}

func (m *mockStorage) DeleteFile(ctx context.Context, objectPath string) error {
	m.DeleteFileCalls = append(m.DeleteFileCalls, objectPath)
	if m.DeleteFileFn != nil {
		return m.DeleteFileFn(objectPath)
	}
	return nil
}
