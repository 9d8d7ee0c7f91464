package storage

import (
	"context"
	"fmt"
	"mime/multipart"
	"sync"
)

// MockUploader is an in-memory ImageUploader for tests and local development
type MockUploader struct {
	mu      sync.Mutex
	uploads []string
	deletes []string
	FailMsg string
}

// NewMockUploader creates a mock uploader
func NewMockUploader() *MockUploader {
	return &MockUploader{}
}

// UploadImage records the upload and returns a fake public URL
func (m *MockUploader) UploadImage(_ context.Context, _ multipart.File, header *multipart.FileHeader, userID, kind string) (*UploadResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.FailMsg != "" {
		return nil, fmt.Errorf("%s", m.FailMsg)
	}

	key := fmt.Sprintf("images/%s/%s/%s", kind, userID, header.Filename)
	m.uploads = append(m.uploads, key)

	return &UploadResult{
		Key:    key,
		URL:    "https://images.example.com/" + key,
		Bucket: "mock-bucket",
		Size:   header.Size,
	}, nil
}

// DeleteFile records the deletion
func (m *MockUploader) DeleteFile(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.deletes = append(m.deletes, key)
	return nil
}

// Uploads returns the keys uploaded so far
func (m *MockUploader) Uploads() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]string, len(m.uploads))
	copy(out, m.uploads)
	return out
}

var _ ImageUploader = (*MockUploader)(nil)
