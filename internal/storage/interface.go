package storage

import (
	"context"
	"mime/multipart"
)

// ImageUploader abstracts image storage so handlers can be tested without S3
type ImageUploader interface {
	UploadImage(ctx context.Context, file multipart.File, header *multipart.FileHeader, userID, kind string) (*UploadResult, error)
	DeleteFile(ctx context.Context, key string) error
}

// Compile-time interface check
var _ ImageUploader = (*S3Uploader)(nil)
