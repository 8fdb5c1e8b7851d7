package file

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/opencore-hr/attendance-backend-go/internal/pkg/storage"
)

var allowedAttachmentExts = []string{".jpg", ".jpeg", ".png", ".pdf"}

type FileService interface {
	// UploadRequestAttachment stores a regularization or comp-off attachment
	// and returns its storage path.
	UploadRequestAttachment(ctx context.Context, employeeID string, kind string, file io.Reader, filename string) (string, error)

	DeleteFile(ctx context.Context, path string) error
	GetFileURL(ctx context.Context, path string, expiry time.Duration) (string, error)
}

type fileServiceImpl struct {
	storage storage.FileStorage
}

func NewFileService(storage storage.FileStorage) FileService {
	return &fileServiceImpl{
		storage: storage,
	}
}

func (s *fileServiceImpl) UploadRequestAttachment(ctx context.Context, employeeID string, kind string, file io.Reader, filename string) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))

	isValid := false
	for _, allowed := range allowedAttachmentExts {
		if ext == allowed {
			isValid = true
			break
		}
	}
	if !isValid {
		return "", fmt.Errorf("invalid file type: only jpg, jpeg, png, pdf allowed")
	}

	uniqueID := uuid.New().String()
	newFilename := fmt.Sprintf("%s-%s%s", employeeID, uniqueID, ext)
	path := filepath.Join("attachments", kind, employeeID, newFilename)

	contentType := "application/octet-stream"
	switch ext {
	case ".jpg", ".jpeg":
		contentType = "image/jpeg"
	case ".png":
		contentType = "image/png"
	case ".pdf":
		contentType = "application/pdf"
	}

	return s.storage.Upload(ctx, file, path, contentType)
}

func (s *fileServiceImpl) DeleteFile(ctx context.Context, path string) error {
	return s.storage.Delete(ctx, path)
}

func (s *fileServiceImpl) GetFileURL(ctx context.Context, path string, expiry time.Duration) (string, error) {
	return s.storage.GetURL(ctx, path, expiry)
}
