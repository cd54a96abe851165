package service

import (
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/squirrelip/squirrel_server/config"
	"github.com/squirrelip/squirrel_server/internal/model/dto"
	"github.com/squirrelip/squirrel_server/internal/pkg/oss"
)

var (
	ErrNoFileUploaded  = errors.New("No file uploaded")
	ErrInvalidFileName = errors.New("Invalid file name")
)

type UploadService struct {
	storage ObjectStorage
	cfg     config.UploadConfig
}

func NewUploadService(storage ObjectStorage, cfg config.UploadConfig) *UploadService {
	return &UploadService{storage: storage, cfg: cfg}
}

// Upload stores a single file under files/<unix>_<name> and returns its URL.
func (s *UploadService) Upload(f *dto.UploadedFile) (string, error) {
	if f == nil || len(f.Data) == 0 {
		return "", ErrNoFileUploaded
	}
	if s.cfg.MaxFileSize > 0 && int64(len(f.Data)) > s.cfg.MaxFileSize {
		return "", ErrFileTooLarge
	}
	name := sanitizeFileName(f.Filename)
	if name == "" {
		return "", ErrInvalidFileName
	}
	if s.storage == nil {
		return "", ErrStorageUnavailable
	}

	contentType := f.ContentType
	if contentType == "" {
		contentType = oss.ContentType(path.Ext(name))
	}

	key := fmt.Sprintf("files/%d_%s", time.Now().Unix(), name)
	url, err := s.storage.UploadFile(key, f.Data, contentType)
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", key, err)
	}
	return url, nil
}

// sanitizeFileName drops any client supplied directories and whitespace.
func sanitizeFileName(name string) string {
	name = path.Base(strings.ReplaceAll(strings.TrimSpace(name), "\\", "/"))
	if name == "." || name == "/" || name == ".." {
		return ""
	}
	return strings.Join(strings.Fields(name), "_")
}
