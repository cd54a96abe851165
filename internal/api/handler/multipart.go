package handler

import (
	"fmt"
	"io"
	"mime/multipart"

	"github.com/squirrelip/squirrel_server/internal/model/dto"
	"github.com/squirrelip/squirrel_server/internal/service"
)

// readFormFile loads an uploaded part into memory, refusing parts above maxSize.
func readFormFile(fh *multipart.FileHeader, maxSize int64) (*dto.UploadedFile, error) {
	if maxSize > 0 && fh.Size > maxSize {
		return nil, service.ErrFileTooLarge
	}

	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", fh.Filename, err)
	}
	defer f.Close()

	var r io.Reader = f
	if maxSize > 0 {
		r = io.LimitReader(f, maxSize+1)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", fh.Filename, err)
	}
	if maxSize > 0 && int64(len(data)) > maxSize {
		return nil, service.ErrFileTooLarge
	}

	return &dto.UploadedFile{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}
