package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/squirrelip/squirrel_server/config"
	"github.com/squirrelip/squirrel_server/internal/model/dto"
	"github.com/squirrelip/squirrel_server/internal/pkg/response"
	"github.com/squirrelip/squirrel_server/internal/service"
)

type UploadHandler struct {
	uploadService *service.UploadService
	cfg           config.UploadConfig
}

func NewUploadHandler(uploadService *service.UploadService, cfg config.UploadConfig) *UploadHandler {
	return &UploadHandler{
		uploadService: uploadService,
		cfg:           cfg,
	}
}

// Upload stores a single file and returns its public URL.
// POST /upload
func (h *UploadHandler) Upload(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		response.ParamError(c, service.ErrNoFileUploaded.Error())
		return
	}

	file, err := readFormFile(fh, h.cfg.MaxFileSize)
	if err != nil {
		if errors.Is(err, service.ErrFileTooLarge) {
			response.Error(c, http.StatusRequestEntityTooLarge, err.Error())
			return
		}
		internalError(c, "Failed to upload file", err)
		return
	}

	url, err := h.uploadService.Upload(file)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNoFileUploaded),
			errors.Is(err, service.ErrInvalidFileName):
			response.ParamError(c, err.Error())
		case errors.Is(err, service.ErrFileTooLarge):
			response.Error(c, http.StatusRequestEntityTooLarge, err.Error())
		default:
			internalError(c, "Failed to upload file", err)
		}
		return
	}

	response.Success(c, "File uploaded successfully", dto.UploadResponse{FileURL: url})
}
