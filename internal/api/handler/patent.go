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

type PatentHandler struct {
	patentService *service.PatentService
	upload        config.UploadConfig
}

func NewPatentHandler(patentService *service.PatentService, upload config.UploadConfig) *PatentHandler {
	return &PatentHandler{
		patentService: patentService,
		upload:        upload,
	}
}

// CreatePatent stores one PDF and 1..N images and lists the patent.
// POST /api/patent/create-patent (multipart)
func (h *PatentHandler) CreatePatent(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var fields dto.PatentFields
	if err := c.ShouldBind(&fields); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		response.ParamError(c, "Expected a multipart form")
		return
	}

	pdfs := form.File["pdf"]
	if len(pdfs) != 1 {
		response.ParamError(c, service.ErrPDFRequired.Error())
		return
	}
	pdf, err := readFormFile(pdfs[0], h.upload.MaxFileSize)
	if err != nil {
		h.writeError(c, err, "Failed to add patent")
		return
	}

	images := make([]*dto.UploadedFile, 0, len(form.File["images"]))
	for _, fh := range form.File["images"] {
		img, err := readFormFile(fh, h.upload.MaxFileSize)
		if err != nil {
			h.writeError(c, err, "Failed to add patent")
			return
		}
		images = append(images, img)
	}

	patent, err := h.patentService.Create(c.Request.Context(), userID, &fields, pdf, images)
	if err != nil {
		h.writeError(c, err, "Failed to add patent")
		return
	}

	response.Created(c, "Patent added successfully", patent)
}

// AddPatent lists a patent whose files were uploaded beforehand.
// POST /api/patent/add-patent
func (h *PatentHandler) AddPatent(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var req dto.AddPatentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	patent, err := h.patentService.Add(c.Request.Context(), userID, &req)
	if err != nil {
		h.writeError(c, err, "Failed to add patent")
		return
	}

	response.Created(c, "Patent added successfully", patent)
}

// MyPatents
// GET /api/patent/my-patents
func (h *PatentHandler) MyPatents(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	patents, err := h.patentService.ListMine(userID)
	if err != nil {
		if errors.Is(err, service.ErrNoPatents) {
			response.NotFoundError(c, "No patents found for this user")
			return
		}
		internalError(c, "Failed to retrieve patents", err)
		return
	}

	response.Success(c, "Patents retrieved successfully", patents)
}

// SearchPatents
// GET /api/patent/search-patents
func (h *PatentHandler) SearchPatents(c *gin.Context) {
	var q dto.SearchPatentsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	patents, err := h.patentService.Search(&q)
	if err != nil {
		h.writeError(c, err, "Error in searching patents")
		return
	}

	response.Success(c, "Patents found successfully", patents)
}

// GetPatentsByIDs
// POST /api/patent/get-patents-by-ids
func (h *PatentHandler) GetPatentsByIDs(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var req dto.PatentIDsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, "Invalid patentIds array")
		return
	}

	patents, err := h.patentService.GetByIDs(userID, req.PatentIDs)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmptyPatentIDs):
			response.ParamError(c, "Invalid patentIds array")
		case errors.Is(err, service.ErrNoPatents):
			response.NotFoundError(c, "No patents found for the provided patentIds")
		default:
			internalError(c, "Error fetching patents", err)
		}
		return
	}

	response.Success(c, "Patents fetched successfully", patents)
}

// GetAllPatents newest first
// GET /api/patent/get-all-patents
func (h *PatentHandler) GetAllPatents(c *gin.Context) {
	patents, err := h.patentService.ListAll()
	if err != nil {
		internalError(c, "Failed to retrieve patents", err)
		return
	}
	response.Success(c, "Patents retrieved successfully", patents)
}

// DeletePatent removes an owned listing with its interactions and files.
// DELETE /api/patent/delete-patent/:patentId
func (h *PatentHandler) DeletePatent(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	if err := h.patentService.Delete(userID, c.Param("patentId")); err != nil {
		h.writeError(c, err, "Failed to delete patent")
		return
	}

	response.Success(c, "Patent deleted successfully", nil)
}

func (h *PatentHandler) writeError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, service.ErrPatentNotFound):
		response.NotFoundError(c, err.Error())
	case errors.Is(err, service.ErrNotPatentOwner):
		response.PermissionError(c, err.Error())
	case errors.Is(err, service.ErrPatentExists):
		response.DuplicateError(c, err.Error())
	case errors.Is(err, service.ErrFileTooLarge):
		response.Error(c, http.StatusRequestEntityTooLarge, err.Error())
	case errors.Is(err, service.ErrInvalidListingDate),
		errors.Is(err, service.ErrInvalidPatentDate),
		errors.Is(err, service.ErrPDFRequired),
		errors.Is(err, service.ErrInvalidPDF),
		errors.Is(err, service.ErrImagesRequired),
		errors.Is(err, service.ErrTooManyImages),
		errors.Is(err, service.ErrInvalidImage):
		response.ParamError(c, err.Error())
	case errors.Is(err, service.ErrStorageUnavailable):
		internalError(c, err.Error(), err)
	default:
		internalError(c, fallback, err)
	}
}
