package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/squirrelip/squirrel_server/config"
	"github.com/squirrelip/squirrel_server/internal/model"
	"github.com/squirrelip/squirrel_server/internal/model/dto"
	"github.com/squirrelip/squirrel_server/internal/pkg/oss"
	"github.com/squirrelip/squirrel_server/internal/pkg/search"
	"github.com/squirrelip/squirrel_server/internal/repository"
)

var (
	ErrPatentNotFound     = errors.New("Patent not found")
	ErrNotPatentOwner     = errors.New("You are not authorized to delete this patent")
	ErrPatentExists       = errors.New("A patent with this patent number or application number already exists")
	ErrNoPatents          = errors.New("No patents found")
	ErrEmptyPatentIDs     = errors.New("Patent IDs are required")
	ErrInvalidListingDate = errors.New("Invalid listingDate")
	ErrInvalidPatentDate  = errors.New("grantDate and filingDate must be valid dates")
	ErrPDFRequired        = errors.New("A PDF document is required")
	ErrInvalidPDF         = errors.New("The document must be a PDF file")
	ErrImagesRequired     = errors.New("At least one image is required")
	ErrTooManyImages      = errors.New("Too many images")
	ErrInvalidImage       = errors.New("Images must be jpg, png or webp files")
	ErrFileTooLarge       = errors.New("File is too large")
	ErrStorageUnavailable = errors.New("File storage is not configured")
)

var imageExts = map[string]bool{".jpg": true, ".jpeg": true, ".png": true, ".webp": true}

// ObjectStorage is satisfied by *oss.Client. ExtractObjectKey returns "" for
// URLs that do not point into the storage's own bucket.
type ObjectStorage interface {
	UploadFile(objectKey string, data []byte, contentType string) (string, error)
	Delete(objectKey string) error
	ExtractObjectKey(url string) string
}

type PatentService struct {
	patentRepo *repository.PatentRepository
	storage    ObjectStorage
	notifier   Notifier
	upload     config.UploadConfig
	logger     *zap.Logger
}

func NewPatentService(
	patentRepo *repository.PatentRepository,
	storage ObjectStorage,
	notifier Notifier,
	upload config.UploadConfig,
	logger *zap.Logger,
) *PatentService {
	return &PatentService{
		patentRepo: patentRepo,
		storage:    storage,
		notifier:   notifier,
		upload:     upload,
		logger:     logger,
	}
}

// Create stores the document and images under patents/<patentId>/ and then
// inserts the listing. Objects already uploaded are removed if anything fails.
func (s *PatentService) Create(ctx context.Context, userID string, fields *dto.PatentFields, pdf *dto.UploadedFile, images []*dto.UploadedFile) (*model.Patent, error) {
	if err := s.validateFiles(pdf, images); err != nil {
		return nil, err
	}
	grant, filing, err := parsePatentDates(fields)
	if err != nil {
		return nil, err
	}
	if s.storage == nil {
		return nil, ErrStorageUnavailable
	}

	patentID := uuid.NewString()
	var uploaded []string

	pdfURL, err := s.put(patentObjectPrefix(patentID)+"document.pdf", pdf, &uploaded)
	if err != nil {
		s.purgeKeys(uploaded)
		return nil, err
	}

	imageURLs := make(model.StringArray, 0, len(images))
	for i, img := range images {
		key := fmt.Sprintf("%simages/%d%s", patentObjectPrefix(patentID), i+1, strings.ToLower(path.Ext(img.Filename)))
		url, err := s.put(key, img, &uploaded)
		if err != nil {
			s.purgeKeys(uploaded)
			return nil, err
		}
		imageURLs = append(imageURLs, url)
	}

	patent := buildPatent(patentID, userID, fields, grant, filing)
	patent.PDF = pdfURL
	patent.PatentImages = imageURLs

	if err := s.insert(ctx, patent); err != nil {
		s.purgeKeys(uploaded)
		return nil, err
	}
	return patent, nil
}

// Add creates a listing whose files were uploaded beforehand.
func (s *PatentService) Add(ctx context.Context, userID string, req *dto.AddPatentRequest) (*model.Patent, error) {
	if len(req.PatentImages) == 0 {
		return nil, ErrImagesRequired
	}
	if s.upload.MaxImages > 0 && len(req.PatentImages) > s.upload.MaxImages {
		return nil, ErrTooManyImages
	}
	grant, filing, err := parsePatentDates(&req.PatentFields)
	if err != nil {
		return nil, err
	}

	patent := buildPatent(uuid.NewString(), userID, &req.PatentFields, grant, filing)
	patent.PDF = req.PDF
	patent.PatentImages = model.StringArray(req.PatentImages)

	if err := s.insert(ctx, patent); err != nil {
		return nil, err
	}
	return patent, nil
}

func (s *PatentService) insert(ctx context.Context, patent *model.Patent) error {
	if err := s.patentRepo.Create(patent); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrPatentExists
		}
		return err
	}
	s.notifier.PatentSubmitted(ctx, patent)
	return nil
}

func (s *PatentService) ListMine(userID string) ([]*model.Patent, error) {
	patents, err := s.patentRepo.ListByUser(userID)
	if err != nil {
		return nil, err
	}
	if len(patents) == 0 {
		return nil, ErrNoPatents
	}
	return patents, nil
}

func (s *PatentService) ListAll() ([]*model.Patent, error) {
	patents, err := s.patentRepo.ListAll()
	if err != nil {
		return nil, err
	}
	if patents == nil {
		patents = []*model.Patent{}
	}
	return patents, nil
}

// GetByIDs returns the requested listings, flagging the ones the caller owns.
// Unknown ids are skipped.
func (s *PatentService) GetByIDs(userID string, patentIDs []string) ([]*dto.PatentWithOwnership, error) {
	ids := make([]string, 0, len(patentIDs))
	for _, id := range patentIDs {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return nil, ErrEmptyPatentIDs
	}

	patents, err := s.patentRepo.ListByPatentIDs(ids)
	if err != nil {
		return nil, err
	}
	if len(patents) == 0 {
		return nil, ErrNoPatents
	}

	result := make([]*dto.PatentWithOwnership, 0, len(patents))
	for _, p := range patents {
		result = append(result, &dto.PatentWithOwnership{
			Patent:        p,
			UserOwnPatent: p.UserID == userID,
		})
	}
	return result, nil
}

// Search applies the exact filters in SQL and the free text match in memory.
func (s *PatentService) Search(q *dto.SearchPatentsQuery) ([]*model.Patent, error) {
	filter := repository.PatentFilter{
		PatentType:      strings.TrimSpace(q.PatentType),
		Sector:          strings.TrimSpace(q.Sector),
		UsedTech:        strings.TrimSpace(q.UsedTech),
		TransactionType: strings.TrimSpace(q.TransactionType),
	}
	if raw := strings.TrimSpace(q.ListingDate); raw != "" {
		since, err := parseDate(raw)
		if err != nil {
			return nil, ErrInvalidListingDate
		}
		filter.ListedSince = &since
	}

	patents, err := s.patentRepo.Search(filter)
	if err != nil {
		return nil, err
	}

	matcher := search.NewMatcher(q.SearchText)
	if matcher.Empty() {
		if patents == nil {
			patents = []*model.Patent{}
		}
		return patents, nil
	}

	matched := make([]*model.Patent, 0, len(patents))
	for _, p := range patents {
		if matcher.Match(p.Title, p.Abstract, p.Sector, p.UsedTech) {
			matched = append(matched, p)
		}
	}
	return matched, nil
}

// Delete removes the listing and its interactions, then its stored files.
func (s *PatentService) Delete(userID, patentID string) error {
	patent, err := s.patentRepo.GetByPatentID(patentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrPatentNotFound
		}
		return err
	}
	if patent.UserID != userID {
		return ErrNotPatentOwner
	}

	if err := s.patentRepo.DeleteCascade(patentID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrPatentNotFound
		}
		return err
	}

	s.PurgeFiles(patent)
	return nil
}

// PurgeFiles deletes the stored objects of a removed listing. Only keys under
// the listing's own patents/<patentId>/ prefix are touched: URLs given to
// add-patent may point anywhere, including another listing's files.
// Failures are logged only; the listing is already gone.
func (s *PatentService) PurgeFiles(patents ...*model.Patent) {
	if s.storage == nil {
		return
	}
	var keys []string
	for _, p := range patents {
		prefix := patentObjectPrefix(p.PatentID)
		for _, url := range p.ObjectURLs() {
			key := s.storage.ExtractObjectKey(url)
			if !strings.HasPrefix(key, prefix) {
				s.logger.Debug("keep object not owned by listing",
					zap.String("patent", p.PatentID), zap.String("url", url))
				continue
			}
			keys = append(keys, key)
		}
	}
	s.purgeKeys(keys)
}

func patentObjectPrefix(patentID string) string {
	return "patents/" + patentID + "/"
}

func (s *PatentService) purgeKeys(keys []string) {
	for _, key := range keys {
		if err := s.storage.Delete(key); err != nil {
			s.logger.Warn("failed to delete object", zap.String("key", key), zap.Error(err))
		}
	}
}

func (s *PatentService) put(key string, f *dto.UploadedFile, uploaded *[]string) (string, error) {
	contentType := f.ContentType
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = oss.ContentType(path.Ext(key))
	}
	url, err := s.storage.UploadFile(key, f.Data, contentType)
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", key, err)
	}
	*uploaded = append(*uploaded, key)
	return url, nil
}

func (s *PatentService) validateFiles(pdf *dto.UploadedFile, images []*dto.UploadedFile) error {
	if pdf == nil || len(pdf.Data) == 0 {
		return ErrPDFRequired
	}
	if strings.ToLower(path.Ext(pdf.Filename)) != ".pdf" || http.DetectContentType(pdf.Data) != "application/pdf" {
		return ErrInvalidPDF
	}
	if s.tooLarge(pdf) {
		return ErrFileTooLarge
	}

	if len(images) == 0 {
		return ErrImagesRequired
	}
	if s.upload.MaxImages > 0 && len(images) > s.upload.MaxImages {
		return ErrTooManyImages
	}
	for _, img := range images {
		if img == nil || len(img.Data) == 0 || !imageExts[strings.ToLower(path.Ext(img.Filename))] {
			return ErrInvalidImage
		}
		if s.tooLarge(img) {
			return ErrFileTooLarge
		}
	}
	return nil
}

func (s *PatentService) tooLarge(f *dto.UploadedFile) bool {
	return s.upload.MaxFileSize > 0 && int64(len(f.Data)) > s.upload.MaxFileSize
}

func buildPatent(patentID, userID string, f *dto.PatentFields, grant, filing time.Time) *model.Patent {
	transactionType := strings.TrimSpace(f.TransactionType)
	if transactionType == "" {
		transactionType = model.TransactionTypeAvailable
	}
	patentType := strings.TrimSpace(f.PatentType)
	if patentType == "" {
		patentType = model.PatentTypeUtility
	}

	return &model.Patent{
		PatentID:          patentID,
		UserID:            userID,
		FirstName:         f.FirstName,
		LastName:          f.LastName,
		Mobile:            f.Mobile,
		Email:             f.Email,
		State:             f.State,
		City:              f.City,
		Coauthors:         f.Coauthors,
		Org:               f.Org,
		Title:             f.Title,
		GrantDate:         grant,
		FilingDate:        filing,
		PatentNumber:      strings.TrimSpace(f.PatentNumber),
		ApplicationNumber: strings.TrimSpace(f.ApplicationNumber),
		Abstract:          f.Abstract,
		Sector:            f.Sector,
		UsedTech:          f.UsedTech,
		ListedAt:          time.Now(),
		Verified:          false,
		TransactionType:   transactionType,
		PatentType:        patentType,
	}
}

func parsePatentDates(f *dto.PatentFields) (time.Time, time.Time, error) {
	grant, err := parseDate(f.GrantDate)
	if err != nil {
		return time.Time{}, time.Time{}, ErrInvalidPatentDate
	}
	filing, err := parseDate(f.FilingDate)
	if err != nil {
		return time.Time{}, time.Time{}, ErrInvalidPatentDate
	}
	return grant, filing, nil
}

// parseDate accepts a calendar date or a full RFC 3339 timestamp.
func parseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	for _, layout := range []string{"2006-01-02", time.RFC3339, time.RFC3339Nano} {
		if t, err := time.ParseInLocation(layout, raw, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised date %q", raw)
}
