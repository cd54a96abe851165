package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/squirrelip/squirrel_server/config"
	"github.com/squirrelip/squirrel_server/internal/model"
	"github.com/squirrelip/squirrel_server/internal/model/dto"
	"github.com/squirrelip/squirrel_server/internal/repository"
	"github.com/squirrelip/squirrel_server/internal/testutil"
)

var (
	samplePDF = []byte("%PDF-1.4\n1 0 obj\n<<>>\nendobj\n")
	samplePNG = []byte("\x89PNG\r\n\x1a\nfakeimage")
)

type patentFixture struct {
	db       *gorm.DB
	service  *PatentService
	storage  *testutil.FakeStorage
	notifier *testutil.RecordingNotifier
}

func setupPatentService(t *testing.T) *patentFixture {
	t.Helper()

	db := testutil.SetupTestDB(t)
	storage := testutil.NewFakeStorage()
	notifier := &testutil.RecordingNotifier{}
	svc := NewPatentService(
		repository.NewPatentRepository(db),
		storage,
		notifier,
		config.UploadConfig{MaxFileSize: 1 << 20, MaxImages: 3},
		zap.NewNop(),
	)
	return &patentFixture{db: db, service: svc, storage: storage, notifier: notifier}
}

func sampleFields(suffix string) *dto.PatentFields {
	return &dto.PatentFields{
		FirstName:         "Asha",
		LastName:          "Rao",
		Mobile:            "9000000000",
		Email:             "asha@example.com",
		State:             "Karnataka",
		City:              "Bengaluru",
		Org:               "IISc",
		Title:             "Solar battery " + suffix,
		GrantDate:         "2023-04-01",
		FilingDate:        "2021-01-15T00:00:00Z",
		PatentNumber:      "PN-" + suffix,
		ApplicationNumber: "AN-" + suffix,
		Abstract:          "Stores photovoltaic energy",
		Sector:            "Energy",
		UsedTech:          "Photovoltaics",
	}
}

func pdfFile() *dto.UploadedFile {
	return &dto.UploadedFile{Filename: "claims.pdf", ContentType: "application/pdf", Data: samplePDF}
}

func pngFiles(n int) []*dto.UploadedFile {
	files := make([]*dto.UploadedFile, n)
	for i := range files {
		files[i] = &dto.UploadedFile{Filename: fmt.Sprintf("img%d.PNG", i), Data: samplePNG}
	}
	return files
}

func TestPatentService_Create(t *testing.T) {
	f := setupPatentService(t)

	patent, err := f.service.Create(context.Background(), "owner-1", sampleFields("1"), pdfFile(), pngFiles(2))
	require.NoError(t, err)

	assert.NotEmpty(t, patent.PatentID)
	assert.Equal(t, "owner-1", patent.UserID)
	assert.Equal(t, model.TransactionTypeAvailable, patent.TransactionType)
	assert.Equal(t, model.PatentTypeUtility, patent.PatentType)
	assert.False(t, patent.Verified)
	assert.WithinDuration(t, time.Now(), patent.ListedAt, time.Minute)
	assert.Equal(t, 2023, patent.GrantDate.Year())

	prefix := "https://cdn.test/patents/" + patent.PatentID
	assert.Equal(t, prefix+"/document.pdf", patent.PDF)
	assert.Equal(t, model.StringArray{prefix + "/images/1.png", prefix + "/images/2.png"}, patent.PatentImages)
	assert.Len(t, f.storage.Keys(), 3)

	require.Len(t, f.notifier.Submitted, 1)
	assert.Equal(t, patent.PatentID, f.notifier.Submitted[0].PatentID)
}

func TestPatentService_CreateValidation(t *testing.T) {
	f := setupPatentService(t)
	ctx := context.Background()

	tests := []struct {
		name   string
		pdf    *dto.UploadedFile
		images []*dto.UploadedFile
		fields *dto.PatentFields
		want   error
	}{
		{"missing pdf", nil, pngFiles(1), sampleFields("a"), ErrPDFRequired},
		{"pdf extension only", &dto.UploadedFile{Filename: "x.pdf", Data: []byte("hello")}, pngFiles(1), sampleFields("b"), ErrInvalidPDF},
		{"no images", pdfFile(), nil, sampleFields("c"), ErrImagesRequired},
		{"too many images", pdfFile(), pngFiles(4), sampleFields("d"), ErrTooManyImages},
		{"bad image type", pdfFile(), []*dto.UploadedFile{{Filename: "a.gif", Data: samplePNG}}, sampleFields("e"), ErrInvalidImage},
		{"bad date", pdfFile(), pngFiles(1), func() *dto.PatentFields {
			fl := sampleFields("f")
			fl.GrantDate = "yesterday"
			return fl
		}(), ErrInvalidPatentDate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.service.Create(ctx, "owner-1", tt.fields, tt.pdf, tt.images)
			assert.ErrorIs(t, err, tt.want)
		})
	}
	assert.Empty(t, f.storage.Keys())
}

func TestPatentService_CreateTooLarge(t *testing.T) {
	f := setupPatentService(t)

	big := &dto.UploadedFile{Filename: "big.pdf", Data: append(append([]byte{}, samplePDF...), make([]byte, 2<<20)...)}
	_, err := f.service.Create(context.Background(), "owner-1", sampleFields("1"), big, pngFiles(1))
	assert.ErrorIs(t, err, ErrFileTooLarge)
}

func TestPatentService_CreateDuplicateRemovesUploads(t *testing.T) {
	f := setupPatentService(t)
	ctx := context.Background()

	_, err := f.service.Create(ctx, "owner-1", sampleFields("dup"), pdfFile(), pngFiles(1))
	require.NoError(t, err)
	before := len(f.storage.Keys())

	_, err = f.service.Create(ctx, "owner-2", sampleFields("dup"), pdfFile(), pngFiles(2))
	assert.ErrorIs(t, err, ErrPatentExists)
	assert.Len(t, f.storage.Keys(), before)
	assert.Len(t, f.storage.Deleted, 3)
	assert.Len(t, f.notifier.Submitted, 1)
}

func TestPatentService_CreateUploadFailureRollsBack(t *testing.T) {
	f := setupPatentService(t)
	f.storage.FailAfter = 2

	_, err := f.service.Create(context.Background(), "owner-1", sampleFields("1"), pdfFile(), pngFiles(3))
	require.Error(t, err)
	assert.Empty(t, f.storage.Keys())

	var count int64
	f.db.Model(&model.Patent{}).Count(&count)
	assert.Zero(t, count)
}

func TestPatentService_CreateWithoutStorage(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := NewPatentService(repository.NewPatentRepository(db), nil, &testutil.RecordingNotifier{},
		config.UploadConfig{MaxImages: 10}, zap.NewNop())

	_, err := svc.Create(context.Background(), "owner-1", sampleFields("1"), pdfFile(), pngFiles(1))
	assert.ErrorIs(t, err, ErrStorageUnavailable)
}

func TestPatentService_Add(t *testing.T) {
	f := setupPatentService(t)

	req := &dto.AddPatentRequest{
		PatentFields: *sampleFields("add"),
		PDF:          "https://cdn.test/files/1_a.pdf",
		PatentImages: []string{"https://cdn.test/files/1_a.png"},
	}
	req.PatentType = "Design"

	patent, err := f.service.Add(context.Background(), "owner-1", req)
	require.NoError(t, err)
	assert.Equal(t, "Design", patent.PatentType)
	assert.Equal(t, req.PDF, patent.PDF)

	_, err = f.service.Add(context.Background(), "owner-1", req)
	assert.ErrorIs(t, err, ErrPatentExists)
}

func TestPatentService_ListMine(t *testing.T) {
	f := setupPatentService(t)
	owner := testutil.TestUser(t, f.db)

	_, err := f.service.ListMine(owner.UserID)
	assert.ErrorIs(t, err, ErrNoPatents)

	testutil.TestPatent(t, f.db, owner)
	patents, err := f.service.ListMine(owner.UserID)
	require.NoError(t, err)
	assert.Len(t, patents, 1)
}

func TestPatentService_ListAllEmpty(t *testing.T) {
	f := setupPatentService(t)

	patents, err := f.service.ListAll()
	require.NoError(t, err)
	assert.NotNil(t, patents)
	assert.Empty(t, patents)
}

func TestPatentService_GetByIDs(t *testing.T) {
	f := setupPatentService(t)
	alice := testutil.TestUser(t, f.db)
	bob := testutil.TestUser(t, f.db)
	mine := testutil.TestPatent(t, f.db, alice)
	theirs := testutil.TestPatent(t, f.db, bob)

	_, err := f.service.GetByIDs(alice.UserID, []string{" ", ""})
	assert.ErrorIs(t, err, ErrEmptyPatentIDs)

	_, err = f.service.GetByIDs(alice.UserID, []string{"missing"})
	assert.ErrorIs(t, err, ErrNoPatents)

	result, err := f.service.GetByIDs(alice.UserID, []string{mine.PatentID, theirs.PatentID, "missing"})
	require.NoError(t, err)
	require.Len(t, result, 2)

	own := map[string]bool{}
	for _, r := range result {
		own[r.PatentID] = r.UserOwnPatent
	}
	assert.True(t, own[mine.PatentID])
	assert.False(t, own[theirs.PatentID])
}

func TestPatentService_Search(t *testing.T) {
	f := setupPatentService(t)
	owner := testutil.TestUser(t, f.db)

	solar := testutil.TestPatent(t, f.db, owner,
		testutil.WithTitle("Portable solar charger"),
		testutil.WithSector("Energy", "Photovoltaics"))
	testutil.TestPatent(t, f.db, owner,
		testutil.WithTitle("Insulin pump"),
		testutil.WithAbstract("Closed loop glucose control"),
		testutil.WithSector("Health", "Microfluidics"),
		testutil.WithListedAt(time.Now().AddDate(0, -3, 0)))

	got, err := f.service.Search(&dto.SearchPatentsQuery{SearchText: "solr"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, solar.PatentID, got[0].PatentID)

	got, err = f.service.Search(&dto.SearchPatentsQuery{SearchText: "glucose charger"})
	require.NoError(t, err)
	assert.Len(t, got, 2)

	got, err = f.service.Search(&dto.SearchPatentsQuery{})
	require.NoError(t, err)
	assert.Len(t, got, 2)

	got, err = f.service.Search(&dto.SearchPatentsQuery{ListingDate: time.Now().AddDate(0, -1, 0).Format("2006-01-02")})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, solar.PatentID, got[0].PatentID)

	got, err = f.service.Search(&dto.SearchPatentsQuery{Sector: "Health", SearchText: "solar"})
	require.NoError(t, err)
	assert.Empty(t, got)

	_, err = f.service.Search(&dto.SearchPatentsQuery{ListingDate: "31/12/2024"})
	assert.ErrorIs(t, err, ErrInvalidListingDate)
}

func TestPatentService_Delete(t *testing.T) {
	f := setupPatentService(t)
	ctx := context.Background()
	owner := testutil.TestUser(t, f.db)
	buyer := testutil.TestUser(t, f.db)

	patent, err := f.service.Create(ctx, owner.UserID, sampleFields("del"), pdfFile(), pngFiles(1))
	require.NoError(t, err)
	testutil.TestInteraction(t, f.db, model.KindWishlist, buyer, owner, patent)
	testutil.TestInteraction(t, f.db, model.KindEnquiry, buyer, owner, patent)

	assert.ErrorIs(t, f.service.Delete(owner.UserID, "missing"), ErrPatentNotFound)
	assert.ErrorIs(t, f.service.Delete(buyer.UserID, patent.PatentID), ErrNotPatentOwner)

	require.NoError(t, f.service.Delete(owner.UserID, patent.PatentID))

	var count int64
	f.db.Model(&model.Interaction{}).Count(&count)
	assert.Zero(t, count)
	f.db.Model(&model.Patent{}).Count(&count)
	assert.Zero(t, count)
	assert.Empty(t, f.storage.Keys())
}

func TestPatentService_DeleteIgnoresStorageErrors(t *testing.T) {
	f := setupPatentService(t)
	owner := testutil.TestUser(t, f.db)
	patent := testutil.TestPatent(t, f.db, owner)

	// objects were never uploaded to the fake, so every delete fails; only logged
	require.NoError(t, f.service.Delete(owner.UserID, patent.PatentID))

	_, err := repository.NewPatentRepository(f.db).GetByPatentID(patent.PatentID)
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
}

func TestPatentService_DeleteKeepsObjectsOfOtherListings(t *testing.T) {
	f := setupPatentService(t)
	ctx := context.Background()
	victim := testutil.TestUser(t, f.db)
	other := testutil.TestUser(t, f.db)

	theirs, err := f.service.Create(ctx, victim.UserID, sampleFields("theirs"), pdfFile(), pngFiles(1))
	require.NoError(t, err)
	require.Len(t, f.storage.Keys(), 2)

	// a listing that references someone else's files plus a foreign host
	mine, err := f.service.Add(ctx, other.UserID, &dto.AddPatentRequest{
		PatentFields: *sampleFields("mine"),
		PDF:          theirs.PDF,
		PatentImages: []string{theirs.PatentImages[0], "https://evil.example/patents/" + theirs.PatentID + "/images/1.png"},
	})
	require.NoError(t, err)

	require.NoError(t, f.service.Delete(other.UserID, mine.PatentID))

	assert.Len(t, f.storage.Keys(), 2)
	assert.Empty(t, f.storage.Deleted)

	require.NoError(t, f.service.Delete(victim.UserID, theirs.PatentID))
	assert.Empty(t, f.storage.Keys())
}
