package testutil

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/squirrelip/squirrel_server/internal/model"
)

// TestUser inserts a user with unique userId and email.
func TestUser(t *testing.T, db *gorm.DB, opts ...func(*model.User)) *model.User {
	t.Helper()

	id := uuid.NewString()
	user := &model.User{
		UserID:       id,
		FirstName:    "Test",
		LastName:     "User",
		Email:        fmt.Sprintf("user_%s@example.com", id[:8]),
		Mobile:       "9876543210",
		City:         "Pune",
		Pincode:      "411001",
		PasswordHash: "$2a$10$abcdefghijklmnopqrstuvwxyz123456", // placeholder, not a real hash
		JoinedAt:     time.Now(),
	}

	for _, opt := range opts {
		opt(user)
	}

	if err := db.Create(user).Error; err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}

	return user
}

func WithEmail(email string) func(*model.User) {
	return func(u *model.User) {
		u.Email = email
	}
}

func WithName(first, last string) func(*model.User) {
	return func(u *model.User) {
		u.FirstName = first
		u.LastName = last
	}
}

func WithPasswordHash(hash string) func(*model.User) {
	return func(u *model.User) {
		u.PasswordHash = hash
	}
}

// TestPatent inserts a listing owned by owner.
func TestPatent(t *testing.T, db *gorm.DB, owner *model.User, opts ...func(*model.Patent)) *model.Patent {
	t.Helper()

	id := uuid.NewString()
	patent := &model.Patent{
		PatentID:          id,
		UserID:            owner.UserID,
		FirstName:         owner.FirstName,
		LastName:          owner.LastName,
		Mobile:            owner.Mobile,
		Email:             owner.Email,
		State:             "Maharashtra",
		City:              owner.City,
		Org:               "Test Labs",
		Title:             "Test Patent " + id[:8],
		GrantDate:         time.Now().AddDate(-1, 0, 0),
		FilingDate:        time.Now().AddDate(-2, 0, 0),
		PatentNumber:      "PN-" + id[:8],
		ApplicationNumber: "AN-" + id[:8],
		Abstract:          "A test abstract",
		Sector:            "Energy",
		UsedTech:          "Photovoltaics",
		PDF:               fakeCDN + "patents/" + id + "/document.pdf",
		PatentImages:      model.StringArray{fakeCDN + "patents/" + id + "/images/1.png"},
		ListedAt:          time.Now(),
		TransactionType:   model.TransactionTypeAvailable,
		PatentType:        model.PatentTypeUtility,
	}

	for _, opt := range opts {
		opt(patent)
	}

	if err := db.Create(patent).Error; err != nil {
		t.Fatalf("Failed to create test patent: %v", err)
	}

	return patent
}

func WithTitle(title string) func(*model.Patent) {
	return func(p *model.Patent) {
		p.Title = title
	}
}

func WithAbstract(abstract string) func(*model.Patent) {
	return func(p *model.Patent) {
		p.Abstract = abstract
	}
}

func WithSector(sector, usedTech string) func(*model.Patent) {
	return func(p *model.Patent) {
		p.Sector = sector
		p.UsedTech = usedTech
	}
}

func WithListedAt(at time.Time) func(*model.Patent) {
	return func(p *model.Patent) {
		p.ListedAt = at
	}
}

func WithPatentType(patentType, transactionType string) func(*model.Patent) {
	return func(p *model.Patent) {
		p.PatentType = patentType
		p.TransactionType = transactionType
	}
}

// TestInteraction records an active interaction from one user on another user's patent.
func TestInteraction(t *testing.T, db *gorm.DB, kind model.InteractionKind, from, to *model.User, patent *model.Patent, opts ...func(*model.Interaction)) *model.Interaction {
	t.Helper()

	rec := &model.Interaction{
		Kind:          kind,
		From:          from.Party(),
		To:            to.Party(),
		PatentDetails: patent.Snapshot(),
		Flag:          true,
		Date:          time.Now(),
	}

	for _, opt := range opts {
		opt(rec)
	}

	if err := db.Create(rec).Error; err != nil {
		t.Fatalf("Failed to create test interaction: %v", err)
	}

	return rec
}

// Inactive stores the record with flag=false.
func Inactive() func(*model.Interaction) {
	return func(i *model.Interaction) {
		i.Flag = false
	}
}

// TestSubscription inserts a landing page contact request.
func TestSubscription(t *testing.T, db *gorm.DB, email string) *model.Subscription {
	t.Helper()

	sub := &model.Subscription{
		FirstName: "Sub",
		LastName:  "Scriber",
		OrgName:   "Acme",
		Mobile:    "9000000000",
		Message:   "Interested in licensing",
		Email:     email,
	}
	if err := db.Create(sub).Error; err != nil {
		t.Fatalf("Failed to create test subscription: %v", err)
	}
	return sub
}
