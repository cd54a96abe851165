package model

import (
	"time"
)

type InteractionKind string

const (
	KindWishlist   InteractionKind = "wishlist"
	KindEnquiry    InteractionKind = "enquiry"
	KindImpression InteractionKind = "impression"
)

var InteractionKinds = []InteractionKind{KindWishlist, KindEnquiry, KindImpression}

func (k InteractionKind) Valid() bool {
	switch k {
	case KindWishlist, KindEnquiry, KindImpression:
		return true
	}
	return false
}

// Label is the capitalised name used in response messages.
func (k InteractionKind) Label() string {
	switch k {
	case KindWishlist:
		return "Wishlist"
	case KindEnquiry:
		return "Enquiry"
	case KindImpression:
		return "Impression"
	}
	return string(k)
}

// Party identifies one side of an interaction. The uniqueness index spans
// both embedded copies (from_user_id, to_user_id).
type Party struct {
	UserID    string `gorm:"size:36;not null;uniqueIndex:uniq_interaction_triple" json:"userId" binding:"required"`
	FirstName string `gorm:"size:100" json:"firstName"`
	LastName  string `gorm:"size:100" json:"lastName"`
	Mobile    string `gorm:"size:30" json:"mobile"`
	Email     string `gorm:"size:255" json:"email"`
}

// PatentSnapshot is captured when the interaction is first recorded and is
// never refreshed from the live patent.
type PatentSnapshot struct {
	PatentID          string `gorm:"column:id;size:36;not null;index;uniqueIndex:uniq_interaction_triple" json:"patentId" binding:"required"`
	Title             string `gorm:"size:300" json:"title"`
	PatentNumber      string `gorm:"size:100" json:"patentNumber"`
	ApplicationNumber string `gorm:"size:100" json:"applicationNumber"`
	Abstract          string `gorm:"type:text" json:"abstract"`
	UsedTech          string `gorm:"size:100" json:"usedTech"`
	Sector            string `gorm:"size:100" json:"sector"`
}

type Interaction struct {
	ID            int64           `gorm:"primaryKey" json:"id"`
	Kind          InteractionKind `gorm:"size:20;not null;uniqueIndex:uniq_interaction_triple,priority:1" json:"kind"`
	From          Party           `gorm:"embedded;embeddedPrefix:from_" json:"from"`
	To            Party           `gorm:"embedded;embeddedPrefix:to_" json:"to"`
	PatentDetails PatentSnapshot  `gorm:"embedded;embeddedPrefix:patent_" json:"patentDetails"`
	Flag          bool            `gorm:"not null" json:"flag"`
	Date          time.Time       `json:"date"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

func (Interaction) TableName() string {
	return "interactions"
}
