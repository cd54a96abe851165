package model

import (
	"time"
)

const (
	TransactionTypeAvailable = "available"
	PatentTypeUtility        = "Utility"
)

type Patent struct {
	ID                int64       `gorm:"primaryKey" json:"-"`
	PatentID          string      `gorm:"size:36;uniqueIndex;not null" json:"patentId"`
	UserID            string      `gorm:"size:36;not null;index" json:"userId"`
	FirstName         string      `gorm:"size:100;not null" json:"firstName"`
	LastName          string      `gorm:"size:100;not null" json:"lastName"`
	Mobile            string      `gorm:"size:30;not null" json:"mobile"`
	Email             string      `gorm:"size:255;not null" json:"email"`
	State             string      `gorm:"size:100;not null" json:"state"`
	City              string      `gorm:"size:100;not null" json:"city"`
	Coauthors         string      `gorm:"size:500" json:"coauthors"`
	Org               string      `gorm:"size:200;not null" json:"org"`
	Title             string      `gorm:"size:300;not null" json:"title"`
	GrantDate         time.Time   `gorm:"not null" json:"grantDate"`
	FilingDate        time.Time   `gorm:"not null" json:"filingDate"`
	PatentNumber      string      `gorm:"size:100;uniqueIndex;not null" json:"patentNumber"`
	ApplicationNumber string      `gorm:"size:100;uniqueIndex;not null" json:"applicationNumber"`
	Abstract          string      `gorm:"type:text;not null" json:"abstract"`
	Sector            string      `gorm:"size:100;not null;index" json:"sector"`
	UsedTech          string      `gorm:"size:100;not null;index" json:"usedTech"`
	PDF               string      `gorm:"column:pdf;size:500;not null" json:"pdf"`
	PatentImages      StringArray `gorm:"type:json" json:"patentImages"`
	ListedAt          time.Time   `gorm:"index" json:"listedAt"`
	Verified          bool        `gorm:"default:false" json:"verified"`
	TransactionType   string      `gorm:"size:20;default:available;index" json:"transactionType"`
	PatentType        string      `gorm:"size:50;default:Utility;index" json:"patentType"`
	CreatedAt         time.Time   `json:"createdAt"`
	UpdatedAt         time.Time   `json:"updatedAt"`
}

func (Patent) TableName() string {
	return "patents"
}

// Snapshot copies the fields interaction records keep about a patent.
func (p *Patent) Snapshot() PatentSnapshot {
	return PatentSnapshot{
		PatentID:          p.PatentID,
		Title:             p.Title,
		PatentNumber:      p.PatentNumber,
		ApplicationNumber: p.ApplicationNumber,
		Abstract:          p.Abstract,
		UsedTech:          p.UsedTech,
		Sector:            p.Sector,
	}
}

// ObjectURLs returns every stored file URL of the listing.
func (p *Patent) ObjectURLs() []string {
	urls := make([]string, 0, len(p.PatentImages)+1)
	if p.PDF != "" {
		urls = append(urls, p.PDF)
	}
	return append(urls, p.PatentImages...)
}
