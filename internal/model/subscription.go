package model

import (
	"time"
)

// Subscription is a contact request left on the landing page.
type Subscription struct {
	ID        int64     `gorm:"primaryKey" json:"id"`
	FirstName string    `gorm:"column:firstname;size:100;not null" json:"firstname"`
	LastName  string    `gorm:"column:lastname;size:100;not null" json:"lastname"`
	OrgName   string    `gorm:"column:orgname;size:200;not null" json:"orgname"`
	Mobile    string    `gorm:"size:30;not null" json:"mobile"`
	Message   string    `gorm:"type:text;not null" json:"message"`
	Email     string    `gorm:"size:255;uniqueIndex;not null" json:"email"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Subscription) TableName() string {
	return "subscriptions"
}
