package model

import (
	"time"
)

type User struct {
	ID           int64     `gorm:"primaryKey" json:"-"`
	UserID       string    `gorm:"size:36;uniqueIndex;not null" json:"userId"`
	FirstName    string    `gorm:"size:100;not null" json:"firstName"`
	LastName     string    `gorm:"size:100;not null" json:"lastName"`
	Email        string    `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Mobile       string    `gorm:"size:30;not null" json:"mobile"`
	Country      string    `gorm:"size:100" json:"country"`
	State        string    `gorm:"size:100" json:"state"`
	City         string    `gorm:"size:100;not null" json:"city"`
	Pincode      string    `gorm:"size:20;not null" json:"pincode"`
	PasswordHash string    `gorm:"size:255;not null" json:"-"`
	OrgLogo      string    `gorm:"size:500" json:"orgLogo"`
	OrgName      string    `gorm:"size:200" json:"orgName"`
	OrgType      string    `gorm:"size:100" json:"orgType"`
	OrgEmail     string    `gorm:"size:255" json:"orgEmail"`
	OrgContact   string    `gorm:"size:50" json:"orgContact"`
	JobTitle     string    `gorm:"size:100" json:"jobTitle"`
	OrgLocation  string    `gorm:"size:200" json:"orgLocation"`
	Username     string    `gorm:"size:100" json:"username"`
	LinkedIn     string    `gorm:"column:linkedin;size:500" json:"linkedIn"`
	Facebook     string    `gorm:"size:500" json:"facebook"`
	Twitter      string    `gorm:"size:500" json:"twitter"`
	Avatar       string    `gorm:"size:500" json:"avatar"`
	JoinedAt     time.Time `json:"joinedAt"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func (User) TableName() string {
	return "users"
}

// Party is the denormalized contact card stored on interaction records.
func (u *User) Party() Party {
	return Party{
		UserID:    u.UserID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Mobile:    u.Mobile,
		Email:     u.Email,
	}
}
