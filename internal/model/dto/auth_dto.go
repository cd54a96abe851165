package dto

import "github.com/squirrelip/squirrel_server/internal/model"

// RegisterRequest account creation payload
type RegisterRequest struct {
	FirstName string `json:"firstName" binding:"required,max=100"`
	LastName  string `json:"lastName" binding:"required,max=100"`
	Email     string `json:"email" binding:"required,email"`
	Mobile    string `json:"mobile" binding:"required,max=30"`
	Country   string `json:"country" binding:"omitempty,max=100"`
	State     string `json:"state" binding:"omitempty,max=100"`
	City      string `json:"city" binding:"required,max=100"`
	Pincode   string `json:"pincode" binding:"required,max=20"`
	Password  string `json:"password" binding:"required,min=6,max=72"`
}

// LoginRequest credential check payload
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse is returned by register, login and auto-login. The token is
// also set as the session cookie.
type LoginResponse struct {
	Token string      `json:"token,omitempty"`
	User  *model.User `json:"user"`
}

// UpdateProfileRequest only touches the fields that are present.
type UpdateProfileRequest struct {
	FirstName   *string `json:"firstName,omitempty" binding:"omitempty,min=1,max=100"`
	LastName    *string `json:"lastName,omitempty" binding:"omitempty,min=1,max=100"`
	Email       *string `json:"email,omitempty" binding:"omitempty,email"`
	Mobile      *string `json:"mobile,omitempty" binding:"omitempty,max=30"`
	Country     *string `json:"country,omitempty" binding:"omitempty,max=100"`
	State       *string `json:"state,omitempty" binding:"omitempty,max=100"`
	City        *string `json:"city,omitempty" binding:"omitempty,max=100"`
	Pincode     *string `json:"pincode,omitempty" binding:"omitempty,max=20"`
	OrgLogo     *string `json:"orgLogo,omitempty" binding:"omitempty,max=500"`
	OrgName     *string `json:"orgName,omitempty" binding:"omitempty,max=200"`
	OrgType     *string `json:"orgType,omitempty" binding:"omitempty,max=100"`
	OrgEmail    *string `json:"orgEmail,omitempty" binding:"omitempty,email"`
	OrgContact  *string `json:"orgContact,omitempty" binding:"omitempty,max=50"`
	JobTitle    *string `json:"jobTitle,omitempty" binding:"omitempty,max=100"`
	OrgLocation *string `json:"orgLocation,omitempty" binding:"omitempty,max=200"`
	Username    *string `json:"username,omitempty" binding:"omitempty,max=100"`
	LinkedIn    *string `json:"linkedIn,omitempty" binding:"omitempty,max=500"`
	Facebook    *string `json:"facebook,omitempty" binding:"omitempty,max=500"`
	Twitter     *string `json:"twitter,omitempty" binding:"omitempty,max=500"`
	Avatar      *string `json:"avatar,omitempty" binding:"omitempty,max=500"`
}
