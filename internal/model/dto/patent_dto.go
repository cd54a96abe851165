package dto

import "github.com/squirrelip/squirrel_server/internal/model"

// PatentFields are the listing attributes shared by the multipart and JSON
// create routes. Dates accept YYYY-MM-DD or RFC 3339.
type PatentFields struct {
	FirstName         string `json:"firstName" form:"firstName" binding:"required,max=100"`
	LastName          string `json:"lastName" form:"lastName" binding:"required,max=100"`
	Mobile            string `json:"mobile" form:"mobile" binding:"required,max=30"`
	Email             string `json:"email" form:"email" binding:"required,email"`
	State             string `json:"state" form:"state" binding:"required,max=100"`
	City              string `json:"city" form:"city" binding:"required,max=100"`
	Coauthors         string `json:"coauthors" form:"coauthors" binding:"omitempty,max=500"`
	Org               string `json:"org" form:"org" binding:"required,max=200"`
	Title             string `json:"title" form:"title" binding:"required,max=300"`
	GrantDate         string `json:"grantDate" form:"grantDate" binding:"required"`
	FilingDate        string `json:"filingDate" form:"filingDate" binding:"required"`
	PatentNumber      string `json:"patentNumber" form:"patentNumber" binding:"required,max=100"`
	ApplicationNumber string `json:"applicationNumber" form:"applicationNumber" binding:"required,max=100"`
	Abstract          string `json:"abstract" form:"abstract" binding:"required"`
	Sector            string `json:"sector" form:"sector" binding:"required,max=100"`
	UsedTech          string `json:"usedTech" form:"usedTech" binding:"required,max=100"`
	TransactionType   string `json:"transactionType" form:"transactionType" binding:"omitempty,max=20"`
	PatentType        string `json:"patentType" form:"patentType" binding:"omitempty,max=50"`
}

// AddPatentRequest creates a listing whose files were uploaded beforehand.
type AddPatentRequest struct {
	PatentFields
	PDF          string   `json:"pdf" binding:"required,url"`
	PatentImages []string `json:"patentImages" binding:"required,min=1,dive,url"`
}

// SearchPatentsQuery every filter is optional
type SearchPatentsQuery struct {
	SearchText      string `form:"searchText"`
	Sector          string `form:"sector"`
	UsedTech        string `form:"usedTech"`
	TransactionType string `form:"transactionType"`
	PatentType      string `form:"patentType"`
	ListingDate     string `form:"listingDate"`
}

// PatentIDsRequest body of get-patents-by-ids
type PatentIDsRequest struct {
	PatentIDs []string `json:"patentIds"`
}

// PatentWithOwnership flags listings that belong to the caller.
type PatentWithOwnership struct {
	*model.Patent
	UserOwnPatent bool `json:"userOwnPatent"`
}

// UploadedFile is a form file already read into memory.
type UploadedFile struct {
	Filename    string
	ContentType string
	Data        []byte
}
