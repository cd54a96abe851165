package dto

import "github.com/squirrelip/squirrel_server/internal/model"

// ToggleInteractionRequest carries the full party and patent snapshot. It is
// stored as sent the first time the triple is seen.
type ToggleInteractionRequest struct {
	From          model.Party          `json:"from" binding:"required"`
	To            model.Party          `json:"to" binding:"required"`
	PatentDetails model.PatentSnapshot `json:"patentDetails" binding:"required"`
}

// ReceivedSummary active patent ids targeting one owner, per kind
type ReceivedSummary struct {
	Wishlist   []string `json:"wishlist"`
	Enquiry    []string `json:"enquiry"`
	Impression []string `json:"impression"`
}
