package handler

import (
	"errors"
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/squirrelip/squirrel_server/internal/model"
	"github.com/squirrelip/squirrel_server/internal/model/dto"
	"github.com/squirrelip/squirrel_server/internal/pkg/response"
	"github.com/squirrelip/squirrel_server/internal/service"
)

var doerMessages = map[model.InteractionKind]string{
	model.KindWishlist:   "Wishlisted patent IDs fetched successfully",
	model.KindEnquiry:    "Enquired patent IDs fetched successfully",
	model.KindImpression: "Impression patent IDs fetched successfully",
}

var receivedMessages = map[model.InteractionKind]string{
	model.KindWishlist:   "Patents wishlisted by other users retrieved successfully",
	model.KindEnquiry:    "Patents enquired by other users retrieved successfully",
	model.KindImpression: "Patents viewed by other users retrieved successfully",
}

type InteractionHandler struct {
	interactionService *service.InteractionService
}

func NewInteractionHandler(interactionService *service.InteractionService) *InteractionHandler {
	return &InteractionHandler{
		interactionService: interactionService,
	}
}

// Toggle returns the handler for POST /api/interaction/<kind>.
func (h *InteractionHandler) Toggle(kind model.InteractionKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := requireUser(c)
		if !ok {
			return
		}

		var req dto.ToggleInteractionRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			response.ParamError(c, err.Error())
			return
		}

		result, err := h.interactionService.Toggle(c.Request.Context(), userID, kind, &req)
		if err != nil {
			switch {
			case errors.Is(err, service.ErrInvalidInteractionKind),
				errors.Is(err, service.ErrMissingInteractionData),
				errors.Is(err, service.ErrSelfInteraction):
				response.ParamError(c, err.Error())
			case errors.Is(err, service.ErrNotInteractionActor):
				response.PermissionError(c, err.Error())
			default:
				internalError(c, fmt.Sprintf("Failed to process %s entry", kind.Label()), err)
			}
			return
		}

		verb := "removed"
		if result.Interaction.Flag {
			verb = "added"
		}
		// the saved record is the payload; its flag is the state after the toggle
		response.Created(c, fmt.Sprintf("%s %s successfully", kind.Label(), verb), result.Interaction)
	}
}

// Doer returns the handler for GET /api/interaction/<kind>: the caller's own
// active interactions.
func (h *InteractionHandler) Doer(kind model.InteractionKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := requireUser(c)
		if !ok {
			return
		}

		ids, err := h.interactionService.DoerPatentIDs(kind, userID)
		if err != nil {
			internalError(c, fmt.Sprintf("Failed to fetch %s patent IDs", kind.Label()), err)
			return
		}
		response.Success(c, doerMessages[kind], ids)
	}
}

// Received returns the handler for GET /api/interaction/received-<kind>:
// active interactions others made on the caller's patents.
func (h *InteractionHandler) Received(kind model.InteractionKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := requireUser(c)
		if !ok {
			return
		}

		ids, err := h.interactionService.ReceivedPatentIDs(kind, userID)
		if err != nil {
			internalError(c, "Failed to fetch patents by others", err)
			return
		}
		response.Success(c, receivedMessages[kind], ids)
	}
}

// ReceivedSummary
// GET /api/interaction/received-summary
func (h *InteractionHandler) ReceivedSummary(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	summary, err := h.interactionService.ReceivedSummary(c.Request.Context(), userID)
	if err != nil {
		internalError(c, "Failed to fetch patents by others", err)
		return
	}
	response.Success(c, "Received interactions retrieved successfully", summary)
}
