package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/squirrelip/squirrel_server/internal/model/dto"
	"github.com/squirrelip/squirrel_server/internal/pkg/response"
	"github.com/squirrelip/squirrel_server/internal/service"
)

type EmailHandler struct {
	notificationService *service.NotificationService
}

func NewEmailHandler(notificationService *service.NotificationService) *EmailHandler {
	return &EmailHandler{
		notificationService: notificationService,
	}
}

// Send renders a built-in template to one recipient.
// POST /api/email
func (h *EmailHandler) Send(c *gin.Context) {
	var req dto.SendEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	delivery, err := h.notificationService.SendTemplate(c.Request.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidEmailAddress),
			errors.Is(err, service.ErrInvalidTemplate):
			response.ParamError(c, err.Error())
		default:
			internalError(c, "Failed to send email", err)
		}
		return
	}

	response.Success(c, "Email sent successfully", dto.SendEmailResponse{Delivery: delivery})
}
