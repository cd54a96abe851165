package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/squirrelip/squirrel_server/config"
	"github.com/squirrelip/squirrel_server/internal/model/dto"
	"github.com/squirrelip/squirrel_server/internal/pkg/response"
	"github.com/squirrelip/squirrel_server/internal/service"
)

type UserHandler struct {
	userService *service.UserService
	jwtCfg      *config.JWTConfig
}

func NewUserHandler(userService *service.UserService, jwtCfg *config.JWTConfig) *UserHandler {
	return &UserHandler{
		userService: userService,
		jwtCfg:      jwtCfg,
	}
}

// UpdateProfile
// PUT /api/profile/update
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var req dto.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	user, err := h.userService.UpdateProfile(userID, &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNothingToUpdate):
			response.ParamError(c, err.Error())
		case errors.Is(err, service.ErrUserNotFound):
			response.NotFoundError(c, err.Error())
		case errors.Is(err, service.ErrEmailExists):
			response.DuplicateError(c, err.Error())
		default:
			internalError(c, "Update failed", err)
		}
		return
	}

	response.Success(c, "User updated successfully", user)
}

// DeleteUser removes the account with its listings and interactions, then
// ends the session.
// DELETE /api/profile/delete-user
func (h *UserHandler) DeleteUser(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	if err := h.userService.DeleteAccount(userID); err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			response.NotFoundError(c, err.Error())
		default:
			internalError(c, "Failed to delete user", err)
		}
		return
	}

	clearSessionCookie(c, h.jwtCfg)
	response.Success(c, "User deleted successfully", nil)
}
