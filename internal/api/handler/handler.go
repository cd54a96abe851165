package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/squirrelip/squirrel_server/internal/api/middleware"
	"github.com/squirrelip/squirrel_server/internal/pkg/response"
)

// internalError records err on the context for the request logger and
// answers with a generic 500.
func internalError(c *gin.Context, message string, err error) {
	_ = c.Error(err)
	response.ServerError(c, message)
}

// requireUser returns the authenticated user id or writes a 401.
func requireUser(c *gin.Context) (string, bool) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
	}
	return userID, ok
}
