package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const healthMessage = "Squirrel IP , up and running!"

// Health
// GET /
func Health(c *gin.Context) {
	c.String(http.StatusOK, healthMessage)
}
