package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Response 统一响应结构，Error 恒为 Success 取反
type Response struct {
	Status  int         `json:"status"`
	Success bool        `json:"success"`
	Error   bool        `json:"error"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
}

var statusMessages = map[int]string{
	http.StatusOK:                    "success",
	http.StatusCreated:               "created",
	http.StatusBadRequest:            "Invalid request",
	http.StatusUnauthorized:          "Unauthorized",
	http.StatusForbidden:             "Forbidden",
	http.StatusNotFound:              "Not found",
	http.StatusConflict:              "Already exists",
	http.StatusRequestEntityTooLarge: "Payload too large",
	http.StatusTooManyRequests:       "Too many requests, please try again later.",
	http.StatusInternalServerError:   "Internal server error",
}

func write(c *gin.Context, status int, message string, data interface{}) {
	if message == "" {
		message = statusMessages[status]
	}
	ok := status < http.StatusBadRequest
	c.JSON(status, Response{
		Status:  status,
		Success: ok,
		Error:   !ok,
		Message: message,
		Data:    data,
	})
}

// Success 成功响应
func Success(c *gin.Context, message string, data interface{}) {
	write(c, http.StatusOK, message, data)
}

// Created 创建成功响应
func Created(c *gin.Context, message string, data interface{}) {
	write(c, http.StatusCreated, message, data)
}

// Error 错误响应
func Error(c *gin.Context, status int, message string) {
	write(c, status, message, nil)
}

// Abort 中间件用的错误响应，并中断后续处理
func Abort(c *gin.Context, status int, message string) {
	write(c, status, message, nil)
	c.Abort()
}

// ParamError 参数错误
func ParamError(c *gin.Context, message string) {
	Error(c, http.StatusBadRequest, message)
}

// AuthError 认证错误
func AuthError(c *gin.Context, message string) {
	Error(c, http.StatusUnauthorized, message)
}

// PermissionError 权限错误
func PermissionError(c *gin.Context, message string) {
	Error(c, http.StatusForbidden, message)
}

// NotFoundError 资源不存在
func NotFoundError(c *gin.Context, message string) {
	Error(c, http.StatusNotFound, message)
}

// DuplicateError 资源已存在
func DuplicateError(c *gin.Context, message string) {
	Error(c, http.StatusConflict, message)
}

// ServerError 服务器错误（不返回底层错误信息，由调用方记录日志）
func ServerError(c *gin.Context, message string) {
	Error(c, http.StatusInternalServerError, message)
}
