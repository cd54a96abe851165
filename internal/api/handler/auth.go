package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/squirrelip/squirrel_server/config"
	"github.com/squirrelip/squirrel_server/internal/model/dto"
	"github.com/squirrelip/squirrel_server/internal/pkg/response"
	"github.com/squirrelip/squirrel_server/internal/service"
)

type AuthHandler struct {
	authService *service.AuthService
	cfg         *config.JWTConfig
}

func NewAuthHandler(authService *service.AuthService, cfg *config.JWTConfig) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		cfg:         cfg,
	}
}

// Register creates an account and signs the caller in.
// POST /api/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	resp, err := h.authService.Register(c.Request.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmailExists):
			response.DuplicateError(c, err.Error())
		default:
			internalError(c, "Registration failed", err)
		}
		return
	}

	h.setSessionCookie(c, resp.Token)
	response.Created(c, "User registered successfully", resp)
}

// Login
// POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	resp, err := h.authService.Login(&req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCredentials):
			response.AuthError(c, err.Error())
		default:
			internalError(c, "Login failed", err)
		}
		return
	}

	h.setSessionCookie(c, resp.Token)
	response.Success(c, "Login successful", resp)
}

// AutoLogin resolves the session cookie to its user.
// GET /api/auth/auto-login
func (h *AuthHandler) AutoLogin(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	user, err := h.authService.CurrentUser(userID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			response.NotFoundError(c, err.Error())
		default:
			internalError(c, "", err)
		}
		return
	}

	response.Success(c, "Auto-login successful", dto.LoginResponse{User: user})
}

// Logout
// POST /api/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	clearSessionCookie(c, h.cfg)
	response.Success(c, "Logged out successfully", nil)
}

func (h *AuthHandler) setSessionCookie(c *gin.Context, token string) {
	c.SetSameSite(sameSite(h.cfg))
	c.SetCookie(cookieName(h.cfg), token, h.cfg.ExpireHours*3600, "/", "", h.cfg.CookieSecure, true)
}

func clearSessionCookie(c *gin.Context, cfg *config.JWTConfig) {
	c.SetSameSite(sameSite(cfg))
	c.SetCookie(cookieName(cfg), "", -1, "/", "", cfg.CookieSecure, true)
}

// sameSite allows the cookie on cross-site requests only over TLS.
func sameSite(cfg *config.JWTConfig) http.SameSite {
	if cfg.CookieSecure {
		return http.SameSiteNoneMode
	}
	return http.SameSiteLaxMode
}

func cookieName(cfg *config.JWTConfig) string {
	if cfg.CookieName == "" {
		return "token"
	}
	return cfg.CookieName
}
