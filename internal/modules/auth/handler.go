package auth

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/SmirnovaT/Auth-sprint-2/internal/middleware"
	"github.com/SmirnovaT/Auth-sprint-2/internal/pkg/response"
	"github.com/SmirnovaT/Auth-sprint-2/internal/token"
)

const RefreshTokenCookie = "refresh_token"

// Handler owns the HTTP surface of the session manager. Tokens travel in a
// pair of httpOnly cookies; bodies carry only status envelopes and entities.
type Handler struct {
	service      *Service
	codec        middleware.TokenValidator
	accessTTL    time.Duration
	refreshTTL   time.Duration
	cookieSecure bool
	cookiePath   string
}

func NewHandler(service *Service, codec middleware.TokenValidator, accessTTL, refreshTTL time.Duration, cookieSecure bool, cookiePath string) *Handler {
	return &Handler{
		service:      service,
		codec:        codec,
		accessTTL:    accessTTL,
		refreshTTL:   refreshTTL,
		cookieSecure: cookieSecure,
		cookiePath:   cookiePath,
	}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/login", h.Login)

	user := rg.Group("/user")
	{
		user.POST("/signup", h.Signup)
		user.POST("/refresh", h.Refresh)
		user.PATCH("/change-password", h.ChangeCredentials)
		user.GET("/logout", h.Logout)

		roleOps := user.Group("/")
		roleOps.Use(middleware.RequireRoles(h.codec, "admin"))
		{
			roleOps.PATCH("/:login/roles/:role_id", h.ChangeUserRole)
			roleOps.DELETE("/:login/roles/:role_id", h.RemoveUserRole)
		}
	}
}

func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	pair, err := h.service.Login(c.Request.Context(), req.UserLogin, req.Password, c.Request.UserAgent())
	if err != nil {
		h.respondError(c, err)
		return
	}

	h.setTokenCookies(c, pair)
	response.Success(c, http.StatusOK, gin.H{"message": "Login successful"})
}

func (h *Handler) Signup(c *gin.Context) {
	var req SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	user, err := h.service.Register(c.Request.Context(), req)
	if err != nil {
		h.respondError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"user": user})
}

func (h *Handler) Refresh(c *gin.Context) {
	refresh, err := c.Cookie(RefreshTokenCookie)
	if err != nil || refresh == "" {
		response.Error(c, http.StatusUnauthorized, "NO_REFRESH_TOKEN", "No refresh token in cookies")
		return
	}

	pair, err := h.service.Refresh(c.Request.Context(), refresh)
	if err != nil {
		h.respondError(c, err)
		return
	}

	h.setTokenCookies(c, pair)
	response.Success(c, http.StatusOK, gin.H{"message": "Tokens refreshed"})
}

func (h *Handler) ChangeCredentials(c *gin.Context) {
	var req ChangeCredentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	pair, err := h.service.ChangeCredentials(c.Request.Context(), req)
	if err != nil {
		h.respondError(c, err)
		return
	}

	h.setTokenCookies(c, pair)
	response.Success(c, http.StatusOK, gin.H{"message": "Credentials updated"})
}

func (h *Handler) Logout(c *gin.Context) {
	login := c.Query("login")
	if login == "" {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "login query parameter is required")
		return
	}

	refresh, _ := c.Cookie(RefreshTokenCookie)
	err := h.service.Logout(c.Request.Context(), login, refresh)

	// Cookies are cleared regardless: an invalid refresh token still means
	// this client's session is over.
	h.clearTokenCookies(c)

	if err != nil {
		h.respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "Logged out"})
}

func (h *Handler) ChangeUserRole(c *gin.Context) {
	user, err := h.service.ChangeUserRole(c.Request.Context(), c.Param("login"), c.Param("role_id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"user": user})
}

func (h *Handler) RemoveUserRole(c *gin.Context) {
	if err := h.service.RemoveUserRole(c.Request.Context(), c.Param("login"), c.Param("role_id")); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) setTokenCookies(c *gin.Context, pair *TokenPair) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.AccessTokenCookie, pair.AccessToken, int(h.accessTTL.Seconds()), h.cookiePath, "", h.cookieSecure, true)
	c.SetCookie(RefreshTokenCookie, pair.RefreshToken, int(h.refreshTTL.Seconds()), h.cookiePath, "", h.cookieSecure, true)
}

func (h *Handler) clearTokenCookies(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.AccessTokenCookie, "", -1, h.cookiePath, "", h.cookieSecure, true)
	c.SetCookie(RefreshTokenCookie, "", -1, h.cookiePath, "", h.cookieSecure, true)
}

func (h *Handler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrInvalidCredentials):
		response.Error(c, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Something went wrong. Check login or password")
	case errors.Is(err, ErrSessionMismatch):
		response.Error(c, http.StatusUnauthorized, "SESSION_MISMATCH", "Refresh token does not match the current session")
	case errors.Is(err, token.ErrExpiredToken):
		response.Error(c, http.StatusUnauthorized, "TOKEN_EXPIRED", "Token has expired")
	case errors.Is(err, token.ErrInvalidToken):
		response.Error(c, http.StatusUnauthorized, "INVALID_TOKEN", "Invalid token")
	case errors.Is(err, ErrLoginAlreadyExists):
		response.Error(c, http.StatusConflict, "LOGIN_EXISTS", "This login is already registered")
	case errors.Is(err, ErrRoleNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "User or role not found")
	case errors.Is(err, ErrUserNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "User not found")
	case errors.Is(err, token.ErrEncoding):
		log.Printf("ALARM: token signing failed, check key configuration: %v", err)
		response.Error(c, http.StatusInternalServerError, "ENCODING_ERROR", "Error while JWT encoding")
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
	}
}
