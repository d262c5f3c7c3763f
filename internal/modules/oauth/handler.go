package oauth

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/SmirnovaT/Auth-sprint-2/internal/middleware"
	"github.com/SmirnovaT/Auth-sprint-2/internal/modules/auth"
	"github.com/SmirnovaT/Auth-sprint-2/internal/pkg/response"
)

const stateCookie = "oauth_state"

type Handler struct {
	service      *Service
	accessTTL    time.Duration
	refreshTTL   time.Duration
	cookieSecure bool
	cookiePath   string
}

func NewHandler(service *Service, accessTTL, refreshTTL time.Duration, cookieSecure bool, cookiePath string) *Handler {
	return &Handler{
		service:      service,
		accessTTL:    accessTTL,
		refreshTTL:   refreshTTL,
		cookieSecure: cookieSecure,
		cookiePath:   cookiePath,
	}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/login/oauth/:provider", h.Start)
	rg.GET("/login/oauth/:provider/redirect", h.Callback)
}

// Start sends the client to the provider's consent page, pinning a one-shot
// state value in a cookie for the callback to check.
func (h *Handler) Start(c *gin.Context) {
	state, err := randomState()
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
		return
	}

	target, err := h.service.AuthorizeURL(c.Param("provider"), state)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(stateCookie, state, int((10 * time.Minute).Seconds()), h.cookiePath, "", h.cookieSecure, true)
	c.Redirect(http.StatusPermanentRedirect, target)
}

// Callback completes the flow: state check, code exchange, local session.
func (h *Handler) Callback(c *gin.Context) {
	code := c.Query("code")
	if code == "" {
		response.Error(c, http.StatusBadRequest, "INVALID_REQUEST", "Query parameter 'code' is required")
		return
	}

	expected, err := c.Cookie(stateCookie)
	if err != nil || expected == "" || c.Query("state") != expected {
		response.Error(c, http.StatusBadRequest, "INVALID_STATE", "OAuth state mismatch")
		return
	}
	c.SetCookie(stateCookie, "", -1, h.cookiePath, "", h.cookieSecure, true)

	pair, err := h.service.Authenticate(c.Request.Context(), c.Param("provider"), code, c.Request.UserAgent())
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.AccessTokenCookie, pair.AccessToken, int(h.accessTTL.Seconds()), h.cookiePath, "", h.cookieSecure, true)
	c.SetCookie(auth.RefreshTokenCookie, pair.RefreshToken, int(h.refreshTTL.Seconds()), h.cookiePath, "", h.cookieSecure, true)
	response.Success(c, http.StatusOK, pair)
}

func randomState() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

func (h *Handler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrUnknownProvider):
		response.Error(c, http.StatusNotFound, "UNKNOWN_PROVIDER", "Unsupported OAuth provider")
	case errors.Is(err, ErrExchangeFailed):
		response.Error(c, http.StatusBadGateway, "OAUTH_EXCHANGE_FAILED", "Could not verify the authorization code with the provider")
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
	}
}
