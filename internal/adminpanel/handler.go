package adminpanel

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/SmirnovaT/Auth-sprint-2/internal/middleware"
	"github.com/SmirnovaT/Auth-sprint-2/internal/pkg/response"
	"github.com/SmirnovaT/Auth-sprint-2/pkg/authclient"
)

// Handler is the admin panel surface. It owns no credentials: logins are
// delegated to the auth service, and every request is authorized by the
// access token cookie alone.
type Handler struct {
	content      *ContentRepository
	auth         *authclient.Client
	codec        middleware.TokenValidator
	accessTTL    time.Duration
	refreshTTL   time.Duration
	cookieSecure bool
	cookiePath   string
}

func NewHandler(
	content *ContentRepository,
	auth *authclient.Client,
	codec middleware.TokenValidator,
	accessTTL, refreshTTL time.Duration,
	cookieSecure bool,
	cookiePath string,
) *Handler {
	return &Handler{
		content:      content,
		auth:         auth,
		codec:        codec,
		accessTTL:    accessTTL,
		refreshTTL:   refreshTTL,
		cookieSecure: cookieSecure,
		cookiePath:   cookiePath,
	}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/login", h.Login)

	anyRole := middleware.RequireRoles(h.codec, "admin", "general", "subscriber")
	adminOnly := middleware.RequireRoles(h.codec, "admin")

	movies := rg.Group("/movies")
	{
		movies.GET("", anyRole, h.ListFilmworks)
		movies.GET("/:id", anyRole, h.GetFilmwork)
		movies.POST("", adminOnly, h.CreateFilmwork)
		movies.PUT("/:id", adminOnly, h.UpdateFilmwork)
		movies.DELETE("/:id", adminOnly, h.DeleteFilmwork)
	}
	genres := rg.Group("/genres")
	{
		genres.GET("", anyRole, h.ListGenres)
		genres.POST("", adminOnly, h.CreateGenre)
		genres.DELETE("/:id", adminOnly, h.DeleteGenre)
	}
}

type loginRequest struct {
	UserLogin string `json:"user_login" binding:"required"`
	Password  string `json:"password" binding:"required"`
}

// Login forwards the credentials to the auth service and replays its token
// cookies on this host so the panel can authorize subsequent requests.
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	pair, err := h.auth.Login(c.Request.Context(), req.UserLogin, req.Password)
	if err != nil {
		if errors.Is(err, authclient.ErrUnauthorized) {
			response.Error(c, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Something went wrong. Check login or password")
			return
		}
		response.Error(c, http.StatusBadGateway, "AUTH_UNAVAILABLE", "Auth service is unavailable")
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.AccessTokenCookie, pair.AccessToken, int(h.accessTTL.Seconds()), h.cookiePath, "", h.cookieSecure, true)
	c.SetCookie("refresh_token", pair.RefreshToken, int(h.refreshTTL.Seconds()), h.cookiePath, "", h.cookieSecure, true)
	response.Success(c, http.StatusOK, gin.H{"logged_in": req.UserLogin})
}

func (h *Handler) ListFilmworks(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	size, _ := strconv.Atoi(c.DefaultQuery("size", "20"))
	if page < 1 {
		page = 1
	}
	if size < 1 || size > 100 {
		size = 20
	}

	films, total, err := h.content.ListFilmworks(c.Request.Context(), page, size)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"items": films, "total": total, "page": page, "size": size})
}

func (h *Handler) GetFilmwork(c *gin.Context) {
	film, err := h.content.GetFilmwork(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, film)
}

type filmworkRequest struct {
	Title        string     `json:"title" binding:"required"`
	Description  string     `json:"description"`
	CreationDate *time.Time `json:"creation_date"`
	Rating       float64    `json:"rating" binding:"omitempty,gte=0,lte=10"`
	Type         string     `json:"type" binding:"required,oneof=movie tv_show"`
	GenreIDs     []string   `json:"genre_ids"`
}

func (h *Handler) CreateFilmwork(c *gin.Context) {
	var req filmworkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	film := &Filmwork{
		Title:        req.Title,
		Description:  req.Description,
		CreationDate: req.CreationDate,
		Rating:       req.Rating,
		Type:         req.Type,
	}
	for _, id := range req.GenreIDs {
		film.Genres = append(film.Genres, Genre{ID: id})
	}

	if err := h.content.CreateFilmwork(c.Request.Context(), film); err != nil {
		h.respondError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, film)
}

func (h *Handler) UpdateFilmwork(c *gin.Context) {
	var req filmworkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	film, err := h.content.GetFilmwork(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	film.Title = req.Title
	film.Description = req.Description
	film.CreationDate = req.CreationDate
	film.Rating = req.Rating
	film.Type = req.Type

	if err := h.content.UpdateFilmwork(c.Request.Context(), film); err != nil {
		h.respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, film)
}

func (h *Handler) DeleteFilmwork(c *gin.Context) {
	if err := h.content.DeleteFilmwork(c.Request.Context(), c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": c.Param("id")})
}

func (h *Handler) ListGenres(c *gin.Context) {
	genres, err := h.content.ListGenres(c.Request.Context())
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
		return
	}
	response.Success(c, http.StatusOK, genres)
}

type genreRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

func (h *Handler) CreateGenre(c *gin.Context) {
	var req genreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	genre := &Genre{Name: req.Name, Description: req.Description}
	if err := h.content.CreateGenre(c.Request.Context(), genre); err != nil {
		h.respondError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, genre)
}

func (h *Handler) DeleteGenre(c *gin.Context) {
	if err := h.content.DeleteGenre(c.Request.Context(), c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": c.Param("id")})
}

func (h *Handler) respondError(c *gin.Context, err error) {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Record not found")
		return
	}
	response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
}
