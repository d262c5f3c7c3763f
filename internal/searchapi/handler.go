package searchapi

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/SmirnovaT/Auth-sprint-2/internal/middleware"
	"github.com/SmirnovaT/Auth-sprint-2/internal/pkg/response"
)

// Handler exposes the read-only catalog. The whole surface requires a valid
// access token; full film details additionally require a paying role.
type Handler struct {
	service *Service
	codec   middleware.TokenValidator
}

func NewHandler(service *Service, codec middleware.TokenValidator) *Handler {
	return &Handler{service: service, codec: codec}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	anyRole := middleware.RequireRoles(h.codec, "admin", "general", "subscriber")
	paying := middleware.RequireRoles(h.codec, "admin", "subscriber")

	films := rg.Group("/films")
	{
		films.GET("", anyRole, h.SearchFilms)
		films.GET("/search", anyRole, h.SearchFilms)
		films.GET("/:id", paying, h.GetFilm)
	}
	persons := rg.Group("/persons")
	{
		persons.GET("", anyRole, h.SearchPersons)
		persons.GET("/search", anyRole, h.SearchPersons)
		persons.GET("/:id", anyRole, h.GetPerson)
	}
}

func pagination(c *gin.Context) (page, size int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	size, _ = strconv.Atoi(c.DefaultQuery("size", "20"))
	return page, size
}

func (h *Handler) SearchFilms(c *gin.Context) {
	page, size := pagination(c)
	films, err := h.service.SearchFilms(c.Request.Context(), c.Query("query"), page, size)
	if err != nil {
		h.respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, films)
}

func (h *Handler) GetFilm(c *gin.Context) {
	film, err := h.service.GetFilm(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, film)
}

func (h *Handler) SearchPersons(c *gin.Context) {
	page, size := pagination(c)
	persons, err := h.service.SearchPersons(c.Request.Context(), c.Query("query"), page, size)
	if err != nil {
		h.respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, persons)
}

func (h *Handler) GetPerson(c *gin.Context) {
	person, err := h.service.GetPerson(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, person)
}

func (h *Handler) respondError(c *gin.Context, err error) {
	if errors.Is(err, ErrNotFound) {
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Document not found")
		return
	}
	response.Error(c, http.StatusBadGateway, "SEARCH_UNAVAILABLE", "Search backend is unavailable")
}
