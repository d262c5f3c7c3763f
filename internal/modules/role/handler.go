package role

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SmirnovaT/Auth-sprint-2/internal/middleware"
	"github.com/SmirnovaT/Auth-sprint-2/internal/pkg/response"
)

type Handler struct {
	service *Service
	codec   middleware.TokenValidator
}

func NewHandler(service *Service, codec middleware.TokenValidator) *Handler {
	return &Handler{service: service, codec: codec}
}

// RegisterRoutes mounts the role CRUD surface. Every route is admin-only.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	roles := rg.Group("/role")
	roles.Use(middleware.RequireRoles(h.codec, "admin"))
	{
		roles.GET("", h.List)
		roles.POST("", h.Create)
		roles.PATCH("/:name", h.Rename)
		roles.DELETE("", h.Delete)
	}
}

type createRoleRequest struct {
	Name string `json:"name" binding:"required"`
}

type renameRoleRequest struct {
	Name string `json:"name" binding:"required"`
}

func (h *Handler) List(c *gin.Context) {
	roles, err := h.service.List(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, roles)
}

func (h *Handler) Create(c *gin.Context) {
	var req createRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	role, err := h.service.Create(c.Request.Context(), req.Name)
	if err != nil {
		h.respondError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, role)
}

func (h *Handler) Rename(c *gin.Context) {
	var req renameRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	role, err := h.service.Rename(c.Request.Context(), c.Param("name"), req.Name)
	if err != nil {
		h.respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, role)
}

func (h *Handler) Delete(c *gin.Context) {
	name := c.Query("name")
	if name == "" {
		response.Error(c, http.StatusBadRequest, "INVALID_REQUEST", "Query parameter 'name' is required")
		return
	}

	if err := h.service.Delete(c.Request.Context(), name); err != nil {
		h.respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": name})
}

func (h *Handler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrRoleExists):
		response.Error(c, http.StatusConflict, "ROLE_EXISTS", "Role with this name already exists")
	case errors.Is(err, ErrRoleNotFound):
		response.Error(c, http.StatusNotFound, "ROLE_NOT_FOUND", "Role not found")
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
	}
}
