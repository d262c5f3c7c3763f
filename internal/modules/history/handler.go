package history

import (
	"net/http"
	"strconv"

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

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/auth-history/:user_id",
		middleware.RequireRoles(h.codec, "admin"),
		h.List)
}

func (h *Handler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	size, _ := strconv.Atoi(c.DefaultQuery("size", "20"))

	result, err := h.service.List(c.Request.Context(), c.Param("user_id"), page, size)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
		return
	}
	response.Success(c, http.StatusOK, result)
}
