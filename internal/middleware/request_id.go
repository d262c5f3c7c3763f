package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SmirnovaT/Auth-sprint-2/internal/pkg/response"
)

const RequestIDHeader = "X-Request-Id"

// RequireRequestID rejects requests without a correlation id. This is a
// transport precondition, checked before any authentication.
func RequireRequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader(RequestIDHeader) == "" {
			response.Error(c, http.StatusBadRequest, "MISSING_REQUEST_ID", "X-Request-Id header is required")
			c.Abort()
			return
		}
		c.Next()
	}
}
