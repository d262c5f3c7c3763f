package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SmirnovaT/Auth-sprint-2/internal/pkg/response"
	"github.com/SmirnovaT/Auth-sprint-2/internal/token"
)

// Context keys the guard populates for downstream handlers.
const (
	CtxClaims    = "claims"
	CtxUserLogin = "user_login"
	CtxUserRole  = "user_role"
)

const AccessTokenCookie = "access_token"

// TokenValidator is the slice of the token codec the guard needs.
type TokenValidator interface {
	Decode(tokenStr string) (*token.Claims, error)
}

// RequireRoles checks the access token cookie and the role claim embedded in
// it. The role is trusted as issued; storage is never re-queried here, so a
// role change takes effect only when a new token is minted.
func RequireRoles(codec TokenValidator, allowed ...string) gin.HandlerFunc {
	allowedSet := make(map[string]struct{}, len(allowed))
	for _, role := range allowed {
		allowedSet[role] = struct{}{}
	}

	return func(c *gin.Context) {
		accessToken, err := c.Cookie(AccessTokenCookie)
		if err != nil || accessToken == "" {
			response.Error(c, http.StatusUnauthorized, "NO_ACCESS_TOKEN", "No access token in cookies")
			c.Abort()
			return
		}

		claims, err := codec.Decode(accessToken)
		if err != nil {
			message := "Invalid token"
			if errors.Is(err, token.ErrExpiredToken) {
				message = "Token has expired"
			}
			response.Error(c, http.StatusUnauthorized, "INVALID_TOKEN", message)
			c.Abort()
			return
		}

		if _, ok := allowedSet[claims.UserRole]; !ok {
			response.Error(c, http.StatusForbidden, "FORBIDDEN", "Insufficient permissions for this action")
			c.Abort()
			return
		}

		c.Set(CtxClaims, claims)
		c.Set(CtxUserLogin, claims.UserLogin)
		c.Set(CtxUserRole, claims.UserRole)

		c.Next()
	}
}
