package middleware

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SmirnovaT/Auth-sprint-2/internal/token"
)

func guardCodec(t *testing.T, accessTTL time.Duration) *token.Codec {
	t.Helper()

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	privatePEM := pem.EncodeToMemory(&pem.Block{
		Type:  "RSA PRIVATE KEY",
		Bytes: x509.MarshalPKCS1PrivateKey(key),
	})
	publicDER, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	require.NoError(t, err)
	publicPEM := pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: publicDER})

	codec, err := token.New(privatePEM, publicPEM, accessTTL, 240*time.Hour)
	require.NoError(t, err)
	return codec
}

func guardedRouter(codec TokenValidator, roles ...string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/protected", RequireRoles(codec, roles...), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"login": c.GetString(CtxUserLogin), "role": c.GetString(CtxUserRole)})
	})
	return router
}

func doGet(router *gin.Engine, accessToken string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if accessToken != "" {
		req.AddCookie(&http.Cookie{Name: AccessTokenCookie, Value: accessToken})
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestRequireRoles_AllowsMatchingRole(t *testing.T) {
	codec := guardCodec(t, 15*time.Minute)
	access, _, err := codec.Issue("boss", "admin")
	require.NoError(t, err)

	rec := doGet(guardedRouter(codec, "admin"), access)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"login":"boss"`)
	assert.Contains(t, rec.Body.String(), `"role":"admin"`)
}

func TestRequireRoles_MissingCookie(t *testing.T) {
	codec := guardCodec(t, 15*time.Minute)

	rec := doGet(guardedRouter(codec, "admin"), "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "NO_ACCESS_TOKEN")
}

func TestRequireRoles_GarbageToken(t *testing.T) {
	codec := guardCodec(t, 15*time.Minute)

	rec := doGet(guardedRouter(codec, "admin"), "not-a-jwt")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "INVALID_TOKEN")
}

func TestRequireRoles_ExpiredToken(t *testing.T) {
	codec := guardCodec(t, -time.Minute)
	access, _, err := codec.Issue("boss", "admin")
	require.NoError(t, err)

	rec := doGet(guardedRouter(codec, "admin"), access)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Token has expired")
}

func TestRequireRoles_WrongRole(t *testing.T) {
	codec := guardCodec(t, 15*time.Minute)
	access, _, err := codec.Issue("viewer", "general")
	require.NoError(t, err)

	rec := doGet(guardedRouter(codec, "admin"), access)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "FORBIDDEN")
}

func TestRequireRoles_MultipleAllowedRoles(t *testing.T) {
	codec := guardCodec(t, 15*time.Minute)
	access, _, err := codec.Issue("member", "subscriber")
	require.NoError(t, err)

	rec := doGet(guardedRouter(codec, "subscriber", "admin"), access)
	assert.Equal(t, http.StatusOK, rec.Code)
}
