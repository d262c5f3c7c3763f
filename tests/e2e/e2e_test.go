package e2e

import (
	"bytes"
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/json"
	"encoding/pem"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/SmirnovaT/Auth-sprint-2/internal/cache"
	"github.com/SmirnovaT/Auth-sprint-2/internal/database"
	"github.com/SmirnovaT/Auth-sprint-2/internal/domain"
	"github.com/SmirnovaT/Auth-sprint-2/internal/middleware"
	"github.com/SmirnovaT/Auth-sprint-2/internal/modules/auth"
	"github.com/SmirnovaT/Auth-sprint-2/internal/modules/history"
	"github.com/SmirnovaT/Auth-sprint-2/internal/modules/role"
	"github.com/SmirnovaT/Auth-sprint-2/internal/repository"
	"github.com/SmirnovaT/Auth-sprint-2/internal/token"
)

type memoryCache struct {
	mu   sync.Mutex
	data map[string]string
}

func (m *memoryCache) Set(_ context.Context, key, value string, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *memoryCache) Get(_ context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	value, ok := m.data[key]
	if !ok {
		return "", cache.ErrNotFound
	}
	return value, nil
}

func (m *memoryCache) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

type testEnv struct {
	router *gin.Engine
	codec  *token.Codec
	users  *repository.UserRepository
	roles  *repository.RoleRepository
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := database.Connect("file:" + uuid.NewString() + "?mode=memory&cache=shared")
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&domain.Role{}, &domain.User{}, &domain.OAuthAccount{}, &domain.AuthHistory{},
	))

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	privatePEM := pem.EncodeToMemory(&pem.Block{
		Type:  "RSA PRIVATE KEY",
		Bytes: x509.MarshalPKCS1PrivateKey(key),
	})
	publicDER, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	require.NoError(t, err)
	publicPEM := pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: publicDER})

	codec, err := token.New(privatePEM, publicPEM, 15*time.Minute, 240*time.Hour)
	require.NoError(t, err)

	users := repository.NewUserRepository(db)
	rolesRepo := repository.NewRoleRepository(db)
	histories := repository.NewAuthHistoryRepository(db)
	sessions := &memoryCache{data: map[string]string{}}

	ctx := context.Background()
	for _, name := range []string{domain.RoleAdmin, domain.RoleGeneral, domain.RoleSubscriber} {
		_, err := rolesRepo.Create(ctx, name)
		require.NoError(t, err)
	}

	historySvc := history.NewService(histories, users)
	authSvc := auth.NewService(users, rolesRepo, codec, sessions, historySvc, domain.RoleGeneral)

	router := gin.New()
	router.Use(middleware.RequireRequestID())
	api := router.Group("/api/v1")
	auth.NewHandler(authSvc, codec, 15*time.Minute, 240*time.Hour, false, "/").RegisterRoutes(api)
	role.NewHandler(role.NewService(rolesRepo), codec).RegisterRoutes(api)
	history.NewHandler(historySvc, codec).RegisterRoutes(api)

	return &testEnv{router: router, codec: codec, users: users, roles: rolesRepo}
}

func (e *testEnv) createUser(t *testing.T, login, password, roleName string) *domain.User {
	t.Helper()
	ctx := context.Background()
	roleID, err := e.roles.IDByName(ctx, roleName)
	require.NoError(t, err)
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)

	user := &domain.User{
		Login:        login,
		Email:        login + "@example.com",
		PasswordHash: string(hash),
		RoleID:       &roleID,
	}
	require.NoError(t, e.users.Create(ctx, user))
	return user
}

func (e *testEnv) do(method, path string, body any, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		raw, _ := json.Marshal(body)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(middleware.RequestIDHeader, uuid.NewString())
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}

	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func findCookie(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == name && cookie.Value != "" {
			return cookie
		}
	}
	return nil
}

func (e *testEnv) login(t *testing.T, login, password string) (*http.Cookie, *http.Cookie) {
	t.Helper()
	rec := e.do(http.MethodPost, "/api/v1/login", gin.H{"user_login": login, "password": password})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	access := findCookie(rec, middleware.AccessTokenCookie)
	refresh := findCookie(rec, auth.RefreshTokenCookie)
	require.NotNil(t, access)
	require.NotNil(t, refresh)
	return access, refresh
}

func TestMissingRequestIDRejected(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/login", bytes.NewReader(nil))
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "MISSING_REQUEST_ID")
}

func TestLoginFlow(t *testing.T) {
	env := newTestEnv(t)
	env.createUser(t, "moviegoer", "secret1", domain.RoleGeneral)

	rec := env.do(http.MethodPost, "/api/v1/login", gin.H{"user_login": "moviegoer", "password": "nope"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "INVALID_CREDENTIALS")

	access, _ := env.login(t, "moviegoer", "secret1")

	claims, err := env.codec.Decode(access.Value)
	require.NoError(t, err)
	assert.Equal(t, "moviegoer", claims.UserLogin)
	assert.Equal(t, domain.RoleGeneral, claims.UserRole)
	assert.Equal(t, token.TypeAccess, claims.TokenType)
}

func TestAdminGuardOnRoles(t *testing.T) {
	env := newTestEnv(t)
	env.createUser(t, "boss", "secret1", domain.RoleAdmin)
	env.createUser(t, "pleb", "secret1", domain.RoleGeneral)

	plebAccess, _ := env.login(t, "pleb", "secret1")
	rec := env.do(http.MethodGet, "/api/v1/role", nil, plebAccess)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	bossAccess, _ := env.login(t, "boss", "secret1")
	rec = env.do(http.MethodGet, "/api/v1/role", nil, bossAccess)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(http.MethodGet, "/api/v1/role", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRefreshRotationAndReuse(t *testing.T) {
	env := newTestEnv(t)
	env.createUser(t, "rotator", "secret1", domain.RoleGeneral)

	_, refresh := env.login(t, "rotator", "secret1")

	rec := env.do(http.MethodPost, "/api/v1/user/refresh", nil, refresh)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	rotated := findCookie(rec, auth.RefreshTokenCookie)
	require.NotNil(t, rotated)
	assert.NotEqual(t, refresh.Value, rotated.Value)

	// The superseded token is still a valid JWT but no longer the live one.
	rec = env.do(http.MethodPost, "/api/v1/user/refresh", nil, refresh)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "SESSION_MISMATCH")

	rec = env.do(http.MethodPost, "/api/v1/user/refresh", nil, rotated)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRefreshPicksUpRoleChange(t *testing.T) {
	env := newTestEnv(t)
	env.createUser(t, "boss", "secret1", domain.RoleAdmin)
	env.createUser(t, "upgrader", "secret1", domain.RoleGeneral)

	_, refresh := env.login(t, "upgrader", "secret1")
	bossAccess, _ := env.login(t, "boss", "secret1")

	subscriberID, err := env.roles.IDByName(context.Background(), domain.RoleSubscriber)
	require.NoError(t, err)
	rec := env.do(http.MethodPatch, "/api/v1/user/upgrader/roles/"+subscriberID, nil, bossAccess)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = env.do(http.MethodPost, "/api/v1/user/refresh", nil, refresh)
	require.Equal(t, http.StatusOK, rec.Code)
	access := findCookie(rec, middleware.AccessTokenCookie)
	require.NotNil(t, access)

	claims, err := env.codec.Decode(access.Value)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleSubscriber, claims.UserRole)
}

func TestLogoutInvalidatesSession(t *testing.T) {
	env := newTestEnv(t)
	env.createUser(t, "leaver", "secret1", domain.RoleGeneral)

	access, refresh := env.login(t, "leaver", "secret1")

	rec := env.do(http.MethodGet, "/api/v1/user/logout?login=leaver", nil, access, refresh)
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = env.do(http.MethodPost, "/api/v1/user/refresh", nil, refresh)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestSignupThenLogin(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodPost, "/api/v1/user/signup", gin.H{
		"login":    "newbie",
		"email":    "newbie@example.com",
		"password": "secret1",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	// Duplicate signup conflicts.
	rec = env.do(http.MethodPost, "/api/v1/user/signup", gin.H{
		"login":    "newbie",
		"email":    "other@example.com",
		"password": "secret1",
	})
	assert.Equal(t, http.StatusConflict, rec.Code)

	access, _ := env.login(t, "newbie", "secret1")
	claims, err := env.codec.Decode(access.Value)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleGeneral, claims.UserRole)
}

func TestAuthHistoryVisibleToAdmin(t *testing.T) {
	env := newTestEnv(t)
	env.createUser(t, "boss", "secret1", domain.RoleAdmin)
	watched := env.createUser(t, "watched", "secret1", domain.RoleGeneral)

	env.do(http.MethodPost, "/api/v1/login", gin.H{"user_login": "watched", "password": "wrong"})
	env.login(t, "watched", "secret1")

	bossAccess, _ := env.login(t, "boss", "secret1")
	rec := env.do(http.MethodGet, "/api/v1/auth-history/"+watched.ID, nil, bossAccess)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var body struct {
		Data struct {
			Total int64 `json:"total"`
			Items []struct {
				Success bool `json:"success"`
			} `json:"items"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, int64(2), body.Data.Total)
}
