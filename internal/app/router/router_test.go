package router

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
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
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	authadapters "skateswap/internal/feature/auth/adapters"
	authhandler "skateswap/internal/feature/auth/transport/handler"
	"skateswap/internal/feature/auth/usecase"
	jwtmw "skateswap/internal/platform/jwt"
)

// inbox records the tokens the service tried to email.
type inbox struct {
	mu     sync.Mutex
	verify map[string]string
	reset  map[string]string
}

func newInbox() *inbox {
	return &inbox{verify: map[string]string{}, reset: map[string]string{}}
}

func (b *inbox) SendVerification(_ context.Context, to, _, token string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.verify[to] = token
	return nil
}

func (b *inbox) SendPasswordReset(_ context.Context, to, _, token string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.reset[to] = token
	return nil
}

type server struct {
	router *gin.Engine
	db     *gorm.DB
	inbox  *inbox
}

func newServer(t *testing.T, policy usecase.VerificationPolicy) *server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, db.AutoMigrate(authadapters.Models()...))

	tokens, err := jwtmw.NewTokenService("router-test-secret")
	require.NoError(t, err)
	store := authadapters.NewCredentialStore(db)
	box := newInbox()

	authUC := usecase.NewAuthUsecase(store, tokens, box, usecase.Options{Policy: policy, BcryptCost: bcrypt.MinCost})
	profileUC := usecase.NewProfileUsecase(store)

	r := NewRouter(Deps{
		Auth:           authhandler.NewAuthHandler(authUC),
		Profile:        authhandler.NewProfileHandler(profileUC),
		Verifier:       tokens,
		DB:             sqlDB,
		AllowedOrigins: []string{"http://localhost:5173"},
	})
	return &server{router: r, db: db, inbox: box}
}

func (s *server) do(t *testing.T, method, path string, body any, bearer string) (int, map[string]any) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	var res map[string]any
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res), "body: %s", w.Body.String())
	}
	return w.Code, res
}

var ann = map[string]any{"username": "ann", "email": "ann@x.com", "password": "secret123"}

func TestRouter_PermissiveRegisterThenLogin(t *testing.T) {
	t.Parallel()
	s := newServer(t, usecase.PolicyPermissive)

	status, body := s.do(t, http.MethodPost, "/auth/register", ann, "")
	require.Equal(t, http.StatusCreated, status, body)
	user := body["user"].(map[string]any)
	assert.Equal(t, true, user["isActive"])
	assert.NotContains(t, user, "password")

	status, body = s.do(t, http.MethodPost, "/auth/login", map[string]any{"email": "ann@x.com", "password": "secret123"}, "")
	require.Equal(t, http.StatusOK, status, body)
	assert.NotEmpty(t, body["token"])
	assert.Equal(t, "ann", body["user"].(map[string]any)["username"])
	assert.NotNil(t, body["user"].(map[string]any)["lastLogin"])
}

func TestRouter_StrictVerificationFlow(t *testing.T) {
	t.Parallel()
	s := newServer(t, usecase.PolicyStrict)

	status, body := s.do(t, http.MethodPost, "/auth/register", ann, "")
	require.Equal(t, http.StatusCreated, status, body)
	assert.Equal(t, false, body["user"].(map[string]any)["isActive"])

	login := map[string]any{"email": "ann@x.com", "password": "secret123"}
	status, body = s.do(t, http.MethodPost, "/auth/login", login, "")
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, body["error"], "verify your email")

	tok := s.inbox.verify["ann@x.com"]
	require.NotEmpty(t, tok)
	status, body = s.do(t, http.MethodGet, "/auth/verify-email/"+tok, nil, "")
	require.Equal(t, http.StatusOK, status, body)
	assert.Equal(t, true, body["success"])

	status, body = s.do(t, http.MethodGet, "/auth/verify-email/"+tok, nil, "")
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, body["error"], "expired or has already been used")

	status, body = s.do(t, http.MethodPost, "/auth/login", login, "")
	require.Equal(t, http.StatusOK, status, body)
	assert.NotEmpty(t, body["token"])
}

func TestRouter_DuplicateRegistration(t *testing.T) {
	t.Parallel()
	s := newServer(t, usecase.PolicyPermissive)

	status, _ := s.do(t, http.MethodPost, "/auth/register", ann, "")
	require.Equal(t, http.StatusCreated, status)

	status, body := s.do(t, http.MethodPost, "/auth/register", ann, "")
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "username is already taken", body["error"])

	other := map[string]any{"username": "bob", "email": "ann@x.com", "password": "secret123"}
	status, body = s.do(t, http.MethodPost, "/auth/register", other, "")
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "email is already registered", body["error"])
}

func TestRouter_PasswordReset(t *testing.T) {
	t.Parallel()
	s := newServer(t, usecase.PolicyPermissive)
	status, _ := s.do(t, http.MethodPost, "/auth/register", ann, "")
	require.Equal(t, http.StatusCreated, status)

	// Known and unknown emails get byte-identical answers.
	knownStatus, known := s.do(t, http.MethodPost, "/auth/forgot-password", map[string]any{"email": "ann@x.com"}, "")
	unknownStatus, unknown := s.do(t, http.MethodPost, "/auth/forgot-password", map[string]any{"email": "nobody@x.com"}, "")
	assert.Equal(t, http.StatusOK, knownStatus)
	assert.Equal(t, knownStatus, unknownStatus)
	assert.Equal(t, known, unknown)

	tok := s.inbox.reset["ann@x.com"]
	require.NotEmpty(t, tok)
	assert.Empty(t, s.inbox.reset["nobody@x.com"])

	status, body := s.do(t, http.MethodPost, "/auth/reset-password", map[string]any{"token": tok, "newPassword": "brand-new-1"}, "")
	require.Equal(t, http.StatusOK, status, body)

	status, body = s.do(t, http.MethodPost, "/auth/reset-password", map[string]any{"token": tok, "newPassword": "brand-new-2"}, "")
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, body["error"], "expired or has already been used")

	status, _ = s.do(t, http.MethodPost, "/auth/login", map[string]any{"email": "ann@x.com", "password": "secret123"}, "")
	assert.Equal(t, http.StatusBadRequest, status)
	status, _ = s.do(t, http.MethodPost, "/auth/login", map[string]any{"email": "ann@x.com", "password": "brand-new-1"}, "")
	assert.Equal(t, http.StatusOK, status)
}

func TestRouter_ExpiredResetTokenKeepsPassword(t *testing.T) {
	t.Parallel()
	s := newServer(t, usecase.PolicyPermissive)
	status, _ := s.do(t, http.MethodPost, "/auth/register", ann, "")
	require.Equal(t, http.StatusCreated, status)
	status, _ = s.do(t, http.MethodPost, "/auth/forgot-password", map[string]any{"email": "ann@x.com"}, "")
	require.Equal(t, http.StatusOK, status)
	tok := s.inbox.reset["ann@x.com"]

	var before authadapters.UserModel
	require.NoError(t, s.db.Where("email = ?", "ann@x.com").First(&before).Error)
	require.NoError(t, s.db.Model(&authadapters.VerificationTokenModel{}).
		Where("token = ?", tok).
		Update("expires_at", time.Now().UTC().Add(-time.Minute)).Error)

	status, body := s.do(t, http.MethodPost, "/auth/reset-password", map[string]any{"token": tok, "newPassword": "brand-new-1"}, "")
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, body["error"], "expired or has already been used")

	var after authadapters.UserModel
	require.NoError(t, s.db.Where("email = ?", "ann@x.com").First(&after).Error)
	assert.Equal(t, before.PasswordHash, after.PasswordHash)
}

func TestRouter_Profile(t *testing.T) {
	t.Parallel()
	s := newServer(t, usecase.PolicyPermissive)
	status, _ := s.do(t, http.MethodPost, "/auth/register", ann, "")
	require.Equal(t, http.StatusCreated, status)
	_, body := s.do(t, http.MethodPost, "/auth/login", map[string]any{"email": "ann@x.com", "password": "secret123"}, "")
	token := body["token"].(string)

	status, body = s.do(t, http.MethodGet, "/auth/profile", nil, "")
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "not authorized, no token", body["error"])

	status, _ = s.do(t, http.MethodGet, "/auth/profile", nil, "not-a-jwt")
	assert.Equal(t, http.StatusUnauthorized, status)

	status, body = s.do(t, http.MethodPost, "/auth/profile", map[string]any{"preferredFoot": "right", "shoeSize": 10.5, "location": "Lyon"}, token)
	require.Equal(t, http.StatusOK, status, body)
	assert.Equal(t, "right", body["user"].(map[string]any)["preferredFoot"])

	status, body = s.do(t, http.MethodGet, "/auth/profile", nil, token)
	require.Equal(t, http.StatusOK, status, body)
	user := body["user"].(map[string]any)
	assert.Equal(t, 10.5, user["shoeSize"])
	assert.Equal(t, "Lyon", user["location"])
	assert.Equal(t, "ann@x.com", user["email"])

	status, body = s.do(t, http.MethodGet, "/users/profile/ann", nil, "")
	require.Equal(t, http.StatusOK, status, body)
	public := body["user"].(map[string]any)
	assert.Equal(t, "right", public["preferredFoot"])
	assert.NotContains(t, public, "email")

	status, _ = s.do(t, http.MethodGet, "/users/profile/ghost", nil, "")
	assert.Equal(t, http.StatusNotFound, status)
}

func TestRouter_Health(t *testing.T) {
	t.Parallel()
	s := newServer(t, usecase.PolicyStrict)

	status, body := s.do(t, http.MethodGet, "/healthz", nil, "")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "ok", body["status"])

	for _, method := range []string{http.MethodHead, http.MethodOptions} {
		req := httptest.NewRequest(method, "/healthz", nil)
		w := httptest.NewRecorder()
		s.router.ServeHTTP(w, req)
		assert.NotEqual(t, http.StatusNotFound, w.Code, method)
		assert.NotEqual(t, http.StatusMethodNotAllowed, w.Code, method)
		assert.Empty(t, w.Body.String(), method)
	}

	req := httptest.NewRequest(http.MethodOptions, "/healthz", nil)
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "no-store", w.Header().Get("Cache-Control"))
}

func TestRouter_CORSPreflight(t *testing.T) {
	t.Parallel()
	s := newServer(t, usecase.PolicyStrict)

	req := httptest.NewRequest(http.MethodOptions, "/auth/login", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestCorsConfig_Wildcard(t *testing.T) {
	t.Parallel()

	cfg := corsConfig([]string{"*"})
	assert.True(t, cfg.AllowAllOrigins)
	assert.False(t, cfg.AllowCredentials)
	assert.Empty(t, cfg.AllowOrigins)
}
