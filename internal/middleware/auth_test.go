package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/devitachiui22/kuanda-sub000/internal/domain"
	"github.com/devitachiui22/kuanda-sub000/internal/service"
	apperrors "github.com/devitachiui22/kuanda-sub000/pkg/errors"
	"github.com/devitachiui22/kuanda-sub000/pkg/logger"
)

type fakeAuthService struct {
	user *domain.User
}

func (f *fakeAuthService) Register(ctx context.Context, in service.RegisterInput) (*domain.User, error) {
	return nil, apperrors.ErrBadRequest
}

func (f *fakeAuthService) Login(ctx context.Context, email, password string) (*service.LoginResponse, error) {
	return nil, apperrors.ErrInvalidCredentials
}

func (f *fakeAuthService) RefreshToken(ctx context.Context, refreshToken string) (*service.TokenResponse, error) {
	return nil, apperrors.ErrInvalidToken
}

func (f *fakeAuthService) ValidateToken(ctx context.Context, tokenString string) (*domain.User, error) {
	if f.user != nil && tokenString == "valid-token" {
		return f.user, nil
	}
	return nil, apperrors.ErrInvalidToken
}

func (f *fakeAuthService) Logout(ctx context.Context, refreshToken string) error {
	return nil
}

func newAuthTestRouter(auth *fakeAuthService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	m := NewAuthMiddleware(auth, logger.NewNop())

	r := gin.New()
	r.GET("/api/chat/check", m.RequireAuth(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": c.MustGet("user_id")})
	})
	r.GET("/chat", m.RequireAuth(), func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})
	r.GET("/api/vip/pendentes", m.RequireAuth(), m.RequireRole(domain.RoleAdmin), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{})
	})
	return r
}

func TestRequireAuthBearerToken(t *testing.T) {
	user := &domain.User{ID: uuid.New(), Email: "ana@kuanda.com", Role: domain.RoleVendor}
	r := newAuthTestRouter(&fakeAuthService{user: user})

	req := httptest.NewRequest(http.MethodGet, "/api/chat/check", nil)
	req.Header.Set("Authorization", "Bearer valid-token")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), user.ID.String())
}

func TestRequireAuthCookieToken(t *testing.T) {
	user := &domain.User{ID: uuid.New(), Email: "ana@kuanda.com", Role: domain.RoleCustomer}
	r := newAuthTestRouter(&fakeAuthService{user: user})

	req := httptest.NewRequest(http.MethodGet, "/chat", nil)
	req.AddCookie(&http.Cookie{Name: "access_token", Value: "valid-token"})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequireAuthScriptContextGets401(t *testing.T) {
	r := newAuthTestRouter(&fakeAuthService{})

	// API path, no credentials at all.
	req := httptest.NewRequest(http.MethodGet, "/api/chat/check", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"error":"unauthorized"}`, w.Body.String())
}

func TestRequireAuthXHRGets401(t *testing.T) {
	r := newAuthTestRouter(&fakeAuthService{})

	req := httptest.NewRequest(http.MethodGet, "/chat", nil)
	req.Header.Set("X-Requested-With", "XMLHttpRequest")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireAuthBrowserRedirectsToLogin(t *testing.T) {
	r := newAuthTestRouter(&fakeAuthService{})

	req := httptest.NewRequest(http.MethodGet, "/chat", nil)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))
}

func TestRequireAuthInvalidTokenRejected(t *testing.T) {
	r := newAuthTestRouter(&fakeAuthService{})

	req := httptest.NewRequest(http.MethodGet, "/api/chat/check", nil)
	req.Header.Set("Authorization", "Bearer expired-token")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireRole(t *testing.T) {
	user := &domain.User{ID: uuid.New(), Email: "ana@kuanda.com", Role: domain.RoleVendor}
	r := newAuthTestRouter(&fakeAuthService{user: user})

	req := httptest.NewRequest(http.MethodGet, "/api/vip/pendentes", nil)
	req.Header.Set("Authorization", "Bearer valid-token")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}
