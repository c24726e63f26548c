package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	apperrors "instaclone/backend/pkg/errors"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type fakeVerifier map[string]uint

func (f fakeVerifier) Authenticate(_ context.Context, token string) (uint, error) {
	if id, ok := f[token]; ok {
		return id, nil
	}
	return 0, apperrors.Unauthorized("invalid token")
}

type fakeStaff map[uint]bool

func (f fakeStaff) IsStaff(_ context.Context, userID uint) (bool, error) {
	staff, ok := f[userID]
	if !ok {
		return false, errors.New("missing")
	}
	return staff, nil
}

func newRouter(handlers ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handlers = append(handlers, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": UserID(c)})
	})
	r.GET("/", handlers...)
	return r
}

func serve(r http.Handler, header string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	r := newRouter(AuthMiddleware(fakeVerifier{"good": 7}))

	tests := []struct {
		name   string
		header string
		status int
	}{
		{name: "valid token", header: "Bearer good", status: http.StatusOK},
		{name: "lowercase scheme", header: "bearer good", status: http.StatusOK},
		{name: "missing header", status: http.StatusUnauthorized},
		{name: "wrong scheme", header: "Basic good", status: http.StatusUnauthorized},
		{name: "empty token", header: "Bearer ", status: http.StatusUnauthorized},
		{name: "unknown token", header: "Bearer bad", status: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(r, tt.header)
			assert.Equal(t, tt.status, w.Code)
			if tt.status == http.StatusOK {
				assert.JSONEq(t, `{"user_id":7}`, w.Body.String())
			}
		})
	}
}

func TestAdminMiddleware(t *testing.T) {
	verifier := fakeVerifier{"admin": 1, "user": 2, "ghost": 3}
	r := newRouter(AuthMiddleware(verifier), AdminMiddleware(fakeStaff{1: true, 2: false}))

	assert.Equal(t, http.StatusOK, serve(r, "Bearer admin").Code)
	assert.Equal(t, http.StatusForbidden, serve(r, "Bearer user").Code)
	assert.Equal(t, http.StatusNotFound, serve(r, "Bearer ghost").Code)
}

func TestRateLimiter(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(2)
	rl.now = func() time.Time { return now }
	r := newRouter(rl.Middleware())

	assert.Equal(t, http.StatusOK, serve(r, "").Code)
	assert.Equal(t, http.StatusOK, serve(r, "").Code)
	assert.Equal(t, http.StatusTooManyRequests, serve(r, "").Code)

	now = now.Add(30 * time.Second)
	assert.Equal(t, http.StatusOK, serve(r, "").Code, "one token refills every 30s")
}

func TestRateLimiter_Cleanup(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(5)
	rl.now = func() time.Time { return now }

	rl.allow("10.0.0.1")
	now = now.Add(time.Hour)
	rl.allow("10.0.0.2")

	rl.Cleanup(10 * time.Minute)
	assert.Len(t, rl.visitors, 1)
	assert.Contains(t, rl.visitors, "10.0.0.2")
}
