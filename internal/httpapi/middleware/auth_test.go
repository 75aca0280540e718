package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"reviewhub/internal/httpapi/access"
)

func levelSetter(level access.Level) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(ctxLevelKey, level)
		c.Next()
	}
}

func TestRequirePolicy(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name       string
		method     string
		level      access.Level
		policy     access.Policy
		wantStatus int
	}{
		{"anonymous read on reference data", http.MethodGet, access.Anonymous, access.AdminOrReadOnly, http.StatusOK},
		{"anonymous write on reference data", http.MethodPost, access.Anonymous, access.AdminOrReadOnly, http.StatusUnauthorized},
		{"user write on reference data", http.MethodPost, access.Authenticated, access.AdminOrReadOnly, http.StatusForbidden},
		{"moderator write on reference data", http.MethodPost, access.Moderator, access.AdminOrReadOnly, http.StatusForbidden},
		{"admin write on reference data", http.MethodPost, access.Admin, access.AdminOrReadOnly, http.StatusOK},
		{"user read on admin-only", http.MethodGet, access.Authenticated, access.AdminOnly, http.StatusForbidden},
		{"anonymous read on admin-only", http.MethodGet, access.Anonymous, access.AdminOnly, http.StatusUnauthorized},
		{"user write on content", http.MethodPost, access.Authenticated, access.AuthenticatedOrReadOnly, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := gin.New()
			handle := func(c *gin.Context) { c.Status(http.StatusOK) }
			router.Use(levelSetter(tt.level), RequirePolicy(tt.policy))
			router.GET("/x", handle)
			router.POST("/x", handle)

			req := httptest.NewRequest(tt.method, "/x", nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}

func TestCurrentLevelDefaultsToAnonymous(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	assert.Equal(t, access.Anonymous, CurrentLevel(c))

	_, ok := CurrentUser(c)
	assert.False(t, ok)
}

func TestRateLimiter(t *testing.T) {
	gin.SetMode(gin.TestMode)

	limiter := NewRateLimiter(1, 2)
	router := gin.New()
	router.Use(limiter.Middleware())
	router.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	// burst of 2 passes, the third is throttled
	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
}
