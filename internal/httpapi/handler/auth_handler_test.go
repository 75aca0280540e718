package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"reviewhub/internal/confirmation"
	"reviewhub/internal/httpapi/models"
	"reviewhub/internal/httpapi/service"
	"reviewhub/internal/httpapi/validation"
)

type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Signup(ctx context.Context, username, email string) (*models.User, error) {
	args := m.Called(ctx, username, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockAuthService) IssueToken(ctx context.Context, username, code string) (string, error) {
	args := m.Called(ctx, username, code)
	return args.String(0), args.Error(1)
}

func (m *MockAuthService) ValidateToken(token string) (*service.Claims, error) {
	args := m.Called(token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Claims), args.Error(1)
}

func setupAuthRouter(t *testing.T, svc service.AuthService) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	assert.NoError(t, validation.Register())

	router := gin.New()
	NewAuthHandler(svc).RegisterRoutes(router.Group("/api/v1/auth"))
	return router
}

func postJSON(router *gin.Engine, path string, body any) *httptest.ResponseRecorder {
	payload, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestSignupEndpoint(t *testing.T) {
	t.Run("valid signup", func(t *testing.T) {
		svc := new(MockAuthService)
		router := setupAuthRouter(t, svc)

		svc.On("Signup", mock.Anything, "reader", "reader@example.com").
			Return(&models.User{Username: "reader", Email: "reader@example.com"}, nil)

		w := postJSON(router, "/api/v1/auth/signup", gin.H{
			"username": "reader",
			"email":    "reader@example.com",
		})

		assert.Equal(t, http.StatusOK, w.Code)
		var resp map[string]string
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "reader", resp["username"])
		assert.Equal(t, "reader@example.com", resp["email"])
	})

	t.Run("reserved username me", func(t *testing.T) {
		svc := new(MockAuthService)
		router := setupAuthRouter(t, svc)

		w := postJSON(router, "/api/v1/auth/signup", gin.H{
			"username": "me",
			"email":    "me@example.com",
		})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		svc.AssertNotCalled(t, "Signup", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("malformed email", func(t *testing.T) {
		svc := new(MockAuthService)
		router := setupAuthRouter(t, svc)

		w := postJSON(router, "/api/v1/auth/signup", gin.H{
			"username": "reader",
			"email":    "not-an-email",
		})

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("username conflict", func(t *testing.T) {
		svc := new(MockAuthService)
		router := setupAuthRouter(t, svc)

		svc.On("Signup", mock.Anything, "reader", "other@example.com").
			Return(nil, service.ErrUsernameInUse)

		w := postJSON(router, "/api/v1/auth/signup", gin.H{
			"username": "reader",
			"email":    "other@example.com",
		})

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestTokenEndpoint(t *testing.T) {
	t.Run("valid exchange", func(t *testing.T) {
		svc := new(MockAuthService)
		router := setupAuthRouter(t, svc)

		svc.On("IssueToken", mock.Anything, "reader", "secret-code").Return("a.b.c", nil)

		w := postJSON(router, "/api/v1/auth/token", gin.H{
			"username":          "reader",
			"confirmation_code": "secret-code",
		})

		assert.Equal(t, http.StatusOK, w.Code)
		var resp map[string]string
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "a.b.c", resp["token"])
	})

	t.Run("unknown user gets 404", func(t *testing.T) {
		svc := new(MockAuthService)
		router := setupAuthRouter(t, svc)

		svc.On("IssueToken", mock.Anything, "ghost", "code").Return("", service.ErrUserNotFound)

		w := postJSON(router, "/api/v1/auth/token", gin.H{
			"username":          "ghost",
			"confirmation_code": "code",
		})

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("wrong code gets 400", func(t *testing.T) {
		svc := new(MockAuthService)
		router := setupAuthRouter(t, svc)

		svc.On("IssueToken", mock.Anything, "reader", "wrong").Return("", confirmation.ErrCodeInvalid)

		w := postJSON(router, "/api/v1/auth/token", gin.H{
			"username":          "reader",
			"confirmation_code": "wrong",
		})

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
