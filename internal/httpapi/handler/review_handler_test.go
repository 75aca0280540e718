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

	"reviewhub/internal/httpapi/access"
	"reviewhub/internal/httpapi/dto"
	"reviewhub/internal/httpapi/models"
	"reviewhub/internal/httpapi/service"
)

type MockReviewService struct {
	mock.Mock
}

func (m *MockReviewService) List(ctx context.Context, titleID int64, page, pageSize int) (*dto.PaginatedReviewResponse, error) {
	args := m.Called(ctx, titleID, page, pageSize)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.PaginatedReviewResponse), args.Error(1)
}

func (m *MockReviewService) Get(ctx context.Context, titleID, reviewID int64) (*dto.ReviewResponse, error) {
	args := m.Called(ctx, titleID, reviewID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ReviewResponse), args.Error(1)
}

func (m *MockReviewService) Create(ctx context.Context, author *models.User, titleID int64, req dto.CreateReviewRequest) (*dto.ReviewResponse, error) {
	args := m.Called(ctx, author, titleID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ReviewResponse), args.Error(1)
}

func (m *MockReviewService) Update(ctx context.Context, actor *models.User, titleID, reviewID int64, req dto.UpdateReviewRequest) (*dto.ReviewResponse, error) {
	args := m.Called(ctx, actor, titleID, reviewID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ReviewResponse), args.Error(1)
}

func (m *MockReviewService) Delete(ctx context.Context, actor *models.User, titleID, reviewID int64) error {
	args := m.Called(ctx, actor, titleID, reviewID)
	return args.Error(0)
}

// setIdentity mimics the auth middleware for handler-level tests.
func setIdentity(user *models.User) gin.HandlerFunc {
	return func(c *gin.Context) {
		if user != nil {
			c.Set("currentUser", user)
			c.Set("accessLevel", access.Resolve(user))
		} else {
			c.Set("accessLevel", access.Anonymous)
		}
		c.Next()
	}
}

func setupReviewRouter(svc service.ReviewService, user *models.User) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	group := router.Group("/api/v1/titles/:title_id/reviews", setIdentity(user))
	NewReviewHandler(svc).RegisterRoutes(group)
	return router
}

func TestReviewCreateEndpoint(t *testing.T) {
	user := &models.User{ID: "u1", Username: "reader", Role: models.RoleUser}

	t.Run("authenticated create", func(t *testing.T) {
		svc := new(MockReviewService)
		router := setupReviewRouter(svc, user)

		svc.On("Create", mock.Anything, user, int64(1), dto.CreateReviewRequest{Text: "great", Score: 8}).
			Return(&dto.ReviewResponse{ID: 10, Author: "reader", Text: "great", Score: 8}, nil)

		payload, _ := json.Marshal(gin.H{"text": "great", "score": 8})
		req := httptest.NewRequest(http.MethodPost, "/api/v1/titles/1/reviews", bytes.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
	})

	t.Run("anonymous create is rejected", func(t *testing.T) {
		svc := new(MockReviewService)
		router := setupReviewRouter(svc, nil)

		payload, _ := json.Marshal(gin.H{"text": "great", "score": 8})
		req := httptest.NewRequest(http.MethodPost, "/api/v1/titles/1/reviews", bytes.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		svc.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("score outside 1..10 fails binding", func(t *testing.T) {
		svc := new(MockReviewService)
		router := setupReviewRouter(svc, user)

		payload, _ := json.Marshal(gin.H{"text": "great", "score": 11})
		req := httptest.NewRequest(http.MethodPost, "/api/v1/titles/1/reviews", bytes.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("second review maps to 400", func(t *testing.T) {
		svc := new(MockReviewService)
		router := setupReviewRouter(svc, user)

		svc.On("Create", mock.Anything, user, int64(1), mock.AnythingOfType("dto.CreateReviewRequest")).
			Return(nil, service.ErrDuplicateReview)

		payload, _ := json.Marshal(gin.H{"text": "again", "score": 5})
		req := httptest.NewRequest(http.MethodPost, "/api/v1/titles/1/reviews", bytes.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestReviewListEndpoint(t *testing.T) {
	t.Run("anonymous list works", func(t *testing.T) {
		svc := new(MockReviewService)
		router := setupReviewRouter(svc, nil)

		svc.On("List", mock.Anything, int64(1), 1, 10).
			Return(dto.NewPaginatedReviewResponse([]dto.ReviewResponse{}, 0, 1, 10), nil)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/titles/1/reviews", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("unknown title maps to 404", func(t *testing.T) {
		svc := new(MockReviewService)
		router := setupReviewRouter(svc, nil)

		svc.On("List", mock.Anything, int64(99), 1, 10).Return(nil, service.ErrTitleNotFound)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/titles/99/reviews", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("bad title id", func(t *testing.T) {
		svc := new(MockReviewService)
		router := setupReviewRouter(svc, nil)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/titles/abc/reviews", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestReviewDeleteEndpoint(t *testing.T) {
	t.Run("forbidden delete maps to 403", func(t *testing.T) {
		user := &models.User{ID: "u2", Username: "other", Role: models.RoleUser}
		svc := new(MockReviewService)
		router := setupReviewRouter(svc, user)

		svc.On("Delete", mock.Anything, user, int64(1), int64(10)).Return(access.ErrPermissionDenied)

		req := httptest.NewRequest(http.MethodDelete, "/api/v1/titles/1/reviews/10", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("successful delete returns 204", func(t *testing.T) {
		user := &models.User{ID: "u1", Username: "reader", Role: models.RoleUser}
		svc := new(MockReviewService)
		router := setupReviewRouter(svc, user)

		svc.On("Delete", mock.Anything, user, int64(1), int64(10)).Return(nil)

		req := httptest.NewRequest(http.MethodDelete, "/api/v1/titles/1/reviews/10", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNoContent, w.Code)
	})
}
