package handler_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"titlehub/internal/authz"
	"titlehub/internal/dto"
	"titlehub/internal/handler"
	"titlehub/internal/middleware"
	"titlehub/internal/models"
	"titlehub/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// --- MOCK SERVICE ---

type MockReviewService struct {
	mock.Mock
}

func (m *MockReviewService) Create(actor authz.Actor, titleID int64, req dto.CreateReviewRequest) (*dto.ReviewResponse, error) {
	args := m.Called(actor, titleID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ReviewResponse), args.Error(1)
}

func (m *MockReviewService) Update(actor authz.Actor, titleID, reviewID int64, req dto.UpdateReviewRequest) (*dto.ReviewResponse, error) {
	args := m.Called(actor, titleID, reviewID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ReviewResponse), args.Error(1)
}

func (m *MockReviewService) Delete(actor authz.Actor, titleID, reviewID int64) error {
	args := m.Called(actor, titleID, reviewID)
	return args.Error(0)
}

func (m *MockReviewService) GetByID(titleID, reviewID int64) (*dto.ReviewResponse, error) {
	args := m.Called(titleID, reviewID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ReviewResponse), args.Error(1)
}

func (m *MockReviewService) ListByTitle(titleID int64, page, pageSize int) (*dto.PaginatedReviewResponse, error) {
	args := m.Called(titleID, page, pageSize)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.PaginatedReviewResponse), args.Error(1)
}

// --- SETUP ---

// setupReviewRouter injects the given actor the way the auth middleware would.
func setupReviewRouter(mockService *MockReviewService, actor authz.Actor) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.Default()
	r.Use(func(c *gin.Context) {
		middleware.SetActor(c, actor)
		c.Next()
	})

	h := handler.NewReviewHandler(mockService)
	rg := r.Group("/api/v1")
	h.RegisterRoutes(rg)
	return r
}

func reviewer() authz.Actor {
	return authz.Actor{ID: "user-1", Username: "alice", Role: models.RoleUser, Authenticated: true}
}

// --- TESTS ---

func TestReviewListEndpoint(t *testing.T) {
	mockService := new(MockReviewService)
	r := setupReviewRouter(mockService, authz.Anonymous())

	mockService.On("ListByTitle", int64(7), 1, 20).Return(&dto.PaginatedReviewResponse{
		Data: []dto.ReviewResponse{
			{ID: 1, Author: "alice", Text: "good", Score: 8, CreatedAt: time.Now()},
		},
		Page: 1, PageSize: 20, Total: 1, TotalPages: 1,
	}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/titles/7/reviews", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"alice"`)
	mockService.AssertExpectations(t)
}

func TestReviewListEndpoint_BadTitleID(t *testing.T) {
	mockService := new(MockReviewService)
	r := setupReviewRouter(mockService, authz.Anonymous())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/titles/not-a-number/reviews", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockService.AssertNotCalled(t, "ListByTitle", mock.Anything, mock.Anything, mock.Anything)
}

func TestReviewCreateEndpoint_Success(t *testing.T) {
	mockService := new(MockReviewService)
	r := setupReviewRouter(mockService, reviewer())

	payload := dto.CreateReviewRequest{Text: "great", Score: 9}
	mockService.On("Create", reviewer(), int64(7), payload).Return(&dto.ReviewResponse{
		ID: 42, Author: "alice", Text: "great", Score: 9,
	}, nil)

	body, _ := json.Marshal(payload)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/titles/7/reviews", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	mockService.AssertExpectations(t)
}

func TestReviewCreateEndpoint_ScoreValidatedAtBinding(t *testing.T) {
	mockService := new(MockReviewService)
	r := setupReviewRouter(mockService, reviewer())

	body := []byte(`{"text":"meh","score":11}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/titles/7/reviews", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockService.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
}

func TestReviewCreateEndpoint_Duplicate(t *testing.T) {
	mockService := new(MockReviewService)
	r := setupReviewRouter(mockService, reviewer())

	payload := dto.CreateReviewRequest{Text: "again", Score: 3}
	mockService.On("Create", reviewer(), int64(7), payload).Return(nil, service.ErrReviewExists)

	body, _ := json.Marshal(payload)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/titles/7/reviews", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestReviewCreateEndpoint_Anonymous(t *testing.T) {
	mockService := new(MockReviewService)
	r := setupReviewRouter(mockService, authz.Anonymous())

	payload := dto.CreateReviewRequest{Text: "drive-by", Score: 1}
	mockService.On("Create", authz.Anonymous(), int64(7), payload).Return(nil, service.ErrUnauthenticated)

	body, _ := json.Marshal(payload)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/titles/7/reviews", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestReviewUpdateEndpoint_Forbidden(t *testing.T) {
	mockService := new(MockReviewService)
	r := setupReviewRouter(mockService, reviewer())

	mockService.On("Update", reviewer(), int64(7), int64(42), mock.AnythingOfType("dto.UpdateReviewRequest")).
		Return(nil, service.ErrForbidden)

	body := []byte(`{"text":"not mine"}`)
	req := httptest.NewRequest(http.MethodPatch, "/api/v1/titles/7/reviews/42", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestReviewDeleteEndpoint_Success(t *testing.T) {
	mockService := new(MockReviewService)
	r := setupReviewRouter(mockService, reviewer())

	mockService.On("Delete", reviewer(), int64(7), int64(42)).Return(nil)

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/titles/7/reviews/42", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	mockService.AssertExpectations(t)
}

func TestReviewGetEndpoint_NotFound(t *testing.T) {
	mockService := new(MockReviewService)
	r := setupReviewRouter(mockService, authz.Anonymous())

	mockService.On("GetByID", int64(7), int64(404)).Return(nil, service.ErrReviewNotFound)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/titles/7/reviews/404", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
