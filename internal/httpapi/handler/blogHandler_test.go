package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"bloghub/internal/httpapi/dto"
	"bloghub/internal/httpapi/models"
	"bloghub/internal/httpapi/repository"
	"bloghub/internal/httpapi/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockBlogService mocks the BlogService interface
type MockBlogService struct {
	mock.Mock
}

func (m *MockBlogService) Publish(ctx context.Context, author *models.User, title, content string) (*models.Blog, error) {
	args := m.Called(ctx, author, title, content)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Blog), args.Error(1)
}

func (m *MockBlogService) Update(ctx context.Context, author *models.User, blogID, title, content string) (*models.Blog, error) {
	args := m.Called(ctx, author, blogID, title, content)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Blog), args.Error(1)
}

func (m *MockBlogService) Delete(ctx context.Context, author *models.User, blogID string) error {
	args := m.Called(ctx, author, blogID)
	return args.Error(0)
}

func (m *MockBlogService) GetByID(ctx context.Context, id string) (*models.Blog, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Blog), args.Error(1)
}

func (m *MockBlogService) List(ctx context.Context, page int) (*dto.PaginatedBlogsResponse, error) {
	args := m.Called(ctx, page)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.PaginatedBlogsResponse), args.Error(1)
}

// injectUser stands in for the auth + user-sync middleware chain
func injectUser(user *models.User) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("currentUser", user)
		c.Next()
	}
}

func setupBlogRouter(svc service.BlogService, user *models.User) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewBlogHandler(svc)

	r := gin.New()
	r.GET("/api/blogs", h.List)
	r.GET("/api/blogs/:blogid", h.Get)

	authed := r.Group("/api/user")
	if user != nil {
		authed.Use(injectUser(user))
	}
	authed.POST("/blog", h.Create)
	authed.PUT("/blog/:blogid", h.Update)
	authed.DELETE("/blog/:blogid", h.Delete)
	return r
}

func TestBlogHandler_GetNotFound(t *testing.T) {
	mockSvc := new(MockBlogService)
	router := setupBlogRouter(mockSvc, nil)

	mockSvc.On("GetByID", mock.Anything, "missing").Return(nil, repository.ErrNotFound).Once()

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/api/blogs/missing", nil)
	router.ServeHTTP(w, req)

	// exactly one response body even on the error path
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"blog not found"}`, w.Body.String())
	mockSvc.AssertExpectations(t)
}

func TestBlogHandler_GetOK(t *testing.T) {
	mockSvc := new(MockBlogService)
	router := setupBlogRouter(mockSvc, nil)

	mockSvc.On("GetByID", mock.Anything, "blog-1").
		Return(&models.Blog{ID: "blog-1", Title: "Hello", Content: "World"}, nil).Once()

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/api/blogs/blog-1", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var blog models.Blog
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &blog))
	assert.Equal(t, "Hello", blog.Title)
}

func TestBlogHandler_ListDefaultsToPageOne(t *testing.T) {
	mockSvc := new(MockBlogService)
	router := setupBlogRouter(mockSvc, nil)

	response := &dto.PaginatedBlogsResponse{
		TotalItems:  1,
		CurrentPage: 1,
		All:         []models.Blog{{ID: "blog-1", Title: "Hello"}},
		TotalPages:  1,
	}
	mockSvc.On("List", mock.Anything, 1).Return(response, nil).Twice()

	for _, target := range []string{"/api/blogs", "/api/blogs?pages=junk"} {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodGet, target, nil)
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	}
	mockSvc.AssertExpectations(t)
}

func TestBlogHandler_CreateReturnsCreated(t *testing.T) {
	author := &models.User{ID: "user-1", Email: "a@x.com"}
	mockSvc := new(MockBlogService)
	router := setupBlogRouter(mockSvc, author)

	mockSvc.On("Publish", mock.Anything, author, "Hello", "World").
		Return(&models.Blog{ID: "blog-1", Title: "Hello", Content: "World", AuthorID: "user-1"}, nil).Once()

	body, _ := json.Marshal(dto.CreateBlogDTO{Title: "Hello", Content: "World"})
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/api/user/blog", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)
	var blog models.Blog
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &blog))
	assert.Equal(t, "blog-1", blog.ID)
	mockSvc.AssertExpectations(t)
}

func TestBlogHandler_CreateRejectsMissingFields(t *testing.T) {
	author := &models.User{ID: "user-1", Email: "a@x.com"}
	mockSvc := new(MockBlogService)
	router := setupBlogRouter(mockSvc, author)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/api/user/blog", bytes.NewReader([]byte(`{"title":"only"}`)))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockSvc.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestBlogHandler_CreateWithoutIdentity(t *testing.T) {
	mockSvc := new(MockBlogService)
	router := setupBlogRouter(mockSvc, nil)

	body, _ := json.Marshal(dto.CreateBlogDTO{Title: "Hello", Content: "World"})
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/api/user/blog", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestBlogHandler_UpdateNotOwnedIs404(t *testing.T) {
	author := &models.User{ID: "user-1", Email: "a@x.com"}
	mockSvc := new(MockBlogService)
	router := setupBlogRouter(mockSvc, author)

	mockSvc.On("Update", mock.Anything, author, "blog-1", "Hello", "World").
		Return(nil, repository.ErrNotFound).Once()

	body, _ := json.Marshal(dto.UpdateBlogDTO{Title: "Hello", Content: "World"})
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPut, "/api/user/blog/blog-1", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"blog not found"}`, w.Body.String())
}

func TestBlogHandler_DeleteSuccess(t *testing.T) {
	author := &models.User{ID: "user-1", Email: "a@x.com"}
	mockSvc := new(MockBlogService)
	router := setupBlogRouter(mockSvc, author)

	mockSvc.On("Delete", mock.Anything, author, "blog-1").Return(nil).Once()

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodDelete, "/api/user/blog/blog-1", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true}`, w.Body.String())
}

func TestBlogHandler_DeleteFailure(t *testing.T) {
	author := &models.User{ID: "user-1", Email: "a@x.com"}
	mockSvc := new(MockBlogService)
	router := setupBlogRouter(mockSvc, author)

	mockSvc.On("Delete", mock.Anything, author, "blog-1").
		Return(errors.New("db down")).Once()

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodDelete, "/api/user/blog/blog-1", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
