package handlers

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"

	"blog_backend/internal/models"
	"blog_backend/internal/service"

	"github.com/gin-gonic/gin"
)

// ---- Service Mocks ----

type mockAuth struct {
	registerUser *models.User
	registerErr  error
	loginToken   string
	loginUser    *models.User
	loginErr     error
	parseID      int
	parseErr     error
	user         *models.User
	userErr      error

	lastRegisterName  string
	lastRegisterEmail string
	lastLoginEmail    string
	lastParseToken    string
}

func (m *mockAuth) Register(name, email, password string) (*models.User, error) {
	m.lastRegisterName = name
	m.lastRegisterEmail = email
	return m.registerUser, m.registerErr
}
func (m *mockAuth) Login(email, password string) (string, *models.User, error) {
	m.lastLoginEmail = email
	return m.loginToken, m.loginUser, m.loginErr
}
func (m *mockAuth) ParseToken(token string) (int, error) {
	m.lastParseToken = token
	return m.parseID, m.parseErr
}
func (m *mockAuth) UserByID(id int) (*models.User, error) {
	return m.user, m.userErr
}

type mockPosts struct {
	createPost *models.Post
	createErr  error
	listResp   []models.Post
	listErr    error
	byUserResp []models.Post
	byUserErr  error
	getPost    *models.Post
	getErr     error
	updatePost *models.Post
	updateErr  error
	deleteErr  error

	lastCreateInput service.CreatePostInput
	lastUpdateInput service.UpdatePostInput
	lastUpdateID    int
	lastCallerID    int
	lastByUserID    int
	deleteCalls     int
}

func (m *mockPosts) Create(ctx context.Context, in service.CreatePostInput) (*models.Post, error) {
	m.lastCreateInput = in
	return m.createPost, m.createErr
}
func (m *mockPosts) List(ctx context.Context) ([]models.Post, error) {
	return m.listResp, m.listErr
}
func (m *mockPosts) ListByUser(ctx context.Context, userID int) ([]models.Post, error) {
	m.lastByUserID = userID
	return m.byUserResp, m.byUserErr
}
func (m *mockPosts) GetByID(ctx context.Context, id int) (*models.Post, error) {
	return m.getPost, m.getErr
}
func (m *mockPosts) Update(ctx context.Context, id, callerID int, in service.UpdatePostInput) (*models.Post, error) {
	m.lastUpdateID = id
	m.lastCallerID = callerID
	m.lastUpdateInput = in
	return m.updatePost, m.updateErr
}
func (m *mockPosts) Delete(ctx context.Context, id, callerID int) error {
	m.deleteCalls++
	m.lastCallerID = callerID
	return m.deleteErr
}

// ---- Shared Test Helpers ----

func newTestRouter(s *service.Service) *gin.Engine {
	h := NewHandler(s, nil, Config{})
	gin.SetMode(gin.TestMode)
	return h.InitRoutes()
}

func authHeader(token string) http.Header {
	h := http.Header{}
	if token != "" {
		h.Set("Authorization", "Bearer "+token)
	}
	return h
}

// multipartBody builds a multipart form with the given fields and an optional
// image file, returning the body and its content type.
func multipartBody(fields map[string]string, imageName string, imageBytes []byte) (*bytes.Buffer, string) {
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	for k, v := range fields {
		_ = w.WriteField(k, v)
	}
	if imageName != "" {
		fw, _ := w.CreateFormFile("image", imageName)
		_, _ = io.Copy(fw, bytes.NewReader(imageBytes))
	}
	_ = w.Close()
	return body, w.FormDataContentType()
}
