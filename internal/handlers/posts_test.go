package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"blog_backend/internal/models"
	"blog_backend/internal/service"
)

func alice() *models.User {
	return &models.User{ID: 7, Name: "Alice", Email: "a@x.com"}
}

// authedService returns a Service whose middleware accepts any bearer token
// and resolves caller.
func authedService(posts *mockPosts, caller *models.User) *service.Service {
	return &service.Service{
		Authorization: &mockAuth{parseID: caller.ID, user: caller},
		Posts:         posts,
	}
}

func TestPostHandlers_RequireAuth(t *testing.T) {
	posts := &mockPosts{}
	s := authedService(posts, alice())
	r := newTestRouter(s)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/posts", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", w.Code)
	}
}

func TestPostHandlers_Create(t *testing.T) {
	posts := &mockPosts{
		createPost: &models.Post{ID: 1, Title: "T", Description: "D", UserID: 7, UserName: "Alice"},
	}
	s := authedService(posts, alice())
	r := newTestRouter(s)

	body, contentType := multipartBody(map[string]string{"title": "T", "description": "D"}, "cat.png", []byte("png"))
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/posts", body)
	req.Header = authHeader("tok")
	req.Header.Set("Content-Type", contentType)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("status=%d, body=%s", w.Code, w.Body.String())
	}

	// Author identity must come from the token, never the form.
	in := posts.lastCreateInput
	if in.UserID != 7 || in.UserName != "Alice" {
		t.Fatalf("caller identity not threaded: %+v", in)
	}
	if in.Image == nil || in.Image.Filename != "cat.png" {
		t.Fatalf("image not threaded: %+v", in.Image)
	}

	var p models.Post
	if err := json.Unmarshal(w.Body.Bytes(), &p); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if p.ID != 1 || p.UserID != 7 {
		t.Fatalf("unexpected post: %+v", p)
	}
}

func TestPostHandlers_CreateIgnoresSpoofedOwnerFields(t *testing.T) {
	posts := &mockPosts{
		createPost: &models.Post{ID: 1, UserID: 7, UserName: "Alice"},
	}
	s := authedService(posts, alice())
	r := newTestRouter(s)

	// Client tries to claim another author via form fields.
	body, contentType := multipartBody(map[string]string{
		"title": "T", "description": "D", "user_id": "999", "user_name": "Mallory",
	}, "", nil)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/posts", body)
	req.Header = authHeader("tok")
	req.Header.Set("Content-Type", contentType)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("status=%d, body=%s", w.Code, w.Body.String())
	}
	if posts.lastCreateInput.UserID != 7 || posts.lastCreateInput.UserName != "Alice" {
		t.Fatalf("spoofed owner fields must be ignored: %+v", posts.lastCreateInput)
	}
}

func TestPostHandlers_CreateValidationErrorsListed(t *testing.T) {
	posts := &mockPosts{
		createErr: &service.FieldErrors{Fields: []service.FieldError{
			{Field: "title", Message: "Title is required"},
			{Field: "description", Message: "Description is required"},
		}},
	}
	s := authedService(posts, alice())
	r := newTestRouter(s)

	body, contentType := multipartBody(map[string]string{}, "", nil)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/posts", body)
	req.Header = authHeader("tok")
	req.Header.Set("Content-Type", contentType)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status=%d, body=%s", w.Code, w.Body.String())
	}
	var out struct {
		Errors []service.FieldError `json:"errors"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(out.Errors) != 2 {
		t.Fatalf("expected both violations listed, got %+v", out.Errors)
	}
}

func TestPostHandlers_ListAndListByUser(t *testing.T) {
	posts := &mockPosts{
		listResp:   []models.Post{{ID: 1}, {ID: 2}},
		byUserResp: []models.Post{},
	}
	s := authedService(posts, alice())
	r := newTestRouter(s)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/posts", nil)
	req.Header = authHeader("tok")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("list status=%d, body=%s", w.Code, w.Body.String())
	}
	var all []models.Post
	_ = json.Unmarshal(w.Body.Bytes(), &all)
	if len(all) != 2 {
		t.Fatalf("expected 2 posts, got %d", len(all))
	}

	// Author with zero posts yields 200 + empty array, not an error.
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/api/posts/user/55", nil)
	req.Header = authHeader("tok")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("list-by-user status=%d, body=%s", w.Code, w.Body.String())
	}
	if posts.lastByUserID != 55 {
		t.Fatalf("userId param not threaded: %d", posts.lastByUserID)
	}
	if body := w.Body.String(); body != "[]" {
		t.Fatalf("expected empty JSON array, got %s", body)
	}
}

func TestPostHandlers_GetNotFound(t *testing.T) {
	posts := &mockPosts{getErr: service.ErrPostNotFound}
	s := authedService(posts, alice())
	r := newTestRouter(s)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/posts/404", nil)
	req.Header = authHeader("tok")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d (body=%s)", w.Code, w.Body.String())
	}
}

func TestPostHandlers_UpdatePartialAndForbidden(t *testing.T) {
	t.Run("partial update threads only supplied fields", func(t *testing.T) {
		posts := &mockPosts{updatePost: &models.Post{ID: 9, Title: "X"}}
		s := authedService(posts, alice())
		r := newTestRouter(s)

		body, contentType := multipartBody(map[string]string{"title": "X"}, "", nil)
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPut, "/api/posts/9", body)
		req.Header = authHeader("tok")
		req.Header.Set("Content-Type", contentType)
		r.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("status=%d, body=%s", w.Code, w.Body.String())
		}
		in := posts.lastUpdateInput
		if in.Title == nil || *in.Title != "X" {
			t.Fatalf("title not threaded: %+v", in)
		}
		if in.Description != nil {
			t.Fatalf("absent description must stay nil: %+v", in)
		}
		if posts.lastUpdateID != 9 || posts.lastCallerID != 7 {
			t.Fatalf("id/caller not threaded: id=%d caller=%d", posts.lastUpdateID, posts.lastCallerID)
		}
	})

	t.Run("non-owner gets 403", func(t *testing.T) {
		posts := &mockPosts{updateErr: service.ErrNotPostOwner}
		s := authedService(posts, alice())
		r := newTestRouter(s)

		body, contentType := multipartBody(map[string]string{"title": "X"}, "", nil)
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPut, "/api/posts/9", body)
		req.Header = authHeader("tok")
		req.Header.Set("Content-Type", contentType)
		r.ServeHTTP(w, req)

		if w.Code != http.StatusForbidden {
			t.Fatalf("expected 403, got %d (body=%s)", w.Code, w.Body.String())
		}
	})
}

func TestPostHandlers_Delete(t *testing.T) {
	t.Run("owner delete → 204 empty", func(t *testing.T) {
		posts := &mockPosts{}
		s := authedService(posts, alice())
		r := newTestRouter(s)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodDelete, "/api/posts/9", nil)
		req.Header = authHeader("tok")
		r.ServeHTTP(w, req)

		if w.Code != http.StatusNoContent {
			t.Fatalf("expected 204, got %d (body=%s)", w.Code, w.Body.String())
		}
		if w.Body.Len() != 0 {
			t.Fatalf("expected empty body, got %q", w.Body.String())
		}
		if posts.deleteCalls != 1 || posts.lastCallerID != 7 {
			t.Fatalf("delete not threaded: calls=%d caller=%d", posts.deleteCalls, posts.lastCallerID)
		}
	})

	t.Run("non-owner delete → 403", func(t *testing.T) {
		posts := &mockPosts{deleteErr: service.ErrNotPostOwner}
		s := authedService(posts, alice())
		r := newTestRouter(s)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodDelete, "/api/posts/9", nil)
		req.Header = authHeader("tok")
		r.ServeHTTP(w, req)

		if w.Code != http.StatusForbidden {
			t.Fatalf("expected 403, got %d", w.Code)
		}
	})

	t.Run("missing post → 404", func(t *testing.T) {
		posts := &mockPosts{deleteErr: service.ErrPostNotFound}
		s := authedService(posts, alice())
		r := newTestRouter(s)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodDelete, "/api/posts/404", nil)
		req.Header = authHeader("tok")
		r.ServeHTTP(w, req)

		if w.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", w.Code)
		}
	})
}
