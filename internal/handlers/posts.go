package handlers

import (
	"errors"
	"mime/multipart"
	"net/http"
	"strconv"

	"blog_backend/internal/service"

	"github.com/gin-gonic/gin"
)

// Common response/error constants to avoid magic strings and typos.
const (
	errServer       = "server error"
	errInvalidID    = "invalid post id"
	errPostNotFound = "Post not found"
	errForbidden    = "Unauthorized"
)

// Centralized error logging and response.
func (h *Handler) logAndJSONError(c *gin.Context, httpCode int, userMsg, logKey string, err error, kv ...interface{}) {
	if h.log != nil && err != nil {
		fields := append([]interface{}{"err", err}, kv...)
		h.log.Errorw(logKey, fields...)
	}
	c.JSON(httpCode, gin.H{"error": userMsg})
}

// respondPostError maps post-service errors to HTTP statuses.
func (h *Handler) respondPostError(c *gin.Context, logKey string, err error) {
	var fieldErrs *service.FieldErrors
	switch {
	case errors.As(err, &fieldErrs):
		c.JSON(http.StatusBadRequest, gin.H{"errors": fieldErrs.Fields})
	case errors.Is(err, service.ErrPostNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": errPostNotFound})
	case errors.Is(err, service.ErrNotPostOwner):
		c.JSON(http.StatusForbidden, gin.H{"error": errForbidden})
	default:
		h.logAndJSONError(c, http.StatusInternalServerError, errServer, logKey, err)
	}
}

// postIDParam parses the :id path segment; responds 400 and returns false on garbage.
func (h *Handler) postIDParam(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidID})
		return 0, false
	}
	return id, true
}

// formImage extracts the optional multipart image file. The returned closer is
// non-nil only when a file is present.
func formImage(c *gin.Context) (*service.ImageUpload, multipart.File, error) {
	fh, err := c.FormFile("image")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return nil, nil, nil
		}
		return nil, nil, err
	}
	f, err := fh.Open()
	if err != nil {
		return nil, nil, err
	}
	return &service.ImageUpload{Filename: fh.Filename, Data: f}, f, nil
}

// @Summary      Create a post
// @Tags         posts
// @Accept       mpfd
// @Produce      json
// @Param        title        formData  string  true   "Post title"
// @Param        description  formData  string  true   "Post body"
// @Param        image        formData  file    false  "Image (jpg/jpeg/png)"
// @Success      201  {object}  models.Post
// @Failure      400  {object}  map[string]interface{}
// @Failure      401  {object}  map[string]string
// @Router       /api/posts [post]
// @Security     BearerAuth
func (h *Handler) createPost(c *gin.Context) {
	caller, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "identity missing from request context"})
		return
	}

	image, file, err := formImage(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid image upload: " + err.Error()})
		return
	}
	if file != nil {
		defer func() { _ = file.Close() }()
	}

	post, err := h.services.Posts.Create(c.Request.Context(), service.CreatePostInput{
		Title:       c.PostForm("title"),
		Description: c.PostForm("description"),
		UserID:      caller.ID,
		UserName:    caller.Name,
		Image:       image,
	})
	if err != nil {
		h.respondPostError(c, "post_create_failed", err)
		return
	}

	c.JSON(http.StatusCreated, post)
}

// @Summary      List all posts
// @Tags         posts
// @Produce      json
// @Success      200  {array}  models.Post
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/posts [get]
// @Security     BearerAuth
func (h *Handler) listPosts(c *gin.Context) {
	posts, err := h.services.Posts.List(c.Request.Context())
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errServer, "post_list_failed", err)
		return
	}
	c.JSON(http.StatusOK, posts)
}

// @Summary      List posts by author
// @Tags         posts
// @Produce      json
// @Param        userId  path  int  true  "Author user id"
// @Success      200  {array}  models.Post  "may be empty"
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/posts/user/{userId} [get]
// @Security     BearerAuth
func (h *Handler) listPostsByUser(c *gin.Context) {
	userID, err := strconv.Atoi(c.Param("userId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}

	posts, err := h.services.Posts.ListByUser(c.Request.Context(), userID)
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errServer, "post_list_by_user_failed", err, "userId", userID)
		return
	}
	c.JSON(http.StatusOK, posts)
}

// @Summary      Get one post
// @Tags         posts
// @Produce      json
// @Param        id  path  int  true  "Post id"
// @Success      200  {object}  models.Post
// @Failure      401  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /api/posts/{id} [get]
// @Security     BearerAuth
func (h *Handler) getPost(c *gin.Context) {
	id, ok := h.postIDParam(c)
	if !ok {
		return
	}

	post, err := h.services.Posts.GetByID(c.Request.Context(), id)
	if err != nil {
		h.respondPostError(c, "post_get_failed", err)
		return
	}
	c.JSON(http.StatusOK, post)
}

// @Summary      Update a post (owner only, partial)
// @Tags         posts
// @Accept       mpfd
// @Produce      json
// @Param        id           path      int     true   "Post id"
// @Param        title        formData  string  false  "New title"
// @Param        description  formData  string  false  "New body"
// @Param        image        formData  file    false  "Replacement image"
// @Success      200  {object}  models.Post
// @Failure      400  {object}  map[string]interface{}
// @Failure      401  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /api/posts/{id} [put]
// @Security     BearerAuth
func (h *Handler) updatePost(c *gin.Context) {
	caller, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "identity missing from request context"})
		return
	}
	id, ok := h.postIDParam(c)
	if !ok {
		return
	}

	var input service.UpdatePostInput
	if v, present := c.GetPostForm("title"); present {
		input.Title = &v
	}
	if v, present := c.GetPostForm("description"); present {
		input.Description = &v
	}

	image, file, err := formImage(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid image upload: " + err.Error()})
		return
	}
	if file != nil {
		defer func() { _ = file.Close() }()
	}
	input.Image = image

	post, err := h.services.Posts.Update(c.Request.Context(), id, caller.ID, input)
	if err != nil {
		h.respondPostError(c, "post_update_failed", err)
		return
	}
	c.JSON(http.StatusOK, post)
}

// @Summary      Delete a post (owner only)
// @Tags         posts
// @Produce      json
// @Param        id  path  int  true  "Post id"
// @Success      204  "no content"
// @Failure      401  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/posts/{id} [delete]
// @Security     BearerAuth
func (h *Handler) deletePost(c *gin.Context) {
	caller, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "identity missing from request context"})
		return
	}
	id, ok := h.postIDParam(c)
	if !ok {
		return
	}

	if err := h.services.Posts.Delete(c.Request.Context(), id, caller.ID); err != nil {
		h.respondPostError(c, "post_delete_failed", err)
		return
	}
	c.Status(http.StatusNoContent)
}
