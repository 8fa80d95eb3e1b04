package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"blog_backend/internal/models"
	"blog_backend/internal/repository"
	"blog_backend/internal/storage"
)

type PostService struct {
	posts repository.Posts
	blobs storage.BlobStore
}

func NewPostService(posts repository.Posts, blobs storage.BlobStore) *PostService {
	return &PostService{posts: posts, blobs: blobs}
}

// Create validates the fields, uploads the image (if any) and persists the
// post. Author identity comes from input.UserID/UserName, which the handler
// fills from the authenticated caller.
func (s *PostService) Create(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	var fields []FieldError
	title := strings.TrimSpace(in.Title)
	description := strings.TrimSpace(in.Description)
	if title == "" {
		fields = append(fields, FieldError{Field: "title", Message: "Title is required"})
	}
	if description == "" {
		fields = append(fields, FieldError{Field: "description", Message: "Description is required"})
	}
	if len(fields) > 0 {
		return nil, &FieldErrors{Fields: fields}
	}

	imageURL, err := s.uploadImage(ctx, in.Image)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	p := models.Post{
		Title:       title,
		Description: description,
		Image:       imageURL,
		UserID:      in.UserID,
		UserName:    in.UserName,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	id, err := s.posts.Create(ctx, p)
	if err != nil {
		return nil, err
	}
	p.ID = id
	return &p, nil
}

// List returns every post, materialized, in insertion order.
func (s *PostService) List(ctx context.Context) ([]models.Post, error) {
	return s.posts.List(ctx)
}

// ListByUser returns the posts of one author; an unknown author simply
// yields an empty slice.
func (s *PostService) ListByUser(ctx context.Context, userID int) ([]models.Post, error) {
	return s.posts.ListByUser(ctx, userID)
}

func (s *PostService) GetByID(ctx context.Context, id int) (*models.Post, error) {
	p, err := s.posts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrPostNotFound
	}
	return p, nil
}

// Update applies a partial update. The ownership check runs strictly before
// any field is touched; supplied fields must be non-empty.
func (s *PostService) Update(ctx context.Context, id, callerID int, in UpdatePostInput) (*models.Post, error) {
	p, err := s.posts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrPostNotFound
	}
	if p.UserID != callerID {
		return nil, ErrNotPostOwner
	}

	var fields []FieldError
	if in.Title != nil && strings.TrimSpace(*in.Title) == "" {
		fields = append(fields, FieldError{Field: "title", Message: "Title cannot be empty"})
	}
	if in.Description != nil && strings.TrimSpace(*in.Description) == "" {
		fields = append(fields, FieldError{Field: "description", Message: "Description cannot be empty"})
	}
	if len(fields) > 0 {
		return nil, &FieldErrors{Fields: fields}
	}

	if in.Title != nil {
		p.Title = strings.TrimSpace(*in.Title)
	}
	if in.Description != nil {
		p.Description = strings.TrimSpace(*in.Description)
	}
	if in.Image != nil {
		// The replaced blob is intentionally left in the store.
		url, err := s.uploadImage(ctx, in.Image)
		if err != nil {
			return nil, err
		}
		p.Image = url
	}
	p.UpdatedAt = time.Now().UTC()

	if err := s.posts.Update(ctx, *p); err != nil {
		return nil, err
	}
	return p, nil
}

// Delete removes the post and, best-effort, its stored image. A blob store
// failure never blocks removal of the record.
func (s *PostService) Delete(ctx context.Context, id, callerID int) error {
	p, err := s.posts.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if p == nil {
		return ErrPostNotFound
	}
	if p.UserID != callerID {
		return ErrNotPostOwner
	}

	if p.Image != "" {
		_ = s.blobs.Delete(ctx, storage.AssetID(p.Image))
	}

	return s.posts.Delete(ctx, id)
}

// uploadImage pushes the pending file to the blob store and returns its URL.
// An unsupported format surfaces as a field violation.
func (s *PostService) uploadImage(ctx context.Context, img *ImageUpload) (string, error) {
	if img == nil {
		return "", nil
	}
	url, err := s.blobs.Upload(ctx, img.Filename, img.Data)
	if err != nil {
		if errors.Is(err, storage.ErrUnsupportedFormat) {
			return "", &FieldErrors{Fields: []FieldError{{Field: "image", Message: err.Error()}}}
		}
		return "", err
	}
	return url, nil
}
