package service

import (
	"context"
	"io"

	"blog_backend/internal/models"
	"blog_backend/internal/repository"
	"blog_backend/internal/storage"
)

type Authorization interface {
	Register(name, email, password string) (*models.User, error)
	Login(email, password string) (string, *models.User, error)
	ParseToken(accessToken string) (int, error)
	UserByID(id int) (*models.User, error)
}

// Posts exposes the post lifecycle. The caller identity comes from the
// authenticated request, never from the payload.
type Posts interface {
	Create(ctx context.Context, input CreatePostInput) (*models.Post, error)
	List(ctx context.Context) ([]models.Post, error)
	ListByUser(ctx context.Context, userID int) ([]models.Post, error)
	GetByID(ctx context.Context, id int) (*models.Post, error)
	Update(ctx context.Context, id, callerID int, input UpdatePostInput) (*models.Post, error)
	Delete(ctx context.Context, id, callerID int) error
}

// ImageUpload carries a pending image file.
type ImageUpload struct {
	Filename string
	Data     io.Reader
}

type CreatePostInput struct {
	Title       string
	Description string
	UserID      int    // authenticated author
	UserName    string // author name, denormalized onto the post
	Image       *ImageUpload
}

// UpdatePostInput has partial semantics: nil fields are left untouched.
type UpdatePostInput struct {
	Title       *string
	Description *string
	Image       *ImageUpload
}

type Service struct {
	Authorization
	Posts
}

// NewService wires the repository layer and blob store into concrete services.
func NewService(repos *repository.Repository, blobs storage.BlobStore, signingKey []byte) *Service {
	return &Service{
		Authorization: NewAuthService(repos.Users, signingKey),
		Posts:         NewPostService(repos.Posts, blobs),
	}
}
