package repository

import (
	"blog_backend/internal/models"
	"context"
	"database/sql"
)

type Users interface {
	Create(name, email, passwordHash string) (int, error)
	GetByEmail(email string) (*models.User, error)
	GetByID(id int) (*models.User, error)
}

type Posts interface {
	Create(ctx context.Context, p models.Post) (int, error)
	GetByID(ctx context.Context, id int) (*models.Post, error)
	List(ctx context.Context) ([]models.Post, error)
	ListByUser(ctx context.Context, userID int) ([]models.Post, error)
	Update(ctx context.Context, p models.Post) error
	Delete(ctx context.Context, id int) error
}

type Repository struct {
	Users Users
	Posts Posts
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{
		Users: NewUserRepository(db),
		Posts: NewPostRepository(db),
	}
}
