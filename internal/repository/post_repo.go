package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"blog_backend/internal/models"
)

type PostRepository struct {
	db *sql.DB
}

func NewPostRepository(db *sql.DB) *PostRepository { return &PostRepository{db: db} }

var _ Posts = (*PostRepository)(nil)

const (
	insertPostSQL = `
		INSERT INTO posts (title, description, image, user_id, user_name, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`

	selectPostByIDSQL = `
		SELECT id, title, description, image, user_id, user_name, created_at, updated_at
		FROM posts WHERE id = ?`

	selectAllPostsSQL = `
		SELECT id, title, description, image, user_id, user_name, created_at, updated_at
		FROM posts ORDER BY id ASC`

	selectPostsByUserSQL = `
		SELECT id, title, description, image, user_id, user_name, created_at, updated_at
		FROM posts WHERE user_id = ? ORDER BY id ASC`

	updatePostSQL = `
		UPDATE posts SET title = ?, description = ?, image = ?, updated_at = ?
		WHERE id = ?`

	deletePostSQL = `DELETE FROM posts WHERE id = ?`
)

// Create inserts a new post and returns its ID. Zero timestamps are set to now (UTC).
func (r *PostRepository) Create(ctx context.Context, p models.Post) (int, error) {
	now := time.Now().UTC()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	if p.UpdatedAt.IsZero() {
		p.UpdatedAt = now
	}

	res, err := r.db.ExecContext(ctx, insertPostSQL,
		p.Title,
		p.Description,
		nullableString(p.Image),
		p.UserID,
		p.UserName,
		p.CreatedAt.UTC(),
		p.UpdatedAt.UTC(),
	)
	if err != nil {
		return 0, fmt.Errorf("insert post: %w", err)
	}
	lastID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("get last insert id for post: %w", err)
	}
	return int(lastID), nil
}

// GetByID fetches a post by id. Returns (nil, nil) if not found.
func (r *PostRepository) GetByID(ctx context.Context, id int) (*models.Post, error) {
	row := r.db.QueryRowContext(ctx, selectPostByIDSQL, id)

	p, err := scanPost(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("select post %d: %w", id, err)
	}
	return &p, nil
}

// List returns all posts in insertion order.
func (r *PostRepository) List(ctx context.Context) ([]models.Post, error) {
	return r.queryPosts(ctx, selectAllPostsSQL)
}

// ListByUser returns all posts authored by userID; empty slice when none.
func (r *PostRepository) ListByUser(ctx context.Context, userID int) ([]models.Post, error) {
	return r.queryPosts(ctx, selectPostsByUserSQL, userID)
}

// Update persists title/description/image/updated_at for an existing post.
func (r *PostRepository) Update(ctx context.Context, p models.Post) error {
	ts := p.UpdatedAt
	if ts.IsZero() {
		ts = time.Now().UTC()
	}
	_, err := r.db.ExecContext(ctx, updatePostSQL,
		p.Title,
		p.Description,
		nullableString(p.Image),
		ts.UTC(),
		p.ID,
	)
	if err != nil {
		return fmt.Errorf("update post %d: %w", p.ID, err)
	}
	return nil
}

// Delete removes a post row by id.
func (r *PostRepository) Delete(ctx context.Context, id int) error {
	if _, err := r.db.ExecContext(ctx, deletePostSQL, id); err != nil {
		return fmt.Errorf("delete post %d: %w", id, err)
	}
	return nil
}

func (r *PostRepository) queryPosts(ctx context.Context, query string, args ...any) ([]models.Post, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("select posts: %w", err)
	}
	defer rows.Close()

	out := make([]models.Post, 0, 16)
	for rows.Next() {
		p, err := scanPost(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan post: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate posts: %w", err)
	}
	return out, nil
}

// scanPost maps one row; image is nullable in the schema.
func scanPost(scan func(dest ...any) error) (models.Post, error) {
	var (
		p     models.Post
		image sql.NullString
	)
	if err := scan(
		&p.ID,
		&p.Title,
		&p.Description,
		&image,
		&p.UserID,
		&p.UserName,
		&p.CreatedAt,
		&p.UpdatedAt,
	); err != nil {
		return models.Post{}, err
	}
	if image.Valid {
		p.Image = image.String
	}
	p.CreatedAt = p.CreatedAt.UTC()
	p.UpdatedAt = p.UpdatedAt.UTC()
	return p, nil
}

// nullableString maps "" to NULL so an absent image stays NULL in the store.
func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
