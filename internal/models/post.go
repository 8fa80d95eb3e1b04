package models

import "time"

// Post is a single blog entry. UserID/UserName identify the author and are
// fixed at creation; only the author may update or delete the post.
type Post struct {
	ID          int       `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Image       string    `json:"image,omitempty"` // public URL of the uploaded image
	UserID      int       `json:"user_id"`
	UserName    string    `json:"user_name"` // author name denormalized at creation
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
