package service

import (
	"errors"
	"strings"
)

// Domain errors mapped to HTTP statuses at the handler boundary.
var (
	ErrEmailTaken         = errors.New("user already exists")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
	ErrPostNotFound       = errors.New("post not found")
	ErrNotPostOwner       = errors.New("post belongs to another user")
)

// FieldError describes a single violated input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// FieldErrors aggregates per-field validation failures so a response can list
// every violation at once.
type FieldErrors struct {
	Fields []FieldError
}

func (e *FieldErrors) Error() string {
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		msgs = append(msgs, f.Field+": "+f.Message)
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}
