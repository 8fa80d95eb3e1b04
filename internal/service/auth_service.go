package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"blog_backend/internal/models"
	"blog_backend/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// Tokens stay valid for 10 days from issuance; there is no revocation list.
const tokenTTL = 240 * time.Hour

// AuthService handles registration, login and token verification.
type AuthService struct {
	users      repository.Users
	signingKey []byte
}

// NewAuthService takes the user store and the process-wide signing secret.
// The secret must be validated as non-empty at startup, before construction.
func NewAuthService(users repository.Users, signingKey []byte) *AuthService {
	return &AuthService{users: users, signingKey: signingKey}
}

// Claims defines JWT claims
type Claims struct {
	jwt.RegisteredClaims
	UserID int `json:"user_id"`
}

// Register creates a new user with a hashed password. A taken email
// short-circuits with ErrEmailTaken before anything is persisted.
func (s *AuthService) Register(name, email, password string) (*models.User, error) {
	existing, err := s.users.GetByEmail(email)
	if err != nil {
		return nil, fmt.Errorf("lookup user by email: %w", err)
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	hash, err := hashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("invalid password: %w", err)
	}

	id, err := s.users.Create(name, email, hash)
	if err != nil {
		return nil, err
	}

	return &models.User{ID: id, Name: name, Email: email, PasswordHash: hash}, nil
}

// Login validates credentials and returns a signed JWT plus the user.
func (s *AuthService) Login(email, password string) (string, *models.User, error) {
	u, err := s.users.GetByEmail(email)
	if err != nil {
		return "", nil, err
	}
	if u == nil {
		return "", nil, ErrUserNotFound
	}

	if err := verifyPassword(u.PasswordHash, password); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	token, err := s.issueToken(u.ID)
	if err != nil {
		return "", nil, err
	}
	return token, u, nil
}

// ParseToken verifies the JWT and returns the subject user id. An invalid,
// expired or foreign-signed token never yields a subject.
func (s *AuthService) ParseToken(accessToken string) (int, error) {
	token, err := jwt.ParseWithClaims(accessToken, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		// Ensure HMAC signing is used
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.signingKey, nil
	})
	if err != nil {
		return 0, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return 0, ErrInvalidToken
	}

	return claims.UserID, nil
}

// UserByID resolves the full user behind a verified token subject.
func (s *AuthService) UserByID(id int) (*models.User, error) {
	u, err := s.users.GetByID(id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrUserNotFound
	}
	return u, nil
}

// helper: hash password safely
func hashPassword(password string) (string, error) {
	if strings.TrimSpace(password) == "" {
		return "", errors.New("password is empty")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// helper: verify password against hash
func verifyPassword(hash, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}

// helper: issue a signed JWT for a user
func (s *AuthService) issueToken(userID int) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		UserID: userID,
	})
	return token.SignedString(s.signingKey)
}
