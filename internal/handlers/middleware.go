package handlers

import (
	"net/http"
	"strings"

	"blog_backend/internal/models"

	"github.com/gin-gonic/gin"
)

// Context keys set by identityMiddleware.
const (
	userIDCtxKey = "userId"
	userCtxKey   = "user"
)

// identityMiddleware verifies the bearer token and attaches the resolved user
// to the request context. No downstream handler runs on failure.
func (h *Handler) identityMiddleware(c *gin.Context) {
	header := c.GetHeader("Authorization")
	if header == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"error": "missing Authorization header",
		})
		return
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"error": "invalid Authorization header format",
		})
		return
	}

	userID, err := h.services.ParseToken(parts[1])
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"error": "invalid or expired token",
		})
		return
	}

	// The token only carries the id; resolve the full user for handlers.
	user, err := h.services.UserByID(userID)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"error": "unknown token subject",
		})
		return
	}

	c.Set(userIDCtxKey, userID)
	c.Set(userCtxKey, user)
	c.Next()
}

// currentUser reads the identity attached by identityMiddleware.
func currentUser(c *gin.Context) (*models.User, bool) {
	v, ok := c.Get(userCtxKey)
	if !ok {
		return nil, false
	}
	u, ok := v.(*models.User)
	return u, ok
}
