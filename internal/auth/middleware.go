package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"librarium/internal/database/users"
)

// Context keys for authenticated user data
const (
	ContextKeyUserID    = "auth_user_id"
	ContextKeyUserEmail = "auth_user_email"
)

// Middleware authenticates requests with a bearer token and injects the
// resolved user into the gin context.
type Middleware struct {
	users  *users.Repository
	tokens *TokenManager
}

// NewMiddleware creates a new authentication middleware.
func NewMiddleware(repo *users.Repository, tokens *TokenManager) *Middleware {
	return &Middleware{users: repo, tokens: tokens}
}

// Handler returns a gin middleware that rejects requests without a valid
// bearer token belonging to an active user.
func (m *Middleware) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortUnauthorized(c, "authentication required")
			return
		}

		const prefix = "Bearer "
		if !strings.HasPrefix(authHeader, prefix) {
			abortUnauthorized(c, "invalid authorization header")
			return
		}

		userID, err := m.tokens.Verify(strings.TrimSpace(authHeader[len(prefix):]))
		if err != nil {
			abortUnauthorized(c, "invalid token")
			return
		}

		// Tokens of deactivated users stop working immediately.
		user, err := m.users.GetByID(userID)
		if err != nil {
			abortUnauthorized(c, "invalid token")
			return
		}

		c.Set(ContextKeyUserID, user.ID)
		c.Set(ContextKeyUserEmail, user.Email)
		c.Next()
	}
}

// GetUserID extracts the authenticated user's ID from the gin context.
// Returns an empty string on unauthenticated requests.
func GetUserID(c *gin.Context) string {
	return c.GetString(ContextKeyUserID)
}

func abortUnauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": message})
}
