package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const userContextKey = "currentUserID"

// AnonIDHeader carries the client-generated anonymous identity for
// unauthenticated owners.
const AnonIDHeader = "X-Anon-ID"

// Middleware validates Bearer JWTs and loads the authenticated user ID into
// the request context. Requests without a valid token are rejected.
func Middleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := parseBearer(c, secret)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or missing token"})
			return
		}
		c.Set(userContextKey, userID)
		c.Next()
	}
}

// OptionalMiddleware loads the user ID when a valid token is present but
// allows anonymous requests through. Cart and favorites work for both.
func OptionalMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if userID, ok := parseBearer(c, secret); ok {
			c.Set(userContextKey, userID)
		}
		c.Next()
	}
}

// AdminMiddleware gates the catalog management routes behind the configured
// admin token.
func AdminMiddleware(adminToken string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header != "Bearer "+adminToken {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid admin credentials"})
			return
		}
		c.Next()
	}
}

// CurrentUserID extracts the authenticated user ID from the request context.
func CurrentUserID(c *gin.Context) (uuid.UUID, bool) {
	value, exists := c.Get(userContextKey)
	if !exists {
		return uuid.Nil, false
	}
	id, ok := value.(uuid.UUID)
	return id, ok
}

// OwnerID resolves the identity that cart and favorites snapshots are keyed
// by: the authenticated user ID when present, otherwise the anonymous ID the
// client sends. Returns false when neither is available.
func OwnerID(c *gin.Context) (string, bool) {
	if userID, ok := CurrentUserID(c); ok {
		return "user:" + userID.String(), true
	}
	if anonID := strings.TrimSpace(c.GetHeader(AnonIDHeader)); anonID != "" {
		return "anon:" + anonID, true
	}
	return "", false
}

func parseBearer(c *gin.Context, secret string) (uuid.UUID, bool) {
	header := c.GetHeader("Authorization")
	if header == "" {
		return uuid.Nil, false
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return uuid.Nil, false
	}
	userID, err := ParseToken(secret, parts[1])
	if err != nil {
		return uuid.Nil, false
	}
	return userID, true
}
