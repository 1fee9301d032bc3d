package jwtmw

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"skateswap/internal/feature/auth/domain/entity"
)

const (
	ContextUserID   = "userID"
	ContextUsername = "username"
	ContextEmail    = "email"
)

// Verifier decodes a token string.
type Verifier interface {
	Verify(token string) (*entity.TokenClaims, bool)
}

// AuthRequired returns a Gin middleware that admits only requests carrying a
// valid session token.
func AuthRequired(v Verifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		// 1. Get Authorization header
		auth := c.GetHeader("Authorization")
		if !strings.HasPrefix(auth, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "not authorized, no token"})
			return
		}
		tokenStr := strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
		if tokenStr == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "not authorized, no token"})
			return
		}

		// 2. Verify signature, expiry and purpose
		// Verification and reset tokens are signed with the same key, so the purpose check is what keeps them out.
		claims, ok := v.Verify(tokenStr)
		if !ok || claims.Purpose != entity.PurposeSession {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "not authorized, invalid token"})
			return
		}

		// 3. Expose the subject to handlers
		c.Set(ContextUserID, claims.SubjectID)
		c.Set(ContextUsername, claims.Username)
		c.Set(ContextEmail, claims.Email)
		c.Next()
	}
}

// UserID returns the authenticated user's ID set by AuthRequired.
func UserID(c *gin.Context) (string, bool) {
	id := c.GetString(ContextUserID)
	return id, id != ""
}
