package middleware

import (
	"context"
	"net/http"
	"strings"

	"Book_Club/internal/pkg"

	"github.com/gin-gonic/gin"
)

const ContextUserIDKey = "user_id"

// TokenChecker is the part of the token store the middleware needs.
type TokenChecker interface {
	Get(ctx context.Context, userID uint64) (string, error)
	Extend(ctx context.Context, userID uint64) error
}

// AuthMiddleware accepts a bearer access token only while it is the user's stored token.
func AuthMiddleware(issuer *pkg.TokenIssuer, tokens TokenChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing authorization header"})
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization format"})
			return
		}
		tokenStr := parts[1]

		claims, err := issuer.ParseAccess(tokenStr)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			return
		}

		ctx := c.Request.Context()
		stored, err := tokens.Get(ctx, claims.UserID)
		if err != nil || stored != tokenStr {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "token revoked or replaced by a newer login"})
			return
		}

		// slide the expiry on every authorized request
		if err := tokens.Extend(ctx, claims.UserID); err != nil {
			Logger(c).WithError(err).Error("extend token")
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
			return
		}

		c.Set(ContextUserIDKey, claims.UserID)
		c.Next()
	}
}
