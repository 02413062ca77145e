package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/arogyalink/health-portal/internal/auth"
)

const (
	ContextActorKind = "actorKind"
	ContextActorID   = "actorID"
	ContextClaims    = "authClaims"
)

// TokenVerifier is the part of auth.TokenService the middleware needs.
type TokenVerifier interface {
	Verify(ctx context.Context, tokenString string) (*auth.Claims, error)
}

// AuthMiddleware resolves the caller from the bearer token. When kinds is
// non-empty only those actor kinds pass; otherwise any authenticated actor does.
func AuthMiddleware(tokens TokenVerifier, kinds ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Authorization header is missing"})
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Invalid authorization header"})
			return
		}

		claims, err := tokens.Verify(c.Request.Context(), parts[1])
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Please authenticate"})
			return
		}

		if len(kinds) > 0 && !kindAllowed(claims.ActorKind, kinds) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Please authenticate"})
			return
		}

		c.Set(ContextActorKind, claims.ActorKind)
		c.Set(ContextActorID, claims.ActorID)
		c.Set(ContextClaims, claims)

		c.Next()
	}
}

func kindAllowed(kind string, kinds []string) bool {
	for _, k := range kinds {
		if k == kind {
			return true
		}
	}
	return false
}
