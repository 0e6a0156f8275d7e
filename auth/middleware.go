package auth

import (
	"context"
	"net/http"
	"strings"

	firebaseauth "firebase.google.com/go/auth"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"go-relieflink/types"
)

const identityKey = "identity"

// TokenVerifier checks a Firebase ID token. *auth.Client satisfies it.
type TokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*firebaseauth.Token, error)
}

// Identity is the authenticated caller.
type Identity struct {
	UID   string
	Email string
	Name  string
	Role  types.Role
}

// Middleware verifies the bearer token and resolves the caller's role.
func Middleware(verifier TokenVerifier, svc *Service, log *zap.Logger) gin.HandlerFunc {
	log = log.Named("auth")
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		idToken, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(idToken) == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}

		token, err := verifier.VerifyIDToken(c.Request.Context(), strings.TrimSpace(idToken))
		if err != nil {
			log.Debug("token rejected", zap.Error(err))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		role, err := svc.ResolveRole(c.Request.Context(), token.UID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadGateway, gin.H{"error": "could not resolve role"})
			return
		}

		c.Set(identityKey, Identity{
			UID:   token.UID,
			Email: claim(token, "email"),
			Name:  claim(token, "name"),
			Role:  role,
		})
		c.Next()
	}
}

// RequireRole aborts with 403 unless the caller holds one of roles.
func RequireRole(roles ...types.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := IdentityFrom(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
			return
		}
		for _, r := range roles {
			if id.Role == r {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "insufficient role"})
	}
}

func IdentityFrom(c *gin.Context) (Identity, bool) {
	v, ok := c.Get(identityKey)
	if !ok {
		return Identity{}, false
	}
	id, ok := v.(Identity)
	return id, ok
}

func claim(token *firebaseauth.Token, key string) string {
	if v, ok := token.Claims[key].(string); ok {
		return v
	}
	return ""
}
