package middleware

import (
	"net/http"
	"strings"

	"titlehub/internal/authz"
	"titlehub/internal/service"

	"github.com/gin-gonic/gin"
)

const actorKey = "actor"

// Authenticate resolves the bearer token into an actor and stores it in the
// context. No header means the anonymous actor: safe methods stay public and
// the authorize engine decides what anonymous callers may do. A present but
// invalid token is rejected here.
func Authenticate(authService service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.Set(actorKey, authz.Anonymous())
			c.Next()
			return
		}

		// format: "Bearer <token>"
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization header format"})
			c.Abort()
			return
		}

		claims, err := authService.ValidateToken(parts[1])
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			c.Abort()
			return
		}

		c.Set(actorKey, authz.Actor{
			ID:            claims.UserID,
			Username:      claims.Username,
			Role:          claims.Role,
			Superuser:     claims.Superuser,
			Authenticated: true,
		})
		c.Next()
	}
}

// ActorFrom returns the actor placed in the context by Authenticate; anywhere
// the middleware did not run, the caller is anonymous.
func ActorFrom(c *gin.Context) authz.Actor {
	if v, exists := c.Get(actorKey); exists {
		if actor, ok := v.(authz.Actor); ok {
			return actor
		}
	}
	return authz.Anonymous()
}

// SetActor is used by handler tests to inject an actor without a token.
func SetActor(c *gin.Context, actor authz.Actor) {
	c.Set(actorKey, actor)
}
