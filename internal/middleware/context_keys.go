package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
)

// actorIDKey is the key used to store the acting user's ID in the context.
const actorIDKey = contextKey("actorID")

// actorIDHeader names the header upstream services use to identify the user
// a request is performed on behalf of. Authentication itself happens at the
// surrounding application's gateway, not here.
const actorIDHeader = "X-Actor-ID"

// ActorResolver stores the actor ID from the request header in the request
// context so services can stamp audit fields.
func ActorResolver() gin.HandlerFunc {
	return func(c *gin.Context) {
		if actor := c.GetHeader(actorIDHeader); actor != "" {
			ctx := context.WithValue(c.Request.Context(), actorIDKey, actor)
			c.Request = c.Request.WithContext(ctx)
		}
		c.Next()
	}
}

// GetActorIDFromContext retrieves the acting user ID from the context.
// It returns "system" when no actor was supplied.
func GetActorIDFromContext(ctx context.Context) string {
	if actor, ok := ctx.Value(actorIDKey).(string); ok && actor != "" {
		return actor
	}
	return "system"
}
