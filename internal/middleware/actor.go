package middleware

import (
	"strconv"

	"github.com/coralcms/coral-backend/internal/domain"
	"github.com/gin-gonic/gin"
)

// GetActor builds the actor context from the identity headers the gateway
// injects after authentication (X-Actor-ID, X-Actor-Name, X-Actor-Role).
// An unauthenticated request yields an unresolved context; the snapshot
// service substitutes the System actor in that case.
func GetActor(c *gin.Context) domain.ActorContext {
	actor := domain.ActorContext{
		Name: c.GetHeader("X-Actor-Name"),
		Role: c.GetHeader("X-Actor-Role"),
	}
	if header := c.GetHeader("X-Actor-ID"); header != "" {
		if id, err := strconv.ParseUint(header, 10, 64); err == nil {
			actor.ID = &id
		}
	}
	return actor
}
