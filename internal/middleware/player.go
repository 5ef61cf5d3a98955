package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mediquiz/mediquiz-backend/internal/response"
)

// ContextKeyPlayerID is the Gin context key for the caller's player ID.
const ContextKeyPlayerID = "player_id"

// PlayerIDHeader identifies the caller. Authentication itself lives in
// front of this service; the engine only needs a stable opaque ID to
// scope sessions and history.
const PlayerIDHeader = "X-Player-ID"

// RequirePlayerID rejects requests without a player ID header.
func RequirePlayerID() gin.HandlerFunc {
	return func(c *gin.Context) {
		playerID := c.GetHeader(PlayerIDHeader)
		if playerID == "" {
			response.AbortFail(c, http.StatusBadRequest, response.ErrPlayerIDRequired)
			return
		}
		c.Set(ContextKeyPlayerID, playerID)
		c.Next()
	}
}

// GetPlayerID returns the player ID set by RequirePlayerID, or "".
func GetPlayerID(c *gin.Context) string {
	id, _ := c.Get(ContextKeyPlayerID)
	playerID, _ := id.(string)
	return playerID
}
