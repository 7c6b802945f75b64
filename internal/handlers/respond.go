package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"gym-backoffice/internal/apperr"
)

// respondError translates any error into the {"error_code", "message"} body.
func respondError(c *gin.Context, err error) {
	ae := apperr.From(err)
	if ae.Status >= 500 {
		log.Error().Err(err).Str("path", c.FullPath()).Msg("request failed")
	}
	c.JSON(ae.Status, ae)
}

// callerID returns the authenticated user id set by the auth middleware.
func callerID(c *gin.Context) uint {
	return c.MustGet("userID").(uint)
}

func callerRole(c *gin.Context) string {
	role, _ := c.Get("role")
	s, _ := role.(string)
	return s
}
