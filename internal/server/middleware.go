package server

import (
	"strconv"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
)

const (
	HeaderUser     = "X-User-ID"
	HeaderTimezone = "User-Timezone"

	contextUserIDKey = "user_id"
)

// UserRequired resolves the calling user from the X-User-ID header. Identity
// verification happens upstream at the gateway; this service trusts the
// header.
func (s *Server) UserRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := strings.TrimSpace(c.GetHeader(HeaderUser))
		if raw == "" {
			AbortWithError(c, ErrUnauthorized)
			return
		}

		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			AbortWithError(c, ErrUnauthorized)
			return
		}

		c.Set(contextUserIDKey, snowflake.ID(id))
		c.Next()
	}
}

func userID(c *gin.Context) snowflake.ID {
	id, _ := c.Get(contextUserIDKey)
	uid, _ := id.(snowflake.ID)
	return uid
}

func parseIDParam(c *gin.Context, name string) (snowflake.ID, error) {
	raw := strings.TrimSpace(c.Param(name))
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, newValidationError(name, "invalid_"+name, "invalid "+name)
	}
	return snowflake.ID(id), nil
}
