package server

import (
	"strings"

	"github.com/gin-gonic/gin"
	obscontext "github.com/smallbiznis/yieldbook/internal/observability/context"
	"github.com/smallbiznis/yieldbook/internal/usercontext"
)

const defaultUserHeader = "X-User-ID"

// UserContext lifts the authenticated user id set by the gateway into the
// request context. A missing header is left for the service to reject.
func (s *Server) UserContext() gin.HandlerFunc {
	header := strings.TrimSpace(s.cfg.AuthUserHeader)
	if header == "" {
		header = defaultUserHeader
	}
	return func(c *gin.Context) {
		raw := strings.TrimSpace(c.GetHeader(header))
		if raw == "" {
			c.Next()
			return
		}

		userID, err := usercontext.ParseUserID(raw)
		if err != nil {
			AbortWithError(c, err)
			return
		}

		ctx := usercontext.WithUserID(c.Request.Context(), userID)
		ctx = obscontext.WithUserID(ctx, userID.String())
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
