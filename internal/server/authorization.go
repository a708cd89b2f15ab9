package server

import (
	"github.com/gin-gonic/gin"
	"github.com/smallbiznis/yieldbook/internal/authorization"
	earningsdomain "github.com/smallbiznis/yieldbook/internal/earnings/domain"
	"github.com/smallbiznis/yieldbook/internal/usercontext"
)

// RequireEarningsAccess checks the casbin policy for the earner role in the
// path. Anonymous requests pass through so the service can answer 401.
func (s *Server) RequireEarningsAccess() gin.HandlerFunc {
	return func(c *gin.Context) {
		if s.authzSvc == nil {
			c.Next()
			return
		}

		userID, ok := usercontext.UserIDFromContext(c.Request.Context())
		if !ok {
			c.Next()
			return
		}

		role, err := earningsdomain.ParseRole(c.Param("role"))
		if err != nil {
			AbortWithError(c, err)
			return
		}
		object, _ := authorization.ObjectForRole(string(role))

		if err := s.authzSvc.Authorize(c.Request.Context(), "user:"+userID.String(), object, authorization.ActionView); err != nil {
			AbortWithError(c, err)
			return
		}
		c.Next()
	}
}
