package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/wartakota/newsroom-api/internal/service"
)

// Audit stores the client address and user agent on the request context so
// audit-trail writes further down the call chain can pick them up.
func Audit() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := service.WithRequestMeta(c.Request.Context(), service.RequestMeta{
			IPAddress: c.ClientIP(),
			UserAgent: c.GetHeader("User-Agent"),
		})
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
