package middleware

import (
	"context"
	"errors"
	"time"

	"github.com/gin-gonic/gin"

	resp "go-gin-taskhub/internal/transport/http/response"
)

// Timeout puts a deadline on the request context. Handlers that overrun it
// without writing get a timeout envelope.
func Timeout(d time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), d)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)
		c.Next()
		if errors.Is(ctx.Err(), context.DeadlineExceeded) && !c.Writer.Written() {
			resp.Abort(c, resp.Error(resp.CodeTimeout, "timeout"))
		}
	}
}
