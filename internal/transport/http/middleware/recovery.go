package middleware

import (
	"github.com/gin-gonic/gin"

	resp "go-gin-taskhub/internal/transport/http/response"
)

// RecoveryResponse is the body sent after a recovered panic; logging is done by ginzap.
func RecoveryResponse(c *gin.Context, _ any) {
	resp.Abort(c, resp.Error(resp.CodeServerError, "internal error"))
}
