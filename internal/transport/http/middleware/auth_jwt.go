package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"go-gin-taskhub/internal/core/auth"
	"go-gin-taskhub/internal/domain"
	resp "go-gin-taskhub/internal/transport/http/response"
)

const (
	KeyCaller = "caller"
	KeyClaims = "claims"
)

// TokenVerifier resolves a bearer token into the calling identity.
type TokenVerifier interface {
	VerifyToken(token string) (domain.Caller, *auth.Claims, error)
}

// AuthJWT rejects requests without a valid bearer token. When roles are given
// the caller must hold one of them.
func AuthJWT(v TokenVerifier, roles ...domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		ah := c.GetHeader("Authorization")
		if !strings.HasPrefix(ah, "Bearer ") {
			resp.Abort(c, resp.Error(resp.CodeUnauthorized, "missing token"))
			return
		}
		caller, claims, err := v.VerifyToken(strings.TrimSpace(strings.TrimPrefix(ah, "Bearer ")))
		if err != nil {
			msg := "invalid token"
			if domain.IsCode(err, domain.CodeExpiredToken) {
				msg = "token expired"
			}
			resp.Abort(c, resp.Error(resp.CodeUnauthorized, msg))
			return
		}
		if len(roles) > 0 && !hasRole(caller.Role, roles) {
			resp.Abort(c, resp.Error(resp.CodeForbidden, "forbidden"))
			return
		}
		c.Set(KeyCaller, caller)
		c.Set(KeyClaims, claims)
		c.Next()
	}
}

func hasRole(r domain.Role, allowed []domain.Role) bool {
	for _, a := range allowed {
		if r == a {
			return true
		}
	}
	return false
}

// CallerFrom returns the caller stored by AuthJWT.
func CallerFrom(c *gin.Context) (domain.Caller, bool) {
	v, ok := c.Get(KeyCaller)
	if !ok {
		return domain.Caller{}, false
	}
	caller, ok := v.(domain.Caller)
	return caller, ok
}
