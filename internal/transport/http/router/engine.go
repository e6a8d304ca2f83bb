package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"go-gin-taskhub/internal/core/config"
	"go-gin-taskhub/internal/core/server"
	"go-gin-taskhub/internal/domain"
	mdw "go-gin-taskhub/internal/transport/http/middleware"
)

// Deps is what both engines need besides the route modules.
type Deps struct {
	Log          *zap.Logger
	Verifier     mdw.TokenVerifier
	Limits       config.Limits
	AllowOrigins []string
	// Ready reports backing store health for /health. Nil means always ready.
	Ready func() error
}

func newBase(d Deps) *gin.Engine {
	l := d.Log
	if l == nil {
		l = zap.NewNop()
	}
	r := server.NewRouter(l, server.Options{AllowOrigins: d.AllowOrigins, Recovery: mdw.RecoveryResponse})

	chain := []gin.HandlerFunc{mdw.RequestID()}
	lim := d.Limits
	if lim.RatePerSec > 0 {
		chain = append(chain, mdw.RateLimitPerIP(rate.Limit(lim.RatePerSec), max(1, lim.Burst), 10*time.Minute))
	}
	if lim.MaxConcurrent > 0 {
		chain = append(chain, mdw.ConcurrencyLimit(lim.MaxConcurrent))
	}
	if lim.MaxBodyBytes > 0 {
		chain = append(chain, mdw.MaxBodyBytes(lim.MaxBodyBytes))
	}
	if lim.TimeoutSec > 0 {
		chain = append(chain, mdw.Timeout(time.Duration(lim.TimeoutSec)*time.Second))
	}
	chain = append(chain, mdw.Metrics(), mdw.AccessLog(l, "/health", "/metrics"))
	r.Use(chain...)

	r.GET("/health", func(c *gin.Context) {
		if d.Ready != nil {
			if err := d.Ready(); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"ok": 0})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"ok": 1})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	return r
}

// NewAPIEngine serves /api/v1. Modules get a public group and one behind AuthJWT.
func NewAPIEngine(d Deps, reg *Registry) *gin.Engine {
	r := newBase(d)
	api := r.Group("/api/v1")
	authed := api.Group("")
	authed.Use(mdw.AuthJWT(d.Verifier))
	reg.MountAllAPI(api, authed)
	return r
}

// NewAdminEngine serves /admin/v1 to Admin tokens only.
func NewAdminEngine(d Deps, reg *Registry) *gin.Engine {
	r := newBase(d)
	admin := r.Group("/admin/v1")
	admin.Use(mdw.AuthJWT(d.Verifier, domain.RoleAdmin))
	reg.MountAllAdmin(admin)
	return r
}
