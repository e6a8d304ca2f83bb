package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Options struct {
	// AllowOrigins enables CORS for the listed origins. Empty disables CORS.
	AllowOrigins []string
	// Recovery writes the response after a recovered panic.
	Recovery gin.RecoveryFunc
}

// NewRouter returns an engine with panic recovery logged through zap and the CORS policy applied.
func NewRouter(l *zap.Logger, o Options) *gin.Engine {
	r := gin.New()
	if o.Recovery != nil {
		r.Use(ginzap.CustomRecoveryWithZap(l, true, o.Recovery))
	} else {
		r.Use(ginzap.RecoveryWithZap(l, true))
	}
	if len(o.AllowOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     o.AllowOrigins,
			AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"},
			ExposeHeaders:    []string{"X-Request-ID"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}
	return r
}

func BuildServer(addr string, handler http.Handler, rt, wt, it time.Duration) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadTimeout:       rt,
		ReadHeaderTimeout: rt,
		WriteTimeout:      wt,
		IdleTimeout:       it,
		MaxHeaderBytes:    1 << 20,
	}
}

func Addr(host string, port int) string { return fmt.Sprintf("%s:%d", host, port) }

// Run serves until ctx is cancelled, then drains for up to grace.
// A listener failure is returned immediately.
func Run(ctx context.Context, srv *http.Server, l *zap.Logger, grace time.Duration) error {
	errCh := make(chan error, 1)
	go func() {
		l.Info("http starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	sctx, cancel := context.WithTimeout(context.Background(), grace)
	defer cancel()
	if err := srv.Shutdown(sctx); err != nil {
		return err
	}
	l.Info("http stopped gracefully", zap.String("addr", srv.Addr))
	return nil
}
