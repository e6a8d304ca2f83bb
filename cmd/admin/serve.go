package main

import (
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"go-gin-taskhub/internal/core/logger"
	"go-gin-taskhub/internal/core/server"
	"go-gin-taskhub/internal/transport/http/router"
)

func NewServeCmd(f *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the admin API (/admin/v1)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, release, err := f.build()
			if err != nil {
				return err
			}
			defer release()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			if err := a.Bootstrap(ctx); err != nil {
				return err
			}
			if a.Cfg.App.Production() {
				gin.SetMode(gin.ReleaseMode)
			}
			gin.DefaultWriter = logger.ToWriter(a.Log.Named("gin"), zapcore.DebugLevel)

			h := a.Cfg.App.Admin
			addr := server.Addr(h.Host, h.Port)
			srv := server.BuildServer(addr, router.NewAdminEngine(a.RouterDeps(), a.Registry),
				time.Duration(h.ReadTimeoutSec)*time.Second,
				time.Duration(h.WriteTimeoutSec)*time.Second,
				time.Duration(h.IdleTimeoutSec)*time.Second,
			)
			host4human := h.Host
			if host4human == "" || host4human == "0.0.0.0" {
				host4human = "127.0.0.1"
			}
			baseURL := fmt.Sprintf("http://%s:%d", host4human, h.Port)
			a.Log.Info("admin api starting",
				zap.String("addr", addr),
				zap.String("health", baseURL+"/health"),
				zap.String("admin_v1", baseURL+"/admin/v1"),
			)
			return server.Run(ctx, srv, a.Log, 10*time.Second)
		},
	}
}
