package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "go.uber.org/automaxprocs"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"go-gin-taskhub/internal/app"
	"go-gin-taskhub/internal/core/config"
	"go-gin-taskhub/internal/core/logger"
	"go-gin-taskhub/internal/core/server"
	"go-gin-taskhub/internal/transport/http/router"
)

func main() {
	_ = godotenv.Load()
	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}
	log, cleanup := app.NewLogger(cfg)
	defer cleanup()
	defer logger.RedirectStdLog(log, zapcore.InfoLevel)()
	if cfg.App.Production() {
		gin.SetMode(gin.ReleaseMode)
	}
	gin.DefaultWriter = logger.ToWriter(log.Named("gin"), zapcore.DebugLevel)

	if err := run(cfg, log); err != nil {
		log.Error("user api exited", zap.Error(err))
		cleanup()
		os.Exit(1)
	}
}

func run(cfg *config.Config, log *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := app.Build(cfg, log)
	if err != nil {
		return err
	}
	defer a.Close()
	if err := a.Bootstrap(ctx); err != nil {
		return err
	}

	r := router.NewAPIEngine(a.RouterDeps(), a.Registry)
	h := cfg.App.HTTP
	addr := server.Addr(h.Host, h.Port)
	srv := server.BuildServer(addr, r,
		time.Duration(h.ReadTimeoutSec)*time.Second,
		time.Duration(h.WriteTimeoutSec)*time.Second,
		time.Duration(h.IdleTimeoutSec)*time.Second,
	)

	host4human := h.Host
	if host4human == "" || host4human == "0.0.0.0" {
		host4human = "127.0.0.1"
	}
	baseURL := fmt.Sprintf("http://%s:%d", host4human, h.Port)
	log.Info("user api starting",
		zap.String("addr", addr),
		zap.String("health", baseURL+"/health"),
		zap.String("api_v1", baseURL+"/api/v1"),
	)
	return server.Run(ctx, srv, log, 10*time.Second)
}
