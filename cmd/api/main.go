package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"

	"portfolio/internal/app"
	"portfolio/internal/config"
	"portfolio/internal/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	l := logger.New(cfg.LogLevel)
	if cfg.IsProdLike() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg, l)
	if err != nil {
		l.WithError(err).Fatal("startup failed")
	}
	defer a.Close()

	if err := a.Serve(ctx); err != nil {
		l.WithError(err).Error("server stopped")
	}
}
