// Package app wires configuration, storage and HTTP routes into a runnable
// service. cmd/api, cmd/seed and cmd/asset_gc share it.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"portfolio/internal/config"
	"portfolio/internal/database"
	"portfolio/internal/domain/asset"
	"portfolio/internal/domain/content"
	"portfolio/internal/domain/portfolio"
	"portfolio/internal/middleware"
	"portfolio/internal/modules/auth"
	"portfolio/internal/pkg/cache"
	"portfolio/internal/pkg/jwt"
	"portfolio/internal/pkg/response"
)

// App holds the long-lived dependencies of the service.
type App struct {
	Config    *config.Config
	Log       *logrus.Logger
	DB        *gorm.DB
	Backend   asset.Backend
	Assets    *asset.Manager
	Cache     cache.Cache
	Catalog   *content.Catalog
	Portfolio *portfolio.Service
	JWT       *jwt.Service

	closers []func() error
}

// New opens the database, storage backend and cache described by cfg and
// migrates the content tables.
func New(ctx context.Context, cfg *config.Config, log *logrus.Logger) (*App, error) {
	a := &App{Config: cfg, Log: log}

	db, err := database.Connect(cfg.DatabaseURL, log)
	if err != nil {
		return nil, err
	}
	a.DB = db
	if sqlDB, err := db.DB(); err == nil {
		a.closers = append(a.closers, sqlDB.Close)
	}
	if err := content.Migrate(db); err != nil {
		a.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	switch cfg.AssetBackend {
	case config.AssetBackendGCS:
		gcs, err := asset.NewGCSBackend(ctx, cfg.GCSBucket, cfg.GCSPrefix, cfg.GCSCredentialsFile)
		if err != nil {
			a.Close()
			return nil, err
		}
		a.Backend = gcs
		a.closers = append(a.closers, gcs.Close)
	default:
		a.Backend = asset.NewLocalBackend(cfg.AssetRoot, cfg.AssetPublicPath)
	}

	if cfg.RedisURL != "" {
		rdb, err := cache.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("redis: %w", err)
		}
		a.Cache = cache.NewRedisCache(rdb)
		a.closers = append(a.closers, rdb.Close)
		log.Info("portfolio cache: redis")
	} else {
		a.Cache = cache.NewMemoryCache()
		log.Info("portfolio cache: memory")
	}

	a.wire()
	return a, nil
}

// wire builds the domain services on top of the opened dependencies.
func (a *App) wire() {
	a.Assets = asset.NewManager(a.Backend, a.Log)
	a.Catalog = content.NewCatalog(content.Deps{
		DB:             a.DB,
		Assets:         a.Assets,
		Log:            a.Log,
		MaxUploadBytes: a.Config.MaxUploadBytes,
		OnChange:       portfolio.Invalidator(a.Cache, a.Log),
	})
	a.Portfolio = portfolio.NewService(a.Catalog, a.Assets, a.Cache, a.Config.PortfolioCacheTTL, a.Log)
	a.JWT = jwt.New(a.Config.JWTSecret, a.Config.JWTTTL)
}

// Close releases everything New opened, last opened first.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			a.Log.WithError(err).Warn("close failed")
		}
	}
	a.closers = nil
}

// Router builds the gin engine with every route mounted.
func (a *App) Router() *gin.Engine {
	r := gin.New()
	r.MaxMultipartMemory = 8 << 20
	r.Use(middleware.RequestLogger(a.Log), middleware.Recovery(a.Log), middleware.CORS(a.Config.CORSAllowedOrigins))

	if local, ok := a.Backend.(*asset.LocalBackend); ok {
		r.Static(a.Config.AssetPublicPath, local.Root())
	}

	v1 := r.Group("/api/v1")
	{
		v1.GET("/health", a.health)

		portfolio.NewHandler(a.Portfolio).RegisterPublicRoutes(v1)

		authService := auth.NewService(a.Config.AdminEmail, a.Config.AdminPasswordHash, a.JWT)
		auth.NewHandler(authService).RegisterPublicRoutes(v1)

		admin := v1.Group("/admin")
		admin.Use(middleware.JWTAuth(a.JWT), middleware.AdminOnly())
		{
			content.NewHandler(a.Catalog).RegisterRoutes(admin)
		}
	}

	return r
}

func (a *App) health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	sqlDB, err := a.DB.DB()
	if err == nil {
		err = sqlDB.PingContext(ctx)
	}
	if err != nil {
		_ = c.Error(err)
		response.Error(c, http.StatusServiceUnavailable, "UNHEALTHY", "Database unavailable")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"status": "ok"})
}

// Serve runs the HTTP server until ctx is cancelled, then drains in-flight
// requests for up to ten seconds.
func (a *App) Serve(ctx context.Context) error {
	srv := &http.Server{
		Addr:              a.Config.HTTPAddr,
		Handler:           a.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.Log.WithField("addr", srv.Addr).Info("http server listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	a.Log.Info("http server shutting down")
	return srv.Shutdown(shutdownCtx)
}
