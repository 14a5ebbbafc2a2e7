// @title           Vitema Diet Upload API
// @version         1.0.0
// @description     Uploads diet workbooks, assigns them to client accounts and reports per-account stage progress.

// @securityDefinitions.apikey Bearer
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// Vitema diet upload API.
//
// Administrators upload weekly diet workbooks, which are validated, parsed and
// assigned to client accounts for a period. Progress is exposed as a state
// resource and a server-sent events stream.
package main

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"golang.org/x/sync/errgroup"

	"github.com/noisevisionproductions/Vitema-sub001/docs"
	"github.com/noisevisionproductions/Vitema-sub001/internal/config"
	"github.com/noisevisionproductions/Vitema-sub001/internal/handlers"
	"github.com/noisevisionproductions/Vitema-sub001/internal/logger"
	"github.com/noisevisionproductions/Vitema-sub001/internal/middleware"
	"github.com/noisevisionproductions/Vitema-sub001/internal/services"
	"github.com/noisevisionproductions/Vitema-sub001/internal/stores"
)

const shutdownTimeout = 10 * time.Second

func main() {
	_ = logger.Init(logger.Config{Prefix: "vitema"})

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("failed to load configuration", "err", err)
	}

	if err := logger.Init(logger.Config{Level: cfg.LogLevel, File: cfg.LogFile, Prefix: "vitema"}); err != nil {
		logger.Fatal("failed to initialize logger", "err", err)
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	if baseURL, err := url.Parse(cfg.BaseURL); err == nil && baseURL.Host != "" {
		docs.SwaggerInfo.Host = baseURL.Host
		if baseURL.Scheme == "https" {
			docs.SwaggerInfo.Schemes = []string{"https", "http"}
		} else {
			docs.SwaggerInfo.Schemes = []string{"http"}
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	set, err := stores.Open(ctx, cfg, stores.Options{Migrate: true})
	if err != nil {
		logger.Fatal("failed to open store backend", "backend", cfg.StoreBackend, "err", err)
	}
	defer set.Close()

	// Uploads outlive the request that started them but not the process.
	sessions := services.NewSessionRegistry(ctx, set.Deps())

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           newRouter(cfg, set, sessions),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("server starting", "port", cfg.Port, "backend", set.Backend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		err := srv.Shutdown(shutdownCtx)
		sessions.Close()
		return err
	})

	if err := g.Wait(); err != nil {
		logger.Error("server stopped with error", "err", err)
		os.Exit(1)
	}
	logger.Info("server exited")
}

func newRouter(cfg *config.Config, set *stores.Set, sessions *services.SessionRegistry) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.MaxMultipartMemory = cfg.MaxUploadBytes()

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check (no auth)
	router.GET("/health", handlers.HealthHandler(set.Backend))

	api := router.Group("/api/v1")
	api.Use(middleware.AuthMiddleware(cfg))
	api.Use(middleware.RequireRole(cfg.AdminRole))

	handlers.NewDietUploadHandler(sessions, cfg.MaxUploadBytes()).Register(api.Group("/diet-upload"))
	api.GET("/files", handlers.NewFilesHandler(set.Files).GetFiles)

	return router
}
