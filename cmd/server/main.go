package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mineralwatch/api/internal/authstore"
	"github.com/mineralwatch/api/internal/cache"
	"github.com/mineralwatch/api/internal/config"
	"github.com/mineralwatch/api/internal/database"
	"github.com/mineralwatch/api/internal/handlers"
	"github.com/mineralwatch/api/internal/logger"
	"github.com/mineralwatch/api/internal/middleware"
	"github.com/mineralwatch/api/internal/repository"
	"github.com/mineralwatch/api/internal/resolver"
	"github.com/mineralwatch/api/internal/services"
)

const (
	shutdownTimeout = 30 * time.Second
)

func main() {
	// Load configuration from environment variables
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize structured logger
	log := logger.New(cfg.Server.Env)
	log.Info("Starting MineralWatch API", map[string]interface{}{
		"version":     "0.1.0",
		"environment": cfg.Server.Env,
		"port":        cfg.Server.Port,
	})

	// Connect the replica pool when one is configured. A connect failure is
	// not fatal; the resolver serves everything from the record store until
	// the replica comes back and the process is restarted.
	ctx := context.Background()
	var db *database.Database
	var linkRepo repository.LinkRepository
	if cfg.Database.Enabled() {
		db, err = database.NewPostgresPool(ctx, cfg.Database)
		if err != nil {
			log.Warn("Replica connection failed, running fallback-only", map[string]interface{}{
				"host":  cfg.Database.Host,
				"port":  cfg.Database.Port,
				"name":  cfg.Database.Name,
				"error": err.Error(),
			})
			db = nil
		} else {
			defer db.Close()
			linkRepo = repository.NewLinkRepository(db, cfg.Database, log)
			log.Info("Replica connection established", map[string]interface{}{
				"host":     cfg.Database.Host,
				"port":     cfg.Database.Port,
				"database": cfg.Database.Name,
				"pool_min": cfg.Database.PoolMin,
				"pool_max": cfg.Database.PoolMax,
			})
		}
	} else {
		log.Info("No replica configured, running fallback-only", nil)
	}

	// Authoritative record store client and dual-store resolver
	records := authstore.NewClient(cfg.Records, log)
	res := resolver.New(linkRepo, records, log)

	// Portfolio cache and aggregation service
	portfolios := cache.NewPortfolioCache(cfg.Cache.PortfolioTTL)
	linkCountsService := services.NewLinkCountsService(res, portfolios, log)

	// Setup Gin router
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	// Add middleware in order: RequestID -> Logger -> Recovery -> CORS
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(log))
	router.Use(middleware.Recovery(log))
	router.Use(middleware.CORS(cfg.CORS.Origins))

	// Register health check routes
	healthHandler := handlers.NewHealthHandler(db, cfg.Server.Env)
	router.GET("/health", healthHandler.Health)
	router.GET("/health/ready", healthHandler.Ready)
	router.GET("/api/v1/info", healthHandler.Info)

	// Initialize handlers
	linkCountsHandler := handlers.NewLinkCountsHandler(linkCountsService)

	// Register API v1 routes
	v1 := router.Group("/api/v1")
	{
		properties := v1.Group("/properties")
		{
			properties.GET("/link-counts", linkCountsHandler.LinkCounts)
		}
	}

	// Create HTTP server
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: router,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server listening", map[string]interface{}{
			"port": cfg.Server.Port,
			"addr": srv.Addr,
		})
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start", err, nil)
		}
	}()

	// Wait for interrupt signal (SIGINT or SIGTERM)
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	// Graceful shutdown
	log.Info("Shutting down server...", nil)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", err, map[string]interface{}{
			"timeout": shutdownTimeout.String(),
		})
	}

	log.Info("Server exited", nil)
}
