package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/modeltrust/registry/internal/cache"
	"github.com/modeltrust/registry/internal/errors"
	"github.com/modeltrust/registry/internal/metrics"
	"github.com/modeltrust/registry/internal/monitoring"
	"github.com/modeltrust/registry/internal/ratelimit"
	"github.com/modeltrust/registry/internal/registry"
	"github.com/modeltrust/registry/internal/resolver"
)

func main() {
	// Structured logging setup
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	// Configuration from environment with defaults
	port := getEnvOrDefault("PORT", "8080")
	dataDir := getEnvOrDefault("DATA_DIR", "./data")
	hfToken := os.Getenv("HF_TOKEN")
	githubToken := os.Getenv("GITHUB_TOKEN")
	redisURL := os.Getenv("REDIS_URL")
	threshold := getEnvFloat("INGEST_THRESHOLD", metrics.DefaultIngestThreshold)
	maxWorkers := getEnvInt("MAX_WORKERS", 0)

	// Initialize registry storage
	db, err := registry.NewDB(dataDir)
	if err != nil {
		slog.Error("Failed to initialize database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	store := registry.NewStore(db)

	// Initialize the metrics engine
	calculator, err := metrics.NewCalculator(metrics.Config{MaxWorkers: maxWorkers}, logger)
	if err != nil {
		slog.Error("Failed to initialize calculator", "error", err)
		os.Exit(1)
	}

	// Initialize artifact resolver
	res := resolver.New(hfToken, githubToken, logger)

	// Initialize monitoring system
	appMetrics := monitoring.NewMetrics()
	appLogger := monitoring.NewLogger()

	// Initialize rate limiting (Redis with in-memory fallback)
	redisClient, err := ratelimit.NewRedisClient(redisURL)
	if err != nil {
		slog.Warn("Redis unavailable, continuing with in-memory rate limiting", "error", err)
	}
	defer redisClient.Close()

	limiterConfig := ratelimit.DefaultConfig()
	limiter := ratelimit.NewRateLimiter(redisClient, limiterConfig, appMetrics)
	defer limiter.Close()

	// Initialize cache (15 minutes TTL) for rating reads
	appCache := cache.NewCache(15 * time.Minute)

	srv := newServer(store, calculator, res, appCache, appMetrics, appLogger, threshold)

	r := gin.New()

	// Monitoring middleware first (to capture all requests)
	r.Use(monitoring.MonitoringMiddleware(appMetrics, appLogger))

	// Error handling middleware
	r.Use(errors.ErrorHandler())
	r.Use(errors.RecoveryHandler())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "Authorization", "X-Authorization")
	corsConfig.ExposeHeaders = []string{"X-Offset"}
	r.Use(cors.New(corsConfig))

	r.Use(limiter.IPRateLimitMiddleware())
	r.Use(appCache.Middleware(appMetrics))

	registerRoutes(r, srv, limiter)

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Start server with graceful shutdown
	httpSrv := &http.Server{
		Addr:    ":" + port,
		Handler: r,
	}

	go func() {
		slog.Info("Starting server", "port", port, "data_dir", dataDir, "ingest_threshold", threshold)
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpSrv.Shutdown(ctx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("Server exited")
}

// registerRoutes wires every registry endpoint. Artifact types stay a path
// parameter throughout so the router never mixes static and param segments
// at the same position; handlers validate the type themselves.
func registerRoutes(r *gin.Engine, srv *server, limiter *ratelimit.RateLimiter) {
	r.GET("/health", srv.handleHealth)
	r.GET("/metrics", srv.handleMetrics)
	r.GET("/cache/stats", srv.handleCacheStats)
	r.DELETE("/reset", srv.handleReset)

	r.POST("/artifacts", srv.handleListArtifacts)
	r.GET("/artifact/byName/*name", srv.handleArtifactByName)
	r.POST("/artifact/byRegEx", srv.handleArtifactByRegex)

	r.POST("/artifact/:type", srv.handleCreateArtifact)
	r.GET("/artifact/:type/:id", srv.handleGetArtifact)
	r.PUT("/artifact/:type/:id", srv.handleUpdateArtifact)
	r.DELETE("/artifact/:type/:id", srv.handleDeleteArtifact)

	// Ingest fans out to the hosting APIs, so it carries a tighter budget.
	r.POST("/artifact/:type/ingest",
		limiter.EndpointRateLimitMiddleware("ingest", ratelimit.DefaultConfig().IngestLimitPerMin),
		srv.handleIngestModel)

	r.GET("/artifact/:type/:id/rate", srv.handleRateModel)
	r.POST("/artifact/:type/:id/license-check", srv.handleLicenseCheck)
	r.GET("/artifact/:type/:id/lineage", srv.handleLineage)
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
		slog.Warn("Invalid float in environment, using default", "key", key, "value", value)
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
		slog.Warn("Invalid integer in environment, using default", "key", key, "value", value)
	}
	return defaultValue
}
