package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alimgiray/commitboard/internal/handlers"
	"github.com/alimgiray/commitboard/internal/middleware"
	"github.com/alimgiray/commitboard/internal/services"
	"github.com/alimgiray/commitboard/pkg/config"
	"github.com/alimgiray/commitboard/pkg/logger"
	"github.com/gin-gonic/gin"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}

	logger.Init()
	gin.SetMode(cfg.Server.Mode)

	roster, err := services.LoadRoster(cfg.Dashboard.RosterPath)
	if err != nil {
		logger.Fatalf("Failed to load roster: %v", err)
	}
	logger.WithField("members", len(roster)).Info("Roster loaded")

	// Initialize dependencies
	githubService, err := services.NewGitHubService(cfg.GitHub)
	if err != nil {
		logger.Fatalf("Failed to create GitHub client: %v", err)
	}
	if !githubService.HasCredential() {
		logger.Warnf("GITHUB_TOKEN is not set, stats requests will fail")
	}

	statsService := services.NewStatsService(githubService, cfg.Proxy.FallbackAvatar, cfg.GitHub.MaxConcurrency)
	proxyClient := services.NewProxyClient(cfg.Dashboard.StatsProxyURL, time.Duration(cfg.Server.WriteTimeout)*time.Second)
	exportService := services.NewExportService()

	h := handlers.Handlers{
		Stats: handlers.NewStatsHandler(statsService),
		Dashboard: handlers.NewDashboardHandler(roster, proxyClient, exportService, handlers.DashboardConfig{
			Title:               cfg.Dashboard.Title,
			FallbackAvatar:      cfg.Proxy.FallbackAvatar,
			CalendarURLTemplate: cfg.Dashboard.CalendarURLTemplate,
		}),
		Health:   handlers.NewHealthHandler(),
		NotFound: handlers.NewNotFoundHandler(cfg.Dashboard.Title),
	}

	// Initialize router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(logger.GetLogger()))

	handlers.SetupRoutes(router, h, cfg.Proxy.AllowedOrigins)

	// Setup server
	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	// Graceful shutdown
	go func() {
		logger.Infof("Server starting on :%s", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Infof("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.WithError(err).Error("Server forced to shut down")
	}

	logger.Infof("Server stopped")
}
