package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/apex/log"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"plant-identification-service/config"
	"plant-identification-service/handlers"
	"plant-identification-service/metrics"
	"plant-identification-service/middleware"
	"plant-identification-service/services"
)

const (
	EndPointHealth        = "/health"
	EndPointIdentify      = "/identify"
	EndPointDetectDisease = "/detect-disease"
	EndPointOrgans        = "/organs"
	EndPointMetrics       = "/metrics"
)

func main() {
	// Load configuration
	cfg := config.Load()

	if cfg.PlantNetAPIKey == "" {
		log.Warn("PLANTNET_API_KEY is not set. Species identification will be unavailable.")
	}
	if cfg.PlantIDAPIKey == "" {
		log.Warn("PLANT_ID_API_KEY is not set. The plantid disease backend will be unavailable.")
	}
	if cfg.DiseaseAPIKey() == "" {
		log.Warn("PLANTNET_DISEASE_API_KEY is not set. The plantnet disease backend will be unavailable.")
	}

	log.Info("Starting the plant identification service...")

	metrics.Register()

	// Initialize handlers
	plantHandler := handlers.NewPlantHandler(services.NewPlantService(cfg))

	// Setup HTTP server
	router := setupRouter(cfg, plantHandler)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	// Start server in a goroutine
	go func() {
		log.Infof("Plant identification service starting on port %s", cfg.Port)
		log.Infof("Allowed origins: %s", cfg.AllowedOrigins)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start HTTP server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	// Create a deadline for server shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Info("Server exited")
}

func setupRouter(cfg *config.Config, plantHandler *handlers.PlantHandler) *gin.Engine {
	router := gin.Default()

	// Add CORS middleware
	router.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))

	router.GET(EndPointHealth, plantHandler.HealthCheck)
	router.GET(EndPointOrgans, plantHandler.ListOrgans)
	router.POST(EndPointIdentify, plantHandler.IdentifyPlant)
	router.POST(EndPointDetectDisease, plantHandler.DetectDisease)

	// Prometheus metrics
	router.GET(EndPointMetrics, gin.WrapH(promhttp.Handler()))

	return router
}
