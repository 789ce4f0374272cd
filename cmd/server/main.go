package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"shipment-prediction-service/internal/adapters/primary/http/handlers"
	"shipment-prediction-service/internal/adapters/primary/http/middleware"
	"shipment-prediction-service/internal/adapters/secondary/hub"
	"shipment-prediction-service/internal/adapters/secondary/locator"
	"shipment-prediction-service/internal/adapters/secondary/sqlite"
	"shipment-prediction-service/internal/config"
	"shipment-prediction-service/internal/core/domain"
	ports "shipment-prediction-service/internal/core/ports/output"
	"shipment-prediction-service/internal/core/services"
	"shipment-prediction-service/internal/dataset"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	initLogger(cfg)

	// Feature schema: compiled-in default, overridable from a YAML file.
	schema := domain.DefaultSchema()
	if cfg.Model.SchemaPath != "" {
		schema, err = domain.LoadSchema(cfg.Model.SchemaPath)
		if err != nil {
			log.Fatalf("load feature schema: %v", err)
		}
		log.WithField("path", cfg.Model.SchemaPath).Info("feature schema loaded from file")
	}

	// Reference dataset (Optional - overview/schema ranges degrade without it)
	var overviewSvc *services.OverviewService
	ds, err := dataset.Load(cfg.Dataset.Path)
	if err != nil {
		log.Warnf("reference dataset unavailable (continuing without overview): %v", err)
	} else {
		overviewSvc = services.NewOverviewService(ds, schema)
		log.WithField("rows", ds.Len()).Info("reference dataset loaded")
	}

	// Prediction audit log (Optional - based on config)
	var auditLog ports.PredictionLog
	if cfg.Store.DBPath != "" {
		repo, err := sqlite.NewPredictionLogRepository(cfg.Store.DBPath)
		if err != nil {
			log.Warnf("prediction log init failed (continuing without audit log): %v", err)
		} else {
			defer repo.Close()
			auditLog = repo
			log.Info("prediction audit log initialized")
		}
	} else {
		log.Info("prediction audit log disabled")
	}

	// Artifact sources, in resolution order: cached copy of a previous
	// download, the configured local path, then the model hub.
	var sources []locator.Source
	if cfg.Model.CacheDir != "" {
		sources = append(sources, &locator.LocalSource{
			Path: filepath.Join(cfg.Model.CacheDir, cfg.Model.HubFilename),
		})
	}
	sources = append(sources, &locator.LocalSource{Path: cfg.Model.LocalPath})
	if cfg.Model.HubRepo != "" {
		sources = append(sources, &locator.RemoteSource{
			Hub:      hub.NewClient(cfg.Model.HubURL, cfg.Model.HubTimeout),
			Repo:     cfg.Model.HubRepo,
			Revision: cfg.Model.HubRevision,
			Filename: cfg.Model.HubFilename,
			CacheDir: cfg.Model.CacheDir,
		})
	}
	resolver := locator.New(sources...)

	// Core Services
	predictSvc := services.NewPredictionService(resolver, schema, auditLog, cfg.Model.ResultCacheSize)

	// Primary Adapter (HTTP Handlers)
	h := handlers.New(predictSvc, overviewSvc, auditLog)

	// Setup router
	router := gin.New()
	router.Use(middleware.RequestID(), middleware.Logging(), gin.Recovery())

	api := router.Group("/api/v1/shipping")
	h.RegisterRoutes(api)

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Readiness requires the artifact; Get is cached after the first call.
	router.GET("/readyz", func(c *gin.Context) {
		if _, err := resolver.Get(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unready", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	// Warm the artifact so the first prediction does not pay the download.
	// A failed load is final: predictions answer 503 until redeploy.
	go func() {
		if _, err := resolver.Get(context.Background()); err != nil {
			log.WithError(err).Error("pipeline artifact unavailable; prediction endpoints will return 503")
		}
	}()

	// Start server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	go func() {
		log.Infof("starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("server forced shutdown: %v", err)
	}

	log.Info("server stopped")
}

func initLogger(cfg *config.Config) {
	level, err := log.ParseLevel(cfg.Logger.Level)
	if err != nil {
		level = log.InfoLevel
	}
	log.SetLevel(level)

	if cfg.Logger.Format == "json" {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}
}
