package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/modplan/modplan-api/api/swagger"
	"github.com/modplan/modplan-api/internal/handler"
	"github.com/modplan/modplan-api/internal/middleware"
	"github.com/modplan/modplan-api/internal/repository"
	"github.com/modplan/modplan-api/internal/service"
	"github.com/modplan/modplan-api/pkg/cache"
	"github.com/modplan/modplan-api/pkg/config"
	"github.com/modplan/modplan-api/pkg/database"
	"github.com/modplan/modplan-api/pkg/logger"
	corsmiddleware "github.com/modplan/modplan-api/pkg/middleware/cors"
	reqidmiddleware "github.com/modplan/modplan-api/pkg/middleware/requestid"
)

// @title ModPlan API
// @version 0.1.0
// @description Timetable combination engine and module catalogue
// @BasePath /
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to redis", "error", err)
	}
	defer redisClient.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	moduleRepo := repository.NewModuleRepository(db)
	auditRepo := repository.NewAuditRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)

	metricsSvc := service.NewMetricsService()
	cacheSvc := service.NewCacheService(cacheRepo, metricsSvc, cfg.Catalogue.CacheTTL, logr, cfg.Catalogue.CacheEnabled)
	auditRecorder := service.NewAuditRecorder(ctx, auditRepo, logr, service.AuditRecorderConfig{
		Workers:    cfg.Audit.Workers,
		BufferSize: cfg.Audit.BufferSize,
		MaxRetries: cfg.Audit.MaxRetries,
		RetryDelay: cfg.Audit.RetryDelay,
	})
	defer auditRecorder.Stop()

	tokenSvc := service.NewTokenService(cfg.JWT.Secret)
	moduleSvc := service.NewModuleService(moduleRepo, cacheSvc, logr)
	timetableSvc := service.NewTimetableService(moduleRepo, cacheSvc, auditRecorder, metricsSvc, logr, service.TimetableConfig{
		ResultCap:         cfg.Engine.ResultCap,
		WorkCap:           cfg.Engine.WorkCap,
		CatalogueCacheTTL: cfg.Catalogue.CacheTTL,
	})
	exportSvc := service.NewExportService(validator.New(), logr)

	timetableHandler := handler.NewTimetableHandler(timetableSvc, exportSvc)
	moduleHandler := handler.NewModuleHandler(moduleSvc)
	auditHandler := handler.NewAuditHandler(auditRepo)
	metricsHandler := handler.NewMetricsHandler(metricsSvc, db, redisClient)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Ready)
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix, middleware.JWT(tokenSvc))
	{
		api.GET("/modules", moduleHandler.List)
		api.GET("/modules/:code", moduleHandler.Get)

		api.POST("/timetables/generate", timetableHandler.Generate)
		if cfg.Export.Enabled {
			api.POST("/timetables/export", timetableHandler.Export)
		}

		api.GET("/audit/events", auditHandler.Recent)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	server := &http.Server{Addr: addr, Handler: r}

	go func() {
		logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logr.Warn("graceful shutdown failed", zap.Error(err))
	}
}
