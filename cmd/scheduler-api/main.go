package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/pulsefit/studio-scheduler-api/api/swagger"
	"github.com/pulsefit/studio-scheduler-api/internal/handler"
	"github.com/pulsefit/studio-scheduler-api/internal/middleware"
	"github.com/pulsefit/studio-scheduler-api/internal/repository"
	"github.com/pulsefit/studio-scheduler-api/internal/service"
	"github.com/pulsefit/studio-scheduler-api/pkg/cache"
	"github.com/pulsefit/studio-scheduler-api/pkg/config"
	"github.com/pulsefit/studio-scheduler-api/pkg/database"
	"github.com/pulsefit/studio-scheduler-api/pkg/jobs"
	"github.com/pulsefit/studio-scheduler-api/pkg/logger"
	corsmiddleware "github.com/pulsefit/studio-scheduler-api/pkg/middleware/cors"
	reqidmiddleware "github.com/pulsefit/studio-scheduler-api/pkg/middleware/requestid"
)

// @title Studio Scheduler API
// @version 1.0.0
// @description Weekly class scheduling engine for fitness studios
// @BasePath /api/v1
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

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("database connection failed", "error", err)
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		// The scheduler works without Redis; summary reads just skip the cache.
		logr.Sugar().Warnw("redis unavailable, running without cache", "error", err)
		redisClient = nil
	}
	cacheRepo := repository.NewCacheRepository(redisClient, logr)
	defer cacheRepo.Close() //nolint:errcheck

	performanceRepo := repository.NewPerformanceRepository(db)
	priorityRepo := repository.NewPriorityRepository(db)
	teacherRepo := repository.NewTeacherRepository(db)
	availabilityRepo := repository.NewAvailabilityRepository(db)
	scheduleRepo := repository.NewScheduleRepository(db)

	metricsSvc := service.NewMetricsService()
	validate := validator.New()

	scheduleSvc := service.NewScheduleService(
		performanceRepo,
		priorityRepo,
		teacherRepo,
		availabilityRepo,
		scheduleRepo,
		cacheRepo,
		service.NopAdvisoryProvider{},
		nil,
		metricsSvc,
		validate,
		logr,
		service.ScheduleServiceConfig{
			Policy: service.HourPolicy{
				SoftWeeklyHours: cfg.Scheduler.SoftWeeklyHours,
				MaxWeeklyHours:  cfg.Scheduler.MaxWeeklyHours,
			},
			TargetWeeklyHours:   cfg.Scheduler.TargetWeeklyHours,
			GapFillBatchSize:    cfg.Scheduler.GapFillBatchSize,
			NewTrainerMaxHours:  cfg.Scheduler.NewTrainerMaxHours,
			NewTrainerFormats:   cfg.Scheduler.NewTrainerFormats,
			DefaultDuration:     cfg.Scheduler.DefaultDurationHrs,
			ClassesPerDayPerLoc: cfg.Scheduler.ClassesPerDayPerLoc,
			SummaryTTL:          cfg.Summary.CacheTTL,
		},
	)

	rootCtx, rootCancel := context.WithCancel(context.Background())
	defer rootCancel()

	var advisoryQueue *jobs.Queue
	if cfg.Advisory.Enabled {
		advisoryQueue = jobs.NewQueue("advisory", func(ctx context.Context, _ jobs.Job) error {
			return scheduleSvc.RefreshAdvisory(ctx)
		}, jobs.QueueConfig{
			Workers:    cfg.Advisory.Workers,
			MaxRetries: cfg.Advisory.MaxRetries,
			RetryDelay: cfg.Advisory.RetryDelay,
			Logger:     logr,
		})
		advisoryQueue.Start(rootCtx)
		defer advisoryQueue.Stop()
		scheduleSvc.AttachJobQueue(advisoryQueue)
	}

	restoreCtx, restoreCancel := context.WithTimeout(rootCtx, 30*time.Second)
	if err := scheduleSvc.Restore(restoreCtx); err != nil {
		restoreCancel()
		logr.Sugar().Fatalw("schedule restore failed", "error", err)
	}
	restoreCancel()

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/ready", func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", gin.WrapH(metricsSvc.Handler()))

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	scheduleHandler := handler.NewScheduleHandler(scheduleSvc)
	teacherHandler := handler.NewTeacherHandler(teacherRepo)

	api := r.Group(cfg.APIPrefix)
	guarded := api.Group("", middleware.ServiceToken(cfg.Auth.Secret))

	api.GET("/schedule", scheduleHandler.Get)
	api.GET("/schedule/summary", scheduleHandler.Summary)
	api.GET("/schedule/locks", scheduleHandler.Locks)
	api.GET("/teachers", teacherHandler.List)
	api.POST("/schedule/validate", scheduleHandler.Validate)

	guarded.POST("/schedule/seed", scheduleHandler.Seed)
	guarded.POST("/schedule/optimize", scheduleHandler.Optimize)
	guarded.POST("/schedule/fill-gaps", scheduleHandler.FillGaps)
	guarded.POST("/schedule/classes", scheduleHandler.AddClass)
	guarded.PUT("/schedule/classes/:id", scheduleHandler.ReplaceClass)
	guarded.DELETE("/schedule/classes/:id", scheduleHandler.DeleteClass)
	guarded.POST("/schedule/undo", scheduleHandler.Undo)
	guarded.POST("/schedule/redo", scheduleHandler.Redo)
	guarded.DELETE("/schedule", scheduleHandler.Clear)
	guarded.POST("/schedule/locks", scheduleHandler.Lock)
	guarded.DELETE("/schedule/locks", scheduleHandler.Unlock)

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logr.Info("shutting down", zap.String("reason", "signal"))

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Sugar().Errorw("graceful shutdown failed", "error", err)
	}
}
