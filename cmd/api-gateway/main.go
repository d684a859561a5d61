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
	"github.com/jmoiron/sqlx"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/horario-admin-api/api/swagger"
	"github.com/noah-isme/horario-admin-api/internal/handler"
	"github.com/noah-isme/horario-admin-api/internal/middleware"
	"github.com/noah-isme/horario-admin-api/internal/models"
	"github.com/noah-isme/horario-admin-api/internal/repository"
	"github.com/noah-isme/horario-admin-api/internal/service"
	"github.com/noah-isme/horario-admin-api/pkg/cache"
	"github.com/noah-isme/horario-admin-api/pkg/config"
	"github.com/noah-isme/horario-admin-api/pkg/database"
	"github.com/noah-isme/horario-admin-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/horario-admin-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/horario-admin-api/pkg/middleware/requestid"
	"github.com/noah-isme/horario-admin-api/pkg/tracing"
)

// @title Horario Admin API
// @version 1.0.0
// @description Manual timetable assignment: candidate filtering, shift validation and gated commits.
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

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

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := tracing.Init(ctx, cfg, logr)
	if err != nil {
		logr.Fatal("failed to init tracing", zap.Error(err))
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Fatal("failed to connect to postgres", zap.Error(err))
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Warn("redis unavailable, eligibility cache disabled", zap.Error(err))
		redisClient = nil
	}
	cacheRepo := repository.NewCacheRepository(redisClient, "horario", logr)
	defer cacheRepo.Close() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := newRouter(cfg, logr, db, cacheRepo)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Error("server shutdown failed", zap.Error(err))
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		logr.Warn("tracer shutdown failed", zap.Error(err))
	}
}

func newRouter(cfg *config.Config, logr *zap.Logger, db *sqlx.DB, cacheRepo *repository.CacheRepository) *gin.Engine {
	validate := validator.New()
	metrics := service.NewMetricsService()

	blocks := repository.NewTimeBlockRepository(db)
	assignments := repository.NewAssignmentRepository(db)
	availability := repository.NewAvailabilityRepository(db)
	teachers := repository.NewTeacherRepository(db)
	rooms := repository.NewRoomRepository(db)
	subjects := repository.NewSubjectRepository(db)
	groups := repository.NewGroupRepository(db)
	periods := repository.NewPeriodRepository(db)

	cacheSvc := service.NewCacheService(cacheRepo, metrics, cfg.Eligibility.CacheTTL, logr, cfg.Eligibility.CacheEnabled && cfg.Redis.Enabled)
	memo := service.NewCandidateMemo(cfg.Eligibility.MemoSize, cacheSvc, cfg.Eligibility.CacheTTL, metrics)
	loader := service.NewSnapshotLoader(service.SnapshotSources{
		Assignments:  assignments,
		Rooms:        rooms,
		Blocks:       blocks,
		Teachers:     teachers,
		Availability: availability,
		Subjects:     subjects,
		Groups:       groups,
	}, metrics, logr)

	sessionSvc := service.NewAssignmentSessionService(loader, assignments, memo, metrics, validate, logr, service.AssignmentSessionConfig{
		StrictAvailability: cfg.Assignments.StrictAvailability,
		SessionTTL:         cfg.Assignments.SessionTTL,
		Shifts: service.ShiftPolicy{
			Morning:   cfg.Assignments.MorningToken,
			Afternoon: cfg.Assignments.AfternoonToken,
			Night:     cfg.Assignments.NightToken,
		},
	})
	exportSvc := service.NewTimetableExportService(service.TimetableSources{
		Assignments: assignments,
		Blocks:      blocks,
		Subjects:    subjects,
		Teachers:    teachers,
		Rooms:       rooms,
		Groups:      groups,
		Periods:     periods,
	}, service.TimetableExportOptions{
		Enabled:      cfg.Exports.Enabled,
		CSVDelimiter: cfg.Exports.CSVDelimiter,
	}, validate, logr)
	tokens := service.NewTokenService(cfg.JWT.Secret, cfg.JWT.Issuer)

	assignmentHandler := handler.NewAssignmentHandler(sessionSvc)
	timetableHandler := handler.NewTimetableHandler(exportSvc)
	metricsHandler := handler.NewMetricsHandler(metrics, map[string]handler.ReadinessCheck{
		"postgres": db.PingContext,
		"redis":    cacheRepo.Ping,
	}, logr)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(tracing.Middleware(cfg.Tracing.ServiceName))
	r.Use(logger.GinMiddleware(logr))
	r.Use(middleware.Metrics(metrics, "/health", "/ready", "/metrics"))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Ready)
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	api.Use(middleware.JWT(tokens))

	planners := middleware.RequireRoles(models.RoleAdmin, models.RoleCoordinator)
	api.POST("/assignments/candidates", planners, assignmentHandler.Evaluate)
	api.POST("/assignments/shift-check", planners, assignmentHandler.CheckShift)
	api.DELETE("/assignments/candidates/cache", middleware.RequireRoles(models.RoleAdmin), assignmentHandler.FlushCandidates)

	sessions := api.Group("/assignment-sessions", planners)
	sessions.POST("", assignmentHandler.Open)
	sessions.GET("/:id/candidates", assignmentHandler.Candidates)
	sessions.PATCH("/:id/selection", assignmentHandler.Select)
	sessions.POST("/:id/commit", assignmentHandler.Commit)
	sessions.DELETE("/:id", assignmentHandler.Close)

	api.GET("/timetables/export", middleware.RequireRoles(models.RoleAdmin, models.RoleCoordinator, models.RoleTeacher), timetableHandler.Export)

	return r
}
