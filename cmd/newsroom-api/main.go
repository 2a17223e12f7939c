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
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/wartakota/newsroom-api/api/swagger"
	"github.com/wartakota/newsroom-api/internal/handler"
	"github.com/wartakota/newsroom-api/internal/repository"
	"github.com/wartakota/newsroom-api/internal/service"
	"github.com/wartakota/newsroom-api/pkg/cache"
	"github.com/wartakota/newsroom-api/pkg/config"
	"github.com/wartakota/newsroom-api/pkg/database"
	"github.com/wartakota/newsroom-api/pkg/logger"
	"github.com/wartakota/newsroom-api/pkg/mailer"
	corsmiddleware "github.com/wartakota/newsroom-api/pkg/middleware/cors"
	reqidmiddleware "github.com/wartakota/newsroom-api/pkg/middleware/requestid"
	"github.com/wartakota/newsroom-api/pkg/storage"
)

// @title Newsroom API
// @version 1.0.0
// @description Editorial backend for news publishing, recruitment and internships
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

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	var redisClient *redis.Client
	if cfg.NewsCache.Enabled {
		redisClient, err = cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Sugar().Warnw("redis unavailable, news cache disabled", "error", err)
			redisClient = nil
		}
	}

	files, err := storage.NewLocalStorage(cfg.Uploads.StorageDir)
	if err != nil {
		logr.Sugar().Fatalw("failed to prepare upload storage", "error", err)
	}
	signer := storage.NewSignedURLSigner(cfg.Uploads.SignedURLSecret, cfg.Uploads.SignedURLTTL)

	userRepo := repository.NewUserRepository(db)
	newsRepo := repository.NewNewsRepository(db)
	mediaRepo := repository.NewMediaRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	assignmentRepo := repository.NewAssignmentRepository(db)
	activityRepo := repository.NewActivityRepository(db)
	vacancyRepo := repository.NewVacancyRepository(db)
	internshipRepo := repository.NewInternshipRepository(db)

	validate := validator.New()

	activitySvc := service.NewActivityService(activityRepo, logr)
	notificationSvc := service.NewNotificationService(userRepo, mailer.NewSMTPMailer(cfg.SMTP), cfg.Notifications, logr)
	authSvc := service.NewAuthService(userRepo, activitySvc, validate, logr, service.AuthConfig{
		AccessTokenSecret:  cfg.JWT.Secret,
		AccessTokenExpiry:  cfg.JWT.Expiration,
		RefreshTokenExpiry: cfg.JWT.RefreshExpiration,
		Issuer:             "newsroom-api",
		Audience:           []string{"newsroom"},
	})
	newsCache := service.NewNewsCache(redisClient, cfg.NewsCache, logr)
	newsSvc := service.NewNewsService(newsRepo, activitySvc, notificationSvc, newsCache, logr)
	mediaSvc := service.NewMediaService(mediaRepo, newsRepo, files, signer, cfg.Uploads, cfg.PublicURL, logr)
	commentSvc := service.NewCommentService(commentRepo, newsRepo, activitySvc, logr)
	categorySvc := service.NewCategoryService(categoryRepo, activitySvc, logr)
	assignmentSvc := service.NewAssignmentService(assignmentRepo, activitySvc, notificationSvc, logr)
	userSvc := service.NewUserService(userRepo, activitySvc, notificationSvc, validate, logr)
	vacancySvc := service.NewVacancyService(vacancyRepo, activitySvc, logr)
	internshipSvc := service.NewInternshipService(internshipRepo, activitySvc, logr)
	exportSvc := service.NewExportService(vacancyRepo, internshipRepo, logr)
	metricsSvc := service.NewMetricsService()
	schedulerSvc := service.NewSchedulerService(newsSvc, cfg.Scheduler, logr)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	notificationSvc.Start(ctx)
	defer notificationSvc.Stop()

	if cfg.Scheduler.Enabled {
		schedulerSvc.Start(ctx)
		defer schedulerSvc.Stop()
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS))

	handlers := handler.Handlers{
		Auth:        handler.NewAuthHandler(authSvc),
		News:        handler.NewNewsHandler(newsSvc),
		Media:       handler.NewMediaHandler(mediaSvc),
		Comments:    handler.NewCommentHandler(commentSvc),
		Categories:  handler.NewCategoryHandler(categorySvc),
		Assignments: handler.NewAssignmentHandler(assignmentSvc),
		Users:       handler.NewUserHandler(userSvc),
		Vacancies:   handler.NewVacancyHandler(vacancySvc),
		Internships: handler.NewInternshipHandler(internshipSvc),
		Activity:    handler.NewActivityHandler(activitySvc),
		Exports:     handler.NewExportHandler(exportSvc, cfg.Exports),
		Metrics:     handler.NewMetricsHandler(metricsSvc),
	}
	handler.Register(r, cfg.APIPrefix, handlers, authSvc, metricsSvc)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: r,
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
		logr.Warn("graceful shutdown failed", zap.Error(err))
	}
}
