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

	_ "github.com/warin-dev/sis-api/api/swagger"
	"github.com/warin-dev/sis-api/internal/fetch"
	"github.com/warin-dev/sis-api/internal/handler"
	"github.com/warin-dev/sis-api/internal/middleware"
	"github.com/warin-dev/sis-api/internal/repository"
	"github.com/warin-dev/sis-api/internal/service"
	"github.com/warin-dev/sis-api/pkg/cache"
	"github.com/warin-dev/sis-api/pkg/config"
	"github.com/warin-dev/sis-api/pkg/database"
	"github.com/warin-dev/sis-api/pkg/logger"
	corsmiddleware "github.com/warin-dev/sis-api/pkg/middleware/cors"
	reqidmiddleware "github.com/warin-dev/sis-api/pkg/middleware/requestid"
	"github.com/warin-dev/sis-api/pkg/storage"
)

// @title SIS API
// @version 1.0.0
// @description School information system with leveled entity fetching
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
		logr.Fatal("failed to connect to postgres", zap.Error(err))
	}
	defer db.Close()

	var redisClient *redis.Client
	if cfg.Cache.Enabled {
		redisClient, err = cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Warn("redis unavailable, lookup caching disabled", zap.Error(err))
		} else {
			defer redisClient.Close()
		}
	}

	students := repository.NewStudentRepository(db)
	teachers := repository.NewTeacherRepository(db)
	classrooms := repository.NewClassroomRepository(db)
	contacts := repository.NewContactRepository(db)
	subjects := repository.NewSubjectRepository(db)
	subjectGroups := repository.NewSubjectGroupRepository(db)
	clubs := repository.NewClubRepository(db)
	attendances := repository.NewAttendanceRepository(db)
	certificates := repository.NewCertificateRepository(db)
	users := repository.NewUserRepository(db)
	directory := repository.NewDirectory(db)

	fetcher := fetch.NewFetcher(
		students, teachers, classrooms, contacts,
		subjects, subjectGroups, clubs, attendances, certificates,
	)

	validate := validator.New()
	metricsSvc := service.NewMetricsService()

	authSvc := service.NewAuthService(users, validate, logr, service.AuthConfig{
		AccessTokenSecret:  cfg.JWT.Secret,
		AccessTokenExpiry:  cfg.JWT.Expiration,
		RefreshTokenExpiry: cfg.JWT.RefreshExpiration,
		Issuer:             cfg.JWT.Issuer,
		Audience:           cfg.JWT.Audience,
		SingleSession:      cfg.JWT.SingleSession,
	})
	studentSvc := service.NewStudentService(students, fetcher, validate, logr)
	teacherSvc := service.NewTeacherService(teachers, fetcher, validate, logr)
	classroomSvc := service.NewClassroomService(classrooms, fetcher, validate, logr)
	contactSvc := service.NewContactService(contacts, fetcher, validate, logr)
	subjectSvc := service.NewSubjectService(subjects, fetcher, validate, logr)
	groupSvc := service.NewSubjectGroupService(subjectGroups, fetcher, redisClient, cfg.Cache.SubjectGroupTTL, logr)
	clubSvc := service.NewClubService(clubs, fetcher, logr)
	attendanceSvc := service.NewAttendanceService(attendances, fetcher, validate, logr)
	certificateSvc := service.NewCertificateService(certificates, students, fetcher, nil, logr)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var exportSvc *service.ExportService
	if cfg.Exports.Enabled {
		fileStore, err := storage.NewLocalStorage(cfg.Exports.StorageDir)
		if err != nil {
			logr.Fatal("failed to init export storage", zap.Error(err))
		}
		signer := storage.NewSignedURLSigner(cfg.Exports.SignedURLSecret, cfg.Exports.SignedURLTTL)
		exportSvc = service.NewExportService(certificates, attendances, students, fileStore, signer, service.ExportConfig{
			APIPrefix: cfg.APIPrefix,
			ResultTTL: cfg.Exports.SignedURLTTL,
			Workers:   cfg.Exports.WorkerConcurrency,
			Retries:   cfg.Exports.WorkerRetries,
		}, logr)
		exportSvc.Start(ctx)
		defer exportSvc.Stop()

		go func() {
			ticker := time.NewTicker(cfg.Exports.CleanupInterval)
			defer ticker.Stop()
			for {
				select {
				case <-ctx.Done():
					return
				case <-ticker.C:
					if removed, err := exportSvc.Cleanup(); err != nil {
						logr.Warn("export cleanup failed", zap.Error(err))
					} else if len(removed) > 0 {
						logr.Info("expired exports removed", zap.Int("count", len(removed)))
					}
				}
			}
		}()
	}

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(reqidmiddleware.Middleware())
	engine.Use(logger.GinMiddleware(logr))
	engine.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	engine.Use(middleware.Metrics(metricsSvc))

	router := &handler.Router{
		Auth:         handler.NewAuthHandler(authSvc),
		Students:     handler.NewStudentHandler(studentSvc, directory),
		Teachers:     handler.NewTeacherHandler(teacherSvc, directory),
		Classrooms:   handler.NewClassroomHandler(classroomSvc, directory),
		Contacts:     handler.NewContactHandler(contactSvc, directory),
		Subjects:     handler.NewSubjectHandler(subjectSvc, directory),
		Groups:       handler.NewSubjectGroupHandler(groupSvc, directory),
		Clubs:        handler.NewClubHandler(clubSvc, directory),
		Attendance:   handler.NewAttendanceHandler(attendanceSvc, directory),
		Certificates: handler.NewCertificateHandler(certificateSvc, directory),
		Health:       handler.NewHealthHandler(db, redisClient, metricsSvc),
		AuthService:  authSvc,
	}
	if exportSvc != nil {
		router.Exports = handler.NewExportHandler(exportSvc)
	}
	router.Register(engine, cfg.APIPrefix)

	if cfg.Env != config.EnvProduction {
		engine.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: engine,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Warn("graceful shutdown failed", zap.Error(err))
	}
}
