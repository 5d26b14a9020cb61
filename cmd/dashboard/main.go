package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	_ "github.com/noah-isme/korepetycje-admin/api/swagger"
	"github.com/noah-isme/korepetycje-admin/internal/handler"
	"github.com/noah-isme/korepetycje-admin/internal/repository"
	"github.com/noah-isme/korepetycje-admin/internal/server"
	"github.com/noah-isme/korepetycje-admin/internal/service"
	"github.com/noah-isme/korepetycje-admin/pkg/cache"
	"github.com/noah-isme/korepetycje-admin/pkg/config"
	"github.com/noah-isme/korepetycje-admin/pkg/database"
	"github.com/noah-isme/korepetycje-admin/pkg/export"
	"github.com/noah-isme/korepetycje-admin/pkg/jobs"
	"github.com/noah-isme/korepetycje-admin/pkg/logger"
	"github.com/noah-isme/korepetycje-admin/pkg/webhook"
	"github.com/noah-isme/korepetycje-admin/web"
)

// @title Korepetycje Admin API
// @version 0.1.0
// @description Administration dashboard for a tutoring business
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

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Fatal("failed to connect database", zap.Error(err))
	}
	defer db.Close()

	metrics := service.NewMetricsService()

	var cacheRepo service.CacheRepository
	if cfg.Cache.Enabled {
		client, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Warn("redis unavailable, caching disabled", zap.Error(err))
		} else {
			repo := repository.NewCacheRepository(client, logr)
			defer repo.Close()
			cacheRepo = repo
		}
	}
	cacheSvc := service.NewCacheService(cacheRepo, metrics, cfg.Cache.RosterTTL, logr, cacheRepo != nil)

	validate := validator.New()
	lessonTZ, err := time.LoadLocation("Europe/Warsaw")
	if err != nil {
		lessonTZ = time.UTC
	}

	fetcher := repository.NewRecordFetcher(db, metrics)
	studentRepo := repository.NewStudentRepository(db, fetcher)
	parentRepo := repository.NewParentRepository(fetcher)
	enrollmentRepo := repository.NewEnrollmentRepository(db, fetcher)
	tutorRepo := repository.NewTutorRepository(db)
	subjectRepo := repository.NewSubjectRepository(db)
	userRepo := repository.NewUserRepository(db)
	dashboardRepo := repository.NewDashboardRepository(db)
	reservationRepo := repository.NewReservationRepository()

	webhookSvc := service.NewWebhookService(webhook.NewClient(webhook.Config{
		URL:     cfg.Webhook.URL,
		Timeout: cfg.Webhook.Timeout,
		Logger:  logr,
	}), metrics, logr, lessonTZ)
	queue := jobs.NewQueue("webhooks", webhookSvc.Handle, jobs.QueueConfig{
		Workers:    cfg.Webhook.Workers,
		BufferSize: 64,
		MaxRetries: cfg.Webhook.MaxRetries,
		RetryDelay: time.Second,
		Logger:     logr,
	})
	webhookSvc.AttachQueue(queue)

	queueCtx, stopQueue := context.WithCancel(context.Background())
	defer stopQueue()
	queue.Start(queueCtx)

	authSvc := service.NewAuthService(userRepo, validate, logr, service.AuthConfig{
		AccessTokenSecret: cfg.JWT.Secret,
		AccessTokenExpiry: cfg.JWT.Expiration,
		Issuer:            "korepetycje-admin",
	})
	studentSvc := service.NewStudentService(studentRepo, tutorRepo, subjectRepo, cacheSvc, validate, logr)
	clientSvc := service.NewClientService(parentRepo, enrollmentRepo, tutorRepo, cacheSvc, logr)
	assignmentSvc := service.NewAssignmentService(enrollmentRepo, tutorRepo, cacheSvc, validate, logr)
	reservationSvc := service.NewReservationService(reservationRepo, webhookSvc, cacheSvc, validate, logr, lessonTZ)
	tutorSvc := service.NewTutorService(service.TutorServiceParams{
		Tutors:      tutorRepo,
		Enrollments: enrollmentRepo,
		Hours:       reservationSvc,
		CSV:         export.NewCSVExporter(),
		PDF:         export.NewPDFExporter(),
		Cache:       cacheSvc,
		Validator:   validate,
		Logger:      logr,
	})
	paymentSvc := service.NewPaymentService(studentRepo, validate, logr)
	dashboardSvc := service.NewDashboardService(service.DashboardServiceParams{
		Counts:       dashboardRepo,
		Reservations: reservationSvc,
		Cache:        cacheSvc,
		CacheTTL:     cfg.Cache.DashboardTTL,
		Logger:       logr,
	})

	tmpl, err := web.Templates()
	if err != nil {
		logr.Fatal("failed to parse templates", zap.Error(err))
	}

	router := server.New(server.Deps{
		Config: server.Config{
			APIPrefix:      cfg.APIPrefix,
			EnableDocs:     cfg.EnableDocs && cfg.Env != config.EnvProduction,
			CookieName:     cfg.Session.CookieName,
			AllowedOrigins: cfg.CORS.AllowedOrigins,
		},
		Handlers: server.Handlers{
			Auth:         handler.NewAuthHandler(authSvc, handler.SessionConfig{CookieName: cfg.Session.CookieName, Secure: cfg.Session.Secure}),
			Dashboard:    handler.NewDashboardHandler(dashboardSvc),
			Students:     handler.NewStudentHandler(studentSvc, assignmentSvc),
			Clients:      handler.NewClientHandler(clientSvc, assignmentSvc),
			Tutors:       handler.NewTutorHandler(tutorSvc),
			Reservations: handler.NewReservationHandler(reservationSvc),
			Payments:     handler.NewPaymentHandler(paymentSvc),
			Webhooks:     handler.NewWebhookHandler(webhookSvc),
			Metrics:      handler.NewMetricsHandler(metrics, db),
		},
		Auth:      authSvc,
		Templates: tmpl,
		Metrics:   metrics,
		Logger:    logr,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env, "webhook_enabled", webhookSvc.Enabled())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logr.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logr.Error("graceful shutdown failed", zap.Error(err))
	}
	queue.Stop()
}
