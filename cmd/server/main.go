package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ikkim/phonedesk-backend/config"
	"github.com/ikkim/phonedesk-backend/internal/app/controller"
	"github.com/ikkim/phonedesk-backend/internal/app/repository"
	"github.com/ikkim/phonedesk-backend/internal/app/service"
	"github.com/ikkim/phonedesk-backend/internal/authz"
	"github.com/ikkim/phonedesk-backend/internal/db"
	"github.com/ikkim/phonedesk-backend/internal/ingest"
	"github.com/ikkim/phonedesk-backend/internal/middleware"
	"github.com/ikkim/phonedesk-backend/internal/router"
	"github.com/ikkim/phonedesk-backend/internal/scheduler"
	"github.com/ikkim/phonedesk-backend/internal/storage"
	"github.com/ikkim/phonedesk-backend/pkg/logger"
	"github.com/ikkim/phonedesk-backend/pkg/redis"
	"github.com/ikkim/phonedesk-backend/pkg/util"
)

const shutdownTimeout = 15 * time.Second

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}

	// Initialize logger
	logLevel := "info"
	logFormat := "json"
	if cfg.Server.Environment == "development" {
		logLevel = "debug"
		logFormat = "console"
	}
	logger.Initialize(logger.Config{
		Level:       logLevel,
		Format:      logFormat,
		EnableColor: logFormat == "console",
	})

	logger.Info("Starting PHONEDESK Backend Server", map[string]interface{}{
		"environment": cfg.Server.Environment,
		"port":        cfg.Server.Port,
		"log_level":   logLevel,
	})

	// Initialize database
	if err := db.Initialize(&cfg.Database); err != nil {
		logger.Fatal("Failed to initialize database", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("Failed to close database connection", err)
		}
	}()

	if err := db.Migrate(); err != nil {
		logger.Fatal("Failed to run migrations", err)
	}
	if err := db.SeedSuperAdmin(db.GetDB(), &cfg.Bootstrap); err != nil {
		logger.Warn("Failed to seed super_admin", map[string]interface{}{
			"error": err.Error(),
		})
	}

	// 분산 락: Redis가 없으면 단일 인스턴스 전제로 락 없이 동작
	locker := redis.NewNoopLocker()
	if cfg.Redis.Enabled() {
		if err := redis.Init(&cfg.Redis); err != nil {
			logger.Warn("Redis unavailable, running without distributed locks", map[string]interface{}{
				"error": err.Error(),
			})
		} else {
			locker = redis.NewLocker(redis.GetClient(), cfg.Redis.LockTTL)
			defer redis.Close()
		}
	}

	// 판매일보 원본 보관
	archive := storage.NewDisabledArchive()
	if cfg.S3.Enabled() {
		archive = storage.NewS3Storage(cfg.S3)
		logger.Info("Ledger archive enabled", map[string]interface{}{
			"bucket": cfg.S3.Bucket,
			"prefix": cfg.S3.Prefix,
		})
	}

	sheets := ingest.NewSheetsFetcher(cfg.Sheets.FetchTimeout, cfg.Sheets.MaxBytes)

	// Initialize repositories
	database := db.GetDB()
	profileRepo := repository.NewProfileRepository(database)
	shopRepo := repository.NewShopRepository(database)
	consultationRepo := repository.NewConsultationRepository(database)
	reportRepo := repository.NewReportRepository(database)
	settingsRepo := repository.NewSettingsRepository(database)
	salaryRepo := repository.NewSalaryRepository(database)
	inviteRepo := repository.NewInviteRepository(database)
	noticeRepo := repository.NewNoticeRepository(database)
	calendarRepo := repository.NewCalendarRepository(database)

	authorizer := authz.NewAuthorizer(shopRepo)

	// Initialize services
	authService := service.NewAuthService(database, profileRepo, shopRepo, util.NewSessionCodec(cfg.Session.Secret), cfg.Session.TTLDays)
	inviteService := service.NewInviteService(inviteRepo, shopRepo, authorizer)
	shopService := service.NewShopService(shopRepo, profileRepo, authorizer)
	consultationService := service.NewConsultationService(consultationRepo, reportRepo, authorizer, locker)
	reportService := service.NewReportService(reportRepo, settingsRepo, authorizer, locker, archive, sheets)
	settingsService := service.NewSettingsService(settingsRepo, authorizer)
	salaryService := service.NewSalaryService(salaryRepo, reportRepo, settingsRepo, authorizer)
	dashboardService := service.NewDashboardService(consultationRepo, reportRepo, authorizer)
	noticeService := service.NewNoticeService(noticeRepo)
	calendarService := service.NewCalendarService(calendarRepo, profileRepo, authorizer)
	maintenanceService := service.NewMaintenanceService(inviteRepo, reportRepo)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(authService, cfg.Session.CookieName)

	// Setup router
	r := router.NewRouter(router.Controllers{
		Auth:         controller.NewAuthController(authService, cfg.Session.CookieName, cfg.Session.Secure),
		Invite:       controller.NewInviteController(inviteService),
		Shop:         controller.NewShopController(shopService),
		Consultation: controller.NewConsultationController(consultationService),
		Report:       controller.NewReportController(reportService),
		Settings:     controller.NewSettingsController(settingsService),
		Salary:       controller.NewSalaryController(salaryService),
		Dashboard:    controller.NewDashboardController(dashboardService),
		Notice:       controller.NewNoticeController(noticeService),
		Calendar:     controller.NewCalendarController(calendarService),
	}, authMiddleware, cfg)
	engine := r.Setup()

	// Start maintenance scheduler
	maintenanceScheduler := scheduler.NewMaintenanceScheduler(
		maintenanceService,
		cfg.Scheduler.MaintenanceSpec,
		cfg.Scheduler.OrphanGracePeriod,
	)
	if err := maintenanceScheduler.Start(); err != nil {
		logger.Error("Failed to start maintenance scheduler", err)
	} else {
		defer maintenanceScheduler.Stop()
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("Server started successfully", map[string]interface{}{
			"address": srv.Addr,
			"pid":     os.Getpid(),
		})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server gracefully...")
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", err)
	}
	logger.Info("Server stopped successfully")
}
