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
	_ "time/tzdata"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	_ "github.com/noah-isme/sisvisitas-api/api/swagger"
	"github.com/noah-isme/sisvisitas-api/internal/handler"
	"github.com/noah-isme/sisvisitas-api/internal/repository"
	"github.com/noah-isme/sisvisitas-api/internal/service"
	"github.com/noah-isme/sisvisitas-api/pkg/config"
	"github.com/noah-isme/sisvisitas-api/pkg/database"
	"github.com/noah-isme/sisvisitas-api/pkg/export"
	"github.com/noah-isme/sisvisitas-api/pkg/logger"
	"github.com/noah-isme/sisvisitas-api/pkg/storage"
)

// @title SisVisitas API
// @version 1.0.0
// @description Visitor registration, case tracking and front-desk reporting
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

	photoStore, err := storage.NewLocalStorage(cfg.Photos.StorageDir)
	if err != nil {
		logr.Fatal("failed to prepare media directory", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	loc := cfg.Location()
	validate := validator.New()
	metrics := service.NewMetricsService()

	citizenRepo := repository.NewCitizenRepository(db)
	caseRepo := repository.NewCaseRepository(db)
	topicRepo := repository.NewTopicRepository(db)
	visitRepo := repository.NewVisitRepository(db)
	userRepo := repository.NewUserRepository(db)
	auditRepo := repository.NewAuditRepository(db)

	auditSvc := service.NewAuditService(auditRepo, logr, metrics)
	if cfg.Audit.Async {
		auditSvc.StartAsync(context.Background(), cfg.Audit.QueueBuffer)
		defer auditSvc.Stop()
	}

	citizenSvc := service.NewCitizenService(citizenRepo, caseRepo, validate, logr)
	caseSvc := service.NewCaseService(caseRepo, auditSvc, logr)
	visitSvc := service.NewVisitService(visitRepo, topicRepo, citizenSvc, caseSvc, auditSvc, metrics, validate, logr, loc)
	statsSvc := service.NewStatsService(visitRepo, loc)
	badgeSvc := service.NewBadgeService(visitSvc, photoStore, export.NewBadgeRenderer(export.BadgeOptions{Title: cfg.Badges.Title}), metrics, logr, loc)
	reportSvc := service.NewReportService(visitRepo, export.NewPDFExporter(export.PDFOptions{}), metrics, logr, service.ReportServiceConfig{
		MaxRows:  cfg.Reports.MaxRows,
		Location: loc,
	})
	photoSvc := service.NewPhotoService(photoStore, storage.NewSignedURLSigner(cfg.Photos.SignedURLSecret, cfg.Photos.SignedURLTTL), cfg.Photos.MaxFileBytes, logr)
	authSvc := service.NewAuthService(userRepo, auditSvc, validate, logr, service.AuthConfig{
		AccessTokenSecret: cfg.JWT.Secret,
		AccessTokenExpiry: cfg.JWT.Expiration,
		Issuer:            cfg.JWT.Issuer,
	})

	handlers := routeHandlers{
		auth:     handler.NewAuthHandler(authSvc),
		visits:   handler.NewVisitHandler(visitSvc, statsSvc, badgeSvc),
		reports:  handler.NewReportHandler(reportSvc),
		cases:    handler.NewCaseHandler(caseSvc),
		citizens: handler.NewCitizenHandler(citizenSvc),
		photos:   handler.NewPhotoHandler(photoSvc, cfg.APIPrefix),
		audit:    handler.NewAuditHandler(auditSvc),
		metrics:  handler.NewMetricsHandler(metrics, db),
	}
	router := newRouter(cfg, logr, metrics, authSvc, auditSvc, handlers)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env, "timezone", loc.String())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Error("graceful shutdown failed", zap.Error(err))
	}
}
