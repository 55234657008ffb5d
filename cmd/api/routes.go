package main

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/noah-isme/sisvisitas-api/internal/handler"
	"github.com/noah-isme/sisvisitas-api/internal/middleware"
	"github.com/noah-isme/sisvisitas-api/internal/models"
	"github.com/noah-isme/sisvisitas-api/internal/service"
	"github.com/noah-isme/sisvisitas-api/pkg/config"
	"github.com/noah-isme/sisvisitas-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/sisvisitas-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/sisvisitas-api/pkg/middleware/requestid"
)

type routeHandlers struct {
	auth     *handler.AuthHandler
	visits   *handler.VisitHandler
	reports  *handler.ReportHandler
	cases    *handler.CaseHandler
	citizens *handler.CitizenHandler
	photos   *handler.PhotoHandler
	audit    *handler.AuditHandler
	metrics  *handler.MetricsHandler
}

func newRouter(cfg *config.Config, logr *zap.Logger, metrics *service.MetricsService, tokens middleware.TokenValidator, recorder middleware.AuditRecorder, h routeHandlers) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metrics))

	r.GET("/health", h.metrics.Health)
	r.GET("/ready", h.metrics.Ready)
	r.GET("/metrics", h.metrics.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	api.POST("/auth/login", h.auth.Login)
	// Photo links carry their own signature so <img> tags can load them.
	api.GET("/photos/:token", h.photos.Show)

	secured := api.Group("")
	secured.Use(middleware.JWT(tokens))
	secured.GET("/auth/me", h.auth.Me)

	desk := secured.Group("")
	desk.Use(middleware.RequireGroup(models.GroupReception, models.GroupSupervisor, models.GroupAdmin))
	desk.POST("/visits", h.visits.Create)
	desk.GET("/visits/active", h.visits.Active)
	desk.GET("/visits/recent", h.visits.Recent)
	desk.GET("/visits/stats", h.visits.Stats)
	desk.PATCH("/visits/checkout", h.visits.CheckoutByBadge)
	desk.GET("/visits/:id", h.visits.Get)
	desk.PATCH("/visits/:id/checkout", h.visits.Checkout)
	desk.GET("/visits/:id/badge", h.visits.Badge)
	desk.GET("/reports/visits", middleware.AuditReportDownload(recorder), h.reports.Visits)
	desk.GET("/citizens/lookup", h.citizens.Lookup)
	desk.POST("/photos", h.photos.Upload)

	supervisors := secured.Group("")
	supervisors.Use(middleware.RequireGroup(models.GroupSupervisor, models.GroupAdmin))
	supervisors.PATCH("/cases/:id/close", h.cases.Close)

	admins := secured.Group("")
	admins.Use(middleware.RequireGroup(models.GroupAdmin))
	admins.GET("/audit-logs", h.audit.List)

	return r
}
