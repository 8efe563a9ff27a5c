package main

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/noah-isme/univisa-api/internal/handler"
	"github.com/noah-isme/univisa-api/internal/middleware"
	"github.com/noah-isme/univisa-api/internal/models"
	"github.com/noah-isme/univisa-api/internal/service"
	"github.com/noah-isme/univisa-api/pkg/config"
	"github.com/noah-isme/univisa-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/univisa-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/univisa-api/pkg/middleware/requestid"
)

type handlers struct {
	auth      *handler.AuthHandler
	students  *handler.StudentHandler
	risk      *handler.RiskHandler
	chat      *handler.ChatHandler
	cpt       *handler.CPTHandler
	dso       *handler.DSOHandler
	exports   *handler.ExportHandler
	documents *handler.DocumentHandler
	metrics   *handler.MetricsHandler
}

func newRouter(cfg *config.Config, logr *zap.Logger, metrics *service.MetricsService, auth middleware.TokenValidator, h handlers) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metrics, "/metrics", "/health", "/ready"))
	r.Use(middleware.WithResponseMeta())

	r.GET("/health", h.metrics.Health)
	r.GET("/ready", h.metrics.Ready)
	r.GET("/metrics", h.metrics.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)

	api.POST("/auth/login", h.auth.Login)
	api.GET("/auth/me", middleware.JWT(auth), h.auth.Me)

	student := api.Group("/student")
	student.POST("/profile", h.students.Create)
	student.GET("/:id", h.students.Get)
	student.PUT("/:id", h.students.Update)
	student.GET("/:id/risk", h.risk.Risk)
	student.GET("/:id/alerts", h.risk.Alerts)
	student.GET("/:id/report.pdf", h.risk.Report)

	api.POST("/chat", h.chat.Ask)

	cpt := api.Group("/cpt/student/:id/requests")
	cpt.POST("", h.cpt.Create)
	cpt.GET("", h.cpt.List)
	cpt.PATCH("/:rid", h.cpt.Update)

	api.GET("/exports/download", h.exports.Download)

	dso := api.Group("/dso", middleware.JWT(auth), middleware.RequireRoles(models.RoleDSO))
	dso.GET("/cohort", h.dso.Cohort)
	dso.GET("/students", h.students.List)
	dso.GET("/cpt/requests", h.cpt.ListAll)
	dso.POST("/exports", h.exports.Create)
	dso.GET("/exports/:id", h.exports.Status)
	dso.POST("/documents", h.documents.Ingest)
	dso.GET("/metrics", h.metrics.Snapshot)

	return r
}
