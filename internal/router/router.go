package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"feedgen/internal/handler"
	"feedgen/internal/middleware"
)

// Handlers groups the HTTP handlers mounted by Setup.
type Handlers struct {
	Health *handler.HealthHandler
	Run    *handler.RunHandler
	Result *handler.ResultHandler
	Export *handler.ExportHandler
}

// Setup configures the Gin engine with all routes and middleware.
func Setup(h Handlers, allowedOrigins []string, logger *zap.Logger) *gin.Engine {
	r := gin.New()

	// Global middleware
	r.Use(middleware.RequestID())
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CORS(allowedOrigins))

	// Health checks and metrics
	r.GET("/healthz", h.Health.Liveness)
	r.GET("/readyz", h.Health.Readiness)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := r.Group("/api/v1")

	runs := v1.Group("/runs")
	runs.POST("", h.Run.Start)
	runs.GET("/:id", h.Run.Get)

	results := v1.Group("/results")
	results.GET("", h.Result.List)
	results.POST("/approve", h.Result.Approve)
	results.POST("/unapprove", h.Result.Unapprove)

	exports := v1.Group("/exports")
	exports.POST("", h.Export.Create)
	exports.GET("/csv", h.Export.DownloadCSV)
	exports.GET("/xlsx", h.Export.DownloadXLSX)

	return r
}
