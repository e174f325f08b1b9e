package server

import (
	"log/slog"

	"github.com/gin-gonic/gin"
)

// Setup configures the gin engine with all routes and middleware.
func Setup(extractH *ExtractionHandler, healthH *HealthHandler, logger *slog.Logger) *gin.Engine {
	r := gin.New()

	r.Use(Recovery(logger))
	r.Use(RequestID())
	r.Use(RequestLogger(logger))

	r.GET("/healthz", healthH.Liveness)

	v1 := r.Group("/api/v1")
	v1.POST("/extractions", extractH.Extract)

	return r
}
