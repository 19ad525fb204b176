package router

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"aria/internal/handler"
	"aria/internal/middleware"
)

// Setup configures the Gin engine with all routes and middleware.
func Setup(
	log zerolog.Logger,
	allowedOrigins []string,
	attestationH *handler.AttestationHandler,
	healthH *handler.HealthHandler,
) *gin.Engine {
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery(log))
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(log))
	r.Use(middleware.CORS(allowedOrigins))

	// Health checks
	r.GET("/healthz", healthH.Liveness)
	r.GET("/readyz", healthH.Readiness)

	// Path used by the existing frontend
	r.POST("/analyze_and_mint", attestationH.Analyze)

	v1 := r.Group("/api/v1")
	v1.POST("/attestations", attestationH.Analyze)

	return r
}
