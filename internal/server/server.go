package server

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"cvmatch-backend/internal/services/health"
	"cvmatch-backend/internal/shared/config"
	"cvmatch-backend/internal/shared/server/middleware"
	"cvmatch-backend/internal/submit"
)

// NewEngine builds the gin engine with middleware and routes registered.
func NewEngine(cfg config.Config, handler *submit.Handler, healthSvc *health.Service) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(cfg.CORSAllowOrigin),
	)

	registerRoutes(engine, handler, healthSvc)
	return engine
}

// Addr returns a normalized listen address for the given port.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return fmt.Sprintf(":%s", port)
}
