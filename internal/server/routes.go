package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"cvmatch-backend/internal/services/health"
	"cvmatch-backend/internal/submit"
)

func registerRoutes(r *gin.Engine, handler *submit.Handler, healthSvc *health.Service) {
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, healthSvc.Status())
	})

	api := r.Group("/api")
	handler.RegisterRoutes(api)
}
