package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/friendo-app/friendo-server/internal/config"
)

// HealthHandler returns the health-check endpoint for load balancers and
// container orchestration.
func HealthHandler(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":      "healthy",
			"app":         cfg.AppName,
			"version":     cfg.AppVersion,
			"environment": cfg.Environment,
		})
	}
}
