package app

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	. "timesheet-service/internal/config"

	routes "timesheet-service/internal/routes"
)

func securityHeaders(c *gin.Context) {
	c.Header("X-Content-Type-Options", "nosniff")
	c.Header("X-Frame-Options", "DENY")
	c.Header("X-XSS-Protection", "1; mode=block")

	// Disable caching
	c.Header("Cache-Control", "no-store, no-cache, must-revalidate, proxy-revalidate")
	c.Header("Pragma", "no-cache")
	c.Header("Expires", "0")
	c.Next()
}

// requestID tags every request so log lines can be correlated.
func requestID(c *gin.Context) {
	id := c.GetHeader("X-Request-ID")
	if id == "" {
		id = uuid.NewString()
	}
	c.Set("requestID", id)
	c.Header("X-Request-ID", id)
	c.Next()
}

func HTTPServer(api *routes.App) *gin.Engine {
	r := gin.Default()

	r.Use(requestID)
	r.Use(securityHeaders)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/config.json", func(c *gin.Context) {
		// Provide an initial config for the mobile client
		var clientCfg = gin.H{
			"SessionTTL": Cfg.SessionTTL,
			"SupportURL": Cfg.SupportURL,
			"BaseURL":    Cfg.BaseURL,
		}

		c.JSON(http.StatusOK, clientCfg)
	})

	api.RegisterRoutes(r)

	return r
}
