package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"timesheet-service/internal/export"
	"timesheet-service/internal/profile"
)

// ProfileRoutes attaches the employee profile, settings, stats and export
// endpoints.
func (a *App) ProfileRoutes(r *gin.RouterGroup) {
	r.GET("/employee", func(c *gin.Context) {
		c.JSON(http.StatusOK, a.Profile.Employee(c.Request.Context()))
	})

	r.PUT("/employee", func(c *gin.Context) {
		var employee profile.Employee
		if err := c.ShouldBindJSON(&employee); err != nil {
			AbortWithError(c, ErrInvalidRequest)
			return
		}

		if err := a.Profile.SaveEmployee(c.Request.Context(), employee); err != nil {
			AbortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true})
	})

	r.GET("/settings", func(c *gin.Context) {
		c.JSON(http.StatusOK, a.Profile.Settings(c.Request.Context()))
	})

	r.PUT("/settings", func(c *gin.Context) {
		var settings profile.AppSettings
		if err := c.ShouldBindJSON(&settings); err != nil {
			AbortWithError(c, ErrInvalidRequest)
			return
		}

		if err := a.Profile.SaveSettings(c.Request.Context(), settings); err != nil {
			AbortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true})
	})

	r.GET("/stats", func(c *gin.Context) {
		c.JSON(http.StatusOK, a.Profile.ComputeStats(c.Request.Context()))
	})

	r.POST("/export", func(c *gin.Context) {
		snapshot := export.Build(c.Request.Context(), a.Entries, a.Profile)
		snapshot.Log()

		if to := c.Query("email"); to != "" {
			if a.Mailer == nil {
				AbortWithError(c, ErrServiceUnavailable)
				return
			}
			if err := snapshot.Email(a.Mailer, to); err != nil {
				AbortWithError(c, err)
				return
			}
		}

		c.JSON(http.StatusOK, snapshot)
	})
}
