package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"timesheet-service/internal/export"
	"timesheet-service/internal/timesheet"
)

// AdminRoutes attaches the admin-only endpoints. The caller is expected to
// have wrapped the group with RequireRole already.
func (a *App) AdminRoutes(r *gin.RouterGroup) {
	r.GET("/employees", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"employees": a.Directory.List()})
	})

	r.GET("/entries", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"entries": a.Entries.AllEntries(c.Request.Context())})
	})

	r.PATCH("/entries/:id", func(c *gin.Context) {
		var patch timesheet.EntryPatch
		if err := c.ShouldBindJSON(&patch); err != nil {
			AbortWithError(c, ErrInvalidRequest)
			return
		}

		entry, err := a.Entries.UpdateEntry(c.Request.Context(), c.Param("id"), patch)
		if err != nil {
			AbortWithError(c, err)
			return
		}
		if entry == nil {
			AbortWithHTTPError(c, http.StatusNotFound, nil, "Entry not found", "ENTRY_NOT_FOUND")
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "entry": entry})
	})

	r.DELETE("/entries/:id", func(c *gin.Context) {
		if err := a.Entries.DeleteEntry(c.Request.Context(), c.Param("id")); err != nil {
			AbortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true})
	})

	r.GET("/export", func(c *gin.Context) {
		snapshot := export.Build(c.Request.Context(), a.Entries, a.Profile)
		c.JSON(http.StatusOK, snapshot)
	})
}
