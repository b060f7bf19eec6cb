package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"timesheet-service/internal/timesheet"
)

type clockInRequest struct {
	Location   string `json:"location"`
	ClientID   string `json:"clientId"`
	ClientName string `json:"clientName"`
}

type clockOutRequest struct {
	Survey *timesheet.Survey `json:"surveyData"`
}

// TimesheetRoutes attaches the clock and aggregate endpoints.
func (a *App) TimesheetRoutes(r *gin.RouterGroup) {
	r.POST("/clock-in", func(c *gin.Context) {
		var req clockInRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			AbortWithError(c, ErrInvalidRequest)
			return
		}

		// Backfill the client name from the record when only the id is sent
		if req.ClientName == "" && req.ClientID != "" {
			if client := a.Clients.FindByID(c.Request.Context(), req.ClientID); client != nil {
				req.ClientName = client.Name
			}
		}

		entry, err := a.Entries.ClockIn(c.Request.Context(), timesheet.ClockInOptions{
			Location:   req.Location,
			ClientID:   req.ClientID,
			ClientName: req.ClientName,
		})
		if err != nil {
			AbortWithError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "entry": entry})
	})

	r.POST("/clock-out", func(c *gin.Context) {
		var req clockOutRequest
		// An empty body is a plain clock-out
		if c.Request.ContentLength > 0 {
			if err := c.ShouldBindJSON(&req); err != nil {
				AbortWithError(c, ErrInvalidRequest)
				return
			}
		}

		entry, err := a.Entries.ClockOutWithSurvey(c.Request.Context(), req.Survey)
		if err != nil {
			AbortWithError(c, err)
			return
		}

		// entry is nil when no shift was in progress; that is not an error
		c.JSON(http.StatusOK, gin.H{"success": true, "entry": entry})
	})

	r.GET("/status", func(c *gin.Context) {
		ctx := c.Request.Context()
		c.JSON(http.StatusOK, gin.H{
			"isClockedIn":  a.Entries.IsClockedIn(ctx),
			"currentEntry": a.Entries.CurrentEntry(ctx),
		})
	})

	r.GET("/entries", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"entries": a.Entries.AllEntries(c.Request.Context())})
	})

	r.GET("/entries/today", func(c *gin.Context) {
		entries := a.Entries.TodayEntries(c.Request.Context())
		if entries == nil {
			entries = []timesheet.TimeEntry{}
		}
		c.JSON(http.StatusOK, gin.H{"entries": entries})
	})

	r.GET("/hours/today", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"hours": a.Entries.TodayHours(c.Request.Context())})
	})

	r.GET("/hours/weekly", func(c *gin.Context) {
		hours := a.Entries.WeeklyHours(c.Request.Context())
		total := 0.0
		for _, h := range hours {
			total += h
		}
		c.JSON(http.StatusOK, gin.H{"hours": hours, "total": total})
	})
}
