// Package routes wires the HTTP API to the stores. Every handler hangs off
// App, which holds the store references - constructed once and passed in,
// never reached through package globals.
package routes

import (
	"github.com/gin-gonic/gin"

	"timesheet-service/internal/clients"
	"timesheet-service/internal/config"
	"timesheet-service/internal/directory"
	"timesheet-service/internal/email"
	"timesheet-service/internal/profile"
	"timesheet-service/internal/timesheet"
)

// App bundles the dependencies of the HTTP layer.
type App struct {
	Cfg       *config.Config
	Entries   *timesheet.Store
	Clients   *clients.Store
	Profile   *profile.Store
	Directory *directory.Directory
	Mailer    *email.Client
}

// RegisterRoutes attaches all API routes to the engine.
func (a *App) RegisterRoutes(r *gin.Engine) {
	r.Use(ErrorHandler())

	auth := r.Group("/auth")
	a.AuthRoutes(auth)

	api := r.Group("/api", a.AuthMiddleware())

	a.TimesheetRoutes(api.Group("/timesheet"))
	a.ClientRoutes(api.Group("/clients"))
	a.ProfileRoutes(api.Group("/profile"))

	admin := api.Group("/admin", a.RequireRole(directory.RoleAdmin))
	a.AdminRoutes(admin)
}
