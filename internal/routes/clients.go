package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"timesheet-service/internal/clients"
)

// ClientRoutes attaches the client CRUD endpoints.
func (a *App) ClientRoutes(r *gin.RouterGroup) {
	r.GET("", func(c *gin.Context) {
		ctx := c.Request.Context()

		var list []clients.Client
		if c.Query("active") == "true" {
			list = a.Clients.ActiveOnly(ctx)
		} else {
			list = a.Clients.List(ctx)
		}
		if list == nil {
			list = []clients.Client{}
		}

		c.JSON(http.StatusOK, gin.H{"clients": list})
	})

	r.GET("/:id", func(c *gin.Context) {
		client := a.Clients.FindByID(c.Request.Context(), c.Param("id"))
		if client == nil {
			AbortWithHTTPError(c, http.StatusNotFound, nil, "Client not found", "CLIENT_NOT_FOUND")
			return
		}
		c.JSON(http.StatusOK, client)
	})

	r.POST("", func(c *gin.Context) {
		var fields clients.Fields
		if err := c.ShouldBindJSON(&fields); err != nil {
			AbortWithError(c, ErrInvalidRequest)
			return
		}

		client, err := a.Clients.Add(c.Request.Context(), fields)
		if err != nil {
			AbortWithError(c, err)
			return
		}

		c.JSON(http.StatusCreated, client)
	})

	r.PATCH("/:id", func(c *gin.Context) {
		var patch clients.Patch
		if err := c.ShouldBindJSON(&patch); err != nil {
			AbortWithError(c, ErrInvalidRequest)
			return
		}

		if err := a.Clients.Update(c.Request.Context(), c.Param("id"), patch); err != nil {
			AbortWithError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true})
	})

	r.DELETE("/:id", func(c *gin.Context) {
		if err := a.Clients.Delete(c.Request.Context(), c.Param("id")); err != nil {
			AbortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true})
	})
}
