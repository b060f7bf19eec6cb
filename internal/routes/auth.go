// Authentication middleware and sign-in flow.
// Employees sign in with their employee ID and PIN; a signed session token
// goes into a cookie, and its jti nonce makes logout an actual revocation.
package routes

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"timesheet-service/internal/jwt"
	"timesheet-service/internal/nonce"
)

const AUTH_COOKIE_NAME = "auth_token"

const AUTH_FAIL_STATUS = http.StatusUnauthorized // HTTP status code for authentication failure

var (
	ErrUserNotFound  = errors.New("user not found in context")
	ErrUserNotString = errors.New("user ID in context is not a string")
)

// Get authentication TTL in seconds
func (a *App) authTTL() uint {
	// Convert hours to seconds
	return a.Cfg.SessionTTL * 60 * 60
}

// Set authentication cookie
// The cookie is set to expire when the token expires
func (a *App) setAuthCookie(c *gin.Context, token string) {
	secure := c.Request.TLS != nil || c.GetHeader("X-Forwarded-Proto") == "https"

	c.SetCookie(
		AUTH_COOKIE_NAME,
		token,
		int(a.authTTL()),
		"/",
		"",
		secure,
		true,
	)
}

// GetUser returns the authenticated employee ID from the request context.
func GetUser(c *gin.Context) (string, error) {
	uid, exists := c.Get("employeeID")
	if !exists {
		return "", ErrUserNotFound
	}
	userIdStr, ok := uid.(string)
	if !ok {
		slog.Warn("GetUser: Employee ID in context is not a string")
		return "", ErrUserNotString
	}
	return userIdStr, nil
}

type signInRequest struct {
	EmployeeID string `json:"employee_id" binding:"required"`
	PIN        string `json:"pin" binding:"required"`
}

// AuthMiddleware validates the session cookie and stores the identity in the
// request context.
func (a *App) AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(AUTH_COOKIE_NAME)
		if err != nil {
			AbortWithError(c, ErrUnauthorized)
			return
		}

		claims, err := jwt.DecodeSessionJWT(c.Request.Context(), token)
		if err != nil {
			slog.Warn("AuthMiddleware: Invalid or missing auth token", "error", err)
			AbortWithError(c, err)
			return
		}

		c.Set("employeeID", claims.EmployeeID)
		c.Set("employeeName", claims.Name)
		c.Next()
	}
}

// RequireRole gates a route group on a directory role.
func (a *App) RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		employeeID, err := GetUser(c)
		if err != nil {
			AbortWithError(c, ErrUnauthorized)
			return
		}

		if !a.Directory.HasRole(employeeID, role) {
			slog.Warn("Permission denied", "employee_id", employeeID, "role", role)
			AbortWithError(c, ErrInsufficientPermissions)
			return
		}

		slog.Debug("Permission granted", "employee_id", employeeID, "role", role)
		c.Next()
	}
}

func (a *App) logout(c *gin.Context) {
	// Consume the nonce to invalidate the token
	token, err := c.Cookie(AUTH_COOKIE_NAME)
	if err != nil {
		slog.Warn("Logout: No auth token found to consume nonce", "error", err)
	} else {
		claims, err := jwt.DecodeSessionJWT(c.Request.Context(), token)
		if err == nil {
			nonce.Store.Consume(c.Request.Context(), claims.ID)
		}
	}

	// Clear auth cookie by setting it to expire in the past
	c.SetCookie(
		AUTH_COOKIE_NAME,
		"",
		-1,
		"/",
		"",
		false,
		true,
	)
}

func (a *App) AuthRoutes(r *gin.RouterGroup) {
	r.POST("/signin", func(c *gin.Context) {
		var req signInRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			AbortWithError(c, ErrInvalidRequest)
			return
		}

		employee, err := a.Directory.Verify(req.EmployeeID, req.PIN)
		if err != nil {
			AbortWithError(c, err)
			return
		}

		claims := jwt.NewSessionClaims(employee.EmployeeID, employee.Name)
		token, err := jwt.GenerateJWT(claims)
		if err != nil {
			slog.Error("Failed to generate session token", "error", err)
			AbortWithError(c, ErrInternalServer)
			return
		}
		a.setAuthCookie(c, token)

		c.JSON(http.StatusOK, gin.H{"status": "authenticated", "employee": employee})
	})

	r.POST("/logout", a.AuthMiddleware(), func(c *gin.Context) {
		a.logout(c)
		c.JSON(http.StatusOK, gin.H{"status": "signed_out"})
	})

	r.GET("/status", a.AuthMiddleware(), func(c *gin.Context) {
		// If we reach here, the token is valid
		c.JSON(http.StatusOK, gin.H{"status": "authenticated", "employeeID": c.GetString("employeeID")})
	})
}
