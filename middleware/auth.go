package middleware

import (
	"net/http"
	"strings"

	"github.com/TheNoah-BaseApps/legal-application-legal-8203ea17/config"
	"github.com/TheNoah-BaseApps/legal-application-legal-8203ea17/db"
	"github.com/TheNoah-BaseApps/legal-application-legal-8203ea17/models"
	"github.com/TheNoah-BaseApps/legal-application-legal-8203ea17/services"
	"github.com/labstack/echo/v4"
)

const (
	// ContextKeyUser is the context key for the authenticated user
	ContextKeyUser = "user"
	// ContextKeyConfig is the context key for the app config
	ContextKeyConfig = "config"
)

// RequireAuth validates the bearer token on the Authorization header and
// loads the authenticated user into the request context.
func RequireAuth() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cfg, ok := c.Get(ContextKeyConfig).(*config.Config)
			if !ok {
				return echo.NewHTTPError(http.StatusInternalServerError, "Server misconfigured")
			}

			header := c.Request().Header.Get(echo.HeaderAuthorization)
			if header == "" || !strings.HasPrefix(header, "Bearer ") {
				return echo.NewHTTPError(http.StatusUnauthorized, "Missing bearer token")
			}

			claims, err := services.ParseToken(strings.TrimPrefix(header, "Bearer "), cfg.JWTSecret)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid or expired token")
			}

			// Token must belong to a live user
			var user models.User
			if err := db.DB.First(&user, "id = ?", claims.UserID).Error; err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "Unknown user")
			}

			c.Set(ContextKeyUser, &user)
			return next(c)
		}
	}
}

// RequireRole restricts a route to specific roles
func RequireRole(roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user := GetCurrentUser(c)
			if user == nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "Not authenticated")
			}

			for _, role := range roles {
				if user.Role == role {
					return next(c)
				}
			}

			return echo.NewHTTPError(http.StatusForbidden, "Insufficient permissions")
		}
	}
}

// GetCurrentUser retrieves the current user from context
func GetCurrentUser(c echo.Context) *models.User {
	user, ok := c.Get(ContextKeyUser).(*models.User)
	if !ok {
		return nil
	}
	return user
}

// GetAuditContext builds the audit metadata for the current request
func GetAuditContext(c echo.Context) services.AuditContext {
	ctx := services.AuditContext{
		IPAddress: c.RealIP(),
		UserAgent: c.Request().UserAgent(),
	}
	if user := GetCurrentUser(c); user != nil {
		ctx.UserID = user.ID
	}
	return ctx
}
