package admin

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/rubricware/rubrichub/internal/config"
	"github.com/rubricware/rubrichub/internal/http/api/admin/handlers"
	"github.com/rubricware/rubrichub/internal/models"
	"github.com/rubricware/rubrichub/internal/security"
	"github.com/rubricware/rubrichub/internal/sessions"
	"github.com/rubricware/rubrichub/internal/store"
)

// RegisterAdminRoutes registers the admin console routes.
func RegisterAdminRoutes(r *gin.Engine, db *gorm.DB, st *store.Store, jwtCfg config.JWTConfig, revoker *sessions.Revoker) {
	if r == nil || db == nil {
		return
	}

	adminGroup := r.Group("/v0/admin")

	authHandler := handlers.NewAuthHandler(db, jwtCfg)
	adminGroup.POST("/login", authHandler.Login)

	authed := adminGroup.Group("")
	authed.Use(adminAuthMiddleware(db, jwtCfg, revoker))

	templateHandler := handlers.NewTemplateHandler(st)
	authed.GET("/templates", templateHandler.List)
	authed.POST("/templates", templateHandler.Create)
	authed.GET("/templates/:id", templateHandler.Get)
	authed.PUT("/templates/:id", templateHandler.UpdateMeta)
	authed.PUT("/templates/:id/rows", templateHandler.PublishRows)
	authed.DELETE("/templates/:id", templateHandler.Delete)

	userHandler := handlers.NewUserHandler(db)
	authed.GET("/users", userHandler.List)
	authed.PUT("/users/:id/role", userHandler.UpdateRole)
	authed.PUT("/users/:id/disabled", userHandler.UpdateDisabled)

	settingsHandler := handlers.NewSettingsHandler(db)
	authed.GET("/settings", settingsHandler.Get)
	authed.PUT("/settings/:key", settingsHandler.Update)
}

// adminAuthMiddleware validates admin JWTs and rejects non-admin accounts.
func adminAuthMiddleware(db *gorm.DB, jwtCfg config.JWTConfig, revoker *sessions.Revoker) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing authorization header"})
			return
		}

		token := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
		if token == "" || token == strings.TrimSpace(authHeader) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization format"})
			return
		}

		claims, errJWT := security.ParseToken(jwtCfg.Secret, token)
		if errJWT != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		if revoker != nil {
			revoked, errRevoked := revoker.Revoked(c.Request.Context(), claims.ID)
			if errRevoked != nil {
				c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "session check failed"})
				return
			}
			if revoked {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "token revoked"})
				return
			}
		}

		var user models.User
		if errFind := db.WithContext(c.Request.Context()).First(&user, claims.UserID).Error; errFind != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
			return
		}
		if user.Disabled {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "user disabled"})
			return
		}
		if !user.IsAdmin() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin required"})
			return
		}

		c.Set("userID", user.ID)
		c.Set("claims", claims)
		c.Next()
	}
}
