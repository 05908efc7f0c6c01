package front

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/rubricware/rubrichub/internal/config"
	"github.com/rubricware/rubrichub/internal/http/api/front/handlers"
	"github.com/rubricware/rubrichub/internal/models"
	"github.com/rubricware/rubrichub/internal/security"
	"github.com/rubricware/rubrichub/internal/sessions"
	"github.com/rubricware/rubrichub/internal/store"
)

// RegisterFrontRoutes registers public and authenticated front-end routes.
func RegisterFrontRoutes(r *gin.Engine, db *gorm.DB, st *store.Store, jwtCfg config.JWTConfig, revoker *sessions.Revoker) {
	if r == nil || db == nil {
		return
	}

	front := r.Group("/v0/front")

	authHandler := handlers.NewAuthHandler(db, jwtCfg, revoker)
	front.POST("/register", authHandler.Register)
	front.POST("/login", authHandler.Login)
	front.POST("/reset-password", authHandler.ResetPassword)
	front.GET("/config", handlers.GetPublicConfig)

	authed := front.Group("")
	authed.Use(userAuthMiddleware(db, jwtCfg, revoker))

	authed.POST("/logout", authHandler.Logout)

	profileHandler := handlers.NewProfileHandler(db)
	authed.GET("/profile", profileHandler.Get)
	authed.PUT("/profile/password", profileHandler.ChangePassword)

	rubricHandler := handlers.NewRubricHandler(st)
	authed.GET("/rubrics", rubricHandler.List)
	authed.GET("/rubrics/shared", rubricHandler.ListShared)
	authed.POST("/rubrics", rubricHandler.Create)
	authed.GET("/rubrics/:id", rubricHandler.Get)
	authed.PUT("/rubrics/:id", rubricHandler.UpdateMeta)
	authed.DELETE("/rubrics/:id", rubricHandler.Delete)
	authed.PATCH("/rubrics/:id/rows", rubricHandler.SaveRows)
	authed.GET("/rubrics/:id/export", rubricHandler.Export)

	updatesHandler := handlers.NewTemplateUpdatesHandler(st)
	authed.GET("/rubrics/:id/template-updates", updatesHandler.Pending)
	authed.POST("/rubrics/:id/apply-template-updates", updatesHandler.Apply)

	templateHandler := handlers.NewTemplateHandler(st)
	authed.GET("/templates", templateHandler.List)
	authed.GET("/templates/:id", templateHandler.Get)
}

// userAuthMiddleware validates user JWTs, rejects revoked tokens and loads
// the user into context.
func userAuthMiddleware(db *gorm.DB, jwtCfg config.JWTConfig, revoker *sessions.Revoker) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing authorization header"})
			return
		}

		token := strings.TrimPrefix(authHeader, "Bearer ")
		if token == authHeader {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization format"})
			return
		}
		token = strings.TrimSpace(token)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "empty token"})
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

		c.Set("userID", user.ID)
		c.Set("claims", claims)
		c.Next()
	}
}
