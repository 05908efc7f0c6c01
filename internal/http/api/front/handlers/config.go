package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rubricware/rubrichub/internal/settings"
)

// GetPublicConfig returns the public site configuration used by the UI.
func GetPublicConfig(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"siteName":        settings.SiteName(),
		"aiUseLevels":     settings.AIUseLevels(),
		"defaultRowCount": settings.BlankRowCount(),
		"updatedAt":       settings.UpdatedAt(),
	})
}
