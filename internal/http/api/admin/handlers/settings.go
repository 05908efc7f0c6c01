package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/rubricware/rubrichub/internal/settings"
)

// SettingsHandler handles site settings administration.
type SettingsHandler struct {
	db *gorm.DB
}

// NewSettingsHandler constructs a SettingsHandler.
func NewSettingsHandler(db *gorm.DB) *SettingsHandler {
	return &SettingsHandler{db: db}
}

// Get returns the effective site settings.
func (h *SettingsHandler) Get(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"siteName":        settings.SiteName(),
		"aiUseLevels":     settings.AIUseLevels(),
		"defaultRowCount": settings.BlankRowCount(),
		"updatedAt":       settings.UpdatedAt(),
	})
}

// Update writes one setting. The body is the raw JSON value for the key.
func (h *SettingsHandler) Update(c *gin.Context) {
	body, errRead := io.ReadAll(io.LimitReader(c.Request.Body, 1<<20))
	if errRead != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "read body failed"})
		return
	}
	if !json.Valid(body) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	if errUpsert := settings.Upsert(c.Request.Context(), h.db, c.Param("key"), body); errUpsert != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update setting failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
