package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rubricware/rubrichub/internal/security"
	"github.com/rubricware/rubrichub/internal/store"
)

// getUserID extracts the user ID from gin context.
func getUserID(c *gin.Context) uint64 {
	val, exists := c.Get("userID")
	if !exists {
		return 0
	}
	switch v := val.(type) {
	case uint64:
		return v
	case int64:
		return uint64(v)
	case uint:
		return uint64(v)
	case int:
		return uint64(v)
	default:
		return 0
	}
}

// getClaims extracts the parsed token claims from gin context.
func getClaims(c *gin.Context) *security.UserClaims {
	val, exists := c.Get("claims")
	if !exists {
		return nil
	}
	claims, ok := val.(*security.UserClaims)
	if !ok {
		return nil
	}
	return claims
}

// respondStoreError maps store errors onto HTTP status codes.
func respondStoreError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, store.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
