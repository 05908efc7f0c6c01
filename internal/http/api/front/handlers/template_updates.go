package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rubricware/rubrichub/internal/store"
)

// TemplateUpdatesHandler handles the template update review flow for
// template-linked rubrics.
type TemplateUpdatesHandler struct {
	st *store.Store
}

// NewTemplateUpdatesHandler constructs a TemplateUpdatesHandler.
func NewTemplateUpdatesHandler(st *store.Store) *TemplateUpdatesHandler {
	return &TemplateUpdatesHandler{st: st}
}

// Pending returns the row-level diff candidates against the template's
// current version. An empty candidate list with updateAvailable true means
// the template gained a version with no row-level differences; accepting
// still closes the review.
func (h *TemplateUpdatesHandler) Pending(c *gin.Context) {
	candidates, latest, errDiff := h.st.TemplateUpdates(c.Request.Context(), getUserID(c), c.Param("id"))
	if errDiff != nil {
		respondStoreError(c, errDiff)
		return
	}

	in, errFetch := h.st.FetchOwnedInstance(c.Request.Context(), getUserID(c), c.Param("id"))
	if errFetch != nil {
		respondStoreError(c, errFetch)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"candidates":      candidates,
		"latestVersion":   latest,
		"currentVersion":  in.TemplateVer,
		"updateAvailable": in.UpdateAvailable(latest),
	})
}

// applyRequest defines the request body for accepting template updates.
type applyRequest struct {
	AcceptRowIDs []string `json:"acceptRowIds"`
}

// Apply overwrites the accepted rows with their template counterparts and
// records the template's current version on the rubric. The request must name
// at least one row id; ids that no longer resolve are ignored.
func (h *TemplateUpdatesHandler) Apply(c *gin.Context) {
	var body applyRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if len(body.AcceptRowIDs) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing acceptRowIds"})
		return
	}

	applied, errApply := h.st.ApplyTemplateUpdates(c.Request.Context(), getUserID(c), c.Param("id"), body.AcceptRowIDs)
	if errApply != nil {
		respondStoreError(c, errApply)
		return
	}
	c.JSON(http.StatusOK, applied)
}
