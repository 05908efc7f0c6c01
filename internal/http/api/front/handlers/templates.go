package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rubricware/rubrichub/internal/store"
)

// TemplateHandler serves the read-only template picker endpoints.
type TemplateHandler struct {
	st *store.Store
}

// NewTemplateHandler constructs a TemplateHandler.
func NewTemplateHandler(st *store.Store) *TemplateHandler {
	return &TemplateHandler{st: st}
}

// List returns all templates for the picker.
func (h *TemplateHandler) List(c *gin.Context) {
	summaries, errList := h.st.ListTemplates(c.Request.Context(), c.Query("search"))
	if errList != nil {
		respondStoreError(c, errList)
		return
	}
	c.JSON(http.StatusOK, gin.H{"templates": summaries})
}

// Get returns a full template with its current row set, for previewing
// before creating a rubric from it.
func (h *TemplateHandler) Get(c *gin.Context) {
	tpl, errFetch := h.st.FetchTemplate(c.Request.Context(), c.Param("id"))
	if errFetch != nil {
		respondStoreError(c, errFetch)
		return
	}
	c.JSON(http.StatusOK, tpl)
}
