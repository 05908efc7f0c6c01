package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/rubricware/rubrichub/internal/rubric"
	"github.com/rubricware/rubrichub/internal/store"
)

// TemplateHandler handles admin template authoring.
type TemplateHandler struct {
	st *store.Store
}

// NewTemplateHandler constructs a TemplateHandler.
func NewTemplateHandler(st *store.Store) *TemplateHandler {
	return &TemplateHandler{st: st}
}

// List returns all templates.
func (h *TemplateHandler) List(c *gin.Context) {
	summaries, errList := h.st.ListTemplates(c.Request.Context(), c.Query("search"))
	if errList != nil {
		respondStoreError(c, errList)
		return
	}
	c.JSON(http.StatusOK, gin.H{"templates": summaries})
}

// Get returns a full template with its current row set.
func (h *TemplateHandler) Get(c *gin.Context) {
	tpl, errFetch := h.st.FetchTemplate(c.Request.Context(), c.Param("id"))
	if errFetch != nil {
		respondStoreError(c, errFetch)
		return
	}
	c.JSON(http.StatusOK, tpl)
}

// createTemplateRequest defines the request body for template creation.
type createTemplateRequest struct {
	Name        string               `json:"name"`
	SubjectCode string               `json:"subjectCode"`
	Description string               `json:"description"`
	Rows        []rubric.TemplateRow `json:"rows"`
}

// Create publishes a new template at version 1.
func (h *TemplateHandler) Create(c *gin.Context) {
	var body createTemplateRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	name := strings.TrimSpace(body.Name)
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing name"})
		return
	}

	tpl, errCreate := h.st.CreateTemplate(c.Request.Context(), getUserID(c), name, strings.TrimSpace(body.SubjectCode), strings.TrimSpace(body.Description), body.Rows)
	if errCreate != nil {
		respondStoreError(c, errCreate)
		return
	}
	c.JSON(http.StatusCreated, tpl)
}

// updateTemplateMetaRequest defines the request body for metadata updates.
type updateTemplateMetaRequest struct {
	Name        string `json:"name"`
	SubjectCode string `json:"subjectCode"`
	Description string `json:"description"`
}

// UpdateMeta updates template metadata without publishing a new version.
func (h *TemplateHandler) UpdateMeta(c *gin.Context) {
	var body updateTemplateMetaRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	name := strings.TrimSpace(body.Name)
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing name"})
		return
	}

	errUpdate := h.st.UpdateTemplateMeta(c.Request.Context(), c.Param("id"), name, strings.TrimSpace(body.SubjectCode), strings.TrimSpace(body.Description))
	if errUpdate != nil {
		respondStoreError(c, errUpdate)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// publishRowsRequest defines the request body for publishing a new row set.
type publishRowsRequest struct {
	Rows []rubric.TemplateRow `json:"rows"`
}

// PublishRows replaces the template's row set and bumps its version. Rows
// that keep their id stay linked to existing rubric rows; rows without an id
// are new and get one assigned.
func (h *TemplateHandler) PublishRows(c *gin.Context) {
	var body publishRowsRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if body.Rows == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing rows"})
		return
	}

	tpl, errPublish := h.st.ReplaceTemplateRows(c.Request.Context(), c.Param("id"), body.Rows)
	if errPublish != nil {
		respondStoreError(c, errPublish)
		return
	}
	c.JSON(http.StatusOK, tpl)
}

// Delete removes a template. Rubrics created from it keep working; their
// update review surface simply disappears.
func (h *TemplateHandler) Delete(c *gin.Context) {
	if errDelete := h.st.DeleteTemplate(c.Request.Context(), c.Param("id")); errDelete != nil {
		respondStoreError(c, errDelete)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
