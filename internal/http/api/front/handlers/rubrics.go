package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/rubricware/rubrichub/internal/export"
	"github.com/rubricware/rubrichub/internal/rubric"
	"github.com/rubricware/rubrichub/internal/settings"
	"github.com/rubricware/rubrichub/internal/store"
)

// RubricHandler handles rubric CRUD, row saves and exports.
type RubricHandler struct {
	st *store.Store
}

// NewRubricHandler constructs a RubricHandler.
func NewRubricHandler(st *store.Store) *RubricHandler {
	return &RubricHandler{st: st}
}

// List returns the caller's rubrics with recomputed update availability.
func (h *RubricHandler) List(c *gin.Context) {
	summaries, errList := h.st.ListInstances(c.Request.Context(), getUserID(c), c.Query("search"))
	if errList != nil {
		respondStoreError(c, errList)
		return
	}
	c.JSON(http.StatusOK, gin.H{"rubrics": summaries})
}

// ListShared returns rubrics other users have shared.
func (h *RubricHandler) ListShared(c *gin.Context) {
	summaries, errList := h.st.ListShared(c.Request.Context(), getUserID(c), c.Query("search"))
	if errList != nil {
		respondStoreError(c, errList)
		return
	}
	c.JSON(http.StatusOK, gin.H{"rubrics": summaries})
}

// createRubricRequest defines the request body for rubric creation. With a
// template id the rubric is seeded from that template; linkForUpdates false
// produces a fully disconnected copy.
type createRubricRequest struct {
	Name           string `json:"name"`
	SubjectCode    string `json:"subjectCode"`
	TemplateID     string `json:"templateId"`
	LinkForUpdates bool   `json:"linkForUpdates"`
	RowCount       *int   `json:"rowCount"`
}

// Create creates a rubric from scratch or from a template.
func (h *RubricHandler) Create(c *gin.Context) {
	var body createRubricRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	name := strings.TrimSpace(body.Name)
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing name"})
		return
	}
	subjectCode := strings.TrimSpace(body.SubjectCode)

	userID := getUserID(c)
	if templateID := strings.TrimSpace(body.TemplateID); templateID != "" {
		created, errCreate := h.st.CreateFromTemplate(c.Request.Context(), userID, name, subjectCode, templateID, body.LinkForUpdates)
		if errCreate != nil {
			respondStoreError(c, errCreate)
			return
		}
		c.JSON(http.StatusCreated, created)
		return
	}

	rowCount := settings.BlankRowCount()
	if body.RowCount != nil {
		rowCount = *body.RowCount
	}
	if rowCount < 0 || rowCount > 50 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid row count"})
		return
	}
	created, errCreate := h.st.CreateFromScratch(c.Request.Context(), userID, name, subjectCode, rowCount)
	if errCreate != nil {
		respondStoreError(c, errCreate)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// Get returns a single rubric with its full row sequence. Shared rubrics are
// readable by any signed-in user.
func (h *RubricHandler) Get(c *gin.Context) {
	in, errFetch := h.st.FetchInstance(c.Request.Context(), getUserID(c), c.Param("id"))
	if errFetch != nil {
		respondStoreError(c, errFetch)
		return
	}
	c.JSON(http.StatusOK, in)
}

// updateMetaRequest defines the request body for metadata updates.
type updateMetaRequest struct {
	Name        string `json:"name"`
	SubjectCode string `json:"subjectCode"`
	Shared      bool   `json:"shared"`
}

// UpdateMeta updates a rubric's name, subject code and shared flag.
func (h *RubricHandler) UpdateMeta(c *gin.Context) {
	var body updateMetaRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	name := strings.TrimSpace(body.Name)
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing name"})
		return
	}

	errUpdate := h.st.UpdateMeta(c.Request.Context(), getUserID(c), c.Param("id"), name, strings.TrimSpace(body.SubjectCode), body.Shared)
	if errUpdate != nil {
		respondStoreError(c, errUpdate)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// Delete removes a rubric. Deleting an already-deleted rubric succeeds.
func (h *RubricHandler) Delete(c *gin.Context) {
	if errDelete := h.st.DeleteInstance(c.Request.Context(), getUserID(c), c.Param("id")); errDelete != nil {
		respondStoreError(c, errDelete)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// saveRowsRequest defines the request body for a full row save. BumpVersion
// defaults to true; autosave clients set it false to persist without
// advancing the version counter.
type saveRowsRequest struct {
	Rows        []rubric.Row `json:"rows"`
	BumpVersion *bool        `json:"bumpVersion"`
}

// SaveRows replaces the rubric's full row sequence. Rows without an id are
// new; they get one assigned here so the client sees stable ids on the
// response.
func (h *RubricHandler) SaveRows(c *gin.Context) {
	var body saveRowsRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if len(body.Rows) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing rows"})
		return
	}
	for i := range body.Rows {
		if strings.TrimSpace(body.Rows[i].ID) == "" {
			body.Rows[i].ID = rubric.NewRowID()
		}
	}

	bumpVersion := true
	if body.BumpVersion != nil {
		bumpVersion = *body.BumpVersion
	}
	saved, errSave := h.st.SaveRows(c.Request.Context(), getUserID(c), c.Param("id"), body.Rows, bumpVersion)
	if errSave != nil {
		respondStoreError(c, errSave)
		return
	}
	c.JSON(http.StatusOK, saved)
}

// Export renders the rubric as a downloadable document. The format query
// accepts xlsx, csv or json and defaults to xlsx.
func (h *RubricHandler) Export(c *gin.Context) {
	format, errFormat := export.ParseFormat(c.Query("format"))
	if errFormat != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unsupported format"})
		return
	}

	in, errFetch := h.st.FetchInstance(c.Request.Context(), getUserID(c), c.Param("id"))
	if errFetch != nil {
		respondStoreError(c, errFetch)
		return
	}

	var buf bytes.Buffer
	if errWrite := export.Write(&buf, format, in); errWrite != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "export failed"})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.Filename(in, format)))
	c.Data(http.StatusOK, export.ContentType(format), buf.Bytes())
}
