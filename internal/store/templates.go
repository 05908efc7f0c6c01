package store

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rubricware/rubrichub/internal/db"
	"github.com/rubricware/rubrichub/internal/models"
	"github.com/rubricware/rubrichub/internal/rubric"
)

// TemplateSummary is a list-view projection of a template for the picker and
// the admin console.
type TemplateSummary struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	SubjectCode string    `json:"subjectCode"`
	Description string    `json:"description,omitempty"`
	Version     int       `json:"version"`
	RowCount    int       `json:"rowCount"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Template is a full template document: metadata plus the current version's
// ordered row set.
type Template struct {
	ID          string               `json:"id"`
	Name        string               `json:"name"`
	SubjectCode string               `json:"subjectCode"`
	Description string               `json:"description,omitempty"`
	Version     int                  `json:"version"`
	Rows        []rubric.TemplateRow `json:"rows"`
	UpdatedAt   time.Time            `json:"updatedAt"`
}

// FetchSnapshot loads the current version of a template as an immutable
// snapshot for diffing and instance creation.
func (s *Store) FetchSnapshot(ctx context.Context, templateID string) (*rubric.Snapshot, error) {
	return s.fetchSnapshot(s.db.WithContext(ctx), templateID)
}

func (s *Store) fetchSnapshot(tx *gorm.DB, templateID string) (*rubric.Snapshot, error) {
	record, errFind := findTemplate(tx, templateID)
	if errFind != nil {
		return nil, errFind
	}
	return rubric.NewSnapshot(record.ID, record.Version, templateRowsFromModel(record.Rows)), nil
}

// FetchTemplate loads a full template document with its current row set.
func (s *Store) FetchTemplate(ctx context.Context, templateID string) (*Template, error) {
	record, errFind := findTemplate(s.db.WithContext(ctx), templateID)
	if errFind != nil {
		return nil, errFind
	}
	return &Template{
		ID:          record.ID,
		Name:        record.Name,
		SubjectCode: record.SubjectCode,
		Description: record.Description,
		Version:     record.Version,
		Rows:        templateRowsFromModel(record.Rows),
		UpdatedAt:   record.UpdatedAt,
	}, nil
}

func findTemplate(tx *gorm.DB, templateID string) (*models.RubricTemplate, error) {
	var record models.RubricTemplate
	errFind := tx.
		Preload("Rows", func(q *gorm.DB) *gorm.DB { return q.Order("position ASC") }).
		Where("id = ?", templateID).
		First(&record).Error
	if errFind != nil {
		if errors.Is(errFind, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, errFind
	}
	return &record, nil
}

// ListTemplates returns all templates, newest first, optionally filtered by a
// case-insensitive name or subject-code search.
func (s *Store) ListTemplates(ctx context.Context, search string) ([]TemplateSummary, error) {
	query := s.db.WithContext(ctx).Model(&models.RubricTemplate{})
	if trimmed := strings.TrimSpace(search); trimmed != "" {
		pattern := db.NormalizeLikePattern(s.db, "%"+trimmed+"%")
		query = query.Where(
			s.db.Where(db.CaseInsensitiveLikeExpr(s.db, "name"), pattern).
				Or(db.CaseInsensitiveLikeExpr(s.db, "subject_code"), pattern),
		)
	}

	var records []models.RubricTemplate
	if errFind := query.Order("updated_at DESC").Find(&records).Error; errFind != nil {
		return nil, errFind
	}

	counts, errCounts := s.templateRowCounts(ctx, records)
	if errCounts != nil {
		return nil, errCounts
	}

	out := make([]TemplateSummary, 0, len(records))
	for _, r := range records {
		out = append(out, TemplateSummary{
			ID:          r.ID,
			Name:        r.Name,
			SubjectCode: r.SubjectCode,
			Description: r.Description,
			Version:     r.Version,
			RowCount:    counts[r.ID],
			UpdatedAt:   r.UpdatedAt,
		})
	}
	return out, nil
}

func (s *Store) templateRowCounts(ctx context.Context, records []models.RubricTemplate) (map[string]int, error) {
	if len(records) == 0 {
		return map[string]int{}, nil
	}
	ids := make([]string, 0, len(records))
	for _, r := range records {
		ids = append(ids, r.ID)
	}
	var rows []struct {
		TemplateID string
		N          int
	}
	errCount := s.db.WithContext(ctx).Model(&models.TemplateRow{}).
		Select("template_id, COUNT(*) AS n").
		Where("template_id IN ?", ids).
		Group("template_id").
		Scan(&rows).Error
	if errCount != nil {
		return nil, errCount
	}
	out := make(map[string]int, len(rows))
	for _, row := range rows {
		out[row.TemplateID] = row.N
	}
	return out, nil
}

// CreateTemplate persists a new template at version 1 with the given rows.
// Rows without an id get a freshly generated one.
func (s *Store) CreateTemplate(ctx context.Context, createdBy uint64, name, subjectCode, description string, rows []rubric.TemplateRow) (*Template, error) {
	record := models.RubricTemplate{
		ID:          uuid.NewString(),
		Name:        name,
		SubjectCode: subjectCode,
		Description: description,
		Version:     1,
		CreatedBy:   createdBy,
	}
	ensureTemplateRowIDs(rows)
	errTx := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if errCreate := tx.Create(&record).Error; errCreate != nil {
			return errCreate
		}
		rowRecords := templateRowsToModel(record.ID, rows)
		if len(rowRecords) == 0 {
			return nil
		}
		return tx.Create(&rowRecords).Error
	})
	if errTx != nil {
		return nil, errTx
	}
	return s.FetchTemplate(ctx, record.ID)
}

// UpdateTemplateMeta updates a template's name, subject code and description.
// Metadata edits never bump the version; only row content does.
func (s *Store) UpdateTemplateMeta(ctx context.Context, templateID, name, subjectCode, description string) error {
	result := s.db.WithContext(ctx).Model(&models.RubricTemplate{}).
		Where("id = ?", templateID).
		Updates(map[string]any{
			"name":         name,
			"subject_code": subjectCode,
			"description":  description,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ReplaceTemplateRows publishes a new template version: the full row set is
// replaced and the version advances by one in the same transaction. Template
// row ids survive the replacement when the caller carries them over, which is
// what keeps instance row links resolvable across versions.
func (s *Store) ReplaceTemplateRows(ctx context.Context, templateID string, rows []rubric.TemplateRow) (*Template, error) {
	ensureTemplateRowIDs(rows)
	errTx := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		record, errFind := findTemplate(tx, templateID)
		if errFind != nil {
			return errFind
		}
		if errDelete := tx.Where("template_id = ?", templateID).Delete(&models.TemplateRow{}).Error; errDelete != nil {
			return errDelete
		}
		rowRecords := templateRowsToModel(templateID, rows)
		if len(rowRecords) > 0 {
			if errCreate := tx.Create(&rowRecords).Error; errCreate != nil {
				return errCreate
			}
		}
		return tx.Model(&models.RubricTemplate{}).Where("id = ?", templateID).
			Updates(map[string]any{
				"version":    record.Version + 1,
				"updated_at": time.Now().UTC(),
			}).Error
	})
	if errTx != nil {
		return nil, errTx
	}
	return s.FetchTemplate(ctx, templateID)
}

// DeleteTemplate removes a template and its rows. Instances created from it
// keep their provenance pointer; their links simply stop resolving, which the
// diff engine treats as "no update surface". Deleting an absent template is a
// no-op.
func (s *Store) DeleteTemplate(ctx context.Context, templateID string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("id = ?", templateID).Delete(&models.RubricTemplate{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return nil
		}
		return tx.Where("template_id = ?", templateID).Delete(&models.TemplateRow{}).Error
	})
}

func ensureTemplateRowIDs(rows []rubric.TemplateRow) {
	for i := range rows {
		if rows[i].ID == "" {
			rows[i].ID = rubric.NewRowID()
		}
	}
}
