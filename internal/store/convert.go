package store

import (
	"github.com/rubricware/rubrichub/internal/models"
	"github.com/rubricware/rubrichub/internal/rubric"
)

// instanceFromModel converts a loaded rubric record, rows already sorted by
// position, into the core editing representation.
func instanceFromModel(r *models.Rubric) *rubric.Instance {
	in := &rubric.Instance{
		ID:          r.ID,
		Name:        r.Name,
		SubjectCode: r.SubjectCode,
		Rows:        rowsFromModel(r.Rows),
		Version:     r.Version,
		UpdatedAt:   r.UpdatedAt,
	}
	if r.TemplateID != nil {
		in.TemplateID = *r.TemplateID
	}
	if r.TemplateVersion != nil {
		in.TemplateVer = *r.TemplateVersion
	}
	return in
}

// rowsFromModel converts persisted rows to the core row sequence. Callers
// must have ordered the slice by position already.
func rowsFromModel(src []models.RubricRow) []rubric.Row {
	out := make([]rubric.Row, 0, len(src))
	for _, m := range src {
		row := rubric.Row{
			ID: m.ID,
			Fields: rubric.Fields{
				Task:            m.Task,
				AIUseLevel:      m.AIUseLevel,
				Instructions:    m.Instructions,
				Examples:        m.Examples,
				Acknowledgement: m.Acknowledgement,
			},
		}
		if m.TemplateRowID != nil {
			row.TemplateRowID = *m.TemplateRowID
		}
		out = append(out, row)
	}
	return out
}

// rowsToModel converts a core row sequence to persisted rows, recording each
// row's sequence index as its position.
func rowsToModel(rubricID string, rows []rubric.Row) []models.RubricRow {
	out := make([]models.RubricRow, 0, len(rows))
	for i, row := range rows {
		m := models.RubricRow{
			ID:              row.ID,
			RubricID:        rubricID,
			Position:        i,
			Task:            row.Task,
			AIUseLevel:      row.AIUseLevel,
			Instructions:    row.Instructions,
			Examples:        row.Examples,
			Acknowledgement: row.Acknowledgement,
		}
		if row.TemplateRowID != "" {
			id := row.TemplateRowID
			m.TemplateRowID = &id
		}
		out = append(out, m)
	}
	return out
}

// templateRowsFromModel converts persisted template rows, sorted by position,
// to the core representation.
func templateRowsFromModel(src []models.TemplateRow) []rubric.TemplateRow {
	out := make([]rubric.TemplateRow, 0, len(src))
	for _, m := range src {
		out = append(out, rubric.TemplateRow{
			ID: m.ID,
			Fields: rubric.Fields{
				Task:            m.Task,
				AIUseLevel:      m.AIUseLevel,
				Instructions:    m.Instructions,
				Examples:        m.Examples,
				Acknowledgement: m.Acknowledgement,
			},
		})
	}
	return out
}

// templateRowsToModel converts core template rows to persisted rows with
// explicit positions.
func templateRowsToModel(templateID string, rows []rubric.TemplateRow) []models.TemplateRow {
	out := make([]models.TemplateRow, 0, len(rows))
	for i, row := range rows {
		out = append(out, models.TemplateRow{
			ID:              row.ID,
			TemplateID:      templateID,
			Position:        i,
			Task:            row.Task,
			AIUseLevel:      row.AIUseLevel,
			Instructions:    row.Instructions,
			Examples:        row.Examples,
			Acknowledgement: row.Acknowledgement,
		})
	}
	return out
}
