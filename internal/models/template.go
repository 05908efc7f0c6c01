package models

import "time"

// RubricTemplate is an admin-authored, versioned source of rubric rows.
//
// The row set of a published version is immutable: every content-affecting
// change replaces the rows and bumps Version. Instances reference templates
// but never own them.
type RubricTemplate struct {
	ID string `gorm:"type:uuid;primaryKey"` // Template id.

	Name        string `gorm:"type:text;not null"` // Display name.
	SubjectCode string `gorm:"type:text;not null"` // Subject code.
	Description string `gorm:"type:text"`          // Optional description shown in the picker.

	Version int `gorm:"not null;default:1"` // Monotonic version, bumped on every content change.

	CreatedBy uint64 `gorm:"not null;index"` // Authoring admin user id.

	Rows []TemplateRow `gorm:"foreignKey:TemplateID;constraint:OnDelete:CASCADE"` // Current version's row set.

	CreatedAt time.Time `gorm:"not null;autoCreateTime"` // Creation timestamp.
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime"` // Last update timestamp.
}

// TemplateRow is one row of a rubric template.
type TemplateRow struct {
	ID string `gorm:"type:uuid;primaryKey"` // Stable row id, immutable once created.

	TemplateID string `gorm:"type:uuid;not null;index"` // Owning template id.
	Position   int    `gorm:"not null"`                 // Zero-based display order within the template.

	Task            string `gorm:"type:text;not null"` // Task description.
	AIUseLevel      string `gorm:"type:text;not null"` // Permitted AI use scale level.
	Instructions    string `gorm:"type:text;not null"` // Instructions to students.
	Examples        string `gorm:"type:text;not null"` // Worked yes/no examples.
	Acknowledgement string `gorm:"type:text;not null"` // AI use acknowledgement text.
}
