package models

import "time"

// Rubric is a user-owned rubric instance document.
type Rubric struct {
	ID string `gorm:"type:uuid;primaryKey"` // Instance id.

	OwnerID uint64 `gorm:"not null;index"` // Owning user id.

	Name        string `gorm:"type:text;not null"` // Display name.
	SubjectCode string `gorm:"type:text;not null"` // Subject code, e.g. COMP30023.

	Version int `gorm:"not null;default:1"` // Instance edit counter, bumped per explicit save.

	TemplateID      *string `gorm:"type:uuid;index"` // Provenance template id, set at creation, never changed.
	TemplateVersion *int    // Template version the instance last synchronized to.

	Shared bool `gorm:"not null;default:false"` // Visible to other users when true.

	Rows []RubricRow `gorm:"foreignKey:RubricID;constraint:OnDelete:CASCADE"` // Ordered row set.

	CreatedAt time.Time `gorm:"not null;autoCreateTime"` // Creation timestamp.
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime"` // Last update timestamp.
}

// RubricRow is one task/criterion line of a rubric instance.
//
// Row order is significant (display and export order); it is persisted as an
// explicit position column and translated back to a sequence on fetch.
type RubricRow struct {
	ID string `gorm:"type:uuid;primaryKey"` // Stable row id, immutable once created.

	RubricID string `gorm:"type:uuid;not null;index"` // Owning rubric id.
	Position int    `gorm:"not null"`                 // Zero-based display order within the rubric.

	TemplateRowID *string `gorm:"type:uuid"` // Linked template row id, nil when unlinked.

	Task            string `gorm:"type:text;not null"` // Task description.
	AIUseLevel      string `gorm:"type:text;not null"` // Permitted AI use scale level.
	Instructions    string `gorm:"type:text;not null"` // Instructions to students.
	Examples        string `gorm:"type:text;not null"` // Worked yes/no examples.
	Acknowledgement string `gorm:"type:text;not null"` // AI use acknowledgement text.
}
