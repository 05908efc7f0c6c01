// Package rubric implements the template-linked rubric editing core: the
// in-memory working copy of a rubric instance, immutable template snapshots,
// the row-level diff engine, and selective template-update reconciliation.
//
// Everything in this package is a synchronous, pure data transformation over
// in-memory structures. Persistence lives behind the store package.
package rubric

import "github.com/google/uuid"

// Fields holds the five editable text fields shared by instance rows and
// template rows. Comparison is exact string equality, not a semantic diff.
type Fields struct {
	Task            string `json:"task"`
	AIUseLevel      string `json:"aiUseLevel"`
	Instructions    string `json:"instructions"`
	Examples        string `json:"examples"`
	Acknowledgement string `json:"acknowledgement"`
}

// Equal reports whether all five editable fields match exactly.
func (f Fields) Equal(other Fields) bool {
	return f == other
}

// Row is one task/criterion line in a rubric instance.
//
// ID is immutable once created. TemplateRowID, once set, is never reassigned
// to a different template row; a row may only be unlinked by clearing it.
type Row struct {
	ID            string `json:"id"`
	TemplateRowID string `json:"templateRowId,omitempty"` // empty means unlinked
	Fields
}

// Linked reports whether the row references a template row.
func (r Row) Linked() bool {
	return r.TemplateRowID != ""
}

// TemplateRow is one row of a template version, keyed by its own immutable id.
type TemplateRow struct {
	ID string `json:"id"`
	Fields
}

// NewRowID generates a unique, opaque row identifier.
func NewRowID() string {
	return uuid.NewString()
}
