package rubric

import "time"

// Instance is a user-owned rubric document: header fields plus an ordered row
// sequence. Row order is significant; it is the display and export order.
type Instance struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	SubjectCode string    `json:"subjectCode"`
	Rows        []Row     `json:"rows"`
	Version     int       `json:"version"`                   // instance edit counter
	TemplateID  string    `json:"templateId,omitempty"`      // provenance, set at creation, never changed
	TemplateVer int       `json:"templateVersion,omitempty"` // template version last synchronized to
	UpdatedAt   time.Time `json:"updatedAt"`
}

// RowCount returns the row sequence length.
func (in *Instance) RowCount() int {
	return len(in.Rows)
}

// Derived reports whether the instance was created from a template.
func (in *Instance) Derived() bool {
	return in.TemplateID != ""
}

// UpdateAvailable reports whether the latest known template version exceeds
// the version this instance last synchronized to. It is recomputed on every
// call, never cached.
func (in *Instance) UpdateAvailable(latestTemplateVersion int) bool {
	return in.TemplateID != "" && latestTemplateVersion > in.TemplateVer
}

// Clone returns a deep copy of the instance, including its row sequence.
func (in *Instance) Clone() *Instance {
	if in == nil {
		return nil
	}
	out := *in
	out.Rows = make([]Row, len(in.Rows))
	copy(out.Rows, in.Rows)
	return &out
}

// NewFromScratch creates an unlinked instance with n blank rows.
func NewFromScratch(id, name, subjectCode string, n int) *Instance {
	if n < 0 {
		n = 0
	}
	rows := make([]Row, 0, n)
	for i := 0; i < n; i++ {
		rows = append(rows, Row{ID: NewRowID()})
	}
	return &Instance{
		ID:          id,
		Name:        name,
		SubjectCode: subjectCode,
		Rows:        rows,
		Version:     1,
		UpdatedAt:   time.Now().UTC(),
	}
}

// NewFromTemplate creates an instance seeded from a template snapshot. Every
// row gets a freshly generated instance-local id. When linkForUpdates is
// false the copy is a disconnected starting point: no row links are recorded
// and the instance never participates in diffing.
func NewFromTemplate(id, name, subjectCode string, snap *Snapshot, linkForUpdates bool) *Instance {
	src := snap.Rows()
	rows := make([]Row, 0, len(src))
	for _, tr := range src {
		row := Row{ID: NewRowID(), Fields: tr.Fields}
		if linkForUpdates {
			row.TemplateRowID = tr.ID
		}
		rows = append(rows, row)
	}
	in := &Instance{
		ID:          id,
		Name:        name,
		SubjectCode: subjectCode,
		Rows:        rows,
		Version:     1,
		UpdatedAt:   time.Now().UTC(),
	}
	if linkForUpdates {
		in.TemplateID = snap.TemplateID()
		in.TemplateVer = snap.Version()
	}
	return in
}
