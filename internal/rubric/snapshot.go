package rubric

// Snapshot is a read-only, point-in-time view of one template version's rows,
// indexed for O(1) lookup by row id. Constructing a snapshot is a pure
// projection; the snapshot never mutates and may be shared across instances.
type Snapshot struct {
	templateID string
	version    int
	rows       []TemplateRow
	byID       map[string]int
}

// NewSnapshot builds a snapshot over the given template version's rows.
func NewSnapshot(templateID string, version int, rows []TemplateRow) *Snapshot {
	copied := make([]TemplateRow, len(rows))
	copy(copied, rows)
	byID := make(map[string]int, len(copied))
	for i, row := range copied {
		byID[row.ID] = i
	}
	return &Snapshot{
		templateID: templateID,
		version:    version,
		rows:       copied,
		byID:       byID,
	}
}

// TemplateID returns the snapshotted template's id.
func (s *Snapshot) TemplateID() string {
	return s.templateID
}

// Version returns the snapshotted template version.
func (s *Snapshot) Version() int {
	return s.version
}

// Rows returns a copy of the row set in template order.
func (s *Snapshot) Rows() []TemplateRow {
	out := make([]TemplateRow, len(s.rows))
	copy(out, s.rows)
	return out
}

// RowByID resolves a template row by id. Not-found is a normal outcome: it
// means the instance row's link is orphaned in this template version.
func (s *Snapshot) RowByID(id string) (TemplateRow, bool) {
	idx, ok := s.byID[id]
	if !ok {
		return TemplateRow{}, false
	}
	return s.rows[idx], true
}
