package rubric

// Apply merges a user-selected subset of diff candidates into the working
// copy and advances the instance's recorded template version.
//
// For each selected index the five editable fields of that row are
// overwritten with the template row's current values; the row's ID and
// TemplateRowID are never altered. Unselected rows are left completely
// untouched, including rows that did differ: partial acceptance is a
// first-class outcome. Indices that are out of range, unlinked or do not
// resolve in the snapshot are silently ignored.
//
// The recorded template version is set to newTemplateVersion regardless of
// how many rows were selected, even zero: accepting the review closes it, so
// update-availability becomes false for unselected diffs too. An empty
// selection is a valid no-op, not an error.
//
// The result is staged as dirty; persisting it is a separate explicit save.
func Apply(s *Store, selected []int, snap *Snapshot, newTemplateVersion int) *Instance {
	in := s.instance
	for _, idx := range selected {
		if idx < 0 || idx >= len(in.Rows) {
			continue
		}
		row := in.Rows[idx]
		if !row.Linked() {
			continue
		}
		tr, ok := snap.RowByID(row.TemplateRowID)
		if !ok {
			continue
		}
		in.Rows[idx].Fields = tr.Fields
	}
	in.TemplateVer = newTemplateVersion
	s.dirty = true
	return in
}
