package rubric

// Row editing operations: structural edits to the row sequence, independent
// of template linkage. Every successful operation marks the store dirty.

// InsertBlank creates a new row with a fresh unique id, all fields empty and
// no template link. It is inserted after afterIndex, or appended when
// afterIndex is negative or out of range.
func (s *Store) InsertBlank(afterIndex int) Row {
	in := s.instance
	row := Row{ID: NewRowID()}
	idx := len(in.Rows)
	if afterIndex >= 0 && afterIndex < len(in.Rows) {
		idx = afterIndex + 1
	}
	in.Rows = append(in.Rows, Row{})
	copy(in.Rows[idx+1:], in.Rows[idx:])
	in.Rows[idx] = row
	s.dirty = true
	return row
}

// Duplicate copies all fields of the row at index, including its template
// link, under a new unique id, inserted immediately after the source. A
// duplicated row keeps its linkage and will appear in future diffs alongside
// its source.
func (s *Store) Duplicate(index int) (Row, bool) {
	in := s.instance
	if index < 0 || index >= len(in.Rows) {
		return Row{}, false
	}
	dupe := in.Rows[index]
	dupe.ID = NewRowID()
	in.Rows = append(in.Rows, Row{})
	copy(in.Rows[index+2:], in.Rows[index+1:])
	in.Rows[index+1] = dupe
	s.dirty = true
	return dupe, true
}

// DeleteRow removes the row at index. No tombstone is kept and other rows are
// unaffected.
func (s *Store) DeleteRow(index int) bool {
	in := s.instance
	if index < 0 || index >= len(in.Rows) {
		return false
	}
	in.Rows = append(in.Rows[:index], in.Rows[index+1:]...)
	s.dirty = true
	return true
}

// SetRowFields replaces the editable fields of the row at index. Identity and
// template linkage are unaffected.
func (s *Store) SetRowFields(index int, f Fields) bool {
	in := s.instance
	if index < 0 || index >= len(in.Rows) {
		return false
	}
	in.Rows[index].Fields = f
	s.dirty = true
	return true
}

// MoveUp swaps the row at index with its predecessor.
func (s *Store) MoveUp(index int) bool {
	return s.Move(index, index-1)
}

// MoveDown swaps the row at index with its successor.
func (s *Store) MoveDown(index int) bool {
	return s.Move(index, index+1)
}

// Move repositions the row at from to position to. Row identity and linkage
// are unaffected by position.
func (s *Store) Move(from, to int) bool {
	in := s.instance
	if from < 0 || from >= len(in.Rows) || to < 0 || to >= len(in.Rows) || from == to {
		return false
	}
	row := in.Rows[from]
	rest := append(in.Rows[:from], in.Rows[from+1:]...)
	rest = append(rest, Row{})
	copy(rest[to+1:], rest[to:])
	rest[to] = row
	in.Rows = rest
	s.dirty = true
	return true
}
