package rubric

import "time"

// Store holds the single working copy of a rubric being edited and its dirty
// flag. One editing session owns one Store; the package defines no internal
// locking because stores are never shared across concurrent callers.
type Store struct {
	instance *Instance
	dirty    bool
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{}
}

// Load replaces the working copy wholesale and clears the dirty flag.
func (s *Store) Load(in *Instance) {
	s.instance = in.Clone()
	s.dirty = false
}

// Instance returns the current working copy.
func (s *Store) Instance() *Instance {
	return s.instance
}

// Dirty reports whether the working copy has unsaved mutations.
func (s *Store) Dirty() bool {
	return s.dirty
}

// SetName updates the rubric name and marks the copy dirty. Empty strings are
// permitted at this layer; creation-time validation happens upstream.
func (s *Store) SetName(name string) {
	s.instance.Name = name
	s.dirty = true
}

// SetSubjectCode updates the subject code and marks the copy dirty.
func (s *Store) SetSubjectCode(code string) {
	s.instance.SubjectCode = code
	s.dirty = true
}

// SetRows replaces the row sequence and marks the copy dirty.
func (s *Store) SetRows(rows []Row) {
	copied := make([]Row, len(rows))
	copy(copied, rows)
	s.instance.Rows = copied
	s.dirty = true
}

// Commit records a successful save: it sets UpdatedAt, increments the
// instance version exactly once and clears the dirty flag. It must be called
// only after the persistence layer confirms the save; failed or retried saves
// never advance the version.
func (s *Store) Commit() {
	s.instance.UpdatedAt = time.Now().UTC()
	s.instance.Version++
	s.dirty = false
}

// Revert restores the working copy to a previously captured snapshot and
// clears the dirty flag. It is the cancellation path for an edit session and
// is always safe: no operation leaves partial in-flight state to unwind.
func (s *Store) Revert(original *Instance) {
	s.instance = original.Clone()
	s.dirty = false
}
