package rubric

import (
	"testing"
	"time"
)

func TestLoadClearsDirty(t *testing.T) {
	in, _ := linkedInstance(t)
	s := NewStore()
	s.Load(in)
	if s.Dirty() {
		t.Fatalf("freshly loaded store must be clean")
	}
	s.SetName("renamed")
	if !s.Dirty() {
		t.Fatalf("header edit must mark the store dirty")
	}
	s.Load(in)
	if s.Dirty() {
		t.Fatalf("reload must clear the dirty flag")
	}
}

func TestLoadCopiesInstance(t *testing.T) {
	in, _ := linkedInstance(t)
	s := NewStore()
	s.Load(in)
	s.SetRowFields(0, sampleFields("local edit"))
	if in.Rows[0].Task == "local edit" {
		t.Fatalf("store edits leaked into the caller's instance")
	}
}

func TestCommitIncrementsVersionExactlyOncePerSave(t *testing.T) {
	in, _ := linkedInstance(t)
	s := NewStore()
	s.Load(in)

	const saves = 5
	for i := 0; i < saves; i++ {
		s.SetName("edit")
		s.Commit()
	}
	if got := s.Instance().Version; got != in.Version+saves {
		t.Fatalf("expected version %d, got %d", in.Version+saves, got)
	}
	if s.Dirty() {
		t.Fatalf("commit must clear the dirty flag")
	}
}

func TestFailedSaveLeavesVersionUnchanged(t *testing.T) {
	in, _ := linkedInstance(t)
	s := NewStore()
	s.Load(in)
	s.SetRows(nil)
	// persistence failed: commit is never called
	if s.Instance().Version != in.Version {
		t.Fatalf("version advanced without a confirmed save")
	}
	if !s.Dirty() {
		t.Fatalf("failed save must leave the working copy dirty")
	}
}

func TestCommitSetsUpdatedAt(t *testing.T) {
	in, _ := linkedInstance(t)
	in.UpdatedAt = time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC)
	s := NewStore()
	s.Load(in)
	s.SetName("edit")
	s.Commit()
	if !s.Instance().UpdatedAt.After(in.UpdatedAt) {
		t.Fatalf("commit must refresh the update timestamp")
	}
}

func TestRevertRestoresSnapshot(t *testing.T) {
	in, _ := linkedInstance(t)
	s := NewStore()
	s.Load(in)
	original := s.Instance().Clone()

	s.SetName("scratch name")
	s.SetSubjectCode("XXXX00000")
	s.DeleteRow(0)
	s.InsertBlank(-1)

	s.Revert(original)
	got := s.Instance()
	if got.Name != in.Name || got.SubjectCode != in.SubjectCode {
		t.Fatalf("header fields not restored")
	}
	if got.RowCount() != in.RowCount() {
		t.Fatalf("row sequence not restored")
	}
	if s.Dirty() {
		t.Fatalf("revert must clear the dirty flag")
	}
}

func TestSetRowsReplacesSequence(t *testing.T) {
	in, _ := linkedInstance(t)
	s := NewStore()
	s.Load(in)

	rows := []Row{{ID: NewRowID(), Fields: sampleFields("only row")}}
	s.SetRows(rows)

	if s.Instance().RowCount() != 1 {
		t.Fatalf("row sequence not replaced")
	}
	if !s.Dirty() {
		t.Fatalf("row replacement must mark the store dirty")
	}
}
