package rubric

import "testing"

// Mirrors the editing flow of a rubric derived from a template that has since
// moved ahead: diff, accept the update, then save.
func TestTemplateUpdateRoundTrip(t *testing.T) {
	in := &Instance{
		ID:          "rb-4",
		Name:        "Computer Systems (Project 1)",
		SubjectCode: "COMP30023",
		Version:     1,
		TemplateID:  "tpl-200",
		TemplateVer: 2,
		Rows: []Row{
			{ID: "rb4-row-1", TemplateRowID: "tpl200-row-1", Fields: sampleFields("Task 1 - Background research")},
			{ID: "rb4-row-2", Fields: sampleFields("Task 2 - Coding")},
		},
	}
	// template now at version 3 with row 1's task text revised
	snap := NewSnapshot("tpl-200", 3, []TemplateRow{
		{ID: "tpl200-row-1", Fields: sampleFields("Task 1 - Background research on sockets & HTTP")},
		{ID: "tpl200-row-2", Fields: sampleFields("Task 2 - Implementation planning")},
	})

	s := NewStore()
	s.Load(in)

	if !s.Instance().UpdateAvailable(snap.Version()) {
		t.Fatalf("expected update available at template v3")
	}

	candidates := Diff(s.Instance(), snap)
	if len(candidates) != 1 {
		t.Fatalf("expected one candidate, got %d", len(candidates))
	}
	if candidates[0].Row.ID != "rb4-row-1" || !candidates[0].Changed {
		t.Fatalf("unexpected candidate %+v", candidates[0])
	}

	Apply(s, []int{candidates[0].Index}, snap, snap.Version())

	got := s.Instance()
	if got.Rows[0].Task != "Task 1 - Background research on sockets & HTTP" {
		t.Fatalf("accepted row not updated to template text")
	}
	if got.TemplateVer != 3 {
		t.Fatalf("expected template version 3, got %d", got.TemplateVer)
	}
	if got.Version != 1 {
		t.Fatalf("instance version must stay at 1 until an explicit save")
	}

	s.Commit()
	if s.Instance().Version != 2 {
		t.Fatalf("expected version 2 after save, got %d", s.Instance().Version)
	}
}

// An instance copied from a template without linking never participates in
// diffing, regardless of how far the template moves on.
func TestUnlinkedCopyNeverDiffs(t *testing.T) {
	snap := NewSnapshot("tpl-100", 5, []TemplateRow{
		{ID: "tpl-row-1", Fields: sampleFields("Task 1")},
		{ID: "tpl-row-2", Fields: sampleFields("Task 2")},
	})

	in := NewFromTemplate("rb-9", "Copied rubric", "COMP20007", snap, false)
	if in.Derived() {
		t.Fatalf("unlinked copy must not record template provenance")
	}
	for _, r := range in.Rows {
		if r.TemplateRowID != "" {
			t.Fatalf("unlinked copy row carries a template link")
		}
	}
	if in.RowCount() != 2 {
		t.Fatalf("expected 2 copied rows, got %d", in.RowCount())
	}
	if in.Rows[0].Task != "Task 1" {
		t.Fatalf("row content not copied from template")
	}

	newer := NewSnapshot("tpl-100", 9, []TemplateRow{
		{ID: "tpl-row-1", Fields: sampleFields("Task 1 (revised)")},
	})
	if got := Diff(in, newer); len(got) != 0 {
		t.Fatalf("unlinked copy produced %d diff candidates", len(got))
	}
	if in.UpdateAvailable(9) {
		t.Fatalf("unlinked copy can never report updates")
	}
}

// A linked copy starts in sync with its source template version.
func TestLinkedCopyStartsInSync(t *testing.T) {
	snap := NewSnapshot("tpl-100", 5, []TemplateRow{
		{ID: "tpl-row-1", Fields: sampleFields("Task 1")},
	})

	in := NewFromTemplate("rb-10", "Linked rubric", "COMP20007", snap, true)
	if in.TemplateID != "tpl-100" || in.TemplateVer != 5 {
		t.Fatalf("linked copy must record provenance and version")
	}
	if in.Rows[0].TemplateRowID != "tpl-row-1" {
		t.Fatalf("linked copy row must reference its source template row")
	}
	if in.Rows[0].ID == "tpl-row-1" {
		t.Fatalf("copied row must receive a fresh instance-local id")
	}
	if in.UpdateAvailable(5) {
		t.Fatalf("freshly linked copy must start in sync")
	}
	for _, c := range Diff(in, snap) {
		if c.Changed {
			t.Fatalf("freshly linked copy must have no diffs")
		}
	}
}
