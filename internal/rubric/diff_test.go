package rubric

import "testing"

func sampleFields(task string) Fields {
	return Fields{
		Task:            task,
		AIUseLevel:      "AI for general learning",
		Instructions:    "Use AI to survey high-level ideas only.",
		Examples:        "YES - general questions. NO - uploading the brief.",
		Acknowledgement: "Students MUST acknowledge the use of AI.",
	}
}

func linkedInstance(t *testing.T) (*Instance, *Snapshot) {
	t.Helper()
	tplRows := []TemplateRow{
		{ID: "tpl-row-1", Fields: sampleFields("Task 1")},
		{ID: "tpl-row-2", Fields: sampleFields("Task 2")},
		{ID: "tpl-row-3", Fields: sampleFields("Task 3")},
	}
	snap := NewSnapshot("tpl-100", 2, tplRows)
	in := &Instance{
		ID:          "rb-1",
		Name:        "Design of Algorithms (Project 1)",
		SubjectCode: "COMP20007",
		Version:     1,
		TemplateID:  "tpl-100",
		TemplateVer: 1,
		Rows: []Row{
			{ID: "row-1", TemplateRowID: "tpl-row-1", Fields: sampleFields("Task 1")},
			{ID: "row-2", TemplateRowID: "tpl-row-2", Fields: sampleFields("Task 2")},
			{ID: "row-3", TemplateRowID: "tpl-row-3", Fields: sampleFields("Task 3")},
		},
	}
	return in, snap
}

func TestDiffSingleFieldChange(t *testing.T) {
	in, snap := linkedInstance(t)
	in.Rows[1].AIUseLevel = "No AI"

	candidates := Diff(in, snap)
	if len(candidates) != 3 {
		t.Fatalf("expected 3 candidates, got %d", len(candidates))
	}
	if candidates[0].Changed || candidates[2].Changed {
		t.Fatalf("unchanged rows reported as changed")
	}
	if !candidates[1].Changed {
		t.Fatalf("expected row 1 changed")
	}
	if candidates[1].Index != 1 {
		t.Fatalf("expected index 1, got %d", candidates[1].Index)
	}
}

func TestDiffNoFieldChange(t *testing.T) {
	in, snap := linkedInstance(t)
	for _, c := range Diff(in, snap) {
		if c.Changed {
			t.Fatalf("row %d reported changed with identical fields", c.Index)
		}
	}
}

func TestDiffExcludesOrphanedLinks(t *testing.T) {
	in, snap := linkedInstance(t)
	in.Rows[1].TemplateRowID = "missing-id"

	candidates := Diff(in, snap)
	if len(candidates) != 2 {
		t.Fatalf("expected 2 candidates, got %d", len(candidates))
	}
	for _, c := range candidates {
		if c.Row.TemplateRowID == "missing-id" {
			t.Fatalf("orphaned row emitted in diff output")
		}
	}
}

func TestDiffExcludesUnlinkedRows(t *testing.T) {
	in, snap := linkedInstance(t)
	in.Rows[0].TemplateRowID = ""

	candidates := Diff(in, snap)
	if len(candidates) != 2 {
		t.Fatalf("expected 2 candidates, got %d", len(candidates))
	}
	if candidates[0].Index != 1 || candidates[1].Index != 2 {
		t.Fatalf("unexpected candidate indices %d, %d", candidates[0].Index, candidates[1].Index)
	}
}

func TestDiffPreservesInstanceOrder(t *testing.T) {
	in, snap := linkedInstance(t)
	in.Rows[0].Task = "edited"
	in.Rows[2].Task = "edited"

	candidates := Diff(in, snap)
	for i := 1; i < len(candidates); i++ {
		if candidates[i].Index <= candidates[i-1].Index {
			t.Fatalf("candidates out of instance order")
		}
	}
}

func TestDiffEmptyWhenNoLinkedRows(t *testing.T) {
	in, snap := linkedInstance(t)
	for i := range in.Rows {
		in.Rows[i].TemplateRowID = ""
	}
	if got := Diff(in, snap); len(got) != 0 {
		t.Fatalf("expected empty diff, got %d candidates", len(got))
	}
}

func TestDiffEmptyWhenAllLinksOrphaned(t *testing.T) {
	in, _ := linkedInstance(t)
	empty := NewSnapshot("tpl-100", 3, nil)
	if got := Diff(in, empty); len(got) != 0 {
		t.Fatalf("expected empty diff, got %d candidates", len(got))
	}
}

func TestUpdateAvailableDerivedFromVersions(t *testing.T) {
	in, _ := linkedInstance(t)
	if !in.UpdateAvailable(2) {
		t.Fatalf("expected update available when template version exceeds recorded version")
	}
	if in.UpdateAvailable(1) {
		t.Fatalf("no update expected at equal versions")
	}
	in.TemplateID = ""
	if in.UpdateAvailable(99) {
		t.Fatalf("unlinked instance can never have updates")
	}
}

func TestSnapshotRowByID(t *testing.T) {
	_, snap := linkedInstance(t)
	row, ok := snap.RowByID("tpl-row-2")
	if !ok || row.Task != "Task 2" {
		t.Fatalf("expected to resolve tpl-row-2")
	}
	if _, ok := snap.RowByID("missing-id"); ok {
		t.Fatalf("resolved a row that does not exist")
	}
}
