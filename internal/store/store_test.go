package store

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"github.com/rubricware/rubrichub/internal/db"
	"github.com/rubricware/rubrichub/internal/rubric"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	dsn := fmt.Sprintf("file:store_%d?mode=memory&cache=shared", time.Now().UnixNano())
	conn, errOpen := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if errOpen != nil {
		t.Fatalf("open sqlite: %v", errOpen)
	}
	if errMigrate := db.Migrate(conn); errMigrate != nil {
		t.Fatalf("migrate: %v", errMigrate)
	}
	return New(conn)
}

func seedTemplate(t *testing.T, s *Store) *Template {
	t.Helper()
	rows := []rubric.TemplateRow{
		{Fields: rubric.Fields{Task: "Essay draft", AIUseLevel: "Level 2", Instructions: "Brainstorm only", Examples: "Yes: outline", Acknowledgement: "Declare tools used"}},
		{Fields: rubric.Fields{Task: "Final report", AIUseLevel: "Level 1", Instructions: "No AI", Examples: "No: generated text", Acknowledgement: "None"}},
	}
	tpl, errCreate := s.CreateTemplate(context.Background(), 1, "Writing Tasks", "COMP10001", "Starter set", rows)
	if errCreate != nil {
		t.Fatalf("create template: %v", errCreate)
	}
	return tpl
}

func TestCreateFromScratchRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	created, errCreate := s.CreateFromScratch(ctx, 7, "My Rubric", "COMP30023", 3)
	if errCreate != nil {
		t.Fatalf("create: %v", errCreate)
	}
	if created.Version != 1 || created.Derived() {
		t.Fatalf("unexpected new instance: %+v", created)
	}

	loaded, errFetch := s.FetchInstance(ctx, 7, created.ID)
	if errFetch != nil {
		t.Fatalf("fetch: %v", errFetch)
	}
	if loaded.RowCount() != 3 {
		t.Fatalf("expected 3 rows, got %d", loaded.RowCount())
	}
	for i, row := range loaded.Rows {
		if row.ID != created.Rows[i].ID {
			t.Fatalf("row %d id changed across round trip", i)
		}
		if row.Linked() {
			t.Fatalf("scratch row %d should be unlinked", i)
		}
	}
}

func TestCreateFromTemplateLinked(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	tpl := seedTemplate(t, s)

	created, errCreate := s.CreateFromTemplate(ctx, 7, "Linked Copy", "COMP10001", tpl.ID, true)
	if errCreate != nil {
		t.Fatalf("create: %v", errCreate)
	}
	loaded, errFetch := s.FetchInstance(ctx, 7, created.ID)
	if errFetch != nil {
		t.Fatalf("fetch: %v", errFetch)
	}
	if loaded.TemplateID != tpl.ID || loaded.TemplateVer != tpl.Version {
		t.Fatalf("provenance not recorded: %+v", loaded)
	}
	for i, row := range loaded.Rows {
		if row.TemplateRowID != tpl.Rows[i].ID {
			t.Fatalf("row %d link mismatch", i)
		}
		if row.ID == tpl.Rows[i].ID {
			t.Fatalf("row %d reused the template row id", i)
		}
	}
}

func TestCreateFromTemplateUnlinked(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	tpl := seedTemplate(t, s)

	created, errCreate := s.CreateFromTemplate(ctx, 7, "Detached Copy", "COMP10001", tpl.ID, false)
	if errCreate != nil {
		t.Fatalf("create: %v", errCreate)
	}
	loaded, errFetch := s.FetchInstance(ctx, 7, created.ID)
	if errFetch != nil {
		t.Fatalf("fetch: %v", errFetch)
	}
	if loaded.Derived() {
		t.Fatalf("detached copy must not record template provenance")
	}
	for i, row := range loaded.Rows {
		if row.Linked() {
			t.Fatalf("detached row %d must be unlinked", i)
		}
	}
}

func TestSaveRowsPreservesOrderAndBumpsOnce(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	created, _ := s.CreateFromScratch(ctx, 7, "Ordered", "COMP30023", 0)
	rows := []rubric.Row{
		{ID: rubric.NewRowID(), Fields: rubric.Fields{Task: "c"}},
		{ID: rubric.NewRowID(), Fields: rubric.Fields{Task: "a"}},
		{ID: rubric.NewRowID(), Fields: rubric.Fields{Task: "b"}},
	}

	saved, errSave := s.SaveRows(ctx, 7, created.ID, rows, true)
	if errSave != nil {
		t.Fatalf("save: %v", errSave)
	}
	if saved.Version != 2 {
		t.Fatalf("expected version 2 after one save, got %d", saved.Version)
	}

	loaded, _ := s.FetchInstance(ctx, 7, created.ID)
	for i, row := range loaded.Rows {
		if row.Task != rows[i].Task {
			t.Fatalf("order lost at %d: got %q want %q", i, row.Task, rows[i].Task)
		}
	}

	// Saving without the version flag keeps the counter untouched.
	if again, _ := s.SaveRows(ctx, 7, created.ID, rows, false); again.Version != 2 {
		t.Fatalf("unexpected version bump: %d", again.Version)
	}
}

func TestSaveRowsRejectsEmptyRowList(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	created, _ := s.CreateFromScratch(ctx, 7, "Keep", "COMP30023", 2)
	if _, errSave := s.SaveRows(ctx, 7, created.ID, nil, true); !errors.Is(errSave, ErrValidation) {
		t.Fatalf("expected validation error for nil row list, got %v", errSave)
	}
	if _, errSave := s.SaveRows(ctx, 7, created.ID, []rubric.Row{}, true); !errors.Is(errSave, ErrValidation) {
		t.Fatalf("expected validation error for empty row list, got %v", errSave)
	}

	loaded, _ := s.FetchInstance(ctx, 7, created.ID)
	if loaded.RowCount() != 2 || loaded.Version != 1 {
		t.Fatalf("rejected save mutated the rubric: %+v", loaded)
	}
}

func TestSaveRowsRequiresOwnership(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	created, _ := s.CreateFromScratch(ctx, 7, "Private", "COMP30023", 1)
	rows := []rubric.Row{{ID: rubric.NewRowID(), Fields: rubric.Fields{Task: "takeover"}}}
	if _, errSave := s.SaveRows(ctx, 8, created.ID, rows, true); !errors.Is(errSave, ErrNotFound) {
		t.Fatalf("expected not found for foreign save, got %v", errSave)
	}

	loaded, _ := s.FetchInstance(ctx, 7, created.ID)
	if loaded.Version != 1 || loaded.RowCount() != 1 {
		t.Fatalf("failed save mutated the rubric: %+v", loaded)
	}
}

func TestSharedVisibility(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	created, _ := s.CreateFromScratch(ctx, 7, "Shareable", "COMP30023", 1)
	if _, errFetch := s.FetchInstance(ctx, 8, created.ID); !errors.Is(errFetch, ErrNotFound) {
		t.Fatalf("unshared rubric leaked to another user: %v", errFetch)
	}

	if errShare := s.UpdateMeta(ctx, 7, created.ID, "Shareable", "COMP30023", true); errShare != nil {
		t.Fatalf("share: %v", errShare)
	}
	if _, errFetch := s.FetchInstance(ctx, 8, created.ID); errFetch != nil {
		t.Fatalf("shared rubric not visible: %v", errFetch)
	}
	if _, errFetch := s.FetchOwnedInstance(ctx, 8, created.ID); !errors.Is(errFetch, ErrNotFound) {
		t.Fatalf("shared visibility must not grant edit access")
	}
}

func TestTemplateUpdateFlowThroughStore(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	tpl := seedTemplate(t, s)

	created, _ := s.CreateFromTemplate(ctx, 7, "Tracked", "COMP10001", tpl.ID, true)

	// Publish a new template version revising the first row only.
	revised := make([]rubric.TemplateRow, len(tpl.Rows))
	copy(revised, tpl.Rows)
	revised[0].Instructions = "Brainstorm and structure only"
	published, errPublish := s.ReplaceTemplateRows(ctx, tpl.ID, revised)
	if errPublish != nil {
		t.Fatalf("publish: %v", errPublish)
	}
	if published.Version != tpl.Version+1 {
		t.Fatalf("publish did not bump version: %d", published.Version)
	}

	candidates, latest, errDiff := s.TemplateUpdates(ctx, 7, created.ID)
	if errDiff != nil {
		t.Fatalf("diff: %v", errDiff)
	}
	if latest != published.Version {
		t.Fatalf("latest version mismatch: %d", latest)
	}
	changed := 0
	for _, c := range candidates {
		if c.Changed {
			changed++
		}
	}
	if changed != 1 {
		t.Fatalf("expected one changed candidate, got %d", changed)
	}

	loaded, _ := s.FetchInstance(ctx, 7, created.ID)
	applied, errApply := s.ApplyTemplateUpdates(ctx, 7, created.ID, []string{loaded.Rows[0].ID})
	if errApply != nil {
		t.Fatalf("apply: %v", errApply)
	}
	if applied.Rows[0].Instructions != "Brainstorm and structure only" {
		t.Fatalf("accepted row not updated: %+v", applied.Rows[0])
	}
	if applied.TemplateVer != published.Version {
		t.Fatalf("template version not recorded: %d", applied.TemplateVer)
	}
	if applied.UpdateAvailable(published.Version) {
		t.Fatalf("update still reported after apply")
	}
}

func TestApplyTemplateUpdatesRejectsUnlinked(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	created, _ := s.CreateFromScratch(ctx, 7, "Unlinked", "COMP30023", 2)
	if _, errApply := s.ApplyTemplateUpdates(ctx, 7, created.ID, []string{created.Rows[0].ID}); !errors.Is(errApply, ErrValidation) {
		t.Fatalf("expected validation error, got %v", errApply)
	}
}

func TestApplyTemplateUpdatesIgnoresUnknownRowIDs(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	tpl := seedTemplate(t, s)

	created, _ := s.CreateFromTemplate(ctx, 7, "Tracked", "COMP10001", tpl.ID, true)
	revised := make([]rubric.TemplateRow, len(tpl.Rows))
	copy(revised, tpl.Rows)
	revised[0].Task = "Essay draft (revised)"
	published, _ := s.ReplaceTemplateRows(ctx, tpl.ID, revised)

	applied, errApply := s.ApplyTemplateUpdates(ctx, 7, created.ID, []string{"no-such-row"})
	if errApply != nil {
		t.Fatalf("apply: %v", errApply)
	}
	if applied.Rows[0].Task != tpl.Rows[0].Task {
		t.Fatalf("unknown id mutated a row")
	}
	// Closing the review still records the new version.
	if applied.TemplateVer != published.Version {
		t.Fatalf("template version not recorded: %d", applied.TemplateVer)
	}
}

func TestListInstancesReportsUpdateAvailability(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	tpl := seedTemplate(t, s)

	linked, _ := s.CreateFromTemplate(ctx, 7, "Linked", "COMP10001", tpl.ID, true)
	scratch, _ := s.CreateFromScratch(ctx, 7, "Scratch", "COMP30023", 2)
	if _, errPublish := s.ReplaceTemplateRows(ctx, tpl.ID, tpl.Rows); errPublish != nil {
		t.Fatalf("publish: %v", errPublish)
	}

	summaries, errList := s.ListInstances(ctx, 7, "")
	if errList != nil {
		t.Fatalf("list: %v", errList)
	}
	if len(summaries) != 2 {
		t.Fatalf("expected 2 summaries, got %d", len(summaries))
	}
	byID := make(map[string]InstanceSummary, len(summaries))
	for _, sum := range summaries {
		byID[sum.ID] = sum
	}
	if !byID[linked.ID].UpdateAvailable {
		t.Fatalf("linked rubric should report an available update")
	}
	if byID[scratch.ID].UpdateAvailable {
		t.Fatalf("scratch rubric can never have an update")
	}
	if byID[scratch.ID].RowCount != 2 {
		t.Fatalf("row count mismatch: %d", byID[scratch.ID].RowCount)
	}
}

func TestListInstancesSearch(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if _, err := s.CreateFromScratch(ctx, 7, "Databases Assignment", "INFO20003", 1); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := s.CreateFromScratch(ctx, 7, "Networks Lab", "COMP30023", 1); err != nil {
		t.Fatalf("create: %v", err)
	}

	summaries, errList := s.ListInstances(ctx, 7, "dataBASES")
	if errList != nil {
		t.Fatalf("list: %v", errList)
	}
	if len(summaries) != 1 || summaries[0].Name != "Databases Assignment" {
		t.Fatalf("search mismatch: %+v", summaries)
	}

	bySubject, _ := s.ListInstances(ctx, 7, "comp300")
	if len(bySubject) != 1 || bySubject[0].SubjectCode != "COMP30023" {
		t.Fatalf("subject search mismatch: %+v", bySubject)
	}
}

func TestDeleteInstanceIdempotent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	created, _ := s.CreateFromScratch(ctx, 7, "Doomed", "COMP30023", 2)
	if errDelete := s.DeleteInstance(ctx, 7, created.ID); errDelete != nil {
		t.Fatalf("delete: %v", errDelete)
	}
	if errAgain := s.DeleteInstance(ctx, 7, created.ID); errAgain != nil {
		t.Fatalf("repeat delete: %v", errAgain)
	}
	if _, errFetch := s.FetchInstance(ctx, 7, created.ID); !errors.Is(errFetch, ErrNotFound) {
		t.Fatalf("deleted rubric still fetchable: %v", errFetch)
	}
}

func TestDeleteTemplateOrphansLinks(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	tpl := seedTemplate(t, s)

	created, _ := s.CreateFromTemplate(ctx, 7, "Orphaned", "COMP10001", tpl.ID, true)
	if errDelete := s.DeleteTemplate(ctx, tpl.ID); errDelete != nil {
		t.Fatalf("delete template: %v", errDelete)
	}

	// The instance keeps its provenance pointer but the diff surface is gone.
	loaded, errFetch := s.FetchInstance(ctx, 7, created.ID)
	if errFetch != nil {
		t.Fatalf("fetch: %v", errFetch)
	}
	if !loaded.Derived() {
		t.Fatalf("provenance pointer lost on template delete")
	}
	if _, _, errDiff := s.TemplateUpdates(ctx, 7, created.ID); !errors.Is(errDiff, ErrNotFound) {
		t.Fatalf("expected not found for deleted template, got %v", errDiff)
	}
}

func TestTemplateMetaEditDoesNotBumpVersion(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	tpl := seedTemplate(t, s)

	if errUpdate := s.UpdateTemplateMeta(ctx, tpl.ID, "Renamed", "COMP10001", "Edited"); errUpdate != nil {
		t.Fatalf("update meta: %v", errUpdate)
	}
	loaded, errFetch := s.FetchTemplate(ctx, tpl.ID)
	if errFetch != nil {
		t.Fatalf("fetch: %v", errFetch)
	}
	if loaded.Name != "Renamed" || loaded.Version != tpl.Version {
		t.Fatalf("meta edit changed version: %+v", loaded)
	}
}
