package settings

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"github.com/rubricware/rubrichub/internal/models"
)

func resetSnapshot() {
	StoreSnapshot(time.Time{}, map[string]json.RawMessage{})
}

func newSettingsDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:settings_%d?mode=memory&cache=shared", time.Now().UnixNano())
	conn, errOpen := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if errOpen != nil {
		t.Fatalf("open sqlite: %v", errOpen)
	}
	if errMigrate := conn.AutoMigrate(&models.Setting{}); errMigrate != nil {
		t.Fatalf("migrate: %v", errMigrate)
	}
	return conn
}

func TestDefaultsWithoutSnapshot(t *testing.T) {
	resetSnapshot()
	t.Cleanup(resetSnapshot)

	if SiteName() != DefaultSiteName {
		t.Fatalf("unexpected site name %q", SiteName())
	}
	if BlankRowCount() != DefaultRowCount {
		t.Fatalf("unexpected row count %d", BlankRowCount())
	}
	if levels := AIUseLevels(); len(levels) != len(DefaultAIUseLevels) {
		t.Fatalf("unexpected levels %v", levels)
	}
}

func TestUpsertAndRefresh(t *testing.T) {
	resetSnapshot()
	t.Cleanup(resetSnapshot)
	conn := newSettingsDB(t)
	ctx := context.Background()

	if errUpsert := Upsert(ctx, conn, SiteNameKey, json.RawMessage(`"Faculty Rubrics"`)); errUpsert != nil {
		t.Fatalf("upsert: %v", errUpsert)
	}
	if SiteName() != "Faculty Rubrics" {
		t.Fatalf("snapshot not refreshed: %q", SiteName())
	}

	// Overwriting the same key replaces the value.
	if errUpsert := Upsert(ctx, conn, SiteNameKey, json.RawMessage(`"Rubric Portal"`)); errUpsert != nil {
		t.Fatalf("second upsert: %v", errUpsert)
	}
	if SiteName() != "Rubric Portal" {
		t.Fatalf("overwrite not visible: %q", SiteName())
	}
}

func TestUpsertRejectsInvalidJSON(t *testing.T) {
	conn := newSettingsDB(t)
	if errUpsert := Upsert(context.Background(), conn, SiteNameKey, json.RawMessage(`not-json`)); errUpsert == nil {
		t.Fatalf("expected error for invalid json value")
	}
}

func TestBlankRowCountClamped(t *testing.T) {
	resetSnapshot()
	t.Cleanup(resetSnapshot)

	StoreSnapshot(time.Now(), map[string]json.RawMessage{
		DefaultRowCountKey: json.RawMessage(`500`),
	})
	if BlankRowCount() != 50 {
		t.Fatalf("expected clamp to 50, got %d", BlankRowCount())
	}

	StoreSnapshot(time.Now(), map[string]json.RawMessage{
		DefaultRowCountKey: json.RawMessage(`-2`),
	})
	if BlankRowCount() != 0 {
		t.Fatalf("expected clamp to 0, got %d", BlankRowCount())
	}
}
