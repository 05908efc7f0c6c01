package db

import (
	"fmt"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/rubricware/rubrichub/internal/models"
	"gorm.io/gorm"
)

func openMigrateTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:migrate_%d?mode=memory&cache=shared", time.Now().UnixNano())
	conn, errOpen := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if errOpen != nil {
		t.Fatalf("open sqlite: %v", errOpen)
	}
	return conn
}

func TestMigrateSQLiteCreatesTables(t *testing.T) {
	conn := openMigrateTestDB(t)

	if errMigrate := Migrate(conn); errMigrate != nil {
		t.Fatalf("migrate: %v", errMigrate)
	}

	for _, table := range []string{"users", "rubrics", "rubric_rows", "rubric_templates", "template_rows", "settings"} {
		if !conn.Migrator().HasTable(table) {
			t.Fatalf("missing table %s", table)
		}
	}
	for _, column := range []string{"template_id", "template_version", "version"} {
		if !conn.Migrator().HasColumn("rubrics", column) {
			t.Fatalf("rubrics missing column %s", column)
		}
	}
	if !conn.Migrator().HasColumn("rubric_rows", "template_row_id") {
		t.Fatalf("rubric_rows missing template link column")
	}
}

func TestMigrateSeedsAdminOnce(t *testing.T) {
	conn := openMigrateTestDB(t)

	if errMigrate := Migrate(conn); errMigrate != nil {
		t.Fatalf("migrate: %v", errMigrate)
	}
	if errAgain := Migrate(conn); errAgain != nil {
		t.Fatalf("repeat migrate: %v", errAgain)
	}

	var count int64
	if errCount := conn.Model(&models.User{}).Where("role = ?", models.RoleAdmin).Count(&count).Error; errCount != nil {
		t.Fatalf("count admins: %v", errCount)
	}
	if count != 1 {
		t.Fatalf("expected exactly one seeded admin, got %d", count)
	}
}

func TestDetectDialectFromDSN(t *testing.T) {
	cases := map[string]string{
		"postgres://u:p@localhost/rubrichub": DialectPostgres,
		"host=localhost dbname=rubrichub":    DialectPostgres,
		"file:rubrichub.db":                  DialectSQLite,
		"sqlite://rubrichub.db":              DialectSQLite,
		"rubrichub.db":                       DialectSQLite,
	}
	for dsn, want := range cases {
		got, errDetect := detectDialectFromDSN(dsn)
		if errDetect != nil {
			t.Fatalf("detect %q: %v", dsn, errDetect)
		}
		if got != want {
			t.Fatalf("detect %q: got %s, want %s", dsn, got, want)
		}
	}
	if _, errDetect := detectDialectFromDSN("mysql://nope"); errDetect == nil {
		t.Fatalf("expected error for unsupported dsn")
	}
}
