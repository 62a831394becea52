package db

import (
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func TestOpenSQLiteAppliesEmbeddedMigrationsOnCleanDatabase(t *testing.T) {
	databasePath := filepath.Join(t.TempDir(), "nested", "periodical.db")
	database := openSQLiteForMigrationTest(t, databasePath)

	assertEventColumns(t, database)
	assertAppliedVersions(t, database, []string{"1", "2"})
}

func TestOpenSQLiteIsIdempotent(t *testing.T) {
	databasePath := filepath.Join(t.TempDir(), "periodical.db")
	first := openSQLiteForMigrationTest(t, databasePath)
	if err := Close(first); err != nil {
		t.Fatalf("close first database: %v", err)
	}

	second := openSQLiteForMigrationTest(t, databasePath)
	assertAppliedVersions(t, second, []string{"1", "2"})
}

func TestOpenSQLiteUpgradesDatabaseWithoutMigrationTable(t *testing.T) {
	databasePath := filepath.Join(t.TempDir(), "legacy.db")
	legacy, err := gorm.Open(sqlite.Open(databasePath), &gorm.Config{})
	if err != nil {
		t.Fatalf("open legacy database: %v", err)
	}
	statements := []string{
		`CREATE TABLE events (id INTEGER PRIMARY KEY AUTOINCREMENT, uid TEXT NOT NULL, date DATE NOT NULL, type INTEGER NOT NULL DEFAULT 1, intensity INTEGER NOT NULL DEFAULT 0, created_at DATETIME, updated_at DATETIME)`,
		`INSERT INTO events(uid, date, type, intensity) VALUES ('legacy', '2025-12-01', 1, 3)`,
	}
	for _, statement := range statements {
		if err := legacy.Exec(statement).Error; err != nil {
			t.Fatalf("seed legacy schema: %v", err)
		}
	}
	if err := Close(legacy); err != nil {
		t.Fatalf("close legacy database: %v", err)
	}

	database := openSQLiteForMigrationTest(t, databasePath)

	assertEventColumns(t, database)
	assertAppliedVersions(t, database, []string{"1", "2"})

	var row struct {
		Intensity int    `gorm:"column:intensity"`
		Notes     string `gorm:"column:notes"`
	}
	if err := database.Table("events").Select("intensity", "notes").Where("uid = ?", "legacy").First(&row).Error; err != nil {
		t.Fatalf("load legacy event: %v", err)
	}
	if row.Intensity != 3 || row.Notes != "" {
		t.Fatalf("unexpected legacy row after upgrade: %#v", row)
	}
}

func TestApplyMigrationsRejectsDuplicateVersions(t *testing.T) {
	database := openRawSQLite(t)
	files := fstest.MapFS{
		"001_one.sql":   {Data: []byte("CREATE TABLE one (id INTEGER);")},
		"001_again.sql": {Data: []byte("CREATE TABLE again (id INTEGER);")},
	}

	err := applyMigrations(database, files)
	if err == nil || !strings.Contains(err.Error(), "duplicate migration version 1") {
		t.Fatalf("expected duplicate version error, got %v", err)
	}
}

func TestApplyMigrationsSkipsUnrelatedFilesAndRunsInOrder(t *testing.T) {
	database := openRawSQLite(t)
	files := fstest.MapFS{
		"002_extend.sql": {Data: []byte("ALTER TABLE things ADD COLUMN label TEXT NOT NULL DEFAULT 'x';")},
		"001_create.sql": {Data: []byte("CREATE TABLE things (id INTEGER PRIMARY KEY);")},
		"README.md":      {Data: []byte("not a migration")},
		"embed.go":       {Data: []byte("package migrations")},
	}

	if err := applyMigrations(database, files); err != nil {
		t.Fatalf("applyMigrations() unexpected error: %v", err)
	}
	if err := applyMigrations(database, files); err != nil {
		t.Fatalf("second applyMigrations() unexpected error: %v", err)
	}
	assertAppliedVersions(t, database, []string{"1", "2"})
}

func TestApplyMigrationsRollsBackFailedMigration(t *testing.T) {
	database := openRawSQLite(t)
	files := fstest.MapFS{
		"001_broken.sql": {Data: []byte("CREATE TABLE ok (id INTEGER); CREATE TABLE broken (;")},
	}

	if err := applyMigrations(database, files); err == nil {
		t.Fatal("expected broken migration to fail")
	}
	if database.Migrator().HasTable("ok") {
		t.Fatal("expected partial migration to be rolled back")
	}
	assertAppliedVersions(t, database, []string{})
}

func openSQLiteForMigrationTest(t *testing.T, databasePath string) *gorm.DB {
	t.Helper()
	database, err := OpenSQLite(databasePath)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() {
		_ = Close(database)
	})
	return database
}

func openRawSQLite(t *testing.T) *gorm.DB {
	t.Helper()
	database, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "raw.db")), &gorm.Config{})
	if err != nil {
		t.Fatalf("open raw sqlite: %v", err)
	}
	t.Cleanup(func() {
		_ = Close(database)
	})
	return database
}

func assertEventColumns(t *testing.T, database *gorm.DB) {
	t.Helper()
	for _, column := range []string{"uid", "date", "type", "intensity", "notes"} {
		if !database.Migrator().HasColumn("events", column) {
			t.Fatalf("expected events.%s to exist", column)
		}
	}
	if !database.Migrator().HasTable("options") {
		t.Fatal("expected options table to exist")
	}
}

func assertAppliedVersions(t *testing.T, database *gorm.DB, want []string) {
	t.Helper()
	versions := make([]string, 0)
	if err := database.Raw(`SELECT version FROM schema_migrations ORDER BY CAST(version AS INTEGER)`).Scan(&versions).Error; err != nil {
		t.Fatalf("load applied versions: %v", err)
	}
	if strings.Join(versions, ",") != strings.Join(want, ",") {
		t.Fatalf("expected applied versions %v, got %v", want, versions)
	}
}
