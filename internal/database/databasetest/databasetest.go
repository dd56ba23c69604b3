// Package databasetest opens throwaway migrated databases for tests.
package databasetest

import (
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"gorm.io/gorm"

	"github.com/keshan-spec/Discussion-Board-API/internal/config"
	"github.com/keshan-spec/Discussion-Board-API/internal/database"
)

// Open returns a migrated sqlite database stored under t.TempDir.
// The connection is closed when the test finishes.
func Open(t testing.TB) *gorm.DB {
	t.Helper()

	cfg := config.Config{
		DBDriver: "sqlite",
		DBDSN:    filepath.Join(t.TempDir(), "forum.db"),
		LogLevel: "error",
	}
	svc, err := database.New(cfg, Logger())
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	t.Cleanup(func() { _ = svc.Close() })

	if err := database.Migrate(svc.GetDB()); err != nil {
		t.Fatalf("migrate test database: %v", err)
	}
	return svc.GetDB()
}

// Logger discards everything; tests that assert on logs build their own.
func Logger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
