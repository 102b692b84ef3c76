// Package testutil provides shared test fixtures.
package testutil

import (
	"path/filepath"
	"testing"

	"github.com/corgilabs/bufferscope/internal/database"
)

// NewStoreDB creates a migrated store database in a test temp dir.
func NewStoreDB(t *testing.T) *database.DB {
	t.Helper()
	return newDB(t, "store.db", "store", database.ProfileStandard)
}

// NewCacheDB creates a migrated cache database in a test temp dir.
func NewCacheDB(t *testing.T) *database.DB {
	t.Helper()
	return newDB(t, "cache.db", "cache", database.ProfileCache)
}

func newDB(t *testing.T, filename, name string, profile database.DatabaseProfile) *database.DB {
	t.Helper()

	db, err := database.New(database.Config{
		Path:    filepath.Join(t.TempDir(), filename),
		Name:    name,
		Profile: profile,
	})
	if err != nil {
		t.Fatalf("failed to open test database %s: %v", name, err)
	}
	t.Cleanup(func() { db.Close() })

	if err := db.Migrate(); err != nil {
		t.Fatalf("failed to migrate test database %s: %v", name, err)
	}
	return db
}
