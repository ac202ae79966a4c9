package test

import (
	"log"
	"os"
	"path/filepath"
	"runtime"

	"usergraph/internal/adapter/database/sqlite"
)

// findProjectRoot walks up from this file until it hits go.mod, so tests
// find the migrations no matter which package they run from.
func findProjectRoot() string {
	_, filename, _, _ := runtime.Caller(0)
	dir := filepath.Dir(filename)

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	if wd, err := os.Getwd(); err == nil {
		return wd
	}

	log.Fatal("Could not find project root directory")
	return ""
}

// InitTestDB opens an in-memory database with the full schema applied.
// Each call gets a fresh database; close it when the test is done.
func InitTestDB() *sqlite.DB {
	migrationsPath := filepath.Join(findProjectRoot(), "db", "migrations")

	db, err := sqlite.NewDB(":memory:", migrationsPath)

	if err != nil {
		log.Fatal(err)
	}

	return db
}
