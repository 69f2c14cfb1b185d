package migrations

import (
	"sort"
	"testing"
)

// TestLoadMigrationFiles tests that the embedded migrations parse, carry
// content and come back in version order
func TestLoadMigrationFiles(t *testing.T) {
	files, err := loadMigrationFiles()
	if err != nil {
		t.Fatalf("loadMigrationFiles failed: %v", err)
	}
	if len(files) == 0 {
		t.Fatal("Expected embedded migrations")
	}

	versions := make([]string, len(files))
	for i, file := range files {
		if file.Version == "" || file.Name == "" {
			t.Errorf("Migration %d has empty version or name: %+v", i, file)
		}
		if len(file.Content) == 0 {
			t.Errorf("Migration %s is empty", file.Name)
		}
		versions[i] = file.Version
	}

	if !sort.StringsAreSorted(versions) {
		t.Errorf("Expected migrations sorted by version, got %v", versions)
	}
}

// TestChecksumStability tests that identical content hashes identically and
// different content does not
func TestChecksumStability(t *testing.T) {
	a := calculateChecksum([]byte("CREATE TABLE users ()"))
	b := calculateChecksum([]byte("CREATE TABLE users ()"))
	c := calculateChecksum([]byte("CREATE TABLE time_entries ()"))

	if a != b {
		t.Error("Expected identical content to produce identical checksums")
	}
	if a == c {
		t.Error("Expected different content to produce different checksums")
	}
}
