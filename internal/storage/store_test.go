package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/pixil98/go-testutil"
)

// mockStoreSpec stands in for a real asset (door, map, mob spawn).
type mockStoreSpec struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

func (s *mockStoreSpec) Validate() error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	return nil
}

func writeAsset(t *testing.T, dir, id string, spec *mockStoreSpec) {
	t.Helper()

	data, err := json.Marshal(Asset[*mockStoreSpec]{
		Version:    1,
		Identifier: Identifier(id),
		Spec:       spec,
	})
	if err != nil {
		t.Fatalf("marshalling test asset: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, id+".json"), data, 0644); err != nil {
		t.Fatalf("writing test file: %v", err)
	}
}

func TestNewFileStore(t *testing.T) {
	tmpDir := t.TempDir()

	store, err := NewFileStore[*mockStoreSpec](tmpDir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	testutil.AssertEqual(t, "path", store.path, tmpDir)
	testutil.AssertEqual(t, "records length", len(store.records), 0)
}

func TestNewFileStore_NonExistentDirectory(t *testing.T) {
	_, err := NewFileStore[*mockStoreSpec]("/nonexistent/path/that/does/not/exist")
	if err == nil {
		t.Error("expected error for non-existent directory")
	}
}

func TestNewFileStore_WithExistingAssets(t *testing.T) {
	tmpDir := t.TempDir()
	writeAsset(t, tmpDir, "door-1", &mockStoreSpec{Name: "First", Value: 1})
	writeAsset(t, tmpDir, "door-2", &mockStoreSpec{Name: "Second", Value: 2})

	store, err := NewFileStore[*mockStoreSpec](tmpDir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	testutil.AssertEqual(t, "record count", len(store.records), 2)

	first := store.Get("door-1")
	if first == nil {
		t.Fatal("expected door-1 to be loaded")
	}
	testutil.AssertEqual(t, "door-1 name", first.Name, "First")
	testutil.AssertEqual(t, "door-1 value", first.Value, 1)
}

func TestNewFileStore_InvalidJSON(t *testing.T) {
	tmpDir := t.TempDir()

	if err := os.WriteFile(filepath.Join(tmpDir, "bad.json"), []byte(`{invalid json`), 0644); err != nil {
		t.Fatalf("writing test file: %v", err)
	}

	if _, err := NewFileStore[*mockStoreSpec](tmpDir); err == nil {
		t.Error("expected error for invalid JSON")
	}
}

func TestNewFileStore_SpecValidationError(t *testing.T) {
	tmpDir := t.TempDir()
	writeAsset(t, tmpDir, "nameless", &mockStoreSpec{Value: 1})

	if _, err := NewFileStore[*mockStoreSpec](tmpDir); err == nil {
		t.Error("expected error for spec validation failure")
	}
}

func TestFileStore_SaveRoundTrip(t *testing.T) {
	tmpDir := t.TempDir()

	store, err := NewFileStore[*mockStoreSpec](tmpDir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	err = store.Save("player-alice", &mockStoreSpec{Name: "Alice", Value: 42})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Cache sees it immediately.
	testutil.AssertEqual(t, "cached value", store.Get("player-alice").Value, 42)

	// A fresh store sees it from disk.
	reloaded, err := NewFileStore[*mockStoreSpec](tmpDir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testutil.AssertEqual(t, "persisted value", reloaded.Get("player-alice").Value, 42)
}

func TestFileStore_GetMissing(t *testing.T) {
	store, err := NewFileStore[*mockStoreSpec](t.TempDir())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if store.Get("ghost") != nil {
		t.Error("expected nil for missing record")
	}
}
