package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func backends(t *testing.T) map[string]Store {
	t.Helper()

	fileStore, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("failed to create file store: %v", err)
	}

	sqliteStore, err := NewSQLiteStore(context.Background(), ":memory:")
	if err != nil {
		t.Fatalf("failed to create SQLite store: %v", err)
	}
	t.Cleanup(func() { sqliteStore.Close() })

	return map[string]Store{
		DriverFile:   fileStore,
		DriverSQLite: sqliteStore,
		DriverMemory: NewMemoryStore(),
	}
}

func TestStoreRoundTrip(t *testing.T) {
	for name, store := range backends(t) {
		t.Run(name, func(t *testing.T) {
			if _, err := store.Get("profiles"); !errors.Is(err, ErrNotFound) {
				t.Fatalf("expected ErrNotFound for missing key, got %v", err)
			}

			if err := store.Set("profiles", `[{"username":"a"}]`); err != nil {
				t.Fatalf("unexpected set error: %v", err)
			}

			if err := store.Set("profiles", `[]`); err != nil {
				t.Fatalf("unexpected overwrite error: %v", err)
			}

			got, err := store.Get("profiles")
			if err != nil {
				t.Fatalf("unexpected get error: %v", err)
			}
			if got != `[]` {
				t.Fatalf("expected overwritten value, got %q", got)
			}
		})
	}
}

func TestFileStoreRejectsPathKeys(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("failed to create file store: %v", err)
	}

	for _, key := range []string{"", "../escape", `a\b`, ".."} {
		if err := store.Set(key, "x"); err == nil {
			t.Fatalf("expected error for key %q", key)
		}
	}
}

func TestFileStoreLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileStore(dir)
	if err != nil {
		t.Fatalf("failed to create file store: %v", err)
	}

	if err := store.Set("profiles", "[]"); err != nil {
		t.Fatalf("unexpected set error: %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != 1 || entries[0].Name() != "profiles.json" {
		t.Fatalf("unexpected directory content: %v", entries)
	}

	data, err := os.ReadFile(filepath.Join(dir, "profiles.json"))
	if err != nil || string(data) != "[]" {
		t.Fatalf("unexpected file content %q (%v)", data, err)
	}
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	if _, err := Open(ctx, "redis", ""); err == nil {
		t.Fatalf("expected error for unsupported driver")
	}

	store, err := Open(ctx, "MEMORY", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := store.(*MemoryStore); !ok {
		t.Fatalf("expected memory store, got %T", store)
	}
	if err := Close(store); err != nil {
		t.Fatalf("closing memory store: %v", err)
	}

	sqliteStore, err := Open(ctx, DriverSQLite, filepath.Join(t.TempDir(), "gitrate.db"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := Close(sqliteStore); err != nil {
		t.Fatalf("closing sqlite store: %v", err)
	}
}
