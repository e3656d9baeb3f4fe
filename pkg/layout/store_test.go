package layout

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

// storeUnderTest runs the contract checks shared by all backends.
func storeUnderTest(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	t.Run("miss is not an error", func(t *testing.T) {
		state, found, err := s.Load(ctx, "absent")
		if err != nil {
			t.Fatalf("Load() error: %v", err)
		}
		if found || state != nil {
			t.Errorf("Load() = (%s, %v), want miss", state, found)
		}
	})

	t.Run("save then load", func(t *testing.T) {
		want := json.RawMessage(`{"running":true,"temperature":4.2}`)
		if err := s.Save(ctx, "force", want); err != nil {
			t.Fatalf("Save() error: %v", err)
		}
		got, found, err := s.Load(ctx, "force")
		if err != nil {
			t.Fatalf("Load() error: %v", err)
		}
		if !found {
			t.Fatal("Load() missed saved state")
		}
		if string(got) != string(want) {
			t.Errorf("Load() = %s, want %s", got, want)
		}
	})

	t.Run("save replaces", func(t *testing.T) {
		if err := s.Save(ctx, "force", json.RawMessage(`{"running":false}`)); err != nil {
			t.Fatalf("Save() error: %v", err)
		}
		got, _, _ := s.Load(ctx, "force")
		if string(got) != `{"running":false}` {
			t.Errorf("Load() = %s after overwrite", got)
		}
	})

	t.Run("clear", func(t *testing.T) {
		if err := s.Clear(ctx, "force"); err != nil {
			t.Fatalf("Clear() error: %v", err)
		}
		if _, found, _ := s.Load(ctx, "force"); found {
			t.Error("state survived Clear()")
		}
		if err := s.Clear(ctx, "force"); err != nil {
			t.Errorf("Clear() of missing key: %v", err)
		}
	})

	t.Run("reset", func(t *testing.T) {
		_ = s.Save(ctx, "a", json.RawMessage(`{}`))
		_ = s.Save(ctx, "b", json.RawMessage(`{}`))
		if err := s.Reset(ctx); err != nil {
			t.Fatalf("Reset() error: %v", err)
		}
		for _, key := range []string{"a", "b"} {
			if _, found, _ := s.Load(ctx, key); found {
				t.Errorf("key %q survived Reset()", key)
			}
		}
	})
}

func TestMemoryStore(t *testing.T) {
	storeUnderTest(t, NewMemoryStore())
}

func TestFileStore(t *testing.T) {
	s, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore() error: %v", err)
	}
	storeUnderTest(t, s)
}

func TestFileStoreCreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "state")
	if _, err := NewFileStore(dir); err != nil {
		t.Fatalf("NewFileStore() error: %v", err)
	}
	if _, err := os.Stat(dir); err != nil {
		t.Errorf("directory not created: %v", err)
	}
}

func TestFileStoreSurvivesReopen(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	first, _ := NewFileStore(dir)
	if err := first.Save(ctx, "doc:force", json.RawMessage(`{"iteration":9}`)); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	second, _ := NewFileStore(dir)
	got, found, err := second.Load(ctx, "doc:force")
	if err != nil || !found {
		t.Fatalf("Load() = (%v, %v), want hit", found, err)
	}
	if string(got) != `{"iteration":9}` {
		t.Errorf("Load() = %s", got)
	}
}

func TestFileStoreCorruptEntryIsMiss(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	s, _ := NewFileStore(dir)
	_ = s.Save(ctx, "force", json.RawMessage(`{"ok":true}`))

	// Truncate the underlying file mid-token.
	entries, err := os.ReadDir(dir)
	if err != nil || len(entries) != 1 {
		t.Fatalf("ReadDir() = %v entries, err %v", len(entries), err)
	}
	path := filepath.Join(dir, entries[0].Name())
	if err := os.WriteFile(path, []byte(`{"ok":`), 0644); err != nil {
		t.Fatalf("WriteFile() error: %v", err)
	}

	if _, found, err := s.Load(ctx, "force"); err != nil || found {
		t.Errorf("Load() of corrupt entry = (%v, %v), want miss", found, err)
	}
}
