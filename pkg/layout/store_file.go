package layout

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"os"
	"path/filepath"
)

// FileStore persists layout state as JSON files in a directory, one file per
// key. It is the CLI backend: state written by one invocation is picked up
// by the next, so a paused simulation resumes where it left off.
type FileStore struct {
	dir string
}

// NewFileStore creates a file-backed store rooted at dir.
// The directory is created if it does not exist.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	return &FileStore{dir: dir}, nil
}

// Load returns the state stored under key.
func (s *FileStore) Load(_ context.Context, key string) (json.RawMessage, bool, error) {
	data, err := os.ReadFile(s.path(key))
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	if !json.Valid(data) {
		// Corrupt entry - treat as miss so defaults take over.
		_ = os.Remove(s.path(key))
		return nil, false, nil
	}
	return data, true, nil
}

// Save stores state under key.
func (s *FileStore) Save(_ context.Context, key string, state json.RawMessage) error {
	return os.WriteFile(s.path(key), state, 0644)
}

// Clear removes the state stored under key.
func (s *FileStore) Clear(_ context.Context, key string) error {
	err := os.Remove(s.path(key))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// Reset removes all stored state files.
func (s *FileStore) Reset(_ context.Context) error {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return err
	}
	for _, e := range entries {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".json" {
			if err := os.Remove(filepath.Join(s.dir, e.Name())); err != nil {
				return err
			}
		}
	}
	return nil
}

// Close does nothing for the file store.
func (s *FileStore) Close() error { return nil }

// path converts a state key to a file path. Keys are hashed so arbitrary
// key content (document UUIDs, algorithm names) never escapes into file
// name syntax.
func (s *FileStore) path(key string) string {
	sum := sha256.Sum256([]byte(key))
	return filepath.Join(s.dir, hex.EncodeToString(sum[:16])+".json")
}

// Ensure FileStore implements Store.
var _ Store = (*FileStore)(nil)
