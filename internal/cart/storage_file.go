package cart

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// FileStorage keeps the serialized cart in a single JSON file, the Go
// equivalent of the single local-storage key the web client uses.
type FileStorage struct {
	path string
}

func NewFileStorage(path string) *FileStorage {
	return &FileStorage{path: path}
}

// Load reads and decodes the snapshot. A missing file, unreadable file or
// malformed payload all yield an empty cart.
func (f *FileStorage) Load() State {
	raw, err := os.ReadFile(f.path)
	if err != nil {
		return State{}
	}
	var s State
	if err := json.Unmarshal(raw, &s); err != nil {
		return State{}
	}
	if s == nil {
		return State{}
	}
	return s
}

// Save writes the snapshot atomically via a temp file rename.
func (f *FileStorage) Save(s State) error {
	raw, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshal cart: %w", err)
	}
	if dir := filepath.Dir(f.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create cart dir: %w", err)
		}
	}
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return fmt.Errorf("write cart: %w", err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		return fmt.Errorf("rename cart: %w", err)
	}
	return nil
}
