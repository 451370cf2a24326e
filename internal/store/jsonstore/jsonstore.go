package jsonstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Makepad-fr/skips/internal/model"
)

// JSON-backed storage for the chosen skip. Single file, human-readable.
// No locking; one user, one terminal.

type Store struct {
	path string
}

// New stores the selection at path. Relative paths resolve against the
// working directory.
func New(path string) *Store {
	return &Store{path: path}
}

func (s *Store) Path() string { return s.path }

// Load returns nil, nil when nothing has been saved yet.
func (s *Store) Load() (*model.Selection, error) {
	b, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read file: %w", err)
	}
	var sel model.Selection
	if err := json.Unmarshal(b, &sel); err != nil {
		return nil, fmt.Errorf("json unmarshal: %w", err)
	}
	return &sel, nil
}

func (s *Store) Save(sel model.Selection) error {
	b, err := json.MarshalIndent(sel, "", "  ")
	if err != nil {
		return fmt.Errorf("json marshal: %w", err)
	}
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir: %w", err)
		}
	}
	if err := os.WriteFile(s.path, b, 0o644); err != nil {
		return fmt.Errorf("write file: %w", err)
	}
	return nil
}

// Clear removes the saved selection; clearing nothing is not an error.
func (s *Store) Clear() error {
	if err := os.Remove(s.path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("remove: %w", err)
	}
	return nil
}
