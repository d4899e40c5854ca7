// Package state persists the application state as a single JSON snapshot.
package state

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/spf13/afero"

	"reelmatch/models"
)

// Store reads and writes the AppState snapshot. Writes go through a
// temporary file and a rename so a crash mid-write never leaves a truncated
// snapshot behind.
type Store struct {
	fs   afero.Fs
	path string
}

// NewStore returns a store backed by the OS filesystem.
func NewStore(path string) *Store {
	return NewStoreWithFs(afero.NewOsFs(), path)
}

// NewStoreWithFs returns a store on an explicit filesystem, used by tests.
func NewStoreWithFs(fs afero.Fs, path string) *Store {
	return &Store{fs: fs, path: path}
}

// Load reads the snapshot. A missing file yields the default first-run
// state; a corrupt file is an error so history is never silently discarded.
func (s *Store) Load() (*models.AppState, error) {
	data, err := afero.ReadFile(s.fs, s.path)
	if err != nil {
		if os.IsNotExist(err) {
			log.Printf("[state] no snapshot at %s, starting fresh", s.path)
			return models.DefaultAppState(), nil
		}
		return nil, fmt.Errorf("read state snapshot: %w", err)
	}

	var st models.AppState
	if err := json.Unmarshal(data, &st); err != nil {
		return nil, fmt.Errorf("decode state snapshot: %w", err)
	}
	if st.Users == nil {
		st.Users = models.DefaultAppState().Users
	}
	return &st, nil
}

// Save atomically replaces the snapshot with the given state.
func (s *Store) Save(st *models.AppState) error {
	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return fmt.Errorf("encode state snapshot: %w", err)
	}

	dir := filepath.Dir(s.path)
	if dir != "" && dir != "." {
		if err := s.fs.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create state directory: %w", err)
		}
	}

	tmp := s.path + ".tmp"
	if err := afero.WriteFile(s.fs, tmp, data, 0o644); err != nil {
		return fmt.Errorf("write state snapshot: %w", err)
	}
	if err := s.fs.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace state snapshot: %w", err)
	}
	return nil
}
