package theme

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Store persists the user's theme preference.
type Store interface {
	// Load returns the saved theme. ok is false when nothing is saved.
	Load() (t Theme, ok bool, err error)
	// Save records t as the preference.
	Save(t Theme) error
}

type preferences struct {
	Theme string `toml:"theme"`
}

// FileStore keeps the preference in a TOML file.
type FileStore struct {
	Path string
}

// DefaultPreferencePath returns preferences.toml under the user config
// directory.
func DefaultPreferencePath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return filepath.Join(".causalview", "preferences.toml")
	}
	return filepath.Join(dir, "causalview", "preferences.toml")
}

// Load implements Store.
func (s *FileStore) Load() (Theme, bool, error) {
	var p preferences
	if _, err := toml.DecodeFile(s.Path, &p); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("read preferences %s: %w", s.Path, err)
	}
	if p.Theme == "" {
		return "", false, nil
	}
	t, err := Parse(p.Theme)
	if err != nil {
		return "", false, fmt.Errorf("read preferences %s: %w", s.Path, err)
	}
	return t, true, nil
}

// Save implements Store. The file is replaced atomically.
func (s *FileStore) Save(t Theme) error {
	if err := os.MkdirAll(filepath.Dir(s.Path), 0755); err != nil {
		return fmt.Errorf("create preferences dir: %w", err)
	}
	tmp := s.Path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("write preferences: %w", err)
	}
	if err := toml.NewEncoder(f).Encode(preferences{Theme: string(t)}); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("encode preferences: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("write preferences: %w", err)
	}
	if err := os.Rename(tmp, s.Path); err != nil {
		return fmt.Errorf("write preferences: %w", err)
	}
	return nil
}

// MemoryStore is an in-process Store.
type MemoryStore struct {
	Saved Theme
	Err   error
}

// Load implements Store.
func (s *MemoryStore) Load() (Theme, bool, error) {
	if s.Err != nil {
		return "", false, s.Err
	}
	return s.Saved, s.Saved != "", nil
}

// Save implements Store.
func (s *MemoryStore) Save(t Theme) error {
	if s.Err != nil {
		return s.Err
	}
	s.Saved = t
	return nil
}
