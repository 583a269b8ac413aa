// Package cache stores the last successfully merged copy of each
// metadata source on disk, so the catalog can be seeded before the
// first network fetch completes.
package cache

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// Store maps source identifiers to raw documents under one directory.
// No cross-process locking is done; concurrent processes are out of
// scope.
type Store struct {
	Dir string
}

// NewStore builds a store rooted at dir.
func NewStore(dir string) *Store {
	return &Store{Dir: dir}
}

// Path returns the on-disk location for a source.
func (s *Store) Path(source string) string {
	return filepath.Join(s.Dir, source)
}

// Load reads the cached document for a source.
func (s *Store) Load(source string) ([]byte, error) {
	raw, err := os.ReadFile(s.Path(source))
	if err != nil {
		return nil, fmt.Errorf("load cached %s: %w", source, err)
	}
	return raw, nil
}

// Save writes the document for a source, creating the directory as
// needed.
func (s *Store) Save(source string, raw []byte) error {
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return fmt.Errorf("create cache dir: %w", err)
	}
	if err := os.WriteFile(s.Path(source), raw, 0o644); err != nil {
		return fmt.Errorf("cache %s: %w", source, err)
	}
	return nil
}

// Has reports whether a cached copy of the source exists.
func (s *Store) Has(source string) bool {
	_, err := os.Stat(s.Path(source))
	return err == nil
}

// HasAll reports whether every source has a cached copy. Seeding from
// cache is all-or-nothing: a partial cache falls back to built-ins.
func (s *Store) HasAll(sources []string) bool {
	for _, src := range sources {
		if !s.Has(src) {
			return false
		}
	}
	return len(sources) > 0
}

// Remove drops the cached copy of a source.
func (s *Store) Remove(source string) error {
	err := os.Remove(s.Path(source))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove cached %s: %w", source, err)
	}
	return nil
}
