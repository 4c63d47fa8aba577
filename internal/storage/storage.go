// Package storage persists small JSON documents (the confirmed address and
// its geocoordinate bundle) under the config directory. Presence of these
// keys gates the onboarding modal and weather fetching.
package storage

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/dongnecli/dongne/internal/config"
	"github.com/dongnecli/dongne/internal/log"
)

// Storage keys. Each key is one JSON file.
const (
	KeyUserLocation = "userLocation"
	KeyUserCoords   = "userCoords"
)

const dataDir = "data"

// Store is a tiny key-to-JSON-file map. Methods are safe to call from a
// single goroutine; the event loop owns it.
type Store struct {
	dir string
}

// Open returns a store rooted in the config data directory.
func Open() (*Store, error) {
	dir, err := config.ConfigDir()
	if err != nil {
		return nil, err
	}
	return &Store{dir: filepath.Join(dir, dataDir)}, nil
}

// OpenAt returns a store rooted at an explicit directory, for tests.
func OpenAt(dir string) *Store {
	return &Store{dir: dir}
}

func (s *Store) path(key string) string {
	return filepath.Join(s.dir, key+".json")
}

// Save marshals v and writes it atomically under key.
func (s *Store) Save(key string, v any) error {
	if err := os.MkdirAll(s.dir, 0700); err != nil {
		return err
	}

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(s.dir, "."+key+".tmp.*")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}
	return os.Rename(tmpPath, s.path(key))
}

// Load unmarshals the document under key into v. A missing file is not an
// error; found reports whether anything was loaded. A corrupt document is
// logged and treated as absent, never fatal.
func (s *Store) Load(key string, v any) (found bool, err error) {
	data, err := os.ReadFile(s.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}

	if err := json.Unmarshal(data, v); err != nil {
		log.Warn("discarding corrupt stored document", "key", key, "error", err)
		return false, nil
	}
	return true, nil
}

// Has reports whether a document exists under key without decoding it.
func (s *Store) Has(key string) bool {
	_, err := os.Stat(s.path(key))
	return err == nil
}

// Delete removes the document under key. Deleting a missing key is a no-op.
func (s *Store) Delete(key string) error {
	err := os.Remove(s.path(key))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}
