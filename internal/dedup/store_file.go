package dedup

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"os"
	"path/filepath"
	"sort"
	"time"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/gofrs/flock"
)

// FileStore keeps fingerprints in a JSON array on disk. An exclusive
// flock is taken at Load and released after Save, so two concurrent runs
// cannot race the read-modify-write and double-notify or lose state.
type FileStore struct {
	path string
	lock *flock.Flock
}

func NewFileStore(path string) *FileStore {
	return &FileStore{
		path: path,
		lock: flock.New(path + ".lock"),
	}
}

func (s *FileStore) Load(ctx context.Context) (mapset.Set[string], error) {
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return nil, &StoreError{Op: "load", Err: err}
	}
	locked, err := s.lock.TryLockContext(ctx, 250*time.Millisecond)
	if err != nil {
		return nil, &StoreError{Op: "load", Err: err}
	}
	if !locked {
		return nil, &StoreError{Op: "load", Err: errors.New("could not acquire state lock")}
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return mapset.NewSet[string](), nil
		}
		return nil, &StoreError{Op: "load", Err: err}
	}

	var fingerprints []string
	if err := json.Unmarshal(data, &fingerprints); err != nil {
		// corrupt state is fatal, not silently reset
		return nil, &StoreError{Op: "load", Err: err}
	}
	return mapset.NewSet(fingerprints...), nil
}

// Save replaces the state file atomically: write a temp file in the same
// directory, then rename over the old one.
func (s *FileStore) Save(ctx context.Context, fingerprints mapset.Set[string]) error {
	sorted := fingerprints.ToSlice()
	sort.Strings(sorted)

	data, err := json.MarshalIndent(sorted, "", "  ")
	if err != nil {
		return &StoreError{Op: "save", Err: err}
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".seen_jobs-*.json")
	if err != nil {
		return &StoreError{Op: "save", Err: err}
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return &StoreError{Op: "save", Err: err}
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return &StoreError{Op: "save", Err: err}
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		os.Remove(tmp.Name())
		return &StoreError{Op: "save", Err: err}
	}
	log.Printf("💾 [state] Saved %d fingerprints to %s", len(sorted), s.path)
	return nil
}

// Reset clears the persisted state (--reset flag).
func (s *FileStore) Reset(ctx context.Context) error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return &StoreError{Op: "reset", Err: err}
	}
	return nil
}

func (s *FileStore) Close() {
	if err := s.lock.Unlock(); err != nil {
		log.Printf("⚠️ [state] Failed to release lock: %v", err)
	}
}
