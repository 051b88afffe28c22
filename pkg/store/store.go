package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"algovanity/pkg/types"
)

// Store accumulates matches in receipt order and rewrites the destination
// file on every append. Each write goes to a temporary file in the same
// directory which is then renamed over the destination, so the destination
// is a complete, parseable JSON document at every instant even if the
// process is killed mid-write.
type Store struct {
	path string

	mu      sync.Mutex
	matches []types.Match
}

// Open prepares a store backed by path. If the file already exists its
// contents are loaded so new matches extend the earlier results; a missing
// file starts empty and is only created on the first append.
func Open(path string) (*Store, error) {
	s := &Store{path: path}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read existing results: %w", err)
	}
	if err := json.Unmarshal(data, &s.matches); err != nil {
		return nil, fmt.Errorf("parse existing results %s: %w", path, err)
	}
	return s, nil
}

// Append adds m to the in-memory set and persists the full updated set.
// On failure the match stays in memory; the caller decides whether to abort.
func (s *Store) Append(m types.Match) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.matches = append(s.matches, m)
	if err := s.write(); err != nil {
		return fmt.Errorf("persist results: %w", err)
	}
	return nil
}

// write serializes every match found so far and atomically replaces the
// destination. Rewriting the whole document on each find is deliberate:
// finds are rare relative to generation attempts, and the destination must
// never hold a partial document.
func (s *Store) write() error {
	data, err := json.MarshalIndent(s.matches, "", "  ")
	if err != nil {
		return err
	}

	dir, file := filepath.Split(s.path)
	tmp := filepath.Join(dir, "temp-"+file)
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}

// Matches returns a copy of every match appended so far, in receipt order.
func (s *Store) Matches() []types.Match {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]types.Match, len(s.matches))
	copy(out, s.matches)
	return out
}

// Len returns the number of matches appended so far.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.matches)
}

// Path returns the destination file.
func (s *Store) Path() string {
	return s.path
}
