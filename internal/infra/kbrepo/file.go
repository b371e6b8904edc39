// Package kbrepo provides knowledge base entry sources: a JSON file source
// for single-node deployments and a Postgres source for shared ones.
package kbrepo

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/akhilvs/sarvajna/internal/domain/assistant"
	"github.com/akhilvs/sarvajna/internal/domain/kb"
)

// FileSource serves entries from a JSON file, cached in memory. An empty
// path falls back to the built-in default entries.
type FileSource struct {
	path string

	mu      sync.RWMutex
	entries []kb.Entry
}

// NewFileSource loads the file eagerly so startup fails fast on bad data.
func NewFileSource(path string) (*FileSource, error) {
	s := &FileSource{path: path}
	if err := s.Reload(context.Background()); err != nil {
		return nil, err
	}
	return s, nil
}

// Entries returns the cached entry list.
func (s *FileSource) Entries(_ context.Context) ([]kb.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]kb.Entry, len(s.entries))
	copy(out, s.entries)
	return out, nil
}

// Reload re-reads the backing file.
func (s *FileSource) Reload(_ context.Context) error {
	if s.path == "" {
		s.mu.Lock()
		s.entries = DefaultEntries()
		s.mu.Unlock()
		return nil
	}
	data, err := os.ReadFile(s.path)
	if err != nil {
		return fmt.Errorf("read knowledge base %s: %w", s.path, err)
	}
	var entries []kb.Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return fmt.Errorf("parse knowledge base %s: %w", s.path, err)
	}
	s.mu.Lock()
	s.entries = entries
	s.mu.Unlock()
	return nil
}

// UpsertEntry replaces the entry with a matching ID, or appends it, then
// persists the updated list when a file path is configured.
func (s *FileSource) UpsertEntry(_ context.Context, entry kb.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	replaced := false
	for i := range s.entries {
		if s.entries[i].ID == entry.ID {
			s.entries[i] = entry
			replaced = true
			break
		}
	}
	if !replaced {
		s.entries = append(s.entries, entry)
	}
	if s.path == "" {
		return nil
	}
	data, err := json.MarshalIndent(s.entries, "", "  ")
	if err != nil {
		return fmt.Errorf("encode knowledge base: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("write knowledge base %s: %w", s.path, err)
	}
	return nil
}

var (
	_ assistant.EntrySource = (*FileSource)(nil)
	_ assistant.EntryWriter = (*FileSource)(nil)
)
