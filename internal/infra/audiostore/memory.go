package audiostore

import (
	"context"
	"sync"

	"github.com/akhilvs/sarvajna/internal/domain/assistant"
)

type clip struct {
	data     []byte
	mimeType string
}

// MemoryStore keeps audio clips in process memory.
type MemoryStore struct {
	mu    sync.RWMutex
	clips map[string]clip
}

// NewMemoryStore constructs an in-memory audio cache.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{clips: make(map[string]clip)}
}

// Put implements assistant.AudioStore.
func (s *MemoryStore) Put(_ context.Context, key string, data []byte, mimeType string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := make([]byte, len(data))
	copy(stored, data)
	s.clips[key] = clip{data: stored, mimeType: mimeType}
	return nil
}

// Get implements assistant.AudioStore.
func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.clips[key]
	if !ok {
		return nil, "", false, nil
	}
	out := make([]byte, len(c.data))
	copy(out, c.data)
	return out, c.mimeType, true, nil
}

var _ assistant.AudioStore = (*MemoryStore)(nil)
