package remote

import (
	"context"
	"sync"
)

// Memory is a map-backed Store for tests and examples.
// Objects are namespaced by account.
type Memory struct {
	mu sync.RWMutex
	m  map[string][]byte
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{m: make(map[string][]byte)}
}

// Put stores an object. The data is copied.
func (s *Memory) Put(account, key string, data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := make([]byte, len(data))
	copy(cp, data)
	s.m[account+"\x00"+key] = cp
}

// Download implements Store. Returned bytes are a copy and owned by the
// caller.
func (s *Memory) Download(ctx context.Context, account, key string, _ int64) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.m[account+"\x00"+key]
	if !ok {
		return nil, ErrNotFound
	}
	cp := make([]byte, len(data))
	copy(cp, data)
	return cp, nil
}

var _ Store = (*Memory)(nil)
