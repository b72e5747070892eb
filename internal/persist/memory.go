package persist

import (
	"context"
	"sync"
)

// MemoryBackend is an in-process Backend. GetErr and PutErr, when set, are
// returned instead of touching the map, which lets callers simulate a store
// that rejects reads or writes.
type MemoryBackend struct {
	mu     sync.Mutex
	values map[string][]byte
	puts   int

	GetErr error
	PutErr error
}

func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{values: make(map[string][]byte)}
}

func (b *MemoryBackend) Get(ctx context.Context, key string) ([]byte, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.GetErr != nil {
		return nil, b.GetErr
	}
	v, ok := b.values[key]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), v...), nil
}

func (b *MemoryBackend) Put(ctx context.Context, key string, value []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.PutErr != nil {
		return b.PutErr
	}
	b.values[key] = append([]byte(nil), value...)
	b.puts++
	return nil
}

// SetFailures sets GetErr and PutErr under the backend's lock.
func (b *MemoryBackend) SetFailures(getErr, putErr error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.GetErr = getErr
	b.PutErr = putErr
}

// Puts returns the number of successful writes.
func (b *MemoryBackend) Puts() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.puts
}

// Keys returns every stored key.
func (b *MemoryBackend) Keys() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	keys := make([]string, 0, len(b.values))
	for k := range b.values {
		keys = append(keys, k)
	}
	return keys
}

func (b *MemoryBackend) Close() error {
	return nil
}
