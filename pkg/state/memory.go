package state

import "sync"

// MemoryBackend is an in-process Backend with no durability. It is the
// default for tests and for hosts that supply their own persistence.
type MemoryBackend struct {
	mu     sync.Mutex
	values map[string]map[string][]byte
	order  map[string][]string
}

// NewMemoryBackend creates an empty in-memory backend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{
		values: make(map[string]map[string][]byte),
		order:  make(map[string][]string),
	}
}

func (b *MemoryBackend) Get(namespace, key string) ([]byte, bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	v, ok := b.values[namespace][key]
	if !ok {
		return nil, false, nil
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, true, nil
}

func (b *MemoryBackend) Set(namespace, key string, value []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.values[namespace] == nil {
		b.values[namespace] = make(map[string][]byte)
	}
	if _, exists := b.values[namespace][key]; !exists {
		b.order[namespace] = append(b.order[namespace], key)
	}
	stored := make([]byte, len(value))
	copy(stored, value)
	b.values[namespace][key] = stored
	return nil
}

func (b *MemoryBackend) Delete(namespace, key string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.values[namespace][key]; !ok {
		return nil
	}
	delete(b.values[namespace], key)
	keys := b.order[namespace]
	for i, k := range keys {
		if k == key {
			b.order[namespace] = append(keys[:i], keys[i+1:]...)
			break
		}
	}
	return nil
}

func (b *MemoryBackend) List(namespace string) ([]Entry, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	entries := make([]Entry, 0, len(b.order[namespace]))
	for _, key := range b.order[namespace] {
		v := b.values[namespace][key]
		out := make([]byte, len(v))
		copy(out, v)
		entries = append(entries, Entry{Key: key, Value: out})
	}
	return entries, nil
}

func (b *MemoryBackend) Clear(namespace string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.values, namespace)
	delete(b.order, namespace)
	return nil
}

func (b *MemoryBackend) Close() error { return nil }
