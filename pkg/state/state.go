package state

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
)

// Entry is a raw stored value together with its key.
type Entry struct {
	Key   string
	Value []byte
}

// Backend is the durable medium behind a Store. Implementations must keep
// namespaces fully disjoint and preserve insertion order within each one.
type Backend interface {
	Get(namespace, key string) ([]byte, bool, error)
	Set(namespace, key string, value []byte) error
	Delete(namespace, key string) error
	List(namespace string) ([]Entry, error)
	Clear(namespace string) error
	Close() error
}

// Subscriber receives the full current value list of a namespace after a
// mutation.
type Subscriber func(values []json.RawMessage)

// Store is a namespace-partitioned key/value store over a Backend.
type Store struct {
	backend Backend
	logger  zerolog.Logger

	mu      sync.Mutex
	subs    map[string]map[int]Subscriber
	nextSub int
}

// New creates a Store over the given backend.
func New(backend Backend, logger zerolog.Logger) *Store {
	return &Store{
		backend: backend,
		logger:  logger.With().Str("component", "state-store").Logger(),
		subs:    make(map[string]map[int]Subscriber),
	}
}

// Get returns the raw value stored under (namespace, key), if any.
func (s *Store) Get(namespace, key string) (json.RawMessage, bool, error) {
	raw, ok, err := s.backend.Get(namespace, key)
	if err != nil {
		return nil, false, fmt.Errorf("state get %s/%s: %w", namespace, key, err)
	}
	if !ok {
		return nil, false, nil
	}
	return json.RawMessage(raw), true, nil
}

// Set marshals value as JSON and stores it under (namespace, key),
// replacing any previous value. Subscribers of the namespace are notified
// after the write completes.
func (s *Store) Set(namespace, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("state set %s/%s: %w", namespace, key, err)
	}
	if err := s.backend.Set(namespace, key, raw); err != nil {
		return fmt.Errorf("state set %s/%s: %w", namespace, key, err)
	}
	s.notify(namespace)
	return nil
}

// Delete removes (namespace, key). Deleting a missing key is a no-op.
func (s *Store) Delete(namespace, key string) error {
	if err := s.backend.Delete(namespace, key); err != nil {
		return fmt.Errorf("state delete %s/%s: %w", namespace, key, err)
	}
	s.notify(namespace)
	return nil
}

// Has reports whether (namespace, key) holds a value.
func (s *Store) Has(namespace, key string) (bool, error) {
	_, ok, err := s.backend.Get(namespace, key)
	if err != nil {
		return false, fmt.Errorf("state has %s/%s: %w", namespace, key, err)
	}
	return ok, nil
}

// List returns all raw values in a namespace in insertion order.
func (s *Store) List(namespace string) ([]json.RawMessage, error) {
	entries, err := s.backend.List(namespace)
	if err != nil {
		return nil, fmt.Errorf("state list %s: %w", namespace, err)
	}
	values := make([]json.RawMessage, 0, len(entries))
	for _, e := range entries {
		values = append(values, json.RawMessage(e.Value))
	}
	return values, nil
}

// Keys returns all keys in a namespace in insertion order.
func (s *Store) Keys(namespace string) ([]string, error) {
	entries, err := s.backend.List(namespace)
	if err != nil {
		return nil, fmt.Errorf("state keys %s: %w", namespace, err)
	}
	keys := make([]string, 0, len(entries))
	for _, e := range entries {
		keys = append(keys, e.Key)
	}
	return keys, nil
}

// Clear removes every key in one namespace. Other namespaces are untouched.
func (s *Store) Clear(namespace string) error {
	if err := s.backend.Clear(namespace); err != nil {
		return fmt.Errorf("state clear %s: %w", namespace, err)
	}
	s.notify(namespace)
	return nil
}

// Subscribe registers a callback fired with the namespace's full value list
// after every mutation. The returned function removes the subscription and
// is safe to call more than once.
func (s *Store) Subscribe(namespace string, fn Subscriber) func() {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	if s.subs[namespace] == nil {
		s.subs[namespace] = make(map[int]Subscriber)
	}
	s.subs[namespace][id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if m, ok := s.subs[namespace]; ok {
			delete(m, id)
		}
	}
}

// Close releases the backend.
func (s *Store) Close() error {
	return s.backend.Close()
}

// notify invokes all subscribers of a namespace with its current contents.
// The subscriber list is snapshotted before any callback runs, so a callback
// that mutates the same namespace re-enters cleanly instead of invalidating
// the iteration or deadlocking.
func (s *Store) notify(namespace string) {
	s.mu.Lock()
	snapshot := make([]Subscriber, 0, len(s.subs[namespace]))
	for _, fn := range s.subs[namespace] {
		snapshot = append(snapshot, fn)
	}
	s.mu.Unlock()

	if len(snapshot) == 0 {
		return
	}
	values, err := s.List(namespace)
	if err != nil {
		s.logger.Error().Err(err).Str("namespace", namespace).Msg("Failed to list namespace for notification")
		return
	}
	for _, fn := range snapshot {
		fn(values)
	}
}

// Namespace returns a façade with the namespace pre-bound. It is the only
// store handle handed to plugins; the bound namespace cannot be changed
// after construction.
func (s *Store) Namespace(name string) *Namespace {
	return &Namespace{store: s, name: name}
}
