package state

import "encoding/json"

// Namespace is a store façade bound to a single namespace. It mirrors the
// Store method set with the namespace argument fixed.
type Namespace struct {
	store *Store
	name  string
}

// Name returns the bound namespace name.
func (n *Namespace) Name() string { return n.name }

func (n *Namespace) Get(key string) (json.RawMessage, bool, error) {
	return n.store.Get(n.name, key)
}

func (n *Namespace) Set(key string, value any) error {
	return n.store.Set(n.name, key, value)
}

func (n *Namespace) Delete(key string) error {
	return n.store.Delete(n.name, key)
}

func (n *Namespace) Has(key string) (bool, error) {
	return n.store.Has(n.name, key)
}

func (n *Namespace) List() ([]json.RawMessage, error) {
	return n.store.List(n.name)
}

func (n *Namespace) Keys() ([]string, error) {
	return n.store.Keys(n.name)
}

func (n *Namespace) Clear() error {
	return n.store.Clear(n.name)
}

func (n *Namespace) Subscribe(fn Subscriber) func() {
	return n.store.Subscribe(n.name, fn)
}

// Get decodes the value stored under key into T. A value that fails to
// decode is logged and reported as absent rather than returned as an error,
// so one corrupt record cannot break callers that only probe for presence.
func Get[T any](n *Namespace, key string) (T, bool, error) {
	var zero T
	raw, ok, err := n.Get(key)
	if err != nil || !ok {
		return zero, false, err
	}
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		n.store.logger.Warn().
			Str("namespace", n.name).
			Str("key", key).
			Err(err).
			Msg("Stored value failed to decode, treating as absent")
		return zero, false, nil
	}
	return v, true, nil
}

// List decodes every value in the namespace into T, preserving insertion
// order. Values that fail to decode are logged and skipped.
func List[T any](n *Namespace) ([]T, error) {
	raws, err := n.List()
	if err != nil {
		return nil, err
	}
	out := make([]T, 0, len(raws))
	for _, raw := range raws {
		var v T
		if err := json.Unmarshal(raw, &v); err != nil {
			n.store.logger.Warn().
				Str("namespace", n.name).
				Err(err).
				Msg("Stored value failed to decode, skipping")
			continue
		}
		out = append(out, v)
	}
	return out, nil
}
