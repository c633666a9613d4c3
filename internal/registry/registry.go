// Package registry provides an append-only, set-once key/value store that
// remembers insertion order.
package registry

import (
	"errors"
	"fmt"
)

// ErrKeyAlreadySet is matched by errors.Is for every KeyAlreadySetError.
var ErrKeyAlreadySet = errors.New("registry key already set")

// KeyAlreadySetError indicates a Set on a key that already holds a value.
type KeyAlreadySetError struct {
	Key any
}

func (e *KeyAlreadySetError) Error() string {
	return fmt.Sprintf("key %v already set in registry", e.Key)
}

// Is reports whether target is ErrKeyAlreadySet.
func (e *KeyAlreadySetError) Is(target error) bool {
	return target == ErrKeyAlreadySet
}

// IsKeyAlreadySet returns true if the error indicates a duplicate key.
func IsKeyAlreadySet(err error) bool {
	return errors.Is(err, ErrKeyAlreadySet)
}

// Registry is a monotonic map: keys are written at most once and never
// removed. It is not safe for concurrent use; callers serialize access.
type Registry[K comparable, V any] struct {
	values map[K]V
	order  []K
}

// New creates an empty registry.
func New[K comparable, V any]() *Registry[K, V] {
	return &Registry[K, V]{
		values: make(map[K]V),
	}
}

// Get returns the value stored under key.
func (r *Registry[K, V]) Get(key K) (V, bool) {
	v, ok := r.values[key]
	return v, ok
}

// Set stores value under key. It fails without mutating the registry if the
// key is already present.
func (r *Registry[K, V]) Set(key K, value V) error {
	if _, exists := r.values[key]; exists {
		return &KeyAlreadySetError{Key: key}
	}
	r.values[key] = value
	r.order = append(r.order, key)
	return nil
}

// Has reports whether key has been set.
func (r *Registry[K, V]) Has(key K) bool {
	_, ok := r.values[key]
	return ok
}

// Keys returns a copy of the keys in insertion order.
func (r *Registry[K, V]) Keys() []K {
	keys := make([]K, len(r.order))
	copy(keys, r.order)
	return keys
}

// ForEach calls fn for every entry in insertion order. Entries added by fn
// during the walk are not visited.
func (r *Registry[K, V]) ForEach(fn func(key K, value V)) {
	for _, key := range r.Keys() {
		fn(key, r.values[key])
	}
}

// Len returns the number of entries.
func (r *Registry[K, V]) Len() int {
	return len(r.order)
}
