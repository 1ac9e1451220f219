package types

import "reflect"

// Map is an insertion-ordered map of Go values. It is what the codec
// produces when decoding into a map descriptor that has no Go map type,
// so that the order of the document is kept.
// Keys must be comparable.
type Map struct {
	keys   []any
	values []any
	index  map[any]int
}

// NewMap creates an empty Map.
func NewMap() *Map {
	return &Map{index: make(map[any]int)}
}

// Set adds or replaces a key. Replaced keys keep their position.
func (m *Map) Set(k, v any) {
	if m.index == nil {
		m.index = make(map[any]int)
	}
	if i, ok := m.index[k]; ok {
		m.values[i] = v
		return
	}
	m.index[k] = len(m.keys)
	m.keys = append(m.keys, k)
	m.values = append(m.values, v)
}

// Get returns the value associated with k.
func (m *Map) Get(k any) (any, bool) {
	i, ok := m.index[k]
	if !ok {
		return nil, false
	}
	return m.values[i], true
}

// Len returns the number of entries.
func (m *Map) Len() int {
	if m == nil {
		return 0
	}
	return len(m.keys)
}

// Keys returns the keys in insertion order.
func (m *Map) Keys() []any {
	keys := make([]any, len(m.keys))
	copy(keys, m.keys)
	return keys
}

// Iterate goes through all the entries in insertion order.
func (m *Map) Iterate(fn func(k, v any) error) error {
	if m == nil {
		return nil
	}
	for i, k := range m.keys {
		if err := fn(k, m.values[i]); err != nil {
			return err
		}
	}
	return nil
}

// Equal returns true if both maps hold equal entries in the same order.
func (m *Map) Equal(other *Map) bool {
	if m.Len() != other.Len() {
		return false
	}
	for i := 0; i < m.Len(); i++ {
		if m.keys[i] != other.keys[i] {
			return false
		}
		if !reflect.DeepEqual(m.values[i], other.values[i]) {
			return false
		}
	}
	return true
}
