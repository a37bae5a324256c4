package cim

import (
	"encoding/json"
	"strings"
)

// FoldName normalizes a CIM element name for case-insensitive comparison.
// CIM names compare case-insensitively but preserve their declared case for
// display, so folded strings are used only as lookup keys.
func FoldName(name string) string {
	return strings.ToLower(name)
}

// named is satisfied by the CIM element types held in a NameMap.
type named[T any] interface {
	Copy() T
	name() string
}

// NameMap is an ordered collection of CIM elements keyed case-insensitively
// by element name. Insertion order is preserved; replacing an element keeps
// its position. The zero value is ready to use.
type NameMap[T named[T]] struct {
	order   []string
	entries map[string]T
}

// Set inserts or replaces the element under its own name.
func (m *NameMap[T]) Set(v T) {
	key := FoldName(v.name())
	if m.entries == nil {
		m.entries = make(map[string]T)
	}
	if _, ok := m.entries[key]; !ok {
		m.order = append(m.order, key)
	}
	m.entries[key] = v
}

// Get returns the element stored under name, case-insensitively.
func (m *NameMap[T]) Get(name string) (T, bool) {
	v, ok := m.entries[FoldName(name)]
	return v, ok
}

// Has reports whether an element is stored under name.
func (m *NameMap[T]) Has(name string) bool {
	_, ok := m.entries[FoldName(name)]
	return ok
}

// Delete removes the element stored under name, reporting whether it existed.
func (m *NameMap[T]) Delete(name string) bool {
	key := FoldName(name)
	if _, ok := m.entries[key]; !ok {
		return false
	}
	delete(m.entries, key)
	for i, k := range m.order {
		if k == key {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return true
}

// Len returns the number of stored elements.
func (m *NameMap[T]) Len() int { return len(m.entries) }

// Names returns the element names in insertion order, with declared case.
func (m *NameMap[T]) Names() []string {
	names := make([]string, 0, len(m.order))
	for _, key := range m.order {
		names = append(names, m.entries[key].name())
	}
	return names
}

// Values returns the stored elements in insertion order.
func (m *NameMap[T]) Values() []T {
	values := make([]T, 0, len(m.order))
	for _, key := range m.order {
		values = append(values, m.entries[key])
	}
	return values
}

// Copy returns a deep copy of the collection.
func (m *NameMap[T]) Copy() NameMap[T] {
	var out NameMap[T]
	for _, v := range m.Values() {
		out.Set(v.Copy())
	}
	return out
}

// MarshalJSON encodes the collection as an ordered array of elements.
func (m NameMap[T]) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.Values())
}

// UnmarshalJSON decodes an array of elements, keying each by its own name.
func (m *NameMap[T]) UnmarshalJSON(data []byte) error {
	var values []T
	if err := json.Unmarshal(data, &values); err != nil {
		return err
	}
	m.order = nil
	m.entries = nil
	for _, v := range values {
		m.Set(v)
	}
	return nil
}
