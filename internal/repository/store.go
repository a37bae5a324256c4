// Package repository implements the in-memory CIM repository: one keyed
// object store per object kind per namespace, with namespace lifecycle
// management. Stores favor clarity over performance and assume a single
// writer; callers needing concurrent access serialize externally.
package repository

import (
	"cimrepo/pkg/cim"
	"cimrepo/pkg/cimerrors"
)

// ObjectStore is a keyed collection of one CIM object kind. Keys for classes
// and qualifier declarations are case-insensitive names; keys for instances
// are canonical model paths, which are exact by construction. Every read
// that crosses the store boundary returns a deep copy, and every write
// stores a deep copy, so callers can never alias store-internal state.
type ObjectStore[T interface{ Copy() T }] struct {
	kind      string
	normalize func(string) string
	order     []string
	entries   map[string]storeEntry[T]
}

type storeEntry[T interface{ Copy() T }] struct {
	name   string
	object T
}

// NewObjectStore builds an empty store. The normalize function canonicalizes
// keys for lookup; the original key is preserved for display.
func NewObjectStore[T interface{ Copy() T }](kind string, normalize func(string) string) *ObjectStore[T] {
	return &ObjectStore[T]{
		kind:      kind,
		normalize: normalize,
		entries:   make(map[string]storeEntry[T]),
	}
}

// Exists reports whether an object is stored under name.
func (s *ObjectStore[T]) Exists(name string) bool {
	_, ok := s.entries[s.normalize(name)]
	return ok
}

// Get returns a deep copy of the object stored under name.
func (s *ObjectStore[T]) Get(name string) (T, error) {
	entry, ok := s.entries[s.normalize(name)]
	if !ok {
		var zero T
		return zero, cimerrors.New(cimerrors.CodeNotFound,
			"%s %q not found in %s store", s.kind, name, s.kind)
	}
	return entry.object.Copy(), nil
}

// Create stores a deep copy of the object under name. It fails if the name
// is already present.
func (s *ObjectStore[T]) Create(name string, obj T) error {
	key := s.normalize(name)
	if _, ok := s.entries[key]; ok {
		return cimerrors.New(cimerrors.CodeAlreadyExists,
			"%s %q already exists in %s store", s.kind, name, s.kind)
	}
	s.entries[key] = storeEntry[T]{name: name, object: obj.Copy()}
	s.order = append(s.order, key)
	return nil
}

// Update replaces the object stored under name with a deep copy of obj,
// keeping its position. It fails if the name is absent.
func (s *ObjectStore[T]) Update(name string, obj T) error {
	key := s.normalize(name)
	entry, ok := s.entries[key]
	if !ok {
		return cimerrors.New(cimerrors.CodeNotFound,
			"%s %q not found in %s store", s.kind, name, s.kind)
	}
	entry.object = obj.Copy()
	s.entries[key] = entry
	return nil
}

// Delete removes the object stored under name. It fails if the name is
// absent.
func (s *ObjectStore[T]) Delete(name string) error {
	key := s.normalize(name)
	if _, ok := s.entries[key]; !ok {
		return cimerrors.New(cimerrors.CodeNotFound,
			"%s %q not found in %s store", s.kind, name, s.kind)
	}
	delete(s.entries, key)
	for i, k := range s.order {
		if k == key {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

// Names returns the stored keys in insertion order, with original case.
func (s *ObjectStore[T]) Names() []string {
	names := make([]string, 0, len(s.order))
	for _, key := range s.order {
		names = append(names, s.entries[key].name)
	}
	return names
}

// Values returns deep copies of the stored objects in insertion order.
func (s *ObjectStore[T]) Values() []T {
	values := make([]T, 0, len(s.order))
	for _, key := range s.order {
		values = append(values, s.entries[key].object.Copy())
	}
	return values
}

// Range calls fn for each stored object in insertion order without copying,
// stopping if fn returns false. The objects passed to fn are store-internal
// state and must not be mutated or retained; use Get or Values for anything
// that leaves the repository boundary.
func (s *ObjectStore[T]) Range(fn func(name string, obj T) bool) {
	for _, key := range s.order {
		entry := s.entries[key]
		if !fn(entry.name, entry.object) {
			return
		}
	}
}

// Len returns the number of stored objects.
func (s *ObjectStore[T]) Len() int { return len(s.entries) }

// identityKey is the normalizer for stores whose keys are already canonical,
// such as instance stores keyed by canonical model path.
func identityKey(name string) string { return name }

// ClassStore and friends fix the store shape per object kind.
type (
	ClassStore     = ObjectStore[*cim.Class]
	InstanceStore  = ObjectStore[*cim.Instance]
	QualifierStore = ObjectStore[*cim.QualifierDeclaration]
)

// NewClassStore builds a case-insensitively keyed class store.
func NewClassStore() *ClassStore {
	return NewObjectStore[*cim.Class]("class", cim.FoldName)
}

// NewInstanceStore builds an instance store keyed by canonical model path.
func NewInstanceStore() *InstanceStore {
	return NewObjectStore[*cim.Instance]("instance", identityKey)
}

// NewQualifierStore builds a case-insensitively keyed qualifier declaration
// store.
func NewQualifierStore() *QualifierStore {
	return NewObjectStore[*cim.QualifierDeclaration]("qualifier", cim.FoldName)
}
