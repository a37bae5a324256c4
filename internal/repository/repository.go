package repository

import (
	"strings"

	"cimrepo/pkg/cim"
	"cimrepo/pkg/cimerrors"
)

// Repository is the aggregate root: a case-insensitive, ordered map of
// namespaces, each owning a class store, an instance store, and a qualifier
// declaration store. Construct one per session; there is no ambient global.
type Repository struct {
	order      []string
	namespaces map[string]*namespaceStores
}

type namespaceStores struct {
	name       string
	classes    *ClassStore
	instances  *InstanceStore
	qualifiers *QualifierStore
}

// New builds an empty repository.
func New() *Repository {
	return &Repository{namespaces: make(map[string]*namespaceStores)}
}

// NormalizeNamespace strips leading and trailing path separators from a
// namespace name.
func NormalizeNamespace(namespace string) string {
	return strings.Trim(namespace, "/")
}

func (r *Repository) lookup(namespace string) (*namespaceStores, bool) {
	ns, ok := r.namespaces[cim.FoldName(NormalizeNamespace(namespace))]
	return ns, ok
}

// ValidateNamespace fails InvalidParameter for an empty namespace argument
// and InvalidNamespace for one not present in the repository. The two cases
// are distinct error kinds because an empty argument is a caller bug while a
// missing namespace is a repository fact.
func (r *Repository) ValidateNamespace(namespace string) error {
	if namespace == "" {
		return cimerrors.New(cimerrors.CodeInvalidParameter,
			"namespace argument must not be empty")
	}
	if _, ok := r.lookup(namespace); !ok {
		return cimerrors.New(cimerrors.CodeInvalidNamespace,
			"namespace %q does not exist in repository", NormalizeNamespace(namespace))
	}
	return nil
}

// AddNamespace creates a namespace with three empty object stores.
func (r *Repository) AddNamespace(namespace string) error {
	if namespace == "" {
		return cimerrors.New(cimerrors.CodeInvalidParameter,
			"namespace argument must not be empty")
	}
	namespace = NormalizeNamespace(namespace)
	key := cim.FoldName(namespace)
	if _, ok := r.namespaces[key]; ok {
		return cimerrors.New(cimerrors.CodeAlreadyExists,
			"namespace %q already in repository", namespace)
	}
	r.namespaces[key] = &namespaceStores{
		name:       namespace,
		classes:    NewClassStore(),
		instances:  NewInstanceStore(),
		qualifiers: NewQualifierStore(),
	}
	r.order = append(r.order, key)
	return nil
}

// RemoveNamespace deletes a namespace. All three of its stores must be
// empty; emptying them first is the caller's responsibility, there is no
// cascading delete.
func (r *Repository) RemoveNamespace(namespace string) error {
	if err := r.ValidateNamespace(namespace); err != nil {
		return err
	}
	key := cim.FoldName(NormalizeNamespace(namespace))
	ns := r.namespaces[key]
	if ns.classes.Len() != 0 || ns.qualifiers.Len() != 0 || ns.instances.Len() != 0 {
		return cimerrors.New(cimerrors.CodeNamespaceNotEmpty,
			"namespace %q removal invalid: namespace not empty", ns.name)
	}
	delete(r.namespaces, key)
	for i, k := range r.order {
		if k == key {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

// Namespaces returns the current namespace names in insertion order.
func (r *Repository) Namespaces() []string {
	names := make([]string, 0, len(r.order))
	for _, key := range r.order {
		names = append(names, r.namespaces[key].name)
	}
	return names
}

// ClassStore returns the class store of a namespace.
func (r *Repository) ClassStore(namespace string) (*ClassStore, error) {
	if err := r.ValidateNamespace(namespace); err != nil {
		return nil, err
	}
	ns, _ := r.lookup(namespace)
	return ns.classes, nil
}

// InstanceStore returns the instance store of a namespace.
func (r *Repository) InstanceStore(namespace string) (*InstanceStore, error) {
	if err := r.ValidateNamespace(namespace); err != nil {
		return nil, err
	}
	ns, _ := r.lookup(namespace)
	return ns.instances, nil
}

// QualifierStore returns the qualifier declaration store of a namespace.
func (r *Repository) QualifierStore(namespace string) (*QualifierStore, error) {
	if err := r.ValidateNamespace(namespace); err != nil {
		return nil, err
	}
	ns, _ := r.lookup(namespace)
	return ns.qualifiers, nil
}

// ClassExists reports whether a class is defined in a namespace. This is
// part of the minimal surface providers build on.
func (r *Repository) ClassExists(namespace, className string) (bool, error) {
	store, err := r.ClassStore(namespace)
	if err != nil {
		return false, err
	}
	return store.Exists(className), nil
}
