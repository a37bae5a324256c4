package dispatch

import (
	"context"

	"go.opentelemetry.io/otel/attribute"

	"cimrepo/internal/query"
	"cimrepo/internal/repository"
	"cimrepo/pkg/cim"
)

func (s *Service) namespaceStores(namespace string) (*repository.ClassStore, *repository.QualifierStore, *repository.InstanceStore, error) {
	classes, err := s.store.ClassStore(namespace)
	if err != nil {
		return nil, nil, nil, err
	}
	qualifiers, err := s.store.QualifierStore(namespace)
	if err != nil {
		return nil, nil, nil, err
	}
	instances, err := s.store.InstanceStore(namespace)
	if err != nil {
		return nil, nil, nil, err
	}
	return classes, qualifiers, instances, nil
}

// References returns the association instances referencing the source
// instance.
func (s *Service) References(ctx context.Context, namespace string, source *cim.InstanceName, resultClass, role string) (result []*cim.Instance, err error) {
	_, done := s.begin(ctx, "References",
		attribute.String("namespace", namespace), attribute.String("path", source.String()))
	defer func() { done(err) }()

	classes, _, instances, err := s.namespaceStores(namespace)
	if err != nil {
		return nil, err
	}
	return query.References(source, resultClass, role, classes, instances)
}

// ReferenceNames returns the paths of the association instances referencing
// the source instance.
func (s *Service) ReferenceNames(ctx context.Context, namespace string, source *cim.InstanceName, resultClass, role string) (paths []*cim.InstanceName, err error) {
	_, done := s.begin(ctx, "ReferenceNames",
		attribute.String("namespace", namespace), attribute.String("path", source.String()))
	defer func() { done(err) }()

	classes, _, instances, err := s.namespaceStores(namespace)
	if err != nil {
		return nil, err
	}
	return query.ReferenceNames(source, resultClass, role, classes, instances)
}

// Associators returns the instances associated with the source instance.
func (s *Service) Associators(ctx context.Context, namespace string, source *cim.InstanceName, assocClass, role, resultClass, resultRole string, opts query.InstanceFilter) (result []*cim.Instance, err error) {
	_, done := s.begin(ctx, "Associators",
		attribute.String("namespace", namespace), attribute.String("path", source.String()))
	defer func() { done(err) }()

	classes, qualifiers, instances, err := s.namespaceStores(namespace)
	if err != nil {
		return nil, err
	}
	return query.Associators(source, assocClass, role, resultClass, resultRole, classes, qualifiers, instances, opts)
}

// AssociatorNames returns the paths of the instances associated with the
// source instance.
func (s *Service) AssociatorNames(ctx context.Context, namespace string, source *cim.InstanceName, assocClass, role, resultClass, resultRole string) (paths []*cim.InstanceName, err error) {
	_, done := s.begin(ctx, "AssociatorNames",
		attribute.String("namespace", namespace), attribute.String("path", source.String()))
	defer func() { done(err) }()

	classes, _, instances, err := s.namespaceStores(namespace)
	if err != nil {
		return nil, err
	}
	return query.AssociatorNames(source, assocClass, role, resultClass, resultRole, classes, instances)
}

// ReferenceClassNames answers the schema-level reference question: which
// association classes have a reference declared against the source class.
func (s *Service) ReferenceClassNames(ctx context.Context, namespace, className, resultClass, role string) (names []string, err error) {
	_, done := s.begin(ctx, "ReferenceClassNames",
		attribute.String("namespace", namespace), attribute.String("class", className))
	defer func() { done(err) }()

	classes, err := s.store.ClassStore(namespace)
	if err != nil {
		return nil, err
	}
	return query.ReferenceClassNames(className, resultClass, role, classes)
}

// AssociatorClassNames answers the schema-level associator question: which
// declared classes sit at the far end of matching association classes.
func (s *Service) AssociatorClassNames(ctx context.Context, namespace, className, assocClass, role, resultClass, resultRole string) (names []string, err error) {
	_, done := s.begin(ctx, "AssociatorClassNames",
		attribute.String("namespace", namespace), attribute.String("class", className))
	defer func() { done(err) }()

	classes, err := s.store.ClassStore(namespace)
	if err != nil {
		return nil, err
	}
	return query.AssociatorClassNames(className, assocClass, role, resultClass, resultRole, classes)
}
