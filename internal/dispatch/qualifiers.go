package dispatch

import (
	"context"

	"go.opentelemetry.io/otel/attribute"

	"cimrepo/pkg/cim"
)

// GetQualifier returns the named qualifier declaration.
func (s *Service) GetQualifier(ctx context.Context, namespace, name string) (decl *cim.QualifierDeclaration, err error) {
	_, done := s.begin(ctx, "GetQualifier",
		attribute.String("namespace", namespace), attribute.String("qualifier", name))
	defer func() { done(err) }()

	qualifiers, err := s.store.QualifierStore(namespace)
	if err != nil {
		return nil, err
	}
	return qualifiers.Get(name)
}

// SetQualifier creates or replaces a qualifier declaration. Replacement does
// not re-resolve existing classes; flavors are consulted at class resolution
// time only.
func (s *Service) SetQualifier(ctx context.Context, namespace string, decl *cim.QualifierDeclaration) (err error) {
	_, done := s.begin(ctx, "SetQualifier",
		attribute.String("namespace", namespace), attribute.String("qualifier", decl.Name))
	defer func() { done(err) }()

	qualifiers, err := s.store.QualifierStore(namespace)
	if err != nil {
		return err
	}
	if qualifiers.Exists(decl.Name) {
		return qualifiers.Update(decl.Name, decl)
	}
	return qualifiers.Create(decl.Name, decl)
}

// DeleteQualifier removes a qualifier declaration.
func (s *Service) DeleteQualifier(ctx context.Context, namespace, name string) (err error) {
	_, done := s.begin(ctx, "DeleteQualifier",
		attribute.String("namespace", namespace), attribute.String("qualifier", name))
	defer func() { done(err) }()

	qualifiers, err := s.store.QualifierStore(namespace)
	if err != nil {
		return err
	}
	return qualifiers.Delete(name)
}

// EnumerateQualifiers returns all qualifier declarations of a namespace in
// creation order.
func (s *Service) EnumerateQualifiers(ctx context.Context, namespace string) (decls []*cim.QualifierDeclaration, err error) {
	_, done := s.begin(ctx, "EnumerateQualifiers", attribute.String("namespace", namespace))
	defer func() { done(err) }()

	qualifiers, err := s.store.QualifierStore(namespace)
	if err != nil {
		return nil, err
	}
	return qualifiers.Values(), nil
}
