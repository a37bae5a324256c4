package dispatch

import (
	"context"

	"go.opentelemetry.io/otel/attribute"

	"cimrepo/internal/provider"
	"cimrepo/internal/query"
	"cimrepo/pkg/cim"
	"cimrepo/pkg/cimerrors"
)

// writeProvider picks the instance-write provider for a class: the nearest
// registered one, else the default store-backed provider.
func (s *Service) writeProvider(namespace, className string) provider.InstanceWriteProvider {
	if s.registry != nil {
		if prov := s.registry.InstanceWriteProvider(namespace, className); prov != nil {
			return prov
		}
	}
	return s.fallback
}

// GetInstance returns the instance identified by the model path.
func (s *Service) GetInstance(ctx context.Context, namespace string, path *cim.InstanceName, opts query.InstanceFilter) (inst *cim.Instance, err error) {
	_, done := s.begin(ctx, "GetInstance",
		attribute.String("namespace", namespace), attribute.String("path", path.String()))
	defer func() { done(err) }()

	classes, err := s.store.ClassStore(namespace)
	if err != nil {
		return nil, err
	}
	qualifiers, err := s.store.QualifierStore(namespace)
	if err != nil {
		return nil, err
	}
	instances, err := s.store.InstanceStore(namespace)
	if err != nil {
		return nil, err
	}
	return query.GetInstance(path, classes, qualifiers, instances, opts)
}

// EnumerateInstanceNames returns the paths of all instances of the class and
// its subclasses.
func (s *Service) EnumerateInstanceNames(ctx context.Context, namespace, className string) (paths []*cim.InstanceName, err error) {
	_, done := s.begin(ctx, "EnumerateInstanceNames",
		attribute.String("namespace", namespace), attribute.String("class", className))
	defer func() { done(err) }()

	classes, err := s.store.ClassStore(namespace)
	if err != nil {
		return nil, err
	}
	instances, err := s.store.InstanceStore(namespace)
	if err != nil {
		return nil, err
	}
	return query.EnumerateInstanceNames(className, classes, instances)
}

// EnumerateInstances returns the instances of the class and its subclasses,
// shaped by deep and the projection options.
func (s *Service) EnumerateInstances(ctx context.Context, namespace, className string, deep bool, opts query.InstanceFilter) (result []*cim.Instance, err error) {
	_, done := s.begin(ctx, "EnumerateInstances",
		attribute.String("namespace", namespace), attribute.String("class", className))
	defer func() { done(err) }()

	classes, err := s.store.ClassStore(namespace)
	if err != nil {
		return nil, err
	}
	qualifiers, err := s.store.QualifierStore(namespace)
	if err != nil {
		return nil, err
	}
	instances, err := s.store.InstanceStore(namespace)
	if err != nil {
		return nil, err
	}
	return query.EnumerateInstances(className, deep, classes, qualifiers, instances, opts)
}

// CreateInstance stores a new instance via the responsible provider and
// returns its completed model path.
func (s *Service) CreateInstance(ctx context.Context, namespace string, newInstance *cim.Instance) (path *cim.InstanceName, err error) {
	ctx, done := s.begin(ctx, "CreateInstance",
		attribute.String("namespace", namespace), attribute.String("class", newInstance.ClassName))
	defer func() { done(err) }()

	if err := s.store.ValidateNamespace(namespace); err != nil {
		return nil, err
	}
	return s.writeProvider(namespace, newInstance.ClassName).CreateInstance(ctx, namespace, newInstance)
}

// ModifyInstance updates an existing instance via the responsible provider.
func (s *Service) ModifyInstance(ctx context.Context, namespace string, modifiedInstance *cim.Instance, propertyList []string) (err error) {
	ctx, done := s.begin(ctx, "ModifyInstance",
		attribute.String("namespace", namespace), attribute.String("class", modifiedInstance.ClassName))
	defer func() { done(err) }()

	if err := s.store.ValidateNamespace(namespace); err != nil {
		return err
	}
	return s.writeProvider(namespace, modifiedInstance.ClassName).ModifyInstance(ctx, namespace, modifiedInstance, propertyList)
}

// DeleteInstance removes an instance via the responsible provider.
func (s *Service) DeleteInstance(ctx context.Context, namespace string, path *cim.InstanceName) (err error) {
	ctx, done := s.begin(ctx, "DeleteInstance",
		attribute.String("namespace", namespace), attribute.String("path", path.String()))
	defer func() { done(err) }()

	classes, err := s.store.ClassStore(namespace)
	if err != nil {
		return err
	}
	if !classes.Exists(path.ClassName) {
		return cimerrors.New(cimerrors.CodeInvalidClass,
			"class %q does not exist in namespace %q", path.ClassName, namespace)
	}
	return s.writeProvider(namespace, path.ClassName).DeleteInstance(ctx, namespace, path)
}
