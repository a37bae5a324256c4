package dispatch

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"

	"cimrepo/internal/schema"
	"cimrepo/pkg/cim"
	"cimrepo/pkg/cimerrors"
)

// GetClass returns a class definition, filtered by the projection options.
func (s *Service) GetClass(ctx context.Context, namespace, className string, opts schema.ClassFilter) (cls *cim.Class, err error) {
	_, done := s.begin(ctx, "GetClass",
		attribute.String("namespace", namespace), attribute.String("class", className))
	defer func() { done(err) }()

	classes, err := s.store.ClassStore(namespace)
	if err != nil {
		return nil, err
	}
	cls, err = classes.Get(className)
	if err != nil {
		return nil, err
	}
	schema.FilterClass(cls, opts)
	return cls, nil
}

// CreateClass resolves a class definition against its superclass and the
// namespace qualifier declarations, then stores the resolved form. What the
// store holds is always the effective definition; reads never resolve.
func (s *Service) CreateClass(ctx context.Context, namespace string, cls *cim.Class) (err error) {
	ctx, done := s.begin(ctx, "CreateClass",
		attribute.String("namespace", namespace), attribute.String("class", cls.ClassName))
	defer func() { done(err) }()

	classes, err := s.store.ClassStore(namespace)
	if err != nil {
		return err
	}
	qualifiers, err := s.store.QualifierStore(namespace)
	if err != nil {
		return err
	}
	if classes.Exists(cls.ClassName) {
		return cimerrors.New(cimerrors.CodeAlreadyExists,
			"class %q already exists in namespace %q", cls.ClassName, namespace)
	}
	resolved, err := schema.ResolveClass(cls, classes, qualifiers)
	if err != nil {
		return err
	}
	if err := classes.Create(resolved.ClassName, resolved); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "class created",
		slog.String("namespace", namespace), slog.String("class", resolved.ClassName))
	return nil
}

// ModifyClass replaces an existing class definition with the resolved form
// of the submitted one. A class with subclasses cannot be modified; the
// resolved state of the subclasses would silently go stale.
func (s *Service) ModifyClass(ctx context.Context, namespace string, cls *cim.Class) (err error) {
	ctx, done := s.begin(ctx, "ModifyClass",
		attribute.String("namespace", namespace), attribute.String("class", cls.ClassName))
	defer func() { done(err) }()

	classes, err := s.store.ClassStore(namespace)
	if err != nil {
		return err
	}
	qualifiers, err := s.store.QualifierStore(namespace)
	if err != nil {
		return err
	}
	if !classes.Exists(cls.ClassName) {
		return cimerrors.New(cimerrors.CodeNotFound,
			"class %q not found in namespace %q", cls.ClassName, namespace)
	}
	if children := schema.SubclassNames(cls.ClassName, classes, false); len(children) > 0 {
		return cimerrors.New(cimerrors.CodeClassHasChildren,
			"class %q modification invalid: class has %d subclasses", cls.ClassName, len(children))
	}
	resolved, err := schema.ResolveClass(cls, classes, qualifiers)
	if err != nil {
		return err
	}
	if err := classes.Update(resolved.ClassName, resolved); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "class modified",
		slog.String("namespace", namespace), slog.String("class", resolved.ClassName))
	return nil
}

// DeleteClass removes a class, its deep subclasses, and every instance of
// the removed classes.
func (s *Service) DeleteClass(ctx context.Context, namespace, className string) (err error) {
	ctx, done := s.begin(ctx, "DeleteClass",
		attribute.String("namespace", namespace), attribute.String("class", className))
	defer func() { done(err) }()

	classes, err := s.store.ClassStore(namespace)
	if err != nil {
		return err
	}
	instances, err := s.store.InstanceStore(namespace)
	if err != nil {
		return err
	}
	if !classes.Exists(className) {
		return cimerrors.New(cimerrors.CodeNotFound,
			"class %q not found in namespace %q", className, namespace)
	}
	doomed := schema.SubclassNameSet(className, classes)

	var paths []string
	instances.Range(func(key string, inst *cim.Instance) bool {
		if doomed[cim.FoldName(inst.ClassName)] {
			paths = append(paths, key)
		}
		return true
	})
	for _, key := range paths {
		if err := instances.Delete(key); err != nil {
			return err
		}
	}
	for _, name := range append(schema.SubclassNames(className, classes, true), className) {
		if err := classes.Delete(name); err != nil {
			return err
		}
	}
	s.logger.InfoContext(ctx, "class deleted",
		slog.String("namespace", namespace), slog.String("class", className),
		slog.Int("classes_removed", len(doomed)), slog.Int("instances_removed", len(paths)))
	return nil
}

// classNames is the shared body of the class enumeration operations.
func (s *Service) classNames(namespace, className string, deep bool) ([]string, error) {
	classes, err := s.store.ClassStore(namespace)
	if err != nil {
		return nil, err
	}
	if className != "" && !classes.Exists(className) {
		return nil, cimerrors.New(cimerrors.CodeInvalidClass,
			"class %q does not exist in namespace %q", className, namespace)
	}
	return schema.SubclassNames(className, classes, deep), nil
}

// EnumerateClassNames returns class names below the given class. An empty
// class name enumerates from the top of the hierarchy.
func (s *Service) EnumerateClassNames(ctx context.Context, namespace, className string, deep bool) (names []string, err error) {
	_, done := s.begin(ctx, "EnumerateClassNames",
		attribute.String("namespace", namespace), attribute.String("class", className))
	defer func() { done(err) }()

	return s.classNames(namespace, className, deep)
}

// EnumerateClasses returns the class definitions EnumerateClassNames would
// name, filtered by the projection options.
func (s *Service) EnumerateClasses(ctx context.Context, namespace, className string, deep bool, opts schema.ClassFilter) (result []*cim.Class, err error) {
	_, done := s.begin(ctx, "EnumerateClasses",
		attribute.String("namespace", namespace), attribute.String("class", className))
	defer func() { done(err) }()

	names, err := s.classNames(namespace, className, deep)
	if err != nil {
		return nil, err
	}
	classes, err := s.store.ClassStore(namespace)
	if err != nil {
		return nil, err
	}
	result = make([]*cim.Class, 0, len(names))
	for _, name := range names {
		cls, err := classes.Get(name)
		if err != nil {
			return nil, err
		}
		schema.FilterClass(cls, opts)
		result = append(result, cls)
	}
	return result, nil
}
