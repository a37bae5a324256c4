package dispatch

import (
	"context"

	"go.opentelemetry.io/otel/attribute"

	"cimrepo/internal/provider"
	"cimrepo/pkg/cim"
	"cimrepo/pkg/cimerrors"
)

// InvokeMethod invokes an extrinsic method on an instance or class through
// the registered method provider. objectName with no key bindings addresses
// the class itself for static methods. The method must be declared on the
// target class, and a provider must be registered; the repository has no
// default method behavior.
func (s *Service) InvokeMethod(ctx context.Context, namespace, methodName string, objectName *cim.InstanceName, params map[string]any) (returnValue any, outParams map[string]any, err error) {
	ctx, done := s.begin(ctx, "InvokeMethod",
		attribute.String("namespace", namespace),
		attribute.String("class", objectName.ClassName),
		attribute.String("method", methodName))
	defer func() { done(err) }()

	classes, err := s.store.ClassStore(namespace)
	if err != nil {
		return nil, nil, err
	}
	cls, err := classes.Get(objectName.ClassName)
	if err != nil {
		return nil, nil, cimerrors.New(cimerrors.CodeInvalidClass,
			"class %q does not exist in namespace %q", objectName.ClassName, namespace)
	}
	if !cls.Methods.Has(methodName) {
		return nil, nil, cimerrors.New(cimerrors.CodeMethodNotAvailable,
			"method %q not declared by class %q", methodName, cls.ClassName)
	}

	var prov provider.MethodProvider
	if s.registry != nil {
		prov = s.registry.MethodProvider(namespace, objectName.ClassName)
	}
	if prov == nil {
		return nil, nil, cimerrors.New(cimerrors.CodeMethodNotAvailable,
			"no method provider registered for class %q in namespace %q",
			objectName.ClassName, namespace)
	}
	return prov.InvokeMethod(ctx, namespace, methodName, objectName, params)
}
