package provider

import (
	"log/slog"
	"sync"

	"cimrepo/internal/repository"
	"cimrepo/internal/schema"
	"cimrepo/pkg/cim"
	"cimrepo/pkg/cimerrors"
)

type registryKey struct {
	namespace string
	className string
	kind      Kind
}

// Registry maps (namespace, class, operation kind) to a provider. A provider
// registered for a class also covers its subclasses; lookup walks the class
// hierarchy from the target class upward and the nearest registration wins.
type Registry struct {
	mu      sync.RWMutex
	repo    *repository.Repository
	logger  *slog.Logger
	entries map[registryKey]any
}

// NewRegistry builds an empty registry bound to a repository, which it
// consults to validate registrations and to walk class hierarchies.
func NewRegistry(repo *repository.Repository, logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{
		repo:    repo,
		logger:  logger,
		entries: make(map[registryKey]any),
	}
}

// Register binds a provider to a class in a namespace for one operation
// kind. The namespace and class must exist, and the provider must implement
// the interface matching the kind. Re-registering replaces the previous
// binding.
func (r *Registry) Register(namespace, className string, kind Kind, prov any) error {
	classes, err := r.repo.ClassStore(namespace)
	if err != nil {
		return err
	}
	if !classes.Exists(className) {
		return cimerrors.New(cimerrors.CodeInvalidClass,
			"provider registration for class %q invalid: class not in namespace %q",
			className, repository.NormalizeNamespace(namespace))
	}
	switch kind {
	case KindInstanceWrite:
		if _, ok := prov.(InstanceWriteProvider); !ok {
			return cimerrors.New(cimerrors.CodeInvalidParameter,
				"provider for class %q does not implement instance write operations", className)
		}
	case KindMethod:
		if _, ok := prov.(MethodProvider); !ok {
			return cimerrors.New(cimerrors.CodeInvalidParameter,
				"provider for class %q does not implement method invocation", className)
		}
	default:
		return cimerrors.New(cimerrors.CodeInvalidParameter,
			"unknown provider kind %q", kind)
	}

	key := registryKey{
		namespace: cim.FoldName(repository.NormalizeNamespace(namespace)),
		className: cim.FoldName(className),
		kind:      kind,
	}
	r.mu.Lock()
	r.entries[key] = prov
	r.mu.Unlock()
	r.logger.Info("provider registered",
		slog.String("namespace", repository.NormalizeNamespace(namespace)),
		slog.String("class", className),
		slog.String("kind", string(kind)))
	return nil
}

// lookup finds the nearest provider for the class or one of its ancestors.
func (r *Registry) lookup(namespace, className string, kind Kind) any {
	classes, err := r.repo.ClassStore(namespace)
	if err != nil {
		return nil
	}
	ns := cim.FoldName(repository.NormalizeNamespace(namespace))
	candidates := append([]string{className}, schema.SuperclassNames(className, classes)...)

	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, name := range candidates {
		if prov, ok := r.entries[registryKey{ns, cim.FoldName(name), kind}]; ok {
			return prov
		}
	}
	return nil
}

// InstanceWriteProvider returns the provider covering instance writes for
// the class, or nil when none is registered for it or any ancestor.
func (r *Registry) InstanceWriteProvider(namespace, className string) InstanceWriteProvider {
	if prov, ok := r.lookup(namespace, className, KindInstanceWrite).(InstanceWriteProvider); ok {
		return prov
	}
	return nil
}

// MethodProvider returns the provider covering method invocation for the
// class, or nil when none is registered for it or any ancestor.
func (r *Registry) MethodProvider(namespace, className string) MethodProvider {
	if prov, ok := r.lookup(namespace, className, KindMethod).(MethodProvider); ok {
		return prov
	}
	return nil
}
