package provider

import (
	"context"
	"log/slog"

	"cimrepo/internal/repository"
	"cimrepo/pkg/cim"
	"cimrepo/pkg/cimerrors"
)

// StoreInstanceProvider is the default instance-write implementation, backed
// directly by the namespace instance stores. Dispatch falls through to it
// whenever no user provider is registered for the target class.
type StoreInstanceProvider struct {
	repo   *repository.Repository
	logger *slog.Logger
}

// NewStoreInstanceProvider builds the default provider over a repository.
func NewStoreInstanceProvider(repo *repository.Repository, logger *slog.Logger) *StoreInstanceProvider {
	if logger == nil {
		logger = slog.Default()
	}
	return &StoreInstanceProvider{repo: repo, logger: logger}
}

var _ InstanceWriteProvider = (*StoreInstanceProvider)(nil)

// CreateInstance validates the new instance against its class definition,
// completes its model path from the Key-qualified properties, and stores it.
// Any path supplied on the input is ignored; the path is always derived from
// property values, falling back to class default values for keys the caller
// omitted.
func (p *StoreInstanceProvider) CreateInstance(ctx context.Context, namespace string, newInstance *cim.Instance) (*cim.InstanceName, error) {
	classes, err := p.repo.ClassStore(namespace)
	if err != nil {
		return nil, err
	}
	instances, err := p.repo.InstanceStore(namespace)
	if err != nil {
		return nil, err
	}
	cls, err := classes.Get(newInstance.ClassName)
	if err != nil {
		return nil, cimerrors.New(cimerrors.CodeInvalidClass,
			"cannot create instance: class %q does not exist in namespace %q",
			newInstance.ClassName, repository.NormalizeNamespace(namespace))
	}
	keyNames := cls.KeyPropertyNames()
	if len(keyNames) == 0 {
		return nil, cimerrors.New(cimerrors.CodeInvalidClass,
			"cannot create instance of class %q: class defines no key properties", cls.ClassName)
	}

	inst := newInstance.Copy()
	inst.ClassName = cls.ClassName
	for _, ip := range inst.Properties.Values() {
		cp, ok := cls.Properties.Get(ip.Name)
		if !ok {
			return nil, cimerrors.New(cimerrors.CodeInvalidParameter,
				"property %q not declared by class %q", ip.Name, cls.ClassName)
		}
		if !cim.ValueMatchesDeclared(ip.Value, cp.Type, cp.IsArray) {
			return nil, cimerrors.New(cimerrors.CodeInvalidParameter,
				"property %q value does not match declared type %s", cp.Name, cp.Type)
		}
		// Stamp the declared shape so stored instances are self-describing.
		ip.Name = cp.Name
		ip.Type = cp.Type
		ip.ReferenceClass = cp.ReferenceClass
		ip.IsArray = cp.IsArray
	}

	path := cim.NewInstanceName(cls.ClassName)
	path.Namespace = repository.NormalizeNamespace(namespace)
	for _, keyName := range keyNames {
		value, ok := inst.PropertyValue(keyName)
		if !ok {
			cp, _ := cls.Properties.Get(keyName)
			if cp == nil || cp.Value == nil {
				return nil, cimerrors.New(cimerrors.CodeInvalidParameter,
					"key property %q has no value and class %q declares no default",
					keyName, cls.ClassName)
			}
			value = cim.CopyValue(cp.Value)
			set := cp.Copy()
			set.Value = cim.CopyValue(cp.Value)
			set.Propagated = false
			inst.Properties.Set(set)
		}
		if value == nil {
			return nil, cimerrors.New(cimerrors.CodeInvalidParameter,
				"key property %q must not be null", keyName)
		}
		path.SetKey(keyName, cim.CopyValue(value))
	}
	inst.Path = path

	if instances.Exists(path.CanonicalKey()) {
		return nil, cimerrors.New(cimerrors.CodeAlreadyExists,
			"instance %s already exists", path)
	}
	if err := instances.Create(path.CanonicalKey(), inst); err != nil {
		return nil, err
	}
	p.logger.DebugContext(ctx, "instance created",
		slog.String("namespace", path.Namespace),
		slog.String("path", path.String()))
	return path.Copy(), nil
}

// ModifyInstance replaces property values of an existing instance. The
// instance is located by the path on modifiedInstance; key properties cannot
// change. A non-nil propertyList restricts which properties are applied, with
// an empty list applying nothing.
func (p *StoreInstanceProvider) ModifyInstance(ctx context.Context, namespace string, modifiedInstance *cim.Instance, propertyList []string) error {
	instances, err := p.repo.InstanceStore(namespace)
	if err != nil {
		return err
	}
	classes, err := p.repo.ClassStore(namespace)
	if err != nil {
		return err
	}
	if modifiedInstance.Path == nil {
		return cimerrors.New(cimerrors.CodeInvalidParameter,
			"modified instance carries no path")
	}
	key := modifiedInstance.Path.CanonicalKey()
	existing, err := instances.Get(key)
	if err != nil {
		return cimerrors.New(cimerrors.CodeNotFound,
			"instance %s not found", modifiedInstance.Path)
	}
	cls, err := classes.Get(existing.ClassName)
	if err != nil {
		return cimerrors.New(cimerrors.CodeInvalidClass,
			"class %q of instance %s does not exist", existing.ClassName, modifiedInstance.Path)
	}

	var keep map[string]bool
	if propertyList != nil {
		keep = make(map[string]bool, len(propertyList))
		for _, n := range propertyList {
			keep[cim.FoldName(n)] = true
		}
	}
	keys := make(map[string]bool, len(cls.KeyPropertyNames()))
	for _, n := range cls.KeyPropertyNames() {
		keys[cim.FoldName(n)] = true
	}

	for _, mp := range modifiedInstance.Properties.Values() {
		if keep != nil && !keep[cim.FoldName(mp.Name)] {
			continue
		}
		cp, ok := cls.Properties.Get(mp.Name)
		if !ok {
			return cimerrors.New(cimerrors.CodeInvalidParameter,
				"property %q not declared by class %q", mp.Name, cls.ClassName)
		}
		if keys[cim.FoldName(mp.Name)] {
			current, _ := existing.PropertyValue(mp.Name)
			if !cim.KeyValueEqual(current, mp.Value) {
				return cimerrors.New(cimerrors.CodeInvalidParameter,
					"key property %q of instance %s cannot be modified", cp.Name, modifiedInstance.Path)
			}
			continue
		}
		if !cim.ValueMatchesDeclared(mp.Value, cp.Type, cp.IsArray) {
			return cimerrors.New(cimerrors.CodeInvalidParameter,
				"property %q value does not match declared type %s", cp.Name, cp.Type)
		}
		set := mp.Copy()
		set.Name = cp.Name
		set.Type = cp.Type
		set.ReferenceClass = cp.ReferenceClass
		set.IsArray = cp.IsArray
		existing.Properties.Set(set)
	}

	if err := instances.Update(key, existing); err != nil {
		return err
	}
	p.logger.DebugContext(ctx, "instance modified",
		slog.String("namespace", repository.NormalizeNamespace(namespace)),
		slog.String("path", modifiedInstance.Path.String()))
	return nil
}

// DeleteInstance removes the instance identified by the model path.
func (p *StoreInstanceProvider) DeleteInstance(ctx context.Context, namespace string, path *cim.InstanceName) error {
	instances, err := p.repo.InstanceStore(namespace)
	if err != nil {
		return err
	}
	if err := instances.Delete(path.CanonicalKey()); err != nil {
		return cimerrors.New(cimerrors.CodeNotFound,
			"instance %s not found", path)
	}
	p.logger.DebugContext(ctx, "instance deleted",
		slog.String("namespace", repository.NormalizeNamespace(namespace)),
		slog.String("path", path.String()))
	return nil
}
