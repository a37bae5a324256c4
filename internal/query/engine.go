// Package query implements the instance query engine: key-based lookup,
// subclass-aware enumeration, and association graph traversal over the
// namespace stores. Namespace validation is the caller's job; every function
// here operates on stores already resolved from a namespace.
package query

import (
	"cimrepo/internal/repository"
	"cimrepo/internal/schema"
	"cimrepo/pkg/cim"
	"cimrepo/pkg/cimerrors"
)

// InstanceFilter carries the read-time projection options of GetInstance and
// EnumerateInstances, with the same PropertyList nil-vs-empty semantics as
// class reads.
type InstanceFilter struct {
	LocalOnly          bool
	IncludeQualifiers  bool
	IncludeClassOrigin bool
	PropertyList       []string
}

// FindInstance returns a copy of the instance identified by the model path,
// or nil when no such instance exists. Providers use this to probe for
// existence without raising.
func FindInstance(path *cim.InstanceName, instances *repository.InstanceStore) *cim.Instance {
	inst, err := instances.Get(path.CanonicalKey())
	if err != nil {
		return nil
	}
	return inst
}

// GetInstance returns the instance identified by the model path, filtered by
// the projection options resolved against the instance's class definition.
// A miss is NotFound; an instance whose class is gone is InvalidClass.
func GetInstance(path *cim.InstanceName, classes *repository.ClassStore, qualifiers *repository.QualifierStore, instances *repository.InstanceStore, opts InstanceFilter) (*cim.Instance, error) {
	inst := FindInstance(path, instances)
	if inst == nil {
		return nil, cimerrors.New(cimerrors.CodeNotFound,
			"instance %s not found", path)
	}
	cls, err := classes.Get(inst.ClassName)
	if err != nil {
		return nil, cimerrors.New(cimerrors.CodeInvalidClass,
			"class %q of instance %s does not exist", inst.ClassName, path)
	}
	filterInstance(inst, cls, opts)
	return inst, nil
}

// EnumerateInstanceNames returns the paths of all instances of the class and
// its subclasses. Name enumeration is always deep.
func EnumerateInstanceNames(className string, classes *repository.ClassStore, instances *repository.InstanceStore) ([]*cim.InstanceName, error) {
	if !classes.Exists(className) {
		return nil, cimerrors.New(cimerrors.CodeInvalidClass,
			"class %q does not exist in namespace", className)
	}
	targets := schema.SubclassNameSet(className, classes)
	paths := []*cim.InstanceName{}
	instances.Range(func(_ string, inst *cim.Instance) bool {
		if targets[cim.FoldName(inst.ClassName)] && inst.Path != nil {
			paths = append(paths, inst.Path.Copy())
		}
		return true
	})
	return paths, nil
}

// EnumerateInstances returns the instances of the class and its subclasses.
// The instance set is the same regardless of deep; deep controls the
// property shape. When deep is false, subclass instances are projected onto
// the requested class's properties (requested-class projection, the policy
// this repository fixes for the DMTF ambiguity). When deep is true, each
// instance keeps its own class's properties, optionally narrowed by the
// property list.
func EnumerateInstances(className string, deep bool, classes *repository.ClassStore, qualifiers *repository.QualifierStore, instances *repository.InstanceStore, opts InstanceFilter) ([]*cim.Instance, error) {
	requested, err := classes.Get(className)
	if err != nil {
		return nil, cimerrors.New(cimerrors.CodeInvalidClass,
			"class %q does not exist in namespace", className)
	}
	targets := schema.SubclassNameSet(className, classes)
	results := []*cim.Instance{}
	var rangeErr error
	instances.Range(func(_ string, stored *cim.Instance) bool {
		if !targets[cim.FoldName(stored.ClassName)] {
			return true
		}
		inst := stored.Copy()
		cls, err := classes.Get(inst.ClassName)
		if err != nil {
			rangeErr = cimerrors.New(cimerrors.CodeInvalidClass,
				"class %q of instance %s does not exist", inst.ClassName, inst.Path)
			return false
		}
		if !deep {
			projectToClass(inst, requested)
		}
		filterInstance(inst, cls, opts)
		results = append(results, inst)
		return true
	})
	if rangeErr != nil {
		return nil, rangeErr
	}
	return results, nil
}

// projectToClass drops instance properties the requested class does not
// define.
func projectToClass(inst *cim.Instance, requested *cim.Class) {
	for _, name := range inst.Properties.Names() {
		if !requested.Properties.Has(name) {
			inst.Properties.Delete(name)
		}
	}
}

// filterInstance applies the projection options to an instance copy,
// consulting the resolved class for class origin and propagation facts.
func filterInstance(inst *cim.Instance, cls *cim.Class, opts InstanceFilter) {
	if opts.PropertyList != nil {
		keep := make(map[string]bool, len(opts.PropertyList))
		for _, n := range opts.PropertyList {
			keep[cim.FoldName(n)] = true
		}
		for _, name := range inst.Properties.Names() {
			if !keep[cim.FoldName(name)] {
				inst.Properties.Delete(name)
			}
		}
	}
	if opts.LocalOnly {
		for _, p := range inst.Properties.Values() {
			if cp, ok := cls.Properties.Get(p.Name); ok && cp.Propagated {
				inst.Properties.Delete(p.Name)
			}
		}
	}
	for _, p := range inst.Properties.Values() {
		if opts.IncludeClassOrigin {
			if cp, ok := cls.Properties.Get(p.Name); ok {
				p.ClassOrigin = cp.ClassOrigin
			}
		} else {
			p.ClassOrigin = ""
		}
	}
	if !opts.IncludeQualifiers {
		inst.Qualifiers = cim.NameMap[*cim.Qualifier]{}
		for _, p := range inst.Properties.Values() {
			p.Qualifiers = cim.NameMap[*cim.Qualifier]{}
		}
	}
}
