package query

import (
	"strings"

	"cimrepo/internal/repository"
	"cimrepo/internal/schema"
	"cimrepo/pkg/cim"
	"cimrepo/pkg/cimerrors"
)

// associationClassSet returns the folded names of association classes to
// scan. With filterClass given, the set is restricted to that class and its
// subclasses; naming a class absent from the namespace is InvalidParameter,
// distinct from a valid class that simply matches nothing.
func associationClassSet(filterClass string, classes *repository.ClassStore) (map[string]bool, error) {
	var restrict map[string]bool
	if filterClass != "" {
		if !classes.Exists(filterClass) {
			return nil, cimerrors.New(cimerrors.CodeInvalidParameter,
				"class %q does not exist in namespace", filterClass)
		}
		restrict = schema.SubclassNameSet(filterClass, classes)
	}
	set := map[string]bool{}
	classes.Range(func(name string, cls *cim.Class) bool {
		if !cls.IsAssociation() {
			return true
		}
		key := cim.FoldName(name)
		if restrict == nil || restrict[key] {
			set[key] = true
		}
		return true
	})
	return set, nil
}

// roleMatches reports whether a reference property name satisfies a role
// constraint. An empty role matches everything.
func roleMatches(role, propertyName string) bool {
	return role == "" || strings.EqualFold(role, propertyName)
}

// References returns the association instances whose reference properties
// point at the source path. role constrains the name of the matching
// reference property; resultClass constrains the association class.
func References(source *cim.InstanceName, resultClass, role string, classes *repository.ClassStore, instances *repository.InstanceStore) ([]*cim.Instance, error) {
	assocs, err := associationClassSet(resultClass, classes)
	if err != nil {
		return nil, err
	}
	results := []*cim.Instance{}
	instances.Range(func(_ string, inst *cim.Instance) bool {
		if !assocs[cim.FoldName(inst.ClassName)] {
			return true
		}
		for _, p := range inst.Properties.Values() {
			if p.Type != cim.TypeReference || !roleMatches(role, p.Name) {
				continue
			}
			ref, ok := p.Value.(*cim.InstanceName)
			if ok && ref.ModelEqual(source) {
				results = append(results, inst.Copy())
				break
			}
		}
		return true
	})
	return results, nil
}

// ReferenceNames returns the paths of the association instances that
// References would return.
func ReferenceNames(source *cim.InstanceName, resultClass, role string, classes *repository.ClassStore, instances *repository.InstanceStore) ([]*cim.InstanceName, error) {
	refs, err := References(source, resultClass, role, classes, instances)
	if err != nil {
		return nil, err
	}
	paths := make([]*cim.InstanceName, 0, len(refs))
	for _, ref := range refs {
		paths = append(paths, ref.Path.Copy())
	}
	return paths, nil
}

// AssociatorNames returns the paths of instances associated with the source
// through association instances. assocClass and role constrain the
// connecting association; resultClass and resultRole constrain the far end.
func AssociatorNames(source *cim.InstanceName, assocClass, role, resultClass, resultRole string, classes *repository.ClassStore, instances *repository.InstanceStore) ([]*cim.InstanceName, error) {
	refs, err := References(source, assocClass, role, classes, instances)
	if err != nil {
		return nil, err
	}
	var resultSet map[string]bool
	if resultClass != "" {
		if !classes.Exists(resultClass) {
			return nil, cimerrors.New(cimerrors.CodeInvalidParameter,
				"class %q does not exist in namespace", resultClass)
		}
		resultSet = schema.SubclassNameSet(resultClass, classes)
	}

	seen := map[string]bool{}
	paths := []*cim.InstanceName{}
	for _, assoc := range refs {
		for _, p := range assoc.Properties.Values() {
			if p.Type != cim.TypeReference {
				continue
			}
			target, ok := p.Value.(*cim.InstanceName)
			if !ok || target.ModelEqual(source) {
				continue
			}
			if !roleMatches(resultRole, p.Name) {
				continue
			}
			if resultSet != nil && !resultSet[cim.FoldName(target.ClassName)] {
				continue
			}
			key := target.CanonicalKey()
			if seen[key] {
				continue
			}
			seen[key] = true
			paths = append(paths, target.Copy())
		}
	}
	return paths, nil
}

// Associators dereferences AssociatorNames results to instances. Targets
// whose instances are gone are skipped rather than failing the traversal.
func Associators(source *cim.InstanceName, assocClass, role, resultClass, resultRole string, classes *repository.ClassStore, qualifiers *repository.QualifierStore, instances *repository.InstanceStore, opts InstanceFilter) ([]*cim.Instance, error) {
	paths, err := AssociatorNames(source, assocClass, role, resultClass, resultRole, classes, instances)
	if err != nil {
		return nil, err
	}
	results := []*cim.Instance{}
	for _, path := range paths {
		inst, err := GetInstance(path, classes, qualifiers, instances, opts)
		if err != nil {
			if cimerrors.Is(err, cimerrors.CodeNotFound) {
				continue
			}
			return nil, err
		}
		results = append(results, inst)
	}
	return results, nil
}

// sourceTypeSet returns the folded names of a class and its ancestors. A
// reference property declared against any of these types can hold instances
// of the class.
func sourceTypeSet(className string, classes *repository.ClassStore) map[string]bool {
	set := map[string]bool{cim.FoldName(className): true}
	for _, name := range schema.SuperclassNames(className, classes) {
		set[cim.FoldName(name)] = true
	}
	return set
}

// ReferenceClassNames is the schema-level analogue of References: the names
// of association classes with a reference property declared against the
// source class or one of its ancestors.
func ReferenceClassNames(className, resultClass, role string, classes *repository.ClassStore) ([]string, error) {
	if !classes.Exists(className) {
		return nil, cimerrors.New(cimerrors.CodeInvalidParameter,
			"class %q does not exist in namespace", className)
	}
	assocs, err := associationClassSet(resultClass, classes)
	if err != nil {
		return nil, err
	}
	sources := sourceTypeSet(className, classes)
	names := []string{}
	classes.Range(func(name string, cls *cim.Class) bool {
		if !assocs[cim.FoldName(name)] {
			return true
		}
		for _, rp := range cls.ReferenceProperties() {
			if roleMatches(role, rp.Name) && sources[cim.FoldName(rp.ReferenceClass)] {
				names = append(names, name)
				break
			}
		}
		return true
	})
	return names, nil
}

// AssociatorClassNames is the schema-level analogue of Associators: the
// declared classes at the far end of matching association classes.
func AssociatorClassNames(className, assocClass, role, resultClass, resultRole string, classes *repository.ClassStore) ([]string, error) {
	if !classes.Exists(className) {
		return nil, cimerrors.New(cimerrors.CodeInvalidParameter,
			"class %q does not exist in namespace", className)
	}
	assocs, err := associationClassSet(assocClass, classes)
	if err != nil {
		return nil, err
	}
	var resultSet map[string]bool
	if resultClass != "" {
		if !classes.Exists(resultClass) {
			return nil, cimerrors.New(cimerrors.CodeInvalidParameter,
				"class %q does not exist in namespace", resultClass)
		}
		resultSet = schema.SubclassNameSet(resultClass, classes)
	}
	sources := sourceTypeSet(className, classes)

	seen := map[string]bool{}
	names := []string{}
	classes.Range(func(name string, cls *cim.Class) bool {
		if !assocs[cim.FoldName(name)] {
			return true
		}
		refs := cls.ReferenceProperties()
		matched := false
		for _, rp := range refs {
			if roleMatches(role, rp.Name) && sources[cim.FoldName(rp.ReferenceClass)] {
				matched = true
				break
			}
		}
		if !matched {
			return true
		}
		for _, rp := range refs {
			if sources[cim.FoldName(rp.ReferenceClass)] && roleMatches(role, rp.Name) {
				continue
			}
			if !roleMatches(resultRole, rp.Name) {
				continue
			}
			if resultSet != nil && !resultSet[cim.FoldName(rp.ReferenceClass)] {
				continue
			}
			key := cim.FoldName(rp.ReferenceClass)
			if seen[key] {
				continue
			}
			seen[key] = true
			names = append(names, rp.ReferenceClass)
		}
		return true
	})
	return names, nil
}
