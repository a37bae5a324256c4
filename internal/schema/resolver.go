package schema

import (
	"cimrepo/internal/repository"
	"cimrepo/pkg/cim"
	"cimrepo/pkg/cimerrors"
)

// ResolveClass computes the effective definition of a class: inherited
// properties and methods merged in from the (already resolved) superclass,
// class origin and propagated flags stamped, and qualifier flavors applied.
// Superclasses are resolved at insertion time, so resolving a class only
// ever needs to look one level up.
//
// Resolving an already resolved class is a no-op: members marked propagated
// are kept as they are.
func ResolveClass(cls *cim.Class, classes *repository.ClassStore, qualifiers *repository.QualifierStore) (*cim.Class, error) {
	out := cls.Copy()
	stampLocalMembers(out)

	if out.SuperClass == "" {
		return out, nil
	}
	super, err := classes.Get(out.SuperClass)
	if err != nil {
		return nil, cimerrors.New(cimerrors.CodeInvalidSuperclass,
			"superclass %q of class %q does not exist in namespace",
			out.SuperClass, out.ClassName)
	}

	if err := mergeClassQualifiers(out, super, qualifiers); err != nil {
		return nil, err
	}
	if err := mergeProperties(out, super, qualifiers); err != nil {
		return nil, err
	}
	if err := mergeMethods(out, super, qualifiers); err != nil {
		return nil, err
	}
	return out, nil
}

// stampLocalMembers sets class origin on members that do not have one yet.
// Members already carrying an origin come from a previous resolution and
// keep it.
func stampLocalMembers(cls *cim.Class) {
	for _, p := range cls.Properties.Values() {
		if p.ClassOrigin == "" {
			p.ClassOrigin = cls.ClassName
		}
	}
	for _, m := range cls.Methods.Values() {
		if m.ClassOrigin == "" {
			m.ClassOrigin = cls.ClassName
		}
	}
}

// effectiveToSubclass resolves a qualifier's ToSubclass flavor, consulting
// the declaration when the qualifier value does not state it. The DMTF
// default is true.
func effectiveToSubclass(q *cim.Qualifier, qualifiers *repository.QualifierStore) bool {
	if q.ToSubclass != nil {
		return *q.ToSubclass
	}
	if qualifiers != nil {
		if d, err := qualifiers.Get(q.Name); err == nil && d.ToSubclass != nil {
			return *d.ToSubclass
		}
	}
	return true
}

// effectiveOverridable resolves a qualifier's Overridable flavor the same
// way. The DMTF default is true.
func effectiveOverridable(q *cim.Qualifier, qualifiers *repository.QualifierStore) bool {
	if q.Overridable != nil {
		return *q.Overridable
	}
	if qualifiers != nil {
		if d, err := qualifiers.Get(q.Name); err == nil && d.Overridable != nil {
			return *d.Overridable
		}
	}
	return true
}

// mergeClassQualifiers propagates superclass class-level qualifiers whose
// flavor allows it, and rejects local redefinition of unoverridable ones
// with a different value.
func mergeClassQualifiers(cls, super *cim.Class, qualifiers *repository.QualifierStore) error {
	for _, sq := range super.Qualifiers.Values() {
		local, ok := cls.Qualifiers.Get(sq.Name)
		if ok {
			if !effectiveOverridable(sq, qualifiers) && !cim.ValueEqual(local.Value, sq.Value) {
				return cimerrors.New(cimerrors.CodeInvalidParameter,
					"class %q redefines unoverridable qualifier %q of superclass %q",
					cls.ClassName, sq.Name, super.ClassName)
			}
			continue
		}
		if !effectiveToSubclass(sq, qualifiers) {
			continue
		}
		inherited := sq.Copy()
		inherited.Propagated = true
		cls.Qualifiers.Set(inherited)
	}
	return nil
}

// inheritMemberQualifiers copies superclass member qualifiers onto an
// overriding member where the flavor allows propagation and the member has
// not restated them.
func inheritMemberQualifiers(dst, src *cim.NameMap[*cim.Qualifier], qualifiers *repository.QualifierStore) {
	for _, sq := range src.Values() {
		if dst.Has(sq.Name) {
			continue
		}
		if !effectiveToSubclass(sq, qualifiers) {
			continue
		}
		inherited := sq.Copy()
		inherited.Propagated = true
		dst.Set(inherited)
	}
}

// checkQualifierOverrides rejects a member restating an inherited qualifier
// with a different value when the qualifier is unoverridable. Restating the
// same value is tolerated; MOF routinely restates [Key] on overrides.
func checkQualifierOverrides(owner string, local, inherited *cim.NameMap[*cim.Qualifier], qualifiers *repository.QualifierStore) error {
	for _, lq := range local.Values() {
		sq, ok := inherited.Get(lq.Name)
		if !ok {
			continue
		}
		if !effectiveOverridable(sq, qualifiers) && !cim.ValueEqual(lq.Value, sq.Value) {
			return cimerrors.New(cimerrors.CodeInvalidParameter,
				"%s redefines unoverridable qualifier %q", owner, lq.Name)
		}
	}
	return nil
}

// memberUnoverridable reports whether an inherited member carries any
// qualifier whose flavor forbids overriding, such as Key.
func memberUnoverridable(quals *cim.NameMap[*cim.Qualifier], qualifiers *repository.QualifierStore) bool {
	for _, q := range quals.Values() {
		if !effectiveOverridable(q, qualifiers) {
			return true
		}
	}
	return false
}

func mergeProperties(cls, super *cim.Class, qualifiers *repository.QualifierStore) error {
	var merged cim.NameMap[*cim.Property]
	for _, sp := range super.Properties.Values() {
		local, ok := cls.Properties.Get(sp.Name)
		switch {
		case !ok:
			inherited := sp.Copy()
			inherited.Propagated = true
			markPropagated(&inherited.Qualifiers, qualifiers)
			merged.Set(inherited)
		case local.Propagated:
			merged.Set(local)
		default:
			if !local.Qualifiers.Has(cim.QualifierOverride) &&
				memberUnoverridable(&sp.Qualifiers, qualifiers) {
				return cimerrors.New(cimerrors.CodeInvalidParameter,
					"property %q of class %q overrides unoverridable property of class %q without an Override qualifier",
					local.Name, cls.ClassName, sp.ClassOrigin)
			}
			owner := "property " + local.Name + " of class " + cls.ClassName
			if err := checkQualifierOverrides(owner, &local.Qualifiers, &sp.Qualifiers, qualifiers); err != nil {
				return err
			}
			local.ClassOrigin = sp.ClassOrigin
			local.Propagated = true
			inheritMemberQualifiers(&local.Qualifiers, &sp.Qualifiers, qualifiers)
			merged.Set(local)
		}
	}
	for _, lp := range cls.Properties.Values() {
		if !merged.Has(lp.Name) {
			merged.Set(lp)
		}
	}
	cls.Properties = merged
	return nil
}

func mergeMethods(cls, super *cim.Class, qualifiers *repository.QualifierStore) error {
	var merged cim.NameMap[*cim.Method]
	for _, sm := range super.Methods.Values() {
		local, ok := cls.Methods.Get(sm.Name)
		switch {
		case !ok:
			inherited := sm.Copy()
			inherited.Propagated = true
			markPropagated(&inherited.Qualifiers, qualifiers)
			merged.Set(inherited)
		case local.Propagated:
			merged.Set(local)
		default:
			if !local.Qualifiers.Has(cim.QualifierOverride) &&
				memberUnoverridable(&sm.Qualifiers, qualifiers) {
				return cimerrors.New(cimerrors.CodeInvalidParameter,
					"method %q of class %q overrides unoverridable method of class %q without an Override qualifier",
					local.Name, cls.ClassName, sm.ClassOrigin)
			}
			owner := "method " + local.Name + " of class " + cls.ClassName
			if err := checkQualifierOverrides(owner, &local.Qualifiers, &sm.Qualifiers, qualifiers); err != nil {
				return err
			}
			local.ClassOrigin = sm.ClassOrigin
			local.Propagated = true
			inheritMemberQualifiers(&local.Qualifiers, &sm.Qualifiers, qualifiers)
			merged.Set(local)
		}
	}
	for _, lm := range cls.Methods.Values() {
		if !merged.Has(lm.Name) {
			merged.Set(lm)
		}
	}
	cls.Methods = merged
	return nil
}

// markPropagated strips qualifiers whose flavor stops propagation and marks
// the remainder as propagated, in place, on a freshly inherited member.
func markPropagated(quals *cim.NameMap[*cim.Qualifier], qualifiers *repository.QualifierStore) {
	for _, q := range quals.Values() {
		if !effectiveToSubclass(q, qualifiers) {
			quals.Delete(q.Name)
			continue
		}
		q.Propagated = true
	}
}
