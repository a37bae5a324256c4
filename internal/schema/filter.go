package schema

import (
	"cimrepo/pkg/cim"
)

// ClassFilter carries the read-time projection options of GetClass and
// EnumerateClasses. PropertyList distinguishes nil (no filtering) from an
// empty list (no properties); entries compare case-insensitively and
// duplicates are harmless.
type ClassFilter struct {
	LocalOnly          bool
	IncludeQualifiers  bool
	IncludeClassOrigin bool
	PropertyList       []string
}

// FilterClass applies the projection to a class in place. The caller passes
// a copy obtained from the store; stored state is never filtered.
func FilterClass(cls *cim.Class, opts ClassFilter) {
	if opts.PropertyList != nil {
		keep := foldSet(opts.PropertyList)
		for _, name := range cls.Properties.Names() {
			if !keep[cim.FoldName(name)] {
				cls.Properties.Delete(name)
			}
		}
	}
	if opts.LocalOnly {
		for _, p := range cls.Properties.Values() {
			if p.Propagated {
				cls.Properties.Delete(p.Name)
			}
		}
		for _, m := range cls.Methods.Values() {
			if m.Propagated {
				cls.Methods.Delete(m.Name)
			}
		}
	}
	if !opts.IncludeQualifiers {
		cls.Qualifiers = cim.NameMap[*cim.Qualifier]{}
		for _, p := range cls.Properties.Values() {
			p.Qualifiers = cim.NameMap[*cim.Qualifier]{}
		}
		for _, m := range cls.Methods.Values() {
			m.Qualifiers = cim.NameMap[*cim.Qualifier]{}
			for _, param := range m.Parameters.Values() {
				param.Qualifiers = cim.NameMap[*cim.Qualifier]{}
			}
		}
	}
	if !opts.IncludeClassOrigin {
		for _, p := range cls.Properties.Values() {
			p.ClassOrigin = ""
		}
		for _, m := range cls.Methods.Values() {
			m.ClassOrigin = ""
		}
	}
}

func foldSet(names []string) map[string]bool {
	set := make(map[string]bool, len(names))
	for _, n := range names {
		set[cim.FoldName(n)] = true
	}
	return set
}
