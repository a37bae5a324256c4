// Package schema implements class hierarchy traversal and the inheritance
// resolver that computes effective class definitions. Classes refer to their
// superclass by name; the class store is the arena these names index into.
package schema

import (
	"cimrepo/internal/repository"
	"cimrepo/pkg/cim"
)

// SuperclassNames returns the ancestors of a class ordered nearest to
// furthest. A class with no superclass yields an empty list. The origin
// class name is not validated here; that is a caller responsibility.
func SuperclassNames(className string, classes *repository.ClassStore) []string {
	names := []string{}
	current := className
	for {
		var super string
		classes.Range(func(name string, cls *cim.Class) bool {
			if cim.FoldName(name) == cim.FoldName(current) {
				super = cls.SuperClass
				return false
			}
			return true
		})
		if super == "" {
			return names
		}
		names = append(names, super)
		current = super
	}
}

// SubclassNames returns subclass names of a class. With className empty it
// returns top-level class names, or every class name when deep. Otherwise it
// returns immediate children, or the transitive closure when deep. Order is
// not significant.
func SubclassNames(className string, classes *repository.ClassStore, deep bool) []string {
	if className == "" {
		names := []string{}
		classes.Range(func(name string, cls *cim.Class) bool {
			if deep || cls.SuperClass == "" {
				names = append(names, name)
			}
			return true
		})
		return names
	}

	children := childIndex(classes)
	direct := children[cim.FoldName(className)]
	if !deep {
		return append([]string{}, direct...)
	}
	names := []string{}
	queue := append([]string{}, direct...)
	for len(queue) > 0 {
		next := queue[0]
		queue = queue[1:]
		names = append(names, next)
		queue = append(queue, children[cim.FoldName(next)]...)
	}
	return names
}

// SubclassNameSet returns the folded names of a class and all its deep
// subclasses, the target set for deep-inheritance instance enumeration.
func SubclassNameSet(className string, classes *repository.ClassStore) map[string]bool {
	set := map[string]bool{cim.FoldName(className): true}
	for _, name := range SubclassNames(className, classes, true) {
		set[cim.FoldName(name)] = true
	}
	return set
}

// childIndex builds the superclass -> subclasses backward adjacency by
// scanning the store.
func childIndex(classes *repository.ClassStore) map[string][]string {
	children := make(map[string][]string)
	classes.Range(func(name string, cls *cim.Class) bool {
		if cls.SuperClass != "" {
			key := cim.FoldName(cls.SuperClass)
			children[key] = append(children[key], name)
		}
		return true
	})
	return children
}
