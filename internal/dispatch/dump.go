package dispatch

import (
	"context"

	"cimrepo/pkg/cim"
)

// NamespaceDump is a diagnostic snapshot of one namespace: the names of
// everything it holds, without object bodies.
type NamespaceDump struct {
	Namespace  string   `json:"namespace"`
	Qualifiers []string `json:"qualifiers"`
	Classes    []string `json:"classes"`
	Instances  []string `json:"instances"`
}

// Dump snapshots the whole repository for inspection and debugging. Instance
// entries are rendered model paths.
func (s *Service) Dump(ctx context.Context) []NamespaceDump {
	_, done := s.begin(ctx, "Dump")
	defer done(nil)

	dumps := []NamespaceDump{}
	for _, namespace := range s.store.Namespaces() {
		d := NamespaceDump{Namespace: namespace}
		if qualifiers, err := s.store.QualifierStore(namespace); err == nil {
			d.Qualifiers = qualifiers.Names()
		}
		if classes, err := s.store.ClassStore(namespace); err == nil {
			d.Classes = classes.Names()
		}
		if instances, err := s.store.InstanceStore(namespace); err == nil {
			instances.Range(func(_ string, inst *cim.Instance) bool {
				d.Instances = append(d.Instances, inst.Path.String())
				return true
			})
		}
		dumps = append(dumps, d)
	}
	return dumps
}
