package query

import (
	"testing"

	"github.com/stretchr/testify/require"

	"cimrepo/internal/repository"
	"cimrepo/internal/schema"
	"cimrepo/pkg/cim"
)

// testModel is a small family schema: persons, a subclass of person, and two
// association classes linking them.
type testModel struct {
	classes    *repository.ClassStore
	qualifiers *repository.QualifierStore
	instances  *repository.InstanceStore
}

func newTestModel(t *testing.T) *testModel {
	t.Helper()
	m := &testModel{
		classes:    repository.NewClassStore(),
		qualifiers: repository.NewQualifierStore(),
		instances:  repository.NewInstanceStore(),
	}
	for _, decl := range []*cim.QualifierDeclaration{
		{Name: "Key", Type: cim.TypeBoolean, Value: false,
			Overridable: cim.Bool(false), ToSubclass: cim.Bool(true)},
		{Name: "Association", Type: cim.TypeBoolean, Value: false,
			Overridable: cim.Bool(false), ToSubclass: cim.Bool(true)},
	} {
		require.NoError(t, m.qualifiers.Create(decl.Name, decl))
	}

	person := &cim.Class{ClassName: "TST_Person"}
	name := &cim.Property{Name: "Name", Type: cim.TypeString}
	name.Qualifiers.Set(&cim.Qualifier{Name: "Key", Type: cim.TypeBoolean, Value: true})
	person.Properties.Set(name)
	person.Properties.Set(&cim.Property{Name: "Likes", Type: cim.TypeUint32})

	sub := &cim.Class{ClassName: "TST_PersonSub", SuperClass: "TST_Person"}
	sub.Properties.Set(&cim.Property{Name: "Gender", Type: cim.TypeString})

	family := &cim.Class{ClassName: "TST_FamilyCollection"}
	fname := &cim.Property{Name: "Name", Type: cim.TypeString}
	fname.Qualifiers.Set(&cim.Qualifier{Name: "Key", Type: cim.TypeBoolean, Value: true})
	family.Properties.Set(fname)

	lineage := &cim.Class{ClassName: "TST_Lineage"}
	lineage.Qualifiers.Set(&cim.Qualifier{Name: "Association", Type: cim.TypeBoolean, Value: true})
	lid := &cim.Property{Name: "InstanceID", Type: cim.TypeString}
	lid.Qualifiers.Set(&cim.Qualifier{Name: "Key", Type: cim.TypeBoolean, Value: true})
	lineage.Properties.Set(lid)
	lineage.Properties.Set(&cim.Property{Name: "Parent", Type: cim.TypeReference, ReferenceClass: "TST_Person"})
	lineage.Properties.Set(&cim.Property{Name: "Child", Type: cim.TypeReference, ReferenceClass: "TST_Person"})

	member := &cim.Class{ClassName: "TST_MemberOfFamily"}
	member.Qualifiers.Set(&cim.Qualifier{Name: "Association", Type: cim.TypeBoolean, Value: true})
	mid := &cim.Property{Name: "InstanceID", Type: cim.TypeString}
	mid.Qualifiers.Set(&cim.Qualifier{Name: "Key", Type: cim.TypeBoolean, Value: true})
	member.Properties.Set(mid)
	member.Properties.Set(&cim.Property{Name: "Family", Type: cim.TypeReference, ReferenceClass: "TST_FamilyCollection"})
	member.Properties.Set(&cim.Property{Name: "Member", Type: cim.TypeReference, ReferenceClass: "TST_Person"})

	for _, cls := range []*cim.Class{person, sub, family, lineage, member} {
		resolved, err := schema.ResolveClass(cls, m.classes, m.qualifiers)
		require.NoError(t, err)
		require.NoError(t, m.classes.Create(resolved.ClassName, resolved))
	}
	return m
}

func personPath(name string) *cim.InstanceName {
	return cim.NewInstanceName("TST_Person", cim.KeyBinding{Name: "Name", Value: name})
}

func subPath(name string) *cim.InstanceName {
	return cim.NewInstanceName("TST_PersonSub", cim.KeyBinding{Name: "Name", Value: name})
}

func familyPath(name string) *cim.InstanceName {
	return cim.NewInstanceName("TST_FamilyCollection", cim.KeyBinding{Name: "Name", Value: name})
}

// addInstance stores an instance keyed by its canonical path.
func (m *testModel) addInstance(t *testing.T, inst *cim.Instance) {
	t.Helper()
	require.NotNil(t, inst.Path)
	require.NoError(t, m.instances.Create(inst.Path.CanonicalKey(), inst))
}

func (m *testModel) addPerson(t *testing.T, name string, likes uint32) {
	t.Helper()
	inst := &cim.Instance{ClassName: "TST_Person", Path: personPath(name)}
	inst.Properties.Set(&cim.Property{Name: "Name", Type: cim.TypeString, Value: name})
	inst.Properties.Set(&cim.Property{Name: "Likes", Type: cim.TypeUint32, Value: likes})
	m.addInstance(t, inst)
}

func (m *testModel) addPersonSub(t *testing.T, name, gender string) {
	t.Helper()
	inst := &cim.Instance{ClassName: "TST_PersonSub", Path: subPath(name)}
	inst.Properties.Set(&cim.Property{Name: "Name", Type: cim.TypeString, Value: name})
	inst.Properties.Set(&cim.Property{Name: "Gender", Type: cim.TypeString, Value: gender})
	m.addInstance(t, inst)
}

func (m *testModel) addFamily(t *testing.T, name string) {
	t.Helper()
	inst := &cim.Instance{ClassName: "TST_FamilyCollection", Path: familyPath(name)}
	inst.Properties.Set(&cim.Property{Name: "Name", Type: cim.TypeString, Value: name})
	m.addInstance(t, inst)
}

func (m *testModel) addLineage(t *testing.T, id string, parent, child *cim.InstanceName) {
	t.Helper()
	inst := &cim.Instance{
		ClassName: "TST_Lineage",
		Path:      cim.NewInstanceName("TST_Lineage", cim.KeyBinding{Name: "InstanceID", Value: id}),
	}
	inst.Properties.Set(&cim.Property{Name: "InstanceID", Type: cim.TypeString, Value: id})
	inst.Properties.Set(&cim.Property{Name: "Parent", Type: cim.TypeReference, Value: parent})
	inst.Properties.Set(&cim.Property{Name: "Child", Type: cim.TypeReference, Value: child})
	m.addInstance(t, inst)
}

func (m *testModel) addMembership(t *testing.T, id string, family, person *cim.InstanceName) {
	t.Helper()
	inst := &cim.Instance{
		ClassName: "TST_MemberOfFamily",
		Path:      cim.NewInstanceName("TST_MemberOfFamily", cim.KeyBinding{Name: "InstanceID", Value: id}),
	}
	inst.Properties.Set(&cim.Property{Name: "InstanceID", Type: cim.TypeString, Value: id})
	inst.Properties.Set(&cim.Property{Name: "Family", Type: cim.TypeReference, Value: family})
	inst.Properties.Set(&cim.Property{Name: "Member", Type: cim.TypeReference, Value: person})
	m.addInstance(t, inst)
}

// canonicalKeys projects paths to canonical keys for order-free comparison.
func canonicalKeys(paths []*cim.InstanceName) []string {
	keys := make([]string, 0, len(paths))
	for _, p := range paths {
		keys = append(keys, p.CanonicalKey())
	}
	return keys
}
