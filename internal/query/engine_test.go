package query

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"cimrepo/pkg/cim"
	"cimrepo/pkg/cimerrors"
)

type EngineSuite struct {
	suite.Suite
	model *testModel
}

func (s *EngineSuite) SetupTest() {
	s.model = newTestModel(s.T())
	s.model.addPerson(s.T(), "Mike", 7)
	s.model.addPerson(s.T(), "Gabi", 2)
	s.model.addPersonSub(s.T(), "Sofi", "female")
}

func TestEngineSuite(t *testing.T) {
	suite.Run(t, new(EngineSuite))
}

func (s *EngineSuite) TestFindInstance() {
	s.Run("returns a copy on hit", func() {
		inst := FindInstance(personPath("MIKE"), s.model.instances)
		s.Require().NotNil(inst)
		inst.Properties.Set(&cim.Property{Name: "Injected"})

		again := FindInstance(personPath("Mike"), s.model.instances)
		s.False(again.Properties.Has("Injected"))
	})

	s.Run("returns nil on miss", func() {
		s.Nil(FindInstance(personPath("Nobody"), s.model.instances))
	})
}

func (s *EngineSuite) TestGetInstance() {
	s.Run("miss is NotFound", func() {
		_, err := GetInstance(personPath("Nobody"), s.model.classes, s.model.qualifiers,
			s.model.instances, InstanceFilter{})
		s.Require().True(cimerrors.Is(err, cimerrors.CodeNotFound))
	})

	s.Run("property list narrows the result", func() {
		inst, err := GetInstance(personPath("Mike"), s.model.classes, s.model.qualifiers,
			s.model.instances, InstanceFilter{PropertyList: []string{"likes"}})
		s.Require().NoError(err)
		s.Equal([]string{"Likes"}, inst.Properties.Names())
	})

	s.Run("empty property list strips everything", func() {
		inst, err := GetInstance(personPath("Mike"), s.model.classes, s.model.qualifiers,
			s.model.instances, InstanceFilter{PropertyList: []string{}})
		s.Require().NoError(err)
		s.Equal(0, inst.Properties.Len())
	})

	s.Run("local only drops inherited properties of subclass instances", func() {
		inst, err := GetInstance(subPath("Sofi"), s.model.classes, s.model.qualifiers,
			s.model.instances, InstanceFilter{LocalOnly: true})
		s.Require().NoError(err)
		s.Equal([]string{"Gender"}, inst.Properties.Names())
	})

	s.Run("class origin is stamped only when requested", func() {
		inst, err := GetInstance(subPath("Sofi"), s.model.classes, s.model.qualifiers,
			s.model.instances, InstanceFilter{IncludeClassOrigin: true})
		s.Require().NoError(err)
		name, _ := inst.Properties.Get("Name")
		s.Equal("TST_Person", name.ClassOrigin)
		gender, _ := inst.Properties.Get("Gender")
		s.Equal("TST_PersonSub", gender.ClassOrigin)

		bare, err := GetInstance(subPath("Sofi"), s.model.classes, s.model.qualifiers,
			s.model.instances, InstanceFilter{})
		s.Require().NoError(err)
		name, _ = bare.Properties.Get("Name")
		s.Empty(name.ClassOrigin)
	})
}

func (s *EngineSuite) TestEnumerateInstanceNames() {
	s.Run("enumeration is always deep", func() {
		paths, err := EnumerateInstanceNames("TST_Person", s.model.classes, s.model.instances)
		s.Require().NoError(err)
		s.ElementsMatch(canonicalKeys([]*cim.InstanceName{
			personPath("Mike"), personPath("Gabi"), subPath("Sofi"),
		}), canonicalKeys(paths))
	})

	s.Run("subclass enumeration sees only its own tree", func() {
		paths, err := EnumerateInstanceNames("TST_PersonSub", s.model.classes, s.model.instances)
		s.Require().NoError(err)
		s.ElementsMatch(canonicalKeys([]*cim.InstanceName{subPath("Sofi")}), canonicalKeys(paths))
	})

	s.Run("missing class is InvalidClass", func() {
		_, err := EnumerateInstanceNames("TST_Ghost", s.model.classes, s.model.instances)
		s.Require().True(cimerrors.Is(err, cimerrors.CodeInvalidClass))
	})
}

func (s *EngineSuite) TestEnumerateInstances() {
	s.Run("deep keeps each instance's own shape", func() {
		result, err := EnumerateInstances("TST_Person", true, s.model.classes,
			s.model.qualifiers, s.model.instances, InstanceFilter{})
		s.Require().NoError(err)
		s.Len(result, 3)
		for _, inst := range result {
			if inst.ClassName == "TST_PersonSub" {
				s.True(inst.Properties.Has("Gender"))
			}
		}
	})

	s.Run("shallow projects subclass instances onto the requested class", func() {
		result, err := EnumerateInstances("TST_Person", false, s.model.classes,
			s.model.qualifiers, s.model.instances, InstanceFilter{})
		s.Require().NoError(err)
		s.Len(result, 3)
		for _, inst := range result {
			s.False(inst.Properties.Has("Gender"),
				"instance %s kept a property outside the requested class", inst.Path)
		}
	})

	s.Run("deep flag never changes the instance set", func() {
		deep, err := EnumerateInstances("TST_Person", true, s.model.classes,
			s.model.qualifiers, s.model.instances, InstanceFilter{})
		s.Require().NoError(err)
		shallow, err := EnumerateInstances("TST_Person", false, s.model.classes,
			s.model.qualifiers, s.model.instances, InstanceFilter{})
		s.Require().NoError(err)
		s.Len(shallow, len(deep))
	})

	s.Run("missing class is InvalidClass", func() {
		_, err := EnumerateInstances("TST_Ghost", true, s.model.classes,
			s.model.qualifiers, s.model.instances, InstanceFilter{})
		s.Require().True(cimerrors.Is(err, cimerrors.CodeInvalidClass))
	})
}
