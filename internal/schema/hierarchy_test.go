package schema

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"cimrepo/internal/repository"
	"cimrepo/pkg/cim"
)

type HierarchySuite struct {
	suite.Suite
	classes *repository.ClassStore
}

// SetupTest builds the tree:
//
//	CIM_Root
//	  CIM_Mid
//	    CIM_Leaf1
//	    CIM_Leaf2
//	CIM_Other
func (s *HierarchySuite) SetupTest() {
	s.classes = repository.NewClassStore()
	for _, cls := range []*cim.Class{
		{ClassName: "CIM_Root"},
		{ClassName: "CIM_Mid", SuperClass: "CIM_Root"},
		{ClassName: "CIM_Leaf1", SuperClass: "CIM_Mid"},
		{ClassName: "CIM_Leaf2", SuperClass: "cim_mid"},
		{ClassName: "CIM_Other"},
	} {
		s.Require().NoError(s.classes.Create(cls.ClassName, cls))
	}
}

func TestHierarchySuite(t *testing.T) {
	suite.Run(t, new(HierarchySuite))
}

func (s *HierarchySuite) TestSuperclassNames() {
	s.Run("ancestors are ordered nearest to furthest", func() {
		s.Equal([]string{"CIM_Mid", "CIM_Root"}, SuperclassNames("CIM_Leaf1", s.classes))
	})

	s.Run("superclass spelling follows the declaration", func() {
		s.Equal([]string{"cim_mid", "CIM_Root"}, SuperclassNames("cim_leaf2", s.classes))
	})

	s.Run("root classes have no ancestors", func() {
		s.Empty(SuperclassNames("CIM_Root", s.classes))
	})
}

func (s *HierarchySuite) TestSubclassNames() {
	s.Run("empty class name yields roots, or all when deep", func() {
		s.ElementsMatch([]string{"CIM_Root", "CIM_Other"},
			SubclassNames("", s.classes, false))
		s.ElementsMatch([]string{"CIM_Root", "CIM_Mid", "CIM_Leaf1", "CIM_Leaf2", "CIM_Other"},
			SubclassNames("", s.classes, true))
	})

	s.Run("shallow yields immediate children only", func() {
		s.ElementsMatch([]string{"CIM_Mid"}, SubclassNames("CIM_Root", s.classes, false))
	})

	s.Run("deep yields the transitive closure", func() {
		s.ElementsMatch([]string{"CIM_Mid", "CIM_Leaf1", "CIM_Leaf2"},
			SubclassNames("cim_root", s.classes, true))
	})

	s.Run("leaves have no subclasses", func() {
		s.Empty(SubclassNames("CIM_Leaf1", s.classes, true))
	})
}

func (s *HierarchySuite) TestDuality() {
	// Every subclass relationship is visible from both directions.
	for _, name := range SubclassNames("CIM_Root", s.classes, true) {
		s.Contains(SuperclassNames(name, s.classes), "CIM_Root")
	}
}

func (s *HierarchySuite) TestSubclassNameSet() {
	set := SubclassNameSet("CIM_Mid", s.classes)
	s.True(set["cim_mid"])
	s.True(set["cim_leaf1"])
	s.True(set["cim_leaf2"])
	s.False(set["cim_root"])
}
