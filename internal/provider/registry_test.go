package provider

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"cimrepo/internal/repository"
	"cimrepo/pkg/cim"
	"cimrepo/pkg/cimerrors"
)

// fakeWriteProvider records which provider answered a call.
type fakeWriteProvider struct {
	tag string
}

func (f *fakeWriteProvider) CreateInstance(context.Context, string, *cim.Instance) (*cim.InstanceName, error) {
	return nil, nil
}

func (f *fakeWriteProvider) ModifyInstance(context.Context, string, *cim.Instance, []string) error {
	return nil
}

func (f *fakeWriteProvider) DeleteInstance(context.Context, string, *cim.InstanceName) error {
	return nil
}

type fakeMethodProvider struct{}

func (f *fakeMethodProvider) InvokeMethod(context.Context, string, string, *cim.InstanceName, map[string]any) (any, map[string]any, error) {
	return uint32(0), nil, nil
}

type RegistrySuite struct {
	suite.Suite
	repo     *repository.Repository
	registry *Registry
}

func (s *RegistrySuite) SetupTest() {
	s.repo = newTestRepo(s.T())
	s.registry = NewRegistry(s.repo, testLogger())
}

func TestRegistrySuite(t *testing.T) {
	suite.Run(t, new(RegistrySuite))
}

func (s *RegistrySuite) TestRegister() {
	s.Run("valid registration succeeds", func() {
		err := s.registry.Register(testNamespace, "TST_Device", KindInstanceWrite, &fakeWriteProvider{})
		s.Require().NoError(err)
	})

	s.Run("unknown namespace fails InvalidNamespace", func() {
		err := s.registry.Register("root/absent", "TST_Device", KindInstanceWrite, &fakeWriteProvider{})
		s.Require().True(cimerrors.Is(err, cimerrors.CodeInvalidNamespace))
	})

	s.Run("unknown class fails InvalidClass", func() {
		err := s.registry.Register(testNamespace, "TST_Ghost", KindInstanceWrite, &fakeWriteProvider{})
		s.Require().True(cimerrors.Is(err, cimerrors.CodeInvalidClass))
	})

	s.Run("provider of the wrong shape fails InvalidParameter", func() {
		err := s.registry.Register(testNamespace, "TST_Device", KindMethod, &fakeWriteProvider{})
		s.Require().True(cimerrors.Is(err, cimerrors.CodeInvalidParameter))
	})

	s.Run("unknown kind fails InvalidParameter", func() {
		err := s.registry.Register(testNamespace, "TST_Device", Kind("indication"), &fakeWriteProvider{})
		s.Require().True(cimerrors.Is(err, cimerrors.CodeInvalidParameter))
	})
}

func (s *RegistrySuite) TestLookup() {
	base := &fakeWriteProvider{tag: "base"}
	s.Require().NoError(s.registry.Register(testNamespace, "TST_Device", KindInstanceWrite, base))

	s.Run("direct registration is found", func() {
		s.Same(base, s.registry.InstanceWriteProvider(testNamespace, "TST_Device"))
	})

	s.Run("lookup is case-insensitive", func() {
		s.Same(base, s.registry.InstanceWriteProvider(testNamespace, "tst_device"))
	})

	s.Run("a registration covers subclasses", func() {
		s.Same(base, s.registry.InstanceWriteProvider(testNamespace, "TST_SubDevice"))
	})

	s.Run("the nearest registration wins", func() {
		near := &fakeWriteProvider{tag: "near"}
		s.Require().NoError(s.registry.Register(testNamespace, "TST_SubDevice", KindInstanceWrite, near))
		s.Same(near, s.registry.InstanceWriteProvider(testNamespace, "TST_SubDevice"))
		s.Same(base, s.registry.InstanceWriteProvider(testNamespace, "TST_Device"))
	})

	s.Run("kinds are independent", func() {
		s.Nil(s.registry.MethodProvider(testNamespace, "TST_Device"))
		s.Require().NoError(s.registry.Register(testNamespace, "TST_Device", KindMethod, &fakeMethodProvider{}))
		s.NotNil(s.registry.MethodProvider(testNamespace, "TST_Device"))
	})

	s.Run("unrelated class has no provider", func() {
		s.Nil(s.registry.InstanceWriteProvider(testNamespace, "TST_Keyless"))
	})

	s.Run("unknown namespace has no provider", func() {
		s.Nil(s.registry.InstanceWriteProvider("root/absent", "TST_Device"))
	})
}
