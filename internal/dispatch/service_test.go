package dispatch

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/suite"

	"cimrepo/internal/provider"
	"cimrepo/internal/query"
	"cimrepo/internal/repository"
	"cimrepo/internal/schema"
	"cimrepo/pkg/cim"
	"cimrepo/pkg/cimerrors"
)

const testNamespace = "root/cimv2"

// fakeMethodProvider answers every invocation with a fixed return value.
type fakeMethodProvider struct {
	lastMethod string
}

func (f *fakeMethodProvider) InvokeMethod(_ context.Context, _, methodName string, _ *cim.InstanceName, params map[string]any) (any, map[string]any, error) {
	f.lastMethod = methodName
	return uint32(0), map[string]any{"Echo": params["Input"]}, nil
}

type ServiceSuite struct {
	suite.Suite
	repo    *repository.Repository
	service *Service
	ctx     context.Context
}

func (s *ServiceSuite) SetupTest() {
	s.repo = repository.New()
	s.Require().NoError(s.repo.AddNamespace(testNamespace))

	qualifiers, err := s.repo.QualifierStore(testNamespace)
	s.Require().NoError(err)
	for _, decl := range []*cim.QualifierDeclaration{
		{Name: "Key", Type: cim.TypeBoolean, Value: false,
			Overridable: cim.Bool(false), ToSubclass: cim.Bool(true)},
		{Name: "Association", Type: cim.TypeBoolean, Value: false,
			Overridable: cim.Bool(false), ToSubclass: cim.Bool(true)},
		{Name: "Description", Type: cim.TypeString,
			Overridable: cim.Bool(true), ToSubclass: cim.Bool(true), Translatable: cim.Bool(true)},
	} {
		s.Require().NoError(qualifiers.Create(decl.Name, decl))
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	registry := provider.NewRegistry(s.repo, logger)
	s.service = New(s.repo, registry, logger, nil)
	s.ctx = context.Background()
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

// deviceClass is an unresolved class definition as a client would submit it.
func deviceClass() *cim.Class {
	cls := &cim.Class{ClassName: "TST_Device"}
	id := &cim.Property{Name: "DeviceID", Type: cim.TypeString}
	id.Qualifiers.Set(&cim.Qualifier{Name: "Key", Type: cim.TypeBoolean, Value: true})
	cls.Properties.Set(id)
	cls.Properties.Set(&cim.Property{Name: "State", Type: cim.TypeUint32})
	m := &cim.Method{Name: "Reset", ReturnType: cim.TypeUint32}
	m.Parameters.Set(&cim.Parameter{Name: "Input", Type: cim.TypeString})
	cls.Methods.Set(m)
	return cls
}

func subDeviceClass() *cim.Class {
	cls := &cim.Class{ClassName: "TST_SubDevice", SuperClass: "TST_Device"}
	cls.Properties.Set(&cim.Property{Name: "SubOnly", Type: cim.TypeBoolean})
	return cls
}

func (s *ServiceSuite) createClasses(classes ...*cim.Class) {
	for _, cls := range classes {
		s.Require().NoError(s.service.CreateClass(s.ctx, testNamespace, cls))
	}
}

func devicePath(id string) *cim.InstanceName {
	return cim.NewInstanceName("TST_Device", cim.KeyBinding{Name: "DeviceID", Value: id})
}

func (s *ServiceSuite) createDevice(id string) *cim.InstanceName {
	inst := &cim.Instance{ClassName: "TST_Device"}
	inst.Properties.Set(&cim.Property{Name: "DeviceID", Value: id})
	path, err := s.service.CreateInstance(s.ctx, testNamespace, inst)
	s.Require().NoError(err)
	return path
}

func (s *ServiceSuite) TestNamespaces() {
	s.Run("add and list", func() {
		s.Require().NoError(s.service.AddNamespace(s.ctx, "root/interop"))
		s.Equal([]string{testNamespace, "root/interop"}, s.service.Namespaces(s.ctx))
	})

	s.Run("duplicate add fails AlreadyExists", func() {
		err := s.service.AddNamespace(s.ctx, "ROOT/CIMV2")
		s.Require().True(cimerrors.Is(err, cimerrors.CodeAlreadyExists))
	})

	s.Run("remove refuses a non-empty namespace", func() {
		err := s.service.RemoveNamespace(s.ctx, testNamespace)
		s.Require().True(cimerrors.Is(err, cimerrors.CodeNamespaceNotEmpty))
	})

	s.Run("remove empty namespace", func() {
		s.Require().NoError(s.service.AddNamespace(s.ctx, "root/tmp"))
		s.Require().NoError(s.service.RemoveNamespace(s.ctx, "root/tmp"))
		s.NotContains(s.service.Namespaces(s.ctx), "root/tmp")
	})
}

func (s *ServiceSuite) TestQualifiers() {
	s.Run("get", func() {
		decl, err := s.service.GetQualifier(s.ctx, testNamespace, "key")
		s.Require().NoError(err)
		s.Equal("Key", decl.Name)
	})

	s.Run("get miss is NotFound", func() {
		_, err := s.service.GetQualifier(s.ctx, testNamespace, "Absent")
		s.Require().True(cimerrors.Is(err, cimerrors.CodeNotFound))
	})

	s.Run("set creates then replaces", func() {
		decl := &cim.QualifierDeclaration{Name: "Units", Type: cim.TypeString, Value: "Bytes"}
		s.Require().NoError(s.service.SetQualifier(s.ctx, testNamespace, decl))

		decl.Value = "KiloBytes"
		s.Require().NoError(s.service.SetQualifier(s.ctx, testNamespace, decl))

		got, err := s.service.GetQualifier(s.ctx, testNamespace, "Units")
		s.Require().NoError(err)
		s.Equal("KiloBytes", got.Value)
	})

	s.Run("enumerate", func() {
		decls, err := s.service.EnumerateQualifiers(s.ctx, testNamespace)
		s.Require().NoError(err)
		s.GreaterOrEqual(len(decls), 3)
	})

	s.Run("delete", func() {
		s.Require().NoError(s.service.SetQualifier(s.ctx, testNamespace,
			&cim.QualifierDeclaration{Name: "Doomed", Type: cim.TypeBoolean}))
		s.Require().NoError(s.service.DeleteQualifier(s.ctx, testNamespace, "doomed"))
		err := s.service.DeleteQualifier(s.ctx, testNamespace, "doomed")
		s.Require().True(cimerrors.Is(err, cimerrors.CodeNotFound))
	})
}

func (s *ServiceSuite) TestClassLifecycle() {
	s.Run("create stores the resolved form", func() {
		s.createClasses(deviceClass(), subDeviceClass())

		sub, err := s.service.GetClass(s.ctx, testNamespace, "TST_SubDevice",
			schema.ClassFilter{IncludeQualifiers: true, IncludeClassOrigin: true})
		s.Require().NoError(err)
		id, ok := sub.Properties.Get("DeviceID")
		s.Require().True(ok, "inherited key property should be materialized")
		s.True(id.Propagated)
		s.Equal("TST_Device", id.ClassOrigin)
	})

	s.Run("duplicate create fails AlreadyExists", func() {
		err := s.service.CreateClass(s.ctx, testNamespace, deviceClass())
		s.Require().True(cimerrors.Is(err, cimerrors.CodeAlreadyExists))
	})

	s.Run("create with missing superclass fails InvalidSuperclass", func() {
		orphan := &cim.Class{ClassName: "TST_Orphan", SuperClass: "TST_Missing"}
		err := s.service.CreateClass(s.ctx, testNamespace, orphan)
		s.Require().True(cimerrors.Is(err, cimerrors.CodeInvalidSuperclass))
	})

	s.Run("local only projects away inherited members", func() {
		cls, err := s.service.GetClass(s.ctx, testNamespace, "TST_SubDevice",
			schema.ClassFilter{LocalOnly: true, IncludeQualifiers: true})
		s.Require().NoError(err)
		s.Equal([]string{"SubOnly"}, cls.Properties.Names())
	})

	s.Run("modify with subclasses fails ClassHasChildren", func() {
		err := s.service.ModifyClass(s.ctx, testNamespace, deviceClass())
		s.Require().True(cimerrors.Is(err, cimerrors.CodeClassHasChildren))
	})

	s.Run("modify a leaf class re-resolves it", func() {
		changed := subDeviceClass()
		changed.Properties.Set(&cim.Property{Name: "Extra", Type: cim.TypeString})
		s.Require().NoError(s.service.ModifyClass(s.ctx, testNamespace, changed))

		cls, err := s.service.GetClass(s.ctx, testNamespace, "TST_SubDevice",
			schema.ClassFilter{IncludeQualifiers: true})
		s.Require().NoError(err)
		s.True(cls.Properties.Has("Extra"))
		s.True(cls.Properties.Has("DeviceID"))
	})

	s.Run("modify of an unknown class fails NotFound", func() {
		err := s.service.ModifyClass(s.ctx, testNamespace, &cim.Class{ClassName: "TST_Nope"})
		s.Require().True(cimerrors.Is(err, cimerrors.CodeNotFound))
	})

	s.Run("enumerate names shallow and deep", func() {
		names, err := s.service.EnumerateClassNames(s.ctx, testNamespace, "", false)
		s.Require().NoError(err)
		s.ElementsMatch([]string{"TST_Device"}, names)

		names, err = s.service.EnumerateClassNames(s.ctx, testNamespace, "", true)
		s.Require().NoError(err)
		s.ElementsMatch([]string{"TST_Device", "TST_SubDevice"}, names)
	})

	s.Run("enumerate classes returns filtered bodies", func() {
		result, err := s.service.EnumerateClasses(s.ctx, testNamespace, "TST_Device", false,
			schema.ClassFilter{IncludeQualifiers: false})
		s.Require().NoError(err)
		s.Require().Len(result, 1)
		s.Equal("TST_SubDevice", result[0].ClassName)
		s.Equal(0, result[0].Qualifiers.Len())
	})

	s.Run("delete removes the subtree and its instances", func() {
		s.createDevice("doomed")

		s.Require().NoError(s.service.DeleteClass(s.ctx, testNamespace, "TST_Device"))

		_, err := s.service.GetClass(s.ctx, testNamespace, "TST_SubDevice", schema.ClassFilter{})
		s.Require().True(cimerrors.Is(err, cimerrors.CodeNotFound))
		instances, err := s.repo.InstanceStore(testNamespace)
		s.Require().NoError(err)
		s.Equal(0, instances.Len())
	})

	s.Run("delete of an unknown class fails NotFound", func() {
		err := s.service.DeleteClass(s.ctx, testNamespace, "TST_Device")
		s.Require().True(cimerrors.Is(err, cimerrors.CodeNotFound))
	})
}

func (s *ServiceSuite) TestInstanceLifecycle() {
	s.createClasses(deviceClass(), subDeviceClass())

	s.Run("create then get", func() {
		path := s.createDevice("d1")
		inst, err := s.service.GetInstance(s.ctx, testNamespace, path, query.InstanceFilter{})
		s.Require().NoError(err)
		v, _ := inst.PropertyValue("DeviceID")
		s.Equal("d1", v)
	})

	s.Run("enumerate names covers the subtree", func() {
		sub := &cim.Instance{ClassName: "TST_SubDevice"}
		sub.Properties.Set(&cim.Property{Name: "DeviceID", Value: "sub1"})
		_, err := s.service.CreateInstance(s.ctx, testNamespace, sub)
		s.Require().NoError(err)

		paths, err := s.service.EnumerateInstanceNames(s.ctx, testNamespace, "TST_Device")
		s.Require().NoError(err)
		s.Len(paths, 2)
	})

	s.Run("enumerate shallow projects onto the requested class", func() {
		result, err := s.service.EnumerateInstances(s.ctx, testNamespace, "TST_Device", false,
			query.InstanceFilter{})
		s.Require().NoError(err)
		for _, inst := range result {
			s.False(inst.Properties.Has("SubOnly"))
		}
	})

	s.Run("modify", func() {
		mod := &cim.Instance{ClassName: "TST_Device", Path: devicePath("d1")}
		mod.Properties.Set(&cim.Property{Name: "State", Value: 5})
		s.Require().NoError(s.service.ModifyInstance(s.ctx, testNamespace, mod, nil))

		inst, err := s.service.GetInstance(s.ctx, testNamespace, devicePath("d1"), query.InstanceFilter{})
		s.Require().NoError(err)
		v, _ := inst.PropertyValue("State")
		s.True(cim.ValueEqual(5, v))
	})

	s.Run("delete", func() {
		s.Require().NoError(s.service.DeleteInstance(s.ctx, testNamespace, devicePath("d1")))
		_, err := s.service.GetInstance(s.ctx, testNamespace, devicePath("d1"), query.InstanceFilter{})
		s.Require().True(cimerrors.Is(err, cimerrors.CodeNotFound))
	})

	s.Run("delete against an unknown class fails InvalidClass", func() {
		err := s.service.DeleteInstance(s.ctx, testNamespace,
			cim.NewInstanceName("TST_Ghost", cim.KeyBinding{Name: "DeviceID", Value: "x"}))
		s.Require().True(cimerrors.Is(err, cimerrors.CodeInvalidClass))
	})

	s.Run("registered provider replaces the default path", func() {
		registry := provider.NewRegistry(s.repo, slog.New(slog.NewTextHandler(io.Discard, nil)))
		svc := New(s.repo, registry, slog.New(slog.NewTextHandler(io.Discard, nil)), nil)
		s.Require().NoError(registry.Register(testNamespace, "TST_Device",
			provider.KindInstanceWrite, rejectingWriteProvider{}))

		inst := &cim.Instance{ClassName: "TST_Device"}
		inst.Properties.Set(&cim.Property{Name: "DeviceID", Value: "blocked"})
		_, err := svc.CreateInstance(s.ctx, testNamespace, inst)
		s.Require().True(cimerrors.Is(err, cimerrors.CodeNotSupported))
	})
}

// rejectingWriteProvider refuses every write, standing in for a veto provider.
type rejectingWriteProvider struct{}

func (rejectingWriteProvider) CreateInstance(context.Context, string, *cim.Instance) (*cim.InstanceName, error) {
	return nil, cimerrors.New(cimerrors.CodeNotSupported, "writes disabled")
}

func (rejectingWriteProvider) ModifyInstance(context.Context, string, *cim.Instance, []string) error {
	return cimerrors.New(cimerrors.CodeNotSupported, "writes disabled")
}

func (rejectingWriteProvider) DeleteInstance(context.Context, string, *cim.InstanceName) error {
	return cimerrors.New(cimerrors.CodeNotSupported, "writes disabled")
}

func (s *ServiceSuite) TestInvokeMethod() {
	s.createClasses(deviceClass())
	path := s.createDevice("m1")

	s.Run("no provider fails MethodNotAvailable", func() {
		_, _, err := s.service.InvokeMethod(s.ctx, testNamespace, "Reset", path, nil)
		s.Require().True(cimerrors.Is(err, cimerrors.CodeMethodNotAvailable))
	})

	s.Run("undeclared method fails MethodNotAvailable", func() {
		_, _, err := s.service.InvokeMethod(s.ctx, testNamespace, "SelfDestruct", path, nil)
		s.Require().True(cimerrors.Is(err, cimerrors.CodeMethodNotAvailable))
	})

	s.Run("unknown class fails InvalidClass", func() {
		ghost := cim.NewInstanceName("TST_Ghost", cim.KeyBinding{Name: "DeviceID", Value: "x"})
		_, _, err := s.service.InvokeMethod(s.ctx, testNamespace, "Reset", ghost, nil)
		s.Require().True(cimerrors.Is(err, cimerrors.CodeInvalidClass))
	})

	s.Run("provider handles the call", func() {
		prov := &fakeMethodProvider{}
		s.Require().NoError(s.service.registry.Register(testNamespace, "TST_Device",
			provider.KindMethod, prov))

		ret, out, err := s.service.InvokeMethod(s.ctx, testNamespace, "Reset", path,
			map[string]any{"Input": "ping"})
		s.Require().NoError(err)
		s.Equal(uint32(0), ret)
		s.Equal("ping", out["Echo"])
		s.Equal("Reset", prov.lastMethod)
	})
}

func (s *ServiceSuite) TestDump() {
	s.createClasses(deviceClass())
	s.createDevice("dump1")

	dumps := s.service.Dump(s.ctx)
	s.Require().Len(dumps, 1)
	s.Equal(testNamespace, dumps[0].Namespace)
	s.Contains(dumps[0].Classes, "TST_Device")
	s.Len(dumps[0].Instances, 1)
	s.Contains(dumps[0].Qualifiers, "Key")
}
