// Package provider defines the override surface for instance write and
// method operations. Providers are just another implementation of the same
// interfaces the default behavior implements, so dispatch is uniform
// polymorphism rather than special-cased branching.
package provider

import (
	"context"

	"cimrepo/pkg/cim"
)

// Kind names an operation family a provider can take over.
type Kind string

const (
	KindInstanceWrite Kind = "instance-write"
	KindMethod        Kind = "method"
)

// InstanceWriteProvider handles the write-type instance operations for the
// classes it is registered against.
type InstanceWriteProvider interface {
	CreateInstance(ctx context.Context, namespace string, newInstance *cim.Instance) (*cim.InstanceName, error)
	ModifyInstance(ctx context.Context, namespace string, modifiedInstance *cim.Instance, propertyList []string) error
	DeleteInstance(ctx context.Context, namespace string, path *cim.InstanceName) error
}

// MethodProvider handles extrinsic method invocation. There is no default
// implementation; invoking a method with no provider registered fails.
type MethodProvider interface {
	InvokeMethod(ctx context.Context, namespace, methodName string, objectName *cim.InstanceName, params map[string]any) (returnValue any, outParams map[string]any, err error)
}
