// Package cim defines the CIM object model held by the repository: qualifier
// declarations, classes with properties and methods, instances, and the model
// paths that identify instances. All types are plain values wired together by
// name references; deep Copy methods support the repository's copy-on-read
// discipline.
package cim

// Type is a CIM data type name as used in qualifier, property, parameter, and
// method declarations.
type Type string

const (
	TypeBoolean   Type = "boolean"
	TypeString    Type = "string"
	TypeChar16    Type = "char16"
	TypeUint8     Type = "uint8"
	TypeUint16    Type = "uint16"
	TypeUint32    Type = "uint32"
	TypeUint64    Type = "uint64"
	TypeSint8     Type = "sint8"
	TypeSint16    Type = "sint16"
	TypeSint32    Type = "sint32"
	TypeSint64    Type = "sint64"
	TypeReal32    Type = "real32"
	TypeReal64    Type = "real64"
	TypeDateTime  Type = "datetime"
	TypeReference Type = "reference"
)

var allTypes = map[Type]bool{
	TypeBoolean: true, TypeString: true, TypeChar16: true,
	TypeUint8: true, TypeUint16: true, TypeUint32: true, TypeUint64: true,
	TypeSint8: true, TypeSint16: true, TypeSint32: true, TypeSint64: true,
	TypeReal32: true, TypeReal64: true,
	TypeDateTime: true, TypeReference: true,
}

// Valid reports whether t names a known CIM type.
func (t Type) Valid() bool { return allTypes[t] }

// IsInteger reports whether t is one of the CIM integer types.
func (t Type) IsInteger() bool {
	switch t {
	case TypeUint8, TypeUint16, TypeUint32, TypeUint64,
		TypeSint8, TypeSint16, TypeSint32, TypeSint64:
		return true
	}
	return false
}

// IsReal reports whether t is a CIM floating point type.
func (t Type) IsReal() bool { return t == TypeReal32 || t == TypeReal64 }
