package cim

// Well-known qualifier names the repository interprets.
const (
	QualifierKey         = "Key"
	QualifierAssociation = "Association"
	QualifierOverride    = "Override"
)

// Qualifier is a qualifier value attached to a class, property, method, or
// parameter. Flavor fields are tri-state: nil means "not stated here", in
// which case the flavor comes from the qualifier declaration.
type Qualifier struct {
	Name         string `json:"name"`
	Type         Type   `json:"type"`
	Value        any    `json:"value,omitempty"`
	Propagated   bool   `json:"propagated,omitempty"`
	Overridable  *bool  `json:"overridable,omitempty"`
	ToSubclass   *bool  `json:"toSubclass,omitempty"`
	ToInstance   *bool  `json:"toInstance,omitempty"`
	Translatable *bool  `json:"translatable,omitempty"`
}

func (q *Qualifier) name() string { return q.Name }

// Copy returns a deep copy of the qualifier.
func (q *Qualifier) Copy() *Qualifier {
	out := *q
	out.Value = CopyValue(q.Value)
	out.Overridable = copyBool(q.Overridable)
	out.ToSubclass = copyBool(q.ToSubclass)
	out.ToInstance = copyBool(q.ToInstance)
	out.Translatable = copyBool(q.Translatable)
	return &out
}

// BoolValue reports whether the qualifier carries a true boolean value.
// A boolean qualifier stated without a value counts as true, per MOF
// shorthand like [Key] or [Association].
func (q *Qualifier) BoolValue() bool {
	if q.Value == nil {
		return q.Type == TypeBoolean || q.Type == ""
	}
	b, ok := q.Value.(bool)
	return ok && b
}

func copyBool(b *bool) *bool {
	if b == nil {
		return nil
	}
	v := *b
	return &v
}

// Bool is a convenience for building tri-state flavor fields.
func Bool(v bool) *bool { return &v }

// Scope names a meta-element a qualifier declaration may apply to.
type Scope string

const (
	ScopeClass       Scope = "CLASS"
	ScopeAssociation Scope = "ASSOCIATION"
	ScopeIndication  Scope = "INDICATION"
	ScopeProperty    Scope = "PROPERTY"
	ScopeReference   Scope = "REFERENCE"
	ScopeMethod      Scope = "METHOD"
	ScopeParameter   Scope = "PARAMETER"
	ScopeAny         Scope = "ANY"
)

// QualifierDeclaration declares a qualifier's type, default value, scopes,
// and flavor defaults within a namespace.
type QualifierDeclaration struct {
	Name         string         `json:"name"`
	Type         Type           `json:"type"`
	Value        any            `json:"value,omitempty"`
	IsArray      bool           `json:"isArray,omitempty"`
	Scopes       map[Scope]bool `json:"scopes,omitempty"`
	Overridable  *bool          `json:"overridable,omitempty"`
	ToSubclass   *bool          `json:"toSubclass,omitempty"`
	ToInstance   *bool          `json:"toInstance,omitempty"`
	Translatable *bool          `json:"translatable,omitempty"`
}

// Copy returns a deep copy of the declaration.
func (d *QualifierDeclaration) Copy() *QualifierDeclaration {
	out := *d
	out.Value = CopyValue(d.Value)
	if d.Scopes != nil {
		out.Scopes = make(map[Scope]bool, len(d.Scopes))
		for k, v := range d.Scopes {
			out.Scopes[k] = v
		}
	}
	out.Overridable = copyBool(d.Overridable)
	out.ToSubclass = copyBool(d.ToSubclass)
	out.ToInstance = copyBool(d.ToInstance)
	out.Translatable = copyBool(d.Translatable)
	return &out
}

// AppliesTo reports whether the declaration permits qualifying the given
// meta-element. An empty scope set or an ANY scope permits everything.
func (d *QualifierDeclaration) AppliesTo(scope Scope) bool {
	if len(d.Scopes) == 0 || d.Scopes[ScopeAny] {
		return true
	}
	return d.Scopes[scope]
}
