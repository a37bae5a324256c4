package cim

// Property is a class or instance property. ClassOrigin and Propagated are
// filled in only on resolved classes and on instances read with class origin
// requested.
type Property struct {
	Name           string              `json:"name"`
	Type           Type                `json:"type"`
	Value          any                 `json:"value,omitempty"`
	ReferenceClass string              `json:"referenceClass,omitempty"`
	IsArray        bool                `json:"isArray,omitempty"`
	Qualifiers     NameMap[*Qualifier] `json:"qualifiers,omitempty"`
	ClassOrigin    string              `json:"classOrigin,omitempty"`
	Propagated     bool                `json:"propagated,omitempty"`
}

func (p *Property) name() string { return p.Name }

// Copy returns a deep copy of the property.
func (p *Property) Copy() *Property {
	out := *p
	out.Value = CopyValue(p.Value)
	out.Qualifiers = p.Qualifiers.Copy()
	return &out
}

// IsKey reports whether the property carries a true Key qualifier.
func (p *Property) IsKey() bool {
	q, ok := p.Qualifiers.Get(QualifierKey)
	return ok && q.BoolValue()
}

// Parameter is a method parameter.
type Parameter struct {
	Name           string              `json:"name"`
	Type           Type                `json:"type"`
	ReferenceClass string              `json:"referenceClass,omitempty"`
	IsArray        bool                `json:"isArray,omitempty"`
	Qualifiers     NameMap[*Qualifier] `json:"qualifiers,omitempty"`
}

func (p *Parameter) name() string { return p.Name }

// Copy returns a deep copy of the parameter.
func (p *Parameter) Copy() *Parameter {
	out := *p
	out.Qualifiers = p.Qualifiers.Copy()
	return &out
}

// Method is a class method. Like properties, ClassOrigin and Propagated are
// resolver output.
type Method struct {
	Name        string              `json:"name"`
	ReturnType  Type                `json:"returnType"`
	Qualifiers  NameMap[*Qualifier] `json:"qualifiers,omitempty"`
	Parameters  NameMap[*Parameter] `json:"parameters,omitempty"`
	ClassOrigin string              `json:"classOrigin,omitempty"`
	Propagated  bool                `json:"propagated,omitempty"`
}

func (m *Method) name() string { return m.Name }

// Copy returns a deep copy of the method.
func (m *Method) Copy() *Method {
	out := *m
	out.Qualifiers = m.Qualifiers.Copy()
	out.Parameters = m.Parameters.Copy()
	return &out
}

// Class is a CIM class definition. The superclass is a name reference
// resolved against the owning class store on demand, never a pointer.
type Class struct {
	ClassName  string              `json:"className"`
	SuperClass string              `json:"superClass,omitempty"`
	Qualifiers NameMap[*Qualifier] `json:"qualifiers,omitempty"`
	Properties NameMap[*Property]  `json:"properties,omitempty"`
	Methods    NameMap[*Method]    `json:"methods,omitempty"`
}

func (c *Class) name() string { return c.ClassName }

// Copy returns a deep copy of the class.
func (c *Class) Copy() *Class {
	out := *c
	out.Qualifiers = c.Qualifiers.Copy()
	out.Properties = c.Properties.Copy()
	out.Methods = c.Methods.Copy()
	return &out
}

// IsAssociation reports whether the class carries a true Association
// qualifier.
func (c *Class) IsAssociation() bool {
	q, ok := c.Qualifiers.Get(QualifierAssociation)
	return ok && q.BoolValue()
}

// KeyPropertyNames returns the names of Key-qualified properties in
// declaration order. On a resolved class this includes inherited keys.
func (c *Class) KeyPropertyNames() []string {
	var names []string
	for _, p := range c.Properties.Values() {
		if p.IsKey() {
			names = append(names, p.Name)
		}
	}
	return names
}

// ReferenceProperties returns the reference-typed properties in declaration
// order. Association traversal walks these.
func (c *Class) ReferenceProperties() []*Property {
	var refs []*Property
	for _, p := range c.Properties.Values() {
		if p.Type == TypeReference {
			refs = append(refs, p)
		}
	}
	return refs
}
