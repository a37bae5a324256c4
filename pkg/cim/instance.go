package cim

// Instance is a CIM instance: a class name, property values, and the model
// path identifying it. Property lookup is case-insensitive and ordered like
// every other CIM name collection.
type Instance struct {
	ClassName  string              `json:"className"`
	Qualifiers NameMap[*Qualifier] `json:"qualifiers,omitempty"`
	Properties NameMap[*Property]  `json:"properties,omitempty"`
	Path       *InstanceName       `json:"path,omitempty"`
}

func (i *Instance) name() string { return i.ClassName }

// Copy returns a deep copy of the instance including its path.
func (i *Instance) Copy() *Instance {
	out := *i
	out.Qualifiers = i.Qualifiers.Copy()
	out.Properties = i.Properties.Copy()
	out.Path = i.Path.Copy()
	return &out
}

// PropertyValue returns the value of the named property, case-insensitively.
func (i *Instance) PropertyValue(name string) (any, bool) {
	p, ok := i.Properties.Get(name)
	if !ok {
		return nil, false
	}
	return p.Value, true
}
