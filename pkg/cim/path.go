package cim

import (
	"fmt"
	"strings"
)

// KeyBinding is one name/value pair of an instance model path.
type KeyBinding struct {
	Name  string `json:"name"`
	Value any    `json:"value"`
}

// InstanceName is an instance model path: class name plus key bindings.
// Namespace and host are annotation fields; they do not participate in
// model path identity.
type InstanceName struct {
	ClassName   string       `json:"className"`
	KeyBindings []KeyBinding `json:"keyBindings,omitempty"`
	Namespace   string       `json:"namespace,omitempty"`
	Host        string       `json:"host,omitempty"`
}

// NewInstanceName builds a path from alternating key names and values given
// as a map-free ordered slice of bindings.
func NewInstanceName(className string, bindings ...KeyBinding) *InstanceName {
	return &InstanceName{ClassName: className, KeyBindings: bindings}
}

// Copy returns a deep copy of the path.
func (p *InstanceName) Copy() *InstanceName {
	if p == nil {
		return nil
	}
	out := *p
	out.KeyBindings = make([]KeyBinding, len(p.KeyBindings))
	for i, kb := range p.KeyBindings {
		out.KeyBindings[i] = KeyBinding{Name: kb.Name, Value: CopyValue(kb.Value)}
	}
	return &out
}

// Key returns the value bound under the given key name, case-insensitively.
func (p *InstanceName) Key(name string) (any, bool) {
	for _, kb := range p.KeyBindings {
		if strings.EqualFold(kb.Name, name) {
			return kb.Value, true
		}
	}
	return nil, false
}

// SetKey binds a value under the given key name, replacing any existing
// binding for that name.
func (p *InstanceName) SetKey(name string, value any) {
	for i, kb := range p.KeyBindings {
		if strings.EqualFold(kb.Name, name) {
			p.KeyBindings[i] = KeyBinding{Name: kb.Name, Value: value}
			return
		}
	}
	p.KeyBindings = append(p.KeyBindings, KeyBinding{Name: name, Value: value})
}

// ModelEqual reports model path equality: class name case-insensitive, key
// bindings value-equal with CIM key semantics (string values case-folded,
// other types exact). Namespace and host are ignored; they annotate where a
// path was observed, not what it identifies.
func (p *InstanceName) ModelEqual(o *InstanceName) bool {
	if p == nil || o == nil {
		return p == o
	}
	if !strings.EqualFold(p.ClassName, o.ClassName) {
		return false
	}
	if len(p.KeyBindings) != len(o.KeyBindings) {
		return false
	}
	for _, kb := range p.KeyBindings {
		ov, ok := o.Key(kb.Name)
		if !ok || !KeyValueEqual(kb.Value, ov) {
			return false
		}
	}
	return true
}

// CanonicalKey renders the model path in a canonical form usable as an exact
// store key: folded class name plus sorted, folded, kind-tagged bindings.
// Two paths have the same canonical key iff they are ModelEqual.
func (p *InstanceName) CanonicalKey() string {
	return FoldName(p.ClassName) + "." + canonicalBindings(p.KeyBindings)
}

// String renders the path in a WBEM-URI-like form for error messages.
func (p *InstanceName) String() string {
	if p == nil {
		return "<nil>"
	}
	var b strings.Builder
	if p.Namespace != "" {
		b.WriteString(p.Namespace)
		b.WriteString(":")
	}
	b.WriteString(p.ClassName)
	for i, kb := range p.KeyBindings {
		if i == 0 {
			b.WriteString(".")
		} else {
			b.WriteString(",")
		}
		switch v := kb.Value.(type) {
		case string:
			fmt.Fprintf(&b, "%s=%q", kb.Name, v)
		default:
			fmt.Fprintf(&b, "%s=%v", kb.Name, v)
		}
	}
	return b.String()
}
