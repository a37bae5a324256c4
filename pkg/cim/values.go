package cim

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// CopyValue deep-copies a CIM value. Scalars are immutable; arrays and
// reference paths are the only aliasable kinds.
func CopyValue(v any) any {
	switch t := v.(type) {
	case *InstanceName:
		if t == nil {
			return (*InstanceName)(nil)
		}
		return t.Copy()
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = CopyValue(e)
		}
		return out
	default:
		return v
	}
}

// numericValue converts any Go numeric kind to float64. JSON decoding and
// literal test values arrive in assorted kinds; comparisons and type checks
// normalize through here.
func numericValue(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}

// ValueMatchesType reports whether v is acceptable for a property or key of
// the declared type. Nil is always acceptable (a null value). Whole float64
// values are accepted for integer types because JSON decoding produces them.
func ValueMatchesType(v any, t Type) bool {
	if v == nil {
		return true
	}
	switch t {
	case TypeBoolean:
		_, ok := v.(bool)
		return ok
	case TypeString, TypeChar16, TypeDateTime:
		_, ok := v.(string)
		return ok
	case TypeReference:
		_, ok := v.(*InstanceName)
		return ok
	default:
		f, ok := numericValue(v)
		if !ok {
			return false
		}
		if t.IsInteger() {
			return f == math.Trunc(f)
		}
		return t.IsReal()
	}
}

// ValueMatchesDeclared reports whether v is acceptable for a property with
// the declared type and array shape. Nil is always acceptable. An array
// property takes a []any whose elements each match the element type.
func ValueMatchesDeclared(v any, t Type, isArray bool) bool {
	if v == nil {
		return true
	}
	if isArray {
		elems, ok := v.([]any)
		if !ok {
			return false
		}
		for _, e := range elems {
			if !ValueMatchesType(e, t) {
				return false
			}
		}
		return true
	}
	return ValueMatchesType(v, t)
}

// ValueEqual compares two CIM values with typed equality: numerics compare
// across Go kinds, references compare by model path, strings compare exactly.
func ValueEqual(a, b any) bool {
	return valueEqual(a, b, false)
}

// KeyValueEqual compares two key binding values. Per CIM key semantics,
// string values compare case-insensitively; everything else is typed-exact.
func KeyValueEqual(a, b any) bool {
	return valueEqual(a, b, true)
}

func valueEqual(a, b any, foldStrings bool) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if sa, ok := a.(string); ok {
		sb, ok := b.(string)
		if !ok {
			return false
		}
		if foldStrings {
			return strings.EqualFold(sa, sb)
		}
		return sa == sb
	}
	if ba, ok := a.(bool); ok {
		bb, ok := b.(bool)
		return ok && ba == bb
	}
	if ra, ok := a.(*InstanceName); ok {
		rb, ok := b.(*InstanceName)
		return ok && ra.ModelEqual(rb)
	}
	if aa, ok := a.([]any); ok {
		ab, ok := b.([]any)
		if !ok || len(aa) != len(ab) {
			return false
		}
		for i := range aa {
			if !valueEqual(aa[i], ab[i], foldStrings) {
				return false
			}
		}
		return true
	}
	fa, oka := numericValue(a)
	fb, okb := numericValue(b)
	return oka && okb && fa == fb
}

// canonicalValue renders a key binding value in a canonical, kind-tagged form
// so structurally equal paths hash to the same store key.
func canonicalValue(v any) string {
	switch t := v.(type) {
	case nil:
		return "nil"
	case string:
		return "s:" + strings.ToLower(t)
	case bool:
		return fmt.Sprintf("b:%t", t)
	case *InstanceName:
		return "r:{" + t.CanonicalKey() + "}"
	case []any:
		parts := make([]string, len(t))
		for i, e := range t {
			parts[i] = canonicalValue(e)
		}
		return "a:[" + strings.Join(parts, ",") + "]"
	default:
		if f, ok := numericValue(v); ok {
			if f == math.Trunc(f) && math.Abs(f) < 1e15 {
				return fmt.Sprintf("n:%d", int64(f))
			}
			return fmt.Sprintf("n:%g", f)
		}
		return fmt.Sprintf("x:%v", v)
	}
}

// canonicalBindings renders key bindings sorted by folded name.
func canonicalBindings(bindings []KeyBinding) string {
	parts := make([]string, len(bindings))
	for i, kb := range bindings {
		parts[i] = FoldName(kb.Name) + "=" + canonicalValue(kb.Value)
	}
	sort.Strings(parts)
	return strings.Join(parts, ",")
}
