package httptransport

import (
	"encoding/json"
	"net/http"

	"cimrepo/pkg/cim"
	"cimrepo/pkg/cimerrors"
)

// operationRequest is the envelope every operation endpoint decodes. Each
// operation reads the fields it needs; tri-state booleans are pointers so
// absent fields take the DMTF default for that operation.
type operationRequest struct {
	Namespace string `json:"namespace"`

	ClassName string                    `json:"className,omitempty"`
	Class     *cim.Class                `json:"class,omitempty"`
	Instance  *cim.Instance             `json:"instance,omitempty"`
	Path      *cim.InstanceName         `json:"path,omitempty"`
	Qualifier *cim.QualifierDeclaration `json:"qualifier,omitempty"`

	QualifierName string         `json:"qualifierName,omitempty"`
	MethodName    string         `json:"methodName,omitempty"`
	Params        map[string]any `json:"params,omitempty"`

	DeepInheritance    *bool    `json:"deepInheritance,omitempty"`
	LocalOnly          *bool    `json:"localOnly,omitempty"`
	IncludeQualifiers  *bool    `json:"includeQualifiers,omitempty"`
	IncludeClassOrigin bool     `json:"includeClassOrigin,omitempty"`
	PropertyList       []string `json:"propertyList,omitempty"`

	AssocClass  string `json:"assocClass,omitempty"`
	ResultClass string `json:"resultClass,omitempty"`
	Role        string `json:"role,omitempty"`
	ResultRole  string `json:"resultRole,omitempty"`
}

// boolOr resolves a tri-state request flag against its operation default.
func boolOr(v *bool, def bool) bool {
	if v == nil {
		return def
	}
	return *v
}

// decodeRequest decodes the operation envelope and normalizes reference
// values, which JSON delivers as plain maps.
func decodeRequest(r *http.Request) (*operationRequest, error) {
	var req operationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return nil, cimerrors.New(cimerrors.CodeInvalidParameter,
			"invalid request body: %s", err)
	}
	if req.Instance != nil {
		normalizeInstance(req.Instance)
	}
	if req.Path != nil {
		normalizePath(req.Path)
	}
	for name, value := range req.Params {
		req.Params[name] = normalizeValue(value)
	}
	return &req, nil
}

// pathFromMap tries to reinterpret a decoded JSON object as an instance
// model path.
func pathFromMap(m map[string]any) (*cim.InstanceName, bool) {
	if _, ok := m["className"]; !ok {
		return nil, false
	}
	raw, err := json.Marshal(m)
	if err != nil {
		return nil, false
	}
	var p cim.InstanceName
	if err := json.Unmarshal(raw, &p); err != nil || p.ClassName == "" {
		return nil, false
	}
	normalizePath(&p)
	return &p, true
}

// normalizeValue converts decoded reference maps to *cim.InstanceName,
// descending into arrays.
func normalizeValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		if p, ok := pathFromMap(t); ok {
			return p
		}
		return v
	case []any:
		for i, e := range t {
			t[i] = normalizeValue(e)
		}
		return t
	default:
		return v
	}
}

// normalizePath normalizes the key binding values of a decoded path.
func normalizePath(p *cim.InstanceName) {
	for i, kb := range p.KeyBindings {
		p.KeyBindings[i].Value = normalizeValue(kb.Value)
	}
}

// normalizeInstance normalizes property values and the embedded path of a
// decoded instance.
func normalizeInstance(inst *cim.Instance) {
	for _, prop := range inst.Properties.Values() {
		prop.Value = normalizeValue(prop.Value)
	}
	if inst.Path != nil {
		normalizePath(inst.Path)
	}
}
