// Package httptransport is the thin HTTP layer over the dispatch service.
// Operations are exposed WBEM-style as one POST endpoint per intrinsic
// operation; handlers decode the envelope, delegate, and translate coded
// errors to HTTP status.
package httptransport

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"cimrepo/internal/dispatch"
	"cimrepo/internal/query"
	"cimrepo/internal/schema"
	"cimrepo/pkg/cimerrors"
)

// Handler handles repository operation endpoints.
type Handler struct {
	logger  *slog.Logger
	service *dispatch.Service
}

// NewHandler creates the transport handler over a dispatch service.
func NewHandler(service *dispatch.Service, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{logger: logger, service: service}
}

// NewRouter wires all endpoints with the standard middleware chain.
func NewRouter(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(requestIDMiddleware)
	r.Use(recoveryMiddleware(h.logger))
	r.Use(loggingMiddleware(h.logger))

	r.Get("/healthz", h.handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())
	r.Get("/dump", h.handleDump)

	r.Route("/cim", func(r chi.Router) {
		r.Post("/GetQualifier", h.handleGetQualifier)
		r.Post("/SetQualifier", h.handleSetQualifier)
		r.Post("/DeleteQualifier", h.handleDeleteQualifier)
		r.Post("/EnumerateQualifiers", h.handleEnumerateQualifiers)

		r.Post("/GetClass", h.handleGetClass)
		r.Post("/CreateClass", h.handleCreateClass)
		r.Post("/ModifyClass", h.handleModifyClass)
		r.Post("/DeleteClass", h.handleDeleteClass)
		r.Post("/EnumerateClasses", h.handleEnumerateClasses)
		r.Post("/EnumerateClassNames", h.handleEnumerateClassNames)

		r.Post("/GetInstance", h.handleGetInstance)
		r.Post("/CreateInstance", h.handleCreateInstance)
		r.Post("/ModifyInstance", h.handleModifyInstance)
		r.Post("/DeleteInstance", h.handleDeleteInstance)
		r.Post("/EnumerateInstances", h.handleEnumerateInstances)
		r.Post("/EnumerateInstanceNames", h.handleEnumerateInstanceNames)

		r.Post("/Associators", h.handleAssociators)
		r.Post("/AssociatorNames", h.handleAssociatorNames)
		r.Post("/References", h.handleReferences)
		r.Post("/ReferenceNames", h.handleReferenceNames)

		r.Post("/InvokeMethod", h.handleInvokeMethod)
	})

	r.Route("/namespaces", func(r chi.Router) {
		r.Get("/", h.handleListNamespaces)
		r.Post("/", h.handleAddNamespace)
		r.Delete("/", h.handleRemoveNamespace)
	})

	return r
}

func (h *Handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) handleDump(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.service.Dump(r.Context()))
}

// classFilter builds class projection options from the envelope with GetClass
// defaults: LocalOnly and IncludeQualifiers default true.
func classFilter(req *operationRequest) schema.ClassFilter {
	return schema.ClassFilter{
		LocalOnly:          boolOr(req.LocalOnly, true),
		IncludeQualifiers:  boolOr(req.IncludeQualifiers, true),
		IncludeClassOrigin: req.IncludeClassOrigin,
		PropertyList:       req.PropertyList,
	}
}

// instanceFilter builds instance projection options from the envelope.
// Instance reads default LocalOnly false and IncludeQualifiers false.
func instanceFilter(req *operationRequest) query.InstanceFilter {
	return query.InstanceFilter{
		LocalOnly:          boolOr(req.LocalOnly, false),
		IncludeQualifiers:  boolOr(req.IncludeQualifiers, false),
		IncludeClassOrigin: req.IncludeClassOrigin,
		PropertyList:       req.PropertyList,
	}
}

func (h *Handler) handleGetQualifier(w http.ResponseWriter, r *http.Request) {
	req, err := decodeRequest(r)
	if err != nil {
		writeError(w, err)
		return
	}
	decl, err := h.service.GetQualifier(r.Context(), req.Namespace, req.QualifierName)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, decl)
}

func (h *Handler) handleSetQualifier(w http.ResponseWriter, r *http.Request) {
	req, err := decodeRequest(r)
	if err != nil {
		writeError(w, err)
		return
	}
	if req.Qualifier == nil {
		writeError(w, cimerrors.New(cimerrors.CodeInvalidParameter, "qualifier declaration required"))
		return
	}
	if err := h.service.SetQualifier(r.Context(), req.Namespace, req.Qualifier); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleDeleteQualifier(w http.ResponseWriter, r *http.Request) {
	req, err := decodeRequest(r)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := h.service.DeleteQualifier(r.Context(), req.Namespace, req.QualifierName); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleEnumerateQualifiers(w http.ResponseWriter, r *http.Request) {
	req, err := decodeRequest(r)
	if err != nil {
		writeError(w, err)
		return
	}
	decls, err := h.service.EnumerateQualifiers(r.Context(), req.Namespace)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, decls)
}

func (h *Handler) handleGetClass(w http.ResponseWriter, r *http.Request) {
	req, err := decodeRequest(r)
	if err != nil {
		writeError(w, err)
		return
	}
	cls, err := h.service.GetClass(r.Context(), req.Namespace, req.ClassName, classFilter(req))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cls)
}

func (h *Handler) handleCreateClass(w http.ResponseWriter, r *http.Request) {
	req, err := decodeRequest(r)
	if err != nil {
		writeError(w, err)
		return
	}
	if req.Class == nil {
		writeError(w, cimerrors.New(cimerrors.CodeInvalidParameter, "class definition required"))
		return
	}
	if err := h.service.CreateClass(r.Context(), req.Namespace, req.Class); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
}

func (h *Handler) handleModifyClass(w http.ResponseWriter, r *http.Request) {
	req, err := decodeRequest(r)
	if err != nil {
		writeError(w, err)
		return
	}
	if req.Class == nil {
		writeError(w, cimerrors.New(cimerrors.CodeInvalidParameter, "class definition required"))
		return
	}
	if err := h.service.ModifyClass(r.Context(), req.Namespace, req.Class); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleDeleteClass(w http.ResponseWriter, r *http.Request) {
	req, err := decodeRequest(r)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := h.service.DeleteClass(r.Context(), req.Namespace, req.ClassName); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleEnumerateClasses(w http.ResponseWriter, r *http.Request) {
	req, err := decodeRequest(r)
	if err != nil {
		writeError(w, err)
		return
	}
	// Class enumeration defaults DeepInheritance false per DSP0200.
	classes, err := h.service.EnumerateClasses(r.Context(), req.Namespace, req.ClassName,
		boolOr(req.DeepInheritance, false), classFilter(req))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, classes)
}

func (h *Handler) handleEnumerateClassNames(w http.ResponseWriter, r *http.Request) {
	req, err := decodeRequest(r)
	if err != nil {
		writeError(w, err)
		return
	}
	names, err := h.service.EnumerateClassNames(r.Context(), req.Namespace, req.ClassName,
		boolOr(req.DeepInheritance, false))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, names)
}

func (h *Handler) handleGetInstance(w http.ResponseWriter, r *http.Request) {
	req, err := decodeRequest(r)
	if err != nil {
		writeError(w, err)
		return
	}
	if req.Path == nil {
		writeError(w, cimerrors.New(cimerrors.CodeInvalidParameter, "instance path required"))
		return
	}
	inst, err := h.service.GetInstance(r.Context(), req.Namespace, req.Path, instanceFilter(req))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, inst)
}

func (h *Handler) handleCreateInstance(w http.ResponseWriter, r *http.Request) {
	req, err := decodeRequest(r)
	if err != nil {
		writeError(w, err)
		return
	}
	if req.Instance == nil {
		writeError(w, cimerrors.New(cimerrors.CodeInvalidParameter, "instance required"))
		return
	}
	path, err := h.service.CreateInstance(r.Context(), req.Namespace, req.Instance)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, path)
}

func (h *Handler) handleModifyInstance(w http.ResponseWriter, r *http.Request) {
	req, err := decodeRequest(r)
	if err != nil {
		writeError(w, err)
		return
	}
	if req.Instance == nil {
		writeError(w, cimerrors.New(cimerrors.CodeInvalidParameter, "instance required"))
		return
	}
	if err := h.service.ModifyInstance(r.Context(), req.Namespace, req.Instance, req.PropertyList); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleDeleteInstance(w http.ResponseWriter, r *http.Request) {
	req, err := decodeRequest(r)
	if err != nil {
		writeError(w, err)
		return
	}
	if req.Path == nil {
		writeError(w, cimerrors.New(cimerrors.CodeInvalidParameter, "instance path required"))
		return
	}
	if err := h.service.DeleteInstance(r.Context(), req.Namespace, req.Path); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleEnumerateInstances(w http.ResponseWriter, r *http.Request) {
	req, err := decodeRequest(r)
	if err != nil {
		writeError(w, err)
		return
	}
	// Instance enumeration defaults DeepInheritance true per DSP0200.
	result, err := h.service.EnumerateInstances(r.Context(), req.Namespace, req.ClassName,
		boolOr(req.DeepInheritance, true), instanceFilter(req))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *Handler) handleEnumerateInstanceNames(w http.ResponseWriter, r *http.Request) {
	req, err := decodeRequest(r)
	if err != nil {
		writeError(w, err)
		return
	}
	paths, err := h.service.EnumerateInstanceNames(r.Context(), req.Namespace, req.ClassName)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, paths)
}

func (h *Handler) handleReferences(w http.ResponseWriter, r *http.Request) {
	req, err := decodeRequest(r)
	if err != nil {
		writeError(w, err)
		return
	}
	if req.Path != nil {
		result, err := h.service.References(r.Context(), req.Namespace, req.Path, req.ResultClass, req.Role)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, result)
		return
	}
	names, err := h.service.ReferenceClassNames(r.Context(), req.Namespace, req.ClassName, req.ResultClass, req.Role)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, names)
}

func (h *Handler) handleReferenceNames(w http.ResponseWriter, r *http.Request) {
	req, err := decodeRequest(r)
	if err != nil {
		writeError(w, err)
		return
	}
	if req.Path != nil {
		paths, err := h.service.ReferenceNames(r.Context(), req.Namespace, req.Path, req.ResultClass, req.Role)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, paths)
		return
	}
	names, err := h.service.ReferenceClassNames(r.Context(), req.Namespace, req.ClassName, req.ResultClass, req.Role)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, names)
}

func (h *Handler) handleAssociators(w http.ResponseWriter, r *http.Request) {
	req, err := decodeRequest(r)
	if err != nil {
		writeError(w, err)
		return
	}
	if req.Path != nil {
		result, err := h.service.Associators(r.Context(), req.Namespace, req.Path,
			req.AssocClass, req.Role, req.ResultClass, req.ResultRole, instanceFilter(req))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, result)
		return
	}
	names, err := h.service.AssociatorClassNames(r.Context(), req.Namespace, req.ClassName,
		req.AssocClass, req.Role, req.ResultClass, req.ResultRole)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, names)
}

func (h *Handler) handleAssociatorNames(w http.ResponseWriter, r *http.Request) {
	req, err := decodeRequest(r)
	if err != nil {
		writeError(w, err)
		return
	}
	if req.Path != nil {
		paths, err := h.service.AssociatorNames(r.Context(), req.Namespace, req.Path,
			req.AssocClass, req.Role, req.ResultClass, req.ResultRole)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, paths)
		return
	}
	names, err := h.service.AssociatorClassNames(r.Context(), req.Namespace, req.ClassName,
		req.AssocClass, req.Role, req.ResultClass, req.ResultRole)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, names)
}

func (h *Handler) handleInvokeMethod(w http.ResponseWriter, r *http.Request) {
	req, err := decodeRequest(r)
	if err != nil {
		writeError(w, err)
		return
	}
	if req.Path == nil {
		writeError(w, cimerrors.New(cimerrors.CodeInvalidParameter, "target object path required"))
		return
	}
	returnValue, outParams, err := h.service.InvokeMethod(r.Context(), req.Namespace,
		req.MethodName, req.Path, req.Params)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"returnValue": returnValue,
		"outParams":   outParams,
	})
}

func (h *Handler) handleListNamespaces(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.service.Namespaces(r.Context()))
}

func (h *Handler) handleAddNamespace(w http.ResponseWriter, r *http.Request) {
	req, err := decodeRequest(r)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := h.service.AddNamespace(r.Context(), req.Namespace); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
}

func (h *Handler) handleRemoveNamespace(w http.ResponseWriter, r *http.Request) {
	req, err := decodeRequest(r)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := h.service.RemoveNamespace(r.Context(), req.Namespace); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
