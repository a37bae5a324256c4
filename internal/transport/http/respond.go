package httptransport

import (
	"encoding/json"
	"net/http"

	"cimrepo/pkg/cimerrors"
)

// statusOf maps repository status codes to HTTP status.
func statusOf(code cimerrors.Code) int {
	switch code {
	case cimerrors.CodeInvalidParameter, cimerrors.CodeTypeMismatch:
		return http.StatusBadRequest
	case cimerrors.CodeNotFound, cimerrors.CodeInvalidNamespace,
		cimerrors.CodeInvalidClass, cimerrors.CodeInvalidSuperclass,
		cimerrors.CodeNoSuchProperty:
		return http.StatusNotFound
	case cimerrors.CodeAlreadyExists, cimerrors.CodeClassHasChildren,
		cimerrors.CodeClassHasInstances, cimerrors.CodeNamespaceNotEmpty:
		return http.StatusConflict
	case cimerrors.CodeNotSupported, cimerrors.CodeMethodNotAvailable:
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}

// writeJSON writes a JSON response body with the given status.
func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// writeError translates a coded repository error into the JSON error
// envelope. Errors without a code surface as CIM_ERR_FAILED.
func writeError(w http.ResponseWriter, err error) {
	code := cimerrors.CodeOf(err)
	writeJSON(w, statusOf(code), map[string]any{
		"error":   code.String(),
		"code":    int(code),
		"message": err.Error(),
	})
}
