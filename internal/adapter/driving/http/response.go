package httphandler

import (
	"encoding/json"
	"net/http"

	"github.com/withtahmid/cv-agent/internal/domain/fault"
	"github.com/withtahmid/cv-agent/internal/domain/model"
)

// errorResponse is the standard error body. Kind is machine-readable;
// Error is safe for humans. Causes and stack traces never appear here.
type errorResponse struct {
	Error string     `json:"error"`
	Kind  fault.Kind `json:"kind,omitempty"`
}

// writeJSON marshals v to JSON and writes it to the response with the
// given status code. If marshaling fails, a 500 error is written instead.
func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"internal server error"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

// writeError writes a plain error with no fault classification.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// writeFault writes a classified error, deriving the HTTP status from
// the fault kind. Unclassified errors surface as a generic 500.
func writeFault(w http.ResponseWriter, err error) {
	kind, ok := fault.KindOf(err)
	if !ok {
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	writeJSON(w, statusForKind(kind), errorResponse{Error: err.Error(), Kind: kind})
}

// statusForKind maps the fault taxonomy onto HTTP statuses: caller
// mistakes and local state conflicts are 4xx, upstream collaborator
// failures are 502, local store failures 500.
func statusForKind(kind fault.Kind) int {
	switch kind {
	case fault.KindDuplicateSecret, fault.KindConfiguration:
		return http.StatusConflict
	case fault.KindCredentialNotFound:
		return http.StatusNotFound
	case fault.KindOCR, fault.KindLLM, fault.KindSheetWrite, fault.KindResponseFormat, fault.KindSchemaValidation:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// credentialResponse is the JSON representation of one credential with
// its usage counts. The secret value itself is never echoed back.
type credentialResponse struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	Type         string `json:"type"`
	IsActive     bool   `json:"is_active"`
	TotalUsage   int64  `json:"total_usage"`
	Last24hUsage int64  `json:"last_24h_usage"`
}

func toCredentialResponse(u model.CredentialUsage) credentialResponse {
	return credentialResponse{
		ID:           u.ID,
		Name:         u.Name,
		Type:         string(u.Type),
		IsActive:     u.IsActive,
		TotalUsage:   u.TotalUsage,
		Last24hUsage: u.Last24hUsage,
	}
}
