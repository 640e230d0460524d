// Package httphandler is the HTTP driving adapter serving the intake
// endpoint and the credential-administration API.
package httphandler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/withtahmid/cv-agent/internal/application"
	"github.com/withtahmid/cv-agent/internal/domain/model"
	"github.com/withtahmid/cv-agent/internal/domain/port/driven"
)

// IntakeRunner is the slice of the intake service the handler needs.
type IntakeRunner interface {
	ProcessBatch(ctx context.Context, images []application.ImageInput) (model.CVRecord, error)
}

// Handler serves the JSON API.
type Handler struct {
	intake      IntakeRunner
	credentials driven.CredentialStore
	adminSecret []byte
	logger      *slog.Logger
}

// NewHandler creates a Handler with all required dependencies.
// adminSecret signs admin bearer tokens; empty means admin routes are
// rejected outright.
func NewHandler(intake IntakeRunner, credentials driven.CredentialStore, adminSecret []byte, logger *slog.Logger) *Handler {
	return &Handler{
		intake:      intake,
		credentials: credentials,
		adminSecret: adminSecret,
		logger:      logger,
	}
}

// NewServeMux creates an http.Handler with all routes registered and
// wrapped with request-ID, logging, and recovery middleware. The
// credential-administration routes additionally require a valid admin
// bearer token; the intake endpoint does not.
func NewServeMux(h *Handler, logger *slog.Logger) http.Handler {
	admin := func(hf http.HandlerFunc) http.Handler {
		return adminAuthMiddleware(h.adminSecret, logger, hf)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/v1/intake", h.ProcessBatch)
	mux.Handle("GET /api/v1/secrets", admin(h.ListSecrets))
	mux.Handle("POST /api/v1/secrets", admin(h.AddSecret))
	mux.Handle("PUT /api/v1/secrets/active", admin(h.SetActiveSecrets))
	mux.HandleFunc("GET /api/v1/health", h.Health)

	// Recovery innermost so panics are caught before logging.
	wrapped := recoveryMiddleware(logger, mux)
	wrapped = loggingMiddleware(logger, wrapped)
	wrapped = requestIDMiddleware(wrapped)

	return wrapped
}

// intakeRequest is the body of POST /api/v1/intake.
type intakeRequest struct {
	Images []struct {
		Filename string `json:"filename"`
		Data     string `json:"data"`
	} `json:"images"`
}

// ProcessBatch runs the CV intake pipeline for a batch of images and
// returns the extracted record.
func (h *Handler) ProcessBatch(w http.ResponseWriter, r *http.Request) {
	var req intakeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(req.Images) == 0 {
		writeError(w, http.StatusBadRequest, "at least one image is required")
		return
	}

	images := make([]application.ImageInput, 0, len(req.Images))
	for _, img := range req.Images {
		if img.Filename == "" || img.Data == "" {
			writeError(w, http.StatusBadRequest, "every image needs a filename and base64 data")
			return
		}
		images = append(images, application.ImageInput{Filename: img.Filename, Base64: img.Data})
	}

	record, err := h.intake.ProcessBatch(r.Context(), images)
	if err != nil {
		h.logger.Error("intake batch failed", "file_count", len(images), "error", err)
		writeFault(w, err)
		return
	}

	writeJSON(w, http.StatusOK, record)
}

// ListSecrets returns every credential with its usage counts.
func (h *Handler) ListSecrets(w http.ResponseWriter, r *http.Request) {
	usages, err := h.credentials.ListWithUsage(r.Context())
	if err != nil {
		h.logger.Error("failed to list credentials", "error", err)
		writeFault(w, err)
		return
	}

	resp := make([]credentialResponse, 0, len(usages))
	for _, u := range usages {
		resp = append(resp, toCredentialResponse(u))
	}

	writeJSON(w, http.StatusOK, resp)
}

// addSecretRequest is the body of POST /api/v1/secrets.
type addSecretRequest struct {
	Name   string `json:"name"`
	Secret string `json:"secret"`
	Type   string `json:"type"`
}

// AddSecret inserts a new (inactive) credential.
func (h *Handler) AddSecret(w http.ResponseWriter, r *http.Request) {
	var req addSecretRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name == "" || req.Secret == "" {
		writeError(w, http.StatusBadRequest, "name and secret are required")
		return
	}
	typ := model.CredentialType(req.Type)
	if !typ.Valid() {
		writeError(w, http.StatusBadRequest, "unknown credential type")
		return
	}

	cred, err := h.credentials.Add(r.Context(), req.Name, req.Secret, typ)
	if err != nil {
		h.logger.Error("failed to add credential", "name", req.Name, "type", req.Type, "error", err)
		writeFault(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toCredentialResponse(model.CredentialUsage{Credential: cred}))
}

// setActiveRequest is the body of PUT /api/v1/secrets/active. It must
// carry the complete desired active state: the update is a full
// replace, not a per-id patch.
type setActiveRequest struct {
	Selections []struct {
		ID     int64 `json:"id"`
		Active bool  `json:"active"`
	} `json:"selections"`
}

// SetActiveSecrets atomically replaces the active credential set.
func (h *Handler) SetActiveSecrets(w http.ResponseWriter, r *http.Request) {
	var req setActiveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(req.Selections) == 0 {
		writeError(w, http.StatusBadRequest, "selections are required")
		return
	}

	selections := make([]model.ActiveSelection, 0, len(req.Selections))
	for _, sel := range req.Selections {
		selections = append(selections, model.ActiveSelection{ID: sel.ID, Active: sel.Active})
	}

	if err := h.credentials.SetActiveSet(r.Context(), selections); err != nil {
		h.logger.Error("failed to update active credentials", "error", err)
		writeFault(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Health reports process liveness.
func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
