package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"personalinfo/internal/personalinfo/form"
	"personalinfo/internal/personalinfo/metrics"
	"personalinfo/internal/personalinfo/models"
	"personalinfo/internal/personalinfo/validator"
	"personalinfo/pkg/requestcontext"
)

// DateLayout is the wire format of date_of_birth.
const DateLayout = "2006-01-02"

// Handler exposes the personal info form over JSON.
type Handler struct {
	store   form.Store
	logger  *slog.Logger
	metrics *metrics.Metrics
}

// New creates a new personal info Handler.
func New(store form.Store, logger *slog.Logger, metrics *metrics.Metrics) *Handler {
	return &Handler{
		store:   store,
		logger:  logger,
		metrics: metrics,
	}
}

// Register registers the personal info routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	r.Route("/personal-info", func(r chi.Router) {
		r.Get("/", h.handleGet)
		r.Put("/", h.handleSave)
		r.Post("/email/validate", h.handleValidateEmail)
	})
}

type personalInfoPayload struct {
	Name        string `json:"name"`
	DateOfBirth string `json:"date_of_birth"`
	Email       string `json:"email"`
}

type validateEmailRequest struct {
	Email string `json:"email"`
}

type validateEmailResponse struct {
	Valid bool `json:"valid"`
}

type errorResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description,omitempty"`
}

func toPayload(r models.Record) personalInfoPayload {
	return personalInfoPayload{
		Name:        r.Name(),
		DateOfBirth: r.DateOfBirth().Format(DateLayout),
		Email:       r.Email(),
	}
}

func (h *Handler) newForm() *form.Form {
	return form.New(h.store, form.WithLogger(h.logger), form.WithMetrics(h.metrics))
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	f := h.newForm()
	record := f.Load(r.Context())
	h.writeJSON(w, r, http.StatusOK, toPayload(record))
}

func (h *Handler) handleSave(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req personalInfoPayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, r, http.StatusBadRequest, "bad_request", "malformed JSON body")
		return
	}
	dob, err := time.Parse(DateLayout, req.DateOfBirth)
	if err != nil {
		h.writeError(w, r, http.StatusBadRequest, "bad_request", "date_of_birth must be YYYY-MM-DD")
		return
	}

	f := h.newForm()
	f.SetName(req.Name)
	f.SetDateOfBirth(dob.Year(), dob.Month(), dob.Day())
	f.SetEmail(req.Email)

	record, err := f.Save(ctx)
	switch {
	case errors.Is(err, form.ErrInvalidEmail):
		h.writeError(w, r, http.StatusUnprocessableEntity, "invalid_email", "Invalid email")
		return
	case errors.Is(err, form.ErrSaveFailed):
		h.writeError(w, r, http.StatusServiceUnavailable, "save_failed", "Failed to write personal information")
		return
	case err != nil:
		h.writeError(w, r, http.StatusInternalServerError, "internal_error", "")
		return
	}
	h.writeJSON(w, r, http.StatusOK, toPayload(record))
}

func (h *Handler) handleValidateEmail(w http.ResponseWriter, r *http.Request) {
	var req validateEmailRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, r, http.StatusBadRequest, "bad_request", "malformed JSON body")
		return
	}
	h.writeJSON(w, r, http.StatusOK, validateEmailResponse{Valid: validator.IsValidEmail(req.Email)})
}

func (h *Handler) writeJSON(w http.ResponseWriter, r *http.Request, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil && h.logger != nil {
		ctx := r.Context()
		h.logger.ErrorContext(ctx, "failed to write response",
			"error", err,
			"request_id", requestcontext.RequestID(ctx),
		)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, status int, code, description string) {
	h.writeJSON(w, r, status, errorResponse{Error: code, ErrorDescription: description})
}
