package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/Dan9191/hypo-service/internal/models"
	"github.com/Dan9191/hypo-service/internal/service"
	"github.com/Dan9191/hypo-service/internal/wizard"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

const maxBodyBytes = 64 << 10

type Handler struct {
	svc *service.Service
	log *logrus.Logger
}

func NewHandler(svc *service.Service, log *logrus.Logger) *Handler {
	return &Handler{svc: svc, log: log}
}

// Register mounts the API routes. leadMW wraps the lead submission route.
func (h *Handler) Register(r *mux.Router, leadMW ...mux.MiddlewareFunc) {
	r.HandleFunc("/healthz", h.Health).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/towns", h.Towns).Methods(http.MethodGet)
	api.HandleFunc("/calculate", h.Calculate).Methods(http.MethodPost)
	api.HandleFunc("/classic", h.Classic).Methods(http.MethodPost)
	api.HandleFunc("/wizard", h.Wizard).Methods(http.MethodPost)

	var lead http.Handler = http.HandlerFunc(h.SendLead)
	for i := len(leadMW) - 1; i >= 0; i-- {
		lead = leadMW[i](lead)
	}
	api.Handle("/send-lead", lead).Methods(http.MethodPost)
}

// Health reports liveness and the age of the market data
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	snap := h.svc.Snapshot()
	h.writeJSON(w, http.StatusOK, map[string]string{
		"status":         "ok",
		"marketLoadedAt": snap.LoadedAt.Format(time.RFC3339),
	})
}

// Towns lists regions, towns and property categories
func (h *Handler) Towns(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.svc.Catalog())
}

// Calculate handles an affordability calculation
func (h *Handler) Calculate(w http.ResponseWriter, r *http.Request) {
	var req service.AffordabilityRequest
	if !h.decode(w, r, &req) {
		return
	}

	res, err := h.svc.Calculate(req)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, res)
}

// Classic handles the desired-loan calculator
func (h *Handler) Classic(w http.ResponseWriter, r *http.Request) {
	var req service.ClassicRequest
	if !h.decode(w, r, &req) {
		return
	}

	res, err := h.svc.Classic(req)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, res)
}

type wizardRequest struct {
	State *wizard.State `json:"state"`
	Event wizard.Event  `json:"event"`
}

// Wizard applies one wizard event. A missing state starts a new wizard.
func (h *Handler) Wizard(w http.ResponseWriter, r *http.Request) {
	var req wizardRequest
	if !h.decode(w, r, &req) {
		return
	}

	state := wizard.Initial()
	if req.State != nil {
		state = *req.State
	}

	next, err := h.svc.AdvanceWizard(state, req.Event)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, next)
}

// SendLead handles lead submission
func (h *Handler) SendLead(w http.ResponseWriter, r *http.Request) {
	var req models.LeadRequest
	if !h.decode(w, r, &req) {
		return
	}

	lead, err := h.svc.SubmitLead(r.Context(), req)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]any{"success": true, "id": lead.ID.String()})
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		h.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return false
	}
	return true
}

var clientErrors = []error{
	service.ErrInvalidInput,
	service.ErrUnknownTown,
	service.ErrUnknownCategory,
	service.ErrMissingContact,
	service.ErrInvalidLeadType,
	service.ErrInvalidEmail,
	wizard.ErrInvalidTransition,
	wizard.ErrInvalidValue,
}

// clientMessages replaces the error text for errors the UI shows verbatim
var clientMessages = map[error]string{
	service.ErrMissingContact: "Missing contact info",
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	for _, target := range clientErrors {
		if errors.Is(err, target) {
			msg, ok := clientMessages[target]
			if !ok {
				msg = err.Error()
			}
			h.writeJSON(w, http.StatusBadRequest, map[string]string{"error": msg})
			return
		}
	}
	h.log.Errorf("Request failed: %v", err)
	h.writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Internal Server Error"})
}

// writeJSON encodes v before writing the status. A value that cannot be
// encoded is answered with 500.
func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		h.log.Errorf("Failed to encode response: %v", err)
		status = http.StatusInternalServerError
		body = []byte(`{"error":"Internal Server Error"}`)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(append(body, '\n')); err != nil {
		h.log.Debugf("Failed to write response: %v", err)
	}
}
