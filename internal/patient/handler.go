package patient

import (
	"encoding/json"
	"net/http"

	"github.com/mediconnect/omnichannel-platform/internal/identity"
	"github.com/mediconnect/omnichannel-platform/pkg/logging"
)

// Handler exposes the patient dashboard over HTTP. Routes assume the
// session middleware has authenticated a paciente.
type Handler struct {
	service *Service
	logger  *logging.Logger
}

// NewHandler creates a patient handler.
func NewHandler(service *Service, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{service: service, logger: logger}
}

// Dashboard handles GET /patient/dashboard.
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(h.service.Dashboard())
}

// RequestAppointment handles POST /patient/appointments/request.
func (h *Handler) RequestAppointment(w http.ResponseWriter, r *http.Request) {
	user, ok := identity.UserFromContext(r.Context())
	if !ok {
		http.Error(w, "missing session", http.StatusUnauthorized)
		return
	}

	if err := h.service.RequestAppointment(r.Context(), user.Name); err != nil {
		h.logger.Error("appointment request failed", "error", err)
		http.Error(w, "request failed", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusAccepted)
}
