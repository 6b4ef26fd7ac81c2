package identity

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mediconnect/omnichannel-platform/internal/events"
	"github.com/mediconnect/omnichannel-platform/pkg/logging"
)

// Handler exposes the identity operations over HTTP.
type Handler struct {
	service    *Service
	publisher  events.Publisher
	cookieName string
	logger     *logging.Logger
}

// NewHandler creates an identity handler. The cookie only references
// the durable session; the session itself lives in the store.
func NewHandler(service *Service, publisher events.Publisher, cookieName string, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{
		service:    service,
		publisher:  publisher,
		cookieName: cookieName,
		logger:     logger,
	}
}

type loginRequest struct {
	Email  string `json:"email"`
	Secret string `json:"senha"`
}

type sessionResponse struct {
	User *User `json:"user"`
}

// Register handles POST /auth/register.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error("failed to decode register request", "error", err)
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	user, err := h.service.Register(r.Context(), req)
	if err != nil {
		h.writeRegisterError(w, err)
		return
	}

	h.publish(r.Context(), events.Event{
		Type:  events.TypePatientRegistered,
		Actor: user.Name,
	})

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(sessionResponse{User: user})
}

// Login handles POST /auth/login.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error("failed to decode login request", "error", err)
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	user, err := h.service.Authenticate(r.Context(), req.Email, req.Secret)
	if err != nil {
		h.logger.Error("authentication errored", "error", err)
		http.Error(w, "authentication unavailable", http.StatusInternalServerError)
		return
	}
	if user == nil {
		// One message for both unknown e-mail and wrong secret.
		http.Error(w, "E-mail ou senha incorretos", http.StatusUnauthorized)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     h.cookieName,
		Value:    user.ID,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	h.publish(r.Context(), events.Event{
		Type:  events.TypeSessionStarted,
		Actor: user.Name,
	})

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(sessionResponse{User: user})
}

// Session handles GET /auth/session.
func (h *Handler) Session(w http.ResponseWriter, r *http.Request) {
	user, err := h.service.CurrentSession(r.Context())
	if err != nil {
		h.logger.Error("failed to load session", "error", err)
		http.Error(w, "session unavailable", http.StatusInternalServerError)
		return
	}
	if user == nil {
		http.Error(w, "no active session", http.StatusUnauthorized)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(sessionResponse{User: user})
}

// Logout handles POST /auth/logout.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	user, err := h.service.CurrentSession(r.Context())
	if err != nil {
		h.logger.Error("failed to load session", "error", err)
		http.Error(w, "session unavailable", http.StatusInternalServerError)
		return
	}

	if err := h.service.Logout(r.Context()); err != nil {
		h.logger.Error("failed to clear session", "error", err)
		http.Error(w, "logout failed", http.StatusInternalServerError)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     h.cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	if user != nil {
		h.publish(r.Context(), events.Event{
			Type:  events.TypeSessionEnded,
			Actor: user.Name,
		})
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) writeRegisterError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrEmailTaken):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, ErrPasswordMismatch),
		errors.Is(err, ErrInvalidNationalID),
		errors.Is(err, ErrMissingName),
		errors.Is(err, ErrMissingEmail):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		h.logger.Error("registration errored", "error", err)
		http.Error(w, "registration unavailable", http.StatusInternalServerError)
	}
}

func (h *Handler) publish(ctx context.Context, evt events.Event) {
	if h.publisher == nil {
		return
	}
	if err := h.publisher.Publish(ctx, evt); err != nil {
		h.logger.Warn("failed to publish event", "type", evt.Type, "error", err)
	}
}
