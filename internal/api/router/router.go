package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/mediconnect/omnichannel-platform/internal/agent"
	httpmiddleware "github.com/mediconnect/omnichannel-platform/internal/http/middleware"
	"github.com/mediconnect/omnichannel-platform/internal/identity"
	"github.com/mediconnect/omnichannel-platform/internal/manager"
	"github.com/mediconnect/omnichannel-platform/internal/notify"
	"github.com/mediconnect/omnichannel-platform/internal/patient"
	"github.com/mediconnect/omnichannel-platform/internal/queue"
	"github.com/mediconnect/omnichannel-platform/pkg/logging"
)

// Config holds router configuration
type Config struct {
	Logger        *logging.Logger
	Sessions      httpmiddleware.SessionReader
	SessionCookie string

	IdentityHandler *identity.Handler
	QueueHandler    *queue.Handler
	AgentHandler    *agent.Handler
	ManagerHandler  *manager.Handler
	PatientHandler  *patient.Handler
	NotifyHandler   *notify.Handler

	MetricsHandler     http.Handler
	CORSAllowedOrigins []string

	// Requests/sec allowed on the auth endpoints per IP; zero disables
	// the limiter.
	AuthRateLimit float64
	AuthRateBurst int
}

// New creates a new Chi router with all routes configured
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}

	// Public endpoints
	r.Group(func(public chi.Router) {
		public.Get("/health", healthCheck)
		if cfg.MetricsHandler != nil {
			public.Method(http.MethodGet, "/metrics", cfg.MetricsHandler)
		}

		public.Route("/auth", func(r chi.Router) {
			if cfg.AuthRateLimit > 0 {
				r.Use(httpmiddleware.RateLimit(cfg.AuthRateLimit, cfg.AuthRateBurst))
			}
			r.Post("/register", cfg.IdentityHandler.Register)
			r.Post("/login", cfg.IdentityHandler.Login)
			r.Get("/session", cfg.IdentityHandler.Session)
			r.Post("/logout", cfg.IdentityHandler.Logout)
		})
	})

	// Agent and manager share read access to the queue.
	r.Group(func(staff chi.Router) {
		staff.Use(httpmiddleware.SessionAuth(cfg.Sessions, cfg.SessionCookie, cfg.Logger,
			identity.RoleAgent, identity.RoleManager))
		staff.Get("/queue", cfg.QueueHandler.List)
		staff.Get("/queue/pending", cfg.QueueHandler.Pending)
		staff.Get("/notifications", cfg.NotifyHandler.List)
	})

	r.Route("/agent", func(r chi.Router) {
		r.Use(httpmiddleware.SessionAuth(cfg.Sessions, cfg.SessionCookie, cfg.Logger,
			identity.RoleAgent))
		r.Get("/session", cfg.AgentHandler.SessionState)
		r.Post("/select", cfg.AgentHandler.Select)
		r.Post("/draft", cfg.AgentHandler.Draft)
		r.Post("/send", cfg.AgentHandler.Send)
		r.Post("/schedule", cfg.AgentHandler.Schedule)
		r.Post("/finalize", cfg.AgentHandler.Finalize)
	})

	r.Route("/manager", func(r chi.Router) {
		r.Use(httpmiddleware.SessionAuth(cfg.Sessions, cfg.SessionCookie, cfg.Logger,
			identity.RoleManager))
		r.Get("/dashboard", cfg.ManagerHandler.Dashboard)
		r.Post("/assume", cfg.ManagerHandler.Assume)
	})

	r.Route("/patient", func(r chi.Router) {
		r.Use(httpmiddleware.SessionAuth(cfg.Sessions, cfg.SessionCookie, cfg.Logger,
			identity.RolePatient))
		r.Get("/dashboard", cfg.PatientHandler.Dashboard)
		r.Post("/appointments/request", cfg.PatientHandler.RequestAppointment)
	})

	return r
}

func healthCheck(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
