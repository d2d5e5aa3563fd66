package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/redmonkez12/family-health-api/internal/auth"
	"github.com/redmonkez12/family-health-api/internal/config"
	"github.com/redmonkez12/family-health-api/internal/familymember"
	"github.com/redmonkez12/family-health-api/internal/healthindicator"
	"github.com/redmonkez12/family-health-api/internal/httputil"
	"github.com/redmonkez12/family-health-api/internal/logging"
	"github.com/redmonkez12/family-health-api/internal/medicalrecord"
	"github.com/redmonkez12/family-health-api/internal/prescription"
	"github.com/redmonkez12/family-health-api/internal/ratelimit"
)

// Handlers groups everything the router mounts.
type Handlers struct {
	Auth             *auth.Handler
	FamilyMembers    *familymember.Handler
	MedicalRecords   *medicalrecord.Handler
	Prescriptions    *prescription.Handler
	HealthIndicators *healthindicator.Handler
}

// NewRouter creates and configures the HTTP router
func NewRouter(
	cfg *config.Config,
	h Handlers,
	authMiddleware *auth.Middleware,
	limiter ratelimit.Limiter,
	responder *httputil.Responder,
	logger *logging.Logger,
) *chi.Mux {
	r := chi.NewRouter()

	// CORS - must be first
	if len(cfg.Server.TrustedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   cfg.Server.TrustedOrigins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
			ExposedHeaders:   []string{"Content-Length"},
			AllowCredentials: false,
			MaxAge:           300, // 5 minutes
		}))
	}

	// Global middleware
	r.Use(SecurityHeaders(!cfg.Server.IsDevelopment())) // Security headers on all responses
	r.Use(middleware.Recoverer)                         // Recover from panics
	r.Use(middleware.RequestID)                         // Add request ID
	r.Use(ratelimit.KeepPeer)                           // Remember the socket peer for rate limiting
	r.Use(middleware.RealIP)                            // Set RemoteAddr to real IP
	r.Use(logging.RequestLogger(logger))                // Structured logging with request context
	r.Use(middleware.Compress(5))                       // Compress responses

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		httputil.RespondErrorWithCode(w, "route not found", "ROUTE_NOT_FOUND", http.StatusNotFound)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		httputil.RespondErrorWithCode(w, "method not allowed", "METHOD_NOT_ALLOWED", http.StatusMethodNotAllowed)
	})

	// Public routes
	r.Get("/health", handleHealth)

	// Swagger UI - only in development
	if cfg.Server.IsDevelopment() {
		logger.Info("Swagger UI enabled at /swagger/index.html")
		r.Get("/swagger/doc.json", serveOpenAPI)
		r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))
	} else {
		logger.Info("Swagger UI disabled (production mode)")
	}

	clients := ratelimit.NewClientAddr(cfg.RateLimit.TrustedProxies)
	r.Route("/api", func(r chi.Router) {
		// Auth routes (public, rate limited)
		r.Route("/auth", func(r chi.Router) {
			r.With(ratelimit.Middleware(limiter, "register", clients, responder)).Post("/register", h.Auth.Register)
			r.With(ratelimit.Middleware(limiter, "login", clients, responder)).Post("/login", h.Auth.Login)
			r.With(authMiddleware.RequireAuth).Get("/me", h.Auth.Me)
		})

		// Protected routes (require authentication)
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.RequireAuth)

			r.Route("/family-members", func(r chi.Router) {
				r.Get("/", h.FamilyMembers.List)
				r.Post("/", h.FamilyMembers.Create)

				r.Route("/{"+httputil.ParamFamilyMemberID+"}", func(r chi.Router) {
					r.Get("/", h.FamilyMembers.Get)
					r.Put("/", h.FamilyMembers.Update)
					r.Patch("/", h.FamilyMembers.Update)
					r.Delete("/", h.FamilyMembers.Delete)

					mountScoped(r, "/medical-records", httputil.ParamRecordID, h.MedicalRecords)
					mountScoped(r, "/prescriptions", httputil.ParamPrescriptionID, h.Prescriptions)
					mountScoped(r, "/health-indicators", httputil.ParamIndicatorID, h.HealthIndicators)
				})
			})
		})
	})

	return r
}

// scopedHandler is the handler surface shared by the resources nested under a
// family member.
type scopedHandler interface {
	List(http.ResponseWriter, *http.Request)
	Create(http.ResponseWriter, *http.Request)
	Get(http.ResponseWriter, *http.Request)
	Update(http.ResponseWriter, *http.Request)
	Delete(http.ResponseWriter, *http.Request)
}

func mountScoped(r chi.Router, path, idParam string, h scopedHandler) {
	r.Route(path, func(r chi.Router) {
		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Route("/{"+idParam+"}", func(r chi.Router) {
			r.Get("/", h.Get)
			r.Put("/", h.Update)
			r.Patch("/", h.Update)
			r.Delete("/", h.Delete)
		})
	})
}

// handleHealth is a simple health check endpoint
// @Summary      Health check
// @Description  Check if the API is running
// @Tags         health
// @Produce      json
// @Success      200 {object} map[string]string
// @Router       /health [get]
func handleHealth(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, map[string]string{"status": "ok", "message": "family health api is running"}, http.StatusOK)
}
