package httpapi

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	appAccess "github.com/YakRoboticsGarage/yakrover-backend/internal/application/access"
	appPayment "github.com/YakRoboticsGarage/yakrover-backend/internal/application/payment"
	appRegistry "github.com/YakRoboticsGarage/yakrover-backend/internal/application/registry"
	appRobotctl "github.com/YakRoboticsGarage/yakrover-backend/internal/application/robotctl"
	"github.com/YakRoboticsGarage/yakrover-backend/internal/infrastructure/metrics"
	"github.com/YakRoboticsGarage/yakrover-backend/internal/infrastructure/sse"
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	accessSvc   *appAccess.Service
	robotSvc    *appRobotctl.Service
	registrySvc *appRegistry.Service
	gate        *appPayment.Gate
	sseHub      *sse.Hub
	metrics     *metrics.Metrics
	corsOrigins []string
}

func NewServer(
	accessSvc *appAccess.Service,
	robotSvc *appRobotctl.Service,
	registrySvc *appRegistry.Service,
	gate *appPayment.Gate,
	sseHub *sse.Hub,
	m *metrics.Metrics,
	corsOrigins []string,
) *Server {
	return &Server{
		accessSvc:   accessSvc,
		robotSvc:    robotSvc,
		registrySvc: registrySvc,
		gate:        gate,
		sseHub:      sseHub,
		metrics:     m,
		corsOrigins: corsOrigins,
	}
}

// Router builds the HTTP router.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.corsOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Wallet-Address", "X-Payment"},
		ExposedHeaders:   []string{"X-Payment-Response"},
		AllowCredentials: true,
	}))

	r.Get("/health", s.health)
	r.Method(http.MethodGet, "/metrics", s.metrics.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/access", func(r chi.Router) {
			// The events stream stays outside the timeout group.
			r.Get("/events", s.eventsEndpoint)
			r.Group(func(r chi.Router) {
				r.Use(middleware.Timeout(60 * time.Second))
				r.Post("/purchase", s.purchaseAccess)
				r.Get("/status", s.accessStatus)
				r.Post("/release", s.releaseAccess)
				r.Get("/config", s.accessConfig)
			})
		})

		r.Route("/robot", func(r chi.Router) {
			r.Use(middleware.Timeout(30 * time.Second))
			r.Get("/status", s.robotStatus)
			r.Group(func(r chi.Router) {
				r.Use(s.requireSession)
				r.Get("/motor/{command}", s.motorCommand)
				r.Get("/camera/frame", s.cameraFrame)
			})
		})

		r.Route("/robots", func(r chi.Router) {
			r.Use(middleware.Timeout(30 * time.Second))
			r.Post("/", s.createRobot)
			r.Get("/", s.listRobots)
			r.Get("/{robotId}", s.getRobot)
			r.Patch("/{robotId}", s.updateRobot)
			r.Delete("/{robotId}", s.deleteRobot)
		})
	})

	return r
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":          "healthy",
		"payment_enabled": s.gate.Enabled(),
	})
}

// Helpers
func respondJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, map[string]interface{}{
		"error":   code,
		"message": message,
	})
}

func decodeBody(r *http.Request, v interface{}) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}
