// Package httpapi is the UI-facing surface: a JSON API over chi exposing
// the scheduling operations. Authentication lives in the fronting identity
// proxy, which injects the caller's id as X-User-ID.
package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/vetdesk/vetdesk/internal/service"
	"go.uber.org/zap"
)

type Config struct {
	Logger       *zap.Logger
	Clinics      *service.ClinicService
	Pets         *service.PetService
	Appointments *service.AppointmentService
	Reviews      *service.ReviewService
	Records      *service.RecordService
	Availability *service.AvailabilityChecker

	// MetricsHandler serves /metrics when set (promhttp).
	MetricsHandler http.Handler
}

// New builds the router with all routes configured.
func New(cfg *Config) http.Handler {
	h := &handlers{
		logger:       cfg.Logger,
		clinics:      cfg.Clinics,
		pets:         cfg.Pets,
		appointments: cfg.Appointments,
		reviews:      cfg.Reviews,
		records:      cfg.Records,
		availability: cfg.Availability,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(cfg.Logger))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	if cfg.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", cfg.MetricsHandler)
	}

	r.Route("/clinics", func(r chi.Router) {
		r.Get("/", h.listClinics)
		r.Post("/", h.registerClinic)
		r.Route("/{clinicID}", func(r chi.Router) {
			r.Get("/", h.getClinic)
			r.Get("/working-hours", h.getWorkingHours)
			r.Put("/working-hours", h.setWorkingHours)
			r.Get("/slots", h.listSlots)
			r.Get("/appointments", h.listClinicAppointments)
			r.Get("/reviews", h.listClinicReviews)
		})
	})

	r.Route("/pets", func(r chi.Router) {
		r.Post("/", h.registerPet)
		r.Get("/{petID}/records", h.listPetRecords)
	})

	r.Route("/owners/{ownerID}", func(r chi.Router) {
		r.Get("/pets", h.listOwnerPets)
		r.Get("/appointments", h.listOwnerAppointments)
	})

	r.Route("/appointments", func(r chi.Router) {
		r.Post("/", h.book)
		r.Route("/{appointmentID}", func(r chi.Router) {
			r.Get("/", h.getAppointment)
			r.Post("/approve", h.approve)
			r.Post("/reject", h.reject)
			r.Post("/extend", h.extend)
			r.Post("/cancel", h.cancel)
			r.Post("/complete", h.complete)
			r.Post("/review", h.review)
			r.Post("/record", h.issueRecord)
		})
	})

	return r
}

// requestLogger logs each request with its chi request id.
func requestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			logger.Debug("HTTP request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.String("request_id", middleware.GetReqID(r.Context())),
			)
		})
	}
}
