package routes

import (
	"net/http"

	"github.com/careslot/backend/internal/api/handlers"
	"github.com/careslot/backend/internal/api/middleware"
	"github.com/careslot/backend/internal/domain/entities"
	"github.com/careslot/backend/internal/infrastructure/observability"
)

// Router holds all route handlers
type Router struct {
	mux *http.ServeMux

	doctorHandler      *handlers.DoctorHandler
	appointmentHandler *handlers.AppointmentHandler
	sessionHandler     *handlers.SessionHandler
	sseHandler         *handlers.SSEHandler

	sessions middleware.SessionReader
	metrics  *observability.Metrics
}

// NewRouter creates a new router
func NewRouter(
	doctorHandler *handlers.DoctorHandler,
	appointmentHandler *handlers.AppointmentHandler,
	sessionHandler *handlers.SessionHandler,
	sseHandler *handlers.SSEHandler,
	sessions middleware.SessionReader,
	metrics *observability.Metrics,
) *Router {
	return &Router{
		mux:                http.NewServeMux(),
		doctorHandler:      doctorHandler,
		appointmentHandler: appointmentHandler,
		sessionHandler:     sessionHandler,
		sseHandler:         sseHandler,
		sessions:           sessions,
		metrics:            metrics,
	}
}

// SetupRoutes registers all routes and returns the wrapped handler
func (r *Router) SetupRoutes() http.Handler {
	adminOnly := middleware.RequireRole(r.sessions, entities.RoleAdmin)

	// Session
	r.mux.HandleFunc("POST /api/session", r.sessionHandler.Login)
	r.mux.HandleFunc("GET /api/session", r.sessionHandler.Current)
	r.mux.HandleFunc("DELETE /api/session", r.sessionHandler.Logout)

	// Doctors: reads are open, writes are admin-only
	r.mux.HandleFunc("GET /api/catalog", r.doctorHandler.GetCatalog)
	r.mux.HandleFunc("GET /api/doctors", r.doctorHandler.ListDoctors)
	r.mux.HandleFunc("GET /api/doctors/{id}/availability", r.doctorHandler.GetAvailability)
	r.mux.Handle("POST /api/doctors", adminOnly(http.HandlerFunc(r.doctorHandler.CreateDoctor)))
	r.mux.Handle("PATCH /api/doctors/{id}", adminOnly(http.HandlerFunc(r.doctorHandler.UpdateDoctor)))
	r.mux.Handle("DELETE /api/doctors/{id}", adminOnly(http.HandlerFunc(r.doctorHandler.DeleteDoctor)))

	// Appointments: booking is the patient action, edits are admin-only
	r.mux.HandleFunc("GET /api/appointments", r.appointmentHandler.ListAppointments)
	r.mux.HandleFunc("POST /api/appointments", r.appointmentHandler.BookAppointment)
	r.mux.Handle("PATCH /api/appointments/{id}", adminOnly(http.HandlerFunc(r.appointmentHandler.UpdateAppointment)))
	r.mux.Handle("DELETE /api/appointments/{id}", adminOnly(http.HandlerFunc(r.appointmentHandler.DeleteAppointment)))

	// Reconciliation and live updates
	r.mux.HandleFunc("POST /api/refresh", r.appointmentHandler.Refresh)
	r.mux.HandleFunc("GET /api/stream/updates", r.sseHandler.StreamUpdates)

	r.mux.HandleFunc("GET /health", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	var handler http.Handler = r.mux
	if r.metrics != nil {
		handler = middleware.ObservabilityMiddleware(r.metrics)(handler)
	}
	handler = middleware.LoggingMiddleware(handler)
	handler = middleware.CORSMiddleware(handler)
	return handler
}
