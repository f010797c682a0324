package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/careslot/backend/internal/domain/entities"
	"github.com/careslot/backend/internal/infrastructure/observability"
)

// AppointmentService defines the interface for appointment operations
type AppointmentService interface {
	Appointments() []entities.Appointment
	BookAppointment(ctx context.Context, appointment entities.Appointment) (entities.Appointment, error)
	UpdateAppointment(ctx context.Context, id string, patch entities.AppointmentPatch) error
	DeleteAppointment(ctx context.Context, id string) error
	RefreshFromStorage(ctx context.Context)
}

// AppointmentHandler handles appointment requests
type AppointmentHandler struct {
	service    AppointmentService
	windowDays int
	metrics    *observability.Metrics
}

// NewAppointmentHandler creates a new appointment handler. windowDays bounds
// how far ahead a booking date may lie; metrics may be nil.
func NewAppointmentHandler(service AppointmentService, windowDays int, metrics *observability.Metrics) *AppointmentHandler {
	return &AppointmentHandler{
		service:    service,
		windowDays: windowDays,
		metrics:    metrics,
	}
}

// ListAppointments handles GET /api/appointments
func (h *AppointmentHandler) ListAppointments(w http.ResponseWriter, r *http.Request) {
	appointments := h.service.Appointments()
	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"appointments": appointments,
		"count":        len(appointments),
	})
}

// BookAppointment handles POST /api/appointments
func (h *AppointmentHandler) BookAppointment(w http.ResponseWriter, r *http.Request) {
	var appointment entities.Appointment
	if err := json.NewDecoder(r.Body).Decode(&appointment); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	if appointment.DoctorID == "" || appointment.PatientName == "" || appointment.PatientPhone == "" ||
		appointment.Date == "" || appointment.Time == "" {
		respondWithError(w, http.StatusBadRequest, "doctorId, patientName, patientPhone, date and time are required")
		return
	}

	date, err := time.Parse(entities.DateLayout, appointment.Date)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid date format (use YYYY-MM-DD)")
		return
	}

	// Booking window: [today, today+windowDays], compared on calendar dates
	today, _ := time.Parse(entities.DateLayout, time.Now().Format(entities.DateLayout))
	if date.Before(today) || date.After(today.AddDate(0, 0, h.windowDays)) {
		respondWithError(w, http.StatusBadRequest, "date is outside the booking window")
		return
	}

	booked, err := h.service.BookAppointment(r.Context(), appointment)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	if h.metrics != nil {
		h.metrics.BookingCount.Add(r.Context(), 1, metric.WithAttributes(
			attribute.String("specialization", booked.Specialization),
		))
	}

	respondWithJSON(w, http.StatusCreated, booked)
}

// UpdateAppointment handles PATCH /api/appointments/{id}
func (h *AppointmentHandler) UpdateAppointment(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		respondWithError(w, http.StatusBadRequest, "appointment ID is required")
		return
	}

	var patch entities.AppointmentPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	// The store trusts its caller on status changes, so the transition table
	// is enforced here
	if patch.Status != nil {
		for _, a := range h.service.Appointments() {
			if a.ID != id {
				continue
			}
			if !entities.CanTransition(a.Status, *patch.Status) {
				respondWithError(w, http.StatusBadRequest, "invalid status transition")
				return
			}
			break
		}
	}

	if err := h.service.UpdateAppointment(r.Context(), id, patch); err != nil {
		respondWithAppError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

// DeleteAppointment handles DELETE /api/appointments/{id}
func (h *AppointmentHandler) DeleteAppointment(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		respondWithError(w, http.StatusBadRequest, "appointment ID is required")
		return
	}

	if err := h.service.DeleteAppointment(r.Context(), id); err != nil {
		respondWithAppError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// Refresh handles POST /api/refresh. Clients call it when a view regains
// focus or becomes visible, mirroring the reconciliation points of the
// original browser demo.
func (h *AppointmentHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	h.service.RefreshFromStorage(r.Context())
	w.WriteHeader(http.StatusNoContent)
}
