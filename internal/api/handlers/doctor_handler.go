package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/careslot/backend/internal/domain/entities"
)

// DoctorService defines the interface for doctor catalog operations
type DoctorService interface {
	Doctors() []entities.Doctor
	AddDoctor(ctx context.Context, doctor entities.Doctor) entities.Doctor
	UpdateDoctor(ctx context.Context, id string, patch entities.DoctorPatch) error
	DeleteDoctor(ctx context.Context, id string) error
	GetAvailableSlots(ctx context.Context, doctorID, date string) []string
}

// DoctorHandler handles doctor requests
type DoctorHandler struct {
	service DoctorService
}

// NewDoctorHandler creates a new doctor handler
func NewDoctorHandler(service DoctorService) *DoctorHandler {
	return &DoctorHandler{
		service: service,
	}
}

// ListDoctors handles GET /api/doctors
func (h *DoctorHandler) ListDoctors(w http.ResponseWriter, r *http.Request) {
	doctors := h.service.Doctors()
	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"doctors": doctors,
		"count":   len(doctors),
	})
}

// CreateDoctor handles POST /api/doctors
func (h *DoctorHandler) CreateDoctor(w http.ResponseWriter, r *http.Request) {
	var doctor entities.Doctor
	if err := json.NewDecoder(r.Body).Decode(&doctor); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	// Required-field checks live here, not in the store
	if doctor.Name == "" || doctor.Email == "" || doctor.Phone == "" {
		respondWithError(w, http.StatusBadRequest, "name, email and phone are required")
		return
	}
	if !entities.IsValidSpecialization(doctor.Specialization) {
		respondWithError(w, http.StatusBadRequest, "unknown specialization")
		return
	}
	if doctor.Experience < 0 {
		respondWithError(w, http.StatusBadRequest, "experience must be non-negative")
		return
	}

	created := h.service.AddDoctor(r.Context(), doctor)
	respondWithJSON(w, http.StatusCreated, created)
}

// UpdateDoctor handles PATCH /api/doctors/{id}
func (h *DoctorHandler) UpdateDoctor(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		respondWithError(w, http.StatusBadRequest, "doctor ID is required")
		return
	}

	var patch entities.DoctorPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	if patch.Specialization != nil && !entities.IsValidSpecialization(*patch.Specialization) {
		respondWithError(w, http.StatusBadRequest, "unknown specialization")
		return
	}

	if err := h.service.UpdateDoctor(r.Context(), id, patch); err != nil {
		respondWithAppError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

// DeleteDoctor handles DELETE /api/doctors/{id}
func (h *DoctorHandler) DeleteDoctor(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		respondWithError(w, http.StatusBadRequest, "doctor ID is required")
		return
	}

	if err := h.service.DeleteDoctor(r.Context(), id); err != nil {
		respondWithAppError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// GetAvailability handles GET /api/doctors/{id}/availability?date=2006-01-02
func (h *DoctorHandler) GetAvailability(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		respondWithError(w, http.StatusBadRequest, "doctor ID is required")
		return
	}

	date := r.URL.Query().Get("date")
	if date == "" {
		respondWithError(w, http.StatusBadRequest, "date query parameter is required")
		return
	}
	if _, err := time.Parse(entities.DateLayout, date); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid date format (use YYYY-MM-DD)")
		return
	}

	slots := h.service.GetAvailableSlots(r.Context(), id, date)
	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"slots": slots,
	})
}

// GetCatalog handles GET /api/catalog. It exposes the fixed specialization
// labels and the standard slot set so clients don't hard-code them.
func (h *DoctorHandler) GetCatalog(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"specializations": entities.Specializations,
		"timeSlots":       entities.StandardTimeSlots,
	})
}
