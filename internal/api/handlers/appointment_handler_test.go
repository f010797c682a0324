package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/careslot/backend/internal/domain/entities"
	apperrors "github.com/careslot/backend/pkg/errors"
)

// stubAppointmentService implements AppointmentService with canned data
type stubAppointmentService struct {
	appointments []entities.Appointment
	bookErr      error
	updateErr    error
	deleteErr    error

	updatedPatch *entities.AppointmentPatch
	refreshed    bool
}

func (s *stubAppointmentService) Appointments() []entities.Appointment {
	return s.appointments
}

func (s *stubAppointmentService) BookAppointment(ctx context.Context, appointment entities.Appointment) (entities.Appointment, error) {
	if s.bookErr != nil {
		return entities.Appointment{}, s.bookErr
	}
	appointment.ID = fmt.Sprintf("appt-%d", len(s.appointments)+1)
	appointment.Status = entities.AppointmentStatusConfirmed
	appointment.CreatedAt = time.Now()
	s.appointments = append(s.appointments, appointment)
	return appointment, nil
}

func (s *stubAppointmentService) UpdateAppointment(ctx context.Context, id string, patch entities.AppointmentPatch) error {
	s.updatedPatch = &patch
	return s.updateErr
}

func (s *stubAppointmentService) DeleteAppointment(ctx context.Context, id string) error {
	return s.deleteErr
}

func (s *stubAppointmentService) RefreshFromStorage(ctx context.Context) {
	s.refreshed = true
}

func bookingPayload(date string) string {
	return fmt.Sprintf(`{"doctorId":"d1","patientName":"Pat","patientPhone":"+1-555-0002",
		"date":"%s","time":"09:00 AM"}`, date)
}

func TestAppointmentHandler_ListAppointments(t *testing.T) {
	handler := NewAppointmentHandler(&stubAppointmentService{appointments: []entities.Appointment{
		{ID: "a1", DoctorID: "d1", Status: entities.AppointmentStatusConfirmed},
	}}, 30, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/appointments", nil)
	w := httptest.NewRecorder()
	handler.ListAppointments(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, float64(1), response["count"])
}

func TestAppointmentHandler_BookAppointment(t *testing.T) {
	today := time.Now().Format(entities.DateLayout)
	yesterday := time.Now().AddDate(0, 0, -1).Format(entities.DateLayout)
	windowEdge := time.Now().AddDate(0, 0, 30).Format(entities.DateLayout)
	beyondWindow := time.Now().AddDate(0, 0, 31).Format(entities.DateLayout)

	tests := []struct {
		name         string
		payload      string
		expectedCode int
	}{
		{"books for today", bookingPayload(today), http.StatusCreated},
		{"books at window edge", bookingPayload(windowEdge), http.StatusCreated},
		{"rejects past dates", bookingPayload(yesterday), http.StatusBadRequest},
		{"rejects dates beyond the window", bookingPayload(beyondWindow), http.StatusBadRequest},
		{"rejects bad date format", bookingPayload("06/01/2025"), http.StatusBadRequest},
		{"rejects missing fields", `{"doctorId":"d1"}`, http.StatusBadRequest},
		{"rejects malformed payload", `{not json`, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewAppointmentHandler(&stubAppointmentService{}, 30, nil)

			req := httptest.NewRequest(http.MethodPost, "/api/appointments", bytes.NewBufferString(tt.payload))
			w := httptest.NewRecorder()
			handler.BookAppointment(w, req)

			assert.Equal(t, tt.expectedCode, w.Code)

			if tt.expectedCode == http.StatusCreated {
				var booked entities.Appointment
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &booked))
				assert.NotEmpty(t, booked.ID)
				assert.Equal(t, entities.AppointmentStatusConfirmed, booked.Status)
			}
		})
	}

	t.Run("occupied slot maps to 409", func(t *testing.T) {
		handler := NewAppointmentHandler(&stubAppointmentService{
			bookErr: apperrors.NewConflictError("slot 09:00 AM is not available"),
		}, 30, nil)

		req := httptest.NewRequest(http.MethodPost, "/api/appointments", bytes.NewBufferString(bookingPayload(today)))
		w := httptest.NewRecorder()
		handler.BookAppointment(w, req)

		assert.Equal(t, http.StatusConflict, w.Code)
	})
}

func TestAppointmentHandler_UpdateAppointment(t *testing.T) {
	statusPatch := func(to entities.AppointmentStatus) string {
		return fmt.Sprintf(`{"status":"%s"}`, to)
	}

	tests := []struct {
		name         string
		current      entities.AppointmentStatus
		payload      string
		expectedCode int
	}{
		{"pending to confirmed", entities.AppointmentStatusPending, statusPatch(entities.AppointmentStatusConfirmed), http.StatusOK},
		{"pending to cancelled", entities.AppointmentStatusPending, statusPatch(entities.AppointmentStatusCancelled), http.StatusOK},
		{"confirmed to completed", entities.AppointmentStatusConfirmed, statusPatch(entities.AppointmentStatusCompleted), http.StatusOK},
		{"confirmed to cancelled", entities.AppointmentStatusConfirmed, statusPatch(entities.AppointmentStatusCancelled), http.StatusOK},
		{"pending to completed is invalid", entities.AppointmentStatusPending, statusPatch(entities.AppointmentStatusCompleted), http.StatusBadRequest},
		{"completed is terminal", entities.AppointmentStatusCompleted, statusPatch(entities.AppointmentStatusCancelled), http.StatusBadRequest},
		{"cancelled is terminal", entities.AppointmentStatusCancelled, statusPatch(entities.AppointmentStatusConfirmed), http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := &stubAppointmentService{appointments: []entities.Appointment{
				{ID: "a1", DoctorID: "d1", Status: tt.current},
			}}
			handler := NewAppointmentHandler(service, 30, nil)

			req := httptest.NewRequest(http.MethodPatch, "/api/appointments/a1", bytes.NewBufferString(tt.payload))
			req.SetPathValue("id", "a1")
			w := httptest.NewRecorder()
			handler.UpdateAppointment(w, req)

			assert.Equal(t, tt.expectedCode, w.Code)
			if tt.expectedCode == http.StatusBadRequest {
				assert.Nil(t, service.updatedPatch, "store must not see an invalid transition")
			}
		})
	}

	t.Run("non-status patches skip the transition check", func(t *testing.T) {
		service := &stubAppointmentService{appointments: []entities.Appointment{
			{ID: "a1", DoctorID: "d1", Status: entities.AppointmentStatusCompleted},
		}}
		handler := NewAppointmentHandler(service, 30, nil)

		req := httptest.NewRequest(http.MethodPatch, "/api/appointments/a1", bytes.NewBufferString(`{"patientPhone":"+1-555-0003"}`))
		req.SetPathValue("id", "a1")
		w := httptest.NewRecorder()
		handler.UpdateAppointment(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("missing appointment maps to 404", func(t *testing.T) {
		handler := NewAppointmentHandler(&stubAppointmentService{
			updateErr: apperrors.NewNotFoundError("appointment with id missing not found"),
		}, 30, nil)

		req := httptest.NewRequest(http.MethodPatch, "/api/appointments/missing", bytes.NewBufferString(`{"patientPhone":"1"}`))
		req.SetPathValue("id", "missing")
		w := httptest.NewRecorder()
		handler.UpdateAppointment(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestAppointmentHandler_DeleteAppointment(t *testing.T) {
	t.Run("deletes by id", func(t *testing.T) {
		handler := NewAppointmentHandler(&stubAppointmentService{}, 30, nil)

		req := httptest.NewRequest(http.MethodDelete, "/api/appointments/a1", nil)
		req.SetPathValue("id", "a1")
		w := httptest.NewRecorder()
		handler.DeleteAppointment(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("missing appointment maps to 404", func(t *testing.T) {
		handler := NewAppointmentHandler(&stubAppointmentService{
			deleteErr: apperrors.NewNotFoundError("appointment with id missing not found"),
		}, 30, nil)

		req := httptest.NewRequest(http.MethodDelete, "/api/appointments/missing", nil)
		req.SetPathValue("id", "missing")
		w := httptest.NewRecorder()
		handler.DeleteAppointment(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestAppointmentHandler_Refresh(t *testing.T) {
	service := &stubAppointmentService{}
	handler := NewAppointmentHandler(service, 30, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/refresh", nil)
	w := httptest.NewRecorder()
	handler.Refresh(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.True(t, service.refreshed)
}
