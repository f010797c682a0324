package entities

import (
	"time"
)

// AppointmentStatus represents the status of an appointment
type AppointmentStatus string

const (
	AppointmentStatusPending   AppointmentStatus = "pending"
	AppointmentStatusConfirmed AppointmentStatus = "confirmed"
	AppointmentStatusCompleted AppointmentStatus = "completed"
	AppointmentStatusCancelled AppointmentStatus = "cancelled"
)

// DateLayout is the calendar-date format used on appointments ("2025-06-01").
const DateLayout = "2006-01-02"

// Appointment represents a booked slot on a doctor's calendar. DoctorName and
// Specialization are denormalized at booking time so lists render without a join.
type Appointment struct {
	ID             string            `json:"id"`
	DoctorID       string            `json:"doctorId"`
	DoctorName     string            `json:"doctorName,omitempty"`
	Specialization string            `json:"specialization,omitempty"`
	PatientName    string            `json:"patientName"`
	PatientPhone   string            `json:"patientPhone"`
	PatientEmail   string            `json:"patientEmail,omitempty"`
	Date           string            `json:"date"`
	Time           string            `json:"time"`
	Status         AppointmentStatus `json:"status"`
	CreatedAt      time.Time         `json:"createdAt"`
}

// OccupiesSlot reports whether the appointment still holds its (doctor, date, time)
// slot. Cancelled appointments release the slot.
func (a Appointment) OccupiesSlot() bool {
	return a.Status != AppointmentStatusCancelled
}

// statusTransitions is the allowed status machine. Completed and cancelled are terminal.
var statusTransitions = map[AppointmentStatus][]AppointmentStatus{
	AppointmentStatusPending:   {AppointmentStatusConfirmed, AppointmentStatusCancelled},
	AppointmentStatusConfirmed: {AppointmentStatusCompleted, AppointmentStatusCancelled},
}

// CanTransition reports whether an appointment may move from one status to another.
func CanTransition(from, to AppointmentStatus) bool {
	for _, next := range statusTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// AppointmentPatch carries a partial appointment update; nil fields are left untouched.
type AppointmentPatch struct {
	Status       *AppointmentStatus `json:"status"`
	Date         *string            `json:"date"`
	Time         *string            `json:"time"`
	PatientName  *string            `json:"patientName"`
	PatientPhone *string            `json:"patientPhone"`
	PatientEmail *string            `json:"patientEmail"`
}
