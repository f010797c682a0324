package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	allowed := []struct{ from, to AppointmentStatus }{
		{AppointmentStatusPending, AppointmentStatusConfirmed},
		{AppointmentStatusPending, AppointmentStatusCancelled},
		{AppointmentStatusConfirmed, AppointmentStatusCompleted},
		{AppointmentStatusConfirmed, AppointmentStatusCancelled},
	}
	for _, tr := range allowed {
		assert.True(t, CanTransition(tr.from, tr.to), "%s -> %s should be allowed", tr.from, tr.to)
	}

	denied := []struct{ from, to AppointmentStatus }{
		{AppointmentStatusPending, AppointmentStatusCompleted},
		{AppointmentStatusConfirmed, AppointmentStatusPending},
		{AppointmentStatusCompleted, AppointmentStatusCancelled},
		{AppointmentStatusCompleted, AppointmentStatusConfirmed},
		{AppointmentStatusCancelled, AppointmentStatusConfirmed},
		{AppointmentStatusCancelled, AppointmentStatusPending},
	}
	for _, tr := range denied {
		assert.False(t, CanTransition(tr.from, tr.to), "%s -> %s should be denied", tr.from, tr.to)
	}
}

func TestOccupiesSlot(t *testing.T) {
	for _, status := range []AppointmentStatus{
		AppointmentStatusPending,
		AppointmentStatusConfirmed,
		AppointmentStatusCompleted,
	} {
		assert.True(t, Appointment{Status: status}.OccupiesSlot(), "%s should hold the slot", status)
	}
	assert.False(t, Appointment{Status: AppointmentStatusCancelled}.OccupiesSlot())
}

func TestDedupeSlots(t *testing.T) {
	assert.Equal(t,
		[]string{"09:00 AM", "10:00 AM", "11:00 AM"},
		DedupeSlots([]string{"09:00 AM", "10:00 AM", "09:00 AM", "11:00 AM", "10:00 AM"}))
	assert.Empty(t, DedupeSlots(nil))
}

func TestIsValidSpecialization(t *testing.T) {
	assert.True(t, IsValidSpecialization("ENT"))
	assert.True(t, IsValidSpecialization("General Physician"))
	assert.False(t, IsValidSpecialization("Astrology"))
	assert.False(t, IsValidSpecialization(""))
}
