package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/careslot/backend/internal/domain/entities"
	"github.com/careslot/backend/internal/domain/providers"
	"github.com/careslot/backend/internal/infrastructure/observability"
	apperrors "github.com/careslot/backend/pkg/errors"
)

// SchedulingService is the single source of truth for doctors and appointments.
// It keeps both collections in memory, mirrors every mutation to the snapshot
// store, and announces each write on the event bus so other contexts can reload.
//
// Persistence failures are logged and swallowed; the in-memory state stays the
// fallback of record. Only missing-ID operations and strict-booking conflicts
// surface errors to callers.
type SchedulingService struct {
	mu           sync.RWMutex
	doctors      []entities.Doctor
	appointments []entities.Appointment

	// bookMu serializes strict bookings end to end, so the reload, the
	// availability check and the commit cannot interleave across requests
	bookMu sync.Mutex

	snapshots providers.SnapshotStore
	bus       providers.EventBus
	strict    bool
	metrics   *observability.Metrics
	// origin identifies this store instance on the bus, so StartSync can tell
	// foreign writes from its own
	origin string

	listenerMu sync.RWMutex
	listeners  []func(*entities.StoreEvent)
}

// NewSchedulingService creates a scheduling store over the given persistence
// medium and event bus, loading both collections immediately. Malformed or
// missing snapshots fall back to empty collections.
func NewSchedulingService(snapshots providers.SnapshotStore, bus providers.EventBus, strictBooking bool) *SchedulingService {
	s := &SchedulingService{
		snapshots: snapshots,
		bus:       bus,
		strict:    strictBooking,
		origin:    uuid.New().String(),
	}

	ctx := context.Background()
	s.doctors = loadDoctors(ctx, snapshots)
	s.appointments = loadAppointments(ctx, snapshots)

	return s
}

func loadDoctors(ctx context.Context, snapshots providers.SnapshotStore) []entities.Doctor {
	doctors := []entities.Doctor{}
	data, err := snapshots.Load(ctx, providers.SnapshotKeyDoctors)
	if err != nil {
		if err != providers.ErrSnapshotNotFound {
			log.Warn().Err(err).Msg("failed to load doctors snapshot, starting empty")
		}
		return doctors
	}
	if err := json.Unmarshal(data, &doctors); err != nil {
		log.Warn().Err(err).Msg("malformed doctors snapshot, starting empty")
		return []entities.Doctor{}
	}
	return doctors
}

func loadAppointments(ctx context.Context, snapshots providers.SnapshotStore) []entities.Appointment {
	appointments := []entities.Appointment{}
	data, err := snapshots.Load(ctx, providers.SnapshotKeyAppointments)
	if err != nil {
		if err != providers.ErrSnapshotNotFound {
			log.Warn().Err(err).Msg("failed to load appointments snapshot, starting empty")
		}
		return appointments
	}
	if err := json.Unmarshal(data, &appointments); err != nil {
		log.Warn().Err(err).Msg("malformed appointments snapshot, starting empty")
		return []entities.Appointment{}
	}
	return appointments
}

// SetMetrics attaches observability metrics; nil leaves recording off
func (s *SchedulingService) SetMetrics(metrics *observability.Metrics) {
	s.metrics = metrics
}

// Doctors returns a copy of the doctor collection
func (s *SchedulingService) Doctors() []entities.Doctor {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]entities.Doctor, len(s.doctors))
	copy(out, s.doctors)
	return out
}

// Appointments returns a copy of the appointment collection
func (s *SchedulingService) Appointments() []entities.Appointment {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]entities.Appointment, len(s.appointments))
	copy(out, s.appointments)
	return out
}

// AddDoctor creates a doctor with a fresh unique ID. A nil slot template
// defaults to empty; duplicate slot labels are dropped.
func (s *SchedulingService) AddDoctor(ctx context.Context, doctor entities.Doctor) entities.Doctor {
	doctor.ID = uuid.New().String()
	doctor.AvailableSlots = entities.DedupeSlots(doctor.AvailableSlots)

	s.mu.Lock()
	s.doctors = append(s.doctors, doctor)
	s.mu.Unlock()

	s.persistDoctors(ctx)
	return doctor
}

// UpdateDoctor merges patch onto the doctor with the given ID
func (s *SchedulingService) UpdateDoctor(ctx context.Context, id string, patch entities.DoctorPatch) error {
	s.mu.Lock()
	idx := -1
	for i := range s.doctors {
		if s.doctors[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.mu.Unlock()
		return apperrors.NewNotFoundError(fmt.Sprintf("doctor with id %s not found", id))
	}

	doctor := &s.doctors[idx]
	if patch.Name != nil {
		doctor.Name = *patch.Name
	}
	if patch.Email != nil {
		doctor.Email = *patch.Email
	}
	if patch.Phone != nil {
		doctor.Phone = *patch.Phone
	}
	if patch.Specialization != nil {
		doctor.Specialization = *patch.Specialization
	}
	if patch.Qualification != nil {
		doctor.Qualification = *patch.Qualification
	}
	if patch.Experience != nil {
		doctor.Experience = *patch.Experience
	}
	if patch.AvailableSlots != nil {
		doctor.AvailableSlots = entities.DedupeSlots(*patch.AvailableSlots)
	}
	s.mu.Unlock()

	s.persistDoctors(ctx)
	return nil
}

// DeleteDoctor removes the doctor with the given ID and cascades to every
// appointment referencing it, regardless of status.
func (s *SchedulingService) DeleteDoctor(ctx context.Context, id string) error {
	s.mu.Lock()
	found := false
	doctors := s.doctors[:0]
	for _, d := range s.doctors {
		if d.ID == id {
			found = true
			continue
		}
		doctors = append(doctors, d)
	}
	if !found {
		s.mu.Unlock()
		return apperrors.NewNotFoundError(fmt.Sprintf("doctor with id %s not found", id))
	}
	s.doctors = doctors

	appointments := s.appointments[:0]
	for _, a := range s.appointments {
		if a.DoctorID == id {
			continue
		}
		appointments = append(appointments, a)
	}
	s.appointments = appointments
	s.mu.Unlock()

	s.persistDoctors(ctx)
	s.persistAppointments(ctx)
	return nil
}

// BookAppointment books a slot. The appointment enters at confirmed and is
// persisted before the call returns, so a context switch right after booking
// always observes it.
//
// In strict mode the service first reconciles with the latest persisted
// appointments and rejects the booking with a conflict error when the slot is
// already occupied. With strict off it trusts the caller completely, matching
// the original last-write-wins behavior.
func (s *SchedulingService) BookAppointment(ctx context.Context, appointment entities.Appointment) (entities.Appointment, error) {
	if s.strict {
		s.bookMu.Lock()
		defer s.bookMu.Unlock()
		s.reloadAppointments(ctx)
	}

	appointment.ID = uuid.New().String()
	appointment.Status = entities.AppointmentStatusConfirmed
	appointment.CreatedAt = time.Now()

	s.mu.Lock()
	if s.strict {
		available := false
		for _, slot := range s.availableSlotsLocked(appointment.DoctorID, appointment.Date) {
			if slot == appointment.Time {
				available = true
				break
			}
		}
		if !available {
			s.mu.Unlock()
			return entities.Appointment{}, apperrors.NewConflictError(
				fmt.Sprintf("slot %s on %s is not available", appointment.Time, appointment.Date))
		}
	}
	s.appointments = append(s.appointments, appointment)
	s.mu.Unlock()

	s.persistAppointments(ctx)
	return appointment, nil
}

// UpdateAppointment merges patch onto the appointment with the given ID. The
// store does not police status transitions; callers validate them.
func (s *SchedulingService) UpdateAppointment(ctx context.Context, id string, patch entities.AppointmentPatch) error {
	s.mu.Lock()
	idx := -1
	for i := range s.appointments {
		if s.appointments[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.mu.Unlock()
		return apperrors.NewNotFoundError(fmt.Sprintf("appointment with id %s not found", id))
	}

	appointment := &s.appointments[idx]
	if patch.Status != nil {
		appointment.Status = *patch.Status
	}
	if patch.Date != nil {
		appointment.Date = *patch.Date
	}
	if patch.Time != nil {
		appointment.Time = *patch.Time
	}
	if patch.PatientName != nil {
		appointment.PatientName = *patch.PatientName
	}
	if patch.PatientPhone != nil {
		appointment.PatientPhone = *patch.PatientPhone
	}
	if patch.PatientEmail != nil {
		appointment.PatientEmail = *patch.PatientEmail
	}
	s.mu.Unlock()

	s.persistAppointments(ctx)
	return nil
}

// DeleteAppointment removes the appointment with the given ID
func (s *SchedulingService) DeleteAppointment(ctx context.Context, id string) error {
	s.mu.Lock()
	found := false
	appointments := s.appointments[:0]
	for _, a := range s.appointments {
		if a.ID == id {
			found = true
			continue
		}
		appointments = append(appointments, a)
	}
	if !found {
		s.mu.Unlock()
		return apperrors.NewNotFoundError(fmt.Sprintf("appointment with id %s not found", id))
	}
	s.appointments = appointments
	s.mu.Unlock()

	s.persistAppointments(ctx)
	return nil
}

// GetAvailableSlots returns the doctor's slot template minus the times already
// occupied by a non-cancelled appointment on that date, in template order.
// Unknown doctors yield an empty result.
func (s *SchedulingService) GetAvailableSlots(ctx context.Context, doctorID, date string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.availableSlotsLocked(doctorID, date)
}

func (s *SchedulingService) availableSlotsLocked(doctorID, date string) []string {
	var doctor *entities.Doctor
	for i := range s.doctors {
		if s.doctors[i].ID == doctorID {
			doctor = &s.doctors[i]
			break
		}
	}
	if doctor == nil {
		return []string{}
	}

	booked := make(map[string]struct{})
	for _, a := range s.appointments {
		if a.DoctorID == doctorID && a.Date == date && a.OccupiesSlot() {
			booked[a.Time] = struct{}{}
		}
	}

	slots := make([]string, 0, len(doctor.AvailableSlots))
	for _, slot := range doctor.AvailableSlots {
		if _, taken := booked[slot]; !taken {
			slots = append(slots, slot)
		}
	}
	return slots
}

// RefreshFromStorage reloads both collections from the persistence medium,
// discarding divergent in-memory state. A key that is missing or malformed
// leaves the current in-memory collection for that key untouched.
func (s *SchedulingService) RefreshFromStorage(ctx context.Context) {
	s.reloadDoctors(ctx)
	s.reloadAppointments(ctx)
}

func (s *SchedulingService) reloadDoctors(ctx context.Context) {
	data, err := s.snapshots.Load(ctx, providers.SnapshotKeyDoctors)
	if err != nil {
		if err != providers.ErrSnapshotNotFound {
			log.Warn().Err(err).Msg("failed to reload doctors snapshot")
		}
		return
	}
	var doctors []entities.Doctor
	if err := json.Unmarshal(data, &doctors); err != nil {
		log.Warn().Err(err).Msg("malformed doctors snapshot, keeping in-memory state")
		return
	}
	s.mu.Lock()
	s.doctors = doctors
	s.mu.Unlock()
}

func (s *SchedulingService) reloadAppointments(ctx context.Context) {
	data, err := s.snapshots.Load(ctx, providers.SnapshotKeyAppointments)
	if err != nil {
		if err != providers.ErrSnapshotNotFound {
			log.Warn().Err(err).Msg("failed to reload appointments snapshot")
		}
		return
	}
	var appointments []entities.Appointment
	if err := json.Unmarshal(data, &appointments); err != nil {
		log.Warn().Err(err).Msg("malformed appointments snapshot, keeping in-memory state")
		return
	}
	s.mu.Lock()
	s.appointments = appointments
	s.mu.Unlock()
}

// OnChange registers a callback invoked after every local mutation and after
// every reload triggered by a foreign write. Callbacks must not block.
func (s *SchedulingService) OnChange(fn func(*entities.StoreEvent)) {
	s.listenerMu.Lock()
	defer s.listenerMu.Unlock()
	s.listeners = append(s.listeners, fn)
}

// StartSync subscribes to the store-updates channel and reloads from storage
// whenever another instance announces a write. It returns once the
// subscription is established; forwarding runs until ctx is cancelled.
func (s *SchedulingService) StartSync(ctx context.Context) error {
	eventChan, err := s.bus.Subscribe(ctx, providers.EventChannelStoreUpdates)
	if err != nil {
		return fmt.Errorf("failed to subscribe to store updates: %w", err)
	}

	go func() {
		for event := range eventChan {
			if event.Origin == s.origin {
				continue
			}
			s.RefreshFromStorage(ctx)
			s.notify(event)
		}
	}()

	return nil
}

func (s *SchedulingService) persistDoctors(ctx context.Context) {
	s.mu.RLock()
	data, err := json.Marshal(s.doctors)
	s.mu.RUnlock()
	if err != nil {
		log.Warn().Err(err).Msg("failed to encode doctors snapshot, keeping in-memory state")
		return
	}

	if err := s.snapshots.Save(ctx, providers.SnapshotKeyDoctors, data); err != nil {
		log.Warn().Err(err).Msg("failed to persist doctors snapshot, keeping in-memory state")
	} else {
		s.recordSnapshotWrite(ctx, providers.SnapshotKeyDoctors)
	}

	s.publish(ctx, providers.SnapshotKeyDoctors, entities.StoreEventDoctorsUpdated)
}

func (s *SchedulingService) persistAppointments(ctx context.Context) {
	s.mu.RLock()
	data, err := json.Marshal(s.appointments)
	s.mu.RUnlock()
	if err != nil {
		log.Warn().Err(err).Msg("failed to encode appointments snapshot, keeping in-memory state")
		return
	}

	if err := s.snapshots.Save(ctx, providers.SnapshotKeyAppointments, data); err != nil {
		log.Warn().Err(err).Msg("failed to persist appointments snapshot, keeping in-memory state")
	} else {
		s.recordSnapshotWrite(ctx, providers.SnapshotKeyAppointments)
	}

	s.publish(ctx, providers.SnapshotKeyAppointments, entities.StoreEventAppointmentsUpdated)
}

func (s *SchedulingService) recordSnapshotWrite(ctx context.Context, key string) {
	if s.metrics == nil {
		return
	}
	s.metrics.SnapshotWrites.Add(ctx, 1, metric.WithAttributes(
		attribute.String("key", key),
	))
}

func (s *SchedulingService) publish(ctx context.Context, key string, eventType entities.StoreEventType) {
	event := entities.NewStoreEvent(s.origin, key, eventType)

	if err := s.bus.Publish(ctx, providers.EventChannelStoreUpdates, event); err != nil {
		log.Warn().Err(err).Msg("failed to publish store event")
	}

	s.notify(event)
}

func (s *SchedulingService) notify(event *entities.StoreEvent) {
	s.listenerMu.RLock()
	defer s.listenerMu.RUnlock()
	for _, fn := range s.listeners {
		fn(event)
	}
}
