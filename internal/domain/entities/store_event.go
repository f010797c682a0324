package entities

import (
	"crypto/rand"
	"encoding/hex"
	"time"
)

// StoreEventType represents the kind of store change an event announces
type StoreEventType string

const (
	StoreEventDoctorsUpdated      StoreEventType = "doctors_updated"
	StoreEventAppointmentsUpdated StoreEventType = "appointments_updated"
)

// StoreEvent is emitted after every snapshot write. Origin identifies the store
// instance that produced the write, so an instance can ignore its own events and
// reload only on foreign ones.
type StoreEvent struct {
	ID        string         `json:"id"`
	Origin    string         `json:"origin"`
	Key       string         `json:"key"`
	EventType StoreEventType `json:"event_type"`
	Timestamp time.Time      `json:"timestamp"`
}

// NewStoreEvent creates a new store event
func NewStoreEvent(origin, key string, eventType StoreEventType) *StoreEvent {
	return &StoreEvent{
		ID:        generateEventID(),
		Origin:    origin,
		Key:       key,
		EventType: eventType,
		Timestamp: time.Now(),
	}
}

// generateEventID generates a unique event ID
func generateEventID() string {
	return time.Now().Format("20060102150405") + "-" + randomString(8)
}

// randomString generates a random string of specified length
func randomString(length int) string {
	bytes := make([]byte, length/2+1)
	if _, err := rand.Read(bytes); err != nil {
		// Fallback to timestamp-based if crypto/rand fails
		return time.Now().Format("150405.000")
	}
	return hex.EncodeToString(bytes)[:length]
}
