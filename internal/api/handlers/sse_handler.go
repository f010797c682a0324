package handlers

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/careslot/backend/internal/domain/providers"
)

// SSEHandler streams store-change events to clients over Server-Sent Events.
// It is the server-side counterpart of the browser storage event: a view that
// hears an update re-fetches the collections it renders.
type SSEHandler struct {
	eventBus providers.EventBus
}

// NewSSEHandler creates a new SSE handler
func NewSSEHandler(eventBus providers.EventBus) *SSEHandler {
	return &SSEHandler{
		eventBus: eventBus,
	}
}

// StreamUpdates handles SSE connections for store updates
// GET /api/stream/updates
func (h *SSEHandler) StreamUpdates(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		respondWithError(w, http.StatusInternalServerError, "streaming not supported")
		return
	}

	// Set headers for SSE
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")

	eventChan, err := h.eventBus.Subscribe(r.Context(), providers.EventChannelStoreUpdates)
	if err != nil {
		log.Printf("Failed to subscribe to channel %s: %v", providers.EventChannelStoreUpdates, err)
		return
	}

	// Send initial connection event
	h.sendEvent(w, "connected", map[string]interface{}{
		"timestamp": time.Now(),
	})
	flusher.Flush()

	// Keep connection alive and send events
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-ticker.C:
			// Send heartbeat
			h.sendEvent(w, "heartbeat", map[string]interface{}{
				"timestamp": time.Now(),
			})
			flusher.Flush()
		case event, ok := <-eventChan:
			if !ok {
				return
			}
			if event == nil {
				continue
			}
			h.sendEvent(w, string(event.EventType), event)
			flusher.Flush()
		}
	}
}

// sendEvent writes a single SSE event
func (h *SSEHandler) sendEvent(w http.ResponseWriter, eventType string, data interface{}) {
	payload, err := json.Marshal(data)
	if err != nil {
		log.Printf("Failed to marshal SSE event: %v", err)
		return
	}
	fmt.Fprintf(w, "event: %s\ndata: %s\n\n", eventType, payload)
}
