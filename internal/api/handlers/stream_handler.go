package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/zatekoja/rfp-response-pipeline/internal/domain/providers"
	"github.com/zatekoja/rfp-response-pipeline/internal/infrastructure/observability"
)

// StreamHandler streams pipeline stage events to clients over
// Server-Sent Events. The event bus is optional; deployments without
// Redis run without streaming.
type StreamHandler struct {
	events providers.EventBus
}

// NewStreamHandler creates a new stream handler.
func NewStreamHandler(events providers.EventBus) *StreamHandler {
	return &StreamHandler{events: events}
}

// StreamProcessUpdates handles GET /api/rfp/stream/{process_id}. The
// connection stays open until the client disconnects; stage events for
// the process are forwarded as they are published.
func (h *StreamHandler) StreamProcessUpdates(w http.ResponseWriter, r *http.Request) {
	processID := r.PathValue("process_id")
	if processID == "" {
		respondWithError(w, http.StatusBadRequest, "process_id is required")
		return
	}
	if h.events == nil {
		respondWithError(w, http.StatusServiceUnavailable, "event streaming is not configured")
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		respondWithError(w, http.StatusInternalServerError, "streaming not supported")
		return
	}

	eventChan, err := h.events.Subscribe(r.Context(), providers.GetProcessChannel(processID))
	if err != nil {
		observability.LoggerFromContext(r.Context()).Error().
			Err(err).
			Str("process_id", processID).
			Msg("failed to subscribe to process events")
		respondWithError(w, http.StatusInternalServerError, "failed to subscribe to process events")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	sendStreamEvent(w, "connected", map[string]interface{}{
		"process_id": processID,
		"timestamp":  time.Now().UTC(),
	})
	flusher.Flush()

	heartbeat := time.NewTicker(30 * time.Second)
	defer heartbeat.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-heartbeat.C:
			sendStreamEvent(w, "heartbeat", map[string]interface{}{
				"timestamp": time.Now().UTC(),
			})
			flusher.Flush()
		case event, open := <-eventChan:
			if !open {
				return
			}
			sendStreamEvent(w, event.EventType, event)
			flusher.Flush()
		}
	}
}

func sendStreamEvent(w http.ResponseWriter, eventType string, data interface{}) {
	payload, err := json.Marshal(data)
	if err != nil {
		observability.GetLogger().Warn().Err(err).Msg("failed to marshal stream event")
		return
	}
	fmt.Fprintf(w, "event: %s\n", eventType)
	fmt.Fprintf(w, "data: %s\n\n", payload)
}
