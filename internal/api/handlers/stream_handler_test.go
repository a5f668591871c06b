package handlers_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/zatekoja/rfp-response-pipeline/internal/api/handlers"
	"github.com/zatekoja/rfp-response-pipeline/internal/domain/entities"
	"github.com/zatekoja/rfp-response-pipeline/internal/domain/providers"
)

// stubEventBus hands out a prepared event channel and records the
// channel name it was asked to subscribe to.
type stubEventBus struct {
	events  chan *entities.ProcessEvent
	channel string
}

func (s *stubEventBus) Publish(ctx context.Context, channel string, event *entities.ProcessEvent) error {
	return nil
}

func (s *stubEventBus) Subscribe(ctx context.Context, channel string) (<-chan *entities.ProcessEvent, error) {
	s.channel = channel
	return s.events, nil
}

func (s *stubEventBus) Close() error { return nil }

func TestStreamHandler_StreamProcessUpdates(t *testing.T) {
	t.Run("forwards stage events until the channel closes", func(t *testing.T) {
		events := make(chan *entities.ProcessEvent, 1)
		events <- &entities.ProcessEvent{
			ID:        "evt-1",
			ProcessID: "proc-1",
			EventType: entities.ProcessEventDecisionCompleted,
			Status:    entities.ProcessStatusDecisionCompleted,
		}
		close(events)
		bus := &stubEventBus{events: events}
		handler := handlers.NewStreamHandler(bus)

		req := httptest.NewRequest(http.MethodGet, "/api/rfp/stream/proc-1", nil)
		req.SetPathValue("process_id", "proc-1")
		rec := httptest.NewRecorder()

		handler.StreamProcessUpdates(rec, req)

		assert.Equal(t, "text/event-stream", rec.Header().Get("Content-Type"))
		assert.Equal(t, providers.GetProcessChannel("proc-1"), bus.channel)

		body := rec.Body.String()
		assert.Contains(t, body, "event: connected")
		assert.Contains(t, body, "event: decision_completed")
		assert.Contains(t, body, `"process_id":"proc-1"`)
	})

	t.Run("requires a process id", func(t *testing.T) {
		handler := handlers.NewStreamHandler(&stubEventBus{})

		req := httptest.NewRequest(http.MethodGet, "/api/rfp/stream/", nil)
		rec := httptest.NewRecorder()

		handler.StreamProcessUpdates(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("responds 503 when no event bus is wired", func(t *testing.T) {
		handler := handlers.NewStreamHandler(nil)

		req := httptest.NewRequest(http.MethodGet, "/api/rfp/stream/proc-1", nil)
		req.SetPathValue("process_id", "proc-1")
		rec := httptest.NewRecorder()

		handler.StreamProcessUpdates(rec, req)

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})
}
