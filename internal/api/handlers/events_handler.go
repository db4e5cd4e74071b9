package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/zatekoja/recipemigration/internal/domain/providers"
	"github.com/zatekoja/recipemigration/internal/infrastructure/observability"
)

const defaultHeartbeat = 30 * time.Second

// MigrationEventsHandler streams migration progress as Server-Sent Events
type MigrationEventsHandler struct {
	eventBus  providers.EventBus
	heartbeat time.Duration
	clients   atomic.Int64
}

// NewMigrationEventsHandler creates a new events handler. A non-positive heartbeat uses 30s.
func NewMigrationEventsHandler(eventBus providers.EventBus, heartbeat time.Duration) *MigrationEventsHandler {
	if heartbeat <= 0 {
		heartbeat = defaultHeartbeat
	}
	return &MigrationEventsHandler{eventBus: eventBus, heartbeat: heartbeat}
}

// Stream handles GET /api/migrations/events. The optional run_id query parameter
// limits the stream to one run.
func (h *MigrationEventsHandler) Stream(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := observability.LoggerFromContext(ctx)
	runID := r.URL.Query().Get("run_id")

	flusher, ok := w.(http.Flusher)
	if !ok {
		respondWithError(w, http.StatusInternalServerError, "streaming not supported")
		return
	}

	eventChan, err := h.eventBus.Subscribe(ctx, providers.EventChannelMigrations)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to subscribe to migration events")
		respondWithError(w, http.StatusServiceUnavailable, "event stream unavailable")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	h.clients.Add(1)
	defer h.clients.Add(-1)

	h.sendEvent(w, "connected", map[string]interface{}{
		"run_id":    runID,
		"timestamp": time.Now().UTC(),
	})
	flusher.Flush()

	ticker := time.NewTicker(h.heartbeat)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Debug().Msg("Client disconnected from migration stream")
			return
		case <-ticker.C:
			h.sendEvent(w, "heartbeat", map[string]interface{}{
				"timestamp": time.Now().UTC(),
			})
			flusher.Flush()
		case event, ok := <-eventChan:
			if !ok {
				return
			}
			if runID != "" && event.RunID != runID {
				continue
			}
			h.sendEvent(w, string(event.EventType), event)
			flusher.Flush()
		}
	}
}

// Stats handles GET /api/migrations/events/stats
func (h *MigrationEventsHandler) Stats(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, map[string]int64{"connected_clients": h.ClientCount()})
}

// ClientCount returns the number of connected stream clients
func (h *MigrationEventsHandler) ClientCount() int64 {
	return h.clients.Load()
}

func (h *MigrationEventsHandler) sendEvent(w http.ResponseWriter, eventType string, data interface{}) {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return
	}
	fmt.Fprintf(w, "event: %s\n", eventType)
	fmt.Fprintf(w, "data: %s\n\n", jsonData)
}
