package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"learnportal-backend/internal/events"
	"learnportal-backend/internal/logger"
)

// EventsHandler streams row-change events to administrative dashboards over
// server-sent events. Clients are expected to re-query lists on any event.
type EventsHandler struct {
	bus *events.Bus
}

func NewEventsHandler(bus *events.Bus) *EventsHandler {
	return &EventsHandler{bus: bus}
}

func (h *EventsHandler) HandleStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeJSON(w, http.StatusInternalServerError, errorResponse{
			Code: "streaming_unsupported", Message: "streaming is not supported",
		})
		return
	}

	table := r.URL.Query().Get("table")
	ch, cancel := h.bus.Subscribe(table)
	defer cancel()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	// Periodic comments keep intermediaries from closing an idle stream.
	heartbeat := time.NewTicker(30 * time.Second)
	defer heartbeat.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-heartbeat.C:
			fmt.Fprint(w, ": heartbeat\n\n")
			flusher.Flush()
		case event, open := <-ch:
			if !open {
				return
			}
			payload, err := json.Marshal(event)
			if err != nil {
				logger.Error("failed to marshal event", "table", event.Table, "error", err)
				continue
			}
			fmt.Fprintf(w, "event: change\ndata: %s\n\n", payload)
			flusher.Flush()
		}
	}
}
